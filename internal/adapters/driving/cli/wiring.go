package cli

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/custodia-labs/inkdash/internal/adapters/driven/buttons"
	"github.com/custodia-labs/inkdash/internal/adapters/driven/buttons/gpio"
	"github.com/custodia-labs/inkdash/internal/adapters/driven/buttons/watch"
	"github.com/custodia-labs/inkdash/internal/adapters/driven/config/file"
	"github.com/custodia-labs/inkdash/internal/adapters/driven/display/epaper"
	"github.com/custodia-labs/inkdash/internal/adapters/driven/display/pngfile"
	"github.com/custodia-labs/inkdash/internal/adapters/driving/tui"
	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
	"github.com/custodia-labs/inkdash/internal/core/services"
	"github.com/custodia-labs/inkdash/internal/logger"
)

// LogFileName receives log output while the terminal preview owns the screen.
const LogFileName = "inkdash.log"

// isTerminal reports whether stdout is an interactive terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// previewOptions are passed to the terminal preview program.
var previewOptions = []tea.ProgramOption{tea.WithAltScreen()}

// loadDashboard reads and validates the configuration.
func loadDashboard() (*services.SettingsService, *domain.DashboardConfig, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open config: %w", err)
	}
	settings := services.NewSettingsService(store)
	cfg, err := settings.Dashboard()
	if err != nil {
		return nil, nil, err
	}
	return settings, cfg, nil
}

// panelBounds is the drawable area for offline rendering.
func panelBounds(cfg *domain.DashboardConfig) image.Rectangle {
	return image.Rect(0, 0, cfg.Display.Width, cfg.Display.Height)
}

// hardware is the display and input pair for a run.
type hardware struct {
	sink    driven.DisplaySink
	buttons driven.ButtonSource

	// shared is set when the preview is both sink and source.
	shared bool

	// done is closed when the display goes away on its own, e.g. the
	// preview was quit. Nil for displays that cannot.
	done <-chan struct{}

	// logFile is set when logs were redirected away from the preview.
	logFile *os.File
}

// Close releases the input first so no press arrives for a closed panel.
func (h *hardware) Close() error {
	var errs []error
	if h.buttons != nil && !h.shared {
		errs = append(errs, h.buttons.Close())
	}
	if h.sink != nil {
		errs = append(errs, h.sink.Close())
	}
	if h.logFile != nil {
		errs = append(errs, h.logFile.Close())
	}
	return errors.Join(errs...)
}

// openHardware builds the display sink and button source for cfg. The
// terminal preview is only used on a TTY; elsewhere it falls back to a
// PNG file and no buttons.
var openHardware = func(cfg *domain.DashboardConfig, logDir string) (*hardware, error) {
	display, input := cfg.Display, cfg.Buttons
	if display.Driver == domain.DisplayTerminal && !isTerminal() {
		logger.Warn("run: stdout is not a terminal, writing frames to %s", pngPath(display))
		display.Driver = domain.DisplayPNG
	}
	if input.Driver == domain.ButtonsTerminal && display.Driver != domain.DisplayTerminal {
		logger.Warn("run: terminal buttons need the terminal display, buttons disabled")
		input.Driver = domain.ButtonsNone
	}

	h := &hardware{}
	switch display.Driver {
	case domain.DisplayTerminal:
		f, err := tea.LogToFile(filepath.Join(logDir, LogFileName), "inkdash")
		if err != nil {
			return nil, fmt.Errorf("redirect log: %w", err)
		}
		h.logFile = f
		logger.SetOutput(f)

		preview := tui.NewPreview(display, input, previewOptions...)
		preview.Start()
		h.sink = preview
		h.done = preview.Done()
		if input.Driver == domain.ButtonsTerminal {
			h.buttons = preview
			h.shared = true
		}
	case domain.DisplayEPaper:
		sink, err := epaper.Open(display)
		if err != nil {
			return nil, err
		}
		h.sink = sink
	case domain.DisplayPNG:
		sink, err := pngfile.NewSink(display)
		if err != nil {
			return nil, err
		}
		h.sink = sink
	default:
		return nil, fmt.Errorf("%w: display driver %q", domain.ErrInvalidInput, display.Driver)
	}

	if h.buttons == nil {
		src, err := openButtons(input)
		if err != nil {
			_ = h.Close()
			return nil, err
		}
		h.buttons = src
	}
	return h, nil
}

func openButtons(cfg domain.ButtonsConfig) (driven.ButtonSource, error) {
	switch cfg.Driver {
	case domain.ButtonsGPIO:
		src, err := gpio.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("open gpio buttons: %w", err)
		}
		return src, nil
	case domain.ButtonsWatch:
		src, err := watch.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("open watch buttons: %w", err)
		}
		return src, nil
	case domain.ButtonsNone:
		return buttons.NewIdle(), nil
	default:
		return nil, fmt.Errorf("%w: button driver %q", domain.ErrInvalidInput, cfg.Driver)
	}
}

func pngPath(cfg domain.DisplayConfig) string {
	if cfg.PNGPath != "" {
		return cfg.PNGPath
	}
	return pngfile.DefaultFileName
}
