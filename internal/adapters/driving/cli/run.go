package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/inkdash/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/inkdash/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
	"github.com/custodia-labs/inkdash/internal/core/services"
	"github.com/custodia-labs/inkdash/internal/logger"
	"github.com/custodia-labs/inkdash/internal/screens"
)

var (
	runDisplay string
	runButtons string
	runScreen  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the dashboard",
	Long: `Show the default screen and switch screens on button presses until
interrupted. The panel keeps its last frame after exit.

Display drivers:
  terminal - preview in this terminal, keys press buttons
  epaper   - Waveshare 2.13" HAT over SPI
  png      - write every frame to a PNG file

Button drivers:
  gpio     - physical buttons on GPIO pins
  terminal - keys in the terminal preview
  watch    - create a file named after the button in buttons.watch_dir
  none     - no input`,
	RunE: runDashboard,
}

func init() {
	runCmd.Flags().StringVar(&runDisplay, "display", "", "Override display.driver")
	runCmd.Flags().StringVar(&runButtons, "buttons", "", "Override buttons.driver")
	runCmd.Flags().StringVar(&runScreen, "screen", "", "Override dashboard.default_screen")
	rootCmd.AddCommand(runCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, cfg, err := loadDashboard()
	if err != nil {
		return err
	}
	if err := applyRunOverrides(cfg); err != nil {
		return err
	}

	logger.Section("Dashboard")
	logger.Info("config: %s", settings.ConfigPath())

	history, closeHistory := openHistory(cfg.DataDir)
	defer closeHistory()

	hw, err := openHardware(cfg, filepath.Dir(settings.ConfigPath()))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := hw.Close(); cerr != nil {
			cmd.PrintErrf("close devices: %v\n", cerr)
		}
	}()
	logger.Info("display: %s %v", hw.sink.Name(), hw.sink.Bounds())
	ctx = untilClosed(ctx, hw.done)

	entries, err := screens.NewRegistry().Build(cfg, hw.sink.Bounds())
	if err != nil {
		return err
	}

	controller := services.NewSessionController(hw.sink, history, services.SessionOptions{
		HandoffTimeout: cfg.HandoffTimeout,
		RenderBackoff:  cfg.RenderBackoff,
		RenderTimeout:  cfg.RenderTimeout,
		HistoryKeep:    cfg.HistoryKeep,
	})
	for _, e := range entries {
		if err := controller.Register(e.ID, e.Screen, e.Interval); err != nil {
			return err
		}
		logger.Debug("screen: %s every %s", e.ID, e.Interval)
	}

	if err := controller.Start(ctx, cfg.DefaultScreen); err != nil {
		_ = controller.Shutdown(context.WithoutCancel(ctx))
		return fmt.Errorf("start dashboard: %w", err)
	}
	return controller.Run(ctx, hw.buttons)
}

// untilClosed returns a context that is also cancelled when done closes.
func untilClosed(ctx context.Context, done <-chan struct{}) context.Context {
	if done == nil {
		return ctx
	}
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		select {
		case <-done:
			logger.Info("run: display closed")
		case <-ctx.Done():
		}
	}()
	return ctx
}

// openHistory opens the render log. History is optional: when the database
// cannot be opened the dashboard keeps an in-memory log for this run.
func openHistory(dataDir string) (driven.HistoryStore, func()) {
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		logger.Warn("history: %v, keeping history in memory", err)
		return memory.NewHistoryStore(), func() {}
	}
	return store.HistoryStore(), func() { _ = store.Close() }
}

// applyRunOverrides applies command line overrides and revalidates.
func applyRunOverrides(cfg *domain.DashboardConfig) error {
	if runDisplay != "" {
		cfg.Display.Driver = domain.DisplayDriver(runDisplay)
	}
	if runButtons != "" {
		cfg.Buttons.Driver = domain.ButtonDriver(runButtons)
	}
	if runScreen != "" {
		cfg.DefaultScreen = domain.ScreenID(runScreen)
	}
	return cfg.Validate()
}
