package tui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/inkdash/internal/adapters/driving/tui/components/frameview"
	"github.com/custodia-labs/inkdash/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/inkdash/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/inkdash/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/inkdash/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
)

// ErrPreviewClosed is returned by Commit after the preview has exited.
var ErrPreviewClosed = errors.New("preview closed")

// eventBuffer is how many presses may queue while a switch is running.
const eventBuffer = 16

// App is the preview model following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	status *status.Bar

	// press queues a button label for the session controller.
	// Returns false when the queue is full.
	press func(label string) bool

	art      string
	showHelp bool

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the preview model. press receives bound button labels.
func NewApp(buttons domain.ButtonsConfig, press func(label string) bool) *App {
	s := styles.DefaultStyles()
	km := keymap.NewKeyMap(buttons)
	return &App{
		styles: s,
		keymap: km,
		status: status.NewBar(s, km),
		press:  press,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("inkdash")
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		if label, ok := a.keymap.Match(msg); ok {
			return a, a.pressCmd(label)
		}
		switch {
		case key.Matches(msg, a.keymap.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keymap.Help):
			a.showHelp = !a.showHelp
		}

	case messages.ButtonPressed:
		a.status.SetMessage("pressed "+msg.Label, false)

	case messages.ButtonDropped:
		a.status.SetMessage("busy, dropped "+msg.Label, true)

	case messages.FrameCommitted:
		a.art = msg.Art
		a.status.FrameShown(msg.ScreenID)
		a.status.SetMessage(msg.At.Format("15:04:05"), false)
	}

	return a, nil
}

func (a *App) pressCmd(label string) tea.Cmd {
	if a.press == nil || !a.press(label) {
		return func() tea.Msg { return messages.ButtonDropped{Label: label} }
	}
	return func() tea.Msg { return messages.ButtonPressed{Label: label} }
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	body := a.art
	if body == "" {
		body = a.styles.Muted.Render("no frame yet")
	}

	sections := []string{a.styles.Panel.Render(body), a.status.View()}
	if a.showHelp {
		sections = append(sections, a.viewHelp())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) viewHelp() string {
	var lines []string
	for _, group := range a.keymap.FullHelp() {
		for _, b := range group {
			h := b.Help()
			lines = append(lines, fmt.Sprintf("  %-6s %s", h.Key, h.Desc))
		}
	}
	return a.styles.Help.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Art returns the last rendered frame.
func (a *App) Art() string {
	return a.art
}

// Status returns the status bar.
func (a *App) Status() *status.Bar {
	return a.status
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.status.SetWidth(width)
}

// Preview runs the App in a Bubbletea program and exposes it as the
// display sink and button source of the dashboard.
type Preview struct {
	program *tea.Program
	buttons domain.ButtonsConfig
	bounds  image.Rectangle

	events chan domain.ButtonEvent
	done   chan struct{}

	startOnce sync.Once
	mu        sync.Mutex
	runErr    error
}

var (
	_ driven.DisplaySink  = (*Preview)(nil)
	_ driven.ButtonSource = (*Preview)(nil)
)

// NewPreview creates a preview for a display of the given size.
// opts are passed to tea.NewProgram.
func NewPreview(display domain.DisplayConfig, buttons domain.ButtonsConfig, opts ...tea.ProgramOption) *Preview {
	p := &Preview{
		buttons: buttons,
		bounds:  image.Rect(0, 0, display.Width, display.Height),
		events:  make(chan domain.ButtonEvent, eventBuffer),
		done:    make(chan struct{}),
	}
	p.program = tea.NewProgram(NewApp(buttons, p.enqueue), opts...)
	return p
}

// Start runs the program in the background. Calling Start twice is safe.
func (p *Preview) Start() {
	p.startOnce.Do(func() {
		go func() {
			defer close(p.done)
			_, err := p.program.Run()
			p.mu.Lock()
			p.runErr = err
			p.mu.Unlock()
		}()
	})
}

// enqueue is called from the program loop; it never blocks.
func (p *Preview) enqueue(label string) bool {
	select {
	case p.events <- p.buttons.Resolve(label, time.Now()):
		return true
	default:
		return false
	}
}

// Commit shows a frame in the terminal.
func (p *Preview) Commit(_ context.Context, frame domain.Frame) error {
	select {
	case <-p.done:
		return ErrPreviewClosed
	default:
	}

	p.program.Send(messages.FrameCommitted{
		ScreenID: frame.ScreenID,
		At:       frame.RenderedAt,
		Art:      frameview.Render(frame.Image),
	})
	return nil
}

// Bounds returns the simulated panel size.
func (p *Preview) Bounds() image.Rectangle {
	return p.bounds
}

// Name returns the sink name.
func (p *Preview) Name() string {
	return "terminal"
}

// Next blocks until a key is pressed. Returns io.EOF once the preview quits.
func (p *Preview) Next(ctx context.Context) (domain.ButtonEvent, error) {
	select {
	case <-ctx.Done():
		return domain.ButtonEvent{}, ctx.Err()
	case ev := <-p.events:
		return ev, nil
	case <-p.done:
		return domain.ButtonEvent{}, io.EOF
	}
}

// Done is closed when the program exits.
func (p *Preview) Done() <-chan struct{} {
	return p.done
}

// Close stops the program and waits for it to restore the terminal.
func (p *Preview) Close() error {
	p.Start()
	p.program.Quit()
	<-p.done

	p.mu.Lock()
	defer p.mu.Unlock()
	if errors.Is(p.runErr, tea.ErrProgramKilled) {
		return nil
	}
	return p.runErr
}
