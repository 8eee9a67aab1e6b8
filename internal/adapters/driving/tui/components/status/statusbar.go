// Package status provides the status bar of the preview.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/inkdash/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/inkdash/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/inkdash/internal/core/domain"
)

// Bar displays the live screen, commit count and key hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	screen  domain.ScreenID
	commits int
	message string
	warn    bool
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.NewKeyMap(domain.ButtonsConfig{})
	}

	return &Bar{
		styles: s,
		keymap: km,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	var parts []string
	if s.screen == "" {
		parts = append(parts, s.styles.Muted.Render("waiting for first frame"))
	} else {
		parts = append(parts, s.styles.Title.Render(s.screen.String()),
			s.styles.Muted.Render(fmt.Sprintf("%d frames", s.commits)))
	}
	if s.message != "" {
		style := s.styles.Muted
		if s.warn {
			style = s.styles.Warning
		}
		parts = append(parts, style.Render(s.message))
	}
	return strings.Join(parts, "  ")
}

func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		hints = append(hints, formatHint(b))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

func formatHint(b key.Binding) string {
	h := b.Help()
	return fmt.Sprintf("%s: %s", h.Key, h.Desc)
}

// FrameShown records a committed frame.
func (s *Bar) FrameShown(id domain.ScreenID) {
	s.screen = id
	s.commits++
}

// SetMessage sets a transient message. warn renders it in the warning style.
func (s *Bar) SetMessage(message string, warn bool) {
	s.message = message
	s.warn = warn
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// Screen returns the screen of the last frame.
func (s *Bar) Screen() domain.ScreenID {
	return s.screen
}

// Commits returns how many frames have been shown.
func (s *Bar) Commits() int {
	return s.commits
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}
