// Package keymap defines keybindings for the terminal preview.
package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/inkdash/internal/core/domain"
)

// Button binds keys to a dashboard button label.
type Button struct {
	Label   string
	Binding key.Binding
}

// KeyMap defines all keybindings for the preview.
type KeyMap struct {
	// Quit exits the preview and ends the button stream.
	Quit key.Binding

	// Help toggles the full key list.
	Help key.Binding

	// Buttons are the dashboard buttons, in label order.
	Buttons []Button
}

// NewKeyMap binds each button label to its lower- and upper-case key.
// Labels that collide with Quit or Help are still bound; the button wins.
func NewKeyMap(buttons domain.ButtonsConfig) *KeyMap {
	km := &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}

	for _, label := range buttons.Labels() {
		keys := []string{strings.ToLower(label)}
		if upper := strings.ToUpper(label); upper != keys[0] {
			keys = append(keys, upper)
		}
		km.Buttons = append(km.Buttons, Button{
			Label: label,
			Binding: key.NewBinding(
				key.WithKeys(keys...),
				key.WithHelp(keys[0], buttons.Map[label].String()),
			),
		})
	}
	return km
}

// Match returns the button label bound to msg.
func (k *KeyMap) Match(msg tea.KeyMsg) (string, bool) {
	for _, b := range k.Buttons {
		if key.Matches(msg, b.Binding) {
			return b.Label, true
		}
	}
	return "", false
}

// ShortHelp returns keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	bindings := make([]key.Binding, 0, len(k.Buttons)+1)
	for _, b := range k.Buttons {
		bindings = append(bindings, b.Binding)
	}
	return append(bindings, k.Quit)
}

// FullHelp returns all keybindings for the help overlay.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.ShortHelp(),
		{k.Help, k.Quit},
	}
}
