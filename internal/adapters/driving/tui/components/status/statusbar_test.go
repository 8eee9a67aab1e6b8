package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/inkdash/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/inkdash/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/inkdash/internal/core/domain"
)

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
	assert.Nil(t, bar.Init())
}

func TestStatusBar_Update(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_FrameShown(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), nil)
	assert.Contains(t, bar.View(), "waiting for first frame")

	bar.FrameShown(domain.ScreenWeather)
	bar.FrameShown(domain.ScreenWeather)

	assert.Equal(t, domain.ScreenWeather, bar.Screen())
	assert.Equal(t, 2, bar.Commits())
	assert.Contains(t, bar.View(), "weather")
	assert.Contains(t, bar.View(), "2 frames")
}

func TestStatusBar_ViewShowsHints(t *testing.T) {
	km := keymap.NewKeyMap(domain.DefaultDashboardConfig().Buttons)
	bar := NewBar(nil, km)
	bar.SetWidth(200)

	view := bar.View()

	assert.Contains(t, view, "a: quotes")
	assert.Contains(t, view, "q: quit")
}

func TestStatusBar_Message(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetMessage("dropped press B", true)

	assert.Equal(t, "dropped press B", bar.Message())
	assert.Contains(t, bar.View(), "dropped press B")
}
