package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[dashboard]
default_screen = "weather"
handoff_timeout = "3s"
render_backoff = 45
history_keep = 200

[display]
driver = "png"
png_path = "/tmp/frame.png"

[buttons]
driver = "watch"
debounce = "250ms"

[buttons.map]
A = "weather"
B = "system"

[location]
latitude = 51.5
longitude = -1
city = "Oxford"

[screens.sky]
enabled = false
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0600))
	return dir
}

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "inkdash")

	_, err := NewConfigStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	dir := writeConfig(t, "[dashboard\nbroken")

	_, err := NewConfigStore(dir)

	assert.Error(t, err)
}

func TestConfigStore_LoadFlattensTables(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "weather", store.GetString("dashboard.default_screen"))
	assert.Equal(t, 200, store.GetInt("dashboard.history_keep"))
	assert.Equal(t, "png", store.GetString("display.driver"))
	assert.False(t, store.GetBool("screens.sky.enabled"))

	_, ok := store.Get("screens.sky.enabled")
	assert.True(t, ok)
	_, ok = store.Get("screens.quotes.enabled")
	assert.False(t, ok)
}

func TestConfigStore_GetDuration(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, store.GetDuration("dashboard.handoff_timeout"))
	assert.Equal(t, 45*time.Second, store.GetDuration("dashboard.render_backoff"))
	assert.Equal(t, 250*time.Millisecond, store.GetDuration("buttons.debounce"))
	assert.Zero(t, store.GetDuration("nonexistent"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.InDelta(t, 51.5, store.GetFloat("location.latitude"), 1e-9)
	assert.InDelta(t, -1.0, store.GetFloat("location.longitude"), 1e-9)
	assert.Zero(t, store.GetFloat("location.city"))
}

func TestConfigStore_GetStringMap(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"A": "weather", "B": "system"}, store.GetStringMap("buttons.map"))
	assert.Empty(t, store.GetStringMap("buttons.pins"))
}

func TestConfigStore_SetPersists(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("dashboard.default_screen", "system"))
	require.NoError(t, store.Set("dashboard.history_keep", 25))
	require.NoError(t, store.Set("display.drivers", []string{"png", "terminal"}))

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "system", reloaded.GetString("dashboard.default_screen"))
	assert.Equal(t, 25, reloaded.GetInt("dashboard.history_keep"))
	assert.Equal(t, []string{"png", "terminal"}, reloaded.GetStringSlice("display.drivers"))
}

func TestConfigStore_GetWrongType(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("int_key", 42))

	assert.Equal(t, "", store.GetString("int_key"))
	assert.False(t, store.GetBool("int_key"))
	assert.Nil(t, store.GetStringSlice("int_key"))
}

func TestConfigStore_LoadMissingFile(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Load())
	_, ok := store.Get("anything")
	assert.False(t, ok)
}
