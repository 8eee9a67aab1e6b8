package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("dashboard.default_screen", "sky"))

	val, ok := store.Get("dashboard.default_screen")
	assert.True(t, ok)
	assert.Equal(t, "sky", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("keep", 10)
	_ = store.Set("verbose", true)
	_ = store.Set("lat", 33.4)
	_ = store.Set("backoff", "30s")
	_ = store.Set("drivers", []any{"png", "epaper"})

	assert.Equal(t, 10, store.GetInt("keep"))
	assert.True(t, store.GetBool("verbose"))
	assert.InDelta(t, 33.4, store.GetFloat("lat"), 1e-9)
	assert.Equal(t, 30*time.Second, store.GetDuration("backoff"))
	assert.Equal(t, []string{"png", "epaper"}, store.GetStringSlice("drivers"))

	assert.Equal(t, "", store.GetString("keep"))
	assert.Zero(t, store.GetInt("missing"))
}

func TestConfigStore_GetStringMap(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("buttons.pins.A", "GPIO5")
	_ = store.Set("buttons.pins.B", "GPIO6")
	_ = store.Set("buttons.driver", "gpio")

	assert.Equal(t, map[string]string{"A": "GPIO5", "B": "GPIO6"}, store.GetStringMap("buttons.pins"))
}

func TestConfigStore_NoopPersistence(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("counter", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("counter")
		}()
	}
	wg.Wait()

	_, ok := store.Get("counter")
	assert.True(t, ok)
}
