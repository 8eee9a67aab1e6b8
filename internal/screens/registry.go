package screens

import (
	"fmt"
	"image"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
	"github.com/custodia-labs/inkdash/internal/screens/artwork"
	"github.com/custodia-labs/inkdash/internal/screens/quotes"
	"github.com/custodia-labs/inkdash/internal/screens/sky"
	"github.com/custodia-labs/inkdash/internal/screens/system"
	"github.com/custodia-labs/inkdash/internal/screens/weather"
)

// Builder creates a screen drawing into bounds.
type Builder func(cfg *domain.DashboardConfig, bounds image.Rectangle) (driven.Screen, error)

// Entry is a built screen with the interval it was configured with.
type Entry struct {
	ID       domain.ScreenID
	Screen   driven.Screen
	Interval time.Duration
}

// Registry maps screen IDs to builders.
type Registry struct {
	mu       sync.RWMutex
	builders map[domain.ScreenID]Builder
}

// NewRegistry returns a registry with the built-in screens.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[domain.ScreenID]Builder)}
	r.Register(domain.ScreenArtwork, func(_ *domain.DashboardConfig, b image.Rectangle) (driven.Screen, error) {
		return artwork.New(b), nil
	})
	r.Register(domain.ScreenQuotes, func(_ *domain.DashboardConfig, b image.Rectangle) (driven.Screen, error) {
		return quotes.New(b), nil
	})
	r.Register(domain.ScreenWeather, func(cfg *domain.DashboardConfig, b image.Rectangle) (driven.Screen, error) {
		return weather.New(b, cfg.Location, cfg.Weather.Units), nil
	})
	r.Register(domain.ScreenSky, func(cfg *domain.DashboardConfig, b image.Rectangle) (driven.Screen, error) {
		return sky.New(b, cfg.Location), nil
	})
	r.Register(domain.ScreenSystem, func(cfg *domain.DashboardConfig, b image.Rectangle) (driven.Screen, error) {
		return system.New(b, cfg.System), nil
	})
	return r
}

// Register adds or replaces the builder for a screen ID.
func (r *Registry) Register(id domain.ScreenID, builder Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[id] = builder
}

// Supported returns the registered screen IDs in sorted order.
func (r *Registry) Supported() []domain.ScreenID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]domain.ScreenID, 0, len(r.builders))
	for id := range r.builders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Create builds one screen.
// Returns ErrUnknownScreen if no builder is registered for id.
func (r *Registry) Create(id domain.ScreenID, cfg *domain.DashboardConfig, bounds image.Rectangle) (driven.Screen, error) {
	r.mu.RLock()
	builder, ok := r.builders[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownScreen, id)
	}

	s, err := builder(cfg, bounds)
	if err != nil {
		return nil, fmt.Errorf("build screen %s: %w", id, err)
	}
	return s, nil
}

// Build creates every enabled screen in configuration order.
func (r *Registry) Build(cfg *domain.DashboardConfig, bounds image.Rectangle) ([]Entry, error) {
	enabled := cfg.EnabledScreens()
	entries := make([]Entry, 0, len(enabled))
	for _, sc := range enabled {
		s, err := r.Create(sc.ID, cfg, bounds)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{ID: sc.ID, Screen: s, Interval: sc.Interval})
	}
	return entries, nil
}
