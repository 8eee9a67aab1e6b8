package buttons

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Debouncer drops presses of the same label that arrive within the
// debounce window. Each label has its own limiter.
type Debouncer struct {
	mu       sync.Mutex
	window   time.Duration
	limiters map[string]*rate.Limiter
}

// NewDebouncer creates a debouncer. A non-positive window lets every press through.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window:   window,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether a press of label at t should be delivered.
func (d *Debouncer) Allow(label string, t time.Time) bool {
	if d.window <= 0 {
		return true
	}

	d.mu.Lock()
	lim, ok := d.limiters[label]
	if !ok {
		lim = rate.NewLimiter(rate.Every(d.window), 1)
		d.limiters[label] = lim
	}
	d.mu.Unlock()

	return lim.AllowN(t, 1)
}
