// Package system shows host health: CPU load, memory, SoC temperature,
// disk usage and uptime, each graded against warning and critical
// thresholds.
package system

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
	"github.com/custodia-labs/inkdash/internal/screens/canvas"
)

// Health levels, from best to worst.
const (
	LevelOK       = "ok"
	LevelWarning  = "warning"
	LevelCritical = "critical"
)

// Screen renders system health.
type Screen struct {
	bounds     image.Rectangle
	thresholds domain.SystemThresholds
	collector  *Collector
	now        func() time.Time
}

var _ driven.Screen = (*Screen)(nil)

// Option configures the screen.
type Option func(*Screen)

// WithCollector overrides where statistics are read from.
func WithCollector(c *Collector) Option {
	return func(s *Screen) { s.collector = c }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Screen) { s.now = now }
}

// New creates a system screen.
func New(bounds image.Rectangle, thresholds domain.SystemThresholds, opts ...Option) *Screen {
	s := &Screen{
		bounds:     bounds,
		thresholds: thresholds,
		collector:  NewCollector(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the display name.
func (s *Screen) Name() string {
	return "System"
}

// Render collects statistics and lays them out. Unavailable readings
// are shown as n/a rather than failing the render.
func (s *Screen) Render(_ context.Context) (domain.Frame, error) {
	now := s.now()
	st := s.collector.Collect()
	return domain.Frame{ScreenID: domain.ScreenSystem, Image: s.draw(st, now), RenderedAt: now}, nil
}

type row struct {
	label     string
	reading   Reading
	unit      string
	threshold domain.Threshold
}

func (s *Screen) rows(st Stats) []row {
	return []row{
		{"CPU", st.CPU, "%", s.thresholds.CPU},
		{"Mem", st.Memory, "%", s.thresholds.Memory},
		{"Temp", st.Temperature, "C", s.thresholds.Temperature},
		{"Disk", st.Disk, "%", s.thresholds.Disk},
	}
}

// Health grades the snapshot by its worst available reading.
func (s *Screen) Health(st Stats) string {
	worst := LevelOK
	for _, r := range s.rows(st) {
		if !r.reading.OK {
			continue
		}
		switch r.threshold.Level(r.reading.Value) {
		case LevelCritical:
			return LevelCritical
		case LevelWarning:
			worst = LevelWarning
		}
	}
	return worst
}

func (s *Screen) draw(st Stats, now time.Time) *image.Gray {
	c := canvas.New(s.bounds)
	b := c.Bounds()

	title := "System"
	if st.Hostname != "" {
		title += "  " + st.Hostname
	}
	health := s.Health(st)
	top := c.Header(title, healthLabel(health))

	const rowHeight = 18
	barX := b.Min.X + 92
	barW := b.Dx() - 92 - 30
	y := top + 3
	for _, r := range s.rows(st) {
		c.Text(b.Min.X+4, y, r.label, canvas.Black)
		if !r.reading.OK {
			c.TextRight(barX-6, y, "n/a", canvas.Black)
			c.Rect(barX, y+2, barX+barW-1, y+10, canvas.Black)
		} else {
			c.TextRight(barX-6, y, fmt.Sprintf("%.0f%s", r.reading.Value, r.unit), canvas.Black)
			c.Bar(barX, y+2, barW, 9, r.reading.Value)
			c.Text(barX+barW+4, y, marker(r.threshold.Level(r.reading.Value)), canvas.Black)
		}
		y += rowHeight
	}

	footer := "Up " + formatUptime(st.Uptime)
	if st.Load1.OK {
		footer += fmt.Sprintf("  Load %.2f", st.Load1.Value)
	}
	c.Line(b.Min.X+2, y, b.Max.X-3, y, canvas.Black)
	c.Text(b.Min.X+4, y+2, footer, canvas.Black)
	c.TextRight(b.Max.X-4, y+2, now.Format("15:04"), canvas.Black)
	return c.Image()
}

func healthLabel(level string) string {
	switch level {
	case LevelCritical:
		return "CRITICAL"
	case LevelWarning:
		return "WARNING"
	default:
		return "OK"
	}
}

func marker(level string) string {
	switch level {
	case LevelCritical:
		return "!!"
	case LevelWarning:
		return "!"
	default:
		return ""
	}
}

func formatUptime(d time.Duration) string {
	if d <= 0 {
		return "n/a"
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	return fmt.Sprintf("%dh %02dm", hours, mins)
}
