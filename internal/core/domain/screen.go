package domain

import (
	"image"
	"time"
)

// ScreenID identifies a registered screen.
type ScreenID string

// String returns the string representation.
func (id ScreenID) String() string {
	return string(id)
}

// Built-in screen IDs.
const (
	ScreenArtwork ScreenID = "artwork"
	ScreenQuotes  ScreenID = "quotes"
	ScreenWeather ScreenID = "weather"
	ScreenSky     ScreenID = "sky"
	ScreenSystem  ScreenID = "system"
)

// ScreenHandle describes a registered screen.
// Handles are created at startup and are read-only afterwards.
type ScreenHandle struct {
	// ID is the key the screen was registered under.
	ID ScreenID

	// Name is a human-readable name for the screen.
	Name string

	// UpdateInterval is how often the screen wants to be re-rendered.
	// Always positive.
	UpdateInterval time.Duration
}

// Frame is a fully rendered image ready to be committed to the display.
// A frame is produced fresh on every render and never reused.
type Frame struct {
	// ScreenID identifies the screen that produced the frame.
	ScreenID ScreenID

	// Image holds the pixels. Bounds match the display the screen was built for.
	Image image.Image

	// RenderedAt is when the frame was produced.
	RenderedAt time.Time
}

// IsEmpty reports whether the frame carries no image.
func (f Frame) IsEmpty() bool {
	return f.Image == nil || f.Image.Bounds().Empty()
}
