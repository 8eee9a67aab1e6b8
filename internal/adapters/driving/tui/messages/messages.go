// Package messages defines Bubbletea message types for the preview.
package messages

import (
	"time"

	"github.com/custodia-labs/inkdash/internal/core/domain"
)

// FrameCommitted carries a committed frame, already rasterised for the terminal.
type FrameCommitted struct {
	ScreenID domain.ScreenID
	At       time.Time
	Art      string
}

// ButtonPressed is sent when a key bound to a button is pressed.
type ButtonPressed struct {
	Label string
}

// ButtonDropped is sent when a press could not be queued.
type ButtonDropped struct {
	Label string
}
