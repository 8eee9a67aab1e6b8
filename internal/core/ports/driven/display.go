package driven

import (
	"context"
	"image"

	"github.com/custodia-labs/inkdash/internal/core/domain"
)

// DisplaySink accepts finished frames and shows them on the physical panel.
// Commit is slow (up to several seconds on e-paper) and not reentrant;
// the core guarantees a single caller at a time.
type DisplaySink interface {
	// Commit shows the frame. The previous frame stays visible on error.
	Commit(ctx context.Context, frame domain.Frame) error

	// Bounds returns the drawable area screens should render for.
	Bounds() image.Rectangle

	// Name returns a descriptive name for logging.
	Name() string

	// Close releases the device without clearing it.
	Close() error
}
