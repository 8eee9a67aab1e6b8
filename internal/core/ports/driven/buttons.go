package driven

import (
	"context"

	"github.com/custodia-labs/inkdash/internal/core/domain"
)

// ButtonSource is a blocking sequence of input events.
type ButtonSource interface {
	// Next blocks until the next event is available.
	// Returns io.EOF when the source is exhausted, or ctx.Err() when
	// the context is cancelled. Any error ends the session loop.
	Next(ctx context.Context) (domain.ButtonEvent, error)

	// Close releases the underlying input device.
	Close() error
}
