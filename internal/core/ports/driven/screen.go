package driven

import (
	"context"

	"github.com/custodia-labs/inkdash/internal/core/domain"
)

// Screen produces frames for one logical screen.
// Implementations fetch their own data and compose a full image on every call.
type Screen interface {
	// Name returns a human-readable name for logging and listings.
	Name() string

	// Render produces a fresh frame.
	// The context carries deadlines for data fetching; it is never cancelled
	// because the session was switched away, so a render runs to completion.
	Render(ctx context.Context) (domain.Frame, error)
}
