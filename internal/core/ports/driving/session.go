package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
)

// SessionController owns which screen is live on the display.
type SessionController interface {
	// Register adds a screen. Must be called before Start.
	// Returns ErrDuplicateScreen if the ID is taken and ErrInvalidInterval
	// if interval is not positive.
	Register(id domain.ScreenID, screen driven.Screen, interval time.Duration) error

	// Start makes the default screen live: one immediate render and commit,
	// then its refresh loop runs in the background.
	Start(ctx context.Context, defaultScreen domain.ScreenID) error

	// Switch makes a screen live. Switching to the live screen is a no-op.
	// Returns ErrUnknownScreen for unregistered IDs, leaving the session untouched.
	Switch(ctx context.Context, id domain.ScreenID) error

	// Run consumes button events in order until the source ends or ctx is
	// cancelled, then shuts the session down.
	Run(ctx context.Context, source driven.ButtonSource) error

	// Shutdown stops the live worker without touching the display.
	Shutdown(ctx context.Context) error

	// Current returns the live session, if any.
	Current() (domain.SessionInfo, bool)

	// Screens returns the registered screens in registration order.
	Screens() []domain.ScreenHandle
}
