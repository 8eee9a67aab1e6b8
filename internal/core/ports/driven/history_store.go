package driven

import (
	"context"

	"github.com/custodia-labs/inkdash/internal/core/domain"
)

// HistoryStore persists the render and session log.
// It is append-mostly and never used to restore a session.
type HistoryStore interface {
	// RecordRender logs a render attempt.
	RecordRender(ctx context.Context, record *domain.RenderRecord) error

	// SaveSession creates or updates a session record based on ID.
	SaveSession(ctx context.Context, record *domain.SessionRecord) error

	// ListRenders returns recent render records, most recent first.
	// An empty screenID returns records for all screens.
	ListRenders(ctx context.Context, screenID domain.ScreenID, limit int) ([]domain.RenderRecord, error)

	// ListSessions returns recent sessions, most recent first.
	ListSessions(ctx context.Context, limit int) ([]domain.SessionRecord, error)

	// PruneHistory removes old render records beyond the retention limit.
	// Keeps the most recent 'keep' records per screen.
	PruneHistory(ctx context.Context, keep int) error
}
