package driving

import (
	"context"

	"github.com/custodia-labs/inkdash/internal/core/domain"
)

// HistoryService reads the render and session log.
type HistoryService interface {
	// RecentRenders returns the latest render attempts, most recent first.
	// An empty screenID returns attempts for all screens.
	RecentRenders(ctx context.Context, screenID domain.ScreenID, limit int) ([]domain.RenderRecord, error)

	// RecentSessions returns the latest sessions, most recent first.
	RecentSessions(ctx context.Context, limit int) ([]domain.SessionRecord, error)
}
