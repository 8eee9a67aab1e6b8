package services

import (
	"context"

	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
	"github.com/custodia-labs/inkdash/internal/core/ports/driving"
)

// Verify interface compliance.
var _ driving.HistoryService = (*HistoryService)(nil)

// DefaultHistoryLimit is used when callers pass a non-positive limit.
const DefaultHistoryLimit = 20

// HistoryService reads the render and session log.
type HistoryService struct {
	store driven.HistoryStore
}

// NewHistoryService creates a history service backed by store.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// RecentRenders returns the latest render attempts, most recent first.
func (s *HistoryService) RecentRenders(
	ctx context.Context, screenID domain.ScreenID, limit int,
) ([]domain.RenderRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.store.ListRenders(ctx, screenID, limit)
}

// RecentSessions returns the latest sessions, most recent first.
func (s *HistoryService) RecentSessions(ctx context.Context, limit int) ([]domain.SessionRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.store.ListSessions(ctx, limit)
}
