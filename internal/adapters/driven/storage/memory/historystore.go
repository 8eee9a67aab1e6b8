package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.HistoryStore.
// Records are kept in insertion order.
type HistoryStore struct {
	mu       sync.RWMutex
	renders  []domain.RenderRecord
	sessions []domain.SessionRecord
	index    map[string]int
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		index: make(map[string]int),
	}
}

// RecordRender appends a render attempt.
func (s *HistoryStore) RecordRender(_ context.Context, record *domain.RenderRecord) error {
	if record == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renders = append(s.renders, *record)
	return nil
}

// SaveSession creates or replaces a session by ID.
func (s *HistoryStore) SaveSession(_ context.Context, record *domain.SessionRecord) error {
	if record == nil || record.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[record.ID]; ok {
		s.sessions[i] = *record
		return nil
	}
	s.index[record.ID] = len(s.sessions)
	s.sessions = append(s.sessions, *record)
	return nil
}

// ListRenders returns recent render attempts, most recent first.
func (s *HistoryStore) ListRenders(
	_ context.Context, screenID domain.ScreenID, limit int,
) ([]domain.RenderRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.RenderRecord
	for i := len(s.renders) - 1; i >= 0; i-- {
		if limit > 0 && len(result) >= limit {
			break
		}
		if screenID != "" && s.renders[i].ScreenID != screenID {
			continue
		}
		result = append(result, s.renders[i])
	}
	return result, nil
}

// ListSessions returns recent sessions, most recent first.
func (s *HistoryStore) ListSessions(_ context.Context, limit int) ([]domain.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.SessionRecord
	for i := len(s.sessions) - 1; i >= 0; i-- {
		if limit > 0 && len(result) >= limit {
			break
		}
		result = append(result, s.sessions[i])
	}
	return result, nil
}

// PruneHistory keeps the most recent keep render records per screen.
func (s *HistoryStore) PruneHistory(_ context.Context, keep int) error {
	if keep < 0 {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[domain.ScreenID]int)
	kept := make([]domain.RenderRecord, 0, len(s.renders))
	for i := len(s.renders) - 1; i >= 0; i-- {
		r := s.renders[i]
		if counts[r.ScreenID] >= keep {
			continue
		}
		counts[r.ScreenID]++
		kept = append(kept, r)
	}

	// kept is newest first; restore insertion order.
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	s.renders = kept
	return nil
}
