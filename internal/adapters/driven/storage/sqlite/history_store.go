package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
)

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

// RecordRender logs a render attempt.
func (s *historyStore) RecordRender(ctx context.Context, r *domain.RenderRecord) error {
	if r == nil {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO render_history
			(session_id, screen_id, generation, render_trigger, started_at, ended_at, success, committed, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.SessionID, string(r.ScreenID), int64(r.Generation), string(r.Trigger),
		unixNano(r.StartedAt), unixNano(r.EndedAt),
		boolToInt(r.Success), boolToInt(r.Committed), nullString(r.Error))

	if err != nil {
		return fmt.Errorf("recording render: %w", err)
	}
	return nil
}

// SaveSession creates or updates a session record based on ID.
func (s *historyStore) SaveSession(ctx context.Context, r *domain.SessionRecord) error {
	if r == nil || r.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sessions (id, screen_id, generation, started_at, ended_at, end_reason, degraded_handoff)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			ended_at = excluded.ended_at,
			end_reason = excluded.end_reason,
			degraded_handoff = excluded.degraded_handoff
	`, r.ID, string(r.ScreenID), int64(r.Generation), unixNano(r.StartedAt),
		nullableUnixNano(r.EndedAt), nullString(string(r.EndReason)), boolToInt(r.DegradedHandoff))

	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// ListRenders returns recent render records, most recent first.
func (s *historyStore) ListRenders(
	ctx context.Context, screenID domain.ScreenID, limit int,
) ([]domain.RenderRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT session_id, screen_id, generation, render_trigger, started_at, ended_at, success, committed, error
		FROM render_history
		WHERE ? = '' OR screen_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, string(screenID), string(screenID), limit)
	if err != nil {
		return nil, fmt.Errorf("querying render history: %w", err)
	}
	defer rows.Close()

	var records []domain.RenderRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		r, err := scanRender(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating render history: %w", err)
	}
	return records, nil
}

// ListSessions returns recent sessions, most recent first.
func (s *historyStore) ListSessions(ctx context.Context, limit int) ([]domain.SessionRecord, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, screen_id, generation, started_at, ended_at, end_reason, degraded_handoff
		FROM sessions
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var records []domain.SessionRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		r, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return records, nil
}

// PruneHistory removes old render records beyond the retention limit.
// Keeps the most recent 'keep' records per screen.
func (s *historyStore) PruneHistory(ctx context.Context, keep int) error {
	if keep < 0 {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM render_history
		WHERE id NOT IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY screen_id ORDER BY id DESC) as rn
				FROM render_history
			) WHERE rn <= ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning render history: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

func scanRender(rows *sql.Rows) (*domain.RenderRecord, error) {
	var r domain.RenderRecord
	var screenID, trigger string
	var generation, startedAt, endedAt int64
	var success, committed int
	var errMsg sql.NullString

	if err := rows.Scan(&r.SessionID, &screenID, &generation, &trigger,
		&startedAt, &endedAt, &success, &committed, &errMsg); err != nil {
		return nil, fmt.Errorf("scanning render record: %w", err)
	}

	r.ScreenID = domain.ScreenID(screenID)
	r.Generation = uint64(generation)
	r.Trigger = domain.RenderTrigger(trigger)
	r.StartedAt = fromUnixNano(startedAt)
	r.EndedAt = fromUnixNano(endedAt)
	r.Success = success == 1
	r.Committed = committed == 1
	if errMsg.Valid {
		r.Error = errMsg.String
	}
	return &r, nil
}

func scanSession(rows *sql.Rows) (*domain.SessionRecord, error) {
	var r domain.SessionRecord
	var screenID string
	var generation, startedAt int64
	var endedAt sql.NullInt64
	var endReason sql.NullString
	var degraded int

	if err := rows.Scan(&r.ID, &screenID, &generation, &startedAt,
		&endedAt, &endReason, &degraded); err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	r.ScreenID = domain.ScreenID(screenID)
	r.Generation = uint64(generation)
	r.StartedAt = fromUnixNano(startedAt)
	if endedAt.Valid {
		r.EndedAt = fromUnixNano(endedAt.Int64)
	}
	if endReason.Valid {
		r.EndReason = domain.SessionEndReason(endReason.String)
	}
	r.DegradedHandoff = degraded == 1
	return &r, nil
}

// unixNano stores times as integers so ordering is exact.
func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

// nullableUnixNano returns nil for zero time.
func nullableUnixNano(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a bool to 1 (true) or 0 (false).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
