package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/inkdash/internal/core/domain"
)

func newRender(screen domain.ScreenID, gen uint64, at time.Time) *domain.RenderRecord {
	return &domain.RenderRecord{
		SessionID:  "session-1",
		ScreenID:   screen,
		Generation: gen,
		Trigger:    domain.TriggerSchedule,
		StartedAt:  at,
		EndedAt:    at.Add(120 * time.Millisecond),
		Success:    true,
		Committed:  true,
	}
}

func TestHistoryStore_RecordAndListRenders(t *testing.T) {
	store := setupTestStore(t)
	history := store.HistoryStore()
	ctx := context.Background()
	base := time.Now()

	failed := newRender(domain.ScreenWeather, 2, base)
	failed.Success = false
	failed.Committed = false
	failed.Trigger = domain.TriggerRetry
	failed.Error = "render failed: 503"

	require.NoError(t, history.RecordRender(ctx, newRender(domain.ScreenQuotes, 1, base)))
	require.NoError(t, history.RecordRender(ctx, failed))

	all, err := history.ListRenders(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 2)

	got := all[0]
	assert.Equal(t, domain.ScreenWeather, got.ScreenID)
	assert.Equal(t, uint64(2), got.Generation)
	assert.Equal(t, domain.TriggerRetry, got.Trigger)
	assert.False(t, got.Success)
	assert.False(t, got.Committed)
	assert.Equal(t, "render failed: 503", got.Error)
	assert.Equal(t, base.UnixNano(), got.StartedAt.UnixNano())
	assert.Equal(t, 120*time.Millisecond, got.Duration())

	assert.Equal(t, domain.ScreenQuotes, all[1].ScreenID)
	assert.True(t, all[1].Committed)
	assert.Empty(t, all[1].Error)

	quotes, err := history.ListRenders(ctx, domain.ScreenQuotes, 0)
	require.NoError(t, err)
	assert.Len(t, quotes, 1)
}

func TestHistoryStore_RecordRenderNil(t *testing.T) {
	history := setupTestStore(t).HistoryStore()

	err := history.RecordRender(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistoryStore_SaveSessionUpsert(t *testing.T) {
	history := setupTestStore(t).HistoryStore()
	ctx := context.Background()
	base := time.Now()

	first := &domain.SessionRecord{ID: "a", ScreenID: domain.ScreenQuotes, Generation: 1, StartedAt: base}
	second := &domain.SessionRecord{ID: "b", ScreenID: domain.ScreenSky, Generation: 2, StartedAt: base.Add(time.Second)}
	require.NoError(t, history.SaveSession(ctx, first))
	require.NoError(t, history.SaveSession(ctx, second))

	first.EndedAt = base.Add(time.Second)
	first.EndReason = domain.EndSwitched
	first.DegradedHandoff = true
	require.NoError(t, history.SaveSession(ctx, first))

	sessions, err := history.ListSessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.Equal(t, "b", sessions[0].ID)
	assert.True(t, sessions[0].EndedAt.IsZero())
	assert.Empty(t, sessions[0].EndReason)

	assert.Equal(t, "a", sessions[1].ID)
	assert.Equal(t, domain.EndSwitched, sessions[1].EndReason)
	assert.True(t, sessions[1].DegradedHandoff)
	assert.Equal(t, first.EndedAt.UnixNano(), sessions[1].EndedAt.UnixNano())

	limited, err := history.ListSessions(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	assert.ErrorIs(t, history.SaveSession(ctx, &domain.SessionRecord{}), domain.ErrInvalidInput)
}

func TestHistoryStore_PruneHistory(t *testing.T) {
	history := setupTestStore(t).HistoryStore()
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 5; i++ {
		require.NoError(t, history.RecordRender(ctx, newRender(domain.ScreenQuotes, uint64(i+1), base)))
	}
	require.NoError(t, history.RecordRender(ctx, newRender(domain.ScreenSystem, 9, base)))

	require.NoError(t, history.PruneHistory(ctx, 2))

	quotes, err := history.ListRenders(ctx, domain.ScreenQuotes, 0)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, uint64(5), quotes[0].Generation)
	assert.Equal(t, uint64(4), quotes[1].Generation)

	system, err := history.ListRenders(ctx, domain.ScreenSystem, 0)
	require.NoError(t, err)
	assert.Len(t, system, 1)

	assert.ErrorIs(t, history.PruneHistory(ctx, -1), domain.ErrInvalidInput)
}
