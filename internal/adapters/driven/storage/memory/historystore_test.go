package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/inkdash/internal/core/domain"
)

func render(screen domain.ScreenID, gen uint64) *domain.RenderRecord {
	return &domain.RenderRecord{
		SessionID:  "s",
		ScreenID:   screen,
		Generation: gen,
		Trigger:    domain.TriggerSchedule,
		StartedAt:  time.Now(),
		EndedAt:    time.Now(),
		Success:    true,
		Committed:  true,
	}
}

func TestHistoryStore_ListRendersNewestFirst(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()

	for gen := uint64(1); gen <= 3; gen++ {
		require.NoError(t, store.RecordRender(ctx, render(domain.ScreenQuotes, gen)))
	}
	require.NoError(t, store.RecordRender(ctx, render(domain.ScreenSky, 4)))

	all, err := store.ListRenders(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, uint64(4), all[0].Generation)

	quotes, err := store.ListRenders(ctx, domain.ScreenQuotes, 2)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, uint64(3), quotes[0].Generation)
	assert.Equal(t, uint64(2), quotes[1].Generation)
}

func TestHistoryStore_RecordRenderNil(t *testing.T) {
	store := NewHistoryStore()

	err := store.RecordRender(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistoryStore_SaveSessionUpserts(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()

	rec := &domain.SessionRecord{ID: "a", ScreenID: domain.ScreenQuotes, Generation: 1, StartedAt: time.Now()}
	require.NoError(t, store.SaveSession(ctx, rec))
	require.NoError(t, store.SaveSession(ctx, &domain.SessionRecord{ID: "b", ScreenID: domain.ScreenSky, Generation: 2}))

	rec.EndedAt = time.Now()
	rec.EndReason = domain.EndSwitched
	require.NoError(t, store.SaveSession(ctx, rec))

	sessions, err := store.ListSessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "b", sessions[0].ID)
	assert.Equal(t, domain.EndSwitched, sessions[1].EndReason)

	assert.ErrorIs(t, store.SaveSession(ctx, &domain.SessionRecord{}), domain.ErrInvalidInput)
}

func TestHistoryStore_PruneHistory(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()

	for gen := uint64(1); gen <= 5; gen++ {
		require.NoError(t, store.RecordRender(ctx, render(domain.ScreenQuotes, gen)))
	}
	require.NoError(t, store.RecordRender(ctx, render(domain.ScreenSystem, 6)))

	require.NoError(t, store.PruneHistory(ctx, 2))

	quotes, err := store.ListRenders(ctx, domain.ScreenQuotes, 0)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, uint64(5), quotes[0].Generation)
	assert.Equal(t, uint64(4), quotes[1].Generation)

	system, err := store.ListRenders(ctx, domain.ScreenSystem, 0)
	require.NoError(t, err)
	assert.Len(t, system, 1)

	assert.ErrorIs(t, store.PruneHistory(ctx, -1), domain.ErrInvalidInput)
}
