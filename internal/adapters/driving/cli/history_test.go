package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/inkdash/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/inkdash/internal/core/domain"
)

func seedHistory(t *testing.T, dataDir string) {
	t.Helper()
	store, err := sqlite.NewStore(dataDir)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	h := store.HistoryStore()
	start := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, h.RecordRender(ctx, &domain.RenderRecord{
		SessionID: "s1", ScreenID: domain.ScreenSky, Generation: 1, Trigger: domain.TriggerSwitch,
		StartedAt: start, EndedAt: start.Add(1200 * time.Millisecond), Success: true, Committed: true,
	}))
	require.NoError(t, h.RecordRender(ctx, &domain.RenderRecord{
		SessionID: "s2", ScreenID: domain.ScreenSystem, Generation: 2, Trigger: domain.TriggerRetry,
		StartedAt: start.Add(time.Minute), EndedAt: start.Add(time.Minute), Error: "render failed: disk",
	}))
	require.NoError(t, h.SaveSession(ctx, &domain.SessionRecord{
		ID: "s1", ScreenID: domain.ScreenSky, Generation: 1, StartedAt: start,
		EndedAt: start.Add(time.Minute), EndReason: domain.EndSwitched, DegradedHandoff: true,
	}))
	require.NoError(t, h.SaveSession(ctx, &domain.SessionRecord{
		ID: "s2", ScreenID: domain.ScreenSystem, Generation: 2, StartedAt: start.Add(time.Minute),
	}))
}

func TestHistoryCmd_Renders(t *testing.T) {
	env := newTestEnv(t, "")
	seedHistory(t, env.dataDir)

	out, err := execute(t, context.Background(), "history", "--config", env.dir)

	require.NoError(t, err)
	assert.Contains(t, out, "TRIGGER")
	assert.Regexp(t, `system\s+retry\s+failed`, out)
	assert.Regexp(t, `sky\s+switch\s+ok\s+1\.2s`, out)
	assert.Contains(t, out, "render failed: disk")
}

func TestHistoryCmd_FiltersByScreen(t *testing.T) {
	env := newTestEnv(t, "")
	seedHistory(t, env.dataDir)

	out, err := execute(t, context.Background(), "history", "sky", "--config", env.dir, "--limit", "5")

	require.NoError(t, err)
	assert.Contains(t, out, "sky")
	assert.NotContains(t, out, "retry")
}

func TestHistoryCmd_Sessions(t *testing.T) {
	env := newTestEnv(t, "")
	seedHistory(t, env.dataDir)

	out, err := execute(t, context.Background(), "history", "--sessions", "--config", env.dir)

	require.NoError(t, err)
	assert.Regexp(t, `system\s+2\s+live`, out)
	assert.Regexp(t, `switched\s+degraded`, out)
}

func TestHistoryCmd_Empty(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := execute(t, context.Background(), "history", "--config", env.dir)

	require.NoError(t, err)
	assert.Contains(t, out, "No renders recorded.")
}

func TestRenderResult(t *testing.T) {
	assert.Equal(t, "failed", renderResult(domain.RenderRecord{}))
	assert.Equal(t, "fenced", renderResult(domain.RenderRecord{Success: true}))
	assert.Equal(t, "ok", renderResult(domain.RenderRecord{Success: true, Committed: true}))
}
