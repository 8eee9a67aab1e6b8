package services

import (
	"context"
	"errors"
	"image"
	"io"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
)

// --- Mock implementations for session testing ---

var (
	_ driven.Screen       = (*mockScreen)(nil)
	_ driven.DisplaySink  = (*mockSink)(nil)
	_ driven.ButtonSource = (*chanSource)(nil)
	_ driven.HistoryStore = (*mockHistoryStore)(nil)
)

var errMockRender = errors.New("upstream unavailable")

// mockScreen renders a small gray frame.
// failFor makes the first N renders fail; a negative value fails forever.
// failOn fails the listed renders, counted from 1.
// When block is set, every render after the first waits for it to close.
type mockScreen struct {
	name string

	mu        sync.Mutex
	renders   int
	failFor   int
	failOn    map[int]bool
	block     chan struct{}
	rendering chan struct{}
}

func newMockScreen(name string) *mockScreen {
	return &mockScreen{name: name, rendering: make(chan struct{}, 1)}
}

func (m *mockScreen) Name() string { return m.name }

func (m *mockScreen) Render(_ context.Context) (domain.Frame, error) {
	m.mu.Lock()
	m.renders++
	n := m.renders
	failFor := m.failFor
	failOn := m.failOn[n]
	block := m.block
	m.mu.Unlock()

	if block != nil && n > 1 {
		select {
		case m.rendering <- struct{}{}:
		default:
		}
		<-block
	}
	if failOn || failFor < 0 || n <= failFor {
		return domain.Frame{}, errMockRender
	}
	return domain.Frame{Image: image.NewGray(image.Rect(0, 0, 8, 4))}, nil
}

func (m *mockScreen) Renders() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.renders
}

// mockSink records committed frames and flags overlapping commits.
type mockSink struct {
	mu       sync.Mutex
	frames   []domain.Frame
	failFor  int
	closed   bool
	inFlight atomic.Int32
	overlap  atomic.Bool
}

func newMockSink() *mockSink { return &mockSink{} }

func (m *mockSink) Commit(_ context.Context, frame domain.Frame) error {
	if m.inFlight.Add(1) > 1 {
		m.overlap.Store(true)
	}
	defer m.inFlight.Add(-1)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor > 0 {
		m.failFor--
		return errors.New("spi busy")
	}
	m.frames = append(m.frames, frame)
	return nil
}

func (m *mockSink) Bounds() image.Rectangle { return image.Rect(0, 0, 8, 4) }
func (m *mockSink) Name() string            { return "mock" }

func (m *mockSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockSink) Frames() []domain.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Frame, len(m.frames))
	copy(out, m.frames)
	return out
}

func (m *mockSink) Count(id domain.ScreenID) int {
	n := 0
	for _, f := range m.Frames() {
		if f.ScreenID == id {
			n++
		}
	}
	return n
}

func (m *mockSink) Last() domain.ScreenID {
	frames := m.Frames()
	if len(frames) == 0 {
		return ""
	}
	return frames[len(frames)-1].ScreenID
}

// chanSource feeds button events from a channel; closing it ends the stream.
type chanSource struct {
	events chan domain.ButtonEvent
	err    error
}

func newChanSource() *chanSource {
	return &chanSource{events: make(chan domain.ButtonEvent)}
}

func (s *chanSource) Next(ctx context.Context) (domain.ButtonEvent, error) {
	select {
	case <-ctx.Done():
		return domain.ButtonEvent{}, ctx.Err()
	case ev, ok := <-s.events:
		if !ok {
			if s.err != nil {
				return domain.ButtonEvent{}, s.err
			}
			return domain.ButtonEvent{}, io.EOF
		}
		return ev, nil
	}
}

func (s *chanSource) Close() error { return nil }

// mockHistoryStore fails every call when err is set.
type mockHistoryStore struct {
	mu       sync.Mutex
	renders  []domain.RenderRecord
	sessions map[string]domain.SessionRecord
	pruned   int
	err      error
}

func newMockHistoryStore() *mockHistoryStore {
	return &mockHistoryStore{sessions: make(map[string]domain.SessionRecord)}
}

func (m *mockHistoryStore) RecordRender(_ context.Context, r *domain.RenderRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.renders = append(m.renders, *r)
	return nil
}

func (m *mockHistoryStore) SaveSession(_ context.Context, r *domain.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sessions[r.ID] = *r
	return nil
}

func (m *mockHistoryStore) ListRenders(_ context.Context, id domain.ScreenID, limit int) ([]domain.RenderRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.RenderRecord
	for i := len(m.renders) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if id == "" || m.renders[i].ScreenID == id {
			out = append(out, m.renders[i])
		}
	}
	return out, nil
}

func (m *mockHistoryStore) ListSessions(_ context.Context, limit int) ([]domain.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.SessionRecord, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockHistoryStore) PruneHistory(_ context.Context, keep int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.pruned = keep
	return nil
}

func (m *mockHistoryStore) Renders() []domain.RenderRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.RenderRecord, len(m.renders))
	copy(out, m.renders)
	return out
}

func (m *mockHistoryStore) Session(gen uint64) (domain.SessionRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.Generation == gen {
			return s, true
		}
	}
	return domain.SessionRecord{}, false
}
