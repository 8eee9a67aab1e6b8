package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
	"github.com/custodia-labs/inkdash/internal/core/ports/driving"
	"github.com/custodia-labs/inkdash/internal/logger"
)

// Verify interface compliance.
var _ driving.SessionController = (*SessionController)(nil)

// Default session timings.
const (
	DefaultHandoffTimeout = 2 * time.Second
	DefaultRenderBackoff  = 30 * time.Second
)

// SessionOptions configures a SessionController.
// Zero durations fall back to the defaults.
type SessionOptions struct {
	// HandoffTimeout bounds how long a switch waits for the outgoing worker.
	HandoffTimeout time.Duration

	// RenderBackoff is the wait after a failed render before retrying.
	RenderBackoff time.Duration

	// RenderTimeout bounds a single render + commit. Zero means unbounded.
	RenderTimeout time.Duration

	// HistoryKeep is the render records kept per screen at shutdown.
	// Zero disables pruning.
	HistoryKeep int
}

type registration struct {
	handle domain.ScreenHandle
	screen driven.Screen
}

// session is one live screen: its cancel token, worker and generation.
type session struct {
	record domain.SessionRecord
	cancel context.CancelFunc
	worker *screenWorker
}

// SessionController owns the display and the single live session.
type SessionController struct {
	fence   *fencedSink
	history driven.HistoryStore
	opts    SessionOptions

	// opMu serialises Start, Switch and Shutdown.
	opMu sync.Mutex

	mu      sync.RWMutex
	order   []domain.ScreenID
	screens map[domain.ScreenID]*registration
	live    *session
	gen     uint64

	// started freezes the registry once a session has gone live.
	started bool
	closed  bool

	active atomic.Int32
}

// NewSessionController creates a controller that owns sink.
// history may be nil, in which case nothing is recorded.
func NewSessionController(sink driven.DisplaySink, history driven.HistoryStore, opts SessionOptions) *SessionController {
	if opts.HandoffTimeout <= 0 {
		opts.HandoffTimeout = DefaultHandoffTimeout
	}
	if opts.RenderBackoff <= 0 {
		opts.RenderBackoff = DefaultRenderBackoff
	}
	if opts.RenderTimeout < 0 {
		opts.RenderTimeout = 0
	}
	return &SessionController{
		fence:   newFencedSink(sink),
		history: history,
		opts:    opts,
		screens: make(map[domain.ScreenID]*registration),
	}
}

// Register adds a screen to the registry.
func (c *SessionController) Register(id domain.ScreenID, screen driven.Screen, interval time.Duration) error {
	if id == "" || screen == nil {
		return fmt.Errorf("register %q: %w", id, domain.ErrInvalidInput)
	}
	if interval <= 0 {
		return fmt.Errorf("register %q: %w", id, domain.ErrInvalidInterval)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started || c.closed {
		return fmt.Errorf("register %q after start: %w", id, domain.ErrInvalidInput)
	}
	if _, exists := c.screens[id]; exists {
		return fmt.Errorf("register %q: %w", id, domain.ErrDuplicateScreen)
	}

	c.screens[id] = &registration{
		handle: domain.ScreenHandle{ID: id, Name: screen.Name(), UpdateInterval: interval},
		screen: screen,
	}
	c.order = append(c.order, id)
	return nil
}

// Start makes the default screen live.
func (c *SessionController) Start(ctx context.Context, defaultScreen domain.ScreenID) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrControllerClosed
	}
	if len(c.screens) == 0 {
		c.mu.Unlock()
		return domain.ErrNoScreens
	}
	c.mu.Unlock()

	logger.Info("session: starting with %s", defaultScreen)
	return c.switchLocked(ctx, defaultScreen)
}

// Switch makes the screen live.
func (c *SessionController) Switch(ctx context.Context, id domain.ScreenID) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	return c.switchLocked(ctx, id)
}

// switchLocked performs a switch. Caller must hold opMu.
func (c *SessionController) switchLocked(ctx context.Context, id domain.ScreenID) error {
	c.mu.RLock()
	closed := c.closed
	reg, ok := c.screens[id]
	prev := c.live
	c.mu.RUnlock()

	if closed {
		return domain.ErrControllerClosed
	}
	if !ok {
		return fmt.Errorf("switch to %q: %w", id, domain.ErrUnknownScreen)
	}
	if prev != nil && prev.record.ScreenID == id {
		logger.Debug("session: %s already live", id)
		return nil
	}

	if prev != nil {
		c.stop(prev, domain.EndSwitched)
	}
	c.begin(ctx, reg)
	return nil
}

// stop cancels a session and waits for its worker, bounded by the handoff
// timeout. The fence is revoked first, so an overstaying worker can never
// commit again.
func (c *SessionController) stop(s *session, reason domain.SessionEndReason) bool {
	c.fence.revoke()
	s.cancel()

	clean := true
	if err := await(s.worker.done, c.opts.HandoffTimeout); err != nil {
		clean = false
		logger.Warn("session: degraded handoff: %s (gen %d) still %s after %s",
			s.record.ScreenID, s.record.Generation, s.worker.State(), c.opts.HandoffTimeout)
	}

	c.mu.Lock()
	if c.live == s {
		c.live = nil
	}
	c.mu.Unlock()

	rec := s.record
	rec.EndedAt = time.Now()
	rec.EndReason = reason
	rec.DegradedHandoff = !clean
	c.saveSession(&rec)

	return clean
}

// begin creates the next session, renders its first frame on the calling
// goroutine, then hands the refresh loop to a new worker.
func (c *SessionController) begin(ctx context.Context, reg *registration) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	sctx, cancel := context.WithCancel(context.Background())
	s := &session{
		record: domain.SessionRecord{
			ID:         uuid.New().String(),
			ScreenID:   reg.handle.ID,
			Generation: gen,
			StartedAt:  time.Now(),
		},
		cancel: cancel,
	}
	s.worker = &screenWorker{
		sessionID:  s.record.ID,
		screenID:   reg.handle.ID,
		generation: gen,
		screen:     reg.screen,
		interval:   reg.handle.UpdateInterval,
		backoff:    c.opts.RenderBackoff,
		timeout:    c.opts.RenderTimeout,
		sink:       c.fence,
		record:     c.recordRender,
		exited:     func() { c.active.Add(-1) },
		done:       make(chan struct{}),
	}

	c.fence.activate(gen)

	s.worker.setState(domain.WorkerRendering)
	err := s.worker.renderAndCommit(ctx, domain.TriggerSwitch)
	if err != nil {
		logger.Warn("session: %s: %v (retrying in %s)", reg.handle.ID, err, c.opts.RenderBackoff)
	}
	s.worker.setState(domain.WorkerStarting)

	c.mu.Lock()
	c.live = s
	c.started = true
	c.mu.Unlock()
	c.saveSession(&s.record)

	c.active.Add(1)
	go s.worker.run(sctx, err != nil)

	logger.Info("session: %s live (gen %d)", reg.handle.ID, gen)
}

// Run consumes button events until the source ends or ctx is cancelled,
// then shuts down. A failing switch never ends the loop.
func (c *SessionController) Run(ctx context.Context, source driven.ButtonSource) error {
	defer func() {
		if err := c.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("session: shutdown: %v", err)
		}
	}()

	for {
		ev, err := source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || ctx.Err() != nil {
				logger.Debug("session: button source ended")
				return nil
			}
			return fmt.Errorf("read button event: %w", err)
		}

		if ev.ScreenID == "" {
			logger.Debug("session: button %s is not bound", ev.Label)
			continue
		}
		logger.Debug("session: button %s -> %s", ev.Label, ev.ScreenID)

		if err := c.Switch(ctx, ev.ScreenID); err != nil {
			if errors.Is(err, domain.ErrControllerClosed) {
				return nil
			}
			logger.Warn("session: %v", err)
		}
	}
}

// Shutdown stops the live worker. The display keeps its last frame.
// Calling Shutdown more than once is safe.
func (c *SessionController) Shutdown(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	live := c.live
	c.mu.Unlock()

	var err error
	if live != nil {
		if !c.stop(live, domain.EndShutdown) {
			err = fmt.Errorf("stop %s: %w", live.record.ScreenID, domain.ErrHandoffTimeout)
		}
	}
	c.fence.revoke()

	if c.history != nil && c.opts.HistoryKeep > 0 {
		if perr := c.history.PruneHistory(ctx, c.opts.HistoryKeep); perr != nil {
			logger.Warn("session: failed to prune history: %v", perr)
		}
	}

	logger.Info("session: shut down")
	return err
}

// Current returns the live session.
func (c *SessionController) Current() (domain.SessionInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.live == nil {
		return domain.SessionInfo{}, false
	}
	return domain.SessionInfo{
		ID:          c.live.record.ID,
		ScreenID:    c.live.record.ScreenID,
		Generation:  c.live.record.Generation,
		StartedAt:   c.live.record.StartedAt,
		WorkerState: c.live.worker.State(),
	}, true
}

// Screens returns the registered screens in registration order.
func (c *SessionController) Screens() []domain.ScreenHandle {
	c.mu.RLock()
	defer c.mu.RUnlock()

	handles := make([]domain.ScreenHandle, 0, len(c.order))
	for _, id := range c.order {
		handles = append(handles, c.screens[id].handle)
	}
	return handles
}

// ActiveWorkers returns the number of workers that have not yet exited.
func (c *SessionController) ActiveWorkers() int {
	return int(c.active.Load())
}

func (c *SessionController) recordRender(rec *domain.RenderRecord) {
	if c.history == nil {
		return
	}
	if err := c.history.RecordRender(context.Background(), rec); err != nil {
		logger.Warn("session: failed to record render: %v", err)
	}
}

func (c *SessionController) saveSession(rec *domain.SessionRecord) {
	if c.history == nil {
		return
	}
	if err := c.history.SaveSession(context.Background(), rec); err != nil {
		logger.Warn("session: failed to save session: %v", err)
	}
}
