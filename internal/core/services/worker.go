package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
	"github.com/custodia-labs/inkdash/internal/logger"
)

var errEmptyFrame = errors.New("screen returned an empty frame")

// screenWorker runs the refresh loop for one live session.
// It knows nothing about other screens or switching.
type screenWorker struct {
	sessionID  string
	screenID   domain.ScreenID
	generation uint64
	screen     driven.Screen
	interval   time.Duration
	backoff    time.Duration
	timeout    time.Duration
	sink       *fencedSink
	record     func(*domain.RenderRecord)
	exited     func()

	state atomic.Int32
	done  chan struct{}
}

func (w *screenWorker) State() domain.WorkerState {
	return domain.WorkerState(w.state.Load())
}

func (w *screenWorker) setState(s domain.WorkerState) {
	w.state.Store(int32(s))
}

// run loops until ctx is cancelled. The first render already happened on
// the switching goroutine, so the loop starts by waiting. When that render
// failed, retryFirst makes the first wait the failure backoff instead.
func (w *screenWorker) run(ctx context.Context, retryFirst bool) {
	defer func() {
		w.setState(domain.WorkerCancelled)
		if w.exited != nil {
			w.exited()
		}
		close(w.done)
		logger.Debug("worker: %s (gen %d) stopped", w.screenID, w.generation)
	}()

	next := domain.WorkerSleeping
	if retryFirst {
		next = domain.WorkerBackoff
	}
	trigger := domain.TriggerSchedule

	for {
		switch next {
		case domain.WorkerSleeping:
			w.setState(domain.WorkerSleeping)
			if !sleep(ctx, w.interval) {
				return
			}
			trigger, next = domain.TriggerSchedule, domain.WorkerRendering

		case domain.WorkerBackoff:
			w.setState(domain.WorkerBackoff)
			if !sleep(ctx, w.backoff) {
				return
			}
			trigger, next = domain.TriggerRetry, domain.WorkerRendering

		default:
			w.setState(domain.WorkerRendering)
			if err := w.renderAndCommit(ctx, trigger); err != nil {
				logger.Warn("worker: %s: %v (retrying in %s)", w.screenID, err, w.backoff)
				next = domain.WorkerBackoff
				continue
			}
			next = domain.WorkerSleeping
		}
	}
}

// renderAndCommit renders one frame and commits it through the fence.
// The render is detached from ctx cancellation so a switch never aborts a
// render halfway; a fenced-out frame is dropped, not an error.
func (w *screenWorker) renderAndCommit(ctx context.Context, trigger domain.RenderTrigger) error {
	rec := &domain.RenderRecord{
		SessionID:  w.sessionID,
		ScreenID:   w.screenID,
		Generation: w.generation,
		Trigger:    trigger,
		StartedAt:  time.Now(),
	}

	rctx := context.WithoutCancel(ctx)
	if w.timeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(rctx, w.timeout)
		defer cancel()
	}

	err := w.attempt(rctx, rec)

	rec.EndedAt = time.Now()
	rec.Success = err == nil
	if err != nil {
		rec.Error = err.Error()
	}
	if w.record != nil {
		w.record(rec)
	}
	return err
}

func (w *screenWorker) attempt(ctx context.Context, rec *domain.RenderRecord) error {
	frame, err := w.screen.Render(ctx)
	if err == nil && frame.IsEmpty() {
		err = errEmptyFrame
	}
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRender, err)
	}
	if frame.ScreenID == "" {
		frame.ScreenID = w.screenID
	}
	if frame.RenderedAt.IsZero() {
		frame.RenderedAt = time.Now()
	}

	committed, err := w.sink.commit(ctx, w.generation, frame)
	rec.Committed = committed
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCommit, err)
	}
	if !committed {
		logger.Debug("worker: dropped frame from superseded %s (gen %d)", w.screenID, w.generation)
	}
	return nil
}
