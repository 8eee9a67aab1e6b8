package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
)

// fencedSink guards the display with a generation fence.
// Only the generation set by activate may commit; every other commit is
// dropped without reaching the sink. The mutex keeps Commit single-writer.
type fencedSink struct {
	sink    driven.DisplaySink
	mu      sync.Mutex
	current atomic.Uint64
}

func newFencedSink(sink driven.DisplaySink) *fencedSink {
	return &fencedSink{sink: sink}
}

// activate lets gen commit and fences every other generation.
func (f *fencedSink) activate(gen uint64) {
	f.current.Store(gen)
}

// revoke fences every generation. Generation numbers start at 1.
func (f *fencedSink) revoke() {
	f.current.Store(0)
}

// commit passes the frame to the sink if gen is still current.
// Returns false when the frame was dropped.
func (f *fencedSink) commit(ctx context.Context, gen uint64, frame domain.Frame) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.current.Load() != gen {
		return false, nil
	}
	return true, f.sink.Commit(ctx, frame)
}

// sleep waits for d or until ctx is cancelled.
// Returns false if the wait was interrupted by cancellation.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		// Cancellation racing the timer wins.
		return ctx.Err() == nil
	}
}

// await waits for done to close, bounded by timeout.
func await(done <-chan struct{}, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return domain.ErrHandoffTimeout
	}
}
