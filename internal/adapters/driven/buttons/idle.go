package buttons

import (
	"context"
	"sync"

	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
)

// Idle is a button source with no buttons. Next blocks until ctx is
// cancelled or the source is closed, so the default screen stays live.
type Idle struct {
	once   sync.Once
	closed chan struct{}
}

var _ driven.ButtonSource = (*Idle)(nil)

// NewIdle creates an idle source.
func NewIdle() *Idle {
	return &Idle{closed: make(chan struct{})}
}

// Next waits for cancellation or Close.
func (s *Idle) Next(ctx context.Context) (domain.ButtonEvent, error) {
	select {
	case <-ctx.Done():
		return domain.ButtonEvent{}, ctx.Err()
	case <-s.closed:
		return domain.ButtonEvent{}, ErrClosed
	}
}

// Close ends the stream.
func (s *Idle) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}
