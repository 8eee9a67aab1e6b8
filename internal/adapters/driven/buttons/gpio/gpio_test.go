package gpio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"

	"github.com/custodia-labs/inkdash/internal/adapters/driven/buttons"
	"github.com/custodia-labs/inkdash/internal/core/domain"
)

// fakePin delivers an edge for every level pushed to it.
type fakePin struct {
	name   string
	inErr  error
	edges  chan gpio.Level
	mu     sync.Mutex
	level  gpio.Level
	pull   gpio.Pull
	edge   gpio.Edge
	halted bool
}

func newFakePin(name string) *fakePin {
	return &fakePin{name: name, edges: make(chan gpio.Level, 8), level: gpio.High}
}

func (p *fakePin) Name() string { return p.name }

func (p *fakePin) In(pull gpio.Pull, edge gpio.Edge) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pull, p.edge = pull, edge
	return p.inErr
}

func (p *fakePin) Read() gpio.Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *fakePin) WaitForEdge(timeout time.Duration) bool {
	select {
	case l := <-p.edges:
		p.mu.Lock()
		p.level = l
		p.mu.Unlock()
		return true
	case <-time.After(timeout):
		return false
	}
}

func (p *fakePin) Halt() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.halted = true
	return nil
}

func testConfig() domain.ButtonsConfig {
	cfg := domain.DefaultDashboardConfig().Buttons
	cfg.Driver = domain.ButtonsGPIO
	cfg.Debounce = 200 * time.Millisecond
	return cfg
}

func next(t *testing.T, s *Source) (domain.ButtonEvent, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.Next(ctx)
}

func TestSource_PressBecomesEvent(t *testing.T) {
	a, b := newFakePin("GPIO5"), newFakePin("GPIO6")
	src, err := newSource(testConfig(), map[string]pinIn{"A": a, "B": b})
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, gpio.PullUp, a.pull)
	assert.Equal(t, gpio.FallingEdge, a.edge)

	b.edges <- gpio.Low

	ev, err := next(t, src)
	require.NoError(t, err)
	assert.Equal(t, "B", ev.Label)
	assert.Equal(t, domain.ScreenWeather, ev.ScreenID)
}

func TestSource_IgnoresReleaseAndBounce(t *testing.T) {
	a := newFakePin("GPIO5")
	src, err := newSource(testConfig(), map[string]pinIn{"A": a})
	require.NoError(t, err)
	defer src.Close()

	a.edges <- gpio.High // release
	a.edges <- gpio.Low  // press
	a.edges <- gpio.Low  // bounce within the window

	ev, err := next(t, src)
	require.NoError(t, err)
	assert.Equal(t, "A", ev.Label)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = src.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSource_ConfigureFailure(t *testing.T) {
	bad := newFakePin("GPIO99")
	bad.inErr = errors.New("pin busy")

	_, err := newSource(testConfig(), map[string]pinIn{"A": bad})

	assert.Error(t, err)
	assert.True(t, bad.halted)
}

func TestSource_CloseEndsStream(t *testing.T) {
	a := newFakePin("GPIO5")
	src, err := newSource(testConfig(), map[string]pinIn{"A": a})
	require.NoError(t, err)

	require.NoError(t, src.Close())
	require.NoError(t, src.Close())

	_, err = src.Next(context.Background())
	assert.ErrorIs(t, err, buttons.ErrClosed)
	assert.True(t, a.halted)
}
