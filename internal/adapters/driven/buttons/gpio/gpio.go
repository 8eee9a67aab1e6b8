// Package gpio reads dashboard buttons wired to GPIO pins.
// Buttons pull the pin to ground; the internal pull-up keeps it high otherwise.
package gpio

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/custodia-labs/inkdash/internal/adapters/driven/buttons"
	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
	"github.com/custodia-labs/inkdash/internal/logger"
)

// edgeTimeout bounds each edge wait so Close is noticed.
const edgeTimeout = 500 * time.Millisecond

// pinIn is the subset of gpio.PinIn the source uses.
type pinIn interface {
	Name() string
	In(pull gpio.Pull, edge gpio.Edge) error
	Read() gpio.Level
	WaitForEdge(timeout time.Duration) bool
	Halt() error
}

// Source turns falling edges on button pins into button events.
type Source struct {
	cfg      domain.ButtonsConfig
	debounce *buttons.Debouncer
	pins     map[string]pinIn

	events chan domain.ButtonEvent
	stop   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

var _ driven.ButtonSource = (*Source)(nil)

// Open initialises the host and configures every pin in cfg.Pins.
func Open(cfg domain.ButtonsConfig) (*Source, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}

	pins := make(map[string]pinIn, len(cfg.Pins))
	for label, name := range cfg.Pins {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("%w: button %s: no gpio pin %q", domain.ErrInvalidInput, label, name)
		}
		pins[label] = p
	}
	return newSource(cfg, pins)
}

func newSource(cfg domain.ButtonsConfig, pins map[string]pinIn) (*Source, error) {
	s := &Source{
		cfg:      cfg,
		debounce: buttons.NewDebouncer(cfg.Debounce),
		pins:     pins,
		events:   make(chan domain.ButtonEvent),
		stop:     make(chan struct{}),
	}

	labels := make([]string, 0, len(pins))
	for label := range pins {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		p := pins[label]
		if err := p.In(gpio.PullUp, gpio.FallingEdge); err != nil {
			s.Close()
			return nil, fmt.Errorf("configure %s (%s): %w", label, p.Name(), err)
		}
		logger.Debug("gpio: button %s on %s", label, p.Name())
		s.wg.Add(1)
		go s.watch(label, p)
	}
	return s, nil
}

func (s *Source) watch(label string, p pinIn) {
	defer s.wg.Done()

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		if !p.WaitForEdge(edgeTimeout) {
			continue
		}
		if p.Read() != gpio.Low {
			continue
		}
		now := time.Now()
		if !s.debounce.Allow(label, now) {
			continue
		}

		select {
		case s.events <- s.cfg.Resolve(label, now):
		case <-s.stop:
			return
		}
	}
}

// Next blocks until a button is pressed.
func (s *Source) Next(ctx context.Context) (domain.ButtonEvent, error) {
	select {
	case <-ctx.Done():
		return domain.ButtonEvent{}, ctx.Err()
	case ev := <-s.events:
		return ev, nil
	case <-s.stop:
		return domain.ButtonEvent{}, buttons.ErrClosed
	}
}

// Close stops the pin watchers and releases the pins.
func (s *Source) Close() error {
	var err error
	s.once.Do(func() {
		close(s.stop)
		s.wg.Wait()
		for label, p := range s.pins {
			if herr := p.Halt(); herr != nil && err == nil {
				err = fmt.Errorf("halt %s: %w", label, herr)
			}
		}
	})
	return err
}
