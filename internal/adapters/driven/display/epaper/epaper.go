// Package epaper drives a Waveshare 2.13" V4 e-paper HAT over SPI.
//
// The panel keeps its image without power, so the sink puts it to sleep
// after every commit and wakes it for the next one. Close halts the
// controller without clearing; the last frame stays visible.
package epaper

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"

	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/waveshare2in13v4"
	"periph.io/x/host/v3"

	"github.com/custodia-labs/inkdash/internal/adapters/driven/display/raster"
	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
	"github.com/custodia-labs/inkdash/internal/logger"
)

// panel is the subset of the Waveshare driver the sink uses.
type panel interface {
	Init() error
	Clear(color.Color) error
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Sleep() error
	Halt() error
	Bounds() image.Rectangle
}

// Sink commits frames to the e-paper panel.
type Sink struct {
	mu       sync.Mutex
	dev      panel
	port     spi.PortCloser
	sleeping bool
	closed   bool
}

var _ driven.DisplaySink = (*Sink)(nil)

// Open initialises the host, opens the SPI port and clears the panel once.
// An empty port name selects the first SPI port.
func Open(cfg domain.DisplayConfig) (*Sink, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}

	port, err := spireg.Open(cfg.SPIPort)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", cfg.SPIPort, err)
	}

	opts := waveshare2in13v4.EPD2in13v4
	dev, err := waveshare2in13v4.NewHat(port, &opts)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("open panel: %w", err)
	}

	s, err := newSink(dev, port)
	if err != nil {
		port.Close()
		return nil, err
	}
	logger.Info("epaper: panel ready (%v)", dev.Bounds())
	return s, nil
}

func newSink(dev panel, port spi.PortCloser) (*Sink, error) {
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("init panel: %w", err)
	}
	if err := dev.Clear(color.White); err != nil {
		return nil, fmt.Errorf("clear panel: %w", err)
	}
	return &Sink{dev: dev, port: port}, nil
}

// Commit wakes the panel if needed, draws the frame and sends it back to sleep.
func (s *Sink) Commit(_ context.Context, frame domain.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("epaper: %w", domain.ErrControllerClosed)
	}
	if s.sleeping {
		if err := s.dev.Init(); err != nil {
			return fmt.Errorf("wake panel: %w", err)
		}
		s.sleeping = false
	}

	bounds := s.dev.Bounds()
	img := raster.Mono(raster.Fit(frame.Image, bounds), bounds)
	if err := s.dev.Draw(bounds, img, image.Point{}); err != nil {
		return fmt.Errorf("draw: %w", err)
	}

	if err := s.dev.Sleep(); err != nil {
		logger.Warn("epaper: sleep failed: %v", err)
		return nil
	}
	s.sleeping = true
	return nil
}

// Bounds returns the landscape drawing area screens should render for.
func (s *Sink) Bounds() image.Rectangle {
	b := s.dev.Bounds()
	if b.Dx() < b.Dy() {
		return image.Rect(0, 0, b.Dy(), b.Dx())
	}
	return image.Rect(0, 0, b.Dx(), b.Dy())
}

// Name returns the sink name.
func (s *Sink) Name() string {
	return "epaper"
}

// Close halts the panel and releases the SPI port. The image is kept.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	err := s.dev.Halt()
	if s.port != nil {
		if cerr := s.port.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
