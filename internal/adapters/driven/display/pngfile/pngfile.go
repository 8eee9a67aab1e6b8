// Package pngfile writes every committed frame to a PNG file.
// Frames are thresholded to 1 bit first, so the file shows what the panel would.
package pngfile

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/inkdash/internal/adapters/driven/display/raster"
	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
)

// DefaultFileName is used when no path is configured.
const DefaultFileName = "frame.png"

// Sink writes frames to a PNG file, replacing it atomically.
type Sink struct {
	mu     sync.Mutex
	path   string
	bounds image.Rectangle
}

var _ driven.DisplaySink = (*Sink)(nil)

// NewSink creates a PNG sink for a display of the given size.
// An empty path writes frame.png in the current directory.
func NewSink(cfg domain.DisplayConfig) (*Sink, error) {
	path := cfg.PNGPath
	if path == "" {
		path = DefaultFileName
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: display size %dx%d", domain.ErrInvalidInput, cfg.Width, cfg.Height)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Sink{path: path, bounds: image.Rect(0, 0, cfg.Width, cfg.Height)}, nil
}

// Commit writes the frame.
func (s *Sink) Commit(_ context.Context, frame domain.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return WriteFile(s.path, raster.Mono(frame.Image, s.bounds))
}

// Bounds returns the configured display size.
func (s *Sink) Bounds() image.Rectangle {
	return s.bounds
}

// Name returns the sink name.
func (s *Sink) Name() string {
	return "png"
}

// Path returns the output file path.
func (s *Sink) Path() string {
	return s.path
}

// Close is a no-op; the last file stays on disk.
func (s *Sink) Close() error {
	return nil
}

// WriteFile encodes img as PNG at path via a temp file and rename,
// so readers never see a partial image.
func WriteFile(path string, img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".inkdash-*.png")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
