// Package watch treats files created in a directory as button presses.
// Creating "A" in the watch directory presses button A; the file is
// removed once the press is read. Useful for scripting the dashboard
// over SSH or from cron without wiring physical buttons.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/inkdash/internal/adapters/driven/buttons"
	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
	"github.com/custodia-labs/inkdash/internal/logger"
)

// Source emits a button event for every file created in the watch directory.
type Source struct {
	dir      string
	cfg      domain.ButtonsConfig
	debounce *buttons.Debouncer
	watcher  *fsnotify.Watcher

	events chan domain.ButtonEvent
	stop   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

var _ driven.ButtonSource = (*Source)(nil)

// Open creates the watch directory if needed and starts watching it.
func Open(cfg domain.ButtonsConfig) (*Source, error) {
	if cfg.WatchDir == "" {
		return nil, fmt.Errorf("%w: watch button driver needs buttons.watch_dir", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(cfg.WatchDir, 0o755); err != nil {
		return nil, fmt.Errorf("create watch dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(cfg.WatchDir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", cfg.WatchDir, err)
	}

	s := &Source{
		dir:      cfg.WatchDir,
		cfg:      cfg,
		debounce: buttons.NewDebouncer(cfg.Debounce),
		watcher:  watcher,
		events:   make(chan domain.ButtonEvent),
		stop:     make(chan struct{}),
	}
	s.wg.Add(1)
	go s.loop()

	logger.Debug("watch: listening for presses in %s", cfg.WatchDir)
	return s, nil
}

// Dir returns the watched directory.
func (s *Source) Dir() string {
	return s.dir
}

func (s *Source) loop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.stop:
			return
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch: %v", err)
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			label, pressed := s.handleEvent(event)
			if !pressed {
				continue
			}
			now := time.Now()
			if !s.debounce.Allow(label, now) {
				logger.Debug("watch: debounced %s", label)
				continue
			}
			select {
			case s.events <- s.cfg.Resolve(label, now):
			case <-s.stop:
				return
			}
		}
	}
}

// handleEvent maps a filesystem event to a button label.
// Only regular, non-hidden files that were created or written count.
// The file is consumed so the same label can be pressed again.
func (s *Source) handleEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}

	label := filepath.Base(event.Name)
	if label == "" || strings.HasPrefix(label, ".") {
		return "", false
	}

	info, err := os.Lstat(event.Name)
	if err != nil {
		// Already consumed by an earlier event for the same file.
		return "", false
	}
	if !info.Mode().IsRegular() {
		return "", false
	}

	if err := os.Remove(event.Name); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("watch: remove %s: %v", event.Name, err)
	}
	return label, true
}

// Next blocks until a press file appears.
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

// Close stops watching.
func (s *Source) Close() error {
	var err error
	s.once.Do(func() {
		close(s.stop)
		err = s.watcher.Close()
		s.wg.Wait()
	})
	return err
}
