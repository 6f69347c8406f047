// Package watch re-runs a scan whenever its input document changes on disk,
// and optionally on a fixed interval.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/resourcescan/internal/logfields"
)

// ScanFunc scans the current content of path.
type ScanFunc func(ctx context.Context, path string, raw []byte) error

// Options configures a Watcher.
type Options struct {
	Debounce  time.Duration
	Interval  time.Duration // Zero disables periodic rescans
	CacheSize int
	Logger    *slog.Logger
}

// Watcher monitors a single input file.
type Watcher struct {
	input    string // As given by the caller, passed to the scan
	path     string // Absolute, matched against events
	scan     ScanFunc
	cache    *ContentCache
	debounce time.Duration
	interval time.Duration
	logger   *slog.Logger

	watcher   *fsnotify.Watcher
	scheduler gocron.Scheduler

	triggerChan chan struct{}
	runMu       sync.Mutex
}

// New creates a watcher for path. Start must be called to begin watching.
func New(path string, scan ScanFunc, opts Options) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watch path: %w", err)
	}

	size := opts.CacheSize
	if size < 1 {
		size = 1
	}
	cache, err := NewContentCache(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create content cache: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		input:       path,
		path:        absPath,
		scan:        scan,
		cache:       cache,
		debounce:    opts.Debounce,
		interval:    opts.Interval,
		logger:      logger,
		triggerChan: make(chan struct{}, 1),
	}, nil
}

// Run scans once, then keeps rescanning on change until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.watcher = fsw
	defer func() {
		if err := fsw.Close(); err != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	// Watching the directory survives editors that replace the file on save.
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	if w.interval > 0 {
		if err := w.startScheduler(); err != nil {
			return err
		}
		defer func() {
			if err := w.scheduler.Shutdown(); err != nil {
				w.logger.Error("Error stopping scheduler", logfields.Error(err))
			}
		}()
	}

	w.logger.Info("Watching for changes", logfields.Path(w.path))
	w.process(ctx)

	go w.watchLoop(ctx)
	w.triggerLoop(ctx)
	return nil
}

func (w *Watcher) startScheduler() error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(w.Trigger),
		gocron.WithName("periodic-rescan"),
	)
	if err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("failed to create periodic rescan job: %w", err)
	}
	w.scheduler = s
	s.Start()
	return nil
}

// watchLoop forwards file system events for the watched file.
func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			switch {
			case event.Op.Has(fsnotify.Write), event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Rename):
				w.logger.Debug("Input change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
				w.Trigger()
			case event.Op.Has(fsnotify.Remove):
				w.logger.Warn("Input removed", logfields.Path(event.Name))
				w.cache.Forget(w.path)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		}
	}
}

// triggerLoop debounces triggers and runs the scan once things settle.
func (w *Watcher) triggerLoop(ctx context.Context) {
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.triggerChan:
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			w.process(ctx)
		}
	}
}

// Trigger requests a debounced rescan.
func (w *Watcher) Trigger() {
	select {
	case w.triggerChan <- struct{}{}:
	default:
		// Rescan already pending
	}
}

// process reads the input and scans it when its content changed since the last
// successful scan. It returns whether a scan ran.
func (w *Watcher) process(ctx context.Context) bool {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	raw, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Warn("Cannot read input", logfields.Path(w.path), logfields.Error(err))
		return false
	}
	if !w.cache.Changed(w.path, raw) {
		w.logger.Debug("Input unchanged, skipping scan", logfields.Path(w.path))
		return false
	}

	if err := w.scan(ctx, w.input, raw); err != nil {
		w.logger.Error("Scan failed", logfields.Path(w.path), logfields.Error(err))
		return false
	}
	w.cache.Store(w.path, raw)
	return true
}
