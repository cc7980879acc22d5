package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/OldStager01/bikeshare-dashboard/internal/events"
	"github.com/OldStager01/bikeshare-dashboard/internal/logger"
	"github.com/OldStager01/bikeshare-dashboard/internal/resilience"
	"github.com/OldStager01/bikeshare-dashboard/pkg/config"
)

const defaultDebounce = 500 * time.Millisecond

// LoadFunc builds a session from configuration.
type LoadFunc func(cfg config.DataConfig) (*Session, error)

// Watcher rebuilds the session whenever one of the input files changes.
// The directories are watched rather than the files so editors that save
// through rename are still seen. A failed rebuild keeps the old session.
type Watcher struct {
	cfg       config.DataConfig
	store     *Store
	publisher *events.Publisher
	load      LoadFunc
	watcher   *fsnotify.Watcher
	targets   map[string]bool
	debounce  time.Duration
	breaker   *resilience.Breaker

	mu      sync.Mutex
	timer   *time.Timer
	changed string
}

func NewWatcher(cfg config.DataConfig, store *Store, publisher *events.Publisher) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		cfg:       cfg,
		store:     store,
		publisher: publisher,
		load:      New,
		watcher:   fw,
		targets:   make(map[string]bool),
		debounce:  cfg.WatchDebounce,
	}
	w.breaker = resilience.NewBreaker(resilience.BreakerConfig{
		Name:          "dataset-reload",
		MaxFailures:   cfg.ReloadMaxFailures,
		Cooldown:      cfg.ReloadCooldown,
		OnStateChange: w.breakerChanged,
	})
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}

	dirs := make(map[string]bool)
	for _, p := range []string{cfg.DailyPath, cfg.HourlyPath} {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		w.targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// WithLoader replaces the session builder.
func (w *Watcher) WithLoader(load LoadFunc) *Watcher {
	w.load = load
	return w
}

// Run blocks until ctx is done or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.targets[abs] {
				continue
			}
			w.schedule(abs)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("file watcher: %w", err)
		}
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// schedule coalesces a burst of events into a single reload.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.changed = path
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) reload() {
	w.mu.Lock()
	path := w.changed
	w.mu.Unlock()

	log := logger.WithDataset(w.cfg.Name).WithField("path", path)
	log.Info("Input file changed, reloading dataset")

	var next *Session
	err := w.breaker.Execute(func() error {
		var err error
		next, err = w.load(w.cfg)
		return err
	})
	if errors.Is(err, resilience.ErrOpen) {
		log.Warn("Reloading paused after repeated failures, change ignored")
		return
	}
	if err != nil {
		log.WithError(err).Error("Dataset reload failed, keeping previous data")
		w.publisher.DatasetReloadFailed(w.cfg.Name, path, err)
		return
	}

	w.store.Swap(next)
	w.publisher.DatasetReloaded(next.Name(), path, next.Info())
}

func (w *Watcher) breakerChanged(name string, from, to resilience.State) {
	logger.WithDataset(w.cfg.Name).WithFields(map[string]interface{}{
		"breaker": name,
		"from":    from.String(),
		"to":      to.String(),
	}).Warn("Reload breaker changed state")
}
