package catalog

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/example/litebay/internal/logger"
)

// Watcher reloads the catalog when a fixture file in dir changes. Bursts of
// events (editors writing in several steps) are collapsed into one reload.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	catalog  *Catalog
	dir      string
	debounce time.Duration
	pending  bool
	lastSeen time.Time
	reloads  int
	onReload func(Fixtures)
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	closed   bool
}

func NewWatcher(dir string, catalog *Catalog) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  w,
		catalog:  catalog,
		dir:      dir,
		debounce: 200 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// OnReload registers fn to run after each successful reload
func (w *Watcher) OnReload(fn func(Fixtures)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = fn
}

// Start watches dir in the background until Stop or ctx cancellation
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	log := logger.Component("catalog")
	log.Info().Str("dir", w.dir).Msg("watching fixtures")

	go w.run(ctx)
	return nil
}

// Stop ends the watch loop, waits for it to exit and releases the watcher.
// It is safe to call more than once and without Start.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}

	if err := w.watcher.Close(); err != nil {
		log := logger.Component("catalog")
		log.Error().Err(err).Msg("error closing watcher")
	}
}

// Reloads reports how many reloads have completed
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	log := logger.Component("catalog")

	ticker := time.NewTicker(w.debounce / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("fixture watcher error")
		case <-ticker.C:
			w.maybeReload(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !slices.Contains(FixtureFiles, filepath.Base(event.Name)) {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return
	}

	w.mu.Lock()
	w.pending = true
	w.lastSeen = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) maybeReload(ctx context.Context) {
	w.mu.Lock()
	due := w.pending && time.Since(w.lastSeen) >= w.debounce
	if due {
		w.pending = false
	}
	w.mu.Unlock()
	if !due {
		return
	}

	f, err := LoadFixtures(ctx, w.dir)
	if err != nil {
		return
	}
	w.catalog.Replace(f)

	w.mu.Lock()
	w.reloads++
	fn := w.onReload
	w.mu.Unlock()

	log := logger.Component("catalog")
	log.Info().
		Int("products", len(f.Products)).
		Int("news", len(f.News)).
		Int("categories", len(f.Categories)).
		Msg("fixtures reloaded")
	if fn != nil {
		fn(f)
	}
}
