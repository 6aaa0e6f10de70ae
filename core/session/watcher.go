package session

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/inklet/inklet/pkg/logger"
)

// DefaultDebounce coalesces the burst of filesystem events a single atomic
// replacement produces into one re-hydration.
const DefaultDebounce = 75 * time.Millisecond

// Watcher propagates session changes made by other processes sharing the
// same durable record. It re-hydrates the store when the record changes on
// disk and notifies the store's subscribers only when the hydrated value
// actually differs from the cache. That comparison also swallows the echo of
// this process's own writes, preserving the one-notification-per-Set
// guarantee that Store provides.
//
// Propagation is best effort and asynchronous: another process's change is
// observed eventually, not within the same scheduling turn.
type Watcher struct {
	store    *Store
	fsw      *fsnotify.Watcher
	log      *slog.Logger
	debounce time.Duration
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits for a burst of file events to
// settle before re-hydrating.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger configures structured logging for the watcher.
func WithWatcherLogger(log *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if log != nil {
			w.log = log
		}
	}
}

// NewWatcher creates a Watcher for the store's durable record. It watches
// the record's parent directory rather than the file itself: atomic
// replacement renames a temp file over the record, which would orphan a
// watch installed directly on the file.
func NewWatcher(store *Store, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		store:    store,
		fsw:      fsw,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fsw.Add(filepath.Dir(store.Path())); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return w, nil
}

// Run processes filesystem events until ctx is done or the watcher is
// closed. It returns ctx.Err() on cancellation and nil after Close.
func (w *Watcher) Run(ctx context.Context) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	target := filepath.Clean(w.store.Path())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("session watch error",
				logger.Component("session"), logger.Error(err))

		case <-timer.C:
			w.sync()
		}
	}
}

// Close stops the watcher. A running Run call returns nil shortly after.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) sync() {
	before := w.store.Current()
	after := w.store.Hydrate()
	if after.Equal(before) {
		return
	}

	w.log.Debug("session changed externally",
		logger.Component("session"),
		slog.Bool("present", after.Present()))
	w.store.hub.Publish()
}
