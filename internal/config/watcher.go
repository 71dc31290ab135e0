package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultWatchDebounce coalesces bursts of writes to one file.
const DefaultWatchDebounce = 200 * time.Millisecond

// Watcher reports YAML files that change under the watched directories.
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange func(path string)
	debounce time.Duration
	pending  map[string]time.Time
	log      *zap.Logger
	done     chan struct{}
	once     sync.Once
	mx       sync.Mutex
}

// NewWatcher watches dirs and calls onChange once per settled file change.
func NewWatcher(onChange func(path string), log *zap.Logger, dirs ...string) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	for _, d := range dirs {
		if err := fw.Add(d); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to watch %q: %w", d, err)
		}
	}

	return &Watcher{
		watcher:  fw,
		onChange: onChange,
		debounce: DefaultWatchDebounce,
		pending:  make(map[string]time.Time),
		log:      log,
		done:     make(chan struct{}),
	}, nil
}

// Start runs the event loop until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

// Stop closes the watcher and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		if err := w.watcher.Close(); err != nil {
			w.log.Warn("closing watcher", zap.Error(err))
		}
	})
	<-w.done
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	tick := time.NewTicker(w.debounce / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			w.once.Do(func() { _ = w.watcher.Close() })
			return
		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(evt)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		case now := <-tick.C:
			w.flush(now)
		}
	}
}

func (w *Watcher) handle(evt fsnotify.Event) {
	if filepath.Ext(evt.Name) != ".yaml" {
		return
	}
	if !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Rename) {
		return
	}

	w.mx.Lock()
	defer w.mx.Unlock()
	w.pending[evt.Name] = time.Now()
}

func (w *Watcher) flush(now time.Time) {
	w.mx.Lock()
	var ready []string
	for p, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			ready = append(ready, p)
			delete(w.pending, p)
		}
	}
	w.mx.Unlock()

	for _, p := range ready {
		w.log.Debug("config changed", zap.String("path", p))
		w.onChange(p)
	}
}
