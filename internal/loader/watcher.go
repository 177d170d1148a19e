package loader

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher invalidates cached datasets when CSV files under the data directory change.
type Watcher struct {
	root        string
	cache       *Cache
	watcher     *fsnotify.Watcher
	debounceDur time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	doneCh  chan struct{}
	running bool
}

// NewWatcher watches root and its subdirectories.
func NewWatcher(root string, cache *Cache) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		root:        root,
		cache:       cache,
		watcher:     fw,
		debounceDur: 300 * time.Millisecond,
		pending:     make(map[string]*time.Timer),
		doneCh:      make(chan struct{}),
	}
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.Add(p)
		}
		return nil
	})
	if err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Start runs the event loop until ctx is done or Stop is called. It does not block.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go func() {
		defer close(w.doneCh)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				w.handle(ev)
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("Data directory watcher error")
			}
		}
	}()
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
			if err := w.watcher.Add(ev.Name); err != nil {
				log.Warn().Err(err).Str("dir", ev.Name).Msg("Failed to watch new data directory")
			}
			return
		}
	}
	if !strings.EqualFold(filepath.Ext(ev.Name), ".csv") {
		return
	}
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[rel]; ok {
		t.Stop()
	}
	w.pending[rel] = time.AfterFunc(w.debounceDur, func() {
		w.mu.Lock()
		delete(w.pending, rel)
		w.mu.Unlock()
		n := w.cache.InvalidateFile(rel)
		log.Info().Str("file", rel).Int("datasets", n).Msg("Dataset file changed, cache invalidated")
	})
}

// Stop closes the underlying watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	err := w.watcher.Close()
	w.mu.Lock()
	running := w.running
	for _, t := range w.pending {
		t.Stop()
	}
	w.mu.Unlock()
	if running {
		<-w.doneCh
	}
	return err
}
