// Package hotreload watches landscape source files and reports when they
// change on disk.
package hotreload

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/landscape/internal/logger"
)

// DefaultDebounce is how long a file must stay quiet before a change is reported.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reports changed files on its Requests channel. Bursts of writes to
// the same file are coalesced into one request.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      *zap.Logger
	requests chan string

	mu    sync.Mutex
	files map[string]struct{}
	dirs  map[string]struct{}
}

// New creates a watcher. A non-positive debounce selects DefaultDebounce.
func New(debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		watcher:  fw,
		debounce: debounce,
		log:      logger.Named("hotreload"),
		requests: make(chan string, 8),
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
	}, nil
}

// Add starts watching path. The parent directory is watched so files replaced
// by editors or tools (write to temp, rename) are still seen.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.dirs[dir]; !ok {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		w.dirs[dir] = struct{}{}
	}
	w.files[abs] = struct{}{}
	w.log.Debug("watching file", zap.String("path", abs))
	return nil
}

// Requests returns the channel of changed file paths (absolute).
func (w *Watcher) Requests() <-chan string {
	return w.requests
}

func (w *Watcher) watched(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[filepath.Clean(path)]
	return ok
}

// Run processes file events until ctx is done. It closes the Requests channel
// on return.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.requests)

	pending := make(map[string]time.Time)
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.watched(event.Name) {
				continue
			}
			if len(pending) == 0 {
				timer.Reset(w.debounce)
			}
			pending[filepath.Clean(event.Name)] = time.Now()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error", zap.Error(err))

		case <-timer.C:
			ready, wait := w.settle(pending, time.Now())
			for _, path := range ready {
				w.log.Info("file changed", zap.String("path", path))
				select {
				case w.requests <- path:
				case <-ctx.Done():
					return
				}
			}
			if len(pending) > 0 {
				timer.Reset(wait)
			}
		}
	}
}

// settle removes the files that have been quiet for the debounce period from
// pending and returns them sorted, along with the delay until the next
// pending file goes quiet.
func (w *Watcher) settle(pending map[string]time.Time, now time.Time) (ready []string, wait time.Duration) {
	wait = w.debounce
	for path, last := range pending {
		if quiet := now.Sub(last); quiet < w.debounce {
			wait = min(wait, w.debounce-quiet)
			continue
		}
		delete(pending, path)
		ready = append(ready, path)
	}
	sort.Strings(ready)
	return ready, wait
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
