package mcp

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Invalidator drops stale cache state for a crate.
type Invalidator interface {
	Invalidate(projectPath, crateName string) error
}

// watchTarget identifies the cache entry behind a watched directory.
type watchTarget struct {
	projectPath string
	crateName   string
}

// DocWatcher watches resolved documentation directories and invalidates the
// matching cache entries when the generated tree changes underneath us
// (e.g. the user runs cargo doc by hand). It only ever removes entries, so
// the cache's build-of-record semantics are unaffected.
type DocWatcher struct {
	inv          Invalidator
	watcher      *fsnotify.Watcher
	debounceTime time.Duration

	mu      sync.Mutex
	targets map[string]watchTarget // watched dir → cache key

	started  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewDocWatcher creates a watcher with no directories registered.
// Directories are added lazily via WatchDocDir as the coordinator resolves
// them.
func NewDocWatcher(inv Invalidator) (*DocWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &DocWatcher{
		inv:          inv,
		watcher:      watcher,
		debounceTime: 500 * time.Millisecond,
		targets:      make(map[string]watchTarget),
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}, nil
}

// WatchDocDir registers a documentation directory for a crate. Unresolvable
// directories (not built yet) are skipped quietly; they get registered on a
// later check once they exist.
func (w *DocWatcher) WatchDocDir(projectPath, crateName, dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.targets[dir]; ok {
		return
	}
	if err := w.watcher.Add(dir); err != nil {
		return
	}
	w.targets[dir] = watchTarget{projectPath: projectPath, crateName: crateName}
}

// Start begins watching for changes.
func (w *DocWatcher) Start() {
	w.mu.Lock()
	w.started = true
	w.mu.Unlock()
	go w.watch()
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *DocWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.mu.Lock()
		started := w.started
		w.mu.Unlock()
		if started {
			<-w.doneCh
		}
		w.watcher.Close()
	})
}

// watch is the event loop with debouncing. Events are coalesced per
// directory; after the quiet period the directory's cache entry is dropped.
func (w *DocWatcher) watch() {
	defer close(w.doneCh)

	var debounceTimer *time.Timer
	pending := make(map[string]bool)
	fireCh := make(chan struct{}, 1)

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if dir, ok := w.targetDirFor(event.Name); ok {
				pending[dir] = true
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(w.debounceTime, func() {
					select {
					case fireCh <- struct{}{}:
					default:
					}
				})
			}

		case <-fireCh:
			for dir := range pending {
				w.invalidateDir(dir)
				delete(pending, dir)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("doc watcher error: %v", err)
		}
	}
}

// targetDirFor maps an event path back to a registered directory.
func (w *DocWatcher) targetDirFor(path string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for dir := range w.targets {
		if path == dir || (len(path) > len(dir) && path[:len(dir)] == dir && path[len(dir)] == filepath.Separator) {
			return dir, true
		}
	}
	return "", false
}

func (w *DocWatcher) invalidateDir(dir string) {
	w.mu.Lock()
	target, ok := w.targets[dir]
	w.mu.Unlock()
	if !ok {
		return
	}

	if err := w.inv.Invalidate(target.projectPath, target.crateName); err != nil {
		log.Printf("doc watcher: invalidating %s:%s: %v", target.projectPath, target.crateName, err)
		return
	}
	log.Printf("doc tree changed, invalidated cache entry for %s", target.crateName)
}
