// Package watcher drives watch mode: it monitors a directory tree and
// reports debounced batches of changed source files.
package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last change before a
// batch fires.
const DefaultDebounce = 500 * time.Millisecond

// skipDirs are directory names never worth watching. They mirror the
// walker's default ignores, so events the pipeline would discard are not
// monitored in the first place.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"target":       true,
	"dist":         true,
	"build":        true,
	"__pycache__":  true,
	".idea":        true,
	".vscode":      true,
}

// Watcher reports debounced batches of changed files under a root.
type Watcher interface {
	// Start begins watching. The callback receives each debounced batch
	// of changed paths until the context is cancelled or Stop is called.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop shuts the watcher down. Safe to call more than once.
	Stop() error
}

// treeWatcher implements Watcher on fsnotify.
type treeWatcher struct {
	watcher       *fsnotify.Watcher
	root          string
	extensions    map[string]bool // Extensions to monitor (.go, .rs, etc.)
	debounce      time.Duration   // Quiet period before firing callback
	callback      func(files []string)
	ctx           context.Context
	cancel        context.CancelFunc
	accumulated   map[string]bool // Accumulated file changes
	accumulatedMu sync.Mutex      // Protects accumulated map
	debounceTimer *time.Timer     // Current debounce timer
	timerMu       sync.Mutex      // Protects debounce timer
	stopOnce      sync.Once       // Ensures Stop() is idempotent
	doneCh        chan struct{}   // Signals watch goroutine has finished
}

// New creates a watcher for the tree rooted at root. Only events for the
// given extensions (".go", ".rs", ...) are reported. A debounce <= 0 uses
// DefaultDebounce.
func New(root string, extensions []string, debounce time.Duration) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	extMap := make(map[string]bool)
	for _, ext := range extensions {
		extMap[strings.ToLower(ext)] = true
	}

	tw := &treeWatcher{
		watcher:     watcher,
		root:        root,
		extensions:  extMap,
		debounce:    debounce,
		accumulated: make(map[string]bool),
		doneCh:      make(chan struct{}),
	}

	if err := tw.addDirectoriesRecursively(root); err != nil {
		watcher.Close()
		return nil, err
	}

	return tw, nil
}

// Start begins watching for file changes.
func (tw *treeWatcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}

	tw.callback = callback
	tw.ctx, tw.cancel = context.WithCancel(ctx)

	go tw.watch()
	return nil
}

// Stop stops the watcher and waits for its goroutine to finish.
func (tw *treeWatcher) Stop() error {
	var err error
	tw.stopOnce.Do(func() {
		if tw.cancel != nil {
			tw.cancel()
			<-tw.doneCh
		} else {
			// Never started, close doneCh manually
			close(tw.doneCh)
		}

		err = tw.watcher.Close()
	})
	return err
}

// watch is the main event loop.
func (tw *treeWatcher) watch() {
	defer close(tw.doneCh)

	fireCh := make(chan struct{}, 1)

	for {
		select {
		case <-tw.ctx.Done():
			tw.stopDebounceTimer()
			return

		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}

			// New directories join the watch as they appear
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := tw.addDirectoriesRecursively(event.Name); err != nil {
						log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
					}
				}
			}

			if !tw.shouldProcessEvent(event) {
				continue
			}

			tw.accumulatedMu.Lock()
			tw.accumulated[event.Name] = true
			tw.accumulatedMu.Unlock()

			tw.resetDebounceTimer(fireCh)

		case <-fireCh:
			tw.flushAccumulated()

		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// flushAccumulated fires the callback with the batch collected since the
// last quiet period.
func (tw *treeWatcher) flushAccumulated() {
	tw.accumulatedMu.Lock()
	if len(tw.accumulated) == 0 {
		tw.accumulatedMu.Unlock()
		return
	}

	files := make([]string, 0, len(tw.accumulated))
	for file := range tw.accumulated {
		files = append(files, file)
	}
	tw.accumulated = make(map[string]bool)
	tw.accumulatedMu.Unlock()

	tw.callback(files)
}

// resetDebounceTimer resets the debounce timer, properly stopping the old one.
func (tw *treeWatcher) resetDebounceTimer(fireCh chan struct{}) {
	tw.timerMu.Lock()
	defer tw.timerMu.Unlock()

	if tw.debounceTimer != nil {
		if !tw.debounceTimer.Stop() {
			// Timer already fired, drain the channel
			select {
			case <-tw.debounceTimer.C:
			default:
			}
		}
	}

	tw.debounceTimer = time.AfterFunc(tw.debounce, func() {
		select {
		case fireCh <- struct{}{}:
		default:
		}
	})
}

// stopDebounceTimer stops the debounce timer if it exists.
func (tw *treeWatcher) stopDebounceTimer() {
	tw.timerMu.Lock()
	defer tw.timerMu.Unlock()

	if tw.debounceTimer != nil {
		tw.debounceTimer.Stop()
		tw.debounceTimer = nil
	}
}

// shouldProcessEvent checks if an event should be processed based on
// operation and extension.
func (tw *treeWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	ext := strings.ToLower(filepath.Ext(event.Name))
	return tw.extensions[ext]
}

// addDirectoriesRecursively adds all directories in the tree to the
// watcher, pruning directories that are never digested.
func (tw *treeWatcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			// For subdirectories, log but continue
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}

		if !info.IsDir() {
			return nil
		}
		if path != rootPath && skipDirs[info.Name()] {
			return filepath.SkipDir
		}

		if err := tw.watcher.Add(path); err != nil {
			log.Printf("Warning: failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}
