// Package watcher wraps fsnotify with recursive directory registration and
// debouncing, so a burst of writes to the source tree triggers a single
// regeneration.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler receives one debounced batch of file change events.
type ChangeHandler func(events []fsnotify.Event)

// TreeWatcher watches a directory tree for changes with debouncing.
type TreeWatcher struct {
	watcher *fsnotify.Watcher
	delay   time.Duration
}

// New creates a tree watcher that groups events arriving within delay of
// each other into one batch.
func New(delay time.Duration) (*TreeWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &TreeWatcher{watcher: w, delay: delay}, nil
}

// AddRecursive registers root and every directory below it. fsnotify does
// not watch recursively by itself.
func (tw *TreeWatcher) AddRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtrees are simply not watched
		}
		if d.IsDir() {
			return tw.watcher.Add(path)
		}
		return nil
	})
}

// Watch blocks delivering debounced event batches to handler until ctx is
// cancelled or the underlying watcher closes. Newly created directories are
// added to the watch set as they appear.
func (tw *TreeWatcher) Watch(ctx context.Context, handler ChangeHandler) error {
	var pending []fsnotify.Event
	timer := time.NewTimer(tw.delay)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-tw.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = tw.AddRecursive(event.Name)
				}
			}
			pending = append(pending, event)
			timer.Reset(tw.delay)

		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return nil
			}
			_ = err // transient watch errors do not stop the loop

		case <-timer.C:
			if len(pending) > 0 {
				batch := pending
				pending = nil
				handler(batch)
			}
		}
	}
}

// Close shuts down the underlying fsnotify watcher.
func (tw *TreeWatcher) Close() error {
	return tw.watcher.Close()
}
