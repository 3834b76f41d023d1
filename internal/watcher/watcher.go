// Package watcher notifies when board snapshot files change on disk.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/antopolskiy/kanban-layout/internal/debounce"
)

// DefaultDelay is the debounce delay used when New is given zero.
const DefaultDelay = 150 * time.Millisecond

// meaningfulOps are the operations that can change a snapshot.
const meaningfulOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Watcher watches directories and single files, coalescing bursts of
// changes into one callback.
type Watcher struct {
	fsw      *fsnotify.Watcher
	callback func()
	delay    time.Duration

	// dirs are watched in full; files are watched through their parent
	// directory and filtered by name.
	dirs  map[string]bool
	files map[string]bool
}

// New creates a watcher on the given paths. A directory reports changes to
// any entry; a file reports changes to itself only, including editors that
// replace it by rename.
func New(paths []string, delay time.Duration, callback func()) (*Watcher, error) {
	if delay <= 0 {
		delay = DefaultDelay
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		callback: callback,
		delay:    delay,
		dirs:     make(map[string]bool),
		files:    make(map[string]bool),
	}
	for _, p := range paths {
		if err := w.add(p); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	target := abs
	if info.IsDir() {
		w.dirs[abs] = true
	} else {
		w.files[abs] = true
		target = filepath.Dir(abs)
	}
	if err := w.fsw.Add(target); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	return nil
}

// Run processes events until ctx is cancelled or the watcher is closed.
// errFn, if non-nil, receives errors reported by the underlying watcher.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	logger := log.FromContext(ctx)
	d := debounce.New(w.delay, w.callback)
	defer d.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&meaningfulOps == 0 {
				continue
			}
			if !w.relevant(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if err := w.addCreatedDir(ev.Name); err != nil && errFn != nil {
					errFn(err)
				}
			}
			logger.Debug("snapshot changed", "path", ev.Name, "op", ev.Op.String())
			d.Trigger()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

// addCreatedDir starts watching name when it is a new directory inside a
// watched directory, such as a tasks dir created after the board was loaded.
func (w *Watcher) addCreatedDir(name string) error {
	abs, err := filepath.Abs(name)
	if err != nil || w.dirs[abs] || !w.dirs[filepath.Dir(abs)] {
		return nil
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil
	}
	if err := w.fsw.Add(abs); err != nil {
		return fmt.Errorf("watching %s: %w", name, err)
	}
	w.dirs[abs] = true
	return nil
}

// relevant reports whether an event on name concerns a watched path.
func (w *Watcher) relevant(name string) bool {
	if len(w.dirs) == 0 && len(w.files) == 0 {
		return true
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return w.files[abs] || w.dirs[filepath.Dir(abs)] || w.dirs[abs]
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
