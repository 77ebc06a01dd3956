// Package watcher monitors a scanned project for file creation and deletion
// and feeds the changes to the engine's incremental updater, so the live
// tree tracks the filesystem without full rescans.
package watcher

import (
	"context"
	"fmt"
	"os"
	gopath "path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/depscope/internal/filetree"
)

// Change describes one incremental update applied (or rejected) by the
// watcher.
type Change struct {
	Op      string // "add", "remove", "refresh"
	Path    string
	Applied bool
	Time    time.Time
}

// Watcher tails filesystem events under the project root, debounces them,
// and applies add/remove/refresh operations to the tree. All tree mutations
// happen on the watcher's apply loop, one at a time; callers must not mutate
// the tree concurrently while Run is active.
type Watcher struct {
	tree     *filetree.TreeContext
	debounce time.Duration
	changeFn func(Change) // callback after each applied change

	pending map[string]fsnotify.Op
}

// New creates a Watcher over a scanned tree. changeFn may be nil.
func New(tree *filetree.TreeContext, debounce time.Duration, changeFn func(Change)) *Watcher {
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	return &Watcher{
		tree:     tree,
		debounce: debounce,
		changeFn: changeFn,
		pending:  map[string]fsnotify.Op{},
	}
}

// Run watches until ctx is cancelled. It registers every directory already
// in the tree, then pumps events into a debounced pending set which a second
// goroutine flushes into the incremental updater.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting fsnotify: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	if err := w.addDirectories(fsw, w.tree.Root); err != nil {
		return err
	}

	batches := make(chan map[string]fsnotify.Op)

	g, ctx := errgroup.WithContext(ctx)

	// Collector: reads raw events, coalesces per path, flushes a batch
	// once the stream has been quiet for the debounce window.
	g.Go(func() error {
		timer := time.NewTimer(w.debounce)
		if !timer.Stop() {
			<-timer.C
		}
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ev, ok := <-fsw.Events:
				if !ok {
					return nil
				}
				if w.accept(ev) {
					w.pending[filetree.NormalizePath(ev.Name)] |= ev.Op
					timer.Reset(w.debounce)
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return nil
				}
				// Watch errors are not fatal; the tree just goes stale.
				fmt.Fprintln(os.Stderr, "depscope watch:", err)
			case <-timer.C:
				if len(w.pending) == 0 {
					continue
				}
				batch := w.pending
				w.pending = map[string]fsnotify.Op{}
				select {
				case batches <- batch:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	})

	// Applier: the only goroutine that mutates the tree.
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case batch := <-batches:
				for path, op := range batch {
					w.apply(fsw, path, op)
				}
			}
		}
	})

	return g.Wait()
}

// accept filters out events for excluded entries.
func (w *Watcher) accept(ev fsnotify.Event) bool {
	path := filetree.NormalizePath(ev.Name)
	rel := strings.TrimPrefix(strings.TrimPrefix(path, w.tree.ProjectRoot), "/")
	return !w.tree.Excludes.Excluded(gopath.Base(path), rel)
}

// apply translates one coalesced event into engine operations. A create
// followed by a remove within the window cancels out via the updater's own
// no-op behavior. New directories are registered for watching; files inside
// them surface as their own create events.
func (w *Watcher) apply(fsw *fsnotify.Watcher, path string, op fsnotify.Op) {
	now := time.Now()

	switch {
	case op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename):
		applied := w.tree.RemoveFile(path)
		w.emit(Change{Op: "remove", Path: path, Applied: applied, Time: now})
		if op.Has(fsnotify.Create) && !op.Has(fsnotify.Remove) {
			// Rename within the tree: the new name arrives as its own event.
			return
		}

	case op.Has(fsnotify.Create):
		if info, err := os.Stat(filepath.FromSlash(path)); err == nil && info.IsDir() {
			_ = fsw.Add(filepath.FromSlash(path))
			return
		}
		applied := w.tree.AddFile(path)
		w.emit(Change{Op: "add", Path: path, Applied: applied, Time: now})

	case op.Has(fsnotify.Write):
		// Content changed: re-extract imports in place so the file's
		// dependents keep their edges.
		applied := w.tree.RefreshFile(path)
		if !applied {
			return
		}
		w.emit(Change{Op: "refresh", Path: path, Applied: applied, Time: now})
	}
}

func (w *Watcher) emit(c Change) {
	if w.changeFn != nil {
		w.changeFn(c)
	}
}

// addDirectories registers every directory node in the tree with fsnotify.
func (w *Watcher) addDirectories(fsw *fsnotify.Watcher, n *filetree.Node) error {
	if n == nil {
		return fmt.Errorf("watch requires a scanned tree")
	}
	if !n.IsDirectory {
		return nil
	}
	if err := fsw.Add(filepath.FromSlash(n.Path)); err != nil {
		// A directory may vanish between scan and watch; skip it.
		fmt.Fprintln(os.Stderr, "depscope watch:", err)
	}
	for _, c := range n.Children {
		if c.IsDirectory {
			if err := w.addDirectories(fsw, c); err != nil {
				return err
			}
		}
	}
	return nil
}
