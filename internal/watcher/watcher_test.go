package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/depscope/internal/filetree"
)

// scannedTree scans a temp project with a.ts importing b.ts and returns the
// tree plus the project dir.
func scannedTree(t *testing.T, excludes []string) (*filetree.TreeContext, string) {
	t.Helper()
	dir := t.TempDir()
	// fsnotify paths come back through the symlink-resolved mount on macOS;
	// resolving up front keeps event paths and tree paths comparable.
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	dir = resolved

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.ts"), []byte("export const x = 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ts"), []byte("import { x } from './b'\n"), 0o644))

	tree := filetree.NewTreeContext(dir, excludes)
	tree.Scan()
	return tree, dir
}

func TestAccept_ExcludedEvents(t *testing.T) {
	tree, dir := scannedTree(t, []string{"*.log"})
	w := New(tree, 0, nil)

	assert.True(t, w.accept(fsnotify.Event{Name: filepath.Join(dir, "c.ts")}))
	assert.False(t, w.accept(fsnotify.Event{Name: filepath.Join(dir, "debug.log")}))
	assert.False(t, w.accept(fsnotify.Event{Name: filepath.Join(dir, "node_modules", "x", "index.js")}))
}

func TestApply_CreateAndRemove(t *testing.T) {
	tree, dir := scannedTree(t, nil)

	var changes []Change
	w := New(tree, 0, func(c Change) { changes = append(changes, c) })

	fsw, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer func() { _ = fsw.Close() }()

	path := filetree.NormalizePath(filepath.Join(dir, "c.ts"))
	require.NoError(t, os.WriteFile(filepath.FromSlash(path), []byte("import { x } from './b'\n"), 0o644))

	w.apply(fsw, path, fsnotify.Create)
	require.Len(t, changes, 1)
	assert.Equal(t, Change{Op: "add", Path: path, Applied: true, Time: changes[0].Time}, changes[0])
	require.NotNil(t, tree.FindNode(path))

	w.apply(fsw, path, fsnotify.Remove)
	require.Len(t, changes, 2)
	assert.Equal(t, "remove", changes[1].Op)
	assert.True(t, changes[1].Applied)
	assert.Nil(t, tree.FindNode(path))
}

func TestApply_RemoveMissingNotApplied(t *testing.T) {
	tree, dir := scannedTree(t, nil)

	var changes []Change
	w := New(tree, 0, func(c Change) { changes = append(changes, c) })

	fsw, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer func() { _ = fsw.Close() }()

	w.apply(fsw, filetree.NormalizePath(filepath.Join(dir, "ghost.ts")), fsnotify.Remove)
	require.Len(t, changes, 1)
	assert.False(t, changes[0].Applied)
}

func TestApply_WriteRefreshesImports(t *testing.T) {
	tree, dir := scannedTree(t, nil)

	aPath := filetree.NormalizePath(filepath.Join(dir, "a.ts"))
	bPath := filetree.NormalizePath(filepath.Join(dir, "b.ts"))

	var changes []Change
	w := New(tree, 0, func(c Change) { changes = append(changes, c) })

	fsw, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer func() { _ = fsw.Close() }()

	// a.ts drops its import of b.ts.
	require.NoError(t, os.WriteFile(filepath.FromSlash(aPath), []byte("const x = 1\n"), 0o644))
	w.apply(fsw, aPath, fsnotify.Write)

	require.Len(t, changes, 1)
	assert.Equal(t, "refresh", changes[0].Op)
	assert.True(t, changes[0].Applied)

	a := tree.FindNode(aPath)
	require.NotNil(t, a)
	assert.Empty(t, a.Dependencies)

	b := tree.FindNode(bPath)
	require.NotNil(t, b)
	assert.Empty(t, b.Dependents)
}

func TestApply_WriteKeepsDependentEdges(t *testing.T) {
	tree, dir := scannedTree(t, nil)

	aPath := filetree.NormalizePath(filepath.Join(dir, "a.ts"))
	bPath := filetree.NormalizePath(filepath.Join(dir, "b.ts"))

	var changes []Change
	w := New(tree, 0, func(c Change) { changes = append(changes, c) })

	fsw, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer func() { _ = fsw.Close() }()

	// b.ts is edited while a.ts still imports it; the refresh must not
	// strip b's incoming edge or a's outgoing one.
	require.NoError(t, os.WriteFile(filepath.FromSlash(bPath), []byte("export const x = 2\n"), 0o644))
	w.apply(fsw, bPath, fsnotify.Write)

	require.Len(t, changes, 1)
	assert.Equal(t, "refresh", changes[0].Op)
	assert.True(t, changes[0].Applied)

	b := tree.FindNode(bPath)
	require.NotNil(t, b)
	assert.Equal(t, []string{aPath}, b.Dependents)

	a := tree.FindNode(aPath)
	require.NotNil(t, a)
	assert.Equal(t, []string{bPath}, a.Dependencies)
}

func TestApply_WriteUntrackedIgnored(t *testing.T) {
	tree, dir := scannedTree(t, nil)

	var changes []Change
	w := New(tree, 0, func(c Change) { changes = append(changes, c) })

	fsw, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer func() { _ = fsw.Close() }()

	w.apply(fsw, filetree.NormalizePath(filepath.Join(dir, "untracked.ts")), fsnotify.Write)
	assert.Empty(t, changes)
}

// TestRun_EndToEnd drives Run against the real filesystem: create a file,
// wait for the debounced change, then remove it.
func TestRun_EndToEnd(t *testing.T) {
	tree, dir := scannedTree(t, nil)

	changed := make(chan Change, 16)
	w := New(tree, 50*time.Millisecond, func(c Change) {
		changed <- c
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Let the watcher register directories before generating events.
	time.Sleep(200 * time.Millisecond)

	path := filepath.Join(dir, "c.ts")
	require.NoError(t, os.WriteFile(path, []byte("import { x } from './b'\n"), 0o644))

	waitFor := func(op string) Change {
		t.Helper()
		deadline := time.After(5 * time.Second)
		for {
			select {
			case c := <-changed:
				if c.Op == op {
					return c
				}
			case <-deadline:
				t.Fatalf("timed out waiting for %q change", op)
			}
		}
	}

	c := waitFor("add")
	assert.True(t, c.Applied)
	assert.Equal(t, filetree.NormalizePath(path), c.Path)

	require.NoError(t, os.Remove(path))
	c = waitFor("remove")
	assert.True(t, c.Applied)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
