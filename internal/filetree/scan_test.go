package filetree

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertGraphSymmetry checks that for every pair of files A, B in the tree,
// B is in A's dependents exactly when A is in B's dependencies.
func assertGraphSymmetry(t *testing.T, tc *TreeContext) {
	t.Helper()
	files := tc.FlattenFiles()
	byPath := map[string]*Node{}
	for _, f := range files {
		byPath[f.Path] = f
	}

	for _, f := range files {
		for _, dep := range f.Dependencies {
			target, ok := byPath[dep]
			if !ok {
				continue
			}
			assert.True(t, target.hasDependent(f.Path),
				"%s depends on %s but is not in its dependents", f.Path, dep)
		}
		for _, from := range f.Dependents {
			source, ok := byPath[from]
			require.True(t, ok, "dependent %s of %s not in tree", from, f.Path)
			assert.True(t, source.hasDependency(f.Path),
				"%s is a dependent of %s but does not depend on it", from, f.Path)
		}
	}
}

func TestScan_EndToEnd(t *testing.T) {
	root := t.TempDir()
	bPath := writeFile(t, root, "b.ts", "export const x = 1\n")
	aPath := writeFile(t, root, "a.ts", "import { x } from './b'\n")

	tc := NewTreeContext(root, nil)
	tree := tc.Scan()

	require.NotNil(t, tree)
	require.True(t, tree.IsDirectory)

	a := tc.FindNode(aPath)
	b := tc.FindNode(bPath)
	require.NotNil(t, a)
	require.NotNil(t, b)

	assert.Equal(t, []string{bPath}, a.Dependencies)
	assert.Equal(t, []string{aPath}, b.Dependents)
	assertGraphSymmetry(t, tc)

	// Both scores include at least the source-extension base points plus
	// one mutual-edge bonus.
	assert.GreaterOrEqual(t, a.Importance, 4)
	assert.GreaterOrEqual(t, b.Importance, 4)
}

func TestScan_ScoreBounds(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/index.ts", "import './a'\nimport './b'\n")
	writeFile(t, root, "src/a.ts", "import { i } from './index'\n")
	writeFile(t, root, "src/b.ts", "import { i } from './index'\n")
	writeFile(t, root, "package.json", "{}")
	writeFile(t, root, "notes.md", "# notes\n")

	tc := NewTreeContext(root, nil)
	tc.Scan()

	for _, f := range tc.FlattenFiles() {
		assert.GreaterOrEqual(t, f.Importance, 0, "path %s", f.Path)
		assert.LessOrEqual(t, f.Importance, 10, "path %s", f.Path)
	}
}

func TestScan_MissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	tc := NewTreeContext(missing, nil)
	tree := tc.Scan()

	require.NotNil(t, tree)
	assert.True(t, tree.IsDirectory)
	assert.Empty(t, tree.Children)
}

func TestScan_AlwaysExcludedDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".git/config", "[core]\n")
	writeFile(t, root, "node_modules/express/index.js", "module.exports = {}\n")
	writeFile(t, root, "main.ts", "export {}\n")

	// Empty pattern list: hard-coded exclusions still apply.
	tc := NewTreeContext(root, nil)
	tc.Scan()

	files := tc.FlattenFiles()
	require.Len(t, files, 1)
	assert.Equal(t, "main.ts", files[0].Name)
}

func TestScan_ExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.ts", "export {}\n")
	writeFile(t, root, "dist/out.js", "void 0\n")
	writeFile(t, root, "src/debug.log", "noise\n")

	tc := NewTreeContext(root, []string{"dist", "*.log"})
	tc.Scan()

	var names []string
	for _, f := range tc.FlattenFiles() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"main.ts"}, names)
}

func TestScan_TreeMirrorsFilesystem(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", "export {}\n")
	writeFile(t, root, "src/sub/b.ts", "export {}\n")
	writeFile(t, root, "top.ts", "export {}\n")

	tc := NewTreeContext(root, nil)
	tree := tc.Scan()

	src := tc.FindNode(NormalizePath(filepath.Join(root, "src")))
	require.NotNil(t, src)
	assert.True(t, src.IsDirectory)
	require.Len(t, src.Children, 2)

	assert.Len(t, tree.Children, 2) // src/ and top.ts
	assert.Len(t, tc.FlattenFiles(), 3)
}
