package filetree

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFile_Basic(t *testing.T) {
	root := t.TempDir()
	bPath := writeFile(t, root, "b.ts", "export const x = 1\n")

	tc := NewTreeContext(root, nil)
	tc.Scan()

	// File appears on disk after the scan.
	cPath := writeFile(t, root, "c.ts", "import { x } from './b'\n")
	require.True(t, tc.AddFile(cPath))

	c := tc.FindNode(cPath)
	require.NotNil(t, c)
	assert.Equal(t, []string{bPath}, c.Dependencies)
	assert.Empty(t, c.Dependents, "a brand-new file has no importers")

	b := tc.FindNode(bPath)
	assert.Equal(t, []string{cPath}, b.Dependents)
	assertGraphSymmetry(t, tc)
}

func TestAddFile_ParentMissing(t *testing.T) {
	root := t.TempDir()
	tc := NewTreeContext(root, nil)
	tc.Scan()

	orphan := filepath.Join(root, "nope", "x.ts")
	assert.False(t, tc.AddFile(orphan))
}

func TestAddFile_DuplicateIsNoOp(t *testing.T) {
	root := t.TempDir()
	aPath := writeFile(t, root, "a.ts", "export {}\n")

	tc := NewTreeContext(root, nil)
	tc.Scan()

	before := treeJSON(t, tc.Root)
	assert.False(t, tc.AddFile(aPath), "duplicate notification should no-op")
	assert.Equal(t, before, treeJSON(t, tc.Root))
}

func TestAddFile_ChildrenResorted(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.ts", "export {}\n")
	writeFile(t, root, "d.ts", "export {}\n")

	tc := NewTreeContext(root, nil)
	tc.Scan()

	cPath := writeFile(t, root, "c.ts", "export {}\n")
	require.True(t, tc.AddFile(cPath))

	var names []string
	for _, child := range tc.Root.Children {
		names = append(names, child.Name)
	}
	assert.Equal(t, []string{"b.ts", "c.ts", "d.ts"}, names)
}

func TestRemoveFile_IncrementalScenario(t *testing.T) {
	root := t.TempDir()
	bPath := writeFile(t, root, "b.ts", "export const x = 1\n")
	aPath := writeFile(t, root, "a.ts", "import { x } from './b'\n")
	uPath := writeFile(t, root, "unrelated.ts", "export const q = 9\n")

	tc := NewTreeContext(root, nil)
	tc.Scan()

	unrelatedBefore := treeJSON(t, tc.FindNode(uPath))

	require.True(t, tc.RemoveFile(aPath))

	assert.Nil(t, tc.FindNode(aPath))
	b := tc.FindNode(bPath)
	require.NotNil(t, b)
	assert.Empty(t, b.Dependents)
	assertGraphSymmetry(t, tc)

	// Nothing outside {a.ts, b.ts} may change.
	assert.Equal(t, unrelatedBefore, treeJSON(t, tc.FindNode(uPath)))
}

func TestRemoveFile_RepairsBothDirections(t *testing.T) {
	root := t.TempDir()
	bPath := writeFile(t, root, "b.ts", "export const x = 1\n")
	mPath := writeFile(t, root, "mid.ts", "import { x } from './b'\nexport const m = x\n")
	aPath := writeFile(t, root, "a.ts", "import { m } from './mid'\n")

	tc := NewTreeContext(root, nil)
	tc.Scan()

	require.True(t, tc.RemoveFile(mPath))

	// b loses its dependent, a loses its dependency.
	assert.Empty(t, tc.FindNode(bPath).Dependents)
	assert.Empty(t, tc.FindNode(aPath).Dependencies)
	assertGraphSymmetry(t, tc)
}

func TestRemoveFile_Aborts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", "export {}\n")

	tc := NewTreeContext(root, nil)
	tc.Scan()

	assert.False(t, tc.RemoveFile(filepath.Join(root, "gone.ts")))
	assert.False(t, tc.RemoveFile(filepath.Join(root, "src")), "directories are not removable")
}

func TestAddRemove_Inverse(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.ts", "export const x = 1\n")
	writeFile(t, root, "a.ts", "import { x } from './b'\n")

	tc := NewTreeContext(root, nil)
	tc.Scan()
	before := treeJSON(t, tc.Root)

	// A file with no imports and no importers.
	lonePath := writeFile(t, root, "lone.ts", "export const l = 1\n")
	require.True(t, tc.AddFile(lonePath))
	require.True(t, tc.RemoveFile(lonePath))
	require.NoError(t, os.Remove(filepath.FromSlash(lonePath)))

	assert.Equal(t, before, treeJSON(t, tc.Root))
}

func TestSetImportance_Override(t *testing.T) {
	root := t.TempDir()
	aPath := writeFile(t, root, "a.ts", "export {}\n")

	tc := NewTreeContext(root, nil)
	tc.Scan()

	require.True(t, tc.SetImportance(aPath, 9))
	assert.Equal(t, 9, tc.FindNode(aPath).Importance)

	// Values clamp to [0,10].
	require.True(t, tc.SetImportance(aPath, 42))
	assert.Equal(t, 10, tc.FindNode(aPath).Importance)

	// The override holds until the scorer runs again.
	tc.RecalculateImportance()
	assert.Equal(t, 3, tc.FindNode(aPath).Importance)

	assert.False(t, tc.SetImportance(filepath.Join(root, "missing.ts"), 5))
}

func TestSummary(t *testing.T) {
	root := t.TempDir()
	aPath := writeFile(t, root, "a.ts", "export {}\n")

	tc := NewTreeContext(root, nil)
	tc.Scan()

	require.True(t, tc.SetSummary(aPath, "entry point"))
	got, ok := tc.GetSummary(aPath)
	require.True(t, ok)
	assert.Equal(t, "entry point", got)

	_, ok = tc.GetSummary(filepath.Join(root, "missing.ts"))
	assert.False(t, ok)
}

// treeJSON renders a node to JSON for whole-structure comparisons.
func treeJSON(t *testing.T, n *Node) string {
	t.Helper()
	data, err := json.MarshalIndent(n, "", " ")
	require.NoError(t, err)
	return string(data)
}

func TestRefreshFile_PreservesDependents(t *testing.T) {
	root := t.TempDir()
	bPath := writeFile(t, root, "b.ts", "export const x = 1\n")
	aPath := writeFile(t, root, "a.ts", "import { x } from './b'\n")

	tc := NewTreeContext(root, nil)
	tc.Scan()

	// b.ts is edited in place; a.ts still imports it.
	require.NoError(t, os.WriteFile(filepath.FromSlash(bPath),
		[]byte("export const x = 2\n"), 0o644))
	require.True(t, tc.RefreshFile(bPath))

	b := tc.FindNode(bPath)
	require.NotNil(t, b)
	assert.Equal(t, []string{aPath}, b.Dependents, "incoming edges survive a refresh")

	a := tc.FindNode(aPath)
	require.NotNil(t, a)
	assert.Equal(t, []string{bPath}, a.Dependencies)
	assertGraphSymmetry(t, tc)
}

func TestRefreshFile_EdgeChanges(t *testing.T) {
	root := t.TempDir()
	bPath := writeFile(t, root, "b.ts", "export const x = 1\n")
	cPath := writeFile(t, root, "c.ts", "export const y = 1\n")
	aPath := writeFile(t, root, "a.ts", "import { x } from './b'\n")

	tc := NewTreeContext(root, nil)
	tc.Scan()

	// a.ts swaps its import from b.ts to c.ts.
	require.NoError(t, os.WriteFile(filepath.FromSlash(aPath),
		[]byte("import { y } from './c'\n"), 0o644))
	require.True(t, tc.RefreshFile(aPath))

	a := tc.FindNode(aPath)
	assert.Equal(t, []string{cPath}, a.Dependencies)
	assert.Empty(t, tc.FindNode(bPath).Dependents)
	assert.Equal(t, []string{aPath}, tc.FindNode(cPath).Dependents)
	assertGraphSymmetry(t, tc)
}

func TestRefreshFile_Aborts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.ts", "export {}\n")

	tc := NewTreeContext(root, nil)
	tc.Scan()

	assert.False(t, tc.RefreshFile(filepath.Join(root, "missing.ts")))
	assert.False(t, tc.RefreshFile(root), "directories are not refreshable")
}
