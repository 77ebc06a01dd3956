package filetree

import (
	"log"
	"os"
	gopath "path"
	"path/filepath"
)

// AddFile patches the live tree for a newly created file: the file is
// analyzed in isolation, inserted under its parent directory, and the
// dependent sets of its resolved import targets are repaired. Only the new
// node and its direct neighbors are rescored; nothing propagates further.
// Returns false (logged, no mutation) when the parent directory is not in
// the tree or a node with this path already exists.
func (tc *TreeContext) AddFile(path string) bool {
	path = NormalizePath(path)

	parent := tc.FindNode(gopath.Dir(path))
	if parent == nil || !parent.IsDirectory {
		log.Printf("filetree: add %s: parent directory not in tree", path)
		return false
	}
	if tc.FindNode(path) != nil {
		// Duplicate notification; adding is idempotent.
		return false
	}

	node := tc.scanFile(path)
	parent.Children = append(parent.Children, node)
	sortChildren(parent)

	// Graph-symmetry repair: the new file's targets gain a dependent.
	// A brand-new file has no dependents of its own.
	for _, dep := range node.Dependencies {
		if target := tc.FindNode(dep); target != nil && !target.hasDependent(node.Path) {
			target.Dependents = append(target.Dependents, node.Path)
		}
	}

	tc.refineScore(node)
	for _, dep := range node.Dependencies {
		if target := tc.FindNode(dep); target != nil {
			tc.refineScore(target)
		}
	}
	return true
}

// RemoveFile detaches a file from the tree and repairs both edge directions
// on its former neighbors: targets it imported lose a dependent, files that
// imported it lose a dependency. Every touched neighbor is rescored; nodes
// further away keep their scores until the next full recalculation. Returns
// false when the path is absent, a directory, or orphaned.
func (tc *TreeContext) RemoveFile(path string) bool {
	path = NormalizePath(path)

	node := tc.FindNode(path)
	if node == nil || node.IsDirectory {
		return false
	}
	parent := tc.FindNode(gopath.Dir(path))
	if parent == nil {
		return false
	}

	// Snapshot the edge sets before any mutation.
	deps := append([]string(nil), node.Dependencies...)
	dependents := append([]string(nil), node.Dependents...)

	detachChild(parent, path)

	for _, dep := range deps {
		if target := tc.FindNode(dep); target != nil {
			target.removeDependent(path)
			tc.refineScore(target)
		}
	}
	for _, from := range dependents {
		if source := tc.FindNode(from); source != nil {
			source.removeDependency(path)
			tc.refineScore(source)
		}
	}
	return true
}

// RefreshFile re-extracts imports for an already-indexed file in place.
// Outgoing edges are rebuilt from the file's current content; incoming edges
// (the node's dependents) are preserved untouched. The node and every gained
// or lost dependency target are rescored. Returns false when the path is
// absent from the tree or names a directory.
func (tc *TreeContext) RefreshFile(path string) bool {
	path = NormalizePath(path)

	node := tc.FindNode(path)
	if node == nil || node.IsDirectory {
		return false
	}

	oldDeps := append([]string(nil), node.Dependencies...)

	node.Dependencies = nil
	node.PackageDependencies = nil
	content, err := os.ReadFile(filepath.FromSlash(path))
	if err != nil {
		log.Printf("filetree: cannot read file %s: %v", path, err)
	} else {
		node.Dependencies, node.PackageDependencies = tc.ExtractImports(path, content)
	}

	// Graph-symmetry repair, outgoing edges only: dropped targets lose this
	// file as a dependent, gained targets acquire it.
	for _, dep := range oldDeps {
		if node.hasDependency(dep) {
			continue
		}
		if target := tc.FindNode(dep); target != nil {
			target.removeDependent(path)
			tc.refineScore(target)
		}
	}
	for _, dep := range node.Dependencies {
		if target := tc.FindNode(dep); target != nil && !target.hasDependent(path) {
			target.Dependents = append(target.Dependents, path)
			tc.refineScore(target)
		}
	}

	tc.refineScore(node)
	return true
}

// detachChild removes the child with the given path from dir's children.
func detachChild(dir *Node, path string) {
	kept := dir.Children[:0]
	for _, c := range dir.Children {
		if c.Path != path {
			kept = append(kept, c)
		}
	}
	dir.Children = kept
}
