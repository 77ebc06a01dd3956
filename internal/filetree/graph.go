package filetree

import "sort"

// FindNode returns the node with the given canonical path, or nil. The
// lookup normalizes its argument, so callers may pass raw path strings.
func (tc *TreeContext) FindNode(path string) *Node {
	return findNode(tc.Root, NormalizePath(path))
}

func findNode(n *Node, path string) *Node {
	if n == nil {
		return nil
	}
	if n.Path == path {
		return n
	}
	for _, c := range n.Children {
		if found := findNode(c, path); found != nil {
			return found
		}
	}
	return nil
}

// FlattenFiles returns every file node in the tree in pre-order.
func (tc *TreeContext) FlattenFiles() []*Node {
	var files []*Node
	walkFiles(tc.Root, func(n *Node) {
		files = append(files, n)
	})
	return files
}

func walkFiles(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	if !n.IsDirectory {
		fn(n)
		return
	}
	for _, c := range n.Children {
		walkFiles(c, fn)
	}
}

// buildDependentMap derives the Dependents sets from the Dependencies sets
// across the whole tree, restoring the graph-symmetry invariant after a
// fresh scan. Dependencies are never mutated here; edges pointing outside
// the tree are ignored.
func (tc *TreeContext) buildDependentMap() {
	files := tc.FlattenFiles()
	byPath := make(map[string]*Node, len(files))
	for _, f := range files {
		byPath[f.Path] = f
	}

	for _, f := range files {
		for _, dep := range f.Dependencies {
			target, ok := byPath[dep]
			if !ok {
				continue
			}
			if !target.hasDependent(f.Path) {
				target.Dependents = append(target.Dependents, f.Path)
			}
		}
	}
}

// sortChildren re-sorts a directory's children alphabetically by name.
// Used after incremental insertion; full scans inherit directory order.
func sortChildren(dir *Node) {
	sort.Slice(dir.Children, func(i, j int) bool {
		return dir.Children[i].Name < dir.Children[j].Name
	})
}

// FindImportantFiles returns up to limit file nodes with importance at or
// above minImportance, sorted by importance descending, ties broken by path
// for deterministic output. limit <= 0 means no limit.
func (tc *TreeContext) FindImportantFiles(limit, minImportance int) []*Node {
	var out []*Node
	for _, f := range tc.FlattenFiles() {
		if f.Importance >= minImportance {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Importance != out[j].Importance {
			return out[i].Importance > out[j].Importance
		}
		return out[i].Path < out[j].Path
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
