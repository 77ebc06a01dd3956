package filetree

import (
	"log"
	"os"
	gopath "path"
	"path/filepath"
	"strings"
)

// Scan walks the project root, builds the node tree, derives the dependent
// map, and scores every file. The finished tree replaces tc.Root and is also
// returned. An unreadable root yields an empty directory node, not an error.
func (tc *TreeContext) Scan() *Node {
	tc.InvalidateManifests()
	root := tc.scanDirectory(tc.ProjectRoot)
	tc.Root = root
	tc.buildDependentMap()
	tc.RecalculateImportance()
	return root
}

// scanDirectory recursively walks dir, applying the exclusion filter and
// extracting imports from every surviving file. Traversal is pre-order with
// entries in directory-listing order (alphabetical on most platforms).
func (tc *TreeContext) scanDirectory(dir string) *Node {
	dir = NormalizePath(dir)
	node := &Node{
		Path:        dir,
		Name:        gopath.Base(dir),
		IsDirectory: true,
	}

	entries, err := os.ReadDir(filepath.FromSlash(dir))
	if err != nil {
		log.Printf("filetree: cannot read directory %s: %v", dir, err)
		return node
	}

	for _, entry := range entries {
		childPath := dir + "/" + entry.Name()
		if tc.Excludes.Excluded(entry.Name(), tc.relToRoot(childPath)) {
			continue
		}

		if entry.IsDir() {
			node.Children = append(node.Children, tc.scanDirectory(childPath))
			continue
		}
		node.Children = append(node.Children, tc.scanFile(childPath))
	}

	return node
}

// scanFile builds a file node: imports extracted and resolved, initial
// importance assigned. The refined (graph-aware) score is applied later by
// RecalculateImportance. An unreadable file is treated as having no imports.
func (tc *TreeContext) scanFile(path string) *Node {
	path = NormalizePath(path)
	node := &Node{
		Path: path,
		Name: gopath.Base(path),
	}

	content, err := os.ReadFile(filepath.FromSlash(path))
	if err != nil {
		log.Printf("filetree: cannot read file %s: %v", path, err)
	} else {
		node.Dependencies, node.PackageDependencies = tc.ExtractImports(path, content)
	}

	node.Importance = tc.initialScore(node)
	return node
}

// relToRoot returns path relative to the project root, without a leading
// slash, for exclusion-pattern matching.
func (tc *TreeContext) relToRoot(path string) string {
	rel := strings.TrimPrefix(path, tc.ProjectRoot)
	return strings.TrimPrefix(rel, "/")
}
