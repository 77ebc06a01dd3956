// Package filetree implements the depscope dependency graph engine: it scans
// a project directory, extracts cross-file imports per language, maintains a
// bidirectional dependency graph, and scores each file's importance.
package filetree

// Node is a single entry in the scanned tree. Directories carry Children;
// files carry the dependency and importance fields. Path is the canonical
// forward-slash absolute path and is the unique key within a tree.
type Node struct {
	Path        string  `json:"path"`
	Name        string  `json:"name"`
	IsDirectory bool    `json:"isDirectory"`
	Children    []*Node `json:"children,omitempty"`

	// Dependencies holds canonical paths of local files this file imports.
	Dependencies []string `json:"dependencies,omitempty"`

	// PackageDependencies holds non-local (vendored/external) imports.
	PackageDependencies []PackageDependency `json:"packageDependencies,omitempty"`

	// Dependents holds canonical paths of files that import this file.
	// Derived: inverse of Dependencies across the tree.
	Dependents []string `json:"dependents,omitempty"`

	// Importance is the heuristic score in [0,10]. Files only.
	Importance int `json:"importance"`

	// Summary is a free-text annotation set by callers, never derived.
	Summary string `json:"summary,omitempty"`
}

// PackageDependency describes one external package import. Version and
// IsDevDependency are filled from the project manifest when available.
type PackageDependency struct {
	Name            string `json:"name"`
	Version         string `json:"version,omitempty"`
	Scope           string `json:"scope,omitempty"`
	IsDevDependency bool   `json:"isDevDependency,omitempty"`
	Path            string `json:"path"`
}

// hasDependency reports whether path is already recorded in n.Dependencies.
func (n *Node) hasDependency(path string) bool {
	for _, d := range n.Dependencies {
		if d == path {
			return true
		}
	}
	return false
}

// hasDependent reports whether path is already recorded in n.Dependents.
func (n *Node) hasDependent(path string) bool {
	for _, d := range n.Dependents {
		if d == path {
			return true
		}
	}
	return false
}

// removeDependency deletes path from n.Dependencies if present.
func (n *Node) removeDependency(path string) {
	n.Dependencies = removeString(n.Dependencies, path)
}

// removeDependent deletes path from n.Dependents if present.
func (n *Node) removeDependent(path string) {
	n.Dependents = removeString(n.Dependents, path)
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
