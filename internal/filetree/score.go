package filetree

import (
	gopath "path"
	"strings"
)

// baseScoreByExtension assigns the extension-type base points: source
// languages score above markup and config formats.
var baseScoreByExtension = map[string]int{
	".ts": 3, ".tsx": 3, ".js": 3, ".jsx": 3, ".mjs": 3, ".cjs": 3,
	".py": 3, ".rs": 3, ".go": 3, ".c": 3, ".h": 3, ".cpp": 3, ".hpp": 3,
	".cc": 3, ".hh": 3, ".lua": 3, ".zig": 3,
	".json": 1, ".yaml": 1, ".yml": 1, ".toml": 1,
	".md": 1, ".html": 1, ".css": 1,
}

// manifestFiles are package/build-config files that outrank plain source.
var manifestFiles = map[string]int{
	"package.json":   4,
	"go.mod":         4,
	"cargo.toml":     4,
	"pyproject.toml": 4,
	"tsconfig.json":  4,
	"makefile":       4,
}

// significantNames are conventional role names that earn a filename bonus.
var significantNames = map[string]bool{
	"index": true, "main": true, "server": true, "app": true,
	"config": true, "setup": true, "init": true, "api": true,
	"router": true, "routes": true, "types": true, "utils": true,
	"core": true, "store": true,
}

// sourceDirs and testDirs are conventional top-level directory names that
// earn a location bonus.
var sourceDirs = map[string]bool{"src": true, "app": true, "lib": true}
var testDirs = map[string]bool{"test": true, "tests": true, "spec": true, "__tests__": true}

// clampScore bounds a running total to the closed interval [0,10].
func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 10 {
		return 10
	}
	return s
}

// initialScore computes the graph-free part of a file's importance: base
// points by extension (manifest-like filenames outrank everything), a bonus
// for living under a conventional source or test directory, and a bonus for
// a conventionally significant filename.
func (tc *TreeContext) initialScore(n *Node) int {
	name := strings.ToLower(n.Name)
	ext := strings.ToLower(gopath.Ext(n.Name))

	score, isManifest := manifestFiles[name]
	if !isManifest {
		score = baseScoreByExtension[ext]
	}

	rel := tc.relToRoot(n.Path)
	if i := strings.IndexByte(rel, '/'); i > 0 {
		top := rel[:i]
		if sourceDirs[top] {
			score += 2
		} else if testDirs[top] {
			score += 1
		}
	}

	stem := strings.TrimSuffix(name, ext)
	if significantNames[stem] {
		score += 2
	}

	return clampScore(score)
}

// refineScore replaces a file's importance with the graph-aware score:
// the initial score plus capped centrality bonuses for dependents, local
// dependencies, and package dependencies. SDK-classified packages (the
// configured distinguished package) earn a larger share than the rest.
func (tc *TreeContext) refineScore(n *Node) {
	score := tc.initialScore(n)

	score += minInt(len(n.Dependents), 3)
	score += minInt(len(n.Dependencies), 2)

	sdk := 0
	other := 0
	for _, p := range n.PackageDependencies {
		if p.Name == tc.sdkPackage() {
			sdk++
		} else {
			other++
		}
	}
	score += minInt(sdk, 2)
	score += minInt(other, 1)

	n.Importance = clampScore(score)
}

// RecalculateImportance re-runs the refined scorer over every file in the
// tree, discarding any manual overrides.
func (tc *TreeContext) RecalculateImportance() {
	for _, f := range tc.FlattenFiles() {
		tc.refineScore(f)
	}
}

// SetImportance manually overrides a file's importance, bypassing the
// scorer. The value is clamped to [0,10] and persists until the next full
// rescan or recalculation. Returns false if the path is not a file in the
// tree.
func (tc *TreeContext) SetImportance(path string, value int) bool {
	n := tc.FindNode(path)
	if n == nil || n.IsDirectory {
		return false
	}
	n.Importance = clampScore(value)
	return true
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
