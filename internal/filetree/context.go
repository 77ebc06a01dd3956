package filetree

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSDKPackage is the distinguished package name whose presence in a
// file's package dependencies earns the larger scoring bonus.
const DefaultSDKPackage = "@modelcontextprotocol/sdk"

// manifestCacheSize bounds the number of parsed project manifests kept in
// memory across scans and incremental updates.
const manifestCacheSize = 64

// TreeContext carries everything an engine operation needs: the live tree,
// the project root, the exclusion configuration, and scoring knobs. All
// engine calls take an explicit *TreeContext; there is no package-level
// tree state.
type TreeContext struct {
	// Root is the top of the live tree. Nil until the first Scan.
	Root *Node

	// ProjectRoot is the canonical absolute path the tree was scanned from.
	ProjectRoot string

	// Excludes filters filesystem entries during scans and watches.
	Excludes *ExcludeFilter

	// SDKPackage is the package name treated as SDK-classified by the
	// scorer. Empty means DefaultSDKPackage.
	SDKPackage string

	manifests *lru.Cache[string, *manifest]
}

// NewTreeContext builds a context for projectRoot with the given exclusion
// glob patterns. The pattern list is compiled once, up front.
func NewTreeContext(projectRoot string, excludePatterns []string) *TreeContext {
	cache, err := lru.New[string, *manifest](manifestCacheSize)
	if err != nil {
		// Only reachable with a non-positive size constant.
		panic(err)
	}
	return &TreeContext{
		ProjectRoot: NormalizePath(projectRoot),
		Excludes:    NewExcludeFilter(excludePatterns),
		manifests:   cache,
	}
}

// sdkPackage returns the configured SDK package name, falling back to the
// default when unset.
func (tc *TreeContext) sdkPackage() string {
	if tc.SDKPackage != "" {
		return tc.SDKPackage
	}
	return DefaultSDKPackage
}
