package filetree

import (
	"encoding/json"
	"os"
	gopath "path"
)

// manifest is the slice of a project manifest (package.json) the resolver
// cares about: declared dependency versions and their dev/production split.
type manifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// lookupManifest looks up a package name in the project manifest. A missing
// or unreadable manifest is non-fatal: the lookup just reports no match and
// the package record keeps its fields unset.
func (tc *TreeContext) lookupManifest(pkgName string) (version string, isDev bool, ok bool) {
	m := tc.loadManifest(gopath.Join(tc.ProjectRoot, "package.json"))
	if m == nil {
		return "", false, false
	}
	if v, found := m.Dependencies[pkgName]; found {
		return v, false, true
	}
	if v, found := m.DevDependencies[pkgName]; found {
		return v, true, true
	}
	return "", false, false
}

// loadManifest reads and parses a manifest, caching the result (including
// parse failures, cached as nil) so repeated lookups during a scan do not
// re-read the file.
func (tc *TreeContext) loadManifest(path string) *manifest {
	if m, found := tc.manifests.Get(path); found {
		return m
	}

	var m *manifest
	if data, err := os.ReadFile(path); err == nil {
		var parsed manifest
		if json.Unmarshal(data, &parsed) == nil {
			m = &parsed
		}
	}
	tc.manifests.Add(path, m)
	return m
}

// InvalidateManifests drops all cached manifests. Called before a full
// rescan so edited manifests are picked up.
func (tc *TreeContext) InvalidateManifests() {
	tc.manifests.Purge()
}
