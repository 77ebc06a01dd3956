package filetree

import (
	"os"
	gopath "path"
	"regexp"
	"strings"
)

// probeExtensions is the fixed order in which candidate suffixes are tried
// when resolving a local import. The empty suffix (exact path) is last.
var probeExtensions = []string{".ts", ".tsx", ".js", ".jsx", ""}

// importPatterns maps a file extension to the regular expressions that
// locate import-like statements for that language family. Each pattern's
// first capture group is the raw import literal.
var importPatterns = map[string][]*regexp.Regexp{}

var (
	jsPatterns = []*regexp.Regexp{
		// import defaultExport, { a, b } from "X" / import "X"
		regexp.MustCompile(`import\s+(?:[\w${},*\s]+\s+from\s+)?["']([^"']+)["']`),
		// export { a } from "X" / export * from "X"
		regexp.MustCompile(`export\s+[\w${},*\s]+\s+from\s+["']([^"']+)["']`),
		// require("X")
		regexp.MustCompile(`require\s*\(\s*["']([^"']+)["']\s*\)`),
		// dynamic import("X")
		regexp.MustCompile(`import\s*\(\s*["']([^"']+)["']\s*\)`),
	}
	pyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*import\s+([\w.]+)`),
		regexp.MustCompile(`(?m)^\s*from\s+([\w.]+)\s+import\b`),
	}
	cPatterns = []*regexp.Regexp{
		regexp.MustCompile(`#include\s*["<]([^">]+)[">]`),
	}
	rustPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*use\s+([\w:]+)`),
		regexp.MustCompile(`(?m)^\s*mod\s+(\w+)\s*;`),
	}
	luaPatterns = []*regexp.Regexp{
		regexp.MustCompile(`require\s*\(?\s*["']([^"']+)["']\s*\)?`),
	}
	zigPatterns = []*regexp.Regexp{
		regexp.MustCompile(`@import\s*\(\s*"([^"]+)"\s*\)`),
	}
)

func init() {
	for _, ext := range []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"} {
		importPatterns[ext] = jsPatterns
	}
	importPatterns[".py"] = pyPatterns
	for _, ext := range []string{".c", ".h", ".cpp", ".hpp", ".cc", ".hh"} {
		importPatterns[ext] = cPatterns
	}
	importPatterns[".rs"] = rustPatterns
	importPatterns[".lua"] = luaPatterns
	importPatterns[".zig"] = zigPatterns
}

// resolutionKind tags the outcome of resolving one import literal.
type resolutionKind int

const (
	resolutionDropped resolutionKind = iota
	resolutionLocal
	resolutionPackage
)

// resolution is the classified result for a single import literal: either a
// local file that exists on disk, an external package reference, or dropped.
type resolution struct {
	kind resolutionKind
	// local is the canonical path of the resolved file (kind == local).
	local string
	// pkg is the package record (kind == package).
	pkg PackageDependency
}

// ExtractImports runs the pattern table for the file's extension over its
// content and resolves every match. It returns the local dependency paths
// (deduplicated, existing files only) and the package dependency records.
// Unsupported extensions yield nothing.
func (tc *TreeContext) ExtractImports(filePath string, content []byte) ([]string, []PackageDependency) {
	patterns, ok := importPatterns[strings.ToLower(gopath.Ext(filePath))]
	if !ok {
		return nil, nil
	}

	text := string(content)
	seen := map[string]bool{}
	var locals []string
	var pkgs []PackageDependency
	pkgSeen := map[string]bool{}

	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			literal := strings.TrimSpace(m[1])
			if literal == "" || seen[literal] {
				continue
			}
			seen[literal] = true

			res := tc.resolveImport(filePath, literal)
			switch res.kind {
			case resolutionLocal:
				if !containsString(locals, res.local) {
					locals = append(locals, res.local)
				}
			case resolutionPackage:
				if !pkgSeen[res.pkg.Name] {
					pkgSeen[res.pkg.Name] = true
					pkgs = append(pkgs, res.pkg)
				}
			}
		}
	}
	return locals, pkgs
}

// resolveImport classifies one import literal. Relative literals resolve
// against the importing file's directory, root-anchored literals against the
// project root, and everything else is treated as a package reference. A
// local candidate only survives if a file exists after extension probing;
// otherwise the import is dropped.
func (tc *TreeContext) resolveImport(importerPath, literal string) resolution {
	switch {
	case strings.HasPrefix(literal, "."):
		candidate := gopath.Join(gopath.Dir(NormalizePath(importerPath)), literal)
		return tc.classifyCandidate(candidate, literal)

	case strings.HasPrefix(literal, "/"):
		candidate := gopath.Join(tc.ProjectRoot, literal)
		return tc.classifyCandidate(candidate, literal)

	default:
		return tc.packageResolution(literal)
	}
}

// classifyCandidate decides whether a path-resolved candidate is a real
// local file or, when the resolved path passes through the package store,
// a package reference.
func (tc *TreeContext) classifyCandidate(candidate, literal string) resolution {
	if strings.Contains(candidate, "/node_modules/") {
		return tc.packageResolution(literal)
	}
	if resolved, ok := probeFile(candidate); ok {
		return resolution{kind: resolutionLocal, local: resolved}
	}
	return resolution{kind: resolutionDropped}
}

// packageResolution builds the package record for a non-local import. The
// package name is the first segment of the literal (first two for scoped
// imports), never the full subpath. Version and dev classification come
// from the project manifest when it can be read.
func (tc *TreeContext) packageResolution(literal string) resolution {
	name, scope := packageName(literal)
	if name == "" {
		return resolution{kind: resolutionDropped}
	}

	pkg := PackageDependency{
		Name:  name,
		Scope: scope,
		Path:  gopath.Join(tc.ProjectRoot, "node_modules", name),
	}
	if version, isDev, ok := tc.lookupManifest(name); ok {
		pkg.Version = version
		pkg.IsDevDependency = isDev
	}
	return resolution{kind: resolutionPackage, pkg: pkg}
}

// packageName reduces an import literal to its package name and scope.
// "@scope/name/sub" yields ("@scope/name", "@scope"); "pkg/sub" yields
// ("pkg", "").
func packageName(literal string) (name, scope string) {
	literal = strings.TrimPrefix(literal, "/")
	parts := strings.Split(literal, "/")
	if len(parts) == 0 || parts[0] == "" {
		return "", ""
	}
	if strings.HasPrefix(parts[0], "@") {
		if len(parts) < 2 || parts[1] == "" {
			return "", ""
		}
		return parts[0] + "/" + parts[1], parts[0]
	}
	return parts[0], ""
}

// probeFile tries each candidate suffix in the fixed probe order and returns
// the first path that exists as a regular file.
func probeFile(candidate string) (string, bool) {
	for _, ext := range probeExtensions {
		p := candidate + ext
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return NormalizePath(p), true
		}
	}
	return "", false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
