package filetree

import (
	"log"
	"regexp"
	"strings"
)

// alwaysExcluded are entry names skipped in every scan regardless of the
// configured pattern list.
var alwaysExcluded = map[string]bool{
	".git":         true,
	"node_modules": true,
}

// ExcludeFilter decides whether a filesystem entry should be skipped during
// a scan. It combines the hard-coded always-excluded names with user glob
// patterns compiled once into anchored regular expressions.
type ExcludeFilter struct {
	patterns []compiledPattern
}

type compiledPattern struct {
	source string
	re     *regexp.Regexp

	// extensionStyle marks patterns like "*.log" that should also be
	// tested against the bare filename, not just the relative path.
	extensionStyle bool
}

// NewExcludeFilter compiles the given glob patterns. Patterns that fail to
// compile are logged and dropped; the filter is still usable.
func NewExcludeFilter(patterns []string) *ExcludeFilter {
	f := &ExcludeFilter{}
	for _, p := range patterns {
		re, err := compileGlob(p)
		if err != nil {
			log.Printf("filetree: invalid exclude pattern %q: %v", p, err)
			continue
		}
		f.patterns = append(f.patterns, compiledPattern{
			source:         p,
			re:             re,
			extensionStyle: strings.HasPrefix(p, "*.") && !strings.Contains(p[1:], "/"),
		})
	}
	return f
}

// Excluded reports whether the entry should be skipped. name is the bare
// entry name; relPath is the path relative to the scan root, forward-slash
// separated.
func (f *ExcludeFilter) Excluded(name, relPath string) bool {
	if alwaysExcluded[name] {
		return true
	}
	for _, p := range f.patterns {
		if p.re.MatchString(relPath) {
			return true
		}
		if p.extensionStyle && p.re.MatchString(name) {
			return true
		}
	}
	return false
}

// compileGlob converts a glob pattern to an anchored regular expression:
// "**" matches any run including separators, "*" any run of non-separator
// characters, and "?" exactly one non-separator character.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				sb.WriteString(".*")
				i++
			} else {
				sb.WriteString("[^/]*")
			}
		case '?':
			sb.WriteString("[^/]")
		case '.', '+', '(', ')', '|', '[', ']', '{', '}', '^', '$', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteString("$")
	return regexp.Compile(sb.String())
}
