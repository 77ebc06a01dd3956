package filetree

import (
	"log"
	"net/url"
	"regexp"
	"strings"
)

var (
	driveLeadingSlash = regexp.MustCompile(`^/([A-Za-z]:)`)
	duplicateSlashes  = regexp.MustCompile(`//+`)
)

// NormalizePath canonicalizes a path string for cross-platform comparison:
// URL-decoded, quotes stripped, backslashes converted to forward slashes,
// a leading slash before a Windows drive letter removed, duplicate slashes
// collapsed, and any trailing slash trimmed. The result is idempotent:
// normalizing an already-normalized path returns it unchanged.
//
// Malformed input fails soft: a URL-decode error is logged and the original
// string is returned as-is. Callers never see an error from normalization.
func NormalizePath(p string) string {
	if p == "" {
		return p
	}

	decoded := p
	if strings.Contains(p, "%") {
		d, err := url.PathUnescape(p)
		if err != nil {
			log.Printf("filetree: could not decode path %q: %v", p, err)
			return p
		}
		decoded = d
	}

	decoded = strings.ReplaceAll(decoded, `"`, "")
	decoded = strings.ReplaceAll(decoded, `'`, "")
	decoded = strings.ReplaceAll(decoded, `\`, "/")
	decoded = driveLeadingSlash.ReplaceAllString(decoded, "$1")
	decoded = duplicateSlashes.ReplaceAllString(decoded, "/")

	if len(decoded) > 1 && strings.HasSuffix(decoded, "/") {
		decoded = strings.TrimSuffix(decoded, "/")
	}

	return decoded
}
