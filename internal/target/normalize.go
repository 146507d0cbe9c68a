// Package target converts command line targets into the URI form opened by
// the compiler file systems.
package target

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Normalize rewrites plain paths and file URIs as rooted, cleaned paths.
// Relative paths are rooted at the search roots rather than the working
// directory. URIs with any other scheme pass through unchanged.
func Normalize(target string) string {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "" && u.Scheme != "file") {
		return target
	}
	if u.Scheme == "file" {
		target = u.Path
	}
	target = filepath.ToSlash(target)
	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}
	return filepath.ToSlash(filepath.Clean(target))
}
