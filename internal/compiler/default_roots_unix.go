//go:build !windows

package compiler

import (
	"os"
	"path/filepath"
	"strings"
)

// XDG base directory defaults when XDG_DATA_DIRS is unset or empty.
var xdgDataDirs = []string{"/usr/local/share", "/usr/share"}

func getDefaultRoots(lookup func(string) (string, bool)) []string {
	dirs := xdgDataDirs
	if v, ok := lookup("XDG_DATA_DIRS"); ok && v != "" {
		dirs = strings.Split(v, ":")
	}
	expand := func(name string) string {
		v, _ := lookup(name)
		return v
	}
	roots := []string{"."}
	for _, dir := range dirs {
		if dir = os.Expand(dir, expand); dir != "" {
			roots = append(roots, filepath.Join(dir, "polyglot"))
		}
	}
	return roots
}
