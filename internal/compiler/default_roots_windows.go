//go:build windows

package compiler

import "path/filepath"

func getDefaultRoots(lookup func(string) (string, bool)) []string {
	roots := []string{"."}
	for _, env := range []string{"LOCALAPPDATA", "ProgramData"} {
		if dir, ok := lookup(env); ok && dir != "" {
			roots = append(roots, filepath.Join(dir, "polyglot"))
		}
	}
	return roots
}
