// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"path/filepath"

	"gopkg.microglot.org/polyglot.go/internal/fs"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

// NewDefaultFS searches the working directory and then the shared polyglot
// data directories of the platform.
func NewDefaultFS(lookup func(string) (string, bool)) (idl.FileSystem, error) {
	return NewRootsFS(getDefaultRoots(lookup)...)
}

// NewRootsFS searches roots in the given order. A target found under an
// earlier root shadows the same path under a later one. Roots naming the
// same directory are searched once.
func NewRootsFS(roots ...string) (idl.FileSystem, error) {
	var out fs.FileSystemMulti
	seen := map[string]struct{}{}
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}
		local, err := fs.NewFileSystemLocal(abs)
		if err != nil {
			return nil, err
		}
		out = append(out, local)
	}
	return out, nil
}
