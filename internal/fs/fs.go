// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.microglot.org/polyglot.go/internal/exc"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

var knownExts = map[string]idl.FileKind{
	".pg":    idl.FileKindPolyglot,       // source text in any syntax level
	".pgtok": idl.FileKindPolyglotTokens, // JSON token stream
}

// KindOf maps a file name to the kind of content it holds based on its
// extension.
func KindOf(name string) idl.FileKind {
	return knownExts[filepath.Ext(name)]
}

var _ idl.FileSystem = FileSystemMulti{}

// FileSystemMulti searches each file system in order and opens the target
// from the first one that has it. Writes are refused; write to one of the
// members instead.
type FileSystemMulti []idl.FileSystem

func (m FileSystemMulti) Open(ctx context.Context, uri string) ([]idl.File, error) {
	for _, member := range m {
		if files, err := member.Open(ctx, uri); err == nil {
			return files, nil
		}
	}
	return nil, exc.New(exc.Location{URI: uri}, exc.CodeFileNotFound, fmt.Sprintf("could not open %s from any file system", uri))
}

func (m FileSystemMulti) Write(ctx context.Context, uri string, content string) error {
	return exc.New(exc.Location{URI: uri}, exc.CodeUnsuportedFileSystemOperation, "cannot write to a composite file system")
}

// FileFilter selects the entries opened when a target is a directory.
type FileFilter func(ctx context.Context, fname string) bool

type FileSystemLocalOption func(*localFS)

// WithOptionFSFactory replaces os.DirFS as the source of the fs.FS rooted
// at the directory the file system serves.
func WithOptionFSFactory(v func(root string) fs.FS) FileSystemLocalOption {
	return func(l *localFS) {
		l.factory = v
	}
}

// WithOptionFileFilter replaces the default directory filter, which keeps
// files with a known extension.
func WithOptionFileFilter(v FileFilter) FileSystemLocalOption {
	return func(l *localFS) {
		l.filter = v
	}
}

// localFS serves paths relative to a directory. Every target is treated as
// rooted at that directory, so "/a.pg" and "a.pg" name the same file.
type localFS struct {
	root    string
	factory func(string) fs.FS
	filter  FileFilter
}

func NewFileSystemLocal(root string, options ...FileSystemLocalOption) (idl.FileSystem, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, exc.WrapUnknown(exc.Location{URI: root}, err)
	}
	l := &localFS{
		root:    abs,
		factory: os.DirFS,
		filter: func(ctx context.Context, fname string) bool {
			return KindOf(fname) != idl.FileKindNone
		},
	}
	for _, option := range options {
		option(l)
	}
	return l, nil
}

// uriPath extracts the rooted, cleaned path of a target.
func uriPath(uri string) string {
	p := uri
	if u, err := url.Parse(uri); err == nil {
		p = u.Path
	}
	return filepath.Clean(filepath.Join("/", p))
}

// dirFSPath converts a rooted path to the unrooted form fs.FS requires,
// where the root itself is ".".
func dirFSPath(rooted string) string {
	if rooted == "/" {
		return "."
	}
	return strings.TrimPrefix(rooted, "/")
}

func (l *localFS) Open(ctx context.Context, uri string) ([]idl.File, error) {
	rooted := uriPath(uri)
	name := dirFSPath(rooted)
	dir := l.factory(l.root)

	f, err := dir.Open(name)
	if err != nil {
		return nil, fsErr(name, err)
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return nil, fsErr(name, err)
	}
	if !stat.IsDir() {
		return []idl.File{l.file(dir, rooted, name)}, nil
	}
	rd, ok := f.(fs.ReadDirFile)
	if !ok {
		return nil, exc.New(exc.Location{URI: rooted}, exc.CodeUnsuportedFileSystemOperation, "directory cannot be listed")
	}
	entries, err := rd.ReadDir(-1)
	if err != nil {
		return nil, fsErr(name, err)
	}
	files := make([]idl.File, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !l.filter(ctx, entry.Name()) {
			continue
		}
		// Directory members are named relative to the root without the
		// leading slash.
		member := filepath.Join(name, entry.Name())
		files = append(files, l.file(dir, member, member))
	}
	if len(files) == 0 {
		return nil, exc.New(exc.Location{URI: rooted}, exc.CodeFileNotFound, fmt.Sprintf("found directory %s but it is empty", rooted))
	}
	return files, nil
}

func (l *localFS) file(dir fs.FS, path string, name string) idl.File {
	return NewFileFN(path, func() (io.ReadCloser, error) {
		f, err := dir.Open(name)
		if err != nil {
			return nil, fsErr(name, err)
		}
		return f, nil
	}, KindOf(name))
}

func (l *localFS) Write(ctx context.Context, uri string, content string) error {
	p := filepath.Join(l.root, uriPath(uri))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fsErr(filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		return fsErr(p, err)
	}
	return nil
}

// fsErr maps file system failures onto exception codes.
func fsErr(path string, err error) error {
	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) {
		return exc.WrapUnknown(exc.Location{URI: path}, err)
	}
	loc := exc.Location{URI: pathErr.Path}
	switch {
	case errors.Is(pathErr.Err, fs.ErrNotExist):
		return exc.Wrap(loc, exc.CodeFileNotFound, pathErr)
	case errors.Is(pathErr.Err, fs.ErrPermission):
		return exc.Wrap(loc, exc.CodePermissionDenied, pathErr)
	}
	return exc.WrapUnknown(loc, pathErr)
}
