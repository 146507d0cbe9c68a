// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"gopkg.microglot.org/polyglot.go/internal/exc"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

// NewFileString wraps source text held in memory, such as an editor buffer
// or a line typed at a prompt.
func NewFileString(path string, content string, kind idl.FileKind) idl.File {
	return NewFileFN(path, func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	}, kind)
}

// NewFileFN builds a File whose content comes from open. Every call to Body
// calls open again, so each reader must be independent of the others.
func NewFileFN(path string, open func() (io.ReadCloser, error), kind idl.FileKind) idl.File {
	return &lazyFile{path: path, kind: kind, open: open}
}

type lazyFile struct {
	path string
	kind idl.FileKind
	open func() (io.ReadCloser, error)
}

func (f *lazyFile) Path(ctx context.Context) string {
	return f.path
}

func (f *lazyFile) Kind(ctx context.Context) idl.FileKind {
	return f.kind
}

func (f *lazyFile) Body(ctx context.Context) (idl.FileBody, error) {
	rc, err := f.open()
	if err != nil {
		var e exc.Exception
		if errors.As(err, &e) {
			return nil, e
		}
		return nil, exc.WrapUnknown(exc.Location{URI: f.path}, err)
	}
	return &readerBody{uri: f.path, r: bufio.NewReader(rc), c: rc}, nil
}

// readerBody serves chunked reads. The end of input is reported as an
// exception with CodeEOF that still matches io.EOF.
type readerBody struct {
	uri string
	r   *bufio.Reader
	c   io.Closer
	buf []byte
}

func (b *readerBody) Read(ctx context.Context, size int32) ([]byte, error) {
	if cap(b.buf) < int(size) {
		b.buf = make([]byte, size)
	}
	n, err := b.r.Read(b.buf[:size])
	switch {
	case errors.Is(err, io.EOF):
		return b.buf[:n], exc.Wrap(exc.Location{URI: b.uri}, exc.CodeEOF, err)
	case err != nil:
		return nil, exc.WrapUnknown(exc.Location{URI: b.uri}, err)
	}
	return b.buf[:n], nil
}

func (b *readerBody) Close(ctx context.Context) error {
	return b.c.Close()
}

// ReadAll returns the complete content of a file.
func ReadAll(ctx context.Context, f idl.File) ([]byte, error) {
	body, err := f.Body(ctx)
	if err != nil {
		return nil, err
	}
	var out []byte
	for {
		chunk, err := body.Read(ctx, 4096)
		out = append(out, chunk...)
		if errors.Is(err, io.EOF) {
			return out, body.Close(ctx)
		}
		if err != nil {
			_ = body.Close(ctx)
			return nil, err
		}
	}
}
