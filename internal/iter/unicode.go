// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package iter

import (
	"bufio"
	"context"
	"errors"
	"io"

	"gopkg.microglot.org/polyglot.go/internal/idl"
	"gopkg.microglot.org/polyglot.go/internal/optional"
)

// NewCodePoints decodes a FileBody as UTF-8. Invalid bytes decode to
// U+FFFD. Reads use ctx so a cancelled compile stops reading.
func NewCodePoints(ctx context.Context, b idl.FileBody) idl.Iterator[idl.CodePoint] {
	body := &bodyReader{ctx: ctx, body: b}
	return &codePoints{body: body, reader: bufio.NewReader(body)}
}

type codePoints struct {
	body   *bodyReader
	reader *bufio.Reader
	err    error
}

func (c *codePoints) Next(ctx context.Context) optional.Optional[idl.CodePoint] {
	if c.err != nil {
		return optional.None[idl.CodePoint]()
	}
	r, _, err := c.reader.ReadRune()
	if err != nil {
		c.err = err
		return optional.None[idl.CodePoint]()
	}
	return optional.Some(idl.CodePoint(r))
}

// Close releases the body and returns the read error that ended the
// stream, if it was not the end of input.
func (c *codePoints) Close(context.Context) error {
	cerr := c.body.body.Close(c.body.ctx)
	if c.err != nil && !errors.Is(c.err, io.EOF) {
		return c.err
	}
	return cerr
}

// bodyReader adapts a FileBody to io.Reader.
type bodyReader struct {
	ctx  context.Context
	body idl.FileBody
}

func (r *bodyReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	b, err := r.body.Read(r.ctx, int32(len(p)))
	n := copy(p, b)
	if errors.Is(err, io.EOF) {
		return n, io.EOF
	}
	return n, err
}
