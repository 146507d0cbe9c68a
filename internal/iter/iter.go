// Package iter provides the iterator plumbing between file bodies, the
// lexer and the parser.
package iter

import (
	"context"

	"gopkg.microglot.org/polyglot.go/internal/idl"
	"gopkg.microglot.org/polyglot.go/internal/optional"
)

// NewSlice iterates over the values of vs in order.
func NewSlice[T any](vs []T) idl.Iterator[T] {
	return &sliceIterator[T]{values: vs}
}

type sliceIterator[T any] struct {
	values []T
	next   int
}

func (it *sliceIterator[T]) Next(ctx context.Context) optional.Optional[T] {
	if it.next >= len(it.values) {
		return optional.None[T]()
	}
	v := it.values[it.next]
	it.next++
	return optional.Some(v)
}

func (it *sliceIterator[T]) Close(ctx context.Context) error {
	return nil
}

// NewIteratorFilter yields only the values of it that f keeps. The parser
// uses it to drop comments and newlines.
func NewIteratorFilter[T any](it idl.Iterator[T], f idl.Filter[T]) idl.Iterator[T] {
	return &filterIterator[T]{source: it, filter: f}
}

type filterIterator[T any] struct {
	source idl.Iterator[T]
	filter idl.Filter[T]
}

func (it *filterIterator[T]) Next(ctx context.Context) optional.Optional[T] {
	v := it.source.Next(ctx)
	for v.IsPresent() && !it.filter.Keep(ctx, v.Value()) {
		v = it.source.Next(ctx)
	}
	return v
}

func (it *filterIterator[T]) Close(ctx context.Context) error {
	return it.source.Close(ctx)
}

// NewLookahead allows peeking up to n values past the current one. The
// source is read lazily on the first call.
func NewLookahead[T any](it idl.Iterator[T], n uint8) idl.Lookahead[T] {
	return &lookahead[T]{source: it, ring: make([]optional.Optional[T], int(n)+1)}
}

// lookahead keeps the current value and the n after it in a ring. head is
// the slot of the current value.
type lookahead[T any] struct {
	source  idl.Iterator[T]
	ring    []optional.Optional[T]
	head    int
	started bool
}

func (look *lookahead[T]) fill(ctx context.Context) {
	for i := range look.ring {
		look.ring[i] = look.source.Next(ctx)
	}
	look.started = true
}

func (look *lookahead[T]) Next(ctx context.Context) optional.Optional[T] {
	if !look.started {
		look.fill(ctx)
		return look.ring[look.head]
	}
	// The slot of the old current value becomes the farthest peek.
	look.ring[look.head] = look.source.Next(ctx)
	look.head = (look.head + 1) % len(look.ring)
	return look.ring[look.head]
}

func (look *lookahead[T]) Lookahead(ctx context.Context, n uint8) optional.Optional[T] {
	if !look.started {
		look.fill(ctx)
	}
	if int(n) >= len(look.ring) {
		return optional.None[T]()
	}
	return look.ring[(look.head+int(n))%len(look.ring)]
}

func (look *lookahead[T]) Close(ctx context.Context) error {
	return look.source.Close(ctx)
}

// FilterFunc adapts a plain function to idl.Filter. Signatures should take
// and return idl.Filter, never FilterFunc.
type FilterFunc[T any] func(ctx context.Context, val T) bool

func (f FilterFunc[T]) Keep(ctx context.Context, val T) bool {
	return f(ctx, val)
}

// Collect drains an iterator into a slice and closes it. Cancelling ctx
// stops collection early.
func Collect[T any](ctx context.Context, it idl.Iterator[T]) ([]T, error) {
	var out []T
	for v := it.Next(ctx); v.IsPresent(); v = it.Next(ctx) {
		if err := ctx.Err(); err != nil {
			_ = it.Close(ctx)
			return out, err
		}
		out = append(out, v.Value())
	}
	return out, it.Close(ctx)
}
