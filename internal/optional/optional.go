// Package optional holds a value that may be absent. Token literals and
// iterator results use it where a zero value is meaningful.
package optional

type Optional[T any] struct {
	value T
	ok    bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) IsPresent() bool {
	return o.ok
}

// Value returns the held value, or the zero value of T when absent.
func (o Optional[T]) Value() T {
	return o.value
}

// Get returns the value and whether it is present, in the comma-ok form.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

func (o Optional[T]) ValueOr(fallback T) T {
	if o.ok {
		return o.value
	}
	return fallback
}
