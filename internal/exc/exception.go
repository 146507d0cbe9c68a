// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"cmp"
	"fmt"
	"slices"

	"gopkg.microglot.org/polyglot.go/internal/idl"
)

// Exception is a coded problem tied to a place in a source file.
type Exception interface {
	error
	Code() string
	Message() string
	Location() Location
}

// Location is a source position qualified by the file it belongs to. A zero
// Line means the problem concerns the file as a whole.
type Location struct {
	idl.Location
	URI string
}

// LocationOf converts a token position into an exception location.
func LocationOf(uri string, loc idl.Location) Location {
	return Location{Location: loc, URI: uri}
}

func (l Location) String() string {
	if l.Line == 0 {
		return l.URI
	}
	return fmt.Sprintf("%s:%d:%d", l.URI, l.Line, l.Column)
}

type exception struct {
	code     string
	message  string
	location Location
	cause    error
}

func (e *exception) Error() string {
	return fmt.Sprintf("%s: %s %s", e.location, e.code, e.message)
}

func (e *exception) Code() string       { return e.code }
func (e *exception) Message() string    { return e.message }
func (e *exception) Location() Location { return e.location }

// Unwrap exposes the wrapped cause, if any, to errors.Is and errors.As.
func (e *exception) Unwrap() error {
	return e.cause
}

func New(location Location, code string, message string) Exception {
	return &exception{code: code, message: message, location: location}
}

// Wrap re-codes err at location. The message of a wrapped Exception is kept
// without its own position prefix.
func Wrap(location Location, code string, err error) Exception {
	if err == nil {
		return nil
	}
	message := err.Error()
	if e, ok := err.(Exception); ok {
		message = e.Message()
	}
	return &exception{code: code, message: message, location: location, cause: err}
}

func WrapUnknown(location Location, err error) Exception {
	return Wrap(location, CodeUnknownFatal, err)
}

// Sort orders exceptions by file and then by source position. Exceptions at
// the same position keep their report order.
func Sort(excs []Exception) {
	slices.SortStableFunc(excs, func(a, b Exception) int {
		la, lb := a.Location(), b.Location()
		return cmp.Or(
			cmp.Compare(la.URI, lb.URI),
			cmp.Compare(la.Line, lb.Line),
			cmp.Compare(la.Column, lb.Column),
		)
	})
}
