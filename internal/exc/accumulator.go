// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"slices"
	"sync"
)

// Reporter accumulates problems found while compiling. Syntax problems are
// recorded and the parser keeps going; anything else ends the unit.
type Reporter interface {
	// Report records e. A non-nil result means e is fatal for its unit and
	// the caller must stop.
	Report(e Exception) Exception
	// Reported returns a snapshot of everything recorded so far.
	Reported() []Exception
}

// NewReporter returns a Reporter that is safe for concurrent use. Codes in
// nonFatal are tolerated in addition to the syntax codes.
func NewReporter(nonFatal []string) Reporter {
	r := &reporter{nonFatal: make(map[string]bool, len(defaultNonFatal)+len(nonFatal))}
	for code := range defaultNonFatal {
		r.nonFatal[code] = true
	}
	for _, code := range nonFatal {
		r.nonFatal[code] = true
	}
	return r
}

type reporter struct {
	lock     sync.Mutex
	reported []Exception
	nonFatal map[string]bool
}

func (r *reporter) Report(e Exception) Exception {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.reported = append(r.reported, e)
	if r.nonFatal[e.Code()] {
		return nil
	}
	return e
}

func (r *reporter) Reported() []Exception {
	r.lock.Lock()
	defer r.lock.Unlock()
	return slices.Clone(r.reported)
}

// ReportedFor returns the exceptions located in uri, in report order.
func ReportedFor(r Reporter, uri string) []Exception {
	return slices.DeleteFunc(r.Reported(), func(e Exception) bool {
		return e.Location().URI != uri
	})
}

// HasFatal reports whether any of excs would abort a unit under the default
// policy.
func HasFatal(excs []Exception) bool {
	return slices.ContainsFunc(excs, func(e Exception) bool {
		return !defaultNonFatal[e.Code()]
	})
}
