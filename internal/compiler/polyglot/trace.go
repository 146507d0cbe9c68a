package polyglot

import (
	"sync"

	"github.com/tliron/commonlog"

	"gopkg.microglot.org/polyglot.go/internal/idl"
)

// Tracer observes grammar rule activity. Tracers never influence the result
// of a parse.
type Tracer interface {
	// Enter is called when a rule starts at tok.
	Enter(rule string, tok *idl.Token)
	// Backtrack is called when a speculative rule that started at tok is
	// abandoned and the cursor restored.
	Backtrack(rule string, tok *idl.Token)
}

type nopTracer struct{}

func (nopTracer) Enter(string, *idl.Token)     {}
func (nopTracer) Backtrack(string, *idl.Token) {}

// NewLogTracer writes every event to log at debug level.
func NewLogTracer(log commonlog.Logger) Tracer {
	return &logTracer{log: log}
}

type logTracer struct {
	log commonlog.Logger
}

func (t *logTracer) Enter(rule string, tok *idl.Token) {
	t.log.Debugf("enter %s at %s:%d:%d %s", rule, tok.File, tok.Span.Start.Line, tok.Span.Start.Column, tok)
}

func (t *logTracer) Backtrack(rule string, tok *idl.Token) {
	t.log.Debugf("backtrack %s to %s:%d:%d %s", rule, tok.File, tok.Span.Start.Line, tok.Span.Start.Column, tok)
}

type TraceEventKind uint8

const (
	TraceEnter TraceEventKind = iota
	TraceBacktrack
)

type TraceEvent struct {
	Kind  TraceEventKind
	Rule  string
	Line  int32
	Value string
}

// Recorder is a Tracer that keeps every event in memory.
type Recorder struct {
	lock   sync.Mutex
	events []TraceEvent
}

func (r *Recorder) Enter(rule string, tok *idl.Token) {
	r.record(TraceEnter, rule, tok)
}

func (r *Recorder) Backtrack(rule string, tok *idl.Token) {
	r.record(TraceBacktrack, rule, tok)
}

func (r *Recorder) record(kind TraceEventKind, rule string, tok *idl.Token) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.events = append(r.events, TraceEvent{Kind: kind, Rule: rule, Line: tok.Span.Start.Line, Value: tok.Value})
}

func (r *Recorder) Events() []TraceEvent {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]TraceEvent(nil), r.events...)
}

// Rules returns the names of entered rules in order.
func (r *Recorder) Rules() []string {
	var out []string
	for _, e := range r.Events() {
		if e.Kind == TraceEnter {
			out = append(out, e.Rule)
		}
	}
	return out
}

// Backtracks returns the names of abandoned rules in order.
func (r *Recorder) Backtracks() []string {
	var out []string
	for _, e := range r.Events() {
		if e.Kind == TraceBacktrack {
			out = append(out, e.Rule)
		}
	}
	return out
}
