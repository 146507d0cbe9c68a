package exc

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/polyglot.go/internal/idl"
)

func TestReporterFatality(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		code     string
		nonFatal []string
		fatal    bool
	}{
		{name: "expected token", code: CodeExpectedToken, fatal: false},
		{name: "mismatched terminator", code: CodeMismatchedTerminator, fatal: false},
		{name: "invariant", code: CodeInternalInvariant, fatal: true},
		{name: "budget", code: CodeBudgetExceeded, fatal: true},
		{name: "budget made non-fatal", code: CodeBudgetExceeded, nonFatal: []string{CodeBudgetExceeded}, fatal: false},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			r := NewReporter(testCase.nonFatal)
			e := New(Location{URI: "/a.pg"}, testCase.code, "boom")
			got := r.Report(e)
			if testCase.fatal {
				require.Equal(t, e, got)
			} else {
				require.Nil(t, got)
			}
			require.Len(t, r.Reported(), 1)
		})
	}
}

func TestSort(t *testing.T) {
	t.Parallel()

	at := func(uri string, line int32, col int32) Exception {
		return New(LocationOf(uri, idl.Location{Line: line, Column: col}), CodeExpectedToken, "x")
	}
	excs := []Exception{at("/b.pg", 1, 1), at("/a.pg", 3, 1), at("/a.pg", 1, 9), at("/a.pg", 1, 2)}
	Sort(excs)
	require.Equal(t, "/a.pg:1:2: P0007 x", excs[0].Error())
	require.Equal(t, "/a.pg:1:9: P0007 x", excs[1].Error())
	require.Equal(t, "/a.pg:3:1: P0007 x", excs[2].Error())
	require.Equal(t, "/b.pg:1:1: P0007 x", excs[3].Error())
}

func TestWrap(t *testing.T) {
	t.Parallel()

	require.Nil(t, Wrap(Location{}, CodeUnknownFatal, nil))
	w := Wrap(Location{URI: "/a.pg"}, CodeEOF, io.EOF)
	require.True(t, errors.Is(w, io.EOF))
	require.Equal(t, CodeEOF, w.Code())
	require.Equal(t, "/a.pg: _EOF_ EOF", w.Error())

	inner := New(LocationOf("/a.pg", idl.Location{Line: 2, Column: 4}), CodeExpectedToken, "want ;")
	outer := Wrap(Location{URI: "/b.pg"}, CodeUnknownFatal, inner)
	require.Equal(t, "want ;", outer.Message())
	var got Exception
	require.True(t, errors.As(errors.Unwrap(outer), &got))
	require.Equal(t, inner, got)
	require.True(t, IsSyntax(CodeUnexpectedEOF))
	require.False(t, IsSyntax(CodeInternalInvariant))
}

func TestReportedFor(t *testing.T) {
	t.Parallel()

	r := NewReporter(nil)
	_ = r.Report(New(Location{URI: "/a.pg"}, CodeExpectedToken, "one"))
	_ = r.Report(New(Location{URI: "/b.pg"}, CodeInternalInvariant, "two"))
	_ = r.Report(New(Location{URI: "/a.pg"}, CodeUnexpectedToken, "three"))

	a := ReportedFor(r, "/a.pg")
	require.Len(t, a, 2)
	require.Equal(t, "three", a[1].Message())
	require.False(t, HasFatal(a))
	require.True(t, HasFatal(ReportedFor(r, "/b.pg")))
}

func TestReportedIsSnapshot(t *testing.T) {
	t.Parallel()

	r := NewReporter(nil)
	_ = r.Report(New(Location{URI: "/a.pg"}, CodeExpectedToken, "one"))
	before := r.Reported()
	_ = r.Report(New(Location{URI: "/a.pg"}, CodeExpectedToken, "two"))
	require.Len(t, before, 1)
	require.Len(t, r.Reported(), 2)
}
