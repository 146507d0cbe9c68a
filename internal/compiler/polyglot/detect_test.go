package polyglot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/polyglot.go/internal/idl"
)

func TestDetectLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		window   int
		expected idl.SyntaxLevel
		found    bool
	}{
		{name: "no marker", input: "print 1", expected: idl.SyntaxLevelHigh},
		{name: "hash marker", input: "#low\nfn f(): int { }", expected: idl.SyntaxLevelLow, found: true},
		{name: "at marker", input: "@medium\nx = 1;", expected: idl.SyntaxLevelMedium, found: true},
		{name: "case insensitive", input: "@Medium\nx = 1;", expected: idl.SyntaxLevelMedium, found: true},
		{name: "explicit high", input: "#high\nprint 1", expected: idl.SyntaxLevelHigh, found: true},
		{name: "first marker wins", input: "#low @medium", expected: idl.SyntaxLevelLow, found: true},
		{name: "after leading comment", input: "// header\n#low\n", expected: idl.SyntaxLevelLow, found: true},
		{name: "unknown marker", input: "#shiny x", expected: idl.SyntaxLevelHigh},
		{name: "outside window", input: "a b c d #low", window: 3, expected: idl.SyntaxLevelHigh},
		{name: "at without level", input: "@foo x", expected: idl.SyntaxLevelHigh},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			level, found := DetectLevel(lexTokens(t, testCase.input), testCase.window)
			require.Equal(t, testCase.expected, level)
			require.Equal(t, testCase.found, found)
		})
	}
}
