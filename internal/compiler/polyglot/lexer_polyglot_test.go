// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package polyglot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/polyglot.go/internal/exc"
	"gopkg.microglot.org/polyglot.go/internal/fs"
	"gopkg.microglot.org/polyglot.go/internal/idl"
	"gopkg.microglot.org/polyglot.go/internal/iter"
)

type tokenShape struct {
	Type  idl.TokenType
	Value string
}

func lexShapes(t *testing.T, input string) ([]tokenShape, []exc.Exception) {
	t.Helper()
	ctx := context.Background()
	reporter := exc.NewReporter(nil)
	f, err := NewLexerPolyglot(reporter).Lex(ctx, fs.NewFileString("/test.pg", input, idl.FileKindPolyglot))
	require.NoError(t, err)
	it, err := f.Tokens(ctx)
	require.NoError(t, err)
	tokens, err := iter.Collect(ctx, it)
	require.NoError(t, err)
	require.NoError(t, it.Close(ctx))
	out := make([]tokenShape, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tokenShape{Type: tok.Type, Value: tok.Value})
	}
	return out, reporter.Reported()
}

func TestLexer(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected []tokenShape
	}{
		{
			name:  "level markers",
			input: "#low @medium",
			expected: []tokenShape{
				{idl.TokenTypeLevelMarker, "low"},
				{idl.TokenTypeAt, "@"},
				{idl.TokenTypeIdentifier, "medium"},
				{idl.TokenTypeEOF, ""},
			},
		},
		{
			name:  "longest operator wins",
			input: "a ??= b ?? c ..= d .. e => f -> g",
			expected: []tokenShape{
				{idl.TokenTypeIdentifier, "a"},
				{idl.TokenTypeQuestionQuestionEqual, "??="},
				{idl.TokenTypeIdentifier, "b"},
				{idl.TokenTypeQuestionQuestion, "??"},
				{idl.TokenTypeIdentifier, "c"},
				{idl.TokenTypeDotDotEqual, "..="},
				{idl.TokenTypeIdentifier, "d"},
				{idl.TokenTypeDotDot, ".."},
				{idl.TokenTypeIdentifier, "e"},
				{idl.TokenTypeFatArrow, "=>"},
				{idl.TokenTypeIdentifier, "f"},
				{idl.TokenTypeThinArrow, "->"},
				{idl.TokenTypeIdentifier, "g"},
				{idl.TokenTypeEOF, ""},
			},
		},
		{
			name:  "right shift stays split",
			input: "x >>= 1",
			expected: []tokenShape{
				{idl.TokenTypeIdentifier, "x"},
				{idl.TokenTypeAngleClose, ">"},
				{idl.TokenTypeGreaterEqual, ">="},
				{idl.TokenTypeIntegerDecimal, "1"},
				{idl.TokenTypeEOF, ""},
			},
		},
		{
			name:  "numbers and ranges",
			input: "1..5 0x1F 0b101 3.25 1e3 1_000",
			expected: []tokenShape{
				{idl.TokenTypeIntegerDecimal, "1"},
				{idl.TokenTypeDotDot, ".."},
				{idl.TokenTypeIntegerDecimal, "5"},
				{idl.TokenTypeIntegerHex, "0x1F"},
				{idl.TokenTypeIntegerBinary, "0b101"},
				{idl.TokenTypeFloatDecimal, "3.25"},
				{idl.TokenTypeFloatDecimal, "1e3"},
				{idl.TokenTypeIntegerDecimal, "1_000"},
				{idl.TokenTypeEOF, ""},
			},
		},
		{
			name:  "comments and newlines",
			input: "a // note\n/* block\n */ b",
			expected: []tokenShape{
				{idl.TokenTypeIdentifier, "a"},
				{idl.TokenTypeComment, " note"},
				{idl.TokenTypeNewline, "\n"},
				{idl.TokenTypeComment, " block\n "},
				{idl.TokenTypeIdentifier, "b"},
				{idl.TokenTypeEOF, ""},
			},
		},
		{
			name:  "keywords of every level",
			input: "otherwise fn class",
			expected: []tokenShape{
				{idl.TokenTypeKeywordOtherwise, "otherwise"},
				{idl.TokenTypeKeywordFn, "fn"},
				{idl.TokenTypeKeywordClass, "class"},
				{idl.TokenTypeEOF, ""},
			},
		},
		{
			name:  "element of",
			input: "x ∈ xs ∉ ys",
			expected: []tokenShape{
				{idl.TokenTypeIdentifier, "x"},
				{idl.TokenTypeElementOf, "∈"},
				{idl.TokenTypeIdentifier, "xs"},
				{idl.TokenTypeNotElementOf, "∉"},
				{idl.TokenTypeIdentifier, "ys"},
				{idl.TokenTypeEOF, ""},
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			shapes, reported := lexShapes(t, testCase.input)
			require.Empty(t, reported)
			require.Equal(t, testCase.expected, shapes)
		})
	}
}

func TestLexerLiterals(t *testing.T) {
	t.Parallel()

	tokens := lexTokens(t, `42 0x10 2.5 "a\tb" true null`)
	values := make([]any, 0, len(tokens))
	for _, tok := range tokens[:len(tokens)-1] {
		require.True(t, tok.Literal.IsPresent(), tok.String())
		values = append(values, tok.Literal.Value())
	}
	require.Equal(t, []any{int64(42), int64(16), 2.5, "a\tb", true, nil}, values)
}

func TestLexerPositions(t *testing.T) {
	t.Parallel()

	tokens := lexTokens(t, "ab\n  cd")
	require.Equal(t, idl.Location{Line: 1, Column: 1, Offset: 0}, tokens[0].Span.Start)
	require.Equal(t, int32(3), tokens[0].Span.End.Column)
	require.Equal(t, int32(2), tokens[1].Span.Start.Line)
	require.Equal(t, int32(3), tokens[1].Span.Start.Column)
	require.Equal(t, "/test.pg", tokens[1].File)
}

func TestLexerUnterminatedText(t *testing.T) {
	t.Parallel()

	_, reported := lexShapes(t, `"open`)
	require.Len(t, reported, 1)
	require.Equal(t, exc.CodeUnexpectedEOF, reported[0].Code())
}

func TestDecodeLiteral(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		kind     idl.TokenType
		text     string
		expected any
		err      bool
	}{
		{name: "decimal", kind: idl.TokenTypeIntegerDecimal, text: "1_024", expected: int64(1024)},
		{name: "hex", kind: idl.TokenTypeIntegerHex, text: "0xff", expected: int64(255)},
		{name: "binary", kind: idl.TokenTypeIntegerBinary, text: "0b11", expected: int64(3)},
		{name: "float", kind: idl.TokenTypeFloatDecimal, text: "1.5e2", expected: 150.0},
		{name: "text escapes", kind: idl.TokenTypeText, text: `line\n\"q\" é`, expected: "line\n\"q\" é"},
		{name: "false", kind: idl.TokenTypeKeywordFalse, text: "false", expected: false},
		{name: "overflow", kind: idl.TokenTypeIntegerDecimal, text: "99999999999999999999", err: true},
		{name: "bad escape", kind: idl.TokenTypeText, text: `\q`, err: true},
		{name: "not a literal", kind: idl.TokenTypeIdentifier, text: "x", err: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			v, err := DecodeLiteral(testCase.kind, testCase.text)
			if testCase.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, testCase.expected, v)
		})
	}
}

func TestInvalidNumberLiteral(t *testing.T) {
	t.Parallel()

	prog, reported, err := parseSource(t, "@medium\nx = 99999999999999999999;\ny = 1;")
	require.NoError(t, err)
	require.Equal(t, []string{exc.CodeInvalidNumber}, codes(reported))
	require.Len(t, prog.Statements, 1)
}
