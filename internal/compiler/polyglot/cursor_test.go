package polyglot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/polyglot.go/internal/ast"
	"gopkg.microglot.org/polyglot.go/internal/exc"
	"gopkg.microglot.org/polyglot.go/internal/fs"
	"gopkg.microglot.org/polyglot.go/internal/idl"
	"gopkg.microglot.org/polyglot.go/internal/iter"
)

func lexTokens(t *testing.T, input string) []*idl.Token {
	t.Helper()
	ctx := context.Background()
	f, err := NewLexerPolyglot(exc.NewReporter(nil)).Lex(ctx, fs.NewFileString("/test.pg", input, idl.FileKindPolyglot))
	require.NoError(t, err)
	it, err := f.Tokens(ctx)
	require.NoError(t, err)
	tokens, err := iter.Collect(ctx, it)
	require.NoError(t, err)
	var out []*idl.Token
	for _, tok := range tokens {
		if tok.Type != idl.TokenTypeNewline && tok.Type != idl.TokenTypeComment {
			out = append(out, tok)
		}
	}
	return out
}

func newTestParser(t *testing.T, input string, level idl.SyntaxLevel) *parser {
	t.Helper()
	p := &parser{
		cursor: newCursor(lexTokens(t, input), level, 0),
		ctx:    context.Background(),
		level:  level,
		strict: true,
		tracer: nopTracer{},
	}
	p.grammar = grammarFor(level)
	return p
}

func TestCursorAppendsEOF(t *testing.T) {
	t.Parallel()

	tokens := []*idl.Token{
		{Type: idl.TokenTypeIdentifier, Value: "a", File: "/t.pg", Span: idl.Span{Start: idl.Location{Line: 1, Column: 1}, End: idl.Location{Line: 1, Column: 2}}},
	}
	c := newCursor(tokens, idl.SyntaxLevelMedium, 0)
	require.Len(t, c.tokens, 2)
	require.Equal(t, idl.TokenTypeEOF, c.tokens[1].Type)
	require.Equal(t, "/t.pg", c.tokens[1].File)
	require.Equal(t, idl.SyntaxLevelMedium, c.tokens[0].Level)
	require.Equal(t, idl.SyntaxLevel(0), tokens[0].Level, "input tokens must not be modified")

	require.Equal(t, "a", c.advance().Value)
	require.True(t, c.atEOF())
	require.Equal(t, idl.TokenTypeEOF, c.advance().Type)
	require.Equal(t, idl.TokenTypeEOF, c.advance().Type)
	require.Equal(t, 1, c.pos)
	require.Equal(t, idl.TokenTypeEOF, c.peekN(10).Type)

	empty := newCursor(nil, idl.SyntaxLevelHigh, 0)
	require.True(t, empty.atEOF())
	require.Equal(t, int32(1), empty.peek().Span.Start.Line)
}

func TestCursorSeekBackwardsIsFatal(t *testing.T) {
	t.Parallel()

	c := newCursor(lexTokens(t, "a b c"), idl.SyntaxLevelHigh, 0)
	c.advance()
	c.advance()
	require.Panics(t, func() { c.seek(0) })
	require.NotPanics(t, func() { c.seek(3) })
	require.True(t, c.atEOF())
}

func TestCursorRestoreForwardIsFatal(t *testing.T) {
	t.Parallel()

	c := newCursor(lexTokens(t, "a b c"), idl.SyntaxLevelHigh, 0)
	c.advance()
	cp := c.mark()
	c.advance()
	c.restore(cp)
	require.Equal(t, 1, c.pos)
	require.Panics(t, func() { c.restore(checkpoint{pos: 2}) })
}

func TestCursorStepBudget(t *testing.T) {
	t.Parallel()

	c := newCursor(lexTokens(t, "a b c d"), idl.SyntaxLevelHigh, 2)
	c.advance()
	c.advance()
	defer func() {
		r := recover()
		a, ok := r.(abort)
		require.True(t, ok)
		require.Equal(t, exc.CodeBudgetExceeded, a.exception.Code())
	}()
	c.advance()
}

func TestSpeculateRestoresEverything(t *testing.T) {
	t.Parallel()

	p := newTestParser(t, "a + b * c", idl.SyntaxLevelMedium)
	_, err := speculate(p, "forced", func() (ast.Expression, error) {
		p.advance()
		p.advance()
		p.record(unexpectedError(p.peek(), "something else"))
		return nil, errNoMatch
	})
	require.ErrorIs(t, err, errNoMatch)
	require.Equal(t, 0, p.pos)
	require.Empty(t, p.diags)
	require.Equal(t, 2, p.lastFailure)

	after, err := p.expression()
	require.NoError(t, err)
	straight, err := newTestParser(t, "a + b * c", idl.SyntaxLevelMedium).expression()
	require.NoError(t, err)
	require.Equal(t, straight, after)
}

func TestSpeculateKeepsSuccess(t *testing.T) {
	t.Parallel()

	recorder := &Recorder{}
	p := newTestParser(t, "x => x + 1", idl.SyntaxLevelMedium)
	p.tracer = recorder
	e, err := speculate(p, "lambda", p.expression)
	require.NoError(t, err)
	require.IsType(t, &ast.Lambda{}, e)
	require.True(t, p.atEOF())
	require.Empty(t, recorder.Backtracks())
}
