package polyglot

import (
	"fmt"

	"gopkg.microglot.org/polyglot.go/internal/exc"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

// cursor is an index into an immutable token slice that always ends with an
// EOF token. Once the EOF token is current the cursor never moves past it.
//
// Diagnostics recorded during a parse live next to the position so that a
// checkpoint can capture both. Restoring a checkpoint drops everything
// recorded after it was taken.
type cursor struct {
	tokens   []*idl.Token
	pos      int
	diags    []*SyntaxError
	steps    int
	maxSteps int
}

// checkpoint is a saved cursor state. It is only valid for the cursor that
// produced it and only while that cursor has not been restored to an earlier
// checkpoint.
type checkpoint struct {
	pos   int
	diags int
}

// newCursor copies tokens, appending an EOF sentinel when the input lacks
// one, and stamps every token with level.
func newCursor(tokens []*idl.Token, level idl.SyntaxLevel, maxSteps int) *cursor {
	out := make([]*idl.Token, 0, len(tokens)+1)
	for _, t := range tokens {
		cp := *t
		cp.Level = level
		out = append(out, &cp)
		if cp.Type == idl.TokenTypeEOF {
			break
		}
	}
	if len(out) == 0 || out[len(out)-1].Type != idl.TokenTypeEOF {
		eof := &idl.Token{Type: idl.TokenTypeEOF, Level: level}
		if len(out) > 0 {
			last := out[len(out)-1]
			eof.File = last.File
			eof.Span = idl.Span{Start: last.Span.End, End: last.Span.End}
		} else {
			eof.Span = idl.Span{Start: idl.Location{Line: 1, Column: 1}, End: idl.Location{Line: 1, Column: 1}}
		}
		out = append(out, eof)
	}
	return &cursor{tokens: out, maxSteps: maxSteps}
}

func (c *cursor) peek() *idl.Token {
	return c.tokens[c.pos]
}

// peekN looks n tokens past the current one. Looking beyond the end yields
// the EOF token.
func (c *cursor) peekN(n int) *idl.Token {
	if c.pos+n >= len(c.tokens) {
		return c.tokens[len(c.tokens)-1]
	}
	return c.tokens[c.pos+n]
}

// previous is the most recently consumed token, or the first token when
// nothing was consumed yet.
func (c *cursor) previous() *idl.Token {
	if c.pos == 0 {
		return c.tokens[0]
	}
	return c.tokens[c.pos-1]
}

func (c *cursor) atEOF() bool {
	return c.tokens[c.pos].Type == idl.TokenTypeEOF
}

// advance consumes and returns the current token. Every call counts against
// the step budget, including calls that later get rewound.
func (c *cursor) advance() *idl.Token {
	tok := c.tokens[c.pos]
	c.steps = c.steps + 1
	if c.maxSteps > 0 && c.steps > c.maxSteps {
		fatal(tok, exc.CodeBudgetExceeded, fmt.Sprintf("parse budget of %d steps exceeded", c.maxSteps))
	}
	if tok.Type != idl.TokenTypeEOF {
		c.pos = c.pos + 1
	}
	return tok
}

func (c *cursor) mark() checkpoint {
	return checkpoint{pos: c.pos, diags: len(c.diags)}
}

func (c *cursor) restore(cp checkpoint) {
	if cp.pos < 0 || cp.pos > c.pos || cp.diags > len(c.diags) {
		fatal(c.peek(), exc.CodeInternalInvariant, fmt.Sprintf("invalid checkpoint restore from %d to %d", c.pos, cp.pos))
	}
	c.pos = cp.pos
	c.diags = c.diags[:cp.diags]
}

// seek moves the cursor forward to pos. Used to resume recovery from the
// furthest point reached by a set of abandoned alternatives.
func (c *cursor) seek(pos int) {
	if pos < c.pos || pos >= len(c.tokens) {
		fatal(c.peek(), exc.CodeInternalInvariant, fmt.Sprintf("invalid seek from %d to %d", c.pos, pos))
	}
	c.pos = pos
}

func (c *cursor) record(err *SyntaxError) {
	c.diags = append(c.diags, err)
}
