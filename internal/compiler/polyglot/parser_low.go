package polyglot

import (
	"fmt"

	"gopkg.microglot.org/polyglot.go/internal/ast"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

// lowStatement parses one statement of the systems syntax. Control flow is
// shared with the C-like syntax. Declarations are stricter: variables and
// functions carry explicit types, and structs and unions hold plain fields.
func (p *parser) lowStatement() (ast.Statement, error) {
	p.enter("low-statement")
	switch {
	case p.check(idl.TokenTypeKeywordStruct), p.check(idl.TokenTypeKeywordUnion):
		return p.structDeclaration(nil)
	case p.check(idl.TokenTypeKeywordFn):
		return p.functionDeclaration(nil)
	}
	return p.mediumStatement()
}

// LowField = Modifiers ( VariableDeclaration | Type identifier ";" )
func (p *parser) lowField() (ast.Statement, error) {
	p.enter("field")
	if _, ok := p.accept(idl.TokenTypeSemicolon); ok {
		return nil, nil
	}
	mods := p.modifiers()
	if p.check(idl.TokenTypeKeywordVar) || p.check(idl.TokenTypeKeywordLet) || p.check(idl.TokenTypeKeywordConst) {
		return p.variableDeclaration(mods)
	}
	tok := p.peek()
	if !p.isIdent(tok) {
		return nil, unexpectedError(tok, "a field")
	}
	t, name, err := p.typedHead()
	if err == errNoMatch {
		return nil, unexpectedError(p.peek(), "a field name")
	}
	if err != nil {
		return nil, err
	}
	if !p.check(idl.TokenTypeSemicolon) {
		return nil, &SyntaxError{
			Kind:     SyntaxErrorExpectedToken,
			Message:  fmt.Sprintf("field '%s' cannot have an initializer or body here (expecting ';')", name.Value),
			Token:    p.peek(),
			Expected: []idl.TokenType{idl.TokenTypeSemicolon},
		}
	}
	p.advance()
	return &ast.VariableDeclaration{Base: ast.At(t.Pos()), Modifiers: mods, Name: name.Value, Type: t}, nil
}
