package polyglot

import (
	"gopkg.microglot.org/polyglot.go/internal/ast"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

// Pattern = "_"
//
//	| Constant [ ( ".." | "..=" ) Constant ]
//	| "(" Pattern { "," Pattern } ")"
//	| "var" identifier
//	| Type "(" [ Pattern { "," Pattern } ] ")"
//	| Type [ identifier ]
func (p *parser) pattern() (ast.Pattern, error) {
	p.enter("pattern")
	tok := p.peek()
	switch {
	case p.isWord(tok, "_"):
		p.advance()
		return &ast.WildcardPattern{Base: pos(tok)}, nil
	case tok.Type.IsLiteral() || (tok.Type == idl.TokenTypeMinus && p.peekN(1).Type.IsLiteral()):
		start, err := p.constant()
		if err != nil {
			return nil, err
		}
		if !p.check(idl.TokenTypeDotDot) && !p.check(idl.TokenTypeDotDotEqual) {
			return &ast.ConstantPattern{Base: pos(tok), Value: start}, nil
		}
		inclusive := p.advance().Type == idl.TokenTypeDotDotEqual
		end, err := p.constant()
		if err != nil {
			return nil, err
		}
		return &ast.RangePattern{Base: pos(tok), Start: start, End: end, Inclusive: inclusive}, nil
	case tok.Type == idl.TokenTypeParenOpen:
		p.advance()
		elems, err := p.patternList()
		if err != nil {
			return nil, err
		}
		return &ast.TuplePattern{Base: pos(tok), Elements: elems}, nil
	case p.check(idl.TokenTypeKeywordVar):
		p.advance()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		return &ast.VariablePattern{Base: pos(tok), Name: name.Value}, nil
	case p.isIdent(tok):
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, ok := p.accept(idl.TokenTypeParenOpen); ok {
			elems, err := p.patternList()
			if err != nil {
				return nil, err
			}
			return &ast.DeconstructionPattern{Base: pos(tok), Type: t, Elements: elems}, nil
		}
		tp := &ast.TypePattern{Base: pos(tok), Type: t}
		if p.isIdent(p.peek()) && !p.isWord(p.peek(), "_") {
			tp.Binding = p.advance().Value
		}
		return tp, nil
	}
	return nil, unexpectedError(tok, "a pattern")
}

// patternList parses comma separated patterns up to and including ')'. The
// opening parenthesis has already been consumed.
func (p *parser) patternList() ([]ast.Pattern, error) {
	var out []ast.Pattern
	for !p.check(idl.TokenTypeParenClose) {
		pat, err := p.pattern()
		if err != nil {
			return nil, err
		}
		out = append(out, pat)
		if _, ok := p.accept(idl.TokenTypeComma); !ok {
			break
		}
	}
	if _, err := p.expect(idl.TokenTypeParenClose); err != nil {
		return nil, err
	}
	return out, nil
}

// Constant = [ "-" ] Literal
func (p *parser) constant() (ast.Expression, error) {
	if minus, ok := p.accept(idl.TokenTypeMinus); ok {
		operand, err := p.literalOnly()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Base: pos(minus), Operator: "-", Operand: operand}, nil
	}
	return p.literalOnly()
}

func (p *parser) literalOnly() (ast.Expression, error) {
	if !p.peek().Type.IsLiteral() {
		return nil, unexpectedError(p.peek(), "a literal")
	}
	return p.literal()
}
