package polyglot

import (
	"strings"

	"gopkg.microglot.org/polyglot.go/internal/ast"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

// Type = QualifiedName [ "<" Type { "," Type } ">" ] { "*" } { "[" { "," } "]" } [ "?" ]
//
// Pointer suffixes are only recognised by the Low grammar.
func (p *parser) parseType() (*ast.TypeNode, error) {
	p.enter("type")
	first := p.peek()
	name, err := p.qualifiedName()
	if err != nil {
		return nil, err
	}
	t := &ast.TypeNode{Base: pos(first), Name: name}
	if p.check(idl.TokenTypeAngleOpen) {
		p.advance()
		for {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			t.Arguments = append(t.Arguments, arg)
			if _, ok := p.accept(idl.TokenTypeComma); !ok {
				break
			}
		}
		if _, err := p.expect(idl.TokenTypeAngleClose); err != nil {
			return nil, err
		}
	}
	if p.level == idl.SyntaxLevelLow {
		for p.check(idl.TokenTypeStar) {
			p.advance()
			t.Pointer = t.Pointer + 1
		}
	}
	for p.check(idl.TokenTypeSquareOpen) && p.arraySuffixAhead() {
		p.advance()
		rank := 1
		for p.check(idl.TokenTypeComma) {
			p.advance()
			rank = rank + 1
		}
		if _, err := p.expect(idl.TokenTypeSquareClose); err != nil {
			return nil, err
		}
		if t.IsArray {
			t = &ast.TypeNode{Base: t.Base, Element: t}
		}
		t.IsArray = true
		t.Rank = rank
	}
	if p.check(idl.TokenTypeQuestion) {
		p.advance()
		t.Nullable = true
	}
	return t, nil
}

// arraySuffixAhead distinguishes the array suffix "[,]" from an index
// expression.
func (p *parser) arraySuffixAhead() bool {
	for n := 1; ; n = n + 1 {
		switch p.peekN(n).Type {
		case idl.TokenTypeComma:
			continue
		case idl.TokenTypeSquareClose:
			return true
		default:
			return false
		}
	}
}

// QualifiedName = identifier { "." identifier }
func (p *parser) qualifiedName() (string, error) {
	first, err := p.expectIdent()
	if err != nil {
		return "", err
	}
	parts := []string{first.Value}
	for p.check(idl.TokenTypeDot) && p.isIdent(p.peekN(1)) {
		p.advance()
		parts = append(parts, p.advance().Value)
	}
	return strings.Join(parts, "."), nil
}

// TypeParameters = "<" identifier [ ":" Type { "&" Type } ] { "," ... } ">"
func (p *parser) typeParameters() ([]*ast.TypeParameter, error) {
	if !p.check(idl.TokenTypeAngleOpen) {
		return nil, nil
	}
	p.advance()
	var out []*ast.TypeParameter
	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		tp := &ast.TypeParameter{Base: pos(name), Name: name.Value}
		if _, ok := p.accept(idl.TokenTypeColon); ok {
			for {
				c, err := p.parseType()
				if err != nil {
					return nil, err
				}
				tp.Constraints = append(tp.Constraints, c)
				if _, ok := p.accept(idl.TokenTypeAmpersand); !ok {
					break
				}
			}
		}
		out = append(out, tp)
		if _, ok := p.accept(idl.TokenTypeComma); !ok {
			break
		}
	}
	if _, err := p.expect(idl.TokenTypeAngleClose); err != nil {
		return nil, err
	}
	return out, nil
}

// Bases = ":" Type { "," Type }
func (p *parser) bases() ([]*ast.TypeNode, error) {
	if _, ok := p.accept(idl.TokenTypeColon); !ok {
		return nil, nil
	}
	var out []*ast.TypeNode
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		if _, ok := p.accept(idl.TokenTypeComma); !ok {
			return out, nil
		}
	}
}

// Parameters = "(" [ Parameter { "," Parameter } ] ")"
func (p *parser) parameters() ([]*ast.Parameter, error) {
	if _, err := p.expect(idl.TokenTypeParenOpen); err != nil {
		return nil, err
	}
	var out []*ast.Parameter
	if _, ok := p.accept(idl.TokenTypeParenClose); ok {
		return nil, nil
	}
	for {
		param, err := p.parameter()
		if err != nil {
			return nil, err
		}
		out = append(out, param)
		if _, ok := p.accept(idl.TokenTypeComma); !ok {
			break
		}
	}
	if _, err := p.expect(idl.TokenTypeParenClose); err != nil {
		return nil, err
	}
	return out, nil
}

// Parameter = identifier ":" Type [ "=" Expression ]
//
//	| Type identifier [ "=" Expression ]
//	| identifier [ "=" Expression ]
func (p *parser) parameter() (*ast.Parameter, error) {
	first := p.peek()
	param := &ast.Parameter{Base: pos(first)}
	switch {
	case p.isIdent(first) && p.checkN(1, idl.TokenTypeColon):
		param.Name = p.advance().Value
		p.advance()
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		param.Type = t
	case p.isIdent(first) && (p.checkN(1, idl.TokenTypeComma) || p.checkN(1, idl.TokenTypeParenClose) || p.checkN(1, idl.TokenTypeEqual)):
		param.Name = p.advance().Value
	default:
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		param.Type = t
		param.Name = name.Value
	}
	if _, ok := p.accept(idl.TokenTypeEqual); ok {
		d, err := p.conditional()
		if err != nil {
			return nil, err
		}
		param.Default = d
	}
	return param, nil
}

// looksLikeTypeStart is a cheap filter applied before attempting a
// speculative typed declaration.
func (p *parser) looksLikeTypeStart() bool {
	return p.isIdent(p.peek())
}
