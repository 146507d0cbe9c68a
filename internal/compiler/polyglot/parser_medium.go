package polyglot

import (
	"fmt"

	"gopkg.microglot.org/polyglot.go/internal/ast"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

// mediumStatement parses one statement of the C-like syntax. It returns a
// nil statement for an empty ';'.
func (p *parser) mediumStatement() (ast.Statement, error) {
	p.enter("statement")
	tok := p.peek()
	switch {
	case tok.Type == idl.TokenTypeSemicolon:
		p.advance()
		return nil, nil
	case tok.Type == idl.TokenTypeCurlyOpen:
		return p.block()
	case p.check(idl.TokenTypeKeywordIf):
		return p.ifStatement()
	case p.check(idl.TokenTypeKeywordWhile):
		return p.whileStatement()
	case p.check(idl.TokenTypeKeywordFor):
		return p.forStatement()
	case p.check(idl.TokenTypeKeywordForeach):
		return p.foreachStatement()
	case p.check(idl.TokenTypeKeywordSwitch):
		return p.switchStatement()
	case p.check(idl.TokenTypeKeywordTry):
		return p.tryStatement()
	case p.check(idl.TokenTypeKeywordReturn):
		return p.returnStatement()
	case p.check(idl.TokenTypeKeywordBreak):
		p.advance()
		return &ast.Break{Base: pos(tok)}, p.terminator()
	case p.check(idl.TokenTypeKeywordContinue):
		p.advance()
		return &ast.Continue{Base: pos(tok)}, p.terminator()
	case p.check(idl.TokenTypeKeywordThrow):
		return p.throwStatement()
	case p.check(idl.TokenTypeKeywordVar), p.check(idl.TokenTypeKeywordLet), p.check(idl.TokenTypeKeywordConst):
		return p.variableDeclaration(nil)
	case p.check(idl.TokenTypeKeywordUsing):
		return p.usingDirective()
	case p.check(idl.TokenTypeKeywordNamespace):
		return p.namespaceDeclaration()
	case p.startsDeclaration():
		return p.declaration()
	case p.typeAliasAhead():
		return p.typeAlias()
	}
	return p.declarationOrExpression()
}

// terminator consumes the ';' that ends a simple statement.
func (p *parser) terminator() error {
	_, err := p.expect(idl.TokenTypeSemicolon)
	return err
}

// If = "if" "(" Expression ")" Statement [ "else" Statement ]
func (p *parser) ifStatement() (ast.Statement, error) {
	p.enter("if")
	kw := p.advance()
	cond, err := p.parenthesizedCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.embedded()
	if err != nil {
		return nil, err
	}
	s := &ast.If{Base: pos(kw), Condition: cond, Then: then}
	if _, ok := p.accept(idl.TokenTypeKeywordElse); ok {
		otherwise, err := p.embedded()
		if err != nil {
			return nil, err
		}
		s.Else = otherwise
	}
	return s, nil
}

func (p *parser) parenthesizedCondition() (ast.Expression, error) {
	if _, err := p.expect(idl.TokenTypeParenOpen); err != nil {
		return nil, err
	}
	cond, err := p.nested(p.expression)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(idl.TokenTypeParenClose); err != nil {
		return nil, err
	}
	return cond, nil
}

// While = "while" "(" Expression ")" Statement
func (p *parser) whileStatement() (ast.Statement, error) {
	p.enter("while")
	kw := p.advance()
	cond, err := p.parenthesizedCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.embedded()
	if err != nil {
		return nil, err
	}
	return &ast.While{Base: pos(kw), Condition: cond, Body: body}, nil
}

// For = "for" "(" [ ForInit ] ";" [ Expression ] ";" [ Expression { "," Expression } ] ")" Statement
//
//	| "for" "(" ForEachHead ")" Statement
//
// The C-style form is lowered to a block holding the initialisers and a
// while loop.
func (p *parser) forStatement() (ast.Statement, error) {
	p.enter("for")
	kw := p.advance()
	if _, err := p.expect(idl.TokenTypeParenOpen); err != nil {
		return nil, err
	}
	if head, err := speculate(p, "foreach-head", p.foreachHead); err == nil {
		return p.foreachBody(kw, head)
	}
	loop := &ast.For{Base: pos(kw)}
	if !p.check(idl.TokenTypeSemicolon) {
		init, err := p.forInit()
		if err != nil {
			return nil, err
		}
		loop.Init = init
	}
	if err := p.terminator(); err != nil {
		return nil, err
	}
	if !p.check(idl.TokenTypeSemicolon) {
		cond, err := p.nested(p.expression)
		if err != nil {
			return nil, err
		}
		loop.Condition = cond
	}
	if err := p.terminator(); err != nil {
		return nil, err
	}
	for !p.check(idl.TokenTypeParenClose) {
		u, err := p.nested(p.expression)
		if err != nil {
			return nil, err
		}
		loop.Update = append(loop.Update, u)
		if _, ok := p.accept(idl.TokenTypeComma); !ok {
			break
		}
	}
	if _, err := p.expect(idl.TokenTypeParenClose); err != nil {
		return nil, err
	}
	body, err := p.embedded()
	if err != nil {
		return nil, err
	}
	loop.Body = body
	return loop.Lower(), nil
}

// ForInit = VariableDeclarator | Expression { "," Expression }
func (p *parser) forInit() ([]ast.Statement, error) {
	if p.check(idl.TokenTypeKeywordVar) || p.check(idl.TokenTypeKeywordLet) || p.check(idl.TokenTypeKeywordConst) {
		decl, err := p.variableDeclarator(nil)
		if err != nil {
			return nil, err
		}
		return []ast.Statement{decl}, nil
	}
	if p.looksLikeTypeStart() {
		decl, err := speculate(p, "typed-init", func() (*ast.VariableDeclaration, error) {
			t, name, err := p.typedHead()
			if err != nil {
				return nil, err
			}
			if !p.check(idl.TokenTypeEqual) {
				return nil, errNoMatch
			}
			return p.typedVariable(nil, t, name)
		})
		if err == nil {
			return []ast.Statement{decl}, nil
		}
	}
	var out []ast.Statement
	for {
		e, err := p.nested(p.expression)
		if err != nil {
			return nil, err
		}
		out = append(out, &ast.ExpressionStatement{Base: ast.At(e.Pos()), Expression: e})
		if _, ok := p.accept(idl.TokenTypeComma); !ok {
			return out, nil
		}
	}
}

type foreachHead struct {
	variable *idl.Token
	typ      *ast.TypeNode
	iterable ast.Expression
}

// ForEachHead = [ "var" | Type ] identifier "in" Expression ")"
func (p *parser) foreachHead() (*foreachHead, error) {
	head := &foreachHead{}
	switch {
	case p.check(idl.TokenTypeKeywordVar):
		p.advance()
	case p.isIdent(p.peek()) && p.checkN(1, idl.TokenTypeKeywordIn):
	default:
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		head.typ = t
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	head.variable = name
	if _, err := p.expect(idl.TokenTypeKeywordIn); err != nil {
		return nil, err
	}
	iterable, err := p.nested(p.expression)
	if err != nil {
		return nil, err
	}
	head.iterable = iterable
	if _, err := p.expect(idl.TokenTypeParenClose); err != nil {
		return nil, err
	}
	return head, nil
}

func (p *parser) foreachBody(kw *idl.Token, head *foreachHead) (ast.Statement, error) {
	body, err := p.embedded()
	if err != nil {
		return nil, err
	}
	return &ast.ForEach{
		Base:         pos(kw),
		Variable:     head.variable.Value,
		VariableType: head.typ,
		Iterable:     head.iterable,
		Body:         body,
	}, nil
}

// ForEach = "foreach" "(" ForEachHead ")" Statement
func (p *parser) foreachStatement() (ast.Statement, error) {
	p.enter("foreach")
	kw := p.advance()
	if _, err := p.expect(idl.TokenTypeParenOpen); err != nil {
		return nil, err
	}
	head, err := p.foreachHead()
	if err != nil {
		return nil, err
	}
	return p.foreachBody(kw, head)
}

// Switch = "switch" "(" Expression ")" "{" { CaseSection } [ "default" ":" { Statement } ] "}"
// CaseSection = CaseLabel { CaseLabel } { Statement }
// CaseLabel = "case" Pattern { "," Pattern } [ "when" Expression ] ":"
//
// Consecutive labels without statements between them share one case.
func (p *parser) switchStatement() (ast.Statement, error) {
	p.enter("switch")
	kw := p.advance()
	subject, err := p.parenthesizedCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(idl.TokenTypeCurlyOpen); err != nil {
		return nil, err
	}
	s := &ast.Switch{Base: pos(kw), Subject: subject}
	endOfSection := func(tok *idl.Token) bool {
		return tok.Type == idl.TokenTypeCurlyClose || p.check(idl.TokenTypeKeywordCase) || p.check(idl.TokenTypeKeywordDefault)
	}
	for !p.check(idl.TokenTypeCurlyClose) {
		switch {
		case p.check(idl.TokenTypeKeywordCase):
			c := &ast.SwitchCase{Base: pos(p.peek())}
			for p.check(idl.TokenTypeKeywordCase) {
				p.advance()
				for {
					pat, err := p.pattern()
					if err != nil {
						return nil, err
					}
					c.Patterns = append(c.Patterns, pat)
					if _, ok := p.accept(idl.TokenTypeComma); !ok {
						break
					}
				}
				if _, ok := p.accept(idl.TokenTypeKeywordWhen); ok {
					guard, err := p.guard(p.expression)
					if err != nil {
						return nil, err
					}
					c.Guard = guard
				}
				if _, err := p.expect(idl.TokenTypeColon); err != nil {
					return nil, err
				}
			}
			c.Body = p.statements(p.grammar.statement, endOfSection, true, nil)
			s.Cases = append(s.Cases, c)
		case p.check(idl.TokenTypeKeywordDefault):
			def := p.advance()
			if _, err := p.expect(idl.TokenTypeColon); err != nil {
				return nil, err
			}
			s.Default = &ast.Block{Base: pos(def), Statements: p.statements(p.grammar.statement, endOfSection, true, nil)}
		default:
			return nil, expectedError(p.peek(), idl.TokenTypeKeywordCase, idl.TokenTypeKeywordDefault, idl.TokenTypeCurlyClose)
		}
	}
	p.advance()
	return s, nil
}

// Try = "try" Block { Catch } [ "finally" Block ]
// Catch = "catch" [ "(" ( "var" identifier | Type [ identifier ] ) ")" ] Block
func (p *parser) tryStatement() (ast.Statement, error) {
	p.enter("try")
	kw := p.advance()
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	s := &ast.Try{Base: pos(kw), Block: body}
	for p.check(idl.TokenTypeKeywordCatch) {
		c := &ast.CatchClause{Base: pos(p.advance())}
		if _, ok := p.accept(idl.TokenTypeParenOpen); ok {
			if _, ok := p.accept(idl.TokenTypeKeywordVar); ok {
				name, err := p.expectIdent()
				if err != nil {
					return nil, err
				}
				c.Name = name.Value
			} else {
				t, err := p.parseType()
				if err != nil {
					return nil, err
				}
				c.Type = t
				if p.isIdent(p.peek()) {
					c.Name = p.advance().Value
				}
			}
			if _, err := p.expect(idl.TokenTypeParenClose); err != nil {
				return nil, err
			}
		}
		handler, err := p.block()
		if err != nil {
			return nil, err
		}
		c.Body = handler
		s.Catches = append(s.Catches, c)
	}
	if _, ok := p.accept(idl.TokenTypeKeywordFinally); ok {
		finally, err := p.block()
		if err != nil {
			return nil, err
		}
		s.Finally = finally
	}
	if len(s.Catches) == 0 && s.Finally == nil {
		return nil, expectedError(p.peek(), idl.TokenTypeKeywordCatch, idl.TokenTypeKeywordFinally)
	}
	return s, nil
}

// Return = "return" [ Expression ] ";"
func (p *parser) returnStatement() (ast.Statement, error) {
	p.enter("return")
	kw := p.advance()
	s := &ast.Return{Base: pos(kw)}
	if !p.check(idl.TokenTypeSemicolon) && !p.check(idl.TokenTypeCurlyClose) {
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		s.Value = v
	}
	return s, p.terminator()
}

// Throw = "throw" Expression ";"
func (p *parser) throwStatement() (ast.Statement, error) {
	kw := p.advance()
	v, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.Throw{Base: pos(kw), Value: v}, p.terminator()
}

// VariableDeclaration = VariableDeclarator ";"
func (p *parser) variableDeclaration(modifiers []string) (ast.Statement, error) {
	decl, err := p.variableDeclarator(modifiers)
	if err != nil {
		return nil, err
	}
	return decl, p.terminator()
}

// VariableDeclarator = ( "var" | "let" | "const" ) identifier [ ":" Type ] [ "=" Expression ]
//
// Strict Low code must give the type.
func (p *parser) variableDeclarator(modifiers []string) (*ast.VariableDeclaration, error) {
	p.enter("variable")
	kw := p.advance()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	decl := &ast.VariableDeclaration{Base: pos(kw), Modifiers: modifiers, Kind: kw.Value, Name: name.Value}
	if _, ok := p.accept(idl.TokenTypeColon); ok {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		decl.Type = t
	}
	if decl.Type == nil && p.level == idl.SyntaxLevelLow && p.strict {
		p.record(&SyntaxError{
			Kind:    SyntaxErrorMissingType,
			Message: fmt.Sprintf("declaration of '%s' needs a type", name.Value),
			Token:   name,
		})
	}
	if _, ok := p.accept(idl.TokenTypeEqual); ok {
		init, err := p.expression()
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}
	return decl, nil
}

// typedHead parses the "Type identifier" prefix shared by typed variables,
// fields, properties and C-style functions.
func (p *parser) typedHead() (*ast.TypeNode, *idl.Token, error) {
	t, err := p.parseType()
	if err != nil {
		return nil, nil, err
	}
	if !p.isIdent(p.peek()) {
		return nil, nil, errNoMatch
	}
	return t, p.advance(), nil
}

// typedVariable finishes "Type identifier [ = Expression ]" without the
// terminator.
func (p *parser) typedVariable(modifiers []string, t *ast.TypeNode, name *idl.Token) (*ast.VariableDeclaration, error) {
	decl := &ast.VariableDeclaration{Base: ast.At(t.Pos()), Modifiers: modifiers, Name: name.Value, Type: t}
	if _, ok := p.accept(idl.TokenTypeEqual); ok {
		init, err := p.expression()
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}
	return decl, nil
}

// TypedDeclaration = Type identifier ( [ "=" Expression ] ";" | FunctionRest | PropertyRest )
func (p *parser) typedDeclaration(modifiers []string) (ast.Statement, error) {
	p.enter("typed-declaration")
	t, name, err := p.typedHead()
	if err != nil {
		return nil, err
	}
	switch {
	case p.check(idl.TokenTypeEqual), p.check(idl.TokenTypeSemicolon):
		return p.typedField(modifiers, t, name)
	case p.check(idl.TokenTypeParenOpen), p.check(idl.TokenTypeAngleOpen):
		return p.functionRest(modifiers, name, t)
	case p.check(idl.TokenTypeCurlyOpen):
		return p.propertyRest(modifiers, t, name)
	}
	return nil, errNoMatch
}

func (p *parser) typedField(modifiers []string, t *ast.TypeNode, name *idl.Token) (ast.Statement, error) {
	decl, err := p.typedVariable(modifiers, t, name)
	if err != nil {
		return nil, err
	}
	return decl, p.terminator()
}

// ExpressionStatement = Expression ";"
func (p *parser) expressionStatement() (ast.Statement, error) {
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.terminator(); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Base: ast.At(e.Pos()), Expression: e}, nil
}

// declarationOrExpression resolves "Type identifier" against an expression
// statement by trying the declaration first. When both fail the error of
// whichever alternative got further is reported and recovery resumes from
// there.
func (p *parser) declarationOrExpression() (ast.Statement, error) {
	if !p.looksLikeTypeStart() {
		return p.expressionStatement()
	}
	start := p.peek()
	decl, declErr := speculate(p, "typed-declaration", func() (ast.Statement, error) {
		return p.typedDeclaration(nil)
	})
	if declErr == nil {
		return decl, nil
	}
	declReach := p.lastFailure
	stmt, exprErr := speculate(p, "expression-statement", p.expressionStatement)
	if exprErr == nil {
		return stmt, nil
	}
	exprReach := p.lastFailure
	if declReach > exprReach {
		p.seek(declReach)
		serr := asSyntaxError(declErr, p.peek(), "a declaration")
		return nil, &SyntaxError{
			Kind:    SyntaxErrorAmbiguous,
			Message: fmt.Sprintf("neither a declaration nor an expression starting at %s: %s", start, serr.Message),
			Token:   serr.Token,
		}
	}
	p.seek(exprReach)
	return nil, exprErr
}
