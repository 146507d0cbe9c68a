package polyglot

import (
	"fmt"

	"gopkg.microglot.org/polyglot.go/internal/ast"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

// highStatement parses one statement of the natural syntax. Statements may
// be followed by an optional ';'.
func (p *parser) highStatement() (ast.Statement, error) {
	p.enter("statement")
	s, err := p.highStatementBody()
	if err != nil {
		return nil, err
	}
	p.accept(idl.TokenTypeSemicolon)
	return s, nil
}

func (p *parser) highStatementBody() (ast.Statement, error) {
	tok := p.peek()
	switch {
	case tok.Type == idl.TokenTypeSemicolon:
		p.advance()
		return nil, nil
	case p.check(idl.TokenTypeKeywordIf):
		return p.highIf()
	case p.check(idl.TokenTypeKeywordFor):
		return p.highForEach()
	case p.check(idl.TokenTypeKeywordRepeat):
		return p.highRepeat()
	case p.check(idl.TokenTypeKeywordIterate):
		return p.highIterate()
	case p.check(idl.TokenTypeKeywordWhile):
		return p.highWhile()
	case p.check(idl.TokenTypeKeywordDefine):
		return p.highFunction()
	case p.check(idl.TokenTypeKeywordPrint):
		return p.highPrint()
	case p.check(idl.TokenTypeKeywordSet):
		return p.highSet()
	case p.check(idl.TokenTypeKeywordReturn):
		p.advance()
		ret := &ast.Return{Base: pos(tok)}
		if p.canStartExpression(p.peek()) {
			v, err := p.expression()
			if err != nil {
				return nil, err
			}
			ret.Value = v
		}
		return ret, nil
	case p.check(idl.TokenTypeKeywordBreak):
		p.advance()
		return &ast.Break{Base: pos(tok)}, nil
	case p.check(idl.TokenTypeKeywordContinue):
		p.advance()
		return &ast.Continue{Base: pos(tok)}, nil
	case p.check(idl.TokenTypeKeywordThrow):
		p.advance()
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &ast.Throw{Base: pos(tok), Value: v}, nil
	case p.check(idl.TokenTypeKeywordTry):
		s, err := speculate(p, "try-statement", p.highTry)
		if err == nil {
			return s, nil
		}
		return p.highExpressionStatement()
	case p.check(idl.TokenTypeKeywordEnd):
		return nil, p.strayEnd()
	case p.typeAliasAhead():
		return p.typeAlias()
	case p.canStartExpression(tok):
		return p.highExpressionStatement()
	}
	// Nothing can start here. Report the token and step over it so the
	// statement loop always makes progress.
	p.record(unexpectedError(tok, "a statement"))
	p.advance()
	return nil, nil
}

func (p *parser) highExpressionStatement() (ast.Statement, error) {
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Base: ast.At(e.Pos()), Expression: e}, nil
}

// highBody parses statements up to the word that closes or continues the
// enclosing construct.
func (p *parser) highBody() *ast.Block {
	tok := p.peek()
	stmts := p.statements(p.grammar.statement, p.endsHighBody, true, nil)
	return &ast.Block{Base: pos(tok), Statements: stmts}
}

func (p *parser) endsHighBody(tok *idl.Token) bool {
	switch tok.Type {
	case idl.TokenTypeKeywordEnd, idl.TokenTypeKeywordOtherwise, idl.TokenTypeKeywordElse,
		idl.TokenTypeKeywordCatch, idl.TokenTypeKeywordFinally:
		return p.reserved(tok.Type)
	}
	return false
}

// endClause consumes "end" and the word naming the construct it closes. A
// wrong word is reported but still closes the construct.
func (p *parser) endClause(opener *idl.Token, closer idl.TokenType) error {
	if _, err := p.expect(idl.TokenTypeKeywordEnd); err != nil {
		return err
	}
	tok := p.peek()
	if tok.Type == closer {
		p.advance()
		return nil
	}
	if tok.Type == idl.TokenTypeEOF || !(tok.Type.IsKeyword() || p.isIdent(tok)) {
		return expectedError(tok, closer)
	}
	p.advance()
	want, _ := idl.KeywordText(closer)
	p.record(&SyntaxError{
		Kind:     SyntaxErrorMismatchedEnd,
		Message:  fmt.Sprintf("'%s' opened at %d:%d is closed by 'end %s' (expecting 'end %s')", opener.Value, opener.Span.Start.Line, opener.Span.Start.Column, tok.Value, want),
		Token:    tok,
		Expected: []idl.TokenType{closer},
	})
	return nil
}

// strayEnd reports an "end" that closes nothing and skips it together with
// the word that follows.
func (p *parser) strayEnd() error {
	end := p.advance()
	if next := p.peek(); next.Type != idl.TokenTypeEOF && next.Type.IsKeyword() {
		p.advance()
	}
	return unexpectedError(end, "a statement")
}

// If = "if" Expression "then" Body { ( "otherwise" | "else" ) "if" Expression "then" Body } [ ( "otherwise" | "else" ) Body ] "end" "if"
func (p *parser) highIf() (ast.Statement, error) {
	p.enter("if")
	kw := p.advance()
	stmt, err := p.highIfRest(kw)
	if err != nil {
		return nil, err
	}
	if err := p.endClause(kw, idl.TokenTypeKeywordIf); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) highIfRest(kw *idl.Token) (*ast.If, error) {
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(idl.TokenTypeKeywordThen); err != nil {
		return nil, err
	}
	stmt := &ast.If{Base: pos(kw), Condition: cond, Then: p.highBody()}
	if !p.check(idl.TokenTypeKeywordOtherwise) && !p.check(idl.TokenTypeKeywordElse) {
		return stmt, nil
	}
	p.advance()
	if next, ok := p.accept(idl.TokenTypeKeywordIf); ok {
		chained, err := p.highIfRest(next)
		if err != nil {
			return nil, err
		}
		stmt.Else = chained
		return stmt, nil
	}
	stmt.Else = p.highBody()
	return stmt, nil
}

// ForEach = "for" [ "each" ] identifier "in" Expression [ "do" ] Body "end" "for"
func (p *parser) highForEach() (ast.Statement, error) {
	p.enter("for-each")
	kw := p.advance()
	p.accept(idl.TokenTypeKeywordEach)
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(idl.TokenTypeKeywordIn); err != nil {
		return nil, err
	}
	iterable, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.accept(idl.TokenTypeKeywordDo)
	body := p.highBody()
	if err := p.endClause(kw, idl.TokenTypeKeywordFor); err != nil {
		return nil, err
	}
	return &ast.ForEach{Base: pos(kw), Variable: name.Value, Iterable: iterable, Body: body}, nil
}

// Repeat = "repeat" Expression "times" Body "end" "repeat"
func (p *parser) highRepeat() (ast.Statement, error) {
	p.enter("repeat")
	kw := p.advance()
	count, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(idl.TokenTypeKeywordTimes); err != nil {
		return nil, err
	}
	body := p.highBody()
	if err := p.endClause(kw, idl.TokenTypeKeywordRepeat); err != nil {
		return nil, err
	}
	loop := &ast.Repeat{Base: pos(kw), Count: count, Body: body}
	return loop.Lower(), nil
}

// Iterate = "iterate" identifier "from" Expression "through" Expression [ "step" Expression ] Body "end" "iterate"
func (p *parser) highIterate() (ast.Statement, error) {
	p.enter("iterate")
	kw := p.advance()
	counter, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(idl.TokenTypeKeywordFrom); err != nil {
		return nil, err
	}
	start, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(idl.TokenTypeKeywordThrough); err != nil {
		return nil, err
	}
	end, err := p.expression()
	if err != nil {
		return nil, err
	}
	loop := &ast.Iterate{Base: pos(kw), Counter: counter.Value, Start: start, End: end}
	if _, ok := p.accept(idl.TokenTypeKeywordStep); ok {
		step, err := p.expression()
		if err != nil {
			return nil, err
		}
		loop.Step = step
	}
	loop.Body = p.highBody()
	if err := p.endClause(kw, idl.TokenTypeKeywordIterate); err != nil {
		return nil, err
	}
	return loop.Lower(), nil
}

// While = "while" Expression [ "do" ] Body "end" "while"
func (p *parser) highWhile() (ast.Statement, error) {
	p.enter("while")
	kw := p.advance()
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.accept(idl.TokenTypeKeywordDo)
	body := p.highBody()
	if err := p.endClause(kw, idl.TokenTypeKeywordWhile); err != nil {
		return nil, err
	}
	return &ast.While{Base: pos(kw), Condition: cond, Body: body}, nil
}

// Function = "define" "function" identifier [ "taking" Parameter { ( "and" | "," ) Parameter } ] Body "end" "function"
// Parameter = identifier [ ":" Type ]
func (p *parser) highFunction() (ast.Statement, error) {
	p.enter("function")
	kw := p.advance()
	if _, err := p.expect(idl.TokenTypeKeywordFunction); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	decl := &ast.FunctionDeclaration{Base: pos(kw), Name: name.Value}
	if _, ok := p.accept(idl.TokenTypeKeywordTaking); ok {
		for {
			param, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			prm := &ast.Parameter{Base: pos(param), Name: param.Value}
			if _, ok := p.accept(idl.TokenTypeColon); ok {
				t, err := p.parseType()
				if err != nil {
					return nil, err
				}
				prm.Type = t
			}
			decl.Parameters = append(decl.Parameters, prm)
			if _, ok := p.accept(idl.TokenTypeKeywordAnd); ok {
				continue
			}
			if _, ok := p.accept(idl.TokenTypeComma); ok {
				continue
			}
			break
		}
	}
	decl.Body = p.highBody()
	if err := p.endClause(kw, idl.TokenTypeKeywordFunction); err != nil {
		return nil, err
	}
	return decl, nil
}

// Print = "print" Expression
//
// Printing is an ordinary call of the print function.
func (p *parser) highPrint() (ast.Statement, error) {
	p.enter("print")
	kw := p.advance()
	v, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{
		Base: pos(kw),
		Expression: &ast.Call{
			Base:      pos(kw),
			Callee:    &ast.Identifier{Base: pos(kw), Name: "print"},
			Arguments: []ast.Expression{v},
		},
	}, nil
}

// Set = "set" Postfix "to" Expression
func (p *parser) highSet() (ast.Statement, error) {
	p.enter("set")
	kw := p.advance()
	target, err := p.postfix()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(idl.TokenTypeKeywordTo); err != nil {
		return nil, err
	}
	v, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{
		Base:       pos(kw),
		Expression: &ast.Assignment{Base: pos(kw), Target: target, Operator: "=", Value: v},
	}, nil
}

// Try = "try" Body [ "catch" [ identifier ] Body ] [ "finally" Body ] "end" "try"
//
// At least one of catch and finally is required. Without that this is a
// try expression.
func (p *parser) highTry() (ast.Statement, error) {
	p.enter("try")
	kw := p.advance()
	stmt := &ast.Try{Base: pos(kw), Block: p.highBody()}
	if catch, ok := p.accept(idl.TokenTypeKeywordCatch); ok {
		clause := &ast.CatchClause{Base: pos(catch)}
		if p.isIdent(p.peek()) && !p.canContinueAfterName() {
			clause.Name = p.advance().Value
		}
		clause.Body = p.highBody()
		stmt.Catches = append(stmt.Catches, clause)
	}
	if _, ok := p.accept(idl.TokenTypeKeywordFinally); ok {
		stmt.Finally = p.highBody()
	}
	if len(stmt.Catches) == 0 && stmt.Finally == nil {
		return nil, expectedError(p.peek(), idl.TokenTypeKeywordCatch, idl.TokenTypeKeywordFinally)
	}
	if err := p.endClause(kw, idl.TokenTypeKeywordTry); err != nil {
		return nil, err
	}
	return stmt, nil
}

// canContinueAfterName reports whether the identifier after "catch" is
// really the start of an expression statement, as in "catch x := 1".
func (p *parser) canContinueAfterName() bool {
	next := p.peekN(1)
	switch next.Type {
	case idl.TokenTypeColonEqual, idl.TokenTypeEqual, idl.TokenTypeDot, idl.TokenTypeParenOpen, idl.TokenTypeSquareOpen:
		return true
	}
	return next.Type == idl.TokenTypeKeywordWith && p.reserved(next.Type)
}
