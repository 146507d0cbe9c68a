package polyglot

import (
	"gopkg.microglot.org/polyglot.go/internal/ast"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

// Natural phrases are recognised only by the High grammar. Each of them
// produces exactly the tree that the equivalent symbolic expression would.

// ComparisonPhrase = "is" ( "equal" "to"
//
//	| "not" "equal" "to"
//	| "greater" "than" [ "or" "equal" "to" ]
//	| "less" "than" [ "or" "equal" "to" ] )
func (p *parser) comparisonPhrase() (string, error) {
	p.advance()
	if _, ok := p.accept(idl.TokenTypeKeywordNot); ok {
		if _, err := p.expectWord("equal"); err != nil {
			return "", err
		}
		if _, err := p.expect(idl.TokenTypeKeywordTo); err != nil {
			return "", err
		}
		return "!=", nil
	}
	if _, ok := p.acceptWord("equal"); ok {
		if _, err := p.expect(idl.TokenTypeKeywordTo); err != nil {
			return "", err
		}
		return "==", nil
	}
	var strict, inclusive string
	switch {
	case p.isWord(p.peek(), "greater"):
		strict, inclusive = ">", ">="
	case p.isWord(p.peek(), "less"):
		strict, inclusive = "<", "<="
	default:
		return "", unexpectedError(p.peek(), "'equal', 'not', 'greater' or 'less'")
	}
	p.advance()
	if _, err := p.expectWord("than"); err != nil {
		return "", err
	}
	if p.check(idl.TokenTypeKeywordOr) && p.isWord(p.peekN(1), "equal") && p.checkN(2, idl.TokenTypeKeywordTo) {
		p.advance()
		p.advance()
		p.advance()
		return inclusive, nil
	}
	return strict, nil
}

// byPhrase matches "multiplied by" and "divided by".
func (p *parser) byPhrase() (string, bool) {
	tok := p.peek()
	if !p.isWord(p.peekN(1), "by") {
		return "", false
	}
	switch {
	case p.isWord(tok, "multiplied"):
		p.advance()
		p.advance()
		return "*", true
	case p.isWord(tok, "divided"):
		p.advance()
		p.advance()
		return "/", true
	}
	return "", false
}

func elementOf(op *idl.Token, left ast.Expression, right ast.Expression) ast.Expression {
	name := "ElementOf"
	if op.Type == idl.TokenTypeNotElementOf {
		name = "NotElementOf"
	}
	return &ast.Call{
		Base:      ast.At(left.Pos()),
		Callee:    &ast.Identifier{Base: pos(op), Name: name},
		Arguments: []ast.Expression{left, right},
	}
}

var aggregates = map[string]string{
	"sum":     "Sum",
	"average": "Average",
	"count":   "Count",
	"minimum": "Min",
	"maximum": "Max",
	"product": "Aggregate",
}

// naturalPhrase recognises phrases that begin with an ordinary word. The
// words involved stay usable as identifiers everywhere else.
func (p *parser) naturalPhrase() (ast.Expression, bool, error) {
	tok := p.peek()
	switch {
	case p.isWord(tok, "all") && (p.isWord(p.peekN(1), "even") || p.isWord(p.peekN(1), "odd")) &&
		p.isWord(p.peekN(2), "numbers") && p.checkN(3, idl.TokenTypeKeywordFrom):
		e, err := p.parityFilter()
		return e, true, err
	case aggregates[tok.Value] != "" && p.isWord(p.peekN(1), "of") && p.isWord(p.peekN(2), "all"):
		e, err := p.aggregate()
		return e, true, err
	}
	return nil, false, nil
}

// ParityFilter = "all" ( "even" | "odd" ) "numbers" "from" Unary
//
// Becomes X.Where(x => x % 2 == 0), or != 0 for odd numbers since the
// remainder of a negative odd number is -1.
func (p *parser) parityFilter() (ast.Expression, error) {
	p.enter("parity-filter")
	all := p.advance()
	op := "=="
	if p.advance().Value == "odd" {
		op = "!="
	}
	p.advance()
	p.advance()
	source, err := p.unary()
	if err != nil {
		return nil, err
	}
	at := pos(all)
	predicate := &ast.Binary{
		Base:     at,
		Operator: op,
		Left: &ast.Binary{
			Base:     at,
			Operator: "%",
			Left:     &ast.Identifier{Base: at, Name: "x"},
			Right:    &ast.Literal{Base: at, Value: int64(2)},
		},
		Right: &ast.Literal{Base: at, Value: int64(0)},
	}
	return methodCall(at, source, "Where", &ast.Lambda{
		Base:       at,
		Parameters: []*ast.Parameter{{Base: at, Name: "x"}},
		Body:       predicate,
	}), nil
}

// Aggregate = AggregateWord "of" "all" Unary
//
// Becomes SOURCE.Sum() and friends. product folds with multiplication:
// SOURCE.Aggregate(1, (acc, x) => acc * x).
func (p *parser) aggregate() (ast.Expression, error) {
	p.enter("aggregate")
	word := p.advance()
	p.advance()
	p.advance()
	source, err := p.unary()
	if err != nil {
		return nil, err
	}
	at := pos(word)
	if word.Value != "product" {
		return methodCall(at, source, aggregates[word.Value]), nil
	}
	fold := &ast.Lambda{
		Base:       at,
		Parameters: []*ast.Parameter{{Base: at, Name: "acc"}, {Base: at, Name: "x"}},
		Body: &ast.Binary{
			Base:     at,
			Operator: "*",
			Left:     &ast.Identifier{Base: at, Name: "acc"},
			Right:    &ast.Identifier{Base: at, Name: "x"},
		},
	}
	return methodCall(at, source, "Aggregate", &ast.Literal{Base: at, Value: int64(1)}, fold), nil
}

// MapPhrase = "each" identifier "in" Postfix MapOperator Unary
// MapOperator = "multiplied" "by" | "divided" "by" | "plus" | "minus"
//
// Becomes SOURCE.Select(I => I op M).
func (p *parser) mapPhrase() (ast.Expression, error) {
	p.enter("map-phrase")
	each := p.advance()
	item, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(idl.TokenTypeKeywordIn); err != nil {
		return nil, err
	}
	source, err := p.postfix()
	if err != nil {
		return nil, err
	}
	op, ok := p.byPhrase()
	if !ok {
		switch {
		case p.isWord(p.peek(), "plus"):
			op = "+"
		case p.isWord(p.peek(), "minus"):
			op = "-"
		default:
			return nil, unexpectedError(p.peek(), "'multiplied by', 'divided by', 'plus' or 'minus'")
		}
		p.advance()
	}
	operand, err := p.unary()
	if err != nil {
		return nil, err
	}
	at := pos(each)
	return methodCall(at, source, "Select", &ast.Lambda{
		Base:       at,
		Parameters: []*ast.Parameter{{Base: pos(item), Name: item.Value}},
		Body: &ast.Binary{
			Base:     at,
			Operator: op,
			Left:     &ast.Identifier{Base: pos(item), Name: item.Value},
			Right:    operand,
		},
	}), nil
}

// TryExpression = "try" Conditional ( "else" Conditional | "catch" Conditional )
//
// try X else Y becomes TryOrElse(() => X, () => Y). try X catch Y becomes
// TryOrCatch(() => X, error => Y) with the failure bound to error.
func (p *parser) tryExpression() (ast.Expression, error) {
	p.enter("try-expression")
	kw := p.advance()
	attempt, err := p.conditional()
	if err != nil {
		return nil, err
	}
	at := pos(kw)
	var name string
	var params []*ast.Parameter
	switch {
	case p.check(idl.TokenTypeKeywordElse):
		name = "TryOrElse"
	case p.check(idl.TokenTypeKeywordCatch):
		name = "TryOrCatch"
		params = []*ast.Parameter{{Base: at, Name: "error"}}
	default:
		return nil, expectedError(p.peek(), idl.TokenTypeKeywordElse, idl.TokenTypeKeywordCatch)
	}
	p.advance()
	fallback, err := p.conditional()
	if err != nil {
		return nil, err
	}
	return &ast.Call{
		Base:   at,
		Callee: &ast.Identifier{Base: at, Name: name},
		Arguments: []ast.Expression{
			&ast.Lambda{Base: at, Body: attempt},
			&ast.Lambda{Base: at, Parameters: params, Body: fallback},
		},
	}, nil
}

func methodCall(at ast.Base, target ast.Expression, method string, args ...ast.Expression) ast.Expression {
	return &ast.Call{
		Base:      at,
		Callee:    &ast.Member{Base: at, Target: target, Name: method},
		Arguments: args,
	}
}
