package polyglot

import (
	"gopkg.microglot.org/polyglot.go/internal/ast"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

// Expression = Assignment
func (p *parser) expression() (ast.Expression, error) {
	p.enter("expression")
	return p.assignment()
}

var assignmentOperators = map[idl.TokenType]string{
	idl.TokenTypeEqual:                 "=",
	idl.TokenTypePlusEqual:             "+=",
	idl.TokenTypeMinusEqual:            "-=",
	idl.TokenTypeMultiplyEqual:         "*=",
	idl.TokenTypeDivideEqual:           "/=",
	idl.TokenTypePercentEqual:          "%=",
	idl.TokenTypePowerEqual:            "**=",
	idl.TokenTypeCaretEqual:            "^=",
	idl.TokenTypeAmpersandEqual:        "&=",
	idl.TokenTypePipeEqual:             "|=",
	idl.TokenTypeShiftLeftEqual:        "<<=",
	idl.TokenTypeQuestionQuestionEqual: "??=",
}

func (p *parser) assignmentOperator() (string, bool) {
	tok := p.peek()
	if op, ok := assignmentOperators[tok.Type]; ok {
		p.advance()
		return op, true
	}
	if tok.Type == idl.TokenTypeColonEqual && p.level == idl.SyntaxLevelHigh {
		p.advance()
		return ":=", true
	}
	if tok.Type == idl.TokenTypeAngleClose && p.peekN(1).Type == idl.TokenTypeGreaterEqual && adjacent(tok, p.peekN(1)) {
		p.advance()
		p.advance()
		return ">>=", true
	}
	return "", false
}

// Assignment = Conditional [ AssignOp Assignment ]
func (p *parser) assignment() (ast.Expression, error) {
	target, err := p.conditional()
	if err != nil {
		return nil, err
	}
	op, ok := p.assignmentOperator()
	if !ok {
		return target, nil
	}
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{Base: ast.At(target.Pos()), Target: target, Operator: op, Value: value}, nil
}

// Conditional = Coalesce [ "?" Assignment ":" Assignment ]
func (p *parser) conditional() (ast.Expression, error) {
	cond, err := p.coalesce()
	if err != nil {
		return nil, err
	}
	if _, ok := p.accept(idl.TokenTypeQuestion); !ok {
		return cond, nil
	}
	then, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(idl.TokenTypeColon); err != nil {
		return nil, err
	}
	otherwise, err := p.assignment()
	if err != nil {
		return nil, err
	}
	return &ast.Conditional{Base: ast.At(cond.Pos()), Condition: cond, Then: then, Else: otherwise}, nil
}

// leftAssociative parses next { op next } where match recognises and
// consumes op.
func (p *parser) leftAssociative(next func() (ast.Expression, error), match func() (string, bool)) (ast.Expression, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := match()
		if !ok {
			return left, nil
		}
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Base: ast.At(left.Pos()), Operator: op, Left: left, Right: right}
	}
}

// operatorMatcher matches any of the given token types. Keyword entries only
// match where the keyword is reserved.
func (p *parser) operatorMatcher(ops map[idl.TokenType]string) func() (string, bool) {
	return func() (string, bool) {
		tok := p.peek()
		op, ok := ops[tok.Type]
		if !ok || !p.check(tok.Type) {
			return "", false
		}
		p.advance()
		return op, true
	}
}

var (
	coalesceOperators   = map[idl.TokenType]string{idl.TokenTypeQuestionQuestion: "??"}
	logicalOrOperators  = map[idl.TokenType]string{idl.TokenTypeBinOr: "||", idl.TokenTypeKeywordOr: "||"}
	logicalAndOperators = map[idl.TokenType]string{idl.TokenTypeBinAnd: "&&", idl.TokenTypeKeywordAnd: "&&"}
	equalityOperators   = map[idl.TokenType]string{idl.TokenTypeComparison: "==", idl.TokenTypeNotComparison: "!="}
	bitOrOperators      = map[idl.TokenType]string{idl.TokenTypePipe: "|"}
	bitXorOperators     = map[idl.TokenType]string{idl.TokenTypeCaret: "^"}
	bitAndOperators     = map[idl.TokenType]string{idl.TokenTypeAmpersand: "&"}
)

// Coalesce = LogicalOr { "??" LogicalOr }
func (p *parser) coalesce() (ast.Expression, error) {
	return p.leftAssociative(p.logicalOr, p.operatorMatcher(coalesceOperators))
}

// LogicalOr = LogicalAnd { ( "||" | "or" ) LogicalAnd }
func (p *parser) logicalOr() (ast.Expression, error) {
	return p.leftAssociative(p.logicalAnd, p.operatorMatcher(logicalOrOperators))
}

// LogicalAnd = Equality { ( "&&" | "and" ) Equality }
func (p *parser) logicalAnd() (ast.Expression, error) {
	return p.leftAssociative(p.equality, p.operatorMatcher(logicalAndOperators))
}

// Equality = Relational { ( "==" | "!=" ) Relational }
func (p *parser) equality() (ast.Expression, error) {
	return p.leftAssociative(p.relational, p.operatorMatcher(equalityOperators))
}

// Relational = BitOr { RelOp BitOr | "as" Type | ( ".." | "..=" ) BitOr }
//
// The natural syntax adds comparison phrases and the element-of operators at
// this tier.
func (p *parser) relational() (ast.Expression, error) {
	left, err := p.bitOr()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		var op string
		switch {
		case tok.Type == idl.TokenTypeAngleClose:
			next := p.peekN(1)
			if adjacent(tok, next) && (next.Type == idl.TokenTypeAngleClose || next.Type == idl.TokenTypeGreaterEqual) {
				return left, nil
			}
			op = ">"
		case tok.Type == idl.TokenTypeAngleOpen:
			op = "<"
		case tok.Type == idl.TokenTypeLesserEqual:
			op = "<="
		case tok.Type == idl.TokenTypeGreaterEqual:
			op = ">="
		case p.check(idl.TokenTypeKeywordAs):
			p.advance()
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			left = &ast.Cast{Base: ast.At(left.Pos()), Type: t, Expression: left}
			continue
		case tok.Type == idl.TokenTypeDotDot || tok.Type == idl.TokenTypeDotDotEqual:
			p.advance()
			end, err := p.bitOr()
			if err != nil {
				return nil, err
			}
			left = &ast.Range{Base: ast.At(left.Pos()), Start: left, End: end, Inclusive: tok.Type == idl.TokenTypeDotDotEqual}
			continue
		case p.level == idl.SyntaxLevelHigh && p.check(idl.TokenTypeKeywordIs):
			phrase, err := p.comparisonPhrase()
			if err != nil {
				return nil, err
			}
			right, err := p.bitOr()
			if err != nil {
				return nil, err
			}
			left = &ast.Binary{Base: ast.At(left.Pos()), Operator: phrase, Left: left, Right: right}
			continue
		case p.level == idl.SyntaxLevelHigh && (tok.Type == idl.TokenTypeElementOf || tok.Type == idl.TokenTypeNotElementOf):
			p.advance()
			right, err := p.bitOr()
			if err != nil {
				return nil, err
			}
			left = elementOf(tok, left, right)
			continue
		default:
			return left, nil
		}
		p.advance()
		right, err := p.bitOr()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Base: ast.At(left.Pos()), Operator: op, Left: left, Right: right}
	}
}

// BitOr = BitXor { "|" BitXor }
func (p *parser) bitOr() (ast.Expression, error) {
	return p.leftAssociative(p.bitXor, p.operatorMatcher(bitOrOperators))
}

// BitXor = BitAnd { "^" BitAnd }
func (p *parser) bitXor() (ast.Expression, error) {
	return p.leftAssociative(p.bitAnd, p.operatorMatcher(bitXorOperators))
}

// BitAnd = Shift { "&" Shift }
func (p *parser) bitAnd() (ast.Expression, error) {
	return p.leftAssociative(p.shift, p.operatorMatcher(bitAndOperators))
}

// Shift = Additive { ( "<<" | ">" ">" ) Additive }
//
// A right shift is two adjacent '>' tokens.
func (p *parser) shift() (ast.Expression, error) {
	return p.leftAssociative(p.additive, func() (string, bool) {
		tok := p.peek()
		switch {
		case tok.Type == idl.TokenTypeShiftLeft:
			p.advance()
			return "<<", true
		case tok.Type == idl.TokenTypeAngleClose && p.peekN(1).Type == idl.TokenTypeAngleClose && adjacent(tok, p.peekN(1)):
			p.advance()
			p.advance()
			return ">>", true
		}
		return "", false
	})
}

// Additive = Multiplicative { ( "+" | "-" | "plus" | "minus" ) Multiplicative }
func (p *parser) additive() (ast.Expression, error) {
	return p.leftAssociative(p.multiplicative, func() (string, bool) {
		tok := p.peek()
		switch {
		case tok.Type == idl.TokenTypePlus:
			p.advance()
			return "+", true
		case tok.Type == idl.TokenTypeMinus:
			p.advance()
			return "-", true
		case p.level == idl.SyntaxLevelHigh && p.isWord(tok, "plus"):
			p.advance()
			return "+", true
		case p.level == idl.SyntaxLevelHigh && p.isWord(tok, "minus"):
			p.advance()
			return "-", true
		}
		return "", false
	})
}

// Multiplicative = Power { ( "*" | "/" | "%" | "multiplied" "by" | "divided" "by" ) Power }
func (p *parser) multiplicative() (ast.Expression, error) {
	return p.leftAssociative(p.power, func() (string, bool) {
		tok := p.peek()
		switch tok.Type {
		case idl.TokenTypeStar:
			p.advance()
			return "*", true
		case idl.TokenTypeSlash:
			p.advance()
			return "/", true
		case idl.TokenTypePercent:
			p.advance()
			return "%", true
		}
		if p.level == idl.SyntaxLevelHigh {
			return p.byPhrase()
		}
		return "", false
	})
}

// Power = Unary [ "**" Power ]
func (p *parser) power() (ast.Expression, error) {
	base, err := p.unary()
	if err != nil {
		return nil, err
	}
	if _, ok := p.accept(idl.TokenTypePower); !ok {
		return base, nil
	}
	exponent, err := p.power()
	if err != nil {
		return nil, err
	}
	return &ast.Binary{Base: ast.At(base.Pos()), Operator: "**", Left: base, Right: exponent}, nil
}

var prefixOperators = map[idl.TokenType]string{
	idl.TokenTypeMinus:       "-",
	idl.TokenTypePlus:        "+",
	idl.TokenTypeExclamation: "!",
	idl.TokenTypeTilde:       "~",
	idl.TokenTypePlusPlus:    "++",
	idl.TokenTypeMinusMinus:  "--",
}

// Unary = ( PrefixOp Unary ) | Cast | Postfix
func (p *parser) unary() (ast.Expression, error) {
	tok := p.peek()
	op, ok := prefixOperators[tok.Type]
	switch {
	case ok:
	case p.level == idl.SyntaxLevelHigh && p.check(idl.TokenTypeKeywordNot):
		op, ok = "!", true
	case p.level != idl.SyntaxLevelHigh && tok.Type == idl.TokenTypeAmpersand:
		op, ok = "&", true
	case p.level != idl.SyntaxLevelHigh && tok.Type == idl.TokenTypeStar:
		op, ok = "*", true
	case p.level != idl.SyntaxLevelHigh && tok.Type == idl.TokenTypeParenOpen:
		if cast, err := speculate(p, "cast", p.castExpression); err == nil {
			return cast, nil
		}
	}
	if !ok {
		return p.postfix()
	}
	p.advance()
	operand, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &ast.Unary{Base: pos(tok), Operator: op, Operand: operand}, nil
}

var primitiveTypes = map[string]bool{
	"bool": true, "byte": true, "sbyte": true, "char": true, "short": true, "ushort": true,
	"int": true, "uint": true, "long": true, "ulong": true, "float": true, "double": true,
	"decimal": true, "string": true, "object": true, "void": true,
}

// Cast = "(" Type ")" Unary
//
// Only taken when the token after ')' can begin an operand that would make
// no sense after a parenthesised expression.
func (p *parser) castExpression() (ast.Expression, error) {
	open := p.advance()
	t, err := p.parseType()
	if err != nil {
		return nil, errNoMatch
	}
	if _, err := p.expect(idl.TokenTypeParenClose); err != nil {
		return nil, errNoMatch
	}
	next := p.peek()
	decorated := t.IsArray || t.Nullable || t.Pointer > 0 || len(t.Arguments) > 0 || t.Element != nil
	switch {
	case p.isIdent(next), next.Type.IsLiteral(), next.Type == idl.TokenTypeExclamation, next.Type == idl.TokenTypeTilde, p.check(idl.TokenTypeKeywordNew):
	case next.Type == idl.TokenTypeParenOpen && (primitiveTypes[t.Name] || decorated):
	default:
		return nil, errNoMatch
	}
	operand, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &ast.Cast{Base: pos(open), Type: t, Expression: operand}, nil
}

// Postfix = Primary { Arguments | "[" Expression "]" | "." Name | "++" | "--" | "->" Name | "with" Arg { "and" Arg } }
func (p *parser) postfix() (ast.Expression, error) {
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		switch {
		case tok.Type == idl.TokenTypeParenOpen:
			p.advance()
			args, err := p.arguments()
			if err != nil {
				return nil, err
			}
			e = &ast.Call{Base: ast.At(e.Pos()), Callee: e, Arguments: args}
		case tok.Type == idl.TokenTypeSquareOpen:
			p.advance()
			idx, err := p.nested(p.expression)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(idl.TokenTypeSquareClose); err != nil {
				return nil, err
			}
			e = &ast.Index{Base: ast.At(e.Pos()), Target: e, Index: idx}
		case tok.Type == idl.TokenTypeDot:
			p.advance()
			name, err := p.memberName()
			if err != nil {
				return nil, err
			}
			e = &ast.Member{Base: ast.At(e.Pos()), Target: e, Name: name.Value}
		case tok.Type == idl.TokenTypePlusPlus || tok.Type == idl.TokenTypeMinusMinus:
			p.advance()
			e = &ast.Unary{Base: ast.At(e.Pos()), Operator: tok.Value, Operand: e, Postfix: true}
		case tok.Type == idl.TokenTypeThinArrow && p.level == idl.SyntaxLevelLow:
			p.advance()
			name, err := p.memberName()
			if err != nil {
				return nil, err
			}
			deref := &ast.Unary{Base: ast.At(e.Pos()), Operator: "*", Operand: e}
			e = &ast.Member{Base: ast.At(e.Pos()), Target: deref, Name: name.Value}
		case p.level == idl.SyntaxLevelHigh && p.check(idl.TokenTypeKeywordWith):
			p.advance()
			args, err := p.withArguments()
			if err != nil {
				return nil, err
			}
			e = &ast.Call{Base: ast.At(e.Pos()), Callee: e, Arguments: args}
		default:
			return e, nil
		}
	}
}

// memberName accepts any word after '.', keywords included.
func (p *parser) memberName() (*idl.Token, error) {
	tok := p.peek()
	if tok.Type == idl.TokenTypeIdentifier || tok.Type.IsKeyword() {
		return p.advance(), nil
	}
	return nil, expectedError(tok, idl.TokenTypeIdentifier)
}

// nested parses f with lambda detection enabled even inside a guard.
func (p *parser) nested(f func() (ast.Expression, error)) (ast.Expression, error) {
	saved := p.inGuard
	p.inGuard = false
	defer func() { p.inGuard = saved }()
	return f()
}

// Arguments = [ Expression { "," Expression } ] ")"
//
// The opening parenthesis has already been consumed.
func (p *parser) arguments() ([]ast.Expression, error) {
	return p.expressionList(idl.TokenTypeParenClose)
}

// expressionList parses comma separated expressions up to and including
// the closing token. A trailing comma is accepted.
func (p *parser) expressionList(closing idl.TokenType) ([]ast.Expression, error) {
	var out []ast.Expression
	for !p.check(closing) {
		e, err := p.nested(p.expression)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if _, ok := p.accept(idl.TokenTypeComma); !ok {
			break
		}
	}
	if _, err := p.expect(closing); err != nil {
		return nil, err
	}
	return out, nil
}

// WithArguments = Equality { "and" Equality }
func (p *parser) withArguments() ([]ast.Expression, error) {
	var out []ast.Expression
	for {
		arg, err := p.equality()
		if err != nil {
			return nil, err
		}
		out = append(out, arg)
		if _, ok := p.accept(idl.TokenTypeKeywordAnd); !ok {
			return out, nil
		}
	}
}

// Primary = Literal | Identifier | Lambda | "(" Expression ")" | Tuple | Array | New | Match | NaturalPhrase
func (p *parser) primary() (ast.Expression, error) {
	tok := p.peek()
	switch {
	case tok.Type.IsLiteral():
		return p.literal()
	case tok.Type == idl.TokenTypeParenOpen:
		return p.parenthesized()
	case tok.Type == idl.TokenTypeSquareOpen:
		p.advance()
		elems, err := p.expressionList(idl.TokenTypeSquareClose)
		if err != nil {
			return nil, err
		}
		return &ast.Array{Base: pos(tok), Elements: elems}, nil
	case p.check(idl.TokenTypeKeywordNew):
		return p.newExpression()
	case p.check(idl.TokenTypeKeywordMatch):
		return p.matchExpression()
	case p.level == idl.SyntaxLevelHigh && p.check(idl.TokenTypeKeywordTry):
		return p.tryExpression()
	case p.level == idl.SyntaxLevelHigh && p.check(idl.TokenTypeKeywordEach):
		return p.mapPhrase()
	case p.isIdent(tok):
		if !p.inGuard && p.checkN(1, idl.TokenTypeFatArrow) {
			p.advance()
			p.advance()
			body, err := p.lambdaBody()
			if err != nil {
				return nil, err
			}
			return &ast.Lambda{Base: pos(tok), Parameters: []*ast.Parameter{{Base: pos(tok), Name: tok.Value}}, Body: body}, nil
		}
		if p.level == idl.SyntaxLevelHigh {
			if e, ok, err := p.naturalPhrase(); ok {
				return e, err
			}
		}
		p.advance()
		return &ast.Identifier{Base: pos(tok), Name: tok.Value}, nil
	}
	return nil, unexpectedError(tok, "an expression")
}

func (p *parser) literal() (ast.Expression, error) {
	tok := p.advance()
	if v, ok := tok.Literal.Get(); ok {
		return &ast.Literal{Base: pos(tok), Value: v}, nil
	}
	v, err := DecodeLiteral(tok.Type, tok.Value)
	if err != nil {
		kind := SyntaxErrorInvalidLiteral
		if tok.Type != idl.TokenTypeText {
			kind = SyntaxErrorInvalidNumber
		}
		return nil, &SyntaxError{Kind: kind, Message: "invalid literal " + tok.String() + ": " + err.Error(), Token: tok}
	}
	return &ast.Literal{Base: pos(tok), Value: v}, nil
}

// parenthesized handles the three forms that start with '(': a lambda
// parameter list, a tuple and a grouped expression.
func (p *parser) parenthesized() (ast.Expression, error) {
	open := p.peek()
	if !p.inGuard && p.arrowAfterGroup() {
		params, err := speculate(p, "lambda", func() ([]*ast.Parameter, error) {
			params, err := p.parameters()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(idl.TokenTypeFatArrow); err != nil {
				return nil, err
			}
			return params, nil
		})
		if err == nil {
			body, err := p.lambdaBody()
			if err != nil {
				return nil, err
			}
			return &ast.Lambda{Base: pos(open), Parameters: params, Body: body}, nil
		}
	}
	p.advance()
	first, err := p.nested(p.expression)
	if err != nil {
		return nil, err
	}
	if _, ok := p.accept(idl.TokenTypeComma); !ok {
		if _, err := p.expect(idl.TokenTypeParenClose); err != nil {
			return nil, err
		}
		return first, nil
	}
	rest, err := p.expressionList(idl.TokenTypeParenClose)
	if err != nil {
		return nil, err
	}
	return &ast.Tuple{Base: pos(open), Elements: append([]ast.Expression{first}, rest...)}, nil
}

// arrowAfterGroup reports whether the bracket group opened by the current
// '(' is closed and directly followed by "=>". Only such groups can be a
// lambda parameter list, so parameter defaults are never parsed twice.
func (p *parser) arrowAfterGroup() bool {
	depth := 0
	for n := 0; ; n++ {
		switch p.peekN(n).Type {
		case idl.TokenTypeParenOpen, idl.TokenTypeSquareOpen, idl.TokenTypeCurlyOpen:
			depth++
		case idl.TokenTypeParenClose, idl.TokenTypeSquareClose, idl.TokenTypeCurlyClose:
			depth--
			if depth == 0 {
				return p.peekN(n+1).Type == idl.TokenTypeFatArrow
			}
		case idl.TokenTypeEOF:
			return false
		}
	}
}

// LambdaBody = Block | Assignment
func (p *parser) lambdaBody() (ast.Node, error) {
	if p.check(idl.TokenTypeCurlyOpen) {
		return p.block()
	}
	return p.nested(p.assignment)
}

// New = "new" Type [ "(" Arguments ] [ "{" identifier "=" Assignment { "," ... } "}" ]
func (p *parser) newExpression() (ast.Expression, error) {
	p.enter("new")
	kw := p.advance()
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	n := &ast.New{Base: pos(kw), Type: t}
	if _, ok := p.accept(idl.TokenTypeParenOpen); ok {
		args, err := p.arguments()
		if err != nil {
			return nil, err
		}
		n.Arguments = args
	}
	if _, ok := p.accept(idl.TokenTypeCurlyOpen); ok {
		for !p.check(idl.TokenTypeCurlyClose) {
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(idl.TokenTypeEqual); err != nil {
				return nil, err
			}
			value, err := p.nested(p.assignment)
			if err != nil {
				return nil, err
			}
			n.Initializers = append(n.Initializers, &ast.Initializer{Base: pos(name), Name: name.Value, Value: value})
			if _, ok := p.accept(idl.TokenTypeComma); !ok {
				break
			}
		}
		if _, err := p.expect(idl.TokenTypeCurlyClose); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Match = "match" Coalesce "{" MatchCase { "," MatchCase } [ "," ] "}"
// MatchCase = Pattern [ "when" Coalesce ] "=>" Assignment
func (p *parser) matchExpression() (ast.Expression, error) {
	p.enter("match")
	kw := p.advance()
	subject, err := p.coalesce()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(idl.TokenTypeCurlyOpen); err != nil {
		return nil, err
	}
	m := &ast.Match{Base: pos(kw), Subject: subject}
	for !p.check(idl.TokenTypeCurlyClose) {
		start := p.peek()
		pat, err := p.pattern()
		if err != nil {
			return nil, err
		}
		c := &ast.MatchCase{Base: pos(start), Pattern: pat}
		if _, ok := p.accept(idl.TokenTypeKeywordWhen); ok {
			guard, err := p.guard(p.coalesce)
			if err != nil {
				return nil, err
			}
			c.Guard = guard
		}
		if _, err := p.expect(idl.TokenTypeFatArrow); err != nil {
			return nil, err
		}
		body, err := p.nested(p.assignment)
		if err != nil {
			return nil, err
		}
		c.Body = body
		m.Cases = append(m.Cases, c)
		if _, ok := p.accept(idl.TokenTypeComma); !ok {
			break
		}
	}
	if _, err := p.expect(idl.TokenTypeCurlyClose); err != nil {
		return nil, err
	}
	return m, nil
}

// guard parses a case guard with lambda detection switched off.
func (p *parser) guard(f func() (ast.Expression, error)) (ast.Expression, error) {
	saved := p.inGuard
	p.inGuard = true
	defer func() { p.inGuard = saved }()
	return f()
}

// canStartExpression is used by the natural grammar to decide whether an
// unrecognised statement is worth parsing as an expression.
func (p *parser) canStartExpression(tok *idl.Token) bool {
	if tok.Type.IsLiteral() || p.isIdent(tok) {
		return true
	}
	switch tok.Type {
	case idl.TokenTypeParenOpen, idl.TokenTypeSquareOpen, idl.TokenTypeMinus, idl.TokenTypePlus,
		idl.TokenTypeExclamation, idl.TokenTypeTilde, idl.TokenTypePlusPlus, idl.TokenTypeMinusMinus:
		return true
	}
	if p.level != idl.SyntaxLevelHigh && (tok.Type == idl.TokenTypeAmpersand || tok.Type == idl.TokenTypeStar) {
		return true
	}
	switch tok.Type {
	case idl.TokenTypeKeywordNew, idl.TokenTypeKeywordMatch, idl.TokenTypeKeywordNot, idl.TokenTypeKeywordEach, idl.TokenTypeKeywordTry:
		return p.reserved(tok.Type)
	}
	return false
}
