// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package polyglot

import (
	"context"
	"fmt"

	"gopkg.microglot.org/polyglot.go/internal/ast"
	"gopkg.microglot.org/polyglot.go/internal/exc"
	"gopkg.microglot.org/polyglot.go/internal/idl"
	"gopkg.microglot.org/polyglot.go/internal/iter"
	"gopkg.microglot.org/polyglot.go/internal/optional"
)

type parserOptions struct {
	strict   bool
	maxSteps int
	window   int
	tracer   Tracer
	level    optional.Optional[idl.SyntaxLevel]
}

type ParserOption func(*parserOptions)

// ParserOptionStrict controls whether Low declarations must carry types.
// Strict mode is on by default.
func ParserOptionStrict(strict bool) ParserOption {
	return func(o *parserOptions) {
		o.strict = strict
	}
}

// ParserOptionMaxSteps bounds the number of token advances a single parse
// may perform. Zero means unlimited.
func ParserOptionMaxSteps(n int) ParserOption {
	return func(o *parserOptions) {
		o.maxSteps = n
	}
}

func ParserOptionDetectionWindow(n int) ParserOption {
	return func(o *parserOptions) {
		o.window = n
	}
}

func ParserOptionTracer(t Tracer) ParserOption {
	return func(o *parserOptions) {
		o.tracer = t
	}
}

// ParserOptionLevel forces a syntax level and disables detection.
func ParserOptionLevel(level idl.SyntaxLevel) ParserOption {
	return func(o *parserOptions) {
		o.level = optional.Some(level)
	}
}

type ParserPolyglot struct {
	reporter exc.Reporter
	options  parserOptions
}

func NewParserPolyglot(reporter exc.Reporter, opts ...ParserOption) *ParserPolyglot {
	options := parserOptions{
		strict: true,
		window: DefaultDetectionWindow,
		tracer: nopTracer{},
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.tracer == nil {
		options.tracer = nopTracer{}
	}
	return &ParserPolyglot{reporter: reporter, options: options}
}

// Parse lexes and parses a file. Comments and newlines never reach the
// grammars.
func (self *ParserPolyglot) Parse(ctx context.Context, f idl.LexerFile) (*ast.Program, error) {
	ft, err := f.Tokens(ctx)
	if err != nil {
		return nil, err
	}
	filtered := iter.NewIteratorFilter(ft, idl.Filter[*idl.Token](iter.FilterFunc[*idl.Token](func(ctx context.Context, t *idl.Token) bool {
		switch t.Type {
		case idl.TokenTypeNewline, idl.TokenTypeComment:
			return false
		default:
			return true
		}
	})))
	tokens, err := iter.Collect(ctx, filtered)
	if err != nil {
		return nil, exc.Wrap(exc.Location{URI: f.Path(ctx)}, exc.CodeBudgetExceeded, err)
	}
	return self.ParseTokens(ctx, f.Path(ctx), tokens)
}

// ParseTokens parses an already produced token sequence. The input slice is
// not modified. Recoverable syntax errors are sent to the reporter and the
// best-effort program is returned with a nil error. A non-nil error means
// the unit was abandoned; the program then holds whatever was parsed before
// that point.
func (self *ParserPolyglot) ParseTokens(ctx context.Context, uri string, tokens []*idl.Token) (prog *ast.Program, err error) {
	level, _ := DetectLevel(tokens, self.options.window)
	if forced, ok := self.options.level.Get(); ok {
		level = forced
	}
	p := &parser{
		cursor: newCursor(tokens, level, self.options.maxSteps),
		ctx:    ctx,
		level:  level,
		strict: self.options.strict,
		tracer: self.options.tracer,
	}
	p.grammar = grammarFor(level)
	if uri == "" {
		uri = p.peek().File
	}
	prog = &ast.Program{File: uri, Level: level}

	defer func() {
		r := recover()
		for _, d := range p.diags {
			if ferr := self.reporter.Report(d.Exception()); ferr != nil && err == nil {
				err = ferr
			}
		}
		if r == nil {
			return
		}
		a, ok := r.(abort)
		if !ok {
			a = abort{exception: exc.New(exc.LocationOf(uri, p.peek().Span.Start), exc.CodeInternalInvariant, fmt.Sprintf("%v", r))}
		}
		if ferr := self.reporter.Report(a.exception); ferr != nil {
			err = ferr
			return
		}
		err = a.exception
	}()

	prog.Statements = p.statements(p.grammar.statement, stopAtEOF, false, &prog.Statements)
	return prog, nil
}

// grammar is the dispatch table for one syntax level. It is selected once
// per parse.
type grammar struct {
	statement statementRule
	// boundary reports whether recovery should stop before tok. It may
	// consume tok when tok terminates the broken statement.
	boundary func(p *parser, tok *idl.Token, nested bool) bool
}

type statementRule func(p *parser) (ast.Statement, error)

func grammarFor(level idl.SyntaxLevel) grammar {
	switch level {
	case idl.SyntaxLevelMedium:
		return grammar{statement: (*parser).mediumStatement, boundary: (*parser).structuredBoundary}
	case idl.SyntaxLevelLow:
		return grammar{statement: (*parser).lowStatement, boundary: (*parser).structuredBoundary}
	default:
		return grammar{statement: (*parser).highStatement, boundary: (*parser).highBoundary}
	}
}

type parser struct {
	*cursor
	ctx     context.Context
	level   idl.SyntaxLevel
	strict  bool
	tracer  Tracer
	grammar grammar
	// inGuard disables lambda detection so that the '=>' ending a match
	// case guard is not taken as the start of a lambda body.
	inGuard bool
	// lastFailure is the position reached by the most recent abandoned
	// speculative attempt.
	lastFailure int
	started     bool
}

func (p *parser) enter(rule string) {
	p.tracer.Enter(rule, p.peek())
}

// speculate runs f and rewinds the cursor and diagnostics when it fails.
// Nothing f did is visible after a failure except the trace events.
func speculate[T any](p *parser, rule string, f func() (T, error)) (T, error) {
	cp := p.mark()
	start := p.peek()
	v, err := f()
	if err != nil {
		p.lastFailure = p.pos
		p.tracer.Backtrack(rule, start)
		p.restore(cp)
		var zero T
		return zero, err
	}
	return v, nil
}

// reserved reports whether t is a keyword that the current level treats as
// a keyword. Keywords of other levels are plain identifiers.
func (p *parser) reserved(t idl.TokenType) bool {
	return t.IsKeyword() && t.ReservedIn(p.level)
}

func (p *parser) isIdent(tok *idl.Token) bool {
	return tok.Type == idl.TokenTypeIdentifier || (tok.Type.IsKeyword() && !tok.Type.ReservedIn(p.level))
}

// isWord reports whether tok is an identifier-like token spelled word.
// Contextual keywords of the natural syntax are matched this way.
func (p *parser) isWord(tok *idl.Token, word string) bool {
	return p.isIdent(tok) && tok.Value == word
}

func (p *parser) check(t idl.TokenType) bool {
	tok := p.peek()
	if tok.Type != t {
		return false
	}
	return !t.IsKeyword() || t.ReservedIn(p.level)
}

func (p *parser) checkN(n int, t idl.TokenType) bool {
	tok := p.peekN(n)
	if tok.Type != t {
		return false
	}
	return !t.IsKeyword() || t.ReservedIn(p.level)
}

func (p *parser) accept(t idl.TokenType) (*idl.Token, bool) {
	if p.check(t) {
		return p.advance(), true
	}
	return nil, false
}

func (p *parser) acceptWord(word string) (*idl.Token, bool) {
	if p.isWord(p.peek(), word) {
		return p.advance(), true
	}
	return nil, false
}

func (p *parser) expect(t idl.TokenType) (*idl.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return nil, expectedError(p.peek(), t)
}

func (p *parser) expectWord(word string) (*idl.Token, error) {
	if tok, ok := p.acceptWord(word); ok {
		return tok, nil
	}
	return nil, unexpectedError(p.peek(), fmt.Sprintf("'%s'", word))
}

func (p *parser) expectIdent() (*idl.Token, error) {
	if p.isIdent(p.peek()) {
		return p.advance(), nil
	}
	return nil, expectedError(p.peek(), idl.TokenTypeIdentifier)
}

// adjacent reports whether b starts right where a ends.
func adjacent(a *idl.Token, b *idl.Token) bool {
	return a.Span.Start.Line == b.Span.Start.Line && a.Span.End.Column == b.Span.Start.Column
}

func pos(tok *idl.Token) ast.Base {
	return ast.At(ast.PositionOf(tok))
}

func stopAtEOF(*idl.Token) bool {
	return false
}

// statements parses a statement list with rule until stop accepts the
// current token or the input ends. Failed statements are recorded and the
// cursor resynchronised so that later statements still parse. Parsed
// statements are also appended to *out as they complete so that a fatal
// abort still leaves the finished prefix visible to the caller.
func (p *parser) statements(rule statementRule, stop func(*idl.Token) bool, nested bool, out *[]ast.Statement) []ast.Statement {
	var list []ast.Statement
	for {
		if err := p.ctx.Err(); err != nil {
			fatal(p.peek(), exc.CodeBudgetExceeded, err.Error())
		}
		tok := p.peek()
		if tok.Type == idl.TokenTypeEOF || stop(tok) {
			return list
		}
		if p.skipLevelMarker() {
			continue
		}
		start := p.pos
		s, err := rule(p)
		switch {
		case err != nil:
			p.synchronize(err, start, nested)
		case s != nil:
			list = append(list, s)
			if out != nil {
				*out = list
			}
		}
		if err == nil && p.pos == start {
			p.record(unexpectedError(p.peek(), "a statement"))
			p.advance()
		}
		p.started = true
	}
}

// skipLevelMarker consumes a level marker at the start of a statement. A
// marker after the first statement is an attempt to switch syntax mid-unit,
// which is reported.
func (p *parser) skipLevelMarker() bool {
	_, width := markerAt(p.tokens, p.pos)
	if width == 0 {
		return false
	}
	tok := p.peek()
	if p.started {
		p.record(&SyntaxError{
			Kind:    SyntaxErrorInlineLevel,
			Message: "syntax level cannot change after the first statement",
			Token:   tok,
		})
	}
	for x := 0; x < width; x = x + 1 {
		p.advance()
	}
	return true
}

// synchronize records err and discards tokens until a statement boundary.
// At least one token is consumed when the failed statement made no progress.
func (p *parser) synchronize(err error, start int, nested bool) {
	p.record(asSyntaxError(err, p.peek(), "a statement"))
	if p.pos == start {
		p.advance()
	}
	for !p.atEOF() {
		if p.grammar.boundary(p, p.peek(), nested) {
			return
		}
		p.advance()
	}
}

var structuredStarters = []idl.TokenType{
	idl.TokenTypeKeywordClass,
	idl.TokenTypeKeywordStruct,
	idl.TokenTypeKeywordInterface,
	idl.TokenTypeKeywordEnum,
	idl.TokenTypeKeywordUnion,
	idl.TokenTypeKeywordFunction,
	idl.TokenTypeKeywordFn,
	idl.TokenTypeKeywordIf,
	idl.TokenTypeKeywordWhile,
	idl.TokenTypeKeywordFor,
	idl.TokenTypeKeywordForeach,
	idl.TokenTypeKeywordReturn,
	idl.TokenTypeKeywordVar,
	idl.TokenTypeKeywordLet,
	idl.TokenTypeKeywordConst,
	idl.TokenTypeKeywordSwitch,
	idl.TokenTypeKeywordTry,
	idl.TokenTypeKeywordNamespace,
	idl.TokenTypeKeywordUsing,
	idl.TokenTypeKeywordThrow,
	idl.TokenTypeKeywordBreak,
	idl.TokenTypeKeywordContinue,
}

func (p *parser) structuredBoundary(tok *idl.Token, nested bool) bool {
	switch {
	case tok.Type == idl.TokenTypeSemicolon:
		p.advance()
		return true
	case nested && tok.Type == idl.TokenTypeCurlyClose:
		return true
	case nested && (p.check(idl.TokenTypeKeywordCase) || p.check(idl.TokenTypeKeywordDefault)):
		return true
	}
	for _, t := range structuredStarters {
		if p.check(t) {
			return true
		}
	}
	return false
}

var highStarters = []idl.TokenType{
	idl.TokenTypeKeywordIf,
	idl.TokenTypeKeywordFor,
	idl.TokenTypeKeywordRepeat,
	idl.TokenTypeKeywordIterate,
	idl.TokenTypeKeywordDefine,
	idl.TokenTypeKeywordPrint,
	idl.TokenTypeKeywordReturn,
	idl.TokenTypeKeywordWhile,
	idl.TokenTypeKeywordSet,
	idl.TokenTypeKeywordTry,
	idl.TokenTypeKeywordBreak,
	idl.TokenTypeKeywordContinue,
	idl.TokenTypeKeywordThrow,
	idl.TokenTypeKeywordEnd,
	idl.TokenTypeKeywordOtherwise,
	idl.TokenTypeKeywordElse,
	idl.TokenTypeKeywordCatch,
	idl.TokenTypeKeywordFinally,
}

func (p *parser) highBoundary(tok *idl.Token, nested bool) bool {
	if tok.Type == idl.TokenTypeSemicolon {
		p.advance()
		return true
	}
	for _, t := range highStarters {
		if p.check(t) {
			return true
		}
	}
	return false
}

// embedded parses the single statement that forms the body of if, while and
// the loops. An empty statement becomes an empty block.
func (p *parser) embedded() (ast.Statement, error) {
	tok := p.peek()
	s, err := p.grammar.statement(p)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return &ast.Block{Base: pos(tok)}, nil
	}
	return s, nil
}

// block parses '{' statements '}'.
func (p *parser) block() (*ast.Block, error) {
	p.enter("block")
	open, err := p.expect(idl.TokenTypeCurlyOpen)
	if err != nil {
		return nil, err
	}
	stmts := p.statements(p.grammar.statement, isCurlyClose, true, nil)
	if _, err := p.expect(idl.TokenTypeCurlyClose); err != nil {
		return nil, err
	}
	return &ast.Block{Base: pos(open), Statements: stmts}, nil
}

func isCurlyClose(tok *idl.Token) bool {
	return tok.Type == idl.TokenTypeCurlyClose
}
