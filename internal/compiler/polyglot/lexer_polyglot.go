// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package polyglot

import (
	"context"
	"strings"
	"unicode"

	"gopkg.microglot.org/polyglot.go/internal/exc"
	"gopkg.microglot.org/polyglot.go/internal/idl"
	"gopkg.microglot.org/polyglot.go/internal/iter"
	"gopkg.microglot.org/polyglot.go/internal/optional"
)

const (
	lexerPolyglotLookahead = 8
)

var operators = map[string]idl.TokenType{
	"{":   idl.TokenTypeCurlyOpen,
	"}":   idl.TokenTypeCurlyClose,
	"[":   idl.TokenTypeSquareOpen,
	"]":   idl.TokenTypeSquareClose,
	"(":   idl.TokenTypeParenOpen,
	")":   idl.TokenTypeParenClose,
	",":   idl.TokenTypeComma,
	";":   idl.TokenTypeSemicolon,
	":":   idl.TokenTypeColon,
	":=":  idl.TokenTypeColonEqual,
	".":   idl.TokenTypeDot,
	"..":  idl.TokenTypeDotDot,
	"..=": idl.TokenTypeDotDotEqual,
	"?":   idl.TokenTypeQuestion,
	"??":  idl.TokenTypeQuestionQuestion,
	"??=": idl.TokenTypeQuestionQuestionEqual,
	"@":   idl.TokenTypeAt,
	"=>":  idl.TokenTypeFatArrow,
	"->":  idl.TokenTypeThinArrow,
	"+":   idl.TokenTypePlus,
	"+=":  idl.TokenTypePlusEqual,
	"++":  idl.TokenTypePlusPlus,
	"-":   idl.TokenTypeMinus,
	"-=":  idl.TokenTypeMinusEqual,
	"--":  idl.TokenTypeMinusMinus,
	"*":   idl.TokenTypeStar,
	"*=":  idl.TokenTypeMultiplyEqual,
	"**":  idl.TokenTypePower,
	"**=": idl.TokenTypePowerEqual,
	"/":   idl.TokenTypeSlash,
	"/=":  idl.TokenTypeDivideEqual,
	"%":   idl.TokenTypePercent,
	"%=":  idl.TokenTypePercentEqual,
	"^":   idl.TokenTypeCaret,
	"^=":  idl.TokenTypeCaretEqual,
	"&":   idl.TokenTypeAmpersand,
	"&=":  idl.TokenTypeAmpersandEqual,
	"&&":  idl.TokenTypeBinAnd,
	"|":   idl.TokenTypePipe,
	"|=":  idl.TokenTypePipeEqual,
	"||":  idl.TokenTypeBinOr,
	"~":   idl.TokenTypeTilde,
	"!":   idl.TokenTypeExclamation,
	"!=":  idl.TokenTypeNotComparison,
	"=":   idl.TokenTypeEqual,
	"==":  idl.TokenTypeComparison,
	"<":   idl.TokenTypeAngleOpen,
	"<=":  idl.TokenTypeLesserEqual,
	"<<":  idl.TokenTypeShiftLeft,
	"<<=": idl.TokenTypeShiftLeftEqual,
	// Right shifts are formed by the parser from adjacent '>' tokens so
	// that nested generic argument lists can close one at a time.
	">":  idl.TokenTypeAngleClose,
	">=": idl.TokenTypeGreaterEqual,
	"∈":  idl.TokenTypeElementOf,
	"∉":  idl.TokenTypeNotElementOf,
}

// LexerPolyglot implements a tokenizer shared by all three surface syntaxes.
// Reserved words of every level are recognised here; the parser decides
// which of them are identifiers under the detected level.
type LexerPolyglot struct {
	reporter exc.Reporter
}

func NewLexerPolyglot(reporter exc.Reporter) *LexerPolyglot {
	return &LexerPolyglot{reporter: reporter}
}

func (self *LexerPolyglot) Lex(ctx context.Context, f idl.File) (idl.LexerFile, error) {
	return &lexerFilePolyglot{
		File:     f,
		reporter: self.reporter,
	}, nil
}

type lexerFilePolyglot struct {
	idl.File
	reporter exc.Reporter
}

func (self *lexerFilePolyglot) Tokens(ctx context.Context) (idl.Iterator[*idl.Token], error) {
	b, err := self.File.Body(ctx)
	if err != nil {
		return nil, err
	}
	points := iter.NewLookahead(iter.NewCodePoints(ctx, b), lexerPolyglotLookahead)
	return &lexerFilePolyglotTokens{
		uri:      self.File.Path(ctx),
		body:     points,
		reporter: self.reporter,
		line:     1,
		col:      0,
		offset:   -1,
	}, nil
}

type lexerFilePolyglotTokens struct {
	uri      string
	body     idl.Lookahead[idl.CodePoint]
	reporter exc.Reporter
	line     int32
	col      int32
	offset   int64
	hasBOM   bool
	done     bool
}

func (self *lexerFilePolyglotTokens) Next(ctx context.Context) optional.Optional[*idl.Token] {
	for point := self.next(ctx); point.IsPresent(); point = self.next(ctx) {
		r := rune(point.Value())
		start := self.here()
		switch {
		case r == 0xFEFF:
			if self.offset != 0 || self.hasBOM {
				_ = self.reporter.Report(self.exc(exc.CodeUnsupportedFileFormat, "invalid UTF-8 BOM location"))
				return self.end()
			}
			self.hasBOM = true
			self.offset = -1
			self.col = 0
			continue
		case r == 0x00:
			return self.end() // Treat null byte as EOF as it's not allowed.
		case r == ' ' || r == '\t':
			continue
		case r == '\n':
			return self.newLineToken(start, "\n")
		case r == '\r':
			if n := self.body.Lookahead(ctx, 1); n.IsPresent() && n.Value() == '\n' {
				_ = self.next(ctx)
				return self.newLineToken(start, "\r\n")
			}
			return self.newLineToken(start, "\r")
		case r >= '0' && r <= '9':
			return self.readNumber(ctx, start, r)
		case r == '"':
			return self.readText(ctx, start)
		case r == '_' || unicode.IsLetter(r):
			return self.readWord(ctx, start, r)
		case r == '#':
			n := self.body.Lookahead(ctx, 1)
			if n.IsPresent() && unicode.IsLetter(rune(n.Value())) {
				_ = self.next(ctx)
				word := self.readIdentifier(ctx, string(rune(n.Value())))
				return self.emit(start, idl.TokenTypeLevelMarker, word)
			}
			return self.emit(start, idl.TokenTypeUnknown, "#")
		case r == '/':
			if n := self.body.Lookahead(ctx, 1); n.IsPresent() {
				switch n.Value() {
				case '/':
					_ = self.next(ctx)
					return self.readCommentLine(ctx, start)
				case '*':
					_ = self.next(ctx)
					return self.readCommentBlock(ctx, start)
				}
			}
			return self.readOperator(ctx, start, r)
		default:
			if _, ok := operators[string(r)]; ok {
				return self.readOperator(ctx, start, r)
			}
			return self.emit(start, idl.TokenTypeUnknown, string(r))
		}
	}
	return self.end()
}

// end produces a single EOF token and then nothing.
func (self *lexerFilePolyglotTokens) end() optional.Optional[*idl.Token] {
	if self.done {
		return optional.None[*idl.Token]()
	}
	self.done = true
	loc := idl.Location{Line: self.line, Column: self.col + 1, Offset: self.offset + 1}
	return optional.Some(&idl.Token{
		Span: idl.Span{Start: loc, End: loc},
		Type: idl.TokenTypeEOF,
		File: self.uri,
	})
}

func (self *lexerFilePolyglotTokens) readOperator(ctx context.Context, start idl.Location, r rune) optional.Optional[*idl.Token] {
	text := string(r)
	for {
		n := self.body.Lookahead(ctx, 1)
		if !n.IsPresent() {
			break
		}
		longer := text + string(rune(n.Value()))
		if _, ok := operators[longer]; !ok {
			break
		}
		_ = self.next(ctx)
		text = longer
	}
	return self.emit(start, operators[text], text)
}

func (self *lexerFilePolyglotTokens) readWord(ctx context.Context, start idl.Location, r rune) optional.Optional[*idl.Token] {
	word := self.readIdentifier(ctx, string(r))
	if kind, ok := idl.LookupKeyword(word); ok {
		return self.emit(start, kind, word)
	}
	return self.emit(start, idl.TokenTypeIdentifier, word)
}

func (self *lexerFilePolyglotTokens) readIdentifier(ctx context.Context, prefix string) string {
	var builder strings.Builder
	_, _ = builder.WriteString(prefix)
	for {
		n := self.body.Lookahead(ctx, 1)
		if !n.IsPresent() {
			return builder.String()
		}
		c := rune(n.Value())
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' {
			_ = self.next(ctx)
			_, _ = builder.WriteRune(c)
			continue
		}
		return builder.String()
	}
}

func (self *lexerFilePolyglotTokens) readCommentLine(ctx context.Context, start idl.Location) optional.Optional[*idl.Token] {
	var builder strings.Builder
	for {
		n := self.body.Lookahead(ctx, 1)
		if !n.IsPresent() || n.Value() == '\n' || n.Value() == '\r' {
			return self.emit(start, idl.TokenTypeComment, builder.String())
		}
		_ = self.next(ctx)
		_, _ = builder.WriteRune(rune(n.Value()))
	}
}

func (self *lexerFilePolyglotTokens) readCommentBlock(ctx context.Context, start idl.Location) optional.Optional[*idl.Token] {
	var builder strings.Builder
	for {
		n := self.next(ctx)
		if !n.IsPresent() {
			_ = self.reporter.Report(self.exc(exc.CodeUnexpectedEOF, "EOF while reading comment block"))
			return self.emit(start, idl.TokenTypeComment, builder.String())
		}
		c := rune(n.Value())
		switch c {
		case '\n':
			self.newLine()
		case '\r':
			if nn := self.body.Lookahead(ctx, 1); nn.IsPresent() && nn.Value() == '\n' {
				_ = self.next(ctx)
				_, _ = builder.WriteRune('\r')
				c = '\n'
			}
			self.newLine()
		case '*':
			if nn := self.body.Lookahead(ctx, 1); nn.IsPresent() && nn.Value() == '/' {
				_ = self.next(ctx)
				return self.emit(start, idl.TokenTypeComment, builder.String())
			}
		}
		_, _ = builder.WriteRune(c)
	}
}

// readText reads a double quoted string. The token value keeps escapes as
// written; the literal holds the decoded string.
func (self *lexerFilePolyglotTokens) readText(ctx context.Context, start idl.Location) optional.Optional[*idl.Token] {
	var builder strings.Builder
	for {
		n := self.next(ctx)
		if !n.IsPresent() {
			_ = self.reporter.Report(self.exc(exc.CodeUnexpectedEOF, "EOF while reading text literal"))
			return self.emit(start, idl.TokenTypeText, builder.String())
		}
		c := rune(n.Value())
		switch c {
		case '"':
			return self.emit(start, idl.TokenTypeText, builder.String())
		case '\\':
			_, _ = builder.WriteRune(c)
			nn := self.next(ctx)
			if !nn.IsPresent() {
				continue
			}
			_, _ = builder.WriteRune(rune(nn.Value()))
			continue
		case '\n':
			self.newLine()
		}
		_, _ = builder.WriteRune(c)
	}
}

func (self *lexerFilePolyglotTokens) readNumber(ctx context.Context, start idl.Location, first rune) optional.Optional[*idl.Token] {
	var builder strings.Builder
	_, _ = builder.WriteRune(first)
	if first == '0' {
		if n := self.body.Lookahead(ctx, 1); n.IsPresent() {
			switch n.Value() {
			case 'x', 'X':
				_ = self.next(ctx)
				_, _ = builder.WriteRune(rune(n.Value()))
				self.readDigits(ctx, &builder, isHexDigit)
				return self.emit(start, idl.TokenTypeIntegerHex, builder.String())
			case 'b', 'B':
				_ = self.next(ctx)
				_, _ = builder.WriteRune(rune(n.Value()))
				self.readDigits(ctx, &builder, isBinaryDigit)
				return self.emit(start, idl.TokenTypeIntegerBinary, builder.String())
			}
		}
	}
	self.readDigits(ctx, &builder, isDecimalDigit)
	kind := idl.TokenTypeIntegerDecimal
	// A fraction needs a digit after the point so that 1..5 stays a range.
	if n := self.body.Lookahead(ctx, 1); n.IsPresent() && n.Value() == '.' {
		if nn := self.body.Lookahead(ctx, 2); nn.IsPresent() && isDecimalDigit(rune(nn.Value())) {
			_ = self.next(ctx)
			_, _ = builder.WriteRune('.')
			self.readDigits(ctx, &builder, isDecimalDigit)
			kind = idl.TokenTypeFloatDecimal
		}
	}
	if n := self.body.Lookahead(ctx, 1); n.IsPresent() && (n.Value() == 'e' || n.Value() == 'E') {
		nn := self.body.Lookahead(ctx, 2)
		digitAt := uint8(2)
		if nn.IsPresent() && (nn.Value() == '+' || nn.Value() == '-') {
			digitAt = 3
		}
		if d := self.body.Lookahead(ctx, digitAt); d.IsPresent() && isDecimalDigit(rune(d.Value())) {
			for x := uint8(1); x < digitAt; x = x + 1 {
				p := self.next(ctx)
				_, _ = builder.WriteRune(rune(p.Value()))
			}
			self.readDigits(ctx, &builder, isDecimalDigit)
			kind = idl.TokenTypeFloatDecimal
		}
	}
	return self.emit(start, kind, builder.String())
}

func (self *lexerFilePolyglotTokens) readDigits(ctx context.Context, builder *strings.Builder, accept func(rune) bool) {
	for {
		n := self.body.Lookahead(ctx, 1)
		if !n.IsPresent() {
			return
		}
		c := rune(n.Value())
		if !accept(c) && c != '_' {
			return
		}
		_ = self.next(ctx)
		_, _ = builder.WriteRune(c)
	}
}

func isDecimalDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isBinaryDigit(r rune) bool {
	return r == '0' || r == '1'
}

func isHexDigit(r rune) bool {
	return isDecimalDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (self *lexerFilePolyglotTokens) next(ctx context.Context) optional.Optional[idl.CodePoint] {
	n := self.body.Next(ctx)
	if n.IsPresent() {
		self.col = self.col + 1
		self.offset = self.offset + 1
	}
	return n
}

// here is the location of the most recently consumed code point.
func (self *lexerFilePolyglotTokens) here() idl.Location {
	return idl.Location{Line: self.line, Column: self.col, Offset: self.offset}
}

func (self *lexerFilePolyglotTokens) exc(code string, message string) exc.Exception {
	return exc.New(exc.LocationOf(self.uri, self.here()), code, message)
}

func (self *lexerFilePolyglotTokens) newLine() {
	self.line = self.line + 1
	self.col = 0
}

func (self *lexerFilePolyglotTokens) newLineToken(start idl.Location, v string) optional.Optional[*idl.Token] {
	t := self.emit(start, idl.TokenTypeNewline, v)
	self.newLine()
	return t
}

// emit closes a token that began at start and ends after the most recently
// consumed code point.
func (self *lexerFilePolyglotTokens) emit(start idl.Location, kind idl.TokenType, value string) optional.Optional[*idl.Token] {
	end := idl.Location{Line: self.line, Column: self.col + 1, Offset: self.offset + 1}
	return optional.Some(withLiteral(&idl.Token{
		Span:  idl.Span{Start: start, End: end},
		Type:  kind,
		Value: value,
		File:  self.uri,
	}))
}

func (self *lexerFilePolyglotTokens) Close(ctx context.Context) error {
	return self.body.Close(ctx)
}
