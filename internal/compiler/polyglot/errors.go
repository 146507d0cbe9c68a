package polyglot

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.microglot.org/polyglot.go/internal/exc"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

// errNoMatch tells the caller to restore its checkpoint and try the next
// alternative. It is never recorded.
var errNoMatch = errors.New("no alternative matched")

type SyntaxErrorKind uint8

const (
	SyntaxErrorExpectedToken SyntaxErrorKind = iota
	SyntaxErrorUnexpectedToken
	SyntaxErrorUnexpectedEnd
	SyntaxErrorAmbiguous
	SyntaxErrorMismatchedEnd
	SyntaxErrorMissingType
	SyntaxErrorInlineLevel
	SyntaxErrorInvalidLiteral
	SyntaxErrorInvalidNumber
)

var syntaxErrorCodes = map[SyntaxErrorKind]string{
	SyntaxErrorExpectedToken:   exc.CodeExpectedToken,
	SyntaxErrorUnexpectedToken: exc.CodeUnexpectedToken,
	SyntaxErrorUnexpectedEnd:   exc.CodeUnexpectedEOF,
	SyntaxErrorAmbiguous:       exc.CodeAmbiguousConstruct,
	SyntaxErrorMismatchedEnd:   exc.CodeMismatchedTerminator,
	SyntaxErrorMissingType:     exc.CodeMissingTypeAnnotation,
	SyntaxErrorInlineLevel:     exc.CodeInlineSyntaxSwitch,
	SyntaxErrorInvalidLiteral:  exc.CodeInvalidLiteral,
	SyntaxErrorInvalidNumber:   exc.CodeInvalidNumber,
}

func (k SyntaxErrorKind) Code() string {
	if code, ok := syntaxErrorCodes[k]; ok {
		return code
	}
	return exc.CodeUnknownFatal
}

// SyntaxError is a real defect in the input. The synchronizer records it and
// resumes at the next statement boundary.
type SyntaxError struct {
	Kind     SyntaxErrorKind
	Message  string
	Token    *idl.Token
	Expected []idl.TokenType
}

func (e *SyntaxError) Error() string {
	return e.Message
}

// Exception converts the error into a reportable exception located at the
// offending token.
func (e *SyntaxError) Exception() exc.Exception {
	var loc exc.Location
	if e.Token != nil {
		loc = exc.LocationOf(e.Token.File, e.Token.Span.Start)
	}
	return exc.New(loc, e.Kind.Code(), e.Message)
}

func expectedError(tok *idl.Token, expected ...idl.TokenType) *SyntaxError {
	if tok.Type == idl.TokenTypeEOF {
		return &SyntaxError{
			Kind:     SyntaxErrorUnexpectedEnd,
			Message:  fmt.Sprintf("unexpected end of input (expecting %s)", describeTypes(expected)),
			Token:    tok,
			Expected: expected,
		}
	}
	return &SyntaxError{
		Kind:     SyntaxErrorExpectedToken,
		Message:  fmt.Sprintf("unexpected %s (expecting %s)", tok, describeTypes(expected)),
		Token:    tok,
		Expected: expected,
	}
}

func unexpectedError(tok *idl.Token, context string) *SyntaxError {
	if tok.Type == idl.TokenTypeEOF {
		return &SyntaxError{
			Kind:    SyntaxErrorUnexpectedEnd,
			Message: fmt.Sprintf("unexpected end of input (expecting %s)", context),
			Token:   tok,
		}
	}
	return &SyntaxError{
		Kind:    SyntaxErrorUnexpectedToken,
		Message: fmt.Sprintf("unexpected %s (expecting %s)", tok, context),
		Token:   tok,
	}
}

func describeTypes(types []idl.TokenType) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		if text, ok := idl.KeywordText(t); ok {
			names = append(names, fmt.Sprintf("'%s'", text))
			continue
		}
		if text, ok := operatorText[t]; ok {
			names = append(names, fmt.Sprintf("'%s'", text))
			continue
		}
		names = append(names, t.String())
	}
	return strings.Join(names, " or ")
}

var operatorText = func() map[idl.TokenType]string {
	out := make(map[idl.TokenType]string, len(operators))
	for text, t := range operators {
		out[t] = text
	}
	return out
}()

// asSyntaxError unwraps err into a SyntaxError. errNoMatch becomes a generic
// unexpected token error located at tok.
func asSyntaxError(err error, tok *idl.Token, context string) *SyntaxError {
	var serr *SyntaxError
	if errors.As(err, &serr) {
		return serr
	}
	return unexpectedError(tok, context)
}

// abort carries a fatal exception out of the grammar by panicking. Parse
// recovers it and reports the exception.
type abort struct {
	exception exc.Exception
}

func fatal(tok *idl.Token, code string, message string) {
	var loc exc.Location
	if tok != nil {
		loc = exc.LocationOf(tok.File, tok.Span.Start)
	}
	panic(abort{exception: exc.New(loc, code, message)})
}
