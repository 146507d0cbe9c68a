package idl

import (
	"context"
	"fmt"
	"strings"

	"gopkg.microglot.org/polyglot.go/internal/optional"
)

type Closer interface {
	Close(ctx context.Context) error
}

type CodePoint uint32

type Iterator[T any] interface {
	Next(ctx context.Context) optional.Optional[T]
	Closer
}

type Lookahead[T any] interface {
	Iterator[T]
	Lookahead(ctx context.Context, n uint8) optional.Optional[T]
}

type Filter[T any] interface {
	Keep(ctx context.Context, v T) bool
}

type Reader interface {
	Read(ctx context.Context, size int32) ([]byte, error)
}

type FileBody interface {
	Reader
	Closer
}

type FileKind uint32

const (
	FileKindNone FileKind = iota
	// FileKindPolyglot is source text in any of the three surface syntaxes.
	FileKindPolyglot
	// FileKindPolyglotTokens is a pre-lexed token stream encoded as JSON.
	FileKindPolyglotTokens
)

func (k FileKind) String() string {
	switch k {
	case FileKindNone:
		return "none"
	case FileKindPolyglot:
		return "polyglot"
	case FileKindPolyglotTokens:
		return "polyglot-tokens"
	default:
		return fmt.Sprintf("unkown-%d", k)
	}
}

type File interface {
	Path(ctx context.Context) string
	Kind(ctx context.Context) FileKind
	Body(ctx context.Context) (FileBody, error)
}

type FileSystem interface {
	Open(ctx context.Context, uri string) ([]File, error)
	Write(ctx context.Context, uri string, content string) error
}

type LexerFile interface {
	File
	Tokens(ctx context.Context) (Iterator[*Token], error)
}

type Lexer interface {
	Lex(ctx context.Context, f File) (LexerFile, error)
}

// Location is a 1-based line and column pair plus a 0-based byte offset.
type Location struct {
	Line   int32
	Column int32
	Offset int64
}

type Span struct {
	Start Location
	End   Location
}

// Token is a single lexeme. Tokens are never modified once a parse begins.
type Token struct {
	Span  Span
	Type  TokenType
	Value string
	// Literal holds the decoded value of literal tokens: int64, float64,
	// string, or bool.
	Literal optional.Optional[any]
	File    string
	Level   SyntaxLevel
}

func (t *Token) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Type {
	case TokenTypeEOF:
		return "end of input"
	case TokenTypeNewline:
		return "newline"
	}
	return fmt.Sprintf("'%s'", t.Value)
}

// SyntaxLevel selects one of the three surface grammars.
type SyntaxLevel uint8

const (
	SyntaxLevelHigh SyntaxLevel = iota
	SyntaxLevelMedium
	SyntaxLevelLow
)

func (l SyntaxLevel) String() string {
	switch l {
	case SyntaxLevelHigh:
		return "high"
	case SyntaxLevelMedium:
		return "medium"
	case SyntaxLevelLow:
		return "low"
	default:
		return fmt.Sprintf("level-%d", l)
	}
}

// ParseSyntaxLevel accepts the marker spelling of a level. Matching is case
// insensitive.
func ParseSyntaxLevel(s string) (SyntaxLevel, bool) {
	switch strings.ToLower(s) {
	case "high":
		return SyntaxLevelHigh, true
	case "medium":
		return SyntaxLevelMedium, true
	case "low":
		return SyntaxLevelLow, true
	}
	return SyntaxLevelHigh, false
}
