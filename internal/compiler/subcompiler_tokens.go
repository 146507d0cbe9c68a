package compiler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.microglot.org/polyglot.go/internal/ast"
	"gopkg.microglot.org/polyglot.go/internal/compiler/polyglot"
	"gopkg.microglot.org/polyglot.go/internal/exc"
	"gopkg.microglot.org/polyglot.go/internal/fs"
	"gopkg.microglot.org/polyglot.go/internal/idl"
	"gopkg.microglot.org/polyglot.go/internal/optional"
)

// SubCompilerTokens handles token streams produced elsewhere and stored as
// a JSON array. Literal values are recomputed from the token text.
type SubCompilerTokens struct {
	Options []polyglot.ParserOption
}

func (self *SubCompilerTokens) CompileFile(ctx context.Context, r exc.Reporter, file idl.File, dump Dumper) (*ast.Program, error) {
	uri := file.Path(ctx)
	content, err := fs.ReadAll(ctx, file)
	if err != nil {
		return nil, r.Report(exc.WrapUnknown(exc.Location{URI: uri}, err))
	}
	tokens, err := DecodeTokens(uri, content)
	if err != nil {
		var e exc.Exception
		if !errors.As(err, &e) {
			e = exc.Wrap(exc.Location{URI: uri}, exc.CodeUnsupportedFileFormat, err)
		}
		return nil, r.Report(e)
	}
	if dump != nil {
		if err := dump.Tokens(uri, tokens); err != nil {
			return nil, err
		}
	}
	var parseable []*idl.Token
	for _, tok := range tokens {
		switch tok.Type {
		case idl.TokenTypeNewline, idl.TokenTypeComment, idl.TokenTypeEOF:
		default:
			parseable = append(parseable, tok)
		}
	}
	prog, err := polyglot.NewParserPolyglot(r, self.Options...).ParseTokens(ctx, uri, parseable)
	if prog != nil && dump != nil {
		if derr := dump.Tree(prog); derr != nil && err == nil {
			err = derr
		}
	}
	return prog, err
}

// jsonToken is the interchange form of idl.Token. Columns are 1-based and
// the end position is exclusive.
type jsonToken struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Line      int32  `json:"line"`
	Column    int32  `json:"column"`
	EndLine   int32  `json:"endLine,omitempty"`
	EndColumn int32  `json:"endColumn,omitempty"`
	Offset    int64  `json:"offset,omitempty"`
	Literal   any    `json:"literal,omitempty"`
}

// DecodeTokens reads a JSON token array. Unknown token type names are an
// unsupported format.
func DecodeTokens(uri string, content []byte) ([]*idl.Token, error) {
	var raw []jsonToken
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, exc.Wrap(exc.Location{URI: uri}, exc.CodeUnsupportedFileFormat, err)
	}
	tokens := make([]*idl.Token, 0, len(raw))
	for offset, jt := range raw {
		kind, ok := idl.ParseTokenType(jt.Type)
		if !ok {
			loc := exc.LocationOf(uri, idl.Location{Line: jt.Line, Column: jt.Column, Offset: jt.Offset})
			return nil, exc.New(loc, exc.CodeUnsupportedFileFormat, fmt.Sprintf("token %d has unknown type %q", offset, jt.Type))
		}
		tok := &idl.Token{
			Type:  kind,
			Value: jt.Value,
			File:  uri,
			Span: idl.Span{
				Start: idl.Location{Line: jt.Line, Column: jt.Column, Offset: jt.Offset},
				End:   idl.Location{Line: jt.EndLine, Column: jt.EndColumn},
			},
		}
		if tok.Span.End.Line == 0 {
			tok.Span.End = idl.Location{
				Line:   jt.Line,
				Column: jt.Column + int32(len([]rune(jt.Value))),
				Offset: jt.Offset + int64(len(jt.Value)),
			}
		}
		if kind.IsLiteral() {
			if v, err := polyglot.DecodeLiteral(kind, jt.Value); err == nil {
				tok.Literal = optional.Some(v)
			}
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// EncodeTokens writes tokens in the form read by DecodeTokens.
func EncodeTokens(w io.Writer, tokens []*idl.Token) error {
	out := make([]jsonToken, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, jsonToken{
			Type:      tok.Type.String(),
			Value:     tok.Value,
			Line:      tok.Span.Start.Line,
			Column:    tok.Span.Start.Column,
			EndLine:   tok.Span.End.Line,
			EndColumn: tok.Span.End.Column,
			Offset:    tok.Span.Start.Offset,
			Literal:   tok.Literal.ValueOr(nil),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
