package compiler

import (
	"context"

	"gopkg.microglot.org/polyglot.go/internal/ast"
	"gopkg.microglot.org/polyglot.go/internal/compiler/polyglot"
	"gopkg.microglot.org/polyglot.go/internal/exc"
	"gopkg.microglot.org/polyglot.go/internal/idl"
	"gopkg.microglot.org/polyglot.go/internal/optional"
)

// SubCompilerPolyglot handles source text in any of the surface syntaxes.
type SubCompilerPolyglot struct {
	Options []polyglot.ParserOption
}

func (self *SubCompilerPolyglot) CompileFile(ctx context.Context, r exc.Reporter, file idl.File, dump Dumper) (*ast.Program, error) {
	lexer := polyglot.NewLexerPolyglot(r)
	parser := polyglot.NewParserPolyglot(r, self.Options...)
	lf, err := lexer.Lex(ctx, file)
	if err != nil {
		return nil, err
	}
	var tee *teeFile
	if dump != nil && dump.WantTokens() {
		tee = &teeFile{LexerFile: lf}
		lf = tee
	}
	prog, err := parser.Parse(ctx, lf)
	if tee != nil {
		if derr := dump.Tokens(file.Path(ctx), tee.seen); derr != nil && err == nil {
			err = derr
		}
	}
	if prog != nil && dump != nil {
		if derr := dump.Tree(prog); derr != nil && err == nil {
			err = derr
		}
	}
	return prog, err
}

// teeFile records every token handed to the parser, including the comments
// and newlines it filters out.
type teeFile struct {
	idl.LexerFile
	seen []*idl.Token
}

func (self *teeFile) Tokens(ctx context.Context) (idl.Iterator[*idl.Token], error) {
	it, err := self.LexerFile.Tokens(ctx)
	if err != nil {
		return nil, err
	}
	return &teeIterator{Iterator: it, file: self}, nil
}

type teeIterator struct {
	idl.Iterator[*idl.Token]
	file *teeFile
}

func (self *teeIterator) Next(ctx context.Context) optional.Optional[*idl.Token] {
	tok := self.Iterator.Next(ctx)
	if t, ok := tok.Get(); ok {
		self.file.seen = append(self.file.seen, t)
	}
	return tok
}
