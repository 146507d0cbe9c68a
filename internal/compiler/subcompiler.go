package compiler

import (
	"context"
	"fmt"
	"io"
	"sync"

	"gopkg.microglot.org/polyglot.go/internal/ast"
	"gopkg.microglot.org/polyglot.go/internal/compiler/polyglot"
	"gopkg.microglot.org/polyglot.go/internal/exc"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

// SubCompiler produces a program from one file of a specific kind. A nil
// program with a nil error means the file contributed nothing.
type SubCompiler interface {
	CompileFile(ctx context.Context, r exc.Reporter, file idl.File, dump Dumper) (*ast.Program, error)
}

func DefaultSubCompilers(opts ...polyglot.ParserOption) map[idl.FileKind]SubCompiler {
	return map[idl.FileKind]SubCompiler{
		idl.FileKindPolyglot:       &SubCompilerPolyglot{Options: opts},
		idl.FileKindPolyglotTokens: &SubCompilerTokens{Options: opts},
	}
}

// Dumper receives debugging views of a unit as it is compiled.
type Dumper interface {
	Tokens(uri string, tokens []*idl.Token) error
	Tree(prog *ast.Program) error
	WantTokens() bool
}

// dumper serialises output from concurrently compiled units so that each
// unit's dump is written as one piece.
type dumper struct {
	lock   *sync.Mutex
	w      io.Writer
	tokens bool
	tree   bool
}

func (self *dumper) WantTokens() bool {
	return self != nil && self.tokens
}

func (self *dumper) Tokens(uri string, tokens []*idl.Token) error {
	if !self.WantTokens() {
		return nil
	}
	self.lock.Lock()
	defer self.lock.Unlock()
	if _, err := fmt.Fprintf(self.w, "# %s\n", uri); err != nil {
		return err
	}
	for _, token := range tokens {
		if _, err := fmt.Fprintf(self.w, "%d:%d\t%-24s", token.Span.Start.Line, token.Span.Start.Column, token.Type); err != nil {
			return err
		}
		if token.Type != idl.TokenTypeNewline {
			if _, err := fmt.Fprintf(self.w, "'%s'", token.Value); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(self.w); err != nil {
			return err
		}
	}
	return nil
}

func (self *dumper) Tree(prog *ast.Program) error {
	if self == nil || !self.tree {
		return nil
	}
	self.lock.Lock()
	defer self.lock.Unlock()
	if _, err := fmt.Fprintf(self.w, "# %s (%s)\n", prog.File, prog.Level); err != nil {
		return err
	}
	return ast.Dump(self.w, prog)
}
