package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"gopkg.microglot.org/polyglot.go/internal/compiler"
	"gopkg.microglot.org/polyglot.go/internal/compiler/polyglot"
	"gopkg.microglot.org/polyglot.go/internal/exc"
	"gopkg.microglot.org/polyglot.go/internal/fs"
	"gopkg.microglot.org/polyglot.go/internal/idl"
	"gopkg.microglot.org/polyglot.go/internal/iter"
	"gopkg.microglot.org/polyglot.go/internal/target"
)

type tokensOptions struct {
	Output string
}

func newTokensCmd(global *globalOptions) *cobra.Command {
	opts := &tokensOptions{}
	cmd := &cobra.Command{
		Use:           "tokens <target>...",
		Short:         "Lex source files into JSON token streams",
		Long:          "Lex every .pg target. The JSON written is the .pgtok format and can be parsed again with the parse command.",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := global.fileSystem(os.LookupEnv)
			if err != nil {
				return err
			}
			var outFS idl.FileSystem
			if opts.Output != "" && opts.Output != "-" {
				if outFS, err = fs.NewFileSystemLocal(opts.Output); err != nil {
					return err
				}
			}
			return runTokens(cmd.Context(), files, outFS, args, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.Output, "output", "-", "Output directory for .pgtok files or - for STDOUT.")
	return cmd
}

// runTokens lexes each target. With outFS set every stream is written next
// to its source path with a .pgtok extension, otherwise to out.
func runTokens(ctx context.Context, files idl.FileSystem, outFS idl.FileSystem, targets []string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	reporter := exc.NewReporter(nil)
	lexer := polyglot.NewLexerPolyglot(reporter)
	for _, t := range targets {
		uri := target.Normalize(t)
		opened, err := files.Open(ctx, uri)
		if err != nil {
			return err
		}
		for _, f := range opened {
			if f.Kind(ctx) != idl.FileKindPolyglot {
				continue
			}
			tokens, err := lexAll(ctx, lexer, f)
			if err != nil {
				return err
			}
			if outFS == nil {
				if err := compiler.EncodeTokens(out, tokens); err != nil {
					return err
				}
				continue
			}
			var b bytes.Buffer
			if err := compiler.EncodeTokens(&b, tokens); err != nil {
				return err
			}
			if err := outFS.Write(ctx, tokensPath(f.Path(ctx)), b.String()); err != nil {
				return err
			}
		}
	}
	if reported := reporter.Reported(); len(reported) > 0 {
		exc.Sort(reported)
		return compiler.MultiException(reported)
	}
	return nil
}

func lexAll(ctx context.Context, lexer idl.Lexer, f idl.File) ([]*idl.Token, error) {
	lf, err := lexer.Lex(ctx, f)
	if err != nil {
		return nil, err
	}
	it, err := lf.Tokens(ctx)
	if err != nil {
		return nil, err
	}
	return iter.Collect(ctx, it)
}

func tokensPath(p string) string {
	return strings.TrimSuffix(p, path.Ext(p)) + ".pgtok"
}
