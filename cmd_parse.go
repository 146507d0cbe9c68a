package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gopkg.microglot.org/polyglot.go/internal/ast"
	"gopkg.microglot.org/polyglot.go/internal/compiler"
)

const (
	formatTree    = "tree"
	formatMedium  = "medium"
	formatSymbols = "symbols"
	formatNone    = "none"
)

type parseOptions struct {
	Format     string
	DumpTokens bool
}

func newParseCmd(global *globalOptions) *cobra.Command {
	opts := &parseOptions{}
	cmd := &cobra.Command{
		Use:   "parse <target>...",
		Short: "Parse files or directories and print the result",
		Long: `Parse every target and print each program.

Formats:
  tree     indented outline of the syntax tree
  medium   the program rewritten in medium syntax
  symbols  the declarations of each file
  none     report problems only`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.Context(), global, opts, args, os.LookupEnv, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.Format, "format", formatTree, "Output format: tree, medium, symbols or none.")
	cmd.Flags().BoolVar(&opts.DumpTokens, "dump-tokens", false, "Output the token stream as it is processed.")
	return cmd
}

func runParse(ctx context.Context, global *globalOptions, opts *parseOptions, targets []string, lookup func(string) (string, bool), out io.Writer) error {
	switch opts.Format {
	case formatTree, formatMedium, formatSymbols, formatNone:
	default:
		return fmt.Errorf("unknown format %q", opts.Format)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := global.newCompiler(lookup, out)
	if err != nil {
		return err
	}
	resp, err := c.Compile(ctx, &compiler.CompileRequest{
		Files:      targets,
		DumpTokens: opts.DumpTokens,
		DumpTree:   opts.Format == formatTree,
	})
	var me compiler.MultiException
	if err != nil && !errors.As(err, &me) {
		return err
	}
	if resp != nil {
		if werr := writePrograms(out, opts.Format, resp); werr != nil {
			return werr
		}
	}
	return err
}

func writePrograms(w io.Writer, format string, resp *compiler.CompileResponse) error {
	for _, prog := range resp.Programs {
		switch format {
		case formatMedium:
			if _, err := fmt.Fprintf(w, "// %s\n%s", prog.File, ast.Format(prog)); err != nil {
				return err
			}
		case formatSymbols:
			if _, err := fmt.Fprintf(w, "# %s\n", prog.File); err != nil {
				return err
			}
			if err := writeSymbols(w, resp.Symbols.File(prog.File), 0); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeSymbols(w io.Writer, syms []*compiler.Symbol, depth int) error {
	for _, sym := range syms {
		line := fmt.Sprintf("%s%s %s", strings.Repeat("  ", depth), sym.Kind, sym.Name)
		if sym.Detail != "" {
			line += " " + sym.Detail
		}
		p := sym.Node.Pos()
		if _, err := fmt.Fprintf(w, "%s @%d:%d\n", line, p.Line, p.Column); err != nil {
			return err
		}
		if err := writeSymbols(w, sym.Children, depth+1); err != nil {
			return err
		}
	}
	return nil
}
