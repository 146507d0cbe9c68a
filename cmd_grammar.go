package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"gopkg.microglot.org/polyglot.go/internal/grammar"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

var allLevels = []idl.SyntaxLevel{idl.SyntaxLevelHigh, idl.SyntaxLevelMedium, idl.SyntaxLevelLow}

func newGrammarCmd() *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:           "grammar [high|medium|low]",
		Short:         "Print or verify the reference EBNF grammar of a syntax level",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			levels := allLevels
			if len(args) == 1 {
				level, ok := idl.ParseSyntaxLevel(args[0])
				if !ok {
					return fmt.Errorf("unknown syntax level %q", args[0])
				}
				levels = []idl.SyntaxLevel{level}
			}
			if verify {
				return verifyGrammars(cmd.OutOrStdout(), levels)
			}
			return printGrammars(cmd.OutOrStdout(), levels)
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "Check that every production is defined and reachable from Program.")

	return cmd
}

func printGrammars(w io.Writer, levels []idl.SyntaxLevel) error {
	for _, level := range levels {
		src, err := grammar.Source(level)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "// %s\n%s\n", level, src); err != nil {
			return err
		}
	}
	return nil
}

func verifyGrammars(w io.Writer, levels []idl.SyntaxLevel) error {
	var failed []error
	for _, level := range levels {
		if err := grammar.Verify(level); err != nil {
			printErrors(w, err)
			failed = append(failed, fmt.Errorf("%s grammar is invalid", level))
			continue
		}
		fmt.Fprintf(w, "%s: ok\n", level)
	}
	return errors.Join(failed...)
}
