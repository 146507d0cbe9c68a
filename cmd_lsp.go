package main

import (
	"github.com/spf13/cobra"

	"gopkg.microglot.org/polyglot.go/internal/lsp"
)

func newLspCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "lsp",
		Short:         "Run a language server over stdio",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := global.parserOptions()
			if err != nil {
				return err
			}
			return lsp.NewServer(version, opts...).RunStdio()
		},
	}
}
