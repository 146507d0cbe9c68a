package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	opts := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:           "polyglot",
		Short:         "Parse programs written in the high, medium and low syntaxes",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.configureLogging()
		},
	}
	opts.bind(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newParseCmd(opts))
	rootCmd.AddCommand(newTokensCmd(opts))
	rootCmd.AddCommand(newGrammarCmd())
	rootCmd.AddCommand(newLspCmd(opts))
	rootCmd.AddCommand(newReplCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		printErrors(os.Stderr, err)
		os.Exit(1)
	}
}
