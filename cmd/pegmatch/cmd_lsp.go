package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/pegmatch/langserver"
)

func newLSPCmd() *cobra.Command {
	var opts grammarOptions

	cmd := &cobra.Command{
		Use:   "lsp <grammar.ebnf>",
		Short: "Start a language server that reports parse errors for open documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := opts.load(args[0])
			if err != nil {
				return err
			}
			server := langserver.New(g, "0.1.0")
			return server.RunStdio()
		},
	}

	opts.register(cmd)

	return cmd
}
