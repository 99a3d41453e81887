package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/pegmatch/peg"
)

func newCheckCmd() *cobra.Command {
	var opts grammarOptions

	cmd := &cobra.Command{
		Use:   "check <grammar.ebnf>",
		Short: "Compile a grammar and report its structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := opts.load(args[0])
			if err != nil {
				return err
			}
			before := countNodes(g)
			g.Initialize()
			after := countNodes(g)
			fmt.Printf("grammar %q: %d nodes, %d after optimization\n", g.Name(), before, after)
			return nil
		},
	}

	opts.register(cmd)

	return cmd
}

func countNodes(g *peg.Grammar) int {
	return len(peg.Descendants(g)) + 1
}
