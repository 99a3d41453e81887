package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var opts grammarOptions

	cmd := &cobra.Command{
		Use:   "scan <grammar.ebnf> <file>",
		Short: "Find all non-overlapping matches of a grammar in a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := opts.load(args[0])
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			matches, err := g.Matches(string(data))
			if err != nil {
				return fmt.Errorf("scan: %w", err)
			}

			for _, m := range matches.Items {
				fmt.Printf("%d\t%s\t%q\n", m.Start, m.Name, m.Text())
			}
			fmt.Printf("%d match(es)\n", matches.Len())
			return nil
		},
	}

	opts.register(cmd)

	return cmd
}
