package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/pegmatch/format"
)

func newMatchCmd() *cobra.Command {
	var opts grammarOptions
	var outputFormat string
	var partial bool
	var trace bool

	cmd := &cobra.Command{
		Use:   "match <grammar.ebnf> <file>",
		Short: "Match a file against a grammar and dump the match tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := opts.load(args[0])
			if err != nil {
				return err
			}
			g.AllowPartial = partial
			if trace {
				commonlog.Configure(2, nil)
				g.Trace = true
			}

			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			result, err := g.Match(string(data))
			if err != nil {
				return fmt.Errorf("match: %w", err)
			}

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewJSONEncoder(os.Stdout)
			case "tree":
				encoder = format.NewTreeEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			if err := encoder.Encode(result); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			fmt.Println()

			if !result.Success() {
				return fmt.Errorf("no match: %s", result.ErrorMessage())
			}
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (json, tree)")
	cmd.Flags().BoolVar(&partial, "partial", false, "accept matches that do not consume the whole input")
	cmd.Flags().BoolVar(&trace, "trace", false, "log rule entry and exit while matching")

	return cmd
}
