package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/pegmatch/ebnf"
	"github.com/dhamidi/pegmatch/peg"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pegmatch",
		Short: "Match text against PEG grammars",
	}

	rootCmd.AddCommand(newMatchCmd())
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type grammarOptions struct {
	start      string
	separator  string
	terminals  []string
	noOptimize bool
}

func (o *grammarOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.start, "start", "s", "", "start production (required)")
	cmd.Flags().StringVar(&o.separator, "separator", "", "production used as default separator between sequence items")
	cmd.Flags().StringSliceVar(&o.terminals, "terminals", nil, "productions silenced from match trees and error output")
	cmd.Flags().BoolVar(&o.noOptimize, "no-optimize", false, "disable structural optimization passes")
	cmd.MarkFlagRequired("start")
}

func (o *grammarOptions) load(path string) (*peg.Grammar, error) {
	g, err := ebnf.CompileFile(path, o.start)
	if err != nil {
		return nil, fmt.Errorf("load grammar: %w", err)
	}
	if o.separator != "" {
		sep := g.FindNode(o.separator)
		if sep == nil {
			return nil, fmt.Errorf("separator production %q not found in grammar", o.separator)
		}
		g.Separator = sep
	}
	if len(o.terminals) > 0 {
		g.SetTerminals(o.terminals...)
	}
	if o.noOptimize {
		g.Optimizations = 0
	}
	return g, nil
}
