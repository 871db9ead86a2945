package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tableFlags = struct {
	grammar *string
	mode    *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "table",
		Short:   "Build and print an LR ACTION/GOTO table for a grammar",
		Example: `  gecli table --grammar expr.grammar --mode lr1`,
		Args:    cobra.NoArgs,
		RunE:    runTable,
	}
	tableFlags.grammar = cmd.Flags().StringP("grammar", "g", "", "grammar file (LHS -> rhs1 | rhs2 lines)")
	tableFlags.mode = cmd.Flags().String("mode", "", "table construction: slr1 (default) or lr1")
	rootCmd.AddCommand(cmd)
}

func runTable(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}

	grammarPath := firstNonEmpty(*tableFlags.grammar, cfg.Grammar)
	if grammarPath == "" {
		return fmt.Errorf("no grammar file given (use --grammar or set 'grammar' in --config)")
	}

	g, err := buildGrammar(grammarPath)
	if err != nil {
		return err
	}

	mode := tableMode(firstNonEmpty(*tableFlags.mode, cfg.Mode))
	t := buildTable(g, mode)

	fmt.Println(t.String())
	printConflicts(t)
	return nil
}
