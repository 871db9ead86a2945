package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JackWPP/Good-Enough-Compiler"
)

var irFlags = struct {
	grammar  *string
	rules    *string
	source   *string
	mode     *string
	collapse *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "ir",
		Short:   "Parse a source file and print the quadruples emitted from it",
		Example: `  gecli ir --grammar stmt.grammar --rules stmt.rules --source main.src`,
		Args:    cobra.NoArgs,
		RunE:    runIR,
	}
	irFlags.grammar = cmd.Flags().StringP("grammar", "g", "", "grammar file")
	irFlags.rules = cmd.Flags().StringP("rules", "r", "", "lexical rule file")
	irFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	irFlags.mode = cmd.Flags().String("mode", "", "table construction: slr1 (default) or lr1")
	irFlags.collapse = cmd.Flags().Bool("collapse-chains", true, "collapse single-child nonterminal chains in the AST before emission")
	rootCmd.AddCommand(cmd)
}

func runIR(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}

	grammarPath := firstNonEmpty(*irFlags.grammar, cfg.Grammar)
	rulesPath := firstNonEmpty(*irFlags.rules, cfg.Rules)
	if grammarPath == "" || rulesPath == "" {
		return fmt.Errorf("both a grammar file (--grammar) and a rule file (--rules) are required")
	}

	g, err := buildGrammar(grammarPath)
	if err != nil {
		return err
	}
	l, err := buildLexer(rulesPath, cfg.FilterTrivia)
	if err != nil {
		return err
	}
	source, err := readSource(*irFlags.source)
	if err != nil {
		return err
	}

	mode := tableMode(firstNonEmpty(*irFlags.mode, cfg.Mode))
	t := buildTable(g, mode)
	printConflicts(t)

	collapse := boolFromFlagOrConfig(cmd, "collapse-chains", cfg.CollapseChains)
	res, err := gec.Compile(source, l, g, t, collapse, nil)
	for _, e := range res.LexErrs {
		fmt.Fprintln(os.Stderr, e.Error())
	}
	if res.Parse != nil {
		for _, d := range res.Parse.Diagnostics {
			fmt.Fprintln(os.Stderr, d.Error())
		}
	}
	if err != nil {
		if res.Parse == nil || !res.Parse.Accepted {
			return fmt.Errorf("parse did not accept the input")
		}
		return fmt.Errorf("emission failed: %w", err)
	}
	fmt.Print(res.Program.String())
	return nil
}
