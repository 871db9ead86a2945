package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JackWPP/Good-Enough-Compiler"
)

var parseFlags = struct {
	grammar  *string
	rules    *string
	source   *string
	mode     *string
	collapse *bool
	trace    *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse",
		Short:   "Parse a source file and print its step trace and AST",
		Example: `  gecli parse --grammar expr.grammar --rules expr.rules --source main.src`,
		Args:    cobra.NoArgs,
		RunE:    runParse,
	}
	parseFlags.grammar = cmd.Flags().StringP("grammar", "g", "", "grammar file")
	parseFlags.rules = cmd.Flags().StringP("rules", "r", "", "lexical rule file")
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.mode = cmd.Flags().String("mode", "", "table construction: slr1 (default) or lr1")
	parseFlags.collapse = cmd.Flags().Bool("collapse-chains", true, "collapse single-child nonterminal chains in the AST")
	parseFlags.trace = cmd.Flags().Bool("trace", false, "print the shift/reduce step trace")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}

	grammarPath := firstNonEmpty(*parseFlags.grammar, cfg.Grammar)
	rulesPath := firstNonEmpty(*parseFlags.rules, cfg.Rules)
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
	source, err := readSource(*parseFlags.source)
	if err != nil {
		return err
	}

	mode := tableMode(firstNonEmpty(*parseFlags.mode, cfg.Mode))
	t := buildTable(g, mode)
	printConflicts(t)

	collapse := boolFromFlagOrConfig(cmd, "collapse-chains", cfg.CollapseChains)
	res, _ := gec.Compile(source, l, g, t, collapse, nil)
	for _, e := range res.LexErrs {
		fmt.Fprintln(os.Stderr, e.Error())
	}

	result := res.Parse
	if *parseFlags.trace {
		for _, step := range result.Trace {
			fmt.Fprintln(os.Stderr, step.String())
		}
	}
	for _, d := range result.Diagnostics {
		fmt.Fprintln(os.Stderr, d.Error())
	}

	if !result.Accepted {
		return fmt.Errorf("parse did not accept the input")
	}
	fmt.Println(gec.Tree(res))
	return nil
}
