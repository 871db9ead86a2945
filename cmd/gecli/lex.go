package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var lexFlags = struct {
	rules   *string
	source  *string
	trivia  *bool
	trace   *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "lex",
		Short:   "Tokenize a source file against a lexical rule file",
		Example: `  gecli lex --rules lang.rules --source main.src`,
		Args:    cobra.NoArgs,
		RunE:    runLex,
	}
	lexFlags.rules = cmd.Flags().StringP("rules", "r", "", "lexical rule file (one '<regex> <kind> <priority>' per line)")
	lexFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	lexFlags.trivia = cmd.Flags().Bool("keep-trivia", false, "include whitespace/newline/comment tokens in the output")
	lexFlags.trace = cmd.Flags().Bool("trace", false, "print scan trace lines to stderr as tokens are produced")
	rootCmd.AddCommand(cmd)
}

func runLex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}

	rulesPath := firstNonEmpty(*lexFlags.rules, cfg.Rules)
	if rulesPath == "" {
		return fmt.Errorf("no rule file given (use --rules or set 'rules' in --config)")
	}

	keepTrivia := boolFromFlagOrConfig(cmd, "keep-trivia", !cfg.FilterTrivia)
	l, err := buildLexer(rulesPath, !keepTrivia)
	if err != nil {
		return err
	}
	if *lexFlags.trace {
		l.RegisterTraceListener(func(msg string) {
			fmt.Fprintln(os.Stderr, msg)
		})
	}

	source, err := readSource(*lexFlags.source)
	if err != nil {
		return err
	}

	tokens, errs := l.Scan(source)
	for _, tok := range tokens {
		fmt.Println(tok.String())
	}
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d lex error(s)", len(errs))
	}
	return nil
}
