package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gecli",
	Short: "Drive the regex-to-quadruple compiler pipeline from the command line",
	Long: `gecli provides a command per pipeline stage:
- lex    tokenizes a source file against a lexical rule file.
- table  builds and prints an LR ACTION/GOTO table for a grammar.
- parse  parses a source file and prints its step trace and AST.
- ir     parses a source file and prints the quadruples emitted from it.
- repl   runs lex/parse/ir interactively, one line at a time.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var cfgFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to a gecli.toml config file (default grammar/rules/mode)")
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
