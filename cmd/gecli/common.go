package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/JackWPP/Good-Enough-Compiler"
	"github.com/JackWPP/Good-Enough-Compiler/internal/grammar"
	"github.com/JackWPP/Good-Enough-Compiler/internal/lex"
	"github.com/JackWPP/Good-Enough-Compiler/internal/parse"
)

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", path, err)
	}
	return string(data), nil
}

func readSource(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := os.ReadFile("/dev/stdin")
		if err != nil {
			return "", fmt.Errorf("cannot read source from stdin: %w", err)
		}
		return string(data), nil
	}
	return readFile(path)
}

func buildLexer(rulesPath string, filterTrivia bool) (*lex.Lexer, error) {
	text, err := readFile(rulesPath)
	if err != nil {
		return nil, err
	}
	rules, err := lex.ParseRules(text)
	if err != nil {
		return nil, fmt.Errorf("cannot parse rule file %s: %w", rulesPath, err)
	}
	return gec.NewLexer(rules, filterTrivia)
}

func buildGrammar(grammarPath string) (*grammar.Grammar, error) {
	text, err := readFile(grammarPath)
	if err != nil {
		return nil, err
	}
	g, err := gec.LoadGrammar(text)
	if err != nil {
		return nil, fmt.Errorf("cannot parse grammar file %s: %w", grammarPath, err)
	}
	return g, nil
}

func buildTable(g *grammar.Grammar, mode gec.TableMode) *parse.Table {
	return gec.BuildTable(g, mode)
}

func tableMode(s string) gec.TableMode {
	switch s {
	case "lr1", "LR1", "LR(1)":
		return gec.LR1
	default:
		return gec.SLR1
	}
}

// boolFromFlagOrConfig resolves a boolean setting that can come from either
// a command-line flag or a gecli.toml default: the flag only wins when the
// user actually typed it, so a config-file "false" isn't clobbered by a
// flag's own zero-value default. Mirrors tqserver's main.go, which checks
// pflag.Lookup("listen").Changed before letting a flag override a config
// value.
func boolFromFlagOrConfig(cmd *cobra.Command, name string, cfgVal bool) bool {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		return cfgVal
	}
	if !f.Changed {
		return cfgVal
	}
	var fl *pflag.Flag = f
	v, err := strconv.ParseBool(fl.Value.String())
	if err != nil {
		return cfgVal
	}
	return v
}

func printConflicts(t *parse.Table) {
	if t.IsConflictFree() {
		return
	}
	reports := parse.BuildReport(t)
	fmt.Fprintf(os.Stderr, "%d conflict(s) in %s table:\n", len(reports), t.Mode)
	for _, r := range reports {
		fmt.Fprintf(os.Stderr, "  %s\n", r.Description)
	}
}
