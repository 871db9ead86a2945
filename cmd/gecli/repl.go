package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/JackWPP/Good-Enough-Compiler"
	"github.com/JackWPP/Good-Enough-Compiler/internal/grammar"
	"github.com/JackWPP/Good-Enough-Compiler/internal/lex"
	"github.com/JackWPP/Good-Enough-Compiler/internal/parse"
)

var replFlags = struct {
	grammar *string
	rules   *string
	mode    *string
	stage   *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "repl",
		Short:   "Run the pipeline interactively, one line of input at a time",
		Example: `  gecli repl --grammar expr.grammar --rules expr.rules --stage ir`,
		Args:    cobra.NoArgs,
		RunE:    runRepl,
	}
	replFlags.grammar = cmd.Flags().StringP("grammar", "g", "", "grammar file")
	replFlags.rules = cmd.Flags().StringP("rules", "r", "", "lexical rule file")
	replFlags.mode = cmd.Flags().String("mode", "", "table construction: slr1 (default) or lr1")
	replFlags.stage = cmd.Flags().String("stage", "ir", "pipeline stage to print per line: lex, parse, or ir")
	rootCmd.AddCommand(cmd)
}

// runRepl uses a readline.Instance to own history and line editing; the
// loop exits cleanly on io.EOF.
func runRepl(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}

	grammarPath := firstNonEmpty(*replFlags.grammar, cfg.Grammar)
	rulesPath := firstNonEmpty(*replFlags.rules, cfg.Rules)
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
	mode := tableMode(firstNonEmpty(*replFlags.mode, cfg.Mode))
	t := buildTable(g, mode)
	printConflicts(t)

	rl, err := readline.NewEx(&readline.Config{Prompt: "gec> "})
	if err != nil {
		return fmt.Errorf("create readline session: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		runReplLine(g, t, l, line, *replFlags.stage)
	}
}

// runReplLine runs one line through lex, and optionally parse/ir,
// printing whichever stage was requested to stdout and any diagnostics
// to stderr.
func runReplLine(g *grammar.Grammar, t *parse.Table, l *lex.Lexer, line, stage string) {
	if stage == "lex" {
		tokens, lexErrs := l.Scan(line)
		for _, e := range lexErrs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		for _, tok := range tokens {
			fmt.Println(tok.String())
		}
		return
	}

	res, err := gec.Compile(line, l, g, t, true, nil)
	for _, e := range res.LexErrs {
		fmt.Fprintln(os.Stderr, e.Error())
	}
	for _, d := range res.Parse.Diagnostics {
		fmt.Fprintln(os.Stderr, d.Error())
	}
	if !res.Parse.Accepted {
		fmt.Fprintln(os.Stderr, "parse did not accept the input")
		return
	}
	if stage == "parse" {
		fmt.Println(gec.Tree(res))
		return
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return
	}
	fmt.Print(res.Program.String())
}
