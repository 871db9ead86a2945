// Package gec is the front door over the pipeline's internal packages:
// given rules and a grammar, it wires a Lexer, an LR table, the
// shift/reduce driver, and the IR emitter together the way a caller who
// just wants to compile some source, rather than assemble the stages by
// hand, would expect.
package gec

import (
	"github.com/JackWPP/Good-Enough-Compiler/internal/grammar"
	"github.com/JackWPP/Good-Enough-Compiler/internal/icerr"
	"github.com/JackWPP/Good-Enough-Compiler/internal/ir"
	"github.com/JackWPP/Good-Enough-Compiler/internal/lex"
	"github.com/JackWPP/Good-Enough-Compiler/internal/parse"
)

// TableMode selects which LR construction BuildTable uses.
type TableMode string

const (
	SLR1 TableMode = "SLR(1)"
	LR1  TableMode = "LR(1)"
)

// NewLexer compiles rules into a ready-to-scan Lexer. It is a thin
// rename of lex.New kept here so callers only need to import gec for the
// common path; RegisterTraceListener, ParseRules and the rest of
// package lex remain directly reachable for callers that need them.
func NewLexer(rules []lex.Rule, filterTrivia bool) (*lex.Lexer, error) {
	return lex.New(rules, filterTrivia)
}

// LoadGrammar parses and augments grammar text.
func LoadGrammar(text string) (*grammar.Grammar, error) {
	return grammar.Load(text)
}

// BuildTable constructs an LR ACTION/GOTO table for g under mode. Build
// failure (as opposed to a recorded, non-fatal conflict — see
// parse.Table.Conflicts) is not possible here: both constructions always
// produce a table, resolving collisions rather than erroring out.
func BuildTable(g *grammar.Grammar, mode TableMode) *parse.Table {
	switch mode {
	case LR1:
		return parse.BuildLR1(g)
	default:
		return parse.BuildSLR1(g)
	}
}

// Result is one source text's full trip through the pipeline.
type Result struct {
	Tokens   []lex.Token
	LexErrs  []lex.LexError
	Parse    *parse.Result
	Program  *ir.Program
	ASTError error
}

// Compile runs Scan -> Parse -> Emit over source, using l and table,
// stopping short of IR emission if parsing didn't accept. resolver may
// be nil, which selects ir.Identity.
func Compile(source string, l *lex.Lexer, g *grammar.Grammar, table *parse.Table, collapseChains bool, resolver ir.SymbolResolver) (*Result, error) {
	tokens, lexErrs := l.Scan(source)

	pr := parse.Parse(g, table, tokens, collapseChains)
	res := &Result{Tokens: tokens, LexErrs: lexErrs, Parse: pr}
	if !pr.Accepted {
		return res, icerr.New(icerr.StageParse, "parse did not accept input")
	}

	prog, err := ir.Emit(pr.AST, resolver)
	if err != nil {
		res.ASTError = err
		return res, err
	}
	res.Program = prog
	return res, nil
}

// Tree renders the accepted parse's AST as an ASCII box-drawing tree, or
// "" if nothing was accepted.
func Tree(r *Result) string {
	if r == nil || r.Parse == nil || r.Parse.AST == nil {
		return ""
	}
	return r.Parse.AST.String()
}
