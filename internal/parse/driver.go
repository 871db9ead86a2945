package parse

import (
	"fmt"
	"strings"

	"github.com/JackWPP/Good-Enough-Compiler/internal/ast"
	"github.com/JackWPP/Good-Enough-Compiler/internal/grammar"
	"github.com/JackWPP/Good-Enough-Compiler/internal/icerr"
	"github.com/JackWPP/Good-Enough-Compiler/internal/lex"
)

// Step is one entry of the structured parse trace: a stack snapshot, the
// remaining input, and the action taken. ASTAction and ASTStackDepth
// track the step-by-step AST growth alongside the shift/reduce state.
type Step struct {
	Index          int
	StackStates    []int
	StackSymbols   []string
	RemainingInput string
	Action         string
	ASTStackDepth  int
	ASTAction      string
}

func (s Step) String() string {
	return fmt.Sprintf("%3d | %v | %v | %s | %s", s.Index, s.StackStates, s.StackSymbols, s.RemainingInput, s.Action)
}

// ParseErrorInfo is the diagnostic payload of a ParseError.
type ParseErrorInfo struct {
	Line       int
	Column     int
	Unexpected string
	Expected   []string
	Recovered  bool
	Outcome    string
}

func (e ParseErrorInfo) Error() string {
	status := "aborted"
	if e.Recovered {
		status = "recovered: " + e.Outcome
	}
	return fmt.Sprintf("%d:%d: unexpected %q, expected one of %v (%s)", e.Line, e.Column, e.Unexpected, e.Expected, status)
}

// Result is the outcome of a Parse call: the full step trace, plus
// either an AST root (Accepted) or a diagnostic list.
type Result struct {
	Trace       []Step
	AST         *ast.Node
	Accepted    bool
	Diagnostics []error
}

type frame struct {
	state  int
	symbol string
	node   *ast.Node
}

// TerminalSymbol maps a scanned lex.Token to the grammar terminal symbol
// the LR tables are keyed on. The lexer's Kind taxonomy
// (IDENTIFIER/LITERAL_INT/OPERATOR/...) is coarser than a grammar's
// terminal alphabet (id, num, +, if, ...), so keyword/operator/delimiter
// tokens match by lexeme while the literal classes match by a short
// lowercase mnemonic (id, num, str, char).
func TerminalSymbol(tok lex.Token) string {
	switch tok.Kind {
	case lex.KindEOF:
		return grammar.EndOfInput
	case lex.KindIdentifier:
		return "id"
	case lex.KindLiteralInt, lex.KindLiteralFloat:
		return "num"
	case lex.KindLiteralString:
		return "str"
	case lex.KindLiteralChar:
		return "char"
	default:
		return tok.Lexeme
	}
}

// Parse runs the table-driven shift/reduce loop with panic-mode recovery
// over tokens, which must already be filtered to non-trivia tokens and
// end with an EOF token. collapseChains controls whether the returned
// AST collapses single-child nonterminal chains.
func Parse(g *grammar.Grammar, table *Table, tokens []lex.Token, collapseChains bool) *Result {
	stack := []frame{{state: 0, symbol: grammar.EndOfInput, node: nil}}
	idx := 0
	stepNo := 0

	var trace []Step
	var diags []error

	snapshot := func(action, astAction string) Step {
		stepNo++
		states := make([]int, len(stack))
		symbols := make([]string, len(stack))
		for i, f := range stack {
			states[i] = f.state
			symbols[i] = f.symbol
		}
		return Step{
			Index:          stepNo,
			StackStates:    states,
			StackSymbols:   symbols,
			RemainingInput: remainingSummary(tokens[idx:]),
			Action:         action,
			ASTStackDepth:  len(stack),
			ASTAction:      astAction,
		}
	}

	for {
		top := stack[len(stack)-1]
		tok := tokens[idx]
		sym := TerminalSymbol(tok)
		act := table.Action(top.state, sym)

		switch act.Type {
		case Accept:
			trace = append(trace, snapshot("accept", ""))
			return &Result{Trace: trace, AST: finalize(top.node, collapseChains), Accepted: true, Diagnostics: diags}

		case Shift:
			node := ast.NewLeaf(string(tok.Kind), tok.Lexeme, tok.Line, tok.Column)
			step := snapshot(fmt.Sprintf("shift %d", act.State), fmt.Sprintf("push_terminal(%s)", sym))
			stack = append(stack, frame{state: act.State, symbol: sym, node: node})
			trace = append(trace, step)
			idx++

		case Reduce:
			p := g.Production(act.ProductionID)
			n := len(p.Body)
			children := make([]*ast.Node, n)
			for i := 0; i < n; i++ {
				children[n-1-i] = stack[len(stack)-1-i].node
			}
			stack = stack[:len(stack)-n]
			newTop := stack[len(stack)-1]

			gotoState, ok := table.Goto(newTop.state, p.Head)
			if !ok {
				diags = append(diags, icerr.Newf(icerr.StageInternal, "no GOTO entry for state %d, symbol %s after reducing by %s", newTop.state, p.Head, p))
				return &Result{Trace: trace, Accepted: false, Diagnostics: diags}
			}

			node := ast.NewInternal(p.Head, p.ID, children)
			step := snapshot(fmt.Sprintf("reduce %s", p), fmt.Sprintf("reduce_to(%s)", p.Head))
			stack = append(stack, frame{state: gotoState, symbol: p.Head, node: node})
			trace = append(trace, step)

		default: // Error
			expected := table.ExpectedTerminals(top.state)
			perr := &ParseErrorInfo{Line: tok.Line, Column: tok.Column, Unexpected: sym, Expected: expected}

			recovered, outcome := panicRecover(g, table, &stack, &idx, tokens)
			perr.Recovered = recovered
			perr.Outcome = outcome
			diags = append(diags, perr)

			step := snapshot("error: "+perr.Error(), "")
			trace = append(trace, step)

			if !recovered {
				return &Result{Trace: trace, Accepted: false, Diagnostics: diags}
			}
		}
	}
}

func finalize(root *ast.Node, collapseChains bool) *ast.Node {
	if collapseChains {
		return root.CollapseChains()
	}
	return root
}

// panicRecover implements panic-mode recovery: pop states until one has
// a GOTO entry for some nonterminal A, skip input until a token in
// FOLLOW(A) is found such that resuming there is actually actionable,
// then push the synchronized state with an error-placeholder AST node.
func panicRecover(g *grammar.Grammar, table *Table, stack *[]frame, idx *int, tokens []lex.Token) (bool, string) {
	for pop := 0; pop <= len(*stack)-1; pop++ {
		s := (*stack)[len(*stack)-1-pop].state

		for _, A := range table.GotoNonTerminals(s) {
			gotoState, ok := table.Goto(s, A)
			if !ok {
				continue
			}
			followA := g.Follow(A)

			for j := *idx; j < len(tokens); j++ {
				sym := TerminalSymbol(tokens[j])
				if !followA[sym] {
					continue
				}
				if table.Action(gotoState, sym).Type == Error {
					continue
				}

				*stack = (*stack)[:len(*stack)-pop]
				placeholder := ast.NewInternal(A, -1, nil)
				*stack = append(*stack, frame{state: gotoState, symbol: A, node: placeholder})
				skipped := j - *idx
				*idx = j
				return true, fmt.Sprintf("popped %d frame(s), skipped %d token(s), synchronized on %s before %q", pop, skipped, A, sym)
			}
		}
	}
	return false, "no synchronizing nonterminal found"
}

func remainingSummary(tokens []lex.Token) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind == lex.KindEOF {
			parts = append(parts, grammar.EndOfInput)
			break
		}
		parts = append(parts, TerminalSymbol(t))
	}
	return strings.Join(parts, " ")
}
