package parse

import (
	"fmt"
	"sort"

	"github.com/dekarrin/rosed"

	"github.com/JackWPP/Good-Enough-Compiler/internal/grammar"
)

// Table is an ACTION/GOTO table produced by either BuildSLR1 or
// BuildLR1. Conflicts encountered during construction are recorded, not
// fatal: the conflict list itself is a diagnostic product, not a build
// failure.
type Table struct {
	Mode      string // "SLR(1)" or "LR(1)"
	g         *grammar.Grammar
	NumStates int
	action    map[int]map[string]LRAction
	gotoT     map[int]map[string]int
	conflicts []Conflict
}

func newTable(mode string, g *grammar.Grammar, n int) *Table {
	return &Table{
		Mode:      mode,
		g:         g,
		NumStates: n,
		action:    map[int]map[string]LRAction{},
		gotoT:     map[int]map[string]int{},
	}
}

// Action returns the ACTION-table entry for (state, terminal), defaulting
// to Error if none was set.
func (t *Table) Action(state int, terminal string) LRAction {
	row := t.action[state]
	if row == nil {
		return LRAction{Type: Error}
	}
	a, ok := row[terminal]
	if !ok {
		return LRAction{Type: Error}
	}
	return a
}

// Goto returns the GOTO-table entry for (state, nonterminal).
func (t *Table) Goto(state int, nonterminal string) (int, bool) {
	row := t.gotoT[state]
	if row == nil {
		return 0, false
	}
	s, ok := row[nonterminal]
	return s, ok
}

func (t *Table) setGoto(state int, symbol string, to int) {
	if t.gotoT[state] == nil {
		t.gotoT[state] = map[string]int{}
	}
	t.gotoT[state][symbol] = to
}

// setAction installs action at (state, symbol), resolving any collision:
// shift wins over reduce in a shift-reduce conflict; the lower-numbered
// production wins in a reduce-reduce conflict. Either way the losing
// entry is recorded as a Conflict, not discarded silently.
func (t *Table) setAction(state int, symbol string, action LRAction) {
	if t.action[state] == nil {
		t.action[state] = map[string]LRAction{}
	}
	existing, had := t.action[state][symbol]
	if !had || existing.Equal(action) {
		t.action[state][symbol] = action
		return
	}

	kind := ReduceReduce
	keep := action
	reject := existing
	switch {
	case existing.Type == Shift && action.Type == Reduce:
		kind = ShiftReduce
		keep, reject = existing, action
	case existing.Type == Reduce && action.Type == Shift:
		kind = ShiftReduce
		keep, reject = action, existing
	case existing.Type == Reduce && action.Type == Reduce:
		kind = ReduceReduce
		if existing.ProductionID <= action.ProductionID {
			keep, reject = existing, action
		} else {
			keep, reject = action, existing
		}
	default:
		// accept/shift, accept/reduce or any other pairing not matched
		// above: keep the existing entry and still surface it as a
		// reduce-reduce-shaped diagnostic so it isn't silently
		// swallowed.
		keep, reject = existing, action
	}

	t.conflicts = append(t.conflicts, Conflict{State: state, Symbol: symbol, Kind: kind, Kept: keep, Rejected: reject})
	t.action[state][symbol] = keep
}

func (t *Table) IsConflictFree() bool { return len(t.conflicts) == 0 }
func (t *Table) Conflicts() []Conflict { return t.conflicts }

// GotoNonTerminals returns the nonterminals with a defined GOTO entry
// from state, sorted for deterministic iteration during panic-mode
// recovery.
func (t *Table) GotoNonTerminals(state int) []string {
	row := t.gotoT[state]
	out := make([]string, 0, len(row))
	for nt := range row {
		out = append(out, nt)
	}
	sort.Strings(out)
	return out
}

// ExpectedTerminals returns the terminals with a non-error ACTION entry
// in state, sorted — the "expected" set a ParseError reports.
func (t *Table) ExpectedTerminals(state int) []string {
	row := t.action[state]
	out := make([]string, 0, len(row))
	for term := range row {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

// BuildSLR1 constructs the LR(0) item-set automaton and an SLR(1)
// ACTION/GOTO table over it. A conflict is recorded rather than
// returned as a build error.
func BuildSLR1(g *grammar.Grammar) *Table {
	automaton := buildLR0Automaton(g)
	t := newTable("SLR(1)", g, len(automaton.states))

	for state, items := range automaton.states {
		for _, it := range items {
			p := g.Production(it.ProductionID)

			if it.AtEnd(g) {
				if p.Head == g.AugmentedStart {
					t.setAction(state, grammar.EndOfInput, LRAction{Type: Accept})
					continue
				}
				for la := range g.Follow(p.Head) {
					t.setAction(state, la, LRAction{Type: Reduce, ProductionID: p.ID})
				}
				continue
			}

			sym, _ := it.NextSymbol(g)
			to, ok := automaton.trans[state][sym]
			if !ok {
				continue
			}
			if g.IsTerminal(sym) {
				t.setAction(state, sym, LRAction{Type: Shift, State: to})
			} else {
				t.setGoto(state, sym, to)
			}
		}
	}

	return t
}

// BuildLR1 constructs the canonical LR(1) item-set automaton and its
// ACTION/GOTO table, with the same conflict-recording approach as
// BuildSLR1.
func BuildLR1(g *grammar.Grammar) *Table {
	automaton := buildLR1Automaton(g)
	t := newTable("LR(1)", g, len(automaton.states))

	for state, items := range automaton.states {
		for _, it := range items {
			p := g.Production(it.ProductionID)

			if it.AtEnd(g) {
				if p.Head == g.AugmentedStart && it.Lookahead == grammar.EndOfInput {
					t.setAction(state, grammar.EndOfInput, LRAction{Type: Accept})
					continue
				}
				t.setAction(state, it.Lookahead, LRAction{Type: Reduce, ProductionID: p.ID})
				continue
			}

			sym, _ := it.NextSymbol(g)
			to, ok := automaton.trans[state][sym]
			if !ok {
				continue
			}
			if g.IsTerminal(sym) {
				t.setAction(state, sym, LRAction{Type: Shift, State: to})
			} else {
				t.setGoto(state, sym, to)
			}
		}
	}

	return t
}

// String renders the ACTION/GOTO table as a header-row-plus-data-rows
// grid handed to rosed.
func (t *Table) String() string {
	terms := make([]string, 0)
	for _, term := range t.g.Terminals() {
		terms = append(terms, term)
	}
	nts := t.g.NonTerminals()

	headers := []string{"state", "|"}
	headers = append(headers, terms...)
	headers = append(headers, "|")
	headers = append(headers, nts...)

	data := [][]string{headers}
	for s := 0; s < t.NumStates; s++ {
		row := []string{fmt.Sprintf("%d", s), "|"}
		for _, term := range terms {
			row = append(row, t.Action(s, term).String())
		}
		row = append(row, "|")
		for _, nt := range nts {
			cell := ""
			if to, ok := t.Goto(s, nt); ok {
				cell = fmt.Sprintf("%d", to)
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 12, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
