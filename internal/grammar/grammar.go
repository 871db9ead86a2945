// Package grammar implements the grammar loader, plus the Grammar
// type's FIRST/FOLLOW computation and the LR item types its automaton
// is built from.
package grammar

import (
	"bufio"
	"sort"
	"strings"

	"github.com/JackWPP/Good-Enough-Compiler/internal/icerr"
	"github.com/JackWPP/Good-Enough-Compiler/internal/util"
)

// Epsilon denotes the empty string on a production's right-hand side and
// in FIRST sets. EndOfInput (⊣) is the LR sentinel appended to every
// token stream and used as the top-level FOLLOW element for the start
// symbol.
const (
	Epsilon    = "ε"
	EndOfInput = "⊣"
)

// Production is (lhs, rhs, id). An empty Body denotes an ε-production.
type Production struct {
	ID   int
	Head string
	Body []string
}

func (p Production) IsEpsilon() bool { return len(p.Body) == 0 }

func (p Production) String() string {
	if p.IsEpsilon() {
		return p.Head + " -> " + Epsilon
	}
	return p.Head + " -> " + strings.Join(p.Body, " ")
}

// Grammar is a context-free grammar over string symbols, augmented with a
// fresh start production S' -> S at load time.
type Grammar struct {
	Start          string
	AugmentedStart string
	Productions    []Production

	nonterminals util.StringSet
	terminals    util.StringSet
	byHead       map[string][]int

	first  map[string]util.StringSet
	follow map[string]util.StringSet
}

// New builds an (unaugmented) grammar from productions supplied directly,
// for embedded test grammars and programmatic construction. start is the
// designated start symbol. Augment must be called before FIRST/FOLLOW or
// LR construction.
func New(start string, productions []Production) *Grammar {
	g := &Grammar{Start: start}
	g.nonterminals = util.NewStringSet()
	for _, p := range productions {
		g.nonterminals.Add(p.Head)
	}
	g.terminals = util.NewStringSet()
	for _, p := range productions {
		for _, sym := range p.Body {
			if !g.nonterminals.Has(sym) {
				g.terminals.Add(sym)
			}
		}
	}
	g.Productions = productions
	g.reindexByHead()
	return g
}

func (g *Grammar) reindexByHead() {
	g.byHead = map[string][]int{}
	for i, p := range g.Productions {
		g.byHead[p.Head] = append(g.byHead[p.Head], i)
	}
}

// Augment adds the fresh production S' -> S at index 0. Safe to call
// once; a no-op if already augmented.
func (g *Grammar) Augment() *Grammar {
	if g.AugmentedStart != "" {
		return g
	}
	aug := g.Start + "'"
	for g.nonterminals.Has(aug) {
		aug += "'"
	}
	g.AugmentedStart = aug
	g.nonterminals.Add(aug)

	augProd := Production{ID: 0, Head: aug, Body: []string{g.Start}}
	shifted := make([]Production, 0, len(g.Productions)+1)
	shifted = append(shifted, augProd)
	for _, p := range g.Productions {
		p.ID++
		shifted = append(shifted, p)
	}
	g.Productions = shifted
	g.reindexByHead()
	return g
}

func (g *Grammar) IsTerminal(sym string) bool {
	if sym == EndOfInput || sym == Epsilon {
		return true
	}
	return !g.nonterminals.Has(sym)
}

func (g *Grammar) IsNonTerminal(sym string) bool { return g.nonterminals.Has(sym) }

// NonTerminals returns all nonterminal symbols, sorted, augmented start
// first if present.
func (g *Grammar) NonTerminals() []string {
	out := g.nonterminals.Elements()
	sort.Slice(out, func(i, j int) bool {
		if out[i] == g.AugmentedStart {
			return true
		}
		if out[j] == g.AugmentedStart {
			return false
		}
		return out[i] < out[j]
	})
	return out
}

// Terminals returns all terminal symbols (excluding ε), sorted, with ⊣
// last.
func (g *Grammar) Terminals() []string {
	out := g.terminals.Elements()
	sort.Strings(out)
	out = append(out, EndOfInput)
	return out
}

// Rule returns the productions headed by sym, in declaration order.
func (g *Grammar) Rule(sym string) []Production {
	idxs := g.byHead[sym]
	out := make([]Production, len(idxs))
	for i, idx := range idxs {
		out[i] = g.Productions[idx]
	}
	return out
}

func (g *Grammar) Production(id int) Production {
	for _, p := range g.Productions {
		if p.ID == id {
			return p
		}
	}
	panic("grammar: no such production id")
}

// Validate checks every rhs symbol is either a known terminal or a known
// nonterminal ("undeclared symbol on rhs"). It cannot fire in practice
// for New/Load (both derive terminals as "everything else"), but matters
// once external callers build a Grammar by hand.
func (g *Grammar) Validate() error {
	if g.Start == "" {
		return icerr.New(icerr.StageGrammar, "grammar has no start symbol")
	}
	for _, p := range g.Productions {
		for _, sym := range p.Body {
			if sym == Epsilon {
				continue
			}
			if !g.nonterminals.Has(sym) && !g.terminals.Has(sym) {
				return icerr.Newf(icerr.StageGrammar, "production %s: undeclared symbol %q", p, sym)
			}
		}
	}
	return nil
}

// Load parses grammar text: lines `LHS → rhs1 | rhs2 | ... | rhsN`,
// whitespace-separated rhs symbols, ε (or an empty rhs) denoting the
// empty production, '#'-prefixed comment lines. The first LHS
// encountered is the start symbol. Accepts both '→' and '->' as the
// production arrow for typing convenience.
func Load(text string) (*Grammar, error) {
	var productions []Production
	nextID := 0
	start := ""

	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		arrow := "→"
		if !strings.Contains(line, arrow) {
			arrow = "->"
		}
		parts := strings.SplitN(line, arrow, 2)
		if len(parts) != 2 {
			return nil, icerr.Atf(icerr.StageGrammar, icerr.Pos{Line: lineNo}, "malformed production line, expected 'LHS -> rhs'")
		}
		head := strings.TrimSpace(parts[0])
		if head == "" {
			return nil, icerr.Atf(icerr.StageGrammar, icerr.Pos{Line: lineNo}, "missing left-hand side")
		}
		if start == "" {
			start = head
		}

		for _, alt := range strings.Split(parts[1], "|") {
			alt = strings.TrimSpace(alt)
			var body []string
			if alt != "" && alt != Epsilon {
				body = strings.Fields(alt)
			}
			productions = append(productions, Production{ID: nextID, Head: head, Body: body})
			nextID++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, icerr.Wrap(icerr.StageGrammar, "failed reading grammar text", err)
	}
	if start == "" {
		return nil, icerr.New(icerr.StageGrammar, "grammar has no productions")
	}

	g := New(start, productions)
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g.Augment(), nil
}
