package parse

import (
	"fmt"
	"sort"

	"github.com/JackWPP/Good-Enough-Compiler/internal/grammar"
	"github.com/JackWPP/Good-Enough-Compiler/internal/util"
)

func closureLR0(g *grammar.Grammar, items []grammar.LR0Item) []grammar.LR0Item {
	seen := util.NewBSet[grammar.LR0Item]()
	var out []grammar.LR0Item
	worklist := util.NewStack(items...)
	for _, it := range items {
		seen.Add(it.String(g), it)
	}
	for !worklist.Empty() {
		it := worklist.Pop()
		out = append(out, it)

		sym, ok := it.NextSymbol(g)
		if !ok || !g.IsNonTerminal(sym) {
			continue
		}
		for _, p := range g.Rule(sym) {
			cand := grammar.LR0Item{ProductionID: p.ID, Dot: 0}
			if seen.Add(cand.String(g), cand) {
				worklist.Push(cand)
			}
		}
	}
	sortLR0(out)
	return out
}

func gotoLR0(g *grammar.Grammar, items []grammar.LR0Item, sym string) []grammar.LR0Item {
	var moved []grammar.LR0Item
	for _, it := range items {
		next, ok := it.NextSymbol(g)
		if ok && next == sym {
			moved = append(moved, it.Advance())
		}
	}
	if len(moved) == 0 {
		return nil
	}
	return closureLR0(g, moved)
}

func sortLR0(items []grammar.LR0Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].ProductionID != items[j].ProductionID {
			return items[i].ProductionID < items[j].ProductionID
		}
		return items[i].Dot < items[j].Dot
	})
}

func keyOfLR0Set(items []grammar.LR0Item) string {
	sorted := append([]grammar.LR0Item{}, items...)
	sortLR0(sorted)
	s := ""
	for i, it := range sorted {
		if i > 0 {
			s += "|"
		}
		s += fmt.Sprintf("%d.%d", it.ProductionID, it.Dot)
	}
	return s
}

// lr0Automaton is the canonicalized LR(0) item-set automaton: states
// numbered by first-discovery order, transitions keyed by (state,
// symbol).
type lr0Automaton struct {
	states []([]grammar.LR0Item)
	trans  map[int]map[string]int
}

func buildLR0Automaton(g *grammar.Grammar) *lr0Automaton {
	a := &lr0Automaton{trans: map[int]map[string]int{}}
	stateOf := map[string]int{}

	start := closureLR0(g, []grammar.LR0Item{{ProductionID: 0, Dot: 0}})
	startKey := keyOfLR0Set(start)
	stateOf[startKey] = 0
	a.states = append(a.states, start)

	symbols := allSymbols(g)

	queue := []int{0}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, sym := range symbols {
			moved := gotoLR0(g, a.states[s], sym)
			if len(moved) == 0 {
				continue
			}
			key := keyOfLR0Set(moved)
			to, exists := stateOf[key]
			if !exists {
				to = len(a.states)
				stateOf[key] = to
				a.states = append(a.states, moved)
				queue = append(queue, to)
			}
			if a.trans[s] == nil {
				a.trans[s] = map[string]int{}
			}
			a.trans[s][sym] = to
		}
	}
	return a
}

func allSymbols(g *grammar.Grammar) []string {
	syms := append([]string{}, g.NonTerminals()...)
	for _, t := range g.Terminals() {
		if t == grammar.EndOfInput {
			continue
		}
		syms = append(syms, t)
	}
	return syms
}

// --- LR(1) ------------------------------------------------------------

func closureLR1(g *grammar.Grammar, items []grammar.LR1Item) []grammar.LR1Item {
	seen := util.NewBSet[grammar.LR1Item]()
	var out []grammar.LR1Item
	worklist := util.NewStack(items...)
	for _, it := range items {
		seen.Add(it.LR0Item.String(g)+it.Lookahead, it)
	}

	for !worklist.Empty() {
		it := worklist.Pop()
		out = append(out, it)

		sym, ok := it.NextSymbol(g)
		if !ok || !g.IsNonTerminal(sym) {
			continue
		}
		p := g.Production(it.ProductionID)
		beta := append([]string{}, p.Body[it.Dot+1:]...)
		lookaheads := g.FirstOfSequence(append(beta, it.Lookahead))

		for _, prod := range g.Rule(sym) {
			for la := range lookaheads {
				if la == grammar.Epsilon {
					continue
				}
				cand := grammar.LR1Item{LR0Item: grammar.LR0Item{ProductionID: prod.ID, Dot: 0}, Lookahead: la}
				sig := cand.LR0Item.String(g) + cand.Lookahead
				if seen.Add(sig, cand) {
					worklist.Push(cand)
				}
			}
		}
	}
	sortLR1(out)
	return out
}

func gotoLR1(g *grammar.Grammar, items []grammar.LR1Item, sym string) []grammar.LR1Item {
	var moved []grammar.LR1Item
	for _, it := range items {
		next, ok := it.NextSymbol(g)
		if ok && next == sym {
			moved = append(moved, it.Advance())
		}
	}
	if len(moved) == 0 {
		return nil
	}
	return closureLR1(g, moved)
}

func sortLR1(items []grammar.LR1Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].ProductionID != items[j].ProductionID {
			return items[i].ProductionID < items[j].ProductionID
		}
		if items[i].Dot != items[j].Dot {
			return items[i].Dot < items[j].Dot
		}
		return items[i].Lookahead < items[j].Lookahead
	})
}

func keyOfLR1Set(items []grammar.LR1Item) string {
	sorted := append([]grammar.LR1Item{}, items...)
	sortLR1(sorted)
	s := ""
	for i, it := range sorted {
		if i > 0 {
			s += "|"
		}
		s += fmt.Sprintf("%d.%d,%s", it.ProductionID, it.Dot, it.Lookahead)
	}
	return s
}

type lr1Automaton struct {
	states []([]grammar.LR1Item)
	trans  map[int]map[string]int
}

func buildLR1Automaton(g *grammar.Grammar) *lr1Automaton {
	a := &lr1Automaton{trans: map[int]map[string]int{}}
	stateOf := map[string]int{}

	start := closureLR1(g, []grammar.LR1Item{{LR0Item: grammar.LR0Item{ProductionID: 0, Dot: 0}, Lookahead: grammar.EndOfInput}})
	startKey := keyOfLR1Set(start)
	stateOf[startKey] = 0
	a.states = append(a.states, start)

	symbols := allSymbols(g)

	queue := []int{0}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, sym := range symbols {
			moved := gotoLR1(g, a.states[s], sym)
			if len(moved) == 0 {
				continue
			}
			key := keyOfLR1Set(moved)
			to, exists := stateOf[key]
			if !exists {
				to = len(a.states)
				stateOf[key] = to
				a.states = append(a.states, moved)
				queue = append(queue, to)
			}
			if a.trans[s] == nil {
				a.trans[s] = map[string]int{}
			}
			a.trans[s][sym] = to
		}
	}
	return a
}
