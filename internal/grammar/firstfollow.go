package grammar

import "github.com/JackWPP/Good-Enough-Compiler/internal/util"

// First returns FIRST(sym): {sym} for a terminal, the fixed-point union
// over sym's productions' right-hand sides otherwise. Computed and
// cached on first call to any of First/Follow/FirstOfSequence.
func (g *Grammar) First(sym string) util.StringSet {
	g.ensureFirstFollow()
	return copySet(g.first[sym])
}

// Follow returns FOLLOW(nt).
func (g *Grammar) Follow(nt string) util.StringSet {
	g.ensureFirstFollow()
	return copySet(g.follow[nt])
}

// FirstOfSequence computes FIRST(Y1...Yn): FIRST(Y1) unioned with
// FIRST(Y2...Yn) if ε ∈ FIRST(Y1), and so on; FIRST(empty) = {ε}.
func (g *Grammar) FirstOfSequence(seq []string) util.StringSet {
	g.ensureFirstFollow()
	return g.firstOfSequenceRaw(seq)
}

func (g *Grammar) firstOfSequenceRaw(seq []string) util.StringSet {
	result := util.NewStringSet()
	if len(seq) == 0 {
		result.Add(Epsilon)
		return result
	}
	allNullable := true
	for _, sym := range seq {
		fi := g.first[sym]
		for _, t := range fi.Elements() {
			if t != Epsilon {
				result.Add(t)
			}
		}
		if !fi.Has(Epsilon) {
			allNullable = false
			break
		}
	}
	if allNullable {
		result.Add(Epsilon)
	}
	return result
}

func copySet(s util.StringSet) util.StringSet {
	return s.Copy()
}

func (g *Grammar) ensureFirstFollow() {
	if g.first != nil {
		return
	}
	g.computeFirst()
	g.computeFollow()
}

func (g *Grammar) computeFirst() {
	first := map[string]util.StringSet{}

	for _, t := range g.terminals.Elements() {
		first[t] = util.NewStringSet([]string{t})
	}
	first[EndOfInput] = util.NewStringSet([]string{EndOfInput})
	for _, nt := range g.nonterminals.Elements() {
		first[nt] = util.NewStringSet()
	}
	g.first = first

	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions {
			before := g.first[p.Head].Len()
			seqFirst := g.firstOfSequenceRaw(p.Body)
			g.first[p.Head].AddAll(seqFirst)
			if g.first[p.Head].Len() != before {
				changed = true
			}
		}
	}
}

func (g *Grammar) computeFollow() {
	follow := map[string]util.StringSet{}
	for _, nt := range g.nonterminals.Elements() {
		follow[nt] = util.NewStringSet()
	}
	start := g.AugmentedStart
	if start == "" {
		start = g.Start
	}
	follow[start].Add(EndOfInput)
	g.follow = follow

	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions {
			for i, sym := range p.Body {
				if !g.nonterminals.Has(sym) {
					continue
				}
				beta := p.Body[i+1:]
				betaFirst := g.firstOfSequenceRaw(beta)

				before := g.follow[sym].Len()
				for _, t := range betaFirst.Elements() {
					if t != Epsilon {
						g.follow[sym].Add(t)
					}
				}
				if betaFirst.Has(Epsilon) {
					for _, t := range g.follow[p.Head].Elements() {
						g.follow[sym].Add(t)
					}
				}
				if g.follow[sym].Len() != before {
					changed = true
				}
			}
		}
	}
}
