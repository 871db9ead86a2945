package automaton

import (
	"fmt"
	"sort"
)

// Better reports whether candidate should replace current as the label of
// a DFA state whose NFA subset contains both candidates' accept states.
// The DFA/lexer package supplies the concrete comparison (e.g. highest
// priority, tie-broken by lowest rule index); automaton stays agnostic to
// what E actually is.
type Better[E any] func(candidate, current E) bool

func subsetKey(states []State) string {
	sorted := append([]State{}, states...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	key := ""
	for i, s := range sorted {
		if i > 0 {
			key += ","
		}
		key += fmt.Sprintf("%d", s)
	}
	return key
}

func setToSlice(set map[State]bool) []State {
	out := make([]State, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ToDFA runs subset construction: each DFA state is an ε-closed subset of
// NFA states, canonicalized by subsetKey so that equal subsets map to the
// same DFA state id.
func (n *NFA[E]) ToDFA(better Better[E]) *DFA[E] {
	d := newDFA[E]()

	stateOf := map[string]State{}
	subsets := map[State][]State{}

	startClosure := setToSlice(n.EpsilonClosure([]State{n.Start}))
	startKey := subsetKey(startClosure)

	d.Start = d.newState()
	stateOf[startKey] = d.Start
	subsets[d.Start] = startClosure
	labelSubset(n, d, d.Start, startClosure, better)

	queue := []State{d.Start}
	alphabet := n.Alphabet()

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		subset := subsets[cur]
		subsetBool := map[State]bool{}
		for _, s := range subset {
			subsetBool[s] = true
		}

		for _, c := range alphabet {
			moved := n.Move(subsetBool, c)
			if len(moved) == 0 {
				continue
			}
			closureBool := n.EpsilonClosure(moved)
			closure := setToSlice(closureBool)
			key := subsetKey(closure)

			to, exists := stateOf[key]
			if !exists {
				to = d.newState()
				stateOf[key] = to
				subsets[to] = closure
				labelSubset(n, d, to, closure, better)
				queue = append(queue, to)
			}
			d.setTrans(cur, c, to)
		}
	}

	return d
}

func (d *DFA[E]) newState() State {
	s := State(d.numStates)
	d.numStates++
	return s
}

// labelSubset finds the winning accept label (if any) among the NFA
// states in subset and records it on DFA state s.
func labelSubset[E any](n *NFA[E], d *DFA[E], s State, subset []State, better Better[E]) {
	var current E
	found := false
	for _, nfaState := range subset {
		label, ok := n.accept[nfaState]
		if !ok {
			continue
		}
		if !found || better(label, current) {
			current = label
			found = true
		}
	}
	if found {
		d.accept[s] = current
		d.isAccept[s] = true
	}
}
