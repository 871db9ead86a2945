package automaton

import (
	"fmt"
	"sort"
)

// Minimize runs partition refinement: start with one block per
// (acceptance, label) group, then repeatedly split any block whose
// members disagree on the block-id of δ(·, a) for some symbol a, until a
// fixed point is reached. labelKey distinguishes accept labels that must
// never be merged (e.g. two rules with different token kinds);
// non-accepting states all start in one block.
//
// This uses the naive O(|Q|²·|Σ|) repeated block-splitting approach
// rather than Hopcroft's work-list refinement.
func (d *DFA[E]) Minimize(labelKey func(E) string) *DFA[E] {
	alphabet := d.Alphabet()
	states := d.States()

	blockOf := map[State]int{}
	initial := map[string]int{}
	nextBlock := 0
	for _, s := range states {
		var key string
		if d.isAccept[s] {
			key = "A:" + labelKey(d.accept[s])
		} else {
			key = "N"
		}
		id, ok := initial[key]
		if !ok {
			id = nextBlock
			nextBlock++
			initial[key] = id
		}
		blockOf[s] = id
	}

	for {
		signature := func(s State) string {
			sig := fmt.Sprintf("%d|", blockOf[s])
			for _, c := range alphabet {
				to, ok := d.Next(s, c)
				if !ok {
					sig += "-1,"
					continue
				}
				sig += fmt.Sprintf("%d,", blockOf[to])
			}
			return sig
		}

		byBlock := map[int][]State{}
		for _, s := range states {
			byBlock[blockOf[s]] = append(byBlock[blockOf[s]], s)
		}

		newBlockOf := map[State]int{}
		nextID := 0
		changed := false

		blockIDs := make([]int, 0, len(byBlock))
		for id := range byBlock {
			blockIDs = append(blockIDs, id)
		}
		sort.Ints(blockIDs)

		for _, id := range blockIDs {
			members := byBlock[id]
			sigToNew := map[string]int{}
			sigOrder := []string{}
			for _, s := range members {
				sig := signature(s)
				if _, ok := sigToNew[sig]; !ok {
					sigToNew[sig] = 0
					sigOrder = append(sigOrder, sig)
				}
			}
			sort.Strings(sigOrder)
			localID := map[string]int{}
			for _, sig := range sigOrder {
				localID[sig] = nextID
				nextID++
			}
			if len(sigOrder) > 1 {
				changed = true
			}
			for _, s := range members {
				newBlockOf[s] = localID[signature(s)]
			}
		}

		blockOf = newBlockOf
		if !changed {
			break
		}
	}

	return d.buildFromPartition(blockOf, alphabet)
}

func (d *DFA[E]) buildFromPartition(blockOf map[State]int, alphabet []rune) *DFA[E] {
	min := newDFA[E]()

	blockToMin := map[int]State{}
	blocks := map[int][]State{}
	for s, b := range blockOf {
		blocks[b] = append(blocks[b], s)
	}

	ids := make([]int, 0, len(blocks))
	for id := range blocks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		blockToMin[id] = min.newState()
	}

	min.Start = blockToMin[blockOf[d.Start]]

	for _, id := range ids {
		rep := blocks[id][0]
		minState := blockToMin[id]
		if d.isAccept[rep] {
			min.accept[minState] = d.accept[rep]
			min.isAccept[minState] = true
		}
		for _, c := range alphabet {
			to, ok := d.Next(rep, c)
			if !ok {
				continue
			}
			min.setTrans(minState, c, blockToMin[blockOf[to]])
		}
	}

	return min
}
