package parse

import (
	"fmt"
	"sort"
)

// ConflictReport is one human-readable line of the "why isn't this
// SLR(1)/LR(1)" diagnostic: which productions collided and on which
// lookahead, grouped by state, rather than just a conflict count.
type ConflictReport struct {
	State       int
	Symbol      string
	Kind        ConflictKind
	Description string
}

// BuildReport renders t's recorded conflicts as a sorted, human-readable
// report.
func BuildReport(t *Table) []ConflictReport {
	out := make([]ConflictReport, 0, len(t.conflicts))
	for _, c := range t.conflicts {
		out = append(out, ConflictReport{
			State:  c.State,
			Symbol: c.Symbol,
			Kind:   c.Kind,
			Description: fmt.Sprintf(
				"state %d, lookahead %q: %s conflict between %s and %s (kept %s)",
				c.State, c.Symbol, c.Kind, c.Kept, c.Rejected, c.Kept,
			),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].State != out[j].State {
			return out[i].State < out[j].State
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}
