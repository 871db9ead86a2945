package grammar

import "fmt"

// LR0Item is (production-id, dot-position).
type LR0Item struct {
	ProductionID int
	Dot          int
}

func (it LR0Item) String(g *Grammar) string {
	p := g.Production(it.ProductionID)
	syms := append([]string{}, p.Body...)
	out := p.Head + " -> "
	for i := 0; i <= len(syms); i++ {
		if i == it.Dot {
			out += "."
		}
		if i < len(syms) {
			out += syms[i] + " "
		}
	}
	return out
}

// NextSymbol returns the symbol right after the dot, and whether one
// exists (false at the end of the production).
func (it LR0Item) NextSymbol(g *Grammar) (string, bool) {
	p := g.Production(it.ProductionID)
	if it.Dot >= len(p.Body) {
		return "", false
	}
	return p.Body[it.Dot], true
}

// Advance returns the item with its dot moved one position right.
func (it LR0Item) Advance() LR0Item {
	return LR0Item{ProductionID: it.ProductionID, Dot: it.Dot + 1}
}

// AtEnd reports whether the dot has reached the end of the production's
// body (a candidate reduce item).
func (it LR0Item) AtEnd(g *Grammar) bool {
	return it.Dot >= len(g.Production(it.ProductionID).Body)
}

func (it LR0Item) key() string {
	return fmt.Sprintf("%d.%d", it.ProductionID, it.Dot)
}

// LR1Item extends LR0Item with a single-terminal lookahead.
type LR1Item struct {
	LR0Item
	Lookahead string
}

func (it LR1Item) Advance() LR1Item {
	return LR1Item{LR0Item: it.LR0Item.Advance(), Lookahead: it.Lookahead}
}

func (it LR1Item) key() string {
	return it.LR0Item.key() + "," + it.Lookahead
}

func (it LR1Item) String(g *Grammar) string {
	return it.LR0Item.String(g) + ", " + it.Lookahead
}
