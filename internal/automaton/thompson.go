package automaton

import (
	"github.com/JackWPP/Good-Enough-Compiler/internal/icerr"
	"github.com/JackWPP/Good-Enough-Compiler/internal/regexsyntax"
)

// fragment is an NFA fragment with exactly one start and one accept state.
type fragment struct {
	start, accept State
}

// BuildFragment folds a postfix regex stream into a single NFA fragment
// inside n, following the Thompson construction rules. n's accept-label
// map is left untouched — labeling happens once the fragment is folded
// into the combined lexer NFA by CombineRules.
func BuildFragment[E any](n *NFA[E], postfix regexsyntax.Postfix) (fragment, error) {
	var stack []fragment

	pop := func() (fragment, error) {
		if len(stack) == 0 {
			return fragment{}, icerr.New(icerr.StageRegex, "malformed postfix stream: operator with no operand")
		}
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return f, nil
	}

	for _, elem := range postfix {
		switch elem.Kind {
		case regexsyntax.Literal:
			s, f := n.newState(), n.newState()
			n.addTrans(s, elem.Char, f)
			stack = append(stack, fragment{start: s, accept: f})

		case regexsyntax.Epsilon:
			s, f := n.newState(), n.newState()
			n.addEps(s, f)
			stack = append(stack, fragment{start: s, accept: f})

		case regexsyntax.Concat:
			b, err := pop()
			if err != nil {
				return fragment{}, err
			}
			a, err := pop()
			if err != nil {
				return fragment{}, err
			}
			n.addEps(a.accept, b.start)
			stack = append(stack, fragment{start: a.start, accept: b.accept})

		case regexsyntax.Alt:
			b, err := pop()
			if err != nil {
				return fragment{}, err
			}
			a, err := pop()
			if err != nil {
				return fragment{}, err
			}
			s, f := n.newState(), n.newState()
			n.addEps(s, a.start)
			n.addEps(s, b.start)
			n.addEps(a.accept, f)
			n.addEps(b.accept, f)
			stack = append(stack, fragment{start: s, accept: f})

		case regexsyntax.Star:
			a, err := pop()
			if err != nil {
				return fragment{}, err
			}
			s, f := n.newState(), n.newState()
			n.addEps(s, a.start)
			n.addEps(s, f)
			n.addEps(a.accept, a.start)
			n.addEps(a.accept, f)
			stack = append(stack, fragment{start: s, accept: f})

		default:
			return fragment{}, icerr.New(icerr.StageRegex, "unknown postfix element kind")
		}
	}

	if len(stack) != 1 {
		return fragment{}, icerr.New(icerr.StageRegex, "malformed postfix stream: leftover operands")
	}
	return stack[0], nil
}

// RuleFragment is one lexical rule's compiled fragment plus the label to
// attach to its accept state once merged into the combined lexer NFA.
type RuleFragment[E any] struct {
	Postfix regexsyntax.Postfix
	Label   E
}

// CombineRules builds the combined lexer NFA: a fresh start state with
// ε-edges to each rule's fragment start, with each rule's own accept
// state labeled with that rule's token-kind and priority.
func CombineRules[E any](rules []RuleFragment[E]) (*NFA[E], error) {
	n := newNFA[E]()
	n.Start = n.newState()

	for _, rule := range rules {
		f, err := BuildFragment(n, rule.Postfix)
		if err != nil {
			return nil, err
		}
		n.addEps(n.Start, f.start)
		n.accept[f.accept] = rule.Label
		n.isAccept[f.accept] = true
	}

	return n, nil
}
