// Package regexsyntax implements the regex parser: it turns a rule's
// pattern string into a postfix operator stream that internal/automaton's
// Thompson construction folds over to build an NFA fragment.
package regexsyntax

import (
	"github.com/JackWPP/Good-Enough-Compiler/internal/icerr"
)

// ElemKind tags one entry of a postfix stream.
type ElemKind int

const (
	Literal ElemKind = iota // a single input character
	Epsilon                 // matches the empty string
	Concat                  // binary: pop B, A; push AB
	Alt                     // binary: pop B, A; push A|B
	Star                    // unary: pop A; push A*
)

// Elem is one symbol or operator in a postfix regex stream.
type Elem struct {
	Kind ElemKind
	Char rune // valid when Kind == Literal
}

func lit(r rune) Elem { return Elem{Kind: Literal, Char: r} }

// Postfix is the output of Parse: a postfix operator stream ready for
// Thompson construction.
type Postfix []Elem

// metacharacters of the rule-file pattern syntax; a backslash before any
// of them yields the literal character. Outside a class, '.', '-' and ']'
// are also read as literals without one.
const metaChars = `|*()\+?.[]-`

// Parse converts a rule's regex pattern into a postfix stream. pattern is
// assumed to be one line (a lexical rule occupies a single line), so all
// reported positions are columns.
func Parse(pattern string) (Postfix, error) {
	raw, err := expand([]rune(pattern))
	if err != nil {
		return nil, err
	}
	withConcat := insertConcat(raw)
	return toPostfix(withConcat)
}

// --- stage 1: escape / char-class / +?-sugar expansion -------------------

type rawKind int

const (
	rLiteral rawKind = iota
	rEpsilon
	rAlt
	rStar
	rLParen
	rRParen
)

type rawTok struct {
	kind rawKind
	ch   rune
}

// expand walks the raw pattern left to right, expanding escapes, character
// classes, and the +/? sugar into an equivalent token stream built purely
// from literals, ε, |, *, and parens — the primitives §4.1 defines
// directly.
func expand(src []rune) ([]rawTok, error) {
	var toks []rawTok
	lastAtomStart := -1 // index into toks where the most recent atom began

	markAtom := func(start int) { lastAtomStart = start }
	var groupStarts []int // toks index of each still-open '('

	i := 0
	for i < len(src) {
		c := src[i]
		switch c {
		case '(':
			groupStarts = append(groupStarts, len(toks))
			markAtom(len(toks))
			toks = append(toks, rawTok{kind: rLParen})
			i++
		case ')':
			if n := len(groupStarts); n > 0 {
				markAtom(groupStarts[n-1])
				groupStarts = groupStarts[:n-1]
			}
			toks = append(toks, rawTok{kind: rRParen})
			i++
		case '|':
			toks = append(toks, rawTok{kind: rAlt})
			i++
		case '*':
			if lastAtomStart < 0 {
				return nil, icerr.Atf(icerr.StageRegex, icerr.Pos{Column: i + 1}, "dangling '*' with no preceding atom")
			}
			toks = append(toks, rawTok{kind: rStar})
			i++
		case '+':
			if lastAtomStart < 0 {
				return nil, icerr.Atf(icerr.StageRegex, icerr.Pos{Column: i + 1}, "dangling '+' with no preceding atom")
			}
			// X+ ≡ X X* : duplicate the previous atom, star the copy.
			dup := append([]rawTok{}, toks[lastAtomStart:]...)
			newStart := len(toks)
			toks = append(toks, dup...)
			toks = append(toks, rawTok{kind: rStar})
			lastAtomStart = newStart
			i++
		case '?':
			if lastAtomStart < 0 {
				return nil, icerr.Atf(icerr.StageRegex, icerr.Pos{Column: i + 1}, "dangling '?' with no preceding atom")
			}
			// X? ≡ (X|ε)
			wrapped := make([]rawTok, 0, len(toks)-lastAtomStart+4)
			wrapped = append(wrapped, rawTok{kind: rLParen})
			wrapped = append(wrapped, toks[lastAtomStart:]...)
			wrapped = append(wrapped, rawTok{kind: rAlt}, rawTok{kind: rEpsilon}, rawTok{kind: rRParen})
			toks = append(toks[:lastAtomStart], wrapped...)
			i++
		case '[':
			start := len(toks)
			classToks, next, err := expandClass(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, classToks...)
			markAtom(start)
			i = next
		case '\\':
			if i+1 >= len(src) {
				return nil, icerr.Atf(icerr.StageRegex, icerr.Pos{Column: i + 1}, "dangling '\\' at end of pattern")
			}
			start := len(toks)
			escToks, err := expandEscape(src[i+1])
			if err != nil {
				return nil, err
			}
			toks = append(toks, escToks...)
			markAtom(start)
			i += 2
		default:
			markAtom(len(toks))
			toks = append(toks, rawTok{kind: rLiteral, ch: c})
			i++
		}
	}
	return toks, nil
}

// expandEscape expands a single escaped character: \n, \t, \d, \w, \s are
// classes/specials; any metacharacter escapes to itself; anything else
// also falls back to its literal value (permissive, since rule files
// commonly escape non-metacharacters too).
func expandEscape(c rune) ([]rawTok, error) {
	switch c {
	case 'n':
		return []rawTok{{kind: rLiteral, ch: '\n'}}, nil
	case 't':
		return []rawTok{{kind: rLiteral, ch: '\t'}}, nil
	case 'd':
		return alternationOf(digitRunes()), nil
	case 'w':
		return alternationOf(wordRunes()), nil
	case 's':
		return alternationOf([]rune{' ', '\t', '\n', '\r'}), nil
	default:
		return []rawTok{{kind: rLiteral, ch: c}}, nil
	}
}

// expandClass expands a [...] character class starting at src[open]=='[',
// returning the equivalent parenthesized-alternation token stream and the
// index just past the closing ']'.
func expandClass(src []rune, open int) ([]rawTok, int, error) {
	i := open + 1
	var runes []rune
	for i < len(src) && src[i] != ']' {
		if src[i] == '\\' && i+1 < len(src) {
			esc, err := expandEscape(src[i+1])
			if err != nil {
				return nil, 0, err
			}
			for _, t := range esc {
				if t.kind == rLiteral {
					runes = append(runes, t.ch)
				}
			}
			i += 2
			continue
		}
		// range a-z
		if i+2 < len(src) && src[i+1] == '-' && src[i+2] != ']' {
			lo, hi := src[i], src[i+2]
			if hi < lo {
				return nil, 0, icerr.Atf(icerr.StageRegex, icerr.Pos{Column: i + 1}, "invalid character range %c-%c", lo, hi)
			}
			for r := lo; r <= hi; r++ {
				runes = append(runes, r)
			}
			i += 3
			continue
		}
		runes = append(runes, src[i])
		i++
	}
	if i >= len(src) {
		return nil, 0, icerr.Atf(icerr.StageRegex, icerr.Pos{Column: open + 1}, "unterminated character class")
	}
	if len(runes) == 0 {
		return nil, 0, icerr.Atf(icerr.StageRegex, icerr.Pos{Column: open + 1}, "empty character class")
	}
	return alternationOf(runes), i + 1, nil
}

func alternationOf(runes []rune) []rawTok {
	toks := make([]rawTok, 0, len(runes)*2+1)
	toks = append(toks, rawTok{kind: rLParen})
	for idx, r := range runes {
		if idx > 0 {
			toks = append(toks, rawTok{kind: rAlt})
		}
		toks = append(toks, rawTok{kind: rLiteral, ch: r})
	}
	toks = append(toks, rawTok{kind: rRParen})
	return toks
}

func digitRunes() []rune {
	rs := make([]rune, 0, 10)
	for r := '0'; r <= '9'; r++ {
		rs = append(rs, r)
	}
	return rs
}

func wordRunes() []rune {
	rs := digitRunes()
	for r := 'a'; r <= 'z'; r++ {
		rs = append(rs, r)
	}
	for r := 'A'; r <= 'Z'; r++ {
		rs = append(rs, r)
	}
	rs = append(rs, '_')
	return rs
}

// --- stage 2: explicit concatenation insertion ----------------------------

func isAtomEnd(k rawKind) bool {
	return k == rLiteral || k == rEpsilon || k == rStar || k == rRParen
}

func isAtomStart(k rawKind) bool {
	return k == rLiteral || k == rEpsilon || k == rLParen
}

const rConcat rawKind = 100 // synthetic kind, never produced by expand()

func insertConcat(toks []rawTok) []rawTok {
	if len(toks) == 0 {
		return toks
	}
	out := make([]rawTok, 0, len(toks)*2)
	out = append(out, toks[0])
	for i := 1; i < len(toks); i++ {
		if isAtomEnd(toks[i-1].kind) && isAtomStart(toks[i].kind) {
			out = append(out, rawTok{kind: rConcat})
		}
		out = append(out, toks[i])
	}
	return out
}

// --- stage 3: shunting-yard to postfix ------------------------------------

func precedence(k rawKind) int {
	switch k {
	case rAlt:
		return 1
	case rConcat:
		return 2
	case rStar:
		return 3
	}
	return 0
}

func toPostfix(toks []rawTok) (Postfix, error) {
	var output Postfix
	var opStack []rawTok

	pop := func() rawTok {
		top := opStack[len(opStack)-1]
		opStack = opStack[:len(opStack)-1]
		return top
	}

	emit := func(t rawTok) {
		switch t.kind {
		case rAlt:
			output = append(output, Elem{Kind: Alt})
		case rConcat:
			output = append(output, Elem{Kind: Concat})
		case rStar:
			output = append(output, Elem{Kind: Star})
		}
	}

	for idx, t := range toks {
		switch t.kind {
		case rLiteral:
			output = append(output, lit(t.ch))
		case rEpsilon:
			output = append(output, Elem{Kind: Epsilon})
		case rLParen:
			opStack = append(opStack, t)
		case rRParen:
			matched := false
			for len(opStack) > 0 {
				top := pop()
				if top.kind == rLParen {
					matched = true
					break
				}
				emit(top)
			}
			if !matched {
				return nil, icerr.Atf(icerr.StageRegex, icerr.Pos{Column: idx + 1}, "unmatched ')'")
			}
		case rAlt, rConcat:
			for len(opStack) > 0 {
				top := opStack[len(opStack)-1]
				if top.kind == rLParen {
					break
				}
				if precedence(top.kind) >= precedence(t.kind) {
					emit(pop())
					continue
				}
				break
			}
			opStack = append(opStack, t)
		case rStar:
			// postfix unary, binds immediately to what's already in output
			output = append(output, Elem{Kind: Star})
		}
	}

	for len(opStack) > 0 {
		top := pop()
		if top.kind == rLParen {
			return nil, icerr.New(icerr.StageRegex, "unmatched '('")
		}
		emit(top)
	}

	if len(output) == 0 {
		return nil, icerr.New(icerr.StageRegex, "empty regex")
	}

	return output, nil
}
