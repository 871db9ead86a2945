package regexsyntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func kindString(k ElemKind) string {
	switch k {
	case Literal:
		return "lit"
	case Epsilon:
		return "eps"
	case Concat:
		return "."
	case Alt:
		return "|"
	case Star:
		return "*"
	}
	return "?"
}

// render turns a Postfix stream into a compact string for comparison,
// e.g. "a b . c * ." for the postfix of "(ab)c*".
func render(p Postfix) string {
	out := ""
	for i, e := range p {
		if i > 0 {
			out += " "
		}
		if e.Kind == Literal {
			out += string(e.Char)
		} else {
			out += kindString(e.Kind)
		}
	}
	return out
}

func Test_Parse(t *testing.T) {
	testCases := []struct {
		name    string
		pattern string
		expect  string
	}{
		{
			name:    "single literal",
			pattern: "a",
			expect:  "a",
		},
		{
			name:    "concatenation",
			pattern: "ab",
			expect:  "a b .",
		},
		{
			name:    "alternation",
			pattern: "a|b",
			expect:  "a b |",
		},
		{
			name:    "star",
			pattern: "a*",
			expect:  "a *",
		},
		{
			name:    "grouped alternation then concat",
			pattern: "a(b|c)*",
			expect:  "a b c | * .",
		},
		{
			name:    "plus sugar duplicates the atom",
			pattern: "a+",
			expect:  "a a * .",
		},
		{
			name:    "question sugar wraps in epsilon alternation",
			pattern: "a?",
			expect:  "a eps |",
		},
		{
			name:    "escaped metacharacter",
			pattern: `\(`,
			expect:  "(",
		},
		{
			name:    "escaped newline/tab",
			pattern: `\n\t`,
			expect:  "\n \t .",
		},
		{
			name:    "digit class expands to alternation",
			pattern: `\d`,
			expect:  "0 1 | 2 | 3 | 4 | 5 | 6 | 7 | 8 | 9 |",
		},
		{
			name:    "bracket class enumerates members",
			pattern: "[ab]",
			expect:  "a b |",
		},
		{
			name:    "bracket range expands",
			pattern: "[a-c]",
			expect:  "a b | c |",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			assert := assert.New(t)

			// execute
			actual, err := Parse(tc.pattern)

			// assert
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, render(actual))
		})
	}
}

func Test_Parse_errors(t *testing.T) {
	testCases := []struct {
		name    string
		pattern string
	}{
		{name: "unmatched open paren", pattern: "(a"},
		{name: "unmatched close paren", pattern: "a)"},
		{name: "dangling star", pattern: "*"},
		{name: "dangling plus", pattern: "+a"},
		{name: "dangling question", pattern: "?a"},
		{name: "dangling backslash", pattern: `a\`},
		{name: "unterminated class", pattern: "[abc"},
		{name: "empty class", pattern: "[]"},
		{name: "empty pattern", pattern: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			_, err := Parse(tc.pattern)
			assert.Error(err)
		})
	}
}
