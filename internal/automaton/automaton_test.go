package automaton

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JackWPP/Good-Enough-Compiler/internal/regexsyntax"
)

// label is the test accept-label type: a token kind plus a priority and a
// rule index, mirroring internal/lex's acceptLabel without importing it
// (automaton must stay independent of any concrete lexer package).
type label struct {
	Kind      string
	Priority  int
	RuleIndex int
}

func better(candidate, current label) bool {
	if candidate.Priority != current.Priority {
		return candidate.Priority > current.Priority
	}
	return candidate.RuleIndex < current.RuleIndex
}

func labelKeyFn(l label) string { return l.Kind }

func buildDFAFromRules(t *testing.T, patterns []string, kind string) *DFA[label] {
	t.Helper()
	var rules []RuleFragment[label]
	for i, p := range patterns {
		pf, err := regexsyntax.Parse(p)
		if err != nil {
			t.Fatalf("pattern %q: %v", p, err)
		}
		rules = append(rules, RuleFragment[label]{Postfix: pf, Label: label{Kind: kind, Priority: 1, RuleIndex: i}})
	}
	nfa, err := CombineRules(rules)
	if err != nil {
		t.Fatalf("CombineRules: %v", err)
	}
	return nfa.ToDFA(better)
}

// accepts runs the DFA over input from its start state, returning whether
// an accept state is reached after consuming the whole input.
func accepts(d *DFA[label], input string) bool {
	s := d.Start
	for _, r := range input {
		next, ok := d.Next(s, r)
		if !ok {
			return false
		}
		s = next
	}
	return d.IsAccepting(s)
}

func Test_ToDFA_acceptsLanguage(t *testing.T) {
	testCases := []struct {
		name    string
		pattern string
		accept  []string
		reject  []string
	}{
		{
			name:    "a followed by any run of b and c",
			pattern: "a(b|c)*",
			accept:  []string{"a", "ab", "abcbc", "ac", "accccb"},
			reject:  []string{"", "b", "ba", "abcbca!"},
		},
		{
			name:    "plus sugar",
			pattern: "a+",
			accept:  []string{"a", "aa", "aaa"},
			reject:  []string{"", "b"},
		},
		{
			name:    "question sugar",
			pattern: "ab?c",
			accept:  []string{"ac", "abc"},
			reject:  []string{"ab", "abbc"},
		},
		{
			name:    "alternation of literals",
			pattern: "cat|dog",
			accept:  []string{"cat", "dog"},
			reject:  []string{"ca", "do", "catdog"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			dfa := buildDFAFromRules(t, []string{tc.pattern}, "T")

			for _, in := range tc.accept {
				assert.Truef(accepts(dfa, in), "expected %q to be accepted", in)
			}
			for _, in := range tc.reject {
				assert.Falsef(accepts(dfa, in), "expected %q to be rejected", in)
			}
		})
	}
}

func Test_ToDFA_priorityAndRuleIndexTiebreak(t *testing.T) {
	assert := assert.New(t)

	// "if" matches both a KEYWORD rule (priority 10) and an IDENTIFIER
	// rule (priority 5, declared second) - keyword must win on priority.
	kwPf, err := regexsyntax.Parse("if")
	assert.NoError(err)
	idPf, err := regexsyntax.Parse("[a-z]+")
	assert.NoError(err)

	rules := []RuleFragment[label]{
		{Postfix: kwPf, Label: label{Kind: "KEYWORD", Priority: 10, RuleIndex: 0}},
		{Postfix: idPf, Label: label{Kind: "IDENTIFIER", Priority: 5, RuleIndex: 1}},
	}
	nfa, err := CombineRules(rules)
	assert.NoError(err)
	dfa := nfa.ToDFA(better)

	s := dfa.Start
	var final State
	for _, r := range "if" {
		next, ok := dfa.Next(s, r)
		assert.True(ok)
		s = next
	}
	final = s
	lbl, ok := dfa.Label(final)
	assert.True(ok)
	assert.Equal("KEYWORD", lbl.Kind)
}

func Test_Minimize_preservesLanguageAndShrinks(t *testing.T) {
	assert := assert.New(t)

	dfa := buildDFAFromRules(t, []string{"a(b|c)*"}, "T")
	before := dfa.NumStates()
	min := dfa.Minimize(labelKeyFn)

	for _, in := range []string{"a", "ab", "abcbc", "accccb"} {
		assert.True(accepts(min, in), "minimized DFA should still accept %q", in)
	}
	for _, in := range []string{"", "b", "ba"} {
		assert.False(accepts(min, in), "minimized DFA should still reject %q", in)
	}
	assert.LessOrEqual(min.NumStates(), before)
}

func Test_Minimize_noTwoStatesEquivalent(t *testing.T) {
	assert := assert.New(t)

	dfa := buildDFAFromRules(t, []string{"(a|b)*abb"}, "T")
	min := dfa.Minimize(labelKeyFn)

	// Brute-force equivalence check over short strings: two distinct
	// states are equivalent iff every string drives both to the same
	// acceptance outcome. Minimize must not leave any such pair.
	alphabet := []rune{'a', 'b'}
	strings := enumerateStrings(alphabet, 4)

	states := min.States()
	behavior := func(s State, suffixes []string) string {
		out := ""
		for _, suf := range suffixes {
			cur := s
			ok := true
			for _, r := range suf {
				next, exists := min.Next(cur, r)
				if !exists {
					ok = false
					break
				}
				cur = next
			}
			if ok && min.IsAccepting(cur) {
				out += "1"
			} else {
				out += "0"
			}
		}
		return out
	}

	seen := map[string]State{}
	for _, s := range states {
		sig := behavior(s, strings)
		if other, exists := seen[sig]; exists {
			assert.Failf("states not minimal", "states %d and %d behave identically", s, other)
		}
		seen[sig] = s
	}
}

func enumerateStrings(alphabet []rune, maxLen int) []string {
	var out []string
	cur := []string{""}
	for l := 0; l <= maxLen; l++ {
		var next []string
		for _, s := range cur {
			out = append(out, s)
			for _, r := range alphabet {
				next = append(next, s+string(r))
			}
		}
		cur = next
	}
	sort.Strings(out)
	return out
}
