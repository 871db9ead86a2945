package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenSummary(toks []Token) []string {
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		if t.Kind == KindEOF {
			continue
		}
		out = append(out, string(t.Kind)+":"+t.Lexeme)
	}
	return out
}

func Test_Lexer_Scan_longestMatchPriorityOrder(t *testing.T) {
	rules := []Rule{
		{Pattern: "if|else|while", Kind: KindKeyword, Priority: 10},
		{Pattern: "[a-zA-Z_][a-zA-Z0-9_]*", Kind: KindIdentifier, Priority: 5},
		{Pattern: "[0-9]+", Kind: KindLiteralInt, Priority: 5},
		{Pattern: `\s+`, Kind: KindWhitespace, Priority: 1},
	}

	testCases := []struct {
		name   string
		source string
		expect []string
	}{
		{
			name:   "keyword then identifier then int, whitespace kept",
			source: "if x 12",
			expect: []string{"KEYWORD:if", "WHITESPACE: ", "IDENTIFIER:x", "WHITESPACE: ", "LITERAL_INT:12"},
		},
		{
			name:   "identifier that starts with a keyword prefix stays one token",
			source: "ifx",
			expect: []string{"IDENTIFIER:ifx"},
		},
		{
			name:   "adjacent digits and letters split on rule boundary",
			source: "12abc",
			expect: []string{"LITERAL_INT:12", "IDENTIFIER:abc"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			l, err := New(rules, false)
			require.NoError(err)

			toks, errs := l.Scan(tc.source)
			assert.Empty(errs)
			assert.Equal(tc.expect, tokenSummary(toks))
		})
	}
}

func Test_Lexer_Scan_pascalLikeAssignmentAndBlockDelimiters(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	rules := []Rule{
		{Pattern: "begin|end|var|if|then", Kind: KindKeyword, Priority: 10},
		{Pattern: "[a-zA-Z][a-zA-Z0-9]*", Kind: KindIdentifier, Priority: 5},
		{Pattern: "[0-9]+", Kind: KindLiteralInt, Priority: 5},
		{Pattern: ":=", Kind: KindOperator, Priority: 5},
		{Pattern: ";", Kind: KindDelimiter, Priority: 5},
		{Pattern: `\s+`, Kind: KindWhitespace, Priority: 1},
	}
	l, err := New(rules, true)
	require.NoError(err)

	toks, errs := l.Scan("begin x := 1; end")
	assert.Empty(errs)
	assert.Equal([]string{
		"KEYWORD:begin", "IDENTIFIER:x", "OPERATOR::=", "LITERAL_INT:1", "DELIMITER:;", "KEYWORD:end",
	}, tokenSummary(toks))
}

func Test_Lexer_Scan_filterTrivia(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	rules := []Rule{
		{Pattern: "[a-z]+", Kind: KindIdentifier, Priority: 5},
		{Pattern: `\s+`, Kind: KindWhitespace, Priority: 1},
	}
	l, err := New(rules, true)
	require.NoError(err)

	toks, errs := l.Scan("ab cd")
	assert.Empty(errs)
	assert.Equal([]string{"IDENTIFIER:ab", "IDENTIFIER:cd"}, tokenSummary(toks))
	assert.Equal(KindEOF, toks[len(toks)-1].Kind)
}

func Test_Lexer_Scan_recoversFromUnknownCharacter(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	rules := []Rule{
		{Pattern: "[a-z]+", Kind: KindIdentifier, Priority: 5},
	}
	l, err := New(rules, false)
	require.NoError(err)

	toks, errs := l.Scan("ab#cd")
	require.Len(errs, 1)
	assert.Equal(1, errs[0].Line)
	assert.Equal(3, errs[0].Column)
	assert.Equal('#', errs[0].Char)
	assert.Equal([]string{"IDENTIFIER:ab", "ERROR:#", "IDENTIFIER:cd"}, tokenSummary(toks))
}

func Test_Lexer_Scan_lineColumnTracking(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	rules := []Rule{
		{Pattern: "[a-z]+", Kind: KindIdentifier, Priority: 5},
		{Pattern: "\n", Kind: KindNewline, Priority: 1},
	}
	l, err := New(rules, false)
	require.NoError(err)

	toks, errs := l.Scan("ab\ncd")
	require.Empty(errs)
	require.Len(toks, 4) // ab, newline, cd, EOF

	assert.Equal(1, toks[0].Line)
	assert.Equal(1, toks[0].Column)
	assert.Equal(2, toks[2].Line)
	assert.Equal(1, toks[2].Column)
}

func Test_ParseRules(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	text := `
# a comment line
if|else    KEYWORD   10
[a-z]+ IDENTIFIER 5
`
	rules, err := ParseRules(text)
	require.NoError(err)
	require.Len(rules, 2)
	assert.Equal(Rule{Pattern: "if|else", Kind: KindKeyword, Priority: 10}, rules[0])
	assert.Equal(Rule{Pattern: "[a-z]+", Kind: KindIdentifier, Priority: 5}, rules[1])
}

func Test_ParseRules_malformedLine(t *testing.T) {
	assert := assert.New(t)
	_, err := ParseRules("only two fields\n")
	assert.Error(err)
}

func Test_New_rejectsEmptyRuleSet(t *testing.T) {
	assert := assert.New(t)
	_, err := New(nil, false)
	assert.Error(err)
}

func Test_NewImmediateStream(t *testing.T) {
	assert := assert.New(t)

	toks := []Token{
		{Kind: KindIdentifier, Lexeme: "a"},
		{Kind: KindIdentifier, Lexeme: "b"},
		{Kind: KindEOF},
	}
	s := NewImmediateStream(toks)

	assert.True(s.HasNext())
	assert.Equal("a", s.Peek().Lexeme)
	assert.Equal("a", s.Next().Lexeme)
	assert.Equal("b", s.Next().Lexeme)
	assert.False(s.HasNext())
	assert.Equal(KindEOF, s.Next().Kind)
}

func Test_NewLazyStream_matchesImmediateScan(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	rules := []Rule{
		{Pattern: "[a-z]+", Kind: KindIdentifier, Priority: 5},
		{Pattern: `\s+`, Kind: KindWhitespace, Priority: 1},
	}
	l, err := New(rules, true)
	require.NoError(err)

	source := "foo bar baz"
	eager, _ := l.Scan(source)

	lazy := NewLazyStream(l, source)
	var got []Token
	for lazy.HasNext() {
		got = append(got, lazy.Next())
	}
	got = append(got, lazy.Next()) // EOF

	require.Equal(len(eager), len(got))
	for i := range eager {
		assert.Equal(eager[i].Kind, got[i].Kind)
		assert.Equal(eager[i].Lexeme, got[i].Lexeme)
	}
}
