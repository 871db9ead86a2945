package gec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JackWPP/Good-Enough-Compiler/internal/lex"
)

const exprRulesText = `
[a-zA-Z_][a-zA-Z0-9_]* IDENTIFIER 5
[+*()] OPERATOR 5
\s+ WHITESPACE 1
`

const exprGrammarText = `
E -> E + T | T
T -> T * F | F
F -> ( E ) | id
`

func TestCompile_acceptsExpressionAndEmitsTree(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	rules, err := lex.ParseRules(exprRulesText)
	require.NoError(err)
	l, err := NewLexer(rules, true)
	require.NoError(err)

	g, err := LoadGrammar(exprGrammarText)
	require.NoError(err)
	table := BuildTable(g, SLR1)
	require.True(table.IsConflictFree())

	res, err := Compile("a + b * c", l, g, table, false, nil)
	require.NoError(err)
	require.True(res.Parse.Accepted)
	assert.Empty(res.LexErrs)
	assert.Equal("E", res.Parse.AST.Label)

	tree := Tree(res)
	assert.True(strings.Contains(tree, "E"))
}

func TestCompile_reportsUnacceptedParseAndLeavesProgramNil(t *testing.T) {
	require := require.New(t)

	rules, err := lex.ParseRules(exprRulesText)
	require.NoError(err)
	l, err := NewLexer(rules, true)
	require.NoError(err)

	g, err := LoadGrammar(exprGrammarText)
	require.NoError(err)
	table := BuildTable(g, SLR1)

	res, err := Compile("a +", l, g, table, false, nil)
	require.Error(err)
	require.False(res.Parse.Accepted)
	require.Nil(res.Program)
	require.Equal("", Tree(res))
}
