package grammar

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exprGrammarText is the classic non-left-recursive expression grammar:
//
//	E  -> T E2
//	E2 -> + T E2 | ε
//	T  -> F T2
//	T2 -> * F T2 | ε
//	F  -> ( E ) | id
const exprGrammarText = `
E -> T E2
E2 -> + T E2 | ε
T -> F T2
T2 -> * F T2 | ε
F -> ( E ) | id
`

func Test_Load_parsesProductionsAndStart(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g, err := Load(exprGrammarText)
	require.NoError(err)

	assert.Equal("E", g.Start)
	assert.NotEmpty(g.AugmentedStart)
	assert.Equal(g.AugmentedStart, g.Productions[0].Head)
	assert.Equal([]string{"E"}, g.Productions[0].Body)

	nts := g.NonTerminals()
	sort.Strings(nts)
	for _, want := range []string{"E", "E2", "T", "T2", "F"} {
		assert.Contains(nts, want)
	}

	terms := g.Terminals()
	assert.Contains(terms, "+")
	assert.Contains(terms, "*")
	assert.Contains(terms, "(")
	assert.Contains(terms, ")")
	assert.Contains(terms, "id")
	assert.Contains(terms, EndOfInput)
}

func Test_Load_epsilonProduction(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g, err := Load(exprGrammarText)
	require.NoError(err)

	e2 := g.Rule("E2")
	require.Len(e2, 2)
	assert.True(e2[1].IsEpsilon())
	assert.Equal("+", e2[0].Body[0])
}

func Test_Load_rejectsMalformedLine(t *testing.T) {
	assert := assert.New(t)
	_, err := Load("this has no arrow at all\n")
	assert.Error(err)
}

func Test_Load_rejectsEmptyGrammar(t *testing.T) {
	assert := assert.New(t)
	_, err := Load("# just a comment\n")
	assert.Error(err)
}

func Test_Validate_rejectsUndeclaredSymbol(t *testing.T) {
	assert := assert.New(t)

	g := New("S", []Production{
		{ID: 0, Head: "S", Body: []string{"a", "B"}},
	})
	// New treats any non-head symbol as a terminal, so an undeclared
	// symbol can't arise from Load/New alone; force it by hand to
	// exercise Validate's check.
	delete(g.terminals, "B")

	err := g.Validate()
	assert.Error(err)
}

func Test_IsTerminal_and_IsNonTerminal(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g, err := Load(exprGrammarText)
	require.NoError(err)

	assert.True(g.IsTerminal("+"))
	assert.True(g.IsTerminal("id"))
	assert.True(g.IsTerminal(EndOfInput))
	assert.True(g.IsTerminal(Epsilon))
	assert.False(g.IsTerminal("E"))

	assert.True(g.IsNonTerminal("E"))
	assert.True(g.IsNonTerminal("T2"))
	assert.False(g.IsNonTerminal("+"))
}

func Test_First_terminalsAndNullableNonTerminals(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g, err := Load(exprGrammarText)
	require.NoError(err)

	first := g.First("F")
	assert.True(first.Has("("))
	assert.True(first.Has("id"))
	assert.False(first.Has(Epsilon))

	firstE2 := g.First("E2")
	assert.True(firstE2.Has("+"))
	assert.True(firstE2.Has(Epsilon), "E2 is nullable")

	firstE := g.First("E")
	assert.True(firstE.Has("("))
	assert.True(firstE.Has("id"))
	assert.False(firstE.Has(Epsilon))
}

func Test_Follow_fixedPoint(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g, err := Load(exprGrammarText)
	require.NoError(err)

	followE := g.Follow("E")
	assert.True(followE.Has(")"))
	assert.True(followE.Has(EndOfInput))

	followT := g.Follow("T")
	assert.True(followT.Has("+"))
	assert.True(followT.Has(")"))
	assert.True(followT.Has(EndOfInput))

	followF := g.Follow("F")
	assert.True(followF.Has("*"))
	assert.True(followF.Has("+"))
	assert.True(followF.Has(")"))
	assert.True(followF.Has(EndOfInput))
}

func Test_FirstOfSequence(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g, err := Load(exprGrammarText)
	require.NoError(err)

	fs := g.FirstOfSequence([]string{"T", "E2"})
	assert.True(fs.Has("("))
	assert.True(fs.Has("id"))
	assert.False(fs.Has(Epsilon))

	empty := g.FirstOfSequence(nil)
	assert.True(empty.Has(Epsilon))
	assert.Equal(1, empty.Len())
}

func Test_Augment_isIdempotent(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g, err := Load(exprGrammarText)
	require.NoError(err)

	augStart := g.AugmentedStart
	numProds := len(g.Productions)

	g.Augment()
	assert.Equal(augStart, g.AugmentedStart)
	assert.Equal(numProds, len(g.Productions))
}

// pascalBlockGrammarText is a begin/end statement-list shape: a block is a
// keyword-delimited, semicolon-separated list of assignments.
const pascalBlockGrammarText = `
Block -> begin StmtList end
StmtList -> Stmt ; StmtList | Stmt
Stmt -> id := id
`

func Test_Load_pascalLikeBeginEndBlock(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g, err := Load(pascalBlockGrammarText)
	require.NoError(err)

	assert.Equal("Block", g.Start)
	for _, want := range []string{"begin", "end", ":=", ";", "id"} {
		assert.Contains(g.Terminals(), want)
	}
	for _, want := range []string{"Block", "StmtList", "Stmt"} {
		assert.Contains(g.NonTerminals(), want)
	}
}
