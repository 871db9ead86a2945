package lex

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/JackWPP/Good-Enough-Compiler/internal/automaton"
	"github.com/JackWPP/Good-Enough-Compiler/internal/icerr"
	"github.com/JackWPP/Good-Enough-Compiler/internal/regexsyntax"
)

// Rule is one lexical rule: a regex pattern, the token kind it produces,
// and a priority used to break DFA-level ambiguity.
type Rule struct {
	Pattern  string
	Kind     Kind
	Priority int
}

// acceptLabel is the accept-state payload automaton.NFA/DFA carry for
// this package: which rule won a given DFA state, plus enough of its
// identity to re-run the priority/rule-index tiebreak during subset
// construction and to group states safely during minimization.
type acceptLabel struct {
	Kind      Kind
	Priority  int
	RuleIndex int
}

func labelBetter(candidate, current acceptLabel) bool {
	if candidate.Priority != current.Priority {
		return candidate.Priority > current.Priority
	}
	return candidate.RuleIndex < current.RuleIndex
}

func labelKey(l acceptLabel) string {
	return string(l.Kind)
}

// Lexer scans source text against a minimized DFA built from a rule set.
type Lexer struct {
	dfa            *automaton.DFA[acceptLabel]
	filterTrivia   bool
	traceListeners []func(string)
}

// New compiles rules into a minimized DFA and returns a ready-to-use
// Lexer. filterTrivia controls whether WHITESPACE/NEWLINE/COMMENT tokens
// are dropped from Scan's returned stream (they are always produced
// internally first, so a trace listener still sees them).
func New(rules []Rule, filterTrivia bool) (*Lexer, error) {
	if len(rules) == 0 {
		return nil, icerr.New(icerr.StageLex, "no lexical rules provided")
	}

	fragments := make([]automaton.RuleFragment[acceptLabel], 0, len(rules))
	for i, r := range rules {
		postfix, err := regexsyntax.Parse(r.Pattern)
		if err != nil {
			return nil, icerr.Wrap(icerr.StageRegex, "rule "+strconv.Itoa(i+1)+" ("+r.Pattern+") is not a valid pattern", err)
		}
		fragments = append(fragments, automaton.RuleFragment[acceptLabel]{
			Postfix: postfix,
			Label:   acceptLabel{Kind: r.Kind, Priority: r.Priority, RuleIndex: i},
		})
	}

	nfa, err := automaton.CombineRules(fragments)
	if err != nil {
		return nil, err
	}

	dfa := nfa.ToDFA(labelBetter)
	dfa = dfa.Minimize(labelKey)

	return &Lexer{dfa: dfa, filterTrivia: filterTrivia}, nil
}

// RegisterTraceListener registers a sink for human-readable scan
// narration.
func (l *Lexer) RegisterTraceListener(fn func(string)) {
	l.traceListeners = append(l.traceListeners, fn)
}

func (l *Lexer) trace(format string, args ...any) {
	if len(l.traceListeners) == 0 {
		return
	}
	msg := fmt.Sprintf(format, args...)
	for _, fn := range l.traceListeners {
		fn(msg)
	}
}

// Scan runs the longest-match scan over the full source text, returning
// the filtered token stream (EOF-terminated) and any recovered lex
// errors.
func (l *Lexer) Scan(source string) ([]Token, []LexError) {
	runes := []rune(source)
	var tokens []Token
	var errs []LexError

	pos := 0
	line, col := 1, 1

	advancePos := func(from, to int) (int, int) {
		l2, c2 := line, col
		for i := from; i < to; i++ {
			if runes[i] == '\n' {
				l2++
				c2 = 1
			} else {
				c2++
			}
		}
		return l2, c2
	}

	for pos < len(runes) {
		startLine, startCol := line, col

		state := l.dfa.Start
		lastAccept := -1
		var lastLabel acceptLabel
		haveAccept := false

		i := pos
		for {
			if lbl, ok := l.dfa.Label(state); ok && i > pos {
				lastAccept = i
				lastLabel = lbl
				haveAccept = true
			}
			if i >= len(runes) {
				break
			}
			next, ok := l.dfa.Next(state, runes[i])
			if !ok {
				break
			}
			state = next
			i++
		}

		if !haveAccept {
			bad := runes[pos]
			errs = append(errs, LexError{Line: startLine, Column: startCol, Char: bad})
			l.trace("error at %d:%d: unexpected %q", startLine, startCol, bad)
			tokens = append(tokens, Token{Kind: KindError, Lexeme: string(bad), Line: startLine, Column: startCol})
			line, col = advancePos(pos, pos+1)
			pos++
			continue
		}

		lexeme := string(runes[pos:lastAccept])
		tok := Token{
			Kind:   lastLabel.Kind,
			Lexeme: lexeme,
			Line:   startLine,
			Column: startCol,
		}
		l.trace("token %s at %d:%d %q", tok.Kind, tok.Line, tok.Column, tok.Lexeme)

		if !l.filterTrivia || !tok.Kind.Trivial() {
			tokens = append(tokens, tok)
		}

		line, col = advancePos(pos, lastAccept)
		pos = lastAccept
	}

	tokens = append(tokens, Token{Kind: KindEOF, Line: line, Column: col})
	return tokens, errs
}

// ParseRules parses a lexical rule file: one rule per non-empty
// non-comment line, three whitespace-separated fields
// `<regex> <token-kind> <priority-integer>`, comments beginning with '#'.
func ParseRules(text string) ([]Rule, error) {
	var rules []Rule
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, icerr.Atf(icerr.StageLex, icerr.Pos{Line: lineNo}, "expected 3 fields <regex> <kind> <priority>, got %d", len(fields))
		}
		priority, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, icerr.Atf(icerr.StageLex, icerr.Pos{Line: lineNo}, "invalid priority %q: %v", fields[2], err)
		}
		rules = append(rules, Rule{Pattern: fields[0], Kind: Kind(fields[1]), Priority: priority})
	}
	if err := scanner.Err(); err != nil {
		return nil, icerr.Wrap(icerr.StageLex, "failed reading rule file", err)
	}
	return rules, nil
}
