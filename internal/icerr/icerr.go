// Package icerr defines the error taxonomy used across the compiler
// pipeline: every error carries a terse Go-style message (for
// Error()/logs); one built with Wrap also carries a human-readable
// explanation and wraps its underlying cause so errors.As/errors.Is keep
// working through the pipeline.
package icerr

import (
	"errors"
	"fmt"
)

// Stage identifies which pipeline stage raised an error, as reported by
// StageOf.
type Stage string

const (
	StageRegex    Stage = "regex"
	StageLex      Stage = "lex"
	StageGrammar  Stage = "grammar"
	StageLRTable  Stage = "lr-table"
	StageParse    Stage = "parse"
	StageInternal Stage = "internal"
)

// Pos is a source position, used wherever an error can be attributed to a
// specific line/column.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.Line == 0 && p.Column == 0 {
		return ""
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type compilerError struct {
	stage   Stage
	msg     string
	human   string
	pos     Pos
	wrapped error
}

func (e *compilerError) Error() string {
	if e.pos.Line != 0 || e.pos.Column != 0 {
		return fmt.Sprintf("%s: %s: %s", e.stage, e.pos, e.msg)
	}
	return fmt.Sprintf("%s: %s", e.stage, e.msg)
}

// Human returns the reader-facing explanation, falling back to Error()
// when none was supplied.
func (e *compilerError) Human() string {
	if e.human == "" {
		return e.Error()
	}
	return e.human
}

func (e *compilerError) Unwrap() error { return e.wrapped }

// New builds a stage-tagged error with no position and no human message.
func New(stage Stage, msg string) error {
	return &compilerError{stage: stage, msg: msg}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(stage Stage, format string, args ...any) error {
	return &compilerError{stage: stage, msg: fmt.Sprintf(format, args...)}
}

// At attaches a source position to a stage-tagged error.
func At(stage Stage, pos Pos, msg string) error {
	return &compilerError{stage: stage, msg: msg, pos: pos}
}

// Atf is At with fmt.Sprintf-style formatting.
func Atf(stage Stage, pos Pos, format string, args ...any) error {
	return &compilerError{stage: stage, msg: fmt.Sprintf(format, args...), pos: pos}
}

// Wrap attaches a stage tag and human-readable message to an existing
// error, preserving it as the Unwrap() cause.
func Wrap(stage Stage, human string, cause error) error {
	return &compilerError{stage: stage, msg: cause.Error(), human: human, wrapped: cause}
}

// Human extracts the human-readable explanation from err if it is (or
// wraps) a compilerError produced by this package; otherwise it falls
// back to err.Error().
func Human(err error) string {
	if err == nil {
		return ""
	}
	var ce *compilerError
	if errors.As(err, &ce) {
		return ce.Human()
	}
	return err.Error()
}

// StageOf extracts the Stage tag from err, or "" if err did not
// originate from this package.
func StageOf(err error) Stage {
	if ce, ok := err.(*compilerError); ok {
		return ce.stage
	}
	return ""
}
