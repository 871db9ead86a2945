// Package ir implements a depth-first AST traversal that emits
// three-address quadruples, with independent temp-name and label-name
// counters private to one emission pass. Counters start at 1 (t1, t2, …
// and L1, L2, …; see DESIGN.md's Open Question decision).
package ir

import (
	"fmt"
	"strings"

	"github.com/JackWPP/Good-Enough-Compiler/internal/ast"
	"github.com/JackWPP/Good-Enough-Compiler/internal/icerr"
)

// Quadruple is one three-address instruction: (op, arg1?, arg2?, result?).
type Quadruple struct {
	Op     string
	Arg1   string
	Arg2   string
	Result string
}

func blank(s string) string {
	if s == "" {
		return "_"
	}
	return s
}

func (q Quadruple) String() string {
	return fmt.Sprintf("(%s, %s, %s, %s)", q.Op, blank(q.Arg1), blank(q.Arg2), blank(q.Result))
}

// Program is the emitted quadruple list, in emission order.
type Program struct {
	Quads []Quadruple
}

// String renders a numbered quadruple listing.
func (p *Program) String() string {
	var sb strings.Builder
	for i, q := range p.Quads {
		fmt.Fprintf(&sb, "%02d: %s\n", i, q)
	}
	return sb.String()
}

// SymbolResolver is a placeholder semantic-analysis hook consulted on
// every identifier declaration and use, with Identity as the no-op
// default; it stops short of full scoping or type checking.
type SymbolResolver interface {
	// Declare records name and returns the address to use for it
	// (normally name itself) plus whether name was already declared.
	Declare(name string) (addr string, redeclared bool)
	// Resolve returns the address bound to a previously-declared name,
	// or name itself (and false) if it was never declared.
	Resolve(name string) (addr string, known bool)
}

// identityResolver is the default SymbolResolver: no scoping, no type
// checking, addresses equal names. It keeps no record of declarations,
// so Resolve reports every name as known.
type identityResolver struct{}

func (identityResolver) Declare(name string) (string, bool) { return name, false }
func (identityResolver) Resolve(name string) (string, bool)  { return name, true }

// Identity is the default, no-op SymbolResolver.
var Identity SymbolResolver = identityResolver{}

// Emitter walks an AST and appends quadruples to Program. Not safe for
// concurrent use: one emission pass is a single synchronous, unshared
// operation.
type Emitter struct {
	quads     []Quadruple
	tempNext  int
	labelNext int
	resolver  SymbolResolver
}

// New returns an Emitter with fresh counters. A nil resolver defaults to
// Identity.
func New(resolver SymbolResolver) *Emitter {
	if resolver == nil {
		resolver = Identity
	}
	return &Emitter{tempNext: 1, labelNext: 1, resolver: resolver}
}

func (e *Emitter) NewTemp() string {
	t := fmt.Sprintf("t%d", e.tempNext)
	e.tempNext++
	return t
}

func (e *Emitter) NewLabel() string {
	l := fmt.Sprintf("L%d", e.labelNext)
	e.labelNext++
	return l
}

func (e *Emitter) emit(op, a1, a2, res string) {
	e.quads = append(e.quads, Quadruple{Op: op, Arg1: a1, Arg2: a2, Result: res})
}

// Program returns the quadruples emitted so far.
func (e *Emitter) Program() *Program { return &Program{Quads: e.quads} }

// Emit runs the full traversal of root and returns the resulting
// quadruple program.
func Emit(root *ast.Node, resolver SymbolResolver) (*Program, error) {
	e := New(resolver)
	if err := e.walk(root); err != nil {
		return nil, err
	}
	return e.Program(), nil
}

// walk recurses into every statement-shaped node it finds; nodes that
// aren't themselves statements (statement lists, program wrappers,
// whatever the loaded grammar calls them) are walked transparently.
func (e *Emitter) walk(n *ast.Node) error {
	if n == nil || n.IsTerminal {
		return nil
	}
	if isStmt(n) {
		return e.emitStmt(n)
	}
	for _, c := range n.Children {
		if err := e.walk(c); err != nil {
			return err
		}
	}
	return nil
}

func isStmt(n *ast.Node) bool {
	return strings.EqualFold(n.Label, "Stmt") || strings.EqualFold(n.Label, "Statement")
}

func isExpr(n *ast.Node) bool {
	return strings.EqualFold(n.Label, "Expr") || strings.EqualFold(n.Label, "Expression")
}

// emitStmt dispatches on the shape of n's children: assignment, if/else,
// while, or (for a grammar shape this emitter doesn't recognize) a
// transparent walk of the children.
func (e *Emitter) emitStmt(n *ast.Node) error {
	children := n.Children

	if len(children) >= 1 && children[0].IsTerminal {
		switch strings.ToLower(children[0].Value) {
		case "if":
			return e.emitIf(children)
		case "while":
			return e.emitWhile(children)
		}
	}

	if len(children) >= 3 && children[0].IsTerminal && children[1].IsTerminal && isAssignOp(children[1].Value) {
		addr, err := e.emitExpr(findExprAfter(children, 1))
		if err != nil {
			return err
		}
		target, _ := e.resolver.Declare(children[0].Value)
		e.emit("assign", addr, "", target)
		return nil
	}

	for _, c := range children {
		if err := e.walk(c); err != nil {
			return err
		}
	}
	return nil
}

func isAssignOp(lexeme string) bool {
	return lexeme == ":=" || lexeme == "="
}

// findExprAfter returns the first Expr-shaped child after index i, for
// schemas like `id := Expr ;` where Expr's position can shift depending
// on whether the grammar's AST still carries the trailing ';' leaf.
func findExprAfter(children []*ast.Node, i int) *ast.Node {
	for j := i + 1; j < len(children); j++ {
		if isExpr(children[j]) || !children[j].IsTerminal {
			return children[j]
		}
	}
	if i+1 < len(children) {
		return children[i+1]
	}
	return nil
}

// emitIf implements `Stmt → if Expr then Stmt [else Stmt]`.
func (e *Emitter) emitIf(children []*ast.Node) error {
	cond := findFirstExpr(children)
	addr, err := e.emitExpr(cond)
	if err != nil {
		return err
	}

	lElse := e.NewLabel()
	lEnd := e.NewLabel()
	e.emit("if-goto-false", addr, "", lElse)

	thenStmt := findStmtAfter(children, cond)
	if thenStmt != nil {
		if err := e.walk(thenStmt); err != nil {
			return err
		}
	}
	e.emit("goto", "", "", lEnd)
	e.emit("label", "", "", lElse)

	elseStmt := findStmtAfter(children, thenStmt)
	if elseStmt != nil {
		if err := e.walk(elseStmt); err != nil {
			return err
		}
	}
	e.emit("label", "", "", lEnd)
	return nil
}

// emitWhile implements `Stmt → while Expr do Stmt`.
func (e *Emitter) emitWhile(children []*ast.Node) error {
	lStart := e.NewLabel()
	lEnd := e.NewLabel()
	e.emit("label", "", "", lStart)

	cond := findFirstExpr(children)
	addr, err := e.emitExpr(cond)
	if err != nil {
		return err
	}
	e.emit("if-goto-false", addr, "", lEnd)

	body := findStmtAfter(children, cond)
	if body != nil {
		if err := e.walk(body); err != nil {
			return err
		}
	}
	e.emit("goto", "", "", lStart)
	e.emit("label", "", "", lEnd)
	return nil
}

func findFirstExpr(children []*ast.Node) *ast.Node {
	for _, c := range children {
		if !c.IsTerminal {
			return c
		}
	}
	return nil
}

func findStmtAfter(children []*ast.Node, after *ast.Node) *ast.Node {
	if after == nil {
		return nil
	}
	passed := false
	for _, c := range children {
		if c == after {
			passed = true
			continue
		}
		if passed && !c.IsTerminal {
			return c
		}
	}
	return nil
}

// emitExpr implements the Expr schemas: binary operators allocate a
// fresh temp; identifiers/literals return their own address/value; a
// parenthesized group passes its inner value through.
func (e *Emitter) emitExpr(n *ast.Node) (string, error) {
	if n == nil {
		return "", icerr.New(icerr.StageInternal, "ir: nil expression node")
	}
	if n.IsTerminal {
		if strings.EqualFold(n.Label, "id") || strings.EqualFold(n.Label, "IDENTIFIER") {
			addr, _ := e.resolver.Resolve(n.Value)
			return addr, nil
		}
		return n.Value, nil
	}

	children := n.Children
	switch len(children) {
	case 1:
		return e.emitExpr(children[0])
	case 3:
		if children[0].IsTerminal && children[0].Value == "(" {
			return e.emitExpr(children[1])
		}
		if children[1].IsTerminal {
			a1, err := e.emitExpr(children[0])
			if err != nil {
				return "", err
			}
			a2, err := e.emitExpr(children[2])
			if err != nil {
				return "", err
			}
			t := e.NewTemp()
			e.emit(children[1].Value, a1, a2, t)
			return t, nil
		}
	}

	return "", icerr.Newf(icerr.StageInternal, "ir: unrecognized expression shape under %s (%d children)", n.Label, len(children))
}
