// Package ast defines the lowered, semantically categorised syntax tree.
//
// Nodes are immutable: every field is unexported and only readable through
// accessors, and nodes are created exclusively through a Builder, whose
// constructors reject invalid field values. Each syntax node receives a
// NodeID that is stable for the lifetime of its Module, so later passes can
// keep side tables indexed by ID instead of mutating the tree.
package ast

import (
	"errors"
	"slices"

	"github.com/olix3001/ccash/internal/lexer"
)

var (
	// ErrInvalidNode reports a constructor call with invalid field values.
	ErrInvalidNode = errors.New("invalid node")
	// ErrDuplicateParameter reports a repeated parameter name.
	ErrDuplicateParameter = errors.New("duplicate parameter")
)

// NodeID addresses a syntax node inside its module's arena.
type NodeID uint32

// NoID is the zero NodeID; no valid node carries it.
const NoID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoID }

// Node is implemented by every AST entity.
type Node interface {
	astNode()
}

// Syntax is a node that originates from a source construct.
type Syntax interface {
	Node
	ID() NodeID
	Span() lexer.Span
}

// Item is a module-level declaration.
type Item interface {
	Syntax
	itemNode()
}

// Expr is an expression-producing node.
type Expr interface {
	Syntax
	exprNode()
}

// Stmt is a statement. Statements are expressions, so a function body is a
// single Expr whether it is one expression or a statement sequence.
type Stmt interface {
	Expr
	stmtNode()
}

type base struct {
	id   NodeID
	span lexer.Span
}

func (b *base) ID() NodeID { return b.id }
func (b *base) Span() lexer.Span { return b.span }
func (*base) astNode() {}

// Module is the root of a lowered compilation unit.
type Module struct {
	items []Item
	nodes []Syntax
}

func (*Module) astNode() {}

// Items returns the module's declarations in declaration order.
func (m *Module) Items() []Item { return slices.Clone(m.items) }

// NodeCount returns the number of syntax nodes in the module. IDs range over
// [1, NodeCount()].
func (m *Module) NodeCount() int { return len(m.nodes) }

// Lookup returns the node with the given ID.
func (m *Module) Lookup(id NodeID) (Syntax, bool) {
	if !id.IsValid() || int(id) > len(m.nodes) {
		return nil, false
	}
	return m.nodes[id-1], true
}

// FunctionDef is a function declaration.
type FunctionDef struct {
	base
	name       string
	params     []*Param
	returnType Type
	body       Expr
}

func (f *FunctionDef) Name() string { return f.name }
func (f *FunctionDef) Params() []*Param { return slices.Clone(f.params) }
func (f *FunctionDef) ReturnType() Type { return f.returnType }
func (f *FunctionDef) Body() Expr { return f.body }
func (*FunctionDef) itemNode() {}

// Param is a typed function parameter with an optional default value.
type Param struct {
	base
	name        string
	typ         Type
	initializer Expr
}

func (p *Param) Name() string { return p.name }
func (p *Param) Type() Type { return p.typ }

// Initializer returns the default-value expression, if the parameter has one.
func (p *Param) Initializer() (Expr, bool) {
	return p.initializer, p.initializer != nil
}

// IdentExpr references an identifier.
type IdentExpr struct {
	base
	name string
}

func (e *IdentExpr) Name() string { return e.name }
func (*IdentExpr) exprNode() {}

// Block is a statement sequence.
type Block struct {
	base
	stmts []Stmt
}

func (b *Block) Stmts() []Stmt { return slices.Clone(b.stmts) }
func (*Block) exprNode() {}
func (*Block) stmtNode() {}

// ExprStmt is an expression evaluated as a statement.
type ExprStmt struct {
	base
	x Expr
}

func (s *ExprStmt) X() Expr { return s.x }
func (*ExprStmt) exprNode() {}
func (*ExprStmt) stmtNode() {}
