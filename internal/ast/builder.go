package ast

import (
	"fmt"

	"github.com/olix3001/ccash/internal/lexer"
)

// Builder allocates syntax nodes into a single arena and hands out
// sequential IDs. Constructors validate their arguments before allocating,
// so a failed call leaves no trace in the arena.
//
// A Builder is not safe for concurrent use; use one per compilation unit.
type Builder struct {
	nodes []Syntax
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) next(span lexer.Span) base {
	return base{id: NodeID(len(b.nodes) + 1), span: span}
}

func (b *Builder) register(n Syntax) {
	b.nodes = append(b.nodes, n)
}

// Module seals the arena into a module owning items. The builder is reset
// and may be reused for another unit.
func (b *Builder) Module(items []Item) *Module {
	m := &Module{
		items: append([]Item(nil), items...),
		nodes: b.nodes,
	}
	b.nodes = nil
	return m
}

// Ident constructs an identifier reference.
func (b *Builder) Ident(name string, span lexer.Span) (*IdentExpr, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: identifier name is empty", ErrInvalidNode)
	}
	e := &IdentExpr{base: b.next(span), name: name}
	b.register(e)
	return e, nil
}

// Param constructs a parameter. initializer may be nil.
func (b *Builder) Param(name string, typ Type, initializer Expr, span lexer.Span) (*Param, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: parameter name is empty", ErrInvalidNode)
	}
	if !validType(typ) {
		return nil, fmt.Errorf("%w: parameter %q has no type", ErrInvalidNode, name)
	}
	p := &Param{base: b.next(span), name: name, typ: typ, initializer: initializer}
	b.register(p)
	return p, nil
}

// FunctionDef constructs a function definition. Parameter names must be
// unique.
func (b *Builder) FunctionDef(name string, params []*Param, returnType Type, body Expr, span lexer.Span) (*FunctionDef, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: function name is empty", ErrInvalidNode)
	}
	if !validType(returnType) {
		return nil, fmt.Errorf("%w: function %q has no return type", ErrInvalidNode, name)
	}
	if body == nil {
		return nil, fmt.Errorf("%w: function %q has no body", ErrInvalidNode, name)
	}
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if p == nil {
			return nil, fmt.Errorf("%w: function %q has a nil parameter", ErrInvalidNode, name)
		}
		if seen[p.name] {
			return nil, fmt.Errorf("%w: %q in function %q", ErrDuplicateParameter, p.name, name)
		}
		seen[p.name] = true
	}

	f := &FunctionDef{
		base:       b.next(span),
		name:       name,
		params:     append([]*Param(nil), params...),
		returnType: returnType,
		body:       body,
	}
	b.register(f)
	return f, nil
}

// Block constructs a statement sequence. An empty block is valid.
func (b *Builder) Block(stmts []Stmt, span lexer.Span) (*Block, error) {
	for i, s := range stmts {
		if s == nil {
			return nil, fmt.Errorf("%w: block statement %d is nil", ErrInvalidNode, i)
		}
	}
	blk := &Block{base: b.next(span), stmts: append([]Stmt(nil), stmts...)}
	b.register(blk)
	return blk, nil
}

// ExprStmt wraps x as a statement.
func (b *Builder) ExprStmt(x Expr, span lexer.Span) (*ExprStmt, error) {
	if x == nil {
		return nil, fmt.Errorf("%w: expression statement is empty", ErrInvalidNode)
	}
	s := &ExprStmt{base: b.next(span), x: x}
	b.register(s)
	return s, nil
}
