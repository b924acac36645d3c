// Package cst defines the concrete syntax tree produced by the parser.
//
// The tree mirrors the grammar one-to-one and is deliberately permissive:
// optional children are nil whenever the parser had to recover from an
// error, so consumers must treat every pointer field as possibly absent.
// The set of node kinds is closed; see Kinds.
package cst

import "github.com/olix3001/ccash/internal/lexer"

// Kind tags each CST node variant.
type Kind int

const (
	KindFile Kind = iota
	KindFunctionDecl
	KindBadItem
	KindParamList
	KindParam
	KindDefaultClause
	KindTypeRef
	KindPrimaryExpr
	KindParenExpr
	KindBlockExpr
	KindIntLit
	KindBadExpr
	KindExprStmt
	KindLetStmt
	KindReturnStmt

	kindCount
)

var kindNames = [...]string{
	KindFile:          "File",
	KindFunctionDecl:  "FunctionDecl",
	KindBadItem:       "BadItem",
	KindParamList:     "ParamList",
	KindParam:         "Param",
	KindDefaultClause: "DefaultClause",
	KindTypeRef:       "TypeRef",
	KindPrimaryExpr:   "PrimaryExpr",
	KindParenExpr:     "ParenExpr",
	KindBlockExpr:     "BlockExpr",
	KindIntLit:        "IntLit",
	KindBadExpr:       "BadExpr",
	KindExprStmt:      "ExprStmt",
	KindLetStmt:       "LetStmt",
	KindReturnStmt:    "ReturnStmt",
}

func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Kinds returns every node kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Node is implemented by every CST node.
type Node interface {
	Kind() Kind
	Span() lexer.Span
}

// Item is a module-level node.
type Item interface {
	Node
	itemNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement inside a block.
type Stmt interface {
	Node
	stmtNode()
}

// LiteralKind tags a type node by the literal token it carries.
type LiteralKind int

const (
	LiteralInvalid LiteralKind = iota
	IntLiteral
	FloatLiteral
)

func (k LiteralKind) String() string {
	switch k {
	case IntLiteral:
		return "int"
	case FloatLiteral:
		return "float"
	default:
		return "invalid"
	}
}

// File is the root of a compilation unit.
type File struct {
	Items []Item
	span  lexer.Span
}

func NewFile(items []Item, span lexer.Span) *File {
	return &File{Items: items, span: span}
}

func (*File) Kind() Kind { return KindFile }
func (f *File) Span() lexer.Span { return f.span }

// FunctionDecl is `func name(params) -> type body`.
type FunctionDecl struct {
	Name       *lexer.Token
	Params     *ParamList
	ReturnType *TypeRef
	Body       Expr
	span       lexer.Span
}

func NewFunctionDecl(name *lexer.Token, params *ParamList, ret *TypeRef, body Expr, span lexer.Span) *FunctionDecl {
	return &FunctionDecl{
		Name:       name,
		Params:     params,
		ReturnType: ret,
		Body:       body,
		span:       span,
	}
}

func (*FunctionDecl) Kind() Kind { return KindFunctionDecl }
func (d *FunctionDecl) Span() lexer.Span { return d.span }
func (*FunctionDecl) itemNode() {}

// BadItem covers top-level input the parser could not attribute to any item.
type BadItem struct {
	Token lexer.Token
	span  lexer.Span
}

func NewBadItem(tok lexer.Token, span lexer.Span) *BadItem {
	return &BadItem{Token: tok, span: span}
}

func (*BadItem) Kind() Kind { return KindBadItem }
func (b *BadItem) Span() lexer.Span { return b.span }
func (*BadItem) itemNode() {}

// ParamList is the parenthesised parameter list of a function.
type ParamList struct {
	Params []*Param
	span   lexer.Span
}

func NewParamList(params []*Param, span lexer.Span) *ParamList {
	return &ParamList{Params: params, span: span}
}

func (*ParamList) Kind() Kind { return KindParamList }
func (l *ParamList) Span() lexer.Span { return l.span }

// Param is `name: type` with an optional `= value` clause.
type Param struct {
	Name    *lexer.Token
	Type    *TypeRef
	Default *DefaultClause
	span    lexer.Span
}

func NewParam(name *lexer.Token, typ *TypeRef, def *DefaultClause, span lexer.Span) *Param {
	return &Param{Name: name, Type: typ, Default: def, span: span}
}

func (*Param) Kind() Kind { return KindParam }
func (p *Param) Span() lexer.Span { return p.span }

// DefaultClause is the `= value` suffix of a parameter.
type DefaultClause struct {
	Value Expr
	span  lexer.Span
}

func NewDefaultClause(value Expr, span lexer.Span) *DefaultClause {
	return &DefaultClause{Value: value, span: span}
}

func (*DefaultClause) Kind() Kind { return KindDefaultClause }
func (c *DefaultClause) Span() lexer.Span { return c.span }

// TypeRef is a sized type literal such as int32 or float64.
type TypeRef struct {
	LiteralKind LiteralKind
	Literal     *lexer.Token
	span        lexer.Span
}

func NewTypeRef(kind LiteralKind, literal *lexer.Token, span lexer.Span) *TypeRef {
	return &TypeRef{LiteralKind: kind, Literal: literal, span: span}
}

func (*TypeRef) Kind() Kind { return KindTypeRef }
func (t *TypeRef) Span() lexer.Span { return t.span }

// PrimaryExpr wraps a bare identifier.
type PrimaryExpr struct {
	Ident *lexer.Token
	span  lexer.Span
}

func NewPrimaryExpr(ident *lexer.Token, span lexer.Span) *PrimaryExpr {
	return &PrimaryExpr{Ident: ident, span: span}
}

func (*PrimaryExpr) Kind() Kind { return KindPrimaryExpr }
func (e *PrimaryExpr) Span() lexer.Span { return e.span }
func (*PrimaryExpr) exprNode() {}

// ParenExpr is a parenthesised expression.
type ParenExpr struct {
	Inner Expr
	span  lexer.Span
}

func NewParenExpr(inner Expr, span lexer.Span) *ParenExpr {
	return &ParenExpr{Inner: inner, span: span}
}

func (*ParenExpr) Kind() Kind { return KindParenExpr }
func (e *ParenExpr) Span() lexer.Span { return e.span }
func (*ParenExpr) exprNode() {}

// BlockExpr is a braced statement sequence.
type BlockExpr struct {
	Stmts []Stmt
	span  lexer.Span
}

func NewBlockExpr(stmts []Stmt, span lexer.Span) *BlockExpr {
	return &BlockExpr{Stmts: stmts, span: span}
}

func (*BlockExpr) Kind() Kind { return KindBlockExpr }
func (e *BlockExpr) Span() lexer.Span { return e.span }
func (*BlockExpr) exprNode() {}

// IntLit is an integer literal.
type IntLit struct {
	Literal lexer.Token
	span    lexer.Span
}

func NewIntLit(literal lexer.Token, span lexer.Span) *IntLit {
	return &IntLit{Literal: literal, span: span}
}

func (*IntLit) Kind() Kind { return KindIntLit }
func (e *IntLit) Span() lexer.Span { return e.span }
func (*IntLit) exprNode() {}

// BadExpr stands in for an expression the parser could not recognise.
type BadExpr struct {
	Token lexer.Token
	span  lexer.Span
}

func NewBadExpr(tok lexer.Token, span lexer.Span) *BadExpr {
	return &BadExpr{Token: tok, span: span}
}

func (*BadExpr) Kind() Kind { return KindBadExpr }
func (e *BadExpr) Span() lexer.Span { return e.span }
func (*BadExpr) exprNode() {}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	X    Expr
	span lexer.Span
}

func NewExprStmt(x Expr, span lexer.Span) *ExprStmt {
	return &ExprStmt{X: x, span: span}
}

func (*ExprStmt) Kind() Kind { return KindExprStmt }
func (s *ExprStmt) Span() lexer.Span { return s.span }
func (*ExprStmt) stmtNode() {}

// LetStmt is `let name [: type] = value`.
type LetStmt struct {
	Name  *lexer.Token
	Type  *TypeRef
	Value Expr
	span  lexer.Span
}

func NewLetStmt(name *lexer.Token, typ *TypeRef, value Expr, span lexer.Span) *LetStmt {
	return &LetStmt{Name: name, Type: typ, Value: value, span: span}
}

func (*LetStmt) Kind() Kind { return KindLetStmt }
func (s *LetStmt) Span() lexer.Span { return s.span }
func (*LetStmt) stmtNode() {}

// ReturnStmt is `return [value]`.
type ReturnStmt struct {
	Value Expr
	span  lexer.Span
}

func NewReturnStmt(value Expr, span lexer.Span) *ReturnStmt {
	return &ReturnStmt{Value: value, span: span}
}

func (*ReturnStmt) Kind() Kind { return KindReturnStmt }
func (s *ReturnStmt) Span() lexer.Span { return s.span }
func (*ReturnStmt) stmtNode() {}
