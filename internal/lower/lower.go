// Package lower converts the concrete syntax tree into the AST.
//
// Lowering mirrors the CST shape rule by rule. It runs in batch mode: a
// failure inside one subtree is recorded and lowering carries on with the
// independent siblings, so a single call reports every problem in the
// compilation unit. The caller receives either a complete module or the
// full error list, never a partial module.
package lower

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/olix3001/ccash/internal/ast"
	"github.com/olix3001/ccash/internal/cst"
	"github.com/olix3001/ccash/internal/logger"
)

// Option configures a lowering run.
type Option func(*lowerer)

// WithLogger routes debug output of the pass to log.
func WithLogger(log *slog.Logger) Option {
	return func(l *lowerer) {
		if log != nil {
			l.log = log
		}
	}
}

type lowerer struct {
	b    *ast.Builder
	log  *slog.Logger
	errs ErrorList
}

// Lower lowers file into a module. On failure the returned error is a
// non-empty ErrorList and the module is nil.
//
// Lower keeps no state between calls, so independent files may be lowered
// concurrently.
func Lower(file *cst.File, opts ...Option) (*ast.Module, error) {
	l := &lowerer{
		b:   ast.NewBuilder(),
		log: logger.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}

	if file == nil {
		l.missing(nil, "module", "there is no syntax tree to lower")
		return nil, l.errs
	}

	items := make([]ast.Item, 0, len(file.Items))
	for _, it := range file.Items {
		if item, ok := l.lowerItem(it); ok {
			items = append(items, item)
		}
	}

	if len(l.errs) > 0 {
		l.log.Debug("lowering failed", "errors", len(l.errs))
		return nil, l.errs
	}

	m := l.b.Module(items)
	l.log.Debug("lowered module", "items", len(items), "nodes", m.NodeCount())
	return m, nil
}

func (l *lowerer) lowerItem(it cst.Item) (ast.Item, bool) {
	if absent(it) {
		l.missing(nil, "item", "module contains an empty item")
		return nil, false
	}

	switch d := it.(type) {
	case *cst.FunctionDecl:
		fn, ok := l.lowerFunction(d)
		if !ok {
			return nil, false
		}
		return fn, true
	default:
		l.unsupported(it)
		return nil, false
	}
}

func (l *lowerer) lowerFunction(d *cst.FunctionDecl) (*ast.FunctionDef, bool) {
	ok := true

	name := ""
	if d.Name == nil || d.Name.Value == "" {
		l.missing(d, "name", "function declaration is missing a name")
		ok = false
	} else {
		name = d.Name.Value
	}
	label := name
	if label == "" {
		label = "<anonymous>"
	}

	var params []*ast.Param
	if d.Params == nil {
		l.missing(d, "parameters", fmt.Sprintf("function %q is missing its parameter list", label))
		ok = false
	} else {
		var pok bool
		params, pok = l.lowerParams(d.Params, label)
		ok = ok && pok
	}

	var ret ast.Type
	if d.ReturnType == nil {
		l.missing(d, "return type", fmt.Sprintf("function %q must declare a return type", label))
		ok = false
	} else {
		var rok bool
		ret, rok = l.lowerType(d.ReturnType)
		ok = ok && rok
	}

	var body ast.Expr
	if absent(d.Body) {
		l.missing(d, "body", fmt.Sprintf("function %q is missing a body", label))
		ok = false
	} else {
		var bok bool
		body, bok = l.lowerExpr(d.Body)
		ok = ok && bok
	}

	if !ok {
		return nil, false
	}

	fn, err := l.b.FunctionDef(name, params, ret, body, d.Span())
	if err != nil {
		l.builderFailed(d, err)
		return nil, false
	}
	l.log.Debug("lowered function", "name", name, "params", len(params), "returns", ret.String())
	return fn, true
}

func (l *lowerer) lowerParams(list *cst.ParamList, fnName string) ([]*ast.Param, bool) {
	ok := true
	params := make([]*ast.Param, 0, len(list.Params))
	seen := make(map[string]bool, len(list.Params))

	for _, p := range list.Params {
		if p == nil {
			l.missing(list, "parameter", fmt.Sprintf("function %q has an empty parameter slot", fnName))
			ok = false
			continue
		}

		if p.Name != nil && p.Name.Value != "" {
			if seen[p.Name.Value] {
				l.add(&Error{
					Kind:    KindDuplicateParameter,
					Message: fmt.Sprintf("parameter %q is declared more than once in function %q", p.Name.Value, fnName),
					Span:    p.Span(),
					Node:    p,
				})
				ok = false
			}
			seen[p.Name.Value] = true
		}

		param, pok := l.lowerParam(p)
		if !pok {
			ok = false
			continue
		}
		params = append(params, param)
	}
	return params, ok
}

// lowerParam lowers one parameter. A parameter without a default clause has
// no initializer; no default value is ever synthesised.
func (l *lowerer) lowerParam(p *cst.Param) (*ast.Param, bool) {
	ok := true

	name := ""
	if p.Name == nil || p.Name.Value == "" {
		l.missing(p, "name", "parameter is missing a name")
		ok = false
	} else {
		name = p.Name.Value
	}

	var typ ast.Type
	if p.Type == nil {
		l.missing(p, "type", fmt.Sprintf("parameter %q is missing a type", name))
		ok = false
	} else {
		var tok bool
		typ, tok = l.lowerType(p.Type)
		ok = ok && tok
	}

	var init ast.Expr
	if p.Default != nil {
		if absent(p.Default.Value) {
			l.missing(p.Default, "default value", fmt.Sprintf("parameter %q has an empty default clause", name))
			ok = false
		} else {
			var iok bool
			init, iok = l.lowerExpr(p.Default.Value)
			ok = ok && iok
		}
	}

	if !ok {
		return nil, false
	}

	param, err := l.b.Param(name, typ, init, p.Span())
	if err != nil {
		l.builderFailed(p, err)
		return nil, false
	}
	return param, true
}

func (l *lowerer) lowerType(t *cst.TypeRef) (ast.Type, bool) {
	if t.Literal == nil {
		l.missing(t, "type literal", "type reference has no literal")
		return nil, false
	}

	typ, err := DecodeType(t.LiteralKind, t.Literal.Value)
	if err != nil {
		kind := KindMalformedWidth
		if errors.Is(err, ErrUnsupportedConstruct) {
			kind = KindUnsupportedConstruct
		}
		l.add(&Error{
			Kind:    kind,
			Message: fmt.Sprintf("cannot decode type %q: %v", t.Literal.Value, err),
			Span:    t.Span(),
			Node:    t,
			Err:     err,
		})
		return nil, false
	}
	return typ, true
}

func (l *lowerer) add(e *Error) {
	l.errs = append(l.errs, e)
	l.log.Debug("lowering error", "kind", e.Kind.String(), "at", e.Span, "message", e.Message)
}

func (l *lowerer) missing(n cst.Node, field, msg string) {
	e := &Error{
		Kind:    KindMissingField,
		Message: msg,
		Node:    n,
		Field:   field,
	}
	if !absent(n) {
		e.Span = n.Span()
	}
	l.add(e)
}

func (l *lowerer) unsupported(n cst.Node) {
	l.add(&Error{
		Kind:    KindUnsupportedConstruct,
		Message: fmt.Sprintf("%s is not supported", describe(n)),
		Span:    n.Span(),
		Node:    n,
	})
}

// builderFailed records an AST constructor rejection. The pass checks every
// constructor precondition itself, so this only fires if the two disagree.
func (l *lowerer) builderFailed(n cst.Node, err error) {
	kind := KindMissingField
	if errors.Is(err, ast.ErrDuplicateParameter) {
		kind = KindDuplicateParameter
	}
	l.add(&Error{
		Kind:    kind,
		Message: err.Error(),
		Span:    n.Span(),
		Node:    n,
		Err:     err,
	})
}

func describe(n cst.Node) string {
	switch n := n.(type) {
	case *cst.BadItem:
		return fmt.Sprintf("declaration starting with %q", n.Token.Value)
	case *cst.BadExpr:
		return fmt.Sprintf("expression starting with %q", n.Token.Value)
	case *cst.IntLit:
		return "integer literal " + n.Literal.Value
	case *cst.LetStmt:
		return "let statement"
	case *cst.ReturnStmt:
		return "return statement"
	default:
		return "construct " + n.Kind().String()
	}
}

// absent reports whether n is nil or a typed nil pointer.
func absent(n cst.Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
