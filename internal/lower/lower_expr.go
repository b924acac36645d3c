package lower

import (
	"github.com/olix3001/ccash/internal/ast"
	"github.com/olix3001/ccash/internal/cst"
)

// blockFrame tracks a block whose statements are being lowered.
type blockFrame struct {
	block *cst.BlockExpr
	next  int // index of the statement currently being lowered
	stmts []ast.Stmt
	ok    bool
}

// lowerExpr lowers an expression tree using an explicit stack of open
// blocks instead of recursion, so nesting depth is bounded by memory rather
// than by the goroutine stack. Parentheses are transparent and unwrap in
// place.
func (l *lowerer) lowerExpr(root cst.Expr) (ast.Expr, bool) {
	var stack []*blockFrame
	cur := root

	for {
		var (
			result ast.Expr
			ok     bool
		)

		switch e := cur.(type) {
		case *cst.PrimaryExpr:
			result, ok = l.lowerPrimary(e)

		case *cst.ParenExpr:
			if absent(e.Inner) {
				l.missing(e, "expression", "parenthesised expression is empty")
				break
			}
			cur = e.Inner
			continue

		case *cst.BlockExpr:
			frame := &blockFrame{block: e, ok: true}
			if next := l.nextStmtExpr(frame); next != nil {
				stack = append(stack, frame)
				cur = next
				continue
			}
			result, ok = l.finishBlock(frame)

		default:
			l.unsupported(cur)
		}

		// Hand the result to the enclosing blocks until one still has
		// statements left to lower.
		for {
			if len(stack) == 0 {
				return result, ok
			}
			top := stack[len(stack)-1]
			l.acceptStmt(top, result, ok)
			if next := l.nextStmtExpr(top); next != nil {
				cur = next
				break
			}
			stack = stack[:len(stack)-1]
			result, ok = l.finishBlock(top)
		}
	}
}

func (l *lowerer) lowerPrimary(e *cst.PrimaryExpr) (ast.Expr, bool) {
	if e.Ident == nil || e.Ident.Value == "" {
		l.missing(e, "identifier", "primary expression has no identifier")
		return nil, false
	}
	ident, err := l.b.Ident(e.Ident.Value, e.Span())
	if err != nil {
		l.builderFailed(e, err)
		return nil, false
	}
	return ident, true
}

// nextStmtExpr returns the expression of the frame's current statement,
// reporting and skipping statements that have no lowering rule. It returns
// nil once every statement has been visited.
func (l *lowerer) nextStmtExpr(f *blockFrame) cst.Expr {
	for f.next < len(f.block.Stmts) {
		s := f.block.Stmts[f.next]
		if absent(s) {
			l.missing(f.block, "statement", "block contains an empty statement")
			f.ok = false
			f.next++
			continue
		}

		es, isExpr := s.(*cst.ExprStmt)
		if !isExpr {
			l.unsupported(s)
			f.ok = false
			f.next++
			continue
		}
		if absent(es.X) {
			l.missing(es, "expression", "expression statement is empty")
			f.ok = false
			f.next++
			continue
		}
		return es.X
	}
	return nil
}

// acceptStmt wraps the lowered expression of the frame's current statement.
func (l *lowerer) acceptStmt(f *blockFrame, x ast.Expr, ok bool) {
	s := f.block.Stmts[f.next]
	f.next++

	if !ok {
		f.ok = false
	}
	if !f.ok {
		return
	}

	stmt, err := l.b.ExprStmt(x, s.Span())
	if err != nil {
		l.builderFailed(s, err)
		f.ok = false
		return
	}
	f.stmts = append(f.stmts, stmt)
}

func (l *lowerer) finishBlock(f *blockFrame) (ast.Expr, bool) {
	if !f.ok {
		return nil, false
	}
	blk, err := l.b.Block(f.stmts, f.block.Span())
	if err != nil {
		l.builderFailed(f.block, err)
		return nil, false
	}
	return blk, true
}
