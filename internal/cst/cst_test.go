package cst_test

import (
	"testing"

	"github.com/olix3001/ccash/internal/cst"
	"github.com/olix3001/ccash/internal/lexer"
)

func TestKindsAreClosedAndNamed(t *testing.T) {
	kinds := cst.Kinds()
	if len(kinds) != 15 {
		t.Fatalf("expected 15 kinds, got %d", len(kinds))
	}

	seen := map[string]bool{}
	for i, k := range kinds {
		if int(k) != i {
			t.Fatalf("kind %d out of order: %d", i, k)
		}
		name := k.String()
		if name == "" || name == "Kind(?)" || seen[name] {
			t.Fatalf("kind %d has a bad name %q", i, name)
		}
		seen[name] = true
	}
	if got := cst.Kind(-1).String(); got != "Kind(?)" {
		t.Fatalf("unexpected name for invalid kind: %q", got)
	}
}

func TestNodesReportKindAndSpan(t *testing.T) {
	sp := lexer.Span{Line: 2, Column: 4, Start: 10, End: 12}
	tok := lexer.Token{Type: lexer.IDENT, Value: "x", Span: sp}

	tests := []struct {
		node cst.Node
		want cst.Kind
	}{
		{cst.NewFile(nil, sp), cst.KindFile},
		{cst.NewFunctionDecl(&tok, nil, nil, nil, sp), cst.KindFunctionDecl},
		{cst.NewBadItem(tok, sp), cst.KindBadItem},
		{cst.NewParamList(nil, sp), cst.KindParamList},
		{cst.NewParam(&tok, nil, nil, sp), cst.KindParam},
		{cst.NewDefaultClause(nil, sp), cst.KindDefaultClause},
		{cst.NewTypeRef(cst.IntLiteral, &tok, sp), cst.KindTypeRef},
		{cst.NewPrimaryExpr(&tok, sp), cst.KindPrimaryExpr},
		{cst.NewParenExpr(nil, sp), cst.KindParenExpr},
		{cst.NewBlockExpr(nil, sp), cst.KindBlockExpr},
		{cst.NewIntLit(tok, sp), cst.KindIntLit},
		{cst.NewBadExpr(tok, sp), cst.KindBadExpr},
		{cst.NewExprStmt(nil, sp), cst.KindExprStmt},
		{cst.NewLetStmt(&tok, nil, nil, sp), cst.KindLetStmt},
		{cst.NewReturnStmt(nil, sp), cst.KindReturnStmt},
	}

	for _, tt := range tests {
		if tt.node.Kind() != tt.want {
			t.Errorf("%T: expected kind %s, got %s", tt.node, tt.want, tt.node.Kind())
		}
		if tt.node.Span() != sp {
			t.Errorf("%T: span not kept", tt.node)
		}
	}
}

func TestLiteralKindString(t *testing.T) {
	if cst.IntLiteral.String() != "int" || cst.FloatLiteral.String() != "float" || cst.LiteralInvalid.String() != "invalid" {
		t.Fatalf("unexpected literal kind names")
	}
}
