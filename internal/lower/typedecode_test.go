package lower_test

import (
	"errors"
	"testing"

	"github.com/olix3001/ccash/internal/ast"
	"github.com/olix3001/ccash/internal/cst"
	"github.com/olix3001/ccash/internal/lower"
)

func TestDecodeType(t *testing.T) {
	tests := []struct {
		kind  cst.LiteralKind
		token string
		want  ast.Type
	}{
		{cst.IntLiteral, "int32", mustType(ast.NewIntType(32))},
		{cst.IntLiteral, "int8", mustType(ast.NewIntType(8))},
		{cst.IntLiteral, "int1", mustType(ast.NewIntType(1))},
		{cst.IntLiteral, "int007", mustType(ast.NewIntType(7))},
		{cst.FloatLiteral, "float64", mustType(ast.NewFloatType(64))},
		{cst.FloatLiteral, "float16", mustType(ast.NewFloatType(16))},
	}

	for _, tt := range tests {
		got, err := lower.DecodeType(tt.kind, tt.token)
		if err != nil {
			t.Fatalf("DecodeType(%s, %q): %v", tt.kind, tt.token, err)
		}
		if got != tt.want {
			t.Fatalf("DecodeType(%s, %q) = %v, want %v", tt.kind, tt.token, got, tt.want)
		}
	}
}

func TestDecodeTypeMalformedWidth(t *testing.T) {
	tests := []struct {
		kind  cst.LiteralKind
		token string
	}{
		{cst.IntLiteral, "intABC"},
		{cst.IntLiteral, "int"},
		{cst.IntLiteral, "int0"},
		{cst.IntLiteral, "int-8"},
		{cst.IntLiteral, "int+8"},
		{cst.IntLiteral, "int 8"},
		{cst.IntLiteral, "int99999999999"},
		{cst.IntLiteral, "float32"},
		{cst.FloatLiteral, "floatX"},
		{cst.FloatLiteral, "float"},
		{cst.FloatLiteral, "int32"},
		{cst.FloatLiteral, ""},
	}

	for _, tt := range tests {
		got, err := lower.DecodeType(tt.kind, tt.token)
		if !errors.Is(err, lower.ErrMalformedWidth) {
			t.Errorf("DecodeType(%s, %q): expected ErrMalformedWidth, got %v", tt.kind, tt.token, err)
		}
		if got != nil {
			t.Errorf("DecodeType(%s, %q): expected nil type on error, got %v", tt.kind, tt.token, got)
		}
	}
}

func TestDecodeTypeUnknownKind(t *testing.T) {
	_, err := lower.DecodeType(cst.LiteralInvalid, "int32")
	if !errors.Is(err, lower.ErrUnsupportedConstruct) {
		t.Fatalf("expected ErrUnsupportedConstruct, got %v", err)
	}
}

func mustType(typ ast.Type, err error) ast.Type {
	if err != nil {
		panic(err)
	}
	return typ
}
