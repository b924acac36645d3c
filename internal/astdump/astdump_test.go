package astdump_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/olix3001/ccash/internal/ast"
	"github.com/olix3001/ccash/internal/astdump"
	"github.com/olix3001/ccash/internal/lower"
	"github.com/olix3001/ccash/internal/parser"
)

func lowerSource(t *testing.T, src string) *ast.Module {
	t.Helper()

	p := parser.New(src)
	file := p.ParseFile()
	if len(p.Errors()) > 0 || len(p.LexerErrors()) > 0 {
		t.Fatalf("unexpected syntax errors: %v %v", p.Errors(), p.LexerErrors())
	}
	m, err := lower.Lower(file)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	return m
}

func TestText(t *testing.T) {
	m := lowerSource(t, `func hello(a: int32) -> int32 = a`)

	var buf bytes.Buffer
	if err := astdump.Text(&buf, m); err != nil {
		t.Fatalf("Text: %v", err)
	}

	want := strings.Join([]string{
		"Module",
		"  FunctionDef hello: int32 #3 @1:1",
		"    Param a: int32 #1 @1:12",
		"    Ident a #2 @1:33",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected dump:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestTreeKeepsSourceOrder(t *testing.T) {
	m := lowerSource(t, `func f(a: int8, b: float32 = a) -> int8 { a; { b } }`)

	fn := astdump.Tree(m).Children[0]
	var kinds []string
	for _, c := range fn.Children {
		kinds = append(kinds, c.Kind+":"+c.Name)
	}
	want := []string{"Param:a", "Param:b", "Block:"}
	if strings.Join(kinds, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected children %v, want %v", kinds, want)
	}

	if init := fn.Children[1].Children; len(init) != 1 || init[0].Kind != "Ident" {
		t.Fatalf("expected b's initializer in the dump, got %+v", init)
	}
	block := fn.Children[2]
	if len(block.Children) != 2 || block.Children[1].Children[0].Kind != "Block" {
		t.Fatalf("unexpected block shape %+v", block)
	}
}

func TestJSONAndYAMLAgree(t *testing.T) {
	m := lowerSource(t, `func f(a: int8) -> float64 { a }`)

	var jbuf, ybuf bytes.Buffer
	if err := astdump.Write(&jbuf, m, "json"); err != nil {
		t.Fatalf("json: %v", err)
	}
	if err := astdump.Write(&ybuf, m, "yaml"); err != nil {
		t.Fatalf("yaml: %v", err)
	}

	var fromJSON, fromYAML astdump.Node
	if err := json.Unmarshal(jbuf.Bytes(), &fromJSON); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if err := yaml.Unmarshal(ybuf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}

	if fromJSON.Children[0].Type != "float64" {
		t.Fatalf("expected return type float64, got %q", fromJSON.Children[0].Type)
	}
	if fromYAML.Children[0].Name != "f" || fromYAML.Children[0].Children[0].Name != "a" {
		t.Fatalf("unexpected yaml tree %+v", fromYAML.Children[0])
	}
}

func TestWriteRejectsUnknownFormat(t *testing.T) {
	m := lowerSource(t, `func f() -> int8 = a`)
	if err := astdump.Write(&bytes.Buffer{}, m, "xml"); err == nil {
		t.Fatalf("expected an error")
	}
}
