// Package astdump renders lowered modules for humans and tools.
package astdump

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/olix3001/ccash/internal/ast"
	"github.com/olix3001/ccash/internal/lexer"
)

// Node is the serialisable shape of one AST node.
type Node struct {
	Kind     string     `json:"kind" yaml:"kind"`
	ID       ast.NodeID `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string     `json:"name,omitempty" yaml:"name,omitempty"`
	Type     string     `json:"type,omitempty" yaml:"type,omitempty"`
	Span     string     `json:"span,omitempty" yaml:"span,omitempty"`
	Children []*Node    `json:"children,omitempty" yaml:"children,omitempty"`
}

// Tree converts m into a Node tree. The conversion is iterative, so
// arbitrarily deep modules are safe to convert.
func Tree(m *ast.Module) *Node {
	root := &Node{Kind: "Module"}

	type work struct {
		n      ast.Node
		parent *Node
	}
	var stack []work
	pushAll := func(parent *Node, children []ast.Node) {
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, work{n: children[i], parent: parent})
		}
	}

	items := m.Items()
	children := make([]ast.Node, len(items))
	for i, it := range items {
		children[i] = it
	}
	pushAll(root, children)

	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		out, kids := convert(w.n)
		w.parent.Children = append(w.parent.Children, out)
		pushAll(out, kids)
	}
	return root
}

// convert describes n and returns the children that still need converting.
func convert(n ast.Node) (*Node, []ast.Node) {
	out := &Node{}
	if s, ok := n.(ast.Syntax); ok {
		out.ID = s.ID()
		out.Span = spanString(s.Span())
	}

	var kids []ast.Node
	switch n := n.(type) {
	case *ast.FunctionDef:
		out.Kind = "FunctionDef"
		out.Name = n.Name()
		out.Type = n.ReturnType().String()
		for _, p := range n.Params() {
			kids = append(kids, p)
		}
		kids = append(kids, n.Body())
	case *ast.Param:
		out.Kind = "Param"
		out.Name = n.Name()
		out.Type = n.Type().String()
		if init, ok := n.Initializer(); ok {
			kids = append(kids, init)
		}
	case *ast.Block:
		out.Kind = "Block"
		for _, s := range n.Stmts() {
			kids = append(kids, s)
		}
	case *ast.ExprStmt:
		out.Kind = "ExprStmt"
		kids = append(kids, n.X())
	case *ast.IdentExpr:
		out.Kind = "Ident"
		out.Name = n.Name()
	default:
		out.Kind = fmt.Sprintf("%T", n)
	}
	return out, kids
}

func spanString(s lexer.Span) string {
	if !s.IsValid() {
		return ""
	}
	return lexer.ToDiagSpan(s).String()
}

// Text writes an indented tree, one node per line.
func Text(w io.Writer, m *ast.Module) error {
	type entry struct {
		n     *Node
		depth int
	}
	stack := []entry{{n: Tree(m)}}

	var b strings.Builder
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		b.WriteString(strings.Repeat("  ", e.depth))
		b.WriteString(e.n.Kind)
		if e.n.Name != "" {
			b.WriteString(" " + e.n.Name)
		}
		if e.n.Type != "" {
			b.WriteString(": " + e.n.Type)
		}
		if e.n.ID.IsValid() {
			fmt.Fprintf(&b, " #%d", e.n.ID)
		}
		if e.n.Span != "" {
			b.WriteString(" @" + e.n.Span)
		}
		b.WriteByte('\n')

		for i := len(e.n.Children) - 1; i >= 0; i-- {
			stack = append(stack, entry{n: e.n.Children[i], depth: e.depth + 1})
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// YAML writes the tree as a YAML document.
func YAML(w io.Writer, m *ast.Module) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Tree(m)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// JSON writes the tree as indented JSON.
func JSON(w io.Writer, m *ast.Module) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Tree(m)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// Write renders m in the named format: "text", "yaml" or "json".
func Write(w io.Writer, m *ast.Module, format string) error {
	switch format {
	case "text", "":
		return Text(w, m)
	case "yaml":
		return YAML(w, m)
	case "json":
		return JSON(w, m)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
