package ast

// Walk traverses the AST starting from node in pre-order, calling fn for
// each node. If fn returns false, Walk does not descend into that node's
// children. Traversal uses an explicit stack, so deeply nested trees do not
// grow the goroutine stack.
func Walk(node Node, fn func(Node) bool) {
	stack := []Node{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n == nil || !fn(n) {
			continue
		}

		children := Children(n)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// Children returns the direct children of n in source order.
func Children(n Node) []Node {
	var out []Node
	switch n := n.(type) {
	case *Module:
		for _, item := range n.items {
			out = append(out, item)
		}

	case *FunctionDef:
		for _, p := range n.params {
			out = append(out, p)
		}
		out = append(out, n.returnType, n.body)

	case *Param:
		out = append(out, n.typ)
		if n.initializer != nil {
			out = append(out, n.initializer)
		}

	case *Block:
		for _, s := range n.stmts {
			out = append(out, s)
		}

	case *ExprStmt:
		out = append(out, n.x)

	case *IdentExpr, IntType, FloatType:
		// leaves
	}
	return out
}
