package ast

// Walk visits node and its descendants depth-first in source order. When
// visit returns false the children of that node are skipped.
func Walk(node Node, visit func(Node) bool) {
	if node == nil || !visit(node) {
		return
	}
	for _, child := range Children(node) {
		Walk(child, visit)
	}
}

// WalkStatements walks every statement of a program in order.
func WalkStatements(statements []Statement, visit func(Node) bool) {
	for _, stmt := range statements {
		Walk(stmt, visit)
	}
}

// Children returns the direct child nodes of node, omitting absent optional
// children.
func Children(node Node) []Node {
	var out []Node
	add := func(children ...Node) {
		for _, child := range children {
			if child != nil {
				out = append(out, child)
			}
		}
	}
	switch n := node.(type) {
	case *LiteralExpression, *VariableExpression, *ThisExpression, *SuperExpression:
	case *GroupingExpression:
		add(n.Expression)
	case *UnaryExpression:
		add(n.Right)
	case *BinaryExpression:
		add(n.Left, n.Right)
	case *LogicalExpression:
		add(n.Left, n.Right)
	case *AssignmentExpression:
		add(n.Value)
	case *CallExpression:
		add(n.Callee)
		for _, arg := range n.Arguments {
			add(arg)
		}
	case *GetExpression:
		add(n.Object)
	case *SetExpression:
		add(n.Object, n.Value)
	case *ExpressionStatement:
		add(n.Expression)
	case *PrintStatement:
		add(n.Expression)
	case *VarDeclaration:
		add(n.Initializer)
	case *BlockStatement:
		for _, stmt := range n.Statements {
			add(stmt)
		}
	case *IfStatement:
		add(n.Condition, n.ThenBranch, n.ElseBranch)
	case *WhileLoop:
		add(n.Condition, n.Body)
	case *FunctionDeclaration:
		for _, stmt := range n.Body {
			add(stmt)
		}
	case *ReturnStatement:
		add(n.Value)
	case *ClassDeclaration:
		if n.Superclass != nil {
			add(n.Superclass)
		}
		for _, method := range n.Methods {
			add(method)
		}
	}
	return out
}
