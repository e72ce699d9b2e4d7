package ast

import (
	"fmt"
	"strconv"
	"strings"

	"lox/interpreter-go/pkg/lexer"
)

// Sprint renders node in parenthesized prefix form, e.g.
// `(* (- 123) (group 45.67))`. String literals are quoted.
func Sprint(node Node) string {
	var b strings.Builder
	writeNode(&b, node)
	return b.String()
}

// FormatLiteral renders a literal value the way Sprint does.
func FormatLiteral(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func writeNode(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case *LiteralExpression:
		b.WriteString(FormatLiteral(n.Value))
	case *GroupingExpression:
		parenthesize(b, "group", n.Expression)
	case *UnaryExpression:
		parenthesize(b, n.Operator.Lexeme, n.Right)
	case *BinaryExpression:
		parenthesize(b, n.Operator.Lexeme, n.Left, n.Right)
	case *LogicalExpression:
		parenthesize(b, n.Operator.Lexeme, n.Left, n.Right)
	case *VariableExpression:
		b.WriteString(n.Name.Lexeme)
	case *AssignmentExpression:
		parenthesize(b, "= "+n.Name.Lexeme, n.Value)
	case *CallExpression:
		nodes := append([]Node{n.Callee}, expressionNodes(n.Arguments)...)
		parenthesize(b, "call", nodes...)
	case *GetExpression:
		b.WriteString("(. ")
		writeNode(b, n.Object)
		b.WriteString(" " + n.Name.Lexeme + ")")
	case *SetExpression:
		b.WriteString("(set ")
		writeNode(b, n.Object)
		b.WriteString(" " + n.Name.Lexeme + " ")
		writeNode(b, n.Value)
		b.WriteString(")")
	case *ThisExpression:
		b.WriteString("this")
	case *SuperExpression:
		b.WriteString("(super " + n.Method.Lexeme + ")")
	case *ExpressionStatement:
		parenthesize(b, ";", n.Expression)
	case *PrintStatement:
		parenthesize(b, "print", n.Expression)
	case *VarDeclaration:
		if n.Initializer == nil {
			parenthesize(b, "var "+n.Name.Lexeme)
			return
		}
		parenthesize(b, "var "+n.Name.Lexeme, n.Initializer)
	case *BlockStatement:
		parenthesize(b, "block", statementNodes(n.Statements)...)
	case *IfStatement:
		if n.ElseBranch == nil {
			parenthesize(b, "if", n.Condition, n.ThenBranch)
			return
		}
		parenthesize(b, "if-else", n.Condition, n.ThenBranch, n.ElseBranch)
	case *WhileLoop:
		parenthesize(b, "while", n.Condition, n.Body)
	case *FunctionDeclaration:
		head := "fun " + n.Name.Lexeme + " (" + joinLexemes(n.Params) + ")"
		parenthesize(b, head, statementNodes(n.Body)...)
	case *ReturnStatement:
		if n.Value == nil {
			parenthesize(b, "return")
			return
		}
		parenthesize(b, "return", n.Value)
	case *ClassDeclaration:
		head := "class " + n.Name.Lexeme
		if n.Superclass != nil {
			head += " < " + n.Superclass.Name.Lexeme
		}
		methods := make([]Node, len(n.Methods))
		for i, method := range n.Methods {
			methods[i] = method
		}
		parenthesize(b, head, methods...)
	case nil:
		b.WriteString("<nil>")
	default:
		fmt.Fprintf(b, "<%s>", node.NodeType())
	}
}

func parenthesize(b *strings.Builder, name string, nodes ...Node) {
	b.WriteString("(")
	b.WriteString(name)
	for _, node := range nodes {
		b.WriteString(" ")
		writeNode(b, node)
	}
	b.WriteString(")")
}

func expressionNodes(exprs []Expression) []Node {
	out := make([]Node, len(exprs))
	for i, expr := range exprs {
		out[i] = expr
	}
	return out
}

func statementNodes(stmts []Statement) []Node {
	out := make([]Node, len(stmts))
	for i, stmt := range stmts {
		out[i] = stmt
	}
	return out
}

func joinLexemes(tokens []lexer.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.Lexeme
	}
	return strings.Join(parts, " ")
}

// SprintRPN renders an arithmetic expression in reverse Polish notation, e.g.
// `1 2 + 4 3 - *`. Groupings disappear and unary minus is written `neg`.
// Expressions other than literals, variables, groupings, unary and binary
// operators are rejected.
func SprintRPN(expr Expression) (string, error) {
	var parts []string
	var walk func(Expression) error
	walk = func(expr Expression) error {
		switch n := expr.(type) {
		case *LiteralExpression:
			parts = append(parts, FormatLiteral(n.Value))
		case *VariableExpression:
			parts = append(parts, n.Name.Lexeme)
		case *GroupingExpression:
			return walk(n.Expression)
		case *UnaryExpression:
			if err := walk(n.Right); err != nil {
				return err
			}
			if n.Operator.Type == lexer.Minus {
				parts = append(parts, "neg")
			} else {
				parts = append(parts, n.Operator.Lexeme)
			}
		case *BinaryExpression:
			if err := walk(n.Left); err != nil {
				return err
			}
			if err := walk(n.Right); err != nil {
				return err
			}
			parts = append(parts, n.Operator.Lexeme)
		default:
			if expr == nil {
				return fmt.Errorf("rpn: missing expression")
			}
			return fmt.Errorf("rpn: unsupported %s", expr.NodeType())
		}
		return nil
	}
	if err := walk(expr); err != nil {
		return "", err
	}
	return strings.Join(parts, " "), nil
}
