package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/lexer"
	"lox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.LiteralExpression:
		return literalValue(n.Value), nil
	case *ast.GroupingExpression:
		return i.evaluateExpression(n.Expression, env)
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, env)
	case *ast.LogicalExpression:
		left, err := i.evaluateExpression(n.Left, env)
		if err != nil {
			return nil, err
		}
		if n.Operator.Type == lexer.Or {
			if runtime.IsTruthy(left) {
				return left, nil
			}
		} else if !runtime.IsTruthy(left) {
			return left, nil
		}
		return i.evaluateExpression(n.Right, env)
	case *ast.VariableExpression:
		return i.lookupVariable(n.Name, n, env)
	case *ast.AssignmentExpression:
		return i.evaluateAssignmentExpression(n, env)
	case *ast.CallExpression:
		return i.evaluateCallExpression(n, env)
	case *ast.GetExpression:
		return i.evaluateGetExpression(n, env)
	case *ast.SetExpression:
		return i.evaluateSetExpression(n, env)
	case *ast.ThisExpression:
		return i.lookupVariable(n.Keyword, n, env)
	case *ast.SuperExpression:
		return i.evaluateSuperExpression(n, env)
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", node.NodeType())
	}
}

func literalValue(value any) runtime.Value {
	switch v := value.(type) {
	case bool:
		return runtime.BoolValue{Val: v}
	case float64:
		return runtime.NumberValue{Val: v}
	case string:
		return runtime.StringValue{Val: v}
	default:
		return runtime.Nil
	}
}

// lookupVariable reads a resolved local at its recorded distance, and falls
// back to globals for anything the resolver left unresolved.
func (i *Interpreter) lookupVariable(name lexer.Token, expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	var (
		val runtime.Value
		err error
	)
	if distance, ok := i.locals[expr.ID()]; ok {
		val, err = env.GetAt(distance, name.Lexeme)
	} else {
		val, err = i.global.Get(name.Lexeme)
	}
	if err != nil {
		return nil, runtimeError(name, "%s", err.Error())
	}
	return val, nil
}

func (i *Interpreter) evaluateAssignmentExpression(expr *ast.AssignmentExpression, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluateExpression(expr.Value, env)
	if err != nil {
		return nil, err
	}
	if distance, ok := i.locals[expr.ID()]; ok {
		err = env.AssignAt(distance, expr.Name.Lexeme, val)
	} else {
		err = i.global.Assign(expr.Name.Lexeme, val)
	}
	if err != nil {
		return nil, runtimeError(expr.Name, "%s", err.Error())
	}
	return val, nil
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator.Type {
	case lexer.Bang:
		return runtime.BoolValue{Val: !runtime.IsTruthy(right)}, nil
	case lexer.Minus:
		num, ok := right.(runtime.NumberValue)
		if !ok {
			return nil, runtimeError(expr.Operator, "invalid operand to unary minus: %s", runtime.Inspect(right))
		}
		return runtime.NumberValue{Val: -num.Val}, nil
	default:
		return nil, runtimeError(expr.Operator, "unsupported unary operator '%s'", expr.Operator.Lexeme)
	}
}

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}

	switch expr.Operator.Type {
	case lexer.EqualEqual:
		return runtime.BoolValue{Val: runtime.Equal(left, right)}, nil
	case lexer.BangEqual:
		return runtime.BoolValue{Val: !runtime.Equal(left, right)}, nil
	case lexer.Plus:
		if l, ok := left.(runtime.StringValue); ok {
			if r, ok := right.(runtime.StringValue); ok {
				return runtime.StringValue{Val: l.Val + r.Val}, nil
			}
		}
	}

	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return nil, runtimeError(expr.Operator, "invalid binary operands for operator '%s': %s and %s",
			expr.Operator.Lexeme, left.Kind(), right.Kind())
	}
	switch expr.Operator.Type {
	case lexer.Plus:
		return runtime.NumberValue{Val: l.Val + r.Val}, nil
	case lexer.Minus:
		return runtime.NumberValue{Val: l.Val - r.Val}, nil
	case lexer.Star:
		return runtime.NumberValue{Val: l.Val * r.Val}, nil
	case lexer.Slash:
		return runtime.NumberValue{Val: l.Val / r.Val}, nil
	case lexer.Greater:
		return runtime.BoolValue{Val: l.Val > r.Val}, nil
	case lexer.GreaterEqual:
		return runtime.BoolValue{Val: l.Val >= r.Val}, nil
	case lexer.Less:
		return runtime.BoolValue{Val: l.Val < r.Val}, nil
	case lexer.LessEqual:
		return runtime.BoolValue{Val: l.Val <= r.Val}, nil
	default:
		return nil, runtimeError(expr.Operator, "unsupported binary operator '%s'", expr.Operator.Lexeme)
	}
}

func (i *Interpreter) evaluateCallExpression(call *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluateExpression(call.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, argExpr := range call.Arguments {
		val, err := i.evaluateExpression(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return i.callValue(callee, args, call.Paren)
}
