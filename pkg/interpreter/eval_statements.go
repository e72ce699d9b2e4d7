package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) executeStatement(node ast.Statement, env *runtime.Environment) error {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		_, err := i.evaluateExpression(n.Expression, env)
		return err
	case *ast.PrintStatement:
		val, err := i.evaluateExpression(n.Expression, env)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(i.stdout, runtime.Stringify(val))
		return err
	case *ast.VarDeclaration:
		var val runtime.Value = runtime.Nil
		if n.Initializer != nil {
			v, err := i.evaluateExpression(n.Initializer, env)
			if err != nil {
				return err
			}
			val = v
		}
		env.Define(n.Name.Lexeme, val)
		return nil
	case *ast.BlockStatement:
		return i.executeStatements(n.Statements, runtime.NewEnvironment(env))
	case *ast.IfStatement:
		cond, err := i.evaluateExpression(n.Condition, env)
		if err != nil {
			return err
		}
		if runtime.IsTruthy(cond) {
			return i.executeStatement(n.ThenBranch, env)
		}
		if n.ElseBranch != nil {
			return i.executeStatement(n.ElseBranch, env)
		}
		return nil
	case *ast.WhileLoop:
		return i.executeWhileLoop(n, env)
	case *ast.FunctionDeclaration:
		env.Define(n.Name.Lexeme, &runtime.FunctionValue{Declaration: n, Closure: env})
		return nil
	case *ast.ReturnStatement:
		var result runtime.Value = runtime.Nil
		if n.Value != nil {
			val, err := i.evaluateExpression(n.Value, env)
			if err != nil {
				return err
			}
			result = val
		}
		return returnSignal{value: result}
	case *ast.ClassDeclaration:
		return i.executeClassDeclaration(n, env)
	default:
		return fmt.Errorf("unsupported statement type: %s", node.NodeType())
	}
}

// executeStatements runs statements in env, which the caller has already
// created for the block or call.
func (i *Interpreter) executeStatements(statements []ast.Statement, env *runtime.Environment) error {
	for _, stmt := range statements {
		if err := i.executeStatement(stmt, env); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) executeWhileLoop(loop *ast.WhileLoop, env *runtime.Environment) error {
	for {
		cond, err := i.evaluateExpression(loop.Condition, env)
		if err != nil {
			return err
		}
		if !runtime.IsTruthy(cond) {
			return nil
		}
		if err := i.executeStatement(loop.Body, env); err != nil {
			return err
		}
	}
}

// executeClassDeclaration binds the class name before building methods so
// that method bodies can refer to the class, then assigns the finished class.
func (i *Interpreter) executeClassDeclaration(decl *ast.ClassDeclaration, env *runtime.Environment) error {
	var superclass *runtime.ClassValue
	if decl.Superclass != nil {
		val, err := i.evaluateExpression(decl.Superclass, env)
		if err != nil {
			return err
		}
		class, ok := val.(*runtime.ClassValue)
		if !ok {
			return runtimeError(decl.Superclass.Name, "superclass '%s' is not a class", decl.Superclass.Name.Lexeme)
		}
		superclass = class
	}

	env.Declare(decl.Name.Lexeme)

	methodEnv := env
	if superclass != nil {
		methodEnv = runtime.NewEnvironment(env)
		methodEnv.Define("super", superclass)
	}

	methods := make(map[string]*runtime.FunctionValue, len(decl.Methods))
	for _, method := range decl.Methods {
		methods[method.Name.Lexeme] = &runtime.FunctionValue{
			Declaration:   method,
			Closure:       methodEnv,
			IsInitializer: method.Name.Lexeme == "init",
		}
	}

	class := &runtime.ClassValue{Name: decl.Name.Lexeme, Superclass: superclass, Methods: methods}
	if err := env.Assign(decl.Name.Lexeme, class); err != nil {
		return runtimeError(decl.Name, "%s", err.Error())
	}
	return nil
}
