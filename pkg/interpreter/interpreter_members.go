package interpreter

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/lexer"
	"lox/interpreter-go/pkg/runtime"
)

// callValue dispatches a call to a function, native, or class. paren locates
// any error raised by the call itself.
func (i *Interpreter) callValue(callee runtime.Value, args []runtime.Value, paren lexer.Token) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		if err := checkArity(paren, fn.Name(), fn.Arity(), len(args)); err != nil {
			return nil, err
		}
		return i.invokeFunction(fn, args)
	case *runtime.NativeFunctionValue:
		if err := checkArity(paren, fn.Name, fn.Arity, len(args)); err != nil {
			return nil, err
		}
		val, err := fn.Impl(&runtime.NativeCallContext{Globals: i.global}, args)
		if err != nil {
			if rtErr, ok := err.(*RuntimeError); ok {
				return nil, rtErr
			}
			return nil, runtimeError(paren, "%s", err.Error())
		}
		if val == nil {
			val = runtime.Nil
		}
		return val, nil
	case *runtime.ClassValue:
		if err := checkArity(paren, fn.Name, fn.Arity(), len(args)); err != nil {
			return nil, err
		}
		return i.instantiate(fn, args)
	default:
		return nil, runtimeError(paren, "can only call functions and classes")
	}
}

func checkArity(paren lexer.Token, name string, expected, received int) error {
	if expected == received {
		return nil
	}
	return runtimeError(paren, "function %s expects %d argument(s), received %d", name, expected, received)
}

// invokeFunction runs a user function body in a fresh environment under its
// closure. A return signal stops here; initializers always yield `this`.
func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	env := runtime.NewEnvironment(fn.Closure)
	for idx, param := range fn.Declaration.Params {
		env.Define(param.Lexeme, args[idx])
	}

	result := runtime.Nil
	if err := i.executeStatements(fn.Declaration.Body, env); err != nil {
		ret, ok := err.(returnSignal)
		if !ok {
			return nil, err
		}
		result = ret.value
	}

	if fn.IsInitializer {
		this, err := fn.Closure.GetAt(0, "this")
		if err != nil {
			return nil, runtimeError(fn.Declaration.Name, "%s", err.Error())
		}
		return this, nil
	}
	return result, nil
}

func (i *Interpreter) instantiate(class *runtime.ClassValue, args []runtime.Value) (runtime.Value, error) {
	instance := runtime.NewInstance(class)
	if initializer, ok := class.FindMethod("init"); ok {
		if _, err := i.invokeFunction(initializer.Bind(instance), args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (i *Interpreter) evaluateGetExpression(expr *ast.GetExpression, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluateExpression(expr.Object, env)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*runtime.InstanceValue)
	if !ok {
		return nil, runtimeError(expr.Name, "invalid property lookup '%s' on non-instance %s", expr.Name.Lexeme, runtime.Inspect(object))
	}
	val, ok := instance.Get(expr.Name.Lexeme)
	if !ok {
		return nil, runtimeError(expr.Name, "undefined property '%s'", expr.Name.Lexeme)
	}
	return val, nil
}

func (i *Interpreter) evaluateSetExpression(expr *ast.SetExpression, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluateExpression(expr.Object, env)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*runtime.InstanceValue)
	if !ok {
		return nil, runtimeError(expr.Name, "invalid property assignment '%s' on non-instance %s", expr.Name.Lexeme, runtime.Inspect(object))
	}
	val, err := i.evaluateExpression(expr.Value, env)
	if err != nil {
		return nil, err
	}
	instance.Set(expr.Name.Lexeme, val)
	return val, nil
}

// evaluateSuperExpression finds the superclass one scope above `this` and
// binds the method found there to the current instance.
func (i *Interpreter) evaluateSuperExpression(expr *ast.SuperExpression, env *runtime.Environment) (runtime.Value, error) {
	distance, ok := i.locals[expr.ID()]
	if !ok {
		return nil, runtimeError(expr.Keyword, "unresolved 'super'")
	}
	superVal, err := env.GetAt(distance, "super")
	if err != nil {
		return nil, runtimeError(expr.Keyword, "%s", err.Error())
	}
	superclass, ok := superVal.(*runtime.ClassValue)
	if !ok {
		return nil, runtimeError(expr.Keyword, "'super' is not a class")
	}
	thisVal, err := env.GetAt(distance-1, "this")
	if err != nil {
		return nil, runtimeError(expr.Keyword, "%s", err.Error())
	}
	instance, ok := thisVal.(*runtime.InstanceValue)
	if !ok {
		return nil, runtimeError(expr.Keyword, "'this' is not an instance")
	}

	method, ok := superclass.FindMethod(expr.Method.Lexeme)
	if !ok {
		return nil, runtimeError(expr.Method, "undefined property '%s'", expr.Method.Lexeme)
	}
	return method.Bind(instance), nil
}
