package interpreter

import (
	"fmt"
	"io"
	"os"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/lexer"
	"lox/interpreter-go/pkg/resolver"
	"lox/interpreter-go/pkg/runtime"
)

// Interpreter evaluates resolved Lox statements. Globals and resolved
// distances accumulate across Interpret calls, so one interpreter can run a
// REPL session line by line.
type Interpreter struct {
	global *runtime.Environment
	locals resolver.Locals
	stdout io.Writer
}

// New returns an interpreter whose globals hold the native functions.
func New() *Interpreter {
	i := &Interpreter{
		global: runtime.NewEnvironment(nil),
		locals: make(resolver.Locals),
		stdout: os.Stdout,
	}
	i.registerNatives()
	return i
}

// SetStdout redirects `print` output.
func (i *Interpreter) SetStdout(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	i.stdout = w
}

// Globals returns the interpreter's global environment.
func (i *Interpreter) Globals() *runtime.Environment {
	return i.global
}

// AddLocals merges resolver output into the interpreter's side table.
func (i *Interpreter) AddLocals(locals resolver.Locals) {
	for id, distance := range locals {
		i.locals[id] = distance
	}
}

// Interpret executes statements in order against the global environment. The
// first runtime error stops the run and is returned as a *RuntimeError.
func (i *Interpreter) Interpret(statements []ast.Statement) error {
	for _, stmt := range statements {
		if err := i.executeStatement(stmt, i.global); err != nil {
			if _, ok := err.(returnSignal); ok {
				panic("interpreter: return signal escaped its function")
			}
			return err
		}
	}
	return nil
}

// Evaluate evaluates a single expression against the global environment.
func (i *Interpreter) Evaluate(expr ast.Expression) (runtime.Value, error) {
	return i.evaluateExpression(expr, i.global)
}

// CallFunction invokes a callable value from host code.
func (i *Interpreter) CallFunction(callee runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return i.callValue(callee, args, lexer.NewToken(lexer.RightParen, ")", 0, 0))
}

// RuntimeError aborts the current run. Token locates the failing operation.
type RuntimeError struct {
	Token   lexer.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Token.Line, e.Token.Column, e.Message)
}

func runtimeError(token lexer.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: token, Message: fmt.Sprintf(format, args...)}
}

// returnSignal unwinds a function body back to its call.
type returnSignal struct {
	value runtime.Value
}

func (r returnSignal) Error() string {
	return "return"
}
