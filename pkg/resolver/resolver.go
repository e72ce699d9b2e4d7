package resolver

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/lexer"
)

// Locals maps a variable, assignment, this, or super node to the number of
// environments between its use and its binding. Nodes missing from the map
// are globals.
type Locals map[ast.NodeID]int

type ErrorKind int

const (
	SelfReferencingInitializer ErrorKind = iota
	DuplicateVariable
	TopLevelReturn
	InvalidInitializerReturn
	InvalidThis
	SuperOutsideClass
	SuperWithoutSuperclass
	SelfInheritance
)

func (k ErrorKind) String() string {
	switch k {
	case SelfReferencingInitializer:
		return "self-referencing initializer"
	case DuplicateVariable:
		return "duplicate variable"
	case TopLevelReturn:
		return "top-level return"
	case InvalidInitializerReturn:
		return "initializer return value"
	case InvalidThis:
		return "invalid this"
	case SuperOutsideClass:
		return "super outside class"
	case SuperWithoutSuperclass:
		return "super without superclass"
	case SelfInheritance:
		return "self inheritance"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a static scoping error anchored at a token.
type Error struct {
	Kind    ErrorKind
	Token   lexer.Token
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Token.Line, e.Token.Column, e.Message)
}

type functionType int

const (
	functionNone functionType = iota
	functionPlain
	functionInitializer
	functionMethod
)

type classType int

const (
	classNone classType = iota
	classPlain
	classSubclass
)

// Resolver computes scope distances for local variable references and checks
// the placement rules for return, this, and super. Errors are reported
// through onError and never stop the pass.
type Resolver struct {
	scopes          []map[string]bool
	locals          Locals
	currentFunction functionType
	currentClass    classType
	onError         func(error)
	errors          int
}

func New(onError func(error)) *Resolver {
	return &Resolver{onError: onError}
}

// Resolve walks a program and returns the distances it found. Each call
// starts from an empty scope stack and returns a fresh map.
func (r *Resolver) Resolve(statements []ast.Statement) Locals {
	r.scopes = nil
	r.locals = make(Locals)
	r.currentFunction = functionNone
	r.currentClass = classNone
	r.resolveStatements(statements)
	return r.locals
}

// ErrorCount returns the number of errors reported so far.
func (r *Resolver) ErrorCount() int {
	return r.errors
}

func (r *Resolver) report(kind ErrorKind, token lexer.Token, message string) {
	r.errors++
	if r.onError != nil {
		r.onError(&Error{Kind: kind, Token: token, Message: message})
	}
}

func (r *Resolver) resolveStatements(statements []ast.Statement) {
	for _, stmt := range statements {
		r.resolveStatement(stmt)
	}
}

func (r *Resolver) resolveStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		r.beginScope()
		r.resolveStatements(s.Statements)
		r.endScope()
	case *ast.ClassDeclaration:
		r.resolveClass(s)
	case *ast.ExpressionStatement:
		r.resolveExpression(s.Expression)
	case *ast.FunctionDeclaration:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, functionPlain)
	case *ast.IfStatement:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.ThenBranch)
		if s.ElseBranch != nil {
			r.resolveStatement(s.ElseBranch)
		}
	case *ast.PrintStatement:
		r.resolveExpression(s.Expression)
	case *ast.ReturnStatement:
		if r.currentFunction == functionNone {
			r.report(TopLevelReturn, s.Keyword, "can't return from top-level code")
		}
		if s.Value != nil {
			if r.currentFunction == functionInitializer {
				r.report(InvalidInitializerReturn, s.Keyword, "can't return a value from an initializer")
			}
			r.resolveExpression(s.Value)
		}
	case *ast.VarDeclaration:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpression(s.Initializer)
		}
		r.define(s.Name)
	case *ast.WhileLoop:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.Body)
	case nil:
	default:
		panic(fmt.Sprintf("resolver: unsupported statement %s", stmt.NodeType()))
	}
}

func (r *Resolver) resolveClass(s *ast.ClassDeclaration) {
	enclosingClass := r.currentClass
	r.currentClass = classPlain
	defer func() { r.currentClass = enclosingClass }()

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.report(SelfInheritance, s.Superclass.Name, "a class can't inherit from itself")
		}
		r.currentClass = classSubclass
		r.resolveExpression(s.Superclass)

		r.beginScopeWith("super")
		defer r.endScope()
	}

	r.beginScopeWith("this")
	for _, method := range s.Methods {
		kind := functionMethod
		if method.Name.Lexeme == "init" {
			kind = functionInitializer
		}
		r.resolveFunction(method, kind)
	}
	r.endScope()
}

func (r *Resolver) resolveFunction(fn *ast.FunctionDeclaration, kind functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStatements(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) resolveExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.AssignmentExpression:
		r.resolveExpression(e.Value)
		r.resolveLocal(e, e.Name)
	case *ast.BinaryExpression:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *ast.CallExpression:
		r.resolveExpression(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpression(arg)
		}
	case *ast.GetExpression:
		r.resolveExpression(e.Object)
	case *ast.GroupingExpression:
		r.resolveExpression(e.Expression)
	case *ast.LiteralExpression:
	case *ast.LogicalExpression:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *ast.SetExpression:
		r.resolveExpression(e.Value)
		r.resolveExpression(e.Object)
	case *ast.SuperExpression:
		switch r.currentClass {
		case classNone:
			r.report(SuperOutsideClass, e.Keyword, "can't use 'super' outside of a class")
		case classPlain:
			r.report(SuperWithoutSuperclass, e.Keyword, "can't use 'super' in a class with no superclass")
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.ThisExpression:
		if r.currentClass == classNone {
			r.report(InvalidThis, e.Keyword, "can't use 'this' outside of a class")
			return
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.UnaryExpression:
		r.resolveExpression(e.Right)
	case *ast.VariableExpression:
		if len(r.scopes) > 0 {
			if ready, declared := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; declared && !ready {
				r.report(SelfReferencingInitializer, e.Name,
					fmt.Sprintf("can't read local variable '%s' in its own initializer", e.Name.Lexeme))
			}
		}
		r.resolveLocal(e, e.Name)
	case nil:
	default:
		panic(fmt.Sprintf("resolver: unsupported expression %s", expr.NodeType()))
	}
}

// resolveLocal records the distance to the innermost scope declaring name.
func (r *Resolver) resolveLocal(expr ast.Expression, name lexer.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr.ID()] = len(r.scopes) - 1 - i
			return
		}
	}
}
