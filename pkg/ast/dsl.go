package ast

import (
	"fmt"

	"lox/interpreter-go/pkg/lexer"
)

// Token helpers. Positions are left at zero.

func Ident(name string) lexer.Token {
	return lexer.NewToken(lexer.Identifier, name, 0, 0)
}

// Op returns the token for an operator, punctuation mark, or keyword.
func Op(lexeme string) lexer.Token {
	if kind, ok := lexer.LookupSymbol(lexeme); ok {
		return lexer.NewToken(kind, lexeme, 0, 0)
	}
	if kind, ok := lexer.Keywords[lexeme]; ok {
		return lexer.NewToken(kind, lexeme, 0, 0)
	}
	panic(fmt.Sprintf("ast: unknown operator %q", lexeme))
}

// Literal helpers.

func Num(value float64) *LiteralExpression {
	return NewLiteralExpression(value)
}

func Str(value string) *LiteralExpression {
	return NewLiteralExpression(value)
}

func Bool(value bool) *LiteralExpression {
	return NewLiteralExpression(value)
}

func Nil() *LiteralExpression {
	return NewLiteralExpression(nil)
}

// Expression helpers.

func ID(name string) *VariableExpression {
	return NewVariableExpression(Ident(name))
}

func Group(inner Expression) *GroupingExpression {
	return NewGroupingExpression(inner)
}

func Un(op string, right Expression) *UnaryExpression {
	return NewUnaryExpression(Op(op), right)
}

func Bin(op string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(left, Op(op), right)
}

func Logic(op string, left, right Expression) *LogicalExpression {
	return NewLogicalExpression(left, Op(op), right)
}

func Assign(name string, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(Ident(name), value)
}

func Call(callee Expression, args ...Expression) *CallExpression {
	return NewCallExpression(callee, Op(")"), args)
}

func Get(object Expression, name string) *GetExpression {
	return NewGetExpression(object, Ident(name))
}

func Set(object Expression, name string, value Expression) *SetExpression {
	return NewSetExpression(object, Ident(name), value)
}

func This() *ThisExpression {
	return NewThisExpression(Op("this"))
}

func Super(method string) *SuperExpression {
	return NewSuperExpression(Op("super"), Ident(method))
}

// Statement helpers.

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func Print(expr Expression) *PrintStatement {
	return NewPrintStatement(expr)
}

func Decl(name string, initializer Expression) *VarDeclaration {
	return NewVarDeclaration(Ident(name), initializer)
}

func Block(statements ...Statement) *BlockStatement {
	return NewBlockStatement(statements)
}

func If(condition Expression, thenBranch, elseBranch Statement) *IfStatement {
	return NewIfStatement(condition, thenBranch, elseBranch)
}

func While(condition Expression, body Statement) *WhileLoop {
	return NewWhileLoop(condition, body)
}

func Fun(name string, params []string, body ...Statement) *FunctionDeclaration {
	tokens := make([]lexer.Token, len(params))
	for i, param := range params {
		tokens[i] = Ident(param)
	}
	return NewFunctionDeclaration(Ident(name), tokens, body)
}

func Ret(value Expression) *ReturnStatement {
	return NewReturnStatement(Op("return"), value)
}

// Class builds a class declaration; superclass may be empty.
func Class(name, superclass string, methods ...*FunctionDeclaration) *ClassDeclaration {
	var super *VariableExpression
	if superclass != "" {
		super = ID(superclass)
	}
	return NewClassDeclaration(Ident(name), super, methods)
}
