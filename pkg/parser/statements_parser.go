package parser

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/lexer"
)

// declaration parses one declaration. A syntax error inside it unwinds here,
// the parser resynchronizes, and nil is returned.
func (p *Parser) declaration() (stmt ast.Statement) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			p.synchronize()
			stmt = nil
		}
	}()

	switch {
	case p.match(lexer.Class):
		return p.classDeclaration()
	case p.match(lexer.Fun):
		return p.function("function")
	case p.match(lexer.Var):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() ast.Statement {
	name := p.consume(lexer.Identifier, "expected class name")

	var superclass *ast.VariableExpression
	if p.match(lexer.Less) {
		p.consume(lexer.Identifier, "expected superclass name")
		superclass = ast.NewVariableExpression(p.previous())
	}

	p.consume(lexer.LeftBrace, "expected '{' before class body")
	methods := make([]*ast.FunctionDeclaration, 0)
	for !p.check(lexer.RightBrace) && !p.isAtEnd() {
		methods = append(methods, p.function("method"))
	}
	p.consume(lexer.RightBrace, "expected '}' after class body")

	return ast.NewClassDeclaration(name, superclass, methods)
}

// function parses the rest of a function or method declaration; kind only
// shapes the error messages.
func (p *Parser) function(kind string) *ast.FunctionDeclaration {
	name := p.consume(lexer.Identifier, fmt.Sprintf("expected %s name", kind))
	p.consume(lexer.LeftParen, fmt.Sprintf("expected '(' after %s name", kind))
	params := make([]lexer.Token, 0)
	if !p.check(lexer.RightParen) {
		for {
			if len(params) >= maxArity {
				p.report(p.peek(), fmt.Sprintf("can't have more than %d parameters", maxArity))
			}
			params = append(params, p.consume(lexer.Identifier, "expected parameter name"))
			if !p.match(lexer.Comma) {
				break
			}
		}
	}
	p.consume(lexer.RightParen, "expected ')' after parameters")
	p.consume(lexer.LeftBrace, fmt.Sprintf("expected '{' before %s body", kind))
	body := p.block()
	return ast.NewFunctionDeclaration(name, params, body)
}

func (p *Parser) varDeclaration() ast.Statement {
	name := p.consume(lexer.Identifier, "expected variable name")
	var initializer ast.Expression
	if p.match(lexer.Equal) {
		initializer = p.expression()
	}
	p.consume(lexer.Semicolon, "expected ';' after variable declaration")
	return ast.NewVarDeclaration(name, initializer)
}

func (p *Parser) statement() ast.Statement {
	switch {
	case p.match(lexer.For):
		return p.forStatement()
	case p.match(lexer.If):
		return p.ifStatement()
	case p.match(lexer.Print):
		return p.printStatement()
	case p.match(lexer.Return):
		return p.returnStatement()
	case p.match(lexer.While):
		return p.whileStatement()
	case p.match(lexer.LeftBrace):
		return ast.NewBlockStatement(p.block())
	default:
		return p.expressionStatement()
	}
}

// forStatement desugars `for (init; cond; incr) body` into
// `{ init; while (cond) { body; incr; } }`.
func (p *Parser) forStatement() ast.Statement {
	p.consume(lexer.LeftParen, "expected '(' after 'for'")

	var initializer ast.Statement
	switch {
	case p.match(lexer.Semicolon):
	case p.match(lexer.Var):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expression
	if !p.check(lexer.Semicolon) {
		condition = p.expression()
	}
	p.consume(lexer.Semicolon, "expected ';' after loop condition")

	var increment ast.Expression
	if !p.check(lexer.RightParen) {
		increment = p.expression()
	}
	p.consume(lexer.RightParen, "expected ')' after for clauses")

	body := p.statement()
	if increment != nil {
		body = ast.NewBlockStatement([]ast.Statement{body, ast.NewExpressionStatement(increment)})
	}
	if condition == nil {
		condition = ast.NewLiteralExpression(true)
	}
	body = ast.NewWhileLoop(condition, body)
	if initializer != nil {
		body = ast.NewBlockStatement([]ast.Statement{initializer, body})
	}
	return body
}

func (p *Parser) ifStatement() ast.Statement {
	p.consume(lexer.LeftParen, "expected '(' after 'if'")
	condition := p.expression()
	p.consume(lexer.RightParen, "expected ')' after if condition")

	thenBranch := p.statement()
	var elseBranch ast.Statement
	if p.match(lexer.Else) {
		elseBranch = p.statement()
	}
	return ast.NewIfStatement(condition, thenBranch, elseBranch)
}

func (p *Parser) printStatement() ast.Statement {
	value := p.expression()
	p.consume(lexer.Semicolon, "expected ';' after value")
	return ast.NewPrintStatement(value)
}

func (p *Parser) returnStatement() ast.Statement {
	keyword := p.previous()
	var value ast.Expression
	if !p.check(lexer.Semicolon) {
		value = p.expression()
	}
	p.consume(lexer.Semicolon, "expected ';' after return value")
	return ast.NewReturnStatement(keyword, value)
}

func (p *Parser) whileStatement() ast.Statement {
	p.consume(lexer.LeftParen, "expected '(' after 'while'")
	condition := p.expression()
	p.consume(lexer.RightParen, "expected ')' after condition")
	body := p.statement()
	return ast.NewWhileLoop(condition, body)
}

func (p *Parser) block() []ast.Statement {
	statements := make([]ast.Statement, 0)
	for !p.check(lexer.RightBrace) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	p.consume(lexer.RightBrace, "expected '}' after block")
	return statements
}

func (p *Parser) expressionStatement() ast.Statement {
	expr := p.expression()
	p.consume(lexer.Semicolon, "expected ';' after expression")
	return ast.NewExpressionStatement(expr)
}
