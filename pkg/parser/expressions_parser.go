package parser

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/lexer"
)

func (p *Parser) expression() ast.Expression {
	return p.assignment()
}

// assignment is right-associative. An `=` after anything other than a
// variable or property access is reported but does not unwind: the left side
// is returned as is and the right side is dropped.
func (p *Parser) assignment() ast.Expression {
	expr := p.or()

	if p.match(lexer.Equal) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.VariableExpression:
			return ast.NewAssignmentExpression(target.Name, value)
		case *ast.GetExpression:
			return ast.NewSetExpression(target.Object, target.Name, value)
		}
		p.report(equals, "invalid assignment target")
	}

	return expr
}

func (p *Parser) or() ast.Expression {
	expr := p.and()
	for p.match(lexer.Or) {
		operator := p.previous()
		right := p.and()
		expr = ast.NewLogicalExpression(expr, operator, right)
	}
	return expr
}

func (p *Parser) and() ast.Expression {
	expr := p.equality()
	for p.match(lexer.And) {
		operator := p.previous()
		right := p.equality()
		expr = ast.NewLogicalExpression(expr, operator, right)
	}
	return expr
}

// binaryLevel parses a left-associative chain of operators drawn from ops,
// with operands from next.
func (p *Parser) binaryLevel(next func() ast.Expression, ops ...lexer.TokenType) ast.Expression {
	expr := next()
	for p.match(ops...) {
		operator := p.previous()
		right := next()
		expr = ast.NewBinaryExpression(expr, operator, right)
	}
	return expr
}

func (p *Parser) equality() ast.Expression {
	return p.binaryLevel(p.comparison, lexer.BangEqual, lexer.EqualEqual)
}

func (p *Parser) comparison() ast.Expression {
	return p.binaryLevel(p.term, lexer.Greater, lexer.GreaterEqual, lexer.Less, lexer.LessEqual)
}

func (p *Parser) term() ast.Expression {
	return p.binaryLevel(p.factor, lexer.Minus, lexer.Plus)
}

func (p *Parser) factor() ast.Expression {
	return p.binaryLevel(p.unary, lexer.Slash, lexer.Star)
}

func (p *Parser) unary() ast.Expression {
	if p.match(lexer.Bang, lexer.Minus) {
		operator := p.previous()
		right := p.unary()
		return ast.NewUnaryExpression(operator, right)
	}
	return p.call()
}

func (p *Parser) call() ast.Expression {
	expr := p.primary()
	for {
		switch {
		case p.match(lexer.LeftParen):
			expr = p.finishCall(expr)
		case p.match(lexer.Dot):
			name := p.consume(lexer.Identifier, "expected property name after '.'")
			expr = ast.NewGetExpression(expr, name)
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expression) ast.Expression {
	arguments := make([]ast.Expression, 0)
	if !p.check(lexer.RightParen) {
		for {
			if len(arguments) >= maxArity {
				p.report(p.peek(), fmt.Sprintf("can't have more than %d arguments", maxArity))
			}
			arguments = append(arguments, p.expression())
			if !p.match(lexer.Comma) {
				break
			}
		}
	}
	paren := p.consume(lexer.RightParen, "expected ')' after arguments")
	return ast.NewCallExpression(callee, paren, arguments)
}

func (p *Parser) primary() ast.Expression {
	switch {
	case p.match(lexer.False):
		return ast.NewLiteralExpression(false)
	case p.match(lexer.True):
		return ast.NewLiteralExpression(true)
	case p.match(lexer.Nil):
		return ast.NewLiteralExpression(nil)
	case p.match(lexer.Number, lexer.String):
		return ast.NewLiteralExpression(p.previous().Literal)
	case p.match(lexer.Super):
		keyword := p.previous()
		p.consume(lexer.Dot, "expected '.' after 'super'")
		method := p.consume(lexer.Identifier, "expected superclass method name")
		return ast.NewSuperExpression(keyword, method)
	case p.match(lexer.This):
		return ast.NewThisExpression(p.previous())
	case p.match(lexer.Identifier):
		return ast.NewVariableExpression(p.previous())
	case p.match(lexer.LeftParen):
		expr := p.expression()
		p.consume(lexer.RightParen, "expected ')' after expression")
		return ast.NewGroupingExpression(expr)
	}
	panic(p.fail(p.peek(), "expected expression"))
}
