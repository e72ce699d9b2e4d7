package parser

import "lox/interpreter-go/pkg/lexer"

func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, kind := range types {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(kind lexer.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == kind
}

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.EOF
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() lexer.Token {
	return p.tokens[p.current-1]
}

// consume advances past a token of the expected type or abandons the current
// declaration.
func (p *Parser) consume(kind lexer.TokenType, message string) lexer.Token {
	if p.check(kind) {
		return p.advance()
	}
	panic(p.fail(p.peek(), message))
}

// report records an error without unwinding.
func (p *Parser) report(token lexer.Token, message string) *Error {
	err := &Error{Token: token, Message: message}
	p.errors++
	if p.onError != nil {
		p.onError(err)
	}
	return err
}

// fail reports an error and returns the value to panic with.
func (p *Parser) fail(token lexer.Token, message string) bailout {
	return bailout{err: p.report(token, message)}
}
