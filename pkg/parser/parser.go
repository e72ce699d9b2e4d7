package parser

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/lexer"
)

const maxArity = 255

// Error is a syntax error anchored at the offending token.
type Error struct {
	Token   lexer.Token
	Message string
}

// Where describes the offending token: "at end" for EOF, otherwise the
// quoted lexeme.
func (e *Error) Where() string {
	if e.Token.Type == lexer.EOF {
		return "at end"
	}
	return fmt.Sprintf("at '%s'", e.Token.Lexeme)
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", e.Token.Line, e.Token.Column, e.Where(), e.Message)
}

// bailout unwinds the current declaration after an error has been reported.
type bailout struct {
	err *Error
}

// Parser is a recursive-descent parser over a scanned token slice. It reports
// every syntax error through onError and keeps going after each one.
type Parser struct {
	tokens  []lexer.Token
	current int
	onError func(error)
	errors  int
}

// New constructs a parser. tokens must end with an EOF token.
func New(tokens []lexer.Token, onError func(error)) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.EOF {
		line, column := 1, 1
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1]
			line, column = last.Line, last.Column+len(last.Lexeme)
		}
		tokens = append(tokens, lexer.NewToken(lexer.EOF, "", line, column))
	}
	return &Parser{tokens: tokens, onError: onError}
}

// Parse parses declarations until EOF. Declarations that failed to parse are
// left out of the result; callers should check ErrorCount before using it.
func (p *Parser) Parse() []ast.Statement {
	statements := make([]ast.Statement, 0)
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements
}

// ErrorCount returns the number of syntax errors reported so far.
func (p *Parser) ErrorCount() int {
	return p.errors
}

// synchronize discards tokens until the start of the next statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == lexer.Semicolon {
			return
		}
		switch p.peek().Type {
		case lexer.Class, lexer.Fun, lexer.Var, lexer.For, lexer.If, lexer.While, lexer.Return:
			return
		}
		p.advance()
	}
}
