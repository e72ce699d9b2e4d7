package lexer

import (
	"fmt"
	"strconv"
)

// TokenType identifies the lexeme class of a token.
type TokenType int

const (
	// Single-character tokens.
	LeftParen TokenType = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star

	// One or two character tokens.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals.
	Identifier
	String
	Number

	// Keywords.
	And
	Class
	Else
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	EOF
)

var tokenTypeNames = [...]string{
	LeftParen:    "LEFT_PAREN",
	RightParen:   "RIGHT_PAREN",
	LeftBrace:    "LEFT_BRACE",
	RightBrace:   "RIGHT_BRACE",
	Comma:        "COMMA",
	Dot:          "DOT",
	Minus:        "MINUS",
	Plus:         "PLUS",
	Semicolon:    "SEMICOLON",
	Slash:        "SLASH",
	Star:         "STAR",
	Bang:         "BANG",
	BangEqual:    "BANG_EQUAL",
	Equal:        "EQUAL",
	EqualEqual:   "EQUAL_EQUAL",
	Greater:      "GREATER",
	GreaterEqual: "GREATER_EQUAL",
	Less:         "LESS",
	LessEqual:    "LESS_EQUAL",
	Identifier:   "IDENTIFIER",
	String:       "STRING",
	Number:       "NUMBER",
	And:          "AND",
	Class:        "CLASS",
	Else:         "ELSE",
	False:        "FALSE",
	Fun:          "FUN",
	For:          "FOR",
	If:           "IF",
	Nil:          "NIL",
	Or:           "OR",
	Print:        "PRINT",
	Return:       "RETURN",
	Super:        "SUPER",
	This:         "THIS",
	True:         "TRUE",
	Var:          "VAR",
	While:        "WHILE",
	EOF:          "EOF",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return fmt.Sprintf("TOKEN_%d", int(t))
}

// Keywords reclassifies identifiers that match a reserved word.
var Keywords = map[string]TokenType{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

var symbols = map[string]TokenType{
	"(":  LeftParen,
	")":  RightParen,
	"{":  LeftBrace,
	"}":  RightBrace,
	",":  Comma,
	".":  Dot,
	"-":  Minus,
	"+":  Plus,
	";":  Semicolon,
	"/":  Slash,
	"*":  Star,
	"!":  Bang,
	"!=": BangEqual,
	"=":  Equal,
	"==": EqualEqual,
	">":  Greater,
	">=": GreaterEqual,
	"<":  Less,
	"<=": LessEqual,
}

// LookupSymbol maps punctuation or operator text to its token type.
func LookupSymbol(lexeme string) (TokenType, bool) {
	t, ok := symbols[lexeme]
	return t, ok
}

// Token is an immutable lexeme with its source position. Literal holds the
// decoded value for STRING (string) and NUMBER (float64) tokens.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any
	Line    int
	Column  int
}

// NewToken builds a token without a literal value.
func NewToken(kind TokenType, lexeme string, line, column int) Token {
	return Token{Type: kind, Lexeme: lexeme, Line: line, Column: column}
}

// String renders the token the way `lox tokens` dumps it.
func (t Token) String() string {
	lexeme := t.Lexeme
	switch v := t.Literal.(type) {
	case string:
		lexeme = strconv.Quote(v)
	case float64:
		lexeme = strconv.FormatFloat(v, 'f', -1, 64)
	}
	if lexeme == "" {
		return fmt.Sprintf("%s %d:%d", t.Type, t.Line, t.Column)
	}
	return fmt.Sprintf("%s %s %d:%d", t.Type, lexeme, t.Line, t.Column)
}
