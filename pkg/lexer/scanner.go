package lexer

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/rivo/uniseg"
)

// Error reports an invalid character or an unterminated string.
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Scanner turns source text into tokens in a single forward pass. Source is
// consumed one extended grapheme cluster at a time, so columns count
// user-perceived characters rather than bytes.
type Scanner struct {
	source  string
	tokens  []Token
	start   int
	current int
	line    int
	column  int

	startLine   int
	startColumn int

	onError func(error)
	errors  int
}

// NewScanner prepares a scanner. onError may be nil; it is invoked once per
// scan error and scanning continues afterwards.
func NewScanner(source string, onError func(error)) *Scanner {
	return &Scanner{
		source:  source,
		line:    1,
		column:  1,
		onError: onError,
	}
}

// ScanTokens scans the whole source. The result always ends with exactly one
// EOF token positioned just past the last character.
func (s *Scanner) ScanTokens() []Token {
	for !s.isAtEnd() {
		s.start = s.current
		s.startLine, s.startColumn = s.line, s.column
		s.scanToken()
	}
	s.tokens = append(s.tokens, NewToken(EOF, "", s.line, s.column))
	return s.tokens
}

// ErrorCount returns the number of errors reported so far.
func (s *Scanner) ErrorCount() int {
	return s.errors
}

func (s *Scanner) scanToken() {
	c := s.advance()
	switch c {
	case "(":
		s.addToken(LeftParen)
	case ")":
		s.addToken(RightParen)
	case "{":
		s.addToken(LeftBrace)
	case "}":
		s.addToken(RightBrace)
	case ",":
		s.addToken(Comma)
	case ".":
		s.addToken(Dot)
	case "-":
		s.addToken(Minus)
	case "+":
		s.addToken(Plus)
	case ";":
		s.addToken(Semicolon)
	case "*":
		s.addToken(Star)
	case "!":
		s.addToken(s.either("=", BangEqual, Bang))
	case "=":
		s.addToken(s.either("=", EqualEqual, Equal))
	case "<":
		s.addToken(s.either("=", LessEqual, Less))
	case ">":
		s.addToken(s.either("=", GreaterEqual, Greater))
	case "/":
		if s.match("/") {
			for !s.isAtEnd() && !isNewline(s.peek()) {
				s.advance()
			}
			return
		}
		s.addToken(Slash)
	case `"`:
		s.string()
	case " ", "\r", "\t", "\n", "\r\n":
	default:
		switch {
		case isDigit(c):
			s.number()
		case isAlpha(c):
			s.identifier()
		default:
			s.report(fmt.Sprintf("unexpected character '%s'", c))
		}
	}
}

func (s *Scanner) string() {
	for !s.isAtEnd() && s.peek() != `"` && !isNewline(s.peek()) {
		s.advance()
	}
	if s.isAtEnd() || isNewline(s.peek()) {
		s.report("unterminated string")
		return
	}
	s.advance()
	s.addLiteral(String, s.source[s.start+1:s.current-1])
}

func (s *Scanner) number() {
	for isDigit(s.peek()) {
		s.advance()
	}
	// A trailing '.' without digits stays behind as its own DOT token.
	if s.peek() == "." && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	// Digit runs beyond float64 range scan as +Inf.
	value, err := strconv.ParseFloat(s.source[s.start:s.current], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		s.report(fmt.Sprintf("invalid number '%s'", s.source[s.start:s.current]))
		return
	}
	s.addLiteral(Number, value)
}

func (s *Scanner) identifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	text := s.source[s.start:s.current]
	if kind, ok := Keywords[text]; ok {
		s.addToken(kind)
		return
	}
	s.addToken(Identifier)
}

func (s *Scanner) either(next string, matched, single TokenType) TokenType {
	if s.match(next) {
		return matched
	}
	return single
}

func (s *Scanner) addToken(kind TokenType) {
	s.addLiteral(kind, nil)
}

func (s *Scanner) addLiteral(kind TokenType, literal any) {
	s.tokens = append(s.tokens, Token{
		Type:    kind,
		Lexeme:  s.source[s.start:s.current],
		Literal: literal,
		Line:    s.startLine,
		Column:  s.startColumn,
	})
}

func (s *Scanner) report(message string) {
	s.errors++
	if s.onError != nil {
		s.onError(&Error{Message: message, Line: s.startLine, Column: s.startColumn})
	}
}

func (s *Scanner) match(expected string) bool {
	if s.isAtEnd() || s.peek() != expected {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) advance() string {
	c := s.peek()
	s.current += len(c)
	if isNewline(c) {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return c
}

func (s *Scanner) peek() string {
	if s.isAtEnd() {
		return ""
	}
	return firstCluster(s.source[s.current:])
}

func (s *Scanner) peekNext() string {
	if s.isAtEnd() {
		return ""
	}
	rest := s.source[s.current+len(s.peek()):]
	if rest == "" {
		return ""
	}
	return firstCluster(rest)
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

// firstCluster returns the leading grapheme cluster of a non-empty string.
// Two ASCII bytes other than CR LF always form a boundary, which keeps the
// common case off the segmentation tables.
func firstCluster(text string) string {
	if text[0] < 0x80 && (len(text) == 1 || (text[1] < 0x80 && !(text[0] == '\r' && text[1] == '\n'))) {
		return text[:1]
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(text, -1)
	return cluster
}

func isNewline(c string) bool {
	return c == "\n" || c == "\r\n"
}

func isDigit(c string) bool {
	return len(c) == 1 && c[0] >= '0' && c[0] <= '9'
}

func isAlpha(c string) bool {
	if len(c) != 1 {
		return false
	}
	b := c[0]
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isAlphaNumeric(c string) bool {
	return isAlpha(c) || isDigit(c)
}
