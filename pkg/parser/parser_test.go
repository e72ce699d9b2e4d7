package parser_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/lexer"
	"lox/interpreter-go/pkg/parser"
)

func parseSource(t *testing.T, source string) ([]ast.Statement, []*parser.Error) {
	t.Helper()
	tokens := lexer.NewScanner(source, func(err error) {
		t.Fatalf("scan error: %v", err)
	}).ScanTokens()
	var errs []*parser.Error
	p := parser.New(tokens, func(err error) {
		var parseErr *parser.Error
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected *parser.Error, got %T", err)
		}
		errs = append(errs, parseErr)
	})
	stmts := p.Parse()
	if p.ErrorCount() != len(errs) {
		t.Fatalf("ErrorCount() = %d, callback saw %d", p.ErrorCount(), len(errs))
	}
	return stmts, errs
}

func sprintAll(stmts []ast.Statement) string {
	parts := make([]string, len(stmts))
	for i, stmt := range stmts {
		parts[i] = ast.Sprint(stmt)
	}
	return strings.Join(parts, "\n")
}

func TestParseStatements(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"precedence", "print -123 * (45.67);", "(print (* (- 123) (group 45.67)))"},
		{"term and factor", "1 + 2 * 3 - 4 / 5;", "(; (- (+ 1 (* 2 3)) (/ 4 5)))"},
		{"comparison and equality", "1 < 2 == 3 >= 4 != !true;", "(; (!= (== (< 1 2) (>= 3 4)) (! true)))"},
		{"logical", "a or b and c;", "(; (or a (and b c)))"},
		{"assignment is right associative", "a = b = 1;", "(; (= a (= b 1)))"},
		{"property set", "a.b.c = nil;", "(; (set (. a b) c nil))"},
		{"call chain", `f(1)("x").g();`, `(; (call (. (call (call f 1) "x") g)))`},
		{"var", "var a; var b = false;", "(var a)\n(var b false)"},
		{"block", "{ var a = 1; print a; }", "(block (var a 1) (print a))"},
		{"dangling else", "if (a) if (b) print 1; else print 2;", "(if a (if-else b (print 1) (print 2)))"},
		{"while", "while (x) x = x - 1;", "(while x (; (= x (- x 1))))"},
		{"function", "fun add(a, b) { return a + b; }", "(fun add (a b) (return (+ a b)))"},
		{"bare return", "fun f() { return; }", "(fun f () (return))"},
		{"class", "class B < A { init(x) { this.x = x; } m() { return super.m(); } }",
			"(class B < A (fun init (x) (; (set this x x))) (fun m () (return (call (super m)))))"},
		{"empty class", "class A {}", "(class A)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stmts, errs := parseSource(t, tc.source)
			if len(errs) != 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if got := sprintAll(stmts); got != tc.want {
				t.Fatalf("expected\n%s\ngot\n%s", tc.want, got)
			}
		})
	}
}

func TestParseForDesugarsToWhile(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{
			"for (var i = 0; i < 3; i = i + 1) print i;",
			"(block (var i 0) (while (< i 3) (block (print i) (; (= i (+ i 1))))))",
		},
		{"for (;;) print 1;", "(while true (print 1))"},
		{"for (i = 0; ; ) {}", "(block (; (= i 0)) (while true (block)))"},
	}
	for _, tc := range cases {
		stmts, errs := parseSource(t, tc.source)
		if len(errs) != 0 {
			t.Fatalf("%s: unexpected errors: %v", tc.source, errs)
		}
		if got := sprintAll(stmts); got != tc.want {
			t.Fatalf("%s:\nexpected %s\ngot      %s", tc.source, tc.want, got)
		}
	}
}

func TestParseRecoversAndReportsEachError(t *testing.T) {
	stmts, errs := parseSource(t, "var = 1; print 2; print ;\nprint 3;")
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	if errs[0].Message != "expected variable name" || errs[0].Where() != "at '='" {
		t.Fatalf("unexpected first error: %v", errs[0])
	}
	if errs[1].Message != "expected expression" || errs[1].Where() != "at ';'" {
		t.Fatalf("unexpected second error: %v", errs[1])
	}
	if got, want := sprintAll(stmts), "(print 2)\n(print 3)"; got != want {
		t.Fatalf("expected surviving statements %q, got %q", want, got)
	}
}

func TestParseErrorPositions(t *testing.T) {
	_, errs := parseSource(t, "print 1\nprint 2;")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	err := errs[0]
	if err.Message != "expected ';' after value" || err.Token.Line != 2 || err.Token.Column != 1 {
		t.Fatalf("unexpected error %v", err)
	}
	if got := err.Error(); got != "2:1: at 'print': expected ';' after value" {
		t.Fatalf("unexpected error string %q", got)
	}

	_, errs = parseSource(t, "print (1")
	if len(errs) != 1 || errs[0].Where() != "at end" || errs[0].Message != "expected ')' after expression" {
		t.Fatalf("unexpected errors at end: %v", errs)
	}
}

// The invalid target is reported, yet the statement survives with the right
// side dropped.
func TestParseInvalidAssignmentTargetDoesNotUnwind(t *testing.T) {
	stmts, errs := parseSource(t, "a + b = c; print 1;")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if errs[0].Message != "invalid assignment target" || errs[0].Where() != "at '='" {
		t.Fatalf("unexpected error %v", errs[0])
	}
	if got, want := sprintAll(stmts), "(; (+ a b))\n(print 1)"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParseTooManyArgumentsIsReportedNotFatal(t *testing.T) {
	args := make([]string, 256)
	params := make([]string, 256)
	for i := range args {
		args[i] = fmt.Sprint(i)
		params[i] = fmt.Sprintf("p%d", i)
	}
	source := fmt.Sprintf("f(%s);\nfun g(%s) {}", strings.Join(args, ", "), strings.Join(params, ", "))
	stmts, errs := parseSource(t, source)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	if errs[0].Message != "can't have more than 255 arguments" {
		t.Fatalf("unexpected error %v", errs[0])
	}
	if errs[1].Message != "can't have more than 255 parameters" {
		t.Fatalf("unexpected error %v", errs[1])
	}
	if len(stmts) != 2 {
		t.Fatalf("expected both statements to survive, got %d", len(stmts))
	}
	call := stmts[0].(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	if len(call.Arguments) != 256 {
		t.Fatalf("expected 256 arguments, got %d", len(call.Arguments))
	}
}

func TestParseErrorInsideBlockKeepsParsing(t *testing.T) {
	stmts, errs := parseSource(t, "{ print ; print 1; }\nprint 2;")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if got, want := sprintAll(stmts), "(block (print 1))\n(print 2)"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParseSuperRequiresMethodName(t *testing.T) {
	_, errs := parseSource(t, "super;")
	if len(errs) != 1 || errs[0].Message != "expected '.' after 'super'" {
		t.Fatalf("unexpected errors %v", errs)
	}
}
