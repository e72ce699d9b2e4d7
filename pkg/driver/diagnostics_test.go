package driver

import (
	"errors"
	"testing"

	"lox/interpreter-go/pkg/interpreter"
	"lox/interpreter-go/pkg/lexer"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/resolver"
)

func TestNewDiagnosticPhases(t *testing.T) {
	semicolon := lexer.NewToken(lexer.Semicolon, ";", 2, 7)
	eof := lexer.NewToken(lexer.EOF, "", 3, 1)
	cases := []struct {
		err     error
		phase   Phase
		message string
		line    int
		column  int
	}{
		{&lexer.Error{Message: "unterminated string", Line: 1, Column: 4}, PhaseScan, "unterminated string", 1, 4},
		{&parser.Error{Token: semicolon, Message: "expected expression"}, PhaseParse, "at ';': expected expression", 2, 7},
		{&parser.Error{Token: eof, Message: "expected ';' after value"}, PhaseParse, "at end: expected ';' after value", 3, 1},
		{&resolver.Error{Token: semicolon, Message: "can't return from top-level code"}, PhaseResolve, "can't return from top-level code", 2, 7},
		{&interpreter.RuntimeError{Token: semicolon, Message: "boom"}, PhaseRuntime, "boom", 2, 7},
		{errors.New("disk on fire"), PhaseRuntime, "disk on fire", 0, 0},
	}
	for _, tc := range cases {
		diag := NewDiagnostic("", tc.err)
		if diag.Phase != tc.phase || diag.Message != tc.message ||
			diag.Location.Line != tc.line || diag.Location.Column != tc.column {
			t.Fatalf("NewDiagnostic(%v) = %+v", tc.err, diag)
		}
	}
}

func TestDescribeDiagnostic(t *testing.T) {
	cases := []struct {
		diag Diagnostic
		want string
	}{
		{
			Diagnostic{Phase: PhaseParse, Message: "at end: expected ';' after value", Location: DiagnosticLocation{Path: "main.lox", Line: 3, Column: 1}},
			"main.lox:3:1: parse error: at end: expected ';' after value",
		},
		{
			Diagnostic{Phase: PhaseRuntime, Message: "undefined variable 'x'", Location: DiagnosticLocation{Line: 2, Column: 7}},
			"line 2, column 7: runtime error: undefined variable 'x'",
		},
		{
			Diagnostic{Phase: PhaseScan, Message: "unexpected character '@'", Location: DiagnosticLocation{Path: "a.lox", Line: 4}},
			"a.lox:4: scan error: unexpected character '@'",
		},
		{
			Diagnostic{Phase: PhaseRuntime, Message: "stdout closed"},
			"runtime error: stdout closed",
		},
	}
	for _, tc := range cases {
		if got := DescribeDiagnostic(tc.diag); got != tc.want {
			t.Fatalf("DescribeDiagnostic = %q, want %q", got, tc.want)
		}
	}
}
