package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/driver"
)

func readSourceArg(command string, args []string) (string, string, int) {
	if len(args) != 1 {
		fmt.Fprintf(stderr, "lox %s expects exactly one source file\n", command)
		printUsage()
		return "", "", driver.ExitUsage
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "lox: %v\n", errors.Wrapf(err, "read %s", args[0]))
		return "", "", driver.ExitUsage
	}
	return args[0], string(data), driver.ExitOK
}

// runTokens prints one token per line.
func runTokens(args []string) int {
	path, source, code := readSourceArg("tokens", args)
	if code != driver.ExitOK {
		return code
	}
	failed := false
	session := driver.NewSession(driver.SessionOptions{
		Stdout: stdout,
		Path:   path,
		OnDiagnostic: func(diag driver.Diagnostic) {
			failed = true
			reportDiagnostic(diag)
		},
	})
	for _, tok := range session.Tokens(source) {
		fmt.Fprintln(stdout, tok.String())
	}
	if failed {
		return driver.ExitStaticError
	}
	return driver.ExitOK
}

// runAST prints each parsed statement in parenthesized form.
func runAST(args []string) int {
	path, source, code := readSourceArg("ast", args)
	if code != driver.ExitOK {
		return code
	}
	session := driver.NewSession(driver.SessionOptions{
		Stdout:       stdout,
		Path:         path,
		OnDiagnostic: reportDiagnostic,
	})
	statements, ok := session.Parse(source)
	for _, stmt := range statements {
		fmt.Fprintln(stdout, ast.Sprint(stmt))
	}
	if !ok {
		return driver.ExitStaticError
	}
	return driver.ExitOK
}
