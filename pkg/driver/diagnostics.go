package driver

import (
	"fmt"
	"strings"

	"lox/interpreter-go/pkg/interpreter"
	"lox/interpreter-go/pkg/lexer"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/resolver"
)

// Phase names the pass that produced a diagnostic.
type Phase string

const (
	PhaseScan    Phase = "scan"
	PhaseParse   Phase = "parse"
	PhaseResolve Phase = "resolve"
	PhaseRuntime Phase = "runtime"
)

// DiagnosticLocation references a source position for diagnostics.
type DiagnosticLocation struct {
	Path   string
	Line   int
	Column int
}

// Diagnostic is one reported error with its source position.
type Diagnostic struct {
	Phase    Phase
	Message  string
	Location DiagnosticLocation
}

// NewDiagnostic converts an error from any pass into a diagnostic. Errors of
// unknown type keep their text and carry no position.
func NewDiagnostic(path string, err error) Diagnostic {
	loc := DiagnosticLocation{Path: path}
	switch e := err.(type) {
	case *lexer.Error:
		loc.Line, loc.Column = e.Line, e.Column
		return Diagnostic{Phase: PhaseScan, Message: e.Message, Location: loc}
	case *parser.Error:
		loc.Line, loc.Column = e.Token.Line, e.Token.Column
		return Diagnostic{Phase: PhaseParse, Message: fmt.Sprintf("%s: %s", e.Where(), e.Message), Location: loc}
	case *resolver.Error:
		loc.Line, loc.Column = e.Token.Line, e.Token.Column
		return Diagnostic{Phase: PhaseResolve, Message: e.Message, Location: loc}
	case *interpreter.RuntimeError:
		loc.Line, loc.Column = e.Token.Line, e.Token.Column
		return Diagnostic{Phase: PhaseRuntime, Message: e.Message, Location: loc}
	default:
		return Diagnostic{Phase: PhaseRuntime, Message: err.Error(), Location: loc}
	}
}

// DescribeDiagnostic formats a diagnostic for CLI output.
func DescribeDiagnostic(diag Diagnostic) string {
	message := strings.TrimSpace(diag.Message)
	location := formatDiagnosticLocation(diag.Location)
	if location != "" {
		return fmt.Sprintf("%s: %s error: %s", location, diag.Phase, message)
	}
	return fmt.Sprintf("%s error: %s", diag.Phase, message)
}

func formatDiagnosticLocation(loc DiagnosticLocation) string {
	path := strings.TrimSpace(loc.Path)
	line := loc.Line
	column := loc.Column
	switch {
	case path != "" && line > 0 && column > 0:
		return fmt.Sprintf("%s:%d:%d", path, line, column)
	case path != "" && line > 0:
		return fmt.Sprintf("%s:%d", path, line)
	case path != "":
		return path
	case line > 0 && column > 0:
		return fmt.Sprintf("line %d, column %d", line, column)
	case line > 0:
		return fmt.Sprintf("line %d", line)
	default:
		return ""
	}
}
