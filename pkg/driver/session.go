package driver

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/interpreter"
	"lox/interpreter-go/pkg/lexer"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/resolver"
	"lox/interpreter-go/pkg/runtime"
)

// Process exit codes for the outcomes of a run.
const (
	ExitOK           = 0
	ExitUsage        = 64
	ExitStaticError  = 65
	ExitRuntimeError = 70
)

// SessionOptions configures a Session. Zero values pick os.Stdout for print
// output, os.Stderr for debug dumps, and DefaultConfig.
type SessionOptions struct {
	Stdout       io.Writer
	Debug        io.Writer
	OnDiagnostic func(Diagnostic)
	// Path labels diagnostics for sources passed to Run.
	Path   string
	Config *Config
	// EchoExpressions makes a program consisting of a single expression
	// statement return its value in RunResult.Value.
	EchoExpressions bool
}

// Stats summarises one run.
type Stats struct {
	Tokens     int
	Nodes      int
	Statements int
	Duration   time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf("tokens: %s  nodes: %s  statements: %s  time: %s",
		humanize.Comma(int64(s.Tokens)),
		humanize.Comma(int64(s.Nodes)),
		humanize.Comma(int64(s.Statements)),
		s.Duration.Round(time.Microsecond))
}

// RunResult reports the outcome of one program run.
type RunResult struct {
	SessionID     uuid.UUID
	ScanErrors    int
	ParseErrors   int
	ResolveErrors int
	RuntimeError  *interpreter.RuntimeError
	// Value holds the echoed expression value, if any.
	Value runtime.Value
	Stats Stats
}

// HadStaticError reports whether scanning, parsing, or resolution failed.
func (r RunResult) HadStaticError() bool {
	return r.ScanErrors+r.ParseErrors+r.ResolveErrors > 0
}

// ExitCode maps the result onto the CLI's process exit codes.
func (r RunResult) ExitCode() int {
	switch {
	case r.HadStaticError():
		return ExitStaticError
	case r.RuntimeError != nil:
		return ExitRuntimeError
	default:
		return ExitOK
	}
}

// Totals counts errors across every run of a session.
type Totals struct {
	Runs          int
	StaticErrors  int
	RuntimeErrors int
}

// Session owns the resolver and interpreter for a sequence of runs. Globals
// persist between runs, so a REPL uses one session for all of its lines.
type Session struct {
	ID uuid.UUID

	opts     SessionOptions
	config   *Config
	resolver *resolver.Resolver
	interp   *interpreter.Interpreter
	totals   Totals

	path        string
	diagnostics []Diagnostic
}

func NewSession(opts SessionOptions) *Session {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Debug == nil {
		opts.Debug = os.Stderr
	}
	config := opts.Config
	if config == nil {
		config = DefaultConfig()
	}
	s := &Session{
		ID:     uuid.New(),
		opts:   opts,
		config: config,
		interp: interpreter.New(),
		path:   opts.Path,
	}
	s.interp.SetStdout(opts.Stdout)
	s.resolver = resolver.New(s.report)
	return s
}

// Interpreter exposes the session's interpreter for host calls.
func (s *Session) Interpreter() *interpreter.Interpreter {
	return s.interp
}

// Totals returns the error counts accumulated over all runs.
func (s *Session) Totals() Totals {
	return s.totals
}

// Diagnostics returns every diagnostic reported so far.
func (s *Session) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), s.diagnostics...)
}

func (s *Session) report(err error) {
	diag := NewDiagnostic(s.path, err)
	s.diagnostics = append(s.diagnostics, diag)
	if s.opts.OnDiagnostic != nil {
		s.opts.OnDiagnostic(diag)
	}
}

// RunFile reads and runs a source file. Only I/O failures are returned as
// errors; program errors are reported in the result.
func (s *Session) RunFile(path string) (RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunResult{SessionID: s.ID}, errors.Wrapf(err, "read %s", path)
	}
	previous := s.path
	s.path = path
	defer func() { s.path = previous }()
	return s.Run(string(data)), nil
}

// Run scans, parses, resolves, and interprets source. Parse errors skip
// resolution and any static error skips interpretation.
func (s *Session) Run(source string) (result RunResult) {
	start := time.Now()
	result.SessionID = s.ID
	s.totals.Runs++
	defer func() {
		result.Stats.Duration = time.Since(start)
		if result.HadStaticError() {
			s.totals.StaticErrors++
		}
		if result.RuntimeError != nil {
			s.totals.RuntimeErrors++
		}
		if s.config.Debug.Stats {
			fmt.Fprintln(s.opts.Debug, result.Stats.String())
		}
	}()

	scanner := lexer.NewScanner(source, s.report)
	tokens := scanner.ScanTokens()
	result.ScanErrors = scanner.ErrorCount()
	result.Stats.Tokens = len(tokens)
	if s.config.Debug.Tokens {
		s.dumpTokens(tokens)
	}

	p := parser.New(tokens, s.report)
	statements := p.Parse()
	result.ParseErrors = p.ErrorCount()
	result.Stats.Statements = len(statements)
	ast.WalkStatements(statements, func(ast.Node) bool {
		result.Stats.Nodes++
		return true
	})
	if s.config.Debug.AST {
		s.dumpAST(statements)
	}
	if result.ParseErrors > 0 {
		return result
	}

	before := s.resolver.ErrorCount()
	locals := s.resolver.Resolve(statements)
	result.ResolveErrors = s.resolver.ErrorCount() - before
	if result.HadStaticError() {
		return result
	}
	s.interp.AddLocals(locals)

	var err error
	if expr, ok := s.echoExpression(statements); ok {
		result.Value, err = s.interp.Evaluate(expr)
	} else {
		err = s.interp.Interpret(statements)
	}
	if err != nil {
		var runtimeErr *interpreter.RuntimeError
		if !errors.As(err, &runtimeErr) {
			runtimeErr = &interpreter.RuntimeError{Message: err.Error()}
		}
		result.RuntimeError = runtimeErr
		result.Value = nil
		s.report(runtimeErr)
	}
	return result
}

func (s *Session) echoExpression(statements []ast.Statement) (ast.Expression, bool) {
	if !s.opts.EchoExpressions || len(statements) != 1 {
		return nil, false
	}
	stmt, ok := statements[0].(*ast.ExpressionStatement)
	if !ok {
		return nil, false
	}
	return stmt.Expression, true
}

// Tokens scans source, reporting scan errors through the session.
func (s *Session) Tokens(source string) []lexer.Token {
	return lexer.NewScanner(source, s.report).ScanTokens()
}

// Parse scans and parses source. ok is false if either pass reported an
// error.
func (s *Session) Parse(source string) ([]ast.Statement, bool) {
	scanner := lexer.NewScanner(source, s.report)
	tokens := scanner.ScanTokens()
	p := parser.New(tokens, s.report)
	statements := p.Parse()
	return statements, scanner.ErrorCount() == 0 && p.ErrorCount() == 0
}

func (s *Session) dumpTokens(tokens []lexer.Token) {
	for _, tok := range tokens {
		fmt.Fprintln(s.opts.Debug, tok.String())
	}
}

func (s *Session) dumpAST(statements []ast.Statement) {
	for _, stmt := range statements {
		fmt.Fprintln(s.opts.Debug, ast.Sprint(stmt))
	}
}
