package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"lox/interpreter-go/pkg/driver"
)

const cliToolVersion = "lox 0.1.0-dev"

// Output sinks; tests swap these to capture what the CLI prints.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		if f, ok := stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			return runREPL(nil)
		}
		return runStdin(nil)
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return driver.ExitOK
	case "--version", "-V", "version":
		fmt.Fprintln(stdout, cliToolVersion)
		return driver.ExitOK
	case "run":
		return runEntry(args[1:])
	case "repl":
		return runREPL(args[1:])
	case "test":
		return runTests(args[1:])
	case "tokens":
		return runTokens(args[1:])
	case "ast":
		return runAST(args[1:])
	default:
		return runEntry(args)
	}
}

type runOptions struct {
	path  string
	debug driver.DebugConfig
}

// parseRunArguments accepts an optional source path and the debug flags,
// which override lox.yml.
func parseRunArguments(args []string) (runOptions, error) {
	var opts runOptions
	for _, arg := range args {
		switch arg {
		case "--tokens":
			opts.debug.Tokens = true
		case "--ast":
			opts.debug.AST = true
		case "--stats":
			opts.debug.Stats = true
		default:
			if strings.HasPrefix(arg, "-") && arg != "-" {
				return opts, fmt.Errorf("unknown flag %s", arg)
			}
			if opts.path != "" {
				return opts, fmt.Errorf("unexpected argument %s", arg)
			}
			opts.path = arg
		}
	}
	return opts, nil
}

func (o runOptions) apply(config *driver.Config) {
	config.Debug.Tokens = config.Debug.Tokens || o.debug.Tokens
	config.Debug.AST = config.Debug.AST || o.debug.AST
	config.Debug.Stats = config.Debug.Stats || o.debug.Stats
}

func runEntry(args []string) int {
	opts, err := parseRunArguments(args)
	if err != nil {
		fmt.Fprintf(stderr, "lox run: %v\n", err)
		printUsage()
		return driver.ExitUsage
	}
	if opts.path == "" || opts.path == "-" {
		return runStdin(args)
	}
	config, err := loadConfig(opts.path)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return driver.ExitUsage
	}
	opts.apply(config)

	session := newSession(config, opts.path, false)
	result, err := session.RunFile(opts.path)
	if err != nil {
		fmt.Fprintf(stderr, "lox: %v\n", err)
		return driver.ExitUsage
	}
	return result.ExitCode()
}

func runStdin(args []string) int {
	opts, err := parseRunArguments(args)
	if err != nil {
		fmt.Fprintf(stderr, "lox: %v\n", err)
		printUsage()
		return driver.ExitUsage
	}
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return driver.ExitUsage
	}
	opts.apply(config)

	source, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "lox: %v\n", errors.Wrap(err, "read standard input"))
		return driver.ExitUsage
	}
	session := newSession(config, "<stdin>", false)
	return session.Run(string(source)).ExitCode()
}

func newSession(config *driver.Config, path string, echo bool) *driver.Session {
	return driver.NewSession(driver.SessionOptions{
		Stdout:          stdout,
		Debug:           stderr,
		OnDiagnostic:    reportDiagnostic,
		Path:            path,
		Config:          config,
		EchoExpressions: echo,
	})
}

func reportDiagnostic(diag driver.Diagnostic) {
	fmt.Fprintln(stderr, driver.DescribeDiagnostic(diag))
}

// loadConfig finds lox.yml at or above start. A missing file yields the
// defaults.
func loadConfig(start string) (*driver.Config, error) {
	path, err := driver.FindConfig(start)
	if err != nil {
		if errors.Is(err, driver.ErrConfigNotFound) {
			return driver.DefaultConfig(), nil
		}
		return nil, err
	}
	return driver.LoadConfig(path)
}
