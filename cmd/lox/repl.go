package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"lox/interpreter-go/pkg/driver"
	"lox/interpreter-go/pkg/lexer"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/runtime"
)

const continuationPrompt = ". "

func runREPL(args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(stderr, "lox repl: unexpected argument %s\n", args[0])
		printUsage()
		return driver.ExitUsage
	}
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return driver.ExitUsage
	}
	historyPath, err := config.HistoryPath()
	if err != nil {
		fmt.Fprintf(stderr, "warning: %v; history disabled\n", err)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	session := newSession(config, "", true)
	for {
		code, ok := readByParseProbe(ln, config.REPL.Prompt, continuationPrompt)
		if !ok {
			fmt.Fprintln(stdout)
			break
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if handleReplCommand(session, trimmed) {
				return driver.ExitOK
			}
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		result := session.Run(code)
		if result.Value != nil && result.Value.Kind() != runtime.KindNil {
			fmt.Fprintln(stdout, runtime.Stringify(result.Value))
		}
	}
	return driver.ExitOK
}

// handleReplCommand runs a ':' command and reports whether the REPL should
// exit.
func handleReplCommand(session *driver.Session, command string) (exit bool) {
	switch strings.ToLower(command) {
	case ":quit", ":q", ":exit":
		return true
	case ":globals":
		for _, name := range session.Interpreter().Globals().Keys() {
			fmt.Fprintln(stdout, name)
		}
	case ":stats":
		totals := session.Totals()
		fmt.Fprintf(stdout, "session %s: %d runs, %d static errors, %d runtime errors\n",
			session.ID, totals.Runs, totals.StaticErrors, totals.RuntimeErrors)
	case ":help":
		fmt.Fprintln(stdout, ":globals  list global names")
		fmt.Fprintln(stdout, ":stats    show error counts for this session")
		fmt.Fprintln(stdout, ":quit     leave the REPL")
	default:
		fmt.Fprintln(stdout, "unknown command. Type :help for a list.")
	}
	return false
}

// readByParseProbe keeps prompting while the buffered input ends in the
// middle of a declaration or string.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !isIncomplete(src) {
			return src, true
		}
	}
}

// isIncomplete reports whether source fails only because it ended early with
// a parse error at end of input. Scan errors end the input, since no later
// line can close a string.
func isIncomplete(source string) bool {
	scanner := lexer.NewScanner(source, nil)
	tokens := scanner.ScanTokens()
	if scanner.ErrorCount() > 0 {
		return false
	}
	incomplete := false
	failed := false
	parser.New(tokens, func(err error) {
		var parseErr *parser.Error
		if errors.As(err, &parseErr) && parseErr.Token.Type == lexer.EOF {
			incomplete = true
			return
		}
		failed = true
	}).Parse()
	return incomplete && !failed
}
