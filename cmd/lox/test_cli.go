package main

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"lox/interpreter-go/pkg/driver"
)

// TestCliConfig holds `lox test` settings after lox.yml and flags are merged.
type TestCliConfig struct {
	Targets  []string
	Pattern  string
	Parallel int
}

type scriptResult struct {
	path      string
	sessionID uuid.UUID
	exitCode  int
	output    bytes.Buffer
	stats     driver.Stats
	err       error
}

func (r *scriptResult) passed() bool {
	return r.err == nil && r.exitCode == driver.ExitOK
}

func runTests(args []string) int {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return driver.ExitUsage
	}
	cli, err := parseTestArguments(args, config)
	if err != nil {
		fmt.Fprintf(stderr, "lox test: %v\n", err)
		printUsage()
		return driver.ExitUsage
	}

	files, err := discoverScripts(cli.Targets, cli.Pattern)
	if err != nil {
		fmt.Fprintf(stderr, "lox test: %v\n", err)
		return driver.ExitUsage
	}
	if len(files) == 0 {
		fmt.Fprintln(stdout, "no test scripts found")
		return driver.ExitOK
	}

	start := time.Now()
	results := runScripts(context.Background(), config, files, cli.Parallel)
	elapsed := time.Since(start)

	failed := 0
	var tokens int64
	for _, result := range results {
		tokens += int64(result.stats.Tokens)
		if result.passed() {
			fmt.Fprintf(stdout, "ok    %s\n", result.path)
			continue
		}
		failed++
		if result.err != nil {
			fmt.Fprintf(stdout, "FAIL  %s: %v\n", result.path, result.err)
			continue
		}
		fmt.Fprintf(stdout, "FAIL  %s (exit %d, session %s)\n", result.path, result.exitCode, result.sessionID)
		for _, line := range strings.Split(strings.TrimRight(result.output.String(), "\n"), "\n") {
			fmt.Fprintf(stdout, "      %s\n", line)
		}
	}
	fmt.Fprintf(stdout, "%s scripts, %s failed, %s tokens in %s\n",
		humanize.Comma(int64(len(results))),
		humanize.Comma(int64(failed)),
		humanize.Comma(tokens),
		elapsed.Round(time.Millisecond))
	if failed > 0 {
		return 1
	}
	return driver.ExitOK
}

func parseTestArguments(args []string, config *driver.Config) (TestCliConfig, error) {
	cli := TestCliConfig{
		Pattern:  config.Test.Pattern,
		Parallel: config.Test.Parallel,
	}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--pattern":
			val, err := expectFlagValue(arg, nextArg(args, &i))
			if err != nil {
				return TestCliConfig{}, err
			}
			if _, err := filepath.Match(val, ""); err != nil {
				return TestCliConfig{}, fmt.Errorf("--pattern %q is not a valid glob", val)
			}
			cli.Pattern = val
		case "--parallel":
			val, err := expectFlagValue(arg, nextArg(args, &i))
			if err != nil {
				return TestCliConfig{}, err
			}
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return TestCliConfig{}, fmt.Errorf("--parallel expects a positive integer, got %q", val)
			}
			cli.Parallel = n
		default:
			if strings.HasPrefix(arg, "-") {
				return TestCliConfig{}, fmt.Errorf("unknown flag %s", arg)
			}
			cli.Targets = append(cli.Targets, arg)
		}
	}
	if len(cli.Targets) == 0 {
		cli.Targets = config.TestPaths()
	}
	return cli, nil
}

func nextArg(args []string, index *int) string {
	*index = *index + 1
	if *index >= len(args) {
		return ""
	}
	return args[*index]
}

func expectFlagValue(flag string, value string) (string, error) {
	if value == "" || strings.HasPrefix(value, "-") {
		return "", fmt.Errorf("%s expects a value", flag)
	}
	return value, nil
}

// discoverScripts expands directories into the files matching pattern and
// keeps explicitly named files as given. The result is sorted and
// deduplicated.
func discoverScripts(targets []string, pattern string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(filepath.Clean(target))
			continue
		}
		err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != target && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if ok, _ := filepath.Match(pattern, d.Name()); ok {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// runScripts runs every file in its own session under config, at most
// parallel at a time. Results come back in the order of files.
func runScripts(ctx context.Context, config *driver.Config, files []string, parallel int) []*scriptResult {
	results := make([]*scriptResult, len(files))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(parallel)
	for i, path := range files {
		path := path
		result := &scriptResult{path: path}
		results[i] = result
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				result.err = err
				return nil
			}
			session := driver.NewSession(driver.SessionOptions{
				Stdout: &result.output,
				Debug:  &result.output,
				Config: config,
				OnDiagnostic: func(diag driver.Diagnostic) {
					fmt.Fprintln(&result.output, driver.DescribeDiagnostic(diag))
				},
			})
			result.sessionID = session.ID
			outcome, err := session.RunFile(path)
			if err != nil {
				result.err = err
				return nil
			}
			result.exitCode = outcome.ExitCode()
			result.stats = outcome.Stats
			return nil
		})
	}
	_ = group.Wait()
	return results
}
