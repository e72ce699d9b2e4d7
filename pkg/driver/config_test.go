package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "debug:\n  stats: true\n")
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !config.Debug.Stats || config.Debug.Tokens || config.Debug.AST {
		t.Fatalf("unexpected debug settings %+v", config.Debug)
	}
	if config.REPL.Prompt != "> " {
		t.Fatalf("expected default prompt, got %q", config.REPL.Prompt)
	}
	if config.Test.Pattern != "*.lox" || config.Test.Parallel != 4 || len(config.Test.Paths) != 1 {
		t.Fatalf("unexpected test defaults %+v", config.Test)
	}
	if config.Path != path {
		t.Fatalf("Path = %q, want %q", config.Path, path)
	}
}

func TestLoadConfigReadsEverySection(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
debug:
  tokens: true
  ast: true
repl:
  prompt: "lox> "
  history: .history
test:
  paths: [tests, more]
  pattern: "*_test.lox"
  parallel: 2
`)
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !config.Debug.Tokens || !config.Debug.AST {
		t.Fatalf("unexpected debug settings %+v", config.Debug)
	}
	if config.REPL.Prompt != "lox> " {
		t.Fatalf("Prompt = %q", config.REPL.Prompt)
	}
	history, err := config.HistoryPath()
	if err != nil {
		t.Fatalf("HistoryPath: %v", err)
	}
	if history != filepath.Join(dir, ".history") {
		t.Fatalf("HistoryPath = %q", history)
	}
	paths := config.TestPaths()
	if len(paths) != 2 || paths[0] != filepath.Join(dir, "tests") || paths[1] != filepath.Join(dir, "more") {
		t.Fatalf("TestPaths = %v", paths)
	}
	if config.Test.Pattern != "*_test.lox" || config.Test.Parallel != 2 {
		t.Fatalf("unexpected test settings %+v", config.Test)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "debug:\n  verbose: true\n")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "verbose") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadConfigEmptyFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
repl:
  prompt: ""
test:
  paths: [""]
  pattern: "["
  parallel: 0
`)
	_, err := LoadConfig(path)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(validation.Issues) != 4 {
		t.Fatalf("expected 4 issues, got %v", validation.Issues)
	}
	message := validation.Error()
	for _, want := range []string{"repl.prompt", "test.parallel", "test.pattern", "test.paths[0]"} {
		if !strings.Contains(message, want) {
			t.Fatalf("expected %q in %q", want, message)
		}
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "debug:\n  ast: false\n")
	child := filepath.Join(root, "src", "app")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := FindConfig(child)
	if err != nil {
		t.Fatalf("FindConfig returned error: %v", err)
	}
	if want := filepath.Join(root, ConfigFileName); found != want {
		t.Fatalf("FindConfig = %q, want %q", found, want)
	}
}

func TestHistoryPathDefaultsToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := DefaultConfig().HistoryPath()
	if err != nil {
		t.Fatalf("HistoryPath: %v", err)
	}
	if want := filepath.Join(home, ".lox_history"); got != want {
		t.Fatalf("HistoryPath = %q, want %q", got, want)
	}

	config := DefaultConfig()
	config.REPL.History = "~/hist/lox"
	got, err = config.HistoryPath()
	if err != nil {
		t.Fatalf("HistoryPath: %v", err)
	}
	if want := filepath.Join(home, "hist", "lox"); got != want {
		t.Fatalf("HistoryPath = %q, want %q", got, want)
	}
}
