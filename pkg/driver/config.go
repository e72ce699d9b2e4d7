package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the project configuration file discovered by FindConfig.
const ConfigFileName = "lox.yml"

// ErrConfigNotFound is the cause returned by FindConfig when no file exists.
var ErrConfigNotFound = errors.New(ConfigFileName + " not found")

const (
	defaultPrompt       = "> "
	defaultHistoryName  = ".lox_history"
	defaultTestPattern  = "*.lox"
	defaultTestParallel = 4
)

// Config represents the parsed contents of lox.yml.
type Config struct {
	Path  string
	Debug DebugConfig
	REPL  REPLConfig
	Test  TestConfig
}

// DebugConfig toggles the dumps a session writes before and after a run.
type DebugConfig struct {
	Tokens bool
	AST    bool
	Stats  bool
}

type REPLConfig struct {
	Prompt  string
	History string
}

// TestConfig drives `lox test`.
type TestConfig struct {
	Paths    []string
	Pattern  string
	Parallel int
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed")
	if e.Path != "" {
		b.WriteString(" for ")
		b.WriteString(e.Path)
	}
	b.WriteString(":")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// DefaultConfig returns the settings used when no lox.yml exists.
func DefaultConfig() *Config {
	return &Config{
		REPL: REPLConfig{Prompt: defaultPrompt},
		Test: TestConfig{
			Paths:    []string{"."},
			Pattern:  defaultTestPattern,
			Parallel: defaultTestParallel,
		},
	}
}

// HistoryPath returns the REPL history file. A leading "~/" expands to the
// user's home directory; an empty setting means ~/.lox_history. Relative
// paths are taken relative to the config file.
func (c *Config) HistoryPath() (string, error) {
	history := strings.TrimSpace(c.REPL.History)
	if history == "" || history == "~" || strings.HasPrefix(history, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "config: resolve home directory")
		}
		if history == "" {
			return filepath.Join(home, defaultHistoryName), nil
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(history, "~"), "/")), nil
	}
	if filepath.IsAbs(history) || c.Path == "" {
		return filepath.Clean(history), nil
	}
	return filepath.Join(filepath.Dir(c.Path), history), nil
}

// TestPaths returns the configured search roots, made absolute against the
// config file's directory.
func (c *Config) TestPaths() []string {
	paths := make([]string, 0, len(c.Test.Paths))
	for _, p := range c.Test.Paths {
		if filepath.IsAbs(p) || c.Path == "" {
			paths = append(paths, filepath.Clean(p))
			continue
		}
		paths = append(paths, filepath.Join(filepath.Dir(c.Path), filepath.FromSlash(p)))
	}
	return paths
}

// LoadConfig parses lox.yml from disk, returning a validated config with
// defaults applied to omitted keys.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: resolve %s", path)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, errors.Wrapf(err, "config: open %s", absPath)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.Errorf("config: %s is empty", absPath)
		}
		return nil, errors.Wrapf(err, "config: parse %s", absPath)
	}

	config := raw.toConfig(absPath)
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// FindConfig walks up from start looking for lox.yml. The returned error
// wraps ErrConfigNotFound when the search reaches the filesystem root.
func FindConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", errors.Wrapf(err, "resolve start directory %q", start)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", errors.Wrapf(err, "stat %s", candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Wrapf(ErrConfigNotFound, "no %s found from %s upwards", ConfigFileName, origin)
		}
		dir = parent
	}
}

func (c *Config) validate() error {
	errs := ValidationError{Path: c.Path}
	if c.REPL.Prompt == "" {
		errs.Issues = append(errs.Issues, "repl.prompt must not be empty")
	}
	if c.Test.Parallel < 1 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("test.parallel must be at least 1, got %d", c.Test.Parallel))
	}
	if _, err := filepath.Match(c.Test.Pattern, ""); err != nil {
		errs.Issues = append(errs.Issues, fmt.Sprintf("test.pattern %q is not a valid glob", c.Test.Pattern))
	}
	if len(c.Test.Paths) == 0 {
		errs.Issues = append(errs.Issues, "test.paths must list at least one path")
	}
	for i, p := range c.Test.Paths {
		if strings.TrimSpace(p) == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("test.paths[%d] must be a non-empty string", i))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

type configFile struct {
	Debug *debugSection `yaml:"debug"`
	REPL  *replSection  `yaml:"repl"`
	Test  *testSection  `yaml:"test"`
}

type debugSection struct {
	Tokens bool `yaml:"tokens"`
	AST    bool `yaml:"ast"`
	Stats  bool `yaml:"stats"`
}

type replSection struct {
	Prompt  *string `yaml:"prompt"`
	History string  `yaml:"history"`
}

type testSection struct {
	Paths    []string `yaml:"paths"`
	Pattern  *string  `yaml:"pattern"`
	Parallel *int     `yaml:"parallel"`
}

func (f configFile) toConfig(path string) *Config {
	config := DefaultConfig()
	config.Path = path
	if f.Debug != nil {
		config.Debug = DebugConfig{Tokens: f.Debug.Tokens, AST: f.Debug.AST, Stats: f.Debug.Stats}
	}
	if f.REPL != nil {
		if f.REPL.Prompt != nil {
			config.REPL.Prompt = *f.REPL.Prompt
		}
		config.REPL.History = f.REPL.History
	}
	if f.Test != nil {
		if f.Test.Paths != nil {
			config.Test.Paths = append([]string(nil), f.Test.Paths...)
		}
		if f.Test.Pattern != nil {
			config.Test.Pattern = *f.Test.Pattern
		}
		if f.Test.Parallel != nil {
			config.Test.Parallel = *f.Test.Parallel
		}
	}
	return config
}
