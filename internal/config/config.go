package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/harrison/multifast/internal/display"
	"github.com/harrison/multifast/internal/fileutil"
	"github.com/harrison/multifast/internal/logger"
	"gopkg.in/yaml.v3"
)

// ErrUsage marks invalid command-line usage.
var ErrUsage = errors.New("usage error")

// WalkConfig controls how directory inputs are expanded in search mode
type WalkConfig struct {
	// Recursive descends into subdirectories
	Recursive bool `yaml:"recursive"`

	// ExcludeDirs lists directory names that are never entered
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// Extensions limits expanded files to these extensions (empty = all)
	Extensions []string `yaml:"extensions"`

	// IncludeHidden also enters directories whose name starts with "."
	IncludeHidden bool `yaml:"include_hidden"`

	// MaxDepth limits recursion depth (0 = unlimited)
	MaxDepth int `yaml:"max_depth"`

	// Pattern is a regular expression expanded file names must match
	Pattern string `yaml:"pattern"`
}

// Config represents multifast defaults read from a YAML file
type Config struct {
	// LogLevel sets the diagnostics verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir, when set, also writes a run log file there
	LogDir string `yaml:"log_dir"`

	// Insensitive matches ASCII letters case-insensitively
	Insensitive bool `yaml:"insensitive"`

	// FindFirst stops each file after its first match
	FindFirst bool `yaml:"find_first"`

	// LazyReplace selects the lazy substitution mode
	LazyReplace bool `yaml:"lazy_replace"`

	// OutputFields lists the match line fields: item, dpos, xpos, id, pattern
	OutputFields []string `yaml:"output_fields"`

	// Color is auto, always or never
	Color string `yaml:"color"`

	// Walk configures directory expansion
	Walk WalkConfig `yaml:"walk"`
}

// DefaultConfig returns a Config with the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "error",
		Color:    "auto",
		Walk: WalkConfig{
			Recursive:   true,
			ExcludeDirs: []string{".git"},
		},
	}
}

// LoadConfig loads configuration from the specified file path.
// A missing file yields the defaults; a malformed one is an error.
// Keys present in the file override the defaults, even when set to a zero value.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Overrides carries command-line values. Nil fields were not given.
type Overrides struct {
	LogLevel     *string
	LogDir       *string
	Insensitive  *bool
	FindFirst    *bool
	LazyReplace  *bool
	OutputFields []string
	Color        *string
}

// MergeWithFlags applies command-line overrides on top of the file values.
// A non-empty OutputFields replaces the configured list.
func (c *Config) MergeWithFlags(o Overrides) {
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
	if o.LogDir != nil {
		c.LogDir = *o.LogDir
	}
	if o.Insensitive != nil {
		c.Insensitive = *o.Insensitive
	}
	if o.FindFirst != nil {
		c.FindFirst = *o.FindFirst
	}
	if o.LazyReplace != nil {
		c.LazyReplace = *o.LazyReplace
	}
	if len(o.OutputFields) > 0 {
		c.OutputFields = o.OutputFields
	}
	if o.Color != nil {
		c.Color = *o.Color
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if !logger.IsValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color %q, must be one of: auto, always, never", c.Color)
	}

	if _, err := display.ParseFields(c.OutputFields); err != nil {
		return fmt.Errorf("invalid output_fields: %w", err)
	}

	if c.Walk.MaxDepth < 0 {
		return fmt.Errorf("walk.max_depth must be >= 0, got %d", c.Walk.MaxDepth)
	}
	if _, err := regexp.Compile(c.Walk.Pattern); err != nil {
		return fmt.Errorf("invalid walk.pattern: %w", err)
	}
	return nil
}

// Mode is what a run does with its inputs.
type Mode int

const (
	// ModeSearch reports pattern occurrences.
	ModeSearch Mode = iota
	// ModeReplace writes substituted copies of the inputs.
	ModeReplace
)

func (m Mode) String() string {
	if m == ModeReplace {
		return "replace"
	}
	return "search"
}

// RunConfig is the resolved, read-only configuration of one run.
type RunConfig struct {
	Mode        Mode
	PatternFile string
	// OutputDir is the replace root; "-" writes to standard output
	OutputDir   string
	Inputs      []string
	Insensitive bool
	FindFirst   bool
	LazyReplace bool
	Fields      display.Fields
	LogLevel    string
	LogDir      string
	Color       string
	Walk        fileutil.ScanOptions
}

// Resolve validates c against the command-line arguments and freezes the
// result. replaceMode is set when an output directory was given. Usage
// problems wrap ErrUsage. LazyReplace only takes effect in replace mode.
func (c *Config) Resolve(patternFile, outputDir string, replaceMode bool, inputs []string) (RunConfig, error) {
	if err := c.Validate(); err != nil {
		return RunConfig{}, err
	}
	if strings.TrimSpace(patternFile) == "" {
		return RunConfig{}, fmt.Errorf("%w: a pattern file is required (-P)", ErrUsage)
	}
	if len(inputs) == 0 {
		return RunConfig{}, fmt.Errorf("%w: no input file was specified", ErrUsage)
	}

	fields, _ := display.ParseFields(c.OutputFields)

	rc := RunConfig{
		Mode:        ModeSearch,
		PatternFile: patternFile,
		Inputs:      append([]string(nil), inputs...),
		Insensitive: c.Insensitive,
		FindFirst:   c.FindFirst,
		Fields:      fields.WithDefaults(),
		LogLevel:    strings.ToLower(strings.TrimSpace(c.LogLevel)),
		LogDir:      c.LogDir,
		Color:       c.Color,
		Walk: fileutil.ScanOptions{
			Recursive:     c.Walk.Recursive,
			ExcludeDirs:   append([]string(nil), c.Walk.ExcludeDirs...),
			Extensions:    append([]string(nil), c.Walk.Extensions...),
			IncludeHidden: c.Walk.IncludeHidden,
			MaxDepth:      c.Walk.MaxDepth,
			Pattern:       c.Walk.Pattern,
		},
	}
	if replaceMode {
		rc.Mode = ModeReplace
		rc.OutputDir = outputDir
		rc.LazyReplace = c.LazyReplace
	}
	return rc, nil
}
