package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/sat-pdf-parser/internal/output"
	"github.com/a3tai/sat-pdf-parser/internal/question"
)

const (
	// Mode constants
	ModeCLI   = "cli"
	ModeStdio = "stdio"

	// Default values
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultWorkers     = 1

	// EnvPrefix prefixes every environment variable, e.g. SAT_PARSER_SET_NAME
	EnvPrefix = "SAT_PARSER"
)

var (
	// ErrVersionRequested is returned when --version/-v is present
	ErrVersionRequested = errors.New("version requested")
	// ErrHelpRequested is returned when --help/-h is present
	ErrHelpRequested = pflag.ErrHelp
)

// Config holds all configuration for a parser run
type Config struct {
	Mode string // "cli" or "stdio"

	// Input and output
	InputPath  string
	OutputPath string // explicit override; empty means OutputDir/<stem>.json
	OutputDir  string
	SetName    string

	// Parsing
	Workers int
	Strict  bool

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Mode:        ModeCLI,
		OutputDir:   output.DefaultDir,
		SetName:     question.DefaultSetName,
		Workers:     DefaultWorkers,
		Version:     "1.0.0",
		ServerName:  "sat-pdf-parser",
		LogLevel:    DefaultLogLevel,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// LoadFromFlags parses os.Args and the environment
func LoadFromFlags() (*Config, error) {
	return LoadFromArgs(os.Args[0], os.Args[1:], os.Stderr)
}

// LoadFromArgs parses args (without the program name) and SAT_PARSER_* environment
// variables. Flags win over environment, environment over defaults.
func LoadFromArgs(program string, args []string, usageOut io.Writer) (*Config, error) {
	cfg := DefaultConfig()

	if checkVersionFlag(args) {
		return nil, ErrVersionRequested
	}

	v := setupViperEnvironment(cfg)
	fs := defineCommandLineFlags(program, cfg)
	fs.SetOutput(usageOut)
	setupUsageMessage(fs, program, usageOut)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	populateConfigFromViper(v, cfg)

	switch fs.NArg() {
	case 0:
	case 1:
		cfg.InputPath = fs.Arg(0)
	default:
		return nil, fmt.Errorf("expected one input PDF, got %d arguments", fs.NArg())
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("output", cfg.OutputPath)
	v.SetDefault("output-dir", cfg.OutputDir)
	v.SetDefault("set-name", cfg.SetName)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("strict", cfg.Strict)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
	return v
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(program string, cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet(program, pflag.ContinueOnError)
	fs.String("mode", cfg.Mode, "Run mode: 'cli' to convert one PDF, 'stdio' to serve MCP tools over standard I/O")
	fs.StringP("output", "o", cfg.OutputPath, "Output JSON file path (default: <output-dir>/<input name>.json)")
	fs.String("output-dir", cfg.OutputDir, "Directory for the default output path, created if absent")
	fs.StringP("set-name", "n", cfg.SetName, "Name for this question set")
	fs.Int("workers", cfg.Workers, "Number of question blocks parsed concurrently")
	fs.Bool("strict", cfg.Strict, "Reject questions whose correct answer is not one of the choices")
	fs.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	return fs
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage(fs *pflag.FlagSet, program string, w io.Writer) {
	fs.Usage = func() {
		fmt.Fprintf(w, "Usage: %s [options] <input.pdf>\n", program)
		fmt.Fprintf(w, "\nExtract SAT questions from College Board PDF format\n\n")
		fmt.Fprintf(w, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(w, "\nExamples:\n")
		fmt.Fprintf(w, "  %s practice-test-1.pdf                       # writes output/practice-test-1.json\n", program)
		fmt.Fprintf(w, "  %s -o banks/rw.json -n \"Reading & Writing\" rw.pdf\n", program)
		fmt.Fprintf(w, "  %s --mode=stdio                              # MCP server on stdin/stdout\n", program)
		fmt.Fprintf(w, "\nEnvironment Variables:\n")
		fmt.Fprintf(w, "  SAT_PARSER_MODE         Run mode\n")
		fmt.Fprintf(w, "  SAT_PARSER_OUTPUT       Output JSON file path\n")
		fmt.Fprintf(w, "  SAT_PARSER_OUTPUT_DIR   Default output directory\n")
		fmt.Fprintf(w, "  SAT_PARSER_SET_NAME     Question set name\n")
		fmt.Fprintf(w, "  SAT_PARSER_WORKERS      Concurrent block parsers\n")
		fmt.Fprintf(w, "  SAT_PARSER_STRICT       Require the answer among the choices\n")
		fmt.Fprintf(w, "  SAT_PARSER_LOGLEVEL     Log level\n")
		fmt.Fprintf(w, "  SAT_PARSER_MAXFILESIZE  Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return true
		}
	}
	return false
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.OutputPath = v.GetString("output")
	cfg.OutputDir = v.GetString("output-dir")
	cfg.SetName = v.GetString("set-name")
	cfg.Workers = v.GetInt("workers")
	cfg.Strict = v.GetBool("strict")
	cfg.LogLevel = strings.ToLower(v.GetString("loglevel"))
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeCLI && c.Mode != ModeStdio {
		return errors.New("mode must be either 'cli' or 'stdio'")
	}

	if c.Mode == ModeCLI && c.InputPath == "" {
		return errors.New("input PDF path is required")
	}

	if strings.TrimSpace(c.SetName) == "" {
		return errors.New("set name cannot be empty")
	}

	if c.OutputPath == "" && c.OutputDir == "" {
		return errors.New("output directory cannot be empty when no output path is given")
	}

	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// ResolveOutputPath returns the explicit output path or the default under OutputDir
func (c *Config) ResolveOutputPath() string {
	if c.OutputPath != "" {
		return c.OutputPath
	}
	return output.DefaultPath(c.OutputDir, c.InputPath)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsStdioMode returns true if the MCP server should run over stdio
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Input: %s, Output: %s, OutputDir: %s, SetName: %q, "+
		"Workers: %d, Strict: %t, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.InputPath, c.OutputPath, c.OutputDir, c.SetName,
		c.Workers, c.Strict, c.LogLevel, c.MaxFileSize)
}
