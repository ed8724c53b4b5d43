package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/mcp-mbft-auditor/internal/rulebook"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// EnvPrefix prefixes every environment variable, e.g. MBFT_AUDIT_RULEBOOKS.
	EnvPrefix = "MBFT_AUDIT"
)

// ErrVersionRequested is returned by Load when --version is on the command line.
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the auditor
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// CitationDirectory bounds which citation PDFs tools may open.
	CitationDirectory string
	// RulebookDirectory holds the MBFT rulebook sheets.
	RulebookDirectory string
	// StopLabels extend the default section headings that end a field.
	StopLabels []string

	// ConfigFile is the YAML file values were read from, if any.
	ConfigFile string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:              ModeStdio,
		Host:              DefaultHost,
		Port:              DefaultPort,
		CitationDirectory: currentDir,
		RulebookDirectory: filepath.Join(currentDir, rulebook.DefaultDirectory),
		Version:           "1.0.0",
		ServerName:        "mcp-mbft-auditor",
		LogLevel:          DefaultLogLevel,
		MaxFileSize:       DefaultMaxFileSize,
	}
}

// Loader resolves configuration from defaults, an optional YAML file,
// MBFT_AUDIT_* environment variables and command line flags, later sources
// winning.
type Loader struct {
	name   string
	flags  *pflag.FlagSet
	v      *viper.Viper
	server bool
}

// NewLoader creates a loader whose flag set carries the options shared by
// every binary. Callers may add their own flags through FlagSet before Load.
func NewLoader(name string) *Loader {
	cfg := DefaultConfig()
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)

	fs.String("config", "", "YAML configuration file")
	fs.String("dir", cfg.CitationDirectory, "Directory containing citation PDFs")
	fs.String("rulebooks", cfg.RulebookDirectory, "Directory containing MBFT rulebook PDFs")
	fs.StringArray("stop-label", nil, "Extra section heading that ends a field (repeatable)")
	fs.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	fs.Bool("version", false, "Print version and exit")

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("dir", cfg.CitationDirectory)
	v.SetDefault("rulebooks", cfg.RulebookDirectory)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)

	return &Loader{name: name, flags: fs, v: v}
}

// WithServerFlags adds the transport options of the MCP server binary.
func (l *Loader) WithServerFlags() *Loader {
	cfg := DefaultConfig()
	l.flags.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP/SSE server")
	l.flags.String("host", cfg.Host, "Server host address (server mode only)")
	l.flags.Int("port", cfg.Port, "Server port (server mode only)")
	l.server = true
	return l
}

// FlagSet exposes the underlying flags.
func (l *Loader) FlagSet() *pflag.FlagSet {
	return l.flags
}

// Load parses args and returns the validated configuration.
func (l *Loader) Load(args []string) (*Config, error) {
	if err := l.flags.Parse(args); err != nil {
		return nil, err
	}
	if v, _ := l.flags.GetBool("version"); v {
		return nil, ErrVersionRequested
	}

	for _, key := range []string{"dir", "rulebooks", "loglevel", "maxfilesize", "mode", "host", "port"} {
		if f := l.flags.Lookup(key); f != nil {
			_ = l.v.BindPFlag(key, f)
		}
	}

	cfg := DefaultConfig()
	cfg.ConfigFile, _ = l.flags.GetString("config")
	if cfg.ConfigFile == "" {
		cfg.ConfigFile = l.v.GetString("config")
	}
	if cfg.ConfigFile != "" {
		l.v.SetConfigFile(cfg.ConfigFile)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config file %s: %w", cfg.ConfigFile, err)
		}
	}

	cfg.Mode = l.v.GetString("mode")
	cfg.Host = l.v.GetString("host")
	cfg.Port = l.v.GetInt("port")
	cfg.CitationDirectory = absPath(l.v.GetString("dir"))
	cfg.RulebookDirectory = absPath(l.v.GetString("rulebooks"))
	cfg.LogLevel = l.v.GetString("loglevel")
	cfg.MaxFileSize = l.v.GetInt64("maxfilesize")

	if f := l.flags.Lookup("stop-label"); f != nil && f.Changed {
		cfg.StopLabels, _ = l.flags.GetStringArray("stop-label")
	} else {
		cfg.StopLabels = stringList(l.v.Get("stop_labels"))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Usage prints the flag summary, examples and environment variables.
func (l *Loader) Usage(description string, examples ...string) {
	fmt.Fprintf(os.Stderr, "Usage of %s:\n", l.name)
	fmt.Fprintf(os.Stderr, "\n%s\n\n", description)
	fmt.Fprintf(os.Stderr, "Options:\n")
	l.flags.PrintDefaults()
	if len(examples) > 0 {
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		for _, e := range examples {
			fmt.Fprintf(os.Stderr, "  %s %s\n", l.name, e)
		}
	}
	fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
	keys := []string{"CONFIG", "DIR", "RULEBOOKS", "STOP_LABELS", "LOGLEVEL", "MAXFILESIZE"}
	if l.server {
		keys = append([]string{"MODE", "HOST", "PORT"}, keys...)
	}
	for _, k := range keys {
		fmt.Fprintf(os.Stderr, "  %s_%s\n", EnvPrefix, k)
	}
}

// LoadFromFlags loads the MCP server configuration from os.Args.
func LoadFromFlags() (*Config, error) {
	l := NewLoader(filepath.Base(os.Args[0])).WithServerFlags()
	l.flags.Usage = func() {
		l.Usage("MCP MBFT Auditor - a Model Context Protocol server that audits traffic citations against MBFT rulebooks",
			"                                   # stdio mode, current directory (default)",
			"--dir=/autos --rulebooks=/fichas   # stdio mode with custom directories",
			"--mode=server --port=8081          # HTTP/SSE server mode",
			"--config=auditor.yaml              # values from a YAML file")
	}
	return l.Load(os.Args[1:])
}

// stringList reads a list value from a config file (YAML sequence) or from
// the environment (comma or semicolon separated).
func stringList(raw interface{}) []string {
	var items []string
	switch t := raw.(type) {
	case []interface{}:
		for _, item := range t {
			items = append(items, fmt.Sprint(item))
		}
	case []string:
		items = t
	case string:
		items = strings.FieldsFunc(t, func(r rune) bool { return r == ',' || r == ';' })
	}

	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func absPath(p string) string {
	if p == "" {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.CitationDirectory == "" {
		return errors.New("citation directory cannot be empty")
	}
	if c.RulebookDirectory == "" {
		return errors.New("rulebook directory cannot be empty")
	}

	// Directories need not exist yet, but must be directories when they do
	for _, dir := range []string{c.CitationDirectory, c.RulebookDirectory} {
		if info, err := os.Stat(dir); err == nil && !info.IsDir() {
			return fmt.Errorf("not a directory: %s", dir)
		}
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

	for _, label := range c.StopLabels {
		if strings.TrimSpace(label) == "" {
			return errors.New("stop labels cannot be blank")
		}
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, CitationDirectory: %s, RulebookDirectory: %s, StopLabels: %d, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.CitationDirectory, c.RulebookDirectory, len(c.StopLabels), c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
