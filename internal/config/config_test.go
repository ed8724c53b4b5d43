package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "stdio" {
		t.Errorf("Expected default mode to be 'stdio', got '%s'", cfg.Mode)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}
	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}
	if cfg.ServerName != "mcp-mbft-auditor" {
		t.Errorf("Expected default server name to be 'mcp-mbft-auditor', got '%s'", cfg.ServerName)
	}
	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}

	currentDir, _ := os.Getwd()
	if cfg.CitationDirectory != currentDir {
		t.Errorf("Expected default citation directory to be '%s', got '%s'", currentDir, cfg.CitationDirectory)
	}
	if want := filepath.Join(currentDir, "fichas_mbft"); cfg.RulebookDirectory != want {
		t.Errorf("Expected default rulebook directory to be '%s', got '%s'", want, cfg.RulebookDirectory)
	}
}

func TestConfigValidate(t *testing.T) {
	tempDir := t.TempDir()
	file := filepath.Join(tempDir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	valid := func() *Config {
		return &Config{
			Mode:              ModeStdio,
			Host:              DefaultHost,
			Port:              DefaultPort,
			CitationDirectory: tempDir,
			RulebookDirectory: filepath.Join(tempDir, "fichas"),
			LogLevel:          "info",
			MaxFileSize:       1024,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid config - stdio mode", mutate: func(c *Config) {}},
		{name: "valid config - server mode", mutate: func(c *Config) { c.Mode = ModeServer }},
		{name: "stdio ignores port", mutate: func(c *Config) { c.Port = 0 }},
		{name: "invalid mode", mutate: func(c *Config) { c.Mode = "http" }, wantErr: "mode"},
		{name: "server port too low", mutate: func(c *Config) { c.Mode = ModeServer; c.Port = 0 }, wantErr: "port"},
		{name: "server port too high", mutate: func(c *Config) { c.Mode = ModeServer; c.Port = 65536 }, wantErr: "port"},
		{name: "empty citation directory", mutate: func(c *Config) { c.CitationDirectory = "" }, wantErr: "citation directory"},
		{name: "empty rulebook directory", mutate: func(c *Config) { c.RulebookDirectory = "" }, wantErr: "rulebook directory"},
		{name: "rulebook path is a file", mutate: func(c *Config) { c.RulebookDirectory = file }, wantErr: "not a directory"},
		{name: "zero max file size", mutate: func(c *Config) { c.MaxFileSize = 0 }, wantErr: "file size"},
		{name: "blank stop label", mutate: func(c *Config) { c.StopLabels = []string{"RECIBO", " "} }, wantErr: "stop labels"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateDoesNotCreateDirectories(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "non-existent", "fichas")

	cfg := DefaultConfig()
	cfg.RulebookDirectory = missing
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() should accept a missing directory, got: %v", err)
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Errorf("Directory should not have been created: %s", missing)
	}
}

func TestConfigValidateLogLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := DefaultConfig()
		cfg.LogLevel = level
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() rejected log level %q: %v", level, err)
		}
	}
	for _, level := range []string{"DEBUG", "trace", "fatal", ""} {
		cfg := DefaultConfig()
		cfg.LogLevel = level
		if err := cfg.Validate(); err == nil {
			t.Errorf("Validate() accepted log level %q", level)
		}
	}
}

func TestConfigHelpers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "0.0.0.0"
	cfg.Port = 9000
	if got := cfg.Address(); got != "0.0.0.0:9000" {
		t.Errorf("Address() = %q", got)
	}

	if cfg.IsDebug() {
		t.Error("IsDebug() should be false for info")
	}
	cfg.LogLevel = "debug"
	if !cfg.IsDebug() {
		t.Error("IsDebug() should be true for debug")
	}

	if !cfg.IsStdioMode() || cfg.IsServerMode() {
		t.Error("default config should be stdio mode")
	}
	cfg.Mode = ModeServer
	if cfg.IsStdioMode() || !cfg.IsServerMode() {
		t.Error("server mode not detected")
	}

	cfg.StopLabels = []string{"A", "B"}
	s := cfg.String()
	for _, want := range []string{"Mode: server", "Port: 9000", "StopLabels: 2", "RulebookDirectory:"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestStringList(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want []string
	}{
		{name: "nil", raw: nil, want: nil},
		{name: "yaml sequence", raw: []interface{}{"A B", " C "}, want: []string{"A B", "C"}},
		{name: "string slice", raw: []string{"X", ""}, want: []string{"X"}},
		{name: "separated string", raw: "A B;C,,D", want: []string{"A B", "C", "D"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stringList(tt.raw)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("stringList(%v) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
