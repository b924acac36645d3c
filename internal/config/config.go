// Package config loads the driver configuration from TOML or YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/olix3001/ccash/internal/logger"
)

// Config holds the complete driver configuration
type Config struct {
	Log         LogConfig         `toml:"log" yaml:"log"`
	Output      OutputConfig      `toml:"output" yaml:"output"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics" yaml:"diagnostics"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	File   string `toml:"file" yaml:"file"`
}

// OutputConfig controls how lowered modules are printed
type OutputConfig struct {
	Format string `toml:"format" yaml:"format"`
	Color  bool   `toml:"color" yaml:"color"`
}

// DiagnosticsConfig controls diagnostic reporting
type DiagnosticsConfig struct {
	// MaxErrors caps the diagnostics printed per unit. Zero prints all.
	MaxErrors int `toml:"max_errors" yaml:"max_errors"`
}

// Output formats accepted by OutputConfig.Format.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Output: OutputConfig{
			Format: FormatText,
			Color:  true,
		},
	}
}

// Load reads the file at path and overlays it onto the defaults. The
// decoder is picked by extension: .yaml and .yml use YAML, anything else
// is read as TOML.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		md, err := toml.Decode(string(content), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every field holds a supported value
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	switch c.Output.Format {
	case FormatText, FormatYAML, FormatJSON:
	default:
		return fmt.Errorf("output.format: unknown format %q", c.Output.Format)
	}
	if c.Diagnostics.MaxErrors < 0 {
		return fmt.Errorf("diagnostics.max_errors: must not be negative, got %d", c.Diagnostics.MaxErrors)
	}
	return nil
}

// LoggerConfig converts the log section into a logger configuration
func (c *Config) LoggerConfig() (logger.Config, error) {
	level, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		return logger.Config{}, err
	}
	lc := logger.DefaultConfig()
	lc.Level = level
	lc.Format = c.Log.Format
	lc.LogFile = c.Log.File
	return lc, nil
}
