// Package config loads the demo program configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"syscall"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"

	"github.com/Maximilan4/sigfd"
)

// Config is the top-level demo configuration.
type Config struct {
	// Signals lists the monitored signals by name ("INT", "SIGTERM") or number.
	Signals []string `toml:"signals"`
	// Bridge holds pipe and forwarding settings.
	Bridge BridgeConfig `toml:"bridge"`
	// Log holds logging settings.
	Log LogConfig `toml:"log"`
}

// BridgeConfig holds pipe and forwarding settings.
type BridgeConfig struct {
	// Buffer is the capacity of the channel feeding the forwarder.
	Buffer int `toml:"buffer"`
	// PipeSize is the requested pipe buffer size, e.g. "64KiB". Empty keeps
	// the kernel default.
	PipeSize string `toml:"pipe_size"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `toml:"level"`
	// Format is text or json.
	Format string `toml:"format"`
	// File is the log file path, stderr when empty.
	File string `toml:"file"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation.
	MaxSizeMB int `toml:"max_size_mb"`
	// MaxBackups is how many rotated files are kept.
	MaxBackups int `toml:"max_backups"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Signals: []string{"INT", "TERM"},
		Bridge: BridgeConfig{
			Buffer: 64,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 - user supplied config path
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	return cfg, nil
}

// ValidationFunc is a function that validates a config and returns an error
type ValidationFunc func(*Config) error

// validationRules defines all validation rules to be applied to the configuration
var validationRules = []ValidationFunc{
	validateSignals,
	validateBuffer,
	validatePipeSize,
	validateLogLevel,
	validateLogFormat,
}

// Validate validates the configuration using all validation rules
func (c *Config) Validate() error {
	for _, rule := range validationRules {
		if err := rule(c); err != nil {
			return err
		}
	}
	return nil
}

func validateSignals(c *Config) error {
	if len(c.Signals) == 0 {
		return errors.New("signals: at least one signal is required")
	}

	sigs, err := c.ResolveSignals()
	if err != nil {
		return err
	}

	if len(sigs) > sigfd.MaxSignals {
		return fmt.Errorf("signals: at most %d signals are supported", sigfd.MaxSignals)
	}
	return nil
}

func validateBuffer(c *Config) error {
	if c.Bridge.Buffer < 0 {
		return fmt.Errorf("bridge: buffer must not be negative, got %d", c.Bridge.Buffer)
	}
	return nil
}

func validatePipeSize(c *Config) error {
	_, err := c.PipeSizeBytes()
	return err
}

func validateLogLevel(c *Config) error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("log: invalid level %q", c.Log.Level)
}

func validateLogFormat(c *Config) error {
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
		return nil
	}
	return fmt.Errorf("log: invalid format %q", c.Log.Format)
}

// ResolveSignals turns the configured names into signal numbers. Names of
// the same signal ("USR1", "SIGUSR1") resolve to one entry.
func (c *Config) ResolveSignals() ([]syscall.Signal, error) {
	out := make([]syscall.Signal, 0, len(c.Signals))
	for _, name := range c.Signals {
		sig, err := sigfd.ParseSignal(name)
		if err != nil {
			return nil, fmt.Errorf("signals: %w", err)
		}
		if slices.Contains(out, sig) {
			continue
		}
		out = append(out, sig)
	}
	return out, nil
}

// PipeSizeBytes parses Bridge.PipeSize; 0 means the kernel default.
func (c *Config) PipeSizeBytes() (int, error) {
	if c.Bridge.PipeSize == "" {
		return 0, nil
	}

	n, err := humanize.ParseBytes(c.Bridge.PipeSize)
	if err != nil {
		return 0, fmt.Errorf("bridge: invalid pipe_size %q: %w", c.Bridge.PipeSize, err)
	}

	if n > 1<<30 {
		return 0, fmt.Errorf("bridge: pipe_size %s too large", c.Bridge.PipeSize)
	}

	return int(n), nil
}
