// Package config loads the service configuration file
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort         = "8080"
	DefaultMaxRecords   = 10000
	DefaultMaxTreeDepth = 64
	DefaultRateRequests = 120
	DefaultRateWindow   = time.Minute
)

// Config is the root of the configuration file
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Limits    LimitsConfig    `yaml:"limits"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Path is the file the config was read from, empty for defaults
	Path string `yaml:"-"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Port     string `yaml:"port" validate:"omitempty,numeric"`
	LogLevel int    `yaml:"log_level" validate:"omitempty,min=1,max=4"`
}

// SnapshotConfig points at the recorded sessions served by the engine
type SnapshotConfig struct {
	File  string `yaml:"file" validate:"required"`
	Watch bool   `yaml:"watch"`
}

// LimitsConfig bounds how much one query reads
type LimitsConfig struct {
	MaxRecords   int `yaml:"max_records" validate:"min=0"`
	MaxTreeDepth int `yaml:"max_tree_depth" validate:"min=0"`
}

// RateLimitConfig enables the Redis backed rate limit when RedisURL is set
type RateLimitConfig struct {
	RedisURL string        `yaml:"redis_url" validate:"omitempty,url"`
	Requests int           `yaml:"requests" validate:"min=0"`
	Window   time.Duration `yaml:"window" validate:"min=0"`
}

// Enabled reports whether rate limiting is configured
func (r RateLimitConfig) Enabled() bool {
	return r.RedisURL != ""
}

var validate = validator.New()

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// ForSnapshot returns the default configuration serving the snapshot at path
func ForSnapshot(path string) *Config {
	cfg := Default()
	cfg.Snapshot.File = path
	return cfg
}

// Load reads, substitutes and validates the configuration file at path
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config error in %s: %w", path, err)
	}
	return cfg, nil
}

// Read decodes the configuration file at path without validating it, so
// callers can apply command line overrides first. A relative snapshot path
// is resolved against the config file directory.
func Read(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := decode(content)
	if err != nil {
		return nil, fmt.Errorf("config error in %s: %w", path, err)
	}

	cfg.Path = path
	if cfg.Snapshot.File != "" && !filepath.IsAbs(cfg.Snapshot.File) {
		cfg.Snapshot.File = filepath.Join(filepath.Dir(path), cfg.Snapshot.File)
	}
	return cfg, nil
}

// Parse decodes and validates configuration content
func Parse(content []byte) (*Config, error) {
	cfg, err := decode(content)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode substitutes env placeholders and decodes content. Unknown keys
// are rejected.
func decode(content []byte) (*Config, error) {
	substituted, err := SubstituteEnvVars(string(content))
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	decoder := yaml.NewDecoder(bytes.NewReader([]byte(substituted)))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Validate checks the struct rules and reports every violation at once
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		messages = append(messages, fmt.Sprintf("%s failed '%s' rule", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}

func (c *Config) applyDefaults() {
	if c.Limits.MaxRecords == 0 {
		c.Limits.MaxRecords = DefaultMaxRecords
	}
	if c.Limits.MaxTreeDepth == 0 {
		c.Limits.MaxTreeDepth = DefaultMaxTreeDepth
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = DefaultRateRequests
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = DefaultRateWindow
	}
}

// ResolvePort resolves the port from CLI flag, config file, env var, or default
func ResolvePort(cliPort string, cfg *Config) string {
	if cliPort != "" {
		return cliPort
	}
	if cfg != nil && cfg.Server.Port != "" {
		return cfg.Server.Port
	}
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return DefaultPort
}
