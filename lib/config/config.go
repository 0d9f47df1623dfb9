// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for traveldesk
// components.
//
// Configuration is loaded from a single file specified by:
//   - TRAVELDESK_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery beyond the built-in
// defaults. This ensures deterministic, auditable configuration with no
// hidden overrides.
//
// The config file may contain environment-specific sections
// (development, staging, production) that override base values when the
// environment matches.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the master configuration for traveldesk.
type Config struct {
	// Environment identifies the deployment type (development,
	// staging, production).
	Environment Environment `yaml:"environment"`

	// Listen configures the booking server's TCP endpoint.
	Listen ListenConfig `yaml:"listen"`

	// Database configures the SQLite storage shared by the catalog
	// and the booking log.
	Database DatabaseConfig `yaml:"database"`

	// Server configures per-connection behavior.
	Server ServerConfig `yaml:"server"`

	// Per-environment overrides, applied after the base config is
	// loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Listen   *ListenConfig   `yaml:"listen,omitempty"`
	Database *DatabaseConfig `yaml:"database,omitempty"`
	Server   *ServerConfig   `yaml:"server,omitempty"`
}

// ListenConfig configures the booking server's TCP endpoint.
type ListenConfig struct {
	// Address is the host:port the server listens on.
	// Default: 127.0.0.1:12345
	Address string `yaml:"address"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	// Path is the SQLite database file. The catalog tables and the
	// booking log live in the same file. ${HOME} and similar
	// variables are expanded at load time.
	// Default: ${HOME}/.local/share/traveldesk/traveldesk.db
	Path string `yaml:"path"`

	// PoolSize is the connection pool size. Zero means the
	// sqlitepool default.
	PoolSize int `yaml:"pool_size"`
}

// ServerConfig configures per-connection behavior of the booking
// server.
type ServerConfig struct {
	// ReadTimeout is how long the server waits for a client to send
	// its request, as a Go duration string. Empty means the default
	// (30s). "0" disables the deadline entirely, restoring the
	// original protocol's no-timeout behavior.
	ReadTimeout string `yaml:"read_timeout"`

	// WriteTimeout is how long the server waits for the response
	// write to complete. Empty means the default (10s). "0" disables
	// the deadline.
	WriteTimeout string `yaml:"write_timeout"`

	// MaxRequestBytes caps the size of a single request. Zero means
	// the default (1 MiB).
	MaxRequestBytes int64 `yaml:"max_request_bytes"`
}

// Default returns the default configuration. These defaults are a
// complete working configuration for local development — unlike most
// deployments, traveldesk runs fine with no config file at all.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Environment: Development,
		Listen: ListenConfig{
			Address: "127.0.0.1:12345",
		},
		Database: DatabaseConfig{
			Path: filepath.Join(homeDir, ".local", "share", "traveldesk", "traveldesk.db"),
		},
		Server: ServerConfig{
			ReadTimeout:     "30s",
			WriteTimeout:    "10s",
			MaxRequestBytes: 1024 * 1024,
		},
	}
}

// Load loads configuration from the TRAVELDESK_CONFIG environment
// variable, falling back to the defaults when it is not set.
func Load() (*Config, error) {
	configPath := os.Getenv("TRAVELDESK_CONFIG")
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables
// do not override config values. The only expansion performed is
// ${HOME} and similar path variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.Database.Path = expandVars(cfg.Database.Path, map[string]string{
		"HOME": os.Getenv("HOME"),
	})

	return cfg, nil
}

// applyEnvironmentOverrides applies the section matching the configured
// environment.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}

	if overrides == nil {
		return
	}

	if overrides.Listen != nil && overrides.Listen.Address != "" {
		c.Listen.Address = overrides.Listen.Address
	}

	if overrides.Database != nil {
		if overrides.Database.Path != "" {
			c.Database.Path = overrides.Database.Path
		}
		if overrides.Database.PoolSize != 0 {
			c.Database.PoolSize = overrides.Database.PoolSize
		}
	}

	if overrides.Server != nil {
		if overrides.Server.ReadTimeout != "" {
			c.Server.ReadTimeout = overrides.Server.ReadTimeout
		}
		if overrides.Server.WriteTimeout != "" {
			c.Server.WriteTimeout = overrides.Server.WriteTimeout
		}
		if overrides.Server.MaxRequestBytes != 0 {
			c.Server.MaxRequestBytes = overrides.Server.MaxRequestBytes
		}
	}
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Listen.Address == "" {
		errs = append(errs, fmt.Errorf("listen.address is required"))
	}

	if c.Database.Path == "" {
		errs = append(errs, fmt.Errorf("database.path is required"))
	}
	if c.Database.PoolSize < 0 {
		errs = append(errs, fmt.Errorf("database.pool_size must not be negative"))
	}

	if _, err := c.ReadTimeout(); err != nil {
		errs = append(errs, fmt.Errorf("server.read_timeout: %w", err))
	}
	if _, err := c.WriteTimeout(); err != nil {
		errs = append(errs, fmt.Errorf("server.write_timeout: %w", err))
	}
	if c.Server.MaxRequestBytes < 0 {
		errs = append(errs, fmt.Errorf("server.max_request_bytes must not be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ReadTimeout parses the configured read timeout. Zero means the
// deadline is disabled.
func (c *Config) ReadTimeout() (time.Duration, error) {
	return parseTimeout(c.Server.ReadTimeout, 30*time.Second)
}

// WriteTimeout parses the configured write timeout. Zero means the
// deadline is disabled.
func (c *Config) WriteTimeout() (time.Duration, error) {
	return parseTimeout(c.Server.WriteTimeout, 10*time.Second)
}

func parseTimeout(value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	if value == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative: %s", value)
	}
	return d, nil
}

// EnsureDatabaseDir creates the parent directory of the database path
// if it does not exist.
func (c *Config) EnsureDatabaseDir() error {
	dir := filepath.Dir(c.Database.Path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}
