package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/fyrsmithlabs/gitguard/internal/logging"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB
	envPrefix         = "GITGUARD_"
)

// LoadWithFile loads configuration from a YAML file, then overrides with
// environment variables.
//
// Precedence (highest to lowest):
//  1. GITGUARD_* environment variables (GITGUARD_ORACLE_MODEL, ...)
//  2. YAML config file (default ~/.config/gitguard/config.yaml)
//  3. Hardcoded defaults
//
// The config file may carry an API key, so weak permissions (anything
// other than 0600/0400) are rejected, as are files over 1MB. A missing
// file is fine; defaults and environment carry the day.
func LoadWithFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "gitguard", "config.yaml")
	}

	if _, err := os.Stat(configPath); err == nil {
		// Open once and validate through the file descriptor to avoid a
		// TOCTOU race between the permission check and the read.
		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
		if err := validateConfigFileProperties(info); err != nil {
			return nil, fmt.Errorf("config file validation failed: %w", err)
		}

		content, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Environment overrides: GITGUARD_ORACLE_MODEL -> oracle.model,
	// GITGUARD_RUN_MAX_ATTEMPTS -> run.max_attempts. Split on the first
	// underscore after the prefix: section, then field name.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// validateConfigFileProperties checks file permissions and size.
func validateConfigFileProperties(info os.FileInfo) error {
	// Windows has a different permission model; skip the check there.
	if runtime.GOOS != "windows" {
		perm := info.Mode().Perm()
		if perm != 0o600 && perm != 0o400 {
			return fmt.Errorf("insecure config file permissions: %v (expected 0600 or 0400)", perm)
		}
	}
	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	return nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Oracle.Provider == "" {
		cfg.Oracle.Provider = "googleai"
	}
	if cfg.Oracle.Model == "" {
		cfg.Oracle.Model = "gemini-2.5-flash"
	}
	if !cfg.Oracle.APIKey.IsSet() {
		cfg.Oracle.APIKey = Secret(os.Getenv("GEMINI_API_KEY"))
	}
	if cfg.Oracle.Timeout == 0 {
		cfg.Oracle.Timeout = Duration(45 * time.Second)
	}

	if cfg.Checkpoint.RefPrefix == "" {
		cfg.Checkpoint.RefPrefix = "gitguard-backup"
	}

	if cfg.Run.MaxAttempts == 0 {
		cfg.Run.MaxAttempts = 3
	}
	if cfg.Run.Shell == "" {
		cfg.Run.Shell = "/bin/sh"
	}

	defaults := logging.NewDefaultConfig()
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaults.Format
	}
	if cfg.Logging.Redaction.Fields == nil && cfg.Logging.Redaction.Patterns == nil {
		cfg.Logging.Redaction = defaults.Redaction
	}
}
