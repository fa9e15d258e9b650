// Package config provides configuration loading for gitguard.
package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/gitguard/internal/logging"
)

// Config is the full gitguard configuration.
type Config struct {
	Oracle     OracleConfig     `koanf:"oracle"`
	Checkpoint CheckpointConfig `koanf:"checkpoint"`
	Run        RunConfig        `koanf:"run"`
	Logging    logging.Config   `koanf:"logging"`
}

// OracleConfig configures the LLM planning backend.
type OracleConfig struct {
	// Provider selects the LLM backend. Only "googleai" is supported.
	Provider string `koanf:"provider"`

	// Model is the model identifier passed to the provider.
	Model string `koanf:"model"`

	// APIKey authenticates against the provider. Falls back to the
	// GEMINI_API_KEY environment variable when unset.
	APIKey Secret `koanf:"api_key"`

	// Timeout bounds each oracle call; expiry is treated as an oracle
	// failure.
	Timeout Duration `koanf:"timeout"`
}

// CheckpointConfig configures checkpoint naming.
type CheckpointConfig struct {
	// RefPrefix is the backup branch name prefix.
	RefPrefix string `koanf:"ref_prefix"`
}

// RunConfig configures plan execution.
type RunConfig struct {
	// MaxAttempts bounds the execute/fix/retry loop.
	MaxAttempts int `koanf:"max_attempts"`

	// Shell interprets oracle-proposed command strings.
	Shell string `koanf:"shell"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Oracle.Provider != "googleai" {
		return fmt.Errorf("unsupported oracle provider %q", c.Oracle.Provider)
	}
	if c.Oracle.Model == "" {
		return fmt.Errorf("oracle model must not be empty")
	}
	if c.Oracle.Timeout.Duration() <= 0 {
		return fmt.Errorf("oracle timeout must be positive")
	}
	if c.Checkpoint.RefPrefix == "" {
		return fmt.Errorf("checkpoint ref_prefix must not be empty")
	}
	if c.Run.MaxAttempts < 1 || c.Run.MaxAttempts > 10 {
		return fmt.Errorf("run max_attempts must be between 1 and 10, got %d", c.Run.MaxAttempts)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Duration wraps time.Duration for text unmarshaling (YAML, env vars).
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if parsed < 0 {
		return fmt.Errorf("duration cannot be negative: %s", text)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration().String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Secret wraps strings that should be redacted in logs and serialization.
// Use Value() to access the actual secret value.
type Secret string

// String implements fmt.Stringer. Always returns a redacted value.
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer for %#v formatting.
func (s Secret) GoString() string {
	return "Secret([REDACTED])"
}

// Value returns the actual secret value. Use sparingly.
func (s Secret) Value() string {
	return string(s)
}

// IsSet returns true if the secret has a non-empty value.
func (s Secret) IsSet() bool {
	return s != ""
}

// MarshalJSON implements json.Marshaler. Always returns a redacted value.
func (s Secret) MarshalJSON() ([]byte, error) {
	if s == "" {
		return json.Marshal("")
	}
	return json.Marshal("[REDACTED]")
}

// MarshalText implements encoding.TextMarshaler. Always redacted.
func (s Secret) MarshalText() ([]byte, error) {
	if s == "" {
		return []byte(""), nil
	}
	return []byte("[REDACTED]"), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Accepts raw values.
func (s *Secret) UnmarshalText(text []byte) error {
	*s = Secret(text)
	return nil
}
