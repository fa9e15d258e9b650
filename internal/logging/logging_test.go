package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad format",
			mutate:  func(c *Config) { c.Format = "xml" },
			wantErr: "format",
		},
		{
			name:    "bad level",
			mutate:  func(c *Config) { c.Level = "loud" },
			wantErr: "level",
		},
		{
			name:    "bad redaction pattern",
			mutate:  func(c *Config) { c.Redaction.Patterns = []string{"(unclosed"} },
			wantErr: "redaction pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNewReturnsUsableLogger(t *testing.T) {
	logger, err := New(NewDefaultConfig())
	require.NoError(t, err)
	logger.Info("hello")
	require.NoError(t, logger.Sync())
}

func TestRedactingEncoderMasksFieldsByKey(t *testing.T) {
	redacting, err := NewRedactingEncoder(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		RedactionConfig{Enabled: true, Fields: []string{"api_key"}},
	)
	require.NoError(t, err)

	buf, err := redacting.EncodeEntry(
		zapcore.Entry{Level: zapcore.InfoLevel, Message: "checking"},
		[]zapcore.Field{zap.String("api_key", "super-secret"), zap.String("ref", "main")},
	)
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "super-secret")
	assert.Contains(t, out, "[REDACTED]")
	assert.Contains(t, out, "main")
}

func TestRedactingEncoderMasksValuePatterns(t *testing.T) {
	redacting, err := NewRedactingEncoder(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		RedactionConfig{Enabled: true, Patterns: []string{`(?i)bearer\s+\S+`}},
	)
	require.NoError(t, err)

	buf, err := redacting.EncodeEntry(
		zapcore.Entry{Level: zapcore.InfoLevel, Message: "request"},
		[]zapcore.Field{zap.String("command", "curl -H 'Authorization: Bearer abc123' example.com")},
	)
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "abc123")
	assert.Contains(t, out, "[REDACTED]")
}
