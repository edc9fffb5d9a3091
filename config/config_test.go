package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agentflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
api_base_url: https://flow.example.com/api
ws_base_url: wss://flow.example.com/api
pending_timeout: 45s
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://flow.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, 45*time.Second, cfg.PendingTimeout)
	// Untouched fields keep their defaults.
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_FailsFastOnMalformedYAML(t *testing.T) {
	path := writeConfig(t, "api_base_url: [unclosed")

	_, err := Load(path)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty api url", func(c *Config) { c.APIBaseURL = "" }, "api_base_url"},
		{"non-http api url", func(c *Config) { c.APIBaseURL = "ftp://x" }, "api_base_url"},
		{"empty ws url", func(c *Config) { c.WSBaseURL = "" }, "ws_base_url"},
		{"http ws url", func(c *Config) { c.WSBaseURL = "http://x" }, "ws_base_url"},
		{"zero pending timeout", func(c *Config) { c.PendingTimeout = 0 }, "pending_timeout"},
		{"negative request timeout", func(c *Config) { c.RequestTimeout = -time.Second }, "request_timeout"},
		{"zero event buffer", func(c *Config) { c.EventBufferSize = 0 }, "event_buffer_size"},
		{"bogus log level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	assert.NoError(t, Default().Validate())
}
