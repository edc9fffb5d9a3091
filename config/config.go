// Package config loads and validates the client application configuration.
// Malformed input fails fast at startup with a typed ValidationError; there
// is no recovery path.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the startup settings of the agentflow client.
type Config struct {
	// APIBaseURL is the root of the collaborator CRUD gateways.
	APIBaseURL string `yaml:"api_base_url"`
	// WSBaseURL is the root of the run event stream endpoint (ws:// or wss://).
	WSBaseURL string `yaml:"ws_base_url"`
	// PendingTimeout bounds how long a run may sit pending with no event
	// before it is surfaced as stalled.
	PendingTimeout time.Duration `yaml:"pending_timeout"`
	// RequestTimeout bounds individual gateway requests.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// EventBufferSize is the per-subscription channel buffer for run
	// stream events.
	EventBufferSize int `yaml:"event_buffer_size"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// LogFormat is json or text.
	LogFormat string `yaml:"log_format"`
}

// ValidationError reports malformed configuration input.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: invalid %s: %s", e.Field, e.Message)
}

// Default returns the baseline configuration for local development.
func Default() Config {
	return Config{
		APIBaseURL:      "http://localhost:8081/api",
		WSBaseURL:       "ws://localhost:8081/api",
		PendingTimeout:  30 * time.Second,
		RequestTimeout:  15 * time.Second,
		EventBufferSize: 256,
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// UnmarshalYAML decodes a config document, accepting Go duration strings
// ("30s", "1m") for the timeout fields. Absent fields keep their prior
// values so a partial file overlays the defaults.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		APIBaseURL      string `yaml:"api_base_url"`
		WSBaseURL       string `yaml:"ws_base_url"`
		PendingTimeout  string `yaml:"pending_timeout"`
		RequestTimeout  string `yaml:"request_timeout"`
		EventBufferSize int    `yaml:"event_buffer_size"`
		LogLevel        string `yaml:"log_level"`
		LogFormat       string `yaml:"log_format"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.APIBaseURL != "" {
		c.APIBaseURL = raw.APIBaseURL
	}
	if raw.WSBaseURL != "" {
		c.WSBaseURL = raw.WSBaseURL
	}
	if raw.PendingTimeout != "" {
		d, err := time.ParseDuration(raw.PendingTimeout)
		if err != nil {
			return &ValidationError{Field: "pending_timeout", Message: err.Error()}
		}
		c.PendingTimeout = d
	}
	if raw.RequestTimeout != "" {
		d, err := time.ParseDuration(raw.RequestTimeout)
		if err != nil {
			return &ValidationError{Field: "request_timeout", Message: err.Error()}
		}
		c.RequestTimeout = d
	}
	if raw.EventBufferSize != 0 {
		c.EventBufferSize = raw.EventBufferSize
	}
	if raw.LogLevel != "" {
		c.LogLevel = raw.LogLevel
	}
	if raw.LogFormat != "" {
		c.LogFormat = raw.LogFormat
	}
	return nil
}

// Load reads a YAML config file, overlaying it on the defaults and
// validating the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &ValidationError{Field: path, Message: err.Error()}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return &ValidationError{Field: "api_base_url", Message: "must not be empty"}
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return &ValidationError{Field: "api_base_url", Message: "must be an http(s) URL"}
	}
	if c.WSBaseURL == "" {
		return &ValidationError{Field: "ws_base_url", Message: "must not be empty"}
	}
	if !strings.HasPrefix(c.WSBaseURL, "ws://") && !strings.HasPrefix(c.WSBaseURL, "wss://") {
		return &ValidationError{Field: "ws_base_url", Message: "must be a ws(s) URL"}
	}
	if c.PendingTimeout <= 0 {
		return &ValidationError{Field: "pending_timeout", Message: "must be positive"}
	}
	if c.RequestTimeout <= 0 {
		return &ValidationError{Field: "request_timeout", Message: "must be positive"}
	}
	if c.EventBufferSize <= 0 {
		return &ValidationError{Field: "event_buffer_size", Message: "must be positive"}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Field: "log_level", Message: fmt.Sprintf("unknown level %q", c.LogLevel)}
	}
	return nil
}
