// Package config provides configuration types and defaults for regwiz.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"regwiz/internal/log"
	"regwiz/internal/tracing"
)

// APIConfig holds the registration backend connection settings.
type APIConfig struct {
	// BaseURL is the API root, e.g. "https://example.org/api".
	BaseURL string `mapstructure:"base_url"`

	// Key is sent as the X-API-Key header when set.
	Key string `mapstructure:"key"`

	// TimeoutSeconds bounds each request. Zero uses the client default.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// Timeout returns the configured request timeout as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// DraftConfig holds local draft persistence settings.
type DraftConfig struct {
	// Path is the draft database file. Default: ~/.regwiz/drafts.db
	Path string `mapstructure:"path"`

	// AutoReload watches the database and offers to reload when another
	// instance saves a draft.
	AutoReload bool `mapstructure:"auto_reload"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	// MarkdownStyle selects the glamour style for the info page:
	// "dark" (default) or "light".
	MarkdownStyle string `mapstructure:"markdown_style"`

	// ShowProgress controls the progress bar above the step form.
	ShowProgress bool `mapstructure:"show_progress"`
}

// Config holds all configuration options for regwiz.
type Config struct {
	API     APIConfig      `mapstructure:"api"`
	Draft   DraftConfig    `mapstructure:"draft"`
	UI      UIConfig       `mapstructure:"ui"`
	Tracing tracing.Config `mapstructure:"tracing"`
}

// DefaultDraftPath returns ~/.regwiz/drafts.db, or a relative fallback if
// the home directory is unavailable.
func DefaultDraftPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".regwiz", "drafts.db")
	}
	return filepath.Join(home, ".regwiz", "drafts.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "regwiz", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		API: APIConfig{
			TimeoutSeconds: 30,
		},
		Draft: DraftConfig{
			Path:       DefaultDraftPath(),
			AutoReload: true,
		},
		UI: UIConfig{
			MarkdownStyle: "dark",
			ShowProgress:  true,
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// Validate checks the configuration for errors. Empty values fall back to
// defaults and are always valid.
func Validate(cfg Config) error {
	if cfg.API.TimeoutSeconds < 0 {
		return fmt.Errorf("api.timeout_seconds must not be negative, got %d", cfg.API.TimeoutSeconds)
	}

	switch cfg.UI.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", cfg.UI.MarkdownStyle)
	}

	if cfg.Tracing.Exporter != "" {
		switch cfg.Tracing.Exporter {
		case "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"file\", \"stdout\", or \"otlp\", got %q", cfg.Tracing.Exporter)
		}
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Exporter == "file" && cfg.Tracing.FilePath == "" {
		return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Regwiz Configuration

# Registration backend settings
api:
  # base_url: https://example.org/api
  # key: your-api-key
  timeout_seconds: 30

# Local draft persistence
draft:
  # path: ~/.regwiz/drafts.db
  auto_reload: true   # Offer to reload when another instance saves a draft

# UI settings
ui:
  # markdown_style: dark  # Info page rendering style: "dark" (default) or "light"
  show_progress: true     # Show the progress bar above the step form

# Tracing of backend API calls
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: file, stdout, otlp (default: file)
#   file_path: ~/.config/regwiz/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
