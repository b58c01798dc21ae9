package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"regwiz/internal/tracing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, 30, cfg.API.TimeoutSeconds)
	require.Equal(t, 30*time.Second, cfg.API.Timeout())
	require.True(t, cfg.Draft.AutoReload)
	require.Equal(t, "dark", cfg.UI.MarkdownStyle)
	require.True(t, cfg.UI.ShowProgress)
	require.False(t, cfg.Tracing.Enabled)
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	require.NoError(t, Validate(Defaults()))
}

func TestValidate_ZeroValueIsValid(t *testing.T) {
	require.NoError(t, Validate(Config{}))
}

func TestValidate_NegativeTimeout(t *testing.T) {
	cfg := Defaults()
	cfg.API.TimeoutSeconds = -1

	err := Validate(cfg)

	require.Error(t, err)
	require.Contains(t, err.Error(), "timeout_seconds")
}

func TestValidate_MarkdownStyle(t *testing.T) {
	cfg := Defaults()

	for _, style := range []string{"", "dark", "light"} {
		cfg.UI.MarkdownStyle = style
		require.NoError(t, Validate(cfg))
	}

	cfg.UI.MarkdownStyle = "solarized"
	err := Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "markdown_style")
}

func TestValidate_TracingExporter(t *testing.T) {
	cfg := Defaults()

	for _, exporter := range []string{"file", "stdout", "otlp"} {
		cfg.Tracing = tracing.Config{Exporter: exporter, FilePath: "/tmp/traces.jsonl"}
		require.NoError(t, Validate(cfg))
	}

	cfg.Tracing = tracing.Config{Exporter: "jaeger"}
	require.Error(t, Validate(cfg))
}

func TestValidate_FileExporterNeedsPath(t *testing.T) {
	cfg := Defaults()
	cfg.Tracing = tracing.Config{Enabled: true, Exporter: "file"}

	err := Validate(cfg)

	require.Error(t, err)
	require.Contains(t, err.Error(), "file_path")
}

func TestDefaultConfigTemplate_IsValidYAML(t *testing.T) {
	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(DefaultConfigTemplate()), &parsed))

	api, ok := parsed["api"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, 30, api["timeout_seconds"])

	ui, ok := parsed["ui"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, true, ui["show_progress"])
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

func TestDefaultDraftPath(t *testing.T) {
	path := DefaultDraftPath()

	require.Equal(t, "drafts.db", filepath.Base(path))
	require.Contains(t, path, ".regwiz")
}
