package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nslsolver "github.com/nslsolver/nslsolver-go"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nslsolver.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NSLSOLVER_API_KEY", "env-key")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, nslsolver.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 120*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
}

func TestLoadPriority(t *testing.T) {
	path := writeFile(t, `
api_key: file-key
base_url: https://file.example.com
timeout: 45s
max_retries: 1
log_level: info
`)
	t.Setenv("NSLSOLVER_MAX_RETRIES", "7")

	cfg, err := Load(path, map[string]any{"api_key": "flag-key"})
	require.NoError(t, err)

	assert.Equal(t, "flag-key", cfg.APIKey)
	assert.Equal(t, "https://file.example.com", cfg.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, 7, cfg.MaxRetries)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMissingFileIgnored(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), map[string]any{"api_key": "k"})
	require.NoError(t, err)
	assert.Equal(t, "k", cfg.APIKey)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeFile(t, "api_key: [unterminated")

	_, err := Load(path, map[string]any{"api_key": "k"})
	assert.Error(t, err)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		field     string
	}{
		{name: "missing_api_key", overrides: map[string]any{}, field: "APIKey"},
		{name: "negative_retries", overrides: map[string]any{"api_key": "k", "max_retries": -1}, field: "MaxRetries"},
		{name: "bad_log_level", overrides: map[string]any{"api_key": "k", "log_level": "loud"}, field: "LogLevel"},
		{name: "bad_base_url", overrides: map[string]any{"api_key": "k", "base_url": "nope"}, field: "BaseURL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NSLSOLVER_API_KEY", "")
			_, err := Load("", tt.overrides)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &Config{
		APIKey:     "k",
		BaseURL:    "https://api.example.com/",
		Timeout:    10 * time.Second,
		MaxRetries: 0,
		RateLimit:  2,
	}

	c, err := nslsolver.New(cfg.APIKey, cfg.ClientOptions()...)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "https://api.example.com", c.BaseURL())
	assert.Equal(t, 10*time.Second, c.Timeout())
	assert.Equal(t, 0, c.MaxRetries())
}
