package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, int64(50<<20), cfg.Backend.MaxUploadBytes)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Upload.InspectPDFEnabled())
	assert.True(t, cfg.Chat.ColorEnabled())
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: http://rag.internal:9000/
  timeout: 5s
log:
  level: debug
  file: /tmp/ragchat.log
upload:
  inspect_pdf: false
chat:
  color: false
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://rag.internal:9000", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/ragchat.log", cfg.Log.File)
	assert.False(t, cfg.Upload.InspectPDFEnabled())
	assert.False(t, cfg.Chat.ColorEnabled())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("RAGCHAT_API_URL", "https://rag.example.com")
	t.Setenv("RAGCHAT_TIMEOUT", "2s")
	t.Setenv("RAGCHAT_LOG_LEVEL", "WARN")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "https://rag.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	t.Run("bad url", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "backend:\n  base_url: not a url\n"))
		assert.Error(t, err)
	})
	t.Run("bad level", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "log:\n  level: verbose\n"))
		assert.Error(t, err)
	})
	t.Run("bad timeout env", func(t *testing.T) {
		t.Setenv("RAGCHAT_TIMEOUT", "soon")
		_, err := LoadConfig("")
		assert.Error(t, err)
	})
	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "backend: [\n"))
		assert.Error(t, err)
	})
}
