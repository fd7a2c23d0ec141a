package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "DATA_DIR", "STORAGE", "ENGINE", "LOG_LEVEL", "SHARE_BASE_URL", "DEBOUNCE", "DOWNLOAD_NAME", "DOWNLOAD_DIR"} {
		t.Setenv(EnvPrefix+k, "")
	}
	t.Setenv("PORT", "")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "sqlite", cfg.Storage)
	assert.Equal(t, 180*time.Millisecond, cfg.Debounce.Duration)
	assert.Equal(t, "http://localhost:8080/", cfg.ShareBase())
}

func TestLoadYAMLAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9000
storage: file
debounce: 50ms
share_base_url: https://qr.example.org/app.html
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "file", cfg.Storage)
	assert.Equal(t, 50*time.Millisecond, cfg.Debounce.Duration)
	assert.Equal(t, "https://qr.example.org/app.html", cfg.ShareBase())

	t.Setenv("MINTQR_PORT", "9100")
	t.Setenv("MINTQR_STORAGE", "MEMORY")
	t.Setenv("MINTQR_DEBOUNCE", "1s")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "memory", cfg.Storage)
	assert.Equal(t, time.Second, cfg.Debounce.Duration)
	assert.Equal(t, ":9100", cfg.Addr())
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, os.WriteFile(path, []byte("debounce: soon\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("storage: redis\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
