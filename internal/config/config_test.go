package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, filepath.Join(home, ".local", "share", "tracknest", "tracknest.db"), cfg.Database.Path)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, 40, cfg.Statement.MaxPages)
	assert.Equal(t, "auto", cfg.Statement.Layout)
	assert.Equal(t, 30*time.Second, cfg.Statement.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TRACKNEST_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("TRACKNEST_UPLOAD_MAX_BYTES", "1024")
	t.Setenv("TRACKNEST_STATEMENT_TIMEOUT", "5s")
	t.Setenv("TRACKNEST_LOGGING_FORMAT", "json")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, int64(1024), cfg.Upload.MaxBytes)
	assert.Equal(t, 5*time.Second, cfg.Statement.Timeout)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "tracknest.yaml")
	content := []byte("database:\n  path: /tmp/test.db\nstatement:\n  layout: federal-compact\n  max_pages: 5\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, "federal-compact", cfg.Statement.Layout)
	assert.Equal(t, 5, cfg.Statement.MaxPages)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadDefaultSearchPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "tracknest")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server:\n  addr: \":7000\"\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadViperFlagPrecedence(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TRACKNEST_LOGGING_LEVEL", "warn")

	v := viper.New()
	v.Set("logging.level", "debug")

	cfg, err := LoadViper(v, "")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	base, err := Load("")
	require.NoError(t, err)
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"empty db path", func(c *Config) { c.Database.Path = "" }},
		{"zero upload size", func(c *Config) { c.Upload.MaxBytes = 0 }},
		{"negative pages", func(c *Config) { c.Statement.MaxPages = -1 }},
		{"zero timeout", func(c *Config) { c.Statement.Timeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
