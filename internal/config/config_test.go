package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, 24*time.Hour, cfg.Server.AccessTTL)
	require.Equal(t, "gpt-4o-mini", cfg.Server.AI.Model)
	require.Empty(t, cfg.Client.RemoteURL)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9999"
client:
  remote_url: "http://mirror:8080"
`), 0o600))
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.Server.Addr)
	require.Equal(t, "http://mirror:8080", cfg.Client.RemoteURL)
	// untouched keys keep their defaults
	require.Equal(t, 24*time.Hour, cfg.Server.AccessTTL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9999\"\n"), 0o600))
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("SALESMATRIX_SERVER_ADDR", ":7777")
	t.Setenv("SALESMATRIX_SERVER_JWT__KEY", "envkey")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":7777", cfg.Server.Addr)
	require.Equal(t, "envkey", cfg.Server.JWTKey)
}
