package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.True(t, cfg.Gateway.Offline, "no remote URL means offline")
	require.Equal(t, 5, cfg.Display.PageSize)
	require.Equal(t, 60, cfg.Display.RefreshIntervalSec)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := defaultAppConfig()
	cfg.Gateway.URL = "https://example.supabase.co"
	cfg.Gateway.AnonKey = "anon-key"
	cfg.Gateway.Offline = false
	cfg.Display.PageSize = 7
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "https://example.supabase.co", loaded.Gateway.URL)
	require.Equal(t, "anon-key", loaded.Gateway.AnonKey)
	require.False(t, loaded.Gateway.Offline)
	require.Equal(t, 7, loaded.Display.PageSize)
}
