package model_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/model"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := model.LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8888/api", cfg.API.BaseURL)
	assert.Equal(t, 30, cfg.API.TimeoutSec)
	assert.NotEmpty(t, cfg.Cache.Path)
}

func TestSaveConfigRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := model.LoadConfig(path)
	require.NoError(t, err)
	cfg.API.BaseURL = "https://tracker.example.com/api"
	cfg.API.TimeoutSec = 10

	require.NoError(t, model.SaveConfig(path, cfg))

	_, err = os.Stat(path)
	require.NoError(t, err, "parent directories are created on demand")

	loaded, err := model.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://tracker.example.com/api", loaded.API.BaseURL)
	assert.Equal(t, 10, loaded.API.TimeoutSec)
}

func TestLoadConfigClampsNonPositiveTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  timeout_sec: 0\n"), 0o644))

	cfg, err := model.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.API.TimeoutSec)
}
