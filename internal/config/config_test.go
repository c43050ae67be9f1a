package config

import (
	"os"
	"path/filepath"
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CEV_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Downloads"), cfg.ExportRoot)
	assert.Equal(t, filepath.Join(home, ".config", "cev", "cev.db"), cfg.DBPath)
	assert.Equal(t, "en", cfg.Lang)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "UTC", cfg.Location().String())
}

func TestLoadFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfgPath := filepath.Join(home, "cev.toml")
	t.Setenv("CEV_CONFIG", cfgPath)

	require.NoError(t, os.WriteFile(cfgPath, []byte(`
export_root = "~/chats"
cache_dir = "/tmp/cev-cache"
timezone = "Africa/Cairo"
lang = "ar"
self_names = ["Sara"]
exclude = ["**/old/**"]
workers = 0
`), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "chats"), cfg.ExportRoot)
	assert.Equal(t, "/tmp/cev-cache", cfg.CacheDir)
	assert.Equal(t, "ar", cfg.Lang)
	assert.Equal(t, []string{"Sara"}, cfg.SelfNames)
	assert.Equal(t, []string{"**/old/**"}, cfg.Exclude)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "Africa/Cairo", cfg.Normalizer().Location.String())

	opts := cfg.SessionOptions()
	assert.Equal(t, "/tmp/cev-cache", opts.CacheDir)
}

func TestLoadBadFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfgPath := filepath.Join(home, "cev.toml")
	t.Setenv("CEV_CONFIG", cfgPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte("workers = ["), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadBadTimezone(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfgPath := filepath.Join(home, "cev.toml")
	t.Setenv("CEV_CONFIG", cfgPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(`timezone = "Mars/Olympus"`), 0o644))

	_, err := Load()
	assert.Error(t, err)
}
