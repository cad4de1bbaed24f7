package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// === Global Config Path Tests ===

func TestGlobalConfigPath_Default(t *testing.T) {
	// Clear env vars to test default behavior
	t.Setenv("XDG_CONFIG_HOME", "")

	path := GlobalConfigPath()
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData != "" {
			assert.Equal(t, filepath.Join(appData, "goatminify", "config.yaml"), path)
		}
	} else {
		expected := filepath.Join(homeDir, ".config", "goatminify", "config.yaml")
		assert.Equal(t, expected, path)
	}
}

func TestGlobalConfigPath_XDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	path := GlobalConfigPath()
	assert.Equal(t, "/custom/config/goatminify/config.yaml", path)
}

func TestGlobalConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	dir := GlobalConfigDir()
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData != "" {
			assert.Equal(t, filepath.Join(appData, "goatminify"), dir)
		}
	} else {
		expected := filepath.Join(homeDir, ".config", "goatminify")
		assert.Equal(t, expected, dir)
	}
}

func TestGlobalConfigPath_WindowsStyle(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("Windows-only test")
	}
	path := GlobalConfigPath()
	assert.Contains(t, path, "goatminify")
	assert.Contains(t, path, "config.yaml")
}

// === Global Config Loading Tests ===

func TestLoadGlobalConfig_Success(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	configDir := filepath.Join(tempDir, "goatminify")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	configContent := `
minify:
  default_level: 2
engines:
  enabled: false
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0644))

	cfg, err := LoadGlobalConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 2, cfg.Minify.DefaultLevel)
	require.NotNil(t, cfg.Engines.Enabled)
	assert.False(t, cfg.Engines.IsEnabled())
}

func TestLoadGlobalConfig_NotExists(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadGlobalConfig()
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	configDir := filepath.Join(tempDir, "goatminify")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("invalid: yaml: : content:"), 0644))

	_, err := LoadGlobalConfig()
	assert.Error(t, err)
}

func TestLoadGlobalConfig_EmptyFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	configDir := filepath.Join(tempDir, "goatminify")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), nil, 0644))

	cfg, err := LoadGlobalConfig()
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestSaveGlobalConfig_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Daemon.Port = 9100
	require.NoError(t, SaveGlobalConfig(cfg))
	assert.True(t, GlobalConfigExists())

	loaded, err := LoadGlobalConfig()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 9100, loaded.Daemon.Port)
	assert.True(t, loaded.Engines.IsEnabled())
}

func TestGlobalConfigExists_False(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	assert.False(t, GlobalConfigExists())
}

// === Merge Tests ===

func TestMergeConfigs_ProjectOverridesGlobal(t *testing.T) {
	global := Default()
	global.Minify.DefaultLevel = 2
	global.Daemon.Host = "0.0.0.0"

	disabled := false
	project := &Config{
		Minify:  MinifyConfig{DefaultLevel: 3, DefaultType: "css"},
		Engines: EnginesConfig{Enabled: &disabled},
	}

	merged := MergeConfigs(global, project)
	assert.Equal(t, 3, merged.Minify.DefaultLevel)
	assert.Equal(t, "css", merged.Minify.DefaultType)
	assert.False(t, merged.Engines.IsEnabled())
	assert.Equal(t, "0.0.0.0", merged.Daemon.Host)
	assert.Equal(t, DefaultPort, merged.Daemon.Port)

	// The global config must not be mutated through the shared pointer.
	assert.True(t, global.Engines.IsEnabled())
}

func TestMergeConfigs_GlobalOnly(t *testing.T) {
	global := Default()
	merged := MergeConfigs(global, nil)
	assert.Equal(t, global.Minify, merged.Minify)
	assert.NotSame(t, global, merged)
}

func TestMergeConfigs_NeitherExists(t *testing.T) {
	merged := MergeConfigs(nil, nil)
	require.NotNil(t, merged)
	assert.Equal(t, 0, merged.Version)
}
