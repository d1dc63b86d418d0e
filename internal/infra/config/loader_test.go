package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/runoshun/della/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), domain.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load_MissingFileReturnsDefaults(t *testing.T) {
	// Setup
	loader := NewLoaderWithPath(filepath.Join(t.TempDir(), "absent.toml"), "/home/me")

	// Execute
	cfg, err := loader.Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.NewDefaultConfig(), cfg)
}

func TestLoader_Load_AllSections(t *testing.T) {
	// Setup
	path := writeConfig(t, `
[tasks]
path = "~/notes/tasks.yaml"
delete_policy = "reparent"
implicit_target = true

[display]
date_format = "2006-01-02"
show_days_until = false
indent = 4
colors = ["1", "2"]

[prompt]
text = "della> "
color = "5"

[log]
level = "debug"

[remote]
enabled = true
host = "example.com"
port = 2222
user = "me"
path = "della/tasks.toml"
private_key = "~/.ssh/id_ed25519"

[history]
enabled = true
dir = "/tmp/hist"
`)
	loader := NewLoaderWithPath(path, "/home/me")

	// Execute
	cfg, err := loader.Load()

	// Assert
	require.NoError(t, err)
	assert.Empty(t, cfg.Warnings)
	assert.Equal(t, "/home/me/notes/tasks.yaml", cfg.Tasks.Path)
	assert.Equal(t, "reparent", cfg.Tasks.DeletePolicy)
	assert.True(t, cfg.Tasks.ImplicitTarget)
	assert.Equal(t, "2006-01-02", cfg.Display.DateFormat)
	assert.False(t, cfg.Display.ShowDaysUntil)
	assert.Equal(t, 4, cfg.Display.Indent)
	assert.Equal(t, []string{"1", "2"}, cfg.Display.Colors)
	assert.Equal(t, "della> ", cfg.Prompt.Text)
	assert.Equal(t, "5", cfg.Prompt.Color)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Remote.Enabled)
	assert.Equal(t, "example.com:2222", cfg.Remote.Address())
	assert.Equal(t, "me", cfg.Remote.User)
	assert.Equal(t, "/home/me/.ssh/id_ed25519", cfg.Remote.PrivateKey)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "/tmp/hist", cfg.History.Dir)
}

func TestLoader_Load_PartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "[log]\nlevel = \"warn\"\n")

	cfg, err := NewLoaderWithPath(path, "").Load()

	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, domain.DefaultDateFormat, cfg.Display.DateFormat)
	assert.True(t, cfg.Display.ShowDaysUntil)
}

func TestLoader_Load_Warnings(t *testing.T) {
	path := writeConfig(t, `
stray = 1

[tasks]
store = "git"
delete_policy = "orphan"

[display]
indent = "wide"

[agents]
x = 1
`)

	cfg, err := NewLoaderWithPath(path, "").Load()

	require.NoError(t, err)
	assert.Equal(t, []string{
		"invalid value for display.indent: wide",
		"invalid value for tasks.delete_policy: orphan",
		"unknown key in [tasks]: store",
		"unknown key: stray",
		"unknown section: agents",
	}, cfg.Warnings)
	assert.Equal(t, "cascade", cfg.Tasks.DeletePolicy)
	assert.Equal(t, domain.DefaultIndent, cfg.Display.Indent)
}

func TestLoader_Load_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "[tasks\npath = ")

	_, err := NewLoaderWithPath(path, "").Load()

	assert.Error(t, err)
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	assert.Equal(t, "/xdg/della", DefaultConfigDir())
	assert.Equal(t, "/xdg/della/config.toml", DefaultConfigPath())
}

func TestDefaultDataDir_XDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")

	assert.Equal(t, "/data/della", DefaultDataDir())
}
