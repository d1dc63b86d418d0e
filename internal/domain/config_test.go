package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultDateFormat, cfg.Display.DateFormat)
	assert.True(t, cfg.Display.ShowDaysUntil)
	assert.Equal(t, string(DeleteCascade), cfg.Tasks.DeletePolicy)
	assert.Equal(t, DefaultRemotePort, cfg.Remote.Port)
	assert.False(t, cfg.Remote.Enabled)
}

func TestConfig_ResolvePaths(t *testing.T) {
	cfg := NewDefaultConfig()

	cfg.ResolvePaths("/data/della")

	assert.Equal(t, "/data/della/tasks.toml", cfg.Tasks.Path)
	assert.Equal(t, "/data/della/history", cfg.History.Dir)
}

func TestRenderConfigTemplate(t *testing.T) {
	out := RenderConfigTemplate(NewDefaultConfig())

	assert.Contains(t, out, `delete_policy = "cascade"`)
	assert.Contains(t, out, `date_format = "Mon, Jan 02"`)
	assert.Contains(t, out, `show_days_until = true`)
	assert.Contains(t, out, `level = "info"`)
}

func TestRemoteConfig_Address(t *testing.T) {
	assert.Equal(t, "example.com:22", RemoteConfig{Host: "example.com"}.Address())
	assert.Equal(t, "example.com:2222", RemoteConfig{Host: "example.com", Port: 2222}.Address())
}
