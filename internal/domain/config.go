package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"text/template"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string      `toml:"-"`
	Display  DisplayConfig `toml:"display"`
	Remote   RemoteConfig  `toml:"remote"`
	Tasks    TasksConfig   `toml:"tasks"`
	History  HistoryConfig `toml:"history"`
	Prompt   PromptConfig  `toml:"prompt"`
	Log      LogConfig     `toml:"log"`
}

// TasksConfig holds task file settings from [tasks] section.
type TasksConfig struct {
	Path           string `toml:"path,omitempty"`            // Task file path (extension selects toml, yaml or json)
	DeletePolicy   string `toml:"delete_policy,omitempty"`   // "cascade" (default) or "reparent"
	ImplicitTarget bool   `toml:"implicit_target,omitempty"` // Treat the word after a command as its target
}

// DisplayConfig holds rendering settings from [display] section.
type DisplayConfig struct {
	DateFormat    string   `toml:"date_format,omitempty"` // Go time layout for due dates
	Colors        []string `toml:"colors,omitempty"`      // Colors cycled per tree depth
	Indent        int      `toml:"indent,omitempty"`      // Spaces per tree level
	ShowDaysUntil bool     `toml:"show_days_until"`       // Append "(in N days)" to due dates
}

// PromptConfig holds REPL prompt settings from [prompt] section.
type PromptConfig struct {
	Text  string `toml:"text,omitempty"`  // Prompt suffix
	Color string `toml:"color,omitempty"` // Prompt color
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
}

// RemoteConfig holds SSH sync settings from [remote] section.
// Fields are ordered to minimize memory padding.
type RemoteConfig struct {
	Host              string `toml:"host,omitempty"`
	User              string `toml:"user,omitempty"`
	Path              string `toml:"path,omitempty"`                // Task file path on the remote host
	PrivateKey        string `toml:"private_key,omitempty"`         // Private key file (agent and ~/.ssh defaults when empty)
	KnownHosts        string `toml:"known_hosts,omitempty"`         // known_hosts file (~/.ssh/known_hosts when empty)
	EncryptionKeyFile string `toml:"encryption_key_file,omitempty"` // Encrypt remote copies with this key
	Port              int    `toml:"port,omitempty"`
	Enabled           bool   `toml:"enabled"`
}

// Address returns host:port.
func (r RemoteConfig) Address() string {
	port := r.Port
	if port == 0 {
		port = DefaultRemotePort
	}
	return fmt.Sprintf("%s:%d", r.Host, port)
}

// HistoryConfig holds snapshot settings from [history] section.
type HistoryConfig struct {
	Dir     string `toml:"dir,omitempty"` // Snapshot repository directory
	Enabled bool   `toml:"enabled"`
}

// Default configuration values.
const (
	DefaultLogLevel      = "info"
	DefaultDateFormat    = "Mon, Jan 02"
	DefaultIndent        = 2
	DefaultPromptText    = "> "
	DefaultPromptColor   = "12"
	DefaultRemotePort    = 22
	DefaultTasksFileName = "tasks.toml"
)

// DefaultColors is the depth color cycle.
var DefaultColors = []string{"12", "10", "11", "13", "14", "9"}

// Directory and file names for della.
const (
	AppDirName     = "della"       // Directory name for della data and config
	ConfigFileName = "config.toml" // Config file name
	LogsDirName    = "logs"
	HistoryDirName = "history"
)

// GlobalConfigDir returns the della config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalConfigDir(configHome), ConfigFileName)
}

// DataDir returns the della data directory.
// dataHome is typically XDG_DATA_HOME or ~/.local/share (resolved by caller).
func DataDir(dataHome string) string {
	return filepath.Join(dataHome, AppDirName)
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Tasks: TasksConfig{
			DeletePolicy: string(DeleteCascade),
		},
		Display: DisplayConfig{
			DateFormat:    DefaultDateFormat,
			ShowDaysUntil: true,
			Indent:        DefaultIndent,
			Colors:        append([]string(nil), DefaultColors...),
		},
		Prompt: PromptConfig{
			Text:  DefaultPromptText,
			Color: DefaultPromptColor,
		},
		Remote: RemoteConfig{
			Port: DefaultRemotePort,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// ResolvePaths fills empty file locations relative to dataDir.
func (c *Config) ResolvePaths(dataDir string) {
	if c.Tasks.Path == "" {
		c.Tasks.Path = filepath.Join(dataDir, DefaultTasksFileName)
	}
	if c.History.Dir == "" {
		c.History.Dir = filepath.Join(dataDir, HistoryDirName)
	}
}

// FormatOptions returns the display settings as FormatOptions.
func (c *Config) FormatOptions() FormatOptions {
	return FormatOptions{
		DateLayout:    c.Display.DateFormat,
		ShowDaysUntil: c.Display.ShowDaysUntil,
	}
}

// RenderConfigTemplate renders the commented config file written by "della config init".
func RenderConfigTemplate(cfg *Config) string {
	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		// Should never happen with valid data
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}

	return buf.String()
}
