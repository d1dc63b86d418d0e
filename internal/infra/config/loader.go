// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/della/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	path string // Path to config.toml
	home string // Home directory used to expand "~/" in paths
}

// NewLoader creates a Loader reading the default global config file.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		path: DefaultConfigPath(),
		home: home,
	}
}

// NewLoaderWithPath creates a Loader reading path.
// This is useful for --config and for testing.
func NewLoaderWithPath(path, home string) *Loader {
	return &Loader{path: path, home: home}
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/della or ~/.config/della.
func DefaultConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// DefaultConfigPath returns the default config file path, or "" when no home is known.
func DefaultConfigPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, domain.ConfigFileName)
}

// DefaultDataDir returns $XDG_DATA_HOME/della or ~/.local/share/della.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return domain.DataDir(dataHome)
}

// Path returns the config file location.
func (l *Loader) Path() string {
	return l.path
}

// Load returns the defaults overlaid with the config file.
// A missing file is not an error.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()
	if l.path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", l.path, err)
	}

	applyRaw(cfg, raw)
	l.expandPaths(cfg)
	return cfg, nil
}

func (l *Loader) expandPaths(cfg *domain.Config) {
	cfg.Tasks.Path = domain.ExpandHome(cfg.Tasks.Path, l.home)
	cfg.History.Dir = domain.ExpandHome(cfg.History.Dir, l.home)
	cfg.Remote.PrivateKey = domain.ExpandHome(cfg.Remote.PrivateKey, l.home)
	cfg.Remote.KnownHosts = domain.ExpandHome(cfg.Remote.KnownHosts, l.home)
	cfg.Remote.EncryptionKeyFile = domain.ExpandHome(cfg.Remote.EncryptionKeyFile, l.home)
}

// section walks one [table] and reports unknown keys.
type section struct {
	name     string
	warnings *[]string
}

func (s section) unknown(key string) {
	*s.warnings = append(*s.warnings, fmt.Sprintf("unknown key in [%s]: %s", s.name, key))
}

func (s section) invalid(key string, v any) {
	*s.warnings = append(*s.warnings, fmt.Sprintf("invalid value for %s.%s: %v", s.name, key, v))
}

func (s section) str(key string, v any, dst *string) {
	if str, ok := v.(string); ok {
		*dst = str
		return
	}
	s.invalid(key, v)
}

func (s section) boolean(key string, v any, dst *bool) {
	if b, ok := v.(bool); ok {
		*dst = b
		return
	}
	s.invalid(key, v)
}

func (s section) integer(key string, v any, dst *int) {
	if n, ok := v.(int64); ok {
		*dst = int(n)
		return
	}
	s.invalid(key, v)
}

// applyRaw overlays the raw TOML map onto cfg and collects warnings.
func applyRaw(cfg *domain.Config, raw map[string]any) {
	var warnings []string

	for name, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown key: %s", name))
			continue
		}
		s := section{name: name, warnings: &warnings}
		switch name {
		case "tasks":
			for k, v := range m {
				switch k {
				case "path":
					s.str(k, v, &cfg.Tasks.Path)
				case "delete_policy":
					s.str(k, v, &cfg.Tasks.DeletePolicy)
					if _, err := domain.ParseDeletePolicy(cfg.Tasks.DeletePolicy); err != nil {
						s.invalid(k, v)
						cfg.Tasks.DeletePolicy = string(domain.DeleteCascade)
					}
				case "implicit_target":
					s.boolean(k, v, &cfg.Tasks.ImplicitTarget)
				default:
					s.unknown(k)
				}
			}
		case "display":
			for k, v := range m {
				switch k {
				case "date_format":
					s.str(k, v, &cfg.Display.DateFormat)
				case "show_days_until":
					s.boolean(k, v, &cfg.Display.ShowDaysUntil)
				case "indent":
					s.integer(k, v, &cfg.Display.Indent)
				case "colors":
					list, ok := v.([]any)
					if !ok {
						s.invalid(k, v)
						continue
					}
					colors := make([]string, 0, len(list))
					for _, c := range list {
						if str, ok := c.(string); ok {
							colors = append(colors, str)
						}
					}
					if len(colors) > 0 {
						cfg.Display.Colors = colors
					}
				default:
					s.unknown(k)
				}
			}
		case "prompt":
			for k, v := range m {
				switch k {
				case "text":
					s.str(k, v, &cfg.Prompt.Text)
				case "color":
					s.str(k, v, &cfg.Prompt.Color)
				default:
					s.unknown(k)
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					s.str(k, v, &cfg.Log.Level)
				default:
					s.unknown(k)
				}
			}
		case "remote":
			for k, v := range m {
				switch k {
				case "enabled":
					s.boolean(k, v, &cfg.Remote.Enabled)
				case "host":
					s.str(k, v, &cfg.Remote.Host)
				case "port":
					s.integer(k, v, &cfg.Remote.Port)
				case "user":
					s.str(k, v, &cfg.Remote.User)
				case "path":
					s.str(k, v, &cfg.Remote.Path)
				case "private_key":
					s.str(k, v, &cfg.Remote.PrivateKey)
				case "known_hosts":
					s.str(k, v, &cfg.Remote.KnownHosts)
				case "encryption_key_file":
					s.str(k, v, &cfg.Remote.EncryptionKeyFile)
				default:
					s.unknown(k)
				}
			}
		case "history":
			for k, v := range m {
				switch k {
				case "enabled":
					s.boolean(k, v, &cfg.History.Enabled)
				case "dir":
					s.str(k, v, &cfg.History.Dir)
				default:
					s.unknown(k)
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", name))
		}
	}

	sort.Strings(warnings)
	cfg.Warnings = append(cfg.Warnings, warnings...)
}
