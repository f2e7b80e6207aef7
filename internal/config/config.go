package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the full launcher configuration written to config.yml.
type Config struct {
	Menu      MenuConfig      `yaml:"menu"`
	Cache     CacheConfig     `yaml:"cache"`
	Registry  RegistryConfig  `yaml:"registry"`
	Shortcuts ShortcutsConfig `yaml:"shortcuts"`
	Log       LogConfig       `yaml:"log"`
}

type MenuConfig struct {
	Root       string `yaml:"root"`
	LegacyRoot string `yaml:"legacy_root,omitempty"` // empty disables migration
}

type CacheConfig struct {
	Dir string `yaml:"dir"`
}

type RegistryConfig struct {
	DBPath string `yaml:"db_path"`
}

// ShortcutsConfig lists the homebrew executables placed first in a fresh catalog.
type ShortcutsConfig struct {
	HomebrewMenu string `yaml:"homebrew_menu"`
	Manager      string `yaml:"manager"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration populated with the default paths.
func Default() *Config {
	return &Config{
		Menu: MenuConfig{
			Root:       DefaultMenuRoot,
			LegacyRoot: DefaultLegacyRoot,
		},
		Cache:    CacheConfig{Dir: DefaultCacheDir},
		Registry: RegistryConfig{DBPath: DefaultRegistryDB},
		Shortcuts: ShortcutsConfig{
			HomebrewMenu: DefaultHomebrewMenuPath,
			Manager:      DefaultManagerPath,
		},
		Log: LogConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}
}

// Load reads and parses a config file from the given path. Fields missing
// from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks that all required fields are present and values are in range.
func (c *Config) Validate() error {
	if c.Menu.Root == "" {
		return fmt.Errorf("menu.root is required")
	}
	if !filepath.IsAbs(c.Menu.Root) {
		return fmt.Errorf("menu.root must be an absolute path")
	}
	if c.Menu.LegacyRoot != "" {
		if !filepath.IsAbs(c.Menu.LegacyRoot) {
			return fmt.Errorf("menu.legacy_root must be an absolute path")
		}
		if filepath.Clean(c.Menu.LegacyRoot) == filepath.Clean(c.Menu.Root) {
			return fmt.Errorf("menu.legacy_root must differ from menu.root")
		}
	}

	if c.Cache.Dir == "" {
		return fmt.Errorf("cache.dir is required")
	}
	if c.Registry.DBPath == "" {
		return fmt.Errorf("registry.db_path is required")
	}

	switch c.Log.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		// ok
	default:
		return fmt.Errorf("log.level must be %q, %q, %q, or %q", LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)
	}

	switch c.Log.Format {
	case LogFormatText, LogFormatJSON:
		// ok
	default:
		return fmt.Errorf("log.format must be %q or %q", LogFormatText, LogFormatJSON)
	}

	return nil
}

// HomebrewShortcuts returns the configured default homebrew executables,
// skipping empty ones.
func (c *Config) HomebrewShortcuts() []string {
	var out []string
	for _, p := range []string{c.Shortcuts.HomebrewMenu, c.Shortcuts.Manager} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Save writes the config to the given path, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0640); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
