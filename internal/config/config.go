// Package config loads ~/.kanban/config.toml with KANBAN_* environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

const (
	DefaultAPIURL   = "http://localhost:5001/api"
	DefaultTimezone = "Asia/Seoul"
	FileName        = "config.toml"
	EnvPrefix       = "KANBAN"
)

type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Timezone string         `mapstructure:"timezone"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Session  SessionConfig  `mapstructure:"session"`
	Log      LogConfig      `mapstructure:"log"`
	TUI      TUIConfig      `mapstructure:"tui"`

	// Path is the file the config was read from; empty when none existed.
	Path string `mapstructure:"-"`
}

type APIConfig struct {
	URL string `mapstructure:"url"`
	// Timeout of zero disables the client timeout.
	Timeout time.Duration `mapstructure:"timeout"`
}

type CalendarConfig struct {
	View string `mapstructure:"view"`
}

type SessionConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type TUIConfig struct {
	// Glyphs selects "unicode" or "ascii" decorations.
	Glyphs string `mapstructure:"glyphs"`
}

// Dir is the config directory. KANBAN_CONFIG_DIR overrides ~/.kanban (tests use it to stay out
// of the real home directory).
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("KANBAN_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".kanban"), nil
}

type LoadOptions struct {
	// File overrides <Dir>/config.toml.
	File string
}

// Load layers defaults, the config file (if present) and KANBAN_* env vars.
func Load(opts LoadOptions) (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	v := newViper(dir)

	path := strings.TrimSpace(opts.File)
	if path == "" {
		path = filepath.Join(dir, FileName)
	}
	used := ""
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		used = path
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	} else if opts.File != "" {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Path = used
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default is the configuration with nothing on disk and no env overrides.
func Default() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := newViper(dir).Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, cfg.normalize()
}

func newViper(dir string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetDefault("api.url", DefaultAPIURL)
	v.SetDefault("api.timeout", "0s")
	v.SetDefault("timezone", DefaultTimezone)
	v.SetDefault("calendar.view", "month")
	v.SetDefault("session.path", filepath.Join(dir, "session.sqlite"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(dir, "kanban.log"))
	v.SetDefault("tui.glyphs", "unicode")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func (c *Config) normalize() error {
	c.API.URL = strings.TrimRight(strings.TrimSpace(c.API.URL), "/")
	if c.API.URL == "" {
		return errors.New("config: api.url is empty")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("config: api.timeout must not be negative (got %s)", c.API.Timeout)
	}
	c.Timezone = strings.TrimSpace(c.Timezone)
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}

	c.Calendar.View = strings.ToLower(strings.TrimSpace(c.Calendar.View))
	switch c.Calendar.View {
	case "month", "week":
	case "":
		c.Calendar.View = "month"
	default:
		return fmt.Errorf("config: calendar.view must be month or week (got %q)", c.Calendar.View)
	}

	c.TUI.Glyphs = strings.ToLower(strings.TrimSpace(c.TUI.Glyphs))
	switch c.TUI.Glyphs {
	case "unicode", "ascii":
	case "":
		c.TUI.Glyphs = "unicode"
	default:
		return fmt.Errorf("config: tui.glyphs must be unicode or ascii (got %q)", c.TUI.Glyphs)
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	return nil
}

// fileShape is the on-disk TOML layout. Durations are written as strings ("30s").
type fileShape struct {
	API struct {
		URL     string `toml:"url"`
		Timeout string `toml:"timeout"`
	} `toml:"api"`
	Timezone string `toml:"timezone"`
	Calendar struct {
		View string `toml:"view"`
	} `toml:"calendar"`
	Session struct {
		Path string `toml:"path"`
	} `toml:"session"`
	Log struct {
		Level string `toml:"level"`
		File  string `toml:"file"`
	} `toml:"log"`
	TUI struct {
		Glyphs string `toml:"glyphs"`
	} `toml:"tui"`
}

// TOML encodes c in the config file layout.
func (c *Config) TOML() ([]byte, error) {
	var f fileShape
	f.API.URL = c.API.URL
	f.API.Timeout = c.API.Timeout.String()
	f.Timezone = c.Timezone
	f.Calendar.View = c.Calendar.View
	f.Session.Path = c.Session.Path
	f.Log.Level = c.Log.Level
	f.Log.File = c.Log.File
	f.TUI.Glyphs = c.TUI.Glyphs

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes c to path. An existing file is only replaced when force is set.
func (c *Config) WriteFile(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	b, err := c.TOML()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
