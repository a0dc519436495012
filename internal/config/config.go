package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"tasklist/internal/todo"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultStorageKey     = todo.DefaultKey
	AppName               = "tasklist"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

type Keymap struct {
	Quit         string `toml:"quit"`
	Add          string `toml:"add"`
	Up           string `toml:"up"`
	Down         string `toml:"down"`
	Toggle       string `toml:"toggle"`
	Delete       string `toml:"delete"`
	Search       string `toml:"search"`
	NextCategory string `toml:"next_category"`
	PrevCategory string `toml:"prev_category"`
	Theme        string `toml:"theme"`
	Confirm      string `toml:"confirm"`
	Cancel       string `toml:"cancel"`
}

type Config struct {
	DBPath        string `toml:"db_path"`
	StorageKey    string `toml:"storage_key"`
	DefaultFilter string `toml:"default_filter"`
	Theme         string `toml:"theme"`
	LogLevel      string `toml:"log_level"`
	LogFile       string `toml:"log_file"`
	Keys          Keymap `toml:"keys"`
}

// ResolveConfigPath returns $TASKLIST_CONFIG when set, otherwise
// <user config dir>/tasklist/config.toml, falling back to the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv("TASKLIST_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, cfg.Validate()
}

// Validate rejects values the application cannot start with.
func (c Config) Validate() error {
	switch c.Theme {
	case ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("theme %q: must be %q or %q", c.Theme, ThemeLight, ThemeDark)
	}
	if _, ok := todo.LookupCategory(c.DefaultFilter); !ok {
		return fmt.Errorf("default_filter %q: unknown category", c.DefaultFilter)
	}
	return nil
}

// ResolveDBPath anchors a relative DBPath to the directory of the config file.
func (c Config) ResolveDBPath(configPath string) string {
	if c.DBPath == "" || filepath.IsAbs(c.DBPath) || strings.HasPrefix(c.DBPath, "file:") {
		return c.DBPath
	}
	return filepath.Join(filepath.Dir(configPath), c.DBPath)
}

// ResolveLogFile returns LogFile, defaulting to tasklist.log beside the database.
func (c Config) ResolveLogFile(configPath string) string {
	if c.LogFile != "" {
		return c.LogFile
	}
	db := c.ResolveDBPath(configPath)
	if strings.HasPrefix(db, "file:") {
		return ""
	}
	return filepath.Join(filepath.Dir(db), AppName+".log")
}

func (c *Config) applyDefaults() {
	def := defaultConfig()
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.StorageKey == "" {
		c.StorageKey = def.StorageKey
	}
	if c.DefaultFilter == "" {
		c.DefaultFilter = def.DefaultFilter
	}
	if c.Theme == "" {
		c.Theme = def.Theme
	}
	c.Theme = strings.ToLower(c.Theme)
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	k, d := &c.Keys, def.Keys
	for _, pair := range []struct {
		field *string
		value string
	}{
		{&k.Quit, d.Quit},
		{&k.Add, d.Add},
		{&k.Up, d.Up},
		{&k.Down, d.Down},
		{&k.Toggle, d.Toggle},
		{&k.Delete, d.Delete},
		{&k.Search, d.Search},
		{&k.NextCategory, d.NextCategory},
		{&k.PrevCategory, d.PrevCategory},
		{&k.Theme, d.Theme},
		{&k.Confirm, d.Confirm},
		{&k.Cancel, d.Cancel},
	} {
		if *pair.field == "" {
			*pair.field = pair.value
		}
	}
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the configuration written on first launch.
func Default() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		DBPath:        DefaultDBName,
		StorageKey:    DefaultStorageKey,
		DefaultFilter: todo.CategoryAll,
		Theme:         ThemeLight,
		LogLevel:      "info",
		Keys: Keymap{
			Quit:         "q",
			Add:          "a",
			Up:           "k",
			Down:         "j",
			Toggle:       " ",
			Delete:       "d",
			Search:       "/",
			NextCategory: "tab",
			PrevCategory: "shift+tab",
			Theme:        "t",
			Confirm:      "enter",
			Cancel:       "esc",
		},
	}
}
