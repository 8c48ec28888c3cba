package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"todopet/internal/schedule"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultSnapshotName   = "todos.json"
	DefaultLogName        = "todopet.log"
	appDirName            = "todopet"
)

type Keymap struct {
	Quit    string `toml:"quit"`
	Add     string `toml:"add"`
	Up      string `toml:"up"`
	Down    string `toml:"down"`
	Toggle  string `toml:"toggle"`
	Delete  string `toml:"delete"`
	Confirm string `toml:"confirm"`
	Cancel  string `toml:"cancel"`
	Refresh string `toml:"refresh"`
}

type Log struct {
	Path       string `toml:"path"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

type Config struct {
	SnapshotPath     string `toml:"snapshot_path"`
	TickIntervalSec  int    `toml:"tick_interval_sec"`
	UrgentWithinMin  int    `toml:"urgent_within_min"`
	WarningWithinMin int    `toml:"warning_within_min"`
	Log              Log    `toml:"log"`
	Keys             Keymap `toml:"keys"`
}

// TickInterval is how often deadlines are re-evaluated.
func (c Config) TickInterval() time.Duration {
	if c.TickIntervalSec <= 0 {
		return time.Minute
	}
	return time.Duration(c.TickIntervalSec) * time.Second
}

func (c Config) Thresholds() schedule.Thresholds {
	return schedule.Thresholds{
		UrgentWithin:  time.Duration(c.UrgentWithinMin) * time.Minute,
		WarningWithin: time.Duration(c.WarningWithinMin) * time.Minute,
	}
}

// ResolveConfigPath returns $XDG_CONFIG_HOME/todopet/config.toml, falling
// back to ~/.config and finally the working directory.
func ResolveConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appDirName, DefaultConfigFileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(home, ".config", appDirName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// if the file does not exist. Relative snapshot and log paths are resolved
// against the config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return resolve(path, cfg), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.SnapshotPath == "" {
		cfg.SnapshotPath = DefaultSnapshotName
	}
	if cfg.Log.Path == "" {
		cfg.Log.Path = DefaultLogName
	}
	return resolve(path, cfg), nil
}

func resolve(configPath string, cfg Config) Config {
	dir := filepath.Dir(configPath)
	if !filepath.IsAbs(cfg.SnapshotPath) {
		cfg.SnapshotPath = filepath.Join(dir, cfg.SnapshotPath)
	}
	if !filepath.IsAbs(cfg.Log.Path) {
		cfg.Log.Path = filepath.Join(dir, cfg.Log.Path)
	}
	return cfg
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		SnapshotPath:     DefaultSnapshotName,
		TickIntervalSec:  60,
		UrgentWithinMin:  int(schedule.DefaultUrgentWithin / time.Minute),
		WarningWithinMin: int(schedule.DefaultWarningWithin / time.Minute),
		Log: Log{
			Path:       DefaultLogName,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
		Keys: Keymap{
			Quit:    "q",
			Add:     "a",
			Up:      "k",
			Down:    "j",
			Toggle:  " ",
			Delete:  "d",
			Confirm: "enter",
			Cancel:  "esc",
			Refresh: "r",
		},
	}
}
