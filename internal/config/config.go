// Package config loads pomodone's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config is the file-backed configuration. Settings edited from the UI
// (targets, presets, selected mode) live in the database instead.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Alarm    AlarmConfig    `mapstructure:"alarm" yaml:"alarm"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn, error
	File  string `mapstructure:"file" yaml:"file"`   // empty logs to stderr
}

type AlarmConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Duration time.Duration `mapstructure:"duration" yaml:"duration"`
	Bell     bool          `mapstructure:"bell" yaml:"bell"` // ring the terminal bell
}

// Dir returns ~/.config/pomodone.
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "pomodone"), nil
}

// DefaultPath returns ~/.config/pomodone/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	dir, err := Dir()
	if err != nil {
		dir = "."
	}
	return &Config{
		Database: DatabaseConfig{Path: filepath.Join(dir, "pomodone.db")},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, "pomodone.log"),
		},
		Alarm: AlarmConfig{
			Enabled:  true,
			Duration: 9 * time.Second,
			Bell:     true,
		},
	}
}

func newViper(path string) *viper.Viper {
	d := Default()
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("alarm.enabled", d.Alarm.Enabled)
	v.SetDefault("alarm.duration", d.Alarm.Duration)
	v.SetDefault("alarm.bell", d.Alarm.Bell)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Database.Path = expandHome(cfg.Database.Path)
	cfg.Log.File = expandHome(cfg.Log.File)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	return cfg, nil
}

// Load reads path, or the default location when path is empty. A missing
// file yields the defaults plus a warning.
func Load(path string) (*Config, []string, error) {
	var warnings []string
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve config path: %w", err)
		}
		path = p
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		warnings = append(warnings, "No config file found, using defaults")
		return Default(), warnings, nil
	}

	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Alarm.Enabled {
		warnings = append(warnings, "Alarm disabled, sessions switch immediately")
	}
	return cfg, warnings, nil
}

// Validate reports every problem in cfg.
func Validate(cfg *Config) []error {
	var errs []error

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[cfg.Log.Level] {
		errs = append(errs, fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", cfg.Log.Level))
	}

	if strings.TrimSpace(cfg.Database.Path) == "" {
		errs = append(errs, errors.New("database path must not be empty"))
	}

	if cfg.Alarm.Duration < 0 {
		errs = append(errs, fmt.Errorf("invalid alarm duration: %s", cfg.Alarm.Duration))
	}
	if cfg.Alarm.Duration > time.Minute {
		errs = append(errs, fmt.Errorf("alarm duration %s exceeds 1m", cfg.Alarm.Duration))
	}

	return errs
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("alarm.enabled", cfg.Alarm.Enabled)
	v.Set("alarm.duration", cfg.Alarm.Duration.String())
	v.Set("alarm.bell", cfg.Alarm.Bell)

	return v.WriteConfig()
}

// Watch re-reads path whenever it changes on disk and passes the result to
// onChange. Invalid files are reported through the error argument and the
// previous configuration should be kept.
func Watch(path string, onChange func(*Config, error)) error {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decode(v)
		if err != nil {
			onChange(nil, err)
			return
		}
		if errs := Validate(cfg); len(errs) > 0 {
			onChange(nil, errors.Join(errs...))
			return
		}
		onChange(cfg, nil)
	})
	v.WatchConfig()
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}
