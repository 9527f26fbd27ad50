package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/christopherklint97/studyplan/internal/planner"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Data          DataConfig        `toml:"data"`
	Preferences   PreferencesConfig `toml:"preferences"`
	Rules         planner.Rules     `toml:"rules"`
	Notifications NotifyConfig      `toml:"notifications"`
	Export        ExportConfig      `toml:"export"`
	Log           LogConfig         `toml:"log"`
}

type DataConfig struct {
	Dir string `toml:"dir"`
}

type PreferencesConfig struct {
	File string `toml:"file"`
}

type NotifyConfig struct {
	Enabled     bool `toml:"enabled"`
	LeadMinutes int  `toml:"lead_minutes"`
}

type ExportConfig struct {
	Timezone string `toml:"timezone"` // IANA name, empty for local time
}

type LogConfig struct {
	Level string `toml:"level"`
}

func DefaultConfig() Config {
	return Config{
		Rules: planner.DefaultRules(),
		Notifications: NotifyConfig{
			Enabled:     true,
			LeadMinutes: 0,
		},
		Log: LogConfig{Level: "info"},
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "studyplan"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file at its default location.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads config from path, falling back to defaults when the file is
// missing. A .env file in the working directory is loaded first so that its
// variables take part in the environment overrides.
func LoadFile(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if cfg.Data.Dir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		cfg.Data.Dir = dir
	}
	if cfg.Preferences.File == "" {
		cfg.Preferences.File = filepath.Join(cfg.Data.Dir, "preferences.json")
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STUDYPLAN_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("STUDYPLAN_PREFERENCES"); v != "" {
		cfg.Preferences.File = v
	}
	if v := os.Getenv("STUDYPLAN_TIMEZONE"); v != "" {
		cfg.Export.Timezone = v
	}
	if v := os.Getenv("STUDYPLAN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// DBPath is the SQLite file inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.Data.Dir, "studyplan.db")
}

// PIDPath is where a running reminder loop records its process id.
func (c *Config) PIDPath() string {
	return filepath.Join(c.Data.Dir, "studyplan.pid")
}

// Location resolves the export timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Export.Timezone == "" || strings.EqualFold(c.Export.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Export.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Export.Timezone, err)
	}
	return loc, nil
}

// LogLevel maps the configured level name to a slog level.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadPreferences reads a preferences document. Files ending in .toml are
// parsed as TOML, everything else as JSON.
func LoadPreferences(path string) (planner.Preferences, error) {
	var p planner.Preferences
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("reading preferences: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &p); err != nil {
			return p, fmt.Errorf("parsing preferences: %w", err)
		}
		return p, nil
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parsing preferences: %w", err)
	}
	return p, nil
}

// SavePreferences writes p in the format LoadPreferences expects for path,
// creating parent directories. Uses atomic write (tmp + rename).
func SavePreferences(path string, p planner.Preferences) error {
	var data []byte
	var err error
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		data, err = toml.Marshal(p)
	} else {
		data, err = json.MarshalIndent(p, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshaling preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating preferences directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing temp preferences file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming preferences file: %w", err)
	}
	return nil
}

// SaveRules persists the rules section using a read-modify-write approach to
// preserve other settings.
func SaveRules(path string, rules planner.Rules) error {
	cfg := make(map[string]any)

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}
	if len(data) > 0 {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg["rules"] = map[string]any{
		"study_minutes":         rules.StudyMinutes,
		"short_break_minutes":   rules.ShortBreakMinutes,
		"long_break_minutes":    rules.LongBreakMinutes,
		"long_break_after":      rules.LongBreakAfter,
		"max_days":              rules.MaxDays,
		"fallback_step_minutes": rules.FallbackStep,
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	out, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}
