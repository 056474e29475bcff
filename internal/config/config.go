// Package config loads earned runtime settings from ~/.config/earned/config.json
// and EARNED_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configurable earned settings. The WorkSession itself
// (wage, goal, shift window) lives in the session record, not here.
type Config struct {
	Store              string `json:"store"`    // "file" | "sqlite"
	DataDir            string `json:"data_dir"` // override XDG data dir
	TickIntervalMS     int    `json:"tick_interval_ms"`
	SaveDebounceMS     int    `json:"save_debounce_ms"` // 0 = write every change
	RolloverAtMidnight *bool  `json:"rollover_at_midnight"`
	LogLevel           string `json:"log_level"`
	LogPretty          bool   `json:"log_pretty"`
	Currency           string `json:"currency"`
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	rollover := true
	return Config{
		Store:              "file",
		TickIntervalMS:     250,
		SaveDebounceMS:     0,
		RolloverAtMidnight: &rollover,
		LogLevel:           "warn",
		Currency:           "¥",
	}
}

// TickInterval is the live view refresh period.
func (c Config) TickInterval() time.Duration {
	if c.TickIntervalMS <= 0 {
		return 250 * time.Millisecond
	}
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// SaveDebounce is the minimum spacing of tick-triggered writes.
func (c Config) SaveDebounce() time.Duration {
	if c.SaveDebounceMS <= 0 {
		return 0
	}
	return time.Duration(c.SaveDebounceMS) * time.Millisecond
}

// Rollover reports whether live views reset the day at midnight.
func (c Config) Rollover() bool {
	return c.RolloverAtMidnight == nil || *c.RolloverAtMidnight
}

// LoadGlobal reads ~/.config/earned/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "earned", "config.json")
	return loadFile(path)
}

// loadFile reads and parses a JSON config file at path, returning defaults
// when the file is absent.
func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			d := Defaults()
			return &d, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// LoadEnv reads EARNED_* overrides from the environment, after loading a
// .env file from the working directory if one exists. Unset variables leave
// the corresponding field zero. Returns nil when nothing is set.
func LoadEnv() *Config {
	_ = godotenv.Load()

	var cfg Config
	set := false
	if v := os.Getenv("EARNED_STORE"); v != "" {
		cfg.Store, set = v, true
	}
	if v := os.Getenv("EARNED_DATA_DIR"); v != "" {
		cfg.DataDir, set = v, true
	}
	if v := os.Getenv("EARNED_LOG_LEVEL"); v != "" {
		cfg.LogLevel, set = v, true
	}
	if v := os.Getenv("EARNED_CURRENCY"); v != "" {
		cfg.Currency, set = v, true
	}
	if n, ok := envInt("EARNED_TICK_INTERVAL_MS"); ok {
		cfg.TickIntervalMS, set = n, true
	}
	if n, ok := envInt("EARNED_SAVE_DEBOUNCE_MS"); ok {
		cfg.SaveDebounceMS, set = n, true
	}
	if v := os.Getenv("EARNED_ROLLOVER_AT_MIDNIGHT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.RolloverAtMidnight, set = &b, true
		}
	}
	if !set {
		return nil
	}
	return &cfg
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Merge combines the global file and environment overrides, with the
// environment taking precedence. Missing keys fall back to global, then
// defaults.
func Merge(global, env *Config) Config {
	result := Defaults()
	for _, layer := range []*Config{global, env} {
		if layer == nil {
			continue
		}
		if layer.Store != "" {
			result.Store = layer.Store
		}
		if layer.DataDir != "" {
			result.DataDir = layer.DataDir
		}
		if layer.TickIntervalMS > 0 {
			result.TickIntervalMS = layer.TickIntervalMS
		}
		if layer.SaveDebounceMS > 0 {
			result.SaveDebounceMS = layer.SaveDebounceMS
		}
		if layer.RolloverAtMidnight != nil {
			v := *layer.RolloverAtMidnight
			result.RolloverAtMidnight = &v
		}
		if layer.LogLevel != "" {
			result.LogLevel = layer.LogLevel
		}
		if layer.Currency != "" {
			result.Currency = layer.Currency
		}
		if layer.LogPretty {
			result.LogPretty = true
		}
	}
	return result
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
