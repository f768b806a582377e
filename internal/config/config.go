// Package config loads trackline settings from defaults, an optional JSONC
// file and TRACKLINE_* environment variables, in that order.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexanderramin/trackline/internal/drag"
	"github.com/alexanderramin/trackline/internal/timeline"
	"github.com/tailscale/hujson"
)

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigInvalid      = errors.New("invalid config file")
)

// Config holds all runtime settings.
type Config struct {
	DBPath     string `json:"db_path,omitempty"`
	LogLevel   string `json:"log_level"`
	ListenAddr string `json:"listen_addr"`

	BufferDays      int     `json:"buffer_days"`
	DefaultSpanDays int     `json:"default_span_days"`
	HoursPerDay     int     `json:"hours_per_day"`
	MinWidthPct     float64 `json:"min_width_pct"`

	EdgeZonePx      float64 `json:"edge_zone_px"`
	DragThresholdPx float64 `json:"drag_threshold_px"`
	DragSlackDays   int     `json:"drag_slack_days"`

	// Source is the config file that was loaded, if any.
	Source string `json:"-"`
}

// DefaultConfig returns the built-in settings. DBPath is resolved by Load
// when left empty.
func DefaultConfig() Config {
	tl := timeline.DefaultConfig()
	dr := drag.DefaultConfig()
	return Config{
		LogLevel:        "warn",
		ListenAddr:      "127.0.0.1:8080",
		BufferDays:      tl.BufferDays,
		DefaultSpanDays: tl.DefaultSpanDays,
		HoursPerDay:     tl.HoursPerDay,
		MinWidthPct:     tl.MinWidthPct,
		EdgeZonePx:      dr.EdgeZonePx,
		DragThresholdPx: dr.ThresholdPx,
		DragSlackDays:   dr.SlackDays,
	}
}

// Timeline returns the resolver and layout settings.
func (c Config) Timeline() timeline.Config {
	tl := timeline.DefaultConfig()
	tl.BufferDays = c.BufferDays
	tl.DefaultSpanDays = c.DefaultSpanDays
	tl.HoursPerDay = c.HoursPerDay
	tl.MinWidthPct = c.MinWidthPct
	return tl
}

// Drag returns the gesture thresholds.
func (c Config) Drag() drag.Config {
	return drag.Config{
		EdgeZonePx:  c.EdgeZonePx,
		ThresholdPx: c.DragThresholdPx,
		SlackDays:   c.DragSlackDays,
	}
}

// SlogLevel parses LogLevel, defaulting to warn.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return lvl
}

// Path returns the config file location: TRACKLINE_CONFIG if set, otherwise
// $XDG_CONFIG_HOME/trackline/config.json or ~/.config/trackline/config.json.
func Path(env map[string]string) string {
	if p := env["TRACKLINE_CONFIG"]; p != "" {
		return p
	}
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "trackline", "config.json")
	}
	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "trackline", "config.json")
	}
	return ""
}

// DefaultDBPath returns ~/.trackline/trackline.db.
func DefaultDBPath(env map[string]string) (string, error) {
	home := env["HOME"]
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("finding home directory: %w", err)
		}
	}
	return filepath.Join(home, ".trackline", "trackline.db"), nil
}

// EnvMap converts os.Environ-style pairs into a map.
func EnvMap(pairs []string) map[string]string {
	env := make(map[string]string, len(pairs))
	for _, kv := range pairs {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// Load applies defaults, then the config file, then environment overrides.
// An explicit TRACKLINE_CONFIG must exist; the default location is optional.
func Load(env map[string]string) (Config, error) {
	cfg := DefaultConfig()

	path := Path(env)
	if path != "" {
		fileCfg, loaded, err := loadFile(cfg, path, env["TRACKLINE_CONFIG"] != "")
		if err != nil {
			return Config{}, err
		}
		if loaded {
			cfg = fileCfg
			cfg.Source = path
		}
	}

	if err := applyEnv(&cfg, env); err != nil {
		return Config{}, err
	}

	if cfg.DBPath == "" {
		p, err := DefaultDBPath(env)
		if err != nil {
			return Config{}, err
		}
		cfg.DBPath = p
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot work with.
func (c Config) Validate() error {
	switch {
	case c.BufferDays < 0:
		return fmt.Errorf("%w: buffer_days must not be negative", ErrConfigInvalid)
	case c.DefaultSpanDays < 1:
		return fmt.Errorf("%w: default_span_days must be at least 1", ErrConfigInvalid)
	case c.HoursPerDay < 1:
		return fmt.Errorf("%w: hours_per_day must be at least 1", ErrConfigInvalid)
	case c.MinWidthPct <= 0 || c.MinWidthPct > 100:
		return fmt.Errorf("%w: min_width_pct must be above 0 and at most 100", ErrConfigInvalid)
	case c.EdgeZonePx < 0 || c.DragThresholdPx < 0:
		return fmt.Errorf("%w: drag thresholds must not be negative", ErrConfigInvalid)
	case c.DragSlackDays < 0:
		return fmt.Errorf("%w: drag_slack_days must not be negative", ErrConfigInvalid)
	}
	return nil
}

func loadFile(base Config, path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}
		if os.IsNotExist(err) {
			return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}
		return Config{}, false, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg, err := decode(base, data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}
	return cfg, true, nil
}

// Parse decodes a JSONC document over the defaults. Fields the document
// omits keep their default; fields it sets, zero included, win.
func Parse(data []byte) (Config, error) {
	return decode(DefaultConfig(), data)
}

func decode(base Config, data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}
	cfg := base
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides cfg from TRACKLINE_* variables. Values that do not parse
// are reported; range checks are left to Validate.
func applyEnv(cfg *Config, env map[string]string) error {
	if v := env["TRACKLINE_DB"]; v != "" {
		cfg.DBPath = v
	}
	if v := env["TRACKLINE_LOG_LEVEL"]; v != "" {
		cfg.LogLevel = v
	}
	if v := env["TRACKLINE_LISTEN_ADDR"]; v != "" {
		cfg.ListenAddr = v
	}

	ints := []struct {
		name   string
		target *int
	}{
		{"TRACKLINE_BUFFER_DAYS", &cfg.BufferDays},
		{"TRACKLINE_DEFAULT_SPAN_DAYS", &cfg.DefaultSpanDays},
		{"TRACKLINE_HOURS_PER_DAY", &cfg.HoursPerDay},
		{"TRACKLINE_DRAG_SLACK_DAYS", &cfg.DragSlackDays},
	}
	for _, e := range ints {
		v := env[e.name]
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a whole number", ErrConfigInvalid, e.name, v)
		}
		*e.target = n
	}

	floats := []struct {
		name   string
		target *float64
	}{
		{"TRACKLINE_MIN_WIDTH_PCT", &cfg.MinWidthPct},
		{"TRACKLINE_EDGE_ZONE_PX", &cfg.EdgeZonePx},
		{"TRACKLINE_DRAG_THRESHOLD_PX", &cfg.DragThresholdPx},
	}
	for _, e := range floats {
		v := env[e.name]
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrConfigInvalid, e.name, v)
		}
		*e.target = f
	}
	return nil
}
