// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for LegiChat.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/kv"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/theme"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete LegiChat configuration.
type Config struct {
	API     APIConfig     `toml:"api" json:"api"`
	Storage StorageConfig `toml:"storage" json:"storage"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// APIConfig configures the answer backend client.
type APIConfig struct {
	// URL is the base URL; requests go to {URL}/chat
	URL string `toml:"url" json:"url"`
	// TimeoutSecs bounds a single request
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// MaxRetries is the number of retries after a 5xx or network failure
	MaxRetries int `toml:"max_retries" json:"max_retries"`
	// RatePerSec caps submissions per second (0 = unlimited)
	RatePerSec float64 `toml:"rate_per_sec" json:"rate_per_sec"`
	// Simulate replaces the backend with a local canned reply
	Simulate bool `toml:"simulate" json:"simulate"`
	// SimulateDelayMs is the simulated reply delay
	SimulateDelayMs int `toml:"simulate_delay_ms" json:"simulate_delay_ms"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Backend is "sqlite", "bolt" or "memory"
	Backend string `toml:"backend" json:"backend"`
	// Path is the database file; empty means the per-backend default
	Path string `toml:"path" json:"path"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	SidebarWidth   int  `toml:"sidebar_width" json:"sidebar_width"`
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
	// Theme forces "light" or "dark" on startup; empty keeps the stored theme
	Theme string `toml:"theme" json:"theme"`
}

// LogConfig configures the standard logger.
type LogConfig struct {
	Path    string `toml:"path" json:"path"`
	Verbose bool   `toml:"verbose" json:"verbose"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			URL:             "http://localhost:5000/api",
			TimeoutSecs:     60,
			MaxRetries:      2,
			RatePerSec:      0, // unlimited
			Simulate:        false,
			SimulateDelayMs: 1500,
		},
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    "",
		},
		UI: UIConfig{
			SidebarWidth:   32,
			ShowTimestamps: true,
			Theme:          "",
		},
		Log: LogConfig{
			Path:    "~/.legichat/legichat.log",
			Verbose: false,
		},
	}
}

// Timeout returns the request timeout as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// SimulateDelay returns the simulated reply delay as a duration.
func (a APIConfig) SimulateDelay() time.Duration {
	return time.Duration(a.SimulateDelayMs) * time.Millisecond
}

// ResolvedPath returns the database path with ~ expanded, falling back to
// ~/.legichat/legichat.db (sqlite) or ~/.legichat/legichat.bolt (bolt).
func (s StorageConfig) ResolvedPath() string {
	if s.Path != "" {
		return ExpandPath(s.Path)
	}
	name := "legichat.db"
	if strings.EqualFold(s.Backend, string(kv.KindBolt)) {
		name = "legichat.bolt"
	}
	dir, err := ConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, name)
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the LegiChat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".legichat"), nil
}

// ConfigPath returns the path to the default TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ExpandPath expands a leading ~ to the home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the configuration from path, or from ConfigPath when path is
// empty. A missing file yields the defaults. Environment overrides are
// applied last, then the result is validated.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg. Keys absent from the file keep
// their current values.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if strings.TrimSpace(cfg.API.URL) == "" {
		cfg.API.URL = defaults.API.URL
	}
	if cfg.API.TimeoutSecs == 0 {
		cfg.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if cfg.API.SimulateDelayMs == 0 {
		cfg.API.SimulateDelayMs = defaults.API.SimulateDelayMs
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = defaults.Storage.Backend
	}
	if cfg.UI.SidebarWidth == 0 {
		cfg.UI.SidebarWidth = defaults.UI.SidebarWidth
	}
	if cfg.Log.Path == "" {
		cfg.Log.Path = defaults.Log.Path
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg as TOML to path, or to ConfigPath when path is empty.
// RELIABILITY: Atomic write with fsync prevents a truncated config on crash.
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	err := util.WriteFileAtomic(path, 0o600, func(w io.Writer) error {
		if _, err := io.WriteString(w, configHeader); err != nil {
			return err
		}
		if err := toml.NewEncoder(w).Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

const configHeader = "# LegiChat configuration file\n# Generated by legichat - edit with care\n\n"

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// ==========================================================================
	// API
	// ==========================================================================

	if u, err := url.Parse(c.API.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "api.url",
			Message: fmt.Sprintf("invalid URL '%s', must be an absolute http(s) URL", c.API.URL),
		})
	}
	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: fmt.Sprintf("must be between 1 and 600, got %d", c.API.TimeoutSecs),
		})
	}
	if c.API.MaxRetries < 0 || c.API.MaxRetries > 10 {
		errs = append(errs, ValidationError{
			Field:   "api.max_retries",
			Message: fmt.Sprintf("must be between 0 and 10, got %d", c.API.MaxRetries),
		})
	}
	if c.API.RatePerSec < 0 {
		errs = append(errs, ValidationError{
			Field:   "api.rate_per_sec",
			Message: "must not be negative",
		})
	}
	if c.API.SimulateDelayMs < 0 || c.API.SimulateDelayMs > 60000 {
		errs = append(errs, ValidationError{
			Field:   "api.simulate_delay_ms",
			Message: fmt.Sprintf("must be between 0 and 60000, got %d", c.API.SimulateDelayMs),
		})
	}

	// ==========================================================================
	// Storage
	// ==========================================================================

	if _, err := kv.ParseKind(c.Storage.Backend); err != nil {
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: sqlite, bolt, memory", c.Storage.Backend),
		})
	}

	// ==========================================================================
	// UI
	// ==========================================================================

	if c.UI.SidebarWidth < 16 || c.UI.SidebarWidth > 80 {
		errs = append(errs, ValidationError{
			Field:   "ui.sidebar_width",
			Message: fmt.Sprintf("must be between 16 and 80, got %d", c.UI.SidebarWidth),
		})
	}
	if c.UI.Theme != "" {
		if _, err := theme.Parse(c.UI.Theme); err != nil {
			errs = append(errs, ValidationError{
				Field:   "ui.theme",
				Message: fmt.Sprintf("invalid theme '%s', must be light, dark or empty", c.UI.Theme),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - LEGICHAT_API_URL: overrides api.url
//   - LEGICHAT_STORAGE: overrides storage.backend
//   - LEGICHAT_SIMULATE: set to "1" or "true" to enable api.simulate
//   - LEGICHAT_LOG: overrides log.path
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv("LEGICHAT_API_URL"); u != "" {
		c.API.URL = u
	}
	if backend := os.Getenv("LEGICHAT_STORAGE"); backend != "" {
		c.Storage.Backend = backend
	}
	if simulate := os.Getenv("LEGICHAT_SIMULATE"); simulate != "" {
		c.API.Simulate = parseBool(simulate)
	}
	if logPath := os.Getenv("LEGICHAT_LOG"); logPath != "" {
		c.Log.Path = logPath
	}
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "api.url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.sidebar_width").
// String values are converted to the field type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("'%s' is a section, not a value", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strings.TrimSpace(strVal), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strings.TrimSpace(strVal), 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			field.SetBool(parseBool(strVal))
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"api.url",
		"api.timeout_secs",
		"api.max_retries",
		"api.rate_per_sec",
		"api.simulate",
		"api.simulate_delay_ms",
		"storage.backend",
		"storage.path",
		"ui.sidebar_width",
		"ui.show_timestamps",
		"ui.theme",
		"log.path",
		"log.verbose",
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the configuration as indented JSON for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
