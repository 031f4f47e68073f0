// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/ttylock/internal/auth"
	"github.com/jeranaias/ttylock/internal/lock"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete ttylock configuration.
type Config struct {
	Lock  LockConfig  `toml:"lock" json:"lock" yaml:"lock"`
	Auth  AuthConfig  `toml:"auth" json:"auth" yaml:"auth"`
	Audit AuditConfig `toml:"audit" json:"audit" yaml:"audit"`
	Log   LogConfig   `toml:"log" json:"log" yaml:"log"`
	UI    UIConfig    `toml:"ui" json:"ui" yaml:"ui"`
}

// LockConfig controls the lock session itself.
type LockConfig struct {
	// Service is the authentication service name handed to the backend
	// (the PAM service for the pam backend).
	Service string `toml:"service" json:"service" yaml:"service"`
	// MaskChar is the single character echoed per typed character.
	MaskChar string `toml:"mask_char" json:"mask_char" yaml:"mask_char"`
	// FailureFormat is the status line after a rejected attempt; it must
	// contain one %d for the failure count.
	FailureFormat string `toml:"failure_format" json:"failure_format" yaml:"failure_format"`
}

// AuthConfig selects and tunes the credential backend.
type AuthConfig struct {
	// Backend is one of "auto", "pam", "su", "shadow".
	Backend     string `toml:"backend" json:"backend" yaml:"backend"`
	TimeoutSecs int    `toml:"timeout_secs" json:"timeout_secs" yaml:"timeout_secs"`
	SuPath      string `toml:"su_path" json:"su_path" yaml:"su_path"`
	ShadowPath  string `toml:"shadow_path" json:"shadow_path" yaml:"shadow_path"`
}

// AuditConfig controls the attempt audit trail.
type AuditConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled" yaml:"enabled"`
	Path    string `toml:"path" json:"path" yaml:"path"`
	KeyPath string `toml:"key_path" json:"key_path" yaml:"key_path"`
}

// LogConfig controls diagnostic logging. The terminal is owned by the lock
// screen, so logs only ever go to a file.
type LogConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled" yaml:"enabled"`
	Path    string `toml:"path" json:"path" yaml:"path"`
	Level   string `toml:"level" json:"level" yaml:"level"`
}

// UIConfig contains lock screen presentation settings.
type UIConfig struct {
	Title string `toml:"title" json:"title" yaml:"title"`
	// Notice is optional markdown rendered below the prompt.
	Notice string `toml:"notice" json:"notice" yaml:"notice"`
	// Theme is "auto", "dark" or "light".
	Theme string `toml:"theme" json:"theme" yaml:"theme"`
}

// Timeout returns the backend timeout as a duration.
func (a AuthConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// MaskRune returns the mask character, falling back to the default.
func (l LockConfig) MaskRune() rune {
	r, size := utf8.DecodeRuneInString(l.MaskChar)
	if size == 0 || r == utf8.RuneError {
		return lock.DefaultMaskRune
	}
	return r
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	dir, err := ConfigDir()
	if err != nil {
		dir = ".ttylock"
	}
	return &Config{
		Lock: LockConfig{
			Service:       "ttylock",
			MaskChar:      string(lock.DefaultMaskRune),
			FailureFormat: lock.DefaultFailureFormat,
		},
		Auth: AuthConfig{
			Backend:     auth.BackendAuto,
			TimeoutSecs: int(auth.DefaultTimeout / time.Second),
			SuPath:      auth.DefaultSuPath,
			ShadowPath:  auth.DefaultShadowPath,
		},
		Audit: AuditConfig{
			Enabled: true,
			Path:    filepath.Join(dir, "audit.log"),
			KeyPath: keyPathFor(filepath.Join(dir, "audit.log")),
		},
		Log: LogConfig{
			Enabled: false,
			Path:    filepath.Join(dir, "ttylock.log"),
			Level:   "info",
		},
		UI: UIConfig{
			Title: "TERMINAL LOCKED",
			Theme: "auto",
		},
	}
}

// =============================================================================
// FILE PATHS
// =============================================================================

// ConfigDir returns the configuration directory (~/.ttylock).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".ttylock"), nil
}

// configPath returns ~/.ttylock/config.<ext>.
func configPath(ext string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config."+ext), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) { return configPath("toml") }

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) { return configPath("json") }

// ConfigPathYAML returns the path to the YAML config file.
func ConfigPathYAML() (string, error) { return configPath("yaml") }

// ensureSecurePermissions narrows a config file to 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the first config file found in ~/.ttylock (TOML, then JSON,
// then YAML). When none exists the defaults are returned. Environment
// overrides are applied last.
func Load() (*Config, error) {
	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON, ConfigPathYAML} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	warnPermissions(path)

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file into cfg.
func LoadJSON(cfg *Config, path string) error {
	warnPermissions(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadYAML decodes a YAML file into cfg.
func LoadYAML(cfg *Config, path string) error {
	warnPermissions(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read YAML file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode YAML file: %w", err)
	}
	return nil
}

func warnPermissions(path string) {
	// Not fatal: permissions might not be fixable on all systems.
	if err := ensureSecurePermissions(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
}

// LoadFromPath loads configuration from a specific file with full
// validation. The format follows the file extension; anything that is not
// .json, .yaml or .yml is read as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	defaultAuditPath := cfg.Audit.Path

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = LoadJSON(cfg, path)
	case ".yaml", ".yml":
		err = LoadYAML(cfg, path)
	default:
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	cfg.Audit.followKey(defaultAuditPath)

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// keyPathFor returns the HMAC key location next to an audit log.
func keyPathFor(auditPath string) string {
	return filepath.Join(filepath.Dir(auditPath), ".audit_hmac_key")
}

// followKey moves the key next to the audit log when the log was moved
// away from prevPath and the key was still at its derived location.
func (a *AuditConfig) followKey(prevPath string) {
	if a.Path == prevPath {
		return
	}
	if a.KeyPath == "" || a.KeyPath == keyPathFor(prevPath) {
		a.KeyPath = keyPathFor(a.Path)
	}
}

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

var validThemes = map[string]bool{"auto": true, "dark": true, "light": true}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Lock
	if strings.TrimSpace(c.Lock.Service) == "" {
		errs = append(errs, ValidationError{Field: "lock.service", Message: "must not be empty"})
	}
	if utf8.RuneCountInString(c.Lock.MaskChar) != 1 {
		errs = append(errs, ValidationError{Field: "lock.mask_char", Message: "must be exactly one character"})
	}
	if strings.Count(c.Lock.FailureFormat, "%d") != 1 || strings.Count(c.Lock.FailureFormat, "%") != 1 {
		errs = append(errs, ValidationError{Field: "lock.failure_format", Message: "must contain exactly one %d and no other verbs"})
	}

	// Auth
	validBackend := false
	for _, name := range auth.BackendNames() {
		if c.Auth.Backend == name {
			validBackend = true
			break
		}
	}
	if !validBackend {
		errs = append(errs, ValidationError{
			Field:   "auth.backend",
			Message: fmt.Sprintf("must be one of: %s", strings.Join(auth.BackendNames(), ", ")),
		})
	}
	if c.Auth.TimeoutSecs < 1 || c.Auth.TimeoutSecs > 120 {
		errs = append(errs, ValidationError{Field: "auth.timeout_secs", Message: "must be between 1 and 120"})
	}

	// Audit
	if c.Audit.Enabled && c.Audit.Path == "" {
		errs = append(errs, ValidationError{Field: "audit.path", Message: "required when audit is enabled"})
	}

	// Log
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, ValidationError{Field: "log.level", Message: "must be one of: debug, info, warn, error"})
	}
	if c.Log.Enabled && c.Log.Path == "" {
		errs = append(errs, ValidationError{Field: "log.path", Message: "required when logging is enabled"})
	}

	// UI
	if !validThemes[c.UI.Theme] {
		errs = append(errs, ValidationError{Field: "ui.theme", Message: "must be one of: auto, dark, light"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills empty fields with their defaults. Booleans are left
// alone: an explicit false is meaningful.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Lock.Service == "" {
		c.Lock.Service = d.Lock.Service
	}
	if c.Lock.MaskChar == "" {
		c.Lock.MaskChar = d.Lock.MaskChar
	}
	if c.Lock.FailureFormat == "" {
		c.Lock.FailureFormat = d.Lock.FailureFormat
	}

	if c.Auth.Backend == "" {
		c.Auth.Backend = d.Auth.Backend
	}
	if c.Auth.TimeoutSecs == 0 {
		c.Auth.TimeoutSecs = d.Auth.TimeoutSecs
	}
	if c.Auth.SuPath == "" {
		c.Auth.SuPath = d.Auth.SuPath
	}
	if c.Auth.ShadowPath == "" {
		c.Auth.ShadowPath = d.Auth.ShadowPath
	}

	if c.Audit.Path == "" {
		c.Audit.Path = d.Audit.Path
	}
	if c.Audit.KeyPath == "" {
		c.Audit.KeyPath = keyPathFor(c.Audit.Path)
	}

	if c.Log.Path == "" {
		c.Log.Path = d.Log.Path
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}

	if c.UI.Title == "" {
		c.UI.Title = d.UI.Title
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies TTYLOCK_* environment variables.
//
//	TTYLOCK_SERVICE            lock.service
//	TTYLOCK_AUTH_BACKEND       auth.backend
//	TTYLOCK_AUTH_TIMEOUT_SECS  auth.timeout_secs
//	TTYLOCK_LOG_LEVEL          log.level
//	TTYLOCK_LOG_PATH           log.path (also enables logging)
//	TTYLOCK_AUDIT_PATH         audit.path
//	TTYLOCK_THEME              ui.theme
func (c *Config) ApplyEnvOverrides() {
	if service := os.Getenv("TTYLOCK_SERVICE"); service != "" {
		c.Lock.Service = service
	}

	if backend := os.Getenv("TTYLOCK_AUTH_BACKEND"); backend != "" {
		c.Auth.Backend = strings.ToLower(backend)
	}

	// Unparseable values are ignored rather than zeroing the timeout.
	if secs := os.Getenv("TTYLOCK_AUTH_TIMEOUT_SECS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil {
			c.Auth.TimeoutSecs = n
		}
	}

	if level := os.Getenv("TTYLOCK_LOG_LEVEL"); level != "" {
		c.Log.Level = strings.ToLower(level)
	}

	if path := os.Getenv("TTYLOCK_LOG_PATH"); path != "" {
		c.Log.Path = path
		c.Log.Enabled = true
	}

	if path := os.Getenv("TTYLOCK_AUDIT_PATH"); path != "" {
		prev := c.Audit.Path
		c.Audit.Path = path
		c.Audit.followKey(prev)
	}

	if theme := os.Getenv("TTYLOCK_THEME"); theme != "" {
		c.UI.Theme = strings.ToLower(theme)
	}
}
