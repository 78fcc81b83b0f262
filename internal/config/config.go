// Package config provides narrowd's configuration: defaults, a TOML file
// loader with environment variable overrides, validation, and live reload
// of the settings that are safe to change while a session is active.
package config

import (
	"fmt"
	"time"
)

// Sync mode names.
const (
	// ModeManual performs a single write-back on explicit widen.
	ModeManual = "manual"
	// ModeAuto synchronizes the source on every detached-buffer edit,
	// debounced.
	ModeAuto = "auto"
)

// DefaultDebounce is the quiet window for auto-mode synchronization.
const DefaultDebounce = 300 * time.Millisecond

// DefaultTempPrefix is prepended to the source file's base name to form
// the hidden backing file for a detached buffer.
const DefaultTempPrefix = ".narrow-"

// Config holds all narrowd settings.
type Config struct {
	// Mode selects the sync variant: ModeManual or ModeAuto.
	Mode string `toml:"mode"`

	// Debounce is the quiet window for auto-mode sync. Successive edits
	// inside the window collapse into a single write-back.
	Debounce time.Duration `toml:"debounce"`

	// AllowedLanguages restricts which source languages may be narrowed.
	// A single "*" entry, or an empty list, allows every language.
	AllowedLanguages []string `toml:"allowed_languages"`

	// FlushOnWiden forces a pending debounced sync to run synchronously
	// before widen cleanup, so the last edit inside the quiet window is
	// never lost.
	FlushOnWiden bool `toml:"flush_on_widen"`

	// TempPrefix names the hidden backing file for detached buffers.
	TempPrefix string `toml:"temp_prefix"`

	// HookScript is an optional path to a Lua script with lifecycle
	// callbacks.
	HookScript string `toml:"hook_script"`

	// LogFile receives server logs; empty means stderr only.
	LogFile string `toml:"log_file"`

	// Verbosity is the commonlog verbosity level.
	Verbosity int `toml:"verbosity"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Mode:             ModeManual,
		Debounce:         DefaultDebounce,
		AllowedLanguages: []string{"*"},
		FlushOnWiden:     true,
		TempPrefix:       DefaultTempPrefix,
		Verbosity:        1,
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Mode != ModeManual && c.Mode != ModeAuto {
		return fmt.Errorf("invalid mode %q: must be %q or %q", c.Mode, ModeManual, ModeAuto)
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("invalid debounce %v: must be positive", c.Debounce)
	}
	if c.TempPrefix == "" {
		return fmt.Errorf("temp_prefix must not be empty")
	}
	return nil
}

// LanguageAllowed reports whether a source with the given language may be
// narrowed.
func (c *Config) LanguageAllowed(language string) bool {
	if len(c.AllowedLanguages) == 0 {
		return true
	}
	for _, allowed := range c.AllowedLanguages {
		if allowed == "*" || allowed == language {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.AllowedLanguages = append([]string(nil), c.AllowedLanguages...)
	return &out
}
