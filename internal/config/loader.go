package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "NARROWD_"

// fileConfig mirrors Config with TOML-friendly field types. Durations are
// written as strings ("300ms") and parsed with time.ParseDuration.
type fileConfig struct {
	Mode             *string  `toml:"mode"`
	Debounce         *string  `toml:"debounce"`
	AllowedLanguages []string `toml:"allowed_languages"`
	FlushOnWiden     *bool    `toml:"flush_on_widen"`
	TempPrefix       *string  `toml:"temp_prefix"`
	HookScript       *string  `toml:"hook_script"`
	LogFile          *string  `toml:"log_file"`
	Verbosity        *int     `toml:"verbosity"`
}

// Load builds a Config from defaults, then the TOML file at path (if it
// exists), then NARROWD_* environment variables. A missing file is not an
// error; a malformed file or value is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile overlays settings from a TOML file onto cfg.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fc.Mode != nil {
		cfg.Mode = *fc.Mode
	}
	if fc.Debounce != nil {
		d, err := time.ParseDuration(*fc.Debounce)
		if err != nil {
			return fmt.Errorf("config file %s: debounce: %w", path, err)
		}
		cfg.Debounce = d
	}
	if fc.AllowedLanguages != nil {
		cfg.AllowedLanguages = fc.AllowedLanguages
	}
	if fc.FlushOnWiden != nil {
		cfg.FlushOnWiden = *fc.FlushOnWiden
	}
	if fc.TempPrefix != nil {
		cfg.TempPrefix = *fc.TempPrefix
	}
	if fc.HookScript != nil {
		cfg.HookScript = *fc.HookScript
	}
	if fc.LogFile != nil {
		cfg.LogFile = *fc.LogFile
	}
	if fc.Verbosity != nil {
		cfg.Verbosity = *fc.Verbosity
	}
	return nil
}

// applyEnv overlays NARROWD_* environment variables onto cfg.
// Empty values are treated as set, matching os.LookupEnv semantics.
func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvPrefix + "MODE"); ok {
		cfg.Mode = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "DEBOUNCE"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sDEBOUNCE: %w", EnvPrefix, err)
		}
		cfg.Debounce = d
	}
	if v, ok := os.LookupEnv(EnvPrefix + "ALLOWED_LANGUAGES"); ok {
		cfg.AllowedLanguages = splitList(v)
	}
	if v, ok := os.LookupEnv(EnvPrefix + "FLUSH_ON_WIDEN"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sFLUSH_ON_WIDEN: %w", EnvPrefix, err)
		}
		cfg.FlushOnWiden = b
	}
	if v, ok := os.LookupEnv(EnvPrefix + "TEMP_PREFIX"); ok {
		cfg.TempPrefix = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "HOOK_SCRIPT"); ok {
		cfg.HookScript = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "VERBOSITY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sVERBOSITY: %w", EnvPrefix, err)
		}
		cfg.Verbosity = n
	}
	return nil
}

// splitList splits a comma-separated list, trimming whitespace and
// dropping empty entries.
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
