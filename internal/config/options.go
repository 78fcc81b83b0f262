package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// jsonConfig mirrors the overridable settings as they appear in an LSP
// client's initializationOptions.
type jsonConfig struct {
	Mode             *string  `json:"mode"`
	Debounce         *string  `json:"debounce"`
	AllowedLanguages []string `json:"allowedLanguages"`
	FlushOnWiden     *bool    `json:"flushOnWiden"`
	TempPrefix       *string  `json:"tempPrefix"`
	HookScript       *string  `json:"hookScript"`
}

// ApplyOptions overlays client-provided initialization options onto cfg.
// The options arrive as already-decoded JSON (any); a round trip through
// encoding/json maps them onto the known fields. Unknown fields are
// ignored. The result is validated before cfg is touched.
func ApplyOptions(cfg *Config, options any) error {
	if options == nil {
		return nil
	}

	raw, err := json.Marshal(options)
	if err != nil {
		return fmt.Errorf("encoding initialization options: %w", err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(raw, &jc); err != nil {
		return fmt.Errorf("decoding initialization options: %w", err)
	}

	next := cfg.Clone()
	if jc.Mode != nil {
		next.Mode = *jc.Mode
	}
	if jc.Debounce != nil {
		d, err := time.ParseDuration(*jc.Debounce)
		if err != nil {
			return fmt.Errorf("initialization options: debounce: %w", err)
		}
		next.Debounce = d
	}
	if jc.AllowedLanguages != nil {
		next.AllowedLanguages = jc.AllowedLanguages
	}
	if jc.FlushOnWiden != nil {
		next.FlushOnWiden = *jc.FlushOnWiden
	}
	if jc.TempPrefix != nil {
		next.TempPrefix = *jc.TempPrefix
	}
	if jc.HookScript != nil {
		next.HookScript = *jc.HookScript
	}
	if err := next.Validate(); err != nil {
		return err
	}

	*cfg = *next
	return nil
}
