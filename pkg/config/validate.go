package config

import (
	"fmt"
	"strings"
)

var validSyncModes = map[string]bool{"OFF": true, "NORMAL": true, "FULL": true, "EXTRA": true}

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if c.Database.Sync != "" && !validSyncModes[strings.ToUpper(c.Database.Sync)] {
		return fmt.Errorf("database.sync must be one of OFF, NORMAL, FULL, EXTRA (got %q)", c.Database.Sync)
	}

	if strings.TrimSpace(c.Trend.NormalLabel) == "" {
		return fmt.Errorf("trend.normal_label must not be empty")
	}

	for i, rule := range c.Conditions {
		if strings.TrimSpace(rule.Contains) == "" {
			return fmt.Errorf("conditions[%d].contains must not be empty", i)
		}
		if !rule.Condition.Valid() {
			return fmt.Errorf("conditions[%d].condition %q is not a known condition", i, rule.Condition)
		}
	}

	if err := c.HTTP.validate(); err != nil {
		return fmt.Errorf("http: %w", err)
	}

	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	return nil
}

func (h *HTTPConfig) validate() error {
	if h.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if h.RatePerMinute <= 0 {
		return fmt.Errorf("rate_per_minute must be > 0 (got %d)", h.RatePerMinute)
	}
	if h.Burst <= 0 {
		return fmt.Errorf("burst must be > 0 (got %d)", h.Burst)
	}
	return nil
}

func (l *LogConfig) validate() error {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("level must be one of debug, info, warn, error (got %q)", l.Level)
	}
	switch strings.ToLower(l.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("format must be json or text (got %q)", l.Format)
	}
	return nil
}
