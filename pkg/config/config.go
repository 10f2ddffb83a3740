// Package config loads skinlog settings from a YAML file and the environment.
package config

import (
	"time"

	"github.com/unowned-ai/skinlog/pkg/skincare"
)

// Config is the root application configuration.
type Config struct {
	Database    DatabaseConfig           `yaml:"database"`
	Ingredients IngredientsConfig        `yaml:"ingredients"`
	Trend       TrendConfig              `yaml:"trend"`
	Conditions  []skincare.ConditionRule `yaml:"conditions"`
	HTTP        HTTPConfig               `yaml:"http"`
	Log         LogConfig                `yaml:"log"`
}

// DatabaseConfig holds SQLite settings. An empty Path means the
// system-specific default location.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"SKINLOG_DB_PATH"`
	WAL  bool   `yaml:"wal"  env:"SKINLOG_DB_WAL"  env-default:"false"`
	Sync string `yaml:"sync" env:"SKINLOG_DB_SYNC" env-default:"FULL"`
}

// IngredientsConfig selects the ingredient dictionary. An empty Path means
// the built-in dictionary.
type IngredientsConfig struct {
	Path string `yaml:"path" env:"SKINLOG_INGREDIENTS_PATH"`
}

// TrendConfig tunes the trend comparator.
type TrendConfig struct {
	NormalLabel string `yaml:"normal_label" env:"SKINLOG_TREND_NORMAL_LABEL" env-default:"no issues"`
}

// HTTPConfig holds settings of the serve command.
type HTTPConfig struct {
	Addr            string        `yaml:"addr"             env:"SKINLOG_HTTP_ADDR"             env-default:"127.0.0.1:8080"`
	RatePerMinute   int           `yaml:"rate_per_minute"  env:"SKINLOG_HTTP_RATE_PER_MINUTE"  env-default:"120"`
	Burst           int           `yaml:"burst"            env:"SKINLOG_HTTP_BURST"            env-default:"30"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SKINLOG_HTTP_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SKINLOG_HTTP_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SKINLOG_HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"SKINLOG_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"SKINLOG_LOG_FORMAT" env-default:"text"`
}

// ConditionMapper returns the default classifier mapping extended with the
// configured rules.
func (c *Config) ConditionMapper() skincare.ConditionMapper {
	return skincare.NewConditionMapper(c.Conditions...)
}

// TrendComparator returns a comparator using the configured normal label.
func (c *Config) TrendComparator() skincare.TrendComparator {
	return skincare.TrendComparator{NormalLabel: c.Trend.NormalLabel}
}
