// Package config loads service configuration from defaults, an optional
// config file, HOUSING_-prefixed environment variables and command flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roach88/housingjson/internal/querypath"
	"github.com/roach88/housingjson/internal/store"
)

// EnvPrefix prefixes every environment variable: http.addr is read from
// HOUSING_HTTP_ADDR.
const EnvPrefix = "HOUSING"

// Config is the complete service configuration.
type Config struct {
	HTTP  HTTPConfig  `mapstructure:"http"`
	DB    DBConfig    `mapstructure:"db"`
	Query QueryConfig `mapstructure:"query"`
	Log   LogConfig   `mapstructure:"log"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORSOrigin   string        `mapstructure:"cors_origin"`
	RateLimit    int           `mapstructure:"rate_limit"` // requests per minute per client IP; 0 disables
	RateBurst    int           `mapstructure:"rate_burst"`
}

// DBConfig configures the record store.
type DBConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// QueryConfig configures path normalization.
type QueryConfig struct {
	KeyCasing string `mapstructure:"key_casing"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" | "json"
}

// defaults lists every key with its default value.
var defaults = map[string]any{
	"http.addr":          ":8000",
	"http.read_timeout":  10 * time.Second,
	"http.write_timeout": 30 * time.Second,
	"http.cors_origin":   "*",
	"http.rate_limit":    600,
	"http.rate_burst":    60,
	"db.driver":          store.DriverCGO,
	"db.path":            "./housing.db",
	"query.key_casing":   querypath.CasingCapitalize.String(),
	"log.level":          "info",
	"log.format":         "text",
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds command flags to config keys. flags maps a config key to
// a flag name; keys whose flag is not defined on cmd are skipped.
func BindFlags(v *viper.Viper, cmd *cobra.Command, flags map[string]string) error {
	for key, name := range flags {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// Load reads file (if non-empty) into v and decodes the result.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field and reports all problems together.
func (c Config) Validate() error {
	var errs []error

	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if c.HTTP.ReadTimeout < 0 || c.HTTP.WriteTimeout < 0 {
		errs = append(errs, errors.New("http timeouts must not be negative"))
	}
	if c.HTTP.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("http.rate_limit must not be negative, got %d", c.HTTP.RateLimit))
	}
	if c.HTTP.RateLimit > 0 && c.HTTP.RateBurst < 1 {
		errs = append(errs, fmt.Errorf("http.rate_burst must be at least 1, got %d", c.HTTP.RateBurst))
	}
	if c.DB.Driver != store.DriverCGO && c.DB.Driver != store.DriverPureGo {
		errs = append(errs, fmt.Errorf("db.driver %q: must be %s or %s", c.DB.Driver, store.DriverCGO, store.DriverPureGo))
	}
	if c.DB.Path == "" {
		errs = append(errs, errors.New("db.path is required"))
	}
	if _, err := querypath.ParseCasing(c.Query.KeyCasing); err != nil {
		errs = append(errs, fmt.Errorf("query.key_casing: %w", err))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format %q: must be text or json", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Normalizer returns the path normalizer for the configured key casing.
// Call only on a validated Config.
func (c Config) Normalizer() querypath.Normalizer {
	casing, _ := querypath.ParseCasing(c.Query.KeyCasing)
	return querypath.Normalizer{Casing: casing}
}

// SlogLevel parses the configured level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", l.Level, err)
	}
	return level, nil
}
