package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// EnvPrefix is prepended to every environment variable, e.g. SPESA_DATA_BACKEND.
const EnvPrefix = "SPESA"

// Backends accepted by DataBackend.
var Backends = []string{"memory", "file", "sqlite"}

var logLevels = []string{"debug", "info", "warn", "error"}

type Config struct {
	// Storage
	DataBackend  string `mapstructure:"data_backend"`
	DataDir      string `mapstructure:"data_dir"`
	SQLiteDBPath string `mapstructure:"sqlite_db_path"`

	// Presentation
	Locale    string `mapstructure:"locale"`
	Timezone  string `mapstructure:"timezone"`
	ExportDir string `mapstructure:"export_dir"`

	// Logging
	LogLevel string `mapstructure:"log_level"`

	// View memoisation
	ViewCacheSize int           `mapstructure:"view_cache_size"`
	ViewCacheTTL  time.Duration `mapstructure:"view_cache_ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_backend", "file")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("sqlite_db_path", "./data/spesa.db")
	v.SetDefault("locale", "en")
	v.SetDefault("timezone", "Local")
	v.SetDefault("export_dir", ".")
	v.SetDefault("log_level", "warn")
	v.SetDefault("view_cache_size", 16)
	v.SetDefault("view_cache_ttl", time.Minute)
}

// Load reads defaults, then the TOML config file, then SPESA_* environment
// variables. With an empty path an optional ./spesa.toml (or any other
// extension viper knows) is used.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		// Only names with a known extension match, never a bare "spesa" binary.
		v.SetConfigName("spesa")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if !slices.Contains(Backends, c.DataBackend) {
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, Backends))
	}

	switch c.DataBackend {
	case "file":
		if c.DataDir == "" {
			errs = append(errs, "data directory cannot be empty when using file backend")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if _, err := language.Parse(c.Locale); err != nil {
		errs = append(errs, fmt.Sprintf("invalid locale '%s': %v", c.Locale, err))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}
	if c.ExportDir == "" {
		errs = append(errs, "export directory cannot be empty")
	}

	if !slices.Contains(logLevels, strings.ToLower(c.LogLevel)) {
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, logLevels))
	}

	if c.ViewCacheSize < 0 {
		errs = append(errs, fmt.Sprintf("invalid view cache size %d: must not be negative", c.ViewCacheSize))
	} else if c.ViewCacheSize > 1000 {
		errs = append(errs, fmt.Sprintf("invalid view cache size %d: must be at most 1000", c.ViewCacheSize))
	}
	if c.ViewCacheTTL < 0 {
		errs = append(errs, fmt.Sprintf("invalid view cache TTL %v: must not be negative", c.ViewCacheTTL))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// Location returns the configured time zone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Language returns the configured locale, falling back to English.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}
