// Package config loads fluentplan settings from defaults, an optional YAML
// file, FLUENTPLAN_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/fluentplan/internal/llm"
	"github.com/abhisek/fluentplan/internal/logging"
	"github.com/abhisek/fluentplan/internal/newsletter"
	"github.com/abhisek/fluentplan/internal/store"
)

// EnvPrefix prefixes every environment override, e.g. FLUENTPLAN_STORE_DRIVER.
const EnvPrefix = "FLUENTPLAN"

// Config is the complete application configuration.
type Config struct {
	Log        logging.Config   `mapstructure:"log"`
	Store      store.Config     `mapstructure:"store"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Server     ServerConfig     `mapstructure:"server"`
	Newsletter NewsletterConfig `mapstructure:"newsletter"`
	LLM        llm.Config       `mapstructure:"llm"`
	Quiz       QuizConfig       `mapstructure:"quiz"`
}

// RedisConfig locates the live segment counters. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ServerConfig configures `fluentplan serve`.
type ServerConfig struct {
	Addr          string        `mapstructure:"addr"`
	JWTSecret     string        `mapstructure:"jwt_secret"`
	AdminUser     string        `mapstructure:"admin_user"`
	AdminPassword string        `mapstructure:"admin_password"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	CacheSize     int           `mapstructure:"cache_size"`
	CORSOrigins   []string      `mapstructure:"cors_origins"`
}

// AdminEnabled reports whether the admin API can issue tokens.
func (s ServerConfig) AdminEnabled() bool {
	return s.AdminPassword != "" && s.JWTSecret != ""
}

// NewsletterConfig holds the Beehiiv credentials and outbox settings.
type NewsletterConfig struct {
	newsletter.Config `mapstructure:",squash"`
	Retry             newsletter.RetryConfig `mapstructure:"retry"`
	Interval          time.Duration          `mapstructure:"interval"`
	MaxAttempts       int                    `mapstructure:"max_attempts"`
}

// QuizConfig holds scoring table overrides.
type QuizConfig struct {
	// PassiveTable is a YAML file replacing the built-in passive-time table.
	PassiveTable string `mapstructure:"passive_table"`
}

// Default returns a fully populated configuration.
func Default() Config {
	return Config{
		Log:   logging.Config{Level: "info", Format: "text"},
		Store: store.Config{Driver: store.DriverSQLite, Database: "fluentplan"},
		Server: ServerConfig{
			Addr:        ":8080",
			AdminUser:   "admin",
			TokenTTL:    12 * time.Hour,
			CacheSize:   512,
			CORSOrigins: []string{"*"},
		},
		Newsletter: NewsletterConfig{
			Config: newsletter.Config{
				BaseURL: newsletter.DefaultBaseURL,
				Timeout: 15 * time.Second,
			},
			Retry:       newsletter.DefaultRetryConfig(),
			Interval:    time.Minute,
			MaxAttempts: 6,
		},
		LLM: llm.DefaultConfig(),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/fluentplan/config.yaml, falling back
// to ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "fluentplan", "config.yaml")
}

// Loader layers configuration sources with viper.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a Loader seeded with Default() and bound to the
// FLUENTPLAN_ environment.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())
	return &Loader{v: v}
}

// BindFlag lets a command-line flag override key when the flag is set.
func (l *Loader) BindFlag(key string, f *pflag.Flag) error {
	if f == nil {
		return fmt.Errorf("bind %s: flag not defined", key)
	}
	return l.v.BindPFlag(key, f)
}

// Load reads path (or DefaultPath when empty) and returns the merged,
// validated configuration. A missing default file is not an error; a
// missing explicit file is.
func (l *Loader) Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
			if explicit || !missing {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load is shorthand for NewLoader().Load(path).
func Load(path string) (Config, error) {
	return NewLoader().Load(path)
}

// Validate returns the first configuration error.
func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	switch c.Store.Driver {
	case "", store.DriverSQLite:
	case store.DriverMongoDB:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the mongodb driver")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	if c.Server.CacheSize < 0 {
		return fmt.Errorf("server.cache_size must not be negative")
	}
	if c.Server.AdminPassword != "" && len(c.Server.JWTSecret) < 16 {
		return fmt.Errorf("server.jwt_secret must be at least 16 bytes when an admin password is set")
	}
	if c.Server.TokenTTL <= 0 {
		return fmt.Errorf("server.token_ttl must be positive")
	}
	n := c.Newsletter
	if (n.APIKey == "") != (n.PublicationID == "") {
		return fmt.Errorf("newsletter.api_key and newsletter.publication_id must be set together")
	}
	if n.Interval <= 0 {
		return fmt.Errorf("newsletter.interval must be positive")
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// appear in no config file.
func setDefaults(v *viper.Viper, d Config) {
	defaults := map[string]any{
		"log.level":  d.Log.Level,
		"log.format": d.Log.Format,
		"log.file":   d.Log.File,

		"store.driver":   d.Store.Driver,
		"store.dsn":      d.Store.DSN,
		"store.database": d.Store.Database,

		"redis.addr":     d.Redis.Addr,
		"redis.password": d.Redis.Password,
		"redis.db":       d.Redis.DB,

		"server.addr":           d.Server.Addr,
		"server.jwt_secret":     d.Server.JWTSecret,
		"server.admin_user":     d.Server.AdminUser,
		"server.admin_password": d.Server.AdminPassword,
		"server.token_ttl":      d.Server.TokenTTL,
		"server.cache_size":     d.Server.CacheSize,
		"server.cors_origins":   d.Server.CORSOrigins,

		"newsletter.api_key":            d.Newsletter.APIKey,
		"newsletter.publication_id":     d.Newsletter.PublicationID,
		"newsletter.base_url":           d.Newsletter.BaseURL,
		"newsletter.timeout":            d.Newsletter.Timeout,
		"newsletter.interval":           d.Newsletter.Interval,
		"newsletter.max_attempts":       d.Newsletter.MaxAttempts,
		"newsletter.retry.max_attempts": d.Newsletter.Retry.MaxAttempts,
		"newsletter.retry.initial_wait": d.Newsletter.Retry.InitialWait,
		"newsletter.retry.max_wait":     d.Newsletter.Retry.MaxWait,
		"newsletter.retry.multiplier":   d.Newsletter.Retry.Multiplier,

		"llm.provider":           d.LLM.Provider,
		"llm.model":              d.LLM.Model,
		"llm.api_key":            d.LLM.APIKey,
		"llm.base_url":           d.LLM.BaseURL,
		"llm.max_tokens":         d.LLM.MaxTokens,
		"llm.timeout":            d.LLM.Timeout,
		"llm.retry.max_attempts": d.LLM.Retry.MaxAttempts,
		"llm.retry.initial_wait": d.LLM.Retry.InitialWait,
		"llm.retry.max_wait":     d.LLM.Retry.MaxWait,
		"llm.retry.multiplier":   d.LLM.Retry.Multiplier,

		"quiz.passive_table": d.Quiz.PassiveTable,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}
