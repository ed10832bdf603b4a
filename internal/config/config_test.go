package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fluentplan/internal/store"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{
		"FLUENTPLAN_STORE_DRIVER", "FLUENTPLAN_STORE_DSN", "FLUENTPLAN_SERVER_ADDR",
		"FLUENTPLAN_LLM_PROVIDER", "FLUENTPLAN_NEWSLETTER_API_KEY", "FLUENTPLAN_NEWSLETTER_PUBLICATION_ID",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadWithoutFile(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)

	d := Default()
	assert.Equal(t, d.Store.Driver, cfg.Store.Driver)
	assert.Equal(t, d.Server.Addr, cfg.Server.Addr)
	assert.Equal(t, d.Server.TokenTTL, cfg.Server.TokenTTL)
	assert.Equal(t, d.Newsletter.BaseURL, cfg.Newsletter.BaseURL)
	assert.Equal(t, d.Newsletter.Retry, cfg.Newsletter.Retry)
	assert.Equal(t, d.LLM.Retry, cfg.LLM.Retry)
	assert.False(t, cfg.LLM.Enabled())
}

func TestLoadDefaultPathFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "fluentplan", "config.yaml"), `
log:
  level: debug
  format: json
store:
  driver: mongodb
  dsn: mongodb://localhost:27017
server:
  addr: 127.0.0.1:9090
  token_ttl: 30m
  cors_origins: [https://quiz.example.com]
newsletter:
  api_key: key
  publication_id: pub_123
  retry:
    max_attempts: 5
llm:
  provider: mock
`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, store.DriverMongoDB, cfg.Store.Driver)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Server.TokenTTL)
	assert.Equal(t, []string{"https://quiz.example.com"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.Newsletter.Enabled())
	assert.Equal(t, 5, cfg.Newsletter.Retry.MaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.Newsletter.Retry.MaxWait, "unset keys keep defaults")
	assert.Equal(t, "mock", cfg.LLM.Provider)
}

func TestPrecedence(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "server:\n  addr: :7000\nstore:\n  dsn: /tmp/file.db\n")

	t.Setenv("FLUENTPLAN_SERVER_ADDR", ":7100")
	t.Setenv("FLUENTPLAN_STORE_DSN", "/tmp/env.db")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db", "", "")
	require.NoError(t, flags.Parse([]string{"--db", "/tmp/flag.db"}))

	l := NewLoader()
	require.NoError(t, l.BindFlag("store.dsn", flags.Lookup("db")))
	cfg, err := l.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7100", cfg.Server.Addr, "env beats file")
	assert.Equal(t, "/tmp/flag.db", cfg.Store.DSN, "flag beats env")
}

func TestBindFlagUndefined(t *testing.T) {
	assert.Error(t, NewLoader().BindFlag("store.dsn", nil))
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "explicit missing file")

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "server: [unclosed\n")
	_, err = Load(bad)
	assert.Error(t, err, "malformed YAML")

	invalid := filepath.Join(dir, "invalid.yaml")
	writeFile(t, invalid, "store:\n  driver: postgres\n")
	_, err = Load(invalid)
	assert.ErrorContains(t, err, "store.driver")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"mongo without dsn", func(c *Config) { c.Store.Driver = store.DriverMongoDB }},
		{"negative cache", func(c *Config) { c.Server.CacheSize = -1 }},
		{"short jwt secret", func(c *Config) { c.Server.AdminPassword = "pw"; c.Server.JWTSecret = "short" }},
		{"zero ttl", func(c *Config) { c.Server.TokenTTL = 0 }},
		{"half newsletter", func(c *Config) { c.Newsletter.APIKey = "k" }},
		{"zero interval", func(c *Config) { c.Newsletter.Interval = 0 }},
		{"llm without key", func(c *Config) { c.LLM.Provider = "openai" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := Default()
	cfg.Server.AdminPassword = "pw"
	cfg.Server.JWTSecret = "0123456789abcdef"
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.Server.AdminEnabled())
}
