package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with the overriding
// variables cleared.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{
		EnvAPIKey, EnvOpenAIKey, EnvAnthropicKey, EnvRedisAddr, EnvLogLevel,
		EnvEncryptionKey, EnvDelegate, EnvDelegateModel, EnvDelegateBaseURL,
	} {
		t.Setenv(key, "")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	isolate(t)

	_, err := Load("nope.yaml")
	assert.Error(t, err)
}

func TestLoad_YAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, `
log_level: debug
strategy: model
workflows: ./flows
delegate:
  provider: ollama
  model: llama3
  base_url: http://localhost:11434
  temperature: 0.2
  timeout: 5s
  breaker:
    max_failures: 5
    open_timeout: 1m
store:
  driver: redis
  redis_addr: localhost:6379
  ttl: 24h
  pii_patterns: ["card", "pin$"]
http:
  addr: ":9000"
metrics: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "model", cfg.Strategy)
	assert.Equal(t, "./flows", cfg.Workflows)
	assert.Equal(t, "llama3", cfg.Delegate.Model)
	assert.InDelta(t, 0.2, cfg.Delegate.Temperature, 1e-6)
	assert.Equal(t, 5*time.Second, cfg.Delegate.Timeout)
	assert.Equal(t, uint32(5), cfg.Delegate.Breaker.MaxFailures)
	assert.Equal(t, time.Minute, cfg.Delegate.Breaker.OpenTimeout)
	assert.Equal(t, 256, cfg.Delegate.MaxTokens, "unset values keep defaults")
	assert.Equal(t, 24*time.Hour, cfg.Store.TTL)
	assert.Equal(t, []string{"card", "pin$"}, cfg.Store.PIIPatterns)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.True(t, cfg.Metrics)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, DefaultPath), `
delegate:
  provider: openai
  model: gpt-4o-mini
store:
  driver: redis
  redis_addr: file-host:6379
`)
	t.Setenv(EnvOpenAIKey, "sk-openai")
	t.Setenv(EnvRedisAddr, "env-host:6379")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-openai", cfg.Delegate.APIKey)
	assert.Equal(t, "env-host:6379", cfg.Store.RedisAddr)

	t.Setenv(EnvAPIKey, "sk-generic")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-generic", cfg.Delegate.APIKey)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "SWITCHBOARD_DELEGATE=anthropic\nSWITCHBOARD_MODEL=claude-3-5-haiku-latest\nANTHROPIC_API_KEY=sk-ant\n")
	t.Cleanup(func() {
		for _, key := range []string{EnvDelegate, EnvDelegateModel, EnvAnthropicKey} {
			_ = os.Unsetenv(key)
		}
	})
	// godotenv does not override variables that are already set.
	for _, key := range []string{EnvDelegate, EnvDelegateModel, EnvAnthropicKey} {
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Delegate.Provider)
	assert.Equal(t, "claude-3-5-haiku-latest", cfg.Delegate.Model)
	assert.Equal(t, "sk-ant", cfg.Delegate.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown strategy", func(c *Config) { c.Strategy = "magic" }, "strategy"},
		{"unknown provider", func(c *Config) { c.Delegate.Provider = "cohere" }, "provider"},
		{"model required", func(c *Config) { c.Delegate.Provider = "openai" }, "model"},
		{"bad base url", func(c *Config) { c.Delegate.BaseURL = "not a url" }, "base_url"},
		{"temperature range", func(c *Config) { c.Delegate.Temperature = 3 }, "temperature"},
		{"redis needs addr", func(c *Config) { c.Store.Driver = "redis" }, "redis_addr"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "sqlite" }, "driver"},
		{"http addr", func(c *Config) { c.HTTP.Addr = "" }, "addr"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	assert.NoError(t, Default().Validate())
}
