// Package config loads the switchboard configuration.
//
// Values are layered, lowest priority first: built-in defaults, the YAML
// file, a .env file in the working directory and process environment
// variables. The result is validated before use.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "switchboard.yaml"

// Environment variables that override file values.
const (
	EnvAPIKey          = "SWITCHBOARD_API_KEY"
	EnvOpenAIKey       = "OPENAI_API_KEY"
	EnvAnthropicKey    = "ANTHROPIC_API_KEY"
	EnvRedisAddr       = "SWITCHBOARD_REDIS_ADDR"
	EnvLogLevel        = "SWITCHBOARD_LOG_LEVEL"
	EnvEncryptionKey   = "SWITCHBOARD_ENCRYPTION_KEY"
	EnvDelegate        = "SWITCHBOARD_DELEGATE"
	EnvDelegateModel   = "SWITCHBOARD_MODEL"
	EnvDelegateBaseURL = "SWITCHBOARD_BASE_URL"
)

// Config is the root configuration.
type Config struct {
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	// Strategy is auto, heuristic or model.
	Strategy string `yaml:"strategy" validate:"oneof=auto heuristic model"`
	// Workflows is a directory of workflow documents served by name.
	Workflows string `yaml:"workflows"`

	Delegate DelegateConfig `yaml:"delegate"`
	Store    StoreConfig    `yaml:"store"`
	HTTP     HTTPConfig     `yaml:"http"`
	Metrics  bool           `yaml:"metrics"`
}

// DelegateConfig selects the text-generation delegate.
type DelegateConfig struct {
	Provider    string        `yaml:"provider" validate:"oneof=none ollama openai anthropic"`
	Model       string        `yaml:"model" validate:"required_unless=Provider none"`
	BaseURL     string        `yaml:"base_url" validate:"omitempty,url"`
	APIKey      string        `yaml:"api_key"`
	Temperature float32       `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int           `yaml:"max_tokens" validate:"gte=0"`
	Timeout     time.Duration `yaml:"timeout" validate:"gte=0"`
	Breaker     BreakerConfig `yaml:"breaker"`
}

// BreakerConfig tunes the delegate circuit breaker.
type BreakerConfig struct {
	MaxFailures uint32        `yaml:"max_failures"`
	OpenTimeout time.Duration `yaml:"open_timeout" validate:"gte=0"`
}

// StoreConfig selects where session snapshots live.
type StoreConfig struct {
	Driver        string        `yaml:"driver" validate:"oneof=memory redis file"`
	Dir           string        `yaml:"dir"`
	RedisAddr     string        `yaml:"redis_addr" validate:"required_if=Driver redis"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db" validate:"gte=0"`
	TTL           time.Duration `yaml:"ttl" validate:"gte=0"`
	Prefix        string        `yaml:"prefix"`
	// PIIPatterns are regular expressions over slot names whose values are
	// masked before persistence.
	PIIPatterns []string `yaml:"pii_patterns"`
	// EncryptionKey is a base64 AES-256 key; when set snapshots are
	// encrypted at rest.
	EncryptionKey string `yaml:"encryption_key"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Strategy: "auto",
		Delegate: DelegateConfig{
			Provider:  "none",
			MaxTokens: 256,
			Timeout:   10 * time.Second,
			Breaker: BreakerConfig{
				MaxFailures: 3,
				OpenTimeout: 30 * time.Second,
			},
		},
		Store: StoreConfig{Driver: "memory"},
		HTTP:  HTTPConfig{Addr: ":8080"},
	}
}

// Load reads path over the defaults, applies .env and environment
// overrides and validates the result. A missing file is an error unless
// path is DefaultPath.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv loads path into the environment without overriding
// variables that are already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.LogLevel, EnvLogLevel)
	set(&c.Delegate.Provider, EnvDelegate)
	set(&c.Delegate.Model, EnvDelegateModel)
	set(&c.Delegate.BaseURL, EnvDelegateBaseURL)
	set(&c.Store.RedisAddr, EnvRedisAddr)
	set(&c.Store.EncryptionKey, EnvEncryptionKey)

	if c.Delegate.APIKey == "" {
		switch c.Delegate.Provider {
		case "openai":
			set(&c.Delegate.APIKey, EnvOpenAIKey)
		case "anthropic":
			set(&c.Delegate.APIKey, EnvAnthropicKey)
		}
	}
	set(&c.Delegate.APIKey, EnvAPIKey)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the struct rules. Field errors are reported by their
// YAML path.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Errorf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %w", errors.Join(msgs...))
}
