// Package config loads service configuration from an optional file, the
// environment and defaults, and validates it before use.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to automatic environment keys, e.g. INTERVIEW_SERVER_PORT.
const EnvPrefix = "INTERVIEW"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port           int      `mapstructure:"port" validate:"gt=0,lt=65536"`
	LogLevel       string   `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains PostgreSQL settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// LLMConfig contains model and retry settings for generation calls.
type LLMConfig struct {
	GeminiAPIKey    string        `mapstructure:"gemini_api_key"`
	Model           string        `mapstructure:"model"`
	QuestionCount   int           `mapstructure:"question_count" validate:"gte=1,lte=20"`
	MaxRetries      int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	MaxBackoff      time.Duration `mapstructure:"max_backoff" validate:"gt=0"`
	EvalConcurrency int           `mapstructure:"eval_concurrency" validate:"gte=1,lte=16"`
}

// AuthConfig contains token and password hashing settings.
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours" validate:"gte=1"`
	BcryptCost         int    `mapstructure:"bcrypt_cost" validate:"gte=10,lte=14"`
	PasswordPepper     string `mapstructure:"password_pepper"`
}

// FetchConfig controls job posting imports.
type FetchConfig struct {
	UseBrowser bool          `mapstructure:"use_browser"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// RateLimitConfig controls the per-client token buckets of the HTTP server.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit" validate:"gte=1"`
	DefaultWindow   time.Duration `mapstructure:"default_window" validate:"gt=0"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" validate:"gte=0"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

// envBindings maps config keys onto the conventional unprefixed variable names.
var envBindings = []struct {
	key    string
	envVar string
}{
	{"server.port", "PORT"},
	{"server.log_level", "LOG_LEVEL"},
	{"database.url", "DATABASE_URL"},
	{"llm.gemini_api_key", "GEMINI_API_KEY"},
	{"llm.model", "GEMINI_MODEL"},
	{"auth.jwt_secret", "JWT_SECRET"},
	{"auth.jwt_expiration_hours", "JWT_EXPIRATION_HOURS"},
	{"auth.bcrypt_cost", "BCRYPT_COST"},
	{"auth.password_pepper", "PASSWORD_PEPPER"},
	{"fetch.use_browser", "USE_BROWSER"},
	{"rate_limit.enabled", "RATE_LIMIT_ENABLED"},
	{"rate_limit.default_limit", "RATE_LIMIT_DEFAULT_LIMIT"},
	{"rate_limit.default_window", "RATE_LIMIT_DEFAULT_WINDOW"},
	{"rate_limit.cleanup_interval", "RATE_LIMIT_CLEANUP_INTERVAL"},
	{"rate_limit.whitelist", "RATE_LIMIT_WHITELIST"},
	{"rate_limit.blacklist", "RATE_LIMIT_BLACKLIST"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("llm.question_count", 5)
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.max_backoff", 30*time.Second)
	v.SetDefault("llm.eval_concurrency", 4)
	v.SetDefault("auth.jwt_expiration_hours", 24)
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.default_limit", 1000)
	v.SetDefault("rate_limit.default_window", time.Minute)
	v.SetDefault("rate_limit.cleanup_interval", 5*time.Minute)
}

// Load reads configuration. Environment variables take precedence over the
// file at path, which is optional; an empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, b := range envBindings {
		// prefixed name first so INTERVIEW_SERVER_PORT still wins over PORT
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(b.key, ".", "_"))
		if err := v.BindEnv(b.key, prefixed, b.envVar); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", b.envVar, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges. Presence of secrets is checked per command
// with the Require* methods.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// RequireDatabase fails when no database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	return nil
}

// RequireLLM fails when no Gemini API key is configured.
func (c *Config) RequireLLM() error {
	if c.LLM.GeminiAPIKey == "" {
		return errors.New("GEMINI_API_KEY is required")
	}
	return nil
}
