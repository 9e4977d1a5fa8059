// Package config loads dashboard settings from an optional YAML file and the
// environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the working directory
const FileName = "talent-match"

// Defaults for keys that are safe to default. Secrets and the database URL
// have none.
const (
	DefaultSQLAsset      = "AI_Powered_Talent_Match.sql"
	DefaultTopN          = 10
	DefaultHistogramBins = 15
	DefaultPort          = 8080
	DefaultProvider      = "openrouter"
	DefaultLLMTimeout    = 120 * time.Second
	DefaultBcryptCost    = 12
)

// Config is the fully resolved application configuration
type Config struct {
	DatabaseURL   string          `mapstructure:"database_url" validate:"required"`
	SQLAsset      string          `mapstructure:"sql_asset" validate:"required"`
	TopN          int             `mapstructure:"top_n" validate:"gte=1"`
	HistogramBins int             `mapstructure:"histogram_bins" validate:"gte=1,lte=200"`
	LLM           LLMConfig       `mapstructure:"llm"`
	Server        ServerConfig    `mapstructure:"server"`
	RateLimit     RateLimitConfig `mapstructure:"rate_limit"`
	Log           LogConfig       `mapstructure:"log"`
}

// LLMConfig selects and configures the narrative provider
type LLMConfig struct {
	Provider string        `mapstructure:"provider" validate:"oneof=openrouter gemini"`
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	BaseURL  string        `mapstructure:"base_url" validate:"omitempty,url"`
	Referer  string        `mapstructure:"referer"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// ServerConfig configures the HTTP dashboard
type ServerConfig struct {
	Port         int    `mapstructure:"port" validate:"gte=1,lte=65535"`
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
	BcryptCost   int    `mapstructure:"bcrypt_cost" validate:"gte=10,lte=14"`
	Pepper       string `mapstructure:"password_pepper"`
}

// AuthEnabled reports whether basic auth protects the dashboard
func (s ServerConfig) AuthEnabled() bool {
	return s.PasswordHash != ""
}

// RateLimitConfig bounds how often a client may trigger runs
type RateLimitConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	RunLimit      int           `mapstructure:"run_limit" validate:"gte=0"`
	RunWindow     time.Duration `mapstructure:"run_window" validate:"gte=0"`
	RunBurst      int           `mapstructure:"run_burst" validate:"gte=0"`
	DefaultLimit  int           `mapstructure:"default_limit" validate:"gte=0"`
	DefaultWindow time.Duration `mapstructure:"default_window" validate:"gte=0"`
	Whitelist     []string      `mapstructure:"whitelist"`
}

// LogConfig controls logger output
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// envBindings maps config keys to the environment variables that feed them
var envBindings = map[string][]string{
	"database_url":              {"DATABASE_URL"},
	"sql_asset":                 {"TALENT_MATCH_SQL"},
	"top_n":                     {"TALENT_MATCH_TOP_N"},
	"histogram_bins":            {"TALENT_MATCH_HISTOGRAM_BINS"},
	"llm.provider":              {"LLM_PROVIDER"},
	"llm.api_key":               {"LLM_API_KEY"},
	"llm.model":                 {"LLM_MODEL"},
	"llm.base_url":              {"LLM_BASE_URL"},
	"llm.referer":               {"LLM_REFERER"},
	"llm.timeout":               {"LLM_TIMEOUT"},
	"openrouter_api_key":        {"OPENROUTER_API_KEY"},
	"gemini_api_key":            {"GEMINI_API_KEY"},
	"server.port":               {"PORT"},
	"server.username":           {"DASHBOARD_USERNAME"},
	"server.password_hash":      {"DASHBOARD_PASSWORD_HASH"},
	"server.bcrypt_cost":        {"BCRYPT_COST"},
	"server.password_pepper":    {"PASSWORD_PEPPER"},
	"rate_limit.enabled":        {"RATE_LIMIT_ENABLED"},
	"rate_limit.run_limit":      {"RATE_LIMIT_RUN_LIMIT"},
	"rate_limit.run_window":     {"RATE_LIMIT_RUN_WINDOW"},
	"rate_limit.run_burst":      {"RATE_LIMIT_RUN_BURST"},
	"rate_limit.default_limit":  {"RATE_LIMIT_DEFAULT_LIMIT"},
	"rate_limit.default_window": {"RATE_LIMIT_DEFAULT_WINDOW"},
	"rate_limit.whitelist":      {"RATE_LIMIT_WHITELIST"},
	"log.json":                  {"LOG_JSON"},
	"log.debug":                 {"LOG_DEBUG"},
}

// NewViper returns a viper instance with defaults and environment bindings applied
func NewViper() (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("sql_asset", DefaultSQLAsset)
	v.SetDefault("top_n", DefaultTopN)
	v.SetDefault("histogram_bins", DefaultHistogramBins)
	v.SetDefault("llm.provider", DefaultProvider)
	v.SetDefault("llm.timeout", DefaultLLMTimeout)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.username", "analyst")
	v.SetDefault("server.bcrypt_cost", DefaultBcryptCost)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.run_limit", 30)
	v.SetDefault("rate_limit.run_window", time.Hour)
	v.SetDefault("rate_limit.run_burst", 3)
	v.SetDefault("rate_limit.default_limit", 600)
	v.SetDefault("rate_limit.default_window", time.Minute)

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	return v, nil
}

// Load reads the config file (explicit path, or talent-match.yaml in the
// working directory when present), overlays the environment and validates
// the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.LLM.APIKey = resolveAPIKey(v, cfg.LLM)
	cfg.RateLimit.Whitelist = splitList(cfg.RateLimit.Whitelist)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveAPIKey falls back to the provider's conventional variable when no
// explicit llm.api_key is set
func resolveAPIKey(v *viper.Viper, llm LLMConfig) string {
	if llm.APIKey != "" {
		return llm.APIKey
	}
	switch llm.Provider {
	case "gemini":
		return v.GetString("gemini_api_key")
	default:
		return v.GetString("openrouter_api_key")
	}
}

// splitList accepts both YAML lists and a single comma-separated env value
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}
