package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig     `mapstructure:"server"`
	Log       LogConfig        `mapstructure:"log"`
	Database  DatabaseConfig   `mapstructure:"database"`
	Redis     RedisConfig      `mapstructure:"redis"`
	Cache     CacheConfig      `mapstructure:"cache"`
	RateLimit RateLimitConfig  `mapstructure:"rate_limit"`
	Tracing   TracingConfig    `mapstructure:"tracing"`
	Providers []ProviderConfig `mapstructure:"providers"`
}

type ServerConfig struct {
	Port    string   `mapstructure:"port"`
	Env     string   `mapstructure:"env"`
	APIKeys []string `mapstructure:"api_keys"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

type CacheConfig struct {
	VerifyTTL time.Duration `mapstructure:"verify_ttl"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// ProviderConfig describes one upstream provider. Secret-ish values
// (api_key, custom_models, allowed_models, denied_models) support the
// "ENV:NAME" indirection so the yaml never has to carry them inline.
type ProviderConfig struct {
	Kind          string `mapstructure:"kind"`
	Enabled       bool   `mapstructure:"enabled"`
	BaseURL       string `mapstructure:"base_url"`
	APIKey        string `mapstructure:"api_key"`
	CustomModels  string `mapstructure:"custom_models"`
	AllowedModels string `mapstructure:"allowed_models"`
	DeniedModels  string `mapstructure:"denied_models"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./internal/config")

	// An explicit file beats the search path
	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}

	// Default Values
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "file:capability.db?_foreign_keys=on")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("cache.verify_ttl", "5m")
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "model-capability-api")
	v.SetDefault("tracing.sample_rate", 1.0)

	// Environment Variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// With no providers section we still want a usable service: install
	// the stock OpenAI entry wired to the conventional env vars.
	if len(cfg.Providers) == 0 {
		cfg.Providers = []ProviderConfig{{
			Kind:          "openai",
			Enabled:       true,
			APIKey:        "ENV:OPENAI_API_KEY",
			CustomModels:  "ENV:OPENAI_CUSTOM_MODELS",
			AllowedModels: "ENV:OPENAI_ALLOWED_MODELS",
			DeniedModels:  "ENV:OPENAI_DENIED_MODELS",
		}}
	}

	// Resolve ENV: indirections for provider secrets and blobs
	for i, p := range cfg.Providers {
		cfg.Providers[i].APIKey = resolveEnv(v, p.APIKey)
		cfg.Providers[i].CustomModels = resolveEnv(v, p.CustomModels)
		cfg.Providers[i].AllowedModels = resolveEnv(v, p.AllowedModels)
		cfg.Providers[i].DeniedModels = resolveEnv(v, p.DeniedModels)
	}

	return &cfg, nil
}

// resolveEnv expands "ENV:NAME" values from the process environment,
// falling back to viper (which may have picked the name up elsewhere).
func resolveEnv(v *viper.Viper, value string) string {
	if !strings.HasPrefix(value, "ENV:") {
		return value
	}
	envVar := strings.TrimPrefix(value, "ENV:")
	// Check process environment first (explicit override)
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return v.GetString(envVar)
}
