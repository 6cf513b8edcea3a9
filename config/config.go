// Package config loads service settings from .env files, an optional config
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/seo-optimizer/seo-analyzer/logging"
)

// Config holds all runtime settings
type Config struct {
	Port            string
	GinMode         string
	DevMode         bool
	UserAgent       string
	RateLimit       float64
	RateBurst       int
	CacheTTL        time.Duration
	CacheMaxEntries int
	MetricsEnabled  bool
	Log             logging.Config
}

// LoadEnv loads .env.development for local work, falling back to .env.
// Missing files are fine; existing environment variables win.
func LoadEnv() {
	if err := godotenv.Load(".env.development"); err != nil {
		_ = godotenv.Load()
	}
}

// Load reads configuration. configFile may be empty, in which case
// ./config.yaml is used when present.
func Load(configFile string) (*Config, error) {
	LoadEnv()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Port:            v.GetString("PORT"),
		GinMode:         v.GetString("GIN_MODE"),
		DevMode:         v.GetBool("DEV_MODE"),
		UserAgent:       v.GetString("USER_AGENT"),
		RateLimit:       v.GetFloat64("RATE_LIMIT"),
		RateBurst:       v.GetInt("RATE_BURST"),
		CacheTTL:        v.GetDuration("CACHE_TTL"),
		CacheMaxEntries: v.GetInt("CACHE_MAX_ENTRIES"),
		MetricsEnabled:  v.GetBool("METRICS_ENABLED"),
		Log: logging.Config{
			Level:       v.GetString("LOG_LEVEL"),
			Development: v.GetBool("LOG_DEVELOPMENT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8082")
	v.SetDefault("GIN_MODE", gin.ReleaseMode)
	v.SetDefault("DEV_MODE", false)
	v.SetDefault("USER_AGENT", "SEOAnalyzer/1.0")
	v.SetDefault("RATE_LIMIT", 2.0)
	v.SetDefault("RATE_BURST", 5)
	v.SetDefault("CACHE_TTL", 30*time.Minute)
	v.SetDefault("CACHE_MAX_ENTRIES", 1000)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DEVELOPMENT", false)
}

// Validate rejects settings the service cannot run with
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("config: PORT is required")
	}
	switch c.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("config: unknown GIN_MODE %q", c.GinMode)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("config: RATE_LIMIT must be positive, got %v", c.RateLimit)
	}
	if c.RateBurst < 1 {
		return fmt.Errorf("config: RATE_BURST must be at least 1, got %d", c.RateBurst)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("config: CACHE_TTL must not be negative, got %s", c.CacheTTL)
	}
	if c.CacheMaxEntries < 0 {
		return fmt.Errorf("config: CACHE_MAX_ENTRIES must not be negative, got %d", c.CacheMaxEntries)
	}
	return nil
}
