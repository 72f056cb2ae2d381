package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
//
// The store URL and the signing secrets are required for the service to do
// useful work, but their absence must not crash the process: unconfigured
// surfaces degrade to failing closed instead.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	DatabaseURL     string
	RedisURL        string
	NatsURL         string
	JWTSecret       string
	ServiceKey      string
	StatsCacheTTL   time.Duration
	AdminRateLimit  int
	AdminRateWindow time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and an
// optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SKYFRAME")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "SkyFrame API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("stats.cache_ttl", "5m")
	v.SetDefault("admin.rate_limit", 30)
	v.SetDefault("admin.rate_window", "1m")

	ttl, err := time.ParseDuration(v.GetString("stats.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid stats cache ttl: %w", err)
	}

	window, err := time.ParseDuration(v.GetString("admin.rate_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid admin rate window: %w", err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		DatabaseURL:     v.GetString("database.url"),
		RedisURL:        v.GetString("redis.url"),
		NatsURL:         v.GetString("nats.url"),
		JWTSecret:       v.GetString("jwt.secret"),
		ServiceKey:      v.GetString("service.key"),
		StatsCacheTTL:   ttl,
		AdminRateLimit:  v.GetInt("admin.rate_limit"),
		AdminRateWindow: window,
	}

	if cfg.AdminRateLimit <= 0 {
		cfg.AdminRateLimit = 30
	}

	return cfg, nil
}
