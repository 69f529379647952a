// Package internal holds process-level concerns: configuration and logging.
package internal

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration, sourced from the environment
// with a .env file for development.
type Config struct {
	Env      string
	LogLevel string
	Port     int

	MongoURI   string
	MongoDB    string
	SQLitePath string

	RedisAddr string
	NatsURL   string

	JWTSecret string
	CacheTTL  time.Duration
}

// NewConfig loads configuration. Every key has a development default; only
// the JWT secret is required to be overridden in production.
func NewConfig() (*Config, error) {
	// Best effort; production supplies real environment variables.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", 3000)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "hatbazar")
	v.SetDefault("SQLITE_PATH", "./data/electronics.db")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("NATS_URL", "")
	v.SetDefault("JWT_SECRET", "dev-secret-change-in-production")
	v.SetDefault("CACHE_TTL", "5m")

	cfg := &Config{
		Env:        v.GetString("ENV"),
		LogLevel:   v.GetString("LOG_LEVEL"),
		Port:       v.GetInt("PORT"),
		MongoURI:   v.GetString("MONGO_URI"),
		MongoDB:    v.GetString("MONGO_DB"),
		SQLitePath: v.GetString("SQLITE_PATH"),
		RedisAddr:  v.GetString("REDIS_ADDR"),
		NatsURL:    v.GetString("NATS_URL"),
		JWTSecret:  v.GetString("JWT_SECRET"),
		CacheTTL:   v.GetDuration("CACHE_TTL"),
	}

	if cfg.Env != "dev" && cfg.Env != "prod" {
		cfg.Env = "prod"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.Env == "prod" && cfg.JWTSecret == "dev-secret-change-in-production" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}
