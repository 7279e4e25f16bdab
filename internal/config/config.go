// Package config handles loading and validation of application configuration
// from environment variables. Supports .env files via godotenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port        int
	Environment string // "development" | "staging" | "production"
	StaticDir   string

	// Security
	AllowedOrigins []string
	RateLimitRPM   int
	MaxBodyBytes   int64

	// Redis (shared rate-limit counters); empty keeps limits in memory
	RedisURL string

	// Assistant
	ReplyDelay  time.Duration
	SessionTTL  time.Duration
	MaxSessions int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvInt("PORT", 8080),
		Environment: getEnv("ENVIRONMENT", "development"),
		StaticDir:   getEnv("STATIC_DIR", "../dist"),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		RateLimitRPM:   getEnvInt("RATE_LIMIT_RPM", 60),
		MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", 64*1024)),

		RedisURL: getEnv("REDIS_URL", ""),

		ReplyDelay:  time.Duration(getEnvInt("ASSISTANT_REPLY_DELAY_MS", 1500)) * time.Millisecond,
		SessionTTL:  time.Duration(getEnvInt("ASSISTANT_SESSION_TTL_MINUTES", 30)) * time.Minute,
		MaxSessions: getEnvInt("ASSISTANT_MAX_SESSIONS", 10000),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT %d out of range", cfg.Port)
	}
	if cfg.ReplyDelay < 0 {
		return nil, fmt.Errorf("ASSISTANT_REPLY_DELAY_MS must not be negative")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("ASSISTANT_SESSION_TTL_MINUTES must be positive")
	}

	// Validate required fields in production
	if cfg.Environment == "production" {
		for _, o := range cfg.AllowedOrigins {
			if o == "*" {
				return nil, fmt.Errorf("ALLOWED_ORIGINS must not contain * in production")
			}
		}
	}

	return cfg, nil
}

// IsProduction reports whether the production logger and checks apply
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
