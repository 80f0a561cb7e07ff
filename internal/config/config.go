package config

import (
	"os"
	"strconv"
)

// Config holds server configuration loaded from the environment
type Config struct {
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	HTTPPort      string

	JWTSecret     string
	WebhookSecret string

	// Minimum respondents per answer before demographics are shown
	StatsMinPerAnswer int
}

// Load reads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		MongoURI:          getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:     getEnvOrDefault("MONGO_DATABASE", "campuspolls"),
		RedisAddr:         getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		HTTPPort:          getEnvOrDefault("PORT", "8080"),
		JWTSecret:         getEnvOrDefault("JWT_SECRET", "super-secret-key-change-in-production"),
		WebhookSecret:     getEnvOrDefault("IDENTITY_WEBHOOK_SECRET", ""),
		StatsMinPerAnswer: getEnvIntOrDefault("STATS_MIN_PER_ANSWER", 2),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}
