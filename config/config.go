package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds every runtime setting of the anime API.
type Config struct {
	Port        string
	Environment string
	LogLevel    string

	DatabaseURL string
	DBTimeout   time.Duration

	RedisAddr string
	CacheTTL  time.Duration

	JWTSecretKey string
	TokenExpiry  time.Duration

	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
}

// Load reads the configuration from environment variables. Secrets have no
// defaults; the process refuses to start without them.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DatabaseURL: mustGetEnv("DATABASE_URL"),
		DBTimeout:   getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTTL:  getDurationEnv("CACHE_TTL_SEC", 60) * time.Second,

		JWTSecretKey: mustGetEnv("JWT_SECRET_KEY"),
		TokenExpiry:  getDurationEnv("JWT_EXPIRY_MIN", 60) * time.Minute,

		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func mustGetEnv(key string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Fatalf("configuration error: environment variable %s must be set", key)
	return ""
}

func getDurationEnv(key string, defaultValue int) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue))
}

func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("warning: %s (%q) is not a valid integer, using default %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
