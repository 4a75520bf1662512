package config

import (
	"os"
	"strings"
	"time"
)

// Config captures process-level configuration. Built from the environment so
// main stays lean.
type Config struct {
	Addr          string
	PostgresDSN   string
	JWTSigningKey string
	TokenTTL      time.Duration

	Redis RedisConfig

	KafkaBrokers []string
	KafkaTopic   string

	// AnalyticsCacheTTL bounds staleness of cached report aggregates.
	AnalyticsCacheTTL time.Duration
}

// RedisConfig holds connection settings for the analytics cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	addr := os.Getenv("FOODAUDIT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = strings.Split(v, ",")
	}
	topic := os.Getenv("KAFKA_AUDIT_TOPIC")
	if topic == "" {
		topic = "foodaudit.trail"
	}

	return Config{
		Addr:          addr,
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		JWTSigningKey: jwtSigningKey,
		TokenTTL:      durationFromEnv("TOKEN_TTL", time.Hour),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		KafkaBrokers:      brokers,
		KafkaTopic:        topic,
		AnalyticsCacheTTL: durationFromEnv("ANALYTICS_CACHE_TTL", 5*time.Minute),
	}
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
