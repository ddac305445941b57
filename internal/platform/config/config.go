package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server needs from the environment so main
// stays lean.
type Config struct {
	Addr string

	Redis RedisConfig

	AI AIConfig

	RateLimit RateLimitConfig

	// AdminJWTKey signs and verifies admin bearer tokens. Empty disables the
	// admin surface entirely.
	AdminJWTKey string

	// KafkaBrokers enables the audit publisher when non-empty.
	KafkaBrokers []string
	AuditTopic   string

	// PostgresURL backs the custom-mapping store when set; otherwise the
	// in-memory store is used.
	PostgresURL string
}

// RedisConfig configures the cache backend. An empty URL means the in-memory
// cache is used instead.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AIConfig configures the remote region-lookup client. An empty BaseURL
// disables the AI tier; the pipeline then degrades to fallback.
type AIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

func FromEnv() Config {
	return Config{
		Addr: getenv("ERAMAP_ADDR", ":8080"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getint("REDIS_POOL_SIZE", 10),
			MinIdleConns: getint("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getdur("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getdur("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getdur("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		AI: AIConfig{
			BaseURL: os.Getenv("AI_LOOKUP_URL"),
			Timeout: getdur("AI_LOOKUP_TIMEOUT", 10*time.Second),
		},
		RateLimit: RateLimitConfig{
			Limit:  getint("LOOKUP_RATE_LIMIT", 10),
			Window: getdur("LOOKUP_RATE_WINDOW", time.Minute),
		},
		AdminJWTKey:  os.Getenv("ADMIN_JWT_KEY"),
		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		AuditTopic:   getenv("AUDIT_TOPIC", "eramap.audit"),
		PostgresURL:  os.Getenv("POSTGRES_URL"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getdur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
