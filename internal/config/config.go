package config

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	// empty RedisAddr means the in-process cache is used instead
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OTLPEndpoint string

	CORSOrigins []string

	RateLimit  int
	RateWindow time.Duration

	ListCacheTTL time.Duration

	// zone applied when a request does not name one
	DefaultTimezone string

	MaxBodyBytes int64
}

func Load() Config {
	// best effort: a missing .env is fine in containers
	_ = godotenv.Load()

	return Config{
		Env:             getEnv("APP_ENV", "dev"),
		Port:            getEnvInt("PORT", 8080),
		DBURL:           buildDBURL(),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		CORSOrigins:     splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		RateLimit:       getEnvInt("RATE_LIMIT", 60),
		RateWindow:      time.Duration(getEnvInt("RATE_WINDOW_SECONDS", 60)) * time.Second,
		ListCacheTTL:    time.Duration(getEnvInt("LIST_CACHE_TTL_SECONDS", 15)) * time.Second,
		DefaultTimezone: getEnv("DEFAULT_TIMEZONE", "UTC"),
		MaxBodyBytes:    int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
	}
}

func buildDBURL() string {
	if url := getEnv("DATABASE_URL", ""); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "attendly")
	pass := getEnv("DB_PASSWORD", "attendly")
	name := getEnv("DB_NAME", "attendly")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

// a malformed value falls back silently; all output stays on the
// structured logger
func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}
