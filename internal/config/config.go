package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string
	Env      string
	LogLevel string

	CatalogSource   string // json or sqlite
	CatalogPath     string
	SQLitePath      string
	MigrationsPath  string
	RedisAddr       string
	RedisPassword   string
	CatalogCacheTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	JWTSecret    string
	CookieSecret string

	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CatalogSource:      strings.ToLower(getEnv("CATALOG_SOURCE", "json")),
		CatalogPath:        getEnv("CATALOG_PATH", "db/products.json"),
		SQLitePath:         getEnv("SQLITE_PATH", "db/catalog.db"),
		MigrationsPath:     getEnv("MIGRATIONS_PATH", "internal/catalog/migrations"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:       splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "orders-placed"),
		JWTSecret:          getEnv("JWT_SECRET", "dev-jwt-secret"),
		CookieSecret:       getEnv("COOKIE_SECRET", "dev-secret"),
		MaxRequestBodySize: 1 << 20, // 1MB
	}

	var err error
	if cfg.CatalogCacheTTL, err = getDuration("CATALOG_CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if cfg.CatalogSource != "json" && cfg.CatalogSource != "sqlite" {
		return nil, fmt.Errorf("unknown CATALOG_SOURCE %q", cfg.CatalogSource)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
