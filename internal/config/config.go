package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	LogLevel string

	CatalogURL     string
	CatalogTimeout time.Duration

	CacheBackend string
	CacheKey     string
	CacheDir     string
	CacheTTL     time.Duration
	DatabaseURL  string
	RedisAddr    string

	Currency currency.Unit
	Locale   language.Tag

	TraceExporter string
	OTLPEndpoint  string
}

// Load reads the configuration from the environment. Malformed numbers and
// durations fall back to their defaults; unknown enum values are errors.
func Load() (Config, error) {
	cur, err := currency.ParseISO(getEnv("CURRENCY", "BRL"))
	if err != nil {
		return Config{}, fmt.Errorf("CURRENCY: %w", err)
	}

	locale, err := language.Parse(getEnv("LOCALE", "pt-BR"))
	if err != nil {
		return Config{}, fmt.Errorf("LOCALE: %w", err)
	}

	cfg := Config{
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CatalogURL:     getEnv("CATALOG_URL", "http://localhost:3333"),
		CatalogTimeout: getEnvDuration("CATALOG_TIMEOUT", 10*time.Second),
		CacheBackend:   getEnv("CACHE_BACKEND", BackendFile),
		CacheKey:       getEnv("CACHE_KEY", "@RocketShoes:cart"),
		CacheDir:       getEnv("CACHE_DIR", defaultCacheDir()),
		CacheTTL:       getEnvDuration("CACHE_TTL", 0),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		Currency:       cur,
		Locale:         locale,
		TraceExporter:  getEnv("TRACE_EXPORTER", "none"),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}

	switch cfg.CacheBackend {
	case BackendMemory, BackendFile, BackendRedis:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required for cache backend %q", cfg.CacheBackend)
		}
	default:
		return Config{}, fmt.Errorf("CACHE_BACKEND[%s] is not supported", cfg.CacheBackend)
	}

	switch cfg.TraceExporter {
	case "none", "stdout", "otlp":
	default:
		return Config{}, fmt.Errorf("TRACE_EXPORTER[%s] is not supported", cfg.TraceExporter)
	}

	return cfg, nil
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "cartstore")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// getEnvDuration accepts Go durations ("1.5s") or a bare number of seconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n := getEnvInt(key, -1); n >= 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
