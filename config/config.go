package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string
	// Database
	DBUrl            string
	DBMaxConns       int
	DBMinConns       int
	DBSimpleProtocol bool // required behind PgBouncer transaction pooling
	RunMigrations    bool
	// CORS
	AllowedOrigins []string
	// Redis (rate limiting backend, optional)
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds int
	RateLimitThreshold     int
	// Listing / export
	DefaultPageLimit int
	ExportMaxRows    int
}

var defaultOrigins = map[string][]string{
	"production":  {"https://hirepath-dashboard.onrender.com"},
	"development": {"http://localhost:5173"},
}

func LoadConfig() (*Config, error) {
	// Load .env file when present; real environment variables win.
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Port:     getEnv("PORT", "3001"),
		Env:      env,
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		DBUrl:            getEnv("DATABASE_URL", ""),
		DBMaxConns:       getEnvInt("DB_MAX_CONNS", 25),
		DBMinConns:       getEnvInt("DB_MIN_CONNS", 2),
		DBSimpleProtocol: getEnvBool("DB_SIMPLE_PROTOCOL", true),
		RunMigrations:    getEnvBool("RUN_MIGRATIONS", true),

		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", originsFor(env)),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitThreshold:     getEnvInt("RATE_LIMIT_THRESHOLD", 300),

		DefaultPageLimit: getEnvInt("DEFAULT_PAGE_LIMIT", 10),
		ExportMaxRows:    getEnvInt("EXPORT_MAX_ROWS", 10000),
	}

	if cfg.DBUrl == "" {
		return nil, errors.New("DATABASE_URL is not set in environment variables")
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// RateLimitWindow is the rate limiting window as a duration.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func originsFor(env string) []string {
	if origins, ok := defaultOrigins[env]; ok {
		return origins
	}
	return defaultOrigins["development"]
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvList splits a comma-separated variable, dropping blanks.
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimRight(strings.TrimSpace(part), "/"); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
