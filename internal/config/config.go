package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Session credentials
	JWTSecret string
	JWTExpiry time.Duration

	// Realtime fan-out across instances (optional)
	RedisURL string

	// Seeds
	SeedsPath string

	// Rooms
	RoomCodeAttempts int

	// Admin
	AdminToken string

	// Logging
	LogLevel         string
	LogRetentionDays int

	// Server
	Port            string
	AppEnv          string
	CORSOrigins     string
	BodyLimit       int
	RateLimitMax    int
	RateLimitWindow time.Duration
	// Login and register share a stricter per-IP limit per minute
	AuthRateLimitMax int

	// Error tracking (optional)
	SentryDSN string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to read .env file", "error", err)
	}

	return &Config{
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "harmony"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "720h"), 30*24*time.Hour),

		RedisURL: getEnv("REDIS_URL", ""),

		SeedsPath: getEnv("SEEDS_PATH", "seeds.json"),

		RoomCodeAttempts: parseInt(getEnv("ROOM_CODE_ATTEMPTS", "8"), 8),

		AdminToken: getEnv("ADMIN_TOKEN", ""),

		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),

		Port:            getEnv("PORT", "3000"),
		AppEnv:          getEnv("APP_ENV", "production"),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		BodyLimit:       parseInt(getEnv("BODY_LIMIT_BYTES", "1048576"), 1<<20),
		RateLimitMax:    parseInt(getEnv("RATE_LIMIT_MAX", "1000"), 1000),
		RateLimitWindow: parseDuration(getEnv("RATE_LIMIT_WINDOW", "15m"), 15*time.Minute),

		AuthRateLimitMax: parseInt(getEnv("AUTH_RATE_LIMIT_MAX", "10"), 10),

		SentryDSN: getEnv("SENTRY_DSN", ""),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) UsesMemoryStore() bool {
	return c.DBDriver == "memory"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
