package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string

	DatabaseURL  string
	StoreTimeout time.Duration

	RedisURL        string
	CommentCacheTTL time.Duration

	JWTSecret       string
	JWTAccessExpiry time.Duration

	AdminID           string
	AdminEmail        string
	AdminPasswordHash string

	SiteName      string
	SiteOwnerName string

	BulkApproveWorkers int

	MigrationsDir string
	LocalesDir    string

	CORSOrigins string

	ResendAPIKey       string
	FromEmail          string
	Domain             string
	NotifyOnSubmission bool
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL:  getEnv("DATABASE_URL", ""),
		StoreTimeout: getDurationEnv("STORE_TIMEOUT", 5*time.Second),

		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		CommentCacheTTL: getDurationEnv("COMMENT_CACHE_TTL", 5*time.Minute),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: getDurationEnv("JWT_ACCESS_EXPIRY", 12*time.Hour),

		AdminID:           getEnv("ADMIN_ID", "admin"),
		AdminEmail:        getEnv("ADMIN_EMAIL", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		SiteName:      getEnv("SITE_NAME", "Blog"),
		SiteOwnerName: getEnv("SITE_OWNER_NAME", "Site Owner"),

		BulkApproveWorkers: getIntEnv("BULK_APPROVE_WORKERS", 1),

		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		LocalesDir:    getEnv("LOCALES_DIR", "locales"),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),

		ResendAPIKey:       getEnv("RESEND_API_KEY", ""),
		FromEmail:          getEnv("FROM_EMAIL", "noreply@example.com"),
		Domain:             getEnv("DOMAIN", "localhost:5173"),
		NotifyOnSubmission: getBoolEnv("NOTIFY_ON_SUBMISSION", true),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
