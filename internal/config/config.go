package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for uploaded speech audio.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// FeatureFlags gate the availability of optional surfaces. A disabled
// feature responds as if the resource does not exist; flags are never
// echoed to unauthenticated callers.
type FeatureFlags struct {
	ExportEnabled     bool
	ShareLinksEnabled bool
	ProgressUIEnabled bool
}

// RateLimitConfig controls the per-client token bucket.
type RateLimitConfig struct {
	Capacity   int
	RefillRate int // tokens per second
}

// OpenAIConfig holds settings for the speech-scoring model client.
type OpenAIConfig struct {
	APIKey string
	Model  string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost   string
	Port      string
	JWTSecret string
	Database  DatabaseConfig
	MinIO     MinIOConfig
	Features  FeatureFlags
	RateLimit RateLimitConfig
	OpenAI    OpenAIConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:   getEnv("APP_HOST", "localhost:8080"),
		Port:      getEnv("PORT", "8080"), // default only for non-sensitive value
		JWTSecret: getEnv("JWT_SECRET", ""),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Features: FeatureFlags{
			ExportEnabled:     getEnvBool("FEATURE_EXPORT_ENABLED", false),
			ShareLinksEnabled: getEnvBool("FEATURE_SHARE_LINKS_ENABLED", false),
			ProgressUIEnabled: getEnvBool("FEATURE_PROGRESS_UI_ENABLED", false),
		},
		RateLimit: RateLimitConfig{
			Capacity:   getEnvInt("RATE_LIMIT_CAPACITY", 60),
			RefillRate: getEnvInt("RATE_LIMIT_REFILL_PER_SEC", 1),
		},
		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
			Model:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
