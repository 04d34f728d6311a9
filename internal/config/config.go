package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPageSize      = 10
	DefaultFeedCacheTTL  = 20 * time.Second
	DefaultFeedCacheSize = 1024
	DefaultLoginURL      = "/auth/login/"
)

type DB struct {
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
	// PublicURL is the externally reachable base for image links,
	// e.g. https://media.example.com. Empty means derive it from Endpoint.
	PublicURL string
}

type Log struct {
	Level      string
	Production bool
}

type Config struct {
	ServerPort       int
	DB               DB
	MinIO            MinIO
	Log              Log
	JWTSecretKey     string
	SessionDuration  time.Duration
	MaxUploadSize    int64
	PageSize         int
	FeedCacheTTL     time.Duration
	FeedCacheSize    int
	LoginURL         string
	MigrationsOnBoot bool
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

func LoadDB() DB {
	return DB{
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "yatube"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
	}
}

func LoadMinIO() MinIO {
	return MinIO{
		Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: getEnv("MINIO_BUCKET_NAME", "posts"),
		UseSSL:     getEnvBool("MINIO_USE_SSL", false),
		Region:     getEnv("MINIO_REGION", "us-east-1"),
		PublicURL:  getEnv("MINIO_PUBLIC_URL", ""),
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	return &Config{
		ServerPort: getEnvAsInt("SERVER_PORT", 8080),
		DB:         LoadDB(),
		MinIO:      LoadMinIO(),
		Log: Log{
			Level:      getEnv("LOG_LEVEL", "info"),
			Production: getEnvBool("LOG_PRODUCTION", false),
		},
		JWTSecretKey:     getEnv("JWT_SECRET_KEY", ""),
		SessionDuration:  getEnvDuration("SESSION_DURATION", 14*24*time.Hour),
		MaxUploadSize:    parseMaxUploadSize(getEnv("MAX_UPLOAD_SIZE", "5242880")),
		PageSize:         positive(getEnvAsInt("PAGE_SIZE", DefaultPageSize), DefaultPageSize),
		FeedCacheTTL:     getEnvDuration("FEED_CACHE_TTL", DefaultFeedCacheTTL),
		FeedCacheSize:    positive(getEnvAsInt("FEED_CACHE_SIZE", DefaultFeedCacheSize), DefaultFeedCacheSize),
		LoginURL:         getEnv("LOGIN_URL", DefaultLoginURL),
		MigrationsOnBoot: getEnvBool("MIGRATIONS_ON_BOOT", true),
	}
}

func parseMaxUploadSize(value string) int64 {
	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil || size <= 0 {
		return 5 * 1024 * 1024
	}
	return size
}

func positive(value, fallback int) int {
	if value < 1 {
		return fallback
	}
	return value
}
