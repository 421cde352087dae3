package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	ApplicationName    string
	ConnectTimeoutSec  int
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Config holds settings for an S3-compatible endpoint reached through the AWS SDK
// (Cloudflare R2 in production).
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UsePathStyle    bool
}

// ExchangeConfig controls document lifetime and presigned URL lifetimes.
type ExchangeConfig struct {
	DocumentTTL     time.Duration
	UploadURLTTL    time.Duration
	DownloadURLTTL  time.Duration
	TransferTimeout time.Duration
}

// BreakerConfig tunes the circuit breaker wrapped around object storage calls.
type BreakerConfig struct {
	Enabled      bool
	MinRequests  uint32
	FailureRatio float64
	OpenTimeout  time.Duration
	HalfOpenMax  uint32
}

// NATSConfig enables publishing of document events to NATS.
type NATSConfig struct {
	URL     string
	Subject string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port          string
	LogLevel      string
	Timezone      string
	StoreDriver   string // postgres | memory
	StorageDriver string // minio | s3
	// Organizations seeds the memory store: "CODE:Name,CODE:Name".
	Organizations string
	Database      DatabaseConfig
	MinIO         MinIOConfig
	S3            S3Config
	Exchange      ExchangeConfig
	Breaker       BreakerConfig
	NATS          NATSConfig
}

// Location resolves Timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Timezone:      getEnv("APP_TIMEZONE", "UTC"),
		StoreDriver:   getEnv("STORE_DRIVER", "postgres"),
		StorageDriver: getEnv("STORAGE_DRIVER", "minio"),
		Organizations: getEnv("ORGANIZATIONS", ""),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			ApplicationName:    getEnv("DB_APPLICATION_NAME", "docport"),
			ConnectTimeoutSec:  getEnvInt("DB_CONNECT_TIMEOUT_SEC", 5),
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
		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			Region:          getEnv("S3_REGION", "auto"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("S3_BUCKET", ""),
			UsePathStyle:    getEnvBool("S3_USE_PATH_STYLE", true),
		},
		Exchange: ExchangeConfig{
			DocumentTTL:     getEnvDuration("EXCHANGE_DOCUMENT_TTL", 7*24*time.Hour),
			UploadURLTTL:    getEnvDuration("EXCHANGE_UPLOAD_URL_TTL", 5*time.Minute),
			DownloadURLTTL:  getEnvDuration("EXCHANGE_DOWNLOAD_URL_TTL", 5*time.Minute),
			TransferTimeout: getEnvDuration("EXCHANGE_TRANSFER_TIMEOUT", 2*time.Minute),
		},
		Breaker: BreakerConfig{
			Enabled:      getEnvBool("BREAKER_ENABLED", true),
			MinRequests:  uint32(getEnvInt("BREAKER_MIN_REQUESTS", 5)),
			FailureRatio: getEnvFloat("BREAKER_FAILURE_RATIO", 0.6),
			OpenTimeout:  getEnvDuration("BREAKER_OPEN_TIMEOUT", 30*time.Second),
			HalfOpenMax:  uint32(getEnvInt("BREAKER_HALF_OPEN_MAX", 1)),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", ""),
			Subject: getEnv("NATS_SUBJECT", "docport.documents"),
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

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil && d > 0 {
			return d
		}
	}
	return def
}
