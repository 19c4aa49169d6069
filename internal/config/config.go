package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DatabaseURL        string
	AutoMigrate        bool
	JWTSecret          string
	JWTTTL             time.Duration
	AllowOrigins       []string
	LogstashTCPAddr    string
	MinIOEndpoint      string
	MinIOAccessKey     string
	MinIOSecretKey     string
	MinIOUseSSL        bool
	MinIOBucketUploads string
	MinIOPublicURL     string
	UploadMaxBytes     int64
	UploadMaxDimension int
	RedisURL           string
	LoginRateLimit     string
	PublicRateLimit    string
	SMTPHost           string
	SMTPPort           string
	SMTPUsername       string
	SMTPPassword       string
	SMTPFrom           string
	SMTPUseTLS         bool
	NotifyEmail        string
	BootstrapUsername  string
	BootstrapEmail     string
	BootstrapPassword  string
	MetricsEnabled     bool
	SwaggerSpecPath    string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	jwtTTL := 12 * time.Hour
	if v, err := time.ParseDuration(getenv("JWT_TTL", "12h")); err == nil && v > 0 {
		jwtTTL = v
	}

	uploadMax := int64(10 * 1024 * 1024)
	if v, err := strconv.ParseInt(getenv("UPLOAD_MAX_BYTES", "10485760"), 10, 64); err == nil && v > 0 {
		uploadMax = v
	}

	maxDimension := 2560
	if v, err := strconv.Atoi(getenv("UPLOAD_MAX_DIMENSION", "2560")); err == nil && v > 0 {
		maxDimension = v
	}

	return Config{
		Port:               getenv("PORT", "8080"),
		DatabaseURL:        must("DATABASE_URL"),
		AutoMigrate:        getenv("AUTO_MIGRATE", "true") == "true",
		JWTSecret:          must("JWT_SECRET"),
		JWTTTL:             jwtTTL,
		AllowOrigins:       splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		LogstashTCPAddr:    getenv("LOGSTASH_TCP_ADDR", ""),
		MinIOEndpoint:      must("MINIO_ENDPOINT"),
		MinIOAccessKey:     must("MINIO_ACCESS_KEY"),
		MinIOSecretKey:     must("MINIO_SECRET_KEY"),
		MinIOUseSSL:        getenv("MINIO_USE_SSL", "false") == "true",
		MinIOBucketUploads: getenv("MINIO_BUCKET_UPLOADS", "travel-uploads"),
		MinIOPublicURL:     getenv("MINIO_PUBLIC_URL", ""),
		UploadMaxBytes:     uploadMax,
		UploadMaxDimension: maxDimension,
		RedisURL:           getenv("REDIS_URL", ""),
		LoginRateLimit:     getenv("LOGIN_RATE_LIMIT", "10-M"),
		PublicRateLimit:    getenv("PUBLIC_RATE_LIMIT", "60-M"),
		SMTPHost:           getenv("SMTP_HOST", ""),
		SMTPPort:           getenv("SMTP_PORT", ""),
		SMTPUsername:       getenv("SMTP_USERNAME", ""),
		SMTPPassword:       getenv("SMTP_PASSWORD", ""),
		SMTPFrom:           getenv("SMTP_FROM", ""),
		SMTPUseTLS:         getenv("SMTP_USE_TLS", "false") == "true",
		NotifyEmail:        getenv("NOTIFY_EMAIL", ""),
		BootstrapUsername:  getenv("BOOTSTRAP_ADMIN_USERNAME", ""),
		BootstrapEmail:     getenv("BOOTSTRAP_ADMIN_EMAIL", ""),
		BootstrapPassword:  getenv("BOOTSTRAP_ADMIN_PASSWORD", ""),
		MetricsEnabled:     getenv("METRICS_ENABLED", "true") == "true",
		SwaggerSpecPath:    getenv("SWAGGER_SPEC_PATH", "docs/swagger.yaml"),
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
