package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPass     string
	DBName     string
	ServerPort string
	Env        string

	// Comma-separated list of allowed browser origins.
	FrontendURL string

	RedisURL string
	RedisTTL time.Duration

	MinioURL       string
	MinioPublicURL string
	MinioUser      string
	MinioPassword  string
	MinioBucket    string
	MaxFileSize    int64

	JWTSecret string
	JWTTTL    time.Duration

	// Minutes a weekday must reach before it stops counting as pending
	// in the weekly notifications (9h by default).
	DailyTargetMinutes int

	AdminEmail    string
	AdminPassword string
}

func LoadConfig() Config {
	ttl, err := time.ParseDuration(getEnv("REDIS_TTL", "5m"))
	if err != nil {
		ttl = 5 * time.Minute
	}

	jwtTTL, err := time.ParseDuration(getEnv("JWT_TTL", "8h"))
	if err != nil {
		jwtTTL = 8 * time.Hour
	}

	return Config{
		DBHost:     getEnv("DB_HOST", "postgres"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPass:     getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "db_horas"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		Env:        getEnv("ENV", "dev"),

		FrontendURL: getEnv("FRONTEND_URL", ""),

		RedisURL: getEnv("REDIS_URL", "redis:6379"),
		RedisTTL: ttl,

		MinioURL:       getEnv("MINIO_URL", "localhost:9000"),
		MinioPublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		MinioUser:      getEnv("MINIO_USER", "minioadmin"),
		MinioPassword:  getEnv("MINIO_PASSWORD", "minioadmin"),
		MinioBucket:    getEnv("MINIO_BUCKET", "horas-uploads"),
		MaxFileSize:    getEnvAsInt64("MAX_FILE_SIZE", 10*1024*1024),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTL:    jwtTTL,

		DailyTargetMinutes: getEnvAsInt("DAILY_TARGET_MINUTES", 9*60),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@horas.local"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "Admin123"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
	}
	return fallback
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPass, c.DBName, c.DBPort,
	)
}
