package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	BaseURL     string
	DatabaseDSN string

	RedisHost     string
	RedisPassword string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	SessionSecret string
	CORSOrigins   string

	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string
}

// Load reads .env (if present) and builds the configuration from the
// environment. Missing keys fall back to local-development defaults.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found — continuing with system environment variables")
	} else {
		log.Println("✅ .env file loaded")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=qrkatalog port=5432 sslmode=disable"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "qrkatalog"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",

		SessionSecret: os.Getenv("SESSION_SECRET"),
		CORSOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", "admin123"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}

	if cfg.SessionSecret == "" {
		log.Fatal("❌ SESSION_SECRET missing from environment")
	}
	if cfg.AdminPassword == "admin123" && cfg.AdminPasswordHash == "" {
		log.Println("⚠️  ADMIN_PASSWORD is the default value — set a real credential in production")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
