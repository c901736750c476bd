package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// DevFrontendOrigin is always allowed by CORS next to FrontendURL.
	DevFrontendOrigin = "http://localhost:5173"

	// MaxUploadBytes caps a single business-card photo.
	MaxUploadBytes = 5 * 1024 * 1024
)

type Config struct {
	ServiceName  string
	Port         string
	Env          string
	FrontendURL  string
	FrontendDist string
	BodyLimit    int

	JWTSecret   string
	JWTAudience string

	Database DatabaseConfig
	Storage  StorageConfig

	RateLimitMax        int
	RateLimitExpiration time.Duration

	NatsURL      string
	OtelEndpoint string
}

type DatabaseConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
	SSLMode  string
}

type StorageConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	Bucket          string
	PublicBaseURL   string
}

// Load reads .env.dev when present and builds the configuration from the
// process environment. It is meant to run once, in main.
func Load() *Config {
	if err := godotenv.Load(".env.dev"); err != nil {
		log.Println("No .env.dev file found, reading from environment variables")
	}

	return FromEnv()
}

func FromEnv() *Config {
	env := getEnv("APP_ENV", os.Getenv("NODE_ENV"))
	if env == "" {
		env = EnvDevelopment
	}

	secret := os.Getenv("SUPABASE_JWT_SECRET")
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}

	return &Config{
		ServiceName:  "contacts-service",
		Port:         getEnv("PORT", "3030"),
		Env:          env,
		FrontendURL:  getEnv("FRONTEND_URL", DevFrontendOrigin),
		FrontendDist: getEnv("FRONTEND_DIST", "../frontend/dist"),
		BodyLimit:    getEnvInt("BODY_LIMIT_MB", 10) * 1024 * 1024,

		JWTSecret:   secret,
		JWTAudience: os.Getenv("JWT_AUDIENCE"),

		Database: DatabaseConfig{
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Storage: StorageConfig{
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			UsePathStyle:    os.Getenv("S3_USE_PATH_STYLE") == "true",
			Bucket:          getEnv("STORAGE_BUCKET", "contact-cards"),
			PublicBaseURL:   os.Getenv("S3_PUBLIC_BASE_URL"),
		},

		RateLimitMax:        getEnvInt("RATE_LIMIT_MAX", 100),
		RateLimitExpiration: time.Duration(getEnvInt("RATE_LIMIT_EXPIRATION", 60)) * time.Second,

		NatsURL:      os.Getenv("NATS_URL"),
		OtelEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// AllowedOrigins is the comma separated list handed to the CORS middleware.
func (c *Config) AllowedOrigins() string {
	if c.FrontendURL == "" || c.FrontendURL == DevFrontendOrigin {
		return DevFrontendOrigin
	}
	return c.FrontendURL + ", " + DevFrontendOrigin
}

func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
