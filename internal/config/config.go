package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // APP_TIMEZONE must resolve in minimal containers

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env         string
	Server      ServerConfig
	Database    DatabaseConfig
	Storage     StorageConfig
	Auth        AuthConfig
	OCR         OCRConfig
	App         AppConfig
	Leaderboard LeaderboardConfig
}

type ServerConfig struct {
	Host            string
	Port            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	URL         string
	MaxConns    int32
	MinConns    int32
	AutoMigrate bool
}

type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
	Region        string
}

type AuthConfig struct {
	JWTSecret string
}

type OCRConfig struct {
	Engine         string
	OCRSpaceAPIKey string
	OCRSpaceURL    string
	Language       string
	GeminiAPIKey   string
	GeminiModel    string
	PollInterval   time.Duration
	Lease          time.Duration
	Timeout        time.Duration
}

type AppConfig struct {
	Timezone        string
	Location        *time.Location
	FreshMenuLimit  int
	KarmaBasePoints int
	MaxUploadBytes  int64
}

type LeaderboardConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// Load reads .env (outside production) and the process environment.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Env: v.GetString("APP_ENV"),
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetString("SERVER_PORT"),
			AllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			URL:         v.GetString("DATABASE_URL"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			MinConns:    v.GetInt32("DB_MIN_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Storage: StorageConfig{
			Endpoint:      v.GetString("R2_ENDPOINT"),
			AccessKey:     v.GetString("R2_ACCESS_KEY"),
			SecretKey:     v.GetString("R2_SECRET_KEY"),
			Bucket:        v.GetString("R2_BUCKET_NAME"),
			PublicBaseURL: strings.TrimRight(v.GetString("R2_PUBLIC_BASE_URL"), "/"),
			Region:        v.GetString("R2_REGION"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
		},
		OCR: OCRConfig{
			Engine:         strings.ToLower(v.GetString("OCR_ENGINE")),
			OCRSpaceAPIKey: v.GetString("OCRSPACE_API_KEY"),
			OCRSpaceURL:    v.GetString("OCRSPACE_URL"),
			Language:       v.GetString("OCR_LANGUAGE"),
			GeminiAPIKey:   v.GetString("GEMINI_API_KEY"),
			GeminiModel:    v.GetString("GEMINI_MODEL"),
			PollInterval:   v.GetDuration("OCR_POLL_INTERVAL"),
			Lease:          v.GetDuration("OCR_LEASE"),
			Timeout:        v.GetDuration("OCR_TIMEOUT"),
		},
		App: AppConfig{
			Timezone:        v.GetString("APP_TIMEZONE"),
			FreshMenuLimit:  v.GetInt("MENU_FRESH_LIMIT"),
			KarmaBasePoints: v.GetInt("KARMA_BASE_POINTS"),
			MaxUploadBytes:  v.GetInt64("MAX_UPLOAD_BYTES"),
		},
		Leaderboard: LeaderboardConfig{
			DefaultLimit: v.GetInt("LEADERBOARD_DEFAULT_LIMIT"),
			MaxLimit:     v.GetInt("LEADERBOARD_MAX_LIMIT"),
		},
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.App.Timezone, err)
	}
	cfg.App.Location = loc

	if cfg.App.FreshMenuLimit <= 0 {
		return nil, fmt.Errorf("MENU_FRESH_LIMIT must be positive, got %d", cfg.App.FreshMenuLimit)
	}
	if cfg.Leaderboard.MaxLimit < cfg.Leaderboard.DefaultLimit {
		cfg.Leaderboard.MaxLimit = cfg.Leaderboard.DefaultLimit
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8000")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("R2_ENDPOINT", "")
	v.SetDefault("R2_ACCESS_KEY", "")
	v.SetDefault("R2_SECRET_KEY", "")
	v.SetDefault("R2_BUCKET_NAME", "")
	v.SetDefault("R2_PUBLIC_BASE_URL", "")
	v.SetDefault("R2_REGION", "auto")

	v.SetDefault("JWT_SECRET", "")

	v.SetDefault("OCR_ENGINE", "ocrspace")
	v.SetDefault("OCRSPACE_API_KEY", "")
	v.SetDefault("OCRSPACE_URL", "https://api.ocr.space/parse/image")
	v.SetDefault("OCR_LANGUAGE", "eng")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("OCR_POLL_INTERVAL", "2s")
	v.SetDefault("OCR_LEASE", "2m")
	v.SetDefault("OCR_TIMEOUT", "60s")

	v.SetDefault("APP_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("MENU_FRESH_LIMIT", 10)
	v.SetDefault("KARMA_BASE_POINTS", 10)
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)

	v.SetDefault("LEADERBOARD_DEFAULT_LIMIT", 100)
	v.SetDefault("LEADERBOARD_MAX_LIMIT", 500)
}

// Require fails on the first missing key, in the order given.
func (c *Config) Require(keys ...string) error {
	for _, k := range keys {
		if c.lookup(k) == "" {
			return fmt.Errorf("missing env var: %s", k)
		}
	}
	return nil
}

// OCRKeys returns the credentials the configured OCR engine needs.
func (c *Config) OCRKeys() []string {
	switch c.OCR.Engine {
	case "gemini":
		return []string{"GEMINI_API_KEY", "GEMINI_MODEL"}
	case "tesseract":
		return nil
	default:
		return []string{"OCRSPACE_API_KEY"}
	}
}

func (c *Config) lookup(key string) string {
	switch key {
	case "DATABASE_URL":
		return c.Database.URL
	case "JWT_SECRET":
		return c.Auth.JWTSecret
	case "R2_ENDPOINT":
		return c.Storage.Endpoint
	case "R2_ACCESS_KEY":
		return c.Storage.AccessKey
	case "R2_SECRET_KEY":
		return c.Storage.SecretKey
	case "R2_BUCKET_NAME":
		return c.Storage.Bucket
	case "R2_PUBLIC_BASE_URL":
		return c.Storage.PublicBaseURL
	case "OCRSPACE_API_KEY":
		return c.OCR.OCRSpaceAPIKey
	case "GEMINI_API_KEY":
		return c.OCR.GeminiAPIKey
	case "GEMINI_MODEL":
		return c.OCR.GeminiModel
	default:
		return os.Getenv(key)
	}
}

// StorageKeys are required by every binary that touches object storage.
var StorageKeys = []string{
	"R2_ACCESS_KEY",
	"R2_SECRET_KEY",
	"R2_BUCKET_NAME",
	"R2_ENDPOINT",
	"R2_PUBLIC_BASE_URL",
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
