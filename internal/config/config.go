package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `env:"HOST"`
	Port               string `env:"PORT" envDefault:"5432"`
	User               string `env:"USER"`
	Password           string `env:"PASSWORD"`
	Name               string `env:"NAME"`
	SSLMode            string `env:"SSLMODE" envDefault:"disable"`
	MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetimeSec int    `env:"CONN_MAX_LIFETIME_SEC" envDefault:"300"`
	AutoMigrate        bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// S3Config holds settings for the AWS S3 backend. Credentials come from the
// default AWS chain unless AccessKey/SecretKey are set.
type S3Config struct {
	Region    string `env:"REGION" envDefault:"eu-central-1"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
}

// StorageConfig selects and configures the object storage backend.
type StorageConfig struct {
	Driver        string      `env:"STORAGE_DRIVER" envDefault:"minio"`
	Bucket        string      `env:"STORAGE_BUCKET" envDefault:"documents"`
	PublicBaseURL string      `env:"STORAGE_PUBLIC_BASE_URL"`
	MinIO         MinIOConfig `envPrefix:"MINIO_"`
	S3            S3Config    `envPrefix:"S3_"`
}

// AIConfig configures the invoice extraction endpoint. An empty APIKey
// disables extraction and routes every document to manual review.
type AIConfig struct {
	APIKey       string        `env:"API_KEY"`
	BaseURL      string        `env:"BASE_URL" envDefault:"https://ai.gateway.lovable.dev/v1"`
	Model        string        `env:"MODEL" envDefault:"google/gemini-3-flash-preview"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"60s"`
	PDFTextLimit int           `env:"PDF_TEXT_LIMIT" envDefault:"8000"`
}

// Enabled reports whether an extraction capability is configured.
func (c AIConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// AuthConfig holds the secret used to verify bearer tokens issued by the
// hosted auth service.
type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET"`
}

// IMAPConfig configures the optional mailbox poller.
type IMAPConfig struct {
	Server       string        `env:"SERVER"`
	Username     string        `env:"USERNAME"`
	Password     string        `env:"PASSWORD"`
	Mailbox      string        `env:"MAILBOX" envDefault:"INBOX"`
	Recipient    string        `env:"RECIPIENT"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"1m"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" envDefault:"30s"`
}

// ReferralConfig holds defaults for referral code generation.
type ReferralConfig struct {
	DefaultAppID    string `env:"DEFAULT_APP_ID" envDefault:"hausmeisterpro"`
	DiscountPercent int    `env:"DISCOUNT_PERCENT" envDefault:"20"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Env         string `env:"ENV" envDefault:"dev"`
	Port        string `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT"`
	BodyLimitMB int    `env:"BODY_LIMIT_MB" envDefault:"25"`

	Database DatabaseConfig `envPrefix:"DB_"`
	Storage  StorageConfig
	AI       AIConfig       `envPrefix:"AI_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`
	IMAP     IMAPConfig     `envPrefix:"IMAP_"`
	Referral ReferralConfig `envPrefix:"REFERRAL_"`
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over .env values.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.Env = normalizeEnv(cfg.Env)
	if cfg.LogFormat == "" {
		if cfg.Env == "production" {
			cfg.LogFormat = "json"
		} else {
			cfg.LogFormat = "text"
		}
	}

	switch cfg.Storage.Driver {
	case "minio", "s3":
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	return cfg, nil
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	default:
		return "dev"
	}
}
