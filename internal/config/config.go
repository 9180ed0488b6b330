package config

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Interactive surface
	AppPassword   string
	SessionSecret string
	SessionExpiry time.Duration

	// Image source
	SourceProvider string // "drive" or "s3"
	FolderID       string
	DriveOrderBy   string

	// Source - S3 (S3-compatible: MinIO, Cloudflare R2, DigitalOcean Spaces, etc.)
	S3Region    string
	S3Bucket    string
	S3Prefix    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for non-AWS providers

	// Generation
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	GeminiTimeout time.Duration

	// Persisted files
	TokenFile        string
	ClientSecretFile string
	StyleFile        string

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Ringpost"),
		AppEnv:  envString("APP_ENV", "development"),
		Port:    envString("PORT", "8090"),

		// Interactive surface (validated by ValidateInteractive, CLI does not need them)
		AppPassword:   envString("APP_PASSWORD", ""),
		SessionSecret: envString("SESSION_SECRET", ""),
		SessionExpiry: envDuration("SESSION_EXPIRY", 12*time.Hour),

		// Image source
		SourceProvider: envString("SOURCE_PROVIDER", "drive"),
		FolderID:       envString("FOLDER_ID", ""),
		DriveOrderBy:   envString("DRIVE_ORDER_BY", "modifiedTime desc"),

		S3Region:    envString("S3_REGION", ""),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3Prefix:    envString("S3_PREFIX", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),

		// Generation
		GeminiAPIKey:  envRequired("GEMINI_API_KEY"),
		GeminiModel:   envString("GEMINI_MODEL", "gemini-3-flash-preview"),
		GeminiBaseURL: envString("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiTimeout: envDuration("GEMINI_TIMEOUT", 60*time.Second),

		// Persisted files
		TokenFile:        envString("TOKEN_FILE", "token.json"),
		ClientSecretFile: envString("CLIENT_SECRET_FILE", "credentials.json"),
		StyleFile:        envString("STYLE_FILE", "style.md"),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	return cfg
}

// ValidateInteractive checks the settings only the web surface needs.
// The one-shot CLI runs without a password gate or sessions.
func (c *Config) ValidateInteractive() error {
	if c.AppPassword == "" {
		return errors.New("APP_PASSWORD is required for the interactive surface")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required for the interactive surface")
	}
	return nil
}

// ValidateSource checks that the selected image source is fully configured.
func (c *Config) ValidateSource() error {
	switch c.SourceProvider {
	case "drive":
		if c.FolderID == "" {
			return errors.New("FOLDER_ID is required for the drive source")
		}
	case "s3":
		if c.S3Region == "" || c.S3Bucket == "" || c.S3AccessKey == "" || c.S3SecretKey == "" {
			return errors.New("S3_REGION, S3_BUCKET, S3_ACCESS_KEY and S3_SECRET_KEY are required for the s3 source")
		}
	default:
		return errors.New("SOURCE_PROVIDER must be 'drive' or 's3'")
	}
	return nil
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// Secrets and credentials are excluded, safe to expose in ctx and templates.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		Port:    c.Port,

		SourceProvider: c.SourceProvider,
		GeminiModel:    c.GeminiModel,
		StyleFile:      c.StyleFile,
	}
}
