package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	TenantAPI TenantAPIConfig
	Session   SessionConfig
	Redis     RedisConfig
	Firebase  FirebaseConfig
	S3        S3Config
	OTEL      OTELConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port   string
	AppURL string // Public base URL handed to the SSO widget
}

// TenantAPIConfig holds the hosted tenant service endpoint
type TenantAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig holds session cookie settings
type SessionConfig struct {
	CookieName string
	Secret     string
	TTL        time.Duration
	Secure     bool
}

// RedisConfig holds Redis connection configuration.
// An empty Addr selects the in-process tenant name cache.
type RedisConfig struct {
	Addr          string
	Password      string
	TenantNameTTL time.Duration
}

// FirebaseConfig holds Firebase Admin SDK configuration.
// SSO login is disabled when ProjectID is empty.
type FirebaseConfig struct {
	ProjectID   string
	PrivateKey  string // Base64 encoded
	ClientEmail string
}

// Enabled reports whether Firebase credentials are configured
func (f FirebaseConfig) Enabled() bool {
	return f.ProjectID != ""
}

// S3Config holds the asset bucket. Embedded assets are served when Endpoint is empty.
type S3Config struct {
	Endpoint string
	Region   string
	Bucket   string
}

// OTELConfig holds OpenTelemetry exporter configuration
type OTELConfig struct {
	Enabled        bool
	Endpoint       string
	InstanceID     string
	Token          string
	ServiceName    string
	ServiceVersion string
	Environment    string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level       string
	Development bool
}

// Load reads configuration from environment variables
// It attempts to load from .env file first, then falls back to system env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:   getEnv("PORT", "3000"),
			AppURL: getEnv("APP_URL", "http://localhost:3000"),
		},
		TenantAPI: TenantAPIConfig{
			BaseURL: getEnv("TENANT_API_URL", ""),
			Timeout: getEnvAsDuration("TENANT_API_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "authData"),
			Secret:     getEnv("SESSION_SECRET", ""),
			TTL:        getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			Secure:     getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		Redis: RedisConfig{
			Addr:          getEnv("REDIS_ADDR", ""),
			Password:      getEnv("REDIS_PASSWORD", ""),
			TenantNameTTL: getEnvAsDuration("TENANT_NAME_CACHE_TTL", 5*time.Minute),
		},
		Firebase: FirebaseConfig{
			ProjectID:   getEnv("FIREBASE_PROJECT_ID", ""),
			PrivateKey:  getEnv("FIREBASE_PRIVATE_KEY", ""),
			ClientEmail: getEnv("FIREBASE_CLIENT_EMAIL", ""),
		},
		S3: S3Config{
			Endpoint: getEnv("S3_ENDPOINT", ""),
			Region:   getEnv("S3_REGION", "us-east-1"),
			Bucket:   getEnv("S3_BUCKET", "tenantpanel-assets"),
		},
		OTEL: OTELConfig{
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			InstanceID:     getEnv("OTEL_INSTANCE_ID", ""),
			Token:          getEnv("OTEL_TOKEN", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "tenantpanel"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
			Environment:    getEnv("OTEL_ENVIRONMENT", "development"),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.TenantAPI.BaseURL == "" {
		return fmt.Errorf("TENANT_API_URL is required")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.Firebase.Enabled() {
		if c.Firebase.PrivateKey == "" {
			return fmt.Errorf("FIREBASE_PRIVATE_KEY is required when FIREBASE_PROJECT_ID is set")
		}
		if c.Firebase.ClientEmail == "" {
			return fmt.Errorf("FIREBASE_CLIENT_EMAIL is required when FIREBASE_PROJECT_ID is set")
		}
	}
	if c.OTEL.Enabled && c.OTEL.Endpoint == "" {
		return fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED is set")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration retrieves an environment variable as a duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
