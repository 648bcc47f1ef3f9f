// Package config provides application configuration management.
// Configuration is loaded from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// Cache and notification stream (Redis)
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// JWT verification (HS256)
	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`
	JWTIssuer string `env:"JWT_ISSUER" envDefault:""`

	// AWS
	AWSRegion                 string `env:"AWS_REGION" envDefault:"ap-northeast-1"`
	ProfileImageBucket        string `env:"PROFILE_IMAGE_BUCKET" envDefault:"question-connection-profiles"`
	SNSPlatformApplicationARN string `env:"SNS_PLATFORM_APPLICATION_ARN" envDefault:""`

	// Profile image change limit
	ProfileImageMaxChangesPerMonth int `env:"PROFILE_IMAGE_MAX_CHANGES_PER_MONTH" envDefault:"2"`
	ProfileImageRetentionYears     int `env:"PROFILE_IMAGE_RETENTION_YEARS" envDefault:"1"`

	// Per-user API rate limiting
	RateLimitAPIEnabled bool `env:"RATE_LIMIT_API_ENABLED" envDefault:"true"`
	RateLimitAPIRPM     int  `env:"RATE_LIMIT_API_RPM" envDefault:"120"`
	RateLimitAPIBurst   int  `env:"RATE_LIMIT_API_BURST" envDefault:"20"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 10MB, sized for image uploads)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"10485760"`

	// Notification worker
	NotifyWorkerEnabled bool `env:"NOTIFY_WORKER_ENABLED" envDefault:"true"`

	// Circuit breakers, one per AWS service
	S3BreakerTimeout       time.Duration `env:"S3_BREAKER_TIMEOUT" envDefault:"30s"`
	S3BreakerMaxFailures   uint32        `env:"S3_BREAKER_MAX_FAILURES" envDefault:"5"`
	PushBreakerTimeout     time.Duration `env:"PUSH_BREAKER_TIMEOUT" envDefault:"30s"`
	PushBreakerMaxFailures uint32        `env:"PUSH_BREAKER_MAX_FAILURES" envDefault:"5"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// PushEnabled reports whether an SNS platform application is configured.
func (c *Config) PushEnabled() bool {
	return c.SNSPlatformApplicationARN != ""
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	if c.IsProduction() && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes in production")
	}
	if c.ProfileImageMaxChangesPerMonth < 1 {
		return fmt.Errorf("PROFILE_IMAGE_MAX_CHANGES_PER_MONTH must be positive, got %d", c.ProfileImageMaxChangesPerMonth)
	}
	if c.ProfileImageRetentionYears < 1 {
		return fmt.Errorf("PROFILE_IMAGE_RETENTION_YEARS must be positive, got %d", c.ProfileImageRetentionYears)
	}
	return nil
}

// Load parses environment variables and returns a validated Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
