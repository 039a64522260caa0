package config

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
)

// Config is the service configuration, read from the environment.
type Config struct {
	Server        ServerConfig
	Upload        UploadConfig
	CORS          CORSConfig
	RateLimit     RateLimitConfig
	Logging       LoggingConfig
	ErrorHandling ErrorHandlingConfig
	App           AppConfig
}

// ServerConfig holds listener address and timeouts
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// UploadConfig holds limits for the CSV upload endpoint
type UploadConfig struct {
	MaxUploadBytes int64
	FormField      string
}

// CORSConfig holds cross-origin settings for browser clients
type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         int // seconds
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	UploadRPS         float64 // Stricter limit for the analysis endpoint
	UploadBurst       int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// ErrorHandlingConfig controls what error responses reveal
type ErrorHandlingConfig struct {
	ShowDetails bool
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

// Load reads a .env file when present, then the environment, and validates
// the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, reading the process environment only")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", ":8080"),
			ReadTimeout:     getEnvAs("SERVER_READ_TIMEOUT", 30*time.Second, time.ParseDuration),
			WriteTimeout:    getEnvAs("SERVER_WRITE_TIMEOUT", 30*time.Second, time.ParseDuration),
			IdleTimeout:     getEnvAs("SERVER_IDLE_TIMEOUT", 60*time.Second, time.ParseDuration),
			ShutdownTimeout: getEnvAs("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second, time.ParseDuration),
		},
		Upload: UploadConfig{
			MaxUploadBytes: getEnvAs("MAX_UPLOAD_SIZE", int64(10<<20), parseSize),
			FormField:      getEnvOrDefault("UPLOAD_FORM_FIELD", "file"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getStringSliceOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
			MaxAge:         getEnvAs("CORS_MAX_AGE", 300, strconv.Atoi),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnvAs("RATE_LIMIT_ENABLED", true, strconv.ParseBool),
			RequestsPerSecond: getEnvAs("RATE_LIMIT_RPS", 10.0, parseFloat),
			BurstSize:         getEnvAs("RATE_LIMIT_BURST", 20, strconv.Atoi),
			UploadRPS:         getEnvAs("RATE_LIMIT_UPLOAD_RPS", 2.0, parseFloat),
			UploadBurst:       getEnvAs("RATE_LIMIT_UPLOAD_BURST", 5, strconv.Atoi),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
		ErrorHandling: ErrorHandlingConfig{
			ShowDetails: getEnvAs("ERROR_SHOW_DETAILS", false, strconv.ParseBool),
		},
		App: AppConfig{
			Name:        getEnvOrDefault("APP_NAME", "employee-identifier"),
			Version:     getEnvOrDefault("APP_VERSION", "dev"),
			Environment: getEnvOrDefault("APP_ENV", "development"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports every problem at once rather than stopping at the first.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port == "" {
		errs = append(errs, "SERVER_PORT is required")
	}

	if c.Upload.FormField == "" {
		errs = append(errs, "UPLOAD_FORM_FIELD is required")
	}

	if c.Upload.MaxUploadBytes <= 0 {
		errs = append(errs, "MAX_UPLOAD_SIZE must be positive")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL %q is not one of debug, info, warn, error", c.Logging.Level))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT %q is not one of json, text", c.Logging.Format))
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.BurstSize <= 0 {
			errs = append(errs, "RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive when rate limiting is enabled")
		}
		if c.RateLimit.UploadRPS <= 0 || c.RateLimit.UploadBurst <= 0 {
			errs = append(errs, "RATE_LIMIT_UPLOAD_RPS and RATE_LIMIT_UPLOAD_BURST must be positive when rate limiting is enabled")
		}
	}

	if c.IsProduction() {
		if c.ErrorHandling.ShowDetails {
			errs = append(errs, "ERROR_SHOW_DETAILS must be off in production")
		}

		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				errs = append(errs, "CORS_ALLOWED_ORIGINS must list explicit origins in production")
				break
			}
		}
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAs parses key with parse, falling back to defaultValue when the
// variable is unset or does not parse.
func getEnvAs[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	if value := os.Getenv(key); value != "" {
		if parsed, err := parse(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func parseFloat(value string) (float64, error) {
	return strconv.ParseFloat(value, 64)
}

// parseSize accepts plain byte counts as well as sizes like "10MB" or "512 KiB".
func parseSize(value string) (int64, error) {
	size, err := humanize.ParseBytes(value)
	if err != nil {
		return 0, err
	}
	if size > math.MaxInt64 {
		return 0, fmt.Errorf("size %q overflows int64", value)
	}
	return int64(size), nil
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// String returns a short representation of the config (safe for logging)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Server: %s, MaxUpload: %s, RateLimit: %v, ShowDetails: %v, Environment: %s}",
		c.Server.Port,
		humanize.IBytes(uint64(c.Upload.MaxUploadBytes)),
		c.RateLimit.Enabled,
		c.ErrorHandling.ShowDetails,
		c.App.Environment,
	)
}
