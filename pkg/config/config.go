package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Model   ModelConfig
	Sentry  SentryConfig
	Tracing TracingConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port             string
	Environment      string
	ServiceName      string
	Version          string
	ReadTimeout      int // seconds
	WriteTimeout     int // seconds
	RequestTimeoutMS int
	MaxBodyBytes     int64
	CORSOrigins      string // Comma-separated list of allowed origins, "*" for any
}

// ModelConfig describes where the trained model artifact and code tables live
type ModelConfig struct {
	Path           string
	CodeTablesPath string // Optional; compiled-in training encoding is used when empty
	S3Bucket       string
	S3Key          string
	S3Region       string
	S3Endpoint     string
	AccessKey      string
	SecretKey      string
}

// SentryConfig holds error reporting configuration
type SentryConfig struct {
	DSN        string
	SampleRate float64
}

// TracingConfig holds OpenTelemetry exporter configuration
type TracingConfig struct {
	Endpoint    string
	Insecure    bool
	SampleRatio float64
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:             getEnv("PORT", "8000"),
			Environment:      getEnv("ENVIRONMENT", "development"),
			ServiceName:      serviceName,
			Version:          getEnv("SERVICE_VERSION", "1.0"),
			ReadTimeout:      getEnvAsInt("READ_TIMEOUT", 10),
			WriteTimeout:     getEnvAsInt("WRITE_TIMEOUT", 10),
			RequestTimeoutMS: getEnvAsInt("REQUEST_TIMEOUT_MS", 2000),
			MaxBodyBytes:     int64(getEnvAsInt("MAX_BODY_BYTES", 64*1024)),
			CORSOrigins:      getEnv("CORS_ORIGINS", "*"),
		},
		Model: ModelConfig{
			Path:           getEnv("MODEL_PATH", "models/demand_model.json"),
			CodeTablesPath: getEnv("CODE_TABLES_PATH", ""),
			S3Bucket:       getEnv("MODEL_S3_BUCKET", ""),
			S3Key:          getEnv("MODEL_S3_KEY", ""),
			S3Region:       getEnv("MODEL_S3_REGION", "us-east-1"),
			S3Endpoint:     getEnv("MODEL_S3_ENDPOINT", ""),
			AccessKey:      getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretKey:      getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		Sentry: SentryConfig{
			DSN:        getEnv("SENTRY_DSN", ""),
			SampleRate: getEnvAsFloat("SENTRY_SAMPLE_RATE", 1.0),
		},
		Tracing: TracingConfig{
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure:    getEnvAsBool("OTEL_INSECURE", true),
			SampleRatio: getEnvAsFloat("OTEL_SAMPLE_RATIO", 1.0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configuration the service cannot start with
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Model.Path) == "" {
		errs = append(errs, errors.New("MODEL_PATH must not be empty"))
	}
	if (c.Model.S3Bucket == "") != (c.Model.S3Key == "") {
		errs = append(errs, errors.New("MODEL_S3_BUCKET and MODEL_S3_KEY must be set together"))
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		errs = append(errs, errors.New("READ_TIMEOUT and WRITE_TIMEOUT must be positive"))
	}
	if c.Server.RequestTimeoutMS <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT_MS must be positive"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}
	if c.Sentry.SampleRate < 0 || c.Sentry.SampleRate > 1 {
		errs = append(errs, fmt.Errorf("SENTRY_SAMPLE_RATE must be within [0,1], got %v", c.Sentry.SampleRate))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("OTEL_SAMPLE_RATIO must be within [0,1], got %v", c.Tracing.SampleRatio))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// RemoteModel reports whether the artifact should be fetched from S3 before loading
func (c *ModelConfig) RemoteModel() bool {
	return c.S3Bucket != "" && c.S3Key != ""
}

// RequestTimeout returns the per-request timeout enforced by the HTTP layer
func (c *ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// AllowedOrigins splits CORSOrigins into a trimmed list
func (c *ServerConfig) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
