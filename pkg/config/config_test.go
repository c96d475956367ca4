package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "ENVIRONMENT", "SERVICE_VERSION", "READ_TIMEOUT", "WRITE_TIMEOUT", "REQUEST_TIMEOUT_MS",
	"MAX_BODY_BYTES", "CORS_ORIGINS", "MODEL_PATH", "CODE_TABLES_PATH", "MODEL_S3_BUCKET", "MODEL_S3_KEY",
	"MODEL_S3_REGION", "MODEL_S3_ENDPOINT", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "SENTRY_DSN",
	"SENTRY_SAMPLE_RATE", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_INSECURE", "OTEL_SAMPLE_RATIO",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("demand-prediction-api")
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "demand-prediction-api", cfg.Server.ServiceName)
	assert.Equal(t, "1.0", cfg.Server.Version)
	assert.Equal(t, "*", cfg.Server.CORSOrigins)
	assert.Equal(t, 2*time.Second, cfg.Server.RequestTimeout())
	assert.Equal(t, int64(64*1024), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "models/demand_model.json", cfg.Model.Path)
	assert.False(t, cfg.Model.RemoteModel())
	assert.Empty(t, cfg.Sentry.DSN)
	assert.Empty(t, cfg.Tracing.Endpoint)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
}

func TestLoad_Custom(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("MODEL_PATH", "/srv/model.json")
	t.Setenv("MODEL_S3_BUCKET", "models")
	t.Setenv("MODEL_S3_KEY", "demand/v3.json")
	t.Setenv("REQUEST_TIMEOUT_MS", "500")
	t.Setenv("OTEL_SAMPLE_RATIO", "0.25")

	cfg, err := Load("demand")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Environment)
	assert.Equal(t, "/srv/model.json", cfg.Model.Path)
	assert.True(t, cfg.Model.RemoteModel())
	assert.Equal(t, 500*time.Millisecond, cfg.Server.RequestTimeout())
	assert.Equal(t, 0.25, cfg.Tracing.SampleRatio)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("READ_TIMEOUT", "not-a-number")

	cfg, err := Load("demand")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Server.ReadTimeout)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{ReadTimeout: 10, WriteTimeout: 10, RequestTimeoutMS: 1000, MaxBodyBytes: 1024},
			Model:  ModelConfig{Path: "model.json"},
			Sentry: SentryConfig{SampleRate: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty model path", func(c *Config) { c.Model.Path = " " }, "MODEL_PATH"},
		{"bucket without key", func(c *Config) { c.Model.S3Bucket = "b" }, "MODEL_S3_BUCKET"},
		{"zero timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, "READ_TIMEOUT"},
		{"negative request timeout", func(c *Config) { c.Server.RequestTimeoutMS = -1 }, "REQUEST_TIMEOUT_MS"},
		{"zero body limit", func(c *Config) { c.Server.MaxBodyBytes = 0 }, "MAX_BODY_BYTES"},
		{"sentry rate too high", func(c *Config) { c.Sentry.SampleRate = 1.5 }, "SENTRY_SAMPLE_RATE"},
		{"otel ratio negative", func(c *Config) { c.Tracing.SampleRatio = -0.1 }, "OTEL_SAMPLE_RATIO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAllowedOrigins(t *testing.T) {
	tests := []struct {
		name    string
		origins string
		want    []string
	}{
		{"wildcard", "*", []string{"*"}},
		{"list with spaces", "http://a.test, http://b.test", []string{"http://a.test", "http://b.test"}},
		{"trailing comma", "http://a.test,", []string{"http://a.test"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ServerConfig{CORSOrigins: tt.origins}
			assert.Equal(t, tt.want, s.AllowedOrigins())
		})
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_CONFIG_VAR", "")
	assert.Equal(t, "default", getEnv("TEST_CONFIG_VAR", "default"))

	t.Setenv("TEST_CONFIG_VAR", "custom")
	assert.Equal(t, "custom", getEnv("TEST_CONFIG_VAR", "default"))

	t.Setenv("TEST_INT_VAR", "42")
	assert.Equal(t, 42, getEnvAsInt("TEST_INT_VAR", 1))

	t.Setenv("TEST_FLOAT_VAR", "0.5")
	assert.Equal(t, 0.5, getEnvAsFloat("TEST_FLOAT_VAR", 1))

	t.Setenv("TEST_BOOL_VAR", "false")
	assert.False(t, getEnvAsBool("TEST_BOOL_VAR", true))

	t.Setenv("TEST_BOOL_VAR", "maybe")
	assert.True(t, getEnvAsBool("TEST_BOOL_VAR", true))
}
