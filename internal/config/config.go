package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string

	// IndexPath is the directory holding the persisted vector index.
	IndexPath string

	// MaxFileSize bounds the multipart memory buffer for uploads.
	MaxFileSize int64

	// ShutdownTimeout is the graceful-shutdown window in seconds.
	ShutdownTimeout int

	TracingEnabled bool
	OTLPEndpoint   string
}

// LoadConfig reads the environment, loading .env first when present. No
// field is required: startup never fails on missing configuration, and the
// generative-model API key is intentionally not read here but at call time.
func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		CORSOrigins:     splitAndTrim(getEnv("CORS_ORIGINS", "")),
		IndexPath:       getEnv("INDEX_PATH", "vector_index"),
		MaxFileSize:     getEnvInt64("MAX_FILE_SIZE", 52428800), // 50MB
		ShutdownTimeout: getEnvInt("SHUTDOWN_TIMEOUT", 30),
		TracingEnabled:  getEnvBool("TRACING_ENABLED", false),
		OTLPEndpoint:    getEnv("OTLP_ENDPOINT", "localhost:4317"),
	}

	return cfg, nil
}

// splitAndTrim turns a comma-separated list into a slice, dropping empty
// entries so an unset variable yields nil rather than [""].
func splitAndTrim(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
