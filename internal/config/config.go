// Package config provides configuration for the chatstream service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// LLM settings
	OpenAIAPIKey  string
	OpenAIAPIBase string
	DefaultModel  string
	MaxTokens     int
	Temperature   float64
	LLMTimeout    time.Duration

	// Workflow settings
	DefaultRecursionLimit int
	DefaultStreamMode     string
	StreamTimeout         time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:              getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:           getEnv("DATABASE_URL", "file:chatstream.db?cache=shared&mode=rwc"),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIAPIBase:         getEnv("OPENAI_API_BASE", "https://api.openai.com"),
		DefaultModel:          getEnv("DEFAULT_MODEL", "gpt-4-turbo-preview"),
		MaxTokens:             getEnvInt("MAX_TOKENS", 4000),
		Temperature:           getEnvFloat("TEMPERATURE", 0.7),
		LLMTimeout:            time.Duration(getEnvInt("LLM_TIMEOUT_MS", 120000)) * time.Millisecond,
		DefaultRecursionLimit: getEnvInt("DEFAULT_RECURSION_LIMIT", 50),
		DefaultStreamMode:     getEnv("DEFAULT_STREAM_MODE", "updates"),
		StreamTimeout:         time.Duration(getEnvInt("STREAM_TIMEOUT_MS", 300000)) * time.Millisecond,
		LogLevel:              getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if floatVal, err := strconv.ParseFloat(val, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}
