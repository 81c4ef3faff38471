// ABOUTME: Centralized configuration for the coaching memory pipeline
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the memory pipeline
type Config struct {
	// Storage settings
	DBPath string

	// Provider settings
	Provider       string // "openai" or "gemini"
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	GeminiProject  string
	GeminiLocation string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Retrieval settings
	SimilarityThreshold float64
	VectorDimension     int
	HistoryLimit        int
	RetrievalCount      int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:              getEnv("COACHMEM_DB_PATH", ""),
		Provider:            getEnv("COACHMEM_PROVIDER", "openai"),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		ChatModel:           getEnv("COACHMEM_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel:      getEnv("COACHMEM_EMBEDDING_MODEL", "text-embedding-3-small"),
		GeminiProject:       os.Getenv("GOOGLE_CLOUD_PROJECT"),
		GeminiLocation:      getEnv("GOOGLE_CLOUD_LOCATION", "us-central1"),
		Timeout:             getEnvDuration("COACHMEM_TIMEOUT", 30*time.Second),
		MaxRetries:          getEnvInt("COACHMEM_MAX_RETRIES", 3),
		RetryDelay:          getEnvDuration("COACHMEM_RETRY_DELAY", 2*time.Second),
		SimilarityThreshold: getEnvFloat("COACHMEM_SIMILARITY_THRESHOLD", 0.7),
		VectorDimension:     getEnvInt("COACHMEM_VECTOR_DIMENSION", 1536),
		HistoryLimit:        getEnvInt("COACHMEM_HISTORY_LIMIT", 10),
		RetrievalCount:      getEnvInt("COACHMEM_RETRIEVAL_COUNT", 5),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Provider != "openai" && c.Provider != "gemini" {
		return fmt.Errorf("COACHMEM_PROVIDER must be openai or gemini, got %q", c.Provider)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("COACHMEM_SIMILARITY_THRESHOLD must be 0-1, got %f", c.SimilarityThreshold)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("COACHMEM_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.VectorDimension <= 0 {
		return fmt.Errorf("COACHMEM_VECTOR_DIMENSION must be positive, got %d", c.VectorDimension)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
