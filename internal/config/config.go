// Package config loads pipeline settings from the environment. Every knob has
// a default so the binary runs with nothing but API keys set.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Registry and storage
	SourcesPath string // YAML registry, empty means built-in defaults
	DataDir     string

	// Fetching
	RequestTimeout time.Duration
	ScrapeLimit    int // max links harvested per scraped landing page

	// Enrichment
	EnrichDelay time.Duration // pacing between article page fetches
	EnrichLimit int           // max summary-less records enriched per run

	// Retention
	RetentionMonths int

	// Translation
	GeminiAPIKey       string
	OpenAIAPIKey       string
	MaxAIRequests      int
	TranslateChunkSize int
	TranslateDelay     time.Duration // between records inside a chunk
	ChunkDelay         time.Duration // between chunks

	// Image backfill
	ImageBatchSize  int
	ImageBatchDelay time.Duration

	Debug bool
}

func Load() *Config {
	return &Config{
		SourcesPath: getEnvOrDefault("SOURCES_CONFIG", ""),
		DataDir:     getEnvOrDefault("DATA_DIR", "data"),

		RequestTimeout: getEnvDurationOrDefault("REQUEST_TIMEOUT", 12*time.Second),
		ScrapeLimit:    getEnvIntOrDefault("SCRAPE_LIMIT", 10),

		EnrichDelay: getEnvDurationOrDefault("ENRICH_DELAY", 300*time.Millisecond),
		EnrichLimit: getEnvIntOrDefault("ENRICH_LIMIT", 10),

		RetentionMonths: getEnvIntOrDefault("RETENTION_MONTHS", 6),

		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		MaxAIRequests:      getEnvIntOrDefault("MAX_AI_REQUESTS", 0),
		TranslateChunkSize: getEnvIntOrDefault("TRANSLATE_CHUNK_SIZE", 3),
		TranslateDelay:     getEnvDurationOrDefault("TRANSLATE_DELAY", 500*time.Millisecond),
		ChunkDelay:         getEnvDurationOrDefault("CHUNK_DELAY", 2*time.Second),

		ImageBatchSize:  getEnvIntOrDefault("IMAGE_BATCH_SIZE", 5),
		ImageBatchDelay: getEnvDurationOrDefault("IMAGE_BATCH_DELAY", 1500*time.Millisecond),

		Debug: os.Getenv("DEBUG") == "true",
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
