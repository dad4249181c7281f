// Package config holds runtime configuration for the API server.
// Flags take precedence; each one falls back to an environment variable
// so the same binary works locally and in Cloud Run.
package config

import (
	"flag"
	"os"
)

// Config is the resolved server configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// ProjectID is the GCP project for BigQuery. Empty means the
	// in-memory transaction store is used instead.
	ProjectID string

	// Dataset is the BigQuery dataset holding the transactions table.
	Dataset string

	// Bucket is the GCS bucket for archiving uploaded documents.
	// Empty disables archiving.
	Bucket string

	// Model is the Gemini model name.
	Model string

	// GeminiAPIKey enables the model gateway when set. The genai client
	// reads the key from the environment itself; this field only gates
	// whether a gateway is constructed at all.
	GeminiAPIKey string
}

// Load parses flags and environment variables into a Config.
func Load() *Config {
	var (
		port    = flag.String("port", envOr("PORT", "8080"), "HTTP server port (or set PORT env)")
		project = flag.String("project", os.Getenv("GCP_PROJECT"), "GCP project ID for BigQuery (or set GCP_PROJECT env)")
		dataset = flag.String("dataset", envOr("BQ_DATASET", "finbuddy"), "BigQuery dataset name (or set BQ_DATASET env)")
		bucket  = flag.String("bucket", os.Getenv("GCS_BUCKET"), "GCS bucket name for document archiving (or set GCS_BUCKET env)")
		model   = flag.String("model", os.Getenv("GEMINI_MODEL"), "Gemini model name (or set GEMINI_MODEL env)")
	)
	flag.Parse()

	return &Config{
		Port:         *port,
		ProjectID:    *project,
		Dataset:      *dataset,
		Bucket:       *bucket,
		Model:        *model,
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
