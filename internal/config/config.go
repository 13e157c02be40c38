package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/outliner/internal/chunker"
	"github.com/dgallion1/outliner/internal/embedding"
	"github.com/dgallion1/outliner/internal/outline"
	"github.com/dgallion1/outliner/internal/rank"
)

type Config struct {
	Port string

	// Auth; empty disables bearer checks.
	APIKey string

	// Embedding
	EmbeddingProvider  string
	EmbeddingBaseURL   string
	EmbeddingAPIKey    string
	EmbeddingModel     string
	EmbeddingBatchSize int
	EmbeddingDim       int
	EmbeddingTimeout   time.Duration

	// Worker pool
	WorkerCount       int
	MaxQueueSize      int
	MaxConcurrentDocs int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Heuristic tunables, optionally overridden from HEURISTICS_FILE.
	HeuristicsFile string
	Heuristics     Heuristics
}

// Heuristics groups the engine configurations that can be tuned from YAML
// without code changes.
type Heuristics struct {
	Outline  outline.Config `yaml:"outline"`
	Sections outline.Config `yaml:"sections"`
	Chunker  chunker.Config `yaml:"chunker"`
	Rank     rank.Config    `yaml:"rank"`
}

// DefaultHeuristics returns the built-in profiles.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		Outline:  outline.DefaultConfig(),
		Sections: outline.SectionConfig(),
		Chunker:  chunker.DefaultConfig(),
		Rank:     rank.DefaultConfig(),
	}
}

// LoadHeuristics overlays the YAML file at path onto the defaults. An empty
// path returns the defaults.
func LoadHeuristics(path string) (Heuristics, error) {
	h := DefaultHeuristics()
	if path == "" {
		return h, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return h, fmt.Errorf("read heuristics file: %w", err)
	}
	if err := yaml.Unmarshal(data, &h); err != nil {
		return h, fmt.Errorf("parse heuristics file: %w", err)
	}
	return h, nil
}

// Load reads a .env file when present, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("OUTLINER_API_KEY"),

		EmbeddingProvider:  envOr("EMBEDDING_PROVIDER", embedding.ProviderHashing),
		EmbeddingBaseURL:   envOr("EMBEDDING_BASE_URL", "https://api.openai.com/v1"),
		EmbeddingAPIKey:    os.Getenv("EMBEDDING_API_KEY"),
		EmbeddingModel:     envOr("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingBatchSize: envInt("EMBEDDING_BATCH_SIZE", 64),
		EmbeddingDim:       envInt("EMBEDDING_DIM", embedding.DefaultDim),
		EmbeddingTimeout:   envDuration("EMBEDDING_TIMEOUT", 60*time.Second),

		WorkerCount:       envInt("WORKER_COUNT", 4),
		MaxQueueSize:      envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentDocs: envInt("MAX_CONCURRENT_DOCS", 4),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		HeuristicsFile: os.Getenv("HEURISTICS_FILE"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentDocs <= 0 {
		cfg.MaxConcurrentDocs = 4
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	h, err := LoadHeuristics(cfg.HeuristicsFile)
	if err != nil {
		return cfg, err
	}
	cfg.Heuristics = h
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.EmbeddingProvider {
	case embedding.ProviderHashing:
	case embedding.ProviderOpenAI:
		if c.EmbeddingModel == "" {
			return fmt.Errorf("EMBEDDING_MODEL is required for the openai provider")
		}
	default:
		return fmt.Errorf("EMBEDDING_PROVIDER %q is not one of hashing, openai", c.EmbeddingProvider)
	}
	if w := c.Heuristics.Rank.Weights; w.Semantic < 0 || w.Lexical < 0 {
		return fmt.Errorf("rank weights must be non-negative")
	}
	return nil
}

// Embedding returns the embedder settings.
func (c Config) Embedding() embedding.Config {
	return embedding.Config{
		Provider:  c.EmbeddingProvider,
		BaseURL:   c.EmbeddingBaseURL,
		APIKey:    c.EmbeddingAPIKey,
		Model:     c.EmbeddingModel,
		BatchSize: c.EmbeddingBatchSize,
		Dim:       c.EmbeddingDim,
		Timeout:   c.EmbeddingTimeout,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
