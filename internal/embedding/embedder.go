// Package embedding turns text into vectors for relevance scoring.
package embedding

import (
	"context"
	"fmt"
	"time"
)

// Embedder converts a batch of texts into vectors of equal dimension, one
// per input and in input order.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Config selects and configures an embedder.
type Config struct {
	Provider  string // "hashing" or "openai"
	BaseURL   string
	APIKey    string
	Model     string
	BatchSize int
	Dim       int // Hashing only.
	Timeout   time.Duration
}

// New builds the embedder named by cfg.Provider. Stats may be nil.
func New(cfg Config, stats *Stats) (Embedder, error) {
	switch cfg.Provider {
	case "", ProviderHashing:
		return NewHashing(cfg.Dim), nil
	case ProviderOpenAI:
		return NewClient(cfg, stats)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

const (
	ProviderHashing = "hashing"
	ProviderOpenAI  = "openai"
)
