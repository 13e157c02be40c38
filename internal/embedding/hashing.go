package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
)

// DefaultDim is the hashing embedder's vector size when none is configured.
const DefaultDim = 1024

var tokenPattern = regexp.MustCompile(`\p{L}+|\p{N}+`)

// Hashing is a local embedder: stemmed tokens are feature-hashed into signed
// buckets and the result is L2 normalized. Output depends only on the text.
type Hashing struct {
	dim       int
	stopwords map[string]struct{}
}

func NewHashing(dim int) *Hashing {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &Hashing{dim: dim, stopwords: defaultStopwords()}
}

func (h *Hashing) Name() string { return ProviderHashing }

// Dimension returns the vector size.
func (h *Hashing) Dimension() int { return h.dim }

func (h *Hashing) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = h.vector(t)
	}
	return out, nil
}

func (h *Hashing) vector(text string) []float64 {
	vec := make([]float64, h.dim)
	for _, tok := range h.tokenize(text) {
		hs := fnv.New64a()
		hs.Write([]byte(tok))
		sum := hs.Sum64()
		idx := int(sum % uint64(h.dim))
		// High bit picks the sign so collisions tend to cancel.
		if sum>>63 == 1 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

func (h *Hashing) tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := h.stopwords[t]; isStop {
			continue
		}
		if stemmed, err := snowball.Stem(t, "english", true); err == nil && stemmed != "" {
			t = stemmed
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"what", "which", "where", "who", "how", "when", "do", "does", "someone", "help",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
