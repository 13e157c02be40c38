package rank

import (
	"math"
	"strings"
)

// Weights splits the fused score between embedding similarity and keyword
// overlap.
type Weights struct {
	Semantic float64 `yaml:"semantic_weight"`
	Lexical  float64 `yaml:"lexical_weight"`
}

// Score fuses a cosine similarity with the fraction of keywords found in text.
func Score(cos float64, text string, keywords []string, w Weights) float64 {
	return w.Semantic*cos + w.Lexical*KeywordFraction(text, keywords)
}

// KeywordFraction is the share of keywords that occur in text as
// case-insensitive substrings. No keywords yields 0.
func KeywordFraction(text string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	matched := 0
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

// Cosine returns the cosine similarity of a and b, or 0 when either is a zero
// vector or their lengths differ.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Centroid is the element-wise mean of vecs. Vectors whose length differs
// from the first are ignored.
func Centroid(vecs [][]float64) []float64 {
	if len(vecs) == 0 {
		return nil
	}
	dim := len(vecs[0])
	out := make([]float64, dim)
	n := 0
	for _, v := range vecs {
		if len(v) != dim {
			continue
		}
		for i, x := range v {
			out[i] += x
		}
		n++
	}
	for i := range out {
		out[i] /= float64(n)
	}
	return out
}
