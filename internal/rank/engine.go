// Package rank scores document sections against a persona and task and
// selects a diverse top set.
package rank

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dgallion1/outliner/internal/doctree"
	"github.com/dgallion1/outliner/internal/embedding"
)

// TimestampLayout renders processing timestamps as local ISO-8601 with
// microseconds and no zone.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Config holds the selection and scoring knobs.
type Config struct {
	TopK        int `yaml:"top_k"`
	PerDocument int `yaml:"per_document"`
	Weights     `yaml:",inline"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TopK:        5,
		PerDocument: 2,
		Weights:     Weights{Semantic: 0.7, Lexical: 0.3},
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TopK <= 0 {
		c.TopK = d.TopK
	}
	if c.PerDocument <= 0 {
		c.PerDocument = d.PerDocument
	}
	if c.Semantic == 0 && c.Lexical == 0 {
		c.Weights = d.Weights
	}
	return c
}

// Output is the ranking result document.
type Output struct {
	Metadata           Metadata             `json:"metadata"`
	ExtractedSections  []ExtractedSection   `json:"extracted_sections"`
	SubsectionAnalysis []SubsectionAnalysis `json:"subsection_analysis"`
}

type Metadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

type ExtractedSection struct {
	Document       string `json:"document"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
	PageNumber     int    `json:"page_number"`
}

type SubsectionAnalysis struct {
	Document    string `json:"document"`
	RefinedText string `json:"refined_text"`
	PageNumber  int    `json:"page_number"`
}

// Engine ranks sections with one embedder. It is safe for concurrent use if
// the embedder is.
type Engine struct {
	embedder embedding.Embedder
	cfg      Config
	now      func() time.Time
}

func NewEngine(e embedding.Embedder, cfg Config) *Engine {
	return &Engine{embedder: e, cfg: cfg.withDefaults(), now: time.Now}
}

// Rank embeds the query battery and every section text in one batch each,
// scores the sections and returns the diverse top set.
func (e *Engine) Rank(ctx context.Context, req *Request, sections []doctree.Section) (*Output, error) {
	out := &Output{
		Metadata: Metadata{
			InputDocuments:      req.Filenames(),
			Persona:             req.Role(),
			JobToBeDone:         req.Task(),
			ProcessingTimestamp: e.now().Format(TimestampLayout),
		},
		ExtractedSections:  []ExtractedSection{},
		SubsectionAnalysis: []SubsectionAnalysis{},
	}
	if len(sections) == 0 {
		return out, nil
	}

	ranked, err := e.Score(ctx, req.Role(), req.Task(), sections)
	if err != nil {
		return nil, err
	}

	for i, s := range Select(ranked, e.cfg) {
		out.ExtractedSections = append(out.ExtractedSections, ExtractedSection{
			Document:       s.Document,
			SectionTitle:   s.Title,
			ImportanceRank: i + 1,
			PageNumber:     s.Page,
		})
		out.SubsectionAnalysis = append(out.SubsectionAnalysis, SubsectionAnalysis{
			Document:    s.Document,
			RefinedText: s.Text,
			PageNumber:  s.Page,
		})
	}
	return out, nil
}

// Score returns every section with its fused score, sorted best first. Ties
// keep input order.
func (e *Engine) Score(ctx context.Context, role, task string, sections []doctree.Section) ([]doctree.RankedSection, error) {
	queries := Queries(role, task)
	qvecs, err := e.embed(ctx, queries)
	if err != nil {
		return nil, fmt.Errorf("embed queries: %w", err)
	}
	anchor := Centroid(qvecs)

	texts := make([]string, len(sections))
	for i, s := range sections {
		texts[i] = s.Text
	}
	svecs, err := e.embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed sections: %w", err)
	}

	keywords := Keywords(role, task)
	ranked := make([]doctree.RankedSection, len(sections))
	for i, s := range sections {
		ranked[i] = doctree.RankedSection{
			Section: s,
			Score:   Score(Cosine(anchor, svecs[i]), s.Text, keywords, e.cfg.Weights),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, nil
}

func (e *Engine) embed(ctx context.Context, texts []string) ([][]float64, error) {
	vecs, err := e.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("%s embedder returned %d vectors for %d texts", e.embedder.Name(), len(vecs), len(texts))
	}
	return vecs, nil
}
