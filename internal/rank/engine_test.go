package rank

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/outliner/internal/doctree"
)

// fakeEmbedder maps texts to vectors through a lookup function and records
// every batch it is asked for.
type fakeEmbedder struct {
	vector  func(text string) []float64
	batches [][]string
	err     error
}

func (f *fakeEmbedder) Name() string { return "fake" }

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	f.batches = append(f.batches, texts)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = f.vector(t)
	}
	return out, nil
}

func travelRequest() *Request {
	req := &Request{}
	req.Persona.Role = "Travel Planner"
	req.JobToBeDone.Task = "plan a 4-day trip"
	req.Documents = []DocumentRef{{Filename: "cities.pdf"}, {Filename: "food.pdf"}}
	return req
}

func fixedClock() time.Time {
	return time.Date(2025, 7, 10, 15, 31, 22, 632389000, time.Local)
}

func TestRank_TravelPlannerSemanticTieBreak(t *testing.T) {
	emb := &fakeEmbedder{vector: func(text string) []float64 {
		switch {
		case strings.Contains(text, "coastline"):
			return []float64{0.9, 0.1}
		case strings.Contains(text, "laundry"):
			return []float64{0.1, 0.9}
		default:
			return []float64{1, 0}
		}
	}}
	sections := []doctree.Section{
		{Document: "food.pdf", Page: 3, Title: "Laundry Services", Text: "Travel planners can plan a trip around laundry stops."},
		{Document: "cities.pdf", Page: 1, Title: "Coastal Adventures", Text: "Travel planners can plan a trip along the coastline."},
	}

	e := NewEngine(emb, DefaultConfig())
	e.now = fixedClock
	out, err := e.Rank(context.Background(), travelRequest(), sections)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}

	if len(out.ExtractedSections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(out.ExtractedSections))
	}
	first := out.ExtractedSections[0]
	if first.SectionTitle != "Coastal Adventures" || first.ImportanceRank != 1 {
		t.Errorf("expected Coastal Adventures ranked 1, got %+v", first)
	}
	if out.ExtractedSections[1].ImportanceRank != 2 {
		t.Errorf("expected rank 2, got %d", out.ExtractedSections[1].ImportanceRank)
	}
	if out.SubsectionAnalysis[0].RefinedText != sections[1].Text || out.SubsectionAnalysis[0].PageNumber != 1 {
		t.Errorf("expected subsection analysis to follow ranking, got %+v", out.SubsectionAnalysis[0])
	}

	if len(emb.batches) != 2 {
		t.Fatalf("expected 2 embed calls, got %d", len(emb.batches))
	}
	if len(emb.batches[0]) != 10 {
		t.Errorf("expected 10 queries in first batch, got %d", len(emb.batches[0]))
	}
	if len(emb.batches[1]) != 2 {
		t.Errorf("expected all sections in one batch, got %d", len(emb.batches[1]))
	}

	md := out.Metadata
	if md.Persona != "Travel Planner" || md.JobToBeDone != "plan a 4-day trip" {
		t.Errorf("unexpected metadata %+v", md)
	}
	if md.ProcessingTimestamp != "2025-07-10T15:31:22.632389" {
		t.Errorf("unexpected timestamp %q", md.ProcessingTimestamp)
	}
	if len(md.InputDocuments) != 2 || md.InputDocuments[0] != "cities.pdf" {
		t.Errorf("unexpected input documents %v", md.InputDocuments)
	}
}

func TestRank_NoSectionsSkipsEmbedding(t *testing.T) {
	emb := &fakeEmbedder{vector: func(string) []float64 { return []float64{1} }}
	out, err := NewEngine(emb, DefaultConfig()).Rank(context.Background(), travelRequest(), nil)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(emb.batches) != 0 {
		t.Errorf("expected no embed calls, got %d", len(emb.batches))
	}

	raw, _ := json.Marshal(out)
	if !strings.Contains(string(raw), `"extracted_sections":[]`) || !strings.Contains(string(raw), `"subsection_analysis":[]`) {
		t.Errorf("expected empty arrays in JSON, got %s", raw)
	}
}

func TestRank_EmbedderErrorPropagates(t *testing.T) {
	boom := errors.New("model unavailable")
	emb := &fakeEmbedder{err: boom}
	_, err := NewEngine(emb, DefaultConfig()).Rank(context.Background(), travelRequest(), []doctree.Section{{Text: "x"}})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped embedder error, got %v", err)
	}
}

func TestRank_DiversityApplied(t *testing.T) {
	emb := &fakeEmbedder{vector: func(string) []float64 { return []float64{1, 0} }}
	var sections []doctree.Section
	for i, title := range []string{"Nice Beaches", "Nice Beaches Guide", "Old Town", "Harbour Walk", "Markets", "Museums", "Castles"} {
		doc := "a.pdf"
		if i >= 3 {
			doc = "b.pdf"
		}
		if i >= 5 {
			doc = "c.pdf"
		}
		sections = append(sections, doctree.Section{Document: doc, Title: title, Text: "plan a trip " + title})
	}

	out, err := NewEngine(emb, DefaultConfig()).Rank(context.Background(), travelRequest(), sections)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(out.ExtractedSections) != 5 {
		t.Fatalf("expected 5 sections, got %d", len(out.ExtractedSections))
	}
	perDoc := map[string]int{}
	for _, s := range out.ExtractedSections {
		perDoc[s.Document]++
		if s.SectionTitle == "Nice Beaches Guide" {
			t.Error("expected similar title to be skipped")
		}
	}
	for doc, n := range perDoc {
		if n > 2 {
			t.Errorf("document %s contributed %d sections", doc, n)
		}
	}
}

func TestScore_WeightsAndKeywords(t *testing.T) {
	w := DefaultConfig().Weights
	got := Score(1, "Plan your TRIP", []string{"plan", "trip", "budget", "friends"}, w)
	want := 0.7 + 0.3*0.5
	if diff := got - want; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("expected %f, got %f", want, got)
	}
	if Score(0.5, "anything", nil, w) != 0.35 {
		t.Errorf("expected lexical 0 without keywords")
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2}, []float64{1, 2}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"zero vector", []float64{0, 0}, []float64{1, 0}, 0},
		{"length mismatch", []float64{1}, []float64{1, 0}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestCentroid(t *testing.T) {
	got := Centroid([][]float64{{1, 0}, {3, 4}, {9}})
	if len(got) != 2 || got[0] != 2 || got[1] != 2 {
		t.Errorf("expected [2 2], got %v", got)
	}
	if Centroid(nil) != nil {
		t.Error("expected nil centroid for no vectors")
	}
}
