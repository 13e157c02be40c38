package rank

import (
	"fmt"
	"testing"

	"github.com/dgallion1/outliner/internal/doctree"
)

func ranked(doc, title string, score float64) doctree.RankedSection {
	return doctree.RankedSection{Section: doctree.Section{Document: doc, Title: title}, Score: score}
}

func TestSelect_CapsAndSimilarity(t *testing.T) {
	in := []doctree.RankedSection{
		ranked("a.pdf", "Coastal Adventures", 0.9),
		ranked("a.pdf", "coastal adventures!", 0.89),
		ranked("a.pdf", "Nightlife", 0.8),
		ranked("a.pdf", "Cuisine", 0.7),
		ranked("b.pdf", "Adventures", 0.6),
		ranked("b.pdf", "Packing Tips", 0.5),
		ranked("c.pdf", "History", 0.4),
		ranked("c.pdf", "Hotels", 0.3),
		ranked("d.pdf", "Wine", 0.2),
	}
	got := Select(in, DefaultConfig())

	want := []string{"Coastal Adventures", "Nightlife", "Packing Tips", "History", "Hotels"}
	if len(got) != len(want) {
		t.Fatalf("expected %d sections, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Title != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], got[i].Title)
		}
	}
}

func TestSelect_Properties(t *testing.T) {
	var in []doctree.RankedSection
	for i := 0; i < 40; i++ {
		in = append(in, ranked(fmt.Sprintf("doc%d.pdf", i%3), fmt.Sprintf("Topic %c%d", 'A'+i%7, i), float64(100-i)))
	}
	got := Select(in, DefaultConfig())

	if len(got) > 5 {
		t.Fatalf("expected at most 5 sections, got %d", len(got))
	}
	perDoc := map[string]int{}
	for i, a := range got {
		perDoc[a.Document]++
		for j, b := range got {
			if i != j && similar(titleKey(a.Title), titleKey(b.Title)) {
				t.Errorf("titles %q and %q are similar", a.Title, b.Title)
			}
		}
	}
	for doc, n := range perDoc {
		if n > 2 {
			t.Errorf("%s contributed %d sections", doc, n)
		}
	}
}

func TestSelect_EmptyTitleKeyBlocksEverything(t *testing.T) {
	in := []doctree.RankedSection{
		ranked("a.pdf", "***", 0.9),
		ranked("b.pdf", "---", 0.8),
		ranked("c.pdf", "Overview", 0.7),
	}
	got := Select(in, DefaultConfig())
	if len(got) != 1 || got[0].Title != "***" {
		t.Fatalf("expected only the punctuation-only title selected, got %+v", got)
	}
}

func TestSelect_EmptyTitleKeyAfterSelection(t *testing.T) {
	in := []doctree.RankedSection{
		ranked("a.pdf", "Overview", 0.9),
		ranked("b.pdf", "***", 0.8),
		ranked("c.pdf", "Budget", 0.7),
	}
	got := Select(in, DefaultConfig())
	if len(got) != 2 || got[0].Title != "Overview" || got[1].Title != "Budget" {
		t.Fatalf("expected [Overview Budget], got %+v", got)
	}
}

func TestSimilar(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"coastaladventures", "adventures", true},
		{"adventures", "coastaladventures", true},
		{"nightlife", "cuisine", false},
		{"", "overview", true},
		{"overview", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		if got := similar(tt.a, tt.b); got != tt.want {
			t.Errorf("similar(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSelect_CustomLimits(t *testing.T) {
	in := []doctree.RankedSection{
		ranked("a.pdf", "One", 3), ranked("a.pdf", "Two", 2), ranked("b.pdf", "Three", 1),
	}
	got := Select(in, Config{TopK: 2, PerDocument: 1})
	if len(got) != 2 || got[0].Title != "One" || got[1].Title != "Three" {
		t.Errorf("unexpected selection %+v", got)
	}
}

func TestSelect_Empty(t *testing.T) {
	if got := Select(nil, DefaultConfig()); len(got) != 0 {
		t.Errorf("expected empty selection, got %d", len(got))
	}
}
