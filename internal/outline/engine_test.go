package outline

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/dgallion1/outliner/internal/doctree"
)

func line(text string, size float64, bold bool, x, y float64) doctree.Line {
	return doctree.Line{
		Spans: []doctree.Span{{Text: text, FontSize: size, Bold: bold}},
		Box:   doctree.BBox{X0: x, Y0: y, X1: x + 300, Y1: y + size},
	}
}

func body(prefix string, n int, startY float64) []doctree.Line {
	var lines []doctree.Line
	for i := 0; i < n; i++ {
		lines = append(lines, line(fmt.Sprintf("%s body sentence number %d continues here", prefix, i), 11, false, 72, startY+float64(i)*14))
	}
	return lines
}

func document(pages ...[]doctree.Line) *doctree.Document {
	doc := &doctree.Document{Name: "test.pdf"}
	for i, lines := range pages {
		doc.Pages = append(doc.Pages, &doctree.Page{Number: i + 1, Width: 612, Height: 792, Lines: lines})
	}
	return doc
}

func concat(groups ...[]doctree.Line) []doctree.Line {
	var out []doctree.Line
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func TestExtract_AnnualReportScenario(t *testing.T) {
	doc := document(
		concat([]doctree.Line{line("Annual Report 2024", 24, true, 72, 40)}, body("Cover", 4, 120)),
		concat([]doctree.Line{line("1. Introduction", 14, true, 72, 60)}, body("Intro", 6, 90)),
	)

	out := NewEngine(DefaultConfig()).Extract(doc)

	if out.Title != "Annual Report 2024" {
		t.Errorf("expected title %q, got %q", "Annual Report 2024", out.Title)
	}
	if len(out.Headings) != 1 {
		t.Fatalf("expected 1 heading, got %d: %+v", len(out.Headings), out.Headings)
	}
	h := out.Headings[0]
	if h.Level != "H1" || h.Text != "1. Introduction" || h.Page != 2 {
		t.Errorf("expected {H1 1. Introduction 2}, got {%s %s %d}", h.Level, h.Text, h.Page)
	}
}

func TestExtract_EmptyDocument(t *testing.T) {
	out := NewEngine(DefaultConfig()).Extract(document([]doctree.Line{}))
	if out.Title != NoTextTitle {
		t.Errorf("expected sentinel title, got %q", out.Title)
	}
	if out.Headings == nil {
		t.Error("expected non-nil empty outline")
	}
	if len(out.Headings) != 0 {
		t.Errorf("expected 0 headings, got %d", len(out.Headings))
	}
}

func TestExtract_OnlyPageNumbers(t *testing.T) {
	doc := document([]doctree.Line{line("1", 10, false, 300, 760)}, []doctree.Line{line("2", 10, false, 300, 760)})
	out := NewEngine(DefaultConfig()).Extract(doc)
	if out.Title != NoTextTitle {
		t.Errorf("expected sentinel title for page-number-only document, got %q", out.Title)
	}
}

func TestExtract_RepeatingHeaderIsTitleAndNeverHeading(t *testing.T) {
	header := "Acme Employee Handbook"
	var pages [][]doctree.Line
	for p := 1; p <= 3; p++ {
		pages = append(pages, concat(
			[]doctree.Line{line(header, 16, true, 72, 20)},
			[]doctree.Line{line("Section "+strconv.Itoa(p)+" Overview", 16, true, 72, 60)},
			body("Page"+strconv.Itoa(p), 5, 100),
		))
	}

	out := NewEngine(DefaultConfig()).Extract(document(pages...))

	if out.Title != header {
		t.Errorf("expected title %q, got %q", header, out.Title)
	}
	if len(out.Headings) != 3 {
		t.Fatalf("expected 3 headings, got %d: %+v", len(out.Headings), out.Headings)
	}
	for _, h := range out.Headings {
		if h.Text == header {
			t.Errorf("running header %q leaked into outline", header)
		}
	}
}

func TestExtract_TableOfContentsPage(t *testing.T) {
	doc := document(
		concat([]doctree.Line{line("Project Guide", 20, true, 72, 50)}, body("Cover", 3, 100)),
		[]doctree.Line{
			line("Table of Contents", 16, true, 72, 50),
			line("1. Introduction ..... 3", 11, false, 72, 80),
			line("2. Background ..... 4", 11, false, 72, 94),
		},
		concat([]doctree.Line{line("1. Introduction", 16, true, 72, 50)}, body("Intro", 5, 80)),
	)

	out := NewEngine(DefaultConfig()).Extract(doc)

	want := []doctree.Heading{
		{Level: "H1", Text: "Table of Contents", Page: 2},
		{Level: "H1", Text: "1. Introduction", Page: 3},
	}
	if len(out.Headings) != len(want) {
		t.Fatalf("expected %d headings, got %d: %+v", len(want), len(out.Headings), out.Headings)
	}
	for i, w := range want {
		got := out.Headings[i]
		if got.Level != w.Level || got.Text != w.Text || got.Page != w.Page {
			t.Errorf("heading[%d]: expected %+v, got %+v", i, w, got)
		}
	}
}

func TestExtract_LevelsFollowFontSize(t *testing.T) {
	doc := document(concat(
		[]doctree.Line{
			line("Main Title", 28, true, 72, 40),
			line("Overview", 20, true, 72, 100),
		},
		body("A", 5, 130),
		[]doctree.Line{line("Details", 16, true, 72, 220)},
		body("B", 5, 250),
		[]doctree.Line{line("Fine Print", 14, true, 72, 340)},
		body("C", 5, 370),
	))

	out := NewEngine(DefaultConfig()).Extract(doc)

	want := map[string]string{"Overview": "H1", "Details": "H2", "Fine Print": "H3"}
	if len(out.Headings) != len(want) {
		t.Fatalf("expected %d headings, got %d: %+v", len(want), len(out.Headings), out.Headings)
	}
	for _, h := range out.Headings {
		if want[h.Text] != h.Level {
			t.Errorf("heading %q: expected level %s, got %s", h.Text, want[h.Text], h.Level)
		}
	}
}

func TestExtract_LevelsMonotonicInFontSize(t *testing.T) {
	sizes := []float64{30, 22, 18, 16, 15, 14, 13, 12}
	lines := []doctree.Line{line("Document Title", 36, true, 72, 20)}
	y := 60.0
	for i, s := range sizes {
		lines = append(lines, line(fmt.Sprintf("Heading Size %d", i), s, true, 72, y))
		lines = append(lines, body(fmt.Sprintf("S%d", i), 3, y+30)...)
		y += 80
	}
	doc := document(lines)

	out := NewEngine(DefaultConfig()).Extract(doc)

	if len(out.Headings) != 5 {
		t.Fatalf("expected 5 headings (top 5 sizes), got %d", len(out.Headings))
	}
	sizeOf := make(map[string]float64)
	for i, s := range sizes {
		sizeOf[fmt.Sprintf("Heading Size %d", i)] = s
	}
	for _, a := range out.Headings {
		for _, b := range out.Headings {
			la, _ := strconv.Atoi(a.Level[1:])
			lb, _ := strconv.Atoi(b.Level[1:])
			if sizeOf[a.Text] > sizeOf[b.Text] && la > lb {
				t.Errorf("%q (size %.0f) got %s but smaller %q got %s", a.Text, sizeOf[a.Text], a.Level, b.Text, b.Level)
			}
		}
	}
}

func TestExtract_MaxHeadingLevelsConfigurable(t *testing.T) {
	doc := document(concat(
		[]doctree.Line{
			line("Big Title", 30, true, 72, 20),
			line("Alpha", 20, true, 72, 60),
			line("Beta", 18, true, 72, 80),
			line("Gamma", 16, true, 72, 100),
		},
		body("X", 8, 130),
	))

	cfg := DefaultConfig()
	cfg.MaxHeadingLevels = 2
	out := NewEngine(cfg).Extract(doc)

	if len(out.Headings) != 2 {
		t.Fatalf("expected 2 headings, got %d: %+v", len(out.Headings), out.Headings)
	}
	for _, h := range out.Headings {
		if h.Text == "Gamma" {
			t.Error("expected size outside top levels to be dropped")
		}
	}
}

func TestExtract_IndentationContinuity(t *testing.T) {
	doc := document(concat(
		[]doctree.Line{
			line("Report Title", 30, true, 72, 20),
			line("Overview", 20, true, 72, 60),
			line("Indented Large Line", 20, true, 110, 80),
			line("Indented Smaller Line", 16, true, 110, 100),
			line("Aligned Subsection", 16, true, 75, 120),
		},
		body("X", 8, 150),
	))

	out := NewEngine(DefaultConfig()).Extract(doc)

	var got []string
	for _, h := range out.Headings {
		got = append(got, h.Text)
	}
	want := []string{"Overview", "Aligned Subsection"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("heading[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestExtract_OutlineSortedByPageThenPosition(t *testing.T) {
	doc := document(
		concat([]doctree.Line{line("Title Page", 30, true, 72, 20)}, body("P1", 4, 100)),
		concat(
			body("P2", 4, 40),
			[]doctree.Line{
				line("Later Heading", 18, true, 72, 400),
				line("Earlier Heading", 18, true, 72, 200),
			},
		),
	)

	out := NewEngine(DefaultConfig()).Extract(doc)

	if len(out.Headings) != 2 {
		t.Fatalf("expected 2 headings, got %d", len(out.Headings))
	}
	if out.Headings[0].Text != "Earlier Heading" {
		t.Errorf("expected Earlier Heading first, got %q", out.Headings[0].Text)
	}
}

func TestExtract_ColonLabelPromotion(t *testing.T) {
	doc := document(concat(
		[]doctree.Line{
			line("Course Outline", 28, true, 72, 20),
			line("Overview", 20, true, 72, 60),
			line("Aims", 16, true, 72, 90),
			line("Goals:", 11, true, 72, 120),
		},
		body("X", 8, 150),
	))

	cfg := DefaultConfig()
	cfg.ForceColonLevel = true
	out := NewEngine(cfg).Extract(doc)

	var goals *doctree.Heading
	for i := range out.Headings {
		if out.Headings[i].Text == "Goals:" {
			goals = &out.Headings[i]
		}
	}
	if goals == nil {
		t.Fatalf("expected Goals: in outline, got %+v", out.Headings)
	}
	if goals.Level != "H2" {
		t.Errorf("expected promoted level H2, got %s", goals.Level)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	doc := document(
		concat([]doctree.Line{line("Annual Report 2024", 24, true, 72, 40)}, body("Cover", 4, 120)),
		concat([]doctree.Line{line("1. Introduction", 14, true, 72, 60)}, body("Intro", 6, 90)),
	)
	e := NewEngine(DefaultConfig())
	first := e.Extract(doc)
	for i := 0; i < 5; i++ {
		again := e.Extract(doc)
		if fmt.Sprint(again) != fmt.Sprint(first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}
