package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingSizes(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

- first item
- second item
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := doc.Pages[0].Lines
	want := []struct {
		text string
		size float64
		bold bool
	}{
		{"Title", 24, true},
		{"Intro text.", bodySize, false},
		{"Section A", 20, true},
		{"Section A content.", bodySize, false},
		{"Subsection A1", 16, true},
		{"first item", bodySize, false},
		{"second item", bodySize, false},
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %v", len(want), len(lines), lineTexts(doc.Pages[0]))
	}
	for i, w := range want {
		s := lines[i].Spans[0]
		if s.Text != w.text || s.FontSize != w.size || s.Bold != w.bold {
			t.Errorf("line[%d]: expected %+v, got {%s %v %v}", i, w, s.Text, s.FontSize, s.Bold)
		}
	}
	if lines[5].Box.X0 <= lines[3].Box.X0 {
		t.Error("expected list items to be indented")
	}
	for i := 1; i < len(lines); i++ {
		if lines[i].Box.Y0 <= lines[i-1].Box.Y0 {
			t.Errorf("line %d not below line %d", i, i-1)
		}
	}
}

func TestMarkdownParser_ThematicBreakStartsPage(t *testing.T) {
	input := "# One\n\ntext\n\n---\n\n# Two\n\nmore text\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.PageCount() != 2 {
		t.Fatalf("expected 2 pages, got %d", doc.PageCount())
	}
	if got := doc.Pages[1].Lines[0].Text(); got != "Two" {
		t.Errorf("expected page 2 to start with Two, got %q", got)
	}
}

func TestMarkdownParser_InlineFormattingFlattened(t *testing.T) {
	p := &MarkdownParser{}
	doc, _ := p.Parse(strings.NewReader("Hello **bold** and *em* [link](http://x)."), "doc.md")
	if got := doc.Pages[0].Lines[0].Text(); got != "Hello bold and em link." {
		t.Errorf("expected flattened text, got %q", got)
	}
}

func TestMarkdownParser_NestedList(t *testing.T) {
	input := "- outer\n  - inner\n"
	p := &MarkdownParser{}
	doc, _ := p.Parse(strings.NewReader(input), "doc.md")
	lines := doc.Pages[0].Lines
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %v", lineTexts(doc.Pages[0]))
	}
	if lines[1].Box.X0 <= lines[0].Box.X0 {
		t.Error("expected nested item indented further")
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Pages[0].Lines) != 0 {
		t.Errorf("expected no lines, got %d", len(doc.Pages[0].Lines))
	}
}
