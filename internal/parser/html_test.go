package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_TitleHeadingsAndBody(t *testing.T) {
	input := `<html><head><title>Guide</title><style>p{}</style></head>
<body>
<nav>Menu</nav>
<h1>Welcome</h1>
<p>Some <b>intro</b> text.</p>
<h2>Details</h2>
<ul><li>one<ul><li>nested</li></ul></li><li>two</li></ul>
<script>var x;</script>
</body></html>`
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "guide.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := lineTexts(doc.Pages[0])
	want := []string{"Guide", "Welcome", "Some intro text.", "Details", "one", "nested", "two"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}

	lines := doc.Pages[0].Lines
	if lines[3].Spans[0].FontSize != 20 || !lines[3].Spans[0].Bold {
		t.Errorf("expected h2 at size 20 bold, got %+v", lines[3].Spans[0])
	}
	if lines[5].Box.X0 <= lines[4].Box.X0 {
		t.Error("expected nested list item indented further")
	}
}

func TestHTMLParser_HorizontalRuleStartsPage(t *testing.T) {
	p := &HTMLParser{}
	doc, _ := p.Parse(strings.NewReader("<p>a</p><hr><p>b</p>"), "x.html")
	if doc.PageCount() != 2 {
		t.Fatalf("expected 2 pages, got %d", doc.PageCount())
	}
}

func TestStyleLevel(t *testing.T) {
	tests := map[string]int{"heading1": 1, "Heading 3": 3, "Title": 1, "Normal": 0, "Heading10": 0, "Heading7": 0}
	for style, want := range tests {
		if got := styleLevel(style); got != want {
			t.Errorf("style %q: expected %d, got %d", style, want, got)
		}
	}
}
