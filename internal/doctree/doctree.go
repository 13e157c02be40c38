package doctree

import (
	"sort"
	"strings"
)

// BBox is a rectangle in page coordinates. Y grows downward from the top of the page.
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Span is a run of text sharing one font, as reported by a parser.
type Span struct {
	Text     string
	FontSize float64
	Bold     bool
	Box      BBox
}

// Line is one visual line of a page made of one or more spans.
type Line struct {
	Spans []Span
	Box   BBox
}

// Page holds the lines of a single page in reading order.
type Page struct {
	Number int // 1-based
	Width  float64
	Height float64
	Lines  []Line
}

// Document is a parsed, paginated document.
type Document struct {
	Name  string
	Pages []*Page
}

// Block is one normalized line of text used by outline extraction.
type Block struct {
	Text     string
	FontSize int // Rounded
	Bold     bool
	Box      BBox
	Page     int
}

// Heading is one entry of a document outline.
type Heading struct {
	Level string `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
	Box   BBox   `json:"-"`
}

// Outline is the extracted structure of one document.
type Outline struct {
	Title    string    `json:"title"`
	Headings []Heading `json:"outline"`
}

// Section is the body text between one heading and the next boundary.
type Section struct {
	Document string
	Page     int
	Title    string
	Text     string
}

// RankedSection is a Section with its relevance score.
type RankedSection struct {
	Section
	Score float64
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// page returns the 1-based page n, or nil.
func (d *Document) page(n int) *Page {
	if n < 1 || n > len(d.Pages) {
		return nil
	}
	return d.Pages[n-1]
}

// PageLines returns the lines of page n (1-based).
func (d *Document) PageLines(n int) []Line {
	p := d.page(n)
	if p == nil {
		return nil
	}
	return p.Lines
}

// PageBounds returns the full rectangle of page n.
func (d *Document) PageBounds(n int) (BBox, bool) {
	p := d.page(n)
	if p == nil {
		return BBox{}, false
	}
	return BBox{X0: 0, Y0: 0, X1: p.Width, Y1: p.Height}, true
}

// RawText returns the text of every line on page n whose top edge falls within
// [clip.Y0, clip.Y1) and which overlaps clip horizontally. Lines are returned
// top to bottom, one per output line.
func (d *Document) RawText(n int, clip BBox) string {
	p := d.page(n)
	if p == nil {
		return ""
	}

	var lines []Line
	for _, l := range p.Lines {
		if l.Box.Y0 < clip.Y0 || l.Box.Y0 >= clip.Y1 {
			continue
		}
		if l.Box.X1 < clip.X0 || l.Box.X0 > clip.X1 {
			continue
		}
		lines = append(lines, l)
	}
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Box.Y0 != lines[j].Box.Y0 {
			return lines[i].Box.Y0 < lines[j].Box.Y0
		}
		return lines[i].Box.X0 < lines[j].Box.X0
	})

	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(l.Text())
	}
	return sb.String()
}

// Text joins the line's spans with single spaces.
func (l Line) Text() string {
	parts := make([]string, 0, len(l.Spans))
	for _, s := range l.Spans {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}
