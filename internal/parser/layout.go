package parser

import (
	"strings"

	"github.com/dgallion1/outliner/internal/doctree"
)

// Synthetic page geometry for formats without physical layout. Sizes are in
// points on a US Letter page.
const (
	pageWidth    = 612.0
	pageHeight   = 792.0
	pageMargin   = 72.0
	bodySize     = 11.0
	lineSpacing  = 1.4
	paragraphGap = 6.0
	listIndent   = 18.0
	wrapRunes    = 90
)

// headingSizes maps heading depth 1..6 to a font size, largest first.
var headingSizes = [...]float64{24, 20, 16, 14, 13, 12}

func headingSize(level int) float64 {
	if level < 1 {
		level = 1
	}
	if level > len(headingSizes) {
		level = len(headingSizes)
	}
	return headingSizes[level-1]
}

// layout places lines top to bottom on synthetic pages, starting a new page
// when the current one is full.
type layout struct {
	doc  *doctree.Document
	page *doctree.Page
	y    float64
}

func newLayout(name string) *layout {
	l := &layout{doc: &doctree.Document{Name: name}}
	l.newPage()
	return l
}

func (l *layout) newPage() {
	l.page = &doctree.Page{Number: len(l.doc.Pages) + 1, Width: pageWidth, Height: pageHeight}
	l.doc.Pages = append(l.doc.Pages, l.page)
	l.y = pageMargin
}

// breakPage starts a new page unless the current one is still empty.
func (l *layout) breakPage() {
	if len(l.page.Lines) > 0 {
		l.newPage()
	}
}

// heading adds a bold heading line at the size for level.
func (l *layout) heading(text string, level int) {
	l.gap(paragraphGap)
	l.line(text, headingSize(level), true, 0)
}

// paragraph wraps text into body-size lines.
func (l *layout) paragraph(text string, indent float64) {
	for _, row := range wrap(text, wrapRunes) {
		l.line(row, bodySize, false, indent)
	}
	l.gap(paragraphGap)
}

func (l *layout) gap(h float64) {
	if len(l.page.Lines) > 0 {
		l.y += h
	}
}

func (l *layout) line(text string, size float64, bold bool, indent float64) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	height := size * lineSpacing
	if l.y+height > pageHeight-pageMargin && len(l.page.Lines) > 0 {
		l.newPage()
	}
	x0 := pageMargin + indent
	box := doctree.BBox{X0: x0, Y0: l.y, X1: pageWidth - pageMargin, Y1: l.y + size}
	l.page.Lines = append(l.page.Lines, doctree.Line{
		Spans: []doctree.Span{{Text: text, FontSize: size, Bold: bold, Box: box}},
		Box:   box,
	})
	l.y += height
}

// finish drops a trailing empty page and returns the document.
func (l *layout) finish() *doctree.Document {
	if n := len(l.doc.Pages); n > 1 && len(l.doc.Pages[n-1].Lines) == 0 {
		l.doc.Pages = l.doc.Pages[:n-1]
	}
	return l.doc
}

// wrap splits text into rows of at most width runes, breaking on spaces.
func wrap(text string, width int) []string {
	var rows []string
	var cur strings.Builder
	n := 0
	for _, w := range strings.Fields(text) {
		wl := len([]rune(w))
		if n > 0 && n+1+wl > width {
			rows = append(rows, cur.String())
			cur.Reset()
			n = 0
		}
		if n > 0 {
			cur.WriteByte(' ')
			n++
		}
		cur.WriteString(w)
		n += wl
	}
	if n > 0 {
		rows = append(rows, cur.String())
	}
	return rows
}
