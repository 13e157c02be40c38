package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/dgallion1/outliner/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// Row grouping and span merging thresholds, in points or multiples of the
// font size.
const (
	rowTolerance   = 3.0
	wordGapFactor  = 0.3
	splitGapFactor = 4.0
)

var boldMarkers = []string{"bold", "black", "heavy", "semibold", "demi"}

// PDFParser handles PDF files. It reads glyph runs with positions and fonts
// from the Go library and falls back to pdftotext if enabled.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "outliner-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	doc, err := extractPDFLayout(tmpPath, filename)
	if err != nil && p.FallbackPdftotext {
		doc, err = extractPdftotext(tmpPath, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	return doc, nil
}

func extractPDFLayout(path, name string) (doc *doctree.Document, err error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// The library panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("read pdf content: %v", r)
		}
	}()

	doc = &doctree.Document{Name: name}
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		out := &doctree.Page{Number: i, Width: letterBox.X1, Height: letterBox.Y1}
		doc.Pages = append(doc.Pages, out)
		if page.V.IsNull() {
			continue
		}
		box, ok := mediaBox(page)
		if !ok {
			box = letterBox
		}
		out.Width, out.Height = box.X1-box.X0, box.Y1-box.Y0
		out.Lines = pageLines(page.Content().Text, box)
	}
	if len(doc.Pages) == 0 {
		return nil, errors.New("pdf has no pages")
	}
	return doc, nil
}

// letterBox is assumed when no MediaBox can be found.
var letterBox = doctree.BBox{X1: 612, Y1: 792}

// maxPageTreeDepth bounds the Parent walk on malformed page trees.
const maxPageTreeDepth = 32

// mediaBox returns the page's MediaBox in PDF space, inherited from the
// nearest ancestor in the page tree when the page itself has none. Corners
// are normalized so X0 < X1 and Y0 < Y1.
func mediaBox(page pdflib.Page) (doctree.BBox, bool) {
	v := page.V
	for range maxPageTreeDepth {
		if v.IsNull() {
			break
		}
		if box := v.Key("MediaBox"); !box.IsNull() {
			return parseBox(box)
		}
		v = v.Key("Parent")
	}
	return doctree.BBox{}, false
}

func parseBox(box pdflib.Value) (doctree.BBox, bool) {
	if box.Kind() != pdflib.Array || box.Len() < 4 {
		return doctree.BBox{}, false
	}
	x0, y0 := box.Index(0).Float64(), box.Index(1).Float64()
	x1, y1 := box.Index(2).Float64(), box.Index(3).Float64()
	b := doctree.BBox{X0: math.Min(x0, x1), Y0: math.Min(y0, y1), X1: math.Max(x0, x1), Y1: math.Max(y0, y1)}
	if b.X1-b.X0 <= 0 || b.Y1-b.Y0 <= 0 {
		return doctree.BBox{}, false
	}
	return b, true
}

// pageLines groups glyph runs into rows by baseline, orders rows top to
// bottom and splits each row into lines at wide horizontal gaps. Coordinates
// are made relative to the MediaBox's upper-left corner, with Y growing
// downward.
func pageLines(texts []pdflib.Text, media doctree.BBox) []doctree.Line {
	var lines []doctree.Line
	for _, row := range groupIntoRows(texts) {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		for _, seg := range splitRow(row) {
			if l, ok := buildLine(seg, media); ok {
				lines = append(lines, l)
			}
		}
	}
	return lines
}

type rowBucket struct {
	yMin, yMax float64
	texts      []pdflib.Text
}

func groupIntoRows(texts []pdflib.Text) [][]pdflib.Text {
	var buckets []rowBucket
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		found := false
		for i := range buckets {
			if t.Y >= buckets[i].yMin-rowTolerance && t.Y <= buckets[i].yMax+rowTolerance {
				buckets[i].texts = append(buckets[i].texts, t)
				buckets[i].yMin = math.Min(buckets[i].yMin, t.Y)
				buckets[i].yMax = math.Max(buckets[i].yMax, t.Y)
				found = true
				break
			}
		}
		if !found {
			buckets = append(buckets, rowBucket{yMin: t.Y, yMax: t.Y, texts: []pdflib.Text{t}})
		}
	}

	// PDF space has Y growing upward, so the top row has the largest Y.
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].yMax > buckets[j].yMax
	})
	rows := make([][]pdflib.Text, len(buckets))
	for i, b := range buckets {
		rows[i] = b.texts
	}
	return rows
}

// splitRow cuts an X-sorted row where the gap exceeds a few font sizes, so
// side-by-side columns become separate lines.
func splitRow(row []pdflib.Text) [][]pdflib.Text {
	var out [][]pdflib.Text
	start := 0
	for i := 1; i < len(row); i++ {
		prev := row[i-1]
		gap := row[i].X - (prev.X + prev.W)
		if gap > splitGapFactor*math.Max(prev.FontSize, 1) {
			out = append(out, row[start:i])
			start = i
		}
	}
	return append(out, row[start:])
}

// buildLine merges glyph runs into spans, starting a new span on a font or
// size change and inserting spaces at word gaps.
func buildLine(row []pdflib.Text, media doctree.BBox) (doctree.Line, bool) {
	var (
		spans []doctree.Span
		cur   *doctree.Span
		sb    strings.Builder
		box   = doctree.BBox{X0: math.Inf(1), Y0: math.Inf(1), X1: math.Inf(-1), Y1: math.Inf(-1)}
		font  string
		lastX float64
	)
	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = strings.TrimSpace(sb.String())
		if cur.Text != "" {
			spans = append(spans, *cur)
		}
		sb.Reset()
		cur = nil
	}

	for _, t := range row {
		x := t.X - media.X0
		glyph := doctree.BBox{X0: x, Y0: media.Y1 - (t.Y + t.FontSize), X1: x + t.W, Y1: media.Y1 - t.Y}
		box = union(box, glyph)

		if cur != nil && (t.Font != font || math.Abs(t.FontSize-cur.FontSize) > 0.5) {
			flush()
		}
		if cur == nil {
			cur = &doctree.Span{FontSize: t.FontSize, Bold: isBoldFont(t.Font), Box: glyph}
			font = t.Font
		} else {
			if t.X-lastX > wordGapFactor*t.FontSize && !strings.HasSuffix(sb.String(), " ") {
				sb.WriteByte(' ')
			}
			cur.Box = union(cur.Box, glyph)
		}
		sb.WriteString(t.S)
		lastX = t.X + t.W
	}
	flush()

	if len(spans) == 0 {
		return doctree.Line{}, false
	}
	return doctree.Line{Spans: spans, Box: box}, true
}

func union(a, b doctree.BBox) doctree.BBox {
	return doctree.BBox{
		X0: math.Min(a.X0, b.X0),
		Y0: math.Min(a.Y0, b.Y0),
		X1: math.Max(a.X1, b.X1),
		Y1: math.Max(a.Y1, b.Y1),
	}
}

// isBoldFont infers weight from the font name, e.g. "ABCDEF+Arial-BoldMT".
func isBoldFont(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range boldMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// extractPdftotext lays out pdftotext output as body-size lines, one page
// per form feed.
func extractPdftotext(path, name string) (*doctree.Document, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	raw, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}

	parts := strings.Split(string(raw), "\f")
	// pdftotext ends every page with a form feed.
	if n := len(parts); n > 1 && strings.TrimSpace(parts[n-1]) == "" {
		parts = parts[:n-1]
	}

	doc := &doctree.Document{Name: name}
	for i, text := range parts {
		page := &doctree.Page{Number: i + 1, Width: pageWidth, Height: pageHeight}
		y := pageMargin
		sc := bufio.NewScanner(strings.NewReader(text))
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			line := sc.Text()
			if strings.TrimSpace(line) != "" {
				x := pageMargin + leadingIndent(line)
				box := doctree.BBox{X0: x, Y0: y, X1: pageWidth - pageMargin, Y1: y + bodySize}
				page.Lines = append(page.Lines, doctree.Line{
					Spans: []doctree.Span{{Text: strings.TrimSpace(line), FontSize: bodySize, Box: box}},
					Box:   box,
				})
			}
			y += bodySize * lineSpacing
		}
		page.Height = math.Max(pageHeight, y+pageMargin)
		doc.Pages = append(doc.Pages, page)
	}
	if len(doc.Pages) == 0 {
		return nil, errors.New("pdftotext produced no pages")
	}
	return doc, nil
}
