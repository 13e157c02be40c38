package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/outliner/internal/doctree"
)

// TextParser handles plain text files. Every line is body text, blank lines
// separate paragraphs and a form feed starts a new page.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	out := newLayout(filename)
	for scanner.Scan() {
		raw := scanner.Text()
		parts := strings.Split(raw, "\f")
		for i, part := range parts {
			if i > 0 {
				out.breakPage()
			}
			if strings.TrimSpace(part) == "" {
				if len(parts) == 1 {
					out.gap(paragraphGap)
				}
				continue
			}
			for _, row := range wrap(part, wrapRunes) {
				out.line(row, bodySize, false, leadingIndent(part))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out.finish(), nil
}

// leadingIndent approximates indentation from leading whitespace, with tabs
// counting as four columns.
func leadingIndent(s string) float64 {
	cols := 0
	for _, r := range s {
		switch r {
		case ' ':
			cols++
		case '\t':
			cols += 4
		default:
			return float64(cols) * bodySize * 0.5
		}
	}
	return 0
}
