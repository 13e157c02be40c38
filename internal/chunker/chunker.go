package chunker

import (
	"strings"
	"unicode"

	"github.com/dgallion1/outliner/internal/doctree"
)

// Config controls section cutting.
type Config struct {
	Margin   float64 `yaml:"margin"`    // Points above the heading included in the clip.
	MinWords int     `yaml:"min_words"` // Sections with fewer words are dropped.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Margin:   5,
		MinWords: 30,
	}
}

// TextSource is the page-text view of a parsed document.
type TextSource interface {
	PageBounds(page int) (doctree.BBox, bool)
	RawText(page int, clip doctree.BBox) string
}

// Chunk cuts one section per heading. A section starts just above its heading
// and ends at the next heading on the same page, or at the bottom of the page.
func Chunk(docName string, outline doctree.Outline, src TextSource, cfg Config) []doctree.Section {
	if cfg.Margin <= 0 {
		cfg.Margin = 5
	}
	if cfg.MinWords <= 0 {
		cfg.MinWords = 30
	}

	headings := outline.Headings
	var sections []doctree.Section

	for i, h := range headings {
		bounds, ok := src.PageBounds(h.Page)
		if !ok {
			continue
		}

		clip := doctree.BBox{
			X0: 0,
			Y0: max(h.Box.Y0-cfg.Margin, 0),
			X1: bounds.X1,
			Y1: bounds.Y1,
		}
		if next, ok := nextOnPage(headings, i); ok {
			clip.Y1 = next.Box.Y0
		}

		text := cleanText(src.RawText(h.Page, clip))
		if WordCount(text) < cfg.MinWords {
			continue
		}
		sections = append(sections, doctree.Section{
			Document: docName,
			Page:     h.Page,
			Title:    h.Text,
			Text:     text,
		})
	}

	return sections
}

// nextOnPage returns the first heading after i that shares its page.
func nextOnPage(headings []doctree.Heading, i int) (doctree.Heading, bool) {
	for j := i + 1; j < len(headings); j++ {
		if headings[j].Page == headings[i].Page {
			return headings[j], true
		}
	}
	return doctree.Heading{}, false
}

// cleanText replaces control characters with spaces and collapses whitespace.
func cleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
