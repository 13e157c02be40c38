package outline

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/dgallion1/outliner/internal/doctree"
	"golang.org/x/text/unicode/norm"
)

// Source yields the positioned lines of a paginated document.
type Source interface {
	PageCount() int
	PageLines(page int) []doctree.Line
}

// CleanText folds compatibility characters, replaces control characters with
// spaces and collapses whitespace.
func CleanText(s string) string {
	s = norm.NFKC.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// Normalize converts every page's lines into blocks sorted in reading order.
func Normalize(src Source, cfg Config) []doctree.Block {
	var blocks []doctree.Block
	for page := 1; page <= src.PageCount(); page++ {
		for _, line := range src.PageLines(page) {
			b, ok := normalizeLine(line, page, cfg)
			if ok {
				blocks = append(blocks, b)
			}
		}
	}
	sortReadingOrder(blocks)
	return blocks
}

func normalizeLine(line doctree.Line, page int, cfg Config) (doctree.Block, bool) {
	if len(line.Spans) == 0 {
		return doctree.Block{}, false
	}
	text := CleanText(line.Text())
	if text == "" || isPageNumber(text) {
		return doctree.Block{}, false
	}
	if cfg.TruncateAtColon {
		text = truncateAtColon(text)
		if text == "" {
			return doctree.Block{}, false
		}
	}

	first := line.Spans[0]
	size := first.FontSize
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
		return doctree.Block{}, false
	}

	return doctree.Block{
		Text:     text,
		FontSize: int(math.Round(size)),
		Bold:     first.Bold,
		Box:      line.Box,
		Page:     page,
	}, true
}

// isPageNumber matches short all-digit lines such as folio numbers.
func isPageNumber(text string) bool {
	if len(text) >= 4 {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// truncateAtColon keeps a short label before the first colon.
func truncateAtColon(text string) string {
	idx := strings.Index(text, ":")
	if idx < 0 {
		return text
	}
	label := text[:idx]
	if len(strings.Fields(label)) >= 7 {
		return text
	}
	return strings.TrimSpace(label)
}

func sortReadingOrder(blocks []doctree.Block) {
	sort.SliceStable(blocks, func(i, j int) bool {
		a, b := blocks[i], blocks[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if a.Box.Y0 != b.Box.Y0 {
			return a.Box.Y0 < b.Box.Y0
		}
		return a.Box.X0 < b.Box.X0
	})
}
