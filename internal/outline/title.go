package outline

import (
	"math"

	"github.com/dgallion1/outliner/internal/doctree"
)

// NoTextTitle is reported for documents without any recoverable text.
const NoTextTitle = "Error: No text found"

// TitleInfo is the resolved title and what it excludes from heading detection.
type TitleInfo struct {
	Title    string
	Box      *doctree.BBox
	Excluded map[string]struct{}
}

// IsExcluded reports whether b is the title block or a running header/footer.
func (t TitleInfo) IsExcluded(b doctree.Block) bool {
	if t.Box != nil && b.Box == *t.Box {
		return true
	}
	_, ok := t.Excluded[CleanText(b.Text)]
	return ok
}

// ResolveTitle picks the document title from a repeating header or, failing
// that, from the most prominent block on page 1.
func ResolveTitle(blocks []doctree.Block, pageCount int, cfg Config) TitleInfo {
	info := TitleInfo{Excluded: make(map[string]struct{})}

	if pageCount > 1 {
		if title, excluded, ok := repeatingHeader(blocks, pageCount, cfg.HeaderPolicy); ok {
			info.Title = title
			for _, text := range excluded {
				info.Excluded[CleanText(text)] = struct{}{}
			}
			return info
		}
	}

	best := math.Inf(-1)
	for _, b := range blocks {
		if b.Page != 1 {
			continue
		}
		score := 1000/(b.Box.Y0+1) + float64(b.FontSize)
		if score > best {
			best = score
			box := b.Box
			info.Title = b.Text
			info.Box = &box
		}
	}
	return info
}

// repeatingHeader returns the most frequent repeating text and the texts to
// exclude under the given policy.
func repeatingHeader(blocks []doctree.Block, pageCount int, policy HeaderPolicy) (string, []string, bool) {
	counts := make(map[string]int)
	var order []string
	for _, b := range blocks {
		key := CleanText(b.Text)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	qualifies := func(n int) bool {
		if policy == HeaderMajority {
			return float64(n) > float64(pageCount)*0.5
		}
		return n >= 2
	}

	var (
		title     string
		bestCount int
		matched   []string
	)
	for _, text := range order {
		n := counts[text]
		if !qualifies(n) {
			continue
		}
		matched = append(matched, text)
		if n > bestCount {
			bestCount = n
			title = text
		}
	}
	if len(matched) == 0 {
		return "", nil, false
	}
	if policy == HeaderMajority {
		return title, matched, true
	}
	return title, []string{title}, true
}
