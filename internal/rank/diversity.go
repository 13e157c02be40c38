package rank

import (
	"strings"
	"unicode"

	"github.com/dgallion1/outliner/internal/doctree"
)

// Select greedily takes the best sections, skipping titles similar to one
// already taken and capping each document's share. ranked must already be
// sorted by descending score.
func Select(ranked []doctree.RankedSection, cfg Config) []doctree.RankedSection {
	cfg = cfg.withDefaults()

	var (
		selected []doctree.RankedSection
		titles   []string
		perDoc   = make(map[string]int)
	)
	for _, s := range ranked {
		if len(selected) >= cfg.TopK {
			break
		}
		key := titleKey(s.Title)
		if similarToAny(key, titles) {
			continue
		}
		if perDoc[s.Document] >= cfg.PerDocument {
			continue
		}
		selected = append(selected, s)
		titles = append(titles, key)
		perDoc[s.Document]++
	}
	return selected
}

// titleKey keeps only letters and digits, case-folded.
func titleKey(title string) string {
	out := make([]rune, 0, len(title))
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}

func similarToAny(key string, seen []string) bool {
	for _, s := range seen {
		if similar(key, s) {
			return true
		}
	}
	return false
}

// similar reports whether either key contains the other. An empty key is
// contained in every key.
func similar(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
