package outline

import "github.com/dgallion1/outliner/internal/doctree"

// BodySize returns the most common font size. Ties go to the smaller size.
// It returns false when there are no blocks.
func BodySize(blocks []doctree.Block) (int, bool) {
	if len(blocks) == 0 {
		return 0, false
	}
	counts := make(map[int]int)
	for _, b := range blocks {
		counts[b.FontSize]++
	}
	body, best := 0, -1
	for size, n := range counts {
		if n > best || (n == best && size < body) {
			body, best = size, n
		}
	}
	return body, true
}
