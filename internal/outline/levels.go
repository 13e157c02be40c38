package outline

import (
	"fmt"
	"sort"

	"github.com/dgallion1/outliner/internal/doctree"
)

// LevelMap maps a heading font size to its 1-based rank.
type LevelMap map[int]int

// AssignLevels ranks the distinct candidate sizes, largest first, keeping at
// most maxLevels of them.
func AssignLevels(candidates []doctree.Block, maxLevels int) LevelMap {
	seen := make(map[int]struct{})
	var sizes []int
	for _, b := range candidates {
		if _, ok := seen[b.FontSize]; ok {
			continue
		}
		seen[b.FontSize] = struct{}{}
		sizes = append(sizes, b.FontSize)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	if len(sizes) > maxLevels {
		sizes = sizes[:maxLevels]
	}

	levels := make(LevelMap, len(sizes))
	for i, size := range sizes {
		levels[size] = i + 1
	}
	return levels
}

// Level returns the rank for size, or false when the size is too small to be
// a structural heading.
func (m LevelMap) Level(size int) (int, bool) {
	l, ok := m[size]
	return l, ok
}

// LevelLabel renders a rank as "H1", "H2", ...
func LevelLabel(level int) string {
	return fmt.Sprintf("H%d", level)
}

// IndentState tracks the last accepted heading during the reading-order scan.
type IndentState struct {
	LastIndent float64
	LastLevel  int
	Seen       bool
}

// Step folds one candidate into the state. A candidate indented more than
// margin past the previous heading is rejected unless it ranks higher.
func (s IndentState) Step(indent float64, level int, margin float64) (IndentState, bool) {
	if s.Seen && indent > s.LastIndent+margin && level >= s.LastLevel {
		return s, false
	}
	return IndentState{LastIndent: indent, LastLevel: level, Seen: true}, true
}
