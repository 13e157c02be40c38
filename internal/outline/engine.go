// Package outline derives a title and a leveled heading list from the visual
// layout of a paginated document.
//
// Extraction runs as a fixed pipeline over one document: lines are normalized
// into blocks, the title is resolved, the body font size is estimated, blocks
// are classified as heading candidates, candidate sizes are ranked into levels
// and a reading-order scan applies the indentation continuity rule. The result
// is sorted by page and vertical position.
package outline

import (
	"sort"
	"strings"

	"github.com/dgallion1/outliner/internal/doctree"
)

const tocPhrase = "table of contents"

// Engine extracts outlines with a fixed configuration. It is safe for
// concurrent use; each call works on its own blocks.
type Engine struct {
	cfg Config
}

// NewEngine returns an engine using cfg, with zero fields set to defaults.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Extract builds the outline of src. Documents without text produce the
// NoTextTitle sentinel and an empty outline.
func (e *Engine) Extract(src Source) doctree.Outline {
	blocks := Normalize(src, e.cfg)
	if len(blocks) == 0 {
		return doctree.Outline{Title: NoTextTitle, Headings: []doctree.Heading{}}
	}

	title := ResolveTitle(blocks, src.PageCount(), e.cfg)
	headings := []doctree.Heading{}

	work := blocks
	if toc, ok := findTableOfContents(blocks); ok {
		headings = append(headings, doctree.Heading{
			Level: LevelLabel(1),
			Text:  toc.Text,
			Page:  toc.Page,
			Box:   toc.Box,
		})
		work = withoutPage(blocks, toc.Page)
	}

	usable := make([]doctree.Block, 0, len(work))
	for _, b := range work {
		if !title.IsExcluded(b) {
			usable = append(usable, b)
		}
	}

	body, ok := BodySize(usable)
	if !ok {
		sortOutline(headings)
		return doctree.Outline{Title: title.Title, Headings: headings}
	}

	cls := NewClassifier(e.cfg, body, title)
	var candidates []doctree.Block
	for _, b := range usable {
		if cls.Candidate(b) {
			candidates = append(candidates, b)
		}
	}

	levels := AssignLevels(candidates, e.cfg.MaxHeadingLevels)
	var state IndentState
	for _, b := range candidates {
		level, ok := levels.Level(b.FontSize)
		if cls.promoted(b) {
			level, ok = 2, true
		}
		if !ok {
			continue
		}
		next, accepted := state.Step(b.Box.X0, level, e.cfg.IndentMargin)
		if !accepted {
			continue
		}
		state = next
		headings = append(headings, doctree.Heading{
			Level: LevelLabel(level),
			Text:  b.Text,
			Page:  b.Page,
			Box:   b.Box,
		})
	}

	sortOutline(headings)
	return doctree.Outline{Title: title.Title, Headings: headings}
}

func findTableOfContents(blocks []doctree.Block) (doctree.Block, bool) {
	for _, b := range blocks {
		if strings.Contains(strings.ToLower(b.Text), tocPhrase) {
			return b, true
		}
	}
	return doctree.Block{}, false
}

func withoutPage(blocks []doctree.Block, page int) []doctree.Block {
	out := make([]doctree.Block, 0, len(blocks))
	for _, b := range blocks {
		if b.Page != page {
			out = append(out, b)
		}
	}
	return out
}

func sortOutline(headings []doctree.Heading) {
	sort.SliceStable(headings, func(i, j int) bool {
		if headings[i].Page != headings[j].Page {
			return headings[i].Page < headings[j].Page
		}
		return headings[i].Box.Y0 < headings[j].Box.Y0
	})
}
