package outline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/outliner/internal/doctree"
)

var (
	structuralPattern = regexp.MustCompile(`^(?:#\s*\d+|(?i:chapter)\s+\d+|[IVXLCDM]+\.|[A-Za-z]\)|\d+(?:\.\d+)*)`)
	bulletPattern     = regexp.MustCompile(`^\s*[•*\-–]\s+`)
	datePattern       = regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s*\d{4}\b`)
	yearPattern       = regexp.MustCompile(`^\s*(?:19|20)\d{2}\s*$`)
	listNumberPattern = regexp.MustCompile(`^\d+\.$`)
)

const headingPunctuation = ",.():"

// Classifier decides whether a block is a heading candidate. It holds no
// per-scan state; indentation continuity is applied separately by IndentState.
type Classifier struct {
	cfg    Config
	body   int
	title  TitleInfo
	labels map[string]struct{}
}

// NewClassifier builds a classifier for one document's font context.
func NewClassifier(cfg Config, body int, title TitleInfo) *Classifier {
	labels := make(map[string]struct{}, len(cfg.FormLabels))
	for _, l := range cfg.FormLabels {
		labels[alnumFold(l)] = struct{}{}
	}
	return &Classifier{cfg: cfg.withDefaults(), body: body, title: title, labels: labels}
}

// Candidate reports whether b should be considered for the outline.
func (c *Classifier) Candidate(b doctree.Block) bool {
	return c.accepts(b) && !c.rejects(b)
}

func (c *Classifier) accepts(b doctree.Block) bool {
	if structuralPattern.MatchString(b.Text) {
		return true
	}
	if !startsUpper(b.Text) {
		return false
	}
	if b.FontSize > c.body {
		return true
	}
	return c.cfg.BoldBodyQualifies && b.FontSize == c.body && b.Bold
}

func (c *Classifier) rejects(b doctree.Block) bool {
	text := b.Text
	switch {
	case c.title.IsExcluded(b):
		return true
	case utf8.RuneCountInString(text) < c.cfg.MinHeadingRunes:
		return true
	case !hasAlnum(text):
		return true
	case bulletPattern.MatchString(text):
		return true
	case datePattern.MatchString(text), yearPattern.MatchString(text):
		return true
	case listNumberPattern.MatchString(strings.TrimSpace(text)):
		return true
	case punctuationCount(text) > c.cfg.MaxPunctuation:
		return true
	}
	if _, ok := c.labels[alnumFold(text)]; ok {
		return true
	}
	if c.cfg.HeadingLikeText && !headingLike(text) {
		return true
	}
	return false
}

// promoted reports whether b is a short bold label such as "Goals:".
func (c *Classifier) promoted(b doctree.Block) bool {
	if !c.cfg.ForceColonLevel || !b.Bold || b.FontSize < c.body {
		return false
	}
	if !strings.HasSuffix(b.Text, ":") {
		return false
	}
	return len(strings.Fields(b.Text)) <= c.cfg.PromoteMaxWords
}

func headingLike(text string) bool {
	words := len(strings.Fields(text))
	if words < 3 || words > 12 {
		return false
	}
	if !startsUpper(text) {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(text)
	if strings.ContainsRune(".!?", last) {
		return false
	}
	lower := strings.ToLower(text)
	return !strings.HasPrefix(lower, "here are") && !strings.HasPrefix(lower, "for example")
}

func startsUpper(text string) bool {
	r, _ := utf8.DecodeRuneInString(text)
	return unicode.IsUpper(r)
}

func hasAlnum(text string) bool {
	return strings.IndexFunc(text, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}

func punctuationCount(text string) int {
	n := 0
	for _, r := range text {
		if strings.ContainsRune(headingPunctuation, r) {
			n++
		}
	}
	return n
}

// alnumFold strips everything but letters and digits and lowercases the rest.
func alnumFold(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
		}
	}
	return sb.String()
}
