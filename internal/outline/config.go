package outline

// HeaderPolicy selects how running headers/footers are detected.
type HeaderPolicy string

const (
	// HeaderRecurring treats any text seen at least twice as a header candidate.
	HeaderRecurring HeaderPolicy = "recurring"
	// HeaderMajority requires a text to occur more times than half the page count.
	HeaderMajority HeaderPolicy = "majority"
)

// Config controls outline extraction heuristics.
type Config struct {
	MaxHeadingLevels  int          `yaml:"max_heading_levels"`  // Distinct heading sizes kept, largest first.
	IndentMargin      float64      `yaml:"indent_margin"`       // Allowed extra indentation for a same-or-deeper level.
	MaxPunctuation    int          `yaml:"max_punctuation"`     // Max count of ",.():" in a heading.
	MinHeadingRunes   int          `yaml:"min_heading_runes"`   // Shorter texts are never headings.
	HeaderPolicy      HeaderPolicy `yaml:"header_policy"`       // Running header detection rule.
	BoldBodyQualifies bool         `yaml:"bold_body_qualifies"` // Bold text at body size can be a heading.
	HeadingLikeText   bool         `yaml:"heading_like_text"`   // Require 3-12 words and no sentence ending.
	TruncateAtColon   bool         `yaml:"truncate_at_colon"`   // Keep only a short label before ":".
	ForceColonLevel   bool         `yaml:"force_colon_level"`   // Promote "Goals:"-style labels to H2 regardless of size.
	PromoteMaxWords   int          `yaml:"promote_max_words"`
	FormLabels        []string     `yaml:"form_labels"` // Compared alnum-only and case-folded.
}

// DefaultConfig returns the outline profile.
func DefaultConfig() Config {
	return Config{
		MaxHeadingLevels:  5,
		IndentMargin:      5,
		MaxPunctuation:    3,
		MinHeadingRunes:   3,
		HeaderPolicy:      HeaderRecurring,
		BoldBodyQualifies: true,
		PromoteMaxWords:   3,
		FormLabels:        defaultFormLabels(),
	}
}

// SectionConfig returns the stricter profile used to cut sections for ranking.
func SectionConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxHeadingLevels = 4
	cfg.HeaderPolicy = HeaderMajority
	cfg.HeadingLikeText = true
	cfg.TruncateAtColon = true
	return cfg
}

func defaultFormLabels() []string {
	return []string{
		"name", "date", "signature", "designation", "address",
		"age", "email", "phone", "sno", "amount", "place",
	}
}

// withDefaults fills zero values so a partially specified config still works.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxHeadingLevels <= 0 {
		c.MaxHeadingLevels = d.MaxHeadingLevels
	}
	if c.IndentMargin <= 0 {
		c.IndentMargin = d.IndentMargin
	}
	if c.MaxPunctuation <= 0 {
		c.MaxPunctuation = d.MaxPunctuation
	}
	if c.MinHeadingRunes <= 0 {
		c.MinHeadingRunes = d.MinHeadingRunes
	}
	if c.HeaderPolicy != HeaderMajority {
		c.HeaderPolicy = HeaderRecurring
	}
	if c.PromoteMaxWords <= 0 {
		c.PromoteMaxWords = d.PromoteMaxWords
	}
	return c
}
