// Package cards turns one completed response into the "option cards" the
// creation-space views render: the text is split on numbered-list and heading
// boundaries and each section is assigned a category by keyword match, with a
// round-robin fallback and placeholder padding up to a minimum count.
//
// This is a best-effort heuristic, not a classifier with a single correct
// answer; ties break by declaration order in the keyword table.
package cards

import (
	"fmt"
	"regexp"
	"strings"
)

// Category labels a card for styling and filtering.
type Category string

const (
	CategoryTechnical  Category = "technical"
	CategoryCreative   Category = "creative"
	CategoryAnalytical Category = "analytical"
	CategoryPractical  Category = "practical"
)

// keywordTable maps trigger keywords to categories. Order matters: the first
// entry whose keyword hits wins.
var keywordTable = []struct {
	category Category
	keywords []string
}{
	{CategoryTechnical, []string{"architecture", "diagram", "system", "api", "schema", "database", "code"}},
	{CategoryCreative, []string{"story", "visual", "concept", "imagine", "artistic", "mood"}},
	{CategoryAnalytical, []string{"analysis", "data", "metric", "compare", "tradeoff", "evaluate"}},
	{CategoryPractical, []string{"step", "plan", "checklist", "timeline", "action", "implement"}},
}

// categoryOrder is the declaration order used for round-robin fallback and
// placeholder padding.
var categoryOrder = []Category{CategoryTechnical, CategoryCreative, CategoryAnalytical, CategoryPractical}

// Card is one rendered option.
type Card struct {
	Title       string
	Body        string
	Category    Category
	Placeholder bool
}

// Classifier maps a section's text to a category. The second return reports
// whether the classifier had an opinion; on false the segmenter falls back to
// round-robin assignment.
type Classifier func(text string) (Category, bool)

// KeywordClassifier is the default Classifier: case-insensitive substring
// match against the fixed keyword table, ties broken by table order.
func KeywordClassifier(text string) (Category, bool) {
	lower := strings.ToLower(text)
	for _, row := range keywordTable {
		for _, kw := range row.keywords {
			if strings.Contains(lower, kw) {
				return row.category, true
			}
		}
	}
	return "", false
}

// DefaultMinCards pads segmentation output up to this many cards.
const DefaultMinCards = 3

// Segmenter splits completed response text into cards.
type Segmenter struct {
	classify Classifier
	minCards int
}

// SegmentOption configures a Segmenter.
type SegmentOption func(*Segmenter)

// WithClassifier substitutes the classification strategy (tests use a
// deterministic stub).
func WithClassifier(c Classifier) SegmentOption {
	return func(s *Segmenter) { s.classify = c }
}

// WithMinCards overrides the padding floor.
func WithMinCards(n int) SegmentOption {
	return func(s *Segmenter) { s.minCards = n }
}

// NewSegmenter builds a segmenter with the keyword classifier and default
// padding floor.
func NewSegmenter(opts ...SegmentOption) *Segmenter {
	s := &Segmenter{classify: KeywordClassifier, minCards: DefaultMinCards}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Boundaries: numbered list items ("1. ", "2) ") and markdown headings.
var sectionBoundary = regexp.MustCompile(`(?m)^(?:\d+[.)]\s+|#{1,3}\s+)`)

// Segment splits text into cards. Sections come from numbered-list/heading
// boundaries; text before the first boundary (or all of it, when there is no
// boundary) forms one section. Unclassified sections get categories assigned
// round-robin in table order, and placeholder cards for missing categories
// pad the result up to the minimum count.
func (s *Segmenter) Segment(text string) []Card {
	sections := splitSections(text)

	var cards []Card
	used := map[Category]bool{}
	rr := 0
	for _, sec := range sections {
		cat, ok := s.classify(sec)
		if !ok {
			cat = categoryOrder[rr%len(categoryOrder)]
			rr++
		}
		used[cat] = true
		cards = append(cards, Card{
			Title:    sectionTitle(sec),
			Body:     sec,
			Category: cat,
		})
	}

	// Synthesize placeholders for missing categories until the floor holds.
	for _, cat := range categoryOrder {
		if len(cards) >= s.minCards {
			break
		}
		if used[cat] {
			continue
		}
		used[cat] = true
		cards = append(cards, Card{
			Title:       fmt.Sprintf("%s take", cat),
			Body:        fmt.Sprintf("No %s angle was generated for this prompt yet.", cat),
			Category:    cat,
			Placeholder: true,
		})
	}
	return cards
}

func splitSections(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	idxs := sectionBoundary.FindAllStringIndex(text, -1)
	if len(idxs) == 0 {
		return []string{text}
	}

	var sections []string
	if head := strings.TrimSpace(text[:idxs[0][0]]); head != "" {
		sections = append(sections, head)
	}
	for i, idx := range idxs {
		end := len(text)
		if i+1 < len(idxs) {
			end = idxs[i+1][0]
		}
		if sec := strings.TrimSpace(text[idx[0]:end]); sec != "" {
			sections = append(sections, sec)
		}
	}
	return sections
}

func sectionTitle(section string) string {
	line, _, _ := strings.Cut(section, "\n")
	line = sectionBoundary.ReplaceAllString(line, "")
	line = strings.TrimSpace(strings.TrimLeft(line, "#*- "))
	const maxTitle = 60
	if len(line) > maxTitle {
		line = strings.TrimSpace(line[:maxTitle]) + "…"
	}
	if line == "" {
		line = "Untitled option"
	}
	return line
}
