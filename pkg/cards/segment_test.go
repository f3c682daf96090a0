package cards

import (
	"strings"
	"testing"
)

func TestKeywordClassifier(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    Category
		wantHit bool
	}{
		{"architecture is technical", "sketch the service ARCHITECTURE first", CategoryTechnical, true},
		{"story is creative", "tell a story about the product", CategoryCreative, true},
		{"metric is analytical", "pick a success metric", CategoryAnalytical, true},
		{"checklist is practical", "a launch checklist", CategoryPractical, true},
		{"table order breaks ties", "a system with an artistic mood", CategoryTechnical, true},
		{"no keyword", "hello there", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := KeywordClassifier(tt.text)
			if hit != tt.wantHit || got != tt.want {
				t.Errorf("KeywordClassifier(%q) = (%q, %v), want (%q, %v)", tt.text, got, hit, tt.want, tt.wantHit)
			}
		})
	}
}

func TestSegment_NumberedItemsWithKeywordAndFallback(t *testing.T) {
	text := strings.Join([]string{
		"1. First idea about gardens and light",
		"2. Second idea about the service architecture",
		"3. Third idea about a quiet morning",
	}, "\n")

	cards := NewSegmenter().Segment(text)
	if len(cards) != 3 {
		t.Fatalf("got %d cards, want 3: %+v", len(cards), cards)
	}

	// Item 2 hits "architecture" and must land in technical.
	if cards[1].Category != CategoryTechnical {
		t.Errorf("cards[1].Category = %q, want %q", cards[1].Category, CategoryTechnical)
	}
	// Items 1 and 3 have no keyword hits: round-robin in table order.
	if cards[0].Category != CategoryTechnical {
		t.Errorf("cards[0].Category = %q, want first round-robin category %q", cards[0].Category, CategoryTechnical)
	}
	if cards[2].Category != CategoryCreative {
		t.Errorf("cards[2].Category = %q, want second round-robin category %q", cards[2].Category, CategoryCreative)
	}
	for i, c := range cards {
		if c.Placeholder {
			t.Errorf("cards[%d] should not be a placeholder", i)
		}
	}
}

func TestSegment_PadsToMinimumWithPlaceholders(t *testing.T) {
	cards := NewSegmenter().Segment("just one short thought")
	if len(cards) != DefaultMinCards {
		t.Fatalf("got %d cards, want %d", len(cards), DefaultMinCards)
	}
	if cards[0].Placeholder {
		t.Error("the real section must not be a placeholder")
	}
	placeholders := 0
	for _, c := range cards[1:] {
		if c.Placeholder {
			placeholders++
		}
	}
	if placeholders != DefaultMinCards-1 {
		t.Errorf("placeholders = %d, want %d", placeholders, DefaultMinCards-1)
	}
	// Placeholders cover categories the real sections missed.
	seen := map[Category]int{}
	for _, c := range cards {
		seen[c.Category]++
		if seen[c.Category] > 1 {
			t.Errorf("category %q assigned twice: %+v", c.Category, cards)
		}
	}
}

func TestSegment_MarkdownHeadings(t *testing.T) {
	text := "## Database schema\nTables and keys.\n\n## A story\nOnce upon a time."
	cards := NewSegmenter(WithMinCards(1)).Segment(text)
	if len(cards) != 2 {
		t.Fatalf("got %d cards, want 2: %+v", len(cards), cards)
	}
	if cards[0].Category != CategoryTechnical || cards[1].Category != CategoryCreative {
		t.Errorf("categories = %q, %q", cards[0].Category, cards[1].Category)
	}
	if cards[0].Title != "Database schema" {
		t.Errorf("Title = %q, want %q", cards[0].Title, "Database schema")
	}
}

func TestSegment_EmptyTextYieldsOnlyPlaceholders(t *testing.T) {
	cards := NewSegmenter().Segment("   \n  ")
	if len(cards) != DefaultMinCards {
		t.Fatalf("got %d cards, want %d", len(cards), DefaultMinCards)
	}
	for i, c := range cards {
		if !c.Placeholder {
			t.Errorf("cards[%d] should be a placeholder", i)
		}
	}
}

func TestSegment_StubClassifier(t *testing.T) {
	stub := func(string) (Category, bool) { return CategoryPractical, true }
	cards := NewSegmenter(WithClassifier(stub), WithMinCards(1)).Segment("1. a\n2. b")
	for i, c := range cards {
		if c.Category != CategoryPractical {
			t.Errorf("cards[%d].Category = %q, want practical", i, c.Category)
		}
	}
}

func TestRegistry(t *testing.T) {
	if !Has("keyword") {
		t.Fatal("keyword classifier must be registered by default")
	}
	Register("stub-test", func(string) (Category, bool) { return CategoryCreative, true })
	c, ok := Get("stub-test")
	if !ok {
		t.Fatal("stub-test not found after Register")
	}
	if cat, _ := c("anything"); cat != CategoryCreative {
		t.Errorf("stub returned %q", cat)
	}
	found := false
	for _, n := range Names() {
		if n == "stub-test" {
			found = true
		}
	}
	if !found {
		t.Error("Names() missing stub-test")
	}
}
