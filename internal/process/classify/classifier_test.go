package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testTable() []Category {
	return []Category{
		{Name: "politics", Keywords: []string{"government", "minister", "election", "parliament"}},
		{Name: "business", Keywords: []string{"business", "market", "stock", "finance", "economy"}},
		{Name: "sports", Keywords: []string{"cricket", "football", "tennis", "match", "tournament"}},
	}
}

func TestClassify(t *testing.T) {
	c := New(testTable())

	tests := []struct {
		name    string
		text    string
		wantMap map[string]int
		wantTop string
	}{
		{
			name:    "single category",
			text:    "The cricket match ended in a thrilling victory",
			wantMap: map[string]int{"sports": 2},
			wantTop: "sports",
		},
		{
			name:    "case insensitive",
			text:    "GOVERNMENT Wins ELECTION",
			wantMap: map[string]int{"politics": 2},
			wantTop: "politics",
		},
		{
			name:    "multiple categories highest wins",
			text:    "Government reacts as stock market and business sentiment slide after election",
			wantMap: map[string]int{"politics": 2, "business": 3},
			wantTop: "business",
		},
		{
			name:    "no match",
			text:    "Weather stays dry across the coast",
			wantMap: map[string]int{},
			wantTop: "",
		},
		{
			name:    "empty text",
			text:    "",
			wantMap: map[string]int{},
			wantTop: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			assert.Equal(t, tt.wantMap, got.Categories)
			assert.Equal(t, tt.wantTop, got.TopCategory)
		})
	}
}

func TestClassifyTieBreaksByDeclarationOrder(t *testing.T) {
	c := New([]Category{
		{Name: "first", Keywords: []string{"alpha"}},
		{Name: "second", Keywords: []string{"beta"}},
	})

	got := c.Classify("alpha beta")

	assert.Equal(t, map[string]int{"first": 1, "second": 1}, got.Categories)
	assert.Equal(t, "first", got.TopCategory)
}

func TestClassifyDeterministic(t *testing.T) {
	c := New(DefaultCategories())
	text := "The cricket match ended in a thrilling victory"

	first := c.Classify(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify(text))
	}

	assert.Equal(t, "sports", first.TopCategory)
	assert.Positive(t, first.Categories["sports"])
}

func TestClassifyKeywordCountsOnce(t *testing.T) {
	c := New(testTable())

	got := c.Classify("cricket cricket cricket")

	assert.Equal(t, map[string]int{"sports": 1}, got.Categories)
}
