// Package classify scores article text against per-category keyword sets.
//
// Classification is a pure function of the text and the configured table:
// no I/O, no shared state. The category table is ordered; declaration
// order breaks score ties so results are deterministic.
package classify

import "strings"

// Category is one entry of the keyword table.
type Category struct {
	Name     string
	Keywords []string
}

// Result holds the per-category scores and the winning category.
type Result struct {
	// Categories maps category name to the number of distinct configured
	// keywords found in the text. Zero-score categories are omitted.
	Categories map[string]int

	// TopCategory is the highest-scoring category, or "" when nothing
	// matched. Ties resolve to the category declared first in the table.
	TopCategory string
}

// Classifier matches lower-cased text against a fixed keyword table.
type Classifier struct {
	table []Category
}

// New creates a Classifier for the given table. Pass DefaultCategories()
// for the stock table.
func New(table []Category) *Classifier {
	return &Classifier{table: table}
}

// Classify counts keyword occurrences per category. Matching is
// case-insensitive substring containment; each configured keyword counts
// at most once.
func (c *Classifier) Classify(text string) Result {
	lower := strings.ToLower(text)

	res := Result{Categories: map[string]int{}}
	best := 0

	for _, cat := range c.table {
		score := 0

		for _, kw := range cat.Keywords {
			if kw == "" {
				continue
			}

			if strings.Contains(lower, strings.ToLower(kw)) {
				score++
			}
		}

		if score == 0 {
			continue
		}

		res.Categories[cat.Name] = score

		// Strict comparison keeps the first-declared category on ties.
		if score > best {
			best = score
			res.TopCategory = cat.Name
		}
	}

	return res
}
