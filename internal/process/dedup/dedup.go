// Package dedup rejects near-duplicate stories before they reach storage.
//
// Two titles are near-duplicates when the Jaccard similarity of their
// token sets meets the configured threshold. Candidates are compared
// against titles already stored within a rolling lookback window for the
// same language; candidates within one ingestion batch are not compared
// against each other (see the design notes).
package dedup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/teluguwire/newsroom/internal/core/domain"
)

const (
	defaultLookback  = 12 * time.Hour
	defaultThreshold = 0.6
)

// Repository provides the stored titles the gate compares against.
type Repository interface {
	FindRecentTitles(ctx context.Context, windowStart time.Time, language domain.Language) ([]string, error)
}

// Gate checks candidate titles against recently stored ones.
type Gate struct {
	repo      Repository
	lookback  time.Duration
	threshold float64
	logger    *zerolog.Logger
}

// New creates a Gate. Non-positive lookback or threshold fall back to the
// defaults (12h, 0.6).
func New(repo Repository, lookback time.Duration, threshold float64, logger *zerolog.Logger) *Gate {
	if lookback <= 0 {
		lookback = defaultLookback
	}

	if threshold <= 0 {
		threshold = defaultThreshold
	}

	return &Gate{
		repo:      repo,
		lookback:  lookback,
		threshold: threshold,
		logger:    logger,
	}
}

// IsDuplicate reports whether title is a near-duplicate of any stored
// title with publishedAt inside the lookback window and the same
// language. A duplicate is a normal outcome, not an error.
func (g *Gate) IsDuplicate(ctx context.Context, title string, language domain.Language, now time.Time) (bool, error) {
	windowStart := now.Add(-g.lookback)

	titles, err := g.repo.FindRecentTitles(ctx, windowStart, language)
	if err != nil {
		return false, fmt.Errorf("find recent titles: %w", err)
	}

	for _, stored := range titles {
		score := TitleSimilarity(title, stored)
		if score >= g.threshold {
			if g.logger != nil {
				g.logger.Debug().
					Str("title", title).
					Str("duplicate_of", stored).
					Float64("similarity", score).
					Msg("rejecting near-duplicate title")
			}

			return true, nil
		}
	}

	return false, nil
}

// TitleSimilarity computes the Jaccard similarity of two titles: tokens
// split on whitespace, case-folded, deduplicated, |intersection|/|union|.
// Returns 0 when either title has no tokens.
func TitleSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0

	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)

	for _, tok := range strings.Fields(strings.ToLower(s)) {
		set[tok] = true
	}

	return set
}
