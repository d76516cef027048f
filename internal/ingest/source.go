// Package ingest implements the source adapters and the orchestrator
// that drives one ingestion cycle: fetch raw items from every configured
// source, normalize, classify, gate near-duplicates, and store.
package ingest

import (
	"context"

	"github.com/teluguwire/newsroom/internal/core/domain"
)

// Source is one external news source. Adapters only do network I/O;
// persistence happens in the orchestrator.
type Source interface {
	// Name identifies the source for logging and metrics.
	Name() string

	// Fetch retrieves the source's current items. A failing source
	// returns an error and is isolated by the orchestrator; it must not
	// affect sibling sources.
	Fetch(ctx context.Context) ([]domain.RawItem, error)
}
