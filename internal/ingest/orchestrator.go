package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/teluguwire/newsroom/internal/core/domain"
	"github.com/teluguwire/newsroom/internal/platform/observability"
	"github.com/teluguwire/newsroom/internal/process/classify"
	"github.com/teluguwire/newsroom/internal/process/normalize"
)

// ErrCycleRunning is returned when a cycle is requested while a previous
// one has not finished.
var ErrCycleRunning = errors.New("ingestion cycle already running")

// DuplicateGate decides whether a candidate title repeats a recently
// stored story.
type DuplicateGate interface {
	IsDuplicate(ctx context.Context, title string, language domain.Language, now time.Time) (bool, error)
}

// Store persists accepted articles.
type Store interface {
	// UpsertIfAbsent inserts the article unless its URL is already
	// stored. Reports whether a row was inserted.
	UpsertIfAbsent(ctx context.Context, article domain.Article) (bool, error)
}

// SourceResult tallies one source's contribution to a cycle.
type SourceResult struct {
	Source   string
	Fetched  int
	Inserted int
	Err      error
}

// CycleResult summarizes one ingestion cycle.
type CycleResult struct {
	Inserted []domain.Article
	Sources  []SourceResult
	Started  time.Time
	Duration time.Duration
}

// InsertedCount returns the number of articles stored this cycle.
func (r *CycleResult) InsertedCount() int {
	return len(r.Inserted)
}

// Orchestrator drives one ingestion cycle: fetch from every source,
// normalize, classify, gate duplicates, store. Sources fail in
// isolation; storage failures abort the cycle with partial results.
type Orchestrator struct {
	sources    []Source
	social     *SocialSource
	normalizer *normalize.Normalizer
	classifier *classify.Classifier
	gate       DuplicateGate
	store      Store
	logger     *zerolog.Logger

	running atomic.Bool
	now     func() time.Time
}

// NewOrchestrator wires the pipeline stages together. The social source,
// when non-nil, is appended to the source list and also serves on-demand
// single-account ingestion.
func NewOrchestrator(
	sources []Source,
	social *SocialSource,
	normalizer *normalize.Normalizer,
	classifier *classify.Classifier,
	gate DuplicateGate,
	store Store,
	logger *zerolog.Logger,
) *Orchestrator {
	if social != nil {
		sources = append(sources, social)
	}

	return &Orchestrator{
		sources:    sources,
		social:     social,
		normalizer: normalizer,
		classifier: classifier,
		gate:       gate,
		store:      store,
		logger:     logger,
		now:        time.Now,
	}
}

// RunCycle executes one full ingestion cycle. If a cycle is already in
// flight it returns ErrCycleRunning without doing any work.
func (o *Orchestrator) RunCycle(ctx context.Context) (*CycleResult, error) {
	if !o.running.CompareAndSwap(false, true) {
		observability.CyclesSkipped.Inc()
		return nil, ErrCycleRunning
	}

	defer o.running.Store(false)

	started := o.now()
	result := &CycleResult{Started: started}

	o.logger.Info().Int("sources", len(o.sources)).Msg("ingestion cycle starting")

	for _, source := range o.sources {
		srcResult := SourceResult{Source: source.Name()}

		items, err := source.Fetch(ctx)
		if err != nil {
			srcResult.Err = err
			result.Sources = append(result.Sources, srcResult)

			observability.SourceErrors.WithLabelValues(source.Name()).Inc()
			o.logger.Error().Err(err).Str("source", source.Name()).Msg("source fetch failed")

			continue
		}

		srcResult.Fetched = len(items)
		observability.ItemsFetched.WithLabelValues(source.Name()).Add(float64(len(items)))

		inserted, err := o.processItems(ctx, items, result)
		srcResult.Inserted = inserted
		result.Sources = append(result.Sources, srcResult)

		if err != nil {
			result.Duration = o.now().Sub(started)
			return result, fmt.Errorf("source %s: %w", source.Name(), err)
		}
	}

	result.Duration = o.now().Sub(started)
	observability.CycleDurationSeconds.Observe(result.Duration.Seconds())

	o.logger.Info().
		Int("inserted", result.InsertedCount()).
		Dur("duration", result.Duration).
		Msg("ingestion cycle finished")

	return result, nil
}

// IngestFromAccount scrapes a single social account on demand, outside
// the scheduled cycle, and runs its posts through the same pipeline.
func (o *Orchestrator) IngestFromAccount(ctx context.Context, handle string, maxItems int) (*CycleResult, error) {
	if o.social == nil {
		return nil, errors.New("no social source configured")
	}

	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, errors.New("empty account handle")
	}

	started := o.now()
	result := &CycleResult{Started: started}
	srcResult := SourceResult{Source: o.social.Name()}

	items, err := o.social.FetchAccount(ctx, handle, maxItems)
	if err != nil {
		return nil, fmt.Errorf("fetch account %s: %w", handle, err)
	}

	srcResult.Fetched = len(items)
	observability.ItemsFetched.WithLabelValues(o.social.Name()).Add(float64(len(items)))

	inserted, err := o.processItems(ctx, items, result)
	srcResult.Inserted = inserted
	result.Sources = append(result.Sources, srcResult)
	result.Duration = o.now().Sub(started)

	if err != nil {
		return result, fmt.Errorf("account %s: %w", handle, err)
	}

	return result, nil
}

// processItems runs one source's items through normalize → classify →
// duplicate gate → store. Gate and storage failures are fatal for the
// cycle; the partial tally accumulated so far stays in result.
func (o *Orchestrator) processItems(ctx context.Context, items []domain.RawItem, result *CycleResult) (int, error) {
	inserted := 0

	for _, item := range items {
		art := o.normalizer.Normalize(item)

		if art.URL == "" {
			observability.ItemsDropped.WithLabelValues("malformed").Inc()
			continue
		}

		// Categories are scored over title and body only; normalization
		// already falls back to the summary when a source sends no body.
		classified := o.classifier.Classify(art.Title + " " + art.Body)
		art.Categories = classified.Categories
		art.TopCategory = classified.TopCategory

		dup, err := o.gate.IsDuplicate(ctx, art.Title, art.Language, o.now())
		if err != nil {
			return inserted, fmt.Errorf("duplicate check: %w", err)
		}

		if dup {
			observability.ItemsDropped.WithLabelValues("near_duplicate").Inc()
			continue
		}

		stored, err := o.store.UpsertIfAbsent(ctx, art)
		if err != nil {
			return inserted, fmt.Errorf("store article: %w", err)
		}

		if !stored {
			observability.ItemsDropped.WithLabelValues("url_conflict").Inc()
			continue
		}

		inserted++

		observability.ItemsInserted.WithLabelValues(string(art.CreatedBy)).Inc()
		result.Inserted = append(result.Inserted, art)
	}

	return inserted, nil
}
