package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teluguwire/newsroom/internal/core/domain"
	"github.com/teluguwire/newsroom/internal/process/classify"
	"github.com/teluguwire/newsroom/internal/process/normalize"
)

type fakeSource struct {
	name  string
	items []domain.RawItem
	err   error
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Fetch(_ context.Context) ([]domain.RawItem, error) {
	return s.items, s.err
}

type fakeGate struct {
	duplicates map[string]bool
	err        error
}

func (g *fakeGate) IsDuplicate(_ context.Context, title string, _ domain.Language, _ time.Time) (bool, error) {
	if g.err != nil {
		return false, g.err
	}

	return g.duplicates[title], nil
}

type fakeStore struct {
	stored    []domain.Article
	conflicts map[string]bool
	failAfter int
	err       error
}

func (s *fakeStore) UpsertIfAbsent(_ context.Context, art domain.Article) (bool, error) {
	if s.err != nil && len(s.stored) >= s.failAfter {
		return false, s.err
	}

	if s.conflicts[art.URL] {
		return false, nil
	}

	for _, existing := range s.stored {
		if existing.URL == art.URL {
			return false, nil
		}
	}

	s.stored = append(s.stored, art)

	return true, nil
}

func rawItem(title, url string) domain.RawItem {
	return domain.RawItem{
		Title:      title,
		Summary:    title,
		Body:       title,
		URL:        url,
		Source:     "Test Source",
		Provenance: domain.ProvenanceRSS,
	}
}

func newOrchestratorForTest(sources []Source, social *SocialSource, gate DuplicateGate, store Store) *Orchestrator {
	logger := zerolog.Nop()
	normalizer := normalize.New(normalize.Options{
		FallbackImageURL: "https://example.com/placeholder.jpg",
		DefaultRegion:    "AP",
	})
	classifier := classify.New(classify.DefaultCategories())

	return NewOrchestrator(sources, social, normalizer, classifier, gate, store, &logger)
}

func TestRunCycleIsolatesSourceFailures(t *testing.T) {
	sources := []Source{
		&fakeSource{name: "broken", err: errors.New("connection refused")},
		&fakeSource{name: "working", items: []domain.RawItem{rawItem("Budget session begins", "https://example.com/1")}},
	}
	store := &fakeStore{}

	o := newOrchestratorForTest(sources, nil, &fakeGate{}, store)

	result, err := o.RunCycle(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Sources, 2)

	assert.Error(t, result.Sources[0].Err)
	assert.Equal(t, 0, result.Sources[0].Inserted)
	assert.NoError(t, result.Sources[1].Err)
	assert.Equal(t, 1, result.Sources[1].Inserted)
	assert.Equal(t, 1, result.InsertedCount())
	assert.Len(t, store.stored, 1)
}

func TestRunCycleDropsDuplicatesAndConflicts(t *testing.T) {
	sources := []Source{&fakeSource{name: "feed", items: []domain.RawItem{
		rawItem("Fresh headline today", "https://example.com/fresh"),
		rawItem("Repeated headline", "https://example.com/repeat"),
		rawItem("Already stored url", "https://example.com/seen"),
	}}}
	gate := &fakeGate{duplicates: map[string]bool{"Repeated headline": true}}
	store := &fakeStore{conflicts: map[string]bool{"https://example.com/seen": true}}

	o := newOrchestratorForTest(sources, nil, gate, store)

	result, err := o.RunCycle(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Inserted, 1)
	assert.Equal(t, "Fresh headline today", result.Inserted[0].Title)
	assert.Equal(t, 3, result.Sources[0].Fetched)
	assert.Equal(t, 1, result.Sources[0].Inserted)
}

func TestRunCycleStorageErrorAbortsWithPartialResults(t *testing.T) {
	sources := []Source{
		&fakeSource{name: "first", items: []domain.RawItem{rawItem("Stored fine", "https://example.com/a")}},
		&fakeSource{name: "second", items: []domain.RawItem{rawItem("Never stored", "https://example.com/b")}},
	}
	store := &fakeStore{failAfter: 1, err: errors.New("connection lost")}

	o := newOrchestratorForTest(sources, nil, &fakeGate{}, store)

	result, err := o.RunCycle(context.Background())
	require.Error(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 1, result.InsertedCount())
	assert.Equal(t, "Stored fine", result.Inserted[0].Title)
}

func TestRunCycleSkipsWhenAlreadyRunning(t *testing.T) {
	o := newOrchestratorForTest(nil, nil, &fakeGate{}, &fakeStore{})
	o.running.Store(true)

	_, err := o.RunCycle(context.Background())
	require.ErrorIs(t, err, ErrCycleRunning)
}

func TestRunCycleClassifiesArticles(t *testing.T) {
	sources := []Source{&fakeSource{name: "feed", items: []domain.RawItem{
		rawItem("The cricket match ended in a thrilling victory", "https://example.com/cricket"),
	}}}
	store := &fakeStore{}

	o := newOrchestratorForTest(sources, nil, &fakeGate{}, store)

	result, err := o.RunCycle(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Inserted, 1)

	art := result.Inserted[0]
	assert.Equal(t, "sports", art.TopCategory)
	assert.NotEmpty(t, art.Categories)
	assert.Equal(t, domain.LanguageEnglish, art.Language)
	assert.Equal(t, "AP", art.Region)
}

func TestRunCycleClassifiesTitleAndBodyOnly(t *testing.T) {
	item := domain.RawItem{
		Title:      "Cricket final today",
		Summary:    "market stock finance economy sensex nifty shares",
		Body:       "The cricket tournament entered its closing day.",
		URL:        "https://example.com/cricket-final",
		Source:     "Test Source",
		Provenance: domain.ProvenanceRSS,
	}
	sources := []Source{&fakeSource{name: "feed", items: []domain.RawItem{item}}}
	store := &fakeStore{}

	o := newOrchestratorForTest(sources, nil, &fakeGate{}, store)

	result, err := o.RunCycle(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Inserted, 1)

	art := result.Inserted[0]
	assert.Equal(t, "sports", art.TopCategory)
	assert.NotContains(t, art.Categories, "business")
}

func TestRunCycleSecondPassInsertsNothing(t *testing.T) {
	sources := []Source{&fakeSource{name: "feed", items: []domain.RawItem{
		rawItem("Budget session begins", "https://example.com/1"),
		rawItem("Metro line extended", "https://example.com/2"),
	}}}
	store := &fakeStore{}

	o := newOrchestratorForTest(sources, nil, &fakeGate{}, store)

	first, err := o.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.InsertedCount())

	second, err := o.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.InsertedCount())
	assert.Equal(t, 2, second.Sources[0].Fetched)
	assert.Len(t, store.stored, 2)
}

func TestRunCycleSkipsItemsWithoutURL(t *testing.T) {
	sources := []Source{&fakeSource{name: "feed", items: []domain.RawItem{
		{Title: "No destination", Source: "Test Source", Provenance: domain.ProvenanceRSS},
		rawItem("Linked story", "https://example.com/linked"),
	}}}
	store := &fakeStore{}

	o := newOrchestratorForTest(sources, nil, &fakeGate{}, store)

	result, err := o.RunCycle(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Inserted, 1)
	assert.Equal(t, "Linked story", result.Inserted[0].Title)
}

func TestIngestFromAccount(t *testing.T) {
	session := &fakeSession{posts: []Post{
		{Time: time.Now(), Link: "https://twitter.com/acc/status/1", Text: "Assembly passes new irrigation bill"},
		{Time: time.Now().Add(-time.Hour), Link: "https://twitter.com/acc/status/2", Text: "Older post"},
	}}
	browser := &fakeBrowser{session: session}
	social := newSocialForTest(browser, SocialConfig{})
	store := &fakeStore{}

	o := newOrchestratorForTest(nil, social, &fakeGate{}, store)

	result, err := o.IngestFromAccount(context.Background(), "acc", 1)
	require.NoError(t, err)
	require.Len(t, result.Inserted, 1)

	art := result.Inserted[0]
	assert.Equal(t, "Assembly passes new irrigation bill", art.Title)
	assert.Equal(t, domain.ProvenanceTwitter, art.CreatedBy)
	assert.True(t, session.closed)
}

func TestIngestFromAccountValidatesHandle(t *testing.T) {
	social := newSocialForTest(&fakeBrowser{session: &fakeSession{}}, SocialConfig{})
	o := newOrchestratorForTest(nil, social, &fakeGate{}, &fakeStore{})

	_, err := o.IngestFromAccount(context.Background(), "   ", 5)
	require.Error(t, err)
}

func TestIngestFromAccountWithoutSocialSource(t *testing.T) {
	o := newOrchestratorForTest(nil, nil, &fakeGate{}, &fakeStore{})

	_, err := o.IngestFromAccount(context.Background(), "acc", 5)
	require.Error(t, err)
}
