package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/teluguwire/newsroom/internal/core/domain"
)

const feedDefaultTimeout = 10 * time.Second

// RSSSource fetches a set of RSS/Atom feeds. Feeds are fetched
// concurrently; a failing feed is logged and skipped so siblings keep
// their results.
type RSSSource struct {
	feedURLs []string
	timeout  time.Duration
	parser   *gofeed.Parser
	logger   *zerolog.Logger
}

// NewRSSSource creates the RSS adapter for the given feed URLs.
func NewRSSSource(feedURLs []string, timeout time.Duration, logger *zerolog.Logger) *RSSSource {
	if timeout <= 0 {
		timeout = feedDefaultTimeout
	}

	return &RSSSource{
		feedURLs: feedURLs,
		timeout:  timeout,
		parser:   gofeed.NewParser(),
		logger:   logger,
	}
}

func (s *RSSSource) Name() string {
	return "rss"
}

// Fetch runs all configured feeds concurrently and merges the successes.
// Item order within one feed is preserved; feed order follows the
// configuration regardless of completion order.
func (s *RSSSource) Fetch(ctx context.Context) ([]domain.RawItem, error) {
	results := make([][]domain.RawItem, len(s.feedURLs))

	var wg sync.WaitGroup

	for i, feedURL := range s.feedURLs {
		wg.Add(1)

		go func(idx int, url string) {
			defer wg.Done()

			items, err := s.fetchFeed(ctx, url)
			if err != nil {
				s.logger.Warn().Err(err).Str("feed_url", url).Msg("feed fetch failed")
				return
			}

			results[idx] = items
		}(i, feedURL)
	}

	wg.Wait()

	var merged []domain.RawItem
	for _, items := range results {
		merged = append(merged, items...)
	}

	return merged, nil
}

func (s *RSSSource) fetchFeed(ctx context.Context, feedURL string) ([]domain.RawItem, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	feed, err := s.parser.ParseURLWithContext(feedURL, fetchCtx)
	if err != nil {
		return nil, err
	}

	items := make([]domain.RawItem, 0, len(feed.Items))

	for _, entry := range feed.Items {
		if entry.Link == "" {
			continue
		}

		item := domain.RawItem{
			Title:       entry.Title,
			Summary:     entry.Description,
			Body:        entry.Content,
			URL:         entry.Link,
			Source:      feed.Title,
			PublishedAt: entryPublished(entry),
			MediaRefs:   entryMediaRefs(entry),
			Provenance:  domain.ProvenanceRSS,
		}

		if item.Body == "" {
			item.Body = entry.Description
		}

		items = append(items, item)
	}

	return items, nil
}

// entryPublished resolves the entry timestamp, parsing the raw pubDate
// string when gofeed could not.
func entryPublished(entry *gofeed.Item) time.Time {
	if entry.PublishedParsed != nil {
		return *entry.PublishedParsed
	}

	if entry.UpdatedParsed != nil {
		return *entry.UpdatedParsed
	}

	if entry.Published != "" {
		if t, err := dateparse.ParseAny(entry.Published); err == nil {
			return t
		}
	}

	return time.Time{}
}

// entryMediaRefs collects enclosure and media-group image URLs.
func entryMediaRefs(entry *gofeed.Item) []string {
	var refs []string

	for _, enc := range entry.Enclosures {
		if enc != nil && enc.URL != "" {
			refs = append(refs, enc.URL)
		}
	}

	if entry.Image != nil && entry.Image.URL != "" {
		refs = append(refs, entry.Image.URL)
	}

	for _, contents := range entry.Extensions["media"] {
		for _, ext := range contents {
			if url := ext.Attrs["url"]; url != "" {
				refs = append(refs, url)
			}
		}
	}

	return refs
}
