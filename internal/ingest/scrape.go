package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/teluguwire/newsroom/internal/core/domain"
)

const scrapeDefaultTimeout = 30 * time.Second

var errScrapeStatus = errors.New("scrape unexpected status")

// ScrapeConfig configures the HTML-scrape adapter.
type ScrapeConfig struct {
	// PageURL is the listing page to scrape.
	PageURL string

	// SourceName labels records produced from this page.
	SourceName string

	// ArticleSelector matches the repeating article elements.
	ArticleSelector string

	UserAgent string
	Timeout   time.Duration
}

// ScrapeSource extracts article stubs from a listing page by structural
// selectors. Elements missing a title or link are skipped, not fatal.
type ScrapeSource struct {
	cfg        ScrapeConfig
	httpClient *http.Client
	logger     *zerolog.Logger
}

// NewScrapeSource creates the HTML-scrape adapter.
func NewScrapeSource(cfg ScrapeConfig, logger *zerolog.Logger) *ScrapeSource {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = scrapeDefaultTimeout
	}

	if cfg.ArticleSelector == "" {
		cfg.ArticleSelector = "article"
	}

	return &ScrapeSource{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (s *ScrapeSource) Name() string {
	return "scrape:" + s.cfg.SourceName
}

// Fetch downloads the listing page and extracts one raw item per
// matched article element.
func (s *ScrapeSource) Fetch(ctx context.Context) ([]domain.RawItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.PageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create scrape request: %w", err)
	}

	if s.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", s.cfg.UserAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", errScrapeStatus, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	base, err := url.Parse(s.cfg.PageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}

	var items []domain.RawItem

	doc.Find(s.cfg.ArticleSelector).Each(func(_ int, sel *goquery.Selection) {
		item, ok := s.extractItem(sel, base)
		if !ok {
			return
		}

		items = append(items, item)
	})

	return items, nil
}

// extractItem pulls title/link/summary/image out of one article element.
// Returns false when the element lacks a usable title or link.
func (s *ScrapeSource) extractItem(sel *goquery.Selection, base *url.URL) (domain.RawItem, bool) {
	title := strings.TrimSpace(sel.Find("h2").First().Text())
	if title == "" {
		title = strings.TrimSpace(sel.Find("h3").First().Text())
	}

	href, _ := sel.Find("a").First().Attr("href")
	if title == "" || href == "" {
		return domain.RawItem{}, false
	}

	summary := strings.TrimSpace(sel.Find("p").First().Text())

	item := domain.RawItem{
		Title:      title,
		Summary:    summary,
		Body:       summary,
		URL:        absolutize(base, href),
		Source:     s.cfg.SourceName,
		Provenance: domain.ProvenanceScrape,
	}

	if src, ok := sel.Find("img").First().Attr("src"); ok && src != "" {
		item.ImageURL = absolutize(base, src)
	} else if src, ok := sel.Find("img").First().Attr("data-src"); ok && src != "" {
		item.ImageURL = absolutize(base, src)
	}

	return item, true
}

// absolutize resolves href against the listing page URL.
func absolutize(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}

	return base.ResolveReference(ref).String()
}
