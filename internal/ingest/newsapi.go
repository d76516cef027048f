package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/teluguwire/newsroom/internal/core/domain"
)

const (
	newsAPIBaseURL        = "https://newsapi.org/v2/top-headlines"
	newsAPIDefaultTimeout = 30 * time.Second
	newsAPIDefaultRPM     = 1 // free tier: 100 requests/day, keep the limiter conservative
	newsAPIAuthHeader     = "X-Api-Key"

	secondsPerMinute = 60
)

var (
	errNewsAPIUnexpectedStatus = errors.New("newsapi unexpected status")
	errNewsAPIBadStatus        = errors.New("newsapi bad status")
)

// NewsAPISource fetches top headlines from the NewsAPI JSON endpoint.
type NewsAPISource struct {
	baseURL     string
	apiKey      string
	country     string
	category    string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewsAPIConfig holds configuration for the headline-API adapter.
type NewsAPIConfig struct {
	APIKey         string
	Country        string
	Category       string
	RequestsPerMin int
	Timeout        time.Duration

	// BaseURL overrides the NewsAPI endpoint, for tests.
	BaseURL string
}

// NewNewsAPISource creates the headline-API adapter.
func NewNewsAPISource(cfg NewsAPIConfig) *NewsAPISource {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = newsAPIDefaultTimeout
	}

	rpm := cfg.RequestsPerMin
	if rpm <= 0 {
		rpm = newsAPIDefaultRPM
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = newsAPIBaseURL
	}

	return &NewsAPISource{
		baseURL:  baseURL,
		apiKey:   cfg.APIKey,
		country:  cfg.Country,
		category: cfg.Category,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(float64(rpm)/secondsPerMinute), 1),
	}
}

func (s *NewsAPISource) Name() string {
	return "newsapi"
}

// Fetch calls the top-headlines endpoint once and maps its articles.
func (s *NewsAPISource) Fetch(ctx context.Context) ([]domain.RawItem, error) {
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("newsapi rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.buildURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("create newsapi request: %w", err)
	}

	req.Header.Set(newsAPIAuthHeader, s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read newsapi response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", errNewsAPIUnexpectedStatus, resp.StatusCode)
	}

	return s.parseResponse(body)
}

func (s *NewsAPISource) buildURL() string {
	params := url.Values{}
	params.Set("country", s.country)
	params.Set("category", s.category)

	return s.baseURL + "?" + params.Encode()
}

// newsAPIResponse represents the JSON response from NewsAPI.
type newsAPIResponse struct {
	Status   string           `json:"status"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`  //nolint:tagliatelle // NewsAPI uses camelCase
	PublishedAt string `json:"publishedAt"` //nolint:tagliatelle // NewsAPI uses camelCase
	Content     string `json:"content"`
}

func (s *NewsAPISource) parseResponse(body []byte) ([]domain.RawItem, error) {
	var resp newsAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse newsapi json: %w", err)
	}

	if resp.Status != "ok" {
		return nil, fmt.Errorf("%w: %s", errNewsAPIBadStatus, resp.Status)
	}

	items := make([]domain.RawItem, 0, len(resp.Articles))

	for _, article := range resp.Articles {
		if article.URL == "" {
			continue
		}

		content := article.Content
		if content == "" {
			content = article.Description
		}

		item := domain.RawItem{
			Title:      article.Title,
			Summary:    article.Description,
			Body:       content,
			URL:        article.URL,
			Source:     article.Source.Name,
			ImageURL:   article.URLToImage,
			Provenance: domain.ProvenanceAPI,
		}

		if article.PublishedAt != "" {
			if t, err := time.Parse(time.RFC3339, article.PublishedAt); err == nil {
				item.PublishedAt = t
			}
		}

		items = append(items, item)
	}

	return items, nil
}
