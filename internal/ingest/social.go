package ingest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/teluguwire/newsroom/internal/core/domain"
)

const (
	socialDefaultMaxPosts = 5
	socialDefaultNavWait  = 45 * time.Second
	socialDefaultScrolls  = 3
	socialDefaultBaseURL  = "https://twitter.com"

	socialTimelineSelector = `article[data-testid="tweet"]`
	socialDismissSelector  = `[data-testid="app-bar-close"]`

	socialTitleMaxRunes = 120
)

// SocialConfig configures the social-timeline adapter.
type SocialConfig struct {
	// Accounts lists the handles to scrape each cycle.
	Accounts []string

	// MaxPosts caps how many posts are kept per account, newest first.
	MaxPosts int

	// NavWait bounds navigation plus timeline render per account.
	NavWait time.Duration

	// Scrolls is how many times to scroll the timeline to trigger lazy
	// loading before extraction.
	Scrolls int

	// BaseURL is the profile URL prefix; handle is appended as a path
	// segment.
	BaseURL string
}

// SocialSource scrapes public account timelines through a headless
// browser. Accounts fail in isolation; one unreachable profile does not
// cost the others their posts.
type SocialSource struct {
	cfg     SocialConfig
	browser Browser
	logger  *zerolog.Logger
}

// NewSocialSource creates the social-timeline adapter.
func NewSocialSource(cfg SocialConfig, browser Browser, logger *zerolog.Logger) *SocialSource {
	if cfg.MaxPosts <= 0 {
		cfg.MaxPosts = socialDefaultMaxPosts
	}

	if cfg.NavWait <= 0 {
		cfg.NavWait = socialDefaultNavWait
	}

	if cfg.Scrolls <= 0 {
		cfg.Scrolls = socialDefaultScrolls
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = socialDefaultBaseURL
	}

	return &SocialSource{
		cfg:     cfg,
		browser: browser,
		logger:  logger,
	}
}

func (s *SocialSource) Name() string {
	return "social"
}

// Fetch scrapes every configured account and merges the results. A
// failing account is logged and skipped.
func (s *SocialSource) Fetch(ctx context.Context) ([]domain.RawItem, error) {
	var merged []domain.RawItem

	for _, handle := range s.cfg.Accounts {
		items, err := s.FetchAccount(ctx, handle, s.cfg.MaxPosts)
		if err != nil {
			s.logger.Warn().Err(err).Str("handle", handle).Msg("account scrape failed")
			continue
		}

		merged = append(merged, items...)
	}

	return merged, nil
}

// FetchAccount scrapes one account timeline and returns up to maxItems
// posts, newest first. The browser session is always closed, whatever
// the scrape outcome.
func (s *SocialSource) FetchAccount(ctx context.Context, handle string, maxItems int) ([]domain.RawItem, error) {
	if maxItems <= 0 {
		maxItems = s.cfg.MaxPosts
	}

	profileURL := s.cfg.BaseURL + "/" + strings.TrimPrefix(handle, "@")

	session, err := s.browser.Navigate(ctx, profileURL)
	if err != nil {
		return nil, fmt.Errorf("open profile %s: %w", handle, err)
	}

	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			s.logger.Warn().Err(closeErr).Str("handle", handle).Msg("session close failed")
		}
	}()

	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.NavWait)
	defer cancel()

	if err = session.WaitForSelector(waitCtx, socialTimelineSelector); err != nil {
		return nil, fmt.Errorf("timeline for %s: %w", handle, err)
	}

	session.DismissPrompt(waitCtx, socialDismissSelector)

	for i := 0; i < s.cfg.Scrolls; i++ {
		if err = session.Scroll(ctx); err != nil {
			s.logger.Debug().Err(err).Str("handle", handle).Msg("scroll failed")
			break
		}
	}

	posts, err := session.ExtractPosts(ctx, socialTimelineSelector)
	if err != nil {
		return nil, fmt.Errorf("extract posts for %s: %w", handle, err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Time.After(posts[j].Time)
	})

	if len(posts) > maxItems {
		posts = posts[:maxItems]
	}

	items := make([]domain.RawItem, 0, len(posts))

	for _, post := range posts {
		if post.Link == "" || strings.TrimSpace(post.Text) == "" {
			continue
		}

		text := strings.TrimSpace(post.Text)

		items = append(items, domain.RawItem{
			Title:       postTitle(text),
			Summary:     text,
			Body:        text,
			URL:         post.Link,
			Source:      handle,
			PublishedAt: post.Time,
			Provenance:  domain.ProvenanceTwitter,
		})
	}

	return items, nil
}

// postTitle derives a short title from the post text: the first line,
// truncated on a rune boundary.
func postTitle(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = strings.TrimSpace(text[:idx])
	}

	runes := []rune(text)
	if len(runes) > socialTitleMaxRunes {
		return string(runes[:socialTitleMaxRunes]) + "…"
	}

	return text
}
