// Package domain defines the core entities shared across the ingestion
// pipeline and storage: raw source items, normalized article records,
// media references, and the language/provenance vocabularies.
package domain

import "time"

// Language is the detected article language.
type Language string

const (
	// LanguageTelugu marks articles written in Telugu script or coming
	// from a known Telugu outlet.
	LanguageTelugu Language = "te"

	// LanguageEnglish is the default when no Telugu signal is present.
	LanguageEnglish Language = "en"
)

// Provenance records which path created an article.
type Provenance string

const (
	ProvenanceRSS     Provenance = "rss"
	ProvenanceAPI     Provenance = "api"
	ProvenanceScrape  Provenance = "scrape"
	ProvenanceTwitter Provenance = "twitter"
	ProvenanceManual  Provenance = "manual"
)

// MediaKind distinguishes media entry types.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaRef is one entry of an article's media list.
type MediaRef struct {
	Kind MediaKind `json:"kind"`
	Src  string    `json:"src"`
}

// RawItem is the unnormalized output of a source adapter. Field coverage
// varies per source; the normalizer fills the gaps.
type RawItem struct {
	Title       string
	Summary     string
	Body        string
	URL         string
	Source      string
	PublishedAt time.Time
	ImageURL    string
	MediaRefs   []string
	Provenance  Provenance
}

// Article is the canonical persisted record.
type Article struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Summary     string         `json:"summary,omitempty"`
	Body        string         `json:"body,omitempty"`
	Language    Language       `json:"language"`
	Region      string         `json:"region"`
	Source      string         `json:"source,omitempty"`
	URL         string         `json:"url"`
	ImageURL    string         `json:"imageUrl"`
	Media       []MediaRef     `json:"media"`
	PublishedAt time.Time      `json:"publishedAt"`
	Categories  map[string]int `json:"categories,omitempty"`
	TopCategory string         `json:"topCategory,omitempty"`
	CreatedBy   Provenance     `json:"createdBy"`
	IsPublished bool           `json:"isPublished"`
	Blocked     bool           `json:"blocked"`
	CreatedAt   time.Time      `json:"createdAt,omitempty"`
	UpdatedAt   time.Time      `json:"updatedAt,omitempty"`
}
