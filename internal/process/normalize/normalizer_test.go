package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/teluguwire/newsroom/internal/core/domain"
)

const fallbackImage = "https://static.example/placeholder.jpg"

func testNormalizer() *Normalizer {
	return New(Options{
		FallbackImageURL: fallbackImage,
		TeluguSources:    []string{"sakshi", "eenadu"},
		DefaultRegion:    "AP",
		Now:              func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	})
}

func TestNormalizeDefaults(t *testing.T) {
	n := testNormalizer()

	art := n.Normalize(domain.RawItem{
		URL:        "https://news.example/a",
		Source:     "Example",
		Provenance: domain.ProvenanceRSS,
	})

	assert.Equal(t, "Untitled", art.Title)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), art.PublishedAt)
	assert.Equal(t, "AP", art.Region)
	assert.Equal(t, domain.ProvenanceRSS, art.CreatedBy)
	assert.True(t, art.IsPublished)
}

func TestNormalizeCleansText(t *testing.T) {
	n := testNormalizer()

	art := n.Normalize(domain.RawItem{
		Title:   "<b>Big</b> headline",
		Summary: "<p>Short &amp; sweet</p>",
		Body:    "<div>Full story [+500 chars]</div>",
		URL:     "https://news.example/b",
	})

	assert.Equal(t, "Big headline", art.Title)
	assert.Equal(t, "Short & sweet", art.Summary)
	assert.Equal(t, "Full story", art.Body)
}

func TestNormalizeBodyFallsBackToSummary(t *testing.T) {
	n := testNormalizer()

	art := n.Normalize(domain.RawItem{
		Title:   "t",
		Summary: "the summary",
		URL:     "https://news.example/c",
	})

	assert.Equal(t, "the summary", art.Body)
}

func TestImagePrecedence(t *testing.T) {
	n := testNormalizer()

	tests := []struct {
		name      string
		item      domain.RawItem
		wantImage string
	}{
		{
			name: "media ref wins",
			item: domain.RawItem{
				MediaRefs: []string{"https://cdn.example/enclosure.jpg"},
				ImageURL:  "https://cdn.example/direct.jpg",
				Body:      `<img src="https://cdn.example/embedded.jpg">`,
			},
			wantImage: "https://cdn.example/enclosure.jpg",
		},
		{
			name: "direct image next",
			item: domain.RawItem{
				ImageURL: "https://cdn.example/direct.jpg",
				Body:     `<img src="https://cdn.example/embedded.jpg">`,
			},
			wantImage: "https://cdn.example/direct.jpg",
		},
		{
			name: "body img scanned",
			item: domain.RawItem{
				Body: `<img data-src="https://cdn.example/lazy.jpg">`,
			},
			wantImage: "https://cdn.example/lazy.jpg",
		},
		{
			name: "summary img scanned after body",
			item: domain.RawItem{
				Summary: `<img src="https://cdn.example/summary.jpg">`,
			},
			wantImage: "https://cdn.example/summary.jpg",
		},
		{
			name:      "fallback when nothing found",
			item:      domain.RawItem{Title: "no pictures"},
			wantImage: fallbackImage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art := n.Normalize(tt.item)

			assert.Equal(t, tt.wantImage, art.ImageURL)
			assert.NotEmpty(t, art.Media)
			assert.Equal(t, tt.wantImage, art.Media[0].Src)
		})
	}
}

func TestLanguageDetection(t *testing.T) {
	n := testNormalizer()

	tests := []struct {
		name string
		item domain.RawItem
		want domain.Language
	}{
		{
			name: "telugu script beats unknown source",
			item: domain.RawItem{Title: "ఎన్నికల ఫలితాలు", Source: "Reuters"},
			want: domain.LanguageTelugu,
		},
		{
			name: "telugu script in body",
			item: domain.RawItem{Title: "Results", Body: "పూర్తి కథనం", Source: "Reuters"},
			want: domain.LanguageTelugu,
		},
		{
			name: "source name heuristic",
			item: domain.RawItem{Title: "Election results", Source: "Sakshi Post"},
			want: domain.LanguageTelugu,
		},
		{
			name: "default english",
			item: domain.RawItem{Title: "Election results", Source: "Reuters"},
			want: domain.LanguageEnglish,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art := n.Normalize(tt.item)
			assert.Equal(t, tt.want, art.Language)
		})
	}
}
