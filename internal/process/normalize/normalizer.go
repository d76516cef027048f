// Package normalize turns raw source items into article candidates.
//
// Normalization fills defaults, strips markup, resolves a representative
// image, and infers the article language. It performs no I/O; the only
// ambient input is the clock, injectable for tests.
package normalize

import (
	"strings"
	"time"
	"unicode"

	"github.com/teluguwire/newsroom/internal/core/domain"
	"github.com/teluguwire/newsroom/internal/platform/htmlutils"
)

const defaultTitle = "Untitled"

// Options configures a Normalizer.
type Options struct {
	// FallbackImageURL is assigned when no image is discoverable.
	FallbackImageURL string

	// TeluguSources are outlet names treated as Telugu when the text
	// itself carries no Telugu script. Matched case-insensitively as
	// substrings of the item's source name.
	TeluguSources []string

	// DefaultRegion tags records without an explicit region.
	DefaultRegion string

	// Now supplies the current time; defaults to time.Now.
	Now func() time.Time
}

// Normalizer produces article candidates from raw items.
type Normalizer struct {
	opts Options
}

// New creates a Normalizer.
func New(opts Options) *Normalizer {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Normalizer{opts: opts}
}

// Normalize builds an unpersisted Article from a raw item.
func (n *Normalizer) Normalize(item domain.RawItem) domain.Article {
	title := strings.TrimSpace(htmlutils.StripTags(item.Title))
	if title == "" {
		title = defaultTitle
	}

	publishedAt := item.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = n.opts.Now()
	}

	body := item.Body
	if body == "" {
		body = item.Summary
	}

	art := domain.Article{
		Title:       title,
		Summary:     htmlutils.CleanText(item.Summary),
		Body:        htmlutils.CleanText(body),
		Language:    n.detectLanguage(item),
		Region:      n.opts.DefaultRegion,
		Source:      item.Source,
		URL:         item.URL,
		PublishedAt: publishedAt,
		CreatedBy:   item.Provenance,
		IsPublished: true,
	}

	n.resolveMedia(item, &art)

	return art
}

// resolveMedia picks the representative image and fills the media list.
// Precedence: explicit media refs → direct image URL → embedded <img>
// in body/summary HTML → fallback placeholder.
func (n *Normalizer) resolveMedia(item domain.RawItem, art *domain.Article) {
	for _, ref := range item.MediaRefs {
		if ref == "" {
			continue
		}

		art.Media = append(art.Media, domain.MediaRef{Kind: domain.MediaImage, Src: ref})

		if art.ImageURL == "" {
			art.ImageURL = ref
		}
	}

	if art.ImageURL == "" && item.ImageURL != "" {
		art.ImageURL = item.ImageURL
		art.Media = append(art.Media, domain.MediaRef{Kind: domain.MediaImage, Src: item.ImageURL})
	}

	if art.ImageURL == "" {
		if src := scanForImage(item); src != "" {
			art.ImageURL = src
			art.Media = append(art.Media, domain.MediaRef{Kind: domain.MediaImage, Src: src})
		}
	}

	if art.ImageURL == "" {
		art.ImageURL = n.opts.FallbackImageURL
		art.Media = []domain.MediaRef{{Kind: domain.MediaImage, Src: n.opts.FallbackImageURL}}
	}
}

// scanForImage searches the HTML-bearing fields, in order, for an <img>.
func scanForImage(item domain.RawItem) string {
	for _, field := range []string{item.Body, item.Summary} {
		if src := htmlutils.FirstImageURL(field); src != "" {
			return src
		}
	}

	return ""
}

// detectLanguage classifies the item. Script detection takes precedence
// over the source-name heuristic.
func (n *Normalizer) detectLanguage(item domain.RawItem) domain.Language {
	if containsTelugu(item.Title) || containsTelugu(item.Summary) || containsTelugu(item.Body) {
		return domain.LanguageTelugu
	}

	source := strings.ToLower(item.Source)
	for _, name := range n.opts.TeluguSources {
		if name == "" {
			continue
		}

		if strings.Contains(source, strings.ToLower(name)) {
			return domain.LanguageTelugu
		}
	}

	return domain.LanguageEnglish
}

func containsTelugu(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Telugu, r) {
			return true
		}
	}

	return false
}
