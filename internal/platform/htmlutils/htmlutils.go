// Package htmlutils provides HTML processing helpers for article text.
//
// The package handles:
//   - Tag stripping for HTML-bearing feed fields
//   - Collapsing "read more" truncation placeholders
//   - Scanning markup for embedded image URLs (including lazy-load attrs)
package htmlutils

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	tagRegex        = regexp.MustCompile(`<[^>]+>`)
	whitespaceRegex = regexp.MustCompile(`[ \t]+`)

	// readMoreRegexes match truncation placeholders appended by feed and
	// headline providers, e.g. "[+1234 chars]", "Read more", "…more".
	readMoreRegexes = []*regexp.Regexp{
		regexp.MustCompile(`\[\+\d+ chars\]`),
		regexp.MustCompile(`(?i)\.{3}\s*read more\s*$`),
		regexp.MustCompile(`(?i)read more\s*$`),
		regexp.MustCompile(`(?i)[…\x{2026}]\s*more\s*$`),
	}
)

// StripTags removes all markup from s and returns decoded plain text.
func StripTags(s string) string {
	if s == "" || !strings.ContainsRune(s, '<') {
		return html.UnescapeString(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		// Parse failures are rare; fall back to a crude regex strip.
		return html.UnescapeString(tagRegex.ReplaceAllString(s, " "))
	}

	return doc.Text()
}

// CollapseReadMore removes truncation placeholders left by upstream APIs.
func CollapseReadMore(s string) string {
	for _, re := range readMoreRegexes {
		s = re.ReplaceAllString(s, "")
	}

	return s
}

// CleanText strips markup, collapses read-more markers, and normalizes
// whitespace. It is the standard cleaning applied to summary/body fields.
func CleanText(s string) string {
	s = StripTags(s)
	s = CollapseReadMore(s)
	s = whitespaceRegex.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}

// FirstImageURL scans HTML for the first <img> element and returns its
// source URL. Both src and the lazy-load data-src attribute are checked,
// in that order, per element. Returns "" when no usable image is found.
func FirstImageURL(htmlText string) string {
	if htmlText == "" || !strings.Contains(htmlText, "<img") {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return ""
	}

	var found string

	doc.Find("img").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if src, ok := sel.Attr("src"); ok && src != "" {
			found = src
			return false
		}

		if src, ok := sel.Attr("data-src"); ok && src != "" {
			found = src
			return false
		}

		return true
	})

	return found
}
