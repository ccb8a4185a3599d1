package news

import (
	"crypto/sha256"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Run converts a raw adapter item into the canonical Item shape. The base
// URL comes from the source descriptor and is used to resolve relative
// links. An unparseable or missing publish date defaults to now.
func (n *Normalizer) Run(raw RawItem, baseURL string) (Item, error) {
	resolved, err := n.resolveURL(raw.URL, baseURL)
	if err != nil {
		return Item{}, fmt.Errorf("failed to resolve item URL: %w", err)
	}

	kind := raw.Kind
	if kind == "" {
		kind = KindText
	}

	publishedAt := raw.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now().UTC()
	}

	item := Item{
		ID:              GenerateID(resolved.String()),
		Kind:            kind,
		Title:           CleanText(raw.Title),
		Summary:         CleanText(raw.Summary),
		Source:          sourceName(resolved),
		URL:             resolved.String(),
		PublishedAt:     publishedAt,
		DurationSeconds: raw.DurationSeconds,
		ThumbnailURL:    raw.ThumbnailURL,
	}

	if item.Title == "" {
		return Item{}, fmt.Errorf("item has no title after normalization")
	}

	return item, nil
}

// GenerateID derives the stable item identifier from the normalized URL.
// Same URL, same ID across runs; the merge dedup key depends on this.
func GenerateID(itemURL string) string {
	hash := sha256.Sum256([]byte(itemURL))
	return fmt.Sprintf("%x", hash[:8])
}

// CleanText strips markup, decodes HTML entities and collapses whitespace
// into single spaces.
func CleanText(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = whitespacePattern.ReplaceAllString(s, " ")
	s = norm.NFC.String(s)
	return strings.TrimSpace(s)
}

func (n *Normalizer) resolveURL(rawURL, baseURL string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	if !ref.IsAbs() {
		base, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
		}
		ref = base.ResolveReference(ref)
	}

	if ref.Host == "" {
		return nil, fmt.Errorf("URL %q has no host after resolution", rawURL)
	}

	ref.Host = strings.ToLower(ref.Host)
	ref.Fragment = ""

	return ref, nil
}

// sourceName derives the canonical short source name from the resolved
// URL's authority, not from the configured adapter label.
func sourceName(u *url.URL) string {
	host := u.Hostname()
	return strings.TrimPrefix(host, "www.")
}
