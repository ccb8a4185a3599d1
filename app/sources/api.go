package sources

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/araddon/dateparse"

	"github.com/akardan/newsbrief/app/news"
)

// APIAdapter consumes a structured JSON endpoint. The payload is either a
// bare array of entries or an object with an "items" array. The configured
// emit kind decides whether entries become text or video items.
type APIAdapter struct {
	desc      Descriptor
	client    *http.Client
	userAgent string
}

type apiEntry struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Link        string `json:"link"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	PublishedAt string `json:"publishedAt"`
	Date        string `json:"date"`
	Duration    int    `json:"duration"`
	Thumbnail   string `json:"thumbnail"`
}

func NewAPIAdapter(desc Descriptor, client *http.Client, userAgent string) *APIAdapter {
	return &APIAdapter{
		desc:      desc,
		client:    client,
		userAgent: userAgent,
	}
}

func (a *APIAdapter) Label() string {
	return a.desc.Label
}

func (a *APIAdapter) BaseURL() string {
	return a.desc.URL
}

func (a *APIAdapter) Fetch(ctx context.Context) ([]news.RawItem, error) {
	data, err := fetchBody(ctx, a.client, a.desc.URL, a.userAgent)
	if err != nil {
		return nil, &FetchError{Source: a.desc.Label, Op: "fetch", Err: err}
	}

	entries, err := decodeEntries(data)
	if err != nil {
		return nil, &FetchError{Source: a.desc.Label, Op: "parse", Err: err}
	}

	kind := a.desc.Emit
	if kind == "" {
		kind = news.KindText
	}

	items := make([]news.RawItem, 0, len(entries))
	for i, entry := range entries {
		link := entry.URL
		if link == "" {
			link = entry.Link
		}
		if entry.Title == "" || link == "" {
			slog.Debug("Skipping API entry without required fields", "source", a.desc.Label, "index", i)
			continue
		}

		raw := news.RawItem{
			Kind:            kind,
			Title:           entry.Title,
			URL:             link,
			Summary:         firstNonEmpty(entry.Summary, entry.Description),
			PublishedAt:     parseEntryDate(firstNonEmpty(entry.PublishedAt, entry.Date)),
			DurationSeconds: entry.Duration,
			ThumbnailURL:    entry.Thumbnail,
		}

		items = append(items, raw)
	}

	if len(items) == 0 {
		return nil, &FetchError{Source: a.desc.Label, Op: "extract", Err: errNoEntries}
	}

	return items, nil
}

func decodeEntries(data []byte) ([]apiEntry, error) {
	var entries []apiEntry
	if err := json.Unmarshal(data, &entries); err == nil {
		return entries, nil
	}

	var wrapped struct {
		Items []apiEntry `json:"items"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Items, nil
}

func parseEntryDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := dateparse.ParseAny(value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
