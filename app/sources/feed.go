package sources

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"github.com/mmcdole/gofeed"

	"github.com/akardan/newsbrief/app/news"
)

// FeedAdapter retrieves a syndication document (RSS/Atom) and emits one raw
// item per well-formed entry. Malformed entries are skipped individually.
type FeedAdapter struct {
	desc      Descriptor
	client    *http.Client
	userAgent string
	parser    *gofeed.Parser
}

func NewFeedAdapter(desc Descriptor, client *http.Client, userAgent string) *FeedAdapter {
	return &FeedAdapter{
		desc:      desc,
		client:    client,
		userAgent: userAgent,
		parser:    gofeed.NewParser(),
	}
}

func (a *FeedAdapter) Label() string {
	return a.desc.Label
}

func (a *FeedAdapter) BaseURL() string {
	return a.desc.URL
}

func (a *FeedAdapter) Fetch(ctx context.Context) ([]news.RawItem, error) {
	data, err := fetchBody(ctx, a.client, a.desc.URL, a.userAgent)
	if err != nil {
		return nil, &FetchError{Source: a.desc.Label, Op: "fetch", Err: err}
	}

	feed, err := a.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &FetchError{Source: a.desc.Label, Op: "parse", Err: err}
	}

	items := make([]news.RawItem, 0, len(feed.Items))
	for i, entry := range feed.Items {
		if entry == nil || entry.Link == "" || entry.Title == "" {
			slog.Debug("Skipping malformed feed entry", "source", a.desc.Label, "index", i)
			continue
		}

		raw := news.RawItem{
			Kind:    news.KindText,
			Title:   entry.Title,
			URL:     entry.Link,
			Summary: entry.Description,
		}

		if entry.PublishedParsed != nil {
			raw.PublishedAt = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			raw.PublishedAt = *entry.UpdatedParsed
		}

		items = append(items, raw)
	}

	if len(items) == 0 {
		return nil, &FetchError{Source: a.desc.Label, Op: "extract", Err: errNoEntries}
	}

	return items, nil
}
