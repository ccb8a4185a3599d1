package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/akardan/newsbrief/app/news"
)

// Adapter retrieves raw content from one external origin and emits raw
// items. Every invocation is independent; failures never abort sibling
// sources.
type Adapter interface {
	Label() string
	BaseURL() string
	Fetch(ctx context.Context) ([]news.RawItem, error)
}

func NewAdapter(desc Descriptor, client *http.Client, userAgent string) (Adapter, error) {
	switch desc.Kind {
	case KindFeed:
		return NewFeedAdapter(desc, client, userAgent), nil
	case KindScrape:
		return NewScrapeAdapter(desc, client, userAgent), nil
	case KindAPI:
		return NewAPIAdapter(desc, client, userAgent), nil
	default:
		return nil, fmt.Errorf("unknown source kind: %s", desc.Kind)
	}
}

func fetchBody(ctx context.Context, client *http.Client, url, userAgent string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
