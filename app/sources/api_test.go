package sources

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/akardan/newsbrief/app/news"
)

func TestAPIAdapterBareArray(t *testing.T) {
	body := `[
  {"title": "API story", "url": "https://api.example.com/s/1", "summary": "From the wire", "publishedAt": "2026-01-05T08:00:00Z"},
  {"title": "", "url": "https://api.example.com/s/skip"},
  {"title": "Linked story", "link": "https://api.example.com/s/2", "description": "Alt fields"}
]`

	server := newTestServer(http.StatusOK, "application/json", body)
	defer server.Close()

	adapter := NewAPIAdapter(Descriptor{Label: "wire", URL: server.URL, Kind: KindAPI}, server.Client(), "TestAgent/1.0")

	items, err := adapter.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 items (untitled skipped), got: %d", len(items))
	}
	if items[0].Kind != news.KindText {
		t.Errorf("Expected default text kind, got: %q", items[0].Kind)
	}
	expected := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	if !items[0].PublishedAt.Equal(expected) {
		t.Errorf("Expected parsed publishedAt, got: %v", items[0].PublishedAt)
	}
	if items[1].URL != "https://api.example.com/s/2" {
		t.Errorf("Expected link field fallback, got: %q", items[1].URL)
	}
	if items[1].Summary != "Alt fields" {
		t.Errorf("Expected description field fallback, got: %q", items[1].Summary)
	}
}

func TestAPIAdapterWrappedVideoPayload(t *testing.T) {
	body := `{"items": [
  {"title": "Briefing recording", "url": "https://videos.example.com/v/3", "duration": 540, "thumbnail": "https://videos.example.com/v/3.jpg", "date": "2026-01-06"}
]}`

	server := newTestServer(http.StatusOK, "application/json", body)
	defer server.Close()

	desc := Descriptor{Label: "videos", URL: server.URL, Kind: KindAPI, Emit: news.KindVideo}
	adapter := NewAPIAdapter(desc, server.Client(), "TestAgent/1.0")

	items, err := adapter.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got: %d", len(items))
	}
	if items[0].Kind != news.KindVideo {
		t.Errorf("Expected video kind, got: %q", items[0].Kind)
	}
	if items[0].DurationSeconds != 540 {
		t.Errorf("Expected duration 540, got: %d", items[0].DurationSeconds)
	}
	if items[0].ThumbnailURL == "" {
		t.Error("Expected thumbnail URL")
	}
}

func TestAPIAdapterInvalidJSON(t *testing.T) {
	server := newTestServer(http.StatusOK, "application/json", "not json at all")
	defer server.Close()

	adapter := NewAPIAdapter(Descriptor{Label: "wire", URL: server.URL, Kind: KindAPI}, server.Client(), "TestAgent/1.0")

	_, err := adapter.Fetch(context.Background())
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *FetchError, got: %v", err)
	}
	if fetchErr.Op != "parse" {
		t.Errorf("Expected parse op, got: %q", fetchErr.Op)
	}
}

func TestNewAdapterKinds(t *testing.T) {
	client := &http.Client{}

	for _, kind := range []Kind{KindFeed, KindAPI} {
		if _, err := NewAdapter(Descriptor{Label: "x", URL: "https://example.com", Kind: kind}, client, "ua"); err != nil {
			t.Errorf("Expected adapter for kind %s, got error: %v", kind, err)
		}
	}

	scrapeDesc := Descriptor{
		Label: "x", URL: "https://example.com", Kind: KindScrape,
		Rules: &ScrapeRules{Container: "div", Title: "h2"},
	}
	if _, err := NewAdapter(scrapeDesc, client, "ua"); err != nil {
		t.Errorf("Expected scrape adapter, got error: %v", err)
	}

	if _, err := NewAdapter(Descriptor{Kind: "bogus"}, client, "ua"); err == nil {
		t.Error("Expected error for unknown kind")
	}
}
