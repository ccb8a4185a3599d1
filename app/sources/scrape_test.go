package sources

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func scrapeDescriptor(url string) Descriptor {
	return Descriptor{
		Label: "bulletin",
		URL:   url,
		Kind:  KindScrape,
		Rules: &ScrapeRules{
			Container: "div.article",
			Title:     "h2",
			Link:      "a.read-more",
			Date:      "time",
			Summary:   "p.teaser",
		},
	}
}

func TestScrapeAdapterFetch(t *testing.T) {
	htmlData := `<html><body>
<div class="article">
  <h2>Council adopts new rules</h2>
  <p class="teaser">The council voted on Tuesday.</p>
  <time datetime="2026-02-10T09:30:00Z">Feb 10</time>
  <a class="read-more" href="/bulletin/rules">Read more</a>
</div>
<div class="article">
  <h2>Untitled teaser only</h2>
  <p class="teaser">No link on this one.</p>
</div>
<div class="article">
  <h2>Second story</h2>
  <a class="read-more" href="https://other.example.net/second">Read</a>
</div>
</body></html>`

	server := newTestServer(http.StatusOK, "text/html", htmlData)
	defer server.Close()

	adapter := NewScrapeAdapter(scrapeDescriptor(server.URL), server.Client(), "TestAgent/1.0")

	items, err := adapter.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 items (linkless entry skipped), got: %d", len(items))
	}

	first := items[0]
	if first.Title != "Council adopts new rules" {
		t.Errorf("Expected title from selector, got: %q", first.Title)
	}
	if first.URL != "/bulletin/rules" {
		t.Errorf("Expected raw relative link, got: %q", first.URL)
	}
	if first.Summary != "The council voted on Tuesday." {
		t.Errorf("Expected teaser summary, got: %q", first.Summary)
	}
	expected := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)
	if !first.PublishedAt.Equal(expected) {
		t.Errorf("Expected datetime attribute parsed, got: %v", first.PublishedAt)
	}

	if items[1].URL != "https://other.example.net/second" {
		t.Errorf("Expected absolute link kept as-is, got: %q", items[1].URL)
	}
}

func TestScrapeAdapterZeroMatches(t *testing.T) {
	server := newTestServer(http.StatusOK, "text/html", "<html><body><p>nothing here</p></body></html>")
	defer server.Close()

	adapter := NewScrapeAdapter(scrapeDescriptor(server.URL), server.Client(), "TestAgent/1.0")

	_, err := adapter.Fetch(context.Background())
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *FetchError for zero matches, got: %v", err)
	}
	if fetchErr.Op != "extract" {
		t.Errorf("Expected extract op, got: %q", fetchErr.Op)
	}
}

func TestScrapeAdapterDateFormat(t *testing.T) {
	htmlData := `<html><body>
<div class="article">
  <h2>Dated story</h2>
  <time>10.02.2026</time>
  <a class="read-more" href="/x">Read</a>
</div>
</body></html>`

	server := newTestServer(http.StatusOK, "text/html", htmlData)
	defer server.Close()

	desc := scrapeDescriptor(server.URL)
	desc.Rules.DateFormat = "02.01.2006"

	adapter := NewScrapeAdapter(desc, server.Client(), "TestAgent/1.0")

	items, err := adapter.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	if !items[0].PublishedAt.Equal(expected) {
		t.Errorf("Expected configured format parsed, got: %v", items[0].PublishedAt)
	}
}

func TestScrapeAdapterContainerAnchor(t *testing.T) {
	htmlData := `<html><body>
<a class="card" href="/stories/7"><h3>Anchor container</h3></a>
</body></html>`

	server := newTestServer(http.StatusOK, "text/html", htmlData)
	defer server.Close()

	desc := Descriptor{
		Label: "cards",
		URL:   server.URL,
		Kind:  KindScrape,
		Rules: &ScrapeRules{Container: "a.card", Title: "h3"},
	}

	adapter := NewScrapeAdapter(desc, server.Client(), "TestAgent/1.0")

	items, err := adapter.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if items[0].URL != "/stories/7" {
		t.Errorf("Expected href from the container anchor, got: %q", items[0].URL)
	}
}
