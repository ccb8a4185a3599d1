package news

import (
	"testing"
	"time"
)

func TestNormalizeBasic(t *testing.T) {
	normalizer := NewNormalizer()

	raw := RawItem{
		Title:       "  <b>Breaking</b> &amp; entering  ",
		URL:         "https://www.example.com/articles/1",
		Summary:     "<p>Some\n\n summary   text</p>",
		PublishedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	item, err := normalizer.Run(raw, "https://www.example.com")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if item.Title != "Breaking & entering" {
		t.Errorf("Expected cleaned title, got: %q", item.Title)
	}
	if item.Summary != "Some summary text" {
		t.Errorf("Expected cleaned summary, got: %q", item.Summary)
	}
	if item.Source != "example.com" {
		t.Errorf("Expected source 'example.com', got: %q", item.Source)
	}
	if item.URL != "https://www.example.com/articles/1" {
		t.Errorf("Unexpected URL: %q", item.URL)
	}
	if item.Kind != KindText {
		t.Errorf("Expected default kind text, got: %q", item.Kind)
	}
	if !item.PublishedAt.Equal(raw.PublishedAt) {
		t.Errorf("Expected published at %v, got: %v", raw.PublishedAt, item.PublishedAt)
	}
}

func TestNormalizeResolvesRelativeURL(t *testing.T) {
	normalizer := NewNormalizer()

	raw := RawItem{
		Title: "Relative link",
		URL:   "/news/42",
	}

	item, err := normalizer.Run(raw, "https://news.example.org/section/")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if item.URL != "https://news.example.org/news/42" {
		t.Errorf("Expected resolved URL, got: %q", item.URL)
	}
	if item.Source != "news.example.org" {
		t.Errorf("Expected source from resolved authority, got: %q", item.Source)
	}
}

func TestNormalizeDefaultsPublishedAt(t *testing.T) {
	normalizer := NewNormalizer()

	before := time.Now().UTC()
	item, err := normalizer.Run(RawItem{Title: "No date", URL: "https://example.com/x"}, "https://example.com")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if item.PublishedAt.Before(before) {
		t.Errorf("Expected published at to default to acquisition time, got: %v", item.PublishedAt)
	}
}

func TestNormalizeRejectsUntitled(t *testing.T) {
	normalizer := NewNormalizer()

	_, err := normalizer.Run(RawItem{Title: "<span> </span>", URL: "https://example.com/x"}, "https://example.com")
	if err == nil {
		t.Error("Expected error for item with no title after cleanup")
	}
}

func TestGenerateIDStable(t *testing.T) {
	normalizer := NewNormalizer()

	raw1 := RawItem{Title: "First run title", URL: "https://example.com/story#section"}
	raw2 := RawItem{Title: "Second run, different title", URL: "https://example.com/story"}

	item1, err := normalizer.Run(raw1, "https://example.com")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	item2, err := normalizer.Run(raw2, "https://example.com")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if item1.ID != item2.ID {
		t.Errorf("Expected identical IDs for the same normalized URL, got %q and %q", item1.ID, item2.ID)
	}
	if item1.ID != GenerateID("https://example.com/story") {
		t.Errorf("Expected ID to be a pure function of the URL")
	}
}

func TestNormalizeVideoFields(t *testing.T) {
	normalizer := NewNormalizer()

	raw := RawItem{
		Kind:            KindVideo,
		Title:           "Press briefing",
		URL:             "https://videos.example.com/v/9",
		DurationSeconds: 320,
		ThumbnailURL:    "https://videos.example.com/v/9/thumb.jpg",
	}

	item, err := normalizer.Run(raw, "https://videos.example.com")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if item.Kind != KindVideo {
		t.Errorf("Expected kind video, got: %q", item.Kind)
	}
	if item.DurationSeconds != 320 {
		t.Errorf("Expected duration 320, got: %d", item.DurationSeconds)
	}
	if item.ThumbnailURL == "" {
		t.Error("Expected thumbnail URL to be carried over")
	}
}
