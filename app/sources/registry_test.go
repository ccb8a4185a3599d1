package sources

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSourcesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write sources file: %v", err)
	}
	return path
}

func TestRegistryLoad(t *testing.T) {
	path := writeSourcesFile(t, `
sources:
  - label: courthouse
    url: https://courthouse.example.com/feed.xml
    kind: feed
  - label: gazette
    url: https://gazette.example.org/news
    kind: scrape
    extract_summary: true
    rules:
      container: div.article
      title: h2
      link: a
      date: time
  - label: videos
    url: https://videos.example.com/api/latest
    kind: api
    emit: video
vocabularies:
  - tag: policy
    terms: [regulation, ruling]
`)

	registry := NewRegistry(path)
	if err := registry.Run(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if registry.Count() != 3 {
		t.Fatalf("Expected 3 sources, got: %d", registry.Count())
	}

	srcs := registry.Sources()
	if srcs[0].Kind != KindFeed || srcs[1].Kind != KindScrape || srcs[2].Kind != KindAPI {
		t.Errorf("Unexpected source kinds: %v, %v, %v", srcs[0].Kind, srcs[1].Kind, srcs[2].Kind)
	}
	if !srcs[1].ExtractSummary {
		t.Error("Expected extract_summary flag on the scrape source")
	}
	if srcs[2].Emit != "video" {
		t.Errorf("Expected video emit kind, got: %q", srcs[2].Emit)
	}

	vocabs := registry.Vocabularies()
	if len(vocabs) != 1 || vocabs[0].Tag != "policy" {
		t.Errorf("Expected one policy vocabulary, got: %v", vocabs)
	}
}

func TestRegistryValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"empty", "sources: []"},
		{"missing label", "sources:\n  - url: https://example.com\n    kind: feed"},
		{"missing url", "sources:\n  - label: x\n    kind: feed"},
		{"bad kind", "sources:\n  - label: x\n    url: https://example.com\n    kind: carrier-pigeon"},
		{"scrape without rules", "sources:\n  - label: x\n    url: https://example.com\n    kind: scrape"},
		{"scrape without title selector", "sources:\n  - label: x\n    url: https://example.com\n    kind: scrape\n    rules:\n      container: div"},
		{"bad emit", "sources:\n  - label: x\n    url: https://example.com\n    kind: api\n    emit: audio"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			registry := NewRegistry(writeSourcesFile(t, tc.content))
			if err := registry.Run(); err == nil {
				t.Errorf("Expected validation error for %s", tc.name)
			}
		})
	}
}

func TestRegistryMissingFile(t *testing.T) {
	registry := NewRegistry(filepath.Join(t.TempDir(), "absent.yml"))
	if err := registry.Run(); err == nil {
		t.Error("Expected error for missing sources file")
	}
}

func TestRegistrySourcesCopy(t *testing.T) {
	path := writeSourcesFile(t, `
sources:
  - label: one
    url: https://example.com/feed
    kind: feed
`)

	registry := NewRegistry(path)
	if err := registry.Run(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	srcs := registry.Sources()
	srcs[0].Label = "mutated"

	if registry.Sources()[0].Label != "one" {
		t.Error("Expected registry contents to be immutable to callers")
	}
}
