package news

import (
	"testing"
)

func TestTaggerMatchesVocabularies(t *testing.T) {
	tagger := NewTagger([]Vocabulary{
		{Tag: "policy", Terms: []string{"regulation", "ruling"}},
		{Tag: "europe", Terms: []string{"brussels", "european union"}},
	})

	tags := tagger.Run("New REGULATION announced in Brussels today")

	if len(tags) != 2 {
		t.Fatalf("Expected 2 tags, got: %v", tags)
	}
	if tags[0] != "europe" || tags[1] != "policy" {
		t.Errorf("Expected sorted tags [europe policy], got: %v", tags)
	}
}

func TestTaggerNoMatches(t *testing.T) {
	tagger := NewTagger([]Vocabulary{
		{Tag: "policy", Terms: []string{"regulation"}},
	})

	if tags := tagger.Run("nothing relevant here"); tags != nil {
		t.Errorf("Expected nil tag set, got: %v", tags)
	}
}

func TestTaggerTagYieldedOnce(t *testing.T) {
	tagger := NewTagger([]Vocabulary{
		{Tag: "policy", Terms: []string{"regulation", "legislation"}},
	})

	tags := tagger.Run("regulation and legislation, plus more regulation")
	if len(tags) != 1 || tags[0] != "policy" {
		t.Errorf("Expected exactly one 'policy' tag, got: %v", tags)
	}
}

func TestTaggerDefaultsApplied(t *testing.T) {
	tagger := NewTagger(nil)

	tags := tagger.Run("Cybersecurity investment rises across Asia")

	expected := map[string]bool{"technology": true, "business": true, "asia": true}
	if len(tags) != len(expected) {
		t.Fatalf("Expected %d tags, got: %v", len(expected), tags)
	}
	for _, tag := range tags {
		if !expected[tag] {
			t.Errorf("Unexpected tag: %s", tag)
		}
	}
}
