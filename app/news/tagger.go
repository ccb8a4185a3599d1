package news

import (
	"sort"
	"strings"
)

// Vocabulary maps a topic tag to the terms that imply it. Matching is
// case-insensitive substring presence; any matching term yields the tag
// exactly once.
type Vocabulary struct {
	Tag   string   `yaml:"tag"`
	Terms []string `yaml:"terms"`
}

// DefaultVocabularies covers the topics the service ships with. Sources
// configuration may replace them wholesale.
func DefaultVocabularies() []Vocabulary {
	return []Vocabulary{
		{Tag: "policy", Terms: []string{"policy", "regulation", "legislation", "ruling", "court", "ministry"}},
		{Tag: "business", Terms: []string{"market", "economy", "trade", "merger", "startup", "investment"}},
		{Tag: "technology", Terms: []string{"software", "artificial intelligence", " ai ", "cybersecurity", "data"}},
		{Tag: "europe", Terms: []string{"europe", "european union", " eu ", "brussels"}},
		{Tag: "americas", Terms: []string{"united states", "u.s.", "canada", "latin america"}},
		{Tag: "asia", Terms: []string{"asia", "china", "japan", "india", "singapore"}},
	}
}

type Tagger struct {
	vocabularies []Vocabulary
}

func NewTagger(vocabularies []Vocabulary) *Tagger {
	if len(vocabularies) == 0 {
		vocabularies = DefaultVocabularies()
	}
	return &Tagger{vocabularies: vocabularies}
}

// Run derives the tag set for the given text. Categories match
// independently and results are unioned; the returned slice is sorted so
// the set has a stable representation.
func (t *Tagger) Run(text string) []string {
	haystack := " " + strings.ToLower(text) + " "

	seen := make(map[string]bool)
	for _, vocab := range t.vocabularies {
		if seen[vocab.Tag] {
			continue
		}
		for _, term := range vocab.Terms {
			if strings.Contains(haystack, strings.ToLower(term)) {
				seen[vocab.Tag] = true
				break
			}
		}
	}

	if len(seen) == 0 {
		return nil
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
