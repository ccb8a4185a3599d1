package client

import (
	"sort"
	"strings"

	"github.com/akardan/newsbrief/app/news"
)

// Weights is the externally supplied scoring configuration the
// presentation layer applies on top of the recency-ordered collection.
// The aggregation core never computes relevance.
type Weights struct {
	Keywords  map[string]float64
	Tags      map[string]float64
	Sources   map[string]float64
	KindBoost map[news.Kind]float64
}

// Score is a pure function over the item variant: keyword hits in
// title+summary, tag and source weights, plus a per-kind boost.
func Score(item news.Item, w Weights) float64 {
	var score float64

	text := strings.ToLower(item.Title + " " + item.Summary)
	for keyword, weight := range w.Keywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			score += weight
		}
	}

	for _, tag := range item.Tags {
		score += w.Tags[tag]
	}

	score += w.Sources[item.Source]
	score += w.KindBoost[item.Kind]

	return score
}

// Rank returns a copy of items ordered by descending score. Ties keep the
// input (recency) order, so an all-zero weight table is a no-op.
func Rank(items []news.Item, w Weights) []news.Item {
	ranked := make([]news.Item, len(items))
	copy(ranked, items)

	sort.SliceStable(ranked, func(i, j int) bool {
		return Score(ranked[i], w) > Score(ranked[j], w)
	})

	return ranked
}
