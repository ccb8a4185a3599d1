package news

import (
	"sort"
)

// Merge combines the persisted collection with a freshly fetched batch.
// Items already present by URL win over same-URL incoming items, the
// result is sorted descending by publish time (stable on ties) and
// truncated to MaxCollectionSize. The function performs no I/O and keeps
// no state, so merging an identical batch twice changes nothing.
func Merge(existing, incoming []Item) []Item {
	seen := make(map[string]bool, len(existing))
	for _, item := range existing {
		seen[item.URL] = true
	}

	merged := make([]Item, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)

	for _, item := range incoming {
		if seen[item.URL] {
			continue
		}
		seen[item.URL] = true
		merged = append(merged, item)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedAt.After(merged[j].PublishedAt)
	})

	if len(merged) > MaxCollectionSize {
		merged = merged[:MaxCollectionSize]
	}

	return merged
}
