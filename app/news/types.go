package news

import (
	"time"
)

// MaxCollectionSize bounds the merged collection; merge drops the oldest
// entries beyond it.
const MaxCollectionSize = 100

type Kind string

const (
	KindText  Kind = "text"
	KindVideo Kind = "video"
)

// Item is the canonical unit produced by normalization. ID is derived from
// the normalized URL, so two items with the same URL are the same item for
// merge purposes.
type Item struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
	Tags        []string  `json:"tags,omitempty"`

	// Video-only fields
	DurationSeconds int    `json:"durationSeconds,omitempty"`
	ThumbnailURL    string `json:"thumbnailUrl,omitempty"`
}

// RawItem is what a source adapter emits before normalization. Only Title
// and URL are required; everything else is best effort.
type RawItem struct {
	Kind        Kind
	Title       string
	URL         string
	Summary     string
	PublishedAt time.Time

	DurationSeconds int
	ThumbnailURL    string
}

// RunMetadata describes the most recent completed acquisition run. It is
// written to the store as a single unit, never field by field.
type RunMetadata struct {
	LastFetchAt         time.Time `json:"lastFetchAt"`
	LastTriggerAt       time.Time `json:"lastTriggerAt"`
	TotalItems          int       `json:"totalItems"`
	ContributingSources []string  `json:"contributingSources"`
}
