package client

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/akardan/newsbrief/app/news"
)

// Bundled last-resort snapshot, compiled into the binary so the fallback
// chain always has something to show.
//
//go:embed snapshot_default.json
var defaultSnapshot []byte

// Snapshot is the bundled static document the client falls back to. Its
// item schema is a subset-compatible shape of news.Item.
type Snapshot struct {
	Version     string      `json:"version"`
	GeneratedAt time.Time   `json:"generatedAt"`
	Items       []news.Item `json:"items"`
}

// SnapshotCache memoizes the parsed snapshot. It is an explicit injected
// object with defined invalidation, not ambient package state.
type SnapshotCache struct {
	path string

	mu   sync.Mutex
	snap *Snapshot
}

// NewSnapshotCache creates a cache over the snapshot document at path. An
// empty path, or a missing/unreadable file, falls back to the bundled
// snapshot.
func NewSnapshotCache(path string) *SnapshotCache {
	return &SnapshotCache{path: path}
}

func (c *SnapshotCache) Load() (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap != nil {
		return c.snap, nil
	}

	snap, err := c.read()
	if err != nil {
		return nil, err
	}

	c.snap = snap
	return snap, nil
}

// Clear drops the memoized snapshot; the next Load re-reads the source.
func (c *SnapshotCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = nil
}

func (c *SnapshotCache) read() (*Snapshot, error) {
	data := defaultSnapshot

	if c.path != "" {
		fileData, err := os.ReadFile(c.path)
		if err != nil {
			slog.Debug("Snapshot file unreadable, using bundled copy", "path", c.path, "error", err)
		} else {
			data = fileData
		}
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	if len(snap.Items) == 0 {
		return nil, fmt.Errorf("snapshot contains no items")
	}

	return &snap, nil
}
