package store

import (
	"context"
	"time"

	"github.com/akardan/newsbrief/app/news"
)

// Store is the persistence boundary for the acquisition pipeline and the
// read-only retrieval path. The merged collection is authoritative for
// listing; per-item records are best-effort survivors of collection expiry.
type Store interface {
	LoadCollection(ctx context.Context) ([]news.Item, error)
	SaveCollection(ctx context.Context, items []news.Item, ttl time.Duration) error
	SaveItem(ctx context.Context, item news.Item, ttl time.Duration) error
	LoadMetadata(ctx context.Context) (*news.RunMetadata, error)
	SaveMetadata(ctx context.Context, meta news.RunMetadata, ttl time.Duration) error
	AcquireRunLock(ctx context.Context, ttl time.Duration) (bool, error)
	ReleaseRunLock(ctx context.Context) error
}

var _ Store = (*RedisStore)(nil)
