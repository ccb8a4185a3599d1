package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akardan/newsbrief/app/news"
)

const (
	collectionKey = "news:collection"
	metadataKey   = "news:meta"
	runLockKey    = "news:runlock"
	itemKeyPrefix = "news:item:"
)

// ErrUnavailable marks store transport failures. A run that hits it fails
// as a whole; previously committed data stays readable once the store
// recovers.
var ErrUnavailable = errors.New("store unavailable")

type RedisStore struct {
	client *redis.Client
}

func New(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	return &RedisStore{client: client}, nil
}

// NewWithClient wraps an existing client; used by tests.
func NewWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// LoadCollection returns the persisted merged collection, or an empty slice
// when the key is absent or expired.
func (s *RedisStore) LoadCollection(ctx context.Context) ([]news.Item, error) {
	data, err := s.client.Get(ctx, collectionKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("failed to load collection", err)
	}

	var items []news.Item
	if err := json.Unmarshal(data, &items); err != nil {
		// Corrupt payload is treated as absence, not as a fatal error.
		return nil, nil
	}
	return items, nil
}

func (s *RedisStore) SaveCollection(ctx context.Context, items []news.Item, ttl time.Duration) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}

	if err := s.client.Set(ctx, collectionKey, data, ttl).Err(); err != nil {
		return unavailable("failed to save collection", err)
	}
	return nil
}

func (s *RedisStore) SaveItem(ctx context.Context, item news.Item, ttl time.Duration) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item %s: %w", item.ID, err)
	}

	if err := s.client.Set(ctx, itemKeyPrefix+item.ID, data, ttl).Err(); err != nil {
		return unavailable(fmt.Sprintf("failed to save item %s", item.ID), err)
	}
	return nil
}

// LoadItem returns a single per-id item record, or nil when absent.
func (s *RedisStore) LoadItem(ctx context.Context, id string) (*news.Item, error) {
	data, err := s.client.Get(ctx, itemKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable(fmt.Sprintf("failed to load item %s", id), err)
	}

	var item news.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, nil
	}
	return &item, nil
}

func (s *RedisStore) LoadMetadata(ctx context.Context) (*news.RunMetadata, error) {
	data, err := s.client.Get(ctx, metadataKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("failed to load metadata", err)
	}

	var meta news.RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, nil
	}
	return &meta, nil
}

func (s *RedisStore) SaveMetadata(ctx context.Context, meta news.RunMetadata, ttl time.Duration) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := s.client.Set(ctx, metadataKey, data, ttl).Err(); err != nil {
		return unavailable("failed to save metadata", err)
	}
	return nil
}

// AcquireRunLock takes the acquisition lock via SET NX. The TTL is a safety
// valve so a crashed run cannot wedge the trigger surface forever.
func (s *RedisStore) AcquireRunLock(ctx context.Context, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, runLockKey, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, unavailable("failed to acquire run lock", err)
	}
	return ok, nil
}

func (s *RedisStore) ReleaseRunLock(ctx context.Context) error {
	if err := s.client.Del(ctx, runLockKey).Err(); err != nil {
		return unavailable("failed to release run lock", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return unavailable("ping failed", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func unavailable(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, ErrUnavailable, err)
}
