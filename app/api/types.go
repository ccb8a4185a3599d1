package api

import (
	"context"
	"time"

	"github.com/akardan/newsbrief/app/news"
	"github.com/akardan/newsbrief/app/store"
	"github.com/akardan/newsbrief/app/tasks"
)

// StoreInterface is the read-only slice of the store the API needs. The
// retrieval endpoint never triggers acquisition and never locks.
type StoreInterface interface {
	LoadCollection(ctx context.Context) ([]news.Item, error)
	LoadMetadata(ctx context.Context) (*news.RunMetadata, error)
	Ping(ctx context.Context) error
}

var _ StoreInterface = (*store.RedisStore)(nil)

type TriggerInterface interface {
	Run(ctx context.Context, trigger tasks.Trigger) (*tasks.RunResult, error)
}

var _ TriggerInterface = (*tasks.Runner)(nil)

type Handler struct {
	store       StoreInterface
	runner      TriggerInterface
	sourceCount int
}

type NewsResponse struct {
	Success       bool        `json:"success"`
	Count         int         `json:"count"`
	Items         []news.Item `json:"items"`
	LastTriggerAt *time.Time  `json:"lastTriggerAt,omitempty"`
}

type RefreshResponse struct {
	Success   bool      `json:"success"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
