package repository

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/glimpse/internal/metrics"
)

// ErrKeyNotFound is returned by Get when nothing is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// KVRepoIface represents a persisted key/value store holding small JSON documents
// such as the bookmark set and the session token.
type KVRepoIface interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// Repository is the PostgreSQL backed KVRepoIface.
type Repository struct {
	db      Database
	metrics *metrics.Metrics
}

func NewKVRepository(db Database, metrics *metrics.Metrics) KVRepoIface {
	return &Repository{db: db, metrics: metrics}
}
