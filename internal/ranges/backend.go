package ranges

import (
	"context"
	"errors"
	"fmt"

	"github.com/rileyhilliard/vitals/internal/config"
)

// ErrNotFound is returned by Backend.Get when the key has never been written.
// This is a sentinel error that can be checked with errors.Is().
var ErrNotFound = errors.New("key not found")

// Backend is durable key/value storage for the range configuration.
// Put must not return until the value survives a process crash.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open builds the backend selected by the storage config.
func Open(ctx context.Context, cfg config.StorageConfig) (Backend, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		return NewFileBackend(cfg.Path), nil
	case config.BackendRedis:
		return DialRedis(ctx, cfg.Redis)
	case config.BackendPostgres:
		return OpenPostgres(ctx, cfg.Postgres)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
