// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package interaction

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/config"
)

// Deps carries the shared connections a backend may need.
// Only the one matching the selected backend has to be set.
type Deps struct {
	Pool   *pgxpool.Pool
	Redis  redis.UniversalClient
	Badger *badger.DB
}

// NewStore creates the store for the configured backend.
//
// In production the in-memory backend is refused: interactions would
// vanish on every restart.
func NewStore(backend string, deps Deps, isProd bool) (Store, error) {
	switch backend {
	case config.BackendPostgres:
		if deps.Pool == nil {
			return nil, errors.New("interaction: postgres backend requires a database pool")
		}
		return NewPostgresStore(deps.Pool), nil

	case config.BackendRedis:
		if deps.Redis == nil {
			return nil, errors.New("interaction: redis backend requires a redis client")
		}
		return NewRedisStore(deps.Redis), nil

	case config.BackendBadger:
		if deps.Badger == nil {
			return nil, errors.New("interaction: badger backend requires an open database")
		}
		return NewBadgerStore(deps.Badger), nil

	case config.BackendMemory, "":
		if isProd {
			return nil, errors.New("interaction: in-memory store is not allowed in production")
		}
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("interaction: unknown backend %q", backend)
	}
}
