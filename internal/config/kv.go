package config

import (
	"context"
	"fmt"

	"github.com/abhisek/mathquest/internal/completion"
	"github.com/abhisek/mathquest/internal/store"
)

// OpenKV returns the key-value backend selected by c and a function that
// releases it. The sqlite backend reuses st.
func OpenKV(ctx context.Context, c StoreConfig, st *store.Store) (completion.KV, func() error, error) {
	noop := func() error { return nil }

	switch c.Backend {
	case BackendSQLite, "":
		if st == nil {
			return nil, nil, fmt.Errorf("sqlite backend requires an open store")
		}
		return st.KV(), noop, nil
	case BackendMemory:
		return store.NewMemoryKV(), noop, nil
	case BackendPostgres:
		kv, err := store.NewPostgresKV(ctx, c.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres kv: %w", err)
		}
		return kv, kv.Close, nil
	case BackendRedis:
		kv, err := store.NewRedisKV(ctx, c.RedisURL, c.RedisPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis kv: %w", err)
		}
		return kv, kv.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", c.Backend)
	}
}
