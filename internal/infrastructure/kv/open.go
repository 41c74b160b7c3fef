package kv

import (
	"context"
	"fmt"

	"github.com/example/litebay/internal/config"
)

// Open connects the backend selected by cfg
func Open(ctx context.Context, cfg config.StorageConfig) (ClosableStore, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case config.BackendPostgres:
		db, err := ConnectPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		store, err := NewPostgresStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to prepare kv_store table: %w", err)
		}
		return store, nil
	case config.BackendRedis:
		return DialRedis(ctx, cfg.RedisAddr, cfg.RedisPrefix)
	case config.BackendDynamoDB:
		return DialDynamo(ctx, cfg.DynamoTable)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}
}
