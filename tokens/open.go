package tokens

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"teamup-notifier/config"
)

// Open строит хранилище токена по конфигурации. closeFn освобождает ресурсы хранилища.
func Open(ctx context.Context, cfg config.Config) (store TokenStore, closeFn func(), err error) {
	switch cfg.Store.Kind {
	case config.StoreFile:
		return FileTokenStore{Path: cfg.Store.FilePath}, func() {}, nil

	case config.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.Postgres.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		pgStore := NewPostgresTokenStore(pool, 5*time.Second)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pgStore, pool.Close, nil

	default:
		return NewBagStore(nil), func() {}, nil
	}
}
