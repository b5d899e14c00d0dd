package tokens

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
create table if not exists teamup_static_data (
  key        text primary key,
  value      text not null,
  updated_at timestamptz not null default now()
);`

const loadSQL = `
select
  max(value) filter (where key = $1),
  max(value) filter (where key = $2)
from teamup_static_data
where key in ($1, $2);`

const upsertSQL = `
insert into teamup_static_data (key, value, updated_at)
values ($1, $2, now())
on conflict (key) do update set value = excluded.value, updated_at = excluded.updated_at;`

type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PostgresTokenStore хранит ключи StaticData строками таблицы teamup_static_data.
type PostgresTokenStore struct {
	db      pgQuerier
	timeout time.Duration
}

// NewPostgresTokenStore создаёт хранилище поверх пула pgx.
func NewPostgresTokenStore(pool *pgxpool.Pool, timeout time.Duration) *PostgresTokenStore {
	return newPostgresTokenStore(pool, timeout)
}

func newPostgresTokenStore(db pgQuerier, timeout time.Duration) *PostgresTokenStore {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PostgresTokenStore{db: db, timeout: timeout}
}

// EnsureSchema создаёт таблицу, если её ещё нет.
func (s *PostgresTokenStore) EnsureSchema(ctx context.Context) error {
	dbCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.Exec(dbCtx, schemaSQL); err != nil {
		return fmt.Errorf("ensure token schema: %w", err)
	}
	return nil
}

// LoadToken читает обе строки одним запросом; если хотя бы одной нет, токена нет.
func (s *PostgresTokenStore) LoadToken(ctx context.Context) (*Token, error) {
	dbCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var access, expires *string
	if err := s.db.QueryRow(dbCtx, loadSQL, KeyAccessToken, KeyExpiresSeconds).Scan(&access, &expires); err != nil {
		return nil, fmt.Errorf("load token: query: %w", err)
	}
	if access == nil || expires == nil {
		return nil, nil
	}

	expiresAt, err := strconv.ParseInt(*expires, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("load token: parse %s: %w", KeyExpiresSeconds, err)
	}

	return &Token{Access: *access, ExpiresAt: expiresAt}, nil
}

// SaveToken пишет обе строки одним pgx.Batch, который выполняется неявной транзакцией.
func (s *PostgresTokenStore) SaveToken(ctx context.Context, token Token) error {
	dbCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	batch := &pgx.Batch{}
	batch.Queue(upsertSQL, KeyAccessToken, token.Access)
	batch.Queue(upsertSQL, KeyExpiresSeconds, strconv.FormatInt(token.ExpiresAt, 10))

	br := s.db.SendBatch(dbCtx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}
