package tokens

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRow struct {
	values []*string
	err    error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		*(d.(**string)) = r.values[i]
	}
	return nil
}

type stubBatchResults struct {
	err error
}

func (s *stubBatchResults) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, s.err }
func (s *stubBatchResults) Query() (pgx.Rows, error)         { return nil, s.err }
func (s *stubBatchResults) QueryRow() pgx.Row                { return nil }
func (s *stubBatchResults) Close() error                     { return s.err }

type stubDB struct {
	mu       sync.Mutex
	row      stubRow
	batchErr error
	execs    []string
	queries  []string
	batches  [][]*pgx.QueuedQuery
}

func (s *stubDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.execs = append(s.execs, sql)
	return pgconn.CommandTag{}, nil
}

func (s *stubDB) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, sql)
	return s.row
}

func (s *stubDB) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, append([]*pgx.QueuedQuery(nil), b.QueuedQueries...))
	return &stubBatchResults{err: s.batchErr}
}

func strPtr(s string) *string { return &s }

func TestPostgresTokenStoreLoad(t *testing.T) {
	db := &stubDB{row: stubRow{values: []*string{strPtr("abc"), strPtr("1700000000")}}}
	store := newPostgresTokenStore(db, time.Second)

	token, err := store.LoadToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Token{Access: "abc", ExpiresAt: 1700000000}, token)
	assert.Len(t, db.queries, 1)
}

func TestPostgresTokenStoreLoadMissingRow(t *testing.T) {
	db := &stubDB{row: stubRow{values: []*string{strPtr("abc"), nil}}}

	token, err := newPostgresTokenStore(db, time.Second).LoadToken(context.Background())
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestPostgresTokenStoreLoadBadExpiry(t *testing.T) {
	db := &stubDB{row: stubRow{values: []*string{strPtr("abc"), strPtr("later")}}}

	_, err := newPostgresTokenStore(db, time.Second).LoadToken(context.Background())
	require.Error(t, err)
}

func TestPostgresTokenStoreLoadQueryError(t *testing.T) {
	queryErr := errors.New("connection refused")
	db := &stubDB{row: stubRow{err: queryErr}}

	_, err := newPostgresTokenStore(db, time.Second).LoadToken(context.Background())
	require.ErrorIs(t, err, queryErr)
}

func TestPostgresTokenStoreSaveQueuesBothKeysInOneBatch(t *testing.T) {
	db := &stubDB{}
	store := newPostgresTokenStore(db, time.Second)

	require.NoError(t, store.SaveToken(context.Background(), Token{Access: "abc", ExpiresAt: 1700000000}))

	require.Len(t, db.batches, 1)
	batch := db.batches[0]
	require.Len(t, batch, 2)
	assert.Equal(t, []any{KeyAccessToken, "abc"}, batch[0].Arguments)
	assert.Equal(t, []any{KeyExpiresSeconds, "1700000000"}, batch[1].Arguments)
}

func TestPostgresTokenStoreSaveError(t *testing.T) {
	batchErr := errors.New("unique violation")
	db := &stubDB{batchErr: batchErr}

	err := newPostgresTokenStore(db, time.Second).SaveToken(context.Background(), Token{Access: "abc"})
	require.ErrorIs(t, err, batchErr)
}

func TestPostgresTokenStoreEnsureSchema(t *testing.T) {
	db := &stubDB{}

	require.NoError(t, newPostgresTokenStore(db, 0).EnsureSchema(context.Background()))
	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0], "teamup_static_data")
}
