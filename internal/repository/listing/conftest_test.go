package listing

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dalil-cloud/dalil/internal/db"
	"github.com/dalil-cloud/dalil/internal/domain"
)

type mockSource struct {
	records []domain.Business
	err     error
	calls   int
}

func (m *mockSource) Fetch(_ context.Context, _ domain.FetchHint) ([]domain.Business, error) {
	m.calls++
	return m.records, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedSource(t *testing.T, inner *mockSource) (*CachedSource, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	cs := NewCached(inner, ms, time.Minute, nil, zap.NewNop())
	return cs, ms
}
