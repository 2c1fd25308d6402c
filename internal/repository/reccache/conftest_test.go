package reccache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hearthside/cartfill/internal/db"
	"github.com/hearthside/cartfill/internal/domain"
)

type mockRecommender struct {
	suggestions []domain.Suggestion
	err         error
	itemCalls   int
	custCalls   int
}

func (m *mockRecommender) SuggestForItem(_ context.Context, _ string, _ int) ([]domain.Suggestion, error) {
	m.itemCalls++
	return m.suggestions, m.err
}

func (m *mockRecommender) AdditionalRecommendations(_ context.Context, _ string, _ int) ([]domain.Suggestion, error) {
	m.custCalls++
	return m.suggestions, m.err
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

func newTestCachedRecommender(t *testing.T, inner *mockRecommender) (*CachedRecommender, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	cr := New(inner, ms, 5*time.Minute, nil, zap.NewNop())
	return cr, ms
}
