package reccache

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/hearthside/cartfill/internal/domain"
)

var sampleSuggestions = []domain.Suggestion{
	{Item: "Grill Cover", Probability: 0.25, Similarity: 0.1, Score: 0.34, Support: 0.05},
	{Item: "Tongs", Probability: 0.2, Similarity: 0.05, Score: 0.3, Support: 0.04},
}

func TestCachedRecommender_MissComputesAndStores(t *testing.T) {
	inner := &mockRecommender{suggestions: sampleSuggestions}
	cr, ms := newTestCachedRecommender(t, inner)

	var storedKey string
	var storedVal []byte
	var storedTTL time.Duration
	ms.setFn = func(_ context.Context, key string, value []byte, ttl time.Duration) error {
		storedKey, storedVal, storedTTL = key, value, ttl
		return nil
	}

	got, err := cr.SuggestForItem(context.Background(), "Grill", 5)
	if err != nil {
		t.Fatalf("SuggestForItem: %v", err)
	}
	if !reflect.DeepEqual(got, sampleSuggestions) {
		t.Errorf("got %+v, want inner result", got)
	}
	if inner.itemCalls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.itemCalls)
	}
	if !strings.HasPrefix(storedKey, cacheKeyPrefix) {
		t.Errorf("cache key %q missing prefix", storedKey)
	}
	if storedTTL != 5*time.Minute {
		t.Errorf("ttl = %v, want 5m", storedTTL)
	}

	var roundTrip []domain.Suggestion
	if err := json.Unmarshal(storedVal, &roundTrip); err != nil {
		t.Fatalf("stored value not JSON: %v", err)
	}
	if !reflect.DeepEqual(roundTrip, sampleSuggestions) {
		t.Errorf("stored %+v, want %+v", roundTrip, sampleSuggestions)
	}
}

func TestCachedRecommender_HitSkipsInner(t *testing.T) {
	inner := &mockRecommender{suggestions: sampleSuggestions}
	cr, ms := newTestCachedRecommender(t, inner)

	cached, _ := json.Marshal(sampleSuggestions)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return cached, nil
	}

	got, err := cr.AdditionalRecommendations(context.Background(), "C1", 8)
	if err != nil {
		t.Fatalf("AdditionalRecommendations: %v", err)
	}
	if !reflect.DeepEqual(got, sampleSuggestions) {
		t.Errorf("got %+v, want cached result", got)
	}
	if inner.custCalls != 0 {
		t.Errorf("inner called %d times on a hit", inner.custCalls)
	}
}

func TestCachedRecommender_StoreFailureDegradesToCompute(t *testing.T) {
	inner := &mockRecommender{suggestions: sampleSuggestions}
	cr, ms := newTestCachedRecommender(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("connection refused")
	}
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return errors.New("connection refused")
	}

	got, err := cr.SuggestForItem(context.Background(), "Grill", 5)
	if err != nil {
		t.Fatalf("cache failure must not fail the request: %v", err)
	}
	if !reflect.DeepEqual(got, sampleSuggestions) {
		t.Errorf("got %+v, want inner result", got)
	}
}

func TestCachedRecommender_CorruptEntryRecomputes(t *testing.T) {
	inner := &mockRecommender{suggestions: sampleSuggestions}
	cr, ms := newTestCachedRecommender(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte("{corrupt"), nil
	}

	got, err := cr.SuggestForItem(context.Background(), "Grill", 5)
	if err != nil {
		t.Fatalf("SuggestForItem: %v", err)
	}
	if inner.itemCalls != 1 {
		t.Errorf("corrupt entry should recompute, inner calls = %d", inner.itemCalls)
	}
	if !reflect.DeepEqual(got, sampleSuggestions) {
		t.Errorf("got %+v, want recomputed result", got)
	}
}

func TestCachedRecommender_InnerErrorPropagates(t *testing.T) {
	wantErr := errors.New("bootstrap failed")
	inner := &mockRecommender{err: wantErr}
	cr, _ := newTestCachedRecommender(t, inner)

	if _, err := cr.SuggestForItem(context.Background(), "Grill", 5); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want inner error", err)
	}
}

func TestCacheKey_DistinguishesKindAnchorAndK(t *testing.T) {
	keys := map[string]bool{
		cacheKey("item", "Grill", 5):     true,
		cacheKey("customer", "Grill", 5): true,
		cacheKey("item", "Smoker", 5):    true,
		cacheKey("item", "Grill", 8):     true,
	}
	if len(keys) != 4 {
		t.Errorf("expected 4 distinct keys, got %d", len(keys))
	}
}
