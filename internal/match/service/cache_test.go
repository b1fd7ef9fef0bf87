package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"carmatch_backend/internal/match/engine"
	"carmatch_backend/internal/match/transport"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCache(client, time.Minute), mr
}

func sampleResponse() transport.MatchResponse {
	return transport.MatchResponse{
		TotalCandidates: 3,
		Returned:        1,
		Results: []transport.ListingScore{
			{ListingID: 42, Score: 0.75, Score100: 75, Make: "Kia", Model: "Sorento"},
		},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	key, err := Key(ResolvedRequest{Weights: engine.Uniform(), Limit: 20})
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}

	if _, ok := cache.Get(ctx, key); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	want := sampleResponse()
	cache.Set(ctx, key, want)

	got, ok := cache.Get(ctx, key)
	if !ok {
		t.Fatal("expected cache hit after Set")
	}
	if got.TotalCandidates != want.TotalCandidates || len(got.Results) != 1 || got.Results[0].ListingID != 42 {
		t.Errorf("cached response mismatch: %+v", got)
	}
}

func TestCacheKeyDistinguishesRequests(t *testing.T) {
	base := ResolvedRequest{Weights: engine.Uniform(), Limit: 20}
	other := base
	other.Weights.Price = 5

	k1, err := Key(base)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	k2, err := Key(other)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	if k1 == k2 {
		t.Fatal("different weights must produce different cache keys")
	}

	k3, err := Key(base)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	if k1 != k3 {
		t.Fatal("identical requests must produce identical cache keys")
	}
}

func TestCacheExpires(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	key, _ := Key(ResolvedRequest{Limit: 5})
	cache.Set(ctx, key, sampleResponse())

	mr.FastForward(2 * time.Minute)

	if _, ok := cache.Get(ctx, key); ok {
		t.Fatal("entry should have expired")
	}
}

func TestNilCacheIsSafe(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "whatever"); ok {
		t.Fatal("nil cache must always miss")
	}
	cache.Set(ctx, "whatever", sampleResponse())
}
