package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"carmatch_backend/internal/match/transport"
)

const cacheKeyPrefix = "match:result:"

// Cache is a read-through Redis cache for ranking responses. A nil *Cache is
// valid and disables caching; Redis failures degrade to cache misses.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

// Key derives a deterministic cache key from the fully resolved request.
// Profile defaults are applied before hashing, so two requests resolving to
// the same filters and weights share an entry regardless of how they were
// phrased.
func Key(resolved ResolvedRequest) (string, error) {
	payload, err := json.Marshal(resolved)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return cacheKeyPrefix + hex.EncodeToString(sum[:]), nil
}

// Get returns the cached response and true on a hit.
func (c *Cache) Get(ctx context.Context, key string) (transport.MatchResponse, bool) {
	if c == nil {
		return transport.MatchResponse{}, false
	}

	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return transport.MatchResponse{}, false
	}

	var resp transport.MatchResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return transport.MatchResponse{}, false
	}
	return resp, true
}

// Set stores the response, silently dropping it on marshal or Redis errors.
func (c *Cache) Set(ctx context.Context, key string, resp transport.MatchResponse) {
	if c == nil {
		return
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, payload, c.ttl)
}
