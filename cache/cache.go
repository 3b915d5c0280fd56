// Package cache provides a result cache for single flight searches.
// Multi-city chains are never cached because their continuation tokens
// are request-scoped.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skyquery/skyquery/core"
	"github.com/skyquery/skyquery/log"
)

// Cache stores normalized candidates keyed by search request.
type Cache interface {
	Get(ctx context.Context, key string) ([]core.Candidate, bool)
	Set(ctx context.Context, key string, candidates []core.Candidate) error
}

// Key derives a stable cache key from the given parts by hashing their
// JSON encoding.
func Key(parts ...interface{}) string {
	b, _ := json.Marshal(parts)
	sum := sha256.Sum256(b)
	return "flights:" + hex.EncodeToString(sum[:])
}

// Redis caches search results in Redis with a fixed TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]core.Candidate, bool) {
	b, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Warnf(ctx, "cache get failed: %v", err)
		return nil, false
	}

	var candidates []core.Candidate
	if err := json.Unmarshal(b, &candidates); err != nil {
		log.Warnf(ctx, "dropping undecodable cache entry %s: %v", key, err)
		r.client.Del(ctx, key)
		return nil, false
	}
	return candidates, true
}

func (r *Redis) Set(ctx context.Context, key string, candidates []core.Candidate) error {
	b, err := json.Marshal(candidates)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, b, r.ttl).Err()
}

// Close releases the underlying Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

// NoOp is the cache used when caching is disabled or Redis is
// unreachable; every lookup misses.
type NoOp struct{}

func NewNoOp() NoOp { return NoOp{} }

func (NoOp) Get(context.Context, string) ([]core.Candidate, bool) { return nil, false }

func (NoOp) Set(context.Context, string, []core.Candidate) error { return nil }
