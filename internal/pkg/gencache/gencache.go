// Package gencache is a redis-backed cache for listing and detail payloads.
// Keys embed a monotonically increasing generation counter, so any mutation
// invalidates every cached combination by bumping a single counter instead
// of enumerating keys. A TTL bounds staleness when a bump is lost.
package gencache

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Store struct {
	rdb    *redis.Client
	log    *zap.Logger
	genKey string
}

func New(rdb *redis.Client, log *zap.Logger, genKey string) *Store {
	return &Store{rdb: rdb, log: log, genKey: genKey}
}

// Generation returns the current generation counter. Errors and a missing
// key both read as generation 0; the cache degrades to misses, never to
// request failures.
func (s *Store) Generation(ctx context.Context) int64 {
	gen, err := s.rdb.Get(ctx, s.genKey).Int64()
	if err != nil && err != redis.Nil {
		s.log.Sugar().Warnw("cache generation read failed", "err", err)
		return 0
	}
	return gen
}

// Bump advances the generation counter, invalidating every cached page.
// Callers invoke it only after the database commit of the triggering
// mutation, so a reader observing the new generation never sees stale data.
func (s *Store) Bump(ctx context.Context) {
	if err := s.rdb.Incr(ctx, s.genKey).Err(); err != nil {
		// The TTL on cached entries bounds staleness until the next
		// successful bump.
		s.log.Sugar().Warnw("cache generation bump failed", "err", err)
	}
}

// Get loads the cached payload at key into dest, reporting whether it hit.
func (s *Store) Get(ctx context.Context, key string, dest any) bool {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Sugar().Warnw("cache read failed", "key", key, "err", err)
		}
		return false
	}
	if err := sonic.Unmarshal(raw, dest); err != nil {
		s.log.Sugar().Warnw("cache payload decode failed", "key", key, "err", err)
		return false
	}
	return true
}

// Set stores v at key for ttl. Failures are logged and swallowed, caching
// is an optimization and never a correctness dependency.
func (s *Store) Set(ctx context.Context, key string, v any, ttl time.Duration) {
	raw, err := sonic.Marshal(v)
	if err != nil {
		s.log.Sugar().Warnw("cache payload encode failed", "key", key, "err", err)
		return
	}
	if err := s.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		s.log.Sugar().Warnw("cache write failed", "key", key, "err", err)
	}
}

// ListKey derives the cache key for one filtered listing page.
func ListKey(prefix string, gen int64, params string) string {
	return fmt.Sprintf("%s:list:g%d:%s", prefix, gen, params)
}

// DetailKey derives the cache key for a detail view, partitioned by viewer
// privilege class so drafts cached for authors never leak to the public.
func DetailKey(prefix string, gen int64, viewerClass, slug string) string {
	return fmt.Sprintf("%s:detail:g%d:%s:%s", prefix, gen, viewerClass, slug)
}
