package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/ecodeclub/ecache"
	eredis "github.com/ecodeclub/ecache/redis"
	"github.com/redis/go-redis/v9"
)

// Store counts hits per key. A key lives for window after its first hit.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// CacheStore keeps counters in an ecache.Cache (Redis in production).
type CacheStore struct {
	c ecache.Cache
}

// NewRedisStore returns a CacheStore on rdb, namespaced under "match:ratelimit:".
func NewRedisStore(rdb *redis.Client) *CacheStore {
	return &CacheStore{c: &ecache.NamespaceCache{
		C:         eredis.NewCache(rdb),
		Namespace: "match:ratelimit:",
	}}
}

// Incr creates the counter with its expiry on first use, then increments it.
func (s *CacheStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	if _, err := s.c.SetNX(ctx, key, 0, window); err != nil {
		return 0, err
	}
	return s.c.IncrBy(ctx, key, 1)
}

// MemoryStore is an in-process Store with lazy TTL eviction.
type MemoryStore struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]*memoryEntry
	sweeps  int
}

type memoryEntry struct {
	count     int64
	expiresAt time.Time
}

// sweepEvery bounds how many Incr calls pass between full expiry sweeps.
const sweepEvery = 256

// NewMemoryStore returns a MemoryStore reading the time from now (nil means time.Now).
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{now: now, entries: make(map[string]*memoryEntry)}
}

// Incr implements Store.
func (m *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweeps++
	if m.sweeps >= sweepEvery {
		m.sweeps = 0
		for k, e := range m.entries {
			if !now.Before(e.expiresAt) {
				delete(m.entries, k)
			}
		}
	}

	e, ok := m.entries[key]
	if !ok || !now.Before(e.expiresAt) {
		e = &memoryEntry{expiresAt: now.Add(window)}
		m.entries[key] = e
	}
	e.count++
	return e.count, nil
}

// Len reports how many counters are held, expired ones included until swept.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
