package entitlements

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/chapterhouse/bookclub/pkg/observability"
)

const (
	// DefaultCacheTTL is how long a computed capability list stays fresh.
	DefaultCacheTTL = 15 * time.Minute

	// DefaultCacheMaxEntries bounds resident memory; eviction of a live
	// entry only costs a recomputation.
	DefaultCacheMaxEntries = 4096

	defaultRedisKeyPrefix = "bookclub:entitlements:"
)

// CalculateFunc computes a user's capability list. It never fails; see
// Calculator.Calculate.
type CalculateFunc func(ctx context.Context, userID string) []string

// CacheOptions configures a Cache.
type CacheOptions struct {
	// TTL after which an entry is recomputed on next access. Zero means
	// DefaultCacheTTL.
	TTL time.Duration

	// MaxEntries bounds the LRU. Zero means DefaultCacheMaxEntries.
	MaxEntries int

	// Clock is the time source; tests inject their own to control
	// expiry deterministically. Nil means time.Now.
	Clock func() time.Time

	// Redis enables best-effort secondary persistence when non-nil.
	// Redis failures are swallowed and counted as cache errors.
	Redis *redis.Client

	// RedisKeyPrefix overrides the default key prefix.
	RedisKeyPrefix string

	Logger  *logrus.Logger
	Metrics *observability.Metrics
}

type cacheEntry struct {
	Entitlements []string  `json:"entitlements"`
	ComputedAt   time.Time `json:"computed_at"`
}

// Cache memoizes CalculateFunc output per user id with TTL expiry,
// explicit invalidation, and invalidation listeners.
//
// Concurrent Get calls for the same user before the first completes may
// each invoke the calculator; there is no per-key in-flight
// deduplication.
type Cache struct {
	calc    CalculateFunc
	log     *logrus.Logger
	metrics *observability.Metrics

	mu         sync.Mutex
	entries    *lru.Cache[string, cacheEntry]
	ttl        time.Duration
	clock      func() time.Time
	listeners  map[int]func(userID string)
	nextHandle int

	redis       *redis.Client
	redisPrefix string

	hits   atomic.Int64
	misses atomic.Int64
	errors atomic.Int64
}

// NewCache creates a new Cache around the given calculation function.
func NewCache(calc CalculateFunc, opts *CacheOptions) (*Cache, error) {
	if opts == nil {
		opts = &CacheOptions{}
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	maxEntries := opts.MaxEntries
	if maxEntries <= 0 {
		maxEntries = DefaultCacheMaxEntries
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = logrus.New()
	}
	prefix := opts.RedisKeyPrefix
	if prefix == "" {
		prefix = defaultRedisKeyPrefix
	}

	entries, err := lru.New[string, cacheEntry](maxEntries)
	if err != nil {
		return nil, err
	}

	return &Cache{
		calc:        calc,
		log:         log,
		metrics:     opts.Metrics,
		entries:     entries,
		ttl:         ttl,
		clock:       clock,
		listeners:   make(map[int]func(string)),
		redis:       opts.Redis,
		redisPrefix: prefix,
	}, nil
}

// Get returns the user's capability list, computing it when there is no
// fresh entry or when forceRefresh is set.
func (c *Cache) Get(ctx context.Context, userID string, forceRefresh bool) []string {
	now := c.clock()

	if !forceRefresh {
		c.mu.Lock()
		entry, ok := c.entries.Get(userID)
		ttl := c.ttl
		c.mu.Unlock()

		if ok && now.Sub(entry.ComputedAt) < ttl {
			c.recordHit()
			return copyList(entry.Entitlements)
		}

		if !ok {
			if fromRedis, found := c.redisLookup(ctx, userID, now); found {
				c.recordHit()
				return copyList(fromRedis)
			}
		}
	}

	c.recordMiss()

	caps := c.calc(ctx, userID)
	entry := cacheEntry{Entitlements: caps, ComputedAt: now}

	c.mu.Lock()
	c.entries.Add(userID, entry)
	c.mu.Unlock()

	c.redisStore(ctx, userID, entry)

	return copyList(caps)
}

// Invalidate removes the user's entry and notifies listeners.
func (c *Cache) Invalidate(ctx context.Context, userID string) {
	c.mu.Lock()
	c.entries.Remove(userID)
	listeners := make([]func(string), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	c.redisDelete(ctx, userID)

	for _, fn := range listeners {
		c.notify(fn, userID)
	}
}

// InvalidateMany invalidates several users at once.
func (c *Cache) InvalidateMany(ctx context.Context, userIDs []string) {
	for _, id := range userIDs {
		c.Invalidate(ctx, id)
	}
}

// Clear drops every cached entry. Listeners are not notified since
// clearing carries no per-user information.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries.Purge()
	c.mu.Unlock()
}

// Configure updates TTL and clock at runtime. Zero/nil fields keep the
// current values.
func (c *Cache) Configure(opts CacheOptions) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if opts.TTL > 0 {
		c.ttl = opts.TTL
	}
	if opts.Clock != nil {
		c.clock = opts.Clock
	}
}

// OnInvalidate registers a listener called with the user id on every
// explicit invalidation (not on TTL expiry). The returned function
// removes the listener.
func (c *Cache) OnInvalidate(fn func(userID string)) (remove func()) {
	c.mu.Lock()
	handle := c.nextHandle
	c.nextHandle++
	c.listeners[handle] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, handle)
		c.mu.Unlock()
	}
}

// Stats returns the cache's counters.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Errors: c.errors.Load(),
	}
}

// ResetStats zeroes the counters.
func (c *Cache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.errors.Store(0)
}

// Len reports the number of resident entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// PurgeExpired evicts entries past their TTL and reports how many were
// removed. Correctness never depends on this; Get re-checks freshness.
func (c *Cache) PurgeExpired() int {
	now := c.clock()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, key := range c.entries.Keys() {
		entry, ok := c.entries.Peek(key)
		if !ok {
			continue
		}
		if now.Sub(entry.ComputedAt) >= c.ttl {
			c.entries.Remove(key)
			removed++
		}
	}
	return removed
}

// notify runs one listener, isolating panics so a failing listener does
// not stop the others or break the invalidation.
func (c *Cache) notify(fn func(string), userID string) {
	defer func() {
		if r := recover(); r != nil {
			c.log.WithFields(logrus.Fields{
				"user_id": userID,
				"panic":   r,
			}).Error("entitlement invalidation listener panicked")
		}
	}()
	fn(userID)
}

func (c *Cache) recordHit() {
	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
}

func (c *Cache) recordMiss() {
	c.misses.Add(1)
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}
}

func (c *Cache) recordError(err error, op string) {
	c.errors.Add(1)
	if c.metrics != nil {
		c.metrics.CacheErrorsTotal.Inc()
	}
	c.log.WithError(err).WithField("op", op).Debug("entitlement cache secondary store error")
}

// redisLookup tries the secondary store on a memory miss. Stale or
// unreadable payloads report not-found.
func (c *Cache) redisLookup(ctx context.Context, userID string, now time.Time) ([]string, bool) {
	if c.redis == nil {
		return nil, false
	}

	data, err := c.redis.Get(ctx, c.redisPrefix+userID).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.recordError(err, "get")
		return nil, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.recordError(err, "decode")
		return nil, false
	}
	if now.Sub(entry.ComputedAt) >= c.ttl {
		return nil, false
	}

	c.mu.Lock()
	c.entries.Add(userID, entry)
	c.mu.Unlock()

	return entry.Entitlements, true
}

func (c *Cache) redisStore(ctx context.Context, userID string, entry cacheEntry) {
	if c.redis == nil {
		return
	}

	data, err := json.Marshal(entry)
	if err != nil {
		c.recordError(err, "encode")
		return
	}
	if err := c.redis.Set(ctx, c.redisPrefix+userID, data, c.ttl).Err(); err != nil {
		c.recordError(err, "set")
	}
}

func (c *Cache) redisDelete(ctx context.Context, userID string) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, c.redisPrefix+userID).Err(); err != nil {
		c.recordError(err, "del")
	}
}

func copyList(caps []string) []string {
	out := make([]string, len(caps))
	copy(out, caps)
	return out
}
