package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"craftmyprep-backend/config"
	"craftmyprep-backend/logger"
)

// Cache holds the ranked list between changes. Entries are versioned by a
// generation that Invalidate advances: Get reports the generation it read at
// and Set drops entries computed at an older one, so a read racing an
// invalidation cannot reinstate the stale ranking.
type Cache interface {
	Get(ctx context.Context) (entries []Entry, gen int64, ok bool)
	Set(ctx context.Context, gen int64, entries []Entry)
	Invalidate(ctx context.Context)
}

// NopCache never hits.
type NopCache struct{}

func (NopCache) Get(context.Context) ([]Entry, int64, bool) { return nil, 0, false }
func (NopCache) Set(context.Context, int64, []Entry)        {}
func (NopCache) Invalidate(context.Context)                 {}

// MemoryCache keeps the ranked list in process. It serves single-instance
// deployments that run without Redis.
type MemoryCache struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	gen       int64
	entries   []Entry
	storedGen int64
	expires   time.Time
	stored    bool
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &MemoryCache{ttl: ttl, now: time.Now}
}

func (c *MemoryCache) Get(context.Context) ([]Entry, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.stored || c.storedGen != c.gen || !c.now().Before(c.expires) {
		return nil, c.gen, false
	}
	return append([]Entry(nil), c.entries...), c.gen, true
}

func (c *MemoryCache) Set(_ context.Context, gen int64, entries []Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.entries = append([]Entry(nil), entries...)
	c.storedGen, c.stored = gen, true
	c.expires = c.now().Add(c.ttl)
}

func (c *MemoryCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.entries, c.stored = nil, false
}

const (
	cacheKeyPrefix = "craftmyprep:leaderboard:v2:"
	genKey         = "craftmyprep:leaderboard:gen"
)

func snapshotKey(gen int64) string {
	return cacheKeyPrefix + strconv.FormatInt(gen, 10)
}

// RedisCache stores the ranked list as one JSON value with a TTL. Redis
// failures are logged and treated as misses.
type RedisCache struct {
	rdb *goredis.Client
	ttl time.Duration
	log *logger.Logger
}

// NewCache returns a RedisCache when an address is configured, a
// MemoryCache otherwise. An unreachable server is a startup error.
func NewCache(ctx context.Context, cfg config.Redis, log *logger.Logger) (Cache, error) {
	if cfg.Addr == "" {
		return NewMemoryCache(cfg.LeaderboardTTL), nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisCache(rdb, cfg.LeaderboardTTL, log), nil
}

func NewRedisCache(rdb *goredis.Client, ttl time.Duration, log *logger.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisCache{rdb: rdb, ttl: ttl, log: log.With("service", "LeaderboardCache")}
}

// Get reads the current generation, then the snapshot stored under it. A
// failed generation read reports -1 so the following Set is skipped.
func (c *RedisCache) Get(ctx context.Context) ([]Entry, int64, bool) {
	gen, err := c.rdb.Get(ctx, genKey).Int64()
	if errors.Is(err, goredis.Nil) {
		gen, err = 0, nil
	}
	if err != nil {
		c.log.Warn("Leaderboard cache read failed", "error", err)
		return nil, -1, false
	}

	raw, err := c.rdb.Get(ctx, snapshotKey(gen)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("Leaderboard cache read failed", "error", err)
		}
		return nil, gen, false
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		c.log.Warn("Leaderboard cache entry unreadable", "error", err)
		return nil, gen, false
	}
	return entries, gen, true
}

// Set stores entries under their generation's key. A snapshot written after
// Invalidate lands under a key no reader looks at and expires with the TTL.
func (c *RedisCache) Set(ctx context.Context, gen int64, entries []Entry) {
	if gen < 0 {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, snapshotKey(gen), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Leaderboard cache write failed", "error", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Incr(ctx, genKey).Err(); err != nil {
		c.log.Warn("Leaderboard cache invalidation failed", "error", err)
	}
}

func (c *RedisCache) Close() error { return c.rdb.Close() }
