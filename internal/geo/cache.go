package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores successful geocoding results by normalized place name.
type Cache interface {
	Get(ctx context.Context, key string) (Coordinates, bool, error)
	Set(ctx context.Context, key string, c Coordinates) error
}

type cacheEntry struct {
	coords    Coordinates
	expiresAt time.Time
}

// MemoryCache is an in-process TTL cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (Coordinates, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return Coordinates{}, false, nil
	}
	if m.now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return Coordinates{}, false, nil
	}
	return entry.coords, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, c Coordinates) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = cacheEntry{coords: c, expiresAt: m.now().Add(m.ttl)}
	return nil
}

const RedisPrefix = "lensbot:geocode:"

// RedisCache shares geocoding results between bot instances.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects to the Redis server at url and verifies the
// connection with a PING.
func NewRedisCache(url, prefix string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if prefix == "" {
		prefix = RedisPrefix
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client, prefix: prefix, ttl: ttl}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) (Coordinates, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Coordinates{}, false, nil
	}
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("failed to read geocode cache: %w", err)
	}
	var c Coordinates
	if err := json.Unmarshal(data, &c); err != nil {
		return Coordinates{}, false, fmt.Errorf("failed to decode geocode cache entry: %w", err)
	}
	return c, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, c Coordinates) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode geocode cache entry: %w", err)
	}
	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write geocode cache: %w", err)
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

var (
	_ Cache = (*MemoryCache)(nil)
	_ Cache = (*RedisCache)(nil)
)
