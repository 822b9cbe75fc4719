package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"linkrelay/internal/config"
	"linkrelay/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// LinkKeyPrefix prefixes cached link records
	LinkKeyPrefix = "lr:link:"
	// DefaultLinkTTL bounds how stale a cached link may get
	DefaultLinkTTL = 30 * time.Second
)

// ErrCacheMiss is returned when the short code is not cached
var ErrCacheMiss = errors.New("link cache miss")

// cacheEntry carries the digest that the link's JSON form omits
type cacheEntry struct {
	Link         *model.Link `json:"link"`
	PasswordHash string      `json:"password_hash,omitempty"`
}

// LinkCache caches resolved links in Redis
type LinkCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLinkCache creates a new Redis link cache
func NewLinkCache(cfg *config.RedisConfig, ttl time.Duration) *LinkCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Msg("Failed to connect to Redis")
	} else {
		log.Info().Msg("Redis connected successfully")
	}

	return NewLinkCacheWithClient(rdb, ttl)
}

// NewLinkCacheWithClient wraps an existing Redis client
func NewLinkCacheWithClient(client *redis.Client, ttl time.Duration) *LinkCache {
	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}
	return &LinkCache{client: client, ttl: ttl}
}

// GetLink returns the cached link or ErrCacheMiss
func (c *LinkCache) GetLink(ctx context.Context, shortCode string) (*model.Link, error) {
	data, err := c.client.Get(ctx, linkKey(shortCode)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Link == nil {
		// a corrupt entry is treated as absent
		log.Warn().Err(err).Str("short_code", shortCode).Msg("Discarding unreadable cache entry")
		return nil, ErrCacheMiss
	}
	entry.Link.PasswordHash = entry.PasswordHash
	entry.Link.ApplyDefaults()
	return entry.Link, nil
}

// SetLink caches the link under its short code
func (c *LinkCache) SetLink(ctx context.Context, link *model.Link) error {
	data, err := json.Marshal(cacheEntry{Link: link, PasswordHash: link.PasswordHash})
	if err != nil {
		return fmt.Errorf("failed to encode link: %w", err)
	}
	return c.client.Set(ctx, linkKey(link.ShortCode), data, c.ttl).Err()
}

// DeleteLink evicts the cached link
func (c *LinkCache) DeleteLink(ctx context.Context, shortCode string) error {
	return c.client.Del(ctx, linkKey(shortCode)).Err()
}

// Close closes the Redis connection
func (c *LinkCache) Close() error {
	return c.client.Close()
}

func linkKey(shortCode string) string {
	return LinkKeyPrefix + shortCode
}
