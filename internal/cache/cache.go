package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps redis.Client but fails safe: connectivity errors degrade to
// cache misses and are only logged. A nil *Client is a valid, always-empty cache.
type Client struct {
	client *redis.Client
	logger *slog.Logger
}

// New creates a new Redis-backed client.
func New(addr, password string, db int, logger *slog.Logger) *Client {
	return NewFromRedis(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), logger)
}

// NewFromRedis wraps an existing redis client.
func NewFromRedis(rdb *redis.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{client: rdb, logger: logger}
}

// Ping reports whether redis is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errors.New("cache disabled")
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		c.logger.WarnContext(ctx, "cache get failed", "key", key, "err", err)
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache set failed", "key", key, "err", err)
	}
	return nil
}

// SetNX stores value only when key is absent and reports whether it did.
// When redis is unavailable it reports true.
func (c *Client) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if c == nil || c.client == nil {
		return true
	}
	ok, err := c.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		c.logger.WarnContext(ctx, "cache setnx failed", "key", key, "err", err)
		return true
	}
	return ok
}

// Delete removes a key, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache delete failed", "key", key, "err", err)
	}
	return nil
}

// GetJSON decodes the cached value at key into dst. It reports false on a miss
// or when the payload no longer decodes.
func (c *Client) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	data, _ := c.Get(ctx, key)
	if data == nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

// SetJSON encodes value as JSON and stores it with ttl.
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, payload, ttl)
}
