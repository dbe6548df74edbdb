package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/ports/cache"
	"github.com/redis/go-redis/v9"
)

// ключи кэша (коды восстановления и т.п.) отделены от сессий и блокировок
const cachePrefix = "cache:"

// Client реализует cache.Cache
type Client struct {
	rdb redis.UniversalClient
}

func NewClient(rdb redis.UniversalClient) *Client {
	return &Client{rdb: rdb}
}

func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, cachePrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", cache.ErrCacheMiss
	}
	return val, wrap("get", err)
}

// Set ttl=0 хранит ключ без срока, recovery-коды всегда пишутся с TTL
func (c *Client) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return wrap("set", c.rdb.Set(ctx, cachePrefix+key, value, ttl).Err())
}

func (c *Client) Delete(ctx context.Context, key string) error {
	return wrap("del", c.rdb.Del(ctx, cachePrefix+key).Err())
}

func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, cachePrefix+key).Result()
	return n > 0, wrap("exists", err)
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("redis %s failed: %w", op, err)
}
