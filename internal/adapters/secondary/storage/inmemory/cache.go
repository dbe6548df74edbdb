package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/ports/cache"
)

type entry struct {
	value     string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Cache in-memory реализация cache.Cache и cache.Locker для запуска без Redis
type Cache struct {
	mu    sync.Mutex
	items map[string]entry
	now   func() time.Time
}

func NewCache() *Cache {
	return &Cache{
		items: make(map[string]entry),
		now:   time.Now,
	}
}

func (c *Cache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok || e.expired(c.now()) {
		delete(c.items, key)
		return "", cache.ErrCacheMiss
	}
	return e.value, nil
}

func (c *Cache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = c.newEntry(value, ttl)
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.Get(ctx, key)
	return err == nil, nil
}

func (c *Cache) Close() error {
	return nil
}

// TryLock блокировка в пределах процесса
func (c *Cache) TryLock(_ context.Context, key string, ttl time.Duration) (func(), bool, error) {
	lockKey := "lock:" + key
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[lockKey]; ok && !e.expired(c.now()) {
		return func() {}, false, nil
	}
	e := c.newEntry("1", ttl)
	c.items[lockKey] = e
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if cur, ok := c.items[lockKey]; ok && cur == e {
			delete(c.items, lockKey)
		}
	}, true, nil
}

func (c *Cache) newEntry(value string, ttl time.Duration) entry {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	return e
}
