package inmemory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/ports/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClockedCache() (*Cache, *time.Time) {
	c := NewCache()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCache_TTL(t *testing.T) {
	c, now := newClockedCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "recovery:a@b.c", "123456", 15*time.Minute))
	v, err := c.Get(ctx, "recovery:a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "123456", v)

	*now = now.Add(16 * time.Minute)
	_, err = c.Get(ctx, "recovery:a@b.c")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "forever", "x", 0))
	*now = now.Add(1000 * time.Hour)
	ok, err := c.Exists(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCache_TryLock(t *testing.T) {
	c, now := newClockedCache()
	ctx := context.Background()

	release, ok, err := c.TryLock(ctx, "order:complete:ORD-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = c.TryLock(ctx, "order:complete:ORD-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// просроченный замок перехватывается, старый release не снимает новый
	*now = now.Add(2 * time.Minute)
	releaseNew, ok, err := c.TryLock(ctx, "order:complete:ORD-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	release()

	_, ok, _ = c.TryLock(ctx, "order:complete:ORD-1", time.Minute)
	assert.False(t, ok)

	releaseNew()
	_, ok, _ = c.TryLock(ctx, "order:complete:ORD-1", time.Minute)
	assert.True(t, ok)
}

func TestSessionStore_IsolatesCopies(t *testing.T) {
	s := NewSessionStore()
	ctx := context.Background()

	bag := domain.SessionBag{"step": json.RawMessage(`"title"`)}
	require.NoError(t, s.Save(ctx, 7, bag))
	bag["step"] = json.RawMessage(`"price"`)

	loaded, err := s.Load(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "title", loaded.String("step"))

	require.NoError(t, s.Save(ctx, 7, domain.SessionBag{}))
	loaded, err = s.Load(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
