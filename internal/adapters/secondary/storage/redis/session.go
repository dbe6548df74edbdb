package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "session:"

// SessionStore хранит состояние диалогов в Redis как JSON с TTL
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func sessionKey(userID int64) string {
	return sessionPrefix + strconv.FormatInt(userID, 10)
}

func (s *SessionStore) Load(ctx context.Context, userID int64) (domain.SessionBag, error) {
	raw, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.SessionBag{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis load session: %w", err)
	}
	bag := domain.SessionBag{}
	if err := json.Unmarshal(raw, &bag); err != nil {
		return nil, fmt.Errorf("decode session %d: %w", userID, err)
	}
	return bag, nil
}

func (s *SessionStore) Save(ctx context.Context, userID int64, bag domain.SessionBag) error {
	if len(bag) == 0 {
		return s.Delete(ctx, userID)
	}
	raw, err := json.Marshal(bag)
	if err != nil {
		return fmt.Errorf("encode session %d: %w", userID, err)
	}
	if err := s.client.Set(ctx, sessionKey(userID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}
