package inmemory

import (
	"context"
	"sync"

	"github.com/admin/tg-bots/market-bot/internal/domain"
)

// SessionStore состояние диалогов в памяти процесса, теряется при рестарте
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]domain.SessionBag
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]domain.SessionBag)}
}

func (s *SessionStore) Load(_ context.Context, userID int64) (domain.SessionBag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[userID].Clone(), nil
}

func (s *SessionStore) Save(_ context.Context, userID int64, bag domain.SessionBag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(bag) == 0 {
		delete(s.sessions, userID)
		return nil
	}
	s.sessions[userID] = bag.Clone()
	return nil
}

func (s *SessionStore) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
