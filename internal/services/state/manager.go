package state

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/ports/session"
)

const lockStripes = 64

// Manager состояние диалогов пользователей поверх session.Store.
// Изменения одного пользователя сериализуются, разные пользователи не блокируют друг друга.
type Manager struct {
	store session.Store
	locks [lockStripes]sync.Mutex
	log   *slog.Logger
}

func NewManager(store session.Store, log *slog.Logger) *Manager {
	return &Manager{store: store, log: log}
}

func (m *Manager) lock(userID int64) func() {
	idx := userID % lockStripes
	if idx < 0 {
		idx = -idx
	}
	mu := &m.locks[idx]
	mu.Lock()
	return mu.Unlock
}

// Get копия состояния пользователя
func (m *Manager) Get(ctx context.Context, userID int64) (domain.SessionBag, error) {
	bag, err := m.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load state for %d: %w", userID, err)
	}
	if bag == nil {
		bag = domain.SessionBag{}
	}
	return bag, nil
}

// Update сливает поля в состояние, nil удаляет ключ
func (m *Manager) Update(ctx context.Context, userID int64, fields domain.StateFields) error {
	unlock := m.lock(userID)
	defer unlock()

	bag, err := m.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := merge(bag, fields); err != nil {
		return err
	}
	return m.save(ctx, userID, bag)
}

// Reset очищает всё состояние, кроме ключей из keep
func (m *Manager) Reset(ctx context.Context, userID int64, keep ...string) error {
	unlock := m.lock(userID)
	defer unlock()

	if len(keep) == 0 {
		if err := m.store.Delete(ctx, userID); err != nil {
			return fmt.Errorf("reset state for %d: %w", userID, err)
		}
		return nil
	}

	bag, err := m.Get(ctx, userID)
	if err != nil {
		return err
	}
	kept := domain.SessionBag{}
	for _, k := range keep {
		if v, ok := bag[k]; ok {
			kept[k] = v
		}
	}
	return m.save(ctx, userID, kept)
}

// ResetConflicting снимает флаги активных мастеров, кроме keep. Остальные ключи не трогает.
func (m *Manager) ResetConflicting(ctx context.Context, userID int64, keep ...string) error {
	unlock := m.lock(userID)
	defer unlock()

	bag, err := m.Get(ctx, userID)
	if err != nil {
		return err
	}
	dropConflicting(bag, keep)
	return m.save(ctx, userID, bag)
}

// StartFlow сбрасывает конфликтующие флаги и запускает мастер с первого шага одной записью
func (m *Manager) StartFlow(ctx context.Context, userID int64, flow domain.Flow, step domain.WizardStep, extra domain.StateFields) error {
	unlock := m.lock(userID)
	defer unlock()

	bag, err := m.Get(ctx, userID)
	if err != nil {
		return err
	}
	dropConflicting(bag, nil)

	fields := domain.StateFields{
		domain.StateFlow: string(flow),
		domain.StateStep: string(step),
	}
	for k, v := range extra {
		fields[k] = v
	}
	if err := merge(bag, fields); err != nil {
		return err
	}

	m.log.Debug("flow started", "user_id", userID, "flow", flow, "step", step)
	return m.save(ctx, userID, bag)
}

// SetStep переход мастера на следующий шаг
func (m *Manager) SetStep(ctx context.Context, userID int64, step domain.WizardStep, extra domain.StateFields) error {
	fields := domain.StateFields{domain.StateStep: string(step)}
	for k, v := range extra {
		fields[k] = v
	}
	return m.Update(ctx, userID, fields)
}

// FinishFlow закрывает активный мастер
func (m *Manager) FinishFlow(ctx context.Context, userID int64) error {
	return m.ResetConflicting(ctx, userID)
}

// Draft черновик товара из состояния
func Draft(bag domain.SessionBag) (domain.ProductDraft, error) {
	var draft domain.ProductDraft
	if _, err := bag.Decode(domain.StateProductData, &draft); err != nil {
		return domain.ProductDraft{}, err
	}
	return draft, nil
}

func (m *Manager) save(ctx context.Context, userID int64, bag domain.SessionBag) error {
	if err := m.store.Save(ctx, userID, bag); err != nil {
		return fmt.Errorf("save state for %d: %w", userID, err)
	}
	return nil
}

func merge(bag domain.SessionBag, fields domain.StateFields) error {
	for k, v := range fields {
		if v == nil {
			delete(bag, k)
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode state key %s: %w", k, err)
		}
		bag[k] = raw
	}
	return nil
}

func dropConflicting(bag domain.SessionBag, keep []string) {
	for _, k := range domain.ConflictingStateKeys {
		if contains(keep, k) {
			continue
		}
		delete(bag, k)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
