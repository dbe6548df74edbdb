// Package fakes in-memory реализации портов для тестов usecase-ов
package fakes

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/ports/persistence"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// DB общее хранилище всех репозиториев. Транзакция откатывает все таблицы при ошибке.
type DB struct {
	mu         sync.Mutex
	users      map[int64]domain.User
	products   map[string]domain.Product
	orders     map[string]domain.Order
	payouts    map[uuid.UUID]domain.Payout
	tickets    map[string]domain.SupportTicket
	messages   map[string][]domain.SupportMessage
	reviews    []domain.Review
	categories []domain.Category
	counters   map[domain.CounterType]int64

	Now func() time.Time
}

func NewDB() *DB {
	return &DB{
		users:    make(map[int64]domain.User),
		products: make(map[string]domain.Product),
		orders:   make(map[string]domain.Order),
		payouts:  make(map[uuid.UUID]domain.Payout),
		tickets:  make(map[string]domain.SupportTicket),
		messages: make(map[string][]domain.SupportMessage),
		counters: make(map[domain.CounterType]int64),
		Now:      time.Now,
	}
}

type snapshot struct {
	users    map[int64]domain.User
	products map[string]domain.Product
	orders   map[string]domain.Order
	payouts  map[uuid.UUID]domain.Payout
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (db *DB) snapshot() snapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	return snapshot{
		users:    copyMap(db.users),
		products: copyMap(db.products),
		orders:   copyMap(db.orders),
		payouts:  copyMap(db.payouts),
	}
}

func (db *DB) restore(s snapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users = s.users
	db.products = s.products
	db.orders = s.orders
	db.payouts = s.payouts
}

// WithTransaction выполняет fn, при ошибке восстанавливает состояние
func (db *DB) WithTransaction(ctx context.Context, fn func(context.Context, persistence.Transaction) error) error {
	snap := db.snapshot()
	if err := fn(ctx, &Tx{}); err != nil {
		db.restore(snap)
		return err
	}
	return nil
}

// Tx заглушка транзакции: все изменения уже применены к DB
type Tx struct{}

var errNoSQL = errors.New("fakes: sql is not supported")

func (t *Tx) Get(context.Context, interface{}, string, ...interface{}) error    { return errNoSQL }
func (t *Tx) Select(context.Context, interface{}, string, ...interface{}) error { return errNoSQL }
func (t *Tx) Exec(context.Context, string, ...interface{}) error                { return errNoSQL }
func (t *Tx) ExecWithResult(context.Context, string, ...interface{}) (int64, error) {
	return 0, errNoSQL
}
func (t *Tx) NamedExec(context.Context, string, interface{}) error { return errNoSQL }
func (t *Tx) NamedExecWithResult(context.Context, string, interface{}) (int64, error) {
	return 0, errNoSQL
}
func (t *Tx) QueryRow(context.Context, string, ...interface{}) *sqlx.Row { return nil }
func (t *Tx) Commit() error                                              { return nil }
func (t *Tx) Rollback() error                                            { return nil }

// PutUser кладёт пользователя напрямую, для подготовки данных
func (db *DB) PutUser(u domain.User) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if u.Status == "" {
		u.Status = domain.UserStatusActive
	}
	db.users[u.TelegramID] = u
}

func (db *DB) User(id int64) (domain.User, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	u, ok := db.users[id]
	return u, ok
}

func (db *DB) PutProduct(p domain.Product) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if p.Status == "" {
		p.Status = domain.ProductStatusActive
	}
	db.products[p.ProductID] = p
}

func (db *DB) Product(id string) (domain.Product, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.products[id]
	return p, ok
}

func (db *DB) PutOrder(o domain.Order) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.orders[o.OrderID] = o
}

func (db *DB) Order(id string) (domain.Order, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	o, ok := db.orders[id]
	return o, ok
}

// Products все товары, отсортированные по id
func (db *DB) Products() []domain.Product {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]domain.Product, 0, len(db.products))
	for _, p := range db.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// Payouts все выплаты в порядке создания
func (db *DB) PutPayout(p domain.Payout) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.payouts[p.ID] = p
}

func (db *DB) Payouts() []domain.Payout {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]domain.Payout, 0, len(db.payouts))
	for _, p := range db.payouts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (db *DB) SetCategories(cats ...domain.Category) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.categories = append([]domain.Category(nil), cats...)
}

func ptr[T any](v T) *T {
	return &v
}
