package market

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/services/files"
	"github.com/admin/tg-bots/market-bot/internal/services/state"
	tgservice "github.com/admin/tg-bots/market-bot/internal/services/telegram"
	"github.com/admin/tg-bots/market-bot/internal/testutil/fakes"
	"github.com/admin/tg-bots/market-bot/internal/usecases/payment"
	"github.com/admin/tg-bots/market-bot/internal/usecases/payout"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	adminID  = int64(1)
	sellerID = int64(111)
	buyerID  = int64(222)

	productID = "TBF-1-000001"
	wallet    = "7EcDhSYGxXyscszYEp35KHN8vvw3svAuLKTzXwCFLtV"
)

type recordingMailer struct {
	mu       sync.Mutex
	welcomes []int64
	sales    []string
	released int
	codes    map[string]string
	replies  int
}

func (m *recordingMailer) SellerWelcome(_ context.Context, seller *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomes = append(m.welcomes, seller.TelegramID)
	return nil
}

func (m *recordingMailer) Sale(_ context.Context, _ *domain.User, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales = append(m.sales, order.OrderID)
	return nil
}

func (m *recordingMailer) PayoutReleased(context.Context, *domain.User, *domain.Payout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released++
	return nil
}

func (m *recordingMailer) RecoveryCode(_ context.Context, to, _, code string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.codes == nil {
		m.codes = make(map[string]string)
	}
	m.codes[to] = code
	return nil
}

func (m *recordingMailer) TicketReply(context.Context, *domain.User, *domain.SupportTicket, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies++
	return nil
}

type env struct {
	t       *testing.T
	svc     *Service
	db      *fakes.DB
	tg      *fakes.Telegram
	gateway *fakes.Gateway
	alerter *fakes.Alerter
	mailer  *recordingMailer
	now     time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	db := fakes.NewDB()
	db.Now = func() time.Time { return now }
	db.SetCategories(
		domain.Category{Key: "design", Name: "Design", SortOrder: 1},
		domain.Category{Key: "programming", Name: "Programming", Emoji: "💻", SortOrder: 2},
	)
	w := wallet
	db.PutUser(domain.User{TelegramID: adminID, FirstName: "Admin"})
	db.PutUser(domain.User{TelegramID: sellerID, FirstName: "Sam", IsSeller: true, SolanaAddress: &w})
	db.PutUser(domain.User{TelegramID: buyerID, FirstName: "Bea"})
	db.PutProduct(domain.Product{
		ProductID:   productID,
		SellerID:    sellerID,
		Title:       "Go in Practice",
		Description: "Concurrency & channels",
		Category:    "programming",
		PriceUSD:    decimal.NewFromInt(50),
		PriceEUR:    decimal.NewFromInt(46),
		MainFileURL: "tg:file-1",
		FileName:    "course.zip",
	})

	tg := fakes.NewTelegram()
	gateway := fakes.NewGateway()
	alerter := &fakes.Alerter{}
	mailer := &recordingMailer{}
	cache := inmemory.NewCache()

	payouts := payout.New(fakes.PayoutRepo{DB: db}, fakes.UserRepo{DB: db}, alerter, nil, 0, log)
	payouts.Now = func() time.Time { return now }
	payments := payment.New(
		fakes.OrderRepo{DB: db},
		fakes.ProductRepo{DB: db},
		fakes.UserRepo{DB: db},
		fakes.Counters{DB: db},
		gateway,
		fakes.QR{},
		cache,
		payouts,
		alerter,
		domain.NewPricing(decimal.Zero),
		time.Hour,
		[]string{"sol", "usdttrc20"},
		log,
	)
	payments.Now = func() time.Time { return now }

	svc := New(
		fakes.UserRepo{DB: db},
		fakes.ProductRepo{DB: db},
		fakes.OrderRepo{DB: db},
		fakes.CategoryRepo{DB: db},
		fakes.ReviewRepo{DB: db},
		fakes.SupportRepo{DB: db},
		fakes.Counters{DB: db},
		tgservice.New(tg, nil, log),
		state.NewManager(inmemory.NewSessionStore(), log),
		files.NewStore(nil, tg, log),
		payments,
		payouts,
		mailer,
		cache,
		alerter,
		Config{
			AdminID:          adminID,
			MaxFileSizeMB:    50,
			AllowedFileTypes: []string{"zip", "pdf", "mp4"},
			SupportEmail:     "support@example.com",
		},
		log,
	)
	svc.Now = func() time.Time { return now }
	payments.SetDelivery(svc, svc)
	payouts.SetNotifier(svc)

	return &env{t: t, svc: svc, db: db, tg: tg, gateway: gateway, alerter: alerter, mailer: mailer, now: now}
}

func (e *env) ctx() context.Context {
	return context.Background()
}

func (e *env) user(id int64) *domain.User {
	e.t.Helper()
	u, ok := e.db.User(id)
	require.True(e.t, ok, "user %d", id)
	return &u
}

func (e *env) text(id int64, text string) error {
	return e.svc.HandleText(context.Background(), e.user(id), &domain.Message{
		MessageID: 10,
		Chat:      &domain.Chat{ID: id, Type: "private"},
		Text:      &text,
	})
}

func (e *env) click(id int64, data string) error {
	return e.svc.HandleCallback(context.Background(), e.user(id), &domain.CallbackQuery{
		ID:      "cb-" + data,
		Data:    &data,
		Message: &domain.Message{MessageID: 50, Chat: &domain.Chat{ID: id, Type: "private"}},
	})
}

func (e *env) upload(id int64, msg *domain.Message) error {
	msg.Chat = &domain.Chat{ID: id, Type: "private"}
	return e.svc.HandleUpload(context.Background(), e.user(id), msg)
}

func (e *env) last(id int64) fakes.Sent {
	e.t.Helper()
	s, ok := e.tg.Last(id)
	require.True(e.t, ok, "nothing sent to %d", id)
	return s
}

func (e *env) bag(id int64) domain.SessionBag {
	e.t.Helper()
	bag, err := e.svc.State.Get(context.Background(), id)
	require.NoError(e.t, err)
	return bag
}

// buttonWithPrefix данные кнопки с префиксом из самого свежего сообщения, где она есть
func (e *env) buttonWithPrefix(id int64, prefix string) string {
	e.t.Helper()
	sent := e.tg.SentTo(id)
	for i := len(sent) - 1; i >= 0; i-- {
		for _, row := range sent[i].Keyboard {
			for _, b := range row {
				if strings.HasPrefix(b.CallbackData, prefix) {
					return b.CallbackData
				}
			}
		}
	}
	e.t.Fatalf("no button %q sent to %d", prefix, id)
	return ""
}

func (e *env) hasButton(s fakes.Sent, data string) bool {
	for _, row := range s.Keyboard {
		for _, b := range row {
			if b.CallbackData == data {
				return true
			}
		}
	}
	return false
}
