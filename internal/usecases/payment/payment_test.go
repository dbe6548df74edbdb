package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/tg-bots/market-bot/internal/domain"
	paymentPort "github.com/admin/tg-bots/market-bot/internal/ports/payment"
	"github.com/admin/tg-bots/market-bot/internal/testutil/fakes"
	"github.com/admin/tg-bots/market-bot/internal/usecases/payout"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sellerID = int64(111)
	buyerID  = int64(222)
)

type recordingDeliverer struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (d *recordingDeliverer) DeliverFile(_ context.Context, order *domain.Order, _ *domain.Product) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.calls = append(d.calls, order.OrderID)
	return nil
}

func (d *recordingDeliverer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

type recordingNotifier struct {
	mu      sync.Mutex
	results []*domain.CompletionResult
}

func (n *recordingNotifier) OrderCompleted(_ context.Context, result *domain.CompletionResult, _ *domain.Product, _ *domain.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.results = append(n.results, result)
}

type env struct {
	svc       *Service
	db        *fakes.DB
	gateway   *fakes.Gateway
	alerter   *fakes.Alerter
	deliverer *recordingDeliverer
	notifier  *recordingNotifier
	now       time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	db := fakes.NewDB()
	db.Now = func() time.Time { return now }
	gateway := fakes.NewGateway()
	alerter := &fakes.Alerter{}

	wallet := "7EcDhSYGxXyscszYEp35KHN8vvw3svAuLKTzXwCFLtV"
	db.PutUser(domain.User{TelegramID: sellerID, FirstName: "Seller", IsSeller: true, SolanaAddress: &wallet})
	db.PutUser(domain.User{TelegramID: buyerID, FirstName: "Buyer"})
	db.PutProduct(domain.Product{
		ProductID:   "TBF-1-000001",
		SellerID:    sellerID,
		Title:       "Go in Practice",
		Category:    "programming",
		PriceUSD:    decimal.NewFromInt(50),
		MainFileURL: "tg:file-1",
		FileName:    "course.zip",
	})

	payouts := payout.New(fakes.PayoutRepo{DB: db}, fakes.UserRepo{DB: db}, alerter, nil, 0, log)
	payouts.Now = func() time.Time { return now }

	svc := New(
		fakes.OrderRepo{DB: db},
		fakes.ProductRepo{DB: db},
		fakes.UserRepo{DB: db},
		fakes.Counters{DB: db},
		gateway,
		fakes.QR{},
		inmemory.NewCache(),
		payouts,
		alerter,
		domain.NewPricing(decimal.Zero),
		time.Hour,
		[]string{"SOL", " btc "},
		log,
	)
	svc.Now = func() time.Time { return now }

	e := &env{
		svc:       svc,
		db:        db,
		gateway:   gateway,
		alerter:   alerter,
		deliverer: &recordingDeliverer{},
		notifier:  &recordingNotifier{},
		now:       now,
	}
	svc.SetDelivery(e.deliverer, e.notifier)
	return e
}

func (e *env) buyer(t *testing.T) *domain.User {
	t.Helper()
	u, ok := e.db.User(buyerID)
	require.True(t, ok)
	return &u
}

func TestCreateOrder_PricesAndPersistsWaitingOrder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	details, err := e.svc.CreateOrder(ctx, e.buyer(t), "TBF-1-000001", "SOL")
	require.NoError(t, err)

	order := details.Order
	assert.Equal(t, domain.PaymentStatusWaiting, order.PaymentStatus)
	assert.Equal(t, "sol", order.PaymentCurrency)
	assert.Equal(t, "51.39", order.BuyerTotal.StringFixed(2))
	assert.Equal(t, "2.50", order.PlatformCommission.StringFixed(2))
	assert.Equal(t, "47.50", order.SellerRevenue.StringFixed(2))
	assert.NotEmpty(t, details.PayAddress)
	assert.NotEmpty(t, details.QRCodeBase64)
	assert.Equal(t, e.now.Add(time.Hour), details.ExpiresAt)

	require.Len(t, e.gateway.Created, 1)
	assert.Equal(t, "51.39", e.gateway.Created[0].PriceAmount.StringFixed(2))
	assert.Equal(t, order.OrderID, e.gateway.Created[0].OrderID)

	stored, ok := e.db.Order(order.OrderID)
	require.True(t, ok)
	assert.Equal(t, order.GatewayPaymentID(), stored.GatewayPaymentID())
}

func TestCreateOrder_ReusesOpenOrderForSameCurrency(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first, err := e.svc.CreateOrder(ctx, e.buyer(t), "TBF-1-000001", "sol")
	require.NoError(t, err)
	second, err := e.svc.CreateOrder(ctx, e.buyer(t), "TBF-1-000001", "sol")
	require.NoError(t, err)

	assert.Equal(t, first.Order.OrderID, second.Order.OrderID)
	assert.Len(t, e.gateway.Created, 1)

	third, err := e.svc.CreateOrder(ctx, e.buyer(t), "TBF-1-000001", "btc")
	require.NoError(t, err)
	assert.NotEqual(t, first.Order.OrderID, third.Order.OrderID)
}

func TestCreateOrder_Rejections(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.CreateOrder(ctx, e.buyer(t), "TBF-1-000001", "doge")
	assert.ErrorIs(t, err, domain.ErrValidation)

	seller, _ := e.db.User(sellerID)
	_, err = e.svc.CreateOrder(ctx, &seller, "TBF-1-000001", "sol")
	assert.ErrorIs(t, err, domain.ErrValidation)

	suspended := e.buyer(t)
	suspended.Status = domain.UserStatusSuspended
	_, err = e.svc.CreateOrder(ctx, suspended, "TBF-1-000001", "sol")
	assert.ErrorIs(t, err, domain.ErrUserSuspended)

	_, err = e.svc.CreateOrder(ctx, e.buyer(t), "TBF-missing", "sol")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	e.gateway.Err = errors.New("boom")
	_, err = e.svc.CreateOrder(ctx, e.buyer(t), "TBF-1-000001", "sol")
	assert.Error(t, err)
}

func TestHandleIPN_FinishedCompletesOrderOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	details, err := e.svc.CreateOrder(ctx, e.buyer(t), "TBF-1-000001", "sol")
	require.NoError(t, err)
	paymentID := details.Order.GatewayPaymentID()

	e.gateway.SetStatus(paymentID, domain.GatewayConfirming)
	require.NoError(t, e.svc.HandleIPN(ctx, e.gateway.Notification(paymentID)))
	stored, _ := e.db.Order(details.Order.OrderID)
	assert.Equal(t, domain.PaymentStatusConfirming, stored.PaymentStatus)

	e.gateway.SetStatus(paymentID, domain.GatewayFinished)
	require.NoError(t, e.svc.HandleIPN(ctx, e.gateway.Notification(paymentID)))
	// повторная доставка того же IPN
	require.NoError(t, e.svc.HandleIPN(ctx, e.gateway.Notification(paymentID)))

	stored, _ = e.db.Order(details.Order.OrderID)
	assert.Equal(t, domain.PaymentStatusCompleted, stored.PaymentStatus)
	assert.True(t, stored.FileDelivered)
	assert.Equal(t, int64(1), stored.DownloadCount)
	require.NotNil(t, stored.CompletedAt)

	assert.Equal(t, 1, e.deliverer.count())
	assert.Len(t, e.notifier.results, 1)
	assert.True(t, e.notifier.results[0].JustCompleted)

	seller, _ := e.db.User(sellerID)
	assert.Equal(t, int64(1), seller.TotalSales)
	assert.Equal(t, "47.50", seller.TotalRevenue.StringFixed(2))

	product, _ := e.db.Product("TBF-1-000001")
	assert.Equal(t, int64(1), product.SalesCount)

	payouts := e.db.Payouts()
	require.Len(t, payouts, 1)
	assert.Equal(t, domain.PayoutStatusPending, payouts[0].Status)
	assert.Equal(t, "47.50", payouts[0].TotalAmountUSD.StringFixed(2))
	assert.Equal(t, e.now.Add(domain.DefaultEscrowWindow), payouts[0].ReleaseAfter)
}

func TestCompleteOrder_ConcurrentCallsDeliverOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	details, err := e.svc.CreateOrder(ctx, e.buyer(t), "TBF-1-000001", "sol")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = e.svc.CompleteOrder(ctx, details.Order.OrderID)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, e.deliverer.count())
	seller, _ := e.db.User(sellerID)
	assert.Equal(t, int64(1), seller.TotalSales)
	assert.Len(t, e.db.Payouts(), 1)
}

func TestCompleteOrder_FailedDeliveryIsRetriedByCheck(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	details, err := e.svc.CreateOrder(ctx, e.buyer(t), "TBF-1-000001", "sol")
	require.NoError(t, err)

	e.deliverer.err = errors.New("telegram down")
	result, err := e.svc.CompleteOrder(ctx, details.Order.OrderID)
	require.NoError(t, err)
	assert.True(t, result.JustCompleted)
	assert.False(t, result.FileDelivered)
	stored, _ := e.db.Order(details.Order.OrderID)
	assert.False(t, stored.FileDelivered)
	assert.NotEmpty(t, e.alerter.Alerts())

	e.deliverer.err = nil
	check, err := e.svc.CheckPayment(ctx, buyerID, details.Order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, check.Status)
	assert.True(t, check.Completion.FileDelivered)
	assert.False(t, check.Completion.JustCompleted)

	seller, _ := e.db.User(sellerID)
	assert.Equal(t, int64(1), seller.TotalSales)
	assert.Len(t, e.notifier.results, 1)
}

func TestCheckPayment_Errors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.db.PutOrder(domain.Order{
		OrderID:       "ORD-1-000009",
		BuyerID:       buyerID,
		ProductID:     "TBF-1-000001",
		SellerID:      sellerID,
		PaymentStatus: domain.PaymentStatusPending,
		CreatedAt:     e.now,
	})

	_, err := e.svc.CheckPayment(ctx, 999, "ORD-1-000009")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = e.svc.CheckPayment(ctx, buyerID, "ORD-1-000009")
	assert.ErrorIs(t, err, domain.ErrMissingPaymentID)

	details, err := e.svc.CreateOrder(ctx, e.buyer(t), "TBF-1-000001", "sol")
	require.NoError(t, err)
	e.gateway.Err = errors.New("503")
	_, err = e.svc.CheckPayment(ctx, buyerID, details.Order.OrderID)
	assert.ErrorIs(t, err, domain.ErrPaymentGateway)
}

func TestCheckPayment_StatusNeverMovesBackwards(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	details, err := e.svc.CreateOrder(ctx, e.buyer(t), "TBF-1-000001", "sol")
	require.NoError(t, err)
	paymentID := details.Order.GatewayPaymentID()

	e.gateway.SetStatus(paymentID, domain.GatewayConfirming)
	res, err := e.svc.CheckPayment(ctx, buyerID, details.Order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusConfirming, res.Status)

	e.gateway.SetStatus(paymentID, domain.GatewayWaiting)
	res, err = e.svc.CheckPayment(ctx, buyerID, details.Order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusConfirming, res.Status)
}

func TestHandleIPN_UnknownPayment(t *testing.T) {
	e := newEnv(t)
	err := e.svc.HandleIPN(context.Background(), &paymentPort.IPNNotification{
		PaymentID: "nope",
		Status:    domain.GatewayFinished,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExpireStaleAndLatePayment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	details, err := e.svc.CreateOrder(ctx, e.buyer(t), "TBF-1-000001", "sol")
	require.NoError(t, err)

	e.svc.Now = func() time.Time { return e.now.Add(2 * time.Hour) }
	n, err := e.svc.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stored, _ := e.db.Order(details.Order.OrderID)
	assert.Equal(t, domain.PaymentStatusExpired, stored.PaymentStatus)

	// оплата после окна всё равно завершает заказ
	e.gateway.SetStatus(details.Order.GatewayPaymentID(), domain.GatewayFinished)
	require.NoError(t, e.svc.HandleIPN(ctx, e.gateway.Notification(details.Order.GatewayPaymentID())))
	stored, _ = e.db.Order(details.Order.OrderID)
	assert.Equal(t, domain.PaymentStatusCompleted, stored.PaymentStatus)
	assert.Equal(t, 1, e.deliverer.count())
}

func TestRedownload(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	details, err := e.svc.CreateOrder(ctx, e.buyer(t), "TBF-1-000001", "sol")
	require.NoError(t, err)

	err = e.svc.Redownload(ctx, buyerID, details.Order.OrderID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.svc.CompleteOrder(ctx, details.Order.OrderID)
	require.NoError(t, err)

	require.NoError(t, e.svc.Redownload(ctx, buyerID, details.Order.OrderID))
	assert.Equal(t, 2, e.deliverer.count())
	stored, _ := e.db.Order(details.Order.OrderID)
	assert.Equal(t, int64(2), stored.DownloadCount)

	assert.ErrorIs(t, e.svc.Redownload(ctx, 999, details.Order.OrderID), domain.ErrAccessDenied)
}
