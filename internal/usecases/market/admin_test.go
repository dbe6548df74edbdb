package market

import (
	"testing"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/usecases/market/texts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_NonAdminDenied(t *testing.T) {
	e := newEnv(t)
	for _, data := range []string{"admin_stats", "admin_users", cbAdminSuspendUser(buyerID), cbAdminSuspendProduct(productID)} {
		require.NoError(t, e.click(sellerID, data))
		assert.Equal(t, texts.Get("fr", texts.AccessDenied), e.last(sellerID).Text, data)
	}
	assert.Equal(t, domain.UserStatusActive, e.user(buyerID).Status)
	p, _ := e.db.Product(productID)
	assert.Equal(t, domain.ProductStatusActive, p.Status)
}

func TestAdmin_SuspendAndRestoreUser(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.click(adminID, cbAdminSuspendUser(sellerID)))
	assert.Equal(t, domain.UserStatusSuspended, e.user(sellerID).Status)
	p, _ := e.db.Product(productID)
	assert.Equal(t, domain.ProductStatusSuspended, p.Status)
	assert.True(t, p.AdminLocked)

	var notified bool
	for _, s := range e.tg.SentTo(sellerID) {
		if s.Text == texts.Get("fr", texts.YouWereSuspended) {
			notified = true
		}
	}
	assert.True(t, notified)

	require.NoError(t, e.click(adminID, cbAdminRestoreUser(sellerID)))
	assert.Equal(t, domain.UserStatusActive, e.user(sellerID).Status)
	p, _ = e.db.Product(productID)
	assert.Equal(t, domain.ProductStatusActive, p.Status)
	assert.False(t, p.AdminLocked)
}

func TestAdmin_RestoreUserKeepsEarlierModeration(t *testing.T) {
	e := newEnv(t)
	put := func(id string, status domain.ProductStatus, locked bool) {
		e.db.PutProduct(domain.Product{
			ProductID:   id,
			SellerID:    sellerID,
			Title:       id,
			Category:    "programming",
			PriceUSD:    decimal.NewFromInt(20),
			MainFileURL: "tg:" + id,
			Status:      status,
			AdminLocked: locked,
		})
	}
	put("TBF-1-000002", domain.ProductStatusSuspended, true)
	put("TBF-1-000003", domain.ProductStatusInactive, false)

	require.NoError(t, e.click(adminID, cbAdminSuspendUser(sellerID)))
	p, _ := e.db.Product(productID)
	assert.Equal(t, domain.ProductStatusSuspended, p.Status)
	assert.True(t, p.SellerSuspended)

	require.NoError(t, e.click(adminID, cbAdminRestoreUser(sellerID)))

	p, _ = e.db.Product(productID)
	assert.Equal(t, domain.ProductStatusActive, p.Status)
	assert.False(t, p.AdminLocked)
	assert.False(t, p.SellerSuspended)

	banned, _ := e.db.Product("TBF-1-000002")
	assert.Equal(t, domain.ProductStatusSuspended, banned.Status)
	assert.True(t, banned.AdminLocked)

	off, _ := e.db.Product("TBF-1-000003")
	assert.Equal(t, domain.ProductStatusInactive, off.Status)
	assert.False(t, off.AdminLocked)
}

func TestAdmin_ProductBanSurvivesSellerRestore(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.click(adminID, cbAdminSuspendUser(sellerID)))
	// отдельный бан поверх блокировки продавца
	require.NoError(t, e.click(adminID, cbAdminSuspendProduct(productID)))
	require.NoError(t, e.click(adminID, cbAdminRestoreUser(sellerID)))

	p, _ := e.db.Product(productID)
	assert.Equal(t, domain.ProductStatusSuspended, p.Status)
	assert.True(t, p.AdminLocked)
}

func TestAdmin_CannotSuspendSelf(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.click(adminID, cbAdminSuspendUser(adminID)))
	assert.Equal(t, domain.UserStatusActive, e.user(adminID).Status)
}

func TestAdmin_ProductLockBlocksSellerToggle(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.click(adminID, cbAdminSuspendProduct(productID)))
	p, _ := e.db.Product(productID)
	require.Equal(t, domain.ProductStatusSuspended, p.Status)
	require.True(t, p.AdminLocked)

	require.NoError(t, e.click(sellerID, cbToggleProduct(productID)))
	assert.Equal(t, texts.Get("fr", texts.ProductAdminLocked), e.last(sellerID).Text)
	p, _ = e.db.Product(productID)
	assert.Equal(t, domain.ProductStatusSuspended, p.Status)

	// карточка товара скрыта от покупателей
	require.NoError(t, e.click(buyerID, cbBuy(productID)))
	assert.Equal(t, texts.Get("fr", texts.ProductUnavailable), e.last(buyerID).Text)

	require.NoError(t, e.click(adminID, cbAdminRestoreProduct(productID)))
	p, _ = e.db.Product(productID)
	assert.Equal(t, domain.ProductStatusActive, p.Status)
	assert.False(t, p.AdminLocked)

	require.NoError(t, e.click(sellerID, cbToggleProduct(productID)))
	p, _ = e.db.Product(productID)
	assert.Equal(t, domain.ProductStatusInactive, p.Status)
}

func TestAdmin_CompletePayoutRespectsEscrow(t *testing.T) {
	e := newEnv(t)
	orderID := e.purchase("sol")
	order, _ := e.db.Order(orderID)
	e.gateway.SetStatus(order.GatewayPaymentID(), domain.GatewayFinished)
	require.NoError(t, e.click(buyerID, cbCheckPayment(orderID)))

	payouts := e.db.Payouts()
	require.Len(t, payouts, 1)
	id := payouts[0].ID.String()

	require.NoError(t, e.click(adminID, cbAdminPayoutDone(id)))
	assert.True(t, e.hasButton(e.last(adminID), cbAdminPayoutForce(id)))
	assert.Equal(t, domain.PayoutStatusPending, e.db.Payouts()[0].Status)

	require.NoError(t, e.click(adminID, cbAdminPayoutForce(id)))
	assert.Equal(t, domain.PayoutStatusCompleted, e.db.Payouts()[0].Status)

	require.NoError(t, e.click(adminID, cbAdminPayoutForce(id)))
	assert.Equal(t, texts.Get("fr", texts.PayoutAlreadyDone), e.last(adminID).Text)
}

func TestAdmin_PayoutReleaseNotifiesSeller(t *testing.T) {
	e := newEnv(t)
	orderID := e.purchase("sol")
	order, _ := e.db.Order(orderID)
	e.gateway.SetStatus(order.GatewayPaymentID(), domain.GatewayFinished)
	require.NoError(t, e.click(buyerID, cbCheckPayment(orderID)))

	released, err := e.svc.Payouts.ReleaseDue(e.ctx(), e.now.Add(domain.DefaultEscrowWindow+time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, released)
	assert.Equal(t, 1, e.mailer.released)
	assert.Equal(t, domain.PayoutStatusReady, e.db.Payouts()[0].Status)
}

func TestAdmin_Stats(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.click(adminID, "admin_stats"))
	want := texts.Get("fr", texts.AdminStats, 3, 1, 1, 1, 0, "0.00", "0.00", 0, "0.00", 0)
	assert.Equal(t, want, e.last(adminID).Text)
}
