package market

import (
	"strings"
	"testing"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/usecases/market/texts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// purchase проводит покупателя до экрана оплаты и возвращает номер заказа
func (e *env) purchase(currency string) string {
	e.t.Helper()
	require.NoError(e.t, e.click(buyerID, cbBuy(productID)))
	require.NoError(e.t, e.click(buyerID, cbPay(currency, productID)))
	return strings.TrimPrefix(e.buttonWithPrefix(buyerID, "check_payment_"), "check_payment_")
}

func TestPurchase_DeliversOnceAndNotifiesSeller(t *testing.T) {
	e := newEnv(t)

	orderID := e.purchase("sol")
	order, ok := e.db.Order(orderID)
	require.True(t, ok)
	assert.Equal(t, domain.PaymentStatusWaiting, order.PaymentStatus)

	var photos int
	for _, s := range e.tg.SentTo(buyerID) {
		if s.Photo {
			photos++
		}
	}
	assert.Equal(t, 1, photos, "payment qr code")

	require.NoError(t, e.click(buyerID, cbCheckPayment(orderID)))
	assert.Empty(t, e.tg.Documents())
	assert.Equal(t, texts.Get("fr", texts.PaymentWaiting, orderID), e.last(buyerID).Text)

	e.gateway.SetStatus(order.GatewayPaymentID(), domain.GatewayFinished)
	require.NoError(t, e.click(buyerID, cbCheckPayment(orderID)))
	require.NoError(t, e.click(buyerID, cbCheckPayment(orderID)))

	docs := e.tg.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, buyerID, docs[0].ChatID)
	assert.Equal(t, "file-1", docs[0].File.FileID)

	order, _ = e.db.Order(orderID)
	assert.Equal(t, domain.PaymentStatusCompleted, order.PaymentStatus)
	assert.True(t, order.FileDelivered)

	assert.Equal(t, []string{orderID}, e.mailer.sales)
	payouts := e.db.Payouts()
	require.Len(t, payouts, 1)
	assert.Equal(t, sellerID, payouts[0].SellerID)
	assert.Equal(t, domain.PayoutStatusPending, payouts[0].Status)

	var sale bool
	for _, s := range e.tg.SentTo(sellerID) {
		if strings.Contains(s.Text, "Go in Practice") {
			sale = true
		}
	}
	assert.True(t, sale, "seller gets a sale notice")

	require.NoError(t, e.click(buyerID, cbBuy(productID)))
	assert.Equal(t, texts.Get("fr", texts.AlreadyOwned), e.last(buyerID).Text)
}

func TestPurchase_OwnProduct(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.click(sellerID, cbBuy(productID)))
	assert.Equal(t, texts.Get("fr", texts.OwnProduct), e.last(sellerID).Text)
	assert.Empty(t, e.gateway.Created)
}

func TestPurchase_SuspendedBuyerBlocked(t *testing.T) {
	e := newEnv(t)
	b := e.user(buyerID)
	b.Status = domain.UserStatusSuspended
	e.db.PutUser(*b)

	require.NoError(t, e.click(buyerID, cbBuy(productID)))
	assert.Equal(t, texts.Get("fr", texts.AccountSuspended), e.last(buyerID).Text)
}

func TestCheckPayment_ForeignOrder(t *testing.T) {
	e := newEnv(t)
	orderID := e.purchase("sol")
	e.db.PutUser(domain.User{TelegramID: 333, FirstName: "Eve"})

	require.NoError(t, e.click(333, cbCheckPayment(orderID)))
	assert.Equal(t, texts.Get("fr", texts.OrderNotFound), e.last(333).Text)
}

func TestLibraryAndRedownload(t *testing.T) {
	e := newEnv(t)
	orderID := e.purchase("sol")
	order, _ := e.db.Order(orderID)
	e.gateway.SetStatus(order.GatewayPaymentID(), domain.GatewayFinished)
	require.NoError(t, e.click(buyerID, cbCheckPayment(orderID)))

	require.NoError(t, e.click(buyerID, "library"))
	assert.True(t, e.hasButton(e.last(buyerID), cbDownload(orderID)))

	require.NoError(t, e.click(buyerID, cbDownload(orderID)))
	assert.Len(t, e.tg.Documents(), 2)
	order, _ = e.db.Order(orderID)
	// первая выдача после оплаты и повторная из библиотеки
	assert.EqualValues(t, 2, order.DownloadCount)
}

func TestReview_OnlyBuyersOnce(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.click(buyerID, cbReview(productID)))
	assert.Equal(t, texts.Get("fr", texts.ReviewNotBuyer), e.last(buyerID).Text)

	orderID := e.purchase("sol")
	order, _ := e.db.Order(orderID)
	e.gateway.SetStatus(order.GatewayPaymentID(), domain.GatewayFinished)
	require.NoError(t, e.click(buyerID, cbCheckPayment(orderID)))

	require.NoError(t, e.click(buyerID, cbReview(productID)))
	require.NoError(t, e.click(buyerID, cbRate(4, productID)))
	require.NoError(t, e.text(buyerID, "Clear and practical"))
	assert.Equal(t, texts.Get("fr", texts.ReviewThanks), e.last(buyerID).Text)

	p, _ := e.db.Product(productID)
	assert.InDelta(t, 4.0, p.Rating, 0.001)
	assert.EqualValues(t, 1, p.ReviewsCount)

	require.NoError(t, e.click(buyerID, cbRate(5, productID)))
	require.NoError(t, e.text(buyerID, "-"))
	assert.Equal(t, texts.Get("fr", texts.ReviewDuplicate), e.last(buyerID).Text)
}

func TestSearch(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.click(buyerID, "search_product"))
	require.NoError(t, e.text(buyerID, "g"))
	assert.Equal(t, texts.Get("fr", texts.SearchTooShort), e.last(buyerID).Text)

	require.NoError(t, e.text(buyerID, "practice"))
	assert.True(t, e.hasButton(e.last(buyerID), cbProduct(productID)))
}
