package market

import (
	"testing"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/usecases/market/texts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestProductWizard_CreatesActiveProduct(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.click(sellerID, "add_product"))
	assert.Equal(t, domain.FlowAddProduct, e.bag(sellerID).Flow())

	require.NoError(t, e.text(sellerID, "Intro to Python"))
	require.NoError(t, e.text(sellerID, "Variables, loops and functions with exercises."))
	require.NoError(t, e.text(sellerID, "2"))
	assert.Equal(t, domain.StepPrice, e.bag(sellerID).Step())
	require.NoError(t, e.text(sellerID, "49.99"))
	assert.Equal(t, domain.StepCover, e.bag(sellerID).Step())
	require.NoError(t, e.click(sellerID, "skip_cover"))
	assert.Equal(t, domain.StepFile, e.bag(sellerID).Step())

	require.NoError(t, e.upload(sellerID, &domain.Message{
		MessageID: 11,
		Document:  &domain.Document{FileID: "doc-1", FileName: strPtr("python.zip"), FileSize: 10 << 20},
	}))

	var created *domain.Product
	for _, p := range e.db.Products() {
		if p.Title == "Intro to Python" {
			p := p
			created = &p
		}
	}
	require.NotNil(t, created)
	assert.Equal(t, domain.ProductStatusActive, created.Status)
	assert.True(t, created.PriceUSD.Equal(decimal.RequireFromString("49.99")))
	assert.Equal(t, "45.99", created.PriceEUR.StringFixed(2))
	assert.Equal(t, "programming", created.Category)
	assert.Equal(t, "tg:doc-1", created.MainFileURL)
	assert.Equal(t, "python.zip", created.FileName)
	assert.Nil(t, created.CoverImageURL)
	assert.Equal(t, sellerID, created.SellerID)

	assert.Empty(t, string(e.bag(sellerID).Flow()))
	assert.Contains(t, e.last(sellerID).Text, created.ProductID)
}

func TestProductWizard_RejectsBadInput(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.click(sellerID, "add_product"))

	require.NoError(t, e.text(sellerID, "Go"))
	assert.Equal(t, domain.StepTitle, e.bag(sellerID).Step())
	assert.Equal(t, texts.Get("fr", texts.InvalidTitle, domain.ProductTitleMinLen, domain.ProductTitleMaxLen), e.last(sellerID).Text)

	require.NoError(t, e.text(sellerID, "Intro to Python"))
	require.NoError(t, e.text(sellerID, "Description"))
	require.NoError(t, e.text(sellerID, "7"))
	assert.Equal(t, domain.StepCategory, e.bag(sellerID).Step())

	require.NoError(t, e.click(sellerID, "set_category_design"))
	assert.Equal(t, domain.StepPrice, e.bag(sellerID).Step())

	require.NoError(t, e.text(sellerID, "free"))
	assert.Equal(t, domain.StepPrice, e.bag(sellerID).Step())
	require.NoError(t, e.text(sellerID, "20"))
	require.NoError(t, e.click(sellerID, "skip_cover"))

	before := len(e.db.Products())
	require.NoError(t, e.upload(sellerID, &domain.Message{
		Document: &domain.Document{FileID: "doc-2", FileName: strPtr("setup.exe"), FileSize: 1 << 20},
	}))
	require.NoError(t, e.upload(sellerID, &domain.Message{
		Document: &domain.Document{FileID: "doc-3", FileName: strPtr("huge.zip"), FileSize: 51 << 20},
	}))
	assert.Len(t, e.db.Products(), before)
	assert.Equal(t, domain.StepFile, e.bag(sellerID).Step())
	assert.Equal(t, texts.Get("fr", texts.FileTooLarge, 50), e.last(sellerID).Text)
}

func TestUploadOutsideWizard(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.upload(buyerID, &domain.Message{Document: &domain.Document{FileID: "x"}}))
	assert.Equal(t, texts.Get("fr", texts.UploadNotExpected), e.last(buyerID).Text)
}

func TestSellerOnboarding(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.click(buyerID, "create_seller"))
	require.NoError(t, e.text(buyerID, "not-an-email"))
	assert.Equal(t, domain.StepSellerEmail, e.bag(buyerID).Step())

	require.NoError(t, e.text(buyerID, "Bea@Example.com"))
	assert.Equal(t, domain.StepSellerSolana, e.bag(buyerID).Step())

	require.NoError(t, e.text(buyerID, "too-short"))
	assert.Equal(t, domain.StepSellerSolana, e.bag(buyerID).Step())
	assert.Equal(t, texts.Get("fr", texts.InvalidSolana), e.last(buyerID).Text)
	assert.False(t, e.user(buyerID).IsSeller)

	require.NoError(t, e.text(buyerID, wallet))
	u := e.user(buyerID)
	assert.True(t, u.IsSeller)
	require.NotNil(t, u.Email)
	assert.Equal(t, "bea@example.com", *u.Email)
	require.NotNil(t, u.SolanaAddress)
	assert.Equal(t, wallet, *u.SolanaAddress)
	assert.Equal(t, []int64{buyerID}, e.mailer.welcomes)
	assert.Empty(t, string(e.bag(buyerID).Flow()))
}

func TestSellerOnboarding_EmailTaken(t *testing.T) {
	e := newEnv(t)
	email := "sam@example.com"
	seller := e.user(sellerID)
	seller.Email = &email
	e.db.PutUser(*seller)

	require.NoError(t, e.click(buyerID, "create_seller"))
	require.NoError(t, e.text(buyerID, "sam@example.com"))

	assert.Equal(t, domain.StepSellerEmail, e.bag(buyerID).Step())
	last := e.last(buyerID)
	assert.Equal(t, texts.Get("fr", texts.EmailTaken), last.Text)
	assert.True(t, e.hasButton(last, "seller_login"))
}

func TestEditPrice_RecomputesEuro(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.click(sellerID, cbEditField(string(domain.ProductFieldPrice), productID)))
	require.NoError(t, e.text(sellerID, "80"))

	p, _ := e.db.Product(productID)
	assert.True(t, p.PriceUSD.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, "73.60", p.PriceEUR.StringFixed(2))
	assert.Contains(t, e.last(sellerID).Text, "73.60")

	require.NoError(t, e.click(buyerID, cbProduct(productID)))
	assert.Contains(t, e.last(buyerID).Text, "$80.00 (≈ 73.60 €)")
}

func TestEditWallet(t *testing.T) {
	e := newEnv(t)
	newWallet := "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"

	require.NoError(t, e.click(sellerID, "edit_wallet"))
	require.NoError(t, e.text(sellerID, "too-short"))
	assert.Equal(t, domain.StepSellerSolana, e.bag(sellerID).Step())

	require.NoError(t, e.text(sellerID, newWallet))
	assert.Equal(t, newWallet, *e.user(sellerID).SolanaAddress)
}

func TestEditWallet_MovesUnpaidPayouts(t *testing.T) {
	e := newEnv(t)
	newWallet := "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"
	orderID := e.purchase("sol")
	order, _ := e.db.Order(orderID)
	e.gateway.SetStatus(order.GatewayPaymentID(), domain.GatewayFinished)
	require.NoError(t, e.click(buyerID, cbCheckPayment(orderID)))
	require.Len(t, e.db.Payouts(), 1)
	require.Equal(t, wallet, e.db.Payouts()[0].WalletAddress)

	require.NoError(t, e.click(sellerID, "edit_wallet"))
	require.NoError(t, e.text(sellerID, newWallet))

	assert.Equal(t, newWallet, e.db.Payouts()[0].WalletAddress)
}

func TestDeleteProduct_WithSalesOnlyDeactivates(t *testing.T) {
	e := newEnv(t)
	p, _ := e.db.Product(productID)
	p.SalesCount = 2
	e.db.PutProduct(p)

	require.NoError(t, e.click(sellerID, cbConfirmDelete(productID)))

	got, ok := e.db.Product(productID)
	require.True(t, ok)
	assert.Equal(t, domain.ProductStatusInactive, got.Status)
	assert.Equal(t, texts.Get("fr", texts.ProductDeactivatedInstead), e.last(sellerID).Text)
}

func TestDeleteProduct_WithoutSales(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.click(sellerID, cbConfirmDelete(productID)))
	_, ok := e.db.Product(productID)
	assert.False(t, ok)
}

func TestForeignProductIsNotManageable(t *testing.T) {
	e := newEnv(t)
	w := wallet
	e.db.PutUser(domain.User{TelegramID: 333, FirstName: "Other", IsSeller: true, SolanaAddress: &w})

	err := e.click(333, cbToggleProduct(productID))
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	got, _ := e.db.Product(productID)
	assert.Equal(t, domain.ProductStatusActive, got.Status)
}
