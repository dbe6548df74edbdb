package market

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/usecases/market/texts"
	"github.com/google/uuid"
)

const (
	searchLimit       = 10
	reviewsLimit      = 10
	descriptionTeaser = 300
	reviewCommentMax  = 500
)

func (s *Service) handleBuyCallback(ctx context.Context, user *domain.User, v view, cb Callback) error {
	switch cb.Action {
	case ActionBuyMenu:
		return s.showBuyMenu(ctx, user, v)
	case ActionBrowseCategories:
		return s.showCategories(ctx, user, v)
	case ActionCategory:
		return s.showCategory(ctx, user, v, cb.Category, cb.Page)
	case ActionViewProduct:
		return s.showProduct(ctx, user, v, cb.ID)
	case ActionPreviewProduct:
		return s.previewProduct(ctx, user, v, cb.ID)
	case ActionProductReviews:
		return s.showReviews(ctx, user, v, cb.ID)
	case ActionSearch:
		if err := s.State.StartFlow(ctx, user.TelegramID, domain.FlowSearch, "", domain.StateFields{domain.StateWaitingForSearch: true}); err != nil {
			return err
		}
		return s.show(ctx, v, s.t(user, texts.SearchPrompt), cancelKeyboard(s, user))
	case ActionBuyProduct:
		return s.chooseCurrency(ctx, user, v, cb.ID)
	case ActionPay:
		return s.pay(ctx, user, v, cb.Currency, cb.ID)
	case ActionCheckPayment:
		return s.checkPayment(ctx, user, v, cb.ID)
	case ActionLibrary:
		return s.showLibrary(ctx, user, v)
	case ActionDownload:
		return s.download(ctx, user, v, cb.ID)
	case ActionReview:
		return s.startReview(ctx, user, v, cb.ID)
	case ActionRate:
		return s.rate(ctx, user, v, cb.Value, cb.ID)
	}
	return nil
}

func (s *Service) showBuyMenu(ctx context.Context, user *domain.User, v view) error {
	kb := domain.Keyboard{
		domain.Row(button(s, user, texts.BtnCategories, "browse_categories")),
		domain.Row(button(s, user, texts.BtnSearch, "search_product")),
	}
	recent, err := s.ProductRepo.ListRecent(ctx, pageSize, 0)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to list recent products: %w", err)
	}
	for _, p := range recent {
		kb = append(kb, domain.Row(productButton(p)))
	}
	kb = append(kb, backKeyboard(s, user)...)
	return s.show(ctx, v, s.t(user, texts.BuyMenu), kb)
}

func productButton(p *domain.Product) domain.Button {
	return domain.CallbackButton(fmt.Sprintf("%s · $%s", truncate(p.Title, 40), p.PriceUSD.StringFixed(2)), cbProduct(p.ProductID))
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

func (s *Service) showCategories(ctx context.Context, user *domain.User, v view) error {
	categories, err := s.CategoryRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	kb := categoriesKeyboard(s, user, categories, func(key string) string { return cbCategory(key, 0) }, "buy_menu")
	return s.show(ctx, v, s.t(user, texts.ChooseCategory), kb)
}

func (s *Service) showCategory(ctx context.Context, user *domain.User, v view, key string, page int) error {
	category, err := s.CategoryRepo.GetByKey(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to get category %s: %w", key, err)
	}
	products, err := s.ProductRepo.ListByCategory(ctx, key, pageSize+1, page*pageSize)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to list products in %s: %w", key, err)
	}
	hasNext := len(products) > pageSize
	if hasNext {
		products = products[:pageSize]
	}

	var kb domain.Keyboard
	for _, p := range products {
		kb = append(kb, domain.Row(productButton(p)))
	}
	if row := pager(page, hasNext, func(p int) string { return cbCategory(key, p) }); len(row) > 0 {
		kb = append(kb, row)
	}
	kb = append(kb, backTo(s, user, "browse_categories")...)

	text := s.t(user, texts.CategoryHeader, escape(category.Label()), page+1)
	if len(products) == 0 {
		text = s.t(user, texts.CategoryEmpty, escape(category.Label()))
	}
	return s.show(ctx, v, text, kb)
}

func (s *Service) loadProduct(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.ProductRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}
	return product, nil
}

// visible неактивные товары видят только продавец и админ
func (s *Service) visible(user *domain.User, p *domain.Product) bool {
	return p.IsPurchasable() || p.SellerID == user.TelegramID || s.isAdmin(user)
}

func (s *Service) showProduct(ctx context.Context, user *domain.User, v view, productID string) error {
	product, err := s.ProductRepo.GetByID(ctx, productID)
	if errors.Is(err, domain.ErrNotFound) {
		return s.show(ctx, v, s.t(user, texts.ProductNotFound), backTo(s, user, "buy_menu"))
	}
	if err != nil {
		return fmt.Errorf("failed to get product %s: %w", productID, err)
	}
	if !s.visible(user, product) {
		return s.show(ctx, v, s.t(user, texts.ProductUnavailable), backTo(s, user, "buy_menu"))
	}
	if product.SellerID != user.TelegramID {
		if err := s.ProductRepo.IncrementViews(ctx, productID); err != nil {
			s.Log.Warn("failed to increment views", "error", err, "product_id", productID)
		}
	}

	sellerName := "—"
	if seller, err := s.UserRepo.GetByTelegramID(ctx, product.SellerID); err == nil {
		sellerName = seller.DisplayName()
	}
	text := s.t(user, texts.ProductCard,
		escape(product.Title),
		escape(sellerName),
		product.PriceUSD.StringFixed(2),
		product.PriceEUR.StringFixed(2),
		product.Rating, product.ReviewsCount,
		product.SalesCount,
		escape(truncate(product.Description, descriptionTeaser)),
		product.ProductID,
	)
	return s.show(ctx, v, text, productKeyboard(s, user, product))
}

// previewProduct обложка и полное описание
func (s *Service) previewProduct(ctx context.Context, user *domain.User, v view, productID string) error {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !s.visible(user, product) {
		return s.show(ctx, v, s.t(user, texts.ProductUnavailable), backTo(s, user, "buy_menu"))
	}
	if product.CoverImageURL != nil && *product.CoverImageURL != "" {
		cover, err := s.Files.Open(ctx, *product.CoverImageURL, "cover.jpg", escape(product.Title))
		if err != nil {
			s.Log.Warn("failed to open cover", "error", err, "product_id", productID)
		} else if err := s.Telegram.SendDocument(ctx, v.chatID, cover); err != nil {
			s.Log.Warn("failed to send cover", "error", err, "product_id", productID)
		}
	}
	text := s.t(user, texts.ProductPreview, escape(product.Title), escape(product.Description), product.FileSizeMB)
	return s.send(ctx, v.chatID, text, backTo(s, user, cbProduct(productID)))
}

func (s *Service) showReviews(ctx context.Context, user *domain.User, v view, productID string) error {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return err
	}
	reviews, err := s.ReviewRepo.ListByProduct(ctx, productID, reviewsLimit)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to list reviews: %w", err)
	}
	var b strings.Builder
	b.WriteString(s.t(user, texts.ReviewsHeader, escape(product.Title), product.Rating, product.ReviewsCount))
	if len(reviews) == 0 {
		b.WriteString("\n\n" + s.t(user, texts.NoReviews))
	}
	for _, r := range reviews {
		b.WriteString("\n\n" + strings.Repeat("⭐", r.Rating))
		if r.Comment != nil && *r.Comment != "" {
			b.WriteString("\n" + escape(*r.Comment))
		}
	}
	return s.show(ctx, v, b.String(), backTo(s, user, cbProduct(productID)))
}

func (s *Service) searchText(ctx context.Context, user *domain.User, v view, query string) error {
	if utf8.RuneCountInString(query) < 2 {
		return s.show(ctx, v, s.t(user, texts.SearchTooShort), cancelKeyboard(s, user))
	}
	if err := s.State.FinishFlow(ctx, user.TelegramID); err != nil {
		return err
	}
	products, err := s.ProductRepo.Search(ctx, query, searchLimit)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to search products: %w", err)
	}
	var kb domain.Keyboard
	for _, p := range products {
		kb = append(kb, domain.Row(productButton(p)))
	}
	kb = append(kb, domain.Row(button(s, user, texts.BtnSearchAgain, "search_product")))
	kb = append(kb, backTo(s, user, "buy_menu")...)
	if len(products) == 0 {
		return s.show(ctx, v, s.t(user, texts.SearchNoResults, escape(query)), kb)
	}
	return s.show(ctx, v, s.t(user, texts.SearchResults, escape(query), len(products)), kb)
}

func (s *Service) chooseCurrency(ctx context.Context, user *domain.User, v view, productID string) error {
	if ok, err := s.requireActive(ctx, user, v); !ok {
		return err
	}
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !product.IsPurchasable() {
		return s.show(ctx, v, s.t(user, texts.ProductUnavailable), backTo(s, user, "buy_menu"))
	}
	if product.SellerID == user.TelegramID {
		return s.show(ctx, v, s.t(user, texts.OwnProduct), backTo(s, user, cbProduct(productID)))
	}
	owned, err := s.OrderRepo.HasCompleted(ctx, user.TelegramID, productID)
	if err != nil {
		return fmt.Errorf("failed to check purchases: %w", err)
	}
	if owned {
		return s.show(ctx, v, s.t(user, texts.AlreadyOwned), domain.Keyboard{
			domain.Row(button(s, user, texts.BtnLibrary, "library")),
		})
	}

	quote := s.Pricing().Quote(product.PriceUSD)
	var kb domain.Keyboard
	var row []domain.Button
	for _, c := range s.Payments.Currencies {
		row = append(row, domain.CallbackButton(strings.ToUpper(c), cbPay(c, productID)))
		if len(row) == 3 {
			kb = append(kb, row)
			row = nil
		}
	}
	if len(row) > 0 {
		kb = append(kb, row)
	}
	kb = append(kb, backTo(s, user, cbProduct(productID))...)
	text := s.t(user, texts.ChooseCurrency,
		escape(product.Title),
		quote.PriceUSD.StringFixed(2),
		quote.ProcessingFee.StringFixed(2),
		quote.BuyerTotal.StringFixed(2),
	)
	return s.show(ctx, v, text, kb)
}

func (s *Service) pay(ctx context.Context, user *domain.User, v view, currency, productID string) error {
	if ok, err := s.requireActive(ctx, user, v); !ok {
		return err
	}
	details, err := s.Payments.CreateOrder(ctx, user, productID, currency)
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrAlreadyExists):
		return s.show(ctx, v, s.t(user, texts.AlreadyOwned), domain.Keyboard{
			domain.Row(button(s, user, texts.BtnLibrary, "library")),
		})
	case errors.As(err, &verr):
		return s.show(ctx, v, s.t(user, texts.InvalidInput, verr.Reason), backTo(s, user, cbProduct(productID)))
	case err != nil:
		return err
	}

	order := details.Order
	if details.QRCodeBase64 != "" {
		png, err := base64.StdEncoding.DecodeString(details.QRCodeBase64)
		if err == nil {
			err = s.Telegram.SendPhoto(ctx, v.chatID, png, order.OrderID+".png")
		}
		if err != nil {
			s.Log.Warn("failed to send payment qr", "error", err, "order_id", order.OrderID)
		}
	}

	text := s.t(user, texts.PaymentDetails,
		order.OrderID,
		escape(order.ProductTitle),
		details.PayAmount.String(),
		strings.ToUpper(details.PayCurrency),
		escape(details.PayAddress),
		details.Quote.BuyerTotal.StringFixed(2),
		details.ExpiresAt.UTC().Format("15:04 UTC"),
	)
	kb := domain.Keyboard{
		domain.Row(button(s, user, texts.BtnCheckPayment, cbCheckPayment(order.OrderID))),
		domain.Row(button(s, user, texts.BtnSupport, "support_menu"), button(s, user, texts.BtnMainMenu, "back_main")),
	}
	return s.send(ctx, v.chatID, text, kb)
}

func (s *Service) checkPayment(ctx context.Context, user *domain.User, v view, orderID string) error {
	res, err := s.Payments.CheckPayment(ctx, user.TelegramID, orderID)
	switch {
	case errors.Is(err, domain.ErrAccessDenied), errors.Is(err, domain.ErrNotFound):
		return s.show(ctx, v, s.t(user, texts.OrderNotFound), backKeyboard(s, user))
	case errors.Is(err, domain.ErrMissingPaymentID):
		return s.show(ctx, v, s.t(user, texts.PaymentMissingID, orderID), domain.Keyboard{
			domain.Row(button(s, user, texts.BtnSupport, "support_menu")),
		})
	case errors.Is(err, domain.ErrPaymentGateway):
		return s.show(ctx, v, s.t(user, texts.GatewayUnavailable), domain.Keyboard{
			domain.Row(button(s, user, texts.BtnCheckPayment, cbCheckPayment(orderID))),
			domain.Row(button(s, user, texts.BtnMainMenu, "back_main")),
		})
	case err != nil:
		return err
	}

	retry := domain.Keyboard{
		domain.Row(button(s, user, texts.BtnCheckPayment, cbCheckPayment(orderID))),
		domain.Row(button(s, user, texts.BtnSupport, "support_menu"), button(s, user, texts.BtnMainMenu, "back_main")),
	}
	switch res.Status {
	case domain.PaymentStatusCompleted:
		// уведомление с файлом уже ушло из CompleteOrder
		if res.Completion != nil && res.Completion.JustCompleted {
			return nil
		}
		return s.show(ctx, v, s.t(user, texts.PaymentAlreadyCompleted), domain.Keyboard{
			domain.Row(button(s, user, texts.BtnDownload, cbDownload(orderID))),
			domain.Row(button(s, user, texts.BtnLibrary, "library")),
		})
	case domain.PaymentStatusConfirming:
		return s.show(ctx, v, s.t(user, texts.PaymentConfirming, orderID), retry)
	case domain.PaymentStatusExpired:
		return s.show(ctx, v, s.t(user, texts.PaymentExpired, orderID), retry)
	case domain.PaymentStatusFailed:
		return s.show(ctx, v, s.t(user, texts.PaymentFailed, orderID), backKeyboard(s, user))
	default:
		return s.show(ctx, v, s.t(user, texts.PaymentWaiting, orderID), retry)
	}
}

func (s *Service) showLibrary(ctx context.Context, user *domain.User, v view) error {
	orders, err := s.OrderRepo.ListCompletedByBuyer(ctx, user.TelegramID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to list library: %w", err)
	}
	if len(orders) == 0 {
		return s.show(ctx, v, s.t(user, texts.LibraryEmpty), domain.Keyboard{
			domain.Row(button(s, user, texts.BtnBuy, "buy_menu")),
			domain.Row(button(s, user, texts.BtnMainMenu, "back_main")),
		})
	}
	var kb domain.Keyboard
	for _, o := range orders {
		kb = append(kb, domain.Row(
			domain.CallbackButton("📥 "+truncate(o.ProductTitle, 30), cbDownload(o.OrderID)),
			domain.CallbackButton("⭐", cbReview(o.ProductID)),
		))
	}
	kb = append(kb, backKeyboard(s, user)...)
	return s.show(ctx, v, s.t(user, texts.LibraryHeader, len(orders)), kb)
}

func (s *Service) download(ctx context.Context, user *domain.User, v view, orderID string) error {
	err := s.Payments.Redownload(ctx, user.TelegramID, orderID)
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrAccessDenied), errors.Is(err, domain.ErrNotFound):
		return s.show(ctx, v, s.t(user, texts.OrderNotFound), backKeyboard(s, user))
	case errors.As(err, &verr):
		return s.show(ctx, v, s.t(user, texts.OrderNotPaid), backKeyboard(s, user))
	}
	return err
}

// startReview оценка доступна только покупателю с завершённым заказом
func (s *Service) startReview(ctx context.Context, user *domain.User, v view, productID string) error {
	owned, err := s.OrderRepo.HasCompleted(ctx, user.TelegramID, productID)
	if err != nil {
		return fmt.Errorf("failed to check purchases: %w", err)
	}
	if !owned {
		return s.show(ctx, v, s.t(user, texts.ReviewNotBuyer), backKeyboard(s, user))
	}
	row := make([]domain.Button, 0, 5)
	for n := 1; n <= 5; n++ {
		row = append(row, domain.CallbackButton(fmt.Sprintf("%d⭐", n), cbRate(n, productID)))
	}
	return s.show(ctx, v, s.t(user, texts.ReviewChooseRating), domain.Keyboard{row, domain.Row(button(s, user, texts.BtnCancel, "library"))})
}

func (s *Service) rate(ctx context.Context, user *domain.User, v view, rating int, productID string) error {
	if !domain.IsValidRating(rating) {
		return s.show(ctx, v, s.t(user, texts.UnknownAction), backKeyboard(s, user))
	}
	owned, err := s.OrderRepo.HasCompleted(ctx, user.TelegramID, productID)
	if err != nil {
		return fmt.Errorf("failed to check purchases: %w", err)
	}
	if !owned {
		return s.show(ctx, v, s.t(user, texts.ReviewNotBuyer), backKeyboard(s, user))
	}
	if err := s.State.StartFlow(ctx, user.TelegramID, domain.FlowReview, domain.StepReviewComment, domain.StateFields{
		domain.StateWaitingForReview: productID,
		domain.StateReviewRating:     rating,
	}); err != nil {
		return err
	}
	return s.show(ctx, v, s.t(user, texts.ReviewCommentPrompt), cancelKeyboard(s, user))
}

// reviewText комментарий к оценке; "-" сохраняет оценку без текста
func (s *Service) reviewText(ctx context.Context, user *domain.User, v view, bag domain.SessionBag, text string) error {
	productID := bag.String(domain.StateWaitingForReview)
	rating := int(bag.Int64(domain.StateReviewRating))
	if productID == "" || !domain.IsValidRating(rating) {
		if err := s.State.FinishFlow(ctx, user.TelegramID); err != nil {
			return err
		}
		return s.showLibrary(ctx, user, v)
	}

	review := &domain.Review{
		ID:        uuid.New(),
		ProductID: productID,
		BuyerID:   user.TelegramID,
		Rating:    rating,
		CreatedAt: s.Now().UTC(),
	}
	if text != "-" {
		comment, err := s.Validator.Text("comment", text, reviewCommentMax)
		if err != nil {
			return s.show(ctx, v, s.t(user, texts.ReviewCommentTooLong), cancelKeyboard(s, user))
		}
		review.Comment = &comment
	}
	if err := s.State.FinishFlow(ctx, user.TelegramID); err != nil {
		return err
	}
	if err := s.ReviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return s.show(ctx, v, s.t(user, texts.ReviewDuplicate), backTo(s, user, "library"))
		}
		return fmt.Errorf("failed to save review: %w", err)
	}
	if err := s.ProductRepo.UpdateRating(ctx, productID); err != nil {
		s.Log.Warn("failed to update product rating", "error", err, "product_id", productID)
	}
	s.Log.Info("review saved", "product_id", productID, "buyer_id", user.TelegramID, "rating", rating)
	return s.show(ctx, v, s.t(user, texts.ReviewThanks), backTo(s, user, "library"))
}
