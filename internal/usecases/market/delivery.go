package market

import (
	"context"
	"fmt"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/usecases/market/texts"
)

// DeliverFile отправляет файл товара покупателю
func (s *Service) DeliverFile(ctx context.Context, order *domain.Order, product *domain.Product) error {
	name := product.FileName
	if name == "" {
		name = product.Title
	}
	var buyer *domain.User
	if u, err := s.UserRepo.GetByTelegramID(ctx, order.BuyerID); err == nil {
		buyer = u
	}
	file, err := s.Files.Open(ctx, product.MainFileURL, name, s.t(buyer, texts.FileCaption, escape(product.Title), order.OrderID))
	if err != nil {
		return fmt.Errorf("failed to open product file: %w", err)
	}
	if err := s.Telegram.SendDocument(ctx, order.BuyerID, file); err != nil {
		return err
	}
	s.Log.Info("product file delivered", "order_id", order.OrderID, "buyer_id", order.BuyerID)
	return nil
}

// OrderCompleted сообщения покупателю и продавцу после первого завершения заказа
func (s *Service) OrderCompleted(ctx context.Context, result *domain.CompletionResult, product *domain.Product, seller *domain.User) {
	order := result.Order

	var buyer *domain.User
	if u, err := s.UserRepo.GetByTelegramID(ctx, order.BuyerID); err == nil {
		buyer = u
	}
	key := texts.PurchaseConfirmed
	if !result.FileDelivered {
		key = texts.PurchaseConfirmedNoFile
	}
	kb := domain.Keyboard{
		domain.Row(button(s, buyer, texts.BtnDownload, cbDownload(order.OrderID))),
		domain.Row(button(s, buyer, texts.BtnReview, cbReview(order.ProductID)), button(s, buyer, texts.BtnLibrary, "library")),
	}
	if err := s.send(ctx, order.BuyerID, s.t(buyer, key, escape(order.ProductTitle), order.OrderID), kb); err != nil {
		s.Log.Warn("failed to notify buyer", "error", err, "order_id", order.OrderID)
	}

	if seller == nil {
		return
	}
	releaseAt := s.Now().UTC().Add(s.Payouts.Escrow)
	if order.CompletedAt != nil {
		releaseAt = order.CompletedAt.Add(s.Payouts.Escrow)
	}
	text := s.t(seller, texts.NewSale,
		escape(order.ProductTitle),
		order.ProductPriceUSD.StringFixed(2),
		order.PlatformCommission.StringFixed(2),
		s.Pricing().CommissionPercent(),
		order.SellerRevenue.StringFixed(2),
		releaseAt.UTC().Format("02.01 15:04 UTC"),
	)
	if !seller.HasWallet() {
		text += "\n\n" + s.t(seller, texts.WalletMissing)
	}
	if err := s.send(ctx, seller.TelegramID, text, domain.Keyboard{
		domain.Row(button(s, seller, texts.BtnDashboard, "seller_dashboard")),
	}); err != nil {
		s.Log.Warn("failed to notify seller", "error", err, "order_id", order.OrderID)
	}
	if s.Mailer != nil {
		if err := s.Mailer.Sale(ctx, seller, order); err != nil {
			s.Log.Warn("failed to queue sale email", "error", err, "order_id", order.OrderID)
		}
	}
}

// PayoutReleased эскроу истёк, выплата ждёт перевода
func (s *Service) PayoutReleased(ctx context.Context, seller *domain.User, payout *domain.Payout) {
	text := s.t(seller, texts.PayoutReleased, payout.TotalAmountUSD.StringFixed(2), payout.Currency)
	if err := s.send(ctx, seller.TelegramID, text, domain.Keyboard{
		domain.Row(button(s, seller, texts.BtnPayouts, "seller_payouts")),
	}); err != nil {
		s.Log.Warn("failed to notify seller about released payout", "error", err, "payout_id", payout.ID)
	}
	if s.Mailer != nil {
		if err := s.Mailer.PayoutReleased(ctx, seller, payout); err != nil {
			s.Log.Warn("failed to queue payout email", "error", err, "payout_id", payout.ID)
		}
	}
}
