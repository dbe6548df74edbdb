package payment

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	paymentPort "github.com/admin/tg-bots/market-bot/internal/ports/payment"
)

// CheckResult итог ручной проверки оплаты
type CheckResult struct {
	Order      *domain.Order
	Status     domain.PaymentStatus
	Completion *domain.CompletionResult
}

// CreateOrder создаёт платёж в шлюзе и заказ в статусе waiting.
// Открытый заказ того же покупателя на тот же товар и валюту внутри окна оплаты переиспользуется.
func (s *Service) CreateOrder(ctx context.Context, buyer *domain.User, productID, currency string) (*domain.PaymentDetails, error) {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if buyer.IsSuspended() {
		return nil, domain.ErrUserSuspended
	}
	if !s.SupportsCurrency(currency) {
		return nil, domain.NewValidationError("currency", "unsupported currency "+currency)
	}

	product, err := s.ProductRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}
	if !product.IsPurchasable() {
		return nil, domain.NewValidationError("product", "product is not available")
	}
	if product.SellerID == buyer.TelegramID {
		return nil, domain.NewValidationError("product", "cannot buy your own product")
	}

	owned, err := s.OrderRepo.HasCompleted(ctx, buyer.TelegramID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to check previous purchases: %w", err)
	}
	if owned {
		return nil, domain.ErrAlreadyExists
	}

	now := s.Now().UTC()
	quote := s.Pricing.Quote(product.PriceUSD)

	open, err := s.OrderRepo.FindOpen(ctx, buyer.TelegramID, productID, now.Add(-s.PaymentWindow))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up open order: %w", err)
	}
	if open != nil && open.PaymentCurrency == currency && open.PaymentAddress != nil && open.GatewayPaymentID() != "" {
		s.Log.Info("reusing open order", "order_id", open.OrderID, "buyer_id", buyer.TelegramID)
		return s.details(open), nil
	}

	counter, err := s.Counters.Next(ctx, domain.CounterOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate order id: %w", err)
	}
	orderID := domain.FormatSequentialID(domain.CounterOrder.Prefix(), now, counter)

	info, err := s.Gateway.CreatePayment(ctx, paymentPort.CreatePaymentRequest{
		OrderID:          orderID,
		PriceAmount:      quote.BuyerTotal,
		PayCurrency:      currency,
		OrderDescription: product.Title,
	})
	if err != nil {
		s.Log.Error("failed to create gateway payment",
			"error", err,
			"order_id", orderID,
			"currency", currency,
		)
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	payAmount := info.PayAmount
	if payAmount.IsZero() {
		estimated, err := s.Gateway.EstimateAmount(ctx, quote.BuyerTotal, currency)
		if err != nil {
			s.Log.Warn("failed to estimate crypto amount", "error", err, "order_id", orderID)
		} else {
			payAmount = estimated
		}
	}

	paymentID := info.PaymentID
	address := info.PayAddress
	status := info.Status.OrderStatus()
	if status != domain.PaymentStatusWaiting && status != domain.PaymentStatusConfirming {
		status = domain.PaymentStatusWaiting
	}

	order := &domain.Order{
		OrderID:            orderID,
		BuyerID:            buyer.TelegramID,
		ProductID:          product.ProductID,
		SellerID:           product.SellerID,
		ProductTitle:       product.Title,
		ProductPriceUSD:    quote.PriceUSD,
		PlatformCommission: quote.Commission,
		SellerRevenue:      quote.SellerRevenue,
		BuyerTotal:         quote.BuyerTotal,
		PaymentCurrency:    currency,
		CryptoAmount:       payAmount,
		PaymentAddress:     &address,
		NowPaymentsID:      &paymentID,
		PaymentStatus:      status,
		CreatedAt:          now,
	}
	if err := s.OrderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.Log.Info("order created",
		"order_id", orderID,
		"payment_id", paymentID,
		"buyer_id", buyer.TelegramID,
		"product_id", product.ProductID,
		"buyer_total", quote.BuyerTotal.StringFixed(2),
		"currency", currency,
	)

	return s.details(order), nil
}

func (s *Service) details(order *domain.Order) *domain.PaymentDetails {
	address := ""
	if order.PaymentAddress != nil {
		address = *order.PaymentAddress
	}
	d := &domain.PaymentDetails{
		Order:       order,
		Quote:       order.Quote(),
		PayAddress:  address,
		PayAmount:   order.CryptoAmount,
		PayCurrency: order.PaymentCurrency,
		ExpiresAt:   order.CreatedAt.Add(s.PaymentWindow),
	}
	if s.QR != nil && address != "" {
		png, err := s.QR.PNG(address, qrSize)
		if err != nil {
			s.Log.Warn("failed to render qr code", "error", err, "order_id", order.OrderID)
		} else {
			d.QRCodeBase64 = base64.StdEncoding.EncodeToString(png)
		}
	}
	return d
}

// CheckPayment ручная проверка оплаты покупателем
func (s *Service) CheckPayment(ctx context.Context, buyerID int64, orderID string) (*CheckResult, error) {
	order, err := s.OrderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	if order.BuyerID != buyerID {
		return nil, domain.ErrAccessDenied
	}

	if order.PaymentStatus == domain.PaymentStatusCompleted {
		// повторная попытка доставки, если прошлая не удалась
		completion, err := s.CompleteOrder(ctx, order.OrderID)
		if err != nil {
			return nil, err
		}
		return &CheckResult{Order: completion.Order, Status: domain.PaymentStatusCompleted, Completion: completion}, nil
	}

	if order.GatewayPaymentID() == "" {
		s.Log.Warn("order has no gateway payment id", "order_id", orderID)
		return nil, domain.ErrMissingPaymentID
	}

	info, err := s.Gateway.GetPaymentStatus(ctx, order.GatewayPaymentID())
	if err != nil {
		s.Log.Error("failed to get payment status",
			"error", err,
			"order_id", orderID,
			"payment_id", order.GatewayPaymentID(),
		)
		if !errors.Is(err, domain.ErrPaymentGateway) {
			err = fmt.Errorf("%w: %v", domain.ErrPaymentGateway, err)
		}
		return nil, err
	}

	return s.applyGatewayStatus(ctx, order, info.Status)
}

// HandleIPN уведомление шлюза, тот же путь завершения, что и при ручной проверке
func (s *Service) HandleIPN(ctx context.Context, n *paymentPort.IPNNotification) error {
	order, err := s.OrderRepo.GetByGatewayID(ctx, n.PaymentID)
	if errors.Is(err, domain.ErrNotFound) && n.OrderID != "" {
		order, err = s.OrderRepo.GetByID(ctx, n.OrderID)
		if err == nil && order.GatewayPaymentID() != "" && order.GatewayPaymentID() != n.PaymentID {
			s.Log.Warn("ipn payment id does not match order",
				"order_id", n.OrderID,
				"payment_id", n.PaymentID,
				"order_payment_id", order.GatewayPaymentID(),
			)
			return fmt.Errorf("payment %s: %w", n.PaymentID, domain.ErrNotFound)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to find order for payment %s: %w", n.PaymentID, err)
	}

	_, err = s.applyGatewayStatus(ctx, order, n.Status)
	return err
}

// applyGatewayStatus переводит заказ по статусу шлюза, только вперёд
func (s *Service) applyGatewayStatus(ctx context.Context, order *domain.Order, gatewayStatus domain.GatewayStatus) (*CheckResult, error) {
	next := gatewayStatus.OrderStatus()

	if next == domain.PaymentStatusCompleted {
		completion, err := s.CompleteOrder(ctx, order.OrderID)
		if err != nil {
			return nil, err
		}
		return &CheckResult{Order: completion.Order, Status: domain.PaymentStatusCompleted, Completion: completion}, nil
	}

	if order.PaymentStatus.CanTransitionTo(next) {
		ok, err := s.OrderRepo.UpdateStatus(ctx, order.OrderID, next, order.PaymentStatus)
		if err != nil {
			return nil, fmt.Errorf("failed to update order %s status: %w", order.OrderID, err)
		}
		if ok {
			s.Log.Info("order status changed",
				"order_id", order.OrderID,
				"from", order.PaymentStatus,
				"to", next,
				"gateway_status", gatewayStatus,
			)
			order.PaymentStatus = next
		}
	}

	return &CheckResult{Order: order, Status: order.PaymentStatus}, nil
}

// ExpireStale заказы без оплаты дольше окна оплаты
func (s *Service) ExpireStale(ctx context.Context) (int64, error) {
	expired, err := s.OrderRepo.ExpireStale(ctx, s.Now().UTC().Add(-s.PaymentWindow))
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale orders: %w", err)
	}
	return expired, nil
}

// Redownload повторная отправка файла из библиотеки покупателя
func (s *Service) Redownload(ctx context.Context, buyerID int64, orderID string) error {
	order, err := s.OrderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	if order.BuyerID != buyerID {
		return domain.ErrAccessDenied
	}
	if order.PaymentStatus != domain.PaymentStatusCompleted {
		return domain.NewValidationError("order", "order is not paid")
	}

	if s.Deliverer == nil {
		return fmt.Errorf("file delivery is not configured")
	}
	product, err := s.ProductRepo.GetByID(ctx, order.ProductID)
	if err != nil {
		return fmt.Errorf("failed to get product %s: %w", order.ProductID, err)
	}
	if err := s.Deliverer.DeliverFile(ctx, order, product); err != nil {
		return fmt.Errorf("failed to deliver file: %w", err)
	}
	if err := s.OrderRepo.IncrementDownloads(ctx, orderID); err != nil {
		s.Log.Warn("failed to increment downloads", "error", err, "order_id", orderID)
	}
	return nil
}
