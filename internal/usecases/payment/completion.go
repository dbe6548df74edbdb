package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/ports/persistence"
)

// CompleteOrder общий путь завершения для вебхука и ручной проверки.
// Счётчики и выплату выполняет только тот вызов, который перевёл заказ в completed,
// файл доставляется не больше одного раза.
func (s *Service) CompleteOrder(ctx context.Context, orderID string) (*domain.CompletionResult, error) {
	if s.Locker != nil {
		unlock, ok, err := s.Locker.TryLock(ctx, "order:complete:"+orderID, completionLockTTL)
		switch {
		case err != nil:
			s.Log.Warn("completion lock unavailable, relying on conditional update", "error", err, "order_id", orderID)
		case !ok:
			s.Log.Info("order completion already in progress", "order_id", orderID)
			order, err := s.OrderRepo.GetByID(ctx, orderID)
			if err != nil {
				return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
			}
			return &domain.CompletionResult{Order: order, AlreadyHandled: true}, nil
		default:
			defer unlock()
		}
	}

	order, err := s.OrderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	if order.PaymentStatus != domain.PaymentStatusCompleted && !order.PaymentStatus.CanTransitionTo(domain.PaymentStatusCompleted) {
		s.Log.Error("paid order cannot be completed",
			"order_id", orderID,
			"status", order.PaymentStatus,
		)
		s.alert(ctx, fmt.Sprintf("Payment confirmed for order %s in status %s, manual review needed", orderID, order.PaymentStatus))
		return nil, fmt.Errorf("order %s is %s: %w", orderID, order.PaymentStatus, domain.ErrInvalidTransition)
	}

	seller, err := s.UserRepo.GetByTelegramID(ctx, order.SellerID)
	if err != nil {
		s.Log.Warn("failed to load seller for completed order", "error", err, "order_id", orderID, "seller_id", order.SellerID)
		seller = nil
	}

	now := s.Now().UTC()
	justCompleted := false
	err = s.OrderRepo.WithTransaction(ctx, func(txCtx context.Context, tx persistence.Transaction) error {
		flipped, err := s.OrderRepo.MarkCompletedTx(txCtx, tx, orderID, now)
		if err != nil {
			return err
		}
		if !flipped {
			return nil
		}
		justCompleted = true

		if err := s.ProductRepo.IncrementSalesTx(txCtx, tx, order.ProductID); err != nil {
			return err
		}
		if err := s.UserRepo.AddSaleTx(txCtx, tx, order.SellerID, order.SellerRevenue); err != nil {
			return err
		}

		order.PaymentStatus = domain.PaymentStatusCompleted
		order.CompletedAt = &now
		if s.Payouts != nil {
			if _, err := s.Payouts.CreateForOrder(txCtx, tx, order, seller); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.Log.Error("failed to complete order", "error", err, "order_id", orderID)
		s.alert(ctx, fmt.Sprintf("Order %s completion failed: %v", orderID, err))
		return nil, fmt.Errorf("failed to complete order %s: %w", orderID, err)
	}

	if justCompleted {
		s.Log.Info("order completed",
			"order_id", orderID,
			"seller_id", order.SellerID,
			"seller_revenue", order.SellerRevenue.StringFixed(2),
		)
	} else {
		// статус и completed_at из БД
		if fresh, err := s.OrderRepo.GetByID(ctx, orderID); err == nil {
			order = fresh
		}
	}

	result := &domain.CompletionResult{Order: order, JustCompleted: justCompleted}

	product, err := s.ProductRepo.GetByID(ctx, order.ProductID)
	if err != nil {
		s.Log.Error("product of completed order is missing", "error", err, "order_id", orderID, "product_id", order.ProductID)
		if errors.Is(err, domain.ErrNotFound) {
			s.alert(ctx, fmt.Sprintf("Order %s paid but product %s no longer exists", orderID, order.ProductID))
		}
		product = nil
	}

	if product != nil {
		delivered, err := s.deliverOnce(ctx, order, product)
		if err != nil {
			s.Log.Error("file delivery failed", "error", err, "order_id", orderID)
			s.alert(ctx, fmt.Sprintf("Order %s paid but file delivery failed: %v", orderID, err))
		}
		result.FileDelivered = delivered
	}
	result.AlreadyHandled = !justCompleted && !result.FileDelivered

	if justCompleted && s.Notifier != nil {
		s.Notifier.OrderCompleted(ctx, result, product, seller)
	}
	return result, nil
}

// deliverOnce захватывает флаг доставки, при ошибке отправки отпускает его для повторной попытки
func (s *Service) deliverOnce(ctx context.Context, order *domain.Order, product *domain.Product) (bool, error) {
	if s.Deliverer == nil {
		return false, nil
	}
	claimed, err := s.OrderRepo.ClaimDelivery(ctx, order.OrderID)
	if err != nil {
		return false, fmt.Errorf("failed to claim delivery: %w", err)
	}
	if !claimed {
		s.Log.Debug("file already delivered", "order_id", order.OrderID)
		return false, nil
	}

	if err := s.Deliverer.DeliverFile(ctx, order, product); err != nil {
		if relErr := s.OrderRepo.ReleaseDelivery(ctx, order.OrderID); relErr != nil {
			s.Log.Error("failed to release delivery claim", "error", relErr, "order_id", order.OrderID)
		}
		return false, err
	}

	order.FileDelivered = true
	if err := s.OrderRepo.IncrementDownloads(ctx, order.OrderID); err != nil {
		s.Log.Warn("failed to increment downloads", "error", err, "order_id", order.OrderID)
	}
	s.Log.Info("file delivered", "order_id", order.OrderID, "buyer_id", order.BuyerID)
	return true, nil
}
