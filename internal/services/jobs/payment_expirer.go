package jobs

import (
	"context"
	"log/slog"
	"time"
)

const (
	paymentExpirerName     = "payment-expirer"
	paymentExpirerInterval = 10 * time.Minute
)

// OrderExpirer закрывает заказы, не оплаченные в окне оплаты
type OrderExpirer interface {
	ExpireStale(ctx context.Context) (int64, error)
}

// PaymentExpireJob каждые 10 минут
type PaymentExpireJob struct {
	orders OrderExpirer
	log    *slog.Logger
}

func NewPaymentExpireJob(orders OrderExpirer, log *slog.Logger) *PaymentExpireJob {
	return &PaymentExpireJob{orders: orders, log: log}
}

func (j *PaymentExpireJob) Name() string {
	return paymentExpirerName
}

func (j *PaymentExpireJob) NextRun(now time.Time) time.Time {
	return everyInterval(now, paymentExpirerInterval)
}

func (j *PaymentExpireJob) Run(ctx context.Context) error {
	expired, err := j.orders.ExpireStale(ctx)
	if err != nil {
		return err
	}
	if expired > 0 {
		j.log.Info("stale orders expired", "count", expired)
	}
	return nil
}
