package jobs

import (
	"context"
	"log/slog"
	"time"
)

const (
	payoutReleaserName     = "payout-releaser"
	payoutReleaserInterval = 15 * time.Minute
)

// PayoutReleaser переводит выплаты с истёкшим эскроу в ready
type PayoutReleaser interface {
	ReleaseDue(ctx context.Context, now time.Time) (int, error)
}

// PayoutReleaseJob джоба эскроу, каждые 15 минут
type PayoutReleaseJob struct {
	payouts PayoutReleaser
	now     func() time.Time
	log     *slog.Logger
}

func NewPayoutReleaseJob(payouts PayoutReleaser, log *slog.Logger) *PayoutReleaseJob {
	return &PayoutReleaseJob{
		payouts: payouts,
		now:     time.Now,
		log:     log,
	}
}

func (j *PayoutReleaseJob) Name() string {
	return payoutReleaserName
}

func (j *PayoutReleaseJob) NextRun(now time.Time) time.Time {
	return everyInterval(now, payoutReleaserInterval)
}

func (j *PayoutReleaseJob) Run(ctx context.Context) error {
	released, err := j.payouts.ReleaseDue(ctx, j.now())
	if err != nil {
		return err
	}
	if released > 0 {
		j.log.Info("payouts released from escrow", "count", released)
	}
	return nil
}
