package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/ports/jobs"
	"github.com/admin/tg-bots/market-bot/internal/ports/service"
)

var defaultRetries = []time.Duration{
	1 * time.Minute,
	5 * time.Minute,
	10 * time.Minute,
}

// Scheduler управляет запуском периодических джоб
type Scheduler struct {
	jobs           []jobs.Job
	retries        []time.Duration
	alerterService service.IAlerterService
	log            *slog.Logger
}

// NewScheduler создаёт новый планировщик джоб
func NewScheduler(log *slog.Logger, alerterService service.IAlerterService) *Scheduler {
	return &Scheduler{
		jobs:           make([]jobs.Job, 0),
		retries:        defaultRetries,
		alerterService: alerterService,
		log:            log,
	}
}

// WithRetries задержки между повторами упавшей джобы
func (s *Scheduler) WithRetries(retries ...time.Duration) *Scheduler {
	s.retries = retries
	return s
}

// Register регистрирует джобу в планировщике
func (s *Scheduler) Register(job jobs.Job) {
	s.jobs = append(s.jobs, job)
	s.log.Debug("job registered", "job_name", job.Name(), "total_jobs", len(s.jobs))
}

// Start запускает все джобы и блокируется до отмены контекста
func (s *Scheduler) Start(ctx context.Context) error {
	if len(s.jobs) == 0 {
		s.log.Warn("no jobs registered, scheduler not started")
		return nil
	}

	s.log.Info("starting job scheduler", "jobs_count", len(s.jobs))

	var wg sync.WaitGroup
	for _, job := range s.jobs {
		wg.Add(1)
		go func(job jobs.Job) {
			defer wg.Done()
			s.runJob(ctx, job)
		}(job)
	}
	wg.Wait()

	s.log.Info("job scheduler stopped")
	return nil
}

// runJob запускает отдельную джобу в цикле
func (s *Scheduler) runJob(ctx context.Context, job jobs.Job) {
	jobName := job.Name()
	for {
		now := time.Now()
		timer := time.NewTimer(job.NextRun(now).Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("job stopped by context", "job_name", jobName)
			return
		case <-timer.C:
			attemptErrors := s.executeJobWithRetry(ctx, job)
			if len(attemptErrors) > len(s.retries) {
				s.log.Error("job failed after all retries",
					"job_name", jobName,
					"attempts", len(attemptErrors),
					"last_error", attemptErrors[len(attemptErrors)-1].err,
				)
				s.sendAlert(ctx, jobName, attemptErrors)
			} else if len(attemptErrors) == 0 {
				s.log.Debug("job executed successfully", "job_name", jobName)
			}
		}
	}
}

// jobAttemptError представляет ошибку конкретной попытки выполнения джобы
type jobAttemptError struct {
	attempt int
	err     error
}

// executeJobWithRetry выполняет джобу с повторами. Пустой результат - успех,
// len > len(retries) - все попытки исчерпаны
func (s *Scheduler) executeJobWithRetry(ctx context.Context, job jobs.Job) []jobAttemptError {
	var attemptErrors []jobAttemptError

	for attempt := 1; ; attempt++ {
		err := job.Run(ctx)
		if err == nil {
			if attempt > 1 {
				s.log.Info("job succeeded after retry", "job_name", job.Name(), "attempt", attempt)
			}
			return nil
		}
		attemptErrors = append(attemptErrors, jobAttemptError{attempt: attempt, err: err})

		if attempt > len(s.retries) {
			return attemptErrors
		}
		s.log.Warn("job execution failed, will retry",
			"job_name", job.Name(),
			"attempt", attempt,
			"retries_remaining", len(s.retries)-attempt+1,
			"error", err,
		)

		timer := time.NewTimer(s.retries[attempt-1])
		select {
		case <-ctx.Done():
			timer.Stop()
			return attemptErrors
		case <-timer.C:
		}
	}
}

// sendAlert алертит на финальную ошибку после ретраев
func (s *Scheduler) sendAlert(ctx context.Context, jobName string, attemptErrors []jobAttemptError) {
	if s.alerterService == nil {
		return
	}

	var errorLines []string
	for _, attemptErr := range attemptErrors {
		errorLines = append(errorLines, fmt.Sprintf("Attempt %d: %s", attemptErr.attempt, attemptErr.err.Error()))
	}

	var message strings.Builder
	message.WriteString("⚠️ Scheduled job failed, retries exhausted\n\n")
	message.WriteString(fmt.Sprintf("Job: %s\n\n", jobName))
	message.WriteString(strings.Join(errorLines, "\n"))

	if alertErr := s.alerterService.SendAlert(ctx, message.String()); alertErr != nil {
		s.log.Warn("failed to send job failure alert",
			"job_name", jobName,
			"error", alertErr,
		)
	}
}
