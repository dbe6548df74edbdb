package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	mu    sync.Mutex
	runs  int
	fails int // сколько первых запусков падают
	done  chan struct{}
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) NextRun(now time.Time) time.Time { return now.Add(time.Millisecond) }

func (j *countingJob) Run(context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.runs++
	if j.runs <= j.fails {
		return errors.New("boom")
	}
	if j.done != nil {
		close(j.done)
		j.done = nil
	}
	return nil
}

type stubAlerter struct {
	mu       sync.Mutex
	messages []string
}

func (a *stubAlerter) SendAlert(_ context.Context, msg string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, msg)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExecuteJobWithRetry(t *testing.T) {
	alerter := &stubAlerter{}
	s := NewScheduler(testLogger(), alerter).WithRetries(time.Millisecond, time.Millisecond)

	job := &countingJob{fails: 2}
	assert.Empty(t, s.executeJobWithRetry(context.Background(), job))
	assert.Equal(t, 3, job.runs)

	failing := &countingJob{fails: 100}
	errs := s.executeJobWithRetry(context.Background(), failing)
	require.Len(t, errs, 3)
	assert.Equal(t, 3, errs[2].attempt)

	s.sendAlert(context.Background(), failing.Name(), errs)
	require.Len(t, alerter.messages, 1)
	assert.Contains(t, alerter.messages[0], "counting")
	assert.Contains(t, alerter.messages[0], "Attempt 3: boom")
}

func TestStartRunsUntilCancelled(t *testing.T) {
	s := NewScheduler(testLogger(), nil).WithRetries()
	done := make(chan struct{})
	s.Register(&countingJob{done: done})

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan error, 1)
	go func() { finished <- s.Start(ctx) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
	cancel()

	select {
	case err := <-finished:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestEveryInterval(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 7, 30, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 15, 0, 0, time.UTC), everyInterval(now, 15*time.Minute))
	assert.Equal(t, time.Date(2024, 5, 1, 10, 10, 0, 0, time.UTC), everyInterval(now, 10*time.Minute))

	onBoundary := time.Date(2024, 5, 1, 10, 15, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), everyInterval(onBoundary, 15*time.Minute))
}

type stubReleaser struct{ at time.Time }

func (r *stubReleaser) ReleaseDue(_ context.Context, now time.Time) (int, error) {
	r.at = now
	return 2, nil
}

func TestPayoutReleaseJobUsesClock(t *testing.T) {
	fixed := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	r := &stubReleaser{}
	j := NewPayoutReleaseJob(r, testLogger())
	j.now = func() time.Time { return fixed }

	require.NoError(t, j.Run(context.Background()))
	assert.Equal(t, fixed, r.at)
	assert.Equal(t, "payout-releaser", j.Name())
}
