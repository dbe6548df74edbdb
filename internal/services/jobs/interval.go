package jobs

import "time"

// everyInterval следующий запуск на границе интервала (xx:00, xx:15, ...)
func everyInterval(now time.Time, interval time.Duration) time.Time {
	next := now.Truncate(interval).Add(interval)
	if !next.After(now) {
		next = next.Add(interval)
	}
	return next
}
