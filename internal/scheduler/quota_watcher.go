package scheduler

import (
	"context"
	"time"
)

// QuotaRefresher is implemented by the message service.
type QuotaRefresher interface {
	RefreshQuota(ctx context.Context) error
}

// NewQuotaWatcher returns a scheduler that re-reads the gateway quota on
// every tick so the cache stays warm and low balances get logged.
func NewQuotaWatcher(r QuotaRefresher, interval, runTimeout time.Duration) SchedulerService {
	return NewSchedulerService("quota", TaskFunc(r.RefreshQuota), interval, runTimeout)
}
