package subscription

import (
	"context"
	"time"

	"gymflow/internal/logger"
	"gymflow/internal/metrics"
)

// Sweeper expires overdue subscriptions for every client. It is safe to run
// concurrently with itself and with the per-client sweep on listing.
type Sweeper struct {
	repo Repository
	now  func() time.Time
}

func NewSweeper(repo Repository) *Sweeper {
	return &Sweeper{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Sweeper) Run(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpireOverdue(ctx, s.now(), "")
	if err != nil {
		logger.Error("expiry sweep failed", "error", err)
		return 0, err
	}

	metrics.RecordExpired(n)
	if n > 0 {
		logger.Info("expired overdue subscriptions", "count", n)
	}
	return n, nil
}
