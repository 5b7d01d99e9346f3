package notification

import (
	"context"

	"gymflow/internal/db"
	"gymflow/internal/logger"
	"gymflow/internal/metrics"

	"github.com/jmoiron/sqlx"
)

type Mailer interface {
	SendNotification(ctx context.Context, to, name, title, message string) error
}

// Dispatcher moves committed notifications to the email queue.
type Dispatcher struct {
	db        *sqlx.DB
	repo      Repository
	mailer    Mailer
	batchSize int
}

func NewDispatcher(sqlDB *sqlx.DB, repo Repository, mailer Mailer, batchSize int) *Dispatcher {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Dispatcher{db: sqlDB, repo: repo, mailer: mailer, batchSize: batchSize}
}

// DispatchPending hands one batch to the mailer. Rows the mailer refuses
// stay undispatched and are retried on the next run.
func (d *Dispatcher) DispatchPending(ctx context.Context) (int, error) {
	var dispatched []string

	err := db.WithTx(ctx, d.db, func(tx *sqlx.Tx) error {
		outbox := d.repo.WithTx(tx)

		pending, err := outbox.ClaimUndispatched(ctx, d.batchSize)
		if err != nil {
			return err
		}

		for _, p := range pending {
			if err := d.mailer.SendNotification(ctx, p.Email, p.Name, p.Title, p.Message); err != nil {
				logger.Warn("notification not queued", "notification_id", p.ID, "error", err)
				continue
			}
			dispatched = append(dispatched, p.ID)
		}

		return outbox.MarkDispatched(ctx, dispatched)
	})
	if err != nil {
		return 0, err
	}

	metrics.RecordNotificationsDispatched(len(dispatched))
	return len(dispatched), nil
}
