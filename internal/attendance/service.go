package attendance

import (
	"context"
	"fmt"
	"time"

	"gymflow/internal/apperrors"
	"gymflow/internal/db"
	"gymflow/internal/logger"
	"gymflow/internal/notification"
	"gymflow/internal/plan"
	"gymflow/internal/schedule"

	"github.com/jmoiron/sqlx"
)

var (
	ErrSessionStarted = apperrors.PreconditionFailed("cannot book a session that has already started")
	ErrSessionFull    = apperrors.PreconditionFailed("session is full")
)

const timeLayout = "Jan 2, 2006 at 3:04 PM"

// Admission decides whether a client may attend a session restricted to
// the given plan kinds.
type Admission interface {
	Check(ctx context.Context, clientID string, allowed []plan.Kind) error
}

type Service interface {
	Book(ctx context.Context, clientID, sessionID string) (*Attendance, error)
	ListForClient(ctx context.Context, clientID string) ([]WithDetails, error)
	ListForSession(ctx context.Context, sessionID string) ([]WithDetails, error)
}

type service struct {
	db       *sqlx.DB
	repo     Repository
	sessions schedule.Repository
	outbox   notification.Repository
	gate     Admission
	now      func() time.Time
}

func NewService(
	sqlDB *sqlx.DB,
	repo Repository,
	sessions schedule.Repository,
	outbox notification.Repository,
	gate Admission,
) Service {
	return &service{
		db:       sqlDB,
		repo:     repo,
		sessions: sessions,
		outbox:   outbox,
		gate:     gate,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Book records clientID on the session. The session row stays locked for
// the whole transaction so the capacity count cannot be overtaken.
func (s *service) Book(ctx context.Context, clientID, sessionID string) (*Attendance, error) {
	var booked *Attendance

	err := db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := s.repo.WithTx(tx)

		session, err := s.sessions.WithTx(tx).Lock(ctx, sessionID)
		if err != nil {
			return err
		}
		if session.HasStarted(s.now()) {
			return ErrSessionStarted
		}

		already, err := repo.Exists(ctx, sessionID, clientID)
		if err != nil {
			return err
		}
		if already {
			return ErrAlreadyBooked
		}

		if session.Capacity != nil {
			count, err := repo.CountForSession(ctx, sessionID)
			if err != nil {
				return err
			}
			if count >= *session.Capacity {
				return ErrSessionFull
			}
		}

		if err := s.gate.Check(ctx, clientID, session.AllowedKinds()); err != nil {
			return err
		}

		booked = &Attendance{SessionID: sessionID, ClientID: clientID}
		if err := repo.Create(ctx, booked); err != nil {
			return err
		}

		return s.notify(ctx, s.outbox.WithTx(tx), session, clientID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("session booked", "session_id", sessionID, "client_id", clientID)
	return booked, nil
}

func (s *service) notify(ctx context.Context, outbox notification.Repository, session *schedule.Session, clientID string) error {
	when := session.StartTime.Format(timeLayout)
	meta := map[string]string{"sessionId": session.ID, "clientId": clientID}

	err := outbox.Enqueue(ctx, notification.Message{
		UserID:   clientID,
		Type:     notification.TypeSessionBooked,
		Title:    "Session booked",
		Body:     fmt.Sprintf("You are booked for %s on %s.", session.Title, when),
		Metadata: meta,
	})
	if err != nil {
		return err
	}

	if session.StaffID == nil {
		return nil
	}
	return outbox.Enqueue(ctx, notification.Message{
		UserID:   *session.StaffID,
		Type:     notification.TypeSessionBooked,
		Title:    "New attendee",
		Body:     fmt.Sprintf("A client joined %s on %s.", session.Title, when),
		Metadata: meta,
	})
}

func (s *service) ListForClient(ctx context.Context, clientID string) ([]WithDetails, error) {
	return s.repo.ListForClient(ctx, clientID)
}

func (s *service) ListForSession(ctx context.Context, sessionID string) ([]WithDetails, error) {
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.repo.ListForSession(ctx, sessionID)
}
