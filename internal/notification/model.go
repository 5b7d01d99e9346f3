package notification

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

const (
	TypeMembershipApplication = "membership_application"
	TypeRenewalApplication    = "renewal_application"
	TypeMembershipApproved    = "membership_approved"
	TypeMembershipRejected    = "membership_rejected"
	TypeRenewalApproved       = "renewal_approved"
	TypeSessionBooked         = "session_booked"
)

// Message is a notification addressed to one user, or to every user of a
// role when passed to NotifyRole.
type Message struct {
	UserID   string
	Type     string
	Title    string
	Body     string
	Metadata map[string]string
}

type Notification struct {
	ID           string         `db:"id" json:"id"`
	UserID       string         `db:"user_id" json:"userId"`
	Type         string         `db:"type" json:"type"`
	Title        string         `db:"title" json:"title"`
	Message      string         `db:"message" json:"message"`
	Metadata     types.JSONText `db:"metadata" json:"metadata"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	DispatchedAt *time.Time     `db:"dispatched_at" json:"dispatchedAt"`
}

// Pending is an undispatched notification with the recipient's address.
type Pending struct {
	Notification
	Email string `db:"email"`
	Name  string `db:"name"`
}
