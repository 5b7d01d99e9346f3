package payment

import (
	"database/sql/driver"
	"fmt"
	"time"

	"gymflow/internal/plan"
)

type Kind string
type Status string
type Method string

const (
	KindMembership Kind = "membership"
	KindRenewal    Kind = "renewal"

	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"

	MethodCash               Method = "cash"
	MethodElectronicTransfer Method = "electronic_transfer"
)

type Payment struct {
	ID          string          `db:"id" json:"id"`
	ClientID    string          `db:"client_id" json:"clientId"`
	PlanID      *string         `db:"plan_id" json:"planId"`
	AmountCents int64           `db:"amount_cents" json:"amountCents"`
	Kind        Kind            `db:"kind" json:"kind"`
	Status      Status          `db:"status" json:"status"`
	Method      Method          `db:"method" json:"method"`
	Reference   StoredReference `db:"reference" json:"-"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// StoredReference is the raw payments.reference column. NULL reads as "".
type StoredReference string

func (r *StoredReference) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = ""
	case string:
		*r = StoredReference(v)
	case []byte:
		*r = StoredReference(v)
	default:
		return fmt.Errorf("payment reference: unsupported type %T", src)
	}
	return nil
}

func (r StoredReference) Value() (driver.Value, error) {
	return string(r), nil
}

func (p *Payment) IsPending() bool {
	return p.Status == StatusPending
}

// AdminPayment is a ledger row joined with the paying client. Details is
// the decoded reference and is filled by the service, not the query.
type AdminPayment struct {
	Payment
	ClientName  string    `db:"client_name" json:"clientName"`
	ClientEmail string    `db:"client_email" json:"clientEmail"`
	Details     Reference `db:"-" json:"details"`
}

type ListFilter struct {
	Status Status `form:"status" binding:"omitempty,oneof=pending completed failed"`
	Kind   Kind   `form:"kind" binding:"omitempty,oneof=membership renewal"`
}

// PendingView is what a client sees of their outstanding request.
type PendingView struct {
	ID          string     `json:"id"`
	Kind        Kind       `json:"kind"`
	AmountCents int64      `json:"amountCents"`
	Method      Method     `json:"method"`
	CreatedAt   time.Time  `json:"createdAt"`
	Reference   *string    `json:"reference"`
	ProofURL    *string    `json:"proofUrl"`
	Plan        *plan.Plan `json:"plan"`
}
