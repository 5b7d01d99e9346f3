package renewal

import "time"

type Renewal struct {
	ID             string    `db:"id" json:"id"`
	SubscriptionID string    `db:"subscription_id" json:"subscriptionId"`
	PaymentID      *string   `db:"payment_id" json:"paymentId"`
	NewEndDate     time.Time `db:"new_end_date" json:"newEndDate"`
	AmountCents    int64     `db:"amount_cents" json:"amountCents"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

type AdminRenewal struct {
	Renewal
	ClientID   string `db:"client_id" json:"clientId"`
	ClientName string `db:"client_name" json:"clientName"`
	PlanName   string `db:"plan_name" json:"planName"`
}
