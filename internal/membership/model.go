package membership

import (
	"gymflow/internal/payment"
	"gymflow/internal/renewal"
	"gymflow/internal/subscription"
)

type ApplyRequest struct {
	PlanID                    string         `json:"planId" binding:"required"`
	Method                    payment.Method `json:"method" binding:"required,oneof=cash electronic_transfer"`
	Reference                 *string        `json:"reference" binding:"omitempty,max=200"`
	ProofURL                  *string        `json:"proofUrl" binding:"omitempty,uri,max=2048"`
	UpgradeFromSubscriptionID *string        `json:"upgradeFromSubscriptionId"`
	WithCoachSurcharge        bool           `json:"withCoachSurcharge"`
}

type RenewRequest struct {
	SubscriptionID string         `json:"subscriptionId" binding:"required"`
	Method         payment.Method `json:"method" binding:"required,oneof=cash electronic_transfer"`
	Reference      *string        `json:"reference" binding:"omitempty,max=200"`
	ProofURL       *string        `json:"proofUrl" binding:"omitempty,uri,max=2048"`
}

// ApprovalResult holds the records written by one approval. Renewal is set
// only for renewal payments.
type ApprovalResult struct {
	Payment      *payment.Payment           `json:"payment"`
	Subscription *subscription.Subscription `json:"subscription"`
	Renewal      *renewal.Renewal           `json:"renewal,omitempty"`
}
