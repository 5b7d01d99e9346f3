package payment

import (
	"encoding/json"
	"strings"

	"gymflow/internal/apperrors"
)

var (
	ErrNoPlanReference            = apperrors.PreconditionFailed("payment has no plan reference")
	ErrRenewalMissingSubscription = apperrors.PreconditionFailed("renewal payment missing subscription reference")
	ErrUnsupportedKind            = apperrors.PreconditionFailed("unsupported payment kind for approval")
)

// Reference is the metadata stored in payments.reference. Absent values
// encode as null.
type Reference struct {
	PlanID                    string  `json:"planId"`
	Reference                 *string `json:"reference"`
	ProofURL                  *string `json:"proofUrl"`
	SubscriptionID            *string `json:"subscriptionId"`
	UpgradeFromSubscriptionID *string `json:"upgradeFromSubscriptionId"`
	WithCoachSurcharge        bool    `json:"withCoachSurcharge"`
}

// referenceAliases accepts the field names written by earlier releases.
type referenceAliases struct {
	MembershipID                  *string `json:"membershipId"`
	ClientMembershipID            *string `json:"clientMembershipId"`
	UpgradeFromClientMembershipID *string `json:"upgradeFromClientMembershipId"`
}

func EncodeReference(ref Reference) (string, error) {
	b, err := json.Marshal(ref)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseReference never fails. Anything that does not start with "{" is read
// as the legacy "planId" or "planId:reference" form, which carries no proof
// URL and no subscription linkage. A JSON object that does not decode yields
// an empty Reference. A missing plan id comes back as "".
func ParseReference(raw string) Reference {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "{") {
		return legacyReference(raw)
	}

	var ref Reference
	if err := json.Unmarshal([]byte(raw), &ref); err != nil {
		return Reference{}
	}
	var old referenceAliases
	if json.Unmarshal([]byte(raw), &old) == nil {
		ref.PlanID = firstNonEmpty(ref.PlanID, deref(old.MembershipID))
		ref.SubscriptionID = firstSet(ref.SubscriptionID, old.ClientMembershipID)
		ref.UpgradeFromSubscriptionID = firstSet(ref.UpgradeFromSubscriptionID, old.UpgradeFromClientMembershipID)
	}
	return ref
}

func legacyReference(raw string) Reference {
	parts := strings.Split(raw, ":")
	ref := Reference{PlanID: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		if r := strings.TrimSpace(parts[1]); r != "" {
			ref.Reference = &r
		}
	}
	return ref
}

// Request is the decoded intent behind a pending payment. The concrete type
// is one of NewMembershipRequest, UpgradeRequest or RenewalRequest.
type Request interface {
	TargetPlanID() string
	Reference() Reference
	isRequest()
}

type Proof struct {
	Reference *string
	URL       *string
}

type NewMembershipRequest struct {
	PlanID             string
	WithCoachSurcharge bool
	Proof              Proof
}

type UpgradeRequest struct {
	PlanID             string
	FromSubscriptionID string
	WithCoachSurcharge bool
	Proof              Proof
}

type RenewalRequest struct {
	PlanID         string
	SubscriptionID string
	Proof          Proof
}

func (r NewMembershipRequest) TargetPlanID() string { return r.PlanID }
func (r UpgradeRequest) TargetPlanID() string       { return r.PlanID }
func (r RenewalRequest) TargetPlanID() string       { return r.PlanID }

func (NewMembershipRequest) isRequest() {}
func (UpgradeRequest) isRequest()       {}
func (RenewalRequest) isRequest()       {}

func (r NewMembershipRequest) Reference() Reference {
	return Reference{
		PlanID:             r.PlanID,
		Reference:          r.Proof.Reference,
		ProofURL:           r.Proof.URL,
		WithCoachSurcharge: r.WithCoachSurcharge,
	}
}

func (r UpgradeRequest) Reference() Reference {
	from := r.FromSubscriptionID
	return Reference{
		PlanID:                    r.PlanID,
		Reference:                 r.Proof.Reference,
		ProofURL:                  r.Proof.URL,
		UpgradeFromSubscriptionID: &from,
		WithCoachSurcharge:        r.WithCoachSurcharge,
	}
}

func (r RenewalRequest) Reference() Reference {
	sub := r.SubscriptionID
	return Reference{
		PlanID:         r.PlanID,
		Reference:      r.Proof.Reference,
		ProofURL:       r.Proof.URL,
		SubscriptionID: &sub,
	}
}

// EncodeRequest produces the stored reference string for req.
func EncodeRequest(req Request) (string, error) {
	return EncodeReference(req.Reference())
}

// DecodeRequest resolves the stored reference of a payment of the given kind
// into its request variant.
func DecodeRequest(kind Kind, raw string) (Request, error) {
	ref := ParseReference(raw)
	if ref.PlanID == "" {
		return nil, ErrNoPlanReference
	}
	proof := Proof{Reference: ref.Reference, URL: ref.ProofURL}

	switch kind {
	case KindRenewal:
		if deref(ref.SubscriptionID) == "" {
			return nil, ErrRenewalMissingSubscription
		}
		return RenewalRequest{PlanID: ref.PlanID, SubscriptionID: *ref.SubscriptionID, Proof: proof}, nil
	case KindMembership:
		if from := deref(ref.UpgradeFromSubscriptionID); from != "" {
			return UpgradeRequest{
				PlanID:             ref.PlanID,
				FromSubscriptionID: from,
				WithCoachSurcharge: ref.WithCoachSurcharge,
				Proof:              proof,
			}, nil
		}
		return NewMembershipRequest{PlanID: ref.PlanID, WithCoachSurcharge: ref.WithCoachSurcharge, Proof: proof}, nil
	default:
		return nil, ErrUnsupportedKind
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func firstSet(a, b *string) *string {
	if deref(a) != "" {
		return a
	}
	if deref(b) != "" {
		return b
	}
	return a
}
