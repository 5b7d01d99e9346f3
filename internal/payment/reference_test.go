package payment

import (
	"testing"

	"gymflow/internal/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestReferenceRoundTrip(t *testing.T) {
	cases := []Reference{
		{PlanID: "p1"},
		{PlanID: "p1", Reference: strPtr("GC-7781"), ProofURL: strPtr("https://cdn.example.com/proof.png")},
		{PlanID: "p2", SubscriptionID: strPtr("s1"), Reference: strPtr("")},
		{PlanID: "p3", UpgradeFromSubscriptionID: strPtr("s9"), WithCoachSurcharge: true},
	}

	for _, ref := range cases {
		raw, err := EncodeReference(ref)
		require.NoError(t, err)
		assert.Equal(t, ref, ParseReference(raw))
	}
}

func TestEncodeReferenceKeepsNulls(t *testing.T) {
	raw, err := EncodeReference(Reference{PlanID: "p1"})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"planId": "p1",
		"reference": null,
		"proofUrl": null,
		"subscriptionId": null,
		"upgradeFromSubscriptionId": null,
		"withCoachSurcharge": false
	}`, raw)
}

func TestParseReferenceLegacy(t *testing.T) {
	ref := ParseReference("p1:REF123")
	assert.Equal(t, "p1", ref.PlanID)
	require.NotNil(t, ref.Reference)
	assert.Equal(t, "REF123", *ref.Reference)
	assert.Nil(t, ref.ProofURL)
	assert.Nil(t, ref.SubscriptionID)
	assert.Nil(t, ref.UpgradeFromSubscriptionID)

	bare := ParseReference("p1")
	assert.Equal(t, "p1", bare.PlanID)
	assert.Nil(t, bare.Reference)

	extra := ParseReference("p1:REF:ignored")
	assert.Equal(t, "REF", *extra.Reference)

	assert.Equal(t, "", ParseReference("").PlanID)
	assert.Equal(t, "", ParseReference(":REF").PlanID)
}

func TestParseReferenceEarlierFieldNames(t *testing.T) {
	ref := ParseReference(`{"membershipId":"p1","clientMembershipId":"s1","reference":"R","proofUrl":null}`)

	assert.Equal(t, "p1", ref.PlanID)
	require.NotNil(t, ref.SubscriptionID)
	assert.Equal(t, "s1", *ref.SubscriptionID)
	assert.Equal(t, "R", *ref.Reference)

	up := ParseReference(`{"membershipId":"p2","upgradeFromClientMembershipId":"s4"}`)
	require.NotNil(t, up.UpgradeFromSubscriptionID)
	assert.Equal(t, "s4", *up.UpgradeFromSubscriptionID)
}

func TestParseReferenceMalformedObject(t *testing.T) {
	for _, raw := range []string{
		`{"planId":5}`,
		`{"planId":"p1","withCoachSurcharge":"yes"}`,
		`{"planId":"p1"`,
	} {
		t.Run(raw, func(t *testing.T) {
			assert.Equal(t, Reference{}, ParseReference(raw))

			_, err := DecodeRequest(KindMembership, raw)
			assert.ErrorIs(t, err, ErrNoPlanReference)
		})
	}
}

func TestDecodeRequest(t *testing.T) {
	t.Run("new membership", func(t *testing.T) {
		raw, _ := EncodeRequest(NewMembershipRequest{PlanID: "p1", WithCoachSurcharge: true, Proof: Proof{Reference: strPtr("R1")}})

		req, err := DecodeRequest(KindMembership, raw)
		require.NoError(t, err)
		nm, ok := req.(NewMembershipRequest)
		require.True(t, ok)
		assert.Equal(t, "p1", nm.TargetPlanID())
		assert.True(t, nm.WithCoachSurcharge)
		assert.Equal(t, "R1", *nm.Proof.Reference)
	})

	t.Run("upgrade", func(t *testing.T) {
		raw, _ := EncodeRequest(UpgradeRequest{PlanID: "p2", FromSubscriptionID: "s1"})

		req, err := DecodeRequest(KindMembership, raw)
		require.NoError(t, err)
		up, ok := req.(UpgradeRequest)
		require.True(t, ok)
		assert.Equal(t, "s1", up.FromSubscriptionID)
	})

	t.Run("renewal", func(t *testing.T) {
		raw, _ := EncodeRequest(RenewalRequest{PlanID: "p1", SubscriptionID: "s1"})

		req, err := DecodeRequest(KindRenewal, raw)
		require.NoError(t, err)
		assert.Equal(t, RenewalRequest{PlanID: "p1", SubscriptionID: "s1"}, req)
	})

	t.Run("renewal without subscription", func(t *testing.T) {
		_, err := DecodeRequest(KindRenewal, "p1:REF")
		assert.ErrorIs(t, err, ErrRenewalMissingSubscription)
	})

	t.Run("legacy membership", func(t *testing.T) {
		req, err := DecodeRequest(KindMembership, "p1:REF123")
		require.NoError(t, err)
		assert.IsType(t, NewMembershipRequest{}, req)
		assert.Equal(t, "p1", req.TargetPlanID())
	})

	t.Run("no plan reference", func(t *testing.T) {
		_, err := DecodeRequest(KindMembership, `{"reference":"R"}`)
		assert.ErrorIs(t, err, ErrNoPlanReference)
		assert.True(t, apperrors.IsKind(err, apperrors.KindPreconditionFailed))

		_, err = DecodeRequest(KindMembership, "")
		assert.ErrorIs(t, err, ErrNoPlanReference)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := DecodeRequest(Kind("refund"), "p1")
		assert.ErrorIs(t, err, ErrUnsupportedKind)
	})
}
