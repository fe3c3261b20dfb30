package wompi

import (
	"testing"

	"github.com/google/uuid"
)

func TestVerifySignature(t *testing.T) {
	secret := "test_events_secret"
	body := []byte(`{"data":{"transaction":{"id":"tx-1","status":"APPROVED","reference":"x"}}}`)

	sig := Sign(body, secret)
	if !VerifySignature(body, sig, secret) {
		t.Fatal("valid signature rejected")
	}
}

func TestVerifySignatureExactDigest(t *testing.T) {
	// Known-answer test: HMAC-SHA256("hello", key "key") hex digest.
	got := Sign([]byte("hello"), "key")
	want := "9307b3b915efb5171ff14d8cb55fbcc798c6c0ef1456d66ded1a6aa723a58b7b"
	if got != want {
		t.Fatalf("Sign = %s, want %s", got, want)
	}
	if !VerifySignature([]byte("hello"), want, "key") {
		t.Fatal("known-answer signature rejected")
	}
}

func TestVerifySignatureRejects(t *testing.T) {
	secret := "test_events_secret"
	body := []byte(`{"event":"transaction.updated"}`)
	sig := Sign(body, secret)

	if VerifySignature([]byte(`{"event":"transaction.updated!"}`), sig, secret) {
		t.Error("accepted signature for a different body")
	}
	if VerifySignature(body, sig, "other_secret") {
		t.Error("accepted signature from a different secret")
	}
	if VerifySignature(body, "", secret) {
		t.Error("accepted empty signature")
	}
	if VerifySignature(body, "not-hex", secret) {
		t.Error("accepted garbage signature")
	}
}

func TestVerifySignatureCaseInsensitiveHex(t *testing.T) {
	secret := "s"
	body := []byte("payload")
	sig := Sign(body, secret)

	upper := make([]byte, len(sig))
	for i := 0; i < len(sig); i++ {
		c := sig[i]
		if c >= 'a' && c <= 'f' {
			c = c - 'a' + 'A'
		}
		upper[i] = c
	}
	if !VerifySignature(body, string(upper), secret) {
		t.Error("rejected uppercase hex digest")
	}
}

func TestParseReferenceCampaign(t *testing.T) {
	campaignID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	escrowID := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	ref, err := ParseReference(CampaignReference(campaignID, escrowID))
	if err != nil {
		t.Fatalf("ParseReference: %v", err)
	}
	if ref.Kind != RefCampaign {
		t.Errorf("Kind = %q, want %q", ref.Kind, RefCampaign)
	}
	if ref.CampaignID != campaignID {
		t.Errorf("CampaignID = %s, want %s", ref.CampaignID, campaignID)
	}
	if ref.EscrowID != escrowID {
		t.Errorf("EscrowID = %s, want %s", ref.EscrowID, escrowID)
	}
}

func TestParseReferenceCredits(t *testing.T) {
	userID := uuid.MustParse("11111111-2222-3333-4444-555555555555")

	ref, err := ParseReference(CreditsReference(userID, "pro"))
	if err != nil {
		t.Fatalf("ParseReference: %v", err)
	}
	if ref.Kind != RefCredits {
		t.Errorf("Kind = %q, want %q", ref.Kind, RefCredits)
	}
	if ref.UserID != userID {
		t.Errorf("UserID = %s, want %s", ref.UserID, userID)
	}
	if ref.PackID != "pro" {
		t.Errorf("PackID = %q, want %q", ref.PackID, "pro")
	}
}

func TestParseReferenceMalformed(t *testing.T) {
	bad := []string{
		"",
		"campaign",
		"campaign-",
		"campaign-not-a-uuid",
		"campaign-11111111-2222-3333-4444-555555555555",              // missing escrow id
		"campaign-11111111-2222-3333-4444-555555555555-short",        // truncated escrow id
		"credits-",
		"credits-not-a-uuid-pro",
		"order-11111111-2222-3333-4444-555555555555",
		"campaign-zzzzzzzz-2222-3333-4444-555555555555-aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", // non-hex uuid
	}

	for _, ref := range bad {
		if parsed, err := ParseReference(ref); err == nil {
			t.Errorf("ParseReference(%q) = %+v, want error", ref, parsed)
		}
	}
}
