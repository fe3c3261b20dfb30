package wompi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SignatureHeader carries the webhook HMAC.
const SignatureHeader = "X-Wompi-Signature"

// VerifySignature checks the HMAC-SHA256 hex digest of the raw webhook body
// against the provided signature. Comparison is constant-time.
func VerifySignature(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// Sign computes the hex HMAC digest of a body. Used by tests and by the
// sandbox replay tool.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Reference kinds
const (
	RefCampaign = "campaign"
	RefCredits  = "credits"
)

// Reference is a parsed payment reference. Campaign funding references are
// "campaign-{campaignId}-{escrowId}"; credit purchases are
// "credits-{userId}-{packId}". Both embedded ids are UUIDs, which themselves
// contain dashes, so parsing splits on the known UUID width rather than on
// every dash.
type Reference struct {
	Kind       string
	CampaignID uuid.UUID
	EscrowID   uuid.UUID
	UserID     uuid.UUID
	PackID     string
}

const uuidLen = 36

// ParseReference parses a payment reference. Unknown or malformed references
// return an error; webhook handlers must treat that as an acknowledged no-op,
// never a failure, to avoid provider retry storms.
func ParseReference(ref string) (*Reference, error) {
	switch {
	case strings.HasPrefix(ref, RefCampaign+"-"):
		rest := strings.TrimPrefix(ref, RefCampaign+"-")
		if len(rest) != uuidLen*2+1 || rest[uuidLen] != '-' {
			return nil, fmt.Errorf("malformed campaign reference %q", ref)
		}
		campaignID, err := uuid.Parse(rest[:uuidLen])
		if err != nil {
			return nil, fmt.Errorf("campaign reference %q: %w", ref, err)
		}
		escrowID, err := uuid.Parse(rest[uuidLen+1:])
		if err != nil {
			return nil, fmt.Errorf("campaign reference %q: %w", ref, err)
		}
		return &Reference{Kind: RefCampaign, CampaignID: campaignID, EscrowID: escrowID}, nil

	case strings.HasPrefix(ref, RefCredits+"-"):
		rest := strings.TrimPrefix(ref, RefCredits+"-")
		if len(rest) < uuidLen+2 || rest[uuidLen] != '-' {
			return nil, fmt.Errorf("malformed credits reference %q", ref)
		}
		userID, err := uuid.Parse(rest[:uuidLen])
		if err != nil {
			return nil, fmt.Errorf("credits reference %q: %w", ref, err)
		}
		return &Reference{Kind: RefCredits, UserID: userID, PackID: rest[uuidLen+1:]}, nil

	default:
		return nil, fmt.Errorf("unknown reference %q", ref)
	}
}

// CampaignReference builds the checkout reference for a campaign funding.
func CampaignReference(campaignID, escrowID uuid.UUID) string {
	return fmt.Sprintf("%s-%s-%s", RefCampaign, campaignID, escrowID)
}

// CreditsReference builds the checkout reference for a credit pack purchase.
func CreditsReference(userID uuid.UUID, packID string) string {
	return fmt.Sprintf("%s-%s-%s", RefCredits, userID, packID)
}
