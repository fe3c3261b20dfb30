package models

import (
	"time"

	"github.com/google/uuid"
)

// Escrow statuses
const (
	EscrowStatusPendingPayment    = "pending_payment"
	EscrowStatusPaymentProcessing = "payment_processing"
	EscrowStatusFunded            = "funded"
	EscrowStatusReleasePending    = "release_pending"
	EscrowStatusReleased          = "released"
	EscrowStatusRefunded          = "refunded"
	EscrowStatusDisputed          = "disputed"
	EscrowStatusFailed            = "failed"
)

// Valid state transitions: from -> []to. The single backward edge is
// release_pending -> funded, taken when a payout attempt fails so the
// release can be retried.
var ValidEscrowTransitions = map[string][]string{
	EscrowStatusPendingPayment:    {EscrowStatusPaymentProcessing, EscrowStatusFunded, EscrowStatusFailed},
	EscrowStatusPaymentProcessing: {EscrowStatusFunded, EscrowStatusFailed},
	EscrowStatusFunded:            {EscrowStatusReleasePending, EscrowStatusRefunded, EscrowStatusDisputed},
	EscrowStatusReleasePending:    {EscrowStatusReleased, EscrowStatusFunded},
	EscrowStatusDisputed:          {EscrowStatusFunded, EscrowStatusRefunded},
	EscrowStatusReleased:          {},
	EscrowStatusRefunded:          {},
	EscrowStatusFailed:            {},
}

func IsValidEscrowTransition(from, to string) bool {
	allowed, ok := ValidEscrowTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// EscrowAmounts is the monetary split of one funding event, in whole COP.
type EscrowAmounts struct {
	Gross       int64
	PlatformFee int64
	Creator     int64
}

// ComputeEscrowAmounts splits gross into platform fee and creator amount.
// The fee rounds half-up so that Creator + PlatformFee == Gross exactly.
func ComputeEscrowAmounts(gross int64, feePercent int) EscrowAmounts {
	fee := (gross*int64(feePercent) + 50) / 100
	return EscrowAmounts{
		Gross:       gross,
		PlatformFee: fee,
		Creator:     gross - fee,
	}
}

// StatusHistoryEntry is one append-only audit record of an escrow transition.
type StatusHistoryEntry struct {
	Status   string         `json:"status"`
	At       time.Time      `json:"at"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type EscrowTransaction struct {
	ID             uuid.UUID  `json:"id"`
	CampaignID     uuid.UUID  `json:"campaign_id"`
	BrandID        uuid.UUID  `json:"brand_id"`
	CreatorID      *uuid.UUID `json:"creator_id,omitempty"`
	DeliverableID  *uuid.UUID `json:"deliverable_id,omitempty"`
	GrossAmount    int64      `json:"gross_amount"`
	PlatformFee    int64      `json:"platform_fee"`
	CreatorAmount  int64      `json:"creator_amount"`
	Currency       string     `json:"currency"`
	WompiPaymentID *string    `json:"wompi_payment_id,omitempty"`
	WompiPayoutID  *string    `json:"wompi_payout_id,omitempty"`
	Status         string     `json:"status"`
	StatusHistory  []StatusHistoryEntry `json:"status_history"`
	FundedAt       *time.Time `json:"funded_at,omitempty"`
	ReleasedAt     *time.Time `json:"released_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// LedgerEntryPlatformFee is the ledger entry type recognized on release.
const LedgerEntryPlatformFee = "platform_fee"

// PlatformLedgerEntry is an append-only accounting record referencing an
// escrow transaction.
type PlatformLedgerEntry struct {
	ID            uuid.UUID `json:"id"`
	Type          string    `json:"type"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	ReferenceType string    `json:"reference_type"`
	ReferenceID   uuid.UUID `json:"reference_id"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}
