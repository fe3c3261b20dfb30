package models

import (
	"time"

	"github.com/google/uuid"
)

// Credit transaction types
const (
	CreditTxPurchase    = "purchase"
	CreditTxBonus       = "bonus"
	CreditTxUsage       = "usage"
	CreditTxRefund      = "refund"
	CreditTxSignupBonus = "signup_bonus"
)

type CreditBalance struct {
	UserID         uuid.UUID `json:"user_id"`
	Balance        int       `json:"balance"`
	TotalPurchased int       `json:"total_purchased"`
	TotalUsed      int       `json:"total_used"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreditTransaction is the append-only ledger of credit movements.
type CreditTransaction struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Type          string     `json:"type"`
	Amount        int        `json:"amount"` // negative for usage
	BalanceAfter  int        `json:"balance_after"`
	Description   string     `json:"description"`
	ReferenceID   *string    `json:"reference_id,omitempty"`
	ReferenceType *string    `json:"reference_type,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CreditPack is a purchasable bundle of AI credits.
type CreditPack struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Credits  int    `json:"credits"`
	PriceCOP int64  `json:"price_cop"`
}

// CreditPacks are the packs offered at checkout.
var CreditPacks = []CreditPack{
	{ID: "starter", Label: "Pack Starter (50 créditos)", Credits: 50, PriceCOP: 25000},
	{ID: "pro", Label: "Pack Pro (150 créditos)", Credits: 150, PriceCOP: 60000},
	{ID: "business", Label: "Pack Business (500 créditos)", Credits: 500, PriceCOP: 160000},
}

// FindCreditPack returns the pack with the given id, or nil.
func FindCreditPack(id string) *CreditPack {
	for i := range CreditPacks {
		if CreditPacks[i].ID == id {
			return &CreditPacks[i]
		}
	}
	return nil
}

// AI operation costs in credits.
const (
	CostAnalyzeProduct = 5
	CostGenerateAngles = 10
	CostGenerateScript = 15
)

// SignupBonusCredits are granted to every new account.
const SignupBonusCredits = 20
