package models

import (
	"time"

	"github.com/google/uuid"
)

// ContractRole identifies which party is signing.
const (
	ContractRoleBrand   = "brand"
	ContractRoleCreator = "creator"
)

// Contract is a rights-assignment record generated when a deliverable is
// approved. contract_hash is the SHA-256 hex digest of html_content at
// generation time; validity checks compare against the stored hash, never
// re-derive it from other fields.
type Contract struct {
	ID              uuid.UUID      `json:"id"`
	CampaignID      uuid.UUID      `json:"campaign_id"`
	DeliverableID   uuid.UUID      `json:"deliverable_id"`
	BrandID         uuid.UUID      `json:"brand_id"`
	CreatorID       uuid.UUID      `json:"creator_id"`
	UsageRights     string         `json:"usage_rights"`
	UsageMonths     *int           `json:"usage_months,omitempty"`
	ContractData    map[string]any `json:"contract_data"`
	ContractHash    string         `json:"contract_hash"`
	HTMLContent     string         `json:"html_content"`
	BrandSignedAt   *time.Time     `json:"brand_signed_at,omitempty"`
	CreatorSignedAt *time.Time     `json:"creator_signed_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// FullySigned reports whether both parties have signed.
func (c *Contract) FullySigned() bool {
	return c.BrandSignedAt != nil && c.CreatorSignedAt != nil
}
