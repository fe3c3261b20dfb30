package models

import (
	"time"

	"github.com/google/uuid"
)

// Application statuses
const (
	ApplicationStatusPending   = "pending"
	ApplicationStatusAccepted  = "accepted"
	ApplicationStatusRejected  = "rejected"
	ApplicationStatusWithdrawn = "withdrawn"
)

// CampaignApplication is a creator's bid for a campaign slot. At most one
// application exists per (campaign, creator) pair.
type CampaignApplication struct {
	ID           uuid.UUID  `json:"id"`
	CampaignID   uuid.UUID  `json:"campaign_id"`
	CreatorID    uuid.UUID  `json:"creator_id"`
	PitchMessage *string    `json:"pitch_message,omitempty"`
	Status       string     `json:"status"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ApplicationWithCampaign embeds the campaign fields the decision path needs
// to avoid a second round trip.
type ApplicationWithCampaign struct {
	CampaignApplication
	CampaignBrandID  uuid.UUID `json:"campaign_brand_id"`
	PiecesPerCreator int       `json:"pieces_per_creator"`
	CampaignStatus   string    `json:"campaign_status"`
}
