package models

import (
	"time"

	"github.com/google/uuid"
)

// Campaign statuses
const (
	CampaignStatusDraft      = "draft"
	CampaignStatusPublished  = "published"
	CampaignStatusInProgress = "in_progress"
	CampaignStatusCompleted  = "completed"
	CampaignStatusCancelled  = "cancelled"
)

// Usage rights tiers
const (
	UsageOrganicOnly = "organic_only"
	UsagePaidAds3M   = "paid_ads_3m"
	UsagePaidAds6M   = "paid_ads_6m"
	UsagePaidAds12M  = "paid_ads_12m"
	UsagePerpetual   = "perpetual"
)

// Campaign objectives and content types
const (
	ObjectiveAds         = "ads"
	ObjectiveOrganic     = "organic"
	ObjectiveTestimonial = "testimonial"

	ContentVideo         = "video"
	ContentPhoto         = "photo"
	ContentVideoAndPhoto = "video_and_photo"
)

type Campaign struct {
	ID                 uuid.UUID   `json:"id"`
	BrandID            uuid.UUID   `json:"brand_id"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	ProductIDs         []uuid.UUID `json:"product_ids,omitempty"`
	Objective          string      `json:"objective"`
	ContentType        string      `json:"content_type"`
	PiecesPerCreator   int         `json:"pieces_per_creator"`
	MaxCreators        int         `json:"max_creators"`
	BudgetPerCreator   int64       `json:"budget_per_creator"` // whole COP
	PlatformFeePercent int         `json:"platform_fee_percent"`
	UsageRights        string      `json:"usage_rights"`
	DeliveryDeadline   *time.Time  `json:"delivery_deadline,omitempty"`
	Brief              *string     `json:"brief,omitempty"`
	Requirements       *string     `json:"requirements,omitempty"`
	PreferredNiches    []string    `json:"preferred_niches,omitempty"`
	Status             string      `json:"status"`
	PublishedAt        *time.Time  `json:"published_at,omitempty"`

	ApplicationsCount          int `json:"applications_count"`
	AcceptedCreatorsCount      int `json:"accepted_creators_count"`
	CompletedDeliverablesCount int `json:"completed_deliverables_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Appliable reports whether creators may still apply to the campaign.
func (c *Campaign) Appliable() bool {
	return c.Status == CampaignStatusPublished || c.Status == CampaignStatusInProgress
}

// IsValidUsageRights validates a usage-rights tier.
func IsValidUsageRights(r string) bool {
	switch r {
	case UsageOrganicOnly, UsagePaidAds3M, UsagePaidAds6M, UsagePaidAds12M, UsagePerpetual:
		return true
	}
	return false
}
