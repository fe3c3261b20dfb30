package models

import (
	"time"

	"github.com/google/uuid"
)

// Store sync statuses
const (
	SyncStatusPending = "pending"
	SyncStatusSyncing = "syncing"
	SyncStatusSynced  = "synced"
	SyncStatusFailed  = "failed"
)

// Store is a connected Shopify shop belonging to a brand.
type Store struct {
	ID            uuid.UUID  `json:"id"`
	BrandID       uuid.UUID  `json:"brand_id"`
	ShopDomain    string     `json:"shop_domain"`
	AccessToken   string     `json:"-"`
	SyncStatus    string     `json:"sync_status"`
	LastSyncedAt  *time.Time `json:"last_synced_at,omitempty"`
	ProductsCount int        `json:"products_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Product is a synced e-commerce product. AI fields cache the one-shot
// analysis so repeat requests are free.
type Product struct {
	ID               uuid.UUID  `json:"id"`
	StoreID          uuid.UUID  `json:"store_id"`
	BrandID          uuid.UUID  `json:"brand_id"`
	ShopifyProductID string     `json:"shopify_product_id"`
	Title            string     `json:"title"`
	Description      *string    `json:"description,omitempty"`
	PriceMin         float64    `json:"price_min"`
	PriceMax         float64    `json:"price_max"`
	ImageURLs        []string   `json:"image_urls"`
	Tags             []string   `json:"tags"`
	ProductType      *string    `json:"product_type,omitempty"`
	Vendor           *string    `json:"vendor,omitempty"`
	Status           string     `json:"status"`
	AICategory       *string    `json:"ai_category,omitempty"`
	AITargetAudience *string    `json:"ai_target_audience,omitempty"`
	AIKeyBenefits    []string   `json:"ai_key_benefits,omitempty"`
	AIAnalyzedAt     *time.Time `json:"ai_analyzed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
