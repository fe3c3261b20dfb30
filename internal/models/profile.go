package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles
const (
	RoleBrand   = "brand"
	RoleCreator = "creator"
	RoleAdmin   = "admin"
)

type Profile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"` // brand / creator / admin
	FullName  string    `json:"full_name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Country   string    `json:"country"`
	City      *string   `json:"city,omitempty"`

	// Creator fields
	Niche           []string `json:"niche,omitempty"`
	Bio             *string  `json:"bio,omitempty"`
	InstagramHandle *string  `json:"instagram_handle,omitempty"`
	TikTokHandle    *string  `json:"tiktok_handle,omitempty"`
	CompletedJobs   int      `json:"total_completed_jobs"`
	AvgRating       float64  `json:"avg_rating"`

	// Brand fields
	CompanyName *string `json:"company_name,omitempty"`
	NIT         *string `json:"nit,omitempty"`
	Industry    *string `json:"industry,omitempty"`
	Website     *string `json:"website,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PayoutDetails is the creator's on-file bank account used for escrow
// disbursements. Stored separately so the escrow release path can load only
// what it needs and the row never leaves the API in full.
type PayoutDetails struct {
	ProfileID       uuid.UUID `json:"profile_id"`
	FullName        string    `json:"full_name"`
	BankCode        string    `json:"bank_code"`
	AccountType     string    `json:"account_type"` // ahorros / corriente
	AccountNumber   string    `json:"-"`
	DocumentType    string    `json:"document_type"` // CC / CE / NIT
	DocumentNumber  string    `json:"-"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Complete reports whether the details are sufficient to create a disbursement.
func (p *PayoutDetails) Complete() bool {
	return p != nil && p.AccountNumber != "" && p.BankCode != "" && p.DocumentNumber != ""
}
