package dto

import "time"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"` // brand / creator
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	FullName        string   `json:"full_name,omitempty"`
	AvatarURL       *string  `json:"avatar_url,omitempty"`
	Phone           *string  `json:"phone,omitempty"`
	City            *string  `json:"city,omitempty"`
	Niche           []string `json:"niche,omitempty"`
	Bio             *string  `json:"bio,omitempty"`
	InstagramHandle *string  `json:"instagram_handle,omitempty"`
	TikTokHandle    *string  `json:"tiktok_handle,omitempty"`
	CompanyName     *string  `json:"company_name,omitempty"`
	NIT             *string  `json:"nit,omitempty"`
	Industry        *string  `json:"industry,omitempty"`
	Website         *string  `json:"website,omitempty"`
}

type PayoutDetailsRequest struct {
	FullName       string `json:"full_name"`
	BankCode       string `json:"bank_code"`
	AccountType    string `json:"account_type"` // ahorros / corriente
	AccountNumber  string `json:"account_number"`
	DocumentType   string `json:"document_type"` // CC / CE / NIT
	DocumentNumber string `json:"document_number"`
}

type CampaignRequest struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	ProductIDs       []string   `json:"product_ids,omitempty"`
	Objective        string     `json:"objective"`
	ContentType      string     `json:"content_type"`
	PiecesPerCreator int        `json:"pieces_per_creator"`
	MaxCreators      int        `json:"max_creators"`
	BudgetPerCreator int64      `json:"budget_per_creator"` // whole COP
	UsageRights      string     `json:"usage_rights"`
	DeliveryDeadline *time.Time `json:"delivery_deadline,omitempty"`
	Brief            *string    `json:"brief,omitempty"`
	Requirements     *string    `json:"requirements,omitempty"`
	PreferredNiches  []string   `json:"preferred_niches,omitempty"`
}

type ApplyRequest struct {
	PitchMessage *string `json:"pitch_message,omitempty"`
}

type ApproveDeliverableRequest struct {
	Rating   int     `json:"rating"` // 1..5
	Feedback *string `json:"feedback,omitempty"`
}

type RequestChangesRequest struct {
	Feedback string `json:"feedback"`
}

type RejectDeliverableRequest struct {
	Reason string `json:"reason"`
}

type CommentRequest struct {
	Content          string   `json:"content"`
	TimestampSeconds *int     `json:"timestamp_seconds,omitempty"`
}

type SendMessageRequest struct {
	CampaignID string `json:"campaign_id"`
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

type ConnectStoreRequest struct {
	Shop string `json:"shop"` // my-store.myshopify.com
}

type PurchaseCreditsRequest struct {
	PackID string `json:"pack_id"`
}

type GenerateAnglesRequest struct {
	ProductID   string `json:"product_id"`
	Objective   string `json:"objective"`
	ContentType string `json:"content_type"`
}

type GenerateScriptRequest struct {
	ProductID       string `json:"product_id"`
	AngleTitle      string `json:"angle_title"`
	Hook            string `json:"hook"`
	Format          string `json:"format"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	Platform        string `json:"platform,omitempty"`
}

type ResolveDisputeRequest struct {
	Refund bool `json:"refund"`
}
