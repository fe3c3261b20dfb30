package models

import (
	"time"

	"github.com/google/uuid"
)

// Deliverable statuses
const (
	DeliverableStatusPending          = "pending"
	DeliverableStatusUploaded         = "uploaded"
	DeliverableStatusInReview         = "in_review"
	DeliverableStatusChangesRequested = "changes_requested"
	DeliverableStatusApproved         = "approved"
	DeliverableStatusRejected         = "rejected"
)

// Valid state transitions: from -> []to
var ValidDeliverableTransitions = map[string][]string{
	DeliverableStatusPending:          {DeliverableStatusUploaded},
	DeliverableStatusUploaded:         {DeliverableStatusInReview, DeliverableStatusApproved, DeliverableStatusRejected, DeliverableStatusChangesRequested},
	DeliverableStatusInReview:         {DeliverableStatusApproved, DeliverableStatusRejected, DeliverableStatusChangesRequested},
	DeliverableStatusChangesRequested: {DeliverableStatusUploaded},
	DeliverableStatusApproved:         {},
	DeliverableStatusRejected:         {},
}

func IsValidDeliverableTransition(from, to string) bool {
	allowed, ok := ValidDeliverableTransitions[from]
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

// Deliverable is one content piece owed by an accepted creator. piece_number
// is unique within (campaign, application) and runs 1..pieces_per_creator.
type Deliverable struct {
	ID            uuid.UUID  `json:"id"`
	CampaignID    uuid.UUID  `json:"campaign_id"`
	ApplicationID uuid.UUID  `json:"application_id"`
	CreatorID     uuid.UUID  `json:"creator_id"`
	BrandID       uuid.UUID  `json:"brand_id"`
	PieceNumber   int        `json:"piece_number"`
	FilePath      *string    `json:"file_path,omitempty"`
	FileType      *string    `json:"file_type,omitempty"`
	FileSize      *int64     `json:"file_size,omitempty"`
	Status        string     `json:"status"`
	RevisionCount int        `json:"revision_count"`
	MaxRevisions  int        `json:"max_revisions"`
	BrandRating   *int       `json:"brand_rating,omitempty"`
	BrandFeedback *string    `json:"brand_feedback,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// AcceptsUpload reports whether the deliverable can take a new file: the
// first upload from pending, or a re-upload from changes_requested while
// revisions remain.
func (d *Deliverable) AcceptsUpload() bool {
	switch d.Status {
	case DeliverableStatusPending:
		return true
	case DeliverableStatusChangesRequested:
		return d.RevisionCount < d.MaxRevisions
	default:
		return false
	}
}

// NextVersion is the version number the next upload writes. revision_count
// is set to this same value, so the two columns stay equal on every upload.
func (d *Deliverable) NextVersion() int {
	return d.RevisionCount + 1
}

// ValidRating accepts a missing rating or one in 1..5.
func ValidRating(rating *int) bool {
	return rating == nil || (*rating >= 1 && *rating <= 5)
}

// DeliverableVersion is the append-only upload history of a deliverable,
// keyed by monotonically increasing version_number. Never mutated.
type DeliverableVersion struct {
	ID            uuid.UUID `json:"id"`
	DeliverableID uuid.UUID `json:"deliverable_id"`
	VersionNumber int       `json:"version_number"`
	FilePath      string    `json:"file_path"`
	FileType      string    `json:"file_type"`
	FileSize      int64     `json:"file_size"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReviewComment is an append-only remark on a deliverable, optionally anchored
// to a media timestamp.
type ReviewComment struct {
	ID               uuid.UUID `json:"id"`
	DeliverableID    uuid.UUID `json:"deliverable_id"`
	AuthorID         uuid.UUID `json:"author_id"`
	Comment          string    `json:"comment"`
	TimestampSeconds *int      `json:"timestamp_seconds,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
