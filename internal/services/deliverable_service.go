package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/apperr"
	"github.com/ugc-marketplace/backend/internal/events"
	"github.com/ugc-marketplace/backend/internal/models"
	"github.com/ugc-marketplace/backend/internal/repositories"
	"github.com/ugc-marketplace/backend/internal/storage"
)

type DeliverableService struct {
	pool            *pgxpool.Pool
	deliverableRepo *repositories.DeliverableRepo
	campaignRepo    *repositories.CampaignRepo
	profileRepo     *repositories.ProfileRepo
	auditRepo       *repositories.AuditRepo
	contracts       *ContractService
	escrows         *EscrowService
	store           *storage.Client
	publisher       events.Publisher
	log             *zap.Logger
}

func NewDeliverableService(
	pool *pgxpool.Pool,
	deliverableRepo *repositories.DeliverableRepo,
	campaignRepo *repositories.CampaignRepo,
	profileRepo *repositories.ProfileRepo,
	auditRepo *repositories.AuditRepo,
	contracts *ContractService,
	escrows *EscrowService,
	store *storage.Client,
	publisher events.Publisher,
	log *zap.Logger,
) *DeliverableService {
	return &DeliverableService{
		pool:            pool,
		deliverableRepo: deliverableRepo,
		campaignRepo:    campaignRepo,
		profileRepo:     profileRepo,
		auditRepo:       auditRepo,
		contracts:       contracts,
		escrows:         escrows,
		store:           store,
		publisher:       publisher,
		log:             log,
	}
}

// transition validates and performs a status move with audit logging. The
// repo write is conditional on the expected current status, so two
// concurrent reviewers cannot both land.
func (s *DeliverableService) transition(ctx context.Context, db repositories.DB, d *models.Deliverable, newStatus string, actorID *uuid.UUID, actorType string) error {
	if !models.IsValidDeliverableTransition(d.Status, newStatus) {
		return fmt.Errorf("invalid transition from %s to %s: %w", d.Status, newStatus, apperr.ErrInvalidState)
	}

	oldStatus := d.Status
	moved, err := s.deliverableRepo.UpdateStatus(ctx, db, d.ID, oldStatus, newStatus)
	if err != nil {
		return err
	}
	if !moved {
		return fmt.Errorf("deliverable moved concurrently from %s: %w", oldStatus, apperr.ErrConflict)
	}
	d.Status = newStatus

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: actorID,
		ActorType:   actorType,
		Action:      fmt.Sprintf("deliverable_status_%s_to_%s", oldStatus, newStatus),
		EntityType:  "deliverable",
		EntityID:    &d.ID,
		Meta:        map[string]any{"old_status": oldStatus, "new_status": newStatus},
	})

	_ = s.publisher.Publish(ctx, events.StreamMarketplace, events.Event{
		Type: events.EventDeliverableStatusChange,
		Payload: map[string]any{
			"deliverable_id": d.ID.String(),
			"campaign_id":    d.CampaignID.String(),
			"creator_id":     d.CreatorID.String(),
			"old_status":     oldStatus,
			"new_status":     newStatus,
		},
	})

	return nil
}

// Upload stores a new file version and moves the deliverable to uploaded.
// Allowed from pending (first upload) and changes_requested (revision, gated
// by the revision cap). Every upload bumps revision_count to the version
// number just written, so the two never diverge.
func (s *DeliverableService) Upload(ctx context.Context, deliverableID, creatorID uuid.UUID, file io.Reader, contentType string, size int64, notes *string) (*models.Deliverable, int, error) {
	d, err := s.deliverableRepo.GetByID(ctx, deliverableID)
	if err != nil {
		return nil, 0, fmt.Errorf("deliverable not found: %w", apperr.ErrNotFound)
	}
	if d.CreatorID != creatorID {
		return nil, 0, fmt.Errorf("only the assigned creator can upload: %w", apperr.ErrForbidden)
	}
	if !d.AcceptsUpload() {
		if d.Status == models.DeliverableStatusChangesRequested {
			return nil, 0, fmt.Errorf("revision limit reached (%d): %w", d.MaxRevisions, apperr.ErrInvalidState)
		}
		return nil, 0, fmt.Errorf("deliverable does not accept uploads in status %s: %w", d.Status, apperr.ErrInvalidState)
	}
	if !storage.AllowedContentType(contentType) {
		return nil, 0, fmt.Errorf("unsupported file type %s: %w", contentType, apperr.ErrInvalidInput)
	}
	if size > storage.MaxUploadBytes {
		return nil, 0, fmt.Errorf("file too large: %w", apperr.ErrInvalidInput)
	}

	key := storage.DeliverableKey(d.CampaignID, d.ID, contentType, time.Now())
	url, err := s.store.UploadFile(key, file, contentType)
	if err != nil {
		return nil, 0, fmt.Errorf("upload failed: %w", err)
	}

	newVersion := d.NextVersion()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback(ctx)

	version := &models.DeliverableVersion{
		DeliverableID: d.ID,
		VersionNumber: newVersion,
		FilePath:      url,
		FileType:      contentType,
		FileSize:      size,
		Notes:         notes,
	}
	if err := s.deliverableRepo.CreateVersion(ctx, tx, version); err != nil {
		return nil, 0, err
	}
	if err := s.deliverableRepo.SetFile(ctx, tx, d.ID, url, contentType, size); err != nil {
		return nil, 0, err
	}
	if err := s.deliverableRepo.SetRevisionCount(ctx, tx, d.ID, newVersion); err != nil {
		return nil, 0, err
	}
	if err := s.transition(ctx, tx, d, models.DeliverableStatusUploaded, &creatorID, "user"); err != nil {
		return nil, 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}

	d.FilePath = &url
	d.FileType = &contentType
	d.FileSize = &size
	d.RevisionCount = newVersion
	return d, newVersion, nil
}

// StartReview is the optional brand acknowledgment that review has begun.
func (s *DeliverableService) StartReview(ctx context.Context, deliverableID, brandID uuid.UUID) error {
	d, err := s.ownedByBrand(ctx, deliverableID, brandID)
	if err != nil {
		return err
	}
	return s.transition(ctx, s.pool, d, models.DeliverableStatusInReview, &brandID, "user")
}

// Approve is terminal. In one transaction the piece moves to approved, the
// campaign completion counter advances, and the creator's lifetime stats
// update; the usage-rights contract is generated in the same transaction so
// an approved piece can never lack one.
func (s *DeliverableService) Approve(ctx context.Context, deliverableID, brandID uuid.UUID, rating *int, feedback *string) (*models.Contract, error) {
	d, err := s.ownedByBrand(ctx, deliverableID, brandID)
	if err != nil {
		return nil, err
	}
	if !models.ValidRating(rating) {
		return nil, fmt.Errorf("rating must be 1..5: %w", apperr.ErrInvalidInput)
	}

	campaign, err := s.campaignRepo.GetByID(ctx, d.CampaignID)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.transition(ctx, tx, d, models.DeliverableStatusApproved, &brandID, "user"); err != nil {
		return nil, err
	}
	if err := s.deliverableRepo.SetRating(ctx, tx, d.ID, rating, feedback); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.IncrementCompletedDeliverables(ctx, tx, d.CampaignID); err != nil {
		return nil, err
	}
	if err := s.profileRepo.IncrementCompletedJobs(ctx, tx, d.CreatorID); err != nil {
		return nil, err
	}
	if rating != nil {
		if err := s.profileRepo.UpdateAvgRating(ctx, tx, d.CreatorID); err != nil {
			return nil, err
		}
	}

	contract, err := s.contracts.GenerateForDeliverable(ctx, tx, campaign, d)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	// Funded escrow moves toward payout outside the approval transaction;
	// a failed attempt is compensated back to funded and the worker's
	// RetryPendingPayouts sweep picks it up.
	if err := s.escrows.ReleaseForDeliverable(ctx, d); err != nil {
		s.log.Warn("escrow release deferred",
			zap.String("deliverable_id", d.ID.String()), zap.Error(err))
	}

	return contract, nil
}

// RequestChanges sends the piece back to the creator. The revision cap is a
// precondition: once exhausted the brand must approve or reject.
func (s *DeliverableService) RequestChanges(ctx context.Context, deliverableID, brandID uuid.UUID, feedback string) error {
	d, err := s.ownedByBrand(ctx, deliverableID, brandID)
	if err != nil {
		return err
	}
	if d.RevisionCount >= d.MaxRevisions {
		return fmt.Errorf("revision limit reached (%d): %w", d.MaxRevisions, apperr.ErrInvalidState)
	}

	if err := s.transition(ctx, s.pool, d, models.DeliverableStatusChangesRequested, &brandID, "user"); err != nil {
		return err
	}

	if feedback != "" {
		comment := &models.ReviewComment{
			DeliverableID: d.ID,
			AuthorID:      brandID,
			Comment:       feedback,
		}
		_ = s.deliverableRepo.CreateComment(ctx, comment)
	}
	return nil
}

// Reject is terminal and frees no escrow toward the creator.
func (s *DeliverableService) Reject(ctx context.Context, deliverableID, brandID uuid.UUID, reason string) error {
	d, err := s.ownedByBrand(ctx, deliverableID, brandID)
	if err != nil {
		return err
	}

	if err := s.transition(ctx, s.pool, d, models.DeliverableStatusRejected, &brandID, "user"); err != nil {
		return err
	}

	if reason != "" {
		comment := &models.ReviewComment{
			DeliverableID: d.ID,
			AuthorID:      brandID,
			Comment:       reason,
		}
		_ = s.deliverableRepo.CreateComment(ctx, comment)
	}
	return nil
}

// AddComment appends a review remark. Both parties can comment.
func (s *DeliverableService) AddComment(ctx context.Context, deliverableID, authorID uuid.UUID, text string, timestampSeconds *int) (*models.ReviewComment, error) {
	d, err := s.deliverableRepo.GetByID(ctx, deliverableID)
	if err != nil {
		return nil, fmt.Errorf("deliverable not found: %w", apperr.ErrNotFound)
	}
	if d.BrandID != authorID && d.CreatorID != authorID {
		return nil, fmt.Errorf("not a party to this deliverable: %w", apperr.ErrForbidden)
	}
	if text == "" {
		return nil, fmt.Errorf("comment cannot be empty: %w", apperr.ErrInvalidInput)
	}

	comment := &models.ReviewComment{
		DeliverableID:    deliverableID,
		AuthorID:         authorID,
		Comment:          text,
		TimestampSeconds: timestampSeconds,
	}
	if err := s.deliverableRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *DeliverableService) Get(ctx context.Context, id uuid.UUID) (*models.Deliverable, error) {
	return s.deliverableRepo.GetByID(ctx, id)
}

func (s *DeliverableService) List(ctx context.Context, f repositories.DeliverableFilter) ([]models.Deliverable, error) {
	return s.deliverableRepo.List(ctx, f)
}

func (s *DeliverableService) ListVersions(ctx context.Context, id uuid.UUID) ([]models.DeliverableVersion, error) {
	return s.deliverableRepo.ListVersions(ctx, id)
}

func (s *DeliverableService) ListComments(ctx context.Context, id uuid.UUID) ([]models.ReviewComment, error) {
	return s.deliverableRepo.ListComments(ctx, id)
}

func (s *DeliverableService) ownedByBrand(ctx context.Context, deliverableID, brandID uuid.UUID) (*models.Deliverable, error) {
	d, err := s.deliverableRepo.GetByID(ctx, deliverableID)
	if err != nil {
		return nil, fmt.Errorf("deliverable not found: %w", apperr.ErrNotFound)
	}
	if d.BrandID != brandID {
		return nil, fmt.Errorf("only the campaign brand can review: %w", apperr.ErrForbidden)
	}
	return d, nil
}
