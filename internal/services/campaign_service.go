package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/apperr"
	"github.com/ugc-marketplace/backend/internal/config"
	"github.com/ugc-marketplace/backend/internal/models"
	"github.com/ugc-marketplace/backend/internal/repositories"
)

type CampaignService struct {
	pool         *pgxpool.Pool
	campaignRepo *repositories.CampaignRepo
	auditRepo    *repositories.AuditRepo
	cfg          *config.Config
	log          *zap.Logger
}

func NewCampaignService(
	pool *pgxpool.Pool,
	campaignRepo *repositories.CampaignRepo,
	auditRepo *repositories.AuditRepo,
	cfg *config.Config,
	log *zap.Logger,
) *CampaignService {
	return &CampaignService{
		pool:         pool,
		campaignRepo: campaignRepo,
		auditRepo:    auditRepo,
		cfg:          cfg,
		log:          log,
	}
}

// Create stores a new draft. The platform fee is snapshotted from config so
// escrows opened later against this campaign use the fee in force at creation.
func (s *CampaignService) Create(ctx context.Context, brandID uuid.UUID, c *models.Campaign) error {
	if err := validateCampaign(c); err != nil {
		return err
	}

	c.BrandID = brandID
	c.Status = models.CampaignStatusDraft
	c.PlatformFeePercent = s.cfg.PlatformFeePercent

	if err := s.campaignRepo.Create(ctx, c); err != nil {
		return err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &brandID,
		ActorType:   "user",
		Action:      "campaign_created",
		EntityType:  "campaign",
		EntityID:    &c.ID,
	})
	return nil
}

// GetByID hides drafts from everyone but their owner.
func (s *CampaignService) GetByID(ctx context.Context, id uuid.UUID, viewerID uuid.UUID) (*models.Campaign, error) {
	c, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("campaign not found: %w", apperr.ErrNotFound)
	}
	if c.Status == models.CampaignStatusDraft && c.BrandID != viewerID {
		return nil, fmt.Errorf("campaign not found: %w", apperr.ErrNotFound)
	}
	return c, nil
}

func (s *CampaignService) List(ctx context.Context, f repositories.CampaignFilter) ([]models.Campaign, error) {
	return s.campaignRepo.List(ctx, f)
}

// Update edits a draft. Published campaigns are immutable so accepted
// creators never see the terms shift under them.
func (s *CampaignService) Update(ctx context.Context, id, brandID uuid.UUID, c *models.Campaign) (*models.Campaign, error) {
	existing, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("campaign not found: %w", apperr.ErrNotFound)
	}
	if existing.BrandID != brandID {
		return nil, fmt.Errorf("only the owner can edit a campaign: %w", apperr.ErrForbidden)
	}
	if err := validateCampaign(c); err != nil {
		return nil, err
	}

	c.ID = id
	moved, err := s.campaignRepo.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, fmt.Errorf("only drafts can be edited: %w", apperr.ErrInvalidState)
	}
	return s.campaignRepo.GetByID(ctx, id)
}

// Publish opens the campaign to applications.
func (s *CampaignService) Publish(ctx context.Context, id, brandID uuid.UUID) (*models.Campaign, error) {
	c, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("campaign not found: %w", apperr.ErrNotFound)
	}
	if c.BrandID != brandID {
		return nil, fmt.Errorf("only the owner can publish a campaign: %w", apperr.ErrForbidden)
	}

	moved, err := s.campaignRepo.UpdateStatus(ctx, s.pool, id,
		models.CampaignStatusDraft, models.CampaignStatusPublished)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, fmt.Errorf("only drafts can be published: %w", apperr.ErrInvalidState)
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &brandID,
		ActorType:   "user",
		Action:      "campaign_published",
		EntityType:  "campaign",
		EntityID:    &id,
	})
	return s.campaignRepo.GetByID(ctx, id)
}

// Cancel closes a campaign that has not completed. Escrow refunds for a
// cancelled campaign go through the dispute path.
func (s *CampaignService) Cancel(ctx context.Context, id, brandID uuid.UUID) error {
	c, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("campaign not found: %w", apperr.ErrNotFound)
	}
	if c.BrandID != brandID {
		return fmt.Errorf("only the owner can cancel a campaign: %w", apperr.ErrForbidden)
	}
	if c.Status == models.CampaignStatusCompleted || c.Status == models.CampaignStatusCancelled {
		return fmt.Errorf("campaign is already closed: %w", apperr.ErrInvalidState)
	}

	moved, err := s.campaignRepo.UpdateStatus(ctx, s.pool, id, c.Status, models.CampaignStatusCancelled)
	if err != nil {
		return err
	}
	if !moved {
		return fmt.Errorf("campaign changed concurrently: %w", apperr.ErrConflict)
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &brandID,
		ActorType:   "user",
		Action:      "campaign_cancelled",
		EntityType:  "campaign",
		EntityID:    &id,
	})
	return nil
}

// Delete removes a draft outright.
func (s *CampaignService) Delete(ctx context.Context, id, brandID uuid.UUID) error {
	deleted, err := s.campaignRepo.Delete(ctx, id, brandID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("only your own drafts can be deleted: %w", apperr.ErrInvalidState)
	}
	return nil
}

// ExpirePastDeadline cancels published campaigns whose delivery deadline
// passed more than grace ago without any accepted creator. Run by the worker.
func (s *CampaignService) ExpirePastDeadline(ctx context.Context, grace time.Duration) (int, error) {
	stale, err := s.campaignRepo.ListPastDeadline(ctx, grace)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		c := &stale[i]
		moved, err := s.campaignRepo.UpdateStatus(ctx, s.pool, c.ID, c.Status, models.CampaignStatusCancelled)
		if err != nil {
			s.log.Warn("failed to expire campaign", zap.String("campaign_id", c.ID.String()), zap.Error(err))
			continue
		}
		if moved {
			expired++
		}
	}
	return expired, nil
}

func validateCampaign(c *models.Campaign) error {
	if c.Title == "" {
		return fmt.Errorf("title is required: %w", apperr.ErrInvalidInput)
	}
	if !models.IsValidUsageRights(c.UsageRights) {
		return fmt.Errorf("unknown usage rights %q: %w", c.UsageRights, apperr.ErrInvalidInput)
	}
	switch c.Objective {
	case models.ObjectiveAds, models.ObjectiveOrganic, models.ObjectiveTestimonial:
	default:
		return fmt.Errorf("unknown objective %q: %w", c.Objective, apperr.ErrInvalidInput)
	}
	switch c.ContentType {
	case models.ContentVideo, models.ContentPhoto, models.ContentVideoAndPhoto:
	default:
		return fmt.Errorf("unknown content type %q: %w", c.ContentType, apperr.ErrInvalidInput)
	}
	if c.PiecesPerCreator <= 0 || c.MaxCreators <= 0 {
		return fmt.Errorf("pieces and creators must be positive: %w", apperr.ErrInvalidInput)
	}
	if c.BudgetPerCreator <= 0 {
		return fmt.Errorf("budget must be positive: %w", apperr.ErrInvalidInput)
	}
	return nil
}
