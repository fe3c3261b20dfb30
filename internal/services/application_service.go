package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/apperr"
	"github.com/ugc-marketplace/backend/internal/events"
	"github.com/ugc-marketplace/backend/internal/models"
	"github.com/ugc-marketplace/backend/internal/repositories"
)

type ApplicationService struct {
	pool            *pgxpool.Pool
	applicationRepo *repositories.ApplicationRepo
	campaignRepo    *repositories.CampaignRepo
	deliverableRepo *repositories.DeliverableRepo
	auditRepo       *repositories.AuditRepo
	publisher       events.Publisher
	log             *zap.Logger
}

func NewApplicationService(
	pool *pgxpool.Pool,
	applicationRepo *repositories.ApplicationRepo,
	campaignRepo *repositories.CampaignRepo,
	deliverableRepo *repositories.DeliverableRepo,
	auditRepo *repositories.AuditRepo,
	publisher events.Publisher,
	log *zap.Logger,
) *ApplicationService {
	return &ApplicationService{
		pool:            pool,
		applicationRepo: applicationRepo,
		campaignRepo:    campaignRepo,
		deliverableRepo: deliverableRepo,
		auditRepo:       auditRepo,
		publisher:       publisher,
		log:             log,
	}
}

// Submit runs the application gate: the campaign must be open, the creator
// cannot be the brand, and each (campaign, creator) pair applies at most once
// regardless of prior outcome.
func (s *ApplicationService) Submit(ctx context.Context, campaignID, creatorID uuid.UUID, pitch *string) (*models.CampaignApplication, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("campaign not found: %w", apperr.ErrNotFound)
	}
	if !campaign.Appliable() {
		return nil, fmt.Errorf("campaign is not accepting applications: %w", apperr.ErrInvalidState)
	}
	if campaign.BrandID == creatorID {
		return nil, fmt.Errorf("cannot apply to your own campaign: %w", apperr.ErrForbidden)
	}
	if campaign.AcceptedCreatorsCount >= campaign.MaxCreators {
		return nil, fmt.Errorf("campaign has no open slots: %w", apperr.ErrInvalidState)
	}

	exists, err := s.applicationRepo.Exists(ctx, campaignID, creatorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("already applied to this campaign: %w", apperr.ErrConflict)
	}

	app := &models.CampaignApplication{
		CampaignID:   campaignID,
		CreatorID:    creatorID,
		PitchMessage: pitch,
		Status:       models.ApplicationStatusPending,
	}
	if err := s.applicationRepo.Create(ctx, app); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, fmt.Errorf("already applied to this campaign: %w", apperr.ErrConflict)
		}
		return nil, err
	}

	_ = s.campaignRepo.IncrementApplications(ctx, s.pool, campaignID)

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &creatorID,
		ActorType:   "user",
		Action:      "application_submitted",
		EntityType:  "application",
		EntityID:    &app.ID,
		Meta:        map[string]any{"campaign_id": campaignID.String()},
	})

	return app, nil
}

// Accept moves a pending application to accepted and materializes its
// deliverable slots, all in one transaction. An interrupted run leaves
// nothing behind; a duplicate run moves zero rows and is rejected.
func (s *ApplicationService) Accept(ctx context.Context, applicationID, brandID uuid.UUID) error {
	app, err := s.applicationRepo.GetByIDWithCampaign(ctx, applicationID)
	if err != nil {
		return fmt.Errorf("application not found: %w", apperr.ErrNotFound)
	}
	if app.CampaignBrandID != brandID {
		return fmt.Errorf("only the campaign owner can decide applications: %w", apperr.ErrForbidden)
	}

	campaign, err := s.campaignRepo.GetByID(ctx, app.CampaignID)
	if err != nil {
		return err
	}
	if campaign.AcceptedCreatorsCount >= campaign.MaxCreators {
		return fmt.Errorf("campaign has no open slots: %w", apperr.ErrInvalidState)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	moved, err := s.applicationRepo.UpdateStatus(ctx, tx, applicationID, models.ApplicationStatusAccepted)
	if err != nil {
		return err
	}
	if !moved {
		return fmt.Errorf("application already decided: %w", apperr.ErrInvalidState)
	}

	for piece := 1; piece <= app.PiecesPerCreator; piece++ {
		d := &models.Deliverable{
			CampaignID:    app.CampaignID,
			ApplicationID: applicationID,
			CreatorID:     app.CreatorID,
			BrandID:       brandID,
			PieceNumber:   piece,
			Status:        models.DeliverableStatusPending,
			MaxRevisions:  2,
		}
		if err := s.deliverableRepo.Create(ctx, tx, d); err != nil {
			return err
		}
	}

	if err := s.campaignRepo.IncrementAcceptedCreators(ctx, tx, app.CampaignID); err != nil {
		return err
	}
	if app.CampaignStatus == models.CampaignStatusPublished {
		if _, err := s.campaignRepo.UpdateStatus(ctx, tx, app.CampaignID,
			models.CampaignStatusPublished, models.CampaignStatusInProgress); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.afterDecision(ctx, app, brandID, models.ApplicationStatusAccepted)
	return nil
}

// Reject declines a pending application. No slots are created.
func (s *ApplicationService) Reject(ctx context.Context, applicationID, brandID uuid.UUID) error {
	app, err := s.applicationRepo.GetByIDWithCampaign(ctx, applicationID)
	if err != nil {
		return fmt.Errorf("application not found: %w", apperr.ErrNotFound)
	}
	if app.CampaignBrandID != brandID {
		return fmt.Errorf("only the campaign owner can decide applications: %w", apperr.ErrForbidden)
	}

	moved, err := s.applicationRepo.UpdateStatus(ctx, s.pool, applicationID, models.ApplicationStatusRejected)
	if err != nil {
		return err
	}
	if !moved {
		return fmt.Errorf("application already decided: %w", apperr.ErrInvalidState)
	}

	s.afterDecision(ctx, app, brandID, models.ApplicationStatusRejected)
	return nil
}

func (s *ApplicationService) Withdraw(ctx context.Context, applicationID, creatorID uuid.UUID) error {
	moved, err := s.applicationRepo.Withdraw(ctx, applicationID, creatorID)
	if err != nil {
		return err
	}
	if !moved {
		return fmt.Errorf("application is not pending: %w", apperr.ErrInvalidState)
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &creatorID,
		ActorType:   "user",
		Action:      "application_withdrawn",
		EntityType:  "application",
		EntityID:    &applicationID,
	})
	return nil
}

func (s *ApplicationService) Get(ctx context.Context, id uuid.UUID) (*models.CampaignApplication, error) {
	return s.applicationRepo.GetByID(ctx, id)
}

func (s *ApplicationService) List(ctx context.Context, f repositories.ApplicationFilter) ([]models.CampaignApplication, error) {
	return s.applicationRepo.List(ctx, f)
}

func (s *ApplicationService) afterDecision(ctx context.Context, app *models.ApplicationWithCampaign, brandID uuid.UUID, decision string) {
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &brandID,
		ActorType:   "user",
		Action:      "application_" + decision,
		EntityType:  "application",
		EntityID:    &app.ID,
		Meta:        map[string]any{"campaign_id": app.CampaignID.String(), "creator_id": app.CreatorID.String()},
	})

	_ = s.publisher.Publish(ctx, events.StreamMarketplace, events.Event{
		Type: events.EventApplicationDecided,
		Payload: map[string]any{
			"application_id": app.ID.String(),
			"campaign_id":    app.CampaignID.String(),
			"creator_id":     app.CreatorID.String(),
			"decision":       decision,
		},
	})
}
