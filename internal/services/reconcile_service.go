package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/models"
	"github.com/ugc-marketplace/backend/internal/repositories"
)

// ReconcileService is the background sweep that repairs interrupted
// workflows: deliverable slots an acceptance crash left unmaterialized,
// escrows stuck mid-release, payouts whose first attempt failed, and
// campaigns past their deadline.
type ReconcileService struct {
	pool            *pgxpool.Pool
	applicationRepo *repositories.ApplicationRepo
	deliverableRepo *repositories.DeliverableRepo
	escrows         *EscrowService
	campaigns       *CampaignService
	log             *zap.Logger
}

func NewReconcileService(
	pool *pgxpool.Pool,
	applicationRepo *repositories.ApplicationRepo,
	deliverableRepo *repositories.DeliverableRepo,
	escrows *EscrowService,
	campaigns *CampaignService,
	log *zap.Logger,
) *ReconcileService {
	return &ReconcileService{
		pool:            pool,
		applicationRepo: applicationRepo,
		deliverableRepo: deliverableRepo,
		escrows:         escrows,
		campaigns:       campaigns,
		log:             log,
	}
}

// HealDeliverableSlots re-creates missing deliverable rows for accepted
// applications. Acceptance creates the slots transactionally, so under
// normal operation this finds nothing; it exists for rows accepted before
// that invariant held and as a belt against manual data edits.
func (s *ReconcileService) HealDeliverableSlots(ctx context.Context) (int, error) {
	accepted := models.ApplicationStatusAccepted
	apps, err := s.applicationRepo.List(ctx, repositories.ApplicationFilter{Status: &accepted, Limit: 100})
	if err != nil {
		return 0, err
	}

	healed := 0
	for i := range apps {
		app, err := s.applicationRepo.GetByIDWithCampaign(ctx, apps[i].ID)
		if err != nil {
			continue
		}
		missing, err := s.deliverableRepo.MissingPieceNumbers(ctx, app.ID, app.PiecesPerCreator)
		if err != nil {
			s.log.Warn("slot check failed", zap.String("application_id", app.ID.String()), zap.Error(err))
			continue
		}
		for _, piece := range missing {
			d := &models.Deliverable{
				CampaignID:    app.CampaignID,
				ApplicationID: app.ID,
				CreatorID:     app.CreatorID,
				BrandID:       app.CampaignBrandID,
				PieceNumber:   piece,
				Status:        models.DeliverableStatusPending,
				MaxRevisions:  2,
			}
			if err := s.deliverableRepo.Create(ctx, s.pool, d); err != nil {
				s.log.Warn("slot heal failed",
					zap.String("application_id", app.ID.String()), zap.Int("piece", piece), zap.Error(err))
				continue
			}
			healed++
		}
	}
	if healed > 0 {
		s.log.Info("healed deliverable slots", zap.Int("count", healed))
	}
	return healed, nil
}

// RunOnce executes one full reconciliation sweep.
func (s *ReconcileService) RunOnce(ctx context.Context, releaseMaxAge, campaignGrace time.Duration, expireCampaigns bool) {
	if _, err := s.HealDeliverableSlots(ctx); err != nil {
		s.log.Error("deliverable slot sweep failed", zap.Error(err))
	}

	reverted, err := s.escrows.RevertStuckReleases(ctx, releaseMaxAge)
	if err != nil {
		s.log.Error("stuck release sweep failed", zap.Error(err))
	} else if reverted > 0 {
		s.log.Info("reverted stuck escrow releases", zap.Int("count", reverted))
	}

	released, err := s.escrows.RetryPendingPayouts(ctx)
	if err != nil {
		s.log.Error("payout retry sweep failed", zap.Error(err))
	} else if released > 0 {
		s.log.Info("released escrows on retry", zap.Int("count", released))
	}

	if expireCampaigns {
		expired, err := s.campaigns.ExpirePastDeadline(ctx, campaignGrace)
		if err != nil {
			s.log.Error("campaign expiry sweep failed", zap.Error(err))
		} else if expired > 0 {
			s.log.Info("expired overdue campaigns", zap.Int("count", expired))
		}
	}
}
