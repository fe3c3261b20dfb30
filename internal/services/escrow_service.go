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
	"github.com/ugc-marketplace/backend/internal/events"
	"github.com/ugc-marketplace/backend/internal/models"
	"github.com/ugc-marketplace/backend/internal/repositories"
	"github.com/ugc-marketplace/backend/internal/wompi"
)

type EscrowService struct {
	pool            *pgxpool.Pool
	escrowRepo      *repositories.EscrowRepo
	campaignRepo    *repositories.CampaignRepo
	deliverableRepo *repositories.DeliverableRepo
	profileRepo     *repositories.ProfileRepo
	ledgerRepo      *repositories.LedgerRepo
	auditRepo       *repositories.AuditRepo
	wompiClient     *wompi.Client
	publisher       events.Publisher
	cfg             *config.Config
	log             *zap.Logger
}

func NewEscrowService(
	pool *pgxpool.Pool,
	escrowRepo *repositories.EscrowRepo,
	campaignRepo *repositories.CampaignRepo,
	deliverableRepo *repositories.DeliverableRepo,
	profileRepo *repositories.ProfileRepo,
	ledgerRepo *repositories.LedgerRepo,
	auditRepo *repositories.AuditRepo,
	wompiClient *wompi.Client,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *EscrowService {
	return &EscrowService{
		pool:            pool,
		escrowRepo:      escrowRepo,
		campaignRepo:    campaignRepo,
		deliverableRepo: deliverableRepo,
		profileRepo:     profileRepo,
		ledgerRepo:      ledgerRepo,
		auditRepo:       auditRepo,
		wompiClient:     wompiClient,
		publisher:       publisher,
		cfg:             cfg,
		log:             log,
	}
}

// transition is the audited CAS status move shared by every escrow path.
func (s *EscrowService) transition(ctx context.Context, db repositories.DB, e *models.EscrowTransaction, newStatus string, metadata map[string]any, actorID *uuid.UUID, actorType string) error {
	if !models.IsValidEscrowTransition(e.Status, newStatus) {
		return fmt.Errorf("invalid escrow transition from %s to %s: %w", e.Status, newStatus, apperr.ErrInvalidState)
	}

	oldStatus := e.Status
	moved, err := s.escrowRepo.Transition(ctx, db, e.ID, oldStatus, newStatus, metadata)
	if err != nil {
		return err
	}
	if !moved {
		return fmt.Errorf("escrow moved concurrently from %s: %w", oldStatus, apperr.ErrConflict)
	}
	e.Status = newStatus

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: actorID,
		ActorType:   actorType,
		Action:      fmt.Sprintf("escrow_status_%s_to_%s", oldStatus, newStatus),
		EntityType:  "escrow",
		EntityID:    &e.ID,
		Meta:        map[string]any{"old_status": oldStatus, "new_status": newStatus},
	})

	_ = s.publisher.Publish(ctx, events.StreamMarketplace, events.Event{
		Type: events.EventEscrowStatusChanged,
		Payload: map[string]any{
			"escrow_id":   e.ID.String(),
			"campaign_id": e.CampaignID.String(),
			"old_status":  oldStatus,
			"new_status":  newStatus,
		},
	})

	return nil
}

// Checkout is what the frontend needs to open the Wompi widget.
type Checkout struct {
	EscrowID      uuid.UUID `json:"escrow_id"`
	Reference     string    `json:"reference"`
	AmountInCents int64     `json:"amount_in_cents"`
	Currency      string    `json:"currency"`
	PublicKey     string    `json:"public_key"`
	RedirectURL   string    `json:"redirect_url"`
}

// CreatePayment opens one escrow covering one creator slot of the campaign
// and returns the checkout the brand completes on Wompi. The split is fixed
// at creation so a later fee change never touches an open escrow.
func (s *EscrowService) CreatePayment(ctx context.Context, campaignID, brandID uuid.UUID) (*Checkout, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("campaign not found: %w", apperr.ErrNotFound)
	}
	if campaign.BrandID != brandID {
		return nil, fmt.Errorf("only the campaign owner can fund it: %w", apperr.ErrForbidden)
	}
	if campaign.Status == models.CampaignStatusCancelled || campaign.Status == models.CampaignStatusCompleted {
		return nil, fmt.Errorf("campaign is closed: %w", apperr.ErrInvalidState)
	}
	if campaign.BudgetPerCreator <= 0 {
		return nil, fmt.Errorf("campaign has no budget: %w", apperr.ErrInvalidInput)
	}

	amounts := models.ComputeEscrowAmounts(campaign.BudgetPerCreator, campaign.PlatformFeePercent)
	escrow := &models.EscrowTransaction{
		CampaignID:    campaignID,
		BrandID:       brandID,
		GrossAmount:   amounts.Gross,
		PlatformFee:   amounts.PlatformFee,
		CreatorAmount: amounts.Creator,
		Currency:      "COP",
		Status:        models.EscrowStatusPendingPayment,
	}
	if err := s.escrowRepo.Create(ctx, escrow); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &brandID,
		ActorType:   "user",
		Action:      "escrow_created",
		EntityType:  "escrow",
		EntityID:    &escrow.ID,
		Meta:        map[string]any{"campaign_id": campaignID.String(), "gross_amount": amounts.Gross},
	})

	return &Checkout{
		EscrowID:      escrow.ID,
		Reference:     wompi.CampaignReference(campaignID, escrow.ID),
		AmountInCents: amounts.Gross * 100,
		Currency:      "COP",
		PublicKey:     s.cfg.WompiPublicKey,
		RedirectURL:   s.cfg.AppURL + "/campaigns/" + campaignID.String(),
	}, nil
}

// HandlePaymentUpdate applies a Wompi transaction event to an escrow.
// Idempotent: a replayed APPROVED event finds the escrow already funded,
// moves nothing, and returns cleanly.
func (s *EscrowService) HandlePaymentUpdate(ctx context.Context, ref *wompi.Reference, wompiTxID, wompiStatus string) error {
	escrow, err := s.escrowRepo.GetByID(ctx, ref.EscrowID)
	if err != nil {
		s.log.Warn("webhook for unknown escrow", zap.String("escrow_id", ref.EscrowID.String()))
		return nil
	}
	if escrow.CampaignID != ref.CampaignID {
		s.log.Warn("webhook reference campaign mismatch", zap.String("escrow_id", escrow.ID.String()))
		return nil
	}

	meta := map[string]any{"wompi_transaction_id": wompiTxID, "wompi_status": wompiStatus}

	switch wompiStatus {
	case "APPROVED":
		if escrow.Status != models.EscrowStatusPendingPayment && escrow.Status != models.EscrowStatusPaymentProcessing {
			return nil // replay, already settled
		}
		if err := s.transition(ctx, s.pool, escrow, models.EscrowStatusFunded, meta, nil, "system"); err != nil {
			return err
		}
		return s.escrowRepo.SetWompiPaymentID(ctx, s.pool, escrow.ID, wompiTxID)

	case "PENDING":
		if escrow.Status != models.EscrowStatusPendingPayment {
			return nil
		}
		if err := s.transition(ctx, s.pool, escrow, models.EscrowStatusPaymentProcessing, meta, nil, "system"); err != nil {
			return err
		}
		return s.escrowRepo.SetWompiPaymentID(ctx, s.pool, escrow.ID, wompiTxID)

	case "DECLINED", "ERROR", "VOIDED":
		if escrow.Status != models.EscrowStatusPendingPayment && escrow.Status != models.EscrowStatusPaymentProcessing {
			return nil
		}
		return s.transition(ctx, s.pool, escrow, models.EscrowStatusFailed, meta, nil, "system")

	default:
		s.log.Warn("unknown wompi status", zap.String("status", wompiStatus))
		return nil
	}
}

// ReleaseForDeliverable pays the creator once every piece of their accepted
// application is approved. The funded escrow is parked in release_pending
// while the disbursement runs; a failed payout reverts it to funded so the
// release can be retried.
func (s *EscrowService) ReleaseForDeliverable(ctx context.Context, d *models.Deliverable) error {
	total, approved, err := s.deliverableRepo.CountByApplication(ctx, s.pool, d.ApplicationID)
	if err != nil {
		return err
	}
	if approved < total {
		return nil // more pieces outstanding, nothing to release yet
	}

	escrow, err := s.claimFundedEscrow(ctx, d)
	if err != nil {
		return err
	}
	if escrow == nil {
		return fmt.Errorf("no funded escrow available for campaign %s: %w", d.CampaignID, apperr.ErrInvalidState)
	}

	payout, err := s.profileRepo.GetPayoutDetails(ctx, d.CreatorID)
	if err != nil || !payout.Complete() {
		// Park back on funded; the creator completes payout details and the
		// worker or a manual retry releases later.
		_ = s.transition(ctx, s.pool, escrow, models.EscrowStatusFunded,
			map[string]any{"reason": "payout details incomplete"}, nil, "system")
		return fmt.Errorf("creator payout details incomplete: %w", apperr.ErrInvalidState)
	}

	disb, err := s.wompiClient.CreateDisbursement(ctx, wompi.CreateDisbursementRequest{
		AmountInCents: escrow.CreatorAmount * 100,
		Currency:      "COP",
		Reference:     fmt.Sprintf("payout-%s", escrow.ID),
		BankAccount: wompi.BankAccount{
			Type:                     accountTypeWompi(payout.AccountType),
			FinancialInstitutionCode: payout.BankCode,
			AccountNumber:            payout.AccountNumber,
		},
		Document: wompi.Document{
			Type:   payout.DocumentType,
			Number: payout.DocumentNumber,
		},
		FullName: payout.FullName,
	})
	if err != nil {
		_ = s.transition(ctx, s.pool, escrow, models.EscrowStatusFunded,
			map[string]any{"reason": "disbursement failed", "error": err.Error()}, nil, "system")
		return fmt.Errorf("disbursement failed: %w: %v", apperr.ErrUpstream, err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.transition(ctx, tx, escrow, models.EscrowStatusReleased,
		map[string]any{"wompi_payout_id": disb.ID}, nil, "system"); err != nil {
		return err
	}
	if err := s.escrowRepo.SetWompiPayoutID(ctx, tx, escrow.ID, disb.ID); err != nil {
		return err
	}
	if err := s.ledgerRepo.Insert(ctx, tx, &models.PlatformLedgerEntry{
		Type:          models.LedgerEntryPlatformFee,
		Amount:        escrow.PlatformFee,
		Currency:      "COP",
		ReferenceType: "escrow",
		ReferenceID:   escrow.ID,
		Description:   fmt.Sprintf("Comisión de plataforma, campaña %s", escrow.CampaignID),
	}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// claimFundedEscrow atomically takes one funded escrow for the campaign,
// preferring one already attached to the creator, and parks it in
// release_pending with the creator and final piece recorded.
func (s *EscrowService) claimFundedEscrow(ctx context.Context, d *models.Deliverable) (*models.EscrowTransaction, error) {
	funded := models.EscrowStatusFunded
	candidates, err := s.escrowRepo.List(ctx, repositories.EscrowFilter{
		CampaignID: &d.CampaignID,
		Status:     &funded,
		Limit:      50,
	})
	if err != nil {
		return nil, err
	}

	var pick *models.EscrowTransaction
	for i := range candidates {
		e := &candidates[i]
		if e.CreatorID != nil && *e.CreatorID == d.CreatorID {
			pick = e
			break
		}
		if pick == nil && e.CreatorID == nil {
			pick = e
		}
	}
	if pick == nil {
		return nil, nil
	}

	if err := s.transition(ctx, s.pool, pick, models.EscrowStatusReleasePending,
		map[string]any{"deliverable_id": d.ID.String()}, nil, "system"); err != nil {
		return nil, err
	}
	if err := s.escrowRepo.AssignCreator(ctx, s.pool, pick.ID, d.CreatorID, d.ID); err != nil {
		return nil, err
	}
	creatorID := d.CreatorID
	deliverableID := d.ID
	pick.CreatorID = &creatorID
	pick.DeliverableID = &deliverableID
	return pick, nil
}

// OpenDispute freezes a funded escrow until an admin resolves it.
func (s *EscrowService) OpenDispute(ctx context.Context, escrowID, actorID uuid.UUID) error {
	escrow, err := s.escrowRepo.GetByID(ctx, escrowID)
	if err != nil {
		return fmt.Errorf("escrow not found: %w", apperr.ErrNotFound)
	}
	if escrow.BrandID != actorID && (escrow.CreatorID == nil || *escrow.CreatorID != actorID) {
		return fmt.Errorf("not a party to this escrow: %w", apperr.ErrForbidden)
	}
	return s.transition(ctx, s.pool, escrow, models.EscrowStatusDisputed, nil, &actorID, "user")
}

// ResolveDispute is admin-only: refund sends the money back to the brand,
// release returns the escrow to funded for a normal payout.
func (s *EscrowService) ResolveDispute(ctx context.Context, escrowID, adminID uuid.UUID, refund bool) error {
	escrow, err := s.escrowRepo.GetByID(ctx, escrowID)
	if err != nil {
		return fmt.Errorf("escrow not found: %w", apperr.ErrNotFound)
	}

	target := models.EscrowStatusFunded
	if refund {
		target = models.EscrowStatusRefunded
	}
	return s.transition(ctx, s.pool, escrow, target,
		map[string]any{"resolved_by": adminID.String()}, &adminID, "admin")
}

func (s *EscrowService) Get(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.EscrowTransaction, error) {
	escrow, err := s.escrowRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("escrow not found: %w", apperr.ErrNotFound)
	}
	if escrow.BrandID != userID && (escrow.CreatorID == nil || *escrow.CreatorID != userID) {
		return nil, fmt.Errorf("not a party to this escrow: %w", apperr.ErrForbidden)
	}
	return escrow, nil
}

func (s *EscrowService) List(ctx context.Context, f repositories.EscrowFilter) ([]models.EscrowTransaction, error) {
	return s.escrowRepo.List(ctx, f)
}

// AuditTrail returns the escrow's audit entries to one of its parties.
func (s *EscrowService) AuditTrail(ctx context.Context, escrowID, userID uuid.UUID, limit, offset int) ([]models.AuditLog, error) {
	escrow, err := s.escrowRepo.GetByID(ctx, escrowID)
	if err != nil {
		return nil, fmt.Errorf("escrow not found: %w", apperr.ErrNotFound)
	}
	if escrow.BrandID != userID && (escrow.CreatorID == nil || *escrow.CreatorID != userID) {
		return nil, fmt.Errorf("not a party to this escrow: %w", apperr.ErrForbidden)
	}
	return s.auditRepo.GetByEntity(ctx, "escrow", escrowID, limit, offset)
}

// RetryPendingPayouts re-attempts release for funded escrows that already
// carry a deliverable assignment, meaning an earlier payout was compensated
// back (provider error, or payout details completed after approval). Run by
// the reconciliation worker; claimFundedEscrow re-picks the same escrow
// because it is attached to the creator.
func (s *EscrowService) RetryPendingPayouts(ctx context.Context) (int, error) {
	candidates, err := s.escrowRepo.ListFundedWithDeliverable(ctx, 50)
	if err != nil {
		return 0, err
	}

	released := 0
	for i := range candidates {
		e := &candidates[i]
		d, err := s.deliverableRepo.GetByID(ctx, *e.DeliverableID)
		if err != nil {
			s.log.Warn("payout retry skipped, deliverable missing",
				zap.String("escrow_id", e.ID.String()), zap.Error(err))
			continue
		}
		if d.Status != models.DeliverableStatusApproved {
			continue
		}
		if err := s.ReleaseForDeliverable(ctx, d); err != nil {
			s.log.Warn("payout retry failed",
				zap.String("escrow_id", e.ID.String()),
				zap.String("deliverable_id", d.ID.String()), zap.Error(err))
			continue
		}
		released++
	}
	return released, nil
}

// RevertStuckReleases returns escrows parked in release_pending longer than
// maxAge to funded. Run by the reconciliation worker.
func (s *EscrowService) RevertStuckReleases(ctx context.Context, maxAge time.Duration) (int, error) {
	stuck, err := s.escrowRepo.ListStuck(ctx, models.EscrowStatusReleasePending, maxAge)
	if err != nil {
		return 0, err
	}

	reverted := 0
	for i := range stuck {
		e := &stuck[i]
		if err := s.transition(ctx, s.pool, e, models.EscrowStatusFunded,
			map[string]any{"reason": "release timed out"}, nil, "system"); err != nil {
			s.log.Warn("failed to revert stuck escrow",
				zap.String("escrow_id", e.ID.String()), zap.Error(err))
			continue
		}
		reverted++
	}
	return reverted, nil
}

func accountTypeWompi(t string) string {
	if t == "corriente" {
		return "CHECKING"
	}
	return "SAVINGS"
}
