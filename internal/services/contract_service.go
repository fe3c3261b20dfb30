package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/apperr"
	"github.com/ugc-marketplace/backend/internal/contracts"
	"github.com/ugc-marketplace/backend/internal/events"
	"github.com/ugc-marketplace/backend/internal/models"
	"github.com/ugc-marketplace/backend/internal/repositories"
)

type ContractService struct {
	pool         *pgxpool.Pool
	contractRepo *repositories.ContractRepo
	profileRepo  *repositories.ProfileRepo
	auditRepo    *repositories.AuditRepo
	publisher    events.Publisher
	log          *zap.Logger
}

func NewContractService(
	pool *pgxpool.Pool,
	contractRepo *repositories.ContractRepo,
	profileRepo *repositories.ProfileRepo,
	auditRepo *repositories.AuditRepo,
	publisher events.Publisher,
	log *zap.Logger,
) *ContractService {
	return &ContractService{
		pool:         pool,
		contractRepo: contractRepo,
		profileRepo:  profileRepo,
		auditRepo:    auditRepo,
		publisher:    publisher,
		log:          log,
	}
}

// GenerateForDeliverable renders and stores the usage-rights contract for an
// approved piece. Idempotent per deliverable: a second call returns the
// existing contract unchanged.
func (s *ContractService) GenerateForDeliverable(ctx context.Context, db repositories.DB, campaign *models.Campaign, d *models.Deliverable) (*models.Contract, error) {
	if existing, err := s.contractRepo.GetByDeliverable(ctx, d.ID); err == nil {
		return existing, nil
	}

	brand, err := s.profileRepo.GetByID(ctx, d.BrandID)
	if err != nil {
		return nil, fmt.Errorf("brand profile: %w", err)
	}
	creator, err := s.profileRepo.GetByID(ctx, d.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("creator profile: %w", err)
	}

	amounts := models.ComputeEscrowAmounts(campaign.BudgetPerCreator, campaign.PlatformFeePercent)

	in := contracts.Input{
		BrandName:       brandDisplayName(brand),
		BrandNIT:        strOrEmpty(brand.NIT),
		CreatorName:     creator.FullName,
		CreatorDocument: "",
		CampaignTitle:   campaign.Title,
		Description:     campaign.Description,
		UsageRights:     campaign.UsageRights,
		GrossAmount:     amounts.Gross,
		PlatformFee:     amounts.PlatformFee,
		CreatorAmount:   amounts.Creator,
		DeliverableID:   d.ID.String(),
		Date:            spanishDate(time.Now()),
	}
	html, hash := contracts.Render(in)

	contract := &models.Contract{
		CampaignID:    d.CampaignID,
		DeliverableID: d.ID,
		BrandID:       d.BrandID,
		CreatorID:     d.CreatorID,
		UsageRights:   campaign.UsageRights,
		UsageMonths:   contracts.UsageMonths(campaign.UsageRights),
		ContractData: map[string]any{
			"brand_name":     in.BrandName,
			"creator_name":   in.CreatorName,
			"campaign_title": in.CampaignTitle,
			"usage_rights":   in.UsageRights,
			"gross_amount":   in.GrossAmount,
			"creator_amount": in.CreatorAmount,
			"platform_fee":   in.PlatformFee,
		},
		ContractHash: hash,
		HTMLContent:  html,
	}
	if err := s.contractRepo.Create(ctx, db, contract); err != nil {
		if repositories.IsUniqueViolation(err) {
			return s.contractRepo.GetByDeliverable(ctx, d.ID)
		}
		return nil, err
	}

	_ = s.publisher.Publish(ctx, events.StreamMarketplace, events.Event{
		Type: events.EventContractGenerated,
		Payload: map[string]any{
			"contract_id":    contract.ID.String(),
			"deliverable_id": d.ID.String(),
		},
	})

	return contract, nil
}

// Sign stamps the caller's signature. Re-signing an already signed side is a
// no-op that keeps the original timestamp.
func (s *ContractService) Sign(ctx context.Context, contractID, userID uuid.UUID) (*models.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("contract not found: %w", apperr.ErrNotFound)
	}

	var role string
	switch userID {
	case contract.BrandID:
		role = models.ContractRoleBrand
	case contract.CreatorID:
		role = models.ContractRoleCreator
	default:
		return nil, fmt.Errorf("not a party to this contract: %w", apperr.ErrForbidden)
	}

	signed, err := s.contractRepo.Sign(ctx, contractID, role)
	if err != nil {
		return nil, err
	}
	if signed {
		_ = s.auditRepo.Log(ctx, models.AuditLog{
			ActorUserID: &userID,
			ActorType:   "user",
			Action:      "contract_signed_" + role,
			EntityType:  "contract",
			EntityID:    &contractID,
		})
	}

	return s.contractRepo.GetByID(ctx, contractID)
}

func (s *ContractService) Get(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("contract not found: %w", apperr.ErrNotFound)
	}
	if contract.BrandID != userID && contract.CreatorID != userID {
		return nil, fmt.Errorf("not a party to this contract: %w", apperr.ErrForbidden)
	}
	return contract, nil
}

func (s *ContractService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Contract, error) {
	return s.contractRepo.ListByUser(ctx, userID, limit, offset)
}

// Verify re-hashes the stored document against the stored digest.
func (s *ContractService) Verify(ctx context.Context, id uuid.UUID, userID uuid.UUID) (bool, error) {
	contract, err := s.Get(ctx, id, userID)
	if err != nil {
		return false, err
	}
	return contracts.Verify(contract.HTMLContent, contract.ContractHash), nil
}

func brandDisplayName(p *models.Profile) string {
	if p.CompanyName != nil && *p.CompanyName != "" {
		return *p.CompanyName
	}
	return p.FullName
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

func spanishDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}
