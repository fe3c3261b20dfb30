package services

import (
	"context"
	"fmt"

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

type CreditService struct {
	pool       *pgxpool.Pool
	creditRepo *repositories.CreditRepo
	auditRepo  *repositories.AuditRepo
	publisher  events.Publisher
	cfg        *config.Config
	log        *zap.Logger
}

func NewCreditService(
	pool *pgxpool.Pool,
	creditRepo *repositories.CreditRepo,
	auditRepo *repositories.AuditRepo,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *CreditService {
	return &CreditService{
		pool:       pool,
		creditRepo: creditRepo,
		auditRepo:  auditRepo,
		publisher:  publisher,
		cfg:        cfg,
		log:        log,
	}
}

// Balance returns the user's credit balance, zero-valued when the user has
// never held credits.
func (s *CreditService) Balance(ctx context.Context, userID uuid.UUID) (*models.CreditBalance, error) {
	b, err := s.creditRepo.GetBalance(ctx, userID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return &models.CreditBalance{UserID: userID}, nil
		}
		return nil, err
	}
	return b, nil
}

func (s *CreditService) ListPacks() []models.CreditPack {
	return models.CreditPacks
}

// CreatePurchase returns the Wompi checkout for a credit pack. Credits land
// on the balance only when the webhook confirms the payment.
func (s *CreditService) CreatePurchase(ctx context.Context, userID uuid.UUID, packID string) (*Checkout, error) {
	pack := models.FindCreditPack(packID)
	if pack == nil {
		return nil, fmt.Errorf("unknown credit pack %q: %w", packID, apperr.ErrInvalidInput)
	}

	return &Checkout{
		Reference:     wompi.CreditsReference(userID, pack.ID),
		AmountInCents: pack.PriceCOP * 100,
		Currency:      "COP",
		PublicKey:     s.cfg.WompiPublicKey,
		RedirectURL:   s.cfg.AppURL + "/credits",
	}, nil
}

// HandlePurchaseApproved credits the pack after Wompi confirms payment.
// The Wompi transaction id doubles as the idempotency key: a replayed
// webhook finds the transaction already recorded and adds nothing.
func (s *CreditService) HandlePurchaseApproved(ctx context.Context, ref *wompi.Reference, wompiTxID string) error {
	pack := models.FindCreditPack(ref.PackID)
	if pack == nil {
		s.log.Warn("webhook for unknown credit pack", zap.String("pack_id", ref.PackID))
		return nil
	}

	already, err := s.creditRepo.HasTransactionReference(ctx, wompiTxID)
	if err != nil {
		return err
	}
	if already {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	refType := "wompi_transaction"
	if _, err := s.creditRepo.Add(ctx, tx, ref.UserID, pack.Credits, models.CreditTxPurchase,
		pack.Label, &wompiTxID, &refType); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &ref.UserID,
		ActorType:   "system",
		Action:      "credits_purchased",
		EntityType:  "credit_pack",
		Meta:        map[string]any{"pack_id": pack.ID, "credits": pack.Credits, "wompi_transaction_id": wompiTxID},
	})

	_ = s.publisher.Publish(ctx, events.StreamMarketplace, events.Event{
		Type: events.EventCreditsChanged,
		Payload: map[string]any{
			"user_id": ref.UserID.String(),
			"delta":   pack.Credits,
			"reason":  "purchase",
		},
	})
	return nil
}

// GrantSignupBonus seeds a new account with free credits.
func (s *CreditService) GrantSignupBonus(ctx context.Context, userID uuid.UUID) error {
	_, err := s.creditRepo.Add(ctx, s.pool, userID, models.SignupBonusCredits,
		models.CreditTxSignupBonus, "Créditos de bienvenida", nil, nil)
	return err
}

// Spend deducts credits for an AI operation. Returns ErrInsufficientCredits
// when the balance cannot cover it.
func (s *CreditService) Spend(ctx context.Context, db repositories.DB, userID uuid.UUID, amount int, description string, referenceID *string) (int, error) {
	refType := "product"
	newBalance, ok, err := s.creditRepo.Deduct(ctx, db, userID, amount, description, referenceID, &refType)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("need %d credits: %w", amount, apperr.ErrInsufficientCredits)
	}
	return newBalance, nil
}

// Refund returns credits spent on an operation that failed downstream.
func (s *CreditService) Refund(ctx context.Context, userID uuid.UUID, amount int, description string) error {
	_, err := s.creditRepo.Add(ctx, s.pool, userID, amount, models.CreditTxRefund, description, nil, nil)
	return err
}

func (s *CreditService) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.CreditTransaction, error) {
	return s.creditRepo.ListTransactions(ctx, userID, limit, offset)
}
