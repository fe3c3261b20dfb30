package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/apperr"
	"github.com/ugc-marketplace/backend/internal/auth"
	"github.com/ugc-marketplace/backend/internal/config"
	"github.com/ugc-marketplace/backend/internal/models"
	"github.com/ugc-marketplace/backend/internal/repositories"
)

type AccountService struct {
	profileRepo *repositories.ProfileRepo
	auditRepo   *repositories.AuditRepo
	credits     *CreditService
	cfg         *config.Config
	log         *zap.Logger
}

func NewAccountService(
	profileRepo *repositories.ProfileRepo,
	auditRepo *repositories.AuditRepo,
	credits *CreditService,
	cfg *config.Config,
	log *zap.Logger,
) *AccountService {
	return &AccountService{
		profileRepo: profileRepo,
		auditRepo:   auditRepo,
		credits:     credits,
		cfg:         cfg,
		log:         log,
	}
}

// Register creates an account and hands back a session token. Brands get the
// signup credit bonus immediately; a bonus failure does not fail the signup.
func (s *AccountService) Register(ctx context.Context, email, password, fullName, role string) (*models.Profile, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("invalid email: %w", apperr.ErrInvalidInput)
	}
	if role != models.RoleBrand && role != models.RoleCreator {
		return nil, "", fmt.Errorf("role must be brand or creator: %w", apperr.ErrInvalidInput)
	}
	if fullName == "" {
		return nil, "", fmt.Errorf("full name is required: %w", apperr.ErrInvalidInput)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}

	profile := &models.Profile{
		Email:    email,
		Role:     role,
		FullName: fullName,
		Country:  "CO",
	}
	if err := s.profileRepo.Create(ctx, profile, hash); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, "", fmt.Errorf("email already registered: %w", apperr.ErrConflict)
		}
		return nil, "", err
	}

	if role == models.RoleBrand {
		if err := s.credits.GrantSignupBonus(ctx, profile.ID); err != nil {
			s.log.Warn("signup bonus grant failed",
				zap.String("user_id", profile.ID.String()), zap.Error(err))
		}
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &profile.ID,
		ActorType:   "user",
		Action:      "account_registered",
		EntityType:  "profile",
		EntityID:    &profile.ID,
		Meta:        map[string]any{"role": role},
	})

	token, err := auth.GenerateJWT(s.cfg.JWTSecret, profile.ID, profile.Role, s.cfg.JWTExpiration)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password return the same error so the endpoint cannot be used to enumerate
// which emails exist.
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.Profile, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	profile, hash, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	}
	if !auth.CheckPassword(hash, password) {
		return nil, "", fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	}

	token, err := auth.GenerateJWT(s.cfg.JWTSecret, profile.ID, profile.Role, s.cfg.JWTExpiration)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

func (s *AccountService) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	p, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("profile not found: %w", apperr.ErrNotFound)
	}
	return p, nil
}

// UpdateProfile edits the caller's own profile. Email, role, and the
// reputation counters are not editable through this path.
func (s *AccountService) UpdateProfile(ctx context.Context, userID uuid.UUID, p *models.Profile) (*models.Profile, error) {
	existing, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile not found: %w", apperr.ErrNotFound)
	}
	if p.FullName == "" {
		p.FullName = existing.FullName
	}
	if p.Country == "" {
		p.Country = existing.Country
	}
	p.ID = userID
	if err := s.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByID(ctx, userID)
}

// SetPayoutDetails stores the creator's bank account for disbursements.
func (s *AccountService) SetPayoutDetails(ctx context.Context, userID uuid.UUID, d *models.PayoutDetails) error {
	if d.AccountNumber == "" || d.BankCode == "" || d.DocumentNumber == "" || d.FullName == "" {
		return fmt.Errorf("bank account, bank code, document, and name are required: %w", apperr.ErrInvalidInput)
	}
	switch d.AccountType {
	case "ahorros", "corriente":
	default:
		return fmt.Errorf("account type must be ahorros or corriente: %w", apperr.ErrInvalidInput)
	}

	d.ProfileID = userID
	if err := s.profileRepo.UpsertPayoutDetails(ctx, d); err != nil {
		return err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &userID,
		ActorType:   "user",
		Action:      "payout_details_updated",
		EntityType:  "profile",
		EntityID:    &userID,
	})
	return nil
}

// GetPayoutDetails returns the caller's payout record with account and
// document numbers masked for display.
func (s *AccountService) GetPayoutDetails(ctx context.Context, userID uuid.UUID) (*models.PayoutDetails, error) {
	d, err := s.profileRepo.GetPayoutDetails(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("no payout details on file: %w", apperr.ErrNotFound)
	}
	d.AccountNumber = maskTail(d.AccountNumber)
	d.DocumentNumber = maskTail(d.DocumentNumber)
	return d, nil
}

func maskTail(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
