package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugc-marketplace/backend/internal/models"
)

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

const profileColumns = `
	id, email, role, full_name, avatar_url, phone, country, city,
	niche, bio, instagram_handle, tiktok_handle, total_completed_jobs, avg_rating,
	company_name, nit, industry, website, created_at, updated_at
`

func scanProfile(row interface{ Scan(...any) error }, p *models.Profile) error {
	return row.Scan(&p.ID, &p.Email, &p.Role, &p.FullName, &p.AvatarURL, &p.Phone, &p.Country, &p.City,
		&p.Niche, &p.Bio, &p.InstagramHandle, &p.TikTokHandle, &p.CompletedJobs, &p.AvgRating,
		&p.CompanyName, &p.NIT, &p.Industry, &p.Website, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProfileRepo) Create(ctx context.Context, p *models.Profile, passwordHash string) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO profiles (email, password_hash, role, full_name, country)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, p.Email, passwordHash, p.Role, p.FullName, p.Country).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	err := scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id), &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByEmail also returns the password hash for login verification.
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*models.Profile, string, error) {
	var p models.Profile
	var hash string
	err := r.pool.QueryRow(ctx, `
		SELECT `+profileColumns+`, password_hash FROM profiles WHERE email = $1
	`, email).Scan(&p.ID, &p.Email, &p.Role, &p.FullName, &p.AvatarURL, &p.Phone, &p.Country, &p.City,
		&p.Niche, &p.Bio, &p.InstagramHandle, &p.TikTokHandle, &p.CompletedJobs, &p.AvgRating,
		&p.CompanyName, &p.NIT, &p.Industry, &p.Website, &p.CreatedAt, &p.UpdatedAt, &hash)
	if err != nil {
		return nil, "", err
	}
	return &p, hash, nil
}

func (r *ProfileRepo) Update(ctx context.Context, p *models.Profile) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE profiles SET full_name = $1, avatar_url = $2, phone = $3, country = $4, city = $5,
		       niche = $6, bio = $7, instagram_handle = $8, tiktok_handle = $9,
		       company_name = $10, nit = $11, industry = $12, website = $13, updated_at = now()
		WHERE id = $14
	`, p.FullName, p.AvatarURL, p.Phone, p.Country, p.City,
		p.Niche, p.Bio, p.InstagramHandle, p.TikTokHandle,
		p.CompanyName, p.NIT, p.Industry, p.Website, p.ID)
	return err
}

// IncrementCompletedJobs bumps the creator's lifetime counter on approval.
func (r *ProfileRepo) IncrementCompletedJobs(ctx context.Context, db DB, id uuid.UUID) error {
	_, err := db.Exec(ctx, `
		UPDATE profiles SET total_completed_jobs = total_completed_jobs + 1, updated_at = now()
		WHERE id = $1
	`, id)
	return err
}

// UpdateAvgRating recomputes the creator's average from rated deliverables.
func (r *ProfileRepo) UpdateAvgRating(ctx context.Context, db DB, creatorID uuid.UUID) error {
	_, err := db.Exec(ctx, `
		UPDATE profiles SET avg_rating = COALESCE(
			(SELECT AVG(brand_rating)::numeric(3,2) FROM deliverables
			 WHERE creator_id = $1 AND brand_rating IS NOT NULL), 0)
		WHERE id = $1
	`, creatorID)
	return err
}

func (r *ProfileRepo) UpsertPayoutDetails(ctx context.Context, d *models.PayoutDetails) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO payout_details (profile_id, full_name, bank_code, account_type, account_number, document_type, document_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (profile_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			bank_code = EXCLUDED.bank_code,
			account_type = EXCLUDED.account_type,
			account_number = EXCLUDED.account_number,
			document_type = EXCLUDED.document_type,
			document_number = EXCLUDED.document_number,
			updated_at = now()
	`, d.ProfileID, d.FullName, d.BankCode, d.AccountType, d.AccountNumber, d.DocumentType, d.DocumentNumber)
	return err
}

func (r *ProfileRepo) GetPayoutDetails(ctx context.Context, profileID uuid.UUID) (*models.PayoutDetails, error) {
	var d models.PayoutDetails
	err := r.pool.QueryRow(ctx, `
		SELECT profile_id, full_name, bank_code, account_type, account_number, document_type, document_number, updated_at
		FROM payout_details WHERE profile_id = $1
	`, profileID).Scan(&d.ProfileID, &d.FullName, &d.BankCode, &d.AccountType, &d.AccountNumber,
		&d.DocumentType, &d.DocumentNumber, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
