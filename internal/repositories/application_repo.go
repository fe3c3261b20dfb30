package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugc-marketplace/backend/internal/models"
)

type ApplicationRepo struct {
	pool *pgxpool.Pool
}

func NewApplicationRepo(pool *pgxpool.Pool) *ApplicationRepo {
	return &ApplicationRepo{pool: pool}
}

// Create inserts a pending application. The unique index on
// (campaign_id, creator_id) makes duplicates a constraint violation.
func (r *ApplicationRepo) Create(ctx context.Context, a *models.CampaignApplication) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO campaign_applications (campaign_id, creator_id, pitch_message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, a.CampaignID, a.CreatorID, a.PitchMessage, a.Status).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *ApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CampaignApplication, error) {
	var a models.CampaignApplication
	err := r.pool.QueryRow(ctx, `
		SELECT id, campaign_id, creator_id, pitch_message, status, responded_at, created_at, updated_at
		FROM campaign_applications WHERE id = $1
	`, id).Scan(&a.ID, &a.CampaignID, &a.CreatorID, &a.PitchMessage, &a.Status, &a.RespondedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByIDWithCampaign joins the campaign fields the decision path needs.
func (r *ApplicationRepo) GetByIDWithCampaign(ctx context.Context, id uuid.UUID) (*models.ApplicationWithCampaign, error) {
	var a models.ApplicationWithCampaign
	err := r.pool.QueryRow(ctx, `
		SELECT a.id, a.campaign_id, a.creator_id, a.pitch_message, a.status, a.responded_at, a.created_at, a.updated_at,
		       c.brand_id, c.pieces_per_creator, c.status
		FROM campaign_applications a
		JOIN campaigns c ON c.id = a.campaign_id
		WHERE a.id = $1
	`, id).Scan(&a.ID, &a.CampaignID, &a.CreatorID, &a.PitchMessage, &a.Status, &a.RespondedAt, &a.CreatedAt, &a.UpdatedAt,
		&a.CampaignBrandID, &a.PiecesPerCreator, &a.CampaignStatus)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Exists reports whether the creator already applied to the campaign,
// regardless of outcome.
func (r *ApplicationRepo) Exists(ctx context.Context, campaignID, creatorID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM campaign_applications WHERE campaign_id = $1 AND creator_id = $2)
	`, campaignID, creatorID).Scan(&exists)
	return exists, err
}

// UpdateStatus is the conditional decision write. Only pending applications
// move; the bool result reports whether the row changed.
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, db DB, id uuid.UUID, to string) (bool, error) {
	tag, err := db.Exec(ctx, `
		UPDATE campaign_applications SET status = $1, responded_at = now(), updated_at = now()
		WHERE id = $2 AND status = 'pending'
	`, to, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Withdraw lets the creator pull a still-pending application.
func (r *ApplicationRepo) Withdraw(ctx context.Context, id, creatorID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE campaign_applications SET status = 'withdrawn', updated_at = now()
		WHERE id = $1 AND creator_id = $2 AND status = 'pending'
	`, id, creatorID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ApplicationRepo) CountAccepted(ctx context.Context, db DB, campaignID uuid.UUID) (int, error) {
	var n int
	err := db.QueryRow(ctx, `
		SELECT COUNT(*) FROM campaign_applications WHERE campaign_id = $1 AND status = 'accepted'
	`, campaignID).Scan(&n)
	return n, err
}

type ApplicationFilter struct {
	CampaignID *uuid.UUID
	CreatorID  *uuid.UUID
	Status     *string
	Limit      int
	Offset     int
}

func (r *ApplicationRepo) List(ctx context.Context, f ApplicationFilter) ([]models.CampaignApplication, error) {
	query := `
		SELECT id, campaign_id, creator_id, pitch_message, status, responded_at, created_at, updated_at
		FROM campaign_applications
	`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.CampaignID != nil {
		where = append(where, fmt.Sprintf("campaign_id = $%d", argIdx))
		args = append(args, *f.CampaignID)
		argIdx++
	}
	if f.CreatorID != nil {
		where = append(where, fmt.Sprintf("creator_id = $%d", argIdx))
		args = append(args, *f.CreatorID)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}

	if len(where) > 0 {
		query += " WHERE "
		for i, w := range where {
			if i > 0 {
				query += " AND "
			}
			query += w
		}
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []models.CampaignApplication
	for rows.Next() {
		var a models.CampaignApplication
		if err := rows.Scan(&a.ID, &a.CampaignID, &a.CreatorID, &a.PitchMessage, &a.Status, &a.RespondedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, nil
}
