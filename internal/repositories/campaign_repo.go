package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugc-marketplace/backend/internal/models"
)

type CampaignRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

const campaignColumns = `
	id, brand_id, title, description, product_ids, objective, content_type,
	pieces_per_creator, max_creators, budget_per_creator, platform_fee_percent,
	usage_rights, delivery_deadline, brief, requirements, preferred_niches,
	status, published_at, applications_count, accepted_creators_count,
	completed_deliverables_count, created_at, updated_at
`

func scanCampaign(row interface{ Scan(...any) error }, c *models.Campaign) error {
	return row.Scan(&c.ID, &c.BrandID, &c.Title, &c.Description, &c.ProductIDs, &c.Objective, &c.ContentType,
		&c.PiecesPerCreator, &c.MaxCreators, &c.BudgetPerCreator, &c.PlatformFeePercent,
		&c.UsageRights, &c.DeliveryDeadline, &c.Brief, &c.Requirements, &c.PreferredNiches,
		&c.Status, &c.PublishedAt, &c.ApplicationsCount, &c.AcceptedCreatorsCount,
		&c.CompletedDeliverablesCount, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (brand_id, title, description, product_ids, objective, content_type,
		                       pieces_per_creator, max_creators, budget_per_creator, platform_fee_percent,
		                       usage_rights, delivery_deadline, brief, requirements, preferred_niches, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`, c.BrandID, c.Title, c.Description, c.ProductIDs, c.Objective, c.ContentType,
		c.PiecesPerCreator, c.MaxCreators, c.BudgetPerCreator, c.PlatformFeePercent,
		c.UsageRights, c.DeliveryDeadline, c.Brief, c.Requirements, c.PreferredNiches, c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	var c models.Campaign
	err := scanCampaign(r.pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id), &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Update edits a draft in place. Returns false when the campaign is no
// longer a draft.
func (r *CampaignRepo) Update(ctx context.Context, c *models.Campaign) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE campaigns SET title = $1, description = $2, product_ids = $3, objective = $4,
		       content_type = $5, pieces_per_creator = $6, max_creators = $7,
		       budget_per_creator = $8, usage_rights = $9, delivery_deadline = $10,
		       brief = $11, requirements = $12, preferred_niches = $13, updated_at = now()
		WHERE id = $14 AND status = 'draft'
	`, c.Title, c.Description, c.ProductIDs, c.Objective,
		c.ContentType, c.PiecesPerCreator, c.MaxCreators,
		c.BudgetPerCreator, c.UsageRights, c.DeliveryDeadline,
		c.Brief, c.Requirements, c.PreferredNiches, c.ID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateStatus moves a campaign between statuses. When from is non-empty the
// update is conditional and the bool result reports whether the row moved.
func (r *CampaignRepo) UpdateStatus(ctx context.Context, db DB, id uuid.UUID, from, to string) (bool, error) {
	if from == "" {
		tag, err := db.Exec(ctx, `UPDATE campaigns SET status = $1, updated_at = now() WHERE id = $2`, to, id)
		return tag.RowsAffected() > 0, err
	}
	tag, err := db.Exec(ctx, `
		UPDATE campaigns SET status = $1, updated_at = now(),
		       published_at = CASE WHEN $1 = 'published' THEN now() ELSE published_at END
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *CampaignRepo) IncrementApplications(ctx context.Context, db DB, id uuid.UUID) error {
	_, err := db.Exec(ctx, `
		UPDATE campaigns SET applications_count = applications_count + 1, updated_at = now() WHERE id = $1
	`, id)
	return err
}

func (r *CampaignRepo) IncrementAcceptedCreators(ctx context.Context, db DB, id uuid.UUID) error {
	_, err := db.Exec(ctx, `
		UPDATE campaigns SET accepted_creators_count = accepted_creators_count + 1, updated_at = now() WHERE id = $1
	`, id)
	return err
}

func (r *CampaignRepo) IncrementCompletedDeliverables(ctx context.Context, db DB, id uuid.UUID) error {
	_, err := db.Exec(ctx, `
		UPDATE campaigns SET completed_deliverables_count = completed_deliverables_count + 1, updated_at = now() WHERE id = $1
	`, id)
	return err
}

type CampaignFilter struct {
	BrandID     *uuid.UUID
	Status      *string
	Objective   *string
	ContentType *string
	Niche       *string
	Limit       int
	Offset      int
}

func (r *CampaignRepo) List(ctx context.Context, f CampaignFilter) ([]models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.BrandID != nil {
		where = append(where, fmt.Sprintf("brand_id = $%d", argIdx))
		args = append(args, *f.BrandID)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}
	if f.Objective != nil {
		where = append(where, fmt.Sprintf("objective = $%d", argIdx))
		args = append(args, *f.Objective)
		argIdx++
	}
	if f.ContentType != nil {
		where = append(where, fmt.Sprintf("content_type = $%d", argIdx))
		args = append(args, *f.ContentType)
		argIdx++
	}
	if f.Niche != nil {
		where = append(where, fmt.Sprintf("$%d = ANY(preferred_niches)", argIdx))
		args = append(args, *f.Niche)
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

	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := scanCampaign(rows, &c); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, nil
}

// ListPastDeadline finds published or running campaigns whose delivery
// deadline has lapsed by more than grace. The worker closes them out.
func (r *CampaignRepo) ListPastDeadline(ctx context.Context, grace time.Duration) ([]models.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns
		WHERE status IN ('published', 'in_progress')
		  AND delivery_deadline IS NOT NULL
		  AND delivery_deadline < now() - ($1 || ' seconds')::interval
	`, fmt.Sprintf("%d", int(grace.Seconds())))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := scanCampaign(rows, &c); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, nil
}

func (r *CampaignRepo) Delete(ctx context.Context, id, brandID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1 AND brand_id = $2 AND status = 'draft'`, id, brandID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
