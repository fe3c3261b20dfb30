package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugc-marketplace/backend/internal/models"
)

type ContractRepo struct {
	pool *pgxpool.Pool
}

func NewContractRepo(pool *pgxpool.Pool) *ContractRepo {
	return &ContractRepo{pool: pool}
}

const contractColumns = `
	id, campaign_id, deliverable_id, brand_id, creator_id, usage_rights, usage_months,
	contract_data, contract_hash, html_content, brand_signed_at, creator_signed_at, created_at
`

func scanContract(row interface{ Scan(...any) error }, c *models.Contract) error {
	return row.Scan(&c.ID, &c.CampaignID, &c.DeliverableID, &c.BrandID, &c.CreatorID,
		&c.UsageRights, &c.UsageMonths, &c.ContractData, &c.ContractHash, &c.HTMLContent,
		&c.BrandSignedAt, &c.CreatorSignedAt, &c.CreatedAt)
}

// Create inserts a contract. The unique index on deliverable_id keeps
// generation idempotent per piece.
func (r *ContractRepo) Create(ctx context.Context, db DB, c *models.Contract) error {
	return db.QueryRow(ctx, `
		INSERT INTO contracts (campaign_id, deliverable_id, brand_id, creator_id, usage_rights, usage_months,
		                       contract_data, contract_hash, html_content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, c.CampaignID, c.DeliverableID, c.BrandID, c.CreatorID, c.UsageRights, c.UsageMonths,
		c.ContractData, c.ContractHash, c.HTMLContent).Scan(&c.ID, &c.CreatedAt)
}

func (r *ContractRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	var c models.Contract
	err := scanContract(r.pool.QueryRow(ctx,
		`SELECT `+contractColumns+` FROM contracts WHERE id = $1`, id), &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContractRepo) GetByDeliverable(ctx context.Context, deliverableID uuid.UUID) (*models.Contract, error) {
	var c models.Contract
	err := scanContract(r.pool.QueryRow(ctx,
		`SELECT `+contractColumns+` FROM contracts WHERE deliverable_id = $1`, deliverableID), &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Sign stamps one party's signature. The IS NULL guard makes a repeat call a
// no-op: the original timestamp is retained and zero rows move.
func (r *ContractRepo) Sign(ctx context.Context, id uuid.UUID, role string) (bool, error) {
	var column string
	switch role {
	case models.ContractRoleBrand:
		column = "brand_signed_at"
	case models.ContractRoleCreator:
		column = "creator_signed_at"
	default:
		return false, fmt.Errorf("unknown contract role %q", role)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE contracts SET `+column+` = now() WHERE id = $1 AND `+column+` IS NULL`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ContractRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Contract, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+contractColumns+` FROM contracts
		WHERE brand_id = $1 OR creator_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []models.Contract
	for rows.Next() {
		var c models.Contract
		if err := scanContract(rows, &c); err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, nil
}
