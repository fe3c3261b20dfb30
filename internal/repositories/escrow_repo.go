package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugc-marketplace/backend/internal/models"
)

type EscrowRepo struct {
	pool *pgxpool.Pool
}

func NewEscrowRepo(pool *pgxpool.Pool) *EscrowRepo {
	return &EscrowRepo{pool: pool}
}

const escrowColumns = `
	id, campaign_id, brand_id, creator_id, deliverable_id,
	gross_amount, platform_fee, creator_amount, currency,
	wompi_payment_id, wompi_payout_id, status, status_history,
	funded_at, released_at, created_at, updated_at
`

func scanEscrow(row interface{ Scan(...any) error }, e *models.EscrowTransaction) error {
	var history []byte
	if err := row.Scan(&e.ID, &e.CampaignID, &e.BrandID, &e.CreatorID, &e.DeliverableID,
		&e.GrossAmount, &e.PlatformFee, &e.CreatorAmount, &e.Currency,
		&e.WompiPaymentID, &e.WompiPayoutID, &e.Status, &history,
		&e.FundedAt, &e.ReleasedAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return err
	}
	if len(history) > 0 {
		_ = json.Unmarshal(history, &e.StatusHistory)
	}
	return nil
}

func (r *EscrowRepo) Create(ctx context.Context, e *models.EscrowTransaction) error {
	initial, _ := json.Marshal([]models.StatusHistoryEntry{{Status: e.Status, At: time.Now().UTC()}})
	return r.pool.QueryRow(ctx, `
		INSERT INTO escrow_transactions (campaign_id, brand_id, creator_id, deliverable_id,
		                                 gross_amount, platform_fee, creator_amount, currency,
		                                 status, status_history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, e.CampaignID, e.BrandID, e.CreatorID, e.DeliverableID,
		e.GrossAmount, e.PlatformFee, e.CreatorAmount, e.Currency,
		e.Status, initial).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *EscrowRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.EscrowTransaction, error) {
	var e models.EscrowTransaction
	err := scanEscrow(r.pool.QueryRow(ctx,
		`SELECT `+escrowColumns+` FROM escrow_transactions WHERE id = $1`, id), &e)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EscrowRepo) GetByDeliverable(ctx context.Context, deliverableID uuid.UUID) (*models.EscrowTransaction, error) {
	var e models.EscrowTransaction
	err := scanEscrow(r.pool.QueryRow(ctx,
		`SELECT `+escrowColumns+` FROM escrow_transactions WHERE deliverable_id = $1`, deliverableID), &e)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Transition is the compare-and-set status write. The row moves only if it
// is still in from; a history entry is appended in the same statement so the
// trail can never diverge from the status column.
func (r *EscrowRepo) Transition(ctx context.Context, db DB, id uuid.UUID, from, to string, metadata map[string]any) (bool, error) {
	entry, err := json.Marshal([]models.StatusHistoryEntry{{Status: to, At: time.Now().UTC(), Metadata: metadata}})
	if err != nil {
		return false, err
	}
	tag, err := db.Exec(ctx, `
		UPDATE escrow_transactions SET status = $1,
		       status_history = status_history || $2::jsonb,
		       funded_at = CASE WHEN $1 = 'funded' AND funded_at IS NULL THEN now() ELSE funded_at END,
		       released_at = CASE WHEN $1 = 'released' THEN now() ELSE released_at END,
		       updated_at = now()
		WHERE id = $3 AND status = $4
	`, to, entry, id, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *EscrowRepo) SetWompiPaymentID(ctx context.Context, db DB, id uuid.UUID, paymentID string) error {
	_, err := db.Exec(ctx, `
		UPDATE escrow_transactions SET wompi_payment_id = $1, updated_at = now() WHERE id = $2
	`, paymentID, id)
	return err
}

func (r *EscrowRepo) SetWompiPayoutID(ctx context.Context, db DB, id uuid.UUID, payoutID string) error {
	_, err := db.Exec(ctx, `
		UPDATE escrow_transactions SET wompi_payout_id = $1, updated_at = now() WHERE id = $2
	`, payoutID, id)
	return err
}

// AssignCreator attaches the creator and deliverable once the funded escrow
// is matched to an approved piece.
func (r *EscrowRepo) AssignCreator(ctx context.Context, db DB, id, creatorID, deliverableID uuid.UUID) error {
	_, err := db.Exec(ctx, `
		UPDATE escrow_transactions SET creator_id = $1, deliverable_id = $2, updated_at = now()
		WHERE id = $3
	`, creatorID, deliverableID, id)
	return err
}

type EscrowFilter struct {
	CampaignID *uuid.UUID
	BrandID    *uuid.UUID
	CreatorID  *uuid.UUID
	Status     *string
	Limit      int
	Offset     int
}

func (r *EscrowRepo) List(ctx context.Context, f EscrowFilter) ([]models.EscrowTransaction, error) {
	query := `SELECT ` + escrowColumns + ` FROM escrow_transactions`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.CampaignID != nil {
		where = append(where, fmt.Sprintf("campaign_id = $%d", argIdx))
		args = append(args, *f.CampaignID)
		argIdx++
	}
	if f.BrandID != nil {
		where = append(where, fmt.Sprintf("brand_id = $%d", argIdx))
		args = append(args, *f.BrandID)
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

	var out []models.EscrowTransaction
	for rows.Next() {
		var e models.EscrowTransaction
		if err := scanEscrow(rows, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// ListStuck finds escrows parked in a status longer than maxAge. The worker
// reverts stale release_pending rows so payouts can be retried.
// ListFundedWithDeliverable returns funded escrows that already carry a
// deliverable assignment, meaning a release was claimed and then compensated
// back. These are the payout retry candidates.
func (r *EscrowRepo) ListFundedWithDeliverable(ctx context.Context, limit int) ([]models.EscrowTransaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+escrowColumns+` FROM escrow_transactions
		WHERE status = 'funded' AND deliverable_id IS NOT NULL
		ORDER BY updated_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EscrowTransaction
	for rows.Next() {
		var e models.EscrowTransaction
		if err := scanEscrow(rows, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *EscrowRepo) ListStuck(ctx context.Context, status string, maxAge time.Duration) ([]models.EscrowTransaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+escrowColumns+` FROM escrow_transactions
		WHERE status = $1 AND updated_at < now() - ($2 || ' seconds')::interval
	`, status, fmt.Sprintf("%d", int(maxAge.Seconds())))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EscrowTransaction
	for rows.Next() {
		var e models.EscrowTransaction
		if err := scanEscrow(rows, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
