package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugc-marketplace/backend/internal/models"
)

// LedgerRepo writes the platform's append-only accounting records. Rows are
// never updated or deleted.
type LedgerRepo struct {
	pool *pgxpool.Pool
}

func NewLedgerRepo(pool *pgxpool.Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

func (r *LedgerRepo) Insert(ctx context.Context, db DB, e *models.PlatformLedgerEntry) error {
	return db.QueryRow(ctx, `
		INSERT INTO platform_ledger (type, amount, currency, reference_type, reference_id, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, e.Type, e.Amount, e.Currency, e.ReferenceType, e.ReferenceID, e.Description).Scan(&e.ID, &e.CreatedAt)
}

func (r *LedgerRepo) ListByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) ([]models.PlatformLedgerEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, type, amount, currency, reference_type, reference_id, description, created_at
		FROM platform_ledger WHERE reference_type = $1 AND reference_id = $2
		ORDER BY created_at ASC
	`, referenceType, referenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.PlatformLedgerEntry
	for rows.Next() {
		var e models.PlatformLedgerEntry
		if err := rows.Scan(&e.ID, &e.Type, &e.Amount, &e.Currency, &e.ReferenceType, &e.ReferenceID, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// SumByType totals ledger amounts of one type, for revenue reporting.
func (r *LedgerRepo) SumByType(ctx context.Context, entryType string) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM platform_ledger WHERE type = $1`, entryType).Scan(&total)
	return total, err
}
