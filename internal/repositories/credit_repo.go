package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugc-marketplace/backend/internal/models"
)

type CreditRepo struct {
	pool *pgxpool.Pool
}

func NewCreditRepo(pool *pgxpool.Pool) *CreditRepo {
	return &CreditRepo{pool: pool}
}

func (r *CreditRepo) GetBalance(ctx context.Context, userID uuid.UUID) (*models.CreditBalance, error) {
	var b models.CreditBalance
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, balance, total_purchased, total_used, updated_at
		FROM credit_balances WHERE user_id = $1
	`, userID).Scan(&b.UserID, &b.Balance, &b.TotalPurchased, &b.TotalUsed, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Add credits the user and records the movement. The balance row is created
// on first use.
func (r *CreditRepo) Add(ctx context.Context, db DB, userID uuid.UUID, amount int, txType, description string, referenceID, referenceType *string) (int, error) {
	var newBalance int
	err := db.QueryRow(ctx, `
		INSERT INTO credit_balances (user_id, balance, total_purchased)
		VALUES ($1, $2, CASE WHEN $3 IN ('purchase', 'signup_bonus', 'bonus') THEN $2 ELSE 0 END)
		ON CONFLICT (user_id) DO UPDATE SET
			balance = credit_balances.balance + $2,
			total_purchased = credit_balances.total_purchased +
				CASE WHEN $3 IN ('purchase', 'signup_bonus', 'bonus') THEN $2 ELSE 0 END,
			updated_at = now()
		RETURNING balance
	`, userID, amount, txType).Scan(&newBalance)
	if err != nil {
		return 0, err
	}

	_, err = db.Exec(ctx, `
		INSERT INTO credit_transactions (user_id, type, amount, balance_after, description, reference_id, reference_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, userID, txType, amount, newBalance, description, referenceID, referenceType)
	return newBalance, err
}

// Deduct atomically spends credits. The balance guard in the WHERE clause is
// the whole insufficiency check; ok reports whether the spend landed.
func (r *CreditRepo) Deduct(ctx context.Context, db DB, userID uuid.UUID, amount int, description string, referenceID, referenceType *string) (newBalance int, ok bool, err error) {
	err = db.QueryRow(ctx, `
		UPDATE credit_balances
		SET balance = balance - $2, total_used = total_used + $2, updated_at = now()
		WHERE user_id = $1 AND balance >= $2
		RETURNING balance
	`, userID, amount).Scan(&newBalance)
	if err != nil {
		if IsNoRows(err) {
			return 0, false, nil
		}
		return 0, false, err
	}

	_, err = db.Exec(ctx, `
		INSERT INTO credit_transactions (user_id, type, amount, balance_after, description, reference_id, reference_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, userID, models.CreditTxUsage, -amount, newBalance, description, referenceID, referenceType)
	return newBalance, err == nil, err
}

func (r *CreditRepo) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.CreditTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, type, amount, balance_after, description, reference_id, reference_type, created_at
		FROM credit_transactions WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.CreditTransaction
	for rows.Next() {
		var t models.CreditTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.BalanceAfter, &t.Description, &t.ReferenceID, &t.ReferenceType, &t.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, nil
}

// HasTransactionReference reports whether a credit movement already recorded
// this external reference. Used to deduplicate replayed payment webhooks.
func (r *CreditRepo) HasTransactionReference(ctx context.Context, referenceID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM credit_transactions WHERE reference_id = $1)`, referenceID).Scan(&exists)
	return exists, err
}
