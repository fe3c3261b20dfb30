package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugc-marketplace/backend/internal/models"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, m *models.Message) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO messages (campaign_id, sender_id, receiver_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, m.CampaignID, m.SenderID, m.ReceiverID, m.Content).Scan(&m.ID, &m.CreatedAt)
}

// ListThread returns the conversation between two users within a campaign,
// oldest first.
func (r *MessageRepo) ListThread(ctx context.Context, campaignID, userA, userB uuid.UUID, limit, offset int) ([]models.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, sender_id, receiver_id, content, is_read, created_at
		FROM messages
		WHERE campaign_id = $1
		  AND ((sender_id = $2 AND receiver_id = $3) OR (sender_id = $3 AND receiver_id = $2))
		ORDER BY created_at ASC LIMIT $4 OFFSET $5
	`, campaignID, userA, userB, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.CampaignID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// MarkRead flags everything addressed to the reader in the thread.
func (r *MessageRepo) MarkRead(ctx context.Context, campaignID, readerID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE messages SET is_read = true
		WHERE campaign_id = $1 AND receiver_id = $2 AND is_read = false
	`, campaignID, readerID)
	return err
}

func (r *MessageRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND is_read = false`, userID).Scan(&n)
	return n, err
}
