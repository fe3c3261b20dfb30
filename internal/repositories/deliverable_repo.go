package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugc-marketplace/backend/internal/models"
)

type DeliverableRepo struct {
	pool *pgxpool.Pool
}

func NewDeliverableRepo(pool *pgxpool.Pool) *DeliverableRepo {
	return &DeliverableRepo{pool: pool}
}

const deliverableColumns = `
	id, campaign_id, application_id, creator_id, brand_id, piece_number,
	file_path, file_type, file_size, status, revision_count, max_revisions,
	brand_rating, brand_feedback, approved_at, created_at, updated_at
`

func scanDeliverable(row interface{ Scan(...any) error }, d *models.Deliverable) error {
	return row.Scan(&d.ID, &d.CampaignID, &d.ApplicationID, &d.CreatorID, &d.BrandID, &d.PieceNumber,
		&d.FilePath, &d.FileType, &d.FileSize, &d.Status, &d.RevisionCount, &d.MaxRevisions,
		&d.BrandRating, &d.BrandFeedback, &d.ApprovedAt, &d.CreatedAt, &d.UpdatedAt)
}

// Create inserts one pending slot. Runs inside the acceptance transaction so
// either all slots for an application exist or none do.
func (r *DeliverableRepo) Create(ctx context.Context, db DB, d *models.Deliverable) error {
	return db.QueryRow(ctx, `
		INSERT INTO deliverables (campaign_id, application_id, creator_id, brand_id, piece_number, status, max_revisions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (application_id, piece_number) DO NOTHING
		RETURNING id, created_at, updated_at
	`, d.CampaignID, d.ApplicationID, d.CreatorID, d.BrandID, d.PieceNumber, d.Status, d.MaxRevisions,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *DeliverableRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Deliverable, error) {
	var d models.Deliverable
	err := scanDeliverable(r.pool.QueryRow(ctx,
		`SELECT `+deliverableColumns+` FROM deliverables WHERE id = $1`, id), &d)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateStatus moves a deliverable out of exactly the expected status. The
// bool result reports whether the conditional write landed.
func (r *DeliverableRepo) UpdateStatus(ctx context.Context, db DB, id uuid.UUID, from, to string) (bool, error) {
	tag, err := db.Exec(ctx, `
		UPDATE deliverables SET status = $1, updated_at = now(),
		       approved_at = CASE WHEN $1 = 'approved' THEN now() ELSE approved_at END
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SetFile records the current upload on the deliverable row itself. Version
// history is kept separately and append-only.
func (r *DeliverableRepo) SetFile(ctx context.Context, db DB, id uuid.UUID, path, fileType string, size int64) error {
	_, err := db.Exec(ctx, `
		UPDATE deliverables SET file_path = $1, file_type = $2, file_size = $3, updated_at = now()
		WHERE id = $4
	`, path, fileType, size, id)
	return err
}

// SetRevisionCount pins the counter to the version number just written so
// the two can never drift apart.
func (r *DeliverableRepo) SetRevisionCount(ctx context.Context, db DB, id uuid.UUID, count int) error {
	_, err := db.Exec(ctx, `
		UPDATE deliverables SET revision_count = $1, updated_at = now() WHERE id = $2
	`, count, id)
	return err
}

func (r *DeliverableRepo) SetRating(ctx context.Context, db DB, id uuid.UUID, rating *int, feedback *string) error {
	_, err := db.Exec(ctx, `
		UPDATE deliverables SET brand_rating = $1, brand_feedback = $2, updated_at = now() WHERE id = $3
	`, rating, feedback, id)
	return err
}

type DeliverableFilter struct {
	CampaignID    *uuid.UUID
	ApplicationID *uuid.UUID
	CreatorID     *uuid.UUID
	BrandID       *uuid.UUID
	Status        *string
	Limit         int
	Offset        int
}

func (r *DeliverableRepo) List(ctx context.Context, f DeliverableFilter) ([]models.Deliverable, error) {
	query := `SELECT ` + deliverableColumns + ` FROM deliverables`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.CampaignID != nil {
		where = append(where, fmt.Sprintf("campaign_id = $%d", argIdx))
		args = append(args, *f.CampaignID)
		argIdx++
	}
	if f.ApplicationID != nil {
		where = append(where, fmt.Sprintf("application_id = $%d", argIdx))
		args = append(args, *f.ApplicationID)
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
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY piece_number ASC, created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Deliverable
	for rows.Next() {
		var d models.Deliverable
		if err := scanDeliverable(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// CountByApplication returns total and approved piece counts for one
// accepted application.
func (r *DeliverableRepo) CountByApplication(ctx context.Context, db DB, applicationID uuid.UUID) (total, approved int, err error) {
	err = db.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'approved')
		FROM deliverables WHERE application_id = $1
	`, applicationID).Scan(&total, &approved)
	return total, approved, err
}

// MissingPieceNumbers finds gaps in 1..expected for an application. The
// reconciliation worker backfills them if an acceptance was interrupted.
func (r *DeliverableRepo) MissingPieceNumbers(ctx context.Context, applicationID uuid.UUID, expected int) ([]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT gs.n FROM generate_series(1, $2) AS gs(n)
		WHERE NOT EXISTS (
			SELECT 1 FROM deliverables WHERE application_id = $1 AND piece_number = gs.n
		)
	`, applicationID, expected)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var missing []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		missing = append(missing, n)
	}
	return missing, nil
}

// ---- Versions ----

func (r *DeliverableRepo) CreateVersion(ctx context.Context, db DB, v *models.DeliverableVersion) error {
	return db.QueryRow(ctx, `
		INSERT INTO deliverable_versions (deliverable_id, version_number, file_path, file_type, file_size, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, v.DeliverableID, v.VersionNumber, v.FilePath, v.FileType, v.FileSize, v.Notes).Scan(&v.ID, &v.CreatedAt)
}

func (r *DeliverableRepo) ListVersions(ctx context.Context, deliverableID uuid.UUID) ([]models.DeliverableVersion, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, deliverable_id, version_number, file_path, file_type, file_size, notes, created_at
		FROM deliverable_versions WHERE deliverable_id = $1 ORDER BY version_number ASC
	`, deliverableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []models.DeliverableVersion
	for rows.Next() {
		var v models.DeliverableVersion
		if err := rows.Scan(&v.ID, &v.DeliverableID, &v.VersionNumber, &v.FilePath, &v.FileType, &v.FileSize, &v.Notes, &v.CreatedAt); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, nil
}

// ---- Review comments ----

func (r *DeliverableRepo) CreateComment(ctx context.Context, c *models.ReviewComment) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO review_comments (deliverable_id, author_id, comment, timestamp_seconds)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, c.DeliverableID, c.AuthorID, c.Comment, c.TimestampSeconds).Scan(&c.ID, &c.CreatedAt)
}

func (r *DeliverableRepo) ListComments(ctx context.Context, deliverableID uuid.UUID) ([]models.ReviewComment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, deliverable_id, author_id, comment, timestamp_seconds, created_at
		FROM review_comments WHERE deliverable_id = $1 ORDER BY created_at ASC
	`, deliverableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.ReviewComment
	for rows.Next() {
		var c models.ReviewComment
		if err := rows.Scan(&c.ID, &c.DeliverableID, &c.AuthorID, &c.Comment, &c.TimestampSeconds, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, nil
}
