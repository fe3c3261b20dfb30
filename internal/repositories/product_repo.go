package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugc-marketplace/backend/internal/models"
)

type ProductRepo struct {
	pool *pgxpool.Pool
}

func NewProductRepo(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

// ---- Stores ----

func (r *ProductRepo) UpsertStore(ctx context.Context, s *models.Store) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO stores (brand_id, shop_domain, access_token, sync_status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (brand_id, shop_domain) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			updated_at = now()
		RETURNING id, sync_status, created_at, updated_at
	`, s.BrandID, s.ShopDomain, s.AccessToken, s.SyncStatus).Scan(&s.ID, &s.SyncStatus, &s.CreatedAt, &s.UpdatedAt)
}

func (r *ProductRepo) GetStoreByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var s models.Store
	err := r.pool.QueryRow(ctx, `
		SELECT id, brand_id, shop_domain, access_token, sync_status, last_synced_at, products_count, created_at, updated_at
		FROM stores WHERE id = $1
	`, id).Scan(&s.ID, &s.BrandID, &s.ShopDomain, &s.AccessToken, &s.SyncStatus, &s.LastSyncedAt, &s.ProductsCount, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ProductRepo) ListStoresByBrand(ctx context.Context, brandID uuid.UUID) ([]models.Store, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, brand_id, shop_domain, access_token, sync_status, last_synced_at, products_count, created_at, updated_at
		FROM stores WHERE brand_id = $1 ORDER BY created_at DESC
	`, brandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []models.Store
	for rows.Next() {
		var s models.Store
		if err := rows.Scan(&s.ID, &s.BrandID, &s.ShopDomain, &s.AccessToken, &s.SyncStatus, &s.LastSyncedAt, &s.ProductsCount, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, nil
}

func (r *ProductRepo) SetSyncStatus(ctx context.Context, storeID uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE stores SET sync_status = $1, updated_at = now() WHERE id = $2`, status, storeID)
	return err
}

func (r *ProductRepo) MarkSynced(ctx context.Context, storeID uuid.UUID, count int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE stores SET sync_status = 'synced', last_synced_at = now(), products_count = $1, updated_at = now()
		WHERE id = $2
	`, count, storeID)
	return err
}

// ---- Products ----

// Upsert keys on (store_id, shopify_product_id) so repeated syncs refresh in
// place. AI fields are left untouched; the cached analysis survives resyncs.
func (r *ProductRepo) Upsert(ctx context.Context, p *models.Product) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO products (store_id, brand_id, shopify_product_id, title, description,
		                      price_min, price_max, image_urls, tags, product_type, vendor, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (store_id, shopify_product_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			price_min = EXCLUDED.price_min,
			price_max = EXCLUDED.price_max,
			image_urls = EXCLUDED.image_urls,
			tags = EXCLUDED.tags,
			product_type = EXCLUDED.product_type,
			vendor = EXCLUDED.vendor,
			status = EXCLUDED.status,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`, p.StoreID, p.BrandID, p.ShopifyProductID, p.Title, p.Description,
		p.PriceMin, p.PriceMax, p.ImageURLs, p.Tags, p.ProductType, p.Vendor, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

const productColumns = `
	id, store_id, brand_id, shopify_product_id, title, description,
	price_min, price_max, image_urls, tags, product_type, vendor, status,
	ai_category, ai_target_audience, ai_key_benefits, ai_analyzed_at,
	created_at, updated_at
`

func scanProduct(row interface{ Scan(...any) error }, p *models.Product) error {
	return row.Scan(&p.ID, &p.StoreID, &p.BrandID, &p.ShopifyProductID, &p.Title, &p.Description,
		&p.PriceMin, &p.PriceMax, &p.ImageURLs, &p.Tags, &p.ProductType, &p.Vendor, &p.Status,
		&p.AICategory, &p.AITargetAudience, &p.AIKeyBenefits, &p.AIAnalyzedAt,
		&p.CreatedAt, &p.UpdatedAt)
}

func (r *ProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id), &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) ListByBrand(ctx context.Context, brandID uuid.UUID, limit, offset int) ([]models.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+` FROM products WHERE brand_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, brandID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *ProductRepo) SaveAIAnalysis(ctx context.Context, id uuid.UUID, category, targetAudience string, keyBenefits []string, analyzedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE products SET ai_category = $1, ai_target_audience = $2, ai_key_benefits = $3,
		       ai_analyzed_at = $4, updated_at = now()
		WHERE id = $5
	`, category, targetAudience, keyBenefits, analyzedAt, id)
	return err
}
