package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/apperr"
	"github.com/ugc-marketplace/backend/internal/models"
	"github.com/ugc-marketplace/backend/internal/repositories"
	"github.com/ugc-marketplace/backend/internal/shopify"
)

// oauthStateTTL bounds how long a pending OAuth redirect stays valid.
const oauthStateTTL = 10 * time.Minute

type ShopifyService struct {
	productRepo *repositories.ProductRepo
	auditRepo   *repositories.AuditRepo
	client      *shopify.Client
	rdb         *redis.Client
	log         *zap.Logger
}

func NewShopifyService(
	productRepo *repositories.ProductRepo,
	auditRepo *repositories.AuditRepo,
	client *shopify.Client,
	rdb *redis.Client,
	log *zap.Logger,
) *ShopifyService {
	return &ShopifyService{
		productRepo: productRepo,
		auditRepo:   auditRepo,
		client:      client,
		rdb:         rdb,
		log:         log,
	}
}

// ConnectURL starts the OAuth dance. The state nonce is bound to the brand
// in redis so the callback can both verify the redirect and recover who
// initiated it.
func (s *ShopifyService) ConnectURL(ctx context.Context, brandID uuid.UUID, shop string) (string, error) {
	if !shopify.ValidShopDomain(shop) {
		return "", fmt.Errorf("invalid shop domain %q: %w", shop, apperr.ErrInvalidInput)
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	state := hex.EncodeToString(buf)

	if err := s.rdb.Set(ctx, "shopify:oauth:"+state, brandID.String(), oauthStateTTL).Err(); err != nil {
		return "", err
	}
	return s.client.AuthURL(shop, state), nil
}

// HandleCallback finishes OAuth: verifies the state, trades the code for a
// permanent token, stores the shop, and kicks off the first sync.
func (s *ShopifyService) HandleCallback(ctx context.Context, shop, code, state string) (*models.Store, error) {
	if !shopify.ValidShopDomain(shop) {
		return nil, fmt.Errorf("invalid shop domain %q: %w", shop, apperr.ErrInvalidInput)
	}

	brandStr, err := s.rdb.GetDel(ctx, "shopify:oauth:"+state).Result()
	if err != nil {
		return nil, fmt.Errorf("unknown or expired oauth state: %w", apperr.ErrUnauthorized)
	}
	brandID, err := uuid.Parse(brandStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt oauth state: %w", apperr.ErrUnauthorized)
	}

	token, err := s.client.ExchangeToken(ctx, shop, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w: %v", apperr.ErrUpstream, err)
	}

	store := &models.Store{
		BrandID:     brandID,
		ShopDomain:  shop,
		AccessToken: token,
		SyncStatus:  models.SyncStatusPending,
	}
	if err := s.productRepo.UpsertStore(ctx, store); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &brandID,
		ActorType:   "user",
		Action:      "store_connected",
		EntityType:  "store",
		EntityID:    &store.ID,
		Meta:        map[string]any{"shop_domain": shop},
	})

	// First sync runs in the background; the callback response should not
	// wait on a catalog crawl.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.Sync(ctx, store.ID, brandID); err != nil {
			s.log.Error("initial store sync failed",
				zap.String("store_id", store.ID.String()), zap.Error(err))
		}
	}()

	return store, nil
}

// Sync pulls the full product catalog and upserts every product. A failure
// marks the store failed so the UI can offer a retry.
func (s *ShopifyService) Sync(ctx context.Context, storeID, brandID uuid.UUID) error {
	store, err := s.productRepo.GetStoreByID(ctx, storeID)
	if err != nil {
		return fmt.Errorf("store not found: %w", apperr.ErrNotFound)
	}
	if store.BrandID != brandID {
		return fmt.Errorf("store belongs to another brand: %w", apperr.ErrForbidden)
	}

	if err := s.productRepo.SetSyncStatus(ctx, storeID, models.SyncStatusSyncing); err != nil {
		return err
	}

	products, err := s.client.FetchProducts(ctx, store.ShopDomain, store.AccessToken)
	if err != nil {
		_ = s.productRepo.SetSyncStatus(ctx, storeID, models.SyncStatusFailed)
		return fmt.Errorf("catalog fetch failed: %w: %v", apperr.ErrUpstream, err)
	}

	synced := 0
	for i := range products {
		p := shopify.MapProduct(products[i])
		p.StoreID = storeID
		p.BrandID = brandID
		if err := s.productRepo.Upsert(ctx, &p); err != nil {
			s.log.Warn("product upsert failed",
				zap.String("shopify_product_id", p.ShopifyProductID), zap.Error(err))
			continue
		}
		synced++
	}

	if err := s.productRepo.MarkSynced(ctx, storeID, synced); err != nil {
		return err
	}
	s.log.Info("store synced",
		zap.String("store_id", storeID.String()), zap.Int("products", synced))
	return nil
}

func (s *ShopifyService) ListStores(ctx context.Context, brandID uuid.UUID) ([]models.Store, error) {
	return s.productRepo.ListStoresByBrand(ctx, brandID)
}

func (s *ShopifyService) ListProducts(ctx context.Context, brandID uuid.UUID, limit, offset int) ([]models.Product, error) {
	return s.productRepo.ListByBrand(ctx, brandID, limit, offset)
}

func (s *ShopifyService) GetProduct(ctx context.Context, id, brandID uuid.UUID) (*models.Product, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", apperr.ErrNotFound)
	}
	if p.BrandID != brandID {
		return nil, fmt.Errorf("product belongs to another brand: %w", apperr.ErrForbidden)
	}
	return p, nil
}
