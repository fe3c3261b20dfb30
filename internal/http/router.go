package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/config"
	"github.com/ugc-marketplace/backend/internal/http/handlers"
	"github.com/ugc-marketplace/backend/internal/middleware"
	"github.com/ugc-marketplace/backend/internal/models"
	"github.com/ugc-marketplace/backend/internal/rbac"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	campaignHandler *handlers.CampaignHandler,
	applicationHandler *handlers.ApplicationHandler,
	deliverableHandler *handlers.DeliverableHandler,
	contractHandler *handlers.ContractHandler,
	paymentHandler *handlers.PaymentHandler,
	shopifyHandler *handlers.ShopifyHandler,
	aiHandler *handlers.AIHandler,
	creditHandler *handlers.CreditHandler,
	messageHandler *handlers.MessageHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Wompi posts here; authenticated by HMAC, not JWT, and excluded from
	// rate limiting so a retry storm cannot drop payment events.
	api.Post("/payments/wompi/webhook", paymentHandler.Webhook)

	// Shopify redirects the merchant's browser here after install approval.
	api.Get("/shopify/callback", shopifyHandler.Callback)

	// Rate-limited public endpoints
	api.Use(middleware.RateLimitMiddleware(rdb, 100, time.Minute))

	// Auth (public)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	// Meta (public, no auth required)
	metaHandler := handlers.NewMetaHandler()
	api.Get("/meta/niches", metaHandler.GetNiches)
	api.Get("/meta/usage-rights", metaHandler.GetUsageRights)
	api.Get("/meta/objectives", metaHandler.GetObjectives)
	api.Get("/meta/content-types", metaHandler.GetContentTypes)
	api.Get("/meta/banks", metaHandler.GetBanks)
	api.Get("/meta/credit-packs", metaHandler.GetCreditPacks)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))
	brand := middleware.RequireRole(models.RoleBrand)
	creator := middleware.RequireRole(models.RoleCreator)

	// Profile
	protected.Get("/me", profileHandler.GetMe)
	protected.Put("/me", profileHandler.UpdateMe)
	protected.Get("/profiles/:id", profileHandler.GetProfile)
	protected.Put("/me/payout-details", middleware.RequirePermission(rbac.PermSetPayoutDetails), profileHandler.SetPayoutDetails)
	protected.Get("/me/payout-details", creator, profileHandler.GetPayoutDetails)

	// Campaigns
	protected.Post("/campaigns", brand, campaignHandler.Create)
	protected.Get("/campaigns", campaignHandler.List)
	protected.Get("/campaigns/:id", campaignHandler.Get)
	protected.Put("/campaigns/:id", brand, campaignHandler.Update)
	protected.Post("/campaigns/:id/publish", brand, campaignHandler.Publish)
	protected.Post("/campaigns/:id/cancel", brand, campaignHandler.Cancel)
	protected.Delete("/campaigns/:id", brand, campaignHandler.Delete)

	// Applications
	protected.Post("/campaigns/:id/apply", creator, applicationHandler.Apply)
	protected.Get("/applications", applicationHandler.List)
	protected.Post("/applications/:id/accept", brand, applicationHandler.Accept)
	protected.Post("/applications/:id/reject", brand, applicationHandler.Reject)
	protected.Post("/applications/:id/withdraw", creator, applicationHandler.Withdraw)

	// Deliverables
	protected.Get("/deliverables", deliverableHandler.List)
	protected.Get("/deliverables/:id", deliverableHandler.Get)
	protected.Post("/deliverables/:id/upload", creator, deliverableHandler.Upload)
	protected.Post("/deliverables/:id/start-review", brand, deliverableHandler.StartReview)
	protected.Post("/deliverables/:id/approve", brand, deliverableHandler.Approve)
	protected.Post("/deliverables/:id/request-changes", brand, deliverableHandler.RequestChanges)
	protected.Post("/deliverables/:id/reject", brand, deliverableHandler.Reject)
	protected.Get("/deliverables/:id/versions", deliverableHandler.ListVersions)
	protected.Get("/deliverables/:id/comments", deliverableHandler.ListComments)
	protected.Post("/deliverables/:id/comments", deliverableHandler.AddComment)

	// Contracts
	protected.Get("/contracts", contractHandler.List)
	protected.Get("/contracts/:id", contractHandler.Get)
	protected.Post("/contracts/:id/sign", contractHandler.Sign)
	protected.Get("/contracts/:id/verify", contractHandler.Verify)

	// Escrow payments
	protected.Post("/campaigns/:id/payments", middleware.RequirePermission(rbac.PermFundEscrow), paymentHandler.CreatePayment)
	protected.Get("/escrows", paymentHandler.ListEscrows)
	protected.Get("/escrows/:id", paymentHandler.GetEscrow)
	protected.Get("/escrows/:id/audit", paymentHandler.EscrowAudit)
	protected.Post("/escrows/:id/dispute", paymentHandler.OpenDispute)
	protected.Post("/escrows/:id/resolve-dispute", middleware.RequirePermission(rbac.PermResolveDispute), paymentHandler.ResolveDispute)

	// Shopify
	protected.Post("/shopify/connect", middleware.RequirePermission(rbac.PermConnectStore), shopifyHandler.Connect)
	protected.Get("/stores", brand, shopifyHandler.ListStores)
	protected.Post("/stores/:id/sync", brand, shopifyHandler.Sync)
	protected.Get("/products", brand, shopifyHandler.ListProducts)
	protected.Get("/products/:id", brand, shopifyHandler.GetProduct)

	// AI tools
	protected.Post("/products/:id/analyze", brand, aiHandler.AnalyzeProduct)
	protected.Post("/ai/angles", brand, aiHandler.GenerateAngles)
	protected.Post("/ai/scripts", brand, aiHandler.GenerateScript)

	// Credits
	protected.Get("/credits/balance", creditHandler.Balance)
	protected.Get("/credits/packs", creditHandler.Packs)
	protected.Post("/credits/purchase", brand, creditHandler.Purchase)
	protected.Get("/credits/transactions", creditHandler.Transactions)

	// Messages
	protected.Post("/messages", messageHandler.Send)
	protected.Get("/messages/unread-count", messageHandler.UnreadCount)
	protected.Get("/campaigns/:campaignId/messages/:userId", messageHandler.Thread)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
