package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/ai"
	"github.com/ugc-marketplace/backend/internal/config"
	"github.com/ugc-marketplace/backend/internal/db"
	"github.com/ugc-marketplace/backend/internal/events"
	apphttp "github.com/ugc-marketplace/backend/internal/http"
	"github.com/ugc-marketplace/backend/internal/http/handlers"
	"github.com/ugc-marketplace/backend/internal/repositories"
	"github.com/ugc-marketplace/backend/internal/services"
	"github.com/ugc-marketplace/backend/internal/shopify"
	"github.com/ugc-marketplace/backend/internal/storage"
	"github.com/ugc-marketplace/backend/internal/wompi"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Object storage for deliverable files
	store, err := storage.NewClient(storage.Options{
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		Bucket:          cfg.S3Bucket,
		Endpoint:        cfg.AWSEndpoint,
		DisableSSL:      cfg.S3DisableSSL,
	})
	if err != nil {
		log.Fatal("failed to init object storage", zap.Error(err))
	}

	// Repositories
	profileRepo := repositories.NewProfileRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	applicationRepo := repositories.NewApplicationRepo(pool)
	deliverableRepo := repositories.NewDeliverableRepo(pool)
	escrowRepo := repositories.NewEscrowRepo(pool)
	contractRepo := repositories.NewContractRepo(pool)
	ledgerRepo := repositories.NewLedgerRepo(pool)
	creditRepo := repositories.NewCreditRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	messageRepo := repositories.NewMessageRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// External clients
	wompiClient := wompi.NewClient(cfg.WompiBaseURL, cfg.WompiPrivateKey, log)
	shopifyClient := shopify.NewClient(cfg.ShopifyAPIKey, cfg.ShopifyAPISecret, cfg.ShopifyScopes, cfg.AppURL, log)
	aiClient := ai.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel, log)

	// Services
	creditService := services.NewCreditService(pool, creditRepo, auditRepo, publisher, cfg, log)
	accountService := services.NewAccountService(profileRepo, auditRepo, creditService, cfg, log)
	campaignService := services.NewCampaignService(pool, campaignRepo, auditRepo, cfg, log)
	applicationService := services.NewApplicationService(pool, applicationRepo, campaignRepo, deliverableRepo, auditRepo, publisher, log)
	escrowService := services.NewEscrowService(pool, escrowRepo, campaignRepo, deliverableRepo, profileRepo, ledgerRepo, auditRepo, wompiClient, publisher, cfg, log)
	contractService := services.NewContractService(pool, contractRepo, profileRepo, auditRepo, publisher, log)
	deliverableService := services.NewDeliverableService(pool, deliverableRepo, campaignRepo, profileRepo, auditRepo, contractService, escrowService, store, publisher, log)
	shopifyService := services.NewShopifyService(productRepo, auditRepo, shopifyClient, rdb, log)
	aiService := services.NewAIService(pool, productRepo, creditService, aiClient, log)
	messageService := services.NewMessageService(messageRepo, campaignRepo, applicationRepo, publisher, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(accountService, log)
	profileHandler := handlers.NewProfileHandler(accountService, log)
	campaignHandler := handlers.NewCampaignHandler(campaignService, log)
	applicationHandler := handlers.NewApplicationHandler(applicationService, log)
	deliverableHandler := handlers.NewDeliverableHandler(deliverableService, log)
	contractHandler := handlers.NewContractHandler(contractService, log)
	paymentHandler := handlers.NewPaymentHandler(escrowService, creditService, cfg, log)
	shopifyHandler := handlers.NewShopifyHandler(shopifyService, log)
	aiHandler := handlers.NewAIHandler(aiService, log)
	creditHandler := handlers.NewCreditHandler(creditService, log)
	messageHandler := handlers.NewMessageHandler(messageService, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: storage.MaxUploadBytes + 1<<20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb,
		authHandler, profileHandler, campaignHandler, applicationHandler,
		deliverableHandler, contractHandler, paymentHandler, shopifyHandler,
		aiHandler, creditHandler, messageHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
