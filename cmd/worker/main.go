package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ugc-marketplace/backend/internal/config"
	"github.com/ugc-marketplace/backend/internal/db"
	"github.com/ugc-marketplace/backend/internal/events"
	"github.com/ugc-marketplace/backend/internal/repositories"
	"github.com/ugc-marketplace/backend/internal/services"
	"github.com/ugc-marketplace/backend/internal/wompi"
)

// releaseMaxAge is how long an escrow may sit in release_pending before the
// sweep returns it to funded for a retry.
const releaseMaxAge = 10 * time.Minute

// campaignGrace is how far past the delivery deadline a campaign may run
// before it is closed out.
const campaignGrace = 72 * time.Hour

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repos
	profileRepo := repositories.NewProfileRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	applicationRepo := repositories.NewApplicationRepo(pool)
	deliverableRepo := repositories.NewDeliverableRepo(pool)
	escrowRepo := repositories.NewEscrowRepo(pool)
	ledgerRepo := repositories.NewLedgerRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Services
	publisher := events.NewRedisPublisher(rdb, log)
	wompiClient := wompi.NewClient(cfg.WompiBaseURL, cfg.WompiPrivateKey, log)
	escrowService := services.NewEscrowService(pool, escrowRepo, campaignRepo, deliverableRepo, profileRepo, ledgerRepo, auditRepo, wompiClient, publisher, cfg, log)
	campaignService := services.NewCampaignService(pool, campaignRepo, auditRepo, cfg, log)
	reconciler := services.NewReconcileService(pool, applicationRepo, deliverableRepo, escrowService, campaignService, log)

	log.Info("worker started", zap.Duration("interval", cfg.ReconcileInterval))

	ticker := time.NewTicker(cfg.ReconcileInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// One sweep at startup so a crashed release is not stuck for a full
	// interval.
	reconciler.RunOnce(ctx, releaseMaxAge, campaignGrace, cfg.CampaignExpiryEnabled)

	for {
		select {
		case <-ticker.C:
			reconciler.RunOnce(ctx, releaseMaxAge, campaignGrace, cfg.CampaignExpiryEnabled)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}
