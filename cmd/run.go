package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"neurocoin/api"
	"neurocoin/config"
	"neurocoin/database"
	"neurocoin/events"
	"neurocoin/games"
	"neurocoin/repository"
	"neurocoin/service"
)

// Run initializes and starts the economy engine
func Run(ctx context.Context) error {
	log.Info("Starting neurocoin economy engine...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Running database migrations...")
	if err := database.RunMigrationsWithURL(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Event bus and unit of work factory
	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Direct repositories for read paths and the audit recorder
	balanceRepo := repository.NewBalanceRepository(db)
	listingRepo := repository.NewListingRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	sweepRepo := repository.NewSweepRunRepository(db)

	rateLimiter := service.NewRateLimiter(cfg.RateWindow)
	fraudGuard := service.NewFraudGuard(cfg.FraudFlagThreshold)

	log.Info("Initializing services...")
	balanceService := service.NewBalanceService(balanceRepo, uowFactory)
	transferService := service.NewTransferService(uowFactory, rateLimiter, fraudGuard)
	marketService := service.NewMarketplaceService(listingRepo, uowFactory, rateLimiter)
	wagerService := service.NewWagerService(uowFactory, games.NewRegistry(), nil)

	auditRecorder := service.NewAuditRecorder(auditRepo, sweepRepo)
	auditRecorder.Register(eventBus)
	stopSweep := auditRecorder.StartSweepWorker(ctx)
	defer stopSweep()

	server := api.NewServer(balanceService, transferService, marketService, wagerService, auditRecorder)

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Listening on %s (%s mode)", cfg.ListenAddr, cfg.Environment)
		serverErr <- server.Listen(cfg.ListenAddr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	if err := server.Shutdown(); err != nil {
		log.WithError(err).Error("error shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}
