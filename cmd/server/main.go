// Package main is the entry point for the bolao pool server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"bolao-pool/internal/config"
	"bolao-pool/internal/handler"
	"bolao-pool/internal/pkg/db"
	"bolao-pool/internal/pkg/lock"
	"bolao-pool/internal/repository"
	"bolao-pool/internal/server"
	"bolao-pool/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbPool.Pool)
	ticketRepo := repository.NewTicketRepository(dbPool.Pool)
	drawRepo := repository.NewDrawRepository(dbPool.Pool)
	historyRepo := repository.NewHistoryRepository(dbPool.Pool)

	rules := cfg.Lottery.Rules()
	accountLock := lock.NewAccountLock()

	// Initialize services
	purchaseService := service.NewPurchaseService(
		dbPool.Pool,
		userRepo,
		ticketRepo,
		drawRepo,
		rules,
		accountLock,
		cfg.Purchase.MaxAttempts,
		cfg.Purchase.RetryBackoff,
		cfg.Purchase.LockTimeout,
	)
	saleService := service.NewSaleService(userRepo, ticketRepo, drawRepo, rules)
	rankingService := service.NewRankingService(ticketRepo, drawRepo, rules)
	drawService := service.NewDrawService(drawRepo, rules)
	accountService := service.NewAccountService(userRepo)
	cycleService := service.NewCycleService(
		dbPool.Pool,
		userRepo,
		ticketRepo,
		drawRepo,
		historyRepo,
		cfg.Lottery.TicketPrice,
		service.Commissions{
			SellerPercent:           cfg.Commission.SellerPercent,
			OwnerPercent:            cfg.Commission.OwnerPercent,
			ClientSalesOwnerPercent: cfg.Commission.ClientSalesOwnerPercent,
		},
	)

	// Initialize handlers and router
	srv := server.New(
		cfg.Server.AdminToken,
		dbPool,
		handler.NewPurchaseHandler(purchaseService, cfg.Lottery.TicketPrice),
		handler.NewSaleHandler(saleService),
		handler.NewRankingHandler(rankingService, cfg.Lottery.PublicTopN),
		handler.NewDrawHandler(drawService),
		handler.NewAdminHandler(accountService, cycleService),
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Server is starting...")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	log.Info().Msg("Server stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create users table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username VARCHAR(255) NOT NULL UNIQUE,
			role VARCHAR(20) NOT NULL,
			balance BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: users table created")

	// Migration 2: Create tickets table
	// A ticket belongs to either a buyer account or a reseller, never both.
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tickets (
			id TEXT PRIMARY KEY,
			numbers BIGINT[] NOT NULL,
			status VARCHAR(30) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			buyer_name VARCHAR(255) NOT NULL DEFAULT '',
			buyer_phone VARCHAR(50) NOT NULL DEFAULT '',
			buyer_id TEXT REFERENCES users(id),
			seller_id TEXT REFERENCES users(id),
			seller_username VARCHAR(255) NOT NULL DEFAULT '',
			CHECK ((buyer_id IS NULL) <> (seller_id IS NULL))
		);
		CREATE INDEX IF NOT EXISTS idx_tickets_buyer ON tickets(buyer_id);
		CREATE INDEX IF NOT EXISTS idx_tickets_seller ON tickets(seller_id);
		CREATE INDEX IF NOT EXISTS idx_tickets_created ON tickets(created_at);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: tickets table created")

	// Migration 3: Create draws table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS draws (
			id TEXT PRIMARY KEY,
			name VARCHAR(255) NOT NULL DEFAULT '',
			numbers BIGINT[] NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_draws_created ON draws(created_at);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: draws table created")

	// Migration 4: Create seller_history table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS seller_history (
			id BIGSERIAL PRIMARY KEY,
			seller_id TEXT NOT NULL REFERENCES users(id),
			seller_username VARCHAR(255) NOT NULL,
			start_date TIMESTAMPTZ NOT NULL,
			end_date TIMESTAMPTZ NOT NULL,
			sales_count INT NOT NULL,
			gross BIGINT NOT NULL,
			seller_commission BIGINT NOT NULL,
			owner_commission BIGINT NOT NULL,
			UNIQUE (seller_id, end_date)
		);
		CREATE INDEX IF NOT EXISTS idx_seller_history_seller ON seller_history(seller_id, end_date DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 4: seller_history table created")

	// Migration 5: Create purchase_requests table for idempotency keys
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS purchase_requests (
			request_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 5: purchase_requests table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
