// Package main is the entry point for the identifier allocation server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edumaster/internal/domain/enrollment"
	"edumaster/internal/domain/identity"
	v1 "edumaster/internal/infrastructure/http/v1"
	"edumaster/internal/infrastructure/storage/postgres"
	"edumaster/internal/infrastructure/storage/postgres/person_repo"
	"edumaster/pkg/logger"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	log.Infow("starting edumaster server",
		"allocator_mode", cfg.AllocatorMode,
		"sequence_width", cfg.Sequence.Width,
	)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.DBMaxConns
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Allocation ---
	repo := person_repo.NewRepo(txManager)
	counter, err := buildCounter(cfg.AllocatorMode, repo, txManager, cfg.Sequence)
	if err != nil {
		log.Fatalw("failed to build sequence counter", "error", err)
	}
	allocator := identity.NewAllocator(counter, cfg.Sequence)

	audit, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to create audit service", "error", err)
	}

	enrollService := enrollment.NewService(allocator, repo, audit, txManager, enrollment.Config{
		MaxAttempts: cfg.EnrollMaxAttempts,
	})

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		DB:            pool,
		Logger:        log,
		Allocator:     allocator,
		Enrollment:    enrollService,
		Audit:         audit,
		AllocatorMode: cfg.AllocatorMode,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	go reportPoolStats(ctx, pool, cfg.PoolStatsInterval)

	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func reportPoolStats(ctx context.Context, pool *postgres.Pool, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			postgres.LogPoolStats(ctx, pool)
		}
	}
}
