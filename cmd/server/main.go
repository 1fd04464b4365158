// Package main provides the chronicler binary: an MCP server over
// stdio that manages campaign state and resolves combat.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/torchlight-games/chronicler/internal/config"
	"github.com/torchlight-games/chronicler/internal/game/dice"
	"github.com/torchlight-games/chronicler/internal/game/engine"
	"github.com/torchlight-games/chronicler/internal/mcpserver"
	"github.com/torchlight-games/chronicler/internal/observability"
	"github.com/torchlight-games/chronicler/internal/server"
	"github.com/torchlight-games/chronicler/internal/storage"
	"github.com/torchlight-games/chronicler/internal/storage/memory"
	"github.com/torchlight-games/chronicler/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	lifecycle := server.NewLifecycle(logger)

	var campaigns storage.Campaigns
	switch cfg.Server.Storage {
	case "postgres":
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		campaigns = postgres.NewCampaigns(pool.DB())

		lifecycle.Add("postgres", &server.FuncService{
			StartFn: func(ctx context.Context) error {
				ticker := time.NewTicker(30 * time.Second)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return nil
					case <-ticker.C:
						if err := pool.Health(ctx, 5*time.Second); err != nil {
							logger.Warn("database health check failed", zap.Error(err))
						}
					}
				}
			},
			StopFn: func() {
				pool.Close()
			},
		})
	case "memory":
		campaigns = memory.NewCampaigns()
		logger.Info("using in-memory campaign store")
	default:
		logger.Fatal("unknown storage backend", zap.String("storage", cfg.Server.Storage))
	}

	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
	eng := engine.New(campaigns, roller, logger)
	srv := mcpserver.New(cfg.Server.Name, eng, logger)

	lifecycle.Add("mcp", &server.FuncService{
		StartFn: func(ctx context.Context) error {
			err := srv.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
		StopFn: func() {},
	})

	logger.Info("chronicler initialized",
		zap.String("server", cfg.Server.Name),
		zap.String("storage", cfg.Server.Storage),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
