// Package main seeds a campaign's bestiary from a directory of
// creature template YAML files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/torchlight-games/chronicler/internal/config"
	"github.com/torchlight-games/chronicler/internal/game/bestiary"
	"github.com/torchlight-games/chronicler/internal/game/dice"
	"github.com/torchlight-games/chronicler/internal/game/engine"
	"github.com/torchlight-games/chronicler/internal/observability"
	"github.com/torchlight-games/chronicler/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	campaignID := flag.String("campaign", "", "target campaign ID")
	sourceDir := flag.String("source", "content/bestiary", "path to bestiary YAML directory")
	flag.Parse()

	if *campaignID == "" {
		fmt.Fprintln(os.Stderr, "usage: import-content -campaign <id> [-source <dir>] [-config <path>]")
		os.Exit(1)
	}

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if cfg.Server.Storage != "postgres" {
		log.Fatalf("import-content requires server.storage=postgres, got %q", cfg.Server.Storage)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	templates, err := bestiary.LoadTemplates(*sourceDir)
	if err != nil {
		logger.Fatal("loading bestiary templates", zap.Error(err))
	}
	logger.Info("loaded bestiary templates", zap.Int("count", len(templates)))

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()

	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
	eng := engine.New(postgres.NewCampaigns(pool.DB()), roller, logger)

	start := time.Now()
	imported, skipped := 0, 0
	for _, tmpl := range templates {
		_, err := eng.CreateBestiaryEntry(ctx, engine.CreateBestiaryEntryParams{
			CampaignID:  *campaignID,
			Name:        tmpl.Name,
			ThreatLevel: tmpl.ThreatLevel,
			Health:      tmpl.Health,
			Weapons:     tmpl.Weapons,
		})
		switch {
		case errors.Is(err, engine.ErrDuplicateEntity):
			logger.Warn("skipping existing bestiary entry", zap.String("name", tmpl.Name))
			skipped++
		case err != nil:
			logger.Fatal("importing bestiary entry", zap.String("name", tmpl.Name), zap.Error(err))
		default:
			imported++
		}
	}

	fmt.Printf("imported %d entries (%d skipped) in %s\n",
		imported, skipped, time.Since(start).Round(time.Millisecond))
}
