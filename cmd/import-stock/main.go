// Package main provides a content importer that mints curated crate stock
// to the vault holder on the PostgreSQL ledger and grants the engine
// operator its approval.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/lootcrate/internal/config"
	"github.com/cory-johannsen/lootcrate/internal/content"
	"github.com/cory-johannsen/lootcrate/internal/observability"
	"github.com/cory-johannsen/lootcrate/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	stockDepth := flag.Int64("stock-depth", 1, "units minted to the vault per curated item")
	approve := flag.Bool("approve", true, "grant the engine operator approval on the vault's stock")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	if *stockDepth < 1 {
		logger.Fatal("stock-depth must be >= 1", zap.Int64("stock_depth", *stockDepth))
	}

	loaded, err := content.Load(cfg.Content.Path)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()

	store := postgres.NewLedger(pool)

	minted := 0
	for class, items := range loaded.Stock {
		for _, id := range items {
			if err := store.Mint(ctx, cfg.Engine.Holder, id, nil, *stockDepth); err != nil {
				logger.Fatal("minting stock",
					zap.Stringer("class", class), zap.Stringer("item", id), zap.Error(err))
			}
			minted++
		}
	}

	if *approve {
		if err := store.SetApprovalForAll(ctx, cfg.Engine.Holder, cfg.Engine.Operator, true); err != nil {
			logger.Fatal("granting operator approval", zap.Error(err))
		}
	}

	logger.Info("stock imported",
		zap.String("holder", cfg.Engine.Holder),
		zap.Int("items", minted),
		zap.Int64("stock_depth", *stockDepth),
		zap.Bool("operator_approved", *approve),
		zap.Duration("elapsed", time.Since(start)),
	)
}
