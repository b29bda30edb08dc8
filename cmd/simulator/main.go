// Package main provides an offline draw-distribution simulator: it loads
// crate content, runs a number of open batches against an in-memory ledger,
// and reports the observed rarity-class frequencies.
package main

import (
	"context"
	"flag"
	"log"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/lootcrate/internal/config"
	"github.com/cory-johannsen/lootcrate/internal/content"
	"github.com/cory-johannsen/lootcrate/internal/crate"
	"github.com/cory-johannsen/lootcrate/internal/crate/access"
	"github.com/cory-johannsen/lootcrate/internal/crate/engine"
	"github.com/cory-johannsen/lootcrate/internal/crate/ledger"
	"github.com/cory-johannsen/lootcrate/internal/crate/odds"
	"github.com/cory-johannsen/lootcrate/internal/crate/rng"
	"github.com/cory-johannsen/lootcrate/internal/crate/stock"
	"github.com/cory-johannsen/lootcrate/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	tierName := flag.String("tier", "standard", "crate tier to open")
	batches := flag.Int("batches", 1000, "number of open batches to run")
	quantity := flag.Int("quantity", 10, "units per batch")
	stockDepth := flag.Int64("stock-depth", 0, "vault balance credited per curated item (0 = uncurated run)")
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

	tier, err := crate.ParseTier(*tierName)
	if err != nil {
		logger.Fatal("parsing tier", zap.Error(err))
	}

	loaded, err := content.Load(cfg.Content.Path)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}

	gate, err := access.NewStaticGate(cfg.Engine.Admins...)
	if err != nil {
		logger.Fatal("creating gate", zap.Error(err))
	}
	admin := cfg.Engine.Admins[0]

	var seed *big.Int
	if cfg.Engine.Seed != "" {
		seed, _ = new(big.Int).SetString(cfg.Engine.Seed, 10)
	}
	source := rng.NewChainSource(rng.NewCryptoEntropy(), seed)

	mem := ledger.NewMemory()
	mem.SetApprovalForAll(cfg.Engine.Holder, cfg.Engine.Operator, true)

	eng, err := engine.New(
		engine.Config{
			Holder:      cfg.Engine.Holder,
			Operator:    cfg.Engine.Operator,
			LocatorBase: cfg.Engine.LocatorBase,
		},
		engine.Deps{
			Odds:      odds.NewRegistry(),
			Stock:     stock.NewRegistry(),
			Templates: stock.NewTemplateRegistry(),
			Source:    source,
			Ledger:    mem,
			Gate:      gate,
			Events:    engine.LogEvents{Logger: logger.Named("events")},
			Logger:    logger.Named("engine"),
		},
	)
	if err != nil {
		logger.Fatal("creating engine", zap.Error(err))
	}

	if err := loaded.Install(eng, admin); err != nil {
		logger.Fatal("installing content", zap.Error(err))
	}

	// Classify every known item so journal entries can be tallied by class.
	itemClass := make(map[crate.ItemID]crate.Class)
	for class, items := range loaded.Stock {
		for _, id := range items {
			itemClass[id] = class
		}
		if *stockDepth > 0 {
			for _, id := range items {
				mem.Credit(cfg.Engine.Holder, id, *stockDepth)
			}
		}
	}
	for class, templates := range loaded.Templates {
		for _, tmpl := range templates {
			itemClass[tmpl.ID] = class
		}
	}

	logger.Info("simulation starting",
		zap.Stringer("tier", tier),
		zap.String("locator", eng.Locator(tier)),
		zap.Int("batches", *batches),
		zap.Int("quantity", *quantity),
	)

	ctx := context.Background()
	opened := 0
	for i := 0; i < *batches; i++ {
		if _, err := eng.Open(ctx, admin, tier, "simulated-recipient", *quantity); err != nil {
			logger.Fatal("open batch failed", zap.Int("batch", i), zap.Error(err))
		}
		opened += *quantity
	}

	var counts [crate.ClassCount]int
	mints, transfers := 0, 0
	for _, op := range mem.Journal() {
		if op.Kind == ledger.OpMint {
			mints++
		} else {
			transfers++
		}
		counts[itemClass[op.Item]]++
	}

	table := eng.Table(tier)
	for class := 0; class < crate.ClassCount; class++ {
		expected := float64(table[class]) / odds.Scale
		observed := float64(counts[class]) / float64(opened)
		logger.Info("class frequency",
			zap.Stringer("class", crate.Class(class)),
			zap.Float64("expected", expected),
			zap.Float64("observed", observed),
			zap.Int("count", counts[class]),
		)
	}

	logger.Info("simulation complete",
		zap.Int("units", opened),
		zap.Int("mints", mints),
		zap.Int("transfers", transfers),
		zap.Duration("elapsed", time.Since(start)),
	)
}
