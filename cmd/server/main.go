package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"foodrec/internal/brands"
	"foodrec/internal/catalog"
	"foodrec/internal/catalog/openfoodfacts"
	"foodrec/internal/config"
	"foodrec/internal/handler"
	"foodrec/internal/matcher"
	"foodrec/internal/normalizer"
	"foodrec/internal/router"
	"foodrec/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Best-effort: a missing .env is fine, env vars win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	vocab := brands.Empty()
	if cfg.Brands.VocabFile != "" {
		vocab, err = brands.LoadFile(cfg.Brands.VocabFile)
		if err != nil {
			return fmt.Errorf("failed to load brand vocabulary: %w", err)
		}
		log.Printf("loaded brand vocabulary: %d terms from %s", vocab.Len(), cfg.Brands.VocabFile)
	}

	// Candidate provider with the engine's retry/timeout policy
	client := openfoodfacts.NewClient(&cfg.Catalog)
	provider := catalog.NewRetryingProvider(client, cfg.Catalog)

	// Fail fast when the catalog endpoint is unreachable
	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := provider.Ping(pingCtx); err != nil {
		return fmt.Errorf("catalog endpoint unreachable at startup: %w", err)
	}

	// Engine
	norm := normalizer.NewWithPunctuation(vocab, cfg.Normalizer.KeepPunctuation)
	scorer := matcher.NewScorer(cfg.Matching)
	selector := matcher.NewSelector(cfg.Matching)
	reconcileSvc := service.NewReconcileService(norm, provider, scorer, selector, cfg.Batch, cfg.Catalog.FetchLimit)

	exports := service.NewExportStore()
	batchSvc := service.NewBatchService(reconcileSvc, exports, cfg.Batch)

	// Handlers
	reconcileH := handler.NewReconcileHandler(reconcileSvc)
	batchH := handler.NewBatchHandler(batchSvc, exports)
	healthH := handler.NewHealthHandler(provider)

	// Setup router
	r := router.Setup(cfg, reconcileH, batchH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
