package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mensahub/backend/config"
	httpDelivery "github.com/mensahub/backend/internal/delivery/http"
	"github.com/mensahub/backend/internal/infrastructure/cache"
	"github.com/mensahub/backend/internal/infrastructure/feed"
	"github.com/mensahub/backend/internal/infrastructure/postgres"
	"github.com/mensahub/backend/internal/infrastructure/scorer"
	"github.com/mensahub/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting MensaHub Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Feed source: %s", cfg.Feed.SourceURL)

	// Connect to the catalog database
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to reach database: %v", err)
	}
	log.Printf("Database connection established")

	// Initialize infrastructure dependencies
	store := postgres.New(pool)
	fetcher := feed.NewFetcher(cfg.Feed.SourceURL, cfg.Feed.FetchTimeout)
	parser := feed.NewParser()
	snapshots := cache.NewSnapshotCache()

	scoringClient := scorer.NewClient(cfg.Scorer.APIKey, cfg.Scorer.BaseURL, cfg.Scorer.Model)
	if cfg.Scorer.APIKey != "" {
		log.Printf("Scoring API configured: %s (model: %s)", cfg.Scorer.BaseURL, cfg.Scorer.Model)
	} else {
		log.Printf("WARNING: Scoring API key not configured - meals will stay unscored")
	}

	// Initialize usecase layer
	refreshService := usecase.NewRefreshService(fetcher, parser, store, snapshots)
	enrichmentService := usecase.NewEnrichmentService(store, scoringClient)

	// Populate the snapshot before serving traffic; a failed first cycle
	// is logged and retried by the scheduler.
	runRefresh(ctx, refreshService, enrichmentService)

	go scheduleDailyRefresh(ctx, cfg.Feed.RefreshHour, refreshService, enrichmentService)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(snapshots, refreshService, enrichmentService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// runRefresh runs one refresh cycle and, when it succeeds, a scoring pass
// over whatever the cycle left unscored.
func runRefresh(ctx context.Context, refresher *usecase.RefreshService, enricher *usecase.EnrichmentService) {
	outcome, err := refresher.TriggerRefresh(ctx)
	if err != nil {
		log.Printf("[Main] Refresh skipped: %v", err)
		return
	}
	if !outcome.Success {
		log.Printf("[Main] Refresh cycle failed: %s", outcome.Detail)
		return
	}

	log.Printf("[Main] Refresh complete: %d new meals, %d occurrences in %s",
		outcome.MealsCreated, outcome.OccurrencesWritten, outcome.Duration)

	go func() {
		report, err := enricher.EnrichPending(ctx)
		if err != nil {
			log.Printf("[Main] Enrichment pass aborted: %v", err)
			return
		}
		if report.Attempted > 0 {
			log.Printf("[Main] Enrichment pass: %d attempted, %d succeeded, %d failed",
				report.Attempted, report.Succeeded, report.Failed)
		}
	}()
}

// scheduleDailyRefresh fires a refresh cycle once a day at the configured
// local hour.
func scheduleDailyRefresh(ctx context.Context, hour int, refresher *usecase.RefreshService, enricher *usecase.EnrichmentService) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}

		log.Printf("[Main] Next scheduled refresh at %s", next.Format(time.RFC1123))

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
			runRefresh(ctx, refresher, enricher)
		}
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
