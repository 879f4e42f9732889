package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mookkammal/storefront/internal/advisor"
	"github.com/mookkammal/storefront/internal/api"
	"github.com/mookkammal/storefront/internal/auth"
	"github.com/mookkammal/storefront/internal/command"
	"github.com/mookkammal/storefront/internal/logger"
	"github.com/mookkammal/storefront/internal/metrics"
	"github.com/mookkammal/storefront/internal/models"
	"github.com/mookkammal/storefront/internal/persist"
	"github.com/mookkammal/storefront/internal/seed"
	"github.com/mookkammal/storefront/internal/storage"
	"github.com/mookkammal/storefront/internal/store"
	"github.com/mookkammal/storefront/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	logger.Initialize(cfg.AppEnv)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry metrics
	appMetrics := metrics.NewNoop(cfg.OTELServiceName)
	if cfg.MetricsEnabled {
		m, meterProvider, err := metrics.InitMetrics(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize metrics: %v", err)
		}
		appMetrics = m
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := meterProvider.Shutdown(shutdownCtx); err != nil {
				logger.Error(shutdownCtx, "Error shutting down meter provider", err)
			}
		}()
	}

	// Initialize storage
	kv, err := storage.Open(ctx, cfg, appMetrics)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer kv.Close()

	// Restore state
	defaultVertical, err := models.ParseVertical(cfg.DefaultVertical)
	if err != nil {
		logger.Warn(ctx, "Invalid DEFAULT_VERTICAL, using TEXTILES", zap.String("value", cfg.DefaultVertical))
		defaultVertical = models.VerticalTextiles
	}
	keys := persist.NewKeys(cfg.StorageKeyPrefix)
	snapshot, err := persist.Load(ctx, kv, keys, persist.Defaults{Vertical: defaultVertical, Products: seed.Products})
	if err != nil {
		log.Fatalf("Failed to load saved state: %v", err)
	}

	cartScope, err := store.ParseCartScope(cfg.CartScope)
	if err != nil {
		logger.Warn(ctx, "Invalid CART_SCOPE, using active", zap.String("value", cfg.CartScope))
		cartScope = store.ScopeActive
	}
	state := store.New(snapshot, store.Options{
		CartScope:   cartScope,
		ReportNoOps: cfg.ReportNoOps,
	})
	persister := persist.NewPersister(kv, keys, appMetrics)
	state.Subscribe(persister.Listen)

	// Initialize assistant
	var gen advisor.Generator
	if cfg.GeminiAPIKey != "" {
		g, err := advisor.NewGeminiGenerator(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn(ctx, "Assistant disabled", zap.Error(err))
		} else {
			gen = g
		}
	} else {
		logger.Info(ctx, "GEMINI_API_KEY not set, assistant answers with fallbacks")
	}
	adv := advisor.New(gen, advisor.Config{
		FastModel:     cfg.AdvisorFastModel,
		ProModel:      cfg.AdvisorProModel,
		Timeout:       cfg.AdvisorTimeout,
		RatePerMinute: cfg.AdvisorRatePerMinute,
		TipTTL:        cfg.AdvisorTipCacheTTL,
	}, appMetrics)

	// Initialize app
	app := api.NewApp(cfg, state, appMetrics, auth.MockAuthenticator{}, adv)
	app.SetupRoutes(command.NewRouter())

	logger.Info(ctx, "Storefront starting",
		zap.String("vertical", string(state.Vertical())),
		zap.String("storage", cfg.StorageDriver),
		zap.Int("products", len(state.Products())),
	)

	done := make(chan error, 1)
	go func() {
		done <- app.Serve(ctx, os.Stdin, os.Stdout)
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Error(ctx, "Console stopped", err)
		}
	case <-ctx.Done():
		logger.Info(context.Background(), "Shutting down...")
	}
}
