// README: Entry point; loads config, wires stores and services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"loadapp/internal/ai"
	"loadapp/internal/config"
	httptransport "loadapp/internal/http"
	"loadapp/internal/infra"
	"loadapp/internal/maps"
	"loadapp/internal/modules/costcalc"
	"loadapp/internal/modules/costsetting"
	"loadapp/internal/modules/offer"
	"loadapp/internal/modules/route"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores: Postgres by default, in-process when DSN is "memory".
	var settingStore costsetting.Registry
	var routeStore route.Repository
	var offerStore offer.Repository
	if cfg.DB.DSN == "memory" {
		logger.Info("using in-memory stores")
		settingStore = costsetting.NewMemoryStore()
		routeStore = route.NewMemoryStore()
		offerStore = offer.NewMemoryStore()
	} else {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			logger.Fatal("db init failed", zap.Error(err))
		}
		defer dbPool.Close()
		settingStore = costsetting.NewStore(dbPool)
		routeStore = route.NewStore(dbPool)
		offerStore = offer.NewStore(dbPool)
	}

	var cache *costcalc.Cache
	if cfg.Redis.Addr != "" {
		cache = costcalc.NewCache(infra.NewRedis(cfg.Redis.Addr))
	} else {
		cache = costcalc.NewCache(nil)
	}

	var estimator route.Estimator
	if cfg.Maps.APIKey != "" {
		estimator, err = maps.NewGoogleEstimator(cfg.Maps.APIKey)
		if err != nil {
			logger.Fatal("maps init failed", zap.Error(err))
		}
	} else {
		logger.Info("no maps API key, using offline estimator")
		estimator = maps.NewStaticEstimator()
	}

	var generator ai.Generator
	if cfg.AI.GeminiKey != "" {
		gemini, err := ai.NewGeminiGenerator(ctx, cfg.AI.GeminiKey)
		if err != nil {
			logger.Fatal("gemini init failed", zap.Error(err))
		}
		defer gemini.Close()
		generator = gemini
	} else {
		logger.Info("no Gemini API key, using heuristic insight generator")
		generator = ai.NewHeuristicGenerator()
	}

	settingSvc := costsetting.NewService(settingStore, cfg.Pricing.DefaultCurrency, logger)
	// Seed the registry on first boot so a fresh install can quote.
	if settings, err := settingSvc.ListSettings(ctx, costsetting.Filter{}); err == nil && len(settings) == 0 {
		if _, err := settingSvc.ResetToDefaults(ctx); err != nil {
			logger.Warn("failed to seed default cost settings", zap.Error(err))
		}
	}

	routeSvc := route.NewService(routeStore, estimator, cfg.Pricing.EmptyDrivingBaseCost, logger)
	engine := costcalc.NewEngine(cfg.Pricing.DefaultCurrency, cfg.Pricing.EmptyDrivingBaseCost, generator)
	costSvc := costcalc.NewService(engine, settingSvc, routeSvc, cache, logger)
	offerSvc := offer.NewService(offerStore, cfg.Pricing, generator, logger)

	router := httptransport.NewRouter(httptransport.Deps{
		Settings: settingSvc,
		Routes:   routeSvc,
		Costs:    costSvc,
		Offers:   offerSvc,
		Logger:   logger,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("server listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server failed", zap.Error(err))
	}
}
