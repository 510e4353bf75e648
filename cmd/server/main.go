// Package main is the entry point for the SalesTrack API server.
//
// @title                       SalesTrack API
// @version                     1.0
// @description                 Sales ledger, dashboard metrics and chart data behind versioned session tokens.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/salestrack/salestrack-api/internal/api"
	"github.com/salestrack/salestrack-api/internal/core/analytics"
	"github.com/salestrack/salestrack-api/internal/core/service"
	"github.com/salestrack/salestrack-api/internal/infrastructure/config"
	mongodb "github.com/salestrack/salestrack-api/internal/infrastructure/db/mongo"
	redisdb "github.com/salestrack/salestrack-api/internal/infrastructure/db/redis"
	"github.com/salestrack/salestrack-api/internal/infrastructure/http/handlers"
	"github.com/salestrack/salestrack-api/pkg/logger"
)

const serviceName = "salestrack-api"

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: serviceName})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting SalesTrack API")

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Error().Err(err).Msg("failed to disconnect MongoDB")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer rdb.Close()

	saleRepo := mongodb.NewSaleRepository(db)
	userRepo := mongodb.NewAuthRepository(db)
	if err := mongodb.EnsureIndexes(ctx, saleRepo, userRepo); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}
	versionedUsers := redisdb.NewTokenVersionCache(userRepo, rdb, cfg.Redis.TokenCacheTTL, log)

	// --- Services ---
	authService := service.NewAuthService(versionedUsers, cfg.JWTSecret, cfg.TokenTTL, log)
	saleService := service.NewSaleService(saleRepo, log)
	analyticsService := service.NewAnalyticsService(saleRepo, analytics.SystemClock{}, log)

	e := api.NewRouter(api.Deps{
		Auth:      authService,
		Sales:     saleService,
		Analytics: analyticsService,
		Ready:     []handlers.Dependency{handlers.MongoDependency(db), handlers.RedisDependency(rdb)},
		Log:       log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("address", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server exited properly")
}
