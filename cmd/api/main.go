package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinic-ledger-api/config"
	"github.com/jwalitptl/clinic-ledger-api/internal/handler"
	ledgerHandler "github.com/jwalitptl/clinic-ledger-api/internal/handler/ledger"
	patientHandler "github.com/jwalitptl/clinic-ledger-api/internal/handler/patient"
	"github.com/jwalitptl/clinic-ledger-api/internal/middleware"
	"github.com/jwalitptl/clinic-ledger-api/internal/repository/postgres"
	"github.com/jwalitptl/clinic-ledger-api/internal/router"
	ledgerService "github.com/jwalitptl/clinic-ledger-api/internal/service/ledger"
	patientService "github.com/jwalitptl/clinic-ledger-api/internal/service/patient"
	"github.com/jwalitptl/clinic-ledger-api/pkg/logger"
)

func main() {
	logger.Setup()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	patientRepo := postgres.NewPatientRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)

	// Initialize services
	patientSvc := patientService.NewService(patientRepo)
	ledgerSvc := ledgerService.NewService(ledgerRepo, patientRepo)

	// Initialize handlers
	h := handler.NewHandler(db)
	patientH := patientHandler.NewHandler(patientSvc)
	ledgerH := ledgerHandler.NewHandler(ledgerSvc)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Security.AllowedOrigins
	}

	rateLimit := rate.Limit(cfg.RateLimit.RequestsPerSecond)
	if !cfg.RateLimit.Enabled {
		rateLimit = rate.Inf
	}

	// Setup router
	r := router.NewRouter(patientH, ledgerH, h, router.Config{
		RateLimit:      rateLimit,
		RateBurst:      cfg.RateLimit.Burst,
		RequestTimeout: cfg.Server.RequestTimeout,
		CORSConfig:     corsConfig,
		MetricsPrefix:  cfg.Monitoring.MetricsPrefix,
	})
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
