package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openhire/applicant-tracking-service/internal/config"
	"github.com/openhire/applicant-tracking-service/internal/handler"
	"github.com/openhire/applicant-tracking-service/internal/logger"
	"github.com/openhire/applicant-tracking-service/internal/mail"
	"github.com/openhire/applicant-tracking-service/internal/outbox"
	"github.com/openhire/applicant-tracking-service/internal/repository"
	"github.com/openhire/applicant-tracking-service/internal/repository/postgres"
	"github.com/openhire/applicant-tracking-service/internal/service"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("config loading failed: %v", err)
	}

	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("logger initialization failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, err := repository.New(ctx, cfg, &appLogger)
	if err != nil {
		log.Fatalf("postgres connection failed: %v", err)
	}
	defer repo.Close()

	pool := repo.Pool()
	candidateRepo := postgres.NewCandidateRepository(pool)
	jobRepo := postgres.NewJobRepository(pool)
	applicationRepo := postgres.NewApplicationRepository(pool)
	emailRepo := postgres.NewEmailRepository(pool)
	txManager := postgres.NewTxManager(pool)

	sender := mail.NewLogSender(appLogger)
	emailSvc := service.NewEmailService(emailRepo, candidateRepo, sender, appLogger)
	candidateSvc := service.NewCandidateService(candidateRepo, applicationRepo, appLogger)
	jobSvc := service.NewJobService(jobRepo, appLogger)
	applicationSvc := service.NewApplicationService(applicationRepo, candidateRepo, jobRepo, emailSvc, txManager, appLogger)

	// Outbox delivery runs beside the API for the whole process lifetime.
	worker := outbox.NewWorker(
		emailSvc,
		time.Duration(cfg.Outbox.PollEverySeconds)*time.Second,
		cfg.Outbox.BatchSize,
		appLogger,
	)
	go worker.Run(ctx)

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	handler.Register(r, postgres.NewPinger(pool), candidateSvc, jobSvc, applicationSvc, emailSvc)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info().Int("port", cfg.App.Port).Msg("API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	// Stop the worker first, then drain in-flight requests.
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	appLogger.Info().Msg("server stopped")
}
