package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/config"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/infra"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/repository"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/router"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/service"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	// Redis is optional: without it there is no cache and no export queue
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		if rdb, err = infra.NewRedis(cfg.RedisURL); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, cache and export queue disabled")
			rdb = nil
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache := infra.NewCache(rdb, "preorder:")
	eventos := infra.NewEventPublisher(cfg.Brokers(), cfg.KafkaTopic)
	defer eventos.Close()

	smtpCB := infra.NewCircuitBreaker(infra.DefaultConfigCB("smtp"))
	mailer := infra.NewMailer(cfg)
	if !mailer.Configurado() {
		log.Warn().Msg("SMTP_HOST not set, export emails will fail")
	}

	// Async export jobs. Handlers are wired here (composition root) so the
	// pool has access to every infrastructure dependency.
	deps := router.Deps{DB: db, Redis: rdb, Cache: cache, Eventos: eventos, SMTPBreaker: smtpCB}
	var pool *worker.Pool
	if rdb != nil {
		dispatcher := worker.NewDispatcher(rdb)
		deps.Cola = dispatcher

		reportes := service.NewReporteService(repository.NewPedidoRepository(db), cache, cfg.ReportCacheTTL, nil)
		exportWorker := worker.NewExportEmailWorker(reportes, mailer, smtpCB)

		pool = worker.NewPool(rdb)
		pool.Registrar(worker.QueueExportEmail, worker.JobExportEmail, exportWorker.Process)
		pool.Start(ctx, cfg.WorkerPoolSize)
		worker.StartRetryCron(ctx, worker.RetryCronConfig{RDB: rdb, CB: smtpCB})
	}

	r := router.New(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("preorder backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	cancel()
	if pool != nil {
		pool.Wait()
	}
	log.Info().Msg("server exited")
}
