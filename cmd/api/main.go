package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chargesync/internal/config"
	"chargesync/internal/core/reconcile"
	httpx "chargesync/internal/http"
	"chargesync/internal/provider/coinbase"
	"chargesync/internal/services/replay"
	"chargesync/internal/store/postgres"
	redisx "chargesync/internal/store/redis"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init DB
	pool := postgres.MustOpen(ctx, cfg.DB.DSN)
	defer pool.Close()
	payments := postgres.NewPaymentRepository(pool)
	events := postgres.NewEventRepository(pool)

	// Redis-backed dedup (optional; nil degrades to no fast path)
	dedup := redisx.NewDedupCache(cfg.Redis.Addr, 24*time.Hour)
	defer dedup.Close()

	// Provider client and reconciliation engine
	client := coinbase.NewClient(cfg.Provider)
	engine := reconcile.NewEngine(payments, client, time.Duration(cfg.Provider.TimeoutSeconds)*time.Second)

	// Replay worker for operator-requeued events
	replaySvc := replay.NewService(events)
	worker := replay.NewWorker(events, engine, dedup, 0, 0)
	go worker.Run(ctx)

	r := httpx.NewRouter(httpx.RouterDependencies{
		Config:        cfg,
		Engine:        engine,
		ChargeClient:  client,
		Payments:      payments,
		Events:        events,
		ReplayService: replaySvc,
		Dedup:         dedup,
		Capabilities:  postgres.NewUnsupportedCapabilities(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Msgf("chargesync API listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}
