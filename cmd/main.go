package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mobibot/config"
	"mobibot/pkg/bot"
	"mobibot/pkg/logger"
	"mobibot/pkg/observe"
	"mobibot/pkg/wa"
	"mobibot/service"
	"mobibot/storage/postgres"
	redisstore "mobibot/storage/redis"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName)

	ctx := context.Background()

	pgStore, err := postgres.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pgStore.Close()

	cache, err := redisstore.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to redis", logger.Error(err))
		os.Exit(1)
	}
	defer cache.Close()

	sender := wa.NewClient(cfg.WhatsAppAPIBase, cfg.WhatsAppPhoneID, cfg.WhatsAppToken, log)
	recorder := observe.NewRecorder(log)
	services := service.New(pgStore, cfg, recorder, log)

	b, err := bot.New(cfg, pgStore, services, sender, cache.State(), cache.Location(), recorder, log)
	if err != nil {
		log.Error("failed to initialize bot", logger.Error(err))
		os.Exit(1)
	}

	// Background sweep marking past-TTL trips expired.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go expiryLoop(sweepCtx, services, log)

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	router.HandleFunc("/webhook", webhookHandler(b, log)).Methods(http.MethodPost)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("server starting", logger.Int("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", logger.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", logger.Error(err))
	}
	b.Drain()
}

// webhookHandler parses inbound WhatsApp events and feeds them to the bot.
// The endpoint always answers 200 once the payload parsed; retries from the
// platform are handled by the flows being idempotent at the state level.
func webhookHandler(b *bot.Bot, log logger.ILogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := wa.ParseWebhook(r.Body)
		if err != nil {
			log.Warning("unparseable webhook payload", logger.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		for _, ev := range events {
			if err := b.HandleEvent(r.Context(), ev); err != nil {
				log.Error("event handling failed", logger.Error(err))
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}

func expiryLoop(ctx context.Context, services service.IServiceManager, log logger.ILogger) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := services.Trip().ExpireStale(ctx, now)
			if err != nil {
				log.Error("trip expiry sweep failed", logger.Error(err))
				continue
			}
			if n > 0 {
				log.Info("expired stale trips", logger.Int64("count", n))
			}
		}
	}
}
