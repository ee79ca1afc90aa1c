package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jdgomezv/delivery-dispatch/internal/config"
	"github.com/jdgomezv/delivery-dispatch/internal/dispatch"
	"github.com/jdgomezv/delivery-dispatch/internal/logger"
	"github.com/jdgomezv/delivery-dispatch/internal/presentation"
	"github.com/jdgomezv/delivery-dispatch/internal/rest"
)

func main() {
	logger.Init()
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warn("config load failed", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := dispatch.NewClient(dispatch.Config{
		Brokers:           cfg.KAFKA_BROKERS,
		OrdersTopic:       cfg.ORDERS_TOPIC,
		ErrorsQueuePrefix: cfg.ERRORS_QUEUE_PREFIX,
		CommandsTopic:     cfg.COMMANDS_TOPIC,
		DealerID:          cfg.DEALER_ID,
		Reconnect:         cfg.RECONNECT_INTERVAL,
		LockTTL:           cfg.LOCK_TTL,
	})

	// Seed the queue from the platform API before the stream starts, so the
	// broadcast only has to deliver deltas.
	if cfg.SEED_URL != "" {
		seed, err := rest.FetchActiveOrders(ctx, cfg.SEED_URL, cfg.DEALER_ID, cfg.AUTH_TOKEN)
		if err != nil {
			logger.Warn("seed fetch failed, starting empty", "err", err)
		} else {
			client.Seed(seed)
		}
	}

	client.Connect(ctx)
	defer client.Disconnect()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	h := presentation.NewDispatchHandler(client)
	h.Register(r)

	addr := ":" + cfg.HTTP_PORT
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	logger.Info("starting http", "addr", addr, "dealer", cfg.DEALER_ID)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Warn("http server crashed", "err", err)
		os.Exit(1)
	}
}
