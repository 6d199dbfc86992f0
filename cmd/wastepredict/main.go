// Command wastepredict serves the WastePredict API.
//
// The service generates a synthetic monthly municipal waste history,
// summarizes it, runs simulated training of three pseudo-models, and answers
// prediction requests. State lives in memory; only the theme preference is
// persisted (memory or redis).
//
// The HTTP API listens on port 8080 (configurable); see package router for
// the route table. An optional gRPC listener exposes the standard health and
// reflection services.
//
// Usage:
//
//	wastepredict \
//	  -listen=:8080 \
//	  -grpc-listen=:9090 \
//	  -storage=redis -redis-addr=redis:6379 \
//	  -seed=42 -profile=davao.yaml
//
// Environment variables:
//
//	LISTEN         - HTTP listen address (default: :8080)
//	GRPC_LISTEN    - gRPC health listen address (default: disabled)
//	STORAGE        - Preference storage: memory or redis (default: memory)
//	REDIS_ADDR     - Redis server address
//	START_YEAR     - First generated year (default: 2013)
//	MONTHS         - Generated months (default: 144)
//	SEED           - Random seed (default: 0, nondeterministic)
//	PROFILE        - YAML generator profile
//	TRAIN_DELAY    - Simulated training duration (default: 1.5s)
//	LOG_LEVEL      - Logging level: debug, info, warn, error (default: info)
//	LOG_FORMAT     - Logging format: text, json (default: text)
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/HatiCode/wastepredict/cmd/wastepredict/app"
	"github.com/HatiCode/wastepredict/cmd/wastepredict/config"
	"github.com/HatiCode/wastepredict/cmd/wastepredict/logger"
	"github.com/HatiCode/wastepredict/cmd/wastepredict/metrics"
	"github.com/HatiCode/wastepredict/cmd/wastepredict/router"
	"github.com/HatiCode/wastepredict/pkg/dataset"
	"github.com/HatiCode/wastepredict/pkg/grpcx"
	"github.com/HatiCode/wastepredict/pkg/httpx"
	"github.com/HatiCode/wastepredict/pkg/storage"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	cfg := config.ParseFlags()

	log := logger.New(cfg)
	slog.SetDefault(log)

	log.Info("starting wastepredict",
		"version", version,
		"storage", cfg.Storage,
		"start_year", cfg.StartYear,
		"months", cfg.Months,
	)

	profile := dataset.DefaultProfile()
	if cfg.Profile != "" {
		p, err := dataset.LoadProfile(cfg.Profile)
		if err != nil {
			log.Error("failed to load profile", "path", cfg.Profile, "error", err)
			os.Exit(1)
		}
		profile = p
	}

	store, health, closeStore, err := newStore(cfg)
	if err != nil {
		log.Error("failed to create storage", "storage", cfg.Storage, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	tlsConfig, err := cfg.TLS.ServerConfig()
	if err != nil {
		log.Error("failed to load TLS configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, app.Options{
		Profile:      profile,
		StartYear:    cfg.StartYear,
		Months:       cfg.Months,
		Seed:         cfg.Seed,
		TrainDelay:   cfg.TrainDelay,
		TrainStagger: cfg.TrainStagger,
	}, store, metrics.New(prometheus.DefaultRegisterer), log)
	if err != nil {
		log.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	handler := router.SetupRoutes(a, router.Options{
		DefaultView: cfg.View,
		Gatherer:    prometheus.DefaultGatherer,
		Health:      health,
	}, log)
	httpServer := httpx.NewServer(cfg.Listen, handler, log)

	serverErr := make(chan error, 2)
	go func() {
		if tlsConfig != nil {
			httpServer.SetTLSConfig(tlsConfig)
			serverErr <- httpServer.StartTLS()
			return
		}
		serverErr <- httpServer.Start()
	}()

	var grpcServer *grpcx.Server
	if cfg.GRPCListen != "" {
		grpcServer = grpcx.NewServer(tlsConfig, log)
		if health != nil {
			go grpcServer.Watch(ctx, 10*time.Second, health)
		}
		go func() {
			if err := grpcServer.ListenAndServe(cfg.GRPCListen); err != nil {
				serverErr <- err
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig)
	case err := <-serverErr:
		if err != nil {
			log.Error("server failed", "error", err)
		}
	}

	log.Info("shutting down")
	a.Close()

	if grpcServer != nil {
		grpcServer.Stop()
	}

	if err := httpServer.Stop(10 * time.Second); err != nil {
		log.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("shutdown complete")
}

// newStore builds the preference store selected by cfg, with a health check
// and a close function.
func newStore(cfg *config.Config) (storage.Store, func(context.Context) error, func(), error) {
	switch cfg.Storage {
	case "redis":
		rs, err := storage.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisTTL)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := rs.Close(); err != nil {
				slog.Error("failed to close store", "error", err)
			}
		}
		return rs, rs.Ping, closeFn, nil
	default:
		return storage.NewMemoryStore(), nil, func() {}, nil
	}
}
