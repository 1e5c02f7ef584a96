// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package main is the entry point for the ephemeris aggregation service: it
// wires the catalog, upstream provider, two-tier cache, snapshot engine, and
// HTTP facade together, then runs until an OS signal asks it to stop.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roussov/Solar-System-Live/internal/ephemeris/cache"
	"github.com/roussov/Solar-System-Live/internal/ephemeris/config"
	"github.com/roussov/Solar-System-Live/internal/ephemeris/horizons"
	"github.com/roussov/Solar-System-Live/internal/ephemeris/httpapi"
	"github.com/roussov/Solar-System-Live/internal/ephemeris/snapshot"
	"github.com/roussov/Solar-System-Live/internal/ephemeris/telemetry"
)

func main() {
	baseLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(baseLogger)

	cfg := config.Load(baseLogger)
	log := telemetry.NewLogger(baseLogger)
	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	var redisTier *cache.RedisTier
	if cfg.RedisURL != "" {
		client, err := cache.NewGoRedisClient(cfg.RedisURL)
		if err != nil {
			baseLogger.Warn("redis client construction failed, degrading to memory-only", "error", err)
		} else {
			redisTier = cache.NewRedisTier(client)
		}
	}
	store := cache.NewStore(redisTier, log)

	provider := horizons.NewHTTPProvider("", 2, 4, log)

	engine := snapshot.NewEngine(store, provider, metrics, log, snapshot.Config{
		TTL:             cfg.CacheTTL,
		StaleWindow:     cfg.CacheStaleWindow,
		PrewarmInterval: cfg.PrewarmInterval,
	})

	ctx, cancelPrewarm := context.WithCancel(context.Background())
	engine.Start(ctx)

	server := httpapi.NewServer(engine, log)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	go func() {
		baseLogger.Info("ephemeris service listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			baseLogger.Error("http server exited", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	baseLogger.Info("shutting down")

	cancelPrewarm()
	engine.Close()
	store.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("http server shutdown failed", "error", err)
		os.Exit(1)
	}

	baseLogger.Info("shutdown complete")
}
