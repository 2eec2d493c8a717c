// ABOUTME: Entry point for the license calculator backend service
// ABOUTME: Serves the license and network-test engines over an HTTP API

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ulix1808/AppdyLicCalc/cache"
	"github.com/ulix1808/AppdyLicCalc/config"
	"github.com/ulix1808/AppdyLicCalc/handlers"
	"github.com/ulix1808/AppdyLicCalc/logger"
	"github.com/ulix1808/AppdyLicCalc/metrics"
	"github.com/ulix1808/AppdyLicCalc/models"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	rates, err := config.LoadRates(cfg.LicenseRatesFile)
	if err != nil {
		slog.Error("Failed to load license rates", "file", cfg.LicenseRatesFile, "error", err)
		os.Exit(1)
	}
	ratesSource := "defaults"
	if cfg.LicenseRatesFile != "" {
		ratesSource = cfg.LicenseRatesFile
	}

	slog.Info("Starting license calculator backend", "rates", ratesSource)
	if cfg.VSphereConfigured() {
		slog.Info("vSphere configured", "host", cfg.VSphereHost, "datacenter", cfg.VSphereDatacenter)
	} else {
		slog.Info("vSphere not configured, inventory discovery disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	monitor := metrics.NewMonitor(registry)

	// Initialize cache
	importTTL := time.Duration(cfg.ImportCacheTTL) * time.Second
	importCache := cache.New[models.ImportResult](importTTL)
	defer importCache.Close()
	slog.Info("Import cache initialized", "ttl", importTTL)

	// Initialize handlers
	h := handlers.NewHandler(cfg, importCache,
		handlers.WithRates(rates, ratesSource),
		handlers.WithMonitor(monitor),
	)
	defer h.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(h, cfg, monitor),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}
}
