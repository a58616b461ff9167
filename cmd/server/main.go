package main

import (
	"context"
	"errors"
	"fmt"
	"location-tracker-service/internal/adapters/geocode"
	"location-tracker-service/internal/adapters/listener"
	"location-tracker-service/internal/adapters/provider"
	"location-tracker-service/internal/api"
	"location-tracker-service/internal/config"
	"location-tracker-service/internal/platform/httpx"
	"location-tracker-service/internal/platform/obs"
	"location-tracker-service/internal/services"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// main is the application composition root.
// It wires concrete adapters (push provider, Google geocoder) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := obs.NewMetrics(reg)

	client := httpx.NewClient("location-tracker-service/1.0")
	google, err := geocode.NewGoogleGeocoder(client, cfg.Geocode.BaseURL)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	push := provider.NewPushProvider(provider.Config{
		DistanceFilterMeters: cfg.Provider.DistanceFilter,
		AutoGrant:            cfg.Provider.AutoGrant,
	}, logger)

	hub := listener.NewHub(logger)
	defer hub.Close()

	tracker, err := services.NewLocationTracker(
		push,
		geocode.NewInstrumented(google, metrics),
		services.WithLogger(logger),
		services.WithBaseContext(ctx),
		services.WithGeocodeAPIKey(cfg.Geocode.APIKey),
		services.WithListener(listener.NewMulti(
			listener.NewLogging(logger),
			listener.NewMetrics(metrics),
			hub,
		)),
	)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	defer tracker.Wait()

	if _, ok := tracker.GeocodeAPIKey(); !ok {
		logger.Warn("geocode api key not set; area names will not be resolved")
	}

	router := api.NewRouter(api.Deps{
		Tracker:  tracker,
		Fixes:    push,
		Watch:    hub,
		Gatherer: reg,
		Metrics:  metrics,
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:              cfg.GetServerAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
