package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/cloudsync-io/identity-sync/internal/backend"
	"github.com/cloudsync-io/identity-sync/internal/backend/fake"
	"github.com/cloudsync-io/identity-sync/internal/backend/openstack"
	"github.com/cloudsync-io/identity-sync/internal/config"
	"github.com/cloudsync-io/identity-sync/internal/journal"
	"github.com/cloudsync-io/identity-sync/internal/logger"
	"github.com/cloudsync-io/identity-sync/internal/manifest"
	"github.com/cloudsync-io/identity-sync/internal/metrics"
	"github.com/cloudsync-io/identity-sync/internal/reconcile"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Env)

	// Initialize metrics
	metrics := metrics.New(true)

	// Set up HTTP server for metrics
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	server := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: mux,
	}

	// Start http server in background
	go func() {
		slog.Info("Starting metrics server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Metrics server failed", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := newBackend(cfg, metrics)
	if err != nil {
		slog.Error("Failed to initialize backend client", "error", err)
		os.Exit(1)
	}

	jrnl, err := journal.New(cfg.JournalPath, metrics)
	if err != nil {
		slog.Error("Failed to initialize outcome journal", "error", err)
		os.Exit(1)
	}
	defer jrnl.Close()

	engine := reconcile.NewEngine(client, jrnl, cfg, metrics)

	slog.Info("Starting identity-sync service",
		"backend", cfg.Backend.Kind, "manifest", cfg.ManifestPath, "dry_run", cfg.Reconcile.DryRun)

	wg := &sync.WaitGroup{}
	wg.Add(1)
	go runSyncLoop(ctx, wg, engine, metrics, cfg)

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	slog.Info("Shutdown signal received")
	cancel()

	serverShutdownCtx, cancelServer := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelServer()
	if err := server.Shutdown(serverShutdownCtx); err != nil {
		slog.Error("Metrics server shutdown error", "error", err)
	}

	// Wait for sync loop to finish
	wg.Wait()
	slog.Info("Service shutdown complete")
}

func newBackend(cfg *config.Config, m *metrics.Metrics) (backend.Client, error) {
	switch cfg.Backend.Kind {
	case "openstack":
		return openstack.New(cfg.Backend, m)
	case "fake":
		return fake.New(), nil
	}
	return nil, fmt.Errorf("unknown backend kind %q", cfg.Backend.Kind)
}

func runSyncLoop(ctx context.Context, wg *sync.WaitGroup, engine reconcile.Engine, metrics *metrics.Metrics, cfg *config.Config) {
	defer wg.Done()
	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	for {
		if err := performSync(ctx, engine, metrics, cfg.ManifestPath); err != nil {
			slog.Error("Sync operation failed", "error", err)
		}

		select {
		case <-ticker.C:
			continue
		case <-ctx.Done():
			slog.Info("Stopping sync loop")
			return
		}
	}
}

func performSync(ctx context.Context, engine reconcile.Engine, metrics *metrics.Metrics, manifestPath string) error {
	slog.Info("Starting sync operation")
	start := time.Now()
	defer func() {
		metrics.SetSyncDuration(time.Since(start))
	}()

	m, err := manifest.Load(manifestPath)
	if err != nil {
		metrics.IncSyncRun(false)
		return err
	}
	recordManifestGauges(metrics, m)

	slog.Info("Reconciling resources", "count", len(m.Resources))
	results, err := engine.Reconcile(ctx, m.Resources)
	if err != nil {
		metrics.IncSyncRun(false)
		return err
	}

	slog.Info("Sync completed",
		"resources", len(results.Outcomes),
		"changed", results.Changed(),
		"failures", len(results.Failures))
	metrics.IncSyncRun(len(results.Failures) == 0)

	return nil
}

func recordManifestGauges(m *metrics.Metrics, man manifest.Manifest) {
	counts := map[string]int{"project": 0, "user": 0, "role_assignment": 0, "router": 0}
	for _, e := range man.Resources {
		switch {
		case e.Router != "":
			counts["router"]++
		case e.Role != "":
			counts["role_assignment"]++
		case e.User != "":
			counts["user"]++
		case e.Project != "":
			counts["project"]++
		}
	}
	for kind, n := range counts {
		m.SetManagedResources(kind, n)
	}
}
