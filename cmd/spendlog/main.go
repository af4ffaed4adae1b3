package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"spendlog/internal/backend"
	"spendlog/internal/cli"
	apphttp "spendlog/internal/http"
	"spendlog/internal/ledger"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateStore(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Store cleanup error", "error", err)
			}
		}()
	}

	led, err := ledger.New(context.Background(), result.Store, nil)
	if err != nil {
		logger.Error("Failed to load ledger", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	logger.Info("Ledger loaded", "records", led.Len(), "backend", cfg.DataBackend)

	srv := apphttp.NewServer(":"+cfg.Port, led, apphttp.Options{
		CacheTTL: cfg.CacheTTL,
	})
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting spendlog server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
