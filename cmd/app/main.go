package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ltcpay/internal/app"
	"ltcpay/internal/infra/ledger"
	"ltcpay/internal/infra/pricing"
	"ltcpay/internal/service"
	"ltcpay/internal/session"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Session store with background sweep
	ttl := time.Duration(cfg.Verification.SessionTTLSec) * time.Second
	sweep := time.Duration(cfg.Verification.SweepIntervalSec) * time.Second
	sessions := session.NewWithOptions(ttl, sweep, nil)
	defer sessions.Close()

	// 5. Upstream clients
	oracle := pricing.NewClient(cfg)
	ledgerClient := ledger.NewClient(cfg)

	// 6. Verification service (the collaborator boundary for the
	// presentation layer)
	verifier := service.NewVerificationService(oracle, ledgerClient, sessions, bootstrap.Storage, ttl)
	defer verifier.Close()

	// Startup health check: one snapshot fetch, logged for the operator.
	if snap, err := oracle.FetchRates(ctx); err != nil {
		slog.Warn("Initial price fetch failed", slog.Any("error", err))
	} else {
		slog.Info("💰 Current LTC prices",
			slog.String("usd", snap.PriceUSD.String()),
			slog.String("eur", snap.PriceEUR.String()),
		)
	}

	slog.InfoContext(ctx, "✨ ltcpay verification core operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-ctx.Done()

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")
}
