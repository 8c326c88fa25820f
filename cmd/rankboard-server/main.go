package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"

	"rankboard/config"
)

func main() {
	config.LoadDotEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := BuildApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	cfg := app.Config
	log := app.Logger

	log.Info("starting rankboard server",
		"environment", cfg.Environment,
		"profile", cfg.Profile,
		"address", cfg.Server.Address,
		"source_adapter", cfg.Source.Adapter,
		"records", app.Service.Size())

	errc := make(chan error, 2)
	serve := func(name string, srv *http.Server) {
		log.Info("listening", "server", name, "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("%s server: %w", name, err)
		}
	}
	go serve("api", app.Server)
	if ms := app.MetricsServer.Server; ms != nil {
		go serve("metrics", ms)
	}

	select {
	case <-ctx.Done():
	case err := <-errc:
		log.Error("server failed", tint.Err(err))
	}

	log.Info("shutting down server", "timeout", cfg.Server.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Hijacked WebSocket connections are not tracked by Shutdown.
	app.Hub.Close()
	if ms := app.MetricsServer.Server; ms != nil {
		_ = ms.Shutdown(shutdownCtx)
	}
	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		log.Error("error during server shutdown", tint.Err(err))
		return
	}

	log.Info("server stopped")
}
