package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/zidan444/blog-app/app/config"
	"github.com/zidan444/blog-app/app/repositories"
	"github.com/zidan444/blog-app/app/routes"
)

// RunAppServer opens the store, serves the blog on cfg.Server.Addr and
// shuts down gracefully once ctx is cancelled.
func RunAppServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := repositories.NewStore(cfg.Database.Path, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	handler, err := routes.SetupMVCRoutes(store, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to setup routes: %w", err)
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Addr, err)
	}

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	logger.Info("starting blog server", "addr", ln.Addr().String(), "db", cfg.Database.Path)
	return serve(ctx, srv, ln, cfg.Server.ShutdownTimeout, logger)
}

// serve runs srv on ln until it fails or ctx is done, then drains in-flight
// requests for at most timeout.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down blog server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("blog server stopped")
	return nil
}
