// Package main запускает HTTP-сервер бэк-офиса barberpos.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/barberpos/internal/config"
	"github.com/mmeshcher/barberpos/internal/handler"
	"github.com/mmeshcher/barberpos/internal/logger"
	"github.com/mmeshcher/barberpos/internal/middleware"
	"github.com/mmeshcher/barberpos/internal/repository"
	"github.com/mmeshcher/barberpos/internal/service"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	zl, err := logger.New(cfg.LogMode, cfg.LogFile)
	if err != nil {
		log.Fatalf("logger initialization error: %v", err)
	}
	defer zl.Sync()

	sugar := zl.Sugar()

	repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}

	svc := service.NewService(repo, zl)
	defer svc.Close()

	if cfg.AuthSecret == "" {
		sugar.Warn("AUTH_SECRET is empty, using a random key: tokens will not survive restart")
	}
	authMiddleware := middleware.NewAuthMiddleware(cfg.AuthSecret)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	h := handler.NewHandler(svc, zl, authMiddleware, reg)

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           h.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("starting barberpos server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Остановка по сигналу или ошибке в другой горутине.
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Errorw("application terminated with error", "error", err)
		svc.Close()
		os.Exit(1)
	}
}
