// Package main запускает HTTP-сервер бэк-офиса ресторана и ежедневный пересчёт аналитики.
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

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/restaurant-backoffice/internal/analytics"
	"github.com/mmeshcher/restaurant-backoffice/internal/app"
	"github.com/mmeshcher/restaurant-backoffice/internal/config"
	"github.com/mmeshcher/restaurant-backoffice/internal/handler"
	"github.com/mmeshcher/restaurant-backoffice/internal/logger"
	"github.com/mmeshcher/restaurant-backoffice/internal/middleware"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("logger initialization error: %v", err)
	}
	defer zl.Sync()

	sugar := zl.Sugar()

	components, err := app.Build(cfg, zl)
	if err != nil {
		sugar.Fatalw("initialization error", "error", err.Error())
	}
	svc := components.Service
	defer svc.Close()

	loc, err := cfg.Location()
	if err != nil {
		sugar.Fatalw("timezone error", "error", err.Error())
	}

	scheduler, err := analytics.NewScheduler(components.Aggregator, loc, cfg.AnalyticsDailyAt, zl.Named("scheduler"))
	if err != nil {
		sugar.Fatalw("scheduler initialization error", "error", err.Error())
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret, cfg.JWTTTL)
	h := handler.NewHandler(svc, zl, authMiddleware)

	r := h.SetupRouter(handler.RouterConfig{
		APIKey:      cfg.APIKey,
		CORSOrigins: cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return scheduler.Run(ctx)
	})

	g.Go(func() error {
		sugar.Infow("starting backoffice server", "addr", cfg.RunAddress, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

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
		zl.Error("application terminated with error", zap.Error(err))
	}
}
