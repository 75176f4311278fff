package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Skufu/heartrisk/internal/assessment"
	"github.com/Skufu/heartrisk/internal/charts"
	"github.com/Skufu/heartrisk/internal/config"
	"github.com/Skufu/heartrisk/internal/handler"
	"github.com/Skufu/heartrisk/internal/model"
	"github.com/Skufu/heartrisk/internal/observability"
)

const serviceName = "heartrisk"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Service: serviceName,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
	gin.SetMode(cfg.GinMode)

	if err := run(cfg, logger); err != nil {
		if errors.Is(err, model.ErrModelNotFound) {
			logger.Error("model unavailable; the form cannot be served", "backend", cfg.Model.Backend, "error", err)
		} else {
			logger.Error("startup failed", "error", err)
		}
		os.Exit(1)
	}
}

// run owns every resource opened after config, so deferred cleanup happens
// before main exits.
func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()
	var db handler.HealthChecker
	if cfg.EnableDB {
		pool, err := connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer pool.Close()
		db = pool
	}

	router, err := setupRouter(cfg, db, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	logger.Info("server listening", "port", cfg.Port, "model_backend", cfg.Model.Backend)
	return waitForShutdown(server, serverErr, logger)
}

// setupRouter loads the model once and builds the shared service. A missing
// model aborts startup.
func setupRouter(cfg *config.Config, db handler.HealthChecker, logger *slog.Logger) (*gin.Engine, error) {
	classifier, err := model.Load(model.Options{
		Backend:         cfg.Model.Backend,
		Path:            cfg.Model.Path,
		URL:             cfg.Model.URL,
		Timeout:         cfg.Model.Timeout,
		StubProbability: cfg.Model.StubProbability,
	})
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	svc := assessment.NewFromClassifier(classifier, observability.NewMetrics(), logger)
	return handler.NewRouter(handler.New(svc, charts.NewSVGRenderer(), logger), db)
}

func connectDB(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, nil
}

func waitForShutdown(server *http.Server, serverErr <-chan error, logger *slog.Logger) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
