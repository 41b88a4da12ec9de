// Package main is the entry point for the aircall-gateway HTTP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/popeskul/aircall-gateway/internal/aircall"
	"github.com/popeskul/aircall-gateway/internal/config"
	"github.com/popeskul/aircall-gateway/internal/handler"
	"github.com/popeskul/aircall-gateway/internal/middleware"
	"github.com/popeskul/aircall-gateway/internal/service"
)

var startupNotice sync.Once

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	startupNotice.Do(func() {
		logger.Info("aircall-gateway starting",
			zap.String("base_url", cfg.Aircall.BaseURL),
			zap.String("events_channel", cfg.Trigger.EventsChannel))
	})

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	client := aircall.NewClient(aircall.Options{
		BaseURL:  cfg.Aircall.BaseURL,
		APIID:    cfg.Aircall.APIID,
		APIToken: cfg.Aircall.APIToken,
		Timeout:  time.Duration(cfg.Aircall.Timeout) * time.Second,
		MaxPages: cfg.Aircall.MaxPages,
		Breaker: aircall.BreakerSettings{
			MaxRequests:      cfg.Aircall.CircuitBreaker.MaxRequests,
			Interval:         time.Duration(cfg.Aircall.CircuitBreaker.Interval) * time.Second,
			Timeout:          time.Duration(cfg.Aircall.CircuitBreaker.Timeout) * time.Second,
			FailureRatio:     cfg.Aircall.CircuitBreaker.FailureRatio,
			ConsecutiveFails: cfg.Aircall.CircuitBreaker.ConsecutiveFails,
		},
	}, logger)

	if err := client.VerifyCredentials(ctx); err != nil {
		logger.Warn("Aircall credential check failed, continuing degraded", zap.Error(err))
	}

	svc := service.NewService(cfg, client, redisClient, logger)
	h := handler.NewHandler(svc, logger)

	router := setupRouter(h)

	middlewareConfig := &middleware.Config{
		Logger:         logger,
		RateLimit:      rate.Limit(cfg.Middleware.RateLimit),
		RateLimitBurst: cfg.Middleware.RateLimitBurst,
		RequestTimeout: 30 * time.Second,
	}
	if cfg.Middleware.EnableCORS {
		middlewareConfig.CORS = &middleware.CORSConfig{
			AllowedOrigins:   cfg.Middleware.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           86400,
		}
	}

	finalHandler := middleware.Chain(middlewareConfig)(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      finalHandler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := svc.Reconciler.Start(); err != nil {
		logger.Error("Failed to start reconciliation loop", zap.Error(err))
	}

	go func() {
		logger.Info("Starting server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if svc.Reconciler.IsRunning() {
		if err := svc.Reconciler.Stop(); err != nil {
			logger.Error("Failed to stop reconciliation loop", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
