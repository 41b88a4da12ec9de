package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/popeskul/aircall-gateway/internal/aircall"
	"github.com/popeskul/aircall-gateway/internal/api"
)

type healthService struct {
	client            *aircall.Client
	redisClient       *redis.Client
	reconcilerService ReconcilerService
}

func NewHealthService(
	client *aircall.Client,
	redisClient *redis.Client,
	reconcilerService ReconcilerService,
) HealthService {
	return &healthService{
		client:            client,
		redisClient:       redisClient,
		reconcilerService: reconcilerService,
	}
}

func (s *healthService) GetHealth(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status: api.StatusHealthy,
	}

	if s.reconcilerService.IsRunning() {
		status.ReconcilerStatus = "running"
	} else {
		status.ReconcilerStatus = "stopped"
	}

	status.RedisStatus = s.checkRedisHealth(ctx)
	status.AircallStatus = s.checkAircallHealth(ctx)

	state := s.client.BreakerState()
	status.CircuitBreakerState = string(state)

	requests, failures := s.client.BreakerCounts()
	if requests > 0 {
		failureRate := float64(failures) / float64(requests) * 100
		status.CircuitBreakerStatus = fmt.Sprintf("Requests: %d, Failures: %d (%.1f%%)", requests, failures, failureRate)
	} else {
		status.CircuitBreakerStatus = "No requests yet"
	}

	if status.RedisStatus != "connected" {
		status.Status = api.StatusUnhealthy
	}

	// A failing credential check or an open breaker leaves the service up
	// but degraded: the HTTP surface still answers, executions will fail.
	if status.AircallStatus != "connected" || state == aircall.BreakerOpen {
		if status.Status == api.StatusHealthy {
			status.Status = api.StatusDegraded
		}
	}

	return status
}

func (s *healthService) checkRedisHealth(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		return "disconnected"
	}
	return "connected"
}

func (s *healthService) checkAircallHealth(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.client.VerifyCredentials(ctx); err != nil {
		return "disconnected"
	}
	return "connected"
}
