package service

import (
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/popeskul/aircall-gateway/internal/aircall"
	"github.com/popeskul/aircall-gateway/internal/config"
	"github.com/popeskul/aircall-gateway/internal/trigger"
)

type Service struct {
	Adapter    AdapterService
	Trigger    TriggerService
	Reconciler ReconcilerService
	Health     HealthService
}

func NewService(
	cfg *config.Config,
	client *aircall.Client,
	redisClient *redis.Client,
	logger *zap.Logger,
) *Service {
	store := trigger.NewRedisStore(redisClient)
	reconciler := trigger.NewReconciler(client, store, logger)
	publisher := NewRedisPublisher(redisClient, cfg.Trigger.EventsChannel)

	adapterService := NewAdapterService(client, logger)
	triggerService := NewTriggerService(reconciler, store, publisher, cfg.Trigger.PublicURL, logger)
	reconcilerService := NewReconcilerService(
		time.Duration(cfg.Reconciler.IntervalMinutes)*time.Minute,
		triggerService,
		logger,
	)
	healthService := NewHealthService(client, redisClient, reconcilerService)

	return &Service{
		Adapter:    adapterService,
		Trigger:    triggerService,
		Reconciler: reconcilerService,
		Health:     healthService,
	}
}
