package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/popeskul/aircall-gateway/internal/scheduler"
)

type reconcilerService struct {
	scheduler      *scheduler.Scheduler
	triggerService TriggerService
	logger         *zap.Logger
}

// NewReconcilerService wires the drift-repair loop: every interval, each
// registered subscription is re-checked against the remote registry and
// re-created when missing.
func NewReconcilerService(
	interval time.Duration,
	triggerService TriggerService,
	logger *zap.Logger,
) ReconcilerService {
	svc := &reconcilerService{
		triggerService: triggerService,
		logger:         logger,
	}

	svc.scheduler = scheduler.NewScheduler(logger, interval, svc.reconcile)
	return svc
}

func (s *reconcilerService) Start() error {
	return s.scheduler.Start(context.Background())
}

func (s *reconcilerService) Stop() error {
	return s.scheduler.Stop()
}

func (s *reconcilerService) IsRunning() bool {
	return s.scheduler.IsRunning()
}

func (s *reconcilerService) reconcile(ctx context.Context) error {
	return s.triggerService.ReconcileAll(ctx)
}
