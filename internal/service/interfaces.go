package service

import (
	"context"

	"github.com/popeskul/aircall-gateway/internal/api"
)

// AdapterService executes declarative operation batches against Aircall.
type AdapterService interface {
	ExecuteBatch(ctx context.Context, req *api.ExecuteRequest) (*api.ExecuteResponse, error)
}

// TriggerService manages trigger lifecycles and inbound deliveries.
type TriggerService interface {
	Activate(ctx context.Context, nodeID string, req *api.TriggerRequest) (*api.TriggerResponse, error)
	Deactivate(ctx context.Context, nodeID string) error
	HandleInbound(ctx context.Context, nodeID string, body map[string]any) (bool, error)
	ReconcileAll(ctx context.Context) error
}

// ReconcilerService runs the periodic subscription drift repair loop.
type ReconcilerService interface {
	Start() error
	Stop() error
	IsRunning() bool
}

// HealthService aggregates dependency health.
type HealthService interface {
	GetHealth(ctx context.Context) *HealthStatus
}

// EventPublisher forwards normalized trigger events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, payload []byte) error
}
