package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/popeskul/aircall-gateway/internal/aircall"
	"github.com/popeskul/aircall-gateway/internal/api"
	"github.com/popeskul/aircall-gateway/internal/trigger"
)

// ErrTokenMismatch marks an inbound delivery that failed verification.
var ErrTokenMismatch = errors.New("webhook token mismatch")

type triggerService struct {
	reconciler *trigger.Reconciler
	store      trigger.SubscriptionStore
	publisher  EventPublisher
	publicURL  string
	logger     *zap.Logger
}

func NewTriggerService(
	reconciler *trigger.Reconciler,
	store trigger.SubscriptionStore,
	publisher EventPublisher,
	publicURL string,
	logger *zap.Logger,
) TriggerService {
	return &triggerService{
		reconciler: reconciler,
		store:      store,
		publisher:  publisher,
		publicURL:  strings.TrimRight(publicURL, "/"),
		logger:     logger,
	}
}

func (s *triggerService) callbackURL(nodeID string) string {
	return s.publicURL + "/webhooks/aircall/" + nodeID
}

// Activate ensures a webhook subscription exists for the node: adopt an
// existing registration when the callback URL already matches, create one
// otherwise. Registration failure is reported as inactive, never raised.
func (s *triggerService) Activate(ctx context.Context, nodeID string, req *api.TriggerRequest) (*api.TriggerResponse, error) {
	if len(req.Events) == 0 {
		return nil, fmt.Errorf("at least one event is required")
	}
	for _, event := range req.Events {
		if !aircall.IsKnownEvent(event) {
			return nil, fmt.Errorf("unknown event %q", event)
		}
	}

	sub := trigger.Subscription{
		NodeID: nodeID,
		URL:    s.callbackURL(nodeID),
		Events: req.Events,
		Token:  req.Token,
	}

	if err := s.store.SaveSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("save subscription: %w", err)
	}

	active := s.reconciler.CheckExists(ctx, sub)
	if !active {
		active = s.reconciler.Create(ctx, sub)
	}

	webhookID, err := s.store.GetWebhookID(ctx, nodeID)
	if err != nil {
		s.logger.Warn("Failed to read webhook ID after activation", zap.String("node_id", nodeID), zap.Error(err))
	}

	return &api.TriggerResponse{Active: active, WebhookID: webhookID}, nil
}

// Deactivate removes the remote webhook best-effort and forgets the
// subscription. It never fails the caller over remote state.
func (s *triggerService) Deactivate(ctx context.Context, nodeID string) error {
	sub := trigger.Subscription{NodeID: nodeID, URL: s.callbackURL(nodeID)}
	s.reconciler.Delete(ctx, sub)

	if err := s.store.DeleteSubscription(ctx, nodeID); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

// HandleInbound verifies and normalizes one delivery, then publishes the
// event. Publishing is fire-and-forget; the delivery is acknowledged
// regardless so Aircall does not retry into a backlog.
func (s *triggerService) HandleInbound(ctx context.Context, nodeID string, body map[string]any) (bool, error) {
	sub, err := s.store.GetSubscription(ctx, nodeID)
	if err != nil {
		return false, err
	}

	if !trigger.VerifyToken(sub.Token, body) {
		s.logger.Warn("Inbound webhook rejected: token mismatch", zap.String("node_id", nodeID))
		return false, ErrTokenMismatch
	}

	event := trigger.NormalizeEvent(body)

	payload, err := json.Marshal(event)
	if err != nil {
		return false, fmt.Errorf("marshal event: %w", err)
	}

	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("node_id", nodeID),
			zap.String("event", event.Event),
			zap.Error(err))
	} else {
		s.logger.Info("Event forwarded",
			zap.String("node_id", nodeID),
			zap.String("event", event.Event),
			zap.String("resource", event.Resource))
	}

	return true, nil
}

// ReconcileAll re-checks every registered subscription and re-creates the
// ones whose remote webhook has drifted or disappeared.
func (s *triggerService) ReconcileAll(ctx context.Context) error {
	nodeIDs, err := s.store.ListNodeIDs(ctx)
	if err != nil {
		return fmt.Errorf("list subscriptions: %w", err)
	}

	for _, nodeID := range nodeIDs {
		sub, err := s.store.GetSubscription(ctx, nodeID)
		if err != nil {
			s.logger.Warn("Skipping node without subscription record", zap.String("node_id", nodeID), zap.Error(err))
			continue
		}

		if s.reconciler.CheckExists(ctx, *sub) {
			continue
		}

		if s.reconciler.Create(ctx, *sub) {
			s.logger.Info("Re-registered drifted webhook", zap.String("node_id", nodeID))
		} else {
			s.logger.Error("Failed to re-register webhook", zap.String("node_id", nodeID))
		}
	}

	return nil
}
