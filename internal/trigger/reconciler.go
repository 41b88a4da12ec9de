package trigger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/popeskul/aircall-gateway/internal/aircall"
)

// Reconciler keeps exactly one matching webhook subscription alive in the
// remote registry for each activated trigger node. All three entry points
// have boolean contracts: registration must never crash activation, and
// deletion must never block deactivation.
type Reconciler struct {
	client *aircall.Client
	store  SubscriptionStore
	logger *zap.Logger
}

func NewReconciler(client *aircall.Client, store SubscriptionStore, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		client: client,
		store:  store,
		logger: logger,
	}
}

// CheckExists reports whether a webhook matching the subscription's callback
// URL already exists remotely. A stored ID that no longer resolves is cleared;
// a URL match found by scanning the full registry is adopted into storage.
func (r *Reconciler) CheckExists(ctx context.Context, sub Subscription) bool {
	storedID, err := r.store.GetWebhookID(ctx, sub.NodeID)
	if err != nil {
		r.logger.Warn("Failed to read stored webhook ID", zap.String("node_id", sub.NodeID), zap.Error(err))
	}

	if storedID != "" {
		response, err := r.client.Request(ctx, http.MethodGet, "/webhooks/"+storedID, nil, nil)
		if err == nil {
			if webhook, ok := response["webhook"].(map[string]any); ok && webhook["url"] == sub.URL {
				return true
			}
		}
		// Stale or mismatched: forget it and fall through to the scan.
		if err := r.store.ClearWebhookID(ctx, sub.NodeID); err != nil {
			r.logger.Warn("Failed to clear stale webhook ID", zap.String("node_id", sub.NodeID), zap.Error(err))
		}
	}

	response, err := r.client.Request(ctx, http.MethodGet, "/webhooks", nil, nil)
	if err != nil {
		// Treated as "does not exist"; registration will be attempted.
		r.logger.Warn("Failed to list webhooks", zap.Error(err))
		return false
	}

	webhooks, _ := response["webhooks"].([]any)
	for _, entry := range webhooks {
		webhook, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if webhook["url"] == sub.URL {
			id := idToString(webhook["id"])
			if err := r.store.SetWebhookID(ctx, sub.NodeID, id); err != nil {
				r.logger.Warn("Failed to adopt webhook ID", zap.String("node_id", sub.NodeID), zap.Error(err))
			}
			return true
		}
	}

	return false
}

// Create registers the subscription remotely and stores the returned ID.
// The contract is boolean success, not error detail.
func (r *Reconciler) Create(ctx context.Context, sub Subscription) bool {
	body := map[string]any{
		"url":    sub.URL,
		"events": sub.Events,
	}
	if sub.Token != "" {
		body["token"] = sub.Token
	}

	response, err := r.client.Request(ctx, http.MethodPost, "/webhooks", body, nil)
	if err != nil {
		r.logger.Error("Failed to create webhook", zap.String("node_id", sub.NodeID), zap.Error(err))
		return false
	}

	webhook, ok := response["webhook"].(map[string]any)
	if !ok {
		r.logger.Error("Webhook creation response is missing webhook object", zap.String("node_id", sub.NodeID))
		return false
	}

	id := idToString(webhook["id"])
	if err := r.store.SetWebhookID(ctx, sub.NodeID, id); err != nil {
		r.logger.Error("Failed to store webhook ID", zap.String("node_id", sub.NodeID), zap.Error(err))
		return false
	}

	r.logger.Info("Webhook registered",
		zap.String("node_id", sub.NodeID),
		zap.String("webhook_id", id),
		zap.Strings("events", sub.Events))
	return true
}

// Delete removes the remote webhook if an ID is stored. Deletion is
// best-effort: an already-deleted webhook is not an error, and the stored ID
// is always cleared.
func (r *Reconciler) Delete(ctx context.Context, sub Subscription) bool {
	storedID, err := r.store.GetWebhookID(ctx, sub.NodeID)
	if err != nil {
		r.logger.Warn("Failed to read stored webhook ID", zap.String("node_id", sub.NodeID), zap.Error(err))
	}

	if storedID != "" {
		if _, err := r.client.Request(ctx, http.MethodDelete, "/webhooks/"+storedID, nil, nil); err != nil {
			r.logger.Warn("Failed to delete webhook, may already be gone",
				zap.String("node_id", sub.NodeID),
				zap.String("webhook_id", storedID),
				zap.Error(err))
		}
	}

	if err := r.store.ClearWebhookID(ctx, sub.NodeID); err != nil {
		r.logger.Warn("Failed to clear webhook ID", zap.String("node_id", sub.NodeID), zap.Error(err))
	}

	return true
}

func idToString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case json.Number:
		return id.String()
	default:
		return fmt.Sprintf("%v", id)
	}
}
