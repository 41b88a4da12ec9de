// Package trigger implements the webhook side of the gateway: subscription
// reconciliation against the remote webhook registry and normalization of
// inbound deliveries.
package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Subscription is the per-node trigger registration: which events to listen
// to, the callback URL Aircall should deliver to, and the optional shared
// verification token.
type Subscription struct {
	NodeID string   `json:"node_id"`
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Token  string   `json:"token,omitempty"`
}

// SubscriptionStore persists the reconciliation state: the remote webhook ID
// adopted for each node, and the subscription record itself so inbound
// deliveries can be verified and drift can be repaired.
type SubscriptionStore interface {
	GetWebhookID(ctx context.Context, nodeID string) (string, error)
	SetWebhookID(ctx context.Context, nodeID, webhookID string) error
	ClearWebhookID(ctx context.Context, nodeID string) error

	SaveSubscription(ctx context.Context, sub Subscription) error
	GetSubscription(ctx context.Context, nodeID string) (*Subscription, error)
	DeleteSubscription(ctx context.Context, nodeID string) error
	ListNodeIDs(ctx context.Context) ([]string, error)
}

// ErrSubscriptionNotFound is returned when no subscription is registered for
// a node.
var ErrSubscriptionNotFound = errors.New("subscription not found")

const (
	webhookIDKeyPrefix    = "aircall:trigger:webhook_id:"
	subscriptionKeyPrefix = "aircall:trigger:subscription:"
	nodeSetKey            = "aircall:trigger:nodes"
)

type redisStore struct {
	client *redis.Client
}

// NewRedisStore returns a SubscriptionStore backed by Redis.
func NewRedisStore(client *redis.Client) SubscriptionStore {
	return &redisStore{client: client}
}

func (s *redisStore) GetWebhookID(ctx context.Context, nodeID string) (string, error) {
	id, err := s.client.Get(ctx, webhookIDKeyPrefix+nodeID).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get webhook ID: %w", err)
	}
	return id, nil
}

func (s *redisStore) SetWebhookID(ctx context.Context, nodeID, webhookID string) error {
	if err := s.client.Set(ctx, webhookIDKeyPrefix+nodeID, webhookID, 0).Err(); err != nil {
		return fmt.Errorf("set webhook ID: %w", err)
	}
	return nil
}

func (s *redisStore) ClearWebhookID(ctx context.Context, nodeID string) error {
	if err := s.client.Del(ctx, webhookIDKeyPrefix+nodeID).Err(); err != nil {
		return fmt.Errorf("clear webhook ID: %w", err)
	}
	return nil
}

func (s *redisStore) SaveSubscription(ctx context.Context, sub Subscription) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal subscription: %w", err)
	}

	if err := s.client.Set(ctx, subscriptionKeyPrefix+sub.NodeID, data, 0).Err(); err != nil {
		return fmt.Errorf("save subscription: %w", err)
	}
	if err := s.client.SAdd(ctx, nodeSetKey, sub.NodeID).Err(); err != nil {
		return fmt.Errorf("register node: %w", err)
	}
	return nil
}

func (s *redisStore) GetSubscription(ctx context.Context, nodeID string) (*Subscription, error) {
	data, err := s.client.Get(ctx, subscriptionKeyPrefix+nodeID).Bytes()
	if err == redis.Nil {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}

	var sub Subscription
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("unmarshal subscription: %w", err)
	}
	return &sub, nil
}

func (s *redisStore) DeleteSubscription(ctx context.Context, nodeID string) error {
	if err := s.client.Del(ctx, subscriptionKeyPrefix+nodeID).Err(); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if err := s.client.SRem(ctx, nodeSetKey, nodeID).Err(); err != nil {
		return fmt.Errorf("unregister node: %w", err)
	}
	return nil
}

func (s *redisStore) ListNodeIDs(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, nodeSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	return ids, nil
}
