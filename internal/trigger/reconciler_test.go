package trigger_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/popeskul/aircall-gateway/internal/aircall"
	"github.com/popeskul/aircall-gateway/internal/trigger"
)

// memoryStore is an in-memory SubscriptionStore for reconciler tests.
type memoryStore struct {
	webhookIDs    map[string]string
	subscriptions map[string]trigger.Subscription
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		webhookIDs:    make(map[string]string),
		subscriptions: make(map[string]trigger.Subscription),
	}
}

func (s *memoryStore) GetWebhookID(_ context.Context, nodeID string) (string, error) {
	return s.webhookIDs[nodeID], nil
}

func (s *memoryStore) SetWebhookID(_ context.Context, nodeID, webhookID string) error {
	s.webhookIDs[nodeID] = webhookID
	return nil
}

func (s *memoryStore) ClearWebhookID(_ context.Context, nodeID string) error {
	delete(s.webhookIDs, nodeID)
	return nil
}

func (s *memoryStore) SaveSubscription(_ context.Context, sub trigger.Subscription) error {
	s.subscriptions[sub.NodeID] = sub
	return nil
}

func (s *memoryStore) GetSubscription(_ context.Context, nodeID string) (*trigger.Subscription, error) {
	sub, ok := s.subscriptions[nodeID]
	if !ok {
		return nil, trigger.ErrSubscriptionNotFound
	}
	return &sub, nil
}

func (s *memoryStore) DeleteSubscription(_ context.Context, nodeID string) error {
	delete(s.subscriptions, nodeID)
	return nil
}

func (s *memoryStore) ListNodeIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(s.subscriptions))
	for id := range s.subscriptions {
		ids = append(ids, id)
	}
	return ids, nil
}

func newReconcilerClient(t *testing.T, handler http.HandlerFunc) *aircall.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return aircall.NewClient(aircall.Options{
		BaseURL:  server.URL,
		APIID:    "test-id",
		APIToken: "test-token",
		Breaker: aircall.BreakerSettings{
			MaxRequests:      3,
			FailureRatio:     0.6,
			ConsecutiveFails: 5,
		},
	}, zap.NewNop())
}

func TestReconciler_CheckExists_StoredIDMatches(t *testing.T) {
	client := newReconcilerClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/webhooks/77", r.URL.Path)
		_, _ = w.Write([]byte(`{"webhook":{"id":77,"url":"https://gw.example/webhooks/aircall/node-1"}}`))
	})

	store := newMemoryStore()
	require.NoError(t, store.SetWebhookID(context.Background(), "node-1", "77"))

	r := trigger.NewReconciler(client, store, zap.NewNop())

	exists := r.CheckExists(context.Background(), trigger.Subscription{
		NodeID: "node-1",
		URL:    "https://gw.example/webhooks/aircall/node-1",
	})

	assert.True(t, exists)
	assert.Equal(t, "77", store.webhookIDs["node-1"])
}

func TestReconciler_CheckExists_StaleIDClearedThenAdopted(t *testing.T) {
	client := newReconcilerClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/webhooks/77":
			// The stored webhook is gone.
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
		case "/webhooks":
			// The registry still has one under a different ID.
			_, _ = w.Write([]byte(`{"webhooks":[
				{"id":12,"url":"https://other.example/hook"},
				{"id":99,"url":"https://gw.example/webhooks/aircall/node-1"}
			]}`))
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	})

	store := newMemoryStore()
	require.NoError(t, store.SetWebhookID(context.Background(), "node-1", "77"))

	r := trigger.NewReconciler(client, store, zap.NewNop())

	exists := r.CheckExists(context.Background(), trigger.Subscription{
		NodeID: "node-1",
		URL:    "https://gw.example/webhooks/aircall/node-1",
	})

	assert.True(t, exists)
	assert.Equal(t, "99", store.webhookIDs["node-1"], "the matching registry entry must be adopted")
}

func TestReconciler_CheckExists_URLMismatchClearsStoredID(t *testing.T) {
	client := newReconcilerClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/webhooks/77":
			_, _ = w.Write([]byte(`{"webhook":{"id":77,"url":"https://stale.example/hook"}}`))
		case "/webhooks":
			_, _ = w.Write([]byte(`{"webhooks":[]}`))
		}
	})

	store := newMemoryStore()
	require.NoError(t, store.SetWebhookID(context.Background(), "node-1", "77"))

	r := trigger.NewReconciler(client, store, zap.NewNop())

	exists := r.CheckExists(context.Background(), trigger.Subscription{
		NodeID: "node-1",
		URL:    "https://gw.example/webhooks/aircall/node-1",
	})

	assert.False(t, exists)
	assert.Empty(t, store.webhookIDs["node-1"])
}

func TestReconciler_CheckExists_ListFailure(t *testing.T) {
	client := newReconcilerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})

	store := newMemoryStore()
	r := trigger.NewReconciler(client, store, zap.NewNop())

	exists := r.CheckExists(context.Background(), trigger.Subscription{
		NodeID: "node-1",
		URL:    "https://gw.example/webhooks/aircall/node-1",
	})

	assert.False(t, exists, "an unreachable registry reads as not-exists so creation is retried")
}

func TestReconciler_Create(t *testing.T) {
	var gotBody map[string]any

	client := newReconcilerClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/webhooks", r.URL.Path)

		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &gotBody))

		_, _ = w.Write([]byte(`{"webhook":{"id":4242,"url":"https://gw.example/webhooks/aircall/node-1"}}`))
	})

	store := newMemoryStore()
	r := trigger.NewReconciler(client, store, zap.NewNop())

	ok := r.Create(context.Background(), trigger.Subscription{
		NodeID: "node-1",
		URL:    "https://gw.example/webhooks/aircall/node-1",
		Events: []string{"call.created", "call.ended"},
		Token:  "secret",
	})

	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"url":    "https://gw.example/webhooks/aircall/node-1",
		"events": []any{"call.created", "call.ended"},
		"token":  "secret",
	}, gotBody)
	assert.Equal(t, "4242", store.webhookIDs["node-1"], "numeric IDs are stored in canonical string form")
}

func TestReconciler_Create_OmitsEmptyToken(t *testing.T) {
	var gotBody map[string]any

	client := newReconcilerClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &gotBody))
		_, _ = w.Write([]byte(`{"webhook":{"id":"wh_1"}}`))
	})

	r := trigger.NewReconciler(client, newMemoryStore(), zap.NewNop())

	ok := r.Create(context.Background(), trigger.Subscription{
		NodeID: "node-1",
		URL:    "https://gw.example/webhooks/aircall/node-1",
		Events: []string{"call.created"},
	})

	require.True(t, ok)
	assert.NotContains(t, gotBody, "token")
}

func TestReconciler_Create_UpstreamFailure(t *testing.T) {
	client := newReconcilerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"invalid events"}`))
	})

	store := newMemoryStore()
	r := trigger.NewReconciler(client, store, zap.NewNop())

	ok := r.Create(context.Background(), trigger.Subscription{
		NodeID: "node-1",
		URL:    "https://gw.example/webhooks/aircall/node-1",
		Events: []string{"call.created"},
	})

	assert.False(t, ok)
	assert.Empty(t, store.webhookIDs["node-1"])
}

func TestReconciler_Delete(t *testing.T) {
	tests := []struct {
		name         string
		storedID     string
		deleteStatus int
		wantDeletes  int
	}{
		{
			name:         "stored webhook is deleted",
			storedID:     "55",
			deleteStatus: http.StatusNoContent,
			wantDeletes:  1,
		},
		{
			name:         "already-deleted webhook is tolerated",
			storedID:     "55",
			deleteStatus: http.StatusNotFound,
			wantDeletes:  1,
		},
		{
			name:        "no stored ID skips the API call",
			storedID:    "",
			wantDeletes: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var deletes int

			client := newReconcilerClient(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodDelete, r.Method)
				deletes++
				w.WriteHeader(tt.deleteStatus)
			})

			store := newMemoryStore()
			if tt.storedID != "" {
				require.NoError(t, store.SetWebhookID(context.Background(), "node-1", tt.storedID))
			}

			r := trigger.NewReconciler(client, store, zap.NewNop())

			ok := r.Delete(context.Background(), trigger.Subscription{NodeID: "node-1"})

			assert.True(t, ok, "deletion is best-effort and always reports success")
			assert.Equal(t, tt.wantDeletes, deletes)
			assert.Empty(t, store.webhookIDs["node-1"])
		})
	}
}
