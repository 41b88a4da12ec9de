// Package api defines the request and response types of the gateway's HTTP
// surface.
package api

import (
	"encoding/json"
	"time"
)

// ExecuteRequest runs one (resource, operation) pair over a batch of items.
// Each item carries the already-resolved parameters for one execution.
type ExecuteRequest struct {
	Resource       string            `json:"resource"`
	Operation      string            `json:"operation"`
	Items          []json.RawMessage `json:"items"`
	ContinueOnFail bool              `json:"continueOnFail"`
	Simplify       bool              `json:"simplify"`
}

// ExecuteResponse carries one output slot per input item, in order. A slot is
// either the operation output or, under continue-on-fail, {"error": message}.
type ExecuteResponse struct {
	Results []any `json:"results"`
}

// TriggerRequest activates a trigger node's webhook subscription.
type TriggerRequest struct {
	Events []string `json:"events"`
	Token  string   `json:"token,omitempty"`
}

// TriggerResponse reports the outcome of an activation.
type TriggerResponse struct {
	Active    bool   `json:"active"`
	WebhookID string `json:"webhookId,omitempty"`
}

type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type HealthResponse struct {
	Status               string    `json:"status"`
	Timestamp            time.Time `json:"timestamp"`
	RedisStatus          string    `json:"redis_status,omitempty"`
	AircallStatus        string    `json:"aircall_status,omitempty"`
	ReconcilerStatus     string    `json:"reconciler_status,omitempty"`
	CircuitBreakerState  string    `json:"circuit_breaker_state,omitempty"`
	CircuitBreakerStatus string    `json:"circuit_breaker_status,omitempty"`
}

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)
