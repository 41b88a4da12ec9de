// Package handler provides HTTP request handlers for the application.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/popeskul/aircall-gateway/internal/adapter"
	"github.com/popeskul/aircall-gateway/internal/api"
	"github.com/popeskul/aircall-gateway/internal/middleware"
	"github.com/popeskul/aircall-gateway/internal/service"
	"github.com/popeskul/aircall-gateway/internal/trigger"
)

const (
	errorCodeBadRequest       = "BAD_REQUEST"
	errorCodeUnknownOperation = "UNKNOWN_OPERATION"
	errorCodeUpstream         = "UPSTREAM_ERROR"
	errorCodeNotFound         = "NOT_FOUND"
)

type Handler struct {
	service *service.Service
	logger  *zap.Logger
}

func NewHandler(service *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Execute runs a declarative operation batch.
func (h *Handler) Execute(w http.ResponseWriter, r *http.Request) {
	var req api.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeBadRequest, "Invalid request body")
		return
	}

	if req.Resource == "" || req.Operation == "" {
		h.sendError(w, r, http.StatusBadRequest, errorCodeBadRequest, "resource and operation are required")
		return
	}

	// An empty batch still runs the operation once with empty parameters;
	// operations like company.get take none.
	if len(req.Items) == 0 {
		req.Items = []json.RawMessage{nil}
	}

	result, err := h.service.Adapter.ExecuteBatch(r.Context(), &req)
	if err != nil {
		requestID := middleware.GetRequestID(r.Context())

		if errors.Is(err, adapter.ErrUnknownResource) || errors.Is(err, adapter.ErrUnknownOperation) {
			h.sendError(w, r, http.StatusBadRequest, errorCodeUnknownOperation, err.Error())
			return
		}

		h.logger.Error("Batch execution failed",
			zap.String("request_id", requestID),
			zap.String("resource", req.Resource),
			zap.String("operation", req.Operation),
			zap.Error(err))
		h.sendError(w, r, http.StatusBadGateway, errorCodeUpstream, err.Error())
		return
	}

	render.JSON(w, r, result)
}

// ActivateTrigger registers (or adopts) the webhook subscription for a node.
func (h *Handler) ActivateTrigger(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")

	var req api.TriggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Trigger.Activate(r.Context(), nodeID, &req)
	if err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeBadRequest, err.Error())
		return
	}

	render.JSON(w, r, result)
}

// DeactivateTrigger tears down a node's subscription best-effort.
func (h *Handler) DeactivateTrigger(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")

	if err := h.service.Trigger.Deactivate(r.Context(), nodeID); err != nil {
		requestID := middleware.GetRequestID(r.Context())
		h.logger.Error("Trigger deactivation failed",
			zap.String("request_id", requestID),
			zap.String("node_id", nodeID),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, "Failed to deactivate trigger")
		return
	}

	render.JSON(w, r, map[string]any{"success": true})
}

// InboundWebhook receives one Aircall delivery for a node. The response is
// immediate: token mismatches get the rejection marker, everything else is
// acknowledged before downstream consumers see the event.
func (h *Handler) InboundWebhook(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeBadRequest, "Invalid request body")
		return
	}

	accepted, err := h.service.Trigger.HandleInbound(r.Context(), nodeID, body)
	if err != nil {
		if errors.Is(err, service.ErrTokenMismatch) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(trigger.RejectionMarker))
			return
		}
		if errors.Is(err, trigger.ErrSubscriptionNotFound) {
			h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "No trigger registered for this node")
			return
		}

		requestID := middleware.GetRequestID(r.Context())
		h.logger.Error("Inbound webhook handling failed",
			zap.String("request_id", requestID),
			zap.String("node_id", nodeID),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, "Failed to process webhook")
		return
	}

	render.JSON(w, r, map[string]any{"received": accepted})
}

// HealthCheck reports aggregated dependency health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := h.service.Health.GetHealth(r.Context())

	response := api.HealthResponse{
		Status:               health.Status,
		Timestamp:            time.Now(),
		RedisStatus:          health.RedisStatus,
		AircallStatus:        health.AircallStatus,
		ReconcilerStatus:     health.ReconcilerStatus,
		CircuitBreakerState:  health.CircuitBreakerState,
		CircuitBreakerStatus: health.CircuitBreakerStatus,
	}

	if health.Status == api.StatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	render.JSON(w, r, response)
}

func (h *Handler) sendError(w http.ResponseWriter, r *http.Request, statusCode int, errorCode, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, api.ErrorResponse{
		Error:     errorCode,
		Message:   message,
		Timestamp: time.Now(),
	})
}
