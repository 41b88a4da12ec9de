// Package adapter maps declarative (resource, operation) pairs onto Aircall
// API calls. Each resource contributes a table of operation handlers; the
// tables together form the dispatch registry, so an unknown pair fails fast
// instead of falling through a string switch.
package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/popeskul/aircall-gateway/internal/aircall"
)

// Resource identifies one of the ten Aircall entity categories.
type Resource string

const (
	ResourceCall        Resource = "call"
	ResourceUser        Resource = "user"
	ResourceNumber      Resource = "number"
	ResourceContact     Resource = "contact"
	ResourceTeam        Resource = "team"
	ResourceTag         Resource = "tag"
	ResourceWebhook     Resource = "webhook"
	ResourceMessage     Resource = "message"
	ResourceCompany     Resource = "company"
	ResourceIntegration Resource = "integration"
)

var (
	ErrUnknownResource  = errors.New("unknown resource")
	ErrUnknownOperation = errors.New("unknown operation")
)

// OperationFunc executes one operation with its raw JSON parameters.
type OperationFunc func(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error)

var registry = map[Resource]map[string]OperationFunc{
	ResourceCall:        callOperations,
	ResourceUser:        userOperations,
	ResourceNumber:      numberOperations,
	ResourceContact:     contactOperations,
	ResourceTeam:        teamOperations,
	ResourceTag:         tagOperations,
	ResourceWebhook:     webhookOperations,
	ResourceMessage:     messageOperations,
	ResourceCompany:     companyOperations,
	ResourceIntegration: integrationOperations,
}

// Execute dispatches one operation. Resource and operation together uniquely
// determine the endpoint and body shape; unknown pairs are fatal for the item.
func Execute(ctx context.Context, c *aircall.Client, resource Resource, operation string, params json.RawMessage) (any, error) {
	operations, ok := registry[resource]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}

	fn, ok := operations[operation]
	if !ok {
		return nil, fmt.Errorf("%w: %q for resource %q", ErrUnknownOperation, operation, resource)
	}

	return fn(ctx, c, params)
}

func decodeParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode operation parameters: %w", err)
	}
	return nil
}

// objectOf unwraps the single named entity from a response body.
func objectOf(response map[string]any, key string) (map[string]any, error) {
	obj, ok := response[key].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is missing %q object", key)
	}
	return obj, nil
}

// listParams are the pagination controls shared by every getAll-style
// operation.
type listParams struct {
	ReturnAll bool `json:"returnAll"`
	Limit     int  `json:"limit"`
}

// fetchList implements the shared getAll shape: delegate to the pagination
// helper when everything is wanted, otherwise issue one request with
// per_page capped at 50 and truncate client-side to the requested limit.
// Server cap and client truncation must both hold even if the server ignores
// per_page.
func fetchList(ctx context.Context, c *aircall.Client, endpoint, key string, p listParams, query url.Values) (any, error) {
	if p.ReturnAll {
		return c.RequestAllItems(ctx, http.MethodGet, endpoint, key, nil, query)
	}

	limit := p.Limit
	if limit <= 0 {
		limit = 50
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("per_page", strconv.Itoa(min(limit, 50)))

	response, err := c.Request(ctx, http.MethodGet, endpoint, nil, query)
	if err != nil {
		return nil, err
	}

	items, _ := response[key].([]any)
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
