package adapter

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/popeskul/aircall-gateway/internal/aircall"
)

var webhookOperations = map[string]OperationFunc{
	"create": webhookCreate,
	"get":    webhookGet,
	"getAll": webhookGetAll,
	"update": webhookUpdate,
	"delete": webhookDelete,
}

type webhookIDParams struct {
	WebhookID string `json:"webhookId"`
}

type customHeaderEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// flattenHeaders converts the header list into the flat name→value map the
// API expects.
func flattenHeaders(entries []customHeaderEntry) map[string]string {
	headers := make(map[string]string, len(entries))
	for _, entry := range entries {
		headers[entry.Name] = entry.Value
	}
	return headers
}

type webhookCreateParams struct {
	URL              string   `json:"url"`
	Events           []string `json:"events"`
	AdditionalFields struct {
		CustomHeaders []customHeaderEntry `json:"customHeaders"`
		Token         *string             `json:"token"`
	} `json:"additionalFields"`
}

func webhookCreate(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p webhookCreateParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	body := map[string]any{
		"url":    p.URL,
		"events": p.Events,
	}

	if len(p.AdditionalFields.CustomHeaders) > 0 {
		body["custom_headers"] = flattenHeaders(p.AdditionalFields.CustomHeaders)
	}
	if p.AdditionalFields.Token != nil && *p.AdditionalFields.Token != "" {
		body["token"] = *p.AdditionalFields.Token
	}

	response, err := c.Request(ctx, http.MethodPost, "/webhooks", body, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "webhook")
}

func webhookGet(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p webhookIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	response, err := c.Request(ctx, http.MethodGet, "/webhooks/"+p.WebhookID, nil, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "webhook")
}

func webhookGetAll(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p listParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return fetchList(ctx, c, "/webhooks", "webhooks", p, nil)
}

type webhookUpdateParams struct {
	WebhookID    string `json:"webhookId"`
	UpdateFields struct {
		URL           *string             `json:"url"`
		Events        []string            `json:"events"`
		Active        *bool               `json:"active"`
		Token         *string             `json:"token"`
		CustomHeaders []customHeaderEntry `json:"customHeaders"`
	} `json:"updateFields"`
}

func webhookUpdate(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p webhookUpdateParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	body := map[string]any{}
	f := p.UpdateFields
	if f.URL != nil {
		body["url"] = *f.URL
	}
	if len(f.Events) > 0 {
		body["events"] = f.Events
	}
	if f.Active != nil {
		body["active"] = *f.Active
	}
	if f.Token != nil {
		body["token"] = *f.Token
	}
	if len(f.CustomHeaders) > 0 {
		body["custom_headers"] = flattenHeaders(f.CustomHeaders)
	}

	response, err := c.Request(ctx, http.MethodPut, "/webhooks/"+p.WebhookID, body, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "webhook")
}

func webhookDelete(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p webhookIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	if _, err := c.Request(ctx, http.MethodDelete, "/webhooks/"+p.WebhookID, nil, nil); err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "webhookId": p.WebhookID}, nil
}
