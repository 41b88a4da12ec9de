package adapter

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/popeskul/aircall-gateway/internal/aircall"
)

var tagOperations = map[string]OperationFunc{
	"create": tagCreate,
	"get":    tagGet,
	"getAll": tagGetAll,
	"update": tagUpdate,
	"delete": tagDelete,
}

type tagIDParams struct {
	TagID string `json:"tagId"`
}

type tagOptionalFields struct {
	Color       *string `json:"color"`
	Description *string `json:"description"`
}

func (f tagOptionalFields) apply(body map[string]any) {
	if f.Color != nil {
		body["color"] = *f.Color
	}
	if f.Description != nil {
		body["description"] = *f.Description
	}
}

type tagCreateParams struct {
	Name             string            `json:"name"`
	AdditionalFields tagOptionalFields `json:"additionalFields"`
}

func tagCreate(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p tagCreateParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	body := map[string]any{}
	p.AdditionalFields.apply(body)
	body["name"] = p.Name

	response, err := c.Request(ctx, http.MethodPost, "/tags", body, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "tag")
}

func tagGet(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p tagIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	response, err := c.Request(ctx, http.MethodGet, "/tags/"+p.TagID, nil, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "tag")
}

func tagGetAll(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p listParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return fetchList(ctx, c, "/tags", "tags", p, nil)
}

type tagUpdateParams struct {
	TagID        string `json:"tagId"`
	UpdateFields struct {
		tagOptionalFields
		Name *string `json:"name"`
	} `json:"updateFields"`
}

func tagUpdate(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p tagUpdateParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	body := map[string]any{}
	p.UpdateFields.apply(body)
	if p.UpdateFields.Name != nil {
		body["name"] = *p.UpdateFields.Name
	}

	response, err := c.Request(ctx, http.MethodPut, "/tags/"+p.TagID, body, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "tag")
}

func tagDelete(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p tagIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	if _, err := c.Request(ctx, http.MethodDelete, "/tags/"+p.TagID, nil, nil); err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "tagId": p.TagID}, nil
}
