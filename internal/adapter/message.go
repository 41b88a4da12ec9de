package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/popeskul/aircall-gateway/internal/aircall"
)

var messageOperations = map[string]OperationFunc{
	"send":   messageSend,
	"get":    messageGet,
	"getAll": messageGetAll,
}

type messageSendParams struct {
	NumberID string `json:"numberId"`
	To       string `json:"to"`
	Content  string `json:"content"`
}

func messageSend(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p messageSendParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	response, err := c.Request(ctx, http.MethodPost, "/numbers/"+p.NumberID+"/messages", map[string]any{
		"to":      p.To,
		"content": p.Content,
	}, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "message")
}

type messageIDParams struct {
	MessageID string `json:"messageId"`
}

func messageGet(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p messageIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	response, err := c.Request(ctx, http.MethodGet, "/messages/"+p.MessageID, nil, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "message")
}

type messageListParams struct {
	listParams
	Filters struct {
		Direction string `json:"direction"`
		NumberID  string `json:"number_id"`
	} `json:"filters"`
}

func messageGetAll(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p messageListParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	query := url.Values{}
	if p.Filters.Direction != "" {
		query.Set("direction", p.Filters.Direction)
	}
	if p.Filters.NumberID != "" {
		query.Set("number_id", p.Filters.NumberID)
	}

	return fetchList(ctx, c, "/messages", "messages", p.listParams, query)
}
