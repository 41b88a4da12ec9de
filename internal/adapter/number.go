package adapter

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/popeskul/aircall-gateway/internal/aircall"
)

var numberOperations = map[string]OperationFunc{
	"get":         numberGet,
	"getAll":      numberGetAll,
	"update":      numberUpdate,
	"getMessages": numberGetMessages,
	"getMusic":    numberGetMusic,
}

type numberIDParams struct {
	NumberID string `json:"numberId"`
}

func numberGet(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p numberIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	response, err := c.Request(ctx, http.MethodGet, "/numbers/"+p.NumberID, nil, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "number")
}

func numberGetAll(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p listParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return fetchList(ctx, c, "/numbers", "numbers", p, nil)
}

type numberUpdateParams struct {
	NumberID     string `json:"numberId"`
	UpdateFields struct {
		Name                   *string `json:"name"`
		Open                   *bool   `json:"open"`
		LiveRecordingActivated *bool   `json:"live_recording_activated"`
		WelcomeMessage         *string `json:"welcome_message"`
		WaitingMessage         *string `json:"waiting_message"`
		VoicemailMessage       *string `json:"voicemail_message"`
		ClosedMessage          *string `json:"closed_message"`
	} `json:"updateFields"`
}

func numberUpdate(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p numberUpdateParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	body := map[string]any{}
	f := p.UpdateFields
	if f.Name != nil {
		body["name"] = *f.Name
	}
	if f.Open != nil {
		body["open"] = *f.Open
	}
	if f.LiveRecordingActivated != nil {
		body["live_recording_activated"] = *f.LiveRecordingActivated
	}
	if f.WelcomeMessage != nil {
		body["welcome_message"] = *f.WelcomeMessage
	}
	if f.WaitingMessage != nil {
		body["waiting_message"] = *f.WaitingMessage
	}
	if f.VoicemailMessage != nil {
		body["voicemail_message"] = *f.VoicemailMessage
	}
	if f.ClosedMessage != nil {
		body["closed_message"] = *f.ClosedMessage
	}

	response, err := c.Request(ctx, http.MethodPut, "/numbers/"+p.NumberID, body, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "number")
}

type numberMessagesParams struct {
	listParams
	NumberID string `json:"numberId"`
}

func numberGetMessages(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p numberMessagesParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return fetchList(ctx, c, "/numbers/"+p.NumberID+"/messages", "messages", p.listParams, nil)
}

func numberGetMusic(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p numberIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	return c.Request(ctx, http.MethodGet, "/numbers/"+p.NumberID+"/music", nil, nil)
}
