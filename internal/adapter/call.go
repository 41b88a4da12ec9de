package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/popeskul/aircall-gateway/internal/aircall"
)

var callOperations = map[string]OperationFunc{
	"get":          callGet,
	"getAll":       callGetAll,
	"search":       callSearch,
	"delete":       callDelete,
	"addComment":   callAddComment,
	"addTag":       callAddTag,
	"removeTag":    callRemoveTag,
	"link":         callLink,
	"transfer":     callTransfer,
	"getInsights":  callGetInsights,
	"getRecording": callGetRecording,
}

// callFilters are the optional list filters shared by getAll and search.
type callFilters struct {
	Direction string `json:"direction"`
	From      string `json:"from"`
	To        string `json:"to"`
	Tags      string `json:"tags"`
	UserID    string `json:"user_id"`
	NumberID  string `json:"number_id"`
}

func (f callFilters) query() (url.Values, error) {
	query := url.Values{}

	if f.Direction != "" {
		query.Set("direction", f.Direction)
	}
	if f.UserID != "" {
		query.Set("user_id", f.UserID)
	}
	if f.NumberID != "" {
		query.Set("number_id", f.NumberID)
	}

	dateFilter, err := aircall.BuildDateFilter(f.From, f.To)
	if err != nil {
		return nil, err
	}
	dateFilter.Apply(query)

	for _, tag := range aircall.ParseTagsFilter(f.Tags) {
		query.Add("tags", tag)
	}

	return query, nil
}

type callIDParams struct {
	CallID string `json:"callId"`
}

func callGet(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p callIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	response, err := c.Request(ctx, http.MethodGet, "/calls/"+p.CallID, nil, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "call")
}

type callListRequest struct {
	listParams
	Filters callFilters `json:"filters"`
}

func callGetAll(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p callListRequest
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	query, err := p.Filters.query()
	if err != nil {
		return nil, err
	}
	return fetchList(ctx, c, "/calls", "calls", p.listParams, query)
}

func callSearch(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p callListRequest
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	query, err := p.Filters.query()
	if err != nil {
		return nil, err
	}
	return fetchList(ctx, c, "/calls/search", "calls", p.listParams, query)
}

func callDelete(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p callIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	// The API returns no useful body on delete; it is discarded.
	if _, err := c.Request(ctx, http.MethodDelete, "/calls/"+p.CallID, nil, nil); err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "callId": p.CallID}, nil
}

type callCommentParams struct {
	CallID  string `json:"callId"`
	Comment string `json:"comment"`
}

func callAddComment(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p callCommentParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	return c.Request(ctx, http.MethodPost, "/calls/"+p.CallID+"/comments", map[string]any{
		"content": p.Comment,
	}, nil)
}

type callTagParams struct {
	CallID string `json:"callId"`
	TagID  string `json:"tagId"`
}

func callAddTag(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p callTagParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	response, err := c.Request(ctx, http.MethodPost, "/calls/"+p.CallID+"/tags", map[string]any{
		"tag_id": p.TagID,
	}, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "call")
}

func callRemoveTag(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p callTagParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	response, err := c.Request(ctx, http.MethodDelete, "/calls/"+p.CallID+"/tags/"+p.TagID, nil, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "call")
}

type callLinkParams struct {
	CallID  string `json:"callId"`
	LinkURL string `json:"linkUrl"`
}

func callLink(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p callLinkParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	response, err := c.Request(ctx, http.MethodPost, "/calls/"+p.CallID+"/link", map[string]any{
		"link": p.LinkURL,
	}, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "call")
}

type callTransferParams struct {
	CallID           string `json:"callId"`
	TransferTo       string `json:"transferTo"`
	TransferUserID   string `json:"transferUserId"`
	TransferNumberID string `json:"transferNumberId"`
}

func callTransfer(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p callTransferParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	// user_id and number_id are mutually exclusive, selected by transferTo.
	body := map[string]any{}
	switch p.TransferTo {
	case "user":
		body["user_id"] = p.TransferUserID
	case "number":
		body["number_id"] = p.TransferNumberID
	default:
		return nil, fmt.Errorf("transferTo must be %q or %q, got %q", "user", "number", p.TransferTo)
	}

	response, err := c.Request(ctx, http.MethodPost, "/calls/"+p.CallID+"/transfers", body, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "call")
}

func callGetInsights(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p callIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	return c.Request(ctx, http.MethodGet, "/calls/"+p.CallID+"/insights", nil, nil)
}

func callGetRecording(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p callIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	response, err := c.Request(ctx, http.MethodGet, "/calls/"+p.CallID, nil, nil)
	if err != nil {
		return nil, err
	}
	call, err := objectOf(response, "call")
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"callId":    p.CallID,
		"recording": orNil(call["recording"]),
		"asset":     orNil(call["asset"]),
		"voicemail": orNil(call["voicemail"]),
	}, nil
}

func orNil(v any) any {
	if v == nil || v == "" {
		return nil
	}
	return v
}
