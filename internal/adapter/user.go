package adapter

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/popeskul/aircall-gateway/internal/aircall"
)

var userOperations = map[string]OperationFunc{
	"create":            userCreate,
	"get":               userGet,
	"getAll":            userGetAll,
	"update":            userUpdate,
	"delete":            userDelete,
	"getAvailability":   userGetAvailability,
	"setAvailability":   userSetAvailability,
	"startOutboundCall": userStartOutboundCall,
	"dialNumber":        userDialNumber,
}

type userIDParams struct {
	UserID string `json:"userId"`
}

// userOptionalFields are the optional creation fields; each is independently
// nullable and only set keys reach the wire.
type userOptionalFields struct {
	Available  *bool   `json:"available"`
	IsAdmin    *bool   `json:"is_admin"`
	Language   *string `json:"language"`
	TimeZone   *string `json:"time_zone"`
	WrapUpTime *int    `json:"wrap_up_time"`
}

func (f userOptionalFields) apply(body map[string]any) {
	if f.Available != nil {
		body["available"] = *f.Available
	}
	if f.IsAdmin != nil {
		body["is_admin"] = *f.IsAdmin
	}
	if f.Language != nil {
		body["language"] = *f.Language
	}
	if f.TimeZone != nil {
		body["time_zone"] = *f.TimeZone
	}
	if f.WrapUpTime != nil {
		body["wrap_up_time"] = *f.WrapUpTime
	}
}

type userCreateParams struct {
	Email            string             `json:"email"`
	FirstName        string             `json:"firstName"`
	LastName         string             `json:"lastName"`
	AdditionalFields userOptionalFields `json:"additionalFields"`
}

func userCreate(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p userCreateParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	body := map[string]any{}
	p.AdditionalFields.apply(body)
	// Explicit fields override optional ones on key collision.
	body["email"] = p.Email
	body["first_name"] = p.FirstName
	body["last_name"] = p.LastName

	response, err := c.Request(ctx, http.MethodPost, "/users", body, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "user")
}

func userGet(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p userIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	response, err := c.Request(ctx, http.MethodGet, "/users/"+p.UserID, nil, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "user")
}

func userGetAll(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p listParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return fetchList(ctx, c, "/users", "users", p, nil)
}

type userUpdateParams struct {
	UserID       string `json:"userId"`
	UpdateFields struct {
		userOptionalFields
		Email     *string `json:"email"`
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
	} `json:"updateFields"`
}

func userUpdate(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p userUpdateParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	body := map[string]any{}
	p.UpdateFields.apply(body)
	if p.UpdateFields.Email != nil {
		body["email"] = *p.UpdateFields.Email
	}
	if p.UpdateFields.FirstName != nil {
		body["first_name"] = *p.UpdateFields.FirstName
	}
	if p.UpdateFields.LastName != nil {
		body["last_name"] = *p.UpdateFields.LastName
	}

	response, err := c.Request(ctx, http.MethodPut, "/users/"+p.UserID, body, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "user")
}

func userDelete(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p userIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	if _, err := c.Request(ctx, http.MethodDelete, "/users/"+p.UserID, nil, nil); err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "userId": p.UserID}, nil
}

func userGetAvailability(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p userIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	return c.Request(ctx, http.MethodGet, "/users/"+p.UserID+"/availability", nil, nil)
}

type userAvailabilityParams struct {
	UserID             string `json:"userId"`
	AvailabilityStatus string `json:"availabilityStatus"`
	CustomMessage      string `json:"customMessage"`
}

func userSetAvailability(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p userAvailabilityParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	body := map[string]any{"availability_status": p.AvailabilityStatus}

	// custom_message is only meaningful for the custom status.
	if p.AvailabilityStatus == "custom" && p.CustomMessage != "" {
		body["custom_message"] = p.CustomMessage
	}

	response, err := c.Request(ctx, http.MethodPut, "/users/"+p.UserID+"/availability", body, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "user")
}

type userCallParams struct {
	UserID      string `json:"userId"`
	PhoneNumber string `json:"phoneNumber"`
	NumberID    string `json:"numberId"`
}

func userStartOutboundCall(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p userCallParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	return c.Request(ctx, http.MethodPost, "/users/"+p.UserID+"/calls", map[string]any{
		"number_id": p.NumberID,
		"to":        p.PhoneNumber,
	}, nil)
}

func userDialNumber(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p userCallParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	return c.Request(ctx, http.MethodPost, "/users/"+p.UserID+"/dial", map[string]any{
		"to": p.PhoneNumber,
	}, nil)
}
