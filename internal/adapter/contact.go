package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/popeskul/aircall-gateway/internal/aircall"
)

var contactOperations = map[string]OperationFunc{
	"create": contactCreate,
	"get":    contactGet,
	"getAll": contactGetAll,
	"update": contactUpdate,
	"delete": contactDelete,
	"search": contactSearch,
}

type contactIDParams struct {
	ContactID string `json:"contactId"`
}

type phoneNumberEntry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type contactOptionalFields struct {
	CompanyName *string `json:"company_name"`
	Information *string `json:"information"`
	IsShared    *bool   `json:"is_shared"`
}

func (f contactOptionalFields) apply(body map[string]any) {
	if f.CompanyName != nil {
		body["company_name"] = *f.CompanyName
	}
	if f.Information != nil {
		body["information"] = *f.Information
	}
	if f.IsShared != nil {
		body["is_shared"] = *f.IsShared
	}
}

type contactCreateParams struct {
	FirstName        string                `json:"firstName"`
	LastName         string                `json:"lastName"`
	PhoneNumbers     []phoneNumberEntry    `json:"phoneNumbers"`
	AdditionalFields contactOptionalFields `json:"additionalFields"`
}

func contactCreate(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p contactCreateParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	body := map[string]any{}
	p.AdditionalFields.apply(body)

	if p.FirstName != "" {
		body["first_name"] = p.FirstName
	}
	if p.LastName != "" {
		body["last_name"] = p.LastName
	}

	if len(p.PhoneNumbers) > 0 {
		numbers := make([]map[string]any, 0, len(p.PhoneNumbers))
		for _, pn := range p.PhoneNumbers {
			numbers = append(numbers, map[string]any{"label": pn.Label, "value": pn.Value})
		}
		body["phone_numbers"] = numbers
	}

	response, err := c.Request(ctx, http.MethodPost, "/contacts", body, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "contact")
}

func contactGet(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p contactIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	response, err := c.Request(ctx, http.MethodGet, "/contacts/"+p.ContactID, nil, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "contact")
}

func contactGetAll(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p listParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return fetchList(ctx, c, "/contacts", "contacts", p, nil)
}

type contactUpdateParams struct {
	ContactID    string `json:"contactId"`
	UpdateFields struct {
		contactOptionalFields
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
	} `json:"updateFields"`
}

func contactUpdate(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p contactUpdateParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	body := map[string]any{}
	p.UpdateFields.apply(body)
	if p.UpdateFields.FirstName != nil {
		body["first_name"] = *p.UpdateFields.FirstName
	}
	if p.UpdateFields.LastName != nil {
		body["last_name"] = *p.UpdateFields.LastName
	}

	response, err := c.Request(ctx, http.MethodPut, "/contacts/"+p.ContactID, body, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "contact")
}

func contactDelete(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p contactIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	if _, err := c.Request(ctx, http.MethodDelete, "/contacts/"+p.ContactID, nil, nil); err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "contactId": p.ContactID}, nil
}

type contactSearchParams struct {
	listParams
	SearchQuery   string `json:"searchQuery"`
	SearchFilters struct {
		PhoneNumber string `json:"phone_number"`
		Email       string `json:"email"`
	} `json:"searchFilters"`
}

func contactSearch(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p contactSearchParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	query := url.Values{}
	if p.SearchQuery != "" {
		query.Set("query", p.SearchQuery)
	}
	if p.SearchFilters.PhoneNumber != "" {
		query.Set("phone_number", p.SearchFilters.PhoneNumber)
	}
	if p.SearchFilters.Email != "" {
		query.Set("email", p.SearchFilters.Email)
	}

	return fetchList(ctx, c, "/contacts/search", "contacts", p.listParams, query)
}
