package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/popeskul/aircall-gateway/internal/aircall"
)

var integrationOperations = map[string]OperationFunc{
	"getAll": integrationGetAll,
	"link":   integrationLink,
	"unlink": integrationUnlink,
}

// linkTypes are the external-system record categories a call can be linked to.
var linkTypes = map[string]bool{
	"Contact":     true,
	"Lead":        true,
	"Account":     true,
	"Opportunity": true,
	"Ticket":      true,
	"Case":        true,
	"Deal":        true,
	"Custom":      true,
}

func integrationGetAll(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p listParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return fetchList(ctx, c, "/integrations", "integrations", p, nil)
}

type integrationLinkParams struct {
	CallID        string `json:"callId"`
	IntegrationID string `json:"integrationId"`
	LinkType      string `json:"linkType"`
	LinkValue     string `json:"linkValue"`
	LinkURL       string `json:"linkUrl"`
}

func integrationLink(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p integrationLinkParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	if !linkTypes[p.LinkType] {
		return nil, fmt.Errorf("invalid linkType %q", p.LinkType)
	}

	body := map[string]any{
		"link_type":  p.LinkType,
		"link_value": p.LinkValue,
	}
	if p.LinkURL != "" {
		body["link"] = p.LinkURL
	}

	return c.Request(ctx, http.MethodPost, "/calls/"+p.CallID+"/integrations/"+p.IntegrationID, body, nil)
}

type integrationUnlinkParams struct {
	CallID        string `json:"callId"`
	IntegrationID string `json:"integrationId"`
}

func integrationUnlink(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p integrationUnlinkParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	if _, err := c.Request(ctx, http.MethodDelete, "/calls/"+p.CallID+"/integrations/"+p.IntegrationID, nil, nil); err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "callId": p.CallID, "integrationId": p.IntegrationID}, nil
}
