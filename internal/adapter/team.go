package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/popeskul/aircall-gateway/internal/aircall"
)

var teamOperations = map[string]OperationFunc{
	"create":     teamCreate,
	"get":        teamGet,
	"getAll":     teamGetAll,
	"update":     teamUpdate,
	"delete":     teamDelete,
	"addUser":    teamAddUser,
	"removeUser": teamRemoveUser,
}

type teamIDParams struct {
	TeamID string `json:"teamId"`
}

type teamCreateParams struct {
	Name             string `json:"name"`
	AdditionalFields struct {
		Users string `json:"users"`
	} `json:"additionalFields"`
}

// parseUserIDs converts a comma-separated ID list into integers, silently
// dropping segments that are not numeric.
func parseUserIDs(csv string) []int {
	var ids []int
	for _, segment := range strings.Split(csv, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(segment))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func teamCreate(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p teamCreateParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	body := map[string]any{"name": p.Name}

	if p.AdditionalFields.Users != "" {
		if ids := parseUserIDs(p.AdditionalFields.Users); len(ids) > 0 {
			body["users"] = ids
		}
	}

	response, err := c.Request(ctx, http.MethodPost, "/teams", body, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "team")
}

func teamGet(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p teamIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	response, err := c.Request(ctx, http.MethodGet, "/teams/"+p.TeamID, nil, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "team")
}

func teamGetAll(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p listParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return fetchList(ctx, c, "/teams", "teams", p, nil)
}

type teamUpdateParams struct {
	TeamID       string `json:"teamId"`
	UpdateFields struct {
		Name *string `json:"name"`
	} `json:"updateFields"`
}

func teamUpdate(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p teamUpdateParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	body := map[string]any{}
	if p.UpdateFields.Name != nil {
		body["name"] = *p.UpdateFields.Name
	}

	response, err := c.Request(ctx, http.MethodPut, "/teams/"+p.TeamID, body, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "team")
}

func teamDelete(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p teamIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	if _, err := c.Request(ctx, http.MethodDelete, "/teams/"+p.TeamID, nil, nil); err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "teamId": p.TeamID}, nil
}

type teamUserParams struct {
	TeamID string `json:"teamId"`
	UserID string `json:"userId"`
}

func teamAddUser(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p teamUserParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	userID, err := strconv.Atoi(strings.TrimSpace(p.UserID))
	if err != nil {
		return nil, fmt.Errorf("userId must be numeric: %w", err)
	}

	response, err := c.Request(ctx, http.MethodPost, "/teams/"+p.TeamID+"/users", map[string]any{
		"user_id": userID,
	}, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "team")
}

func teamRemoveUser(ctx context.Context, c *aircall.Client, params json.RawMessage) (any, error) {
	var p teamUserParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	response, err := c.Request(ctx, http.MethodDelete, "/teams/"+p.TeamID+"/users/"+p.UserID, nil, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "team")
}
