package adapter

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/popeskul/aircall-gateway/internal/aircall"
)

var companyOperations = map[string]OperationFunc{
	"get": companyGet,
}

func companyGet(ctx context.Context, c *aircall.Client, _ json.RawMessage) (any, error) {
	response, err := c.Request(ctx, http.MethodGet, "/company", nil, nil)
	if err != nil {
		return nil, err
	}
	return objectOf(response, "company")
}
