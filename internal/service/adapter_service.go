// Package service provides business logic implementation for the application.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/popeskul/aircall-gateway/internal/adapter"
	"github.com/popeskul/aircall-gateway/internal/aircall"
	"github.com/popeskul/aircall-gateway/internal/api"
)

type adapterService struct {
	client *aircall.Client
	logger *zap.Logger
}

func NewAdapterService(client *aircall.Client, logger *zap.Logger) AdapterService {
	return &adapterService{
		client: client,
		logger: logger,
	}
}

// ExecuteBatch runs the batch strictly sequentially, one output slot per
// item. With continueOnFail an item's error is captured in its slot as
// {"error": message} and processing moves on; otherwise the first error
// aborts the batch.
func (s *adapterService) ExecuteBatch(ctx context.Context, req *api.ExecuteRequest) (*api.ExecuteResponse, error) {
	resource := adapter.Resource(req.Resource)
	results := make([]any, 0, len(req.Items))

	for i, item := range req.Items {
		output, err := adapter.Execute(ctx, s.client, resource, req.Operation, item)
		if err != nil {
			if req.ContinueOnFail {
				s.logger.Warn("Item execution failed, continuing",
					zap.String("resource", req.Resource),
					zap.String("operation", req.Operation),
					zap.Int("item", i),
					zap.Error(err))
				results = append(results, map[string]any{"error": err.Error()})
				continue
			}
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		if req.Simplify {
			output = simplifyOutput(output)
		}
		results = append(results, output)
	}

	return &api.ExecuteResponse{Results: results}, nil
}

func simplifyOutput(output any) any {
	switch v := output.(type) {
	case map[string]any:
		return aircall.Simplify(v)
	case []any:
		simplified := make([]any, 0, len(v))
		for _, item := range v {
			simplified = append(simplified, simplifyOutput(item))
		}
		return simplified
	default:
		return output
	}
}
