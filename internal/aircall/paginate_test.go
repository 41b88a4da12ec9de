package aircall_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/popeskul/aircall-gateway/internal/aircall"
)

// pagedServer serves /calls in pages of two items, advertising
// meta.next_page_link until the last page.
func pagedServer(t *testing.T, totalPages int) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		if page == "" {
			page = "1"
		}

		var pageNum int
		_, err := fmt.Sscanf(page, "%d", &pageNum)
		require.NoError(t, err)

		response := map[string]any{
			"calls": []any{
				map[string]any{"id": (pageNum-1)*2 + 1},
				map[string]any{"id": (pageNum-1)*2 + 2},
			},
			"meta": map[string]any{},
		}
		if pageNum < totalPages {
			response["meta"] = map[string]any{
				"next_page_link": fmt.Sprintf("/calls?page=%d", pageNum+1),
			}
		}

		_ = json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(server.Close)

	return server
}

func newPaginatingClient(t *testing.T, baseURL string, maxPages int) *aircall.Client {
	t.Helper()

	return aircall.NewClient(aircall.Options{
		BaseURL:  baseURL,
		APIID:    "test-id",
		APIToken: "test-token",
		MaxPages: maxPages,
		Breaker: aircall.BreakerSettings{
			MaxRequests:      3,
			FailureRatio:     0.6,
			ConsecutiveFails: 5,
		},
	}, zap.NewNop())
}

func TestRequestAllItems_ConcatenatesPages(t *testing.T) {
	server := pagedServer(t, 3)
	client := newPaginatingClient(t, server.URL, 0)

	items, err := client.RequestAllItems(context.Background(), http.MethodGet, "/calls", "calls", nil, nil)

	require.NoError(t, err)
	require.Len(t, items, 6)

	for i, item := range items {
		call, ok := item.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(i+1), call["id"], "server order must be preserved")
	}
}

func TestRequestAllItems_SetsPaginationQuery(t *testing.T) {
	var pages []string
	var perPages []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages = append(pages, r.URL.Query().Get("page"))
		perPages = append(perPages, r.URL.Query().Get("per_page"))

		response := map[string]any{"calls": []any{}, "meta": map[string]any{}}
		if len(pages) < 2 {
			response["meta"] = map[string]any{"next_page_link": "more"}
		}
		_ = json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(server.Close)

	client := newPaginatingClient(t, server.URL, 0)

	_, err := client.RequestAllItems(context.Background(), http.MethodGet, "/calls", "calls", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, pages)
	assert.Equal(t, []string{"50", "50"}, perPages)
}

func TestRequestAllItems_MissingProperty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meta":{}}`))
	}))
	t.Cleanup(server.Close)

	client := newPaginatingClient(t, server.URL, 0)

	items, err := client.RequestAllItems(context.Background(), http.MethodGet, "/calls", "calls", nil, nil)

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRequestAllItems_StopsOnEmptyNextPageLink(t *testing.T) {
	var requests int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(`{"calls":[{"id":1}],"meta":{"next_page_link":""}}`))
	}))
	t.Cleanup(server.Close)

	client := newPaginatingClient(t, server.URL, 0)

	items, err := client.RequestAllItems(context.Background(), http.MethodGet, "/calls", "calls", nil, nil)

	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, requests)
}

func TestRequestAllItems_PageLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Always advertises another page.
		_, _ = w.Write([]byte(`{"calls":[{"id":1}],"meta":{"next_page_link":"more"}}`))
	}))
	t.Cleanup(server.Close)

	client := newPaginatingClient(t, server.URL, 2)

	_, err := client.RequestAllItems(context.Background(), http.MethodGet, "/calls", "calls", nil, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, aircall.ErrPaginationLimit))
}

func TestRequestAllItems_PropagatesRequestErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"forbidden"}`))
	}))
	t.Cleanup(server.Close)

	client := newPaginatingClient(t, server.URL, 0)

	_, err := client.RequestAllItems(context.Background(), http.MethodGet, "/calls", "calls", nil, nil)

	require.Error(t, err)

	var apiErr *aircall.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}
