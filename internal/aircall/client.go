// Package aircall implements the HTTP transport for the Aircall REST API:
// authenticated single requests, cursor-style pagination, and the filter
// helpers shared by the resource dispatchers.
package aircall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the production Aircall API endpoint.
const DefaultBaseURL = "https://api.aircall.io/v1"

// Options configures a Client.
type Options struct {
	BaseURL  string
	APIID    string
	APIToken string
	Timeout  time.Duration
	// MaxPages caps "fetch all" pagination; 0 means unbounded.
	MaxPages int
	Breaker  BreakerSettings
}

// Client issues authenticated requests against the Aircall API.
type Client struct {
	baseURL    string
	apiID      string
	apiToken   string
	maxPages   int
	httpClient *http.Client
	breaker    *breaker
	logger     *zap.Logger
}

func NewClient(opts Options, logger *zap.Logger) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		apiID:      opts.APIID,
		apiToken:   opts.APIToken,
		maxPages:   opts.MaxPages,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    newBreaker(opts.Breaker, logger),
		logger:     logger,
	}
}

// Request issues a single authenticated request and decodes the JSON
// response. Body and query are omitted from the outgoing request when empty;
// the API rejects empty-object bodies on some verbs. A 2xx response with an
// empty body (DELETE) yields an empty map. Every failure is wrapped into
// *APIError and returned, never swallowed.
func (c *Client) Request(ctx context.Context, method, endpoint string, body map[string]any, query url.Values) (map[string]any, error) {
	return c.breaker.execute(func() (map[string]any, error) {
		return c.do(ctx, method, endpoint, body, query)
	})
}

func (c *Client) do(ctx context.Context, method, endpoint string, body map[string]any, query url.Values) (map[string]any, error) {
	requestURL := c.baseURL + endpoint
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if len(body) > 0 {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &APIError{Message: fmt.Sprintf("marshal request body: %v", err), Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reqBody)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("create request: %v", err), Err: err}
	}

	req.SetBasicAuth(c.apiID, c.apiToken)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("send request: %v", err), Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close response body", zap.Error(err))
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("read response: %v", err), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return map[string]any{}, nil
	}

	var result map[string]any
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("malformed JSON response: %v", err), Err: err}
	}

	return result, nil
}

// VerifyCredentials checks the configured API ID/token against /company.
func (c *Client) VerifyCredentials(ctx context.Context) error {
	_, err := c.Request(ctx, http.MethodGet, "/company", nil, nil)
	return err
}

// BreakerState reports the transport circuit breaker state for health checks.
func (c *Client) BreakerState() BreakerState {
	return c.breaker.state()
}

// BreakerCounts reports the transport circuit breaker counters.
func (c *Client) BreakerCounts() (requests, failures uint32) {
	return c.breaker.counts()
}
