package adapter_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/popeskul/aircall-gateway/internal/adapter"
	"github.com/popeskul/aircall-gateway/internal/aircall"
)

// recordedRequest captures one upstream call for assertions.
type recordedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Body   map[string]any
}

// fakeUpstream serves canned JSON per path and records every request.
type fakeUpstream struct {
	t         *testing.T
	responses map[string]string
	requests  []recordedRequest
}

func newFakeUpstream(t *testing.T, responses map[string]string) (*fakeUpstream, *aircall.Client) {
	t.Helper()

	upstream := &fakeUpstream{t: t, responses: responses}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
		}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			require.NoError(t, json.Unmarshal(data, &rec.Body))
		}
		upstream.requests = append(upstream.requests, rec)

		if body, ok := upstream.responses[r.URL.Path]; ok {
			_, _ = w.Write([]byte(body))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	client := aircall.NewClient(aircall.Options{
		BaseURL:  server.URL,
		APIID:    "test-id",
		APIToken: "test-token",
		Breaker: aircall.BreakerSettings{
			MaxRequests:      3,
			FailureRatio:     0.6,
			ConsecutiveFails: 5,
		},
	}, zap.NewNop())

	return upstream, client
}

func (f *fakeUpstream) lastRequest() recordedRequest {
	require.NotEmpty(f.t, f.requests)
	return f.requests[len(f.requests)-1]
}

func TestExecute_UnknownResource(t *testing.T) {
	_, client := newFakeUpstream(t, nil)

	_, err := adapter.Execute(context.Background(), client, "invoice", "get", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, adapter.ErrUnknownResource))
}

func TestExecute_UnknownOperation(t *testing.T) {
	_, client := newFakeUpstream(t, nil)

	_, err := adapter.Execute(context.Background(), client, adapter.ResourceCall, "explode", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, adapter.ErrUnknownOperation))
}

func TestCallGet(t *testing.T) {
	upstream, client := newFakeUpstream(t, map[string]string{
		"/calls/42": `{"call":{"id":42,"direction":"inbound"}}`,
	})

	result, err := adapter.Execute(context.Background(), client, adapter.ResourceCall, "get",
		json.RawMessage(`{"callId":"42"}`))

	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, upstream.lastRequest().Method)

	call, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(42), call["id"])
}

func TestCallGetAll_Filters(t *testing.T) {
	upstream, client := newFakeUpstream(t, map[string]string{
		"/calls": `{"calls":[{"id":1}]}`,
	})

	_, err := adapter.Execute(context.Background(), client, adapter.ResourceCall, "getAll",
		json.RawMessage(`{
			"limit": 10,
			"filters": {
				"direction": "inbound",
				"from": "2024-01-15",
				"tags": "support, urgent"
			}
		}`))

	require.NoError(t, err)

	query := upstream.lastRequest().Query
	assert.Equal(t, "inbound", query["direction"][0])
	assert.Equal(t, "1705276800", query["from"][0])
	assert.Equal(t, []string{"support", "urgent"}, query["tags"])
	assert.Equal(t, "10", query["per_page"][0])
}

func TestCallGetAll_InvalidDateFilter(t *testing.T) {
	_, client := newFakeUpstream(t, nil)

	_, err := adapter.Execute(context.Background(), client, adapter.ResourceCall, "getAll",
		json.RawMessage(`{"filters":{"from":"yesterday"}}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid 'from' date")
}

func TestCallGetAll_LimitTruncation(t *testing.T) {
	_, client := newFakeUpstream(t, map[string]string{
		"/calls": `{"calls":[{"id":1},{"id":2},{"id":3},{"id":4},{"id":5},{"id":6}]}`,
	})

	result, err := adapter.Execute(context.Background(), client, adapter.ResourceCall, "getAll",
		json.RawMessage(`{"limit": 3}`))

	require.NoError(t, err)

	items, ok := result.([]any)
	require.True(t, ok)
	assert.Len(t, items, 3, "items beyond the limit must be discarded even when the server ignores per_page")
}

func TestCallGetAll_ReturnAll(t *testing.T) {
	upstream, client := newFakeUpstream(t, map[string]string{
		"/calls": `{"calls":[{"id":1},{"id":2}],"meta":{}}`,
	})

	result, err := adapter.Execute(context.Background(), client, adapter.ResourceCall, "getAll",
		json.RawMessage(`{"returnAll": true}`))

	require.NoError(t, err)
	assert.Equal(t, "50", upstream.lastRequest().Query["per_page"][0])

	items, ok := result.([]any)
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestCallTransfer(t *testing.T) {
	tests := []struct {
		name     string
		params   string
		wantBody map[string]any
		wantErr  bool
	}{
		{
			name:     "transfer to user",
			params:   `{"callId":"9","transferTo":"user","transferUserId":"101"}`,
			wantBody: map[string]any{"user_id": "101"},
		},
		{
			name:     "transfer to number",
			params:   `{"callId":"9","transferTo":"number","transferNumberId":"202"}`,
			wantBody: map[string]any{"number_id": "202"},
		},
		{
			name:    "invalid target",
			params:  `{"callId":"9","transferTo":"team"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream, client := newFakeUpstream(t, map[string]string{
				"/calls/9/transfers": `{"call":{"id":9}}`,
			})

			_, err := adapter.Execute(context.Background(), client, adapter.ResourceCall, "transfer",
				json.RawMessage(tt.params))

			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, upstream.requests, "a rejected transfer must not reach the API")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, upstream.lastRequest().Body)
		})
	}
}

func TestCallDelete(t *testing.T) {
	upstream, client := newFakeUpstream(t, nil)

	result, err := adapter.Execute(context.Background(), client, adapter.ResourceCall, "delete",
		json.RawMessage(`{"callId":"55"}`))

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, upstream.lastRequest().Method)
	assert.Equal(t, "/calls/55", upstream.lastRequest().Path)
	assert.Equal(t, map[string]any{"success": true, "callId": "55"}, result)
}

func TestCallGetRecording(t *testing.T) {
	_, client := newFakeUpstream(t, map[string]string{
		"/calls/7": `{"call":{"id":7,"recording":"https://media.example/rec.mp3","asset":"","voicemail":null}}`,
	})

	result, err := adapter.Execute(context.Background(), client, adapter.ResourceCall, "getRecording",
		json.RawMessage(`{"callId":"7"}`))

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"callId":    "7",
		"recording": "https://media.example/rec.mp3",
		"asset":     nil,
		"voicemail": nil,
	}, result)
}

func TestTeamCreate_UserIDParsing(t *testing.T) {
	tests := []struct {
		name     string
		params   string
		wantBody map[string]any
	}{
		{
			name:     "numeric ids are converted",
			params:   `{"name":"Support","additionalFields":{"users":"1, 2, 3"}}`,
			wantBody: map[string]any{"name": "Support", "users": []any{float64(1), float64(2), float64(3)}},
		},
		{
			name:     "non-numeric segments are dropped silently",
			params:   `{"name":"Support","additionalFields":{"users":"1, bogus, 3"}}`,
			wantBody: map[string]any{"name": "Support", "users": []any{float64(1), float64(3)}},
		},
		{
			name:     "all-invalid list omits users entirely",
			params:   `{"name":"Support","additionalFields":{"users":"a, b"}}`,
			wantBody: map[string]any{"name": "Support"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream, client := newFakeUpstream(t, map[string]string{
				"/teams": `{"team":{"id":1,"name":"Support"}}`,
			})

			_, err := adapter.Execute(context.Background(), client, adapter.ResourceTeam, "create",
				json.RawMessage(tt.params))

			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, upstream.lastRequest().Body)
		})
	}
}

func TestTeamAddUser_NonNumericIDFails(t *testing.T) {
	upstream, client := newFakeUpstream(t, nil)

	_, err := adapter.Execute(context.Background(), client, adapter.ResourceTeam, "addUser",
		json.RawMessage(`{"teamId":"4","userId":"bogus"}`))

	require.Error(t, err)
	assert.Empty(t, upstream.requests)
}

func TestWebhookCreate_CustomHeaders(t *testing.T) {
	upstream, client := newFakeUpstream(t, map[string]string{
		"/webhooks": `{"webhook":{"id":88,"url":"https://example.com/hook"}}`,
	})

	_, err := adapter.Execute(context.Background(), client, adapter.ResourceWebhook, "create",
		json.RawMessage(`{
			"url": "https://example.com/hook",
			"events": ["call.created"],
			"additionalFields": {
				"customHeaders": [
					{"name": "X-Env", "value": "prod"},
					{"name": "X-Team", "value": "ops"}
				],
				"token": "secret"
			}
		}`))

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"url":    "https://example.com/hook",
		"events": []any{"call.created"},
		"custom_headers": map[string]any{
			"X-Env":  "prod",
			"X-Team": "ops",
		},
		"token": "secret",
	}, upstream.lastRequest().Body)
}

func TestUserSetAvailability_CustomMessage(t *testing.T) {
	tests := []struct {
		name     string
		params   string
		wantBody map[string]any
	}{
		{
			name:     "custom status carries the message",
			params:   `{"userId":"3","availabilityStatus":"custom","customMessage":"lunch"}`,
			wantBody: map[string]any{"availability_status": "custom", "custom_message": "lunch"},
		},
		{
			name:     "non-custom status drops the message",
			params:   `{"userId":"3","availabilityStatus":"available","customMessage":"lunch"}`,
			wantBody: map[string]any{"availability_status": "available"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream, client := newFakeUpstream(t, map[string]string{
				"/users/3/availability": `{"user":{"id":3}}`,
			})

			_, err := adapter.Execute(context.Background(), client, adapter.ResourceUser, "setAvailability",
				json.RawMessage(tt.params))

			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, upstream.lastRequest().Body)
		})
	}
}

func TestIntegrationLink_ValidatesLinkType(t *testing.T) {
	upstream, client := newFakeUpstream(t, nil)

	_, err := adapter.Execute(context.Background(), client, adapter.ResourceIntegration, "link",
		json.RawMessage(`{"callId":"1","integrationId":"2","linkType":"Invoice","linkValue":"x"}`))

	require.Error(t, err)
	assert.Empty(t, upstream.requests)
}

func TestMessageSend(t *testing.T) {
	upstream, client := newFakeUpstream(t, map[string]string{
		"/numbers/12/messages": `{"message":{"id":"m1","content":"hi"}}`,
	})

	result, err := adapter.Execute(context.Background(), client, adapter.ResourceMessage, "send",
		json.RawMessage(`{"numberId":"12","to":"+33600000000","content":"hi"}`))

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"to": "+33600000000", "content": "hi"}, upstream.lastRequest().Body)

	message, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "m1", message["id"])
}

func TestCompanyGet(t *testing.T) {
	_, client := newFakeUpstream(t, map[string]string{
		"/company": `{"company":{"name":"acme","users_count":5}}`,
	})

	result, err := adapter.Execute(context.Background(), client, adapter.ResourceCompany, "get", nil)

	require.NoError(t, err)
	company, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "acme", company["name"])
}

func TestObjectUnwrap_MissingKey(t *testing.T) {
	_, client := newFakeUpstream(t, map[string]string{
		"/calls/1": `{"unexpected":{}}`,
	})

	_, err := adapter.Execute(context.Background(), client, adapter.ResourceCall, "get",
		json.RawMessage(`{"callId":"1"}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing "call"`)
}
