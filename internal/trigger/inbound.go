package trigger

// RejectionMarker is the response body sent back when an inbound delivery
// fails token verification.
const RejectionMarker = "Invalid token"

// Event is the normalized record produced from one inbound webhook delivery.
// It is ephemeral: validated, forwarded, never persisted.
type Event struct {
	Event     string         `json:"event"`
	Resource  string         `json:"resource"`
	Timestamp int64          `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// VerifyToken compares the configured shared secret against the token field
// of the inbound body. An unconfigured token accepts everything.
func VerifyToken(configured string, body map[string]any) bool {
	if configured == "" {
		return true
	}
	token, _ := body["token"].(string)
	return token == configured
}

// NormalizeEvent converts a raw delivery body into an Event. The delivery
// shape varies by event type: when no nested data field is present the whole
// body stands in for it.
func NormalizeEvent(body map[string]any) Event {
	event := Event{}

	if name, ok := body["event"].(string); ok {
		event.Event = name
	}
	if resource, ok := body["resource"].(string); ok {
		event.Resource = resource
	}
	if ts, ok := body["timestamp"].(float64); ok {
		event.Timestamp = int64(ts)
	}

	if data, ok := body["data"].(map[string]any); ok {
		event.Data = data
	} else {
		event.Data = body
	}

	return event
}
