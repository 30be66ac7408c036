package fanout

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/DhavalSuthar-24/crickpro/internal/events"
)

// Envelope is the wire format for events sent over the live feed WebSocket.
type Envelope struct {
	Type        string          `json:"type"`
	ID          string          `json:"id,omitempty"`
	MatchUserID uint            `json:"match_user_id"`
	Timestamp   time.Time       `json:"ts"`
	Payload     json.RawMessage `json:"payload"`
}

// MarshalEvent serializes an Event into a JSON-encoded Envelope.
func MarshalEvent(evt events.Event) ([]byte, error) {
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	env := Envelope{
		Type:        string(evt.Type),
		ID:          evt.ID,
		MatchUserID: evt.UserID,
		Timestamp:   evt.Timestamp,
		Payload:     payload,
	}
	return json.Marshal(env)
}

// DecodeEnvelope parses a frame received from the feed. The payload is left
// raw; callers decode it according to Type.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Type == "" {
		return env, fmt.Errorf("envelope without type")
	}
	return env, nil
}
