package bus

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope for fleet notification messages. Inbound machine
// reports are raw JSON from heterogeneous agents and do not use it.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEvent creates an Event with a generated ID and current timestamp.
func NewEvent(eventType, source string, data any) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Data:      raw,
	}, nil
}

// Marshal serialises the event to JSON bytes.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalEvent deserialises an event from JSON bytes.
func UnmarshalEvent(data []byte) (Event, error) {
	var ev Event
	err := json.Unmarshal(data, &ev)
	return ev, err
}

// TransitionData is the payload for machine online/offline notifications.
type TransitionData struct {
	MachineID string `json:"machine_id"`
	Hostname  string `json:"hostname,omitempty"`
	Status    string `json:"status"`
}
