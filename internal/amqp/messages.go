package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ChangeEvent announces one completed mutation of a collection. It carries
// only the key of the record; consumers re-read the store when they need
// the full row.
type ChangeEvent struct {
	EventID    string    `json:"event_id"`
	Collection string    `json:"collection"`
	Operation  string    `json:"operation"`
	RecordKey  string    `json:"record_key"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewChangeEvent stamps a fresh event ID and the current time.
func NewChangeEvent(collection, operation, recordKey string) *ChangeEvent {
	return &ChangeEvent{
		EventID:    uuid.NewString(),
		Collection: collection,
		Operation:  operation,
		RecordKey:  recordKey,
		Timestamp:  time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (m *ChangeEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeEventFromJSON decodes an event and rejects ones without an ID,
// collection or operation.
func ChangeEventFromJSON(data []byte) (*ChangeEvent, error) {
	var msg ChangeEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.EventID == "" || msg.Collection == "" || msg.Operation == "" {
		return nil, errors.New("incomplete change event")
	}
	return &msg, nil
}
