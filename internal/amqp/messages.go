package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// ChangeMessage tells the mirror worker that one document changed in the
// primary store. It carries only the id and operation; the worker fetches
// the current document itself.
type ChangeMessage struct {
	ID        string    `json:"id"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChangeMessage(id, op string) *ChangeMessage {
	return &ChangeMessage{
		ID:        id,
		Op:        op,
		Timestamp: time.Now(),
	}
}

func (m *ChangeMessage) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("change message has no id")
	}
	if m.Op != OpUpsert && m.Op != OpDelete {
		return fmt.Errorf("unknown change op %q", m.Op)
	}
	return nil
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
