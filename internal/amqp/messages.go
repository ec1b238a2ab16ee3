package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// RefreshMessage asks the worker to reload a sheet from the upstream source
// and store a new snapshot.
type RefreshMessage struct {
	Sheet     string    `json:"sheet"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRefreshMessage creates a refresh request with a fresh request ID
func NewRefreshMessage(sheet string) *RefreshMessage {
	return &RefreshMessage{
		Sheet:     sheet,
		RequestID: uuid.NewString(),
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RefreshMessageFromJSON decodes a message, rejecting ones without a sheet
func RefreshMessageFromJSON(data []byte) (*RefreshMessage, error) {
	var msg RefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Sheet == "" {
		return nil, errors.New("refresh message without sheet")
	}
	return &msg, nil
}
