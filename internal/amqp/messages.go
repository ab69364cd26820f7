package amqp

import (
	"encoding/json"
	"time"
)

// RateRefreshMessage asks the rates worker to pull fresh exchange rates.
// Reason records what triggered the refresh (manual request or schedule).
type RateRefreshMessage struct {
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRateRefreshMessage(reason string) *RateRefreshMessage {
	return &RateRefreshMessage{
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

func (m *RateRefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RateRefreshMessageFromJSON(data []byte) (*RateRefreshMessage, error) {
	var msg RateRefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
