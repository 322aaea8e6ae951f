package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"libfine/internal/core"
)

// FineAssessedMessage announces the fines computed for one borrowing session
type FineAssessedMessage struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"session_id"`
	Customer       string    `json:"customer"`
	Records        int       `json:"records"`
	Overdue        int       `json:"overdue"`
	TotalFineCents int64     `json:"total_fine_cents"`
	Currency       string    `json:"currency"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewFineAssessedMessage builds the message for a computed summary
func NewFineAssessedMessage(s core.Summary, currency string) *FineAssessedMessage {
	return &FineAssessedMessage{
		ID:             uuid.NewString(),
		SessionID:      s.SessionID,
		Customer:       s.Customer,
		Records:        len(s.Lines),
		Overdue:        s.OverdueCount(),
		TotalFineCents: s.Total.Cents,
		Currency:       currency,
		Timestamp:      time.Now().UTC(),
	}
}

// TotalFine returns the total as Money
func (m *FineAssessedMessage) TotalFine() core.Money {
	return core.Money{Cents: m.TotalFineCents}
}

// ToJSON converts the message to JSON bytes
func (m *FineAssessedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FineAssessedMessageFromJSON creates a message from JSON bytes
func FineAssessedMessageFromJSON(data []byte) (*FineAssessedMessage, error) {
	var msg FineAssessedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
