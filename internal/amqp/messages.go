package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"budgetdash/internal/core"
)

// EventKind names a committed ledger mutation.
type EventKind string

const (
	EventTransactionAdded   EventKind = "transaction.added"
	EventTransactionUpdated EventKind = "transaction.updated"
	EventTransactionRemoved EventKind = "transaction.removed"
	EventLedgerReset        EventKind = "ledger.reset"
	EventLedgerLoaded       EventKind = "ledger.loaded"
	EventBudgetUpdated      EventKind = "budget.updated"
)

// LedgerEventMessage describes one committed mutation. EventID is unique per
// event and repeats only on redelivery. Transaction fields are empty for
// ledger-wide events; Category and AmountCents carry the budget for
// budget.updated.
type LedgerEventMessage struct {
	EventID       string    `json:"event_id"`
	Kind          EventKind `json:"kind"`
	TransactionID string    `json:"transaction_id,omitempty"`
	AmountCents   int64     `json:"amount_cents"`
	Category      string    `json:"category,omitempty"`
	Type          string    `json:"type,omitempty"`
	Description   string    `json:"description,omitempty"`
	Revision      uint64    `json:"revision"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewLedgerEventMessage creates a ledger-wide event stamped with the current time.
func NewLedgerEventMessage(kind EventKind, revision uint64) *LedgerEventMessage {
	return &LedgerEventMessage{
		EventID:   uuid.NewString(),
		Kind:      kind,
		Revision:  revision,
		Timestamp: time.Now(),
	}
}

// NewTransactionEvent creates an event carrying the transaction fields.
func NewTransactionEvent(kind EventKind, t core.Transaction, revision uint64) *LedgerEventMessage {
	msg := NewLedgerEventMessage(kind, revision)
	msg.TransactionID = t.ID
	msg.AmountCents = t.Amount.Cents
	msg.Category = t.Category
	msg.Type = string(t.Type)
	msg.Description = t.Description
	return msg
}

// NewBudgetEvent creates a budget.updated event. An empty category means the monthly budget.
func NewBudgetEvent(category string, budget core.Money, revision uint64) *LedgerEventMessage {
	msg := NewLedgerEventMessage(EventBudgetUpdated, revision)
	msg.Category = category
	msg.AmountCents = budget.Cents
	return msg
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON creates a message from JSON bytes
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
