package events

import (
	"context"

	"github.com/learn2earn/backend/internal/models"
)

// StreamLedger carries one event per appended ledger transaction.
const StreamLedger = "events:ledger"

// Event types
const (
	EventTransactionAppended = "transaction_appended"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}

// TransactionEvent wraps a ledger entry.
func TransactionEvent(tx models.Transaction) Event {
	return Event{
		Type: EventTransactionAppended,
		Payload: map[string]any{
			"id":        tx.ID,
			"from":      tx.From,
			"to":        tx.To,
			"amount":    tx.Amount,
			"type":      tx.Type,
			"memo":      tx.Memo,
			"timestamp": tx.Timestamp,
		},
	}
}

// Touches reports whether a transaction event involves address. Payloads that
// went through JSON still carry from/to as strings.
func (e Event) Touches(address string) bool {
	from, _ := e.Payload["from"].(string)
	to, _ := e.Payload["to"].(string)
	return from == address || to == address
}
