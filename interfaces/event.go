package interfaces

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/DieracDelta/toy-txs/domain/ledger"
	"github.com/DieracDelta/toy-txs/domain/models"
)

type EventType string

const (
	// EventTypeRejected reports a transaction skipped by a business rule
	EventTypeRejected EventType = "ledger.tx.rejected"
	// EventTypeFatal reports a transaction that aborted the run
	EventTypeFatal EventType = "ledger.tx.fatal"
)

// Event is the diagnostics record published for a transaction that did not apply.
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	RunID     string                 `json:"run_id"`
	ClientID  uint16                 `json:"client"`
	TxID      uint32                 `json:"tx"`
	TxType    models.TransactionType `json:"tx_type"`
	Amount    *models.Amount         `json:"amount,omitempty"`
	Reason    ledger.Reason          `json:"reason"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewOutcomeEvent builds the event for a non-applied outcome.
func NewOutcomeEvent(runID string, tx models.Transaction, outcome ledger.Outcome) Event {
	eventType := EventTypeRejected
	if outcome.Fatal() {
		eventType = EventTypeFatal
	}
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		RunID:     runID,
		ClientID:  tx.ClientID,
		TxID:      tx.TxID,
		TxType:    tx.Type,
		Amount:    tx.Amount,
		Reason:    outcome.Reason,
		Timestamp: time.Now().UTC(),
	}
}

// Marshal encodes the event as JSON.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
