package interfaces

import (
	"context"

	"github.com/DieracDelta/toy-txs/domain/ledger"
	"github.com/DieracDelta/toy-txs/domain/models"
)

// LedgerEngine applies transactions in arrival order and exports the result.
type LedgerEngine interface {
	// Apply feeds one well-formed transaction. It returns an error only when
	// the run must abort; rejected transactions are not errors.
	Apply(ctx context.Context, tx models.Transaction) error

	// Snapshot returns one row per account in no particular order.
	Snapshot(ctx context.Context) ([]models.AccountSnapshot, error)

	// Stats reports counters for the run so far
	Stats(ctx context.Context) (EngineStats, error)

	// Close releases the engine
	Close() error
}

// OutcomeSink observes the outcome of every applied transaction. Sinks never
// influence the ledger.
type OutcomeSink interface {
	Record(ctx context.Context, tx models.Transaction, outcome ledger.Outcome)
}
