package repositories

import (
	"context"

	"github.com/DieracDelta/toy-txs/domain/models"
)

// AccountRepository receives the final ledger of a run
type AccountRepository interface {
	// SaveAll stores every row under runID in one transaction
	SaveAll(ctx context.Context, runID string, rows []models.AccountSnapshot) error

	// FindByRun returns the rows stored for runID ordered by client id
	FindByRun(ctx context.Context, runID string) ([]models.AccountSnapshot, error)

	// Close releases the underlying storage
	Close() error
}
