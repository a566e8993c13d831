package services

import (
	"context"

	"github.com/DieracDelta/toy-txs/domain/ledger"
	"github.com/DieracDelta/toy-txs/domain/models"
	"github.com/DieracDelta/toy-txs/interfaces"
	"github.com/DieracDelta/toy-txs/internal"
)

// LocalEngine applies transactions on the calling goroutine. It is not safe
// for concurrent use.
type LocalEngine struct {
	logger   *internal.Logger
	accounts *ledger.Accounts
	sink     interfaces.OutcomeSink
	stats    interfaces.EngineStats
	closed   bool
}

var _ interfaces.LedgerEngine = (*LocalEngine)(nil)

// NewLocalEngine creates an engine over an empty ledger
func NewLocalEngine(policy ledger.Policy, sink interfaces.OutcomeSink, logger *internal.Logger) *LocalEngine {
	if sink == nil {
		sink = NopSink{}
	}
	return &LocalEngine{
		logger:   logger,
		accounts: ledger.NewWithPolicy(policy),
		sink:     sink,
		stats:    interfaces.EngineStats{Shards: 1},
	}
}

func (e *LocalEngine) Apply(ctx context.Context, tx models.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.closed {
		return models.ErrEngineClosed
	}

	outcome := e.accounts.Apply(tx)
	e.sink.Record(ctx, tx, outcome)
	switch {
	case outcome.Applied():
		e.stats.Applied++
	case outcome.Fatal():
		return ledger.FatalError(tx, outcome)
	default:
		e.stats.Rejected++
	}
	return nil
}

func (e *LocalEngine) Snapshot(ctx context.Context) ([]models.AccountSnapshot, error) {
	if e.closed {
		return nil, models.ErrEngineClosed
	}
	return e.accounts.Export(), nil
}

func (e *LocalEngine) Stats(ctx context.Context) (interfaces.EngineStats, error) {
	stats := e.stats
	stats.Accounts = e.accounts.Len()
	return stats, nil
}

func (e *LocalEngine) Close() error {
	e.closed = true
	return nil
}
