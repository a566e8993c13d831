package services

import (
	"context"

	"github.com/DieracDelta/toy-txs/domain/ledger"
	"github.com/DieracDelta/toy-txs/domain/models"
	"github.com/DieracDelta/toy-txs/interfaces"
	"github.com/DieracDelta/toy-txs/internal"
)

// NopSink drops every outcome
type NopSink struct{}

func (NopSink) Record(context.Context, models.Transaction, ledger.Outcome) {}

// LogSink logs every transaction that did not apply
type LogSink struct {
	logger *internal.Logger
}

func NewLogSink(logger *internal.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Record(_ context.Context, tx models.Transaction, outcome ledger.Outcome) {
	switch outcome.Status {
	case ledger.StatusApplied:
	case ledger.StatusRejected:
		s.logger.Debug(internal.ComponentLedger, "%s client=%d tx=%d rejected: %s", tx.Type, tx.ClientID, tx.TxID, outcome.Reason)
	default:
		s.logger.Error(internal.ComponentLedger, "%s client=%d tx=%d fatal: %s", tx.Type, tx.ClientID, tx.TxID, outcome.Reason)
	}
}

// MultiSink fans one outcome out to several sinks in order
type MultiSink []interfaces.OutcomeSink

func (m MultiSink) Record(ctx context.Context, tx models.Transaction, outcome ledger.Outcome) {
	for _, sink := range m {
		sink.Record(ctx, tx, outcome)
	}
}
