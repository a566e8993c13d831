package factory

import (
	"fmt"

	"github.com/DieracDelta/toy-txs/adapters/repositories/sqlite"
	"github.com/DieracDelta/toy-txs/domain/ledger"
	"github.com/DieracDelta/toy-txs/domain/repositories"
	"github.com/DieracDelta/toy-txs/interfaces"
	"github.com/DieracDelta/toy-txs/internal"
	"github.com/DieracDelta/toy-txs/internal/nats_common"
	"github.com/DieracDelta/toy-txs/services"
)

// NewLedgerPolicy reads the ledger switches from cfg
func NewLedgerPolicy(cfg *internal.Config) (ledger.Policy, error) {
	duplicate, err := ledger.ParseDuplicateTxPolicy(cfg.Ledger.DuplicateTx)
	if err != nil {
		return ledger.Policy{}, err
	}
	return ledger.Policy{
		GuardRedispute: cfg.Ledger.GuardRedispute,
		DuplicateTx:    duplicate,
	}, nil
}

// NewLedgerEngine creates a sharded engine when more than one shard is
// configured and a local one otherwise
func NewLedgerEngine(cfg *internal.Config, sink interfaces.OutcomeSink, logger *internal.Logger) (interfaces.LedgerEngine, error) {
	policy, err := NewLedgerPolicy(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Engine.Shards > 1 {
		logger.Debug(internal.ComponentEngine, "Using sharded engine with %d shards", cfg.Engine.Shards)
		engine, err := services.NewShardedEngine(cfg.Engine.Shards, policy, sink, cfg.Engine.RequestTimeout, logger)
		if err != nil {
			return nil, err
		}
		return engine, nil
	}
	logger.Debug(internal.ComponentEngine, "Using local engine")
	return services.NewLocalEngine(policy, sink, logger), nil
}

// NewOutcomeSink always logs outcomes and also publishes them when a NATS
// server is configured. The returned close func flushes the publisher.
// An unreachable server only disables publishing.
func NewOutcomeSink(cfg *internal.Config, runID string, logger *internal.Logger) (interfaces.OutcomeSink, func() error, error) {
	sinks := services.MultiSink{services.NewLogSink(logger)}
	noop := func() error { return nil }

	if cfg.NATS.URL == "" {
		return sinks, noop, nil
	}

	nc, err := nats_common.Connect(nats_common.NewNATSConfig(cfg), logger)
	if err != nil {
		logger.Warn(internal.ComponentNATS, "Diagnostics disabled: %v", err)
		return sinks, noop, nil
	}

	pub := nats_common.NewDiagnosticsPublisher(nc, cfg.NATS.Subject, runID, cfg.Engine.RequestTimeout, logger)
	logger.Debug(internal.ComponentNATS, "Publishing diagnostics on %s", cfg.NATS.Subject)
	return append(sinks, pub), pub.Close, nil
}

// NewAccountRepository opens the export database, or returns nil when no
// export is configured
func NewAccountRepository(cfg *internal.Config, logger *internal.Logger) (repositories.AccountRepository, error) {
	if cfg.Export.SQLitePath == "" {
		return nil, nil
	}
	repo, err := sqlite.NewAccountRepository(cfg.Export.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open export database %s: %w", cfg.Export.SQLitePath, err)
	}
	logger.Debug(internal.ComponentStorage, "Exporting ledger to %s", cfg.Export.SQLitePath)
	return repo, nil
}
