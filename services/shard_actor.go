package services

import (
	"context"

	"github.com/anthdm/hollywood/actor"

	"github.com/DieracDelta/toy-txs/domain/ledger"
	"github.com/DieracDelta/toy-txs/interfaces"
	"github.com/DieracDelta/toy-txs/internal"
)

// ShardActor owns the accounts of every client routed to it. The actor inbox
// keeps the transactions of one client in arrival order.
type ShardActor struct {
	BaseActor
	accounts *ledger.Accounts
	sink     interfaces.OutcomeSink
	stats    interfaces.EngineStats

	// failure stops the shard after a fatal outcome
	failure error
}

var _ ActorService = (*ShardActor)(nil)

// NewShardActor creates a shard with an empty ledger
func NewShardActor(name string, policy ledger.Policy, sink interfaces.OutcomeSink, logger *internal.Logger) *ShardActor {
	if sink == nil {
		sink = NopSink{}
	}
	return &ShardActor{
		BaseActor: NewBaseActor(name, logger),
		accounts:  ledger.NewWithPolicy(policy),
		sink:      sink,
		stats:     interfaces.EngineStats{Shards: 1},
	}
}

// Receive implements the actor.Receiver interface
func (a *ShardActor) Receive(ctx *actor.Context) {
	switch msg := ctx.Message().(type) {
	case actor.Started:
		a.logger.Debug(internal.ComponentEngine, "Shard %s started", a.name)

	case actor.Stopped:
		a.logger.Debug(internal.ComponentEngine, "Shard %s stopped after %d applied, %d rejected",
			a.name, a.stats.Applied, a.stats.Rejected)

	case ApplyMsg:
		if a.failure != nil {
			return
		}
		outcome := a.accounts.Apply(msg.Tx)
		a.sink.Record(context.Background(), msg.Tx, outcome)
		switch {
		case outcome.Applied():
			a.stats.Applied++
		case outcome.Fatal():
			a.failure = ledger.FatalError(msg.Tx, outcome)
			a.logger.Error(internal.ComponentEngine, "Shard %s halted: %v", a.name, a.failure)
		default:
			a.stats.Rejected++
		}

	case BarrierMsg:
		close(msg.Done)

	case SnapshotRequestMsg:
		ctx.Respond(SnapshotResponseMsg{Rows: a.accounts.Export(), Err: a.failure})

	case StatusRequestMsg:
		stats := a.stats
		stats.Accounts = a.accounts.Len()
		ctx.Respond(StatusResponseMsg{Stats: stats, Err: a.failure})
	}
}
