// Package services provides the ledger engines, including the sharded one built on hollywood actors
package services

import (
	"github.com/anthdm/hollywood/actor"

	"github.com/DieracDelta/toy-txs/domain/models"
	"github.com/DieracDelta/toy-txs/interfaces"
	"github.com/DieracDelta/toy-txs/internal"
)

// ActorService is the interface that all actor-based services implement
type ActorService interface {
	actor.Receiver
}

// BaseActor provides common functionality for all actors
type BaseActor struct {
	logger *internal.Logger
	name   string
}

// NewBaseActor creates a new base actor with the given name and logger
func NewBaseActor(name string, logger *internal.Logger) BaseActor {
	return BaseActor{
		name:   name,
		logger: logger,
	}
}

// ApplyMsg carries one transaction to the shard owning its client
type ApplyMsg struct {
	Tx models.Transaction
}

// BarrierMsg is closed by a shard once every message queued before it was handled
type BarrierMsg struct {
	Done chan struct{}
}

// SnapshotRequestMsg asks a shard for its accounts
type SnapshotRequestMsg struct{}

// SnapshotResponseMsg is the response to a snapshot request. Err is set once
// the shard has seen a fatal outcome.
type SnapshotResponseMsg struct {
	Rows []models.AccountSnapshot
	Err  error
}

// StatusRequestMsg is a message requesting the counters of a shard
type StatusRequestMsg struct{}

// StatusResponseMsg is the response to a status request
type StatusResponseMsg struct {
	Stats interfaces.EngineStats
	Err   error
}
