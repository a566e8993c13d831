package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/anthdm/hollywood/actor"
	"golang.org/x/sync/errgroup"

	"github.com/DieracDelta/toy-txs/domain/ledger"
	"github.com/DieracDelta/toy-txs/domain/models"
	"github.com/DieracDelta/toy-txs/interfaces"
	"github.com/DieracDelta/toy-txs/internal"
)

const shardKind = "shard"

// ShardedEngine partitions clients over hollywood actors by client id. Every
// transaction of a client lands on the same shard, so per-client order holds
// and the exported ledger equals the one a LocalEngine produces.
type ShardedEngine struct {
	logger  *internal.Logger
	engine  *actor.Engine
	shards  []*actor.PID
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
}

var _ interfaces.LedgerEngine = (*ShardedEngine)(nil)

// NewShardedEngine spawns n shard actors
func NewShardedEngine(n int, policy ledger.Policy, sink interfaces.OutcomeSink, timeout time.Duration, logger *internal.Logger) (*ShardedEngine, error) {
	if n < 1 {
		return nil, fmt.Errorf("sharded engine needs at least one shard, got %d", n)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("sharded engine needs a positive request timeout, got %s", timeout)
	}

	engine, err := actor.NewEngine(actor.NewEngineConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create actor engine: %w", err)
	}

	s := &ShardedEngine{
		logger:  logger,
		engine:  engine,
		shards:  make([]*actor.PID, n),
		timeout: timeout,
	}
	for i := range s.shards {
		name := shardKind + "-" + strconv.Itoa(i)
		s.shards[i] = engine.Spawn(func() actor.Receiver {
			return NewShardActor(name, policy, sink, logger)
		}, shardKind, actor.WithID(strconv.Itoa(i)))
	}

	logger.Debug(internal.ComponentEngine, "Spawned %d shards", n)
	return s, nil
}

func (s *ShardedEngine) shardFor(clientID uint16) *actor.PID {
	return s.shards[int(clientID)%len(s.shards)]
}

// Apply routes tx to its shard. Fatal outcomes surface on Snapshot or Stats.
func (s *ShardedEngine) Apply(ctx context.Context, tx models.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return models.ErrEngineClosed
	}

	s.engine.Send(s.shardFor(tx.ClientID), ApplyMsg{Tx: tx})
	return nil
}

// request asks every shard the same question and hands each answer to collect.
// Each shard first works off its queued transactions; only the answer itself
// is bounded by the request timeout.
func (s *ShardedEngine) request(ctx context.Context, msg any, collect func(i int, res any) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return models.ErrEngineClosed
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, pid := range s.shards {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			drained := make(chan struct{})
			s.engine.Send(pid, BarrierMsg{Done: drained})
			select {
			case <-drained:
			case <-gctx.Done():
				return gctx.Err()
			}

			res, err := s.engine.Request(pid, msg, s.timeout).Result()
			if err != nil {
				return fmt.Errorf("shard %s: %w", pid.ID, err)
			}
			return collect(i, res)
		})
	}
	return g.Wait()
}

// Snapshot gathers the accounts of all shards
func (s *ShardedEngine) Snapshot(ctx context.Context) ([]models.AccountSnapshot, error) {
	parts := make([][]models.AccountSnapshot, len(s.shards))
	err := s.request(ctx, SnapshotRequestMsg{}, func(i int, res any) error {
		resp, ok := res.(SnapshotResponseMsg)
		if !ok {
			return fmt.Errorf("shard %d: unexpected response %T", i, res)
		}
		if resp.Err != nil {
			return resp.Err
		}
		parts[i] = resp.Rows
		return nil
	})
	if err != nil {
		return nil, err
	}

	var rows []models.AccountSnapshot
	for _, part := range parts {
		rows = append(rows, part...)
	}
	return rows, nil
}

// Stats sums the counters of all shards
func (s *ShardedEngine) Stats(ctx context.Context) (interfaces.EngineStats, error) {
	parts := make([]interfaces.EngineStats, len(s.shards))
	err := s.request(ctx, StatusRequestMsg{}, func(i int, res any) error {
		resp, ok := res.(StatusResponseMsg)
		if !ok {
			return fmt.Errorf("shard %d: unexpected response %T", i, res)
		}
		if resp.Err != nil {
			return resp.Err
		}
		parts[i] = resp.Stats
		return nil
	})
	if err != nil {
		return interfaces.EngineStats{}, err
	}

	var total interfaces.EngineStats
	for _, part := range parts {
		total = total.Add(part)
	}
	return total, nil
}

// Close poisons every shard and waits for their inboxes to drain
func (s *ShardedEngine) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	var g errgroup.Group
	for _, pid := range s.shards {
		g.Go(func() error {
			select {
			case <-s.engine.Poison(pid).Done():
				return nil
			case <-time.After(s.timeout):
				return fmt.Errorf("shard %s did not stop within %s", pid.ID, s.timeout)
			}
		})
	}
	err := g.Wait()
	s.logger.Debug(internal.ComponentEngine, "Sharded engine closed")
	return err
}
