package services

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DieracDelta/toy-txs/domain/ledger"
	"github.com/DieracDelta/toy-txs/domain/models"
	"github.com/DieracDelta/toy-txs/interfaces"
	"github.com/DieracDelta/toy-txs/internal"
)

func testLogger() *internal.Logger {
	return internal.NewWriterLogger(io.Discard, internal.LogLevelError, internal.AllComponents)
}

func amt(s string) *models.Amount {
	a := models.MustAmount(s)
	return &a
}

type recordingSink struct {
	mu       sync.Mutex
	outcomes map[ledger.Status]int
}

func newRecordingSink() *recordingSink {
	return &recordingSink{outcomes: make(map[ledger.Status]int)}
}

func (s *recordingSink) Record(_ context.Context, _ models.Transaction, outcome ledger.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[outcome.Status]++
}

func (s *recordingSink) count(status ledger.Status) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcomes[status]
}

// workload mixes many clients so every shard owns several of them
func workload() []models.Transaction {
	var txs []models.Transaction
	var id uint32
	for client := uint16(1); client <= 40; client++ {
		id++
		txs = append(txs, models.Transaction{Type: models.TransactionTypeDeposit, ClientID: client, TxID: id, Amount: amt("10.5")})
	}
	for client := uint16(1); client <= 40; client++ {
		id++
		txs = append(txs, models.Transaction{Type: models.TransactionTypeWithdrawal, ClientID: client, TxID: id, Amount: amt("3.25")})
		switch client % 4 {
		case 0:
			txs = append(txs, models.Transaction{Type: models.TransactionTypeDispute, ClientID: client, TxID: uint32(client)})
			txs = append(txs, models.Transaction{Type: models.TransactionTypeChargeback, ClientID: client, TxID: uint32(client)})
		case 1:
			txs = append(txs, models.Transaction{Type: models.TransactionTypeDispute, ClientID: client, TxID: uint32(client)})
			txs = append(txs, models.Transaction{Type: models.TransactionTypeResolve, ClientID: client, TxID: uint32(client)})
		case 2:
			txs = append(txs, models.Transaction{Type: models.TransactionTypeWithdrawal, ClientID: client, TxID: id + 1000, Amount: amt("100")})
		}
	}
	return txs
}

func run(t *testing.T, engine interfaces.LedgerEngine, txs []models.Transaction) []models.AccountSnapshot {
	t.Helper()
	ctx := context.Background()
	for _, tx := range txs {
		require.NoError(t, engine.Apply(ctx, tx))
	}
	rows, err := engine.Snapshot(ctx)
	require.NoError(t, err)
	models.SortSnapshots(rows)
	return rows
}

func TestShardedEngine_MatchesLocal(t *testing.T) {
	txs := workload()

	local := NewLocalEngine(ledger.Policy{}, nil, testLogger())
	want := run(t, local, txs)
	require.Len(t, want, 40)

	for _, shards := range []int{1, 3, 8} {
		sharded, err := NewShardedEngine(shards, ledger.Policy{}, nil, 5*time.Second, testLogger())
		require.NoError(t, err)

		got := run(t, sharded, txs)
		require.Len(t, got, len(want))
		for i := range want {
			assert.Equal(t, want[i].ClientID, got[i].ClientID)
			assert.True(t, want[i].Available.Equal(got[i].Available), "available of client %d", want[i].ClientID)
			assert.True(t, want[i].Held.Equal(got[i].Held), "held of client %d", want[i].ClientID)
			assert.True(t, want[i].Total.Equal(got[i].Total), "total of client %d", want[i].ClientID)
			assert.Equal(t, want[i].Locked, got[i].Locked, "locked of client %d", want[i].ClientID)
		}

		localStats, err := local.Stats(context.Background())
		require.NoError(t, err)
		shardedStats, err := sharded.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, localStats.Applied, shardedStats.Applied)
		assert.Equal(t, localStats.Rejected, shardedStats.Rejected)
		assert.Equal(t, 40, shardedStats.Accounts)
		assert.Equal(t, shards, shardedStats.Shards)

		require.NoError(t, sharded.Close())
	}
}

func TestShardedEngine_SnapshotWaitsForBacklog(t *testing.T) {
	// the request timeout bounds the answer, not the queued work before it
	engine, err := NewShardedEngine(2, ledger.Policy{}, nil, 20*time.Millisecond, testLogger())
	require.NoError(t, err)

	ctx := context.Background()
	const deposits = 400000
	for id := uint32(1); id <= deposits; id++ {
		tx := models.Transaction{Type: models.TransactionTypeDeposit, ClientID: uint16(id % 2), TxID: id, Amount: amt("0.0001")}
		require.NoError(t, engine.Apply(ctx, tx))
	}

	rows, err := engine.Snapshot(ctx)
	require.NoError(t, err)
	models.SortSnapshots(rows)
	require.Len(t, rows, 2)
	assert.Equal(t, "20.0000", rows[0].Total.String())
	assert.Equal(t, "20.0000", rows[1].Total.String())

	stats, err := engine.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, deposits, stats.Applied)

	require.NoError(t, engine.Close())
}

func TestShardedEngine_SnapshotHonoursContext(t *testing.T) {
	engine, err := NewShardedEngine(2, ledger.Policy{}, nil, 5*time.Second, testLogger())
	require.NoError(t, err)
	defer engine.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Snapshot(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalEngine_Stats(t *testing.T) {
	sink := newRecordingSink()
	engine := NewLocalEngine(ledger.Policy{}, sink, testLogger())
	run(t, engine, []models.Transaction{
		models.NewDeposit(1, 1, models.MustAmount("1")),
		models.NewWithdrawal(1, 2, models.MustAmount("2")),
		models.NewDispute(2, 9),
	})

	stats, err := engine.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, interfaces.EngineStats{Applied: 1, Rejected: 2, Accounts: 2, Shards: 1}, stats)
	assert.Equal(t, 1, sink.count(ledger.StatusApplied))
	assert.Equal(t, 2, sink.count(ledger.StatusRejected))
}

func TestLocalEngine_DuplicateIsFatal(t *testing.T) {
	engine := NewLocalEngine(ledger.Policy{DuplicateTx: ledger.DuplicateTxFatal}, nil, testLogger())
	ctx := context.Background()

	require.NoError(t, engine.Apply(ctx, models.NewDeposit(1, 1, models.MustAmount("1"))))
	err := engine.Apply(ctx, models.NewDeposit(1, 1, models.MustAmount("1")))
	assert.ErrorIs(t, err, models.ErrDuplicateTransaction)
}

func TestShardedEngine_FatalSurfacesOnSnapshot(t *testing.T) {
	sink := newRecordingSink()
	engine, err := NewShardedEngine(2, ledger.Policy{DuplicateTx: ledger.DuplicateTxFatal}, sink, 5*time.Second, testLogger())
	require.NoError(t, err)
	defer engine.Close()

	ctx := context.Background()
	require.NoError(t, engine.Apply(ctx, models.NewDeposit(1, 1, models.MustAmount("1"))))
	require.NoError(t, engine.Apply(ctx, models.NewDeposit(1, 1, models.MustAmount("1"))))
	require.NoError(t, engine.Apply(ctx, models.NewDeposit(1, 2, models.MustAmount("1"))))

	_, err = engine.Snapshot(ctx)
	assert.ErrorIs(t, err, models.ErrDuplicateTransaction)
	assert.Equal(t, 1, sink.count(ledger.StatusFatal))
	assert.Equal(t, 1, sink.count(ledger.StatusApplied), "shard stops after a fatal outcome")
}

func TestEngines_Closed(t *testing.T) {
	sharded, err := NewShardedEngine(2, ledger.Policy{}, nil, 5*time.Second, testLogger())
	require.NoError(t, err)
	engines := map[string]interfaces.LedgerEngine{
		"local":   NewLocalEngine(ledger.Policy{}, nil, testLogger()),
		"sharded": sharded,
	}

	for name, engine := range engines {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, engine.Close())
			require.NoError(t, engine.Close())
			err := engine.Apply(context.Background(), models.NewDeposit(1, 1, models.MustAmount("1")))
			assert.ErrorIs(t, err, models.ErrEngineClosed)
			_, err = engine.Snapshot(context.Background())
			assert.ErrorIs(t, err, models.ErrEngineClosed)
		})
	}
}

func TestEngines_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewLocalEngine(ledger.Policy{}, nil, testLogger())
	assert.ErrorIs(t, engine.Apply(ctx, models.NewDeposit(1, 1, models.MustAmount("1"))), context.Canceled)
}

func TestNewShardedEngine_Invalid(t *testing.T) {
	_, err := NewShardedEngine(0, ledger.Policy{}, nil, time.Second, testLogger())
	assert.Error(t, err)
	_, err = NewShardedEngine(2, ledger.Policy{}, nil, 0, testLogger())
	assert.Error(t, err)
}

func TestMultiSink(t *testing.T) {
	a, b := newRecordingSink(), newRecordingSink()
	sink := MultiSink{a, NewLogSink(testLogger()), b}
	sink.Record(context.Background(), models.NewDispute(1, 1), ledger.Outcome{Status: ledger.StatusRejected, Reason: ledger.ReasonUnknownTx})
	assert.Equal(t, 1, a.count(ledger.StatusRejected))
	assert.Equal(t, 1, b.count(ledger.StatusRejected))
}
