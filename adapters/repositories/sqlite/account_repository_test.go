package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DieracDelta/toy-txs/domain/models"
)

func TestAccountRepository_SaveAndFind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	repo, err := NewAccountRepository(path)
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	rows := []models.AccountSnapshot{
		{ClientID: 2, Available: models.MustAmount("-3"), Held: models.Zero, Total: models.MustAmount("-3"), Locked: true},
		{ClientID: 1, Available: models.MustAmount("1.5"), Held: models.MustAmount("0.0001"), Total: models.MustAmount("1.5001")},
	}
	require.NoError(t, repo.SaveAll(ctx, "run-a", rows))
	require.NoError(t, repo.SaveAll(ctx, "run-b", rows[:1]))

	got, err := repo.FindByRun(ctx, "run-a")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint16(1), got[0].ClientID)
	assert.Equal(t, "0.0001", got[0].Held.String())
	assert.Equal(t, "1.5001", got[0].Total.String())
	assert.False(t, got[0].Locked)
	assert.Equal(t, uint16(2), got[1].ClientID)
	assert.Equal(t, "-3.0000", got[1].Available.String())
	assert.True(t, got[1].Locked)

	got, err = repo.FindByRun(ctx, "run-b")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = repo.FindByRun(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAccountRepository_LargeBalancesKeepPrecision(t *testing.T) {
	repo, err := NewAccountRepository(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer repo.Close()

	huge := models.MustAmount("5192296858534827628530496329220094.1234")
	ctx := context.Background()
	require.NoError(t, repo.SaveAll(ctx, "run", []models.AccountSnapshot{{ClientID: 7, Available: huge, Held: models.Zero, Total: huge}}))

	got, err := repo.FindByRun(ctx, "run")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Total.Equal(huge))
}

func TestAccountRepository_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	repo, err := NewAccountRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.SaveAll(context.Background(), "run", []models.AccountSnapshot{{ClientID: 1}}))
	require.NoError(t, repo.Close())

	repo, err = NewAccountRepository(path)
	require.NoError(t, err)
	defer repo.Close()
	got, err := repo.FindByRun(context.Background(), "run")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
