package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransactionType(t *testing.T) {
	tests := []struct {
		input   string
		want    TransactionType
		wantErr bool
	}{
		{"deposit", TransactionTypeDeposit, false},
		{"withdrawal", TransactionTypeWithdrawal, false},
		{"dispute", TransactionTypeDispute, false},
		{"resolve", TransactionTypeResolve, false},
		{"chargeback", TransactionTypeChargeback, false},
		{" Deposit ", TransactionTypeDeposit, false},
		{"CHARGEBACK", TransactionTypeChargeback, false},
		{"transfer", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTransactionType(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownTransactionType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransaction_IsWellFormed(t *testing.T) {
	amount := MustAmount("1.0")

	tests := []struct {
		name string
		tx   Transaction
		want bool
	}{
		{"Deposit With Amount", NewDeposit(1, 1, amount), true},
		{"Withdrawal With Amount", NewWithdrawal(1, 2, amount), true},
		{"Dispute Without Amount", NewDispute(1, 1), true},
		{"Resolve Without Amount", NewResolve(1, 1), true},
		{"Chargeback Without Amount", NewChargeback(1, 1), true},
		{"Deposit Without Amount", Transaction{Type: TransactionTypeDeposit, ClientID: 1, TxID: 1}, false},
		{"Withdrawal Without Amount", Transaction{Type: TransactionTypeWithdrawal, ClientID: 1, TxID: 1}, false},
		{"Dispute With Amount", Transaction{Type: TransactionTypeDispute, ClientID: 1, TxID: 1, Amount: &amount}, false},
		{"Resolve With Amount", Transaction{Type: TransactionTypeResolve, ClientID: 1, TxID: 1, Amount: &amount}, false},
		{"Chargeback With Amount", Transaction{Type: TransactionTypeChargeback, ClientID: 1, TxID: 1, Amount: &amount}, false},
		{"Unknown Type", Transaction{Type: "transfer", ClientID: 1, TxID: 1, Amount: &amount}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tx.IsWellFormed())
			if tt.want {
				assert.NoError(t, tt.tx.Validate())
			} else {
				assert.ErrorIs(t, tt.tx.Validate(), ErrMalformedTransaction)
			}
		})
	}
}

func TestTransaction_SignedAmount(t *testing.T) {
	got, ok := NewDeposit(1, 1, MustAmount("2.5")).SignedAmount()
	require.True(t, ok)
	assert.Equal(t, "2.5000", got.String())

	got, ok = NewWithdrawal(1, 2, MustAmount("2.5")).SignedAmount()
	require.True(t, ok)
	assert.Equal(t, "-2.5000", got.String())

	_, ok = NewDispute(1, 1).SignedAmount()
	assert.False(t, ok)
}

func TestAccount_SnapshotAndSort(t *testing.T) {
	acc := NewAccount(7)
	assert.True(t, acc.Balanced())
	assert.False(t, acc.IsDisputed(1))

	acc.Available = MustAmount("1.5")
	acc.Held = MustAmount("2")
	acc.Total = MustAmount("3.5")
	assert.True(t, acc.Balanced())

	snap := acc.Snapshot()
	assert.Equal(t, uint16(7), snap.ClientID)
	assert.Equal(t, "3.5000", snap.Total.String())

	rows := []AccountSnapshot{{ClientID: 3}, {ClientID: 1}, {ClientID: 2}}
	SortSnapshots(rows)
	assert.Equal(t, []uint16{1, 2, 3}, []uint16{rows[0].ClientID, rows[1].ClientID, rows[2].ClientID})
}
