package csvio

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DieracDelta/toy-txs/domain/models"
)

const mixedInput = `
       type, client ,tx , amount
       deposit, 1,1, 1.0
       deposit,   2,2, 2.0
       deposit, 1,3,    2.0
       withdrawal,  1,4,    1.5
       withdrawal, 2, 5,   3.0
       dispute, 1, 1
       resolve, 1, 1
       dispute, 2, 2,
       chargeback, 2, 2,`

type decoded struct {
	typ    models.TransactionType
	client uint16
	tx     uint32
	amount string
}

func flatten(tx models.Transaction) decoded {
	d := decoded{typ: tx.Type, client: tx.ClientID, tx: tx.TxID}
	if tx.Amount != nil {
		d.amount = tx.Amount.String()
	}
	return d
}

func TestReader_Decode(t *testing.T) {
	rd, err := NewReader(strings.NewReader(mixedInput))
	require.NoError(t, err)

	txs, err := rd.ReadAll()
	require.NoError(t, err)

	want := []decoded{
		{models.TransactionTypeDeposit, 1, 1, "1.0000"},
		{models.TransactionTypeDeposit, 2, 2, "2.0000"},
		{models.TransactionTypeDeposit, 1, 3, "2.0000"},
		{models.TransactionTypeWithdrawal, 1, 4, "1.5000"},
		{models.TransactionTypeWithdrawal, 2, 5, "3.0000"},
		{models.TransactionTypeDispute, 1, 1, ""},
		{models.TransactionTypeResolve, 1, 1, ""},
		{models.TransactionTypeDispute, 2, 2, ""},
		{models.TransactionTypeChargeback, 2, 2, ""},
	}
	require.Len(t, txs, len(want))
	for i, tx := range txs {
		assert.Equal(t, want[i], flatten(tx), "row %d", i)
		assert.True(t, tx.IsWellFormed(), "row %d", i)
	}
}

func TestReader_ColumnOrderFromHeader(t *testing.T) {
	rd, err := NewReader(strings.NewReader("amount,tx,Client,TYPE\n2.5,10,3,deposit\n"))
	require.NoError(t, err)

	tx, err := rd.Read()
	require.NoError(t, err)
	assert.Equal(t, decoded{models.TransactionTypeDeposit, 3, 10, "2.5000"}, flatten(tx))

	_, err = rd.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_Tolerances(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []decoded
	}{
		{
			name:  "Header Only",
			input: "\n    type,client,txt,amount ",
			want:  nil,
		},
		{
			name:  "Empty Input",
			input: "",
			want:  nil,
		},
		{
			name:  "Trailing Empty Fields",
			input: "type, client ,tx , amount\n       withdrawal,  1,4,    1.5,,,,",
			want:  []decoded{{models.TransactionTypeWithdrawal, 1, 4, "1.5000"}},
		},
		{
			name:  "Whitespace Only Row",
			input: "type,client,tx,amount\n   \ndeposit,1,1,1\n",
			want:  []decoded{{models.TransactionTypeDeposit, 1, 1, "1.0000"}},
		},
		{
			name:  "Extra Unknown Column",
			input: "type,client,tx,amount,note\ndeposit,1,1,1,hello\n",
			want:  []decoded{{models.TransactionTypeDeposit, 1, 1, "1.0000"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rd, err := NewReader(strings.NewReader(tt.input))
			require.NoError(t, err)
			txs, err := rd.ReadAll()
			require.NoError(t, err)
			require.Len(t, txs, len(tt.want))
			for i, tx := range txs {
				assert.Equal(t, tt.want[i], flatten(tx))
			}
		})
	}
}

func TestReader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"Unknown Type", "type,client,tx,amount\ntransfer,1,1,1\n", models.ErrUnknownTransactionType},
		{"Client Too Large", "type,client,tx,amount\ndeposit,65536,1,1\n", models.ErrInvalidClientID},
		{"Negative Client", "type,client,tx,amount\ndeposit,-1,1,1\n", models.ErrInvalidClientID},
		{"Tx Too Large", "type,client,tx,amount\ndeposit,1,4294967296,1\n", models.ErrInvalidTxID},
		{"Bad Amount", "type,client,tx,amount\ndeposit,1,1,one\n", models.ErrInvalidAmount},
		{"Missing Column", "type,client,amount\ndeposit,1,1\n", models.ErrMissingColumn},
		{"Value Past Header", "type,client,tx,amount\ndeposit,1,1,1,oops\n", models.ErrUnexpectedField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rd, err := NewReader(strings.NewReader(tt.input))
			require.NoError(t, err)
			_, err = rd.Read()
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestReader_StructurallyInvalidRowDecodes(t *testing.T) {
	// amount presence is checked by the caller, not the decoder
	rd, err := NewReader(strings.NewReader("type,client,tx,amount\ndispute,1,1,2.0\ndeposit,1,2\n"))
	require.NoError(t, err)
	txs, err := rd.ReadAll()
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.False(t, txs[0].IsWellFormed())
	assert.False(t, txs[1].IsWellFormed())
}

func TestWriteAccounts(t *testing.T) {
	t.Run("Empty Ledger", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteAccounts(&buf, nil))
		assert.Equal(t, "client,available,held,total,locked\n", buf.String())
	})

	t.Run("Rows", func(t *testing.T) {
		rows := []models.AccountSnapshot{
			{ClientID: 1, Available: models.MustAmount("1.5"), Held: models.Zero, Total: models.MustAmount("1.5")},
			{ClientID: 2, Available: models.MustAmount("-3"), Held: models.Zero, Total: models.MustAmount("-3"), Locked: true},
		}
		var buf bytes.Buffer
		require.NoError(t, WriteAccounts(&buf, rows))
		assert.Equal(t,
			"client,available,held,total,locked\n"+
				"1,1.5000,0.0000,1.5000,false\n"+
				"2,-3.0000,0.0000,-3.0000,true\n",
			buf.String())
	})
}
