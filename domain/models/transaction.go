package models

import (
	"fmt"
	"strings"
)

// TransactionType defines the type of transaction
type TransactionType string

const (
	// TransactionTypeDeposit credits the client's account
	TransactionTypeDeposit TransactionType = "deposit"

	// TransactionTypeWithdrawal debits the client's account
	TransactionTypeWithdrawal TransactionType = "withdrawal"

	// TransactionTypeDispute opens a claim against an earlier deposit or withdrawal
	TransactionTypeDispute TransactionType = "dispute"

	// TransactionTypeResolve closes a dispute in the client's favour
	TransactionTypeResolve TransactionType = "resolve"

	// TransactionTypeChargeback closes a dispute against the client and freezes the account
	TransactionTypeChargeback TransactionType = "chargeback"
)

// ParseTransactionType maps a record value onto the closed set of types.
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(strings.ToLower(strings.TrimSpace(s))); t {
	case TransactionTypeDeposit,
		TransactionTypeWithdrawal,
		TransactionTypeDispute,
		TransactionTypeResolve,
		TransactionTypeChargeback:
		return t, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownTransactionType)
	}
}

// MovesFunds reports whether the type carries an amount of its own.
func (t TransactionType) MovesFunds() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeWithdrawal
}

// Sign is +1 for deposits and -1 for withdrawals. Deposits add money to an
// account, withdrawals remove it. The other types never move funds themselves.
func (t TransactionType) Sign() Amount {
	if t == TransactionTypeDeposit {
		return one
	}
	return minusOne
}

// Transaction is one immutable ledger event.
type Transaction struct {
	Type     TransactionType `json:"type"`
	ClientID uint16          `json:"client"`
	TxID     uint32          `json:"tx"`
	Amount   *Amount         `json:"amount,omitempty"`
}

// NewDeposit builds a deposit transaction
func NewDeposit(client uint16, tx uint32, amount Amount) Transaction {
	return Transaction{Type: TransactionTypeDeposit, ClientID: client, TxID: tx, Amount: &amount}
}

// NewWithdrawal builds a withdrawal transaction
func NewWithdrawal(client uint16, tx uint32, amount Amount) Transaction {
	return Transaction{Type: TransactionTypeWithdrawal, ClientID: client, TxID: tx, Amount: &amount}
}

// NewDispute builds a dispute referencing tx
func NewDispute(client uint16, tx uint32) Transaction {
	return Transaction{Type: TransactionTypeDispute, ClientID: client, TxID: tx}
}

// NewResolve builds a resolve referencing tx
func NewResolve(client uint16, tx uint32) Transaction {
	return Transaction{Type: TransactionTypeResolve, ClientID: client, TxID: tx}
}

// NewChargeback builds a chargeback referencing tx
func NewChargeback(client uint16, tx uint32) Transaction {
	return Transaction{Type: TransactionTypeChargeback, ClientID: client, TxID: tx}
}

// IsWellFormed reports whether the amount is present exactly when the type moves funds.
func (t Transaction) IsWellFormed() bool {
	switch t.Type {
	case TransactionTypeDeposit, TransactionTypeWithdrawal:
		return t.Amount != nil
	case TransactionTypeDispute, TransactionTypeResolve, TransactionTypeChargeback:
		return t.Amount == nil
	default:
		return false
	}
}

// Validate wraps IsWellFormed into an error for callers that abort on bad input.
func (t Transaction) Validate() error {
	if !t.IsWellFormed() {
		return fmt.Errorf("%s client=%d tx=%d: %w", t.Type, t.ClientID, t.TxID, ErrMalformedTransaction)
	}
	return nil
}

// SignedAmount is Sign()*Amount, or false on overflow or a missing amount.
func (t Transaction) SignedAmount() (Amount, bool) {
	if t.Amount == nil {
		return Zero, false
	}
	return t.Amount.CheckedMul(t.Type.Sign())
}
