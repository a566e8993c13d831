package models

import (
	"sort"
)

// Account is the per-client ledger state plus the bookkeeping disputes need.
// Balances are only written by the ledger.
type Account struct {
	ClientID  uint16
	Available Amount
	Held      Amount
	Total     Amount
	Locked    bool

	// History holds accepted deposits and withdrawals by tx id.
	History map[uint32]Transaction
	// Disputed holds the tx ids currently under dispute.
	Disputed map[uint32]struct{}
}

// NewAccount creates an empty, unlocked account
func NewAccount(clientID uint16) *Account {
	return &Account{
		ClientID: clientID,
		History:  make(map[uint32]Transaction),
		Disputed: make(map[uint32]struct{}),
	}
}

// IsDisputed reports whether tx is currently under dispute
func (a *Account) IsDisputed(tx uint32) bool {
	_, ok := a.Disputed[tx]
	return ok
}

// Balanced reports whether total == available + held.
func (a *Account) Balanced() bool {
	sum, ok := a.Available.CheckedAdd(a.Held)
	return ok && sum.Equal(a.Total)
}

// Snapshot returns the exported view of the account.
func (a *Account) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		ClientID:  a.ClientID,
		Available: a.Available,
		Held:      a.Held,
		Total:     a.Total,
		Locked:    a.Locked,
	}
}

// AccountSnapshot is a read-only row of the exported ledger.
type AccountSnapshot struct {
	ClientID  uint16 `json:"client"`
	Available Amount `json:"available"`
	Held      Amount `json:"held"`
	Total     Amount `json:"total"`
	Locked    bool   `json:"locked"`
}

// SortSnapshots orders rows by client id.
func SortSnapshots(rows []AccountSnapshot) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].ClientID < rows[j].ClientID })
}
