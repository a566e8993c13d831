// Package ledger holds the per-client account state machine: deposits,
// withdrawals and the dispute → resolve | chargeback lifecycle.
package ledger

import (
	"fmt"

	"github.com/DieracDelta/toy-txs/domain/models"
)

// DuplicateTxPolicy decides what happens when a deposit or withdrawal reuses
// a tx id already present in the account's history.
type DuplicateTxPolicy string

const (
	// DuplicateTxOverwrite replaces the recorded transaction
	DuplicateTxOverwrite DuplicateTxPolicy = "overwrite"
	// DuplicateTxFatal aborts the run
	DuplicateTxFatal DuplicateTxPolicy = "fatal"
)

// ParseDuplicateTxPolicy maps a config value onto a policy. Empty means overwrite.
func ParseDuplicateTxPolicy(s string) (DuplicateTxPolicy, error) {
	switch p := DuplicateTxPolicy(s); p {
	case "", DuplicateTxOverwrite:
		return DuplicateTxOverwrite, nil
	case DuplicateTxFatal:
		return p, nil
	default:
		return "", fmt.Errorf("unknown duplicate tx policy %q", s)
	}
}

// Policy holds opt-in deviations from the default rules. The zero value
// keeps the default rules.
type Policy struct {
	// GuardRedispute rejects a dispute of a tx that is already disputed.
	// Without it the delta is moved a second time.
	GuardRedispute bool
	DuplicateTx    DuplicateTxPolicy
}

// Accounts maps client ids to their accounts. It is not safe for concurrent
// use; callers apply transactions one at a time.
type Accounts struct {
	state  map[uint16]*models.Account
	policy Policy
}

// New creates an empty ledger with the default policy
func New() *Accounts {
	return NewWithPolicy(Policy{})
}

// NewWithPolicy creates an empty ledger with the given policy
func NewWithPolicy(policy Policy) *Accounts {
	if policy.DuplicateTx == "" {
		policy.DuplicateTx = DuplicateTxOverwrite
	}
	return &Accounts{
		state:  make(map[uint16]*models.Account),
		policy: policy,
	}
}

func (l *Accounts) account(client uint16) *models.Account {
	acc, ok := l.state[client]
	if !ok {
		acc = models.NewAccount(client)
		l.state[client] = acc
	}
	return acc
}

// Apply mutates the account of tx.ClientID to reflect tx. The account is
// created on first reference. tx must be well formed.
//
// A locked account ignores everything. Deposits and withdrawals move
// available and total together; a withdrawal may not leave available
// negative. A dispute moves the signed amount of the referenced transaction
// from available to held, a resolve moves it back and a chargeback removes
// it from held and total and locks the account. Overflow on any balance
// skips the transaction.
func (l *Accounts) Apply(tx models.Transaction) Outcome {
	if !tx.IsWellFormed() {
		return fatal(ReasonMalformed)
	}
	acc := l.account(tx.ClientID)
	if acc.Locked {
		return rejected(ReasonAccountLocked)
	}

	switch tx.Type {
	case models.TransactionTypeDeposit, models.TransactionTypeWithdrawal:
		return l.applyFunds(acc, tx)
	case models.TransactionTypeDispute:
		return l.applyDispute(acc, tx)
	case models.TransactionTypeResolve:
		return applyResolve(acc, tx)
	case models.TransactionTypeChargeback:
		return applyChargeback(acc, tx)
	default:
		return fatal(ReasonMalformed)
	}
}

func (l *Accounts) applyFunds(acc *models.Account, tx models.Transaction) Outcome {
	if _, seen := acc.History[tx.TxID]; seen && l.policy.DuplicateTx == DuplicateTxFatal {
		return fatal(ReasonDuplicateTx)
	}

	delta, ok := tx.SignedAmount()
	if !ok {
		return rejected(ReasonOverflow)
	}
	total, okTotal := acc.Total.CheckedAdd(delta)
	available, okAvail := acc.Available.CheckedAdd(delta)
	if !okTotal || !okAvail {
		return rejected(ReasonOverflow)
	}
	// deposits may leave available negative, withdrawals may not
	if tx.Type == models.TransactionTypeWithdrawal && available.IsNegative() {
		return rejected(ReasonInsufficientFunds)
	}

	acc.Total = total
	acc.Available = available
	acc.History[tx.TxID] = tx
	return applied
}

// disputedDelta looks up the referenced transaction and its signed amount.
func disputedDelta(acc *models.Account, tx models.Transaction) (models.Amount, Outcome, bool) {
	ref, ok := acc.History[tx.TxID]
	if !ok || !ref.Type.MovesFunds() {
		return models.Zero, rejected(ReasonUnknownTx), false
	}
	delta, ok := ref.SignedAmount()
	if !ok {
		return models.Zero, rejected(ReasonOverflow), false
	}
	return delta, applied, true
}

func (l *Accounts) applyDispute(acc *models.Account, tx models.Transaction) Outcome {
	delta, out, ok := disputedDelta(acc, tx)
	if !ok {
		return out
	}
	if l.policy.GuardRedispute && acc.IsDisputed(tx.TxID) {
		return rejected(ReasonAlreadyDisputed)
	}

	// no sign check: either balance may go negative here
	available, okAvail := acc.Available.CheckedSub(delta)
	held, okHeld := acc.Held.CheckedAdd(delta)
	if !okAvail || !okHeld {
		return rejected(ReasonOverflow)
	}

	acc.Available = available
	acc.Held = held
	acc.Disputed[tx.TxID] = struct{}{}
	return applied
}

func applyResolve(acc *models.Account, tx models.Transaction) Outcome {
	delta, out, ok := disputedDelta(acc, tx)
	if !ok {
		return out
	}
	if !acc.IsDisputed(tx.TxID) {
		return rejected(ReasonNotDisputed)
	}

	held, okHeld := acc.Held.CheckedSub(delta)
	available, okAvail := acc.Available.CheckedAdd(delta)
	if !okHeld || !okAvail {
		return rejected(ReasonOverflow)
	}

	acc.Held = held
	acc.Available = available
	delete(acc.Disputed, tx.TxID)
	return applied
}

func applyChargeback(acc *models.Account, tx models.Transaction) Outcome {
	delta, out, ok := disputedDelta(acc, tx)
	if !ok {
		return out
	}
	if !acc.IsDisputed(tx.TxID) {
		return rejected(ReasonNotDisputed)
	}

	held, okHeld := acc.Held.CheckedSub(delta)
	total, okTotal := acc.Total.CheckedSub(delta)
	if !okHeld || !okTotal {
		return rejected(ReasonOverflow)
	}

	acc.Held = held
	acc.Total = total
	delete(acc.Disputed, tx.TxID)
	acc.Locked = true
	return applied
}

// Get returns the account for client, if it has ever been referenced.
func (l *Accounts) Get(client uint16) (*models.Account, bool) {
	acc, ok := l.state[client]
	return acc, ok
}

// Len is the number of accounts.
func (l *Accounts) Len() int {
	return len(l.state)
}

// Export returns one row per account in no particular order.
func (l *Accounts) Export() []models.AccountSnapshot {
	rows := make([]models.AccountSnapshot, 0, len(l.state))
	for _, acc := range l.state {
		rows = append(rows, acc.Snapshot())
	}
	return rows
}
