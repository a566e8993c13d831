package ledger

import (
	"fmt"

	"github.com/DieracDelta/toy-txs/domain/models"
)

// Status classifies the result of applying one transaction.
type Status int

const (
	// StatusApplied means the account changed
	StatusApplied Status = iota
	// StatusRejected means a business rule skipped the transaction; the account is unchanged
	StatusRejected
	// StatusFatal means the run must abort
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusRejected:
		return "rejected"
	case StatusFatal:
		return "fatal"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Reason explains a rejection or a fatal outcome.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonAccountLocked     Reason = "account_locked"
	ReasonInsufficientFunds Reason = "insufficient_funds"
	ReasonOverflow          Reason = "overflow"
	ReasonUnknownTx         Reason = "unknown_tx"
	ReasonNotDisputed       Reason = "not_disputed"
	ReasonAlreadyDisputed   Reason = "already_disputed"
	ReasonDuplicateTx       Reason = "duplicate_tx"
	ReasonMalformed         Reason = "malformed"
)

// Outcome is the internal result of Apply. Ignoring it reproduces the silent
// noop behaviour of rejected transactions.
type Outcome struct {
	Status Status
	Reason Reason
}

var applied = Outcome{Status: StatusApplied}

func rejected(r Reason) Outcome { return Outcome{Status: StatusRejected, Reason: r} }

func fatal(r Reason) Outcome { return Outcome{Status: StatusFatal, Reason: r} }

func (o Outcome) Applied() bool { return o.Status == StatusApplied }

func (o Outcome) Fatal() bool { return o.Status == StatusFatal }

func (o Outcome) String() string {
	if o.Reason == ReasonNone {
		return o.Status.String()
	}
	return fmt.Sprintf("%s(%s)", o.Status, o.Reason)
}

// FatalError converts a fatal outcome for tx into the error that aborts the run.
// It returns nil for any other outcome.
func FatalError(tx models.Transaction, o Outcome) error {
	if !o.Fatal() {
		return nil
	}
	cause := models.ErrMalformedTransaction
	if o.Reason == ReasonDuplicateTx {
		cause = models.ErrDuplicateTransaction
	}
	return fmt.Errorf("%s client=%d tx=%d: %w", tx.Type, tx.ClientID, tx.TxID, cause)
}
