package models

import (
	"errors"
)

// Domain error types
var (
	// Transaction errors
	// ErrMalformedTransaction is returned when a transaction's amount does not match its type
	ErrMalformedTransaction = errors.New("transaction amount presence does not match transaction type")

	// ErrUnknownTransactionType is returned when a record names a type outside the closed set
	ErrUnknownTransactionType = errors.New("unknown transaction type")

	// ErrInvalidAmount is returned when an amount is not a decimal number
	ErrInvalidAmount = errors.New("amount must be a decimal number")

	// ErrAmountOutOfRange is returned when an amount cannot be represented by the ledger
	ErrAmountOutOfRange = errors.New("amount is outside the representable range")

	// ErrInvalidClientID is returned when a client id is not an unsigned 16-bit integer
	ErrInvalidClientID = errors.New("client id must be an unsigned 16-bit integer")

	// ErrInvalidTxID is returned when a transaction id is not an unsigned 32-bit integer
	ErrInvalidTxID = errors.New("transaction id must be an unsigned 32-bit integer")

	// ErrDuplicateTransaction is returned when a deposit or withdrawal reuses a recorded tx id
	// and the ledger policy forbids overwriting
	ErrDuplicateTransaction = errors.New("duplicate transaction id")

	// Input errors
	// ErrMissingColumn is returned when the input header lacks a required column
	ErrMissingColumn = errors.New("input header is missing a required column")

	// ErrUnexpectedField is returned when a row carries a non-empty value past the header
	ErrUnexpectedField = errors.New("row has a value outside the header columns")

	// Engine errors
	// ErrEngineClosed is returned when a closed engine is used
	ErrEngineClosed = errors.New("ledger engine is closed")
)
