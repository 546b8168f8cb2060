// Package ledger holds the per-entity state machines of the financial
// ledger. Transitions are pure functions over the model structs; the
// repository re-runs them inside the store transaction so a guard is
// always evaluated against the locked row.
package ledger

import "errors"

var (
	ErrNonPositiveAmount     = errors.New("amount must be positive")
	ErrOverpay               = errors.New("payment exceeds remaining balance")
	ErrInvoiceAlreadyPaid    = errors.New("invoice is already fully paid")
	ErrInsufficientRemaining = errors.New("insufficient remaining amount on advance")
	ErrAdvanceNotPending     = errors.New("advance is not pending")
	ErrNoteAlreadyConverted  = errors.New("note is already converted")
	ErrNoteUnfunded          = errors.New("note names no funding advance")
	ErrNoteRejected          = errors.New("note is rejected")
	ErrPayrollAlreadyPaid    = errors.New("payroll is already paid")
)
