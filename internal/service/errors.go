package service

import (
	"errors"
	"fmt"

	"github.com/wessamh/edara-actions/internal/i18n"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrForbidden     = errors.New("forbidden")
	ErrUnknownCaller = errors.New("unknown caller")

	// store-level business failures with no ledger transition behind them
	ErrPayrollMonthExists = errors.New("payroll already exists for month")
	ErrNoStaff            = errors.New("no staff to include")
)

// Machine-readable error codes carried in the response envelope.
const (
	CodeUnknownAction  = "UNKNOWN_ACTION"
	CodeInvalidPayload = "INVALID_PAYLOAD"
	CodeUnknownCaller  = "UNKNOWN_CALLER"
	CodeForbidden      = "FORBIDDEN"
	CodeNotFound       = "NOT_FOUND"
	CodeAmbiguousStaff = "AMBIGUOUS_STAFF"
	CodeBusinessRule   = "BUSINESS_RULE"
	CodeConflict       = "CONFLICT"
	CodeInternal       = "INTERNAL"
)

// ActionError is a fully shaped failure: HTTP status, machine code and
// the bilingual explanation the caller relays verbatim. Handlers build
// these for every anticipated failure; anything else becomes a 500.
type ActionError struct {
	Status      int
	Code        string
	Text        i18n.Text
	Suggestions []Suggestion
	Issues      []string
	cause       error
}

func (e *ActionError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Text.EN)
}

func (e *ActionError) Unwrap() error { return e.cause }

func newActionError(status int, code string, text i18n.Text) *ActionError {
	return &ActionError{Status: status, Code: code, Text: text}
}

func (e *ActionError) withCause(err error) *ActionError {
	e.cause = err
	return e
}

func (e *ActionError) withSuggestions(s []Suggestion) *ActionError {
	e.Suggestions = s
	return e
}

func (e *ActionError) withIssues(issues []string) *ActionError {
	e.Issues = issues
	return e
}
