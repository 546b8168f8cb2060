package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wessamh/edara-actions/internal/model"
	"github.com/wessamh/edara-actions/internal/search"
)

// StaffFilter scopes the candidate set handed to the resolution engine.
type StaffFilter struct {
	ProjectID   *uuid.UUID
	OnlyPending bool // only staff with >= 1 PENDING advance
}

// AdvanceFilter narrows LIST_STAFF_ADVANCES.
type AdvanceFilter struct {
	StaffID *uuid.UUID
	Status  *model.AdvanceStatus
	From    *time.Time
	To      *time.Time // exclusive
}

// AdvanceRow is an advance joined with its staff name for display.
type AdvanceRow struct {
	model.StaffAdvance
	StaffName string
}

// NoteFilter combines structured filters with the analyzer's fuzzy
// parts. DescriptionTokens AND together; each token ORs across its
// variants.
type NoteFilter struct {
	Status            *model.NoteStatus
	UnitID            *uuid.UUID
	ProjectID         *uuid.UUID
	Categories        []model.ExpenseCategory
	DescriptionTokens []string
	TokenVariants     map[string][]string
	From              *time.Time
	To                *time.Time
}

// ExpenseFilter narrows LIST_UNIT_EXPENSES to one unit.
type ExpenseFilter struct {
	UnitID            uuid.UUID
	Categories        []model.ExpenseCategory
	DescriptionTokens []string
	TokenVariants     map[string][]string
	From              *time.Time
	To                *time.Time
}

// ConvertNoteResult is everything a note conversion created or changed
// in its single transaction.
type ConvertNoteResult struct {
	Note      model.AccountingNote
	Invoice   model.Invoice
	Expense   model.OperationalExpense
	PMAdvance *model.PMAdvance // post-draw balance when PM-sourced
}

type PayInvoiceResult struct {
	Invoice model.Invoice
	Payment model.Payment
}

type PayPayrollResult struct {
	Payroll          model.Payroll
	DeductedAdvances int64
}

// Store is the transactional data store the engine runs against. Each
// mutating method is one atomic unit: the implementation re-checks the
// ledger guards against locked rows and commits all writes or none,
// surfacing guard failures as ledger sentinel errors and missing rows
// as ErrNotFound.
type Store interface {
	// identity & directory
	AccountantByPhone(ctx context.Context, phone string) (*model.Accountant, error)
	StaffByID(ctx context.Context, id uuid.UUID) (*model.StaffWithAdvances, error)
	ListStaff(ctx context.Context, f StaffFilter) ([]model.StaffWithAdvances, error)
	ProjectByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	UnitByID(ctx context.Context, id uuid.UUID) (*model.Unit, error)

	// staff advances
	CreateStaffAdvance(ctx context.Context, adv *model.StaffAdvance) error
	UpdateStaffAdvance(ctx context.Context, id uuid.UUID, amount *decimal.Decimal, note *string) (*AdvanceRow, error)
	DeleteStaffAdvance(ctx context.Context, id uuid.UUID) (*AdvanceRow, error)
	ListStaffAdvances(ctx context.Context, f AdvanceFilter) ([]AdvanceRow, error)

	// pm advances
	CreatePMAdvance(ctx context.Context, adv *model.PMAdvance) error

	// accounting notes
	ConvertNote(ctx context.Context, noteID uuid.UUID, at time.Time) (*ConvertNoteResult, error)
	SearchNotes(ctx context.Context, f NoteFilter) ([]model.AccountingNote, error)

	// invoices
	InvoiceByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	InvoiceByNumber(ctx context.Context, number string) (*model.Invoice, error)
	PayInvoice(ctx context.Context, invoiceID uuid.UUID, amount decimal.Decimal, at time.Time) (*PayInvoiceResult, error)
	PaymentsByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.Payment, error)

	// payroll
	PayrollByID(ctx context.Context, id uuid.UUID) (*model.Payroll, error)
	PayrollByMonth(ctx context.Context, month string) (*model.Payroll, error)
	CreatePayroll(ctx context.Context, month string, at time.Time) (*model.Payroll, error)
	PayPayroll(ctx context.Context, payrollID uuid.UUID, at time.Time) (*PayPayrollResult, error)

	// expenses
	ListUnitExpenses(ctx context.Context, f ExpenseFilter) ([]model.OperationalExpense, error)
}

// noteFilterFromQuery lifts the analyzer output into a store filter.
func noteFilterFromQuery(q search.Query) NoteFilter {
	return NoteFilter{
		Categories:        q.MatchedCategories,
		DescriptionTokens: q.DescriptionTokens,
		TokenVariants:     q.TokenVariants,
	}
}
