package service

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Action is the fixed, case-sensitive webhook action enum. Anything
// outside this set is rejected before the accountant is even resolved.
type Action string

const (
	ActionCreatePMAdvance       Action = "CREATE_PM_ADVANCE"
	ActionCreateStaffAdvance    Action = "CREATE_STAFF_ADVANCE"
	ActionUpdateStaffAdvance    Action = "UPDATE_STAFF_ADVANCE"
	ActionDeleteStaffAdvance    Action = "DELETE_STAFF_ADVANCE"
	ActionRecordAccountingNote  Action = "RECORD_ACCOUNTING_NOTE"
	ActionPayInvoice            Action = "PAY_INVOICE"
	ActionCreatePayroll         Action = "CREATE_PAYROLL"
	ActionPayPayroll            Action = "PAY_PAYROLL"
	ActionListUnitExpenses      Action = "LIST_UNIT_EXPENSES"
	ActionSearchStaff           Action = "SEARCH_STAFF"
	ActionListStaffAdvances     Action = "LIST_STAFF_ADVANCES"
	ActionSearchAccountingNotes Action = "SEARCH_ACCOUNTING_NOTES"
)

// AllActions lists every enum member; the registry test keys off it.
func AllActions() []Action {
	return []Action{
		ActionCreatePMAdvance,
		ActionCreateStaffAdvance,
		ActionUpdateStaffAdvance,
		ActionDeleteStaffAdvance,
		ActionRecordAccountingNote,
		ActionPayInvoice,
		ActionCreatePayroll,
		ActionPayPayroll,
		ActionListUnitExpenses,
		ActionSearchStaff,
		ActionListStaffAdvances,
		ActionSearchAccountingNotes,
	}
}

// Envelope is the single inbound webhook shape. Payload stays raw until
// the dispatcher knows which typed payload the action carries.
type Envelope struct {
	Action      string          `json:"action" binding:"required"`
	SenderPhone string          `json:"senderPhone" binding:"required"`
	Payload     json.RawMessage `json:"payload"`
}

// staffRef is the shared "which staff member do you mean" fragment:
// either a direct id or a fuzzy query, optionally scoped to a project.
type staffRef struct {
	StaffID                 *uuid.UUID `json:"staffId"`
	StaffQuery              string     `json:"staffQuery"`
	ProjectID               *uuid.UUID `json:"projectId"`
	OnlyWithPendingAdvances bool       `json:"onlyWithPendingAdvances"`
}

type createStaffAdvancePayload struct {
	staffRef
	Amount decimal.Decimal `json:"amount"`
	Note   *string         `json:"note"`
}

type updateStaffAdvancePayload struct {
	AdvanceID uuid.UUID        `json:"advanceId"`
	Amount    *decimal.Decimal `json:"amount"`
	Note      *string          `json:"note"`
}

type deleteStaffAdvancePayload struct {
	AdvanceID uuid.UUID `json:"advanceId"`
}

type createPMAdvancePayload struct {
	staffRef
	Amount decimal.Decimal `json:"amount"`
	Notes  *string         `json:"notes"`
}

type recordNotePayload struct {
	NoteID uuid.UUID `json:"noteId"`
}

type payInvoicePayload struct {
	InvoiceID     *uuid.UUID       `json:"invoiceId"`
	InvoiceNumber string           `json:"invoiceNumber"`
	Amount        *decimal.Decimal `json:"amount"`
	Full          bool             `json:"full"`
}

type createPayrollPayload struct {
	Month string `json:"month"`
}

type payPayrollPayload struct {
	PayrollID *uuid.UUID `json:"payrollId"`
	Month     string     `json:"month"`
}

type listUnitExpensesPayload struct {
	UnitID uuid.UUID `json:"unitId"`
	Search string    `json:"search"`
	From   *dateOnly `json:"from"`
	To     *dateOnly `json:"to"`
}

type searchStaffPayload struct {
	staffRef
}

type listStaffAdvancesPayload struct {
	staffRef
	Status *string   `json:"status"`
	From   *dateOnly `json:"from"`
	To     *dateOnly `json:"to"`
}

type searchNotesPayload struct {
	Search    string     `json:"search"`
	Status    *string    `json:"status"`
	UnitID    *uuid.UUID `json:"unitId"`
	ProjectID *uuid.UUID `json:"projectId"`
	From      *dateOnly  `json:"from"`
	To        *dateOnly  `json:"to"`
}
