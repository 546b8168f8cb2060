package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type NoteStatus string

const (
	NoteStatusPending   NoteStatus = "PENDING"
	NoteStatusConverted NoteStatus = "CONVERTED"
	NoteStatusRejected  NoteStatus = "REJECTED"
)

type FundSource string

const (
	FundSourceOfficeFund FundSource = "OFFICE_FUND"
	FundSourcePMAdvance  FundSource = "PM_ADVANCE"
)

type ExpenseCategory string

const (
	CategoryTechnicianWork ExpenseCategory = "TECHNICIAN_WORK"
	CategoryStaffWork      ExpenseCategory = "STAFF_WORK"
	CategoryUtilities      ExpenseCategory = "UTILITIES"
	CategoryOther          ExpenseCategory = "OTHER"
)

// AccountingNote is a pending, unconfirmed expense awaiting conversion
// into a claim invoice plus an operational expense. Rows are created by
// the dashboard; the only transition this service performs is
// PENDING -> CONVERTED.
type AccountingNote struct {
	ID                   uuid.UUID
	UnitID               uuid.UUID
	ProjectID            *uuid.UUID
	Description          string
	Amount               decimal.Decimal
	Status               NoteStatus
	Category             ExpenseCategory
	SourceType           FundSource
	PMAdvanceID          *uuid.UUID
	ConvertedToExpenseID *uuid.UUID
	ConvertedAt          *time.Time
	CreatedAt            time.Time
}

type OperationalExpense struct {
	ID          uuid.UUID
	UnitID      uuid.UUID
	ProjectID   *uuid.UUID
	Description string
	Amount      decimal.Decimal
	Category    ExpenseCategory
	SourceType  FundSource
	PMAdvanceID *uuid.UUID
	NoteID      *uuid.UUID
	CreatedAt   time.Time
}
