package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AdvanceStatus string

const (
	AdvanceStatusPending  AdvanceStatus = "PENDING"
	AdvanceStatusDeducted AdvanceStatus = "DEDUCTED"
)

// StaffAdvance is cash handed to a staff member ahead of payroll.
// PENDING advances may be edited or deleted; DEDUCTED is terminal and
// only payroll payment moves an advance there.
type StaffAdvance struct {
	ID                    uuid.UUID
	StaffID               uuid.UUID
	Amount                decimal.Decimal
	Status                AdvanceStatus
	Note                  *string
	DeductedFromPayrollID *uuid.UUID
	CreatedAt             time.Time
}

// PMAdvance is a standing float issued to a project manager. It has no
// status; its lifecycle is the RemainingAmount balance drawn down by
// expenses attributed to it.
type PMAdvance struct {
	ID              uuid.UUID
	StaffID         uuid.UUID
	ProjectID       *uuid.UUID
	Amount          decimal.Decimal
	RemainingAmount decimal.Decimal
	Notes           *string
	CreatedAt       time.Time
}
