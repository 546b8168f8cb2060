package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PayrollStatus string

const (
	PayrollStatusPending PayrollStatus = "PENDING"
	PayrollStatusPaid    PayrollStatus = "PAID"
)

// Payroll is a per-month snapshot: items are computed from current
// salaries and currently pending advances at creation time and never
// recomputed. At most one payroll exists per month.
type Payroll struct {
	ID            uuid.UUID
	Month         string // "YYYY-MM"
	TotalGross    decimal.Decimal
	TotalAdvances decimal.Decimal
	TotalNet      decimal.Decimal
	Status        PayrollStatus
	PaidAt        *time.Time
	CreatedAt     time.Time
	Items         []PayrollItem `gorm:"-"`
}

type PayrollItem struct {
	ID        uuid.UUID
	PayrollID uuid.UUID
	StaffID   uuid.UUID
	StaffName string
	Salary    decimal.Decimal
	Advances  decimal.Decimal
	Net       decimal.Decimal
}
