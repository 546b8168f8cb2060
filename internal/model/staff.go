package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Staff struct {
	ID        uuid.UUID
	Name      string
	ProjectID *uuid.UUID
	Salary    decimal.Decimal
	CreatedAt time.Time
}

type Project struct {
	ID   uuid.UUID
	Name string
}

// Unit is a leasable unit inside a managed building. Created and edited
// by the dashboard; notes, expenses and claim invoices reference it.
type Unit struct {
	ID           uuid.UUID
	Label        string
	BuildingName string
}

// StaffWithAdvances is a staff row joined with its PENDING advance
// aggregate, the shape the resolution engine ranks over.
type StaffWithAdvances struct {
	Staff
	PendingCount  int64
	PendingTotal  decimal.Decimal
	PendingAdvIDs []uuid.UUID `gorm:"-"`
}
