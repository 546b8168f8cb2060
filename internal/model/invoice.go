package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceType string

const (
	InvoiceTypeClaim InvoiceType = "CLAIM"
	InvoiceTypeRent  InvoiceType = "RENT"
	InvoiceTypeOther InvoiceType = "OTHER"
)

// Invoice keeps TotalPaid + RemainingBalance == Amount at all times.
// The paid state is derived from the balance, not stored as an enum.
type Invoice struct {
	ID               uuid.UUID
	InvoiceNumber    string
	UnitID           *uuid.UUID
	Type             InvoiceType
	Amount           decimal.Decimal
	TotalPaid        decimal.Decimal
	RemainingBalance decimal.Decimal
	IsPaid           bool
	CreatedAt        time.Time
}

// Payment rows are append-only; corrections happen through new rows.
type Payment struct {
	ID        uuid.UUID
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
	CreatedAt time.Time
}
