package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/wessamh/edara-actions/internal/model"
)

// ApplyPayment appends a payment to the invoice totals, keeping
// TotalPaid + RemainingBalance == Amount. The invoice is left untouched
// when the payment is rejected.
func ApplyPayment(inv *model.Invoice, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrNonPositiveAmount
	}
	if inv.RemainingBalance.Sign() <= 0 {
		return ErrInvoiceAlreadyPaid
	}
	if amount.GreaterThan(inv.RemainingBalance) {
		return ErrOverpay
	}
	inv.TotalPaid = inv.TotalPaid.Add(amount)
	inv.RemainingBalance = inv.RemainingBalance.Sub(amount)
	inv.IsPaid = inv.RemainingBalance.Sign() <= 0
	return nil
}

// FullPaymentAmount is the amount a "mark fully paid" action pays:
// exactly the remaining balance.
func FullPaymentAmount(inv *model.Invoice) decimal.Decimal {
	return inv.RemainingBalance
}
