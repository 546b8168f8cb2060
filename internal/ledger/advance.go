package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wessamh/edara-actions/internal/model"
)

// EnsureMutable rejects edits and deletes on anything but a PENDING
// staff advance. DEDUCTED is terminal.
func EnsureMutable(adv *model.StaffAdvance) error {
	if adv.Status != model.AdvanceStatusPending {
		return ErrAdvanceNotPending
	}
	return nil
}

// MarkDeducted moves a pending advance to DEDUCTED, linking it to the
// payroll that consumed it.
func MarkDeducted(adv *model.StaffAdvance, payrollID uuid.UUID) error {
	if err := EnsureMutable(adv); err != nil {
		return err
	}
	adv.Status = model.AdvanceStatusDeducted
	adv.DeductedFromPayrollID = &payrollID
	return nil
}

// Draw decrements a PM advance balance. The balance never goes
// negative; an over-draw leaves the advance untouched.
func Draw(adv *model.PMAdvance, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrNonPositiveAmount
	}
	if amount.GreaterThan(adv.RemainingAmount) {
		return ErrInsufficientRemaining
	}
	adv.RemainingAmount = adv.RemainingAmount.Sub(amount)
	return nil
}
