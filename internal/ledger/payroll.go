package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wessamh/edara-actions/internal/model"
)

// PayrollTotals are the header sums of a payroll snapshot.
type PayrollTotals struct {
	Gross    decimal.Decimal
	Advances decimal.Decimal
	Net      decimal.Decimal
}

// BuildItems computes the payroll snapshot: one item per staff member,
// net = salary - sum of that member's currently pending advances. The
// result is a snapshot taken at creation time, never a live view.
func BuildItems(staff []model.Staff, pendingByStaff map[uuid.UUID]decimal.Decimal) ([]model.PayrollItem, PayrollTotals) {
	items := make([]model.PayrollItem, 0, len(staff))
	totals := PayrollTotals{
		Gross:    decimal.Zero,
		Advances: decimal.Zero,
		Net:      decimal.Zero,
	}
	for _, s := range staff {
		advances := pendingByStaff[s.ID]
		net := s.Salary.Sub(advances)
		items = append(items, model.PayrollItem{
			StaffID:   s.ID,
			StaffName: s.Name,
			Salary:    s.Salary,
			Advances:  advances,
			Net:       net,
		})
		totals.Gross = totals.Gross.Add(s.Salary)
		totals.Advances = totals.Advances.Add(advances)
		totals.Net = totals.Net.Add(net)
	}
	return items, totals
}

// EnsurePayable rejects paying an already-PAID payroll.
func EnsurePayable(p *model.Payroll) error {
	if p.Status != model.PayrollStatusPending {
		return ErrPayrollAlreadyPaid
	}
	return nil
}

// MarkPaid transitions PENDING -> PAID with a timestamp. The caller is
// responsible for deducting the staff set's pending advances in the
// same transaction.
func MarkPaid(p *model.Payroll, at time.Time) error {
	if err := EnsurePayable(p); err != nil {
		return err
	}
	p.Status = model.PayrollStatusPaid
	p.PaidAt = &at
	return nil
}
