package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wessamh/edara-actions/internal/ledger"
	"github.com/wessamh/edara-actions/internal/model"
	"github.com/wessamh/edara-actions/internal/service"
)

const payrollSelect = `
	SELECT
		id,
		month,
		total_gross,
		total_advances,
		total_net,
		status,
		paid_at,
		created_at
	FROM payrolls
`

func (r *Repository) PayrollByID(ctx context.Context, id uuid.UUID) (*model.Payroll, error) {
	var p model.Payroll
	if err := r.db.WithContext(ctx).Raw(payrollSelect+`
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&p).Error; err != nil {
		return nil, err
	}
	if p.ID == uuid.Nil {
		return nil, service.ErrNotFound
	}
	if err := r.fillItems(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) PayrollByMonth(ctx context.Context, month string) (*model.Payroll, error) {
	var p model.Payroll
	if err := r.db.WithContext(ctx).Raw(payrollSelect+`
		WHERE month = ?
		LIMIT 1
	`, month).Scan(&p).Error; err != nil {
		return nil, err
	}
	if p.ID == uuid.Nil {
		return nil, service.ErrNotFound
	}
	if err := r.fillItems(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) fillItems(ctx context.Context, p *model.Payroll) error {
	return r.db.WithContext(ctx).Raw(`
		SELECT id, payroll_id, staff_id, staff_name, salary, advances, net
		FROM payroll_items
		WHERE payroll_id = ?
		ORDER BY staff_name ASC, staff_id ASC
	`, p.ID).Scan(&p.Items).Error
}

// CreatePayroll snapshots every staff member's salary and currently
// pending advances into a new PENDING payroll for the month. The unique
// index on month is the authority on duplicates; a concurrent create
// surfaces as ErrPayrollMonthExists either way.
func (r *Repository) CreatePayroll(ctx context.Context, month string, at time.Time) (*model.Payroll, error) {
	var payroll model.Payroll
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Raw(`SELECT COUNT(*) FROM payrolls WHERE month = ?`, month).Scan(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return service.ErrPayrollMonthExists
		}

		var staff []model.Staff
		if err := tx.Raw(`
			SELECT id, name, project_id, salary, created_at
			FROM staff
			ORDER BY name ASC, id ASC
		`).Scan(&staff).Error; err != nil {
			return err
		}
		if len(staff) == 0 {
			return service.ErrNoStaff
		}

		var pendingRows []struct {
			StaffID uuid.UUID
			Total   decimal.Decimal
		}
		if err := tx.Raw(`
			SELECT staff_id, SUM(amount) AS total
			FROM staff_advances
			WHERE status = ?
			GROUP BY staff_id
		`, model.AdvanceStatusPending).Scan(&pendingRows).Error; err != nil {
			return err
		}
		pendingByStaff := make(map[uuid.UUID]decimal.Decimal, len(pendingRows))
		for _, row := range pendingRows {
			pendingByStaff[row.StaffID] = row.Total
		}

		items, totals := ledger.BuildItems(staff, pendingByStaff)

		if err := tx.Raw(`
			INSERT INTO payrolls (id, month, total_gross, total_advances, total_net, status)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id, month, total_gross, total_advances, total_net, status, paid_at, created_at
		`, uuid.New(), month, totals.Gross, totals.Advances, totals.Net,
			model.PayrollStatusPending).Scan(&payroll).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return service.ErrPayrollMonthExists
			}
			return err
		}

		for i := range items {
			items[i].ID = uuid.New()
			items[i].PayrollID = payroll.ID
			if err := tx.Exec(`
				INSERT INTO payroll_items (id, payroll_id, staff_id, staff_name, salary, advances, net)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, items[i].ID, items[i].PayrollID, items[i].StaffID, items[i].StaffName,
				items[i].Salary, items[i].Advances, items[i].Net).Error; err != nil {
				return err
			}
		}
		payroll.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payroll, nil
}

// PayPayroll marks the payroll PAID and, in the same transaction,
// deducts the pending advances of every staff member on the snapshot
// and zeroes their cached pending totals.
func (r *Repository) PayPayroll(ctx context.Context, payrollID uuid.UUID, at time.Time) (*service.PayPayrollResult, error) {
	var result service.PayPayrollResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payroll model.Payroll
		if err := tx.Raw(payrollSelect+`
			WHERE id = ?
			LIMIT 1
			FOR UPDATE
		`, payrollID).Scan(&payroll).Error; err != nil {
			return err
		}
		if payroll.ID == uuid.Nil {
			return service.ErrNotFound
		}
		if err := ledger.MarkPaid(&payroll, at); err != nil {
			return err
		}

		deduct := tx.Exec(`
			UPDATE staff_advances
			SET status = ?, deducted_from_payroll_id = ?
			WHERE status = ?
			  AND staff_id IN (SELECT staff_id FROM payroll_items WHERE payroll_id = ?)
		`, model.AdvanceStatusDeducted, payroll.ID, model.AdvanceStatusPending, payroll.ID)
		if deduct.Error != nil {
			return deduct.Error
		}

		if err := tx.Exec(`
			UPDATE staff
			SET pending_advance_total = 0
			WHERE id IN (SELECT staff_id FROM payroll_items WHERE payroll_id = ?)
		`, payroll.ID).Error; err != nil {
			return err
		}

		if err := tx.Exec(`
			UPDATE payrolls SET status = ?, paid_at = ? WHERE id = ?
		`, payroll.Status, payroll.PaidAt, payroll.ID).Error; err != nil {
			return err
		}

		if err := tx.Raw(`
			SELECT id, payroll_id, staff_id, staff_name, salary, advances, net
			FROM payroll_items
			WHERE payroll_id = ?
			ORDER BY staff_name ASC, staff_id ASC
		`, payroll.ID).Scan(&payroll.Items).Error; err != nil {
			return err
		}

		result = service.PayPayrollResult{
			Payroll:          payroll,
			DeductedAdvances: deduct.RowsAffected,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
