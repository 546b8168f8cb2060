package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wessamh/edara-actions/internal/ledger"
	"github.com/wessamh/edara-actions/internal/model"
	"github.com/wessamh/edara-actions/internal/service"
)

type advanceRow struct {
	ID                    uuid.UUID
	StaffID               uuid.UUID
	Amount                decimal.Decimal
	Status                model.AdvanceStatus
	Note                  *string
	DeductedFromPayrollID *uuid.UUID
	CreatedAt             time.Time
	StaffName             string
}

func (row advanceRow) toServiceRow() service.AdvanceRow {
	return service.AdvanceRow{
		StaffAdvance: model.StaffAdvance{
			ID:                    row.ID,
			StaffID:               row.StaffID,
			Amount:                row.Amount,
			Status:                row.Status,
			Note:                  row.Note,
			DeductedFromPayrollID: row.DeductedFromPayrollID,
			CreatedAt:             row.CreatedAt,
		},
		StaffName: row.StaffName,
	}
}

const advanceSelect = `
	SELECT
		a.id,
		a.staff_id,
		a.amount,
		a.status,
		a.note,
		a.deducted_from_payroll_id,
		a.created_at,
		s.name AS staff_name
	FROM staff_advances a
	JOIN staff s ON s.id = a.staff_id
`

// CreateStaffAdvance inserts the advance and bumps the staff member's
// cached pending total in the same transaction.
func (r *Repository) CreateStaffAdvance(ctx context.Context, adv *model.StaffAdvance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var saved model.StaffAdvance
		err := tx.Raw(`
			INSERT INTO staff_advances (id, staff_id, amount, status, note)
			VALUES (?, ?, ?, ?, ?)
			RETURNING id, staff_id, amount, status, note, deducted_from_payroll_id, created_at
		`, adv.ID, adv.StaffID, adv.Amount, adv.Status, adv.Note).Scan(&saved).Error
		if err != nil {
			return err
		}
		*adv = saved

		return tx.Exec(`
			UPDATE staff
			SET pending_advance_total = pending_advance_total + ?
			WHERE id = ?
		`, adv.Amount, adv.StaffID).Error
	})
}

// UpdateStaffAdvance edits a PENDING advance. The cached pending total
// moves by the amount delta, not by a re-query.
func (r *Repository) UpdateStaffAdvance(ctx context.Context, id uuid.UUID, amount *decimal.Decimal, note *string) (*service.AdvanceRow, error) {
	var result service.AdvanceRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := lockAdvance(tx, id)
		if err != nil {
			return err
		}
		adv := row.toServiceRow()
		if err := ledger.EnsureMutable(&adv.StaffAdvance); err != nil {
			return err
		}

		newAmount := adv.Amount
		if amount != nil {
			newAmount = *amount
		}
		newNote := adv.Note
		if note != nil {
			newNote = note
		}

		if err := tx.Exec(`
			UPDATE staff_advances SET amount = ?, note = ? WHERE id = ?
		`, newAmount, newNote, id).Error; err != nil {
			return err
		}

		delta := newAmount.Sub(adv.Amount)
		if !delta.IsZero() {
			if err := tx.Exec(`
				UPDATE staff
				SET pending_advance_total = pending_advance_total + ?
				WHERE id = ?
			`, delta, adv.StaffID).Error; err != nil {
				return err
			}
		}

		adv.Amount = newAmount
		adv.Note = newNote
		result = adv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *Repository) DeleteStaffAdvance(ctx context.Context, id uuid.UUID) (*service.AdvanceRow, error) {
	var result service.AdvanceRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := lockAdvance(tx, id)
		if err != nil {
			return err
		}
		adv := row.toServiceRow()
		if err := ledger.EnsureMutable(&adv.StaffAdvance); err != nil {
			return err
		}

		if err := tx.Exec(`DELETE FROM staff_advances WHERE id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`
			UPDATE staff
			SET pending_advance_total = pending_advance_total - ?
			WHERE id = ?
		`, adv.Amount, adv.StaffID).Error; err != nil {
			return err
		}

		result = adv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *Repository) ListStaffAdvances(ctx context.Context, f service.AdvanceFilter) ([]service.AdvanceRow, error) {
	baseQuery := advanceSelect + " WHERE 1=1"
	var args []interface{}
	if f.StaffID != nil {
		baseQuery += " AND a.staff_id = ?"
		args = append(args, *f.StaffID)
	}
	if f.Status != nil {
		baseQuery += " AND a.status = ?"
		args = append(args, *f.Status)
	}
	if f.From != nil {
		baseQuery += " AND a.created_at >= ?"
		args = append(args, *f.From)
	}
	if f.To != nil {
		baseQuery += " AND a.created_at < ?"
		args = append(args, *f.To)
	}
	baseQuery += " ORDER BY a.created_at ASC, a.id ASC"

	var rows []advanceRow
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]service.AdvanceRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toServiceRow())
	}
	return result, nil
}

func (r *Repository) CreatePMAdvance(ctx context.Context, adv *model.PMAdvance) error {
	var saved model.PMAdvance
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO pm_advances (id, staff_id, project_id, amount, remaining_amount, notes)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, staff_id, project_id, amount, remaining_amount, notes, created_at
	`, adv.ID, adv.StaffID, adv.ProjectID, adv.Amount, adv.RemainingAmount, adv.Notes).Scan(&saved).Error
	if err != nil {
		return err
	}
	*adv = saved
	return nil
}

func lockAdvance(tx *gorm.DB, id uuid.UUID) (*advanceRow, error) {
	var row advanceRow
	if err := tx.Raw(advanceSelect+`
		WHERE a.id = ?
		LIMIT 1
		FOR UPDATE OF a
	`, id).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, service.ErrNotFound
	}
	return &row, nil
}
