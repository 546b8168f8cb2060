package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wessamh/edara-actions/internal/ledger"
	"github.com/wessamh/edara-actions/internal/model"
	"github.com/wessamh/edara-actions/internal/service"
)

const noteSelect = `
	SELECT
		id,
		unit_id,
		project_id,
		description,
		amount,
		status,
		category,
		source_type,
		pm_advance_id,
		converted_to_expense_id,
		converted_at,
		created_at
	FROM accounting_notes
`

// ConvertNote turns a PENDING note into a claim invoice plus an
// operational expense in one transaction. PM-sourced notes draw the
// amount from the funding advance under the same lock, so the balance
// check and the balance write cannot interleave with another convert.
func (r *Repository) ConvertNote(ctx context.Context, noteID uuid.UUID, at time.Time) (*service.ConvertNoteResult, error) {
	var result service.ConvertNoteResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var note model.AccountingNote
		if err := tx.Raw(noteSelect+`
			WHERE id = ?
			LIMIT 1
			FOR UPDATE
		`, noteID).Scan(&note).Error; err != nil {
			return err
		}
		if note.ID == uuid.Nil {
			return service.ErrNotFound
		}
		if err := ledger.EnsureConvertible(&note); err != nil {
			return err
		}

		var pmAdvance *model.PMAdvance
		if note.SourceType == model.FundSourcePMAdvance {
			var adv model.PMAdvance
			if err := tx.Raw(`
				SELECT id, staff_id, project_id, amount, remaining_amount, notes, created_at
				FROM pm_advances
				WHERE id = ?
				LIMIT 1
				FOR UPDATE
			`, *note.PMAdvanceID).Scan(&adv).Error; err != nil {
				return err
			}
			if adv.ID == uuid.Nil {
				return service.ErrNotFound
			}
			if err := ledger.Draw(&adv, note.Amount); err != nil {
				return err
			}
			if err := tx.Exec(`
				UPDATE pm_advances SET remaining_amount = ? WHERE id = ?
			`, adv.RemainingAmount, adv.ID).Error; err != nil {
				return err
			}
			pmAdvance = &adv
		}

		var seq int64
		if err := tx.Raw(`SELECT nextval('claim_invoice_seq')`).Scan(&seq).Error; err != nil {
			return err
		}
		invoiceNumber := fmt.Sprintf("CLM-%06d", seq)

		var invoice model.Invoice
		if err := tx.Raw(`
			INSERT INTO invoices (id, invoice_number, unit_id, type, amount, total_paid, remaining_balance, is_paid)
			VALUES (?, ?, ?, ?, ?, 0, ?, FALSE)
			RETURNING id, invoice_number, unit_id, type, amount, total_paid, remaining_balance, is_paid, created_at
		`, uuid.New(), invoiceNumber, note.UnitID, model.InvoiceTypeClaim, note.Amount, note.Amount).Scan(&invoice).Error; err != nil {
			return err
		}

		var expense model.OperationalExpense
		if err := tx.Raw(`
			INSERT INTO operational_expenses (id, unit_id, project_id, description, amount, category, source_type, pm_advance_id, note_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id, unit_id, project_id, description, amount, category, source_type, pm_advance_id, note_id, created_at
		`, uuid.New(), note.UnitID, note.ProjectID, note.Description, note.Amount,
			note.Category, note.SourceType, note.PMAdvanceID, note.ID, at).Scan(&expense).Error; err != nil {
			return err
		}

		if err := ledger.MarkConverted(&note, expense.ID, at); err != nil {
			return err
		}
		if err := tx.Exec(`
			UPDATE accounting_notes
			SET status = ?, converted_to_expense_id = ?, converted_at = ?
			WHERE id = ?
		`, note.Status, note.ConvertedToExpenseID, note.ConvertedAt, note.ID).Error; err != nil {
			return err
		}

		result = service.ConvertNoteResult{
			Note:      note,
			Invoice:   invoice,
			Expense:   expense,
			PMAdvance: pmAdvance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *Repository) SearchNotes(ctx context.Context, f service.NoteFilter) ([]model.AccountingNote, error) {
	baseQuery := noteSelect + " WHERE 1=1"
	var args []interface{}
	if f.Status != nil {
		baseQuery += " AND status = ?"
		args = append(args, *f.Status)
	}
	if f.UnitID != nil {
		baseQuery += " AND unit_id = ?"
		args = append(args, *f.UnitID)
	}
	if f.ProjectID != nil {
		baseQuery += " AND project_id = ?"
		args = append(args, *f.ProjectID)
	}
	if len(f.Categories) > 0 {
		baseQuery += " AND category IN ?"
		args = append(args, f.Categories)
	}
	if f.From != nil {
		baseQuery += " AND created_at >= ?"
		args = append(args, *f.From)
	}
	if f.To != nil {
		baseQuery += " AND created_at < ?"
		args = append(args, *f.To)
	}
	baseQuery, args = tokenVariantFilter(baseQuery, args, "description", f.DescriptionTokens, f.TokenVariants)
	baseQuery += " ORDER BY created_at DESC, id ASC"

	var notes []model.AccountingNote
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}
