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

const invoiceSelect = `
	SELECT
		id,
		invoice_number,
		unit_id,
		type,
		amount,
		total_paid,
		remaining_balance,
		is_paid,
		created_at
	FROM invoices
`

func (r *Repository) InvoiceByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	if err := r.db.WithContext(ctx).Raw(invoiceSelect+`
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&inv).Error; err != nil {
		return nil, err
	}
	if inv.ID == uuid.Nil {
		return nil, service.ErrNotFound
	}
	return &inv, nil
}

func (r *Repository) InvoiceByNumber(ctx context.Context, number string) (*model.Invoice, error) {
	var inv model.Invoice
	if err := r.db.WithContext(ctx).Raw(invoiceSelect+`
		WHERE invoice_number = ?
		LIMIT 1
	`, number).Scan(&inv).Error; err != nil {
		return nil, err
	}
	if inv.ID == uuid.Nil {
		return nil, service.ErrNotFound
	}
	return &inv, nil
}

func (r *Repository) PaymentsByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, invoice_id, amount, created_at
		FROM payments
		WHERE invoice_id = ?
		ORDER BY created_at ASC, id ASC
	`, invoiceID).Scan(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// PayInvoice applies one payment atomically: the invoice row is locked,
// the payment guards re-run against the locked balance, and the totals
// update plus the payment row commit together.
func (r *Repository) PayInvoice(ctx context.Context, invoiceID uuid.UUID, amount decimal.Decimal, at time.Time) (*service.PayInvoiceResult, error) {
	var result service.PayInvoiceResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv model.Invoice
		if err := tx.Raw(invoiceSelect+`
			WHERE id = ?
			LIMIT 1
			FOR UPDATE
		`, invoiceID).Scan(&inv).Error; err != nil {
			return err
		}
		if inv.ID == uuid.Nil {
			return service.ErrNotFound
		}
		if err := ledger.ApplyPayment(&inv, amount); err != nil {
			return err
		}

		if err := tx.Exec(`
			UPDATE invoices
			SET total_paid = ?, remaining_balance = ?, is_paid = ?
			WHERE id = ?
		`, inv.TotalPaid, inv.RemainingBalance, inv.IsPaid, inv.ID).Error; err != nil {
			return err
		}

		var payment model.Payment
		if err := tx.Raw(`
			INSERT INTO payments (id, invoice_id, amount, created_at)
			VALUES (?, ?, ?, ?)
			RETURNING id, invoice_id, amount, created_at
		`, uuid.New(), inv.ID, amount, at).Scan(&payment).Error; err != nil {
			return err
		}

		result = service.PayInvoiceResult{Invoice: inv, Payment: payment}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
