package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wessamh/edara-actions/internal/export"
	"github.com/wessamh/edara-actions/internal/model"
	"github.com/wessamh/edara-actions/internal/search"
)

// ExportFile is a rendered download: Content plus the filename the
// browser should save it as.
type ExportFile struct {
	FileName string
	Content  []byte
}

// ExportService renders dashboard downloads off the same store the
// webhook runs against. Reads only; it never mutates the ledger.
type ExportService struct {
	store   Store
	excel   *export.ExcelGenerator
	receipt *export.ReceiptGenerator
}

func NewExportService(store Store, excel *export.ExcelGenerator, receipt *export.ReceiptGenerator) *ExportService {
	return &ExportService{store: store, excel: excel, receipt: receipt}
}

// UnitExpensesInput mirrors the LIST_UNIT_EXPENSES filters, including
// the fuzzy Arabic search.
type UnitExpensesInput struct {
	UnitID uuid.UUID
	Search string
	From   *time.Time
	To     *time.Time
}

func (s *ExportService) UnitExpensesWorkbook(ctx context.Context, in UnitExpensesInput) (*ExportFile, error) {
	unit, err := s.store.UnitByID(ctx, in.UnitID)
	if err != nil {
		return nil, err
	}

	filter := ExpenseFilter{UnitID: in.UnitID, From: in.From, To: in.To}
	if in.Search != "" {
		query := search.Analyze(in.Search)
		filter.Categories = query.MatchedCategories
		filter.DescriptionTokens = query.DescriptionTokens
		filter.TokenVariants = query.TokenVariants
	}
	expenses, err := s.store.ListUnitExpenses(ctx, filter)
	if err != nil {
		return nil, err
	}

	content, err := s.excel.UnitExpenses(export.UnitExpenseReport{
		Unit:       *unit,
		PeriodFrom: in.From,
		PeriodTo:   in.To,
		Expenses:   expenses,
	})
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		FileName: fmt.Sprintf("unit-expenses-%s.xlsx", in.UnitID),
		Content:  content,
	}, nil
}

func (s *ExportService) PayrollWorkbook(ctx context.Context, payrollID uuid.UUID) (*ExportFile, error) {
	payroll, err := s.store.PayrollByID(ctx, payrollID)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.Payroll(*payroll)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		FileName: fmt.Sprintf("payroll-%s.xlsx", payroll.Month),
		Content:  content,
	}, nil
}

func (s *ExportService) InvoiceReceipt(ctx context.Context, invoiceID uuid.UUID) (*ExportFile, error) {
	invoice, err := s.store.InvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.PaymentsByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	var unit *model.Unit
	if invoice.UnitID != nil {
		unit, err = s.store.UnitByID(ctx, *invoice.UnitID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	content, err := s.receipt.Receipt(export.ReceiptDocument{
		Invoice:  *invoice,
		Unit:     unit,
		Payments: payments,
	})
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		FileName: fmt.Sprintf("receipt-%s.pdf", invoice.InvoiceNumber),
		Content:  content,
	}, nil
}
