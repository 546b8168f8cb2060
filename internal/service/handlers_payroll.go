package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/wessamh/edara-actions/internal/i18n"
	"github.com/wessamh/edara-actions/internal/ledger"
	"github.com/wessamh/edara-actions/internal/model"
)

func (s *ActionService) createPayroll(ctx context.Context, _ *model.Accountant, raw json.RawMessage) (*Result, error) {
	var p createPayrollPayload
	if err := decodePayload(raw, &p); err != nil {
		return nil, err
	}
	month, ok := monthKey(p.Month)
	if !ok {
		return nil, newActionError(http.StatusBadRequest, CodeInvalidPayload, i18n.InvalidMonth(p.Month))
	}

	payroll, err := s.store.CreatePayroll(ctx, month, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, ErrPayrollMonthExists):
			return nil, newActionError(http.StatusConflict, CodeConflict, i18n.PayrollMonthTaken(month)).withCause(err)
		case errors.Is(err, ErrNoStaff):
			return nil, newActionError(http.StatusBadRequest, CodeBusinessRule, i18n.NoStaffForPayroll()).withCause(err)
		default:
			return nil, err
		}
	}

	return &Result{
		Status:  http.StatusCreated,
		Data:    map[string]any{"payroll": payroll},
		Message: fmt.Sprintf("payroll %s created for %s", payroll.ID, month),
		Text:    i18n.PayrollCreated(month, len(payroll.Items), payroll.TotalNet.String()),
	}, nil
}

func (s *ActionService) payPayroll(ctx context.Context, _ *model.Accountant, raw json.RawMessage) (*Result, error) {
	var p payPayrollPayload
	if err := decodePayload(raw, &p); err != nil {
		return nil, err
	}

	payroll, err := s.findPayroll(ctx, p)
	if err != nil {
		return nil, err
	}

	paid, err := s.store.PayPayroll(ctx, payroll.ID, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, notFoundErr("payroll")
		case errors.Is(err, ledger.ErrPayrollAlreadyPaid):
			return nil, newActionError(http.StatusConflict, CodeConflict, i18n.PayrollAlreadyPaid(payroll.Month)).withCause(err)
		default:
			return nil, err
		}
	}

	return &Result{
		Data: map[string]any{
			"payroll":          paid.Payroll,
			"deductedAdvances": paid.DeductedAdvances,
		},
		Message: fmt.Sprintf("payroll %s paid, %d advances deducted", paid.Payroll.Month, paid.DeductedAdvances),
		Text:    i18n.PayrollPaid(paid.Payroll.Month, int(paid.DeductedAdvances)),
	}, nil
}

func (s *ActionService) findPayroll(ctx context.Context, p payPayrollPayload) (*model.Payroll, error) {
	switch {
	case p.PayrollID != nil:
		payroll, err := s.store.PayrollByID(ctx, *p.PayrollID)
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundErr("payroll")
		}
		return payroll, err
	case strings.TrimSpace(p.Month) != "":
		month, ok := monthKey(p.Month)
		if !ok {
			return nil, newActionError(http.StatusBadRequest, CodeInvalidPayload, i18n.InvalidMonth(p.Month))
		}
		payroll, err := s.store.PayrollByMonth(ctx, month)
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundErr("payroll")
		}
		return payroll, err
	default:
		return nil, invalidPayloadErr("payrollId or month is required")
	}
}
