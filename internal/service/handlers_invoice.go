package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wessamh/edara-actions/internal/i18n"
	"github.com/wessamh/edara-actions/internal/ledger"
	"github.com/wessamh/edara-actions/internal/model"
)

// payInvoice handles both modes: pay a specific amount, or settle the
// whole remaining balance when full=true.
func (s *ActionService) payInvoice(ctx context.Context, _ *model.Accountant, raw json.RawMessage) (*Result, error) {
	var p payInvoicePayload
	if err := decodePayload(raw, &p); err != nil {
		return nil, err
	}

	inv, err := s.findInvoice(ctx, p)
	if err != nil {
		return nil, err
	}
	if inv.IsPaid {
		return nil, newActionError(http.StatusConflict, CodeConflict, i18n.InvoiceAlreadyPaid(inv.InvoiceNumber))
	}

	var amount decimal.Decimal
	if p.Full {
		amount = ledger.FullPaymentAmount(inv)
	} else {
		if p.Amount == nil {
			return nil, invalidPayloadErr("amount is required unless full=true")
		}
		amount = *p.Amount
		if amount.Sign() <= 0 {
			return nil, newActionError(http.StatusBadRequest, CodeBusinessRule, i18n.InvalidAmount())
		}
	}

	paid, err := s.store.PayInvoice(ctx, inv.ID, amount, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, notFoundErr("invoice")
		case errors.Is(err, ledger.ErrOverpay):
			return nil, newActionError(http.StatusBadRequest, CodeBusinessRule,
				i18n.PaymentExceedsRemaining(inv.RemainingBalance.String())).withCause(err)
		case errors.Is(err, ledger.ErrInvoiceAlreadyPaid):
			return nil, newActionError(http.StatusConflict, CodeConflict, i18n.InvoiceAlreadyPaid(inv.InvoiceNumber)).withCause(err)
		case errors.Is(err, ledger.ErrNonPositiveAmount):
			return nil, newActionError(http.StatusBadRequest, CodeBusinessRule, i18n.InvalidAmount()).withCause(err)
		default:
			return nil, err
		}
	}

	return &Result{
		Data: map[string]any{
			"invoice": paid.Invoice,
			"payment": paid.Payment,
		},
		Message: fmt.Sprintf("payment of %s recorded on invoice %s", amount, paid.Invoice.InvoiceNumber),
		Text: i18n.InvoicePaid(
			paid.Invoice.InvoiceNumber,
			amount.String(),
			paid.Invoice.RemainingBalance.String(),
			paid.Invoice.IsPaid,
		),
	}, nil
}

func (s *ActionService) findInvoice(ctx context.Context, p payInvoicePayload) (*model.Invoice, error) {
	switch {
	case p.InvoiceID != nil:
		inv, err := s.store.InvoiceByID(ctx, *p.InvoiceID)
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundErr("invoice")
		}
		return inv, err
	case strings.TrimSpace(p.InvoiceNumber) != "":
		inv, err := s.store.InvoiceByNumber(ctx, strings.TrimSpace(p.InvoiceNumber))
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundErr("invoice")
		}
		return inv, err
	default:
		return nil, invalidPayloadErr("invoiceId or invoiceNumber is required")
	}
}
