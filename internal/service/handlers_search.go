package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wessamh/edara-actions/internal/i18n"
	"github.com/wessamh/edara-actions/internal/model"
	"github.com/wessamh/edara-actions/internal/search"
)

func (s *ActionService) searchStaff(ctx context.Context, _ *model.Accountant, raw json.RawMessage) (*Result, error) {
	var p searchStaffPayload
	if err := decodePayload(raw, &p); err != nil {
		return nil, err
	}
	if p.StaffID == nil && strings.TrimSpace(p.StaffQuery) == "" {
		return nil, invalidPayloadErr("staffId or staffQuery is required")
	}

	res, err := s.resolveStaffRef(ctx, p.staffRef)
	if err != nil {
		return nil, err
	}

	dto := resolutionDTOFrom(res)
	return &Result{
		Data:    dto,
		Message: fmt.Sprintf("%d staff matched", len(dto.Matches)),
		Text:    i18n.SearchResults(len(dto.Matches)),
		Meta:    map[string]any{"autoChosen": dto.Chosen != nil},
	}, nil
}

func (s *ActionService) listStaffAdvances(ctx context.Context, _ *model.Accountant, raw json.RawMessage) (*Result, error) {
	var p listStaffAdvancesPayload
	if err := decodePayload(raw, &p); err != nil {
		return nil, err
	}

	filter := AdvanceFilter{
		From: timePtr(p.From),
		To:   endExclusive(p.To),
	}
	if p.Status != nil {
		status := model.AdvanceStatus(*p.Status)
		if status != model.AdvanceStatusPending && status != model.AdvanceStatusDeducted {
			return nil, invalidPayloadErr(fmt.Sprintf("invalid status %q", *p.Status))
		}
		filter.Status = &status
	}

	var staffName string
	if p.StaffID != nil || strings.TrimSpace(p.StaffQuery) != "" {
		staff, err := s.mustResolveStaff(ctx, p.staffRef)
		if err != nil {
			return nil, err
		}
		filter.StaffID = &staff.ID
		staffName = staff.Name
	}

	rows, err := s.store.ListStaffAdvances(ctx, filter)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	pending := decimal.Zero
	deducted := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Amount)
		switch row.Status {
		case model.AdvanceStatusPending:
			pending = pending.Add(row.Amount)
		case model.AdvanceStatusDeducted:
			deducted = deducted.Add(row.Amount)
		}
	}

	data := map[string]any{
		"advances": rows,
		"totals": map[string]any{
			"count":          len(rows),
			"totalAmount":    total,
			"pendingAmount":  pending,
			"deductedAmount": deducted,
		},
	}
	if staffName != "" {
		data["staffName"] = staffName
	}

	return &Result{
		Data:    data,
		Message: fmt.Sprintf("%d advances listed", len(rows)),
		Text:    i18n.SearchResults(len(rows)),
	}, nil
}

func (s *ActionService) listUnitExpenses(ctx context.Context, _ *model.Accountant, raw json.RawMessage) (*Result, error) {
	var p listUnitExpensesPayload
	if err := decodePayload(raw, &p); err != nil {
		return nil, err
	}
	if p.UnitID == uuid.Nil {
		return nil, invalidPayloadErr("unitId is required")
	}

	unit, err := s.store.UnitByID(ctx, p.UnitID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundErr("unit")
		}
		return nil, err
	}

	query := search.Analyze(p.Search)
	filter := ExpenseFilter{
		UnitID:            p.UnitID,
		Categories:        query.MatchedCategories,
		DescriptionTokens: query.DescriptionTokens,
		TokenVariants:     query.TokenVariants,
		From:              timePtr(p.From),
		To:                endExclusive(p.To),
	}

	expenses, err := s.store.ListUnitExpenses(ctx, filter)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	byCategory := map[model.ExpenseCategory]decimal.Decimal{}
	for _, expense := range expenses {
		total = total.Add(expense.Amount)
		byCategory[expense.Category] = byCategory[expense.Category].Add(expense.Amount)
	}

	return &Result{
		Data: map[string]any{
			"unit":     unit,
			"expenses": expenses,
			"totals": map[string]any{
				"count":       len(expenses),
				"totalAmount": total,
				"byCategory":  byCategory,
			},
			"search": query,
		},
		Message: fmt.Sprintf("%d expenses listed for unit %s", len(expenses), unit.Label),
		Text:    i18n.SearchResults(len(expenses)),
	}, nil
}
