package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/wessamh/edara-actions/internal/i18n"
	"github.com/wessamh/edara-actions/internal/ledger"
	"github.com/wessamh/edara-actions/internal/model"
)

func (s *ActionService) createStaffAdvance(ctx context.Context, _ *model.Accountant, raw json.RawMessage) (*Result, error) {
	var p createStaffAdvancePayload
	if err := decodePayload(raw, &p); err != nil {
		return nil, err
	}
	if p.Amount.Sign() <= 0 {
		return nil, newActionError(http.StatusBadRequest, CodeBusinessRule, i18n.InvalidAmount())
	}

	staff, err := s.mustResolveStaff(ctx, p.staffRef)
	if err != nil {
		return nil, err
	}

	adv := &model.StaffAdvance{
		ID:      uuid.New(),
		StaffID: staff.ID,
		Amount:  p.Amount,
		Status:  model.AdvanceStatusPending,
		Note:    p.Note,
	}
	if err := s.store.CreateStaffAdvance(ctx, adv); err != nil {
		return nil, err
	}

	return &Result{
		Status:  http.StatusCreated,
		Data:    map[string]any{"advance": adv, "staffName": staff.Name},
		Message: fmt.Sprintf("staff advance %s created", adv.ID),
		Text:    i18n.StaffAdvanceCreated(staff.Name, p.Amount.String()),
	}, nil
}

func (s *ActionService) updateStaffAdvance(ctx context.Context, _ *model.Accountant, raw json.RawMessage) (*Result, error) {
	var p updateStaffAdvancePayload
	if err := decodePayload(raw, &p); err != nil {
		return nil, err
	}
	if p.AdvanceID == uuid.Nil {
		return nil, invalidPayloadErr("advanceId is required")
	}
	if p.Amount == nil && p.Note == nil {
		return nil, invalidPayloadErr("nothing to update")
	}
	if p.Amount != nil && p.Amount.Sign() <= 0 {
		return nil, newActionError(http.StatusBadRequest, CodeBusinessRule, i18n.InvalidAmount())
	}

	row, err := s.store.UpdateStaffAdvance(ctx, p.AdvanceID, p.Amount, p.Note)
	if err != nil {
		return nil, mapAdvanceError(err)
	}

	return &Result{
		Data:    map[string]any{"advance": row.StaffAdvance, "staffName": row.StaffName},
		Message: fmt.Sprintf("staff advance %s updated", row.ID),
		Text:    i18n.StaffAdvanceUpdated(row.StaffName, row.Amount.String()),
	}, nil
}

func (s *ActionService) deleteStaffAdvance(ctx context.Context, _ *model.Accountant, raw json.RawMessage) (*Result, error) {
	var p deleteStaffAdvancePayload
	if err := decodePayload(raw, &p); err != nil {
		return nil, err
	}
	if p.AdvanceID == uuid.Nil {
		return nil, invalidPayloadErr("advanceId is required")
	}

	row, err := s.store.DeleteStaffAdvance(ctx, p.AdvanceID)
	if err != nil {
		return nil, mapAdvanceError(err)
	}

	return &Result{
		Data:    map[string]any{"advance": row.StaffAdvance, "staffName": row.StaffName},
		Message: fmt.Sprintf("staff advance %s deleted", row.ID),
		Text:    i18n.StaffAdvanceDeleted(row.StaffName, row.Amount.String()),
	}, nil
}

func (s *ActionService) createPMAdvance(ctx context.Context, _ *model.Accountant, raw json.RawMessage) (*Result, error) {
	var p createPMAdvancePayload
	if err := decodePayload(raw, &p); err != nil {
		return nil, err
	}
	if p.Amount.Sign() <= 0 {
		return nil, newActionError(http.StatusBadRequest, CodeBusinessRule, i18n.InvalidAmount())
	}
	if p.ProjectID != nil {
		if _, err := s.store.ProjectByID(ctx, *p.ProjectID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, notFoundErr("project")
			}
			return nil, err
		}
	}

	staff, err := s.mustResolveStaff(ctx, p.staffRef)
	if err != nil {
		return nil, err
	}

	adv := &model.PMAdvance{
		ID:              uuid.New(),
		StaffID:         staff.ID,
		ProjectID:       p.ProjectID,
		Amount:          p.Amount,
		RemainingAmount: p.Amount,
		Notes:           p.Notes,
	}
	if err := s.store.CreatePMAdvance(ctx, adv); err != nil {
		return nil, err
	}

	return &Result{
		Status:  http.StatusCreated,
		Data:    map[string]any{"pmAdvance": adv, "staffName": staff.Name},
		Message: fmt.Sprintf("pm advance %s created", adv.ID),
		Text:    i18n.PMAdvanceCreated(staff.Name, p.Amount.String()),
	}, nil
}

func mapAdvanceError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return notFoundErr("advance")
	case errors.Is(err, ledger.ErrAdvanceNotPending):
		return newActionError(http.StatusBadRequest, CodeBusinessRule, i18n.AdvanceNotPending()).withCause(err)
	default:
		return err
	}
}

func notFoundErr(entity string) *ActionError {
	return newActionError(http.StatusNotFound, CodeNotFound, i18n.EntityNotFound(entity))
}

func invalidPayloadErr(issue string) *ActionError {
	return newActionError(http.StatusBadRequest, CodeInvalidPayload, i18n.InvalidPayload()).
		withIssues([]string{issue})
}
