package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wessamh/edara-actions/internal/i18n"
	"github.com/wessamh/edara-actions/internal/ledger"
	"github.com/wessamh/edara-actions/internal/model"
	"github.com/wessamh/edara-actions/internal/search"
)

// recordAccountingNote converts a PENDING note into a claim invoice
// plus an operational expense. The PM-advance draw, the created rows
// and the status flip all live in one store transaction.
func (s *ActionService) recordAccountingNote(ctx context.Context, _ *model.Accountant, raw json.RawMessage) (*Result, error) {
	var p recordNotePayload
	if err := decodePayload(raw, &p); err != nil {
		return nil, err
	}
	if p.NoteID == uuid.Nil {
		return nil, invalidPayloadErr("noteId is required")
	}

	converted, err := s.store.ConvertNote(ctx, p.NoteID, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, notFoundErr("note")
		case errors.Is(err, ledger.ErrNoteAlreadyConverted):
			return nil, newActionError(http.StatusConflict, CodeConflict, i18n.NoteAlreadyConverted()).withCause(err)
		case errors.Is(err, ledger.ErrNoteRejected):
			return nil, newActionError(http.StatusConflict, CodeConflict, i18n.NoteRejected()).withCause(err)
		case errors.Is(err, ledger.ErrInsufficientRemaining):
			return nil, newActionError(http.StatusBadRequest, CodeBusinessRule, i18n.AdvanceInsufficient()).withCause(err)
		case errors.Is(err, ledger.ErrNoteUnfunded):
			return nil, newActionError(http.StatusBadRequest, CodeBusinessRule, i18n.NoteUnfunded()).withCause(err)
		default:
			return nil, err
		}
	}

	data := map[string]any{
		"note":    converted.Note,
		"invoice": converted.Invoice,
		"expense": converted.Expense,
	}
	meta := map[string]any{}
	if converted.PMAdvance != nil {
		data["pmAdvance"] = converted.PMAdvance
		meta["pmAdvanceRemaining"] = converted.PMAdvance.RemainingAmount
	}

	return &Result{
		Status:  http.StatusCreated,
		Data:    data,
		Message: fmt.Sprintf("note %s converted to invoice %s", converted.Note.ID, converted.Invoice.InvoiceNumber),
		Text:    i18n.NoteConverted(converted.Invoice.InvoiceNumber, converted.Invoice.Amount.String()),
		Meta:    meta,
	}, nil
}

func (s *ActionService) searchAccountingNotes(ctx context.Context, _ *model.Accountant, raw json.RawMessage) (*Result, error) {
	var p searchNotesPayload
	if err := decodePayload(raw, &p); err != nil {
		return nil, err
	}

	query := search.Analyze(p.Search)
	filter := noteFilterFromQuery(query)
	filter.UnitID = p.UnitID
	filter.ProjectID = p.ProjectID
	filter.From = timePtr(p.From)
	filter.To = endExclusive(p.To)

	if p.Status != nil {
		status, ok := parseNoteStatus(*p.Status)
		if !ok {
			return nil, invalidPayloadErr(fmt.Sprintf("invalid status %q", *p.Status))
		}
		filter.Status = &status
	}

	notes, err := s.store.SearchNotes(ctx, filter)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	byStatus := map[model.NoteStatus]int{}
	for _, note := range notes {
		total = total.Add(note.Amount)
		byStatus[note.Status]++
	}

	return &Result{
		Data: map[string]any{
			"notes": notes,
			"totals": map[string]any{
				"count":       len(notes),
				"totalAmount": total,
				"byStatus":    byStatus,
			},
			"search": query,
		},
		Message: fmt.Sprintf("%d notes matched", len(notes)),
		Text:    i18n.SearchResults(len(notes)),
		Meta:    map[string]any{"matchedCategories": query.MatchedCategories},
	}, nil
}

func parseNoteStatus(raw string) (model.NoteStatus, bool) {
	switch model.NoteStatus(raw) {
	case model.NoteStatusPending, model.NoteStatusConverted, model.NoteStatusRejected:
		return model.NoteStatus(raw), true
	default:
		return "", false
	}
}
