package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/wessamh/edara-actions/internal/model"
)

// EnsureConvertible rejects double conversion with a distinguishable
// error per terminal state, so the caller can answer 409 instead of a
// silent no-op. A PM-sourced note must name its funding advance: with
// no advance to draw from, converting would mint an unfunded invoice
// and expense.
func EnsureConvertible(note *model.AccountingNote) error {
	switch note.Status {
	case model.NoteStatusPending:
		// keep checking
	case model.NoteStatusConverted:
		return ErrNoteAlreadyConverted
	case model.NoteStatusRejected:
		return ErrNoteRejected
	default:
		return ErrNoteRejected
	}
	if note.SourceType == model.FundSourcePMAdvance && note.PMAdvanceID == nil {
		return ErrNoteUnfunded
	}
	return nil
}

// MarkConverted transitions PENDING -> CONVERTED, recording the expense
// the note became and when.
func MarkConverted(note *model.AccountingNote, expenseID uuid.UUID, at time.Time) error {
	if err := EnsureConvertible(note); err != nil {
		return err
	}
	note.Status = model.NoteStatusConverted
	note.ConvertedToExpenseID = &expenseID
	note.ConvertedAt = &at
	return nil
}
