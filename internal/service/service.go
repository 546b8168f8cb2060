package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wessamh/edara-actions/internal/audit"
	"github.com/wessamh/edara-actions/internal/i18n"
	"github.com/wessamh/edara-actions/internal/model"
	"github.com/wessamh/edara-actions/internal/resolve"
)

type handlerFunc func(ctx context.Context, actor *model.Accountant, payload json.RawMessage) (*Result, error)

// ActionService is the dispatcher: it authenticates the caller,
// authorizes by role, routes to the matching handler and normalizes
// every outcome into one response shape. It holds no mutable state;
// everything durable lives behind Store.
type ActionService struct {
	store       Store
	sink        audit.Sink
	log         zerolog.Logger
	resolveOpts resolve.Options
	registry    map[Action]handlerFunc
}

func NewActionService(store Store, sink audit.Sink, log zerolog.Logger, opts resolve.Options) *ActionService {
	s := &ActionService{
		store:       store,
		sink:        sink,
		log:         log,
		resolveOpts: opts,
	}
	s.registry = map[Action]handlerFunc{
		ActionCreatePMAdvance:       s.createPMAdvance,
		ActionCreateStaffAdvance:    s.createStaffAdvance,
		ActionUpdateStaffAdvance:    s.updateStaffAdvance,
		ActionDeleteStaffAdvance:    s.deleteStaffAdvance,
		ActionRecordAccountingNote:  s.recordAccountingNote,
		ActionPayInvoice:            s.payInvoice,
		ActionCreatePayroll:         s.createPayroll,
		ActionPayPayroll:            s.payPayroll,
		ActionListUnitExpenses:      s.listUnitExpenses,
		ActionSearchStaff:           s.searchStaff,
		ActionListStaffAdvances:     s.listStaffAdvances,
		ActionSearchAccountingNotes: s.searchAccountingNotes,
	}
	return s
}

// Registry exposes the wired actions for the exhaustiveness check.
func (s *ActionService) Registry() map[Action]bool {
	wired := make(map[Action]bool, len(s.registry))
	for action := range s.registry {
		wired[action] = true
	}
	return wired
}

// Execute runs one webhook call end to end and never panics outward:
// every failure becomes a shaped outcome, and every call is audited.
func (s *ActionService) Execute(ctx context.Context, env Envelope) Outcome {
	outcome := s.execute(ctx, env)

	s.sink.Emit(ctx, audit.Event{
		Action:      env.Action,
		SenderPhone: env.SenderPhone,
		Status:      outcome.Status,
		Success:     outcome.Body.Success,
		ErrorCode:   outcome.Body.Error,
		Summary:     outcome.Body.Message,
	})
	return outcome
}

func (s *ActionService) execute(ctx context.Context, env Envelope) Outcome {
	handler, known := s.registry[Action(env.Action)]
	if !known {
		return s.failure(newActionError(http.StatusBadRequest, CodeUnknownAction, i18n.UnknownAction(env.Action)))
	}

	actor, err := s.store.AccountantByPhone(ctx, env.SenderPhone)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return s.failure(newActionError(http.StatusNotFound, CodeUnknownCaller, i18n.CallerNotRecognized()))
		}
		return s.internalFailure(env.Action, err)
	}
	if !actor.Role.CanRunActions() {
		return s.failure(newActionError(http.StatusForbidden, CodeForbidden, i18n.Forbidden()))
	}

	result, err := handler(ctx, actor, env.Payload)
	if err != nil {
		var actionErr *ActionError
		if errors.As(err, &actionErr) {
			return s.failure(actionErr)
		}
		if errors.Is(err, ErrNotFound) {
			return s.failure(newActionError(http.StatusNotFound, CodeNotFound, i18n.EntityNotFound("")))
		}
		return s.internalFailure(env.Action, err)
	}

	status := result.Status
	if status == 0 {
		status = http.StatusOK
	}
	text := result.Text
	return Outcome{
		Status: status,
		Body: Response{
			Success:       true,
			Data:          result.Data,
			Message:       result.Message,
			HumanReadable: &text,
			Suggestions:   result.Suggestions,
			Meta:          result.Meta,
		},
	}
}

func (s *ActionService) failure(err *ActionError) Outcome {
	text := err.Text
	return Outcome{
		Status: err.Status,
		Body: Response{
			Success:       false,
			Error:         err.Code,
			Message:       err.Text.EN,
			HumanReadable: &text,
			Suggestions:   err.Suggestions,
			Issues:        err.Issues,
		},
	}
}

// internalFailure logs the raw error with the raw action name and hides
// the details from the caller.
func (s *ActionService) internalFailure(action string, err error) Outcome {
	s.log.Error().Err(err).Str("action", action).Msg("action failed")
	return s.failure(newActionError(http.StatusInternalServerError, CodeInternal, i18n.Internal()))
}

func decodePayload(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return newActionError(http.StatusBadRequest, CodeInvalidPayload, i18n.InvalidPayload()).
			withIssues([]string{err.Error()}).
			withCause(err)
	}
	return nil
}
