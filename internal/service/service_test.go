package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/wessamh/edara-actions/internal/audit"
	"github.com/wessamh/edara-actions/internal/model"
	"github.com/wessamh/edara-actions/internal/resolve"
)

const accountantPhone = "201001234567"

type captureSink struct {
	events []audit.Event
}

func (s *captureSink) Emit(_ context.Context, e audit.Event) {
	s.events = append(s.events, e)
}

func newTestService(store *memStore) (*ActionService, *captureSink) {
	store.accountants[accountantPhone] = model.Accountant{
		ID:    uuid.New(),
		Name:  "Mona",
		Phone: accountantPhone,
		Role:  model.RoleAccountant,
	}
	sink := &captureSink{}
	svc := NewActionService(store, sink, zerolog.Nop(), resolve.DefaultOptions())
	return svc, sink
}

func run(t *testing.T, svc *ActionService, action Action, payload any) Outcome {
	t.Helper()
	var raw json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		raw = encoded
	}
	return svc.Execute(context.Background(), Envelope{
		Action:      string(action),
		SenderPhone: accountantPhone,
		Payload:     raw,
	})
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRegistryCoversAllActions(t *testing.T) {
	svc, _ := newTestService(newMemStore())
	wired := svc.Registry()
	for _, action := range AllActions() {
		require.Truef(t, wired[action], "action %s has no handler", action)
	}
	require.Len(t, wired, len(AllActions()))
}

func TestUnknownActionRejected(t *testing.T) {
	svc, sink := newTestService(newMemStore())

	out := svc.Execute(context.Background(), Envelope{
		Action:      "DO_SOMETHING",
		SenderPhone: accountantPhone,
	})

	require.Equal(t, http.StatusBadRequest, out.Status)
	require.False(t, out.Body.Success)
	require.Equal(t, CodeUnknownAction, out.Body.Error)
	require.NotNil(t, out.Body.HumanReadable)
	require.NotEmpty(t, out.Body.HumanReadable.AR)
	require.Len(t, sink.events, 1)
	require.False(t, sink.events[0].Success)
}

func TestUnknownCallerRejected(t *testing.T) {
	svc, _ := newTestService(newMemStore())

	out := svc.Execute(context.Background(), Envelope{
		Action:      string(ActionSearchStaff),
		SenderPhone: "000000000",
	})

	require.Equal(t, http.StatusNotFound, out.Status)
	require.Equal(t, CodeUnknownCaller, out.Body.Error)
}

func TestCallerRoleMustAllowActions(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	store.accountants["201000000001"] = model.Accountant{
		ID:    uuid.New(),
		Name:  "Viewer",
		Phone: "201000000001",
		Role:  model.Role("VIEWER"),
	}

	out := svc.Execute(context.Background(), Envelope{
		Action:      string(ActionSearchStaff),
		SenderPhone: "201000000001",
	})

	require.Equal(t, http.StatusForbidden, out.Status)
	require.Equal(t, CodeForbidden, out.Body.Error)
}

func TestMalformedPayloadRejected(t *testing.T) {
	svc, _ := newTestService(newMemStore())

	out := svc.Execute(context.Background(), Envelope{
		Action:      string(ActionCreatePayroll),
		SenderPhone: accountantPhone,
		Payload:     json.RawMessage(`{"month": 5}`),
	})

	require.Equal(t, http.StatusBadRequest, out.Status)
	require.Equal(t, CodeInvalidPayload, out.Body.Error)
	require.NotEmpty(t, out.Body.Issues)
}

func TestCreateStaffAdvanceByQuery(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	staffID := store.addStaff("Ahmed Hassan", amount("6000"))
	store.addStaff("Omar Farouk", amount("5000"))

	out := run(t, svc, ActionCreateStaffAdvance, map[string]any{
		"staffQuery": "ahmed hassan",
		"amount":     "500",
	})

	require.Equal(t, http.StatusCreated, out.Status)
	require.True(t, out.Body.Success)

	row, err := store.StaffByID(context.Background(), staffID)
	require.NoError(t, err)
	require.EqualValues(t, 1, row.PendingCount)
	require.True(t, row.PendingTotal.Equal(amount("500")))
}

func TestAmbiguousStaffReturnsSuggestions(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	store.addStaff("Ahmed Hassan", amount("6000"))
	store.addStaff("Ahmed Mostafa", amount("5500"))

	out := run(t, svc, ActionCreateStaffAdvance, map[string]any{
		"staffQuery": "Ahmed",
		"amount":     "300",
	})

	require.Equal(t, http.StatusConflict, out.Status)
	require.Equal(t, CodeAmbiguousStaff, out.Body.Error)
	require.Len(t, out.Body.Suggestions, 2)
	for _, suggestion := range out.Body.Suggestions {
		require.Contains(t, suggestion.Data, "staffId")
	}
}

func TestUpdateDeductedAdvanceRejected(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	staffID := store.addStaff("Ahmed Hassan", amount("6000"))
	advID := uuid.New()
	store.advances[advID] = &model.StaffAdvance{
		ID:      advID,
		StaffID: staffID,
		Amount:  amount("400"),
		Status:  model.AdvanceStatusDeducted,
	}

	out := run(t, svc, ActionUpdateStaffAdvance, map[string]any{
		"advanceId": advID,
		"amount":    "600",
	})

	require.Equal(t, http.StatusBadRequest, out.Status)
	require.Equal(t, CodeBusinessRule, out.Body.Error)
}

func TestPendingAdvanceTotalMaintainedByDelta(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	staffID := store.addStaff("Ahmed Hassan", amount("6000"))

	checkTotal := func(want string) {
		t.Helper()
		row, err := store.StaffByID(context.Background(), staffID)
		require.NoError(t, err)
		require.True(t, row.PendingTotal.Equal(amount(want)),
			"cached total %s, want %s", row.PendingTotal, want)
		require.True(t, row.PendingTotal.Equal(store.recomputedPending(staffID)),
			"cached total drifted from the advances")
	}

	out := run(t, svc, ActionCreateStaffAdvance, map[string]any{
		"staffId": staffID,
		"amount":  "500",
	})
	require.Equal(t, http.StatusCreated, out.Status)
	checkTotal("500")

	out = run(t, svc, ActionCreateStaffAdvance, map[string]any{
		"staffId": staffID,
		"amount":  "300",
	})
	require.Equal(t, http.StatusCreated, out.Status)
	checkTotal("800")

	var first, second uuid.UUID
	for id, adv := range store.advances {
		if adv.Amount.Equal(amount("500")) {
			first = id
		} else {
			second = id
		}
	}

	out = run(t, svc, ActionUpdateStaffAdvance, map[string]any{
		"advanceId": first,
		"amount":    "450",
	})
	require.Equal(t, http.StatusOK, out.Status)
	checkTotal("750")

	out = run(t, svc, ActionDeleteStaffAdvance, map[string]any{"advanceId": second})
	require.Equal(t, http.StatusOK, out.Status)
	checkTotal("450")

	created := run(t, svc, ActionCreatePayroll, map[string]any{"month": "2025-08"})
	require.Equal(t, http.StatusCreated, created.Status)
	paid := run(t, svc, ActionPayPayroll, map[string]any{"month": "2025-08"})
	require.Equal(t, http.StatusOK, paid.Status)
	checkTotal("0")
}

func TestRecordNoteCreatesInvoiceAndExpense(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	unitID := uuid.New()
	store.units[unitID] = model.Unit{ID: unitID, Label: "A-101", BuildingName: "Nile Tower"}
	noteID := uuid.New()
	store.notes[noteID] = &model.AccountingNote{
		ID:          noteID,
		UnitID:      unitID,
		Description: "صيانة مصعد",
		Amount:      amount("750"),
		Status:      model.NoteStatusPending,
		Category:    model.CategoryTechnicianWork,
		SourceType:  model.FundSourceOfficeFund,
	}

	out := run(t, svc, ActionRecordAccountingNote, map[string]any{"noteId": noteID})

	require.Equal(t, http.StatusCreated, out.Status)
	require.True(t, out.Body.Success)
	require.Equal(t, model.NoteStatusConverted, store.notes[noteID].Status)
	require.Len(t, store.expenses, 1)
	require.Len(t, store.invoices, 1)
	for _, inv := range store.invoices {
		require.Equal(t, "CLM-000001", inv.InvoiceNumber)
		require.True(t, inv.RemainingBalance.Equal(amount("750")))
	}

	// converting again is a conflict, not a silent no-op
	again := run(t, svc, ActionRecordAccountingNote, map[string]any{"noteId": noteID})
	require.Equal(t, http.StatusConflict, again.Status)
	require.Equal(t, CodeConflict, again.Body.Error)
	require.Len(t, store.invoices, 1)
}

func TestRecordNoteInsufficientPMAdvance(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	unitID := uuid.New()
	store.units[unitID] = model.Unit{ID: unitID, Label: "B-202", BuildingName: "Nile Tower"}
	staffID := store.addStaff("Khaled Samir", amount("7000"))
	pmID := uuid.New()
	store.pmAdvances[pmID] = &model.PMAdvance{
		ID:              pmID,
		StaffID:         staffID,
		Amount:          amount("100"),
		RemainingAmount: amount("50"),
	}
	noteID := uuid.New()
	store.notes[noteID] = &model.AccountingNote{
		ID:          noteID,
		UnitID:      unitID,
		Description: "فاتورة كهرباء",
		Amount:      amount("100"),
		Status:      model.NoteStatusPending,
		Category:    model.CategoryUtilities,
		SourceType:  model.FundSourcePMAdvance,
		PMAdvanceID: &pmID,
	}

	out := run(t, svc, ActionRecordAccountingNote, map[string]any{"noteId": noteID})

	require.Equal(t, http.StatusBadRequest, out.Status)
	require.Equal(t, CodeBusinessRule, out.Body.Error)
	require.Equal(t, model.NoteStatusPending, store.notes[noteID].Status)
	require.True(t, store.pmAdvances[pmID].RemainingAmount.Equal(amount("50")))
	require.Empty(t, store.invoices)
}

func TestRecordNoteWithoutFundingAdvanceRejected(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	unitID := uuid.New()
	store.units[unitID] = model.Unit{ID: unitID, Label: "C-303", BuildingName: "Nile Tower"}
	noteID := uuid.New()
	store.notes[noteID] = &model.AccountingNote{
		ID:          noteID,
		UnitID:      unitID,
		Description: "شراء مواد نظافة",
		Amount:      amount("200"),
		Status:      model.NoteStatusPending,
		Category:    model.CategoryOther,
		SourceType:  model.FundSourcePMAdvance,
		// PMAdvanceID left nil: the funding advance was never linked
	}

	out := run(t, svc, ActionRecordAccountingNote, map[string]any{"noteId": noteID})

	require.Equal(t, http.StatusBadRequest, out.Status)
	require.Equal(t, CodeBusinessRule, out.Body.Error)
	require.Equal(t, model.NoteStatusPending, store.notes[noteID].Status)
	require.Empty(t, store.invoices)
	require.Empty(t, store.expenses)
}

func TestPayInvoicePartialThenFull(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	invID := uuid.New()
	store.invoices[invID] = &model.Invoice{
		ID:               invID,
		InvoiceNumber:    "CLM-000042",
		Type:             model.InvoiceTypeClaim,
		Amount:           amount("1000"),
		TotalPaid:        decimal.Zero,
		RemainingBalance: amount("1000"),
	}

	partial := run(t, svc, ActionPayInvoice, map[string]any{
		"invoiceId": invID,
		"amount":    "400",
	})
	require.Equal(t, http.StatusOK, partial.Status)
	require.True(t, store.invoices[invID].RemainingBalance.Equal(amount("600")))
	require.False(t, store.invoices[invID].IsPaid)

	overpay := run(t, svc, ActionPayInvoice, map[string]any{
		"invoiceNumber": "CLM-000042",
		"amount":        "601",
	})
	require.Equal(t, http.StatusBadRequest, overpay.Status)
	require.Equal(t, CodeBusinessRule, overpay.Body.Error)
	require.True(t, store.invoices[invID].RemainingBalance.Equal(amount("600")))

	full := run(t, svc, ActionPayInvoice, map[string]any{
		"invoiceId": invID,
		"full":      true,
	})
	require.Equal(t, http.StatusOK, full.Status)
	require.True(t, store.invoices[invID].IsPaid)
	require.True(t, store.invoices[invID].RemainingBalance.IsZero())

	again := run(t, svc, ActionPayInvoice, map[string]any{
		"invoiceId": invID,
		"amount":    "10",
	})
	require.Equal(t, http.StatusConflict, again.Status)
	require.Equal(t, CodeConflict, again.Body.Error)
	require.Len(t, store.payments, 2)
}

func TestCreatePayrollRejectsDuplicateMonth(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	store.addStaff("Ahmed Hassan", amount("6000"))

	first := run(t, svc, ActionCreatePayroll, map[string]any{"month": "2025-06"})
	require.Equal(t, http.StatusCreated, first.Status)

	second := run(t, svc, ActionCreatePayroll, map[string]any{"month": "2025-06"})
	require.Equal(t, http.StatusConflict, second.Status)
	require.Equal(t, CodeConflict, second.Body.Error)

	invalid := run(t, svc, ActionCreatePayroll, map[string]any{"month": "June 2025"})
	require.Equal(t, http.StatusBadRequest, invalid.Status)
}

func TestPayPayrollDeductsPendingAdvances(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	ahmed := store.addStaff("Ahmed Hassan", amount("6000"))
	omar := store.addStaff("Omar Farouk", amount("5000"))
	store.addPendingAdvance(ahmed, amount("500"))
	store.addPendingAdvance(ahmed, amount("300"))
	store.addPendingAdvance(omar, amount("1000"))

	created := run(t, svc, ActionCreatePayroll, map[string]any{"month": "2025-07"})
	require.Equal(t, http.StatusCreated, created.Status)

	payroll, err := store.PayrollByMonth(context.Background(), "2025-07")
	require.NoError(t, err)
	require.True(t, payroll.TotalGross.Equal(amount("11000")))
	require.True(t, payroll.TotalAdvances.Equal(amount("1800")))
	require.True(t, payroll.TotalNet.Equal(amount("9200")))

	paid := run(t, svc, ActionPayPayroll, map[string]any{"month": "2025-07"})
	require.Equal(t, http.StatusOK, paid.Status)

	for _, adv := range store.advances {
		require.Equal(t, model.AdvanceStatusDeducted, adv.Status)
		require.NotNil(t, adv.DeductedFromPayrollID)
		require.Equal(t, payroll.ID, *adv.DeductedFromPayrollID)
	}
	row, err := store.StaffByID(context.Background(), ahmed)
	require.NoError(t, err)
	require.Zero(t, row.PendingCount)
	require.True(t, row.PendingTotal.IsZero())

	again := run(t, svc, ActionPayPayroll, map[string]any{"payrollId": payroll.ID})
	require.Equal(t, http.StatusConflict, again.Status)
}

func TestSearchStaffRequiresReference(t *testing.T) {
	svc, _ := newTestService(newMemStore())

	out := run(t, svc, ActionSearchStaff, map[string]any{})

	require.Equal(t, http.StatusBadRequest, out.Status)
	require.Equal(t, CodeInvalidPayload, out.Body.Error)
}

func TestListUnitExpensesFiltersBySearch(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	unitID := uuid.New()
	store.units[unitID] = model.Unit{ID: unitID, Label: "A-101", BuildingName: "Nile Tower"}
	store.expenses = append(store.expenses,
		model.OperationalExpense{
			ID:          uuid.New(),
			UnitID:      unitID,
			Description: "صيانة مصعد",
			Amount:      amount("750"),
			Category:    model.CategoryTechnicianWork,
			SourceType:  model.FundSourceOfficeFund,
		},
		model.OperationalExpense{
			ID:          uuid.New(),
			UnitID:      unitID,
			Description: "فاتورة مياه",
			Amount:      amount("200"),
			Category:    model.CategoryUtilities,
			SourceType:  model.FundSourceOfficeFund,
		},
	)

	out := run(t, svc, ActionListUnitExpenses, map[string]any{
		"unitId": unitID,
		"search": "مياه",
	})

	require.Equal(t, http.StatusOK, out.Status)
	data, ok := out.Body.Data.(map[string]any)
	require.True(t, ok)
	expenses, ok := data["expenses"].([]model.OperationalExpense)
	require.True(t, ok)
	require.Len(t, expenses, 1)
	require.Equal(t, "فاتورة مياه", expenses[0].Description)

	missing := run(t, svc, ActionListUnitExpenses, map[string]any{"unitId": uuid.New()})
	require.Equal(t, http.StatusNotFound, missing.Status)
}

func TestEveryCallIsAudited(t *testing.T) {
	store := newMemStore()
	svc, sink := newTestService(store)
	store.addStaff("Ahmed Hassan", amount("6000"))

	run(t, svc, ActionSearchStaff, map[string]any{"staffQuery": "ahmed hassan"})
	run(t, svc, ActionCreatePayroll, map[string]any{"month": "nope"})

	require.Len(t, sink.events, 2)
	require.True(t, sink.events[0].Success)
	require.False(t, sink.events[1].Success)
	require.Equal(t, accountantPhone, sink.events[0].SenderPhone)
}
