package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wessamh/edara-actions/internal/ledger"
	"github.com/wessamh/edara-actions/internal/model"
)

// memStore is an in-memory Store used by the dispatcher tests. It runs
// the same ledger guards the real repository does, just without the
// row locks. pendingTotals mirrors the cached staff column: every
// advance mutation moves it by delta, never by recomputing, so the
// tests exercise the same bookkeeping the SQL layer does.
type memStore struct {
	accountants   map[string]model.Accountant
	projects      map[uuid.UUID]model.Project
	units         map[uuid.UUID]model.Unit
	staff         map[uuid.UUID]model.Staff
	pendingTotals map[uuid.UUID]decimal.Decimal
	advances      map[uuid.UUID]*model.StaffAdvance
	pmAdvances    map[uuid.UUID]*model.PMAdvance
	notes         map[uuid.UUID]*model.AccountingNote
	invoices      map[uuid.UUID]*model.Invoice
	payments      []model.Payment
	payrolls      map[uuid.UUID]*model.Payroll
	expenses      []model.OperationalExpense
	invoiceSeq    int64
	now           time.Time
}

func newMemStore() *memStore {
	return &memStore{
		accountants:   map[string]model.Accountant{},
		projects:      map[uuid.UUID]model.Project{},
		units:         map[uuid.UUID]model.Unit{},
		staff:         map[uuid.UUID]model.Staff{},
		pendingTotals: map[uuid.UUID]decimal.Decimal{},
		advances:      map[uuid.UUID]*model.StaffAdvance{},
		pmAdvances:    map[uuid.UUID]*model.PMAdvance{},
		notes:         map[uuid.UUID]*model.AccountingNote{},
		invoices:      map[uuid.UUID]*model.Invoice{},
		payrolls:      map[uuid.UUID]*model.Payroll{},
		now:           time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) addStaff(name string, salary decimal.Decimal) uuid.UUID {
	id := uuid.New()
	m.staff[id] = model.Staff{ID: id, Name: name, Salary: salary, CreatedAt: m.now}
	return id
}

func (m *memStore) addPendingAdvance(staffID uuid.UUID, amount decimal.Decimal) uuid.UUID {
	id := uuid.New()
	m.advances[id] = &model.StaffAdvance{
		ID:        id,
		StaffID:   staffID,
		Amount:    amount,
		Status:    model.AdvanceStatusPending,
		CreatedAt: m.now,
	}
	m.pendingTotals[staffID] = m.pendingTotals[staffID].Add(amount)
	return id
}

// withAdvances reads the cached total and counts the rest live, the
// same split the repository uses (cached column plus count subquery).
func (m *memStore) withAdvances(s model.Staff) model.StaffWithAdvances {
	row := model.StaffWithAdvances{Staff: s, PendingTotal: m.pendingTotals[s.ID]}
	for _, adv := range m.advances {
		if adv.StaffID == s.ID && adv.Status == model.AdvanceStatusPending {
			row.PendingCount++
			row.PendingAdvIDs = append(row.PendingAdvIDs, adv.ID)
		}
	}
	return row
}

// recomputedPending sums the pending advances from scratch; tests use
// it to catch drift in the delta-maintained cache.
func (m *memStore) recomputedPending(staffID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, adv := range m.advances {
		if adv.StaffID == staffID && adv.Status == model.AdvanceStatusPending {
			total = total.Add(adv.Amount)
		}
	}
	return total
}

func (m *memStore) AccountantByPhone(_ context.Context, phone string) (*model.Accountant, error) {
	acc, ok := m.accountants[phone]
	if !ok {
		return nil, ErrNotFound
	}
	return &acc, nil
}

func (m *memStore) StaffByID(_ context.Context, id uuid.UUID) (*model.StaffWithAdvances, error) {
	s, ok := m.staff[id]
	if !ok {
		return nil, ErrNotFound
	}
	row := m.withAdvances(s)
	return &row, nil
}

func (m *memStore) ListStaff(_ context.Context, f StaffFilter) ([]model.StaffWithAdvances, error) {
	var rows []model.StaffWithAdvances
	for _, s := range m.staff {
		if f.ProjectID != nil && (s.ProjectID == nil || *s.ProjectID != *f.ProjectID) {
			continue
		}
		row := m.withAdvances(s)
		if f.OnlyPending && row.PendingCount == 0 {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].ID.String() < rows[j].ID.String()
	})
	return rows, nil
}

func (m *memStore) ProjectByID(_ context.Context, id uuid.UUID) (*model.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *memStore) UnitByID(_ context.Context, id uuid.UUID) (*model.Unit, error) {
	u, ok := m.units[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *memStore) CreateStaffAdvance(_ context.Context, adv *model.StaffAdvance) error {
	saved := *adv
	saved.CreatedAt = m.now
	m.advances[saved.ID] = &saved
	m.pendingTotals[saved.StaffID] = m.pendingTotals[saved.StaffID].Add(saved.Amount)
	*adv = saved
	return nil
}

func (m *memStore) advanceRow(adv model.StaffAdvance) AdvanceRow {
	return AdvanceRow{StaffAdvance: adv, StaffName: m.staff[adv.StaffID].Name}
}

func (m *memStore) UpdateStaffAdvance(_ context.Context, id uuid.UUID, amount *decimal.Decimal, note *string) (*AdvanceRow, error) {
	adv, ok := m.advances[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := ledger.EnsureMutable(adv); err != nil {
		return nil, err
	}
	if amount != nil {
		delta := amount.Sub(adv.Amount)
		m.pendingTotals[adv.StaffID] = m.pendingTotals[adv.StaffID].Add(delta)
		adv.Amount = *amount
	}
	if note != nil {
		adv.Note = note
	}
	row := m.advanceRow(*adv)
	return &row, nil
}

func (m *memStore) DeleteStaffAdvance(_ context.Context, id uuid.UUID) (*AdvanceRow, error) {
	adv, ok := m.advances[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := ledger.EnsureMutable(adv); err != nil {
		return nil, err
	}
	delete(m.advances, id)
	m.pendingTotals[adv.StaffID] = m.pendingTotals[adv.StaffID].Sub(adv.Amount)
	row := m.advanceRow(*adv)
	return &row, nil
}

func (m *memStore) ListStaffAdvances(_ context.Context, f AdvanceFilter) ([]AdvanceRow, error) {
	var rows []AdvanceRow
	for _, adv := range m.advances {
		if f.StaffID != nil && adv.StaffID != *f.StaffID {
			continue
		}
		if f.Status != nil && adv.Status != *f.Status {
			continue
		}
		if f.From != nil && adv.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !adv.CreatedAt.Before(*f.To) {
			continue
		}
		rows = append(rows, m.advanceRow(*adv))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID.String() < rows[j].ID.String() })
	return rows, nil
}

func (m *memStore) CreatePMAdvance(_ context.Context, adv *model.PMAdvance) error {
	saved := *adv
	saved.CreatedAt = m.now
	m.pmAdvances[saved.ID] = &saved
	*adv = saved
	return nil
}

func (m *memStore) ConvertNote(_ context.Context, noteID uuid.UUID, at time.Time) (*ConvertNoteResult, error) {
	note, ok := m.notes[noteID]
	if !ok {
		return nil, ErrNotFound
	}
	if err := ledger.EnsureConvertible(note); err != nil {
		return nil, err
	}

	var pmAdvance *model.PMAdvance
	if note.SourceType == model.FundSourcePMAdvance {
		adv, ok := m.pmAdvances[*note.PMAdvanceID]
		if !ok {
			return nil, ErrNotFound
		}
		if err := ledger.Draw(adv, note.Amount); err != nil {
			return nil, err
		}
		copied := *adv
		pmAdvance = &copied
	}

	m.invoiceSeq++
	invoice := model.Invoice{
		ID:               uuid.New(),
		InvoiceNumber:    claimNumber(m.invoiceSeq),
		UnitID:           &note.UnitID,
		Type:             model.InvoiceTypeClaim,
		Amount:           note.Amount,
		TotalPaid:        decimal.Zero,
		RemainingBalance: note.Amount,
		CreatedAt:        at,
	}
	m.invoices[invoice.ID] = &invoice

	expense := model.OperationalExpense{
		ID:          uuid.New(),
		UnitID:      note.UnitID,
		ProjectID:   note.ProjectID,
		Description: note.Description,
		Amount:      note.Amount,
		Category:    note.Category,
		SourceType:  note.SourceType,
		PMAdvanceID: note.PMAdvanceID,
		NoteID:      &note.ID,
		CreatedAt:   at,
	}
	m.expenses = append(m.expenses, expense)

	if err := ledger.MarkConverted(note, expense.ID, at); err != nil {
		return nil, err
	}

	return &ConvertNoteResult{
		Note:      *note,
		Invoice:   invoice,
		Expense:   expense,
		PMAdvance: pmAdvance,
	}, nil
}

func (m *memStore) SearchNotes(_ context.Context, f NoteFilter) ([]model.AccountingNote, error) {
	var notes []model.AccountingNote
	for _, note := range m.notes {
		if f.Status != nil && note.Status != *f.Status {
			continue
		}
		if f.UnitID != nil && note.UnitID != *f.UnitID {
			continue
		}
		if f.ProjectID != nil && (note.ProjectID == nil || *note.ProjectID != *f.ProjectID) {
			continue
		}
		if len(f.Categories) > 0 && !containsCategory(f.Categories, note.Category) {
			continue
		}
		if f.From != nil && note.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !note.CreatedAt.Before(*f.To) {
			continue
		}
		if !tokensMatch(note.Description, f.DescriptionTokens, f.TokenVariants) {
			continue
		}
		notes = append(notes, *note)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID.String() < notes[j].ID.String() })
	return notes, nil
}

func (m *memStore) InvoiceByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *inv
	return &copied, nil
}

func (m *memStore) InvoiceByNumber(_ context.Context, number string) (*model.Invoice, error) {
	for _, inv := range m.invoices {
		if inv.InvoiceNumber == number {
			copied := *inv
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) PayInvoice(_ context.Context, invoiceID uuid.UUID, amount decimal.Decimal, at time.Time) (*PayInvoiceResult, error) {
	inv, ok := m.invoices[invoiceID]
	if !ok {
		return nil, ErrNotFound
	}
	if err := ledger.ApplyPayment(inv, amount); err != nil {
		return nil, err
	}
	payment := model.Payment{ID: uuid.New(), InvoiceID: invoiceID, Amount: amount, CreatedAt: at}
	m.payments = append(m.payments, payment)
	return &PayInvoiceResult{Invoice: *inv, Payment: payment}, nil
}

func (m *memStore) PaymentsByInvoice(_ context.Context, invoiceID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	for _, p := range m.payments {
		if p.InvoiceID == invoiceID {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

func (m *memStore) PayrollByID(_ context.Context, id uuid.UUID) (*model.Payroll, error) {
	p, ok := m.payrolls[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *memStore) PayrollByMonth(_ context.Context, month string) (*model.Payroll, error) {
	for _, p := range m.payrolls {
		if p.Month == month {
			copied := *p
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) CreatePayroll(_ context.Context, month string, at time.Time) (*model.Payroll, error) {
	for _, p := range m.payrolls {
		if p.Month == month {
			return nil, ErrPayrollMonthExists
		}
	}

	var staff []model.Staff
	for _, s := range m.staff {
		staff = append(staff, s)
	}
	sort.Slice(staff, func(i, j int) bool { return staff[i].Name < staff[j].Name })
	if len(staff) == 0 {
		return nil, ErrNoStaff
	}

	pendingByStaff := map[uuid.UUID]decimal.Decimal{}
	for _, adv := range m.advances {
		if adv.Status == model.AdvanceStatusPending {
			pendingByStaff[adv.StaffID] = pendingByStaff[adv.StaffID].Add(adv.Amount)
		}
	}

	items, totals := ledger.BuildItems(staff, pendingByStaff)
	payroll := model.Payroll{
		ID:            uuid.New(),
		Month:         month,
		TotalGross:    totals.Gross,
		TotalAdvances: totals.Advances,
		TotalNet:      totals.Net,
		Status:        model.PayrollStatusPending,
		CreatedAt:     at,
	}
	for i := range items {
		items[i].ID = uuid.New()
		items[i].PayrollID = payroll.ID
	}
	payroll.Items = items
	m.payrolls[payroll.ID] = &payroll

	copied := payroll
	return &copied, nil
}

func (m *memStore) PayPayroll(_ context.Context, payrollID uuid.UUID, at time.Time) (*PayPayrollResult, error) {
	payroll, ok := m.payrolls[payrollID]
	if !ok {
		return nil, ErrNotFound
	}
	if err := ledger.MarkPaid(payroll, at); err != nil {
		return nil, err
	}

	onPayroll := map[uuid.UUID]bool{}
	for _, item := range payroll.Items {
		onPayroll[item.StaffID] = true
	}
	var deducted int64
	for _, adv := range m.advances {
		if adv.Status == model.AdvanceStatusPending && onPayroll[adv.StaffID] {
			if err := ledger.MarkDeducted(adv, payroll.ID); err != nil {
				return nil, err
			}
			deducted++
		}
	}
	for staffID := range onPayroll {
		m.pendingTotals[staffID] = decimal.Zero
	}

	copied := *payroll
	return &PayPayrollResult{Payroll: copied, DeductedAdvances: deducted}, nil
}

func (m *memStore) ListUnitExpenses(_ context.Context, f ExpenseFilter) ([]model.OperationalExpense, error) {
	var expenses []model.OperationalExpense
	for _, exp := range m.expenses {
		if exp.UnitID != f.UnitID {
			continue
		}
		if len(f.Categories) > 0 && !containsCategory(f.Categories, exp.Category) {
			continue
		}
		if f.From != nil && exp.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !exp.CreatedAt.Before(*f.To) {
			continue
		}
		if !tokensMatch(exp.Description, f.DescriptionTokens, f.TokenVariants) {
			continue
		}
		expenses = append(expenses, exp)
	}
	return expenses, nil
}

func claimNumber(seq int64) string {
	return fmt.Sprintf("CLM-%06d", seq)
}

func containsCategory(set []model.ExpenseCategory, c model.ExpenseCategory) bool {
	for _, candidate := range set {
		if candidate == c {
			return true
		}
	}
	return false
}

func tokensMatch(description string, tokens []string, variants map[string][]string) bool {
	for _, token := range tokens {
		forms := variants[token]
		if len(forms) == 0 {
			forms = []string{token}
		}
		matched := false
		for _, form := range forms {
			if strings.Contains(description, form) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
