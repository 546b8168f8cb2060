package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wessamh/edara-actions/internal/model"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newInvoice(amount int64) *model.Invoice {
	return &model.Invoice{
		Amount:           dec(amount),
		TotalPaid:        decimal.Zero,
		RemainingBalance: dec(amount),
	}
}

func assertInvoiceInvariant(t *testing.T, inv *model.Invoice) {
	t.Helper()
	assert.True(t, inv.TotalPaid.Add(inv.RemainingBalance).Equal(inv.Amount),
		"totalPaid %s + remaining %s != amount %s", inv.TotalPaid, inv.RemainingBalance, inv.Amount)
	assert.Equal(t, inv.RemainingBalance.Sign() <= 0, inv.IsPaid)
}

func TestApplyPaymentPartialThenFull(t *testing.T) {
	inv := newInvoice(1000)

	require.NoError(t, ApplyPayment(inv, dec(400)))
	assert.True(t, inv.RemainingBalance.Equal(dec(600)))
	assert.False(t, inv.IsPaid)
	assertInvoiceInvariant(t, inv)

	require.NoError(t, ApplyPayment(inv, dec(600)))
	assert.True(t, inv.RemainingBalance.IsZero())
	assert.True(t, inv.IsPaid)
	assertInvoiceInvariant(t, inv)

	err := ApplyPayment(inv, dec(1))
	assert.ErrorIs(t, err, ErrInvoiceAlreadyPaid)
	assertInvoiceInvariant(t, inv)
}

func TestApplyPaymentOverpayLeavesTotalsUnchanged(t *testing.T) {
	inv := newInvoice(500)
	require.NoError(t, ApplyPayment(inv, dec(200)))

	err := ApplyPayment(inv, dec(301))
	assert.ErrorIs(t, err, ErrOverpay)
	assert.True(t, inv.TotalPaid.Equal(dec(200)))
	assert.True(t, inv.RemainingBalance.Equal(dec(300)))
	assertInvoiceInvariant(t, inv)
}

func TestApplyPaymentRejectsNonPositive(t *testing.T) {
	inv := newInvoice(100)
	assert.ErrorIs(t, ApplyPayment(inv, decimal.Zero), ErrNonPositiveAmount)
	assert.ErrorIs(t, ApplyPayment(inv, dec(-5)), ErrNonPositiveAmount)
	assert.True(t, inv.TotalPaid.IsZero())
}

func TestFullPaymentAmount(t *testing.T) {
	inv := newInvoice(1000)
	require.NoError(t, ApplyPayment(inv, dec(250)))
	assert.True(t, FullPaymentAmount(inv).Equal(dec(750)))

	require.NoError(t, ApplyPayment(inv, FullPaymentAmount(inv)))
	assert.True(t, inv.IsPaid)
}
