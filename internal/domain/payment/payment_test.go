package payment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestTaxFromTaxable_LegsRoundIndependently(t *testing.T) {
	// 9% of 1050 = 94.5 per leg, each rounds half away from zero
	tax := TaxFromTaxable(d("1050"))
	assert.True(t, tax.CGST.Equal(d("95")))
	assert.True(t, tax.SGST.Equal(d("95")))

	tax = TaxFromTaxable(d("1005"))
	assert.True(t, tax.CGST.Equal(d("90")))
}

func TestTaxFromInclusive_BacksOutBase(t *testing.T) {
	tax := TaxFromInclusive(d("1180"))
	assert.True(t, tax.CourseFee.Equal(d("1000")))
	assert.True(t, tax.CGST.Equal(d("90")))
	assert.True(t, tax.SGST.Equal(d("90")))

	// non-round inclusive amounts keep paise precision
	tax = TaxFromInclusive(d("999"))
	assert.True(t, tax.CourseFee.Equal(d("846.61")))
	assert.True(t, tax.CGST.Equal(d("76.19")))
}

func TestNewPayment_ConfirmedMethodIsPaidImmediately(t *testing.T) {
	p, err := NewPayment(uuid.New(), uuid.New(), uuid.New(), "PathStd20260001", 1, d("3334"), d("3334"), MethodUPI)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, p.Status)
	assert.NotNil(t, p.PaidDate)
	assert.True(t, p.VarianceAmount.IsZero())
}

func TestNewPayment_ChequeWaitsForClearance(t *testing.T) {
	p, err := NewPayment(uuid.New(), uuid.New(), uuid.New(), "PathStd20260001", 1, d("3334"), d("3000"), MethodCheque)
	require.NoError(t, err)
	assert.Equal(t, StatusPendingClearance, p.Status)
	assert.Nil(t, p.PaidDate)
	assert.Nil(t, p.BillID)
	assert.True(t, p.VarianceAmount.Equal(d("334")))
}

func TestAssignBill_OnlyOnPaid(t *testing.T) {
	p, err := NewPayment(uuid.New(), uuid.New(), uuid.New(), "PathStd20260001", 1, d("100"), d("100"), MethodCheque)
	require.NoError(t, err)

	err = p.AssignBill("PATH/KOL01/2026-27/000001")
	require.Error(t, err, "uncleared cheque must not get a bill")

	now := time.Now()
	require.NoError(t, p.Clear(now))
	require.NoError(t, p.AssignBill("PATH/KOL01/2026-27/000001"))
	require.NotNil(t, p.BillID)
	assert.Equal(t, "PATH/KOL01/2026-27/000001", *p.BillID)
}

func TestChequeLifecycle(t *testing.T) {
	newCheque := func(t *testing.T) *Payment {
		p, err := NewPayment(uuid.New(), uuid.New(), uuid.New(), "PathStd20260001", 2, d("500"), d("500"), MethodCheque)
		require.NoError(t, err)
		return p
	}

	t.Run("clear", func(t *testing.T) {
		p := newCheque(t)
		require.NoError(t, p.Clear(time.Now()))
		assert.Equal(t, StatusPaid, p.Status)
		assert.NotNil(t, p.PaidDate)
	})

	t.Run("reject", func(t *testing.T) {
		p := newCheque(t)
		require.NoError(t, p.Reject("insufficient funds"))
		assert.Equal(t, StatusRejected, p.Status)
		assert.Equal(t, "insufficient funds", p.Remarks)
	})

	t.Run("cancel", func(t *testing.T) {
		p := newCheque(t)
		require.NoError(t, p.Cancel("payer request"))
		assert.Equal(t, StatusCancelled, p.Status)
	})

	t.Run("terminal states refuse transitions", func(t *testing.T) {
		p := newCheque(t)
		require.NoError(t, p.Reject("bounced"))
		assert.Error(t, p.Clear(time.Now()))
		assert.Error(t, p.Cancel("late"))
	})
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusPaid.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPendingClearance.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
}

func TestMethodString(t *testing.T) {
	assert.Equal(t, "CHEQUE", MethodCheque.String())
	assert.Equal(t, "CASH", MethodCash.String())
	assert.Equal(t, "BANK_TRANSFER", MethodBankTransfer.String())
}
