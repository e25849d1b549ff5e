package admission

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/payment"
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

func TestComputeFees_GSTLegsRoundedIndependently(t *testing.T) {
	anchor := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		baseFees string
		cgst     string
		total    string
	}{
		// 9% of 1000 = 90 per leg
		{"exact", "1000", "90", "1180"},
		// 9% of 1005 = 90.45, rounds down per leg
		{"fraction below half", "1005", "90", "1185"},
		// 9% of 1050 = 94.5, half rounds away from zero per leg.
		// 18% of 1050 = 189 would round differently if taken as one figure.
		{"half fraction", "1050", "95", "1240"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fees, err := ComputeFees(FeeInput{
				BaseFees:             d(tt.baseFees),
				NumberOfInstallments: 1,
				AdmissionDate:        anchor,
			})
			require.NoError(t, err)
			assert.True(t, fees.CGST.Equal(d(tt.cgst)), "CGST = %s, want %s", fees.CGST, tt.cgst)
			assert.True(t, fees.SGST.Equal(d(tt.cgst)), "SGST = %s, want %s", fees.SGST, tt.cgst)
			assert.True(t, fees.TotalFees.Equal(d(tt.total)), "TotalFees = %s, want %s", fees.TotalFees, tt.total)
		})
	}
}

func TestComputeFees_WaiverClampedAtZero(t *testing.T) {
	fees, err := ComputeFees(FeeInput{
		BaseFees:             d("500"),
		FeeWaiver:            d("800"),
		NumberOfInstallments: 1,
		AdmissionDate:        time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, fees.TaxableAmount.IsZero())
	assert.True(t, fees.CGST.IsZero())
	assert.True(t, fees.TotalFees.IsZero())
}

func TestComputeFees_PreviousBalanceRidesUntaxed(t *testing.T) {
	fees, err := ComputeFees(FeeInput{
		BaseFees:             d("1000"),
		PreviousBalance:      d("250"),
		NumberOfInstallments: 1,
		AdmissionDate:        time.Now(),
	})
	require.NoError(t, err)
	// GST legs are computed on 1000 only; the 250 carry-forward is added after.
	assert.True(t, fees.CGST.Equal(d("90")))
	assert.True(t, fees.TotalFees.Equal(d("1430")))
}

func TestComputeFees_DownPaymentExceedsTotal(t *testing.T) {
	_, err := ComputeFees(FeeInput{
		BaseFees:             d("1000"),
		DownPayment:          d("2000"),
		NumberOfInstallments: 3,
		AdmissionDate:        time.Now(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DOWN_PAYMENT_EXCEEDS_TOTAL")
}

func TestGenerateSchedule_CeilWithLastAbsorbing(t *testing.T) {
	anchor := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	per, schedule := GenerateSchedule(d("1000"), 3, anchor)

	assert.True(t, per.Equal(d("334")))
	require.Len(t, schedule, 3)
	assert.True(t, schedule[0].Amount.Equal(d("334")))
	assert.True(t, schedule[1].Amount.Equal(d("334")))
	assert.True(t, schedule[2].Amount.Equal(d("332")))
	assert.True(t, schedule.SumScheduled().Equal(d("1000")))

	// due dates step monthly from one month after the anchor
	assert.Equal(t, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), schedule[0].DueDate)
	assert.Equal(t, time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), schedule[2].DueDate)
	for i, ins := range schedule {
		assert.Equal(t, i+1, ins.InstallmentNumber)
		assert.Equal(t, InstallmentPending, ins.Status)
	}
}

func TestRedivideSchedule_FloorWithFirstAbsorbing(t *testing.T) {
	anchor := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	schedule := RedivideSchedule(d("1000"), 3, anchor)

	require.Len(t, schedule, 3)
	assert.True(t, schedule[0].Amount.Equal(d("334")))
	assert.True(t, schedule[1].Amount.Equal(d("333")))
	assert.True(t, schedule[2].Amount.Equal(d("333")))
	assert.True(t, schedule.SumScheduled().Equal(d("1000")))
}

func TestGenerateSchedule_EvenSplitHasNoRemainder(t *testing.T) {
	_, schedule := GenerateSchedule(d("900"), 3, time.Now())
	for _, ins := range schedule {
		assert.True(t, ins.Amount.Equal(d("300")))
	}
}

func TestDerivePaymentStatus(t *testing.T) {
	assert.Equal(t, PaymentPending, DerivePaymentStatus(d("0"), d("1000")))
	assert.Equal(t, PaymentPartial, DerivePaymentStatus(d("1"), d("1000")))
	assert.Equal(t, PaymentPartial, DerivePaymentStatus(d("999"), d("1000")))
	assert.Equal(t, PaymentCompleted, DerivePaymentStatus(d("1000"), d("1000")))
	assert.Equal(t, PaymentCompleted, DerivePaymentStatus(d("1200"), d("1000")))
	// a fully waived zero-fee admission owes nothing and completes
	assert.Equal(t, PaymentCompleted, DerivePaymentStatus(d("0"), d("0")))
}

func TestFullyWaivedAdmissionCompletes(t *testing.T) {
	in := FeeInput{
		BaseFees:             d("10000"),
		FeeWaiver:            d("10000"),
		NumberOfInstallments: 1,
		AdmissionDate:        time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	fees, err := ComputeFees(in)
	require.NoError(t, err)
	a, err := NewAdmission(
		uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		"PathStd20260009", "2026-27", TypeRegular,
		in.AdmissionDate, in.AdmissionDate, 12,
		in, fees, payment.MethodCash,
	)
	require.NoError(t, err)

	assert.True(t, a.TotalFees.IsZero())
	assert.Equal(t, PaymentCompleted, a.PaymentStatus)
}
