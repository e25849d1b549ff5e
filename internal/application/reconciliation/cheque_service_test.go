package reconciliation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/admission"
	"github.com/pathshala/backend/internal/domain/centre"
	"github.com/pathshala/backend/internal/domain/payment"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/pathshala/backend/internal/domain/student"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPaymentRepo struct{ mock.Mock }

func (m *mockPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *mockPaymentRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *mockPaymentRepo) FindByAdmissionInstallment(ctx context.Context, tenantID, admissionID uuid.UUID, installmentNumber int) (*payment.Payment, error) {
	args := m.Called(ctx, tenantID, admissionID, installmentNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *mockPaymentRepo) FindByAdmissionMonth(ctx context.Context, tenantID, admissionID uuid.UUID, billingMonth string) (*payment.Payment, error) {
	args := m.Called(ctx, tenantID, admissionID, billingMonth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *mockPaymentRepo) FindByAdmission(ctx context.Context, tenantID, admissionID uuid.UUID) ([]payment.Payment, error) {
	args := m.Called(ctx, tenantID, admissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Payment), args.Error(1)
}

func (m *mockPaymentRepo) Save(ctx context.Context, p *payment.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPaymentRepo) NextBillID(ctx context.Context, tenantID uuid.UUID, centreCode string) (string, error) {
	args := m.Called(ctx, tenantID, centreCode)
	return args.String(0), args.Error(1)
}

func (m *mockPaymentRepo) SumCashCollected(ctx context.Context, tenantID, centreID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, centreID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type mockAdmissionRepo struct{ mock.Mock }

func (m *mockAdmissionRepo) FindByID(ctx context.Context, id uuid.UUID) (*admission.Admission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admission.Admission), args.Error(1)
}

func (m *mockAdmissionRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*admission.Admission, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admission.Admission), args.Error(1)
}

func (m *mockAdmissionRepo) FindByAdmissionNumber(ctx context.Context, tenantID uuid.UUID, number string) (*admission.Admission, error) {
	args := m.Called(ctx, tenantID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admission.Admission), args.Error(1)
}

func (m *mockAdmissionRepo) FindByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]admission.Admission, error) {
	args := m.Called(ctx, tenantID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]admission.Admission), args.Error(1)
}

func (m *mockAdmissionRepo) FindByCentre(ctx context.Context, tenantID, centreID uuid.UUID, filter shared.Filter) (*shared.Paginated[admission.Admission], error) {
	args := m.Called(ctx, tenantID, centreID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[admission.Admission]), args.Error(1)
}

func (m *mockAdmissionRepo) Save(ctx context.Context, a *admission.Admission) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAdmissionRepo) SaveWithLock(ctx context.Context, a *admission.Admission, expectedVersion int) error {
	return m.Called(ctx, a, expectedVersion).Error(0)
}

func (m *mockAdmissionRepo) GenerateAdmissionNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

type mockStudentRepo struct{ mock.Mock }

func (m *mockStudentRepo) FindByID(ctx context.Context, id uuid.UUID) (*student.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*student.Student), args.Error(1)
}

func (m *mockStudentRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*student.Student, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*student.Student), args.Error(1)
}

func (m *mockStudentRepo) FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*student.Student, error) {
	args := m.Called(ctx, tenantID, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*student.Student), args.Error(1)
}

func (m *mockStudentRepo) FindByCentre(ctx context.Context, tenantID, centreID uuid.UUID, filter shared.Filter) (*shared.Paginated[student.Student], error) {
	args := m.Called(ctx, tenantID, centreID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[student.Student]), args.Error(1)
}

func (m *mockStudentRepo) Save(ctx context.Context, s *student.Student) error {
	return m.Called(ctx, s).Error(0)
}

type mockCentreRepo struct{ mock.Mock }

func (m *mockCentreRepo) FindByID(ctx context.Context, id uuid.UUID) (*centre.Centre, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*centre.Centre), args.Error(1)
}

func (m *mockCentreRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*centre.Centre, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*centre.Centre), args.Error(1)
}

func (m *mockCentreRepo) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*centre.Centre, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*centre.Centre), args.Error(1)
}

func (m *mockCentreRepo) FindAll(ctx context.Context, tenantID uuid.UUID) ([]centre.Centre, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]centre.Centre), args.Error(1)
}

func (m *mockCentreRepo) Save(ctx context.Context, c *centre.Centre) error {
	return m.Called(ctx, c).Error(0)
}

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	svc        *ChequeService
	payments   *mockPaymentRepo
	admissions *mockAdmissionRepo
	students   *mockStudentRepo
	centres    *mockCentreRepo
}

func newFixture() *fixture {
	f := &fixture{
		payments:   &mockPaymentRepo{},
		admissions: &mockAdmissionRepo{},
		students:   &mockStudentRepo{},
		centres:    &mockCentreRepo{},
	}
	f.svc = NewChequeService(f.payments, f.admissions, f.students, f.centres, passthroughTx{}, zap.NewNop())
	return f
}

// ledgerWithCheque builds an admission whose first installment holds a
// cheque short by 334, folded into installment 2, plus the mirror payment.
func ledgerWithCheque(t *testing.T, tenantID uuid.UUID) (*admission.Admission, *payment.Payment, decimal.Decimal) {
	t.Helper()
	in := admission.FeeInput{
		BaseFees:             decimal.NewFromInt(10000),
		DownPayment:          decimal.NewFromInt(1800),
		NumberOfInstallments: 3,
		AdmissionDate:        time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	fees, err := admission.ComputeFees(in)
	require.NoError(t, err)
	a, err := admission.NewAdmission(
		tenantID, uuid.New(), uuid.New(), uuid.New(),
		"PathStd20260020", "2026-27", admission.TypeRegular,
		in.AdmissionDate, in.AdmissionDate, 24,
		in, fees, payment.MethodCash,
	)
	require.NoError(t, err)

	scheduled := a.PaymentBreakdown[0].Amount
	tendered := scheduled.Sub(decimal.NewFromInt(334))
	variance, folded, err := a.MarkInstallmentPendingClearance(1, tendered, "CHQ-900", in.AdmissionDate)
	require.NoError(t, err)
	require.True(t, folded)

	p, err := payment.NewPayment(tenantID, a.ID, a.CentreID, a.AdmissionNumber, 1, scheduled, tendered, payment.MethodCheque)
	require.NoError(t, err)
	p.ChequeNumber = "CHQ-900"
	return a, p, variance
}

func TestClearCheque_SettlesAndIssuesDeferredBill(t *testing.T) {
	f := newFixture()
	tenantID := uuid.New()
	a, p, _ := ledgerWithCheque(t, tenantID)
	ctr, err := centre.NewCentre(tenantID, "Kolkata Main", "KOL01")
	require.NoError(t, err)
	a.CentreID = ctr.ID
	p.CentreID = ctr.ID

	f.payments.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)
	f.admissions.On("FindByIDForTenant", mock.Anything, tenantID, a.ID).Return(a, nil)
	f.admissions.On("SaveWithLock", mock.Anything, a, mock.Anything).Return(nil)
	f.centres.On("FindByIDForTenant", mock.Anything, tenantID, ctr.ID).Return(ctr, nil)
	f.payments.On("NextBillID", mock.Anything, tenantID, "KOL01").Return("PATH/KOL01/2026-27/000050", nil)
	f.payments.On("Save", mock.Anything, p).Return(nil)

	cleared, err := f.svc.ClearCheque(context.Background(), tenantID, p.ID)
	require.NoError(t, err)

	assert.Equal(t, payment.StatusPaid, cleared.Status)
	require.NotNil(t, cleared.BillID)
	assert.Equal(t, "PATH/KOL01/2026-27/000050", *cleared.BillID)
	assert.Equal(t, admission.InstallmentPaid, a.PaymentBreakdown[0].Status)
}

func TestRejectCheque_ReversesVarianceFold(t *testing.T) {
	f := newFixture()
	tenantID := uuid.New()
	a, p, _ := ledgerWithCheque(t, tenantID)
	originalSecond := a.PaymentBreakdown[1].Amount.Sub(decimal.NewFromInt(334))

	f.payments.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)
	f.admissions.On("FindByIDForTenant", mock.Anything, tenantID, a.ID).Return(a, nil)
	f.admissions.On("SaveWithLock", mock.Anything, a, mock.Anything).Return(nil)
	f.payments.On("Save", mock.Anything, p).Return(nil)

	rejected, err := f.svc.RejectCheque(context.Background(), tenantID, p.ID, "insufficient funds")
	require.NoError(t, err)

	assert.Equal(t, payment.StatusRejected, rejected.Status)
	assert.Nil(t, rejected.BillID)
	assert.True(t, a.PaymentBreakdown[0].PaidAmount.IsZero())
	assert.True(t, a.PaymentBreakdown[1].Amount.Equal(originalSecond))
	f.payments.AssertNotCalled(t, "NextBillID", mock.Anything, mock.Anything, mock.Anything)
	f.students.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRejectCheque_SettledFoldCreditsStudent(t *testing.T) {
	f := newFixture()
	tenantID := uuid.New()
	a, p, variance := ledgerWithCheque(t, tenantID)
	stu, err := student.NewStudent(tenantID, uuid.New(), "Ananya Sen", "9830012345")
	require.NoError(t, err)
	a.StudentID = stu.ID

	// installment 2 (carrying the fold) settles before the bank answers
	_, err = a.ApplyInstallmentPayment(2, a.PaymentBreakdown[1].Amount, payment.MethodCash, "", "", time.Now())
	require.NoError(t, err)

	f.payments.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)
	f.admissions.On("FindByIDForTenant", mock.Anything, tenantID, a.ID).Return(a, nil)
	f.admissions.On("SaveWithLock", mock.Anything, a, mock.Anything).Return(nil)
	f.students.On("FindByIDForTenant", mock.Anything, tenantID, stu.ID).Return(stu, nil)
	f.students.On("Save", mock.Anything, stu).Return(nil)
	f.payments.On("Save", mock.Anything, p).Return(nil)

	_, err = f.svc.RejectCheque(context.Background(), tenantID, p.ID, "account closed")
	require.NoError(t, err)

	// the student paid the fold inside installment 2 and now owes
	// installment 1 in full again, so the fold comes back as a credit
	assert.True(t, stu.CarryForwardBalance.Equal(variance.Neg()),
		"settled fold must credit the student, got %s", stu.CarryForwardBalance)
}

func TestRejectCheque_CarryForwardShortfallTakenBack(t *testing.T) {
	f := newFixture()
	tenantID := uuid.New()
	in := admission.FeeInput{
		BaseFees:             decimal.NewFromInt(10000),
		DownPayment:          decimal.NewFromInt(1800),
		NumberOfInstallments: 3,
		AdmissionDate:        time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	fees, err := admission.ComputeFees(in)
	require.NoError(t, err)
	a, err := admission.NewAdmission(
		tenantID, uuid.New(), uuid.New(), uuid.New(),
		"PathStd20260022", "2026-27", admission.TypeRegular,
		in.AdmissionDate, in.AdmissionDate, 24,
		in, fees, payment.MethodCash,
	)
	require.NoError(t, err)
	stu, err := student.NewStudent(tenantID, uuid.New(), "Ananya Sen", "9830012345")
	require.NoError(t, err)
	a.StudentID = stu.ID

	// last installment short by 334: nowhere to fold, the shortfall was
	// parked on the student at intake
	shortfall := decimal.NewFromInt(334)
	last := a.PaymentBreakdown[2]
	variance, folded, err := a.MarkInstallmentPendingClearance(3, last.Amount.Sub(shortfall), "CHQ-901", in.AdmissionDate)
	require.NoError(t, err)
	require.False(t, folded)
	stu.AddCarryForward(variance, "cheque shortfall")

	p, err := payment.NewPayment(tenantID, a.ID, a.CentreID, a.AdmissionNumber, 3, last.Amount, last.Amount.Sub(shortfall), payment.MethodCheque)
	require.NoError(t, err)
	p.ChequeNumber = "CHQ-901"
	p.IsCarryForward = true

	f.payments.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)
	f.admissions.On("FindByIDForTenant", mock.Anything, tenantID, a.ID).Return(a, nil)
	f.admissions.On("SaveWithLock", mock.Anything, a, mock.Anything).Return(nil)
	f.students.On("FindByIDForTenant", mock.Anything, tenantID, stu.ID).Return(stu, nil)
	f.students.On("Save", mock.Anything, stu).Return(nil)
	f.payments.On("Save", mock.Anything, p).Return(nil)

	_, err = f.svc.RejectCheque(context.Background(), tenantID, p.ID, "insufficient funds")
	require.NoError(t, err)

	// the bounced cheque reinstates the full installment, so the parked
	// shortfall comes off the student completely
	assert.True(t, stu.CarryForwardBalance.IsZero(),
		"parked shortfall must be taken back, got %s", stu.CarryForwardBalance)
	assert.True(t, a.PaymentBreakdown[2].PaidAmount.IsZero())
	assert.True(t, a.PaymentBreakdown[2].Amount.Equal(last.Amount))
}

func TestCancelCheque_DownPayment(t *testing.T) {
	f := newFixture()
	tenantID := uuid.New()

	in := admission.FeeInput{
		BaseFees:             decimal.NewFromInt(10000),
		DownPayment:          decimal.NewFromInt(1800),
		NumberOfInstallments: 2,
		AdmissionDate:        time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	fees, err := admission.ComputeFees(in)
	require.NoError(t, err)
	a, err := admission.NewAdmission(
		tenantID, uuid.New(), uuid.New(), uuid.New(),
		"PathStd20260021", "2026-27", admission.TypeRegular,
		in.AdmissionDate, in.AdmissionDate, 24,
		in, fees, payment.MethodCheque,
	)
	require.NoError(t, err)
	require.Equal(t, admission.InstallmentPendingClearance, a.DownPaymentStatus)

	p, err := payment.NewPayment(tenantID, a.ID, a.CentreID, a.AdmissionNumber, 0, in.DownPayment, in.DownPayment, payment.MethodCheque)
	require.NoError(t, err)

	f.payments.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)
	f.admissions.On("FindByIDForTenant", mock.Anything, tenantID, a.ID).Return(a, nil)
	f.admissions.On("SaveWithLock", mock.Anything, a, mock.Anything).Return(nil)
	f.payments.On("Save", mock.Anything, p).Return(nil)

	cancelled, err := f.svc.CancelCheque(context.Background(), tenantID, p.ID, "payer request")
	require.NoError(t, err)

	assert.Equal(t, payment.StatusCancelled, cancelled.Status)
	assert.Equal(t, admission.InstallmentPending, a.DownPaymentStatus)
	assert.True(t, a.TotalPaidAmount.IsZero())
}

// boardLedgerWithCheque builds a board admission whose April month holds a
// parked cheque, plus the mirror payment carrying the billing month.
func boardLedgerWithCheque(t *testing.T, tenantID uuid.UUID) (*admission.Admission, *payment.Payment) {
	t.Helper()
	anchor := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	in := admission.FeeInput{BaseFees: decimal.Zero, NumberOfInstallments: 1, AdmissionDate: anchor}
	fees, err := admission.ComputeFees(in)
	require.NoError(t, err)
	a, err := admission.NewAdmission(
		tenantID, uuid.New(), uuid.New(), uuid.New(),
		"PathStd20260023", "2026-27", admission.TypeBoard,
		anchor, anchor, 4,
		in, fees, payment.MethodCash,
	)
	require.NoError(t, err)
	require.NoError(t, a.ApplyMonthlyBilling("2026-04", []string{"Physics"}, decimal.NewFromInt(500), anchor))

	bill, err := a.PayMonthlyBill("2026-04", payment.MethodCheque, anchor)
	require.NoError(t, err)
	require.False(t, bill.IsPaid)

	p, err := payment.NewPayment(tenantID, a.ID, a.CentreID, a.AdmissionNumber, 0, bill.TotalAmount, bill.TotalAmount, payment.MethodCheque)
	require.NoError(t, err)
	p.BillingMonth = "2026-04"
	p.ChequeNumber = "CHQ-902"
	return a, p
}

func TestClearCheque_BoardMonthSettlesInLockstep(t *testing.T) {
	f := newFixture()
	tenantID := uuid.New()
	a, p := boardLedgerWithCheque(t, tenantID)
	ctr, err := centre.NewCentre(tenantID, "Kolkata Main", "KOL01")
	require.NoError(t, err)
	a.CentreID = ctr.ID
	p.CentreID = ctr.ID

	f.payments.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)
	f.admissions.On("FindByIDForTenant", mock.Anything, tenantID, a.ID).Return(a, nil)
	f.admissions.On("SaveWithLock", mock.Anything, a, mock.Anything).Return(nil)
	f.centres.On("FindByIDForTenant", mock.Anything, tenantID, ctr.ID).Return(ctr, nil)
	f.payments.On("NextBillID", mock.Anything, tenantID, "KOL01").Return("PATH/KOL01/2026-27/000051", nil)
	f.payments.On("Save", mock.Anything, p).Return(nil)

	cleared, err := f.svc.ClearCheque(context.Background(), tenantID, p.ID)
	require.NoError(t, err)

	assert.Equal(t, payment.StatusPaid, cleared.Status)
	require.NotNil(t, cleared.BillID)

	april := a.MonthlyBills.Find("2026-04")
	require.NotNil(t, april)
	assert.True(t, april.IsPaid, "month settles when its cheque clears")
	assert.True(t, a.TotalPaidAmount.Equal(april.TotalAmount))
}

func TestRejectCheque_BoardMonthReopens(t *testing.T) {
	f := newFixture()
	tenantID := uuid.New()
	a, p := boardLedgerWithCheque(t, tenantID)

	f.payments.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)
	f.admissions.On("FindByIDForTenant", mock.Anything, tenantID, a.ID).Return(a, nil)
	f.admissions.On("SaveWithLock", mock.Anything, a, mock.Anything).Return(nil)
	f.payments.On("Save", mock.Anything, p).Return(nil)

	rejected, err := f.svc.RejectCheque(context.Background(), tenantID, p.ID, "insufficient funds")
	require.NoError(t, err)

	assert.Equal(t, payment.StatusRejected, rejected.Status)
	april := a.MonthlyBills.Find("2026-04")
	require.NotNil(t, april)
	assert.False(t, april.IsPaid)
	assert.Empty(t, april.PaymentMethod, "the bounced month accepts a fresh tender")
	assert.True(t, a.TotalPaidAmount.IsZero())
	f.students.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
