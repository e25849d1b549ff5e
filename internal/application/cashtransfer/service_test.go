package cashtransfer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/cashtransfer"
	"github.com/pathshala/backend/internal/domain/centre"
	"github.com/pathshala/backend/internal/domain/payment"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockTransferRepo struct{ mock.Mock }

func (m *mockTransferRepo) FindByID(ctx context.Context, id uuid.UUID) (*cashtransfer.CashTransfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashtransfer.CashTransfer), args.Error(1)
}

func (m *mockTransferRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*cashtransfer.CashTransfer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashtransfer.CashTransfer), args.Error(1)
}

func (m *mockTransferRepo) FindByCentre(ctx context.Context, tenantID, centreID uuid.UUID, filter shared.Filter) (*shared.Paginated[cashtransfer.CashTransfer], error) {
	args := m.Called(ctx, tenantID, centreID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[cashtransfer.CashTransfer]), args.Error(1)
}

func (m *mockTransferRepo) Save(ctx context.Context, ct *cashtransfer.CashTransfer) error {
	return m.Called(ctx, ct).Error(0)
}

func (m *mockTransferRepo) NextTransferNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

func (m *mockTransferRepo) SumOutgoing(ctx context.Context, tenantID, centreID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, centreID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockTransferRepo) SumIncoming(ctx context.Context, tenantID, centreID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, centreID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
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

type stubReceipts struct {
	keys map[string][]byte
}

func (s *stubReceipts) Store(ctx context.Context, key string, contentType string, body []byte) (string, error) {
	if s.keys == nil {
		s.keys = map[string][]byte{}
	}
	s.keys[key] = body
	return key, nil
}

func (s *stubReceipts) PresignedURL(ctx context.Context, key string) (string, error) {
	return "https://receipts.test/" + key, nil
}

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type transferFixture struct {
	svc       *Service
	transfers *mockTransferRepo
	centres   *mockCentreRepo
	payments  *mockPaymentRepo
	receipts  *stubReceipts
}

func newTransferFixture() *transferFixture {
	f := &transferFixture{
		transfers: &mockTransferRepo{},
		centres:   &mockCentreRepo{},
		payments:  &mockPaymentRepo{},
		receipts:  &stubReceipts{},
	}
	f.svc = NewService(f.transfers, f.centres, f.payments, f.receipts, passthroughTx{}, zap.NewNop())
	return f
}

func centreWithPassword(t *testing.T, tenantID uuid.UUID, name, code string) *centre.Centre {
	t.Helper()
	ctr, err := centre.NewCentre(tenantID, name, code)
	require.NoError(t, err)
	require.NoError(t, ctr.SetTransferPassword("vault-key-9"))
	return ctr
}

func TestInitiate_IssuesOneTimePassword(t *testing.T) {
	f := newTransferFixture()
	tenantID := uuid.New()
	from := centreWithPassword(t, tenantID, "Kolkata Main", "KOL01")
	to := centreWithPassword(t, tenantID, "Howrah Branch", "HWH01")

	f.centres.On("FindByIDForTenant", mock.Anything, tenantID, from.ID).Return(from, nil)
	f.centres.On("FindByIDForTenant", mock.Anything, tenantID, to.ID).Return(to, nil)
	f.payments.On("SumCashCollected", mock.Anything, tenantID, from.ID).Return(decimal.NewFromInt(20000), nil)
	f.transfers.On("SumOutgoing", mock.Anything, tenantID, from.ID).Return(decimal.Zero, nil)
	f.transfers.On("SumIncoming", mock.Anything, tenantID, from.ID).Return(decimal.Zero, nil)
	f.transfers.On("NextTransferNumber", mock.Anything, tenantID).Return("CT-2026-27-000001", nil)
	f.transfers.On("Save", mock.Anything, mock.Anything).Return(nil)

	ct, password, err := f.svc.Initiate(context.Background(), InitiateCommand{
		TenantID:         tenantID,
		FromCentreID:     from.ID,
		ToCentreID:       to.ID,
		InitiatedBy:      uuid.New(),
		Amount:           decimal.NewFromInt(5000),
		TransferPassword: "vault-key-9",
	})
	require.NoError(t, err)
	assert.Equal(t, cashtransfer.StatusPending, ct.Status)
	assert.Equal(t, "CT-2026-27-000001", ct.TransferNumber)
	assert.Len(t, password, 6)
	assert.Equal(t, password, ct.UniquePassword)
}

func TestInitiate_InsufficientCash(t *testing.T) {
	f := newTransferFixture()
	tenantID := uuid.New()
	from := centreWithPassword(t, tenantID, "Kolkata Main", "KOL01")
	to := centreWithPassword(t, tenantID, "Howrah Branch", "HWH01")

	f.centres.On("FindByIDForTenant", mock.Anything, tenantID, from.ID).Return(from, nil)
	f.centres.On("FindByIDForTenant", mock.Anything, tenantID, to.ID).Return(to, nil)
	f.payments.On("SumCashCollected", mock.Anything, tenantID, from.ID).Return(decimal.NewFromInt(1000), nil)
	f.transfers.On("SumOutgoing", mock.Anything, tenantID, from.ID).Return(decimal.Zero, nil)
	f.transfers.On("SumIncoming", mock.Anything, tenantID, from.ID).Return(decimal.Zero, nil)

	_, _, err := f.svc.Initiate(context.Background(), InitiateCommand{
		TenantID:         tenantID,
		FromCentreID:     from.ID,
		ToCentreID:       to.ID,
		InitiatedBy:      uuid.New(),
		Amount:           decimal.NewFromInt(5000),
		TransferPassword: "vault-key-9",
	})
	require.Error(t, err)
	assert.True(t, shared.HasCode(err, "INSUFFICIENT_CASH"))
	f.transfers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInitiate_WrongCentrePassword(t *testing.T) {
	f := newTransferFixture()
	tenantID := uuid.New()
	from := centreWithPassword(t, tenantID, "Kolkata Main", "KOL01")

	f.centres.On("FindByIDForTenant", mock.Anything, tenantID, from.ID).Return(from, nil)

	_, _, err := f.svc.Initiate(context.Background(), InitiateCommand{
		TenantID:         tenantID,
		FromCentreID:     from.ID,
		ToCentreID:       uuid.New(),
		InitiatedBy:      uuid.New(),
		Amount:           decimal.NewFromInt(100),
		TransferPassword: "guessing",
	})
	require.Error(t, err)
	f.transfers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func pendingTransfer(t *testing.T, tenantID uuid.UUID) *cashtransfer.CashTransfer {
	t.Helper()
	ct, err := cashtransfer.NewCashTransfer(
		tenantID, uuid.New(), uuid.New(), uuid.New(),
		"CT-2026-27-000004", "271828",
		decimal.NewFromInt(3000), "", time.Now(),
	)
	require.NoError(t, err)
	return ct
}

func TestConfirmReceive_PasswordGate(t *testing.T) {
	f := newTransferFixture()
	tenantID := uuid.New()
	ct := pendingTransfer(t, tenantID)

	f.transfers.On("FindByIDForTenant", mock.Anything, tenantID, ct.ID).Return(ct, nil)
	f.transfers.On("Save", mock.Anything, ct).Return(nil)

	_, err := f.svc.ConfirmReceive(context.Background(), tenantID, ct.ID, uuid.New(), "000000")
	require.Error(t, err)
	assert.True(t, shared.HasCode(err, "INVALID_TRANSFER_PASSWORD"))

	got, err := f.svc.ConfirmReceive(context.Background(), tenantID, ct.ID, uuid.New(), "271828")
	require.NoError(t, err)
	assert.Equal(t, cashtransfer.StatusReceived, got.Status)
}

func TestReject_ReturnsCashToSender(t *testing.T) {
	f := newTransferFixture()
	tenantID := uuid.New()
	ct := pendingTransfer(t, tenantID)

	f.transfers.On("FindByIDForTenant", mock.Anything, tenantID, ct.ID).Return(ct, nil)
	f.transfers.On("Save", mock.Anything, ct).Return(nil)

	got, err := f.svc.Reject(context.Background(), tenantID, ct.ID, "seal broken on the cash bag")
	require.NoError(t, err)
	assert.Equal(t, cashtransfer.StatusRejected, got.Status)
	assert.Equal(t, "seal broken on the cash bag", got.Remarks)
}

func TestAttachReceipt_StoresKeyOnTransfer(t *testing.T) {
	f := newTransferFixture()
	tenantID := uuid.New()
	ct := pendingTransfer(t, tenantID)

	f.transfers.On("FindByIDForTenant", mock.Anything, tenantID, ct.ID).Return(ct, nil)
	f.transfers.On("Save", mock.Anything, ct).Return(nil)

	url, err := f.svc.AttachReceipt(context.Background(), tenantID, ct.ID, []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Contains(t, url, ct.TransferNumber)
	assert.NotEmpty(t, ct.ReceiptKey)
	assert.Contains(t, f.receipts.keys, ct.ReceiptKey)
}

func TestCashOnHand_DrawerEquation(t *testing.T) {
	f := newTransferFixture()
	tenantID := uuid.New()
	ctr := centreWithPassword(t, tenantID, "Kolkata Main", "KOL01")
	ctr.OpeningCashBalance = decimal.NewFromInt(100)

	f.centres.On("FindByIDForTenant", mock.Anything, tenantID, ctr.ID).Return(ctr, nil)
	f.payments.On("SumCashCollected", mock.Anything, tenantID, ctr.ID).Return(decimal.NewFromInt(500), nil)
	f.transfers.On("SumOutgoing", mock.Anything, tenantID, ctr.ID).Return(decimal.NewFromInt(300), nil)
	f.transfers.On("SumIncoming", mock.Anything, tenantID, ctr.ID).Return(decimal.NewFromInt(200), nil)

	onHand, err := f.svc.CashOnHand(context.Background(), tenantID, ctr.ID)
	require.NoError(t, err)
	assert.True(t, onHand.Equal(decimal.NewFromInt(500)), "100 + 500 + 200 - 300")
}
