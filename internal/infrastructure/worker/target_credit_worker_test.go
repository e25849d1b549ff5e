package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/application/common"
	"github.com/pathshala/backend/internal/domain/centre"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubTargetRepo is a hand-rolled repository so the test can inject
// conflicts on specific attempts without mock call-order brittleness.
type stubTargetRepo struct {
	mu            sync.Mutex
	target        *centre.SalesTarget
	findErr       error
	conflictTimes int
	saveCalls     int
	saved         []decimal.Decimal
}

func (s *stubTargetRepo) FindActive(ctx context.Context, tenantID, centreID uuid.UUID, at time.Time) (*centre.SalesTarget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	copy := *s.target
	return &copy, nil
}

func (s *stubTargetRepo) Save(ctx context.Context, st *centre.SalesTarget) error {
	return nil
}

func (s *stubTargetRepo) SaveWithLock(ctx context.Context, st *centre.SalesTarget, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	if s.saveCalls <= s.conflictTimes {
		return shared.ErrConcurrencyConflict
	}
	s.saved = append(s.saved, st.AchievedAmount)
	return nil
}

func (s *stubTargetRepo) savedAmounts() []decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]decimal.Decimal, len(s.saved))
	copy(out, s.saved)
	return out
}

func (s *stubTargetRepo) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCalls
}

func newTestTarget(t *testing.T, tenantID, centreID uuid.UUID) *centre.SalesTarget {
	t.Helper()
	now := time.Now()
	st, err := centre.NewSalesTarget(tenantID, centreID, now.AddDate(0, -1, 0), now.AddDate(0, 1, 0), decimal.NewFromInt(500000))
	require.NoError(t, err)
	return st
}

func TestTargetCreditWorkerCreditsActiveTarget(t *testing.T) {
	tenantID := uuid.New()
	centreID := uuid.New()
	repo := &stubTargetRepo{target: newTestTarget(t, tenantID, centreID)}

	w := NewTargetCreditWorker(repo, 8, zap.NewNop())
	w.Start()

	w.Enqueue(common.TargetCredit{
		TenantID: tenantID,
		CentreID: centreID,
		Amount:   decimal.NewFromInt(12500),
	})
	w.Stop(2 * time.Second)

	saved := repo.savedAmounts()
	require.Len(t, saved, 1)
	assert.True(t, saved[0].Equal(decimal.NewFromInt(12500)),
		"achieved amount should equal the credited amount, got %s", saved[0])
}

func TestTargetCreditWorkerRetriesOnConflict(t *testing.T) {
	tenantID := uuid.New()
	centreID := uuid.New()
	repo := &stubTargetRepo{
		target:        newTestTarget(t, tenantID, centreID),
		conflictTimes: 2,
	}

	w := NewTargetCreditWorker(repo, 8, zap.NewNop())
	w.Start()
	w.Enqueue(common.TargetCredit{TenantID: tenantID, CentreID: centreID, Amount: decimal.NewFromInt(100)})
	w.Stop(2 * time.Second)

	assert.Equal(t, 3, repo.calls(), "two conflicts then a success")
	require.Len(t, repo.savedAmounts(), 1)
}

func TestTargetCreditWorkerGivesUpAfterMaxRetries(t *testing.T) {
	tenantID := uuid.New()
	centreID := uuid.New()
	repo := &stubTargetRepo{
		target:        newTestTarget(t, tenantID, centreID),
		conflictTimes: maxCreditRetries,
	}

	w := NewTargetCreditWorker(repo, 8, zap.NewNop())
	w.Start()
	w.Enqueue(common.TargetCredit{TenantID: tenantID, CentreID: centreID, Amount: decimal.NewFromInt(100)})
	w.Stop(2 * time.Second)

	assert.Equal(t, maxCreditRetries, repo.calls())
	assert.Empty(t, repo.savedAmounts(), "credit is dropped after retries are exhausted")
}

func TestTargetCreditWorkerSkipsWhenNoTargetConfigured(t *testing.T) {
	repo := &stubTargetRepo{findErr: shared.ErrNotFound}

	w := NewTargetCreditWorker(repo, 8, zap.NewNop())
	w.Start()
	w.Enqueue(common.TargetCredit{TenantID: uuid.New(), CentreID: uuid.New(), Amount: decimal.NewFromInt(100)})
	w.Stop(2 * time.Second)

	assert.Zero(t, repo.calls())
}

func TestTargetCreditWorkerDrainsQueueOnStop(t *testing.T) {
	tenantID := uuid.New()
	centreID := uuid.New()
	repo := &stubTargetRepo{target: newTestTarget(t, tenantID, centreID)}

	w := NewTargetCreditWorker(repo, 16, zap.NewNop())
	for i := 0; i < 5; i++ {
		w.Enqueue(common.TargetCredit{TenantID: tenantID, CentreID: centreID, Amount: decimal.NewFromInt(10)})
	}
	// start after enqueueing so the credits are still queued when Stop runs
	w.Start()
	w.Stop(2 * time.Second)

	assert.Len(t, repo.savedAmounts(), 5)
}
