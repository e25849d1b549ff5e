package student

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentLifecycle(t *testing.T) {
	s, err := NewStudent(uuid.New(), uuid.New(), "Ananya Sen", "9830012345")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, s.Status)

	now := time.Now()
	require.NoError(t, s.Deactivate(now))
	assert.Equal(t, StatusInactive, s.Status)
	require.NotNil(t, s.DeactivatedAt)

	require.Error(t, s.Deactivate(now), "double deactivation")

	require.NoError(t, s.Reactivate())
	assert.Equal(t, StatusActive, s.Status)
	assert.Nil(t, s.DeactivatedAt)
	require.Error(t, s.Reactivate(), "double reactivation")
}

func TestCarryForwardBalance(t *testing.T) {
	s, err := NewStudent(uuid.New(), uuid.New(), "Ananya Sen", "9830012345")
	require.NoError(t, err)

	s.AddCarryForward(decimal.NewFromInt(334), "cheque shortfall with no later installment")
	s.AddCarryForward(decimal.NewFromInt(100), "rounding residue")
	assert.True(t, s.CarryForwardBalance.Equal(decimal.NewFromInt(434)))

	got := s.ConsumeCarryForward()
	assert.True(t, got.Equal(decimal.NewFromInt(434)))
	assert.True(t, s.CarryForwardBalance.IsZero())
}
