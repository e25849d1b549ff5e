package centre

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCentre_CodeValidation(t *testing.T) {
	_, err := NewCentre(uuid.New(), "Kolkata Main", "kol01")
	assert.Error(t, err, "lower case code")

	_, err = NewCentre(uuid.New(), "Kolkata Main", "K")
	assert.Error(t, err, "too short")

	c, err := NewCentre(uuid.New(), "Kolkata Main", "KOL01")
	require.NoError(t, err)
	assert.True(t, c.IsActive)
}

func TestTransferPasswordGate(t *testing.T) {
	c, err := NewCentre(uuid.New(), "Delhi South", "DEL02")
	require.NoError(t, err)

	// no password configured means no transfers at all
	err = c.VerifyTransferPassword("anything")
	require.Error(t, err)

	require.Error(t, c.SetTransferPassword("short"))
	require.NoError(t, c.SetTransferPassword("cash-out-2026"))

	assert.NoError(t, c.VerifyTransferPassword("cash-out-2026"))
	assert.ErrorIs(t, c.VerifyTransferPassword("wrong"), shared.ErrUnauthorized)
}

func TestSalesTarget(t *testing.T) {
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0)

	_, err := NewSalesTarget(uuid.New(), uuid.New(), end, start, decimal.NewFromInt(100000))
	assert.Error(t, err, "inverted period")

	st, err := NewSalesTarget(uuid.New(), uuid.New(), start, end, decimal.NewFromInt(100000))
	require.NoError(t, err)

	require.NoError(t, st.RecordAchievement(decimal.NewFromInt(11800)))
	require.NoError(t, st.RecordAchievement(decimal.NewFromInt(23600)))
	assert.True(t, st.AchievedAmount.Equal(decimal.NewFromInt(35400)))

	assert.True(t, st.Covers(start))
	assert.True(t, st.Covers(end.AddDate(0, 0, -1)))
	assert.False(t, st.Covers(end))
}
