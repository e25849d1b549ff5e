package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCourse(t *testing.T) {
	_, err := NewCourse(uuid.New(), "", "NEET-2Y", decimal.NewFromInt(10000), 24)
	assert.Error(t, err)

	_, err = NewCourse(uuid.New(), "NEET Two Year", "NEET-2Y", decimal.NewFromInt(10000), 0)
	assert.Error(t, err)

	c, err := NewCourse(uuid.New(), "NEET Two Year", "NEET-2Y", decimal.NewFromInt(10000), 24)
	require.NoError(t, err)
	assert.True(t, c.IsActive)

	require.NoError(t, c.UpdateFees(decimal.NewFromInt(12000)))
	assert.True(t, c.BaseFees.Equal(decimal.NewFromInt(12000)))
	require.Error(t, c.UpdateFees(decimal.NewFromInt(-1)))
}

func TestMonthlyFeeFor(t *testing.T) {
	c, err := NewCourse(uuid.New(), "Class 12 Board", "CBSE-12", decimal.Zero, 12)
	require.NoError(t, err)
	c.IsBoard = true
	c.MonthlyFee = decimal.NewFromInt(500)
	c.Subjects = Subjects{"Physics", "Chemistry", "Maths"}

	fee := c.MonthlyFeeFor([]string{"Physics", "Maths"})
	assert.True(t, fee.Equal(decimal.NewFromInt(1000)))
	assert.True(t, c.Subjects.Contains("Maths"))
	assert.False(t, c.Subjects.Contains("Biology"))
}
