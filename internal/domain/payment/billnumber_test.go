package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFiscalYearLabel(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), "2026-27"},
		{time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC), "2026-27"},
		{time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC), "2026-27"},
		{time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), "2025-26"},
		{time.Date(1999, 12, 1, 0, 0, 0, 0, time.UTC), "1999-00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FiscalYearLabel(tt.date), "date %s", tt.date)
	}
}

func TestBillPrefix(t *testing.T) {
	prefix := BillPrefix("KOL01", time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "PATH/KOL01/2026-27/", prefix)
}

func TestNextBillID(t *testing.T) {
	prefix := "PATH/KOL01/2026-27/"

	assert.Equal(t, "PATH/KOL01/2026-27/000001", NextBillID(prefix, ""))
	assert.Equal(t, "PATH/KOL01/2026-27/000043", NextBillID(prefix, "PATH/KOL01/2026-27/000042"))
	// legacy global numbers seed the new sequence
	assert.Equal(t, "PATH/KOL01/2026-27/000100", NextBillID(prefix, "PATH0099"))
	// garbage restarts at 1 rather than failing issuance
	assert.Equal(t, "PATH/KOL01/2026-27/000001", NextBillID(prefix, "BILL-77"))
}

func TestParseBillSequence(t *testing.T) {
	seq, ok := ParseBillSequence("PATH/DEL02/2025-26/001234")
	assert.True(t, ok)
	assert.Equal(t, 1234, seq)

	seq, ok = ParseBillSequence("PATH0042")
	assert.True(t, ok)
	assert.Equal(t, 42, seq)

	_, ok = ParseBillSequence("PATH/del02/2025-26/000001")
	assert.False(t, ok, "centre codes are upper case")
	_, ok = ParseBillSequence("INV/DEL02/2025-26/000001")
	assert.False(t, ok)
}
