package payment

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Bill numbering is sequential per (centre code, fiscal year):
//
//	PATH/<centreCode>/<fiscalYearLabel>/<000001>
//
// The fiscal year runs April through March. A legacy global scheme
// (PATH0001, four digits, no centre or year scope) predates it; legacy
// numbers remain parseable but are never issued anymore.

const billIDPrefix = "PATH"

var (
	fiscalBillPattern = regexp.MustCompile(`^PATH/([A-Z0-9]+)/(\d{4}-\d{2})/(\d{6})$`)
	legacyBillPattern = regexp.MustCompile(`^PATH(\d{4})$`)
)

// FiscalYearLabel returns the April-to-March fiscal year label for a date,
// e.g. 2026-07-15 -> "2026-27", 2026-02-01 -> "2025-26".
func FiscalYearLabel(t time.Time) string {
	year := t.Year()
	if t.Month() < time.April {
		year--
	}
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}

// BillPrefix returns the issuance prefix for a centre at a point in time.
func BillPrefix(centreCode string, t time.Time) string {
	return fmt.Sprintf("%s/%s/%s/", billIDPrefix, centreCode, FiscalYearLabel(t))
}

// FormatBillID renders a bill number for the given prefix and sequence.
func FormatBillID(prefix string, seq int) string {
	return fmt.Sprintf("%s%06d", prefix, seq)
}

// ParseBillSequence extracts the numeric sequence from a bill ID in either
// the fiscal-year-scoped or the legacy global format. Returns false for
// anything else.
func ParseBillSequence(billID string) (int, bool) {
	if m := fiscalBillPattern.FindStringSubmatch(billID); m != nil {
		seq, err := strconv.Atoi(m[3])
		if err != nil {
			return 0, false
		}
		return seq, true
	}
	if m := legacyBillPattern.FindStringSubmatch(billID); m != nil {
		seq, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		return seq, true
	}
	return 0, false
}

// NextBillID computes the successor of the last issued bill under a prefix.
// An empty lastBillID starts the sequence at 1.
func NextBillID(prefix, lastBillID string) string {
	seq := 0
	if lastBillID != "" {
		if n, ok := ParseBillSequence(lastBillID); ok {
			seq = n
		}
	}
	return FormatBillID(prefix, seq+1)
}
