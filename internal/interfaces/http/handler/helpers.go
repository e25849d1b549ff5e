package handler

import (
	"time"

	"github.com/pathshala/backend/internal/domain/payment"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// parseAmount parses a decimal amount field, treating empty as zero
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Amount must be a decimal number")
	}
	return d, nil
}

// parseDate parses a "2006-01-02" date field, treating empty as zero time
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_DATE", "Date must be in YYYY-MM-DD format")
	}
	return t, nil
}

// parseMethod validates a payment method string, defaulting empty to cash
func parseMethod(s string) (payment.Method, error) {
	if s == "" {
		return payment.MethodCash, nil
	}
	m := payment.Method(s)
	if !m.IsValid() {
		return "", shared.NewDomainError("INVALID_METHOD", "Unknown payment method")
	}
	return m, nil
}
