package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	cases := []struct {
		code string
		want int
	}{
		{"NOT_FOUND", http.StatusNotFound},
		{"CONCURRENCY_CONFLICT", http.StatusConflict},
		{"DUPLICATE_PHONE", http.StatusConflict},
		{"STUDENT_DEACTIVATED", http.StatusUnprocessableEntity},
		{"INSUFFICIENT_CASH", http.StatusUnprocessableEntity},
		{"INSTALLMENT_NOT_FOUND", http.StatusNotFound},
		{"INVALID_AMOUNT", http.StatusBadRequest},
		{"INVALID_TRANSFER_PASSWORD", http.StatusBadRequest},
		{"SOME_NEW_BUSINESS_RULE", http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GetHTTPStatus(tc.code), "code %s", tc.code)
	}
}
